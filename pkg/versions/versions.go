// Package versions orders and groups raw version strings for display.
//
// Registries return version lists in wildly different shapes: plain semver,
// "v"-prefixed tags, dates, codenames, or the literal marker "latest".
// This package imposes a total order (numeric versions compared component
// by component, everything else sorted together before them) and condenses
// long lists into major.minor buckets for compact output.
package versions

import (
	"regexp"
	"sort"
	"strconv"
	"strings"
)

// Latest is the marker token excluded from numeric ordering and appended
// last in any display output.
const Latest = "latest"

var bucketRE = regexp.MustCompile(`^(\d+\.\d+)`)

// sortKey parses a version into its numeric components. The leading "v" or
// "V" is stripped first. A version whose dot segments are not all digits
// gets the key [0], so non-numeric versions sort together before any
// numeric version and keep their input order among themselves.
func sortKey(v string) []int {
	s := strings.TrimPrefix(strings.TrimPrefix(v, "v"), "V")
	segs := strings.Split(s, ".")
	key := make([]int, 0, len(segs))
	for _, seg := range segs {
		n, err := strconv.Atoi(seg)
		if err != nil {
			return []int{0}
		}
		key = append(key, n)
	}
	return key
}

// compare orders component sequences lexicographically; a shorter sequence
// sorts before a longer one with the same prefix (1.2 < 1.2.0).
func compare(a, b []int) int {
	for i := range min(len(a), len(b)) {
		if a[i] != b[i] {
			if a[i] < b[i] {
				return -1
			}
			return 1
		}
	}
	switch {
	case len(a) < len(b):
		return -1
	case len(a) > len(b):
		return 1
	}
	return 0
}

// Sort returns a stably sorted copy of versions under the numeric component
// order. The input is not modified. The "latest" marker, if present, is
// sorted like any non-numeric version; use Split first to handle it.
func Sort(vs []string) []string {
	out := make([]string, len(vs))
	copy(out, vs)
	keys := make(map[string][]int, len(out))
	for _, v := range out {
		keys[v] = sortKey(v)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return compare(keys[out[i]], keys[out[j]]) < 0
	})
	return out
}

// Split separates the literal "latest" marker from the real versions.
// The returned slice preserves input order and is always a fresh copy.
func Split(vs []string) (rest []string, hasLatest bool) {
	rest = make([]string, 0, len(vs))
	for _, v := range vs {
		if v == Latest {
			hasLatest = true
			continue
		}
		rest = append(rest, v)
	}
	return rest, hasLatest
}

// Newest returns the highest version under the numeric order, ignoring the
// "latest" marker. Returns "" for an empty list.
func Newest(vs []string) string {
	rest, _ := Split(vs)
	if len(rest) == 0 {
		return ""
	}
	sorted := Sort(rest)
	return sorted[len(sorted)-1]
}

// Bucket computes the major.minor grouping key for a version: the leading
// digits.digits prefix of the lowercased, v-stripped string. Versions with
// no such prefix bucket under the whole (lowercased, v-stripped) string.
func Bucket(v string) string {
	s := strings.TrimPrefix(strings.ToLower(v), "v")
	if m := bucketRE.FindString(s); m != "" {
		return m
	}
	return s
}

// Buckets groups versions by their major.minor key. The "latest" marker is
// never bucketed; strip it with Split first.
func Buckets(vs []string) map[string][]string {
	groups := make(map[string][]string)
	for _, v := range vs {
		b := Bucket(v)
		groups[b] = append(groups[b], v)
	}
	return groups
}

// Format condenses a raw version list into a grouped display string.
//
// Buckets are emitted in ascending key order. A bucket holding exactly one
// version equal to its own key renders bare ("2.3"); any other bucket
// renders as a brace-delimited sorted list ("{2.3.1, 2.3.2}"). Buckets are
// joined with ", ", and a trailing ", latest" is appended when the input
// contained the marker.
//
//	Format([]string{"1.0.0", "1.0.1", "1.1.0", "latest"})
//	  == "{1.0.0, 1.0.1}, {1.1.0}, latest"
func Format(vs []string) string {
	rest, hasLatest := Split(vs)
	groups := Buckets(rest)

	keys := make([]string, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys)+1)
	for _, k := range keys {
		members := Sort(groups[k])
		if len(members) == 1 && members[0] == k {
			parts = append(parts, k)
			continue
		}
		parts = append(parts, "{"+strings.Join(members, ", ")+"}")
	}
	if hasLatest {
		parts = append(parts, Latest)
	}
	return strings.Join(parts, ", ")
}

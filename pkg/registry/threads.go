package registry

import (
	"regexp"
	"sort"
	"strings"
)

var threadKeywords = []string{
	"-t", "--threads", "-threads", "--thread", "-thread",
	"--nthreads", "-nthreads", "--num-threads", "-n",
	"--cores", "-cores", "--num-cores",
}

var threadPatterns = []*regexp.Regexp{
	regexp.MustCompile(`-t\s*\d+`),
	regexp.MustCompile(`--threads\s*\d+`),
	regexp.MustCompile(`--thread\s*\d+`),
	regexp.MustCompile(`-n\s*\d+`),
	regexp.MustCompile(`--num-threads\s*\d+`),
	regexp.MustCompile(`--cores\s*\d+`),
}

var threadIndicators = []string{
	"parallel", "multithread", "multi-thread", "multi thread",
	"concurrent", "cpu cores", "processor cores",
}

// ScanThreadFlags analyzes a package description and readme for threading
// support. It reports whether the text mentions parallelism at all and
// collects the concrete thread-count flags it found (sorted, deduplicated).
func ScanThreadFlags(description, readme string) (bool, []string) {
	text := strings.ToLower(description) + " " + strings.ToLower(readme)

	found := make(map[string]bool)
	for _, kw := range threadKeywords {
		if strings.Contains(text, kw) {
			found[kw] = true
		}
	}
	for _, re := range threadPatterns {
		for _, m := range re.FindAllString(text, -1) {
			found[m] = true
		}
	}

	hasThreading := len(found) > 0
	for _, word := range threadIndicators {
		if strings.Contains(text, word) {
			hasThreading = true
			break
		}
	}

	if len(found) == 0 {
		return hasThreading, nil
	}
	flags := make([]string, 0, len(found))
	for f := range found {
		flags = append(flags, f)
	}
	sort.Strings(flags)
	return hasThreading, flags
}

package cli

import (
	"fmt"
	"strings"

	"github.com/pkgscout/pkgscout/pkg/search"
	"github.com/pkgscout/pkgscout/pkg/versions"
)

// renderReport prints the search report in query order. Duplicate queries
// share one report entry and are printed once.
func renderReport(queries []string, report search.Report) {
	for i, q := range dedupe(queries) {
		if i > 0 {
			printNewline()
		}
		records := report[q]
		if len(records) == 0 {
			printError("%s %s", styleRepo.Render(q), StyleDim.Render("not found in any repository"))
			continue
		}
		found := fmt.Sprintf("found in %d %s", len(records), plural(len(records), "repository", "repositories"))
		printSuccess("%s %s", styleRepo.Render(q), StyleDim.Render(found))
		for _, pkg := range records {
			printRecord(pkg)
		}
	}
}

// printRecord prints one accepted record under its query header.
func printRecord(pkg *search.Package) {
	printNewline()
	line := "  " + styleRepo.Render(pkg.Repository)
	if pkg.URL != "" {
		line += " " + StyleDim.Render("·") + " " + StyleLink.Render(pkg.URL)
	}
	fmt.Println(line)

	if pkg.LatestVersion != "" {
		printKeyValue("latest", pkg.LatestVersion)
	}
	if pkg.License != "" {
		printKeyValue("license", pkg.License)
	}
	if summary := versionSummary(pkg.Versions); summary != "" {
		printKeyValue("versions", summary)
	}
	if pkg.ThreadSupport {
		if len(pkg.ThreadFlags) > 0 {
			printKeyValue("threads", strings.Join(pkg.ThreadFlags, ", "))
		} else {
			printKeyValue("threads", "mentioned in description")
		}
	}
	if pkg.Description != "" {
		printKeyValue("about", firstLine(pkg.Description))
	}
}

// versionSummary condenses the raw version list into "N versions: <groups>".
func versionSummary(vs []string) string {
	rest, hasLatest := versions.Split(vs)
	if len(rest) == 0 && !hasLatest {
		return ""
	}
	if len(rest) == 0 {
		return versions.Latest
	}
	return fmt.Sprintf("%d (%s)", len(rest), versions.Format(vs))
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

// dedupe drops repeated queries, keeping first-seen order.
func dedupe(queries []string) []string {
	seen := make(map[string]bool, len(queries))
	out := make([]string, 0, len(queries))
	for _, q := range queries {
		if !seen[q] {
			seen[q] = true
			out = append(out, q)
		}
	}
	return out
}

package search

import "github.com/pkgscout/pkgscout/pkg/normalize"

// DefaultGenericNames are display names that registries return as their own
// catch-all landing-page identity when they cannot disambiguate a query.
// Such records describe the registry, not a package, and are filtered out.
var DefaultGenericNames = []string{"BioLib"}

// Filter decides whether a candidate record carries enough information to
// be added to the report.
type Filter struct {
	generics map[string]bool
}

// NewFilter creates a filter that rejects the given generic marker names
// (compared by normalized key) in addition to the low-information and
// duplicate rules.
func NewFilter(genericNames []string) *Filter {
	generics := make(map[string]bool, len(genericNames))
	for _, n := range genericNames {
		generics[normalize.Key(n)] = true
	}
	return &Filter{generics: generics}
}

// Accept checks pkg against the records already accepted for the same
// query. When the record is rejected, the returned reason names the rule
// that fired (for logging); accepted records return ("", true).
//
// Rules, in order:
//   - a record with neither versions nor a description is a placeholder
//   - a record whose name normalizes to a generic marker is the registry
//     talking about itself
//   - a record matching an accepted record on both normalized name and
//     normalized repository label is a duplicate; first-accepted wins
func (f *Filter) Accept(pkg *Package, accepted []*Package) (string, bool) {
	if len(pkg.Versions) == 0 && pkg.Description == "" {
		return "no versions or description", false
	}

	nameKey := normalize.Key(pkg.Name)
	if f.generics[nameKey] {
		return "generic placeholder name", false
	}

	repoKey := normalize.Key(pkg.Repository)
	for _, a := range accepted {
		if normalize.Key(a.Name) == nameKey && normalize.Key(a.Repository) == repoKey {
			return "duplicate of already accepted record", false
		}
	}
	return "", true
}

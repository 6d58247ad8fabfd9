package search

import "testing"

func TestFilter_RejectsLowInformation(t *testing.T) {
	f := NewFilter(DefaultGenericNames)

	reason, ok := f.Accept(&Package{Name: "ghost", Repository: "PyPI"}, nil)
	if ok {
		t.Fatal("record with no versions and no description should be rejected")
	}
	if reason == "" {
		t.Error("rejection should carry a reason")
	}
}

func TestFilter_AcceptsVersionsOnly(t *testing.T) {
	f := NewFilter(DefaultGenericNames)
	if _, ok := f.Accept(&Package{Name: "bwa", Repository: "Bioconda", Versions: []string{"0.7.17"}}, nil); !ok {
		t.Error("record with versions but no description should be accepted")
	}
}

func TestFilter_AcceptsDescriptionOnly(t *testing.T) {
	f := NewFilter(DefaultGenericNames)
	if _, ok := f.Accept(&Package{Name: "bwa", Repository: "CRAN", Description: "aligner"}, nil); !ok {
		t.Error("record with description but no versions should be accepted")
	}
}

func TestFilter_RejectsGenericMarker(t *testing.T) {
	f := NewFilter(DefaultGenericNames)
	pkg := &Package{Name: "BioLib", Repository: "BioLib", Description: "Run bioinformatics online"}
	if _, ok := f.Accept(pkg, nil); ok {
		t.Error("generic landing-page record should be rejected")
	}

	// Case variants normalize to the same marker.
	pkg.Name = "biolib"
	if _, ok := f.Accept(pkg, nil); ok {
		t.Error("lowercased generic marker should be rejected too")
	}
}

func TestFilter_RejectsDuplicates(t *testing.T) {
	f := NewFilter(DefaultGenericNames)
	accepted := []*Package{{Name: "Flask", Repository: "PyPI", Versions: []string{"2.0"}}}

	dup := &Package{Name: "flask", Repository: "pypi", Versions: []string{"2.1"}}
	if _, ok := f.Accept(dup, accepted); ok {
		t.Error("same normalized name and repository should be a duplicate")
	}
}

func TestFilter_SameNameDifferentRepoIsNotDuplicate(t *testing.T) {
	f := NewFilter(DefaultGenericNames)
	accepted := []*Package{{Name: "Flask", Repository: "PyPI", Versions: []string{"2.0"}}}

	other := &Package{Name: "Flask", Repository: "Conda-forge", Versions: []string{"2.0"}}
	if _, ok := f.Accept(other, accepted); !ok {
		t.Error("same name in a different repository must be kept")
	}
}

func TestFilter_SameRepoDifferentNameIsNotDuplicate(t *testing.T) {
	f := NewFilter(DefaultGenericNames)
	accepted := []*Package{{Name: "Flask", Repository: "PyPI", Versions: []string{"2.0"}}}

	other := &Package{Name: "Django", Repository: "PyPI", Versions: []string{"4.0"}}
	if _, ok := f.Accept(other, accepted); !ok {
		t.Error("different name in the same repository must be kept")
	}
}

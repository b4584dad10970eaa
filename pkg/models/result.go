package models

import "sort"

// EntryPair holds the two same-path entries that matched
type EntryPair struct {
	A Entry
	B Entry
}

// Path returns the shared relative path
func (p EntryPair) Path() string {
	return p.A.RelativePath
}

// ComparisonResult is the three-way partition produced in hierarchy mode
type ComparisonResult struct {
	// AOnly holds entries found only in A, plus A's side of same-path mismatches
	AOnly []Entry

	// BOnly holds entries found only in B, plus B's side of same-path mismatches
	BOnly []Entry

	// Both holds pairs that matched under the strategy
	Both []EntryPair

	// Warnings collects non-fatal per-entry problems
	Warnings []Warning
}

// Sort orders every set lexicographically by relative path
func (r *ComparisonResult) Sort() {
	sortEntries(r.AOnly)
	sortEntries(r.BOnly)
	sort.SliceStable(r.Both, func(i, j int) bool {
		return r.Both[i].Path() < r.Both[j].Path()
	})
}

// Paths returns the relative paths of the three sets
func (r *ComparisonResult) Paths() (aOnly, bOnly, both []string) {
	aOnly = make([]string, 0, len(r.AOnly))
	for _, e := range r.AOnly {
		aOnly = append(aOnly, e.RelativePath)
	}
	bOnly = make([]string, 0, len(r.BOnly))
	for _, e := range r.BOnly {
		bOnly = append(bOnly, e.RelativePath)
	}
	both = make([]string, 0, len(r.Both))
	for _, p := range r.Both {
		both = append(both, p.Path())
	}
	return aOnly, bOnly, both
}

func sortEntries(entries []Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].RelativePath < entries[j].RelativePath
	})
}

// GroupClass classifies a flat group by which roots contribute to it
type GroupClass string

const (
	// ClassAOnly means every occurrence is in A
	ClassAOnly GroupClass = "a-only"
	// ClassBOnly means every occurrence is in B
	ClassBOnly GroupClass = "b-only"
	// ClassMatched means both roots hold the content
	ClassMatched GroupClass = "matched"
)

// Occurrence is one file holding a group's content
type Occurrence struct {
	Root         RootID `json:"root"`
	RelativePath string `json:"path"`
	Size         int64  `json:"size"`
}

// FlatGroup is every occurrence sharing one content signature
type FlatGroup struct {
	Signature   string       `json:"signature"`
	Algorithm   string       `json:"algorithm"`
	Size        int64        `json:"size"`
	Occurrences []Occurrence `json:"occurrences"`
}

// Count returns occurrences in the given root
func (g FlatGroup) Count(root RootID) int {
	n := 0
	for _, o := range g.Occurrences {
		if o.Root == root {
			n++
		}
	}
	return n
}

// InA reports whether A holds this content
func (g FlatGroup) InA() bool { return g.Count(RootA) > 0 }

// InB reports whether B holds this content
func (g FlatGroup) InB() bool { return g.Count(RootB) > 0 }

// Class returns a-only, b-only or matched
func (g FlatGroup) Class() GroupClass {
	switch a, b := g.InA(), g.InB(); {
	case a && b:
		return ClassMatched
	case a:
		return ClassAOnly
	default:
		return ClassBOnly
	}
}

// IsDuplicate reports whether one root holds the content more than once.
// It is a modifier and combines with any Class.
func (g FlatGroup) IsDuplicate() bool {
	return g.Count(RootA) > 1 || g.Count(RootB) > 1
}

// FilesInA lists A's relative paths in traversal order
func (g FlatGroup) FilesInA() []string { return g.files(RootA) }

// FilesInB lists B's relative paths in traversal order
func (g FlatGroup) FilesInB() []string { return g.files(RootB) }

func (g FlatGroup) files(root RootID) []string {
	var out []string
	for _, o := range g.Occurrences {
		if o.Root == root {
			out = append(out, o.RelativePath)
		}
	}
	return out
}

// FlatResult is the content-grouped output of flat mode
type FlatResult struct {
	Groups           []FlatGroup
	TotalFilesA      int
	TotalFilesB      int
	UniqueSignatures int
	DuplicateGroups  int
	Warnings         []Warning
}

// CountClass returns how many groups fall into class
func (r *FlatResult) CountClass(class GroupClass) int {
	n := 0
	for _, g := range r.Groups {
		if g.Class() == class {
			n++
		}
	}
	return n
}

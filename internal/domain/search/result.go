package search

// Result is the full outcome of one search: the admitted candidates in
// final score order, plus optional folder-level aggregation.
type Result struct {
	Candidates []Candidate
	Folders    []FolderGroup
}

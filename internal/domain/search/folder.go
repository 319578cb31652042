package search

// FolderGroup summarizes matches that share a folder path.
type FolderGroup struct {
	FolderPath string
	MatchCount int
	// Samples holds up to 3 representative file names from the folder.
	Samples []string
}

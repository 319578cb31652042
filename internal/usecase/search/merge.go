package search

import domsearch "github.com/openhearth/archivesearch/internal/domain/search"

// MergeChannels interleaves two ranked candidate lists (lexical first at
// each position), dropping duplicates by file path on first occurrence.
// The result holds at most maxResults candidates.
func MergeChannels(lexical, semantic []domsearch.Candidate, maxResults int) []domsearch.Candidate {
	if maxResults <= 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(lexical)+len(semantic))
	merged := make([]domsearch.Candidate, 0, maxResults)
	appendUnique := func(c domsearch.Candidate) bool {
		if _, ok := seen[c.Document.FilePath]; ok {
			return false
		}
		seen[c.Document.FilePath] = struct{}{}
		merged = append(merged, c)
		return len(merged) >= maxResults
	}
	for i := 0; i < len(lexical) || i < len(semantic); i++ {
		if i < len(lexical) {
			if appendUnique(lexical[i]) {
				return merged
			}
		}
		if i < len(semantic) {
			if appendUnique(semantic[i]) {
				return merged
			}
		}
	}
	return merged
}

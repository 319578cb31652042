package search

import (
	"sort"

	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// maxFolderSamples bounds how many example documents each folder group
// carries back to the caller.
const maxFolderSamples = 3

// AggregateFolders groups admitted candidates by their folder path and
// returns groups that reach minMatches hits, ordered by descending match
// count (ties broken by folder path). Candidates without a folder path are
// ignored. Samples preserve the candidates' score order.
func AggregateFolders(pool []domsearch.Candidate, minMatches int) []domsearch.FolderGroup {
	if minMatches <= 0 {
		minMatches = 1
	}
	groups := make(map[string]*domsearch.FolderGroup)
	order := make([]string, 0)
	for _, c := range pool {
		folder := c.Document.FolderPath
		if folder == "" {
			continue
		}
		g, ok := groups[folder]
		if !ok {
			g = &domsearch.FolderGroup{FolderPath: folder}
			groups[folder] = g
			order = append(order, folder)
		}
		g.MatchCount++
		if len(g.Samples) < maxFolderSamples {
			g.Samples = append(g.Samples, c.Document.FileName)
		}
	}
	out := make([]domsearch.FolderGroup, 0, len(order))
	for _, folder := range order {
		if g := groups[folder]; g.MatchCount >= minMatches {
			out = append(out, *g)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].MatchCount != out[j].MatchCount {
			return out[i].MatchCount > out[j].MatchCount
		}
		return out[i].FolderPath < out[j].FolderPath
	})
	return out
}

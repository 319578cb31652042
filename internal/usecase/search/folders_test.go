package search

import (
	"fmt"
	"testing"

	"github.com/openhearth/archivesearch/internal/domain"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

func folderCand(fileName, folder string) domsearch.Candidate {
	return domsearch.Candidate{
		Document: domain.Document{
			FilePath:   folder + "/" + fileName,
			FileName:   fileName,
			FolderPath: folder,
		},
	}
}

func TestAggregateFolders_MinMatches(t *testing.T) {
	pool := []domsearch.Candidate{
		folderCand("a.pdf", "Archive > 1960s"),
		folderCand("b.pdf", "Archive > 1960s"),
		folderCand("c.pdf", "Archive > 1960s"),
		folderCand("d.pdf", "Archive > 1970s"),
		folderCand("e.pdf", "Archive > 1970s"),
	}
	got := AggregateFolders(pool, 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if got[0].FolderPath != "Archive > 1960s" {
		t.Errorf("expected Archive > 1960s, got %s", got[0].FolderPath)
	}
	if got[0].MatchCount != 3 {
		t.Errorf("expected 3 matches, got %d", got[0].MatchCount)
	}
}

func TestAggregateFolders_SamplesCapped(t *testing.T) {
	pool := make([]domsearch.Candidate, 0, 5)
	for i := 0; i < 5; i++ {
		pool = append(pool, folderCand(fmt.Sprintf("doc_%d.pdf", i), "Archive > Letters"))
	}
	got := AggregateFolders(pool, 3)
	if len(got) != 1 {
		t.Fatalf("expected 1 group, got %d", len(got))
	}
	if got[0].MatchCount != 5 {
		t.Errorf("expected 5 matches, got %d", got[0].MatchCount)
	}
	if len(got[0].Samples) != 3 {
		t.Fatalf("expected 3 samples, got %d", len(got[0].Samples))
	}
	// Samples keep the pool's score order.
	for i, want := range []string{"doc_0.pdf", "doc_1.pdf", "doc_2.pdf"} {
		if got[0].Samples[i] != want {
			t.Errorf("sample %d: expected %s, got %s", i, want, got[0].Samples[i])
		}
	}
}

func TestAggregateFolders_SortedByCount(t *testing.T) {
	pool := []domsearch.Candidate{
		folderCand("a.pdf", "Small"), folderCand("b.pdf", "Small"), folderCand("c.pdf", "Small"),
		folderCand("d.pdf", "Big"), folderCand("e.pdf", "Big"),
		folderCand("f.pdf", "Big"), folderCand("g.pdf", "Big"),
	}
	got := AggregateFolders(pool, 3)
	if len(got) != 2 {
		t.Fatalf("expected 2 groups, got %d", len(got))
	}
	if got[0].FolderPath != "Big" || got[1].FolderPath != "Small" {
		t.Errorf("groups not sorted by count: %s, %s", got[0].FolderPath, got[1].FolderPath)
	}
}

func TestAggregateFolders_IgnoresEmptyFolder(t *testing.T) {
	pool := []domsearch.Candidate{
		folderCand("a.pdf", ""), folderCand("b.pdf", ""), folderCand("c.pdf", ""),
	}
	if got := AggregateFolders(pool, 1); len(got) != 0 {
		t.Fatalf("expected no groups for folderless candidates, got %d", len(got))
	}
}

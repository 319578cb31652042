package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/openhearth/archivesearch/internal/db"
	"github.com/openhearth/archivesearch/internal/domain"
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
)

// store is the consumer interface for search operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
}

// Metadata fields fetched for every candidate. OCR content only travels on
// the lexical path, where it feeds highlights.
var knnReturnFields = []string{
	"file_path", "file_name", "web_view_link", "folder_path", "source_type",
	"publication_date", "people", "locations", "dates", "summary",
	"__embedding_score",
}

var lexicalReturnFields = []string{
	"file_path", "file_name", "web_view_link", "folder_path", "source_type",
	"publication_date", "people", "locations", "dates", "summary", "ocr_content",
}

// highlightFields are the TEXT fields the engine wraps matches in for the
// lexical channel.
var highlightFields = []string{"file_name", "summary", "ocr_content"}

// listSeparator joins multi-valued metadata in hash fields, matching the
// TAG SEPARATOR of the index schema.
const listSeparator = "|"

// Repo implements usecase/search.Repository over the FT index.
type Repo struct {
	store store
	index string
}

// New creates a search repository bound to one index.
func New(s store, indexName string) *Repo {
	return &Repo{store: s, index: indexName}
}

// FetchSemantic runs KNN retrieval and maps hits to candidates with raw
// cosine similarities.
func (r *Repo) FetchSemantic(
	ctx context.Context, vector []float32, f domsearch.Filter, k int,
) ([]domsearch.Candidate, error) {
	q := &db.KNNQuery{
		IndexName:    r.index,
		Filter:       f,
		Vector:       vector,
		K:            k,
		ReturnFields: knnReturnFields,
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	cands := make([]domsearch.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		cands = append(cands, domsearch.Candidate{
			Document:      documentFromFields(entry.Fields),
			RawSimilarity: entry.Score,
		})
	}
	return cands, nil
}

// FetchLexical runs BM25 retrieval with highlighting and maps hits to
// candidates in engine order.
func (r *Repo) FetchLexical(
	ctx context.Context, query string, f domsearch.Filter, limit int,
) ([]domsearch.Candidate, error) {
	q := &db.TextQuery{
		IndexName:       r.index,
		Query:           query,
		Filter:          f,
		TopK:            limit,
		ReturnFields:    lexicalReturnFields,
		Highlight:       true,
		HighlightFields: highlightFields,
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}
	if sr == nil || len(sr.Entries) == 0 {
		return nil, nil
	}

	cands := make([]domsearch.Candidate, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		cands = append(cands, domsearch.Candidate{
			Document:   documentFromFields(entry.Fields),
			Highlights: extractHighlights(entry.Fields),
		})
	}
	return cands, nil
}

// documentFromFields rebuilds a document from flat hash fields. Missing
// fields stay zero values; highlight tags are stripped so document text is
// always clean.
func documentFromFields(fields map[string]string) domain.Document {
	return domain.Document{
		FilePath:        stripTags(fields["file_path"]),
		FileName:        stripTags(fields["file_name"]),
		WebViewLink:     fields["web_view_link"],
		FolderPath:      fields["folder_path"],
		SourceType:      domain.SourceType(fields["source_type"]),
		PublicationDate: fields["publication_date"],
		People:          splitList(fields["people"]),
		Locations:       splitList(fields["locations"]),
		Dates:           splitList(fields["dates"]),
		Summary:         stripTags(fields["summary"]),
		OCRContent:      stripTags(fields["ocr_content"]),
	}
}

func splitList(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, listSeparator)
}

// Highlight fragment sizing: context kept around each tagged match.
const fragmentContext = 60

// extractHighlights pulls tagged match fragments out of highlighted field
// values, keyed by field name.
func extractHighlights(fields map[string]string) map[string][]string {
	var out map[string][]string
	for _, name := range highlightFields {
		value, ok := fields[name]
		if !ok || !strings.Contains(value, "<em>") {
			continue
		}
		if out == nil {
			out = make(map[string][]string, len(highlightFields))
		}
		out[name] = fragments(value)
	}
	return out
}

// fragments slices a highlighted value into snippets around each tagged
// match, with a little surrounding context.
func fragments(tagged string) []string {
	var frags []string
	rest := tagged
	for {
		start := strings.Index(rest, "<em>")
		if start < 0 {
			break
		}
		end := strings.Index(rest[start:], "</em>")
		if end < 0 {
			break
		}
		end += start + len("</em>")

		from := start - fragmentContext
		if from < 0 {
			from = 0
		}
		to := end + fragmentContext
		if to > len(rest) {
			to = len(rest)
		}
		frags = append(frags, stripTags(rest[from:to]))

		rest = rest[end:]
	}
	return frags
}

var tagStripper = strings.NewReplacer("<em>", "", "</em>", "")

func stripTags(s string) string {
	return tagStripper.Replace(s)
}

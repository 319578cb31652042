package domain

import "strings"

// SourceType classifies a document's provenance in the archive.
type SourceType string

const (
	// SourcePrimary marks first-hand material (letters, photographs, records).
	SourcePrimary SourceType = "primary"
	// SourceSecondary marks derived material (clippings, transcriptions, notes).
	SourceSecondary SourceType = "secondary"
)

// Document is one scanned archival document with its extracted metadata.
// Every field is optional on read; missing values are zero values, never errors.
type Document struct {
	FilePath        string
	FileName        string
	WebViewLink     string
	FolderPath      string
	SourceType      SourceType
	PublicationDate string
	People          []string
	Locations       []string
	Dates           []string
	Summary         string
	OCRContent      string
}

// ocrExcerptChars bounds how much OCR text feeds the embedding.
const ocrExcerptChars = 5000

// EmbeddingText builds the text the document's vector is computed from:
// summary, extracted entities, then an OCR excerpt. Queries are embedded
// raw, so this shape only has to be consistent across the corpus.
func (d *Document) EmbeddingText() string {
	var parts []string

	if d.Summary != "" {
		parts = append(parts, "Summary: "+d.Summary)
	}
	if len(d.People) > 0 {
		parts = append(parts, "People mentioned: "+strings.Join(d.People, ", "))
	}
	if len(d.Locations) > 0 {
		parts = append(parts, "Locations: "+strings.Join(d.Locations, ", "))
	}
	if len(d.Dates) > 0 {
		parts = append(parts, "Dates: "+strings.Join(d.Dates, ", "))
	}
	if d.OCRContent != "" {
		excerpt := d.OCRContent
		if len(excerpt) > ocrExcerptChars {
			excerpt = excerpt[:ocrExcerptChars]
		}
		parts = append(parts, "Content: "+excerpt)
	}

	return strings.Join(parts, "\n\n")
}

package chi

import (
	domsearch "github.com/openhearth/archivesearch/internal/domain/search"
	healthuc "github.com/openhearth/archivesearch/internal/usecase/health"
)

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type searchRequest struct {
	Query          string   `json:"query"`
	Mode           string   `json:"mode,omitempty"`
	Limit          int      `json:"limit,omitempty"`
	People         []string `json:"people,omitempty"`
	Locations      []string `json:"locations,omitempty"`
	Folder         string   `json:"folder,omitempty"`
	DateFrom       string   `json:"date_from,omitempty"`
	DateTo         string   `json:"date_to,omitempty"`
	Rerank         bool     `json:"rerank,omitempty"`
	IncludeFolders bool     `json:"include_folders,omitempty"`
}

type resultItem struct {
	FilePath        string              `json:"file_path"`
	FileName        string              `json:"file_name"`
	WebViewLink     string              `json:"web_view_link,omitempty"`
	FolderPath      string              `json:"folder_path,omitempty"`
	SourceType      string              `json:"source_type,omitempty"`
	PublicationDate string              `json:"publication_date,omitempty"`
	People          []string            `json:"people,omitempty"`
	Locations       []string            `json:"locations,omitempty"`
	Dates           []string            `json:"dates,omitempty"`
	Summary         string              `json:"summary,omitempty"`
	Score           float64             `json:"score"`
	Highlights      map[string][]string `json:"highlights,omitempty"`
}

type folderGroupItem struct {
	FolderPath string   `json:"folder_path"`
	MatchCount int      `json:"match_count"`
	Samples    []string `json:"samples,omitempty"`
}

type searchResponse struct {
	Items   []resultItem      `json:"items"`
	Total   int               `json:"total"`
	Folders []folderGroupItem `json:"folders,omitempty"`
}

type chatRequest struct {
	Question string `json:"question"`
	Limit    int    `json:"limit,omitempty"`
}

type chatResponse struct {
	Answer  string       `json:"answer"`
	Sources []resultItem `json:"sources,omitempty"`
}

type healthResponse struct {
	Status string                          `json:"status"`
	Checks map[string]healthuc.CheckResult `json:"checks"`
}

func candidateToDTO(c *domsearch.Candidate) resultItem {
	return resultItem{
		FilePath:        c.Document.FilePath,
		FileName:        c.Document.FileName,
		WebViewLink:     c.Document.WebViewLink,
		FolderPath:      c.Document.FolderPath,
		SourceType:      string(c.Document.SourceType),
		PublicationDate: c.Document.PublicationDate,
		People:          c.Document.People,
		Locations:       c.Document.Locations,
		Dates:           c.Document.Dates,
		Summary:         c.Document.Summary,
		Score:           c.Score,
		Highlights:      c.Highlights,
	}
}

func searchResultToDTO(res domsearch.Result) searchResponse {
	items := make([]resultItem, len(res.Candidates))
	for i := range res.Candidates {
		items[i] = candidateToDTO(&res.Candidates[i])
	}

	resp := searchResponse{
		Items: items,
		Total: len(items),
	}
	if len(res.Folders) > 0 {
		resp.Folders = make([]folderGroupItem, len(res.Folders))
		for i, g := range res.Folders {
			resp.Folders[i] = folderGroupItem{
				FolderPath: g.FolderPath,
				MatchCount: g.MatchCount,
				Samples:    g.Samples,
			}
		}
	}
	return resp
}

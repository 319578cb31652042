package search

// DateRange bounds documents by their publication date (inclusive,
// YYYY-MM-DD strings; empty bound = open).
type DateRange struct {
	From string
	To   string
}

// Filter narrows a retrieval-channel fetch before scoring. The zero value
// matches everything.
type Filter struct {
	People    []string
	Locations []string
	Folder    string
	Dates     DateRange
}

// IsEmpty reports whether the filter constrains anything.
func (f *Filter) IsEmpty() bool {
	return len(f.People) == 0 && len(f.Locations) == 0 &&
		f.Folder == "" && f.Dates.From == "" && f.Dates.To == ""
}

package export

// Dataset defines tabular export content.
type Dataset struct {
	Title   string
	Headers []string
	Rows    []map[string]string
}

// Document is an ordered list of titled datasets rendered one after another.
type Document struct {
	Title    string
	Sections []Dataset
}

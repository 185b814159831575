package handlers

// View data passed to the embedded templates. One shape per page so the
// per-entity handlers only differ in how they fill these in.

// row is one line in a list, a dependents table or a delete confirmation.
type row struct {
	URL   string
	Label string
	Meta  string
}

// pair is a label/value display line.
type pair struct {
	Label string
	Value string
}

type indexPage struct {
	Counts []pair
}

type listPage struct {
	Title     string
	Rows      []row
	CreateURL string
}

type childGroup struct {
	Title string
	Rows  []row
	Empty string
}

type detailPage struct {
	Title     string
	Fields    []pair
	ImageURL  string
	Children  *childGroup
	UpdateURL string
	DeleteURL string
}

type option struct {
	Value    string
	Label    string
	Selected bool
}

type field struct {
	Name     string
	Label    string
	Type     string // text, number, datetime-local, textarea, select
	Value    string
	Options  []option
	Required bool
}

type formPage struct {
	Title  string
	Action string
	Fields []field
	Errors []string
}

type deletePage struct {
	Title         string
	Entity        row
	Blockers      []row
	BlockersTitle string
	Action        string
	ListURL       string
}

type passwordPage struct {
	ReturnTo string
	Error    string
}

type errorPage struct {
	Code    int
	Message string
}

package contactcsv

// nameMode determines how the contact name is extracted from a row.
type nameMode int

const (
	// nameSingle means one full-name column (e.g. "Name").
	nameSingle nameMode = iota
	// nameSplit means separate first/last name columns.
	nameSplit
)

// Profile describes the column layout of a contact CSV export.
// Adding a new source format is just adding a new Profile to the
// profiles slice.
type Profile struct {
	Name         string
	NameMode     nameMode
	NameCol      string // used when NameMode == nameSingle
	FirstNameCol string // used when NameMode == nameSplit
	LastNameCol  string // used when NameMode == nameSplit
	EmailCol     string
	PhoneCol     string // optional
	CompanyCol   string // optional
	TagsCol      string // optional
	NotesCol     string // optional
}

// requiredCols returns the column names that must be present for this
// profile to match.
func (p Profile) requiredCols() []string {
	cols := []string{p.EmailCol}

	switch p.NameMode {
	case nameSingle:
		cols = append(cols, p.NameCol)
	case nameSplit:
		cols = append(cols, p.FirstNameCol, p.LastNameCol)
	}

	return cols
}

// profiles is the ordered list of export formats to try during
// auto-detection. More specific profiles should come first to avoid
// false matches.
var profiles = []Profile{
	{
		Name:         "outlook",
		NameMode:     nameSplit,
		FirstNameCol: "First Name",
		LastNameCol:  "Last Name",
		EmailCol:     "E-mail Address",
		PhoneCol:     "Business Phone",
		CompanyCol:   "Company",
		NotesCol:     "Notes",
	},
	{
		Name:         "hubspot",
		NameMode:     nameSplit,
		FirstNameCol: "First Name",
		LastNameCol:  "Last Name",
		EmailCol:     "Email",
		PhoneCol:     "Phone Number",
		CompanyCol:   "Company Name",
	},
	{
		Name:       "generic",
		NameMode:   nameSingle,
		NameCol:    "Name",
		EmailCol:   "Email",
		PhoneCol:   "Phone",
		CompanyCol: "Company",
		TagsCol:    "Tags",
		NotesCol:   "Notes",
	},
}

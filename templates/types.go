package templates

type Option struct {
	Value    string
	Label    string
	Selected bool
}

// Hidden is a form field carried through a POST.
type Hidden struct {
	Name  string
	Value string
}

type DashboardData struct {
	XOptions  []Option
	YOptions  []Option
	Positions []Option
	PlotURL   string
	// Current is the selection, resubmitted by the refresh form.
	Current   []Hidden
	Rows      int
	Issues    int
	FetchedAt string
	// Message replaces the plot when there is nothing to draw.
	Message string
}

type ErrorPageData struct {
	Status  int
	Title   string
	Message string
}

package templates

import (
	"embed"
	"html/template"

	"github.com/a-h/templ"
)

//go:embed *.html
var files embed.FS

var pages = template.Must(template.ParseFS(files, "*.html"))

func Dashboard(data DashboardData) templ.Component {
	return templ.FromGoHTML(pages.Lookup("dashboard.html"), data)
}

func ErrorPage(data ErrorPageData) templ.Component {
	return templ.FromGoHTML(pages.Lookup("error.html"), data)
}

package report

import (
	"embed"
	"html/template"
)

//go:embed templates/weekly_report.html
var templateFS embed.FS

var weeklyTemplate = template.Must(
	template.New("weekly_report.html").
		Funcs(template.FuncMap{
			"derefInt": func(p *int) int {
				if p == nil {
					return 0
				}
				return *p
			},
		}).
		ParseFS(templateFS, "templates/weekly_report.html"),
)

package export

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/magabrotheeeer/commission-ledger/internal/lib/isodate"
	"github.com/magabrotheeeer/commission-ledger/internal/models"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.New("").Funcs(template.FuncMap{
	"date":  isodate.Display,
	"money": func(v float64) string { return fmt.Sprintf("R$ %.2f", v) },
	"notes": func(n *string) string {
		if n == nil {
			return ""
		}
		return *n
	},
}).ParseFS(templatesFS, "templates/*.html"))

// ContentTypeHTML: MIME-тип печатной формы.
const ContentTypeHTML = "text/html; charset=utf-8"

// RenderLive печатает текущий журнал. Порядок строк задаёт вызывающий.
func RenderLive(w io.Writer, username string, live *models.LiveReport) error {
	const op = "export.RenderLive"
	data := struct {
		Username string
		Live     *models.LiveReport
	}{username, live}
	if err := templates.ExecuteTemplate(w, "live.html", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// RenderReport печатает исторический отчёт.
func RenderReport(w io.Writer, username string, report *models.Report) error {
	const op = "export.RenderReport"
	data := struct {
		Username string
		Report   *models.Report
	}{username, report}
	if err := templates.ExecuteTemplate(w, "report.html", data); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

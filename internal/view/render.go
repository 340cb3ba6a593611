package view

import (
	"embed"
	"fmt"
	"html/template"
	"strings"

	"github.com/UnknownOlympus/taskboard/internal/models"
)

//go:embed templates
var templatesFS embed.FS

var rowsTemplate = template.Must(template.ParseFS(templatesFS, "templates/rows.html"))

// RenderRows builds one <tr> per task, in input order, with the columns
// id, title, description (or placeholder) and completed as Yes/No.
// Field values are HTML-escaped.
func RenderRows(tasks []models.Task) (string, error) {
	var builder strings.Builder

	if err := rowsTemplate.ExecuteTemplate(&builder, "rows", tasks); err != nil {
		return "", fmt.Errorf("failed to render task rows: %w", err)
	}

	return builder.String(), nil
}

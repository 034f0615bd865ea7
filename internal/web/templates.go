package web

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = template.Must(
	template.New("").Funcs(template.FuncMap{"money": Money}).ParseFS(templateFS, "templates/*.html"),
)

// Money renders integer cents as a dollar amount, e.g. 4990 -> "$49.90".
func Money(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

// render executes into a buffer so a template fault becomes a clean 500
// instead of a half-written page.
func (s *Server) render(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := pageTemplates.ExecuteTemplate(&buf, name, data); err != nil {
		if s.Log != nil {
			s.Log.Error("render page failed", zap.String("template", name), zap.Error(err))
		}
		http.Error(w, "server error", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

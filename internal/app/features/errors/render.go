// internal/app/features/errors/render.go
package errors

import (
	"net/http"
	"strings"

	"github.com/dalemusser/waffle/pantry/templates"
)

// RenderNotFound writes a 404. API paths get a JSON body; everything else
// gets the HTML page. If msg is empty a default message is used.
func RenderNotFound(w http.ResponseWriter, r *http.Request, msg string) {
	if msg == "" {
		msg = "We couldn't find that page."
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"not found"}` + "\n"))
		return
	}

	w.WriteHeader(http.StatusNotFound)
	templates.Render(w, r, "error_not_found", pageData{
		Title:   "Not found",
		Message: msg,
		BackURL: "/",
	})
}

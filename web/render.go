package web

import (
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"

	"github.com/a-h/templ"
	"github.com/dattatraygorde/Order-Taking-System/db"
	"go.uber.org/zap"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static
var staticFS embed.FS

// pageNames lists every template under templates/ that renders a full page.
var pageNames = []string{
	"login",
	"error",
	"customers_list",
	"customers_form",
	"vegetables_list",
	"vegetables_form",
	"orders_new",
	"orders_confirm",
	"orders_final",
}

var pages = parsePages()

func parsePages() map[string]*template.Template {
	out := make(map[string]*template.Template, len(pageNames))
	for _, name := range pageNames {
		out[name] = template.Must(template.New(name).ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
	return out
}

func staticFiles() fs.FS {
	sub, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	return sub
}

// page is the data every template receives.
type page struct {
	Title string
	// Tab selects the highlighted navigation entry.
	Tab   string
	User  string
	Flash string
	Data  any
}

// view wraps a parsed page template as a templ component.
func view(name string, p page) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		t, ok := pages[name]
		if !ok {
			return fmt.Errorf("unknown page %q", name)
		}
		return t.ExecuteTemplate(w, "layout", p)
	})
}

// render writes page name with status. The page is rendered into a buffer first,
// so a template error still produces a clean 500.
func (s *Server) render(w http.ResponseWriter, r *http.Request, status int, name string, p page) {
	p.User = currentUser(r.Context())
	if p.Flash == "" {
		p.Flash = readFlash(w, r)
	}
	templ.Handler(view(name, p),
		templ.WithStatus(status),
		templ.WithErrorHandler(func(r *http.Request, err error) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				s.logger.Error("render page", zap.String("page", name), zap.String("request_id", requestID(r.Context())), zap.Error(err))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			})
		}),
	).ServeHTTP(w, r)
}

type errorData struct {
	Status  int
	Message string
}

func (s *Server) notFound(w http.ResponseWriter, r *http.Request) {
	s.render(w, r, http.StatusNotFound, "error", page{
		Title: "Not found",
		Data:  errorData{Status: http.StatusNotFound, Message: "The requested record does not exist."},
	})
}

func (s *Server) badRequest(w http.ResponseWriter, r *http.Request, msg string) {
	s.render(w, r, http.StatusBadRequest, "error", page{
		Title: "Bad request",
		Data:  errorData{Status: http.StatusBadRequest, Message: msg},
	})
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.logger.Error("request failed",
		zap.String("request_id", requestID(r.Context())),
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.Error(err),
	)
	s.render(w, r, http.StatusInternalServerError, "error", page{
		Title: "Server error",
		Data:  errorData{Status: http.StatusInternalServerError, Message: "Something went wrong. Please try again."},
	})
}

// storeError renders a 404 for db.ErrNotFound and a 500 for anything else.
func (s *Server) storeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, db.ErrNotFound) {
		s.notFound(w, r)
		return
	}
	s.serverError(w, r, err)
}

func formatID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}

func redirect(w http.ResponseWriter, r *http.Request, url string) {
	http.Redirect(w, r, url, http.StatusSeeOther)
}

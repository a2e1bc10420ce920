package template

import (
	"bytes"
	"embed"
	"fmt"
	"net/http"
	"strings"
	"time"

	stdtemplate "html/template"

	humanize "github.com/dustin/go-humanize"
	"github.com/microcosm-cc/bluemonday"
	blackfriday "gopkg.in/russross/blackfriday.v2"
)

//go:embed views/*.html
var views embed.FS

type Template struct {
	templates *stdtemplate.Template
	policy    *bluemonday.Policy
}

func NewTemplate() *Template {
	t := &Template{policy: bluemonday.UGCPolicy()}
	funcMap := stdtemplate.FuncMap{
		"add": func(a, b int) int {
			return a + b
		},
		"sub": func(a, b int) int {
			return a - b
		},
		"humantime": func(t time.Time) string {
			if t.IsZero() {
				return ""
			}
			return humanize.Time(t)
		},
		"humannumber": func(n int64) string {
			return humanize.Comma(n)
		},
		"humanfloat": func(f float64) string {
			return humanize.FormatFloat("#,###.#", f)
		},
		"markdown": t.MarkdownToHTML,
		"stringTitle": func(s string) string {
			if s == "" {
				return s
			}
			return strings.ToUpper(s[:1]) + s[1:]
		},
		"replaceDash": func(s string) string {
			return strings.ReplaceAll(s, "-", " ")
		},
		"eqs": func(a, b interface{}) bool {
			return toString(a) == toString(b)
		},
	}
	t.templates = stdtemplate.Must(stdtemplate.New("stdtmpl").Funcs(funcMap).ParseFS(views, "views/*.html"))
	return t
}

func toString(v interface{}) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// Render executes the named view into a buffer first so a failing template
// never leaves a half written page behind.
func (t *Template) Render(w http.ResponseWriter, status int, name string, data interface{}) error {
	var buf bytes.Buffer
	if err := t.templates.ExecuteTemplate(&buf, name, data); err != nil {
		return err
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

// MarkdownToHTML renders markdown and sanitises the result, job descriptions
// are written by recruiters.
func (t *Template) MarkdownToHTML(s string) stdtemplate.HTML {
	renderer := blackfriday.NewHTMLRenderer(blackfriday.HTMLRendererParameters{
		Flags: blackfriday.Safelink |
			blackfriday.NofollowLinks |
			blackfriday.NoreferrerLinks |
			blackfriday.HrefTargetBlank,
	})
	unsafe := blackfriday.Run([]byte(s), blackfriday.WithRenderer(renderer))
	return stdtemplate.HTML(t.policy.SanitizeBytes(unsafe))
}

// Package view renders the HTML pages and serves the stylesheet. Templates
// and assets are compiled into the binary.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/labstack/echo/v4"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed public/styles.css
var stylesheet []byte

// Page names accepted by Renderer.Render.
const (
	PageIndex  = "index"
	PageSignup = "signup"
	PageLogin  = "login"
	PageUsers  = "users"
	PageUser   = "user"
	PageAdmin  = "admin"
	PageError  = "error"
)

var pages = []string{PageIndex, PageSignup, PageLogin, PageUsers, PageUser, PageAdmin, PageError}

// IndexData feeds the landing page.
type IndexData struct {
	LoggedIn   bool
	HomeScreen bool
}

type UsersData struct {
	Users []string
}

// UserData feeds a public profile page. IsSelf shows the edit form.
type UserData struct {
	Username string
	Profile  string
	IsSelf   bool
}

type AdminData struct {
	Users  []string
	Admins []string
}

type ErrorData struct {
	Status  int
	Message string
}

// Renderer implements echo.Renderer. Each page is parsed together with the
// shared layout into its own template set.
type Renderer struct {
	pages map[string]*template.Template
}

func NewRenderer() (*Renderer, error) {
	r := &Renderer{pages: make(map[string]*template.Template, len(pages))}
	for _, name := range pages {
		t, err := template.ParseFS(templateFS, "templates/base.html", "templates/"+name+".html")
		if err != nil {
			return nil, fmt.Errorf("parse template %s: %w", name, err)
		}
		r.pages[name] = t
	}
	return r, nil
}

func (r *Renderer) Render(w io.Writer, name string, data interface{}, _ echo.Context) error {
	t, ok := r.pages[name]
	if !ok {
		return fmt.Errorf("unknown page %q", name)
	}
	return t.ExecuteTemplate(w, "base", data)
}

// Stylesheet returns the site CSS.
func Stylesheet() []byte { return stylesheet }

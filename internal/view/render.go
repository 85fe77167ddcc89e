package view

import (
	"bytes"
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/utafrali/abundance/internal/notify"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer executes the embedded page templates.
type Renderer struct {
	tmpl     *template.Template
	storeURL string
}

// NewRenderer parses the embedded templates. storeURL is the target of the
// "Browse Seedlings" and "Continue Shopping" links.
func NewRenderer(storeURL string) (*Renderer, error) {
	tmpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}
	if storeURL == "" {
		storeURL = "/store"
	}
	return &Renderer{tmpl: tmpl, storeURL: storeURL}, nil
}

// CheckoutForm carries the values and field errors of a rejected checkout
// submission back into the form.
type CheckoutForm struct {
	Name   string
	Email  string
	Errors map[string]string
	Error  string
}

type pageData struct {
	Title        string
	Kind         PageKind
	Badge        int
	Basket       *BasketPage
	Confirmation *Confirmation
	Banner       *notify.Banner
	Form         CheckoutForm
	StoreURL     string
	ShowCheckout bool
}

// Render writes the full page for a surface. The page is rendered into a
// buffer first so a template failure never leaves a half-written response.
func (r *Renderer) Render(w io.Writer, s *Surface, form CheckoutForm) error {
	data := pageData{
		Title:        "Shop",
		Kind:         s.kind,
		Badge:        s.badge,
		Basket:       s.basket,
		Confirmation: s.confirmation,
		Banner:       s.banner,
		Form:         form,
		StoreURL:     r.storeURL,
	}
	if s.kind == PageBasket {
		data.Title = "Your Basket"
		if s.basket == nil {
			empty := BuildBasketPage(nil)
			data.Basket = &empty
		}
		data.ShowCheckout = data.Basket.CheckoutVisible || s.confirmation != nil
	}

	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, "layout", data); err != nil {
		return fmt.Errorf("render %s page: %w", s.kind, err)
	}
	_, err := buf.WriteTo(w)
	return err
}

package mailer

import (
	"embed"
	"fmt"
	"sync"

	"github.com/aymerick/raymond"
)

//go:embed templates/*.hbs
var templateFS embed.FS

const (
	TemplateSetPassword = "set-password"
	TemplateOrderPaid   = "order-paid"
)

var subjects = map[string]string{
	TemplateSetPassword: "Set your VenueHub password",
	TemplateOrderPaid:   "Your VenueHub order {{orderNo}}",
}

// Renderer parses handlebars templates once and renders html, text and
// subject for a template name.
type Renderer struct {
	mu    sync.RWMutex
	cache map[string]*raymond.Template
}

func NewRenderer() *Renderer {
	return &Renderer{cache: make(map[string]*raymond.Template)}
}

type Rendered struct {
	Subject string
	HTML    string
	Text    string
}

func (r *Renderer) Render(name string, data map[string]any) (*Rendered, error) {
	subjectSrc, ok := subjects[name]
	if !ok {
		return nil, fmt.Errorf("unknown email template %q", name)
	}
	subject, err := raymond.Render(subjectSrc, data)
	if err != nil {
		return nil, err
	}
	html, err := r.exec(name+".html.hbs", data)
	if err != nil {
		return nil, err
	}
	text, err := r.exec(name+".txt.hbs", data)
	if err != nil {
		return nil, err
	}
	return &Rendered{Subject: subject, HTML: html, Text: text}, nil
}

func (r *Renderer) exec(file string, data map[string]any) (string, error) {
	r.mu.RLock()
	tpl, ok := r.cache[file]
	r.mu.RUnlock()
	if !ok {
		src, err := templateFS.ReadFile("templates/" + file)
		if err != nil {
			return "", fmt.Errorf("read template %s: %w", file, err)
		}
		tpl, err = raymond.Parse(string(src))
		if err != nil {
			return "", fmt.Errorf("parse template %s: %w", file, err)
		}
		r.mu.Lock()
		r.cache[file] = tpl
		r.mu.Unlock()
	}
	return tpl.Exec(data)
}

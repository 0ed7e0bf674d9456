// Package renderer turns the books into markdown reports.
//
// Reports are produced from text/template files embedded in the binary. Every
// amount goes through the Settings given by the caller, so the same report
// renders "$1.234,50" or "€1,234.50" depending on the user's choices.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"

	"github.com/etnz/cashbook"
	"github.com/shopspring/decimal"
)

//go:embed templates/*.md
var templates embed.FS

// funcs returns the template functions bound to settings s.
func funcs(s *cashbook.Settings) template.FuncMap {
	return template.FuncMap{
		"money": s.Format,
		// amount formats the absolute value, the sign is carried by a label.
		"amount": func(d decimal.Decimal) string { return s.Format(d.Abs()) },
		"cell":   cell,
		"short":  Short,
	}
}

// ShortIDLen is the length of the ids displayed in reports.
const ShortIDLen = 8

// Short returns the displayed prefix of an id.
func Short(id string) string {
	if len(id) > ShortIDLen {
		return id[:ShortIDLen]
	}
	return id
}

// cell escapes a user text for a markdown table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, s *cashbook.Settings, data any) string {
	if s == nil {
		s = cashbook.DefaultSettings()
	}
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Funcs(funcs(s)).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		content, err := fs.ReadFile(templates, file)
		if err != nil {
			return fmt.Sprintf("error reading partial template %q: %v", file, err)
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

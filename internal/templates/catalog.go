// Package templates resolves the instruction used for a transformation and
// manages caller-owned custom templates next to the built-in catalog.
package templates

import (
	"slices"

	"github.com/example/transcript-studio/internal/models"
)

// Catalog is the immutable set of built-in templates. It is built once at
// startup and read concurrently without locking.
type Catalog struct {
	entries []models.Template
	byValue map[string]int
}

var builtIns = []struct{ name, value, prompt string }{
	{"Summary", "summary", "Return a summary of the transcription with a maximum of 100 words."},
	{"Quick Note", "quick-note", "Return a quick post it style note."},
	{"List", "list", "Return a list of bullet points of the transcription main points."},
	{"Blog post", "blog", "Return the Markdown of entire blog post with subheadings"},
	{"Email", "email", "If type is email also generate an email subject line and a short email body with introductory paragraph and a closing paragraph for thanking the reader for reading."},
}

// DefaultCatalog returns the catalog shipped with the service.
func DefaultCatalog() *Catalog {
	entries := make([]models.Template, 0, len(builtIns))
	for _, b := range builtIns {
		entries = append(entries, models.Template{
			Value:             b.value,
			Name:              b.name,
			PromptInstruction: b.prompt,
			Kind:              models.KindBuiltIn,
		})
	}
	return NewCatalog(entries)
}

// NewCatalog copies entries. Later duplicates of a Value are ignored.
func NewCatalog(entries []models.Template) *Catalog {
	c := &Catalog{byValue: make(map[string]int, len(entries))}
	for _, e := range entries {
		if _, dup := c.byValue[e.Value]; dup {
			continue
		}
		e.Kind = models.KindBuiltIn
		c.byValue[e.Value] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	return c
}

// Lookup returns the built-in template registered under value.
func (c *Catalog) Lookup(value string) (models.Template, bool) {
	i, ok := c.byValue[value]
	if !ok {
		return models.Template{}, false
	}
	return c.entries[i], true
}

// All returns a copy of the catalog in declaration order.
func (c *Catalog) All() []models.Template {
	return slices.Clone(c.entries)
}

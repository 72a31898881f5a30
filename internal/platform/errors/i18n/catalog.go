// Package i18n renders localized error messages.
package i18n

import (
	"bytes"
	"strings"
	"sync"
	"text/template"

	i18ncatalog "github.com/louisbranch/garoball/internal/platform/i18n/catalog"
)

// Namespace is the catalog namespace holding error messages.
const Namespace = "errors"

// Code is a machine-readable error code (duplicated from errors package to avoid cycle).
type Code = string

// Catalog maps error codes to message templates for one locale.
type Catalog struct {
	locale   string
	messages map[Code]string
}

var (
	catalogsMu sync.RWMutex
	catalogs   = map[string]*Catalog{}
)

// GetCatalog returns the catalog for the closest supported locale.
func GetCatalog(locale string) *Catalog {
	requested := strings.TrimSpace(locale)
	if c, ok := lookupCatalog(requested); ok {
		return c
	}
	resolved, messages := i18ncatalog.Default().NamespaceMessages(requested, Namespace)
	if c, ok := lookupCatalog(resolved); ok {
		return c
	}
	return storeCatalogIfAbsent(resolved, NewCatalog(resolved, messages))
}

// NewCatalog creates a catalog with a copy of messages.
func NewCatalog(locale string, messages map[Code]string) *Catalog {
	cloned := make(map[Code]string, len(messages))
	for k, v := range messages {
		cloned[k] = v
	}
	return &Catalog{locale: locale, messages: cloned}
}

// RegisterCatalog overrides the catalog for locale. Meant for tests.
func RegisterCatalog(locale string, cat *Catalog) {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	catalogs[locale] = cat
}

// Locale returns the catalog's locale.
func (c *Catalog) Locale() string {
	return c.locale
}

// Format renders code's template with metadata. Unknown codes render as
// the code itself and broken templates render unexpanded.
func (c *Catalog) Format(code Code, metadata map[string]string) string {
	tmpl, ok := c.messages[code]
	if !ok {
		return code
	}
	if metadata == nil {
		metadata = map[string]string{}
	}
	t, err := template.New("msg").Option("missingkey=zero").Parse(tmpl)
	if err != nil {
		return tmpl
	}
	var buf bytes.Buffer
	if err := t.Execute(&buf, metadata); err != nil {
		return tmpl
	}
	return buf.String()
}

func lookupCatalog(locale string) (*Catalog, bool) {
	catalogsMu.RLock()
	defer catalogsMu.RUnlock()
	cat, ok := catalogs[locale]
	return cat, ok
}

func storeCatalogIfAbsent(locale string, candidate *Catalog) *Catalog {
	catalogsMu.Lock()
	defer catalogsMu.Unlock()
	if existing, ok := catalogs[locale]; ok {
		return existing
	}
	catalogs[locale] = candidate
	return candidate
}

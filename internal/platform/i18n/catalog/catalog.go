// Package catalog loads the localized message catalogs embedded in the
// binary and registers them with x/text/message.
package catalog

import (
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// BaseLocale is the canonical source locale for catalogs.
const BaseLocale = "en-US"

type catalogFile struct {
	Locale    string            `yaml:"locale"`
	Namespace string            `yaml:"namespace"`
	Messages  map[string]string `yaml:"messages"`
}

// Bundle holds every locale's messages, grouped by namespace.
type Bundle struct {
	// locale -> namespace -> key -> message
	locales map[string]map[string]map[string]string
	tags    []language.Tag
	matcher language.Matcher
}

//go:embed locales/*/*.yaml
var embeddedFS embed.FS

var defaultBundle = mustLoadAndRegisterEmbedded()

// Default returns the process-wide embedded bundle.
func Default() *Bundle {
	return defaultBundle
}

// LoadEmbedded loads the catalogs embedded in this package.
func LoadEmbedded() (*Bundle, error) {
	return LoadFromFS(embeddedFS)
}

// LoadFromFS loads locales/<locale>/<namespace>.yaml files from fsys.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locale catalogs: %w", err)
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no catalog files found")
	}
	sort.Strings(paths)

	b := &Bundle{locales: map[string]map[string]map[string]string{}}
	for _, p := range paths {
		data, err := fs.ReadFile(fsys, p)
		if err != nil {
			return nil, fmt.Errorf("read catalog %s: %w", p, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse catalog %s: %w", p, err)
		}
		if err := b.add(p, file); err != nil {
			return nil, err
		}
	}
	if !b.HasLocale(BaseLocale) {
		return nil, fmt.Errorf("base locale %s is not defined in catalogs", BaseLocale)
	}

	// The base locale goes first so the matcher falls back to it.
	b.tags = []language.Tag{language.MustParse(BaseLocale)}
	for _, locale := range b.Locales() {
		if locale == BaseLocale {
			continue
		}
		tag, err := language.Parse(locale)
		if err != nil {
			return nil, fmt.Errorf("parse locale tag %q: %w", locale, err)
		}
		b.tags = append(b.tags, tag)
	}
	b.matcher = language.NewMatcher(b.tags)
	return b, nil
}

func (b *Bundle) add(p string, file catalogFile) error {
	pathLocale := path.Base(path.Dir(p))
	pathNamespace := strings.TrimSuffix(path.Base(p), path.Ext(p))

	locale := strings.TrimSpace(file.Locale)
	namespace := strings.TrimSpace(file.Namespace)
	switch {
	case locale == "":
		return fmt.Errorf("catalog %s: locale is required", p)
	case locale != pathLocale:
		return fmt.Errorf("catalog %s: locale %q must match path locale %q", p, locale, pathLocale)
	case namespace == "":
		return fmt.Errorf("catalog %s: namespace is required", p)
	case namespace != pathNamespace:
		return fmt.Errorf("catalog %s: namespace %q must match filename %q", p, namespace, pathNamespace)
	case len(file.Messages) == 0:
		return fmt.Errorf("catalog %s: messages are required", p)
	}

	namespaces, ok := b.locales[locale]
	if !ok {
		namespaces = map[string]map[string]string{}
		b.locales[locale] = namespaces
	}
	messages := make(map[string]string, len(file.Messages))
	for key, value := range file.Messages {
		key = strings.TrimSpace(key)
		if key == "" {
			return fmt.Errorf("catalog %s: message key cannot be blank", p)
		}
		for other, existing := range namespaces {
			if _, dup := existing[key]; dup {
				return fmt.Errorf("catalog %s: key %q already defined in namespace %q", p, key, other)
			}
		}
		messages[key] = value
	}
	namespaces[namespace] = messages
	return nil
}

// Register makes every message available to x/text/message printers.
func (b *Bundle) Register() error {
	for _, tag := range b.tags {
		for _, messages := range b.locales[tag.String()] {
			for key, value := range messages {
				if err := message.SetString(tag, key, value); err != nil {
					return fmt.Errorf("register %s %q: %w", tag, key, err)
				}
			}
		}
	}
	return nil
}

// HasLocale reports whether the locale exists in the bundle.
func (b *Bundle) HasLocale(locale string) bool {
	_, ok := b.locales[strings.TrimSpace(locale)]
	return ok
}

// Locales returns the sorted locale identifiers.
func (b *Bundle) Locales() []string {
	out := make([]string, 0, len(b.locales))
	for locale := range b.locales {
		out = append(out, locale)
	}
	sort.Strings(out)
	return out
}

// Match resolves a requested locale or Accept-Language value to the closest
// supported locale, falling back to BaseLocale.
func (b *Bundle) Match(requested string) string {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return BaseLocale
	}
	if b.HasLocale(requested) {
		return requested
	}
	prefs, _, err := language.ParseAcceptLanguage(requested)
	if err != nil || len(prefs) == 0 {
		return BaseLocale
	}
	_, index, confidence := b.matcher.Match(prefs...)
	if confidence == language.No {
		return BaseLocale
	}
	return b.tags[index].String()
}

// Tag returns the language tag for the locale Match resolves.
func (b *Bundle) Tag(requested string) language.Tag {
	return language.MustParse(b.Match(requested))
}

// NamespaceMessages returns a copy of one namespace for the matched locale,
// falling back to BaseLocale when the locale lacks that namespace.
func (b *Bundle) NamespaceMessages(requested, namespace string) (string, map[string]string) {
	locale := b.Match(requested)
	messages, ok := b.locales[locale][namespace]
	if !ok {
		locale = BaseLocale
		messages = b.locales[BaseLocale][namespace]
	}
	out := make(map[string]string, len(messages))
	for k, v := range messages {
		out[k] = v
	}
	return locale, out
}

func mustLoadAndRegisterEmbedded() *Bundle {
	b, err := LoadEmbedded()
	if err != nil {
		panic(err)
	}
	if err := b.Register(); err != nil {
		panic(err)
	}
	return b
}

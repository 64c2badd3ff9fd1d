// Package i18n resolves the request language and prints catalog messages
// in English or Nepali.
package i18n

import (
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
	"gopkg.in/yaml.v3"
)

const (
	// LangParam is the query parameter used to select a language.
	LangParam = "lang"
	// LangCookieName stores the visitor's language preference.
	LangCookieName = "gharun_lang"
)

var (
	English = language.English
	Nepali  = language.MustParse("ne")
)

//go:embed locales/*.yaml
var embeddedLocales embed.FS

type catalogFile struct {
	Locale   string            `yaml:"locale"`
	Messages map[string]string `yaml:"messages"`
}

// Bundle holds the compiled catalog and the supported tags.
type Bundle struct {
	catalog catalog.Catalog
	matcher language.Matcher
	tags    []language.Tag
}

// Load compiles the embedded catalogs.
func Load() (*Bundle, error) {
	return LoadFromFS(embeddedLocales)
}

// MustLoad is Load for process startup.
func MustLoad() *Bundle {
	b, err := Load()
	if err != nil {
		panic(err)
	}
	return b
}

// LoadFromFS compiles every locales/*.yaml file in fsys. English must be
// present since it is the fallback.
func LoadFromFS(fsys fs.FS) (*Bundle, error) {
	paths, err := fs.Glob(fsys, "locales/*.yaml")
	if err != nil {
		return nil, fmt.Errorf("glob locales: %w", err)
	}
	sort.Strings(paths)

	builder := catalog.NewBuilder(catalog.Fallback(English))
	tags := []language.Tag{English}
	seenEnglish := false

	for _, path := range paths {
		data, err := fs.ReadFile(fsys, path)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", path, err)
		}
		var file catalogFile
		if err := yaml.Unmarshal(data, &file); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
		tag, err := language.Parse(strings.TrimSpace(file.Locale))
		if err != nil {
			return nil, fmt.Errorf("%s: locale %q: %w", path, file.Locale, err)
		}
		for key, msg := range file.Messages {
			if err := builder.SetString(tag, key, msg); err != nil {
				return nil, fmt.Errorf("%s: message %q: %w", path, key, err)
			}
		}
		if tag == English {
			seenEnglish = true
		} else {
			tags = append(tags, tag)
		}
	}

	if !seenEnglish {
		return nil, fmt.Errorf("base locale %s is not defined", English)
	}

	return &Bundle{
		catalog: builder,
		matcher: language.NewMatcher(tags),
		tags:    tags,
	}, nil
}

// Supported returns the supported tags, English first.
func (b *Bundle) Supported() []language.Tag {
	return append([]language.Tag(nil), b.tags...)
}

// Match maps an arbitrary language string to a supported tag.
func (b *Bundle) Match(value string) language.Tag {
	tag, err := language.Parse(strings.TrimSpace(value))
	if err != nil {
		return English
	}
	return b.match(tag)
}

func (b *Bundle) match(tags ...language.Tag) language.Tag {
	_, idx, conf := b.matcher.Match(tags...)
	if conf == language.No {
		return English
	}
	return b.tags[idx]
}

// Printer returns a message printer for tag.
func (b *Bundle) Printer(tag language.Tag) *message.Printer {
	return message.NewPrinter(b.match(tag), message.Catalog(b.catalog))
}

// Sprintf prints key in lang, falling back to English.
func (b *Bundle) Sprintf(lang, key string, args ...any) string {
	return b.Printer(b.Match(lang)).Sprintf(key, args...)
}

// ResolveTag picks the language for r from the lang query parameter, the
// language cookie, then Accept-Language. The bool reports whether the query
// parameter chose it and should be persisted.
func (b *Bundle) ResolveTag(r *http.Request) (language.Tag, bool) {
	if r == nil {
		return English, false
	}
	if v := strings.TrimSpace(r.URL.Query().Get(LangParam)); v != "" {
		if tag, err := language.Parse(v); err == nil {
			return b.match(tag), true
		}
	}
	if c, err := r.Cookie(LangCookieName); err == nil {
		if tag, err := language.Parse(c.Value); err == nil {
			return b.match(tag), false
		}
	}
	if accept := strings.TrimSpace(r.Header.Get("Accept-Language")); accept != "" {
		if tags, _, err := language.ParseAcceptLanguage(accept); err == nil && len(tags) > 0 {
			return b.match(tags...), false
		}
	}
	return English, false
}

// SetLanguageCookie persists the selected language on the response.
func SetLanguageCookie(w http.ResponseWriter, tag language.Tag) {
	http.SetCookie(w, &http.Cookie{
		Name:     LangCookieName,
		Value:    tag.String(),
		Path:     "/",
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
		SameSite: http.SameSiteLaxMode,
	})
}

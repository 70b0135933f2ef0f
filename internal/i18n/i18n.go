// Package i18n holds the bot's message catalog and language negotiation.
package i18n

import (
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported languages.
const (
	English = "en"
	Russian = "ru"
)

// DefaultLanguage is used when nothing better is known about a chat.
const DefaultLanguage = English

var (
	supported = []language.Tag{language.English, language.Russian}
	matcher   = language.NewMatcher(supported)
)

var labels = map[string]string{
	English: "English",
	Russian: "Русский",
}

// Translator resolves message keys for a language.
type Translator interface {
	T(lang, key string, args ...any) string
}

// Catalog is the in-process Translator.
type Catalog struct {
	printers map[string]*message.Printer
}

// New builds the catalog from the embedded messages.
func New() (*Catalog, error) {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for lang, entries := range messages {
		tag := language.MustParse(lang)
		for key, msg := range entries {
			if err := b.SetString(tag, key, msg); err != nil {
				return nil, err
			}
		}
	}

	c := &Catalog{printers: make(map[string]*message.Printer, len(supported))}
	for _, tag := range supported {
		base, _ := tag.Base()
		c.printers[base.String()] = message.NewPrinter(tag, message.Catalog(b))
	}
	return c, nil
}

// MustNew is New for package-level wiring and tests.
func MustNew() *Catalog {
	c, err := New()
	if err != nil {
		panic(err)
	}
	return c
}

// T formats key for lang. Arguments must be strings: the printer localizes
// numbers, which would turn years into "2,026".
func (c *Catalog) T(lang, key string, args ...any) string {
	p, ok := c.printers[lang]
	if !ok {
		p = c.printers[DefaultLanguage]
	}
	return p.Sprintf(key, args...)
}

// Match maps a Telegram language_code to a supported language.
func Match(code string) string {
	code = strings.TrimSpace(code)
	if code == "" {
		return DefaultLanguage
	}
	tag, _, confidence := matcher.Match(language.Make(code))
	if confidence == language.No {
		return DefaultLanguage
	}
	base, _ := tag.Base()
	return base.String()
}

// Normalize parses user input such as "ru", "english" or "Русский".
// It returns false when the input names no supported language.
func Normalize(input string) (string, bool) {
	value := strings.ToLower(strings.TrimSpace(input))
	if value == "" {
		return "", false
	}
	for lang, label := range labels {
		if value == lang || value == strings.ToLower(label) {
			return lang, true
		}
	}
	switch value {
	case "russian", "rus":
		return Russian, true
	case "eng":
		return English, true
	}
	tag, err := language.Parse(value)
	if err != nil {
		return "", false
	}
	base, _ := tag.Base()
	if _, ok := labels[base.String()]; ok {
		return base.String(), true
	}
	return "", false
}

// IsSupported reports whether lang has a catalog.
func IsSupported(lang string) bool {
	_, ok := labels[lang]
	return ok
}

// Label returns the display name of lang.
func Label(lang string) string {
	if l, ok := labels[lang]; ok {
		return l
	}
	return lang
}

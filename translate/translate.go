// Package translate formats user visible messages for the current locale.
package translate

import (
	"log"

	"github.com/jeandeaual/go-locale"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer *message.Printer

func init() {
	loadCatalog()

	locales, err := locale.GetLocales()
	if err != nil {
		log.Printf("procsim: locale: %v", err)
	}

	if len(locales) == 0 {
		locales = []string{"en-US"}
	}

	printer = NewPrinter(locales...)
}

// NewPrinter returns a message printer for the best match of the locales.
func NewPrinter(locales ...string) *message.Printer {
	tag, _ := language.MatchStrings(language.NewMatcher(supported), locales...)
	return message.NewPrinter(tag)
}

// From an en-US Sprintf() format, translate to string.
func From(key message.Reference, args ...any) string {
	return printer.Sprintf(key, args...)
}

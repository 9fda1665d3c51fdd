package envguard

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/go-playground/validator/v10"
)

// formats checks structural formats; validator.Validate is safe for
// concurrent use once built.
var formats = validator.New()

// URLValidator accepts absolute URLs.
type URLValidator struct {
	Validator[string]
}

// URL returns a required validator for absolute URLs.
func URL() URLValidator {
	return URLValidator{New("url", func(raw string) Result[string] {
		if r, missing := required[string](raw); missing {
			return r
		}
		if err := formats.Var(raw, "url"); err != nil {
			return Fail[string]("Invalid URL")
		}
		return Ok(raw)
	})}
}

// Protocols restricts the URL scheme to one of schemes (without "://").
func (u URLValidator) Protocols(schemes ...string) URLValidator {
	return URLValidator{u.refine(func(v string) string {
		parsed, err := url.Parse(v)
		if err != nil {
			return "Invalid URL"
		}
		for _, s := range schemes {
			if strings.EqualFold(parsed.Scheme, s) {
				return ""
			}
		}
		return fmt.Sprintf("URL protocol must be one of: %s", strings.Join(schemes, ", "))
	})}
}

// HTTP restricts the URL scheme to http or https.
func (u URLValidator) HTTP() URLValidator {
	return u.Protocols("http", "https")
}

// Email returns a required validator for email addresses.
func Email() Validator[string] {
	return New("email", func(raw string) Result[string] {
		if r, missing := required[string](raw); missing {
			return r
		}
		if err := formats.Var(raw, "email"); err != nil {
			return Fail[string]("Invalid email address")
		}
		return Ok(raw)
	})
}

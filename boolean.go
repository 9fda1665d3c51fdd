package envguard

import "strings"

var boolTokens = map[string]bool{
	"true": true, "1": true, "yes": true, "on": true,
	"false": false, "0": false, "no": false, "off": false,
}

// Boolean returns a required validator accepting true/false, 1/0,
// yes/no and on/off in any letter case.
func Boolean() Validator[bool] {
	return New("boolean", func(raw string) Result[bool] {
		if r, missing := required[bool](raw); missing {
			return r
		}
		b, ok := boolTokens[strings.ToLower(strings.TrimSpace(raw))]
		if !ok {
			return Fail[bool]("Expected a boolean (true/false, 1/0, yes/no, on/off)")
		}
		return Ok(b)
	})
}

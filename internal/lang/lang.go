// Package lang defines the closed set of languages the translator understands.
package lang

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Language is one of the supported languages. The zero value is invalid.
type Language int

const (
	Zh Language = iota + 1
	En
	Ja
	Ko
	Auto
)

// Convention selects how display names are rendered into prompts.
type Convention string

const (
	// English renders lower-case English names ("chinese", "japanese").
	English Convention = "english"
	// Native renders names in the language's own script ("中文", "日本語").
	Native Convention = "native"
)

type entry struct {
	code    string
	english string
	native  string
}

var table = map[Language]entry{
	Zh:   {code: "zh", english: "chinese", native: "中文"},
	En:   {code: "en", english: "english", native: "English"},
	Ja:   {code: "ja", english: "japanese", native: "日本語"},
	Ko:   {code: "ko", english: "korean", native: "한국어"},
	Auto: {code: "auto", english: "auto", native: "auto"},
}

// All returns every language in display order.
func All() []Language {
	return []Language{Zh, En, Ja, Ko, Auto}
}

// Code returns the short wire identifier, e.g. "zh".
func (l Language) Code() string {
	return table[l].code
}

// DisplayName returns the name used for prompt substitution.
// Unknown conventions fall back to English.
func (l Language) DisplayName(c Convention) string {
	e := table[l]
	if conv, _ := ParseConvention(string(c)); conv == Native {
		return e.native
	}
	return e.english
}

func (l Language) String() string {
	if e, ok := table[l]; ok {
		return e.code
	}
	return fmt.Sprintf("Language(%d)", int(l))
}

// Valid reports whether l is a member of the closed set.
func (l Language) Valid() bool {
	_, ok := table[l]
	return ok
}

// IsTarget reports whether l may be used as a translation target.
func (l Language) IsTarget() bool {
	return l.Valid() && l != Auto
}

// Parse maps a short code (case-insensitive) to a Language.
func Parse(code string) (Language, error) {
	code = strings.ToLower(strings.TrimSpace(code))
	for _, l := range All() {
		if table[l].code == code {
			return l, nil
		}
	}
	return 0, fmt.Errorf("unsupported language %q", code)
}

func (l Language) MarshalJSON() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("cannot marshal invalid language %d", int(l))
	}
	return json.Marshal(l.Code())
}

func (l *Language) UnmarshalJSON(data []byte) error {
	var code string
	if err := json.Unmarshal(data, &code); err != nil {
		return err
	}
	parsed, err := Parse(code)
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

// ParseConvention normalizes a convention name. Empty input means English.
func ParseConvention(s string) (Convention, error) {
	switch Convention(strings.ToLower(strings.TrimSpace(s))) {
	case "", English:
		return English, nil
	case Native:
		return Native, nil
	default:
		return "", fmt.Errorf("unsupported language name convention %q", s)
	}
}

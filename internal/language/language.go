// Package language maps between display names, ISO 639-1 codes and the
// vocabulary the translation backend expects, over a closed set of languages.
package language

import "strings"

// Unknown is returned by DisplayName for input outside the supported set.
const Unknown = "Unknown"

// Fallbacks used when an outbound request needs a language and none matched.
const (
	DefaultCode        = "en"
	DefaultBackendName = "english"
)

// Language is one supported language.
type Language struct {
	Name string `json:"name"`
	Code string `json:"code"`
}

// BackendName is the lowercase name the translation backend expects.
func (l Language) BackendName() string {
	return strings.ToLower(l.Name)
}

var supported = []Language{
	{Name: "English", Code: "en"},
	{Name: "German", Code: "de"},
	{Name: "Polish", Code: "pl"},
	{Name: "Czech", Code: "cs"},
	{Name: "Slovak", Code: "sk"},
	{Name: "Ukrainian", Code: "uk"},
	{Name: "Bulgarian", Code: "bg"},
	{Name: "Finnish", Code: "fi"},
}

// index holds lowercase names and codes.
var index = func() map[string]Language {
	m := make(map[string]Language, len(supported)*2)
	for _, l := range supported {
		m[strings.ToLower(l.Name)] = l
		m[l.Code] = l
	}
	return m
}()

// Supported returns the languages in display order.
func Supported() []Language {
	out := make([]Language, len(supported))
	copy(out, supported)
	return out
}

// Lookup finds a language by display name or code, case-insensitively.
func Lookup(nameOrCode string) (Language, bool) {
	l, ok := index[strings.ToLower(strings.TrimSpace(nameOrCode))]
	return l, ok
}

// ISOCode returns the ISO 639-1 code for a language. Outbound requests must always
// carry a valid code, so anything unrecognized maps to English.
func ISOCode(name string) string {
	if l, ok := Lookup(name); ok {
		return l.Code
	}
	return DefaultCode
}

// DisplayName returns the display name for a code or name. Unrecognized input,
// including the empty string, yields Unknown rather than a guessed language.
func DisplayName(codeOrName string) string {
	if l, ok := Lookup(codeOrName); ok {
		return l.Name
	}
	return Unknown
}

// BackendName returns the translation backend's vocabulary for a language,
// falling back to English.
func BackendName(nameOrCode string) string {
	if l, ok := Lookup(nameOrCode); ok {
		return l.BackendName()
	}
	return DefaultBackendName
}

// Same reports whether two inputs denote the same language.
func Same(a, b string) bool {
	la, okA := Lookup(a)
	lb, okB := Lookup(b)
	if okA && okB {
		return la == lb
	}
	return strings.EqualFold(strings.TrimSpace(a), strings.TrimSpace(b))
}

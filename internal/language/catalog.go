package language

import "strings"

// Entry is one catalog language: a canonical ISO 639-1 style code and its
// English display name.
type Entry struct {
	Code string `json:"code"`
	Name string `json:"name"`
}

// catalogEntries is the canonical language table. Codes are unique; the order
// here is the order List returns.
var catalogEntries = []Entry{
	{Code: "en", Name: "English"},
	{Code: "es", Name: "Spanish"},
	{Code: "fr", Name: "French"},
	{Code: "de", Name: "German"},
	{Code: "it", Name: "Italian"},
	{Code: "pt", Name: "Portuguese"},
	{Code: "ru", Name: "Russian"},
	{Code: "ja", Name: "Japanese"},
	{Code: "zh-CN", Name: "Chinese (Simplified)"},
	{Code: "zh-TW", Name: "Chinese (Traditional)"},
	{Code: "ar", Name: "Arabic"},
	{Code: "hi", Name: "Hindi"},
	{Code: "ko", Name: "Korean"},
	{Code: "nl", Name: "Dutch"},
	{Code: "sv", Name: "Swedish"},
	{Code: "fi", Name: "Finnish"},
	{Code: "tr", Name: "Turkish"},
	{Code: "pl", Name: "Polish"},
	{Code: "cs", Name: "Czech"},
	{Code: "da", Name: "Danish"},
	{Code: "he", Name: "Hebrew"},
	{Code: "hu", Name: "Hungarian"},
	{Code: "no", Name: "Norwegian"},
	{Code: "th", Name: "Thai"},
	{Code: "vi", Name: "Vietnamese"},
	{Code: "id", Name: "Indonesian"},
	{Code: "uk", Name: "Ukrainian"},
	{Code: "ro", Name: "Romanian"},
	{Code: "fa", Name: "Persian"},
	{Code: "el", Name: "Greek"},
	{Code: "bg", Name: "Bulgarian"},
}

var (
	entriesByLowerCode = buildCodeIndex()
	codesByLowerName   = buildNameIndex()
)

func buildCodeIndex() map[string]Entry {
	index := make(map[string]Entry, len(catalogEntries))
	for _, entry := range catalogEntries {
		index[strings.ToLower(entry.Code)] = entry
	}
	return index
}

func buildNameIndex() map[string]string {
	index := make(map[string]string, len(catalogEntries))
	for _, entry := range catalogEntries {
		index[strings.ToLower(entry.Name)] = entry.Code
	}
	return index
}

// Normalize resolves arbitrary user input (a code in any case, or a display
// name) to the canonical catalog code. Unknown input is passed through
// lower-cased so codes not yet cataloged still flow to the backends.
func Normalize(raw string) string {
	lowered := strings.ToLower(strings.TrimSpace(raw))
	if entry, ok := entriesByLowerCode[lowered]; ok {
		return entry.Code
	}
	if code, ok := codesByLowerName[lowered]; ok {
		return code
	}
	return lowered
}

// DisplayName returns the catalog display name for a code, or the code itself
// when it is not cataloged.
func DisplayName(code string) string {
	if entry, ok := entriesByLowerCode[strings.ToLower(strings.TrimSpace(code))]; ok {
		return entry.Name
	}
	return code
}

// Known reports whether the code resolves to a catalog entry.
func Known(code string) bool {
	_, ok := entriesByLowerCode[strings.ToLower(strings.TrimSpace(code))]
	return ok
}

// List returns every catalog entry in canonical order.
func List() []Entry {
	entries := make([]Entry, len(catalogEntries))
	copy(entries, catalogEntries)
	return entries
}

// Codes returns every canonical code in catalog order.
func Codes() []string {
	codes := make([]string, 0, len(catalogEntries))
	for _, entry := range catalogEntries {
		codes = append(codes, entry.Code)
	}
	return codes
}

// BaseCode returns the primary language subtag (for example, "zh" from
// "zh-CN").
func BaseCode(code string) string {
	normalized := strings.ToLower(strings.TrimSpace(code))
	if dash := strings.IndexByte(normalized, '-'); dash >= 0 {
		return normalized[:dash]
	}
	return normalized
}

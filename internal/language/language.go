package language

import "strings"

type entry struct {
	code2   string
	code3   string
	alt3    string // bibliographic ISO 639-2 code, e.g. "fre"
	display string
}

var languages = []entry{
	{"en", "eng", "", "English"},
	{"es", "spa", "", "Spanish"},
	{"fr", "fra", "fre", "French"},
	{"de", "deu", "ger", "German"},
	{"it", "ita", "", "Italian"},
	{"pt", "por", "", "Portuguese"},
	{"ja", "jpn", "", "Japanese"},
	{"ko", "kor", "", "Korean"},
	{"zh", "zho", "chi", "Chinese"},
	{"ru", "rus", "", "Russian"},
	{"ar", "ara", "", "Arabic"},
	{"hi", "hin", "", "Hindi"},
	{"nl", "nld", "dut", "Dutch"},
	{"pl", "pol", "", "Polish"},
	{"sv", "swe", "", "Swedish"},
	{"da", "dan", "", "Danish"},
	{"no", "nor", "", "Norwegian"},
	{"fi", "fin", "", "Finnish"},
}

var index = func() map[string]*entry {
	m := make(map[string]*entry, len(languages)*4)
	for i := range languages {
		e := &languages[i]
		m[e.code2] = e
		m[e.code3] = e
		if e.alt3 != "" {
			m[e.alt3] = e
		}
		m[strings.ToLower(e.display)] = e
	}
	return m
}()

// tagKeys are the stream tag spellings muxers use for the language.
var tagKeys = []string{"language", "LANGUAGE", "Language", "language_ietf", "lang", "LANG"}

func lookup(code string) *entry {
	code = clean(code)
	if code == "" {
		return nil
	}
	if e, ok := index[code]; ok {
		return e
	}
	// IETF tags such as "en-US" carry the language before the first dash.
	if base, _, found := strings.Cut(code, "-"); found {
		return index[base]
	}
	return nil
}

func clean(code string) string {
	return strings.ToLower(strings.TrimSpace(strings.ReplaceAll(code, "\u0000", "")))
}

// Canonical returns the ISO 639-2 code for a recognized code or name, the
// cleaned input otherwise, and "" for blank input.
func Canonical(code string) string {
	if e := lookup(code); e != nil {
		return e.code3
	}
	return clean(code)
}

// FromTags returns the raw language tag of a stream, lowercased.
func FromTags(tags map[string]string) string {
	for _, key := range tagKeys {
		if value := clean(tags[key]); value != "" {
			return value
		}
	}
	return ""
}

// Matches reports whether a stream tagged tag satisfies the preference want.
// Unknown codes fall back to a prefix match so "en" still finds "en-gb".
func Matches(tag, want string) bool {
	tag, want = Canonical(tag), Canonical(want)
	if tag == "" || want == "" {
		return false
	}
	return tag == want || strings.HasPrefix(tag, want)
}

// DisplayName returns the English name for a recognized code, the upper-cased
// code otherwise, and "Unknown" for blank input.
func DisplayName(code string) string {
	if clean(code) == "" {
		return "Unknown"
	}
	if e := lookup(code); e != nil {
		return e.display
	}
	return strings.ToUpper(clean(code))
}

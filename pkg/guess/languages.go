package guess

import (
	"fmt"
	"strings"
	"sync"

	"golang.org/x/text/language"
	"golang.org/x/text/language/display"
)

// Release names use a handful of codes that are not valid ISO 639-1 or
// ISO 3166 codes.
var (
	languageAliases = map[string]string{
		"jp":  "ja",
		"jap": "ja",
		"ger": "de",
		"fre": "fr",
		"dut": "nl",
		"rum": "ro",
		"esp": "es",
	}
	countryAliases = map[string]string{
		"UK": "GB",
	}
)

// CanonicalLanguage returns the ISO 639 base code for a language code.
func CanonicalLanguage(code string) (string, error) {
	c := strings.ToLower(strings.TrimSpace(code))
	if alias, ok := languageAliases[c]; ok {
		c = alias
	}
	if c == "" {
		return "", fmt.Errorf("unknown language code %q", code)
	}
	base, err := language.ParseBase(c)
	if err != nil {
		return "", fmt.Errorf("unknown language code %q: %w", code, err)
	}
	return base.String(), nil
}

// CanonicalCountry returns the ISO 3166 region code for a country code.
func CanonicalCountry(code string) (string, error) {
	c := strings.ToUpper(strings.TrimSpace(code))
	if alias, ok := countryAliases[c]; ok {
		c = alias
	}
	if len(c) != 2 {
		return "", fmt.Errorf("country code %q must have two letters", code)
	}
	region, err := language.ParseRegion(c)
	if err != nil {
		return "", fmt.Errorf("unknown country code %q: %w", code, err)
	}
	if !region.IsCountry() {
		return "", fmt.Errorf("%q is not a country", code)
	}
	return region.String(), nil
}

// languageIndex maps lower-cased codes and names to canonical base codes for
// one allowed-language list.
type languageIndex map[string]string

var languageIndexes sync.Map // joined allowed list -> languageIndex

func indexFor(allowed []string) languageIndex {
	key := strings.Join(allowed, ",")
	if v, ok := languageIndexes.Load(key); ok {
		return v.(languageIndex)
	}

	idx := make(languageIndex)
	english := display.English.Languages()
	for _, code := range allowed {
		canonical, err := CanonicalLanguage(code)
		if err != nil {
			continue
		}
		base := language.MustParseBase(canonical)
		idx[canonical] = canonical
		idx[strings.ToLower(code)] = canonical
		idx[base.ISO3()] = canonical
		if name := english.Name(base); name != "" {
			idx[strings.ToLower(name)] = canonical
		}
		if name := display.Self.Name(base); name != "" {
			idx[strings.ToLower(name)] = canonical
		}
	}
	for alias, canonical := range languageAliases {
		if _, ok := idx[canonical]; ok && canonical != "" {
			idx[alias] = canonical
		}
	}

	v, _ := languageIndexes.LoadOrStore(key, idx)
	return v.(languageIndex)
}

// filterLanguages maps engine language tokens to base codes and drops those
// not in allowed. An empty allowed list keeps every recognizable language.
func filterLanguages(tokens, allowed []string) []string {
	if len(tokens) == 0 {
		return nil
	}

	var out []string
	seen := make(map[string]struct{}, len(tokens))
	add := func(code string) {
		if _, dup := seen[code]; dup {
			return
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}

	if len(allowed) == 0 {
		for _, tok := range tokens {
			if code, err := CanonicalLanguage(tok); err == nil {
				add(code)
			}
		}
		return out
	}

	idx := indexFor(allowed)
	for _, tok := range tokens {
		if code, ok := idx[strings.ToLower(strings.TrimSpace(tok))]; ok {
			add(code)
		}
	}
	return out
}

// splitCountry moves a trailing country token ("Shameless US") out of the
// title when the country is allowed. Engines that drop the token from the
// title on their own are covered by looking at the word before the season
// marker in name.
func splitCountry(res *Result, name string, allowed []string) {
	if res.Country != "" || len(allowed) == 0 {
		return
	}

	fields := strings.Fields(res.Title)
	if len(fields) >= 2 {
		if code, ok := allowedCountry(fields[len(fields)-1], allowed); ok {
			res.Country = code
			res.Title = strings.Join(fields[:len(fields)-1], " ")
			return
		}
	}

	if len(fields) == 0 {
		return
	}
	spaced := separatorsToSpaces(name)
	loc := reSeasonMarker.FindStringIndex(spaced)
	if loc == nil {
		return
	}
	before := strings.Fields(spaced[:loc[0]])
	if len(before) != len(fields)+1 {
		return
	}
	if !strings.EqualFold(strings.Join(before[:len(fields)], " "), strings.Join(fields, " ")) {
		return
	}
	if code, ok := allowedCountry(before[len(before)-1], allowed); ok {
		res.Country = code
	}
}

// allowedCountry reads tok as an upper-case country code and reports whether
// it is in allowed.
func allowedCountry(tok string, allowed []string) (string, bool) {
	tok = strings.Trim(tok, "()[]")
	if len(tok) != 2 || strings.ToUpper(tok) != tok {
		return "", false
	}
	code, err := CanonicalCountry(tok)
	if err != nil {
		return "", false
	}
	for _, a := range allowed {
		if c, err := CanonicalCountry(a); err == nil && c == code {
			return code, true
		}
	}
	return "", false
}

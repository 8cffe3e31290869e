package guess

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dlclark/regexp2"
)

// PatternPrefix marks a hint entry as a regular expression. Entries without it
// are matched literally.
const PatternPrefix = "re:"

const matchTimeout = 250 * time.Millisecond

var patternCache sync.Map // hint string -> *regexp2.Regexp

// CompilePattern compiles a hint entry. Patterns use .NET syntax so that
// look-behind assertions such as (?<![^/\\]) are available. Compiled
// patterns are cached for the life of the process.
func CompilePattern(hint string) (*regexp2.Regexp, error) {
	if v, ok := patternCache.Load(hint); ok {
		return v.(*regexp2.Regexp), nil
	}

	var expr string
	if strings.HasPrefix(hint, PatternPrefix) {
		expr = strings.TrimPrefix(hint, PatternPrefix)
	} else {
		expr = regexp2.Escape(hint)
	}
	if strings.TrimSpace(expr) == "" {
		return nil, fmt.Errorf("empty hint pattern %q", hint)
	}

	re, err := regexp2.Compile(expr, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("compile hint pattern %q: %w", hint, err)
	}
	re.MatchTimeout = matchTimeout

	v, _ := patternCache.LoadOrStore(hint, re)
	return v.(*regexp2.Regexp), nil
}

// hit is a hint match located in rune offsets of the searched text. spaced
// is set when the match was only found with separators read as spaces.
type hit struct {
	text   string
	start  int
	end    int
	spaced bool
}

var sepReplacer = strings.NewReplacer(".", " ", "_", " ")

// separatorsToSpaces keeps rune offsets stable: every replaced separator is a
// single rune.
func separatorsToSpaces(s string) string { return sepReplacer.Replace(s) }

// findFirst returns the first match of the first hint that matches, trying
// the name as given and then with dots and underscores read as spaces.
func findFirst(hints []string, name string) (*hit, error) {
	candidates := []string{name}
	if spaced := separatorsToSpaces(name); spaced != name {
		candidates = append(candidates, spaced)
	}

	for _, h := range hints {
		re, err := CompilePattern(h)
		if err != nil {
			return nil, err
		}
		for i, text := range candidates {
			m, err := re.FindStringMatch(text)
			if err != nil {
				return nil, fmt.Errorf("match hint %q: %w", h, err)
			}
			if m != nil && m.Length > 0 {
				return &hit{text: m.String(), start: m.Index, end: m.Index + m.Length, spaced: i > 0}, nil
			}
		}
	}
	return nil, nil
}

// findLast returns the right-most match across all hints.
func findLast(hints []string, name string) (*hit, error) {
	var best *hit
	for _, h := range hints {
		re, err := CompilePattern(h)
		if err != nil {
			return nil, err
		}
		m, err := re.FindStringMatch(name)
		for m != nil && err == nil {
			if m.Length > 0 && (best == nil || m.Index > best.start) {
				best = &hit{text: m.String(), start: m.Index, end: m.Index + m.Length}
			}
			m, err = re.FindNextMatch(m)
		}
		if err != nil {
			return nil, fmt.Errorf("match hint %q: %w", h, err)
		}
	}
	return best, nil
}

// extends reports whether the hit is a longer form of title, i.e. the engine
// dropped leading or trailing words of the hinted text.
func (h *hit) extends(title string) bool {
	text := strings.ToLower(strings.TrimSpace(h.text))
	title = strings.ToLower(strings.TrimSpace(title))
	if len(title) >= len(text) {
		return false
	}
	return strings.HasPrefix(text, title) || strings.HasSuffix(text, title)
}

// mask replaces the hit span with placeholder so the engine does not try to
// tokenize the hinted text itself.
func (h *hit) mask(name, placeholder string) string {
	runes := []rune(name)
	if h.start < 0 || h.end > len(runes) || h.start >= h.end {
		return name
	}
	var b strings.Builder
	b.WriteString(string(runes[:h.start]))
	b.WriteString(placeholder)
	b.WriteString(string(runes[h.end:]))
	return b.String()
}

package nameparser

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// singleOrList returns values unchanged when they hold at most one element.
// Several elements come back sorted when allowMulti is set and as nil
// otherwise.
func singleOrList[T cmp.Ordered](values []T, allowMulti bool) []T {
	if len(values) <= 1 {
		return slices.Clone(values)
	}
	if !allowMulti {
		return nil
	}
	out := slices.Clone(values)
	slices.Sort(out)
	return out
}

// ensureList always returns a non-nil sorted copy.
func ensureList[T cmp.Ordered](values []T) []T {
	out := make([]T, len(values))
	copy(out, values)
	slices.Sort(out)
	return out
}

func extraInfo(other []string) string {
	if len(other) == 0 {
		return ""
	}
	return strings.Join(ensureList(other), " ")
}

// normalize puts every hint into NFC with surrounding whitespace removed so it
// compares equal to the NFC release name the engine sees.
func normalize(values []string) []string {
	if values == nil {
		return nil
	}
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = norm.NFC.String(strings.TrimSpace(v))
	}
	return out
}

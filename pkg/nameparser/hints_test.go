package nameparser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultHints(t *testing.T) {
	h := DefaultHints()

	assert.Len(t, h.ExpectedTitles(), 7)
	assert.Equal(t, "11.22.63", h.ExpectedTitles()[0])
	assert.Contains(t, h.ExpectedTitles(), `re:(?<![^/\\])\w+ it\b`)
	assert.Len(t, h.ExpectedGroups(), 16)
	assert.Contains(t, h.ExpectedGroups(), `re:\bTV2LAX9\b`)
	assert.Equal(t, []string{"de", "en", "es", "fr", "he", "hu", "it", "jp", "nl", "pl", "pt", "ro", "ru", "sv", "uk"}, h.AllowedLanguages())
	assert.Equal(t, []string{"us", "gb"}, h.AllowedCountries())
	assert.False(t, h.AllowMultiSeason())

	require.NoError(t, h.Validate())
}

func TestHints_AccessorsReturnCopies(t *testing.T) {
	h := DefaultHints()
	titles := h.ExpectedTitles()
	titles[0] = "changed"

	assert.Equal(t, "11.22.63", h.ExpectedTitles()[0])
	assert.Equal(t, "11.22.63", defaultExpectedTitles[0])
}

func TestNewHints_Options(t *testing.T) {
	h, err := NewHints(
		WithExtraExpectedTitles("Show 24", "11.22.63", ""),
		WithExpectedGroups(`re:\bGRP\b`),
		WithExtraExpectedGroups("OTHER"),
		WithAllowedLanguages("en", "ja"),
		WithAllowedCountries("us"),
		WithAllowMultiSeason(true),
	)
	require.NoError(t, err)

	assert.Len(t, h.ExpectedTitles(), 8)
	assert.Equal(t, "Show 24", h.ExpectedTitles()[7])
	assert.Equal(t, []string{`re:\bGRP\b`, "OTHER"}, h.ExpectedGroups())
	assert.Equal(t, []string{"en", "ja"}, h.AllowedLanguages())
	assert.Equal(t, []string{"us"}, h.AllowedCountries())
	assert.True(t, h.AllowMultiSeason())
}

func TestNewHints_RejectsUnknownCodes(t *testing.T) {
	tests := []struct {
		name string
		opt  HintOption
	}{
		{name: "bad pattern", opt: WithExpectedTitles("re:(?<![/)x")},
		{name: "empty pattern", opt: WithExtraExpectedGroups("re:")},
		{name: "unknown language", opt: WithAllowedLanguages("en", "xx")},
		{name: "unknown country", opt: WithAllowedCountries("zz9")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewHints(tt.opt)
			require.Error(t, err)
			assert.True(t, IsErrorKind(err, ErrConfig))
		})
	}
}

package guesser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

func TestNormalize(t *testing.T) {
	name, err := Normalize("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, name)

	name, err = Normalize(" PTT ")
	require.NoError(t, err)
	assert.Equal(t, "ptt", name)

	_, err = Normalize("nosuchengine")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rls, ptt")
}

func TestNew_EpisodeRelease(t *testing.T) {
	for _, backend := range Backends() {
		t.Run(backend, func(t *testing.T) {
			g, err := New(backend)
			require.NoError(t, err)
			assert.Equal(t, backend, g.Name())

			res, err := g.Guess("Show.Name.S01E02.720p.HDTV-GROUP", guess.Options{
				Mode:     guess.ModeEpisode,
				Implicit: true,
				ShowType: guess.ShowTypeRegular,
			})
			require.NoError(t, err)

			assert.Equal(t, "Show Name", res.Title)
			assert.Equal(t, []int{1}, res.Season)
			assert.Equal(t, []int{2}, res.Episode)
			assert.Equal(t, "GROUP", res.ReleaseGroup)
		})
	}
}

func TestNew_DefaultBackendNumbering(t *testing.T) {
	tests := []struct {
		name         string
		release      string
		showType     guess.ShowType
		wantTitle    string
		wantSeason   []int
		wantEpisode  []int
		wantAbsolute []int
		wantVersion  int
		wantGroup    string
	}{
		{
			name:        "double episode",
			release:     "Show.Name.S01E02E03.720p.HDTV-GROUP",
			showType:    guess.ShowTypeRegular,
			wantTitle:   "Show Name",
			wantSeason:  []int{1},
			wantEpisode: []int{2, 3},
			wantGroup:   "GROUP",
		},
		{
			name:        "episode range",
			release:     "Show.Name.S01E02-E03.720p.HDTV-GROUP",
			showType:    guess.ShowTypeRegular,
			wantTitle:   "Show Name",
			wantSeason:  []int{1},
			wantEpisode: []int{2, 3},
			wantGroup:   "GROUP",
		},
		{
			name:        "versioned episode",
			release:     "Show.Name.S01E02v2.720p.HDTV-GROUP",
			showType:    guess.ShowTypeRegular,
			wantTitle:   "Show Name",
			wantSeason:  []int{1},
			wantEpisode: []int{2},
			wantVersion: 2,
			wantGroup:   "GROUP",
		},
		{
			name:         "anime dash numbering",
			release:      "[HorribleSubs] One Piece - 1071",
			showType:     guess.ShowTypeAnime,
			wantTitle:    "One Piece",
			wantAbsolute: []int{1071},
			wantGroup:    "HorribleSubs",
		},
	}

	g, err := New("")
	require.NoError(t, err)
	assert.Equal(t, DefaultBackend, g.Name())

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := g.Guess(tt.release, guess.Options{
				Mode:                guess.ModeEpisode,
				Implicit:            true,
				ShowType:            tt.showType,
				EpisodePreferNumber: tt.showType == guess.ShowTypeAnime,
			})
			require.NoError(t, err)

			assert.Equal(t, tt.wantTitle, res.Title)
			assert.Equal(t, tt.wantSeason, res.Season)
			assert.Equal(t, tt.wantEpisode, res.Episode)
			assert.Equal(t, tt.wantAbsolute, res.AbsoluteEpisode)
			assert.Equal(t, tt.wantGroup, res.ReleaseGroup)
			if tt.wantVersion > 0 {
				require.NotNil(t, res.Version)
				assert.Equal(t, tt.wantVersion, *res.Version)
			} else {
				assert.Nil(t, res.Version)
			}
		})
	}
}

func TestNew_UnknownBackend(t *testing.T) {
	_, err := New("nope")
	assert.Error(t, err)
}

package library

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/MimeLyc/release-name-parser/pkg/file"
	"github.com/MimeLyc/release-name-parser/pkg/guess"
	"github.com/MimeLyc/release-name-parser/pkg/log"
	"github.com/MimeLyc/release-name-parser/pkg/nameparser"
)

// BatchParser parses release names in bulk, keeping their order.
type BatchParser interface {
	ParseAll(ctx context.Context, names []string, showType guess.ShowType) ([]*nameparser.ParseResult, error)
}

type scannerOptions struct {
	cacheTTL      time.Duration
	modifiedAfter time.Time
}

type Option func(*scannerOptions)

func WithCacheTTL(ttl time.Duration) Option {
	return func(o *scannerOptions) {
		o.cacheTTL = ttl
	}
}

// WithModifiedAfter limits scans to files modified after t.
func WithModifiedAfter(t time.Time) Option {
	return func(o *scannerOptions) {
		o.modifiedAfter = t
	}
}

type scanCache struct {
	version uint64
	scanned time.Time
	library *Library
}

// Scanner walks source directories and parses every media file name found.
type Scanner struct {
	sources       []SourceConfig
	parser        BatchParser
	modifiedAfter time.Time

	mu            sync.RWMutex
	cacheTTL      time.Duration
	cache         *scanCache
	configVersion uint64
}

func NewScanner(
	sources []SourceConfig,
	parser BatchParser,
	opts ...Option,
) (*Scanner, error) {
	options := scannerOptions{
		cacheTTL: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&options)
	}

	for _, src := range sources {
		if _, err := guess.ParseShowType(src.ShowType); err != nil {
			return nil, fmt.Errorf("source %s: %w", src.ID, err)
		}
	}

	return &Scanner{
		sources:       sources,
		parser:        parser,
		modifiedAfter: options.modifiedAfter,
		cacheTTL:      options.cacheTTL,
	}, nil
}

func (s *Scanner) Invalidate() {
	s.mu.Lock()
	s.cache = nil
	s.configVersion++
	s.mu.Unlock()
}

// resolveSeriesPath walks from the media file's directory upward toward
// sourcePath, looking for a tvshow.nfo file. If found, that directory is the
// series root. Otherwise falls back to the first subdirectory under sourcePath.
func resolveSeriesPath(sourcePath, mediaPath string) string {
	dir := filepath.Dir(mediaPath)
	for dir != sourcePath && strings.HasPrefix(dir, sourcePath) {
		if _, err := os.Stat(filepath.Join(dir, "tvshow.nfo")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	rel, err := filepath.Rel(sourcePath, filepath.Dir(mediaPath))
	if err != nil || rel == "." {
		return sourcePath
	}
	first := strings.SplitN(rel, string(filepath.Separator), 2)[0]
	return filepath.Join(sourcePath, first)
}

// resolveSeasonName returns the season directory name (e.g. "Season 1")
// if the media file is nested inside a subdirectory of seriesPath.
// Returns "" if media is directly inside seriesPath.
func resolveSeasonName(seriesPath, mediaPath string) string {
	mediaDir := filepath.Dir(mediaPath)
	if mediaDir == seriesPath {
		return ""
	}
	rel, err := filepath.Rel(seriesPath, mediaDir)
	if err != nil || rel == "." {
		return ""
	}
	return strings.SplitN(rel, string(filepath.Separator), 2)[0]
}

// episodeName formats a parse result as a short display name, e.g.
// "S01E15", "S01E01-E02" or "#1071". It falls back to the file base name.
func episodeName(res *nameparser.ParseResult, basename string) string {
	if res == nil {
		return basename
	}
	var sb strings.Builder
	if season, ok := res.SeasonNumber.Single(); ok {
		fmt.Fprintf(&sb, "S%02d", season)
	}
	switch n := len(res.EpisodeNumbers); {
	case n == 1:
		fmt.Fprintf(&sb, "E%02d", res.EpisodeNumbers[0])
	case n > 1:
		fmt.Fprintf(&sb, "E%02d-E%02d", res.EpisodeNumbers[0], res.EpisodeNumbers[n-1])
	case len(res.AbEpisodeNumbers) > 0:
		fmt.Fprintf(&sb, "#%d", res.AbEpisodeNumbers[0])
	}
	if sb.Len() == 0 {
		return basename
	}
	return sb.String()
}

// seriesName returns the parsed series name, or the file name without its
// extension when the parser found none.
func seriesName(res *nameparser.ParseResult, basename string) string {
	if res != nil && res.SeriesName != "" {
		return res.SeriesName
	}
	return strings.TrimSuffix(basename, filepath.Ext(basename))
}

func (s *Scanner) Scan(ctx context.Context) (*Library, error) {
	s.mu.RLock()
	version := s.configVersion
	if s.cache != nil && s.cache.version == version && time.Since(s.cache.scanned) < s.cacheTTL {
		cached := cloneLibrary(s.cache.library)
		s.mu.RUnlock()
		return cached, nil
	}
	s.mu.RUnlock()

	ret := &Library{
		Sources:  make([]Source, 0, len(s.sources)),
		Items:    make([]Item, 0),
		Episodes: make([]Episode, 0),
	}

	for _, src := range s.sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		info, err := os.Stat(src.Path)
		if err != nil || !info.IsDir() {
			log.Warn("Skip source %s: %s is not a directory", src.ID, src.Path)
			ret.Sources = append(ret.Sources, Source{ID: src.ID, Name: src.Name, Path: src.Path})
			continue
		}

		mediaFiles, err := file.FindByExt(src.Path, mediaExts, s.modifiedAfter)
		if err != nil {
			return nil, fmt.Errorf("scan source %s: %w", src.ID, err)
		}

		names := make([]string, len(mediaFiles))
		for i, mediaPath := range mediaFiles {
			names[i] = filepath.Base(mediaPath)
		}
		showType, _ := guess.ParseShowType(src.ShowType)
		parsed, err := s.parser.ParseAll(ctx, names, showType)
		if err != nil {
			return nil, fmt.Errorf("parse source %s: %w", src.ID, err)
		}

		items := make(map[string]*Item)
		itemOrder := make([]string, 0)
		for i, mediaPath := range mediaFiles {
			seriesPath := resolveSeriesPath(src.Path, mediaPath)
			itemID := src.ID + "|" + seriesPath
			name := filepath.Base(seriesPath)
			if seriesPath == src.Path {
				// Files directly in the source are grouped by parsed series.
				name = seriesName(parsed[i], names[i])
				itemID = src.ID + "|" + name
			}

			item, ok := items[itemID]
			if !ok {
				item = &Item{
					ID:       itemID,
					SourceID: src.ID,
					Name:     name,
					Path:     seriesPath,
				}
				items[itemID] = item
				itemOrder = append(itemOrder, itemID)
			}
			item.EpisodeCount++

			ret.Episodes = append(ret.Episodes, Episode{
				ID:        mediaPath,
				SourceID:  src.ID,
				ItemID:    itemID,
				Name:      episodeName(parsed[i], names[i]),
				Season:    resolveSeasonName(seriesPath, mediaPath),
				MediaPath: mediaPath,
				Parsed:    parsed[i],
			})
		}

		for _, id := range itemOrder {
			ret.Items = append(ret.Items, *items[id])
		}
		ret.Sources = append(ret.Sources, Source{
			ID:        src.ID,
			Name:      src.Name,
			Path:      src.Path,
			ItemCount: len(itemOrder),
		})
		log.Info("Scanned source %s: %d series, %d files", src.ID, len(itemOrder), len(mediaFiles))
	}

	s.mu.Lock()
	if s.configVersion == version {
		s.cache = &scanCache{
			version: version,
			scanned: time.Now(),
			library: cloneLibrary(ret),
		}
	}
	s.mu.Unlock()

	return ret, nil
}

var mediaExts = []string{
	".mkv", ".mp4", ".m4v", ".mov", ".avi", ".wmv", ".flv", ".webm",
	".ogv", ".3gp", ".3g2", ".f4v", ".asf", ".rm", ".rmvb", ".ts",
	".m2ts", ".mts", ".vob", ".mpg", ".mpeg", ".m2v", ".divx", ".xvid",
}

func cloneLibrary(src *Library) *Library {
	if src == nil {
		return nil
	}
	dst := &Library{
		Sources:  slices.Clone(src.Sources),
		Items:    slices.Clone(src.Items),
		Episodes: make([]Episode, len(src.Episodes)),
	}
	for i, ep := range src.Episodes {
		ep.Parsed = ep.Parsed.Clone()
		dst.Episodes[i] = ep
	}
	return dst
}

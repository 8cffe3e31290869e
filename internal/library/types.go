package library

import "github.com/MimeLyc/release-name-parser/pkg/nameparser"

// SourceConfig is a directory of release files. ShowType is handed to the
// parser for every file below Path.
type SourceConfig struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Path     string `json:"path"`
	ShowType string `json:"show_type"`
}

type Source struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Path      string `json:"path"`
	ItemCount int    `json:"item_count"`
}

// Item is a series directory, named after the parsed series when the
// directory name gives nothing better.
type Item struct {
	ID           string `json:"id"`
	SourceID     string `json:"source_id"`
	Name         string `json:"name"`
	Path         string `json:"path"`
	EpisodeCount int    `json:"episode_count"`
}

type Episode struct {
	ID        string                  `json:"id"`
	SourceID  string                  `json:"source_id"`
	ItemID    string                  `json:"item_id"`
	Name      string                  `json:"name"`
	Season    string                  `json:"season"`
	MediaPath string                  `json:"media_path"`
	Parsed    *nameparser.ParseResult `json:"parsed"`
}

type Library struct {
	Sources  []Source  `json:"sources"`
	Items    []Item    `json:"items"`
	Episodes []Episode `json:"episodes"`
}

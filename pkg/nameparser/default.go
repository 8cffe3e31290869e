package nameparser

import (
	"sync"

	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

var (
	defaultOnce   sync.Once
	defaultParser *Parser
	defaultErr    error
)

// Default returns the process-wide Parser built from DefaultHints and the
// default engine.
func Default() (*Parser, error) {
	defaultOnce.Do(func() {
		defaultParser, defaultErr = New()
	})
	return defaultParser, defaultErr
}

// Guess runs Default().Guess.
func Guess(name string, showType guess.ShowType) (*guess.Result, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	return p.Guess(name, showType)
}

// Parse runs Default().Parse.
func Parse(name string, showType guess.ShowType) (*ParseResult, error) {
	p, err := Default()
	if err != nil {
		return nil, err
	}
	return p.Parse(name, showType)
}

package guesser

import (
	"fmt"
	"strings"

	"github.com/MimeLyc/release-name-parser/internal/guesser/pttguess"
	"github.com/MimeLyc/release-name-parser/internal/guesser/rlsguess"
	"github.com/MimeLyc/release-name-parser/pkg/guess"
)

// DefaultBackend is used when no backend is configured.
const DefaultBackend = rlsguess.Name

var engines = map[string]func() guess.Engine{
	// rls misses multi-episode, versioned and anime dash numbering; go-ptt
	// fills those in.
	rlsguess.Name: func() guess.Engine { return NewFallback(rlsguess.New(), pttguess.New()) },
	pttguess.Name: func() guess.Engine { return pttguess.New() },
}

// Backends lists the registered engine names.
func Backends() []string {
	return []string{rlsguess.Name, pttguess.Name}
}

// Normalize returns the canonical backend name, resolving "" to DefaultBackend.
func Normalize(backend string) (string, error) {
	name := strings.ToLower(strings.TrimSpace(backend))
	if name == "" {
		return DefaultBackend, nil
	}
	if _, ok := engines[name]; !ok {
		return "", fmt.Errorf("unknown guesser backend %q (available: %s)", backend, strings.Join(Backends(), ", "))
	}
	return name, nil
}

// New returns a hint-aware Guesser for the named backend.
func New(backend string) (*guess.Hinted, error) {
	name, err := Normalize(backend)
	if err != nil {
		return nil, err
	}
	return guess.NewHinted(engines[name]()), nil
}

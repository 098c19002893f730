package assembly

import (
	"errors"
	"fmt"
	"strings"
)

// SourceMode is the per-source inclusion setting
type SourceMode string

// NoteMode is the per-note inclusion setting
type NoteMode string

const (
	SourceModeOff      SourceMode = "off"
	SourceModeInsights SourceMode = "insights"
	SourceModeFull     SourceMode = "full"

	NoteModeOff  NoteMode = "off"
	NoteModeFull NoteMode = "full"
)

// ContextConfig maps entity ids to their inclusion modes. Entries with mode
// Off are excluded from any downstream resolver request.
type ContextConfig struct {
	SourceModes map[string]SourceMode `json:"source_modes"`
	NoteModes   map[string]NoteMode   `json:"note_modes"`
}

// ActiveRequest returns a copy with all Off entries removed; this is the
// config actually sent to the content resolver.
func (c ContextConfig) ActiveRequest() ContextConfig {
	req := ContextConfig{
		SourceModes: make(map[string]SourceMode),
		NoteModes:   make(map[string]NoteMode),
	}
	for id, mode := range c.SourceModes {
		if mode != SourceModeOff && mode != "" {
			req.SourceModes[id] = mode
		}
	}
	for id, mode := range c.NoteModes {
		if mode != NoteModeOff && mode != "" {
			req.NoteModes[id] = mode
		}
	}
	return req
}

// IsEmpty reports whether no entity is selected for inclusion
func (c ContextConfig) IsEmpty() bool {
	req := c.ActiveRequest()
	return len(req.SourceModes) == 0 && len(req.NoteModes) == 0
}

// ContextEntry is one resolved piece of context content
type ContextEntry struct {
	ID        string `json:"id"`
	Content   string `json:"content"`
	CharCount int    `json:"char_count"`
}

// AssembledContext is the resolver's result: real content plus the token and
// character totals it reported. Counts are raw integers; formatting (K/M
// suffixes) belongs to the presentation layer.
type AssembledContext struct {
	SourceEntries []ContextEntry `json:"source_entries"`
	NoteEntries   []ContextEntry `json:"note_entries"`
	TokenCount    int            `json:"token_count"`
	CharCount     int            `json:"char_count"`
}

// modeLiterals are the placeholder strings a legacy client shipped to the
// model instead of resolved text. Content equal to one of them means the
// resolver short-circuited; the assembly must fail rather than pass it on.
var modeLiterals = map[string]struct{}{
	"off":          {},
	"insights":     {},
	"full":         {},
	"full content": {},
}

func (a *AssembledContext) validate() error {
	if a == nil {
		return errors.New("resolver returned no context")
	}
	check := func(kind string, entries []ContextEntry) error {
		for _, e := range entries {
			content := strings.TrimSpace(strings.ToLower(e.Content))
			if content == "" {
				return fmt.Errorf("%s entry %s has empty content", kind, e.ID)
			}
			if _, bad := modeLiterals[content]; bad {
				return fmt.Errorf("%s entry %s contains a mode literal instead of content", kind, e.ID)
			}
		}
		return nil
	}
	if err := check("source", a.SourceEntries); err != nil {
		return err
	}
	return check("note", a.NoteEntries)
}

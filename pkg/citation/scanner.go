package citation

import (
	"regexp"
	"strings"
)

// Kind identifies what a reference token points at
type Kind string

const (
	KindSource          Kind = "source"
	KindNote            Kind = "note"
	KindSourceInsight   Kind = "source_insight"
	KindSourceEmbedding Kind = "source_embedding"
)

// Decoration describes the punctuation wrapped around a reference token.
// It is only recorded when BOTH the opening and closing markers sit directly
// against the token; a one-sided bracket is no decoration at all.
type Decoration int

const (
	DecorationNone Decoration = iota
	DecorationBracket
	DecorationDoubleBracket
	DecorationBold
	DecorationBoldBracket
)

// Reference is a single kind:id token found in model output
type Reference struct {
	Kind       Kind
	ID         string
	Start      int // byte offset of the kind:id token
	End        int
	Decoration Decoration
	Anchored   bool // token already sits inside a rendered anchor
}

// Segment is either a literal run of text or the decorated text of one reference
type Segment struct {
	Text string
	Ref  *Reference // nil for literal segments
}

// ScanResult contains the ordered references and the literal spans between them
type ScanResult struct {
	References []Reference
	Segments   []Segment
}

// Longest kind names first so source_insight never half-matches as source.
var tokenPattern = regexp.MustCompile(`(source_insight|source_embedding|source|note):([A-Za-z0-9_]+)`)

// MaxIDLength is the hard limit for a reference id; longer ids are not
// references and the match is dropped silently.
const MaxIDLength = 100

const anchorPrefix = "(/?object_id="

type decorationMarkers struct {
	open  string
	close string
	dec   Decoration
}

// Checked in strict priority order so the longest valid pair wins.
var decorationCandidates = []decorationMarkers{
	{"[[", "]]", DecorationDoubleBracket},
	{"[**", "**]", DecorationBoldBracket},
	{"**", "**", DecorationBold},
	{"[", "]", DecorationBracket},
}

// Scan tokenizes reference markers in text and classifies their decoration in
// a second, independent pass. Invalid tokens (bad id shape or length) are
// skipped, never errored.
func Scan(text string) *ScanResult {
	result := &ScanResult{
		References: make([]Reference, 0),
		Segments:   make([]Segment, 0),
	}

	// Pass 1: tokenize and classify.
	matches := tokenPattern.FindAllStringSubmatchIndex(text, -1)
	lastEnd := 0

	for _, m := range matches {
		start, end := m[0], m[1]
		kind := Kind(text[m[2]:m[3]])
		id := text[m[4]:m[5]]

		if len(id) > MaxIDLength {
			continue
		}
		// Reject matches embedded in a longer word, e.g. "resource:x".
		if start > 0 && isWordByte(text[start-1]) {
			continue
		}
		// The URL half of an already rendered anchor repeats the token;
		// only the label half counts.
		if strings.HasSuffix(text[:start], "object_id=") {
			continue
		}

		ref := Reference{
			Kind:       kind,
			ID:         id,
			Start:      start,
			End:        end,
			Decoration: classifyDecoration(text, start, end),
		}
		markAnchored(text, &ref)

		if ds, _ := ref.DecoratedSpan(); ds < lastEnd {
			continue
		}
		_, lastEnd = ref.DecoratedSpan()
		result.References = append(result.References, ref)
	}

	// Pass 2: slice the literal spans between the accepted references.
	cursor := 0
	for i := range result.References {
		ds, de := result.References[i].DecoratedSpan()
		if ds > cursor {
			result.Segments = append(result.Segments, Segment{Text: text[cursor:ds]})
		}
		result.Segments = append(result.Segments, Segment{
			Text: text[ds:de],
			Ref:  &result.References[i],
		})
		cursor = de
	}
	if cursor < len(text) {
		result.Segments = append(result.Segments, Segment{Text: text[cursor:]})
	}

	return result
}

// DecoratedSpan returns the byte span covering the token plus its decoration
// glyphs in the scanned text.
func (r Reference) DecoratedSpan() (int, int) {
	open, close := r.Decoration.markers()
	return r.Start - len(open), r.End + len(close)
}

// Target is the addressable form of the reference, e.g. "source:abc123".
func (r Reference) Target() string {
	return string(r.Kind) + ":" + r.ID
}

func (d Decoration) markers() (string, string) {
	for _, c := range decorationCandidates {
		if c.dec == d {
			return c.open, c.close
		}
	}
	return "", ""
}

// classifyDecoration inspects the fixed lookaround window on both sides of
// the token. A decoration is accepted only when the open and close markers
// are both present and immediately adjacent; asymmetric punctuation falls
// through to None.
func classifyDecoration(text string, start, end int) Decoration {
	for _, c := range decorationCandidates {
		if start >= len(c.open) &&
			text[start-len(c.open):start] == c.open &&
			end+len(c.close) <= len(text) &&
			text[end:end+len(c.close)] == c.close {
			return c.dec
		}
	}
	return DecorationNone
}

// markAnchored detects tokens that a previous Render already wrapped in a
// markdown anchor, so a second scan reports the same decoration and Render
// never double-wraps.
func markAnchored(text string, ref *Reference) {
	ds, de := ref.DecoratedSpan()
	rest := text[de:]

	// "[<decorated>](/?object_id=..." - the extra bracket outside the
	// decoration is the anchor's own label delimiter.
	if strings.HasPrefix(rest, "]"+anchorPrefix) && ds > 0 && text[ds-1] == '[' {
		ref.Anchored = true
		return
	}

	// The outermost detected bracket pair was actually the anchor label,
	// not decoration; strip one layer.
	if strings.HasPrefix(rest, anchorPrefix) {
		switch ref.Decoration {
		case DecorationDoubleBracket:
			ref.Decoration = DecorationBracket
		case DecorationBoldBracket:
			ref.Decoration = DecorationBold
		case DecorationBracket:
			ref.Decoration = DecorationNone
		}
		ref.Anchored = true
	}
}

func isWordByte(b byte) bool {
	return b == '_' ||
		(b >= 'a' && b <= 'z') ||
		(b >= 'A' && b <= 'Z') ||
		(b >= '0' && b <= '9')
}

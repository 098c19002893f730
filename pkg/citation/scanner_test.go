package citation

import (
	"strings"
	"testing"
)

func TestScanTokens(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantCount int
		wantKind  Kind
		wantID    string
	}{
		{
			name:      "no references",
			text:      "What is machine learning?",
			wantCount: 0,
		},
		{
			name:      "bare source token",
			text:      "See source:abc123 for details",
			wantCount: 1,
			wantKind:  KindSource,
			wantID:    "abc123",
		},
		{
			name:      "note token",
			text:      "covered in note:n_42 earlier",
			wantCount: 1,
			wantKind:  KindNote,
			wantID:    "n_42",
		},
		{
			name:      "insight wins over source prefix",
			text:      "per source_insight:xyz the trend holds",
			wantCount: 1,
			wantKind:  KindSourceInsight,
			wantID:    "xyz",
		},
		{
			name:      "embedding kind",
			text:      "chunk source_embedding:e99 matches",
			wantCount: 1,
			wantKind:  KindSourceEmbedding,
			wantID:    "e99",
		},
		{
			name:      "embedded in longer word is not a reference",
			text:      "the resource:abc is shared",
			wantCount: 0,
		},
		{
			name:      "id over length limit is skipped",
			text:      "see source:" + strings.Repeat("a", MaxIDLength+1) + " here",
			wantCount: 0,
		},
		{
			name:      "id at length limit is kept",
			text:      "see source:" + strings.Repeat("a", MaxIDLength) + " here",
			wantCount: 1,
			wantKind:  KindSource,
			wantID:    strings.Repeat("a", MaxIDLength),
		},
		{
			name:      "id stops at invalid rune",
			text:      "see source:abc-def",
			wantCount: 1,
			wantKind:  KindSource,
			wantID:    "abc",
		},
		{
			name:      "multiple references in order",
			text:      "[source:a] then note:b then [[source_insight:c]]",
			wantCount: 3,
			wantKind:  KindSource,
			wantID:    "a",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Scan(tt.text)
			if len(result.References) != tt.wantCount {
				t.Fatalf("got %d references, want %d: %+v", len(result.References), tt.wantCount, result.References)
			}
			if tt.wantCount == 0 {
				return
			}
			ref := result.References[0]
			if ref.Kind != tt.wantKind {
				t.Errorf("kind = %q, want %q", ref.Kind, tt.wantKind)
			}
			if ref.ID != tt.wantID {
				t.Errorf("id = %q, want %q", ref.ID, tt.wantID)
			}
		})
	}
}

func TestScanDecoration(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Decoration
	}{
		{"plain token", "see source:a here", DecorationNone},
		{"single bracket", "see [source:a] here", DecorationBracket},
		{"double bracket", "see [[source:a]] here", DecorationDoubleBracket},
		{"bold", "see **source:a** here", DecorationBold},
		{"bold in bracket", "see [**source:a**] here", DecorationBoldBracket},
		{"open bracket only", "see [source:a here", DecorationNone},
		{"close bracket only", "see source:a] here", DecorationNone},
		{"bold open only", "see **source:a here", DecorationNone},
		{"mismatched pair", "see [source:a** here", DecorationNone},
		{"marker separated by space", "see [ source:a ] here", DecorationNone},
		{"double bracket at text start", "[[source:a]]", DecorationDoubleBracket},
		{"bracket at text start", "[source:a]", DecorationBracket},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Scan(tt.text)
			if len(result.References) != 1 {
				t.Fatalf("got %d references, want 1", len(result.References))
			}
			if got := result.References[0].Decoration; got != tt.want {
				t.Errorf("decoration = %v, want %v", got, tt.want)
			}
		})
	}
}

// A wiki-style group holds two tokens but neither touches both markers, so
// neither is decorated.
func TestScanGroupedTokensAreUndecorated(t *testing.T) {
	result := Scan("[[note:a1, source_insight:b2]]")
	if len(result.References) != 2 {
		t.Fatalf("got %d references, want 2", len(result.References))
	}
	for _, ref := range result.References {
		if ref.Decoration != DecorationNone {
			t.Errorf("ref %s decoration = %v, want DecorationNone", ref.Target(), ref.Decoration)
		}
	}
	if result.References[0].Target() != "note:a1" {
		t.Errorf("first target = %q", result.References[0].Target())
	}
	if result.References[1].Target() != "source_insight:b2" {
		t.Errorf("second target = %q", result.References[1].Target())
	}
}

func TestScanSegmentsReconstructText(t *testing.T) {
	texts := []string{
		"See [source:abc123] for details",
		"plain text, no refs",
		"[[note:a]] middle **source:b** end",
		"leading source:x",
	}
	for _, text := range texts {
		result := Scan(text)
		var sb strings.Builder
		for _, seg := range result.Segments {
			sb.WriteString(seg.Text)
		}
		if sb.String() != text {
			t.Errorf("segments reconstruct %q, want %q", sb.String(), text)
		}
	}
}

func TestScanSkipsAnchorURLHalf(t *testing.T) {
	text := "[[source:abc]](/?object_id=source:abc)"
	result := Scan(text)
	if len(result.References) != 1 {
		t.Fatalf("got %d references, want 1: %+v", len(result.References), result.References)
	}
	if !result.References[0].Anchored {
		t.Errorf("label-half reference not marked anchored")
	}
}

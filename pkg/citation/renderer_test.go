package citation

import "testing"

func TestRender(t *testing.T) {
	tests := []struct {
		name string
		text string
		want string
	}{
		{
			name: "plain token",
			text: "see source:abc here",
			want: "see [source:abc](/?object_id=source:abc) here",
		},
		{
			name: "bracketed token keeps its brackets in the label",
			text: "See [source:abc123] for details",
			want: "See [[source:abc123]](/?object_id=source:abc123) for details",
		},
		{
			name: "double bracket",
			text: "see [[note:n1]] here",
			want: "see [[[note:n1]]](/?object_id=note:n1) here",
		},
		{
			name: "bold",
			text: "see **source:abc** here",
			want: "see [**source:abc**](/?object_id=source:abc) here",
		},
		{
			name: "bold in bracket",
			text: "see [**source:abc**] here",
			want: "see [[**source:abc**]](/?object_id=source:abc) here",
		},
		{
			name: "multiple references replaced end to start",
			text: "[source:a] and [note:b]",
			want: "[[source:a]](/?object_id=source:a) and [[note:b]](/?object_id=note:b)",
		},
		{
			name: "no references passes through",
			text: "nothing to cite here",
			want: "nothing to cite here",
		},
		{
			name: "grouped tokens anchored individually",
			text: "[[note:a1, source_insight:b2]]",
			want: "[[[note:a1](/?object_id=note:a1), [source_insight:b2](/?object_id=source_insight:b2)]]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ConvertReferences(tt.text)
			if got != tt.want {
				t.Errorf("ConvertReferences(%q)\n got:  %q\n want: %q", tt.text, got, tt.want)
			}
		})
	}
}

// Running the converter over its own output must change nothing, whatever
// decoration the original token carried.
func TestRenderIdempotent(t *testing.T) {
	texts := []string{
		"see source:abc here",
		"See [source:abc123] for details",
		"see [[note:n1]] here",
		"see **source:abc** here",
		"see [**source:abc**] here",
		"[source:a] and [note:b] and source:c",
		"[[note:a1, source_insight:b2]]",
	}
	for _, text := range texts {
		once := ConvertReferences(text)
		twice := ConvertReferences(once)
		if once != twice {
			t.Errorf("not idempotent for %q\n once:  %q\n twice: %q", text, once, twice)
		}
		thrice := ConvertReferences(twice)
		if twice != thrice {
			t.Errorf("unstable on third pass for %q", text)
		}
	}
}

func TestRenderSkipsAnchored(t *testing.T) {
	text := "done: [[source:abc]](/?object_id=source:abc)"
	if got := ConvertReferences(text); got != text {
		t.Errorf("anchored reference re-wrapped: %q", got)
	}
}

package utils

import (
	"strings"
	"testing"
)

func TestSplitTextShortInput(t *testing.T) {
	chunks := SplitText("short text", 100, 10)
	if len(chunks) != 1 || chunks[0] != "short text" {
		t.Errorf("got %v", chunks)
	}
}

func TestSplitTextOverlap(t *testing.T) {
	text := strings.Repeat("abcde ", 100) // 600 runes
	chunks := SplitText(text, 100, 20)

	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}
	for i, chunk := range chunks[:len(chunks)-1] {
		if len([]rune(chunk)) != 100 {
			t.Errorf("chunk %d has %d runes, want 100", i, len([]rune(chunk)))
		}
	}
	// Consecutive chunks share the overlap window.
	first := []rune(chunks[0])
	second := []rune(chunks[1])
	if string(first[80:]) != string(second[:20]) {
		t.Error("chunks do not overlap by 20 runes")
	}
}

func TestSplitTextDegenerateOverlap(t *testing.T) {
	// overlap >= chunkSize must still terminate
	chunks := SplitText(strings.Repeat("x", 50), 10, 10)
	if len(chunks) == 0 {
		t.Fatal("no chunks")
	}
	var sb strings.Builder
	for _, c := range chunks {
		sb.WriteString(c)
	}
	if !strings.Contains(sb.String(), strings.Repeat("x", 10)) {
		t.Error("content lost")
	}
}

func TestEstimateTokens(t *testing.T) {
	tests := []struct {
		text string
		want int
	}{
		{"", 0},
		{"ab", 1}, // short but non-empty still counts
		{"abcd", 1},
		{strings.Repeat("a", 400), 100},
	}
	for _, tt := range tests {
		if got := EstimateTokens(tt.text); got != tt.want {
			t.Errorf("EstimateTokens(%d runes) = %d, want %d", len(tt.text), got, tt.want)
		}
	}
}

package utils

import "unicode/utf8"

// SplitText splits a long string into chunks of approximately chunkSize
// runes, with an overlap to preserve context at chunk boundaries. Used when
// re-embedding source full text.
func SplitText(text string, chunkSize, overlap int) []string {
	if chunkSize <= 0 {
		return []string{text}
	}
	if utf8.RuneCountInString(text) <= chunkSize {
		return []string{text}
	}

	step := chunkSize - overlap
	if step <= 0 {
		step = chunkSize
	}

	runes := []rune(text)
	var chunks []string
	for i := 0; i < len(runes); i += step {
		end := i + chunkSize
		if end > len(runes) {
			end = len(runes)
		}
		chunks = append(chunks, string(runes[i:end]))
		if end == len(runes) {
			break
		}
	}
	return chunks
}

// EstimateTokens approximates the model-facing token count of text. Rough
// calibration of ~4 characters per token; anything non-empty counts as at
// least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	n := utf8.RuneCountInString(text) / 4
	if n < 1 {
		n = 1
	}
	return n
}

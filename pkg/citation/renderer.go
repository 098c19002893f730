package citation

import "strings"

// Render rewrites every scanned reference into a markdown anchor of the form
// [<decorated label>](/?object_id=kind:id), keeping the original decoration
// glyphs visible in the label and leaving all other text untouched.
// Replacements are applied from the end of the text toward the beginning so
// the byte offsets of references not yet processed stay valid.
func Render(text string, refs []Reference) string {
	out := text
	for i := len(refs) - 1; i >= 0; i-- {
		ref := refs[i]
		if ref.Anchored {
			continue
		}
		ds, de := ref.DecoratedSpan()
		var sb strings.Builder
		sb.Grow(len(out) + de - ds + len(anchorPrefix) + 4)
		sb.WriteString(out[:ds])
		sb.WriteByte('[')
		sb.WriteString(out[ds:de]) // decorated label, glyphs preserved
		sb.WriteByte(']')
		sb.WriteString(anchorPrefix)
		sb.WriteString(ref.Target())
		sb.WriteByte(')')
		sb.WriteString(out[de:])
		out = sb.String()
	}
	return out
}

// ConvertReferences is the scan-then-render convenience used on every AI
// reply before it reaches the presentation layer. Running it over its own
// output is a no-op.
func ConvertReferences(text string) string {
	return Render(text, Scan(text).References)
}

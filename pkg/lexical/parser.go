package lexical

import (
	"encoding/json"
	"fmt"
	"strings"
)

// Note bodies arrive from the editor as Lexical JSON. The content resolver
// needs plain markdown before anything can be counted or sent to the model.

// Root is the top-level Lexical document
type Root struct {
	Root Node `json:"root"`
}

// Node is any node in the Lexical tree
type Node struct {
	Type     string `json:"type"`
	Children []Node `json:"children,omitempty"`

	// text nodes
	Text   string      `json:"text,omitempty"`
	Format interface{} `json:"format,omitempty"` // int bitmask on text, string alignment elsewhere

	// heading
	Tag string `json:"tag,omitempty"`

	// list
	ListType string `json:"listType,omitempty"`
	Start    int    `json:"start,omitempty"`

	// link
	URL string `json:"url,omitempty"`
}

const (
	formatBold   = 1
	formatItalic = 2
	formatCode   = 16
)

// ToMarkdown converts a Lexical JSON document to markdown
func ToMarkdown(jsonContent string) (string, error) {
	var doc Root
	if err := json.Unmarshal([]byte(jsonContent), &doc); err != nil {
		return "", fmt.Errorf("invalid lexical document: %w", err)
	}
	var sb strings.Builder
	walk(doc.Root, &sb, 0)
	return strings.TrimRight(sb.String(), "\n") + "\n", nil
}

// ParseContent converts content that may be Lexical JSON into markdown.
// Anything that does not look like a Lexical document passes through as-is.
func ParseContent(content string) string {
	trimmed := strings.TrimSpace(content)
	if !strings.HasPrefix(trimmed, `{"root":`) {
		return content
	}
	md, err := ToMarkdown(trimmed)
	if err != nil {
		return content
	}
	return md
}

func walk(node Node, sb *strings.Builder, depth int) {
	switch node.Type {
	case "root":
		for _, child := range node.Children {
			walk(child, sb, depth)
			sb.WriteString("\n")
		}

	case "heading":
		level := 1
		if len(node.Tag) == 2 && node.Tag[0] == 'h' {
			level = int(node.Tag[1] - '0')
		}
		if level < 1 || level > 6 {
			level = 1
		}
		sb.WriteString(strings.Repeat("#", level))
		sb.WriteString(" ")
		walkChildren(node, sb, depth)
		sb.WriteString("\n")

	case "paragraph":
		walkChildren(node, sb, depth)
		sb.WriteString("\n")

	case "text":
		sb.WriteString(decorateText(node))

	case "list":
		writeList(node, sb, depth)

	case "listitem":
		walkChildren(node, sb, depth)

	case "link":
		sb.WriteString("[")
		walkChildren(node, sb, depth)
		sb.WriteString("](")
		sb.WriteString(node.URL)
		sb.WriteString(")")

	case "linebreak":
		sb.WriteString("\n")

	default:
		walkChildren(node, sb, depth)
	}
}

func walkChildren(node Node, sb *strings.Builder, depth int) {
	for _, child := range node.Children {
		walk(child, sb, depth)
	}
}

func writeList(node Node, sb *strings.Builder, depth int) {
	counter := node.Start
	if counter == 0 {
		counter = 1
	}
	for _, item := range node.Children {
		sb.WriteString(strings.Repeat("  ", depth))
		if node.ListType == "number" {
			sb.WriteString(fmt.Sprintf("%d. ", counter))
			counter++
		} else {
			sb.WriteString("- ")
		}
		walk(item, sb, depth+1)
		sb.WriteString("\n")
	}
}

func decorateText(node Node) string {
	text := node.Text
	format := 0
	if f, ok := node.Format.(float64); ok {
		format = int(f)
	}
	if format&formatCode != 0 {
		return "`" + text + "`"
	}
	if format&formatBold != 0 {
		text = "**" + text + "**"
	}
	if format&formatItalic != 0 {
		text = "*" + text + "*"
	}
	return text
}

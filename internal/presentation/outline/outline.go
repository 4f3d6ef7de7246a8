// Package outline renders a document tree as a markdown outline for
// terminal inspection.
package outline

import (
	"fmt"
	"strings"

	"github.com/aretw0/lattice/pkg/domain"
)

// GenerateMarkdown produces a nested markdown list describing the
// document structure: one bullet per block with its type, id and a
// short settings preview.
func GenerateMarkdown(docID string, doc domain.Document) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", docID)
	if len(doc) == 0 {
		b.WriteString("*empty document*\n")
		return b.String()
	}
	for _, n := range doc {
		writeNode(&b, n, 0)
	}
	return b.String()
}

func writeNode(b *strings.Builder, n *domain.Node, depth int) {
	indent := strings.Repeat("  ", depth)
	label := fmt.Sprintf("**%s**", n.Type)
	if preview := settingsPreview(n.Settings); preview != "" {
		label += " — " + preview
	}
	flags := ""
	if n.Locked {
		flags += " 🔒"
	}
	if n.Hidden {
		flags += " (hidden)"
	}
	fmt.Fprintf(b, "%s- %s%s `%s`\n", indent, label, flags, n.ID)
	for _, child := range n.Children {
		writeNode(b, child, depth+1)
	}
}

// settingsPreview picks the most human-readable settings value.
func settingsPreview(settings map[string]any) string {
	for _, key := range []string{"text", "title", "src", "alt"} {
		if v, ok := settings[key].(string); ok && v != "" {
			if len(v) > 48 {
				v = v[:45] + "..."
			}
			return v
		}
	}
	return ""
}

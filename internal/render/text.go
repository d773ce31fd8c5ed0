package render

import (
	"fmt"
	"io"
	"strings"
)

// textWriter remembers the first write error so the tree walk stays linear.
type textWriter struct {
	w   io.Writer
	err error
}

func (tw *textWriter) printf(format string, args ...any) {
	if tw.err != nil {
		return
	}
	_, tw.err = fmt.Fprintf(tw.w, format, args...)
}

// WriteText renders a display tree as plain text for terminals.
func WriteText(w io.Writer, n *Node) error {
	tw := &textWriter{w: w}
	tw.node(n)
	return tw.err
}

func (tw *textWriter) node(n *Node) {
	if n == nil {
		return
	}

	switch n.Kind {
	case KindResult, KindExamples:
		tw.children(n)
	case KindHeader:
		tw.header(n)
	case KindMeaning:
		if pos := n.Child(KindPartOfSpeech); pos != nil {
			tw.printf("\n%s\n", pos.Text)
		}
		for _, child := range n.Children {
			if child.Kind != KindPartOfSpeech {
				tw.node(child)
			}
		}
	case KindDefinition:
		tw.printf("  %d. %s\n", n.Number, n.Text)
		for _, example := range n.FindAll(KindExample) {
			tw.printf("     \"%s\"\n", example.Text)
		}
	case KindSynonyms:
		tags := n.FindAll(KindSynonymTag)
		names := make([]string, len(tags))
		for i, tag := range tags {
			names[i] = tag.Text
		}
		tw.printf("  %s%s\n", n.Text, strings.Join(names, ", "))
	case KindNoDefinitions:
		tw.printf("\n%s\n", n.Text)
	case KindEmptyState:
		tw.printf("%s\n", n.Title)
		tw.children(n)
	case KindParagraph:
		tw.printf("%s\n", n.Text)
	case KindAttribution:
		tw.printf("\n%s (%s)\n", n.Text, n.Href)
	case KindHistory:
		tw.printf("Recent searches:\n")
		tw.children(n)
	case KindHistoryItem:
		tw.printf("  - %s\n", n.Text)
	case KindHistoryEmpty:
		tw.printf("%s\n%s\n", n.Title, n.Text)
	case KindExampleWord:
		tw.printf("  * %s\n", n.Text)
	default:
		tw.children(n)
	}
}

func (tw *textWriter) children(n *Node) {
	for _, child := range n.Children {
		tw.node(child)
	}
}

func (tw *textWriter) header(n *Node) {
	line := ""
	if title := n.Child(KindTitle); title != nil {
		line = title.Text
	}
	if phonetic := n.Child(KindPhonetic); phonetic != nil && phonetic.Text != "" {
		line += "  " + phonetic.Text
	}
	if button := n.Child(KindAudioButton); button != nil {
		if button.Disabled {
			line += "  [" + button.Title + "]"
		} else {
			line += "  [audio]"
		}
	}
	tw.printf("%s\n", line)
}

// Package render turns lookup results and history into a display tree of
// typed nodes. Surfaces (the web templates, the terminal writer) consume the
// tree; nothing in this package performs I/O besides WriteText.
package render

type Kind string

const (
	KindResult        Kind = "result"
	KindHeader        Kind = "header"
	KindTitle         Kind = "title"
	KindPhonetic      Kind = "phonetic"
	KindAudioButton   Kind = "audio_button"
	KindMeaning       Kind = "meaning"
	KindPartOfSpeech  Kind = "part_of_speech"
	KindDefinition    Kind = "definition"
	KindExample       Kind = "example"
	KindSynonyms      Kind = "synonyms"
	KindSynonymTag    Kind = "synonym_tag"
	KindNoDefinitions Kind = "no_definitions"
	KindEmptyState    Kind = "empty_state"
	KindAttribution   Kind = "attribution"
	KindHistory       Kind = "history"
	KindHistoryItem   Kind = "history_item"
	KindHistoryEmpty  Kind = "history_empty"
	KindExamples      Kind = "examples"
	KindExampleWord   Kind = "example_word"
	KindParagraph     Kind = "paragraph"
)

type ActionType string

const (
	// ActionLookup re-runs the full submit flow for Action.Word.
	ActionLookup ActionType = "lookup"
	// ActionPlayAudio plays Action.URL through the audio controller.
	ActionPlayAudio ActionType = "play_audio"
)

// Action is what activating a node does.
type Action struct {
	Type ActionType `json:"type"`
	Word string     `json:"word,omitempty"`
	URL  string     `json:"url,omitempty"`
}

// Node is one element of the display tree.
type Node struct {
	Kind     Kind    `json:"kind"`
	ID       string  `json:"id,omitempty"`
	Text     string  `json:"text,omitempty"`
	Label    string  `json:"label,omitempty"` // accessible label
	Title    string  `json:"title,omitempty"`
	Number   int     `json:"number,omitempty"`
	Href     string  `json:"href,omitempty"`
	Disabled bool    `json:"disabled,omitempty"`
	Action   *Action `json:"action,omitempty"`
	Children []*Node `json:"children,omitempty"`
}

func (n *Node) add(children ...*Node) *Node {
	n.Children = append(n.Children, children...)
	return n
}

// FindAll returns every node of the given kind in depth-first order.
func (n *Node) FindAll(kind Kind) []*Node {
	if n == nil {
		return nil
	}
	var found []*Node
	if n.Kind == kind {
		found = append(found, n)
	}
	for _, child := range n.Children {
		found = append(found, child.FindAll(kind)...)
	}
	return found
}

// Find returns the first node of the given kind, or nil.
func (n *Node) Find(kind Kind) *Node {
	if all := n.FindAll(kind); len(all) > 0 {
		return all[0]
	}
	return nil
}

// Child returns the first direct child of the given kind, or nil.
func (n *Node) Child(kind Kind) *Node {
	if n == nil {
		return nil
	}
	for _, child := range n.Children {
		if child.Kind == kind {
			return child
		}
	}
	return nil
}

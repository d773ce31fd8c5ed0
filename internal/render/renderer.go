package render

import (
	"fmt"
	"strings"

	"github.com/mrlokans/wordlookup/internal/entities"
)

const (
	// MaxDefinitions is how many definitions are shown per meaning.
	MaxDefinitions = 5
	// MaxSynonyms is how many synonym tags are shown per meaning.
	MaxSynonyms = 6

	TextNoDefinitions  = "No definitions found for this word."
	TextNoAudio        = "Audio pronunciation not available"
	TextSynonymsLabel  = "Synonyms: "
	TextEmptyTitle     = "No Results Found"
	TextEmptyHint      = "Try searching for a different word or check your spelling."
	TextEmptySuggest   = "Need inspiration? Try one of the example words above."
	TextHistoryEmpty   = "No Search History"
	TextHistoryHint    = "Words you search will appear here for quick access."
	TextAttribution    = "Data provided by the Free Dictionary API"
	AttributionURL     = "https://dictionaryapi.dev/"
	CurrentWordTitleID = "current-word-title"
)

// PlayLabel is the accessible label of an idle audio button.
func PlayLabel(word string) string {
	if word == "" {
		word = "word"
	}
	return "Play pronunciation of " + word
}

// Render builds the result tree for entry. The same entry always yields an
// equal tree.
func Render(entry *entities.WordEntry) *Node {
	root := &Node{Kind: KindResult}
	root.add(renderHeader(entry))

	if len(entry.Meanings) == 0 {
		root.add(&Node{Kind: KindNoDefinitions, Text: TextNoDefinitions})
	} else {
		for i, meaning := range entry.Meanings {
			root.add(renderMeaning(meaning, i))
		}
	}

	root.add(&Node{Kind: KindAttribution, Text: TextAttribution, Href: AttributionURL})
	return root
}

// RenderEmptyState builds the placeholder shown after a failed lookup.
func RenderEmptyState() *Node {
	return (&Node{Kind: KindResult}).add(
		(&Node{Kind: KindEmptyState, Title: TextEmptyTitle}).add(
			&Node{Kind: KindParagraph, Text: TextEmptyHint},
			&Node{Kind: KindParagraph, Text: TextEmptySuggest},
		),
	)
}

// RenderHistory builds the history list; every item re-runs its lookup.
func RenderHistory(entries []entities.SearchHistoryEntry) *Node {
	root := &Node{Kind: KindHistory}
	if len(entries) == 0 {
		return root.add(&Node{Kind: KindHistoryEmpty, Title: TextHistoryEmpty, Text: TextHistoryHint})
	}
	for _, entry := range entries {
		root.add(&Node{
			Kind:   KindHistoryItem,
			Text:   entry.Word,
			Label:  fmt.Sprintf("Search for %s again", entry.Word),
			Action: &Action{Type: ActionLookup, Word: entry.Word},
		})
	}
	return root
}

// RenderExamples builds the pre-populated example word activators.
func RenderExamples(words []string) *Node {
	root := &Node{Kind: KindExamples}
	for _, word := range words {
		root.add(&Node{
			Kind:   KindExampleWord,
			Text:   word,
			Label:  "Search for " + word,
			Action: &Action{Type: ActionLookup, Word: word},
		})
	}
	return root
}

// PhoneticText picks the entry's own phonetic, falling back to the first
// phonetic variant's text.
func PhoneticText(entry *entities.WordEntry) string {
	if entry.Phonetic != "" {
		return entry.Phonetic
	}
	if len(entry.Phonetics) > 0 {
		return entry.Phonetics[0].Text
	}
	return ""
}

// AudioURL returns the first non-blank audio URL among the phonetic variants.
func AudioURL(entry *entities.WordEntry) string {
	for _, phonetic := range entry.Phonetics {
		if strings.TrimSpace(phonetic.Audio) != "" {
			return phonetic.Audio
		}
	}
	return ""
}

func renderHeader(entry *entities.WordEntry) *Node {
	header := &Node{Kind: KindHeader}
	header.add(
		&Node{Kind: KindTitle, ID: CurrentWordTitleID, Text: entry.Word},
		&Node{Kind: KindPhonetic, Text: PhoneticText(entry)},
		AudioButton(entry.Word, AudioURL(entry)),
	)
	return header
}

// AudioButton builds the play control for word; without a URL it is disabled.
func AudioButton(word, audioURL string) *Node {
	button := &Node{
		Kind:  KindAudioButton,
		Label: PlayLabel(word),
	}
	if audioURL == "" {
		button.Disabled = true
		button.Title = TextNoAudio
		return button
	}
	button.Title = PlayLabel(word)
	button.Action = &Action{Type: ActionPlayAudio, Word: word, URL: audioURL}
	return button
}

func renderMeaning(meaning entities.Meaning, index int) *Node {
	id := fmt.Sprintf("meaning-%d", index)
	section := &Node{Kind: KindMeaning, ID: id, Label: id}
	section.add(&Node{Kind: KindPartOfSpeech, ID: id, Text: meaning.PartOfSpeech})

	definitions := meaning.Definitions
	if len(definitions) > MaxDefinitions {
		definitions = definitions[:MaxDefinitions]
	}
	for i, def := range definitions {
		item := &Node{Kind: KindDefinition, Number: i + 1, Text: def.Definition}
		if def.Example != "" {
			item.add(&Node{Kind: KindExample, Text: def.Example})
		}
		section.add(item)
	}

	if len(meaning.Synonyms) > 0 {
		synonyms := meaning.Synonyms
		if len(synonyms) > MaxSynonyms {
			synonyms = synonyms[:MaxSynonyms]
		}
		container := &Node{Kind: KindSynonyms, Text: TextSynonymsLabel}
		for _, synonym := range synonyms {
			container.add(&Node{
				Kind:   KindSynonymTag,
				Text:   synonym,
				Label:  "Search for synonym: " + synonym,
				Action: &Action{Type: ActionLookup, Word: synonym},
			})
		}
		section.add(container)
	}

	return section
}

package filter

import (
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// TermMatch represents a flagged term found in a piece of content.
type TermMatch struct {
	Term     string
	Position int
	Kind     string
	Weight   float64
}

// TermPattern stores a flagged term with its metadata.
type TermPattern struct {
	Term   string
	Kind   string
	Weight float64
}

// trieNode is a node in the Aho-Corasick automaton.
type trieNode struct {
	children    map[rune]*trieNode
	failLink    *trieNode
	output      []TermPattern
	isEndOfWord bool
}

// AhoCorasick implements the Aho-Corasick multi-pattern matching algorithm
// over normalized text.
type AhoCorasick struct {
	root *trieNode
	mu   sync.RWMutex
}

// NewAhoCorasick creates a new Aho-Corasick automaton.
func NewAhoCorasick() *AhoCorasick {
	return &AhoCorasick{
		root: newTrieNode(),
	}
}

func newTrieNode() *trieNode {
	return &trieNode{
		children: make(map[rune]*trieNode),
		output:   make([]TermPattern, 0),
	}
}

// Build rebuilds the automaton from the given term patterns.
func (ac *AhoCorasick) Build(patterns []TermPattern) {
	ac.mu.Lock()
	defer ac.mu.Unlock()

	ac.root = newTrieNode()

	for _, pattern := range patterns {
		ac.addPattern(pattern)
	}

	ac.buildFailLinks()
}

func (ac *AhoCorasick) addPattern(pattern TermPattern) {
	node := ac.root
	normalized := NormalizeText(pattern.Term)

	for _, char := range normalized {
		if _, ok := node.children[char]; !ok {
			node.children[char] = newTrieNode()
		}
		node = node.children[char]
	}

	node.isEndOfWord = true
	node.output = append(node.output, pattern)
}

// buildFailLinks builds the fail links using BFS.
func (ac *AhoCorasick) buildFailLinks() {
	queue := make([]*trieNode, 0)

	for _, child := range ac.root.children {
		child.failLink = ac.root
		queue = append(queue, child)
	}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for char, child := range current.children {
			queue = append(queue, child)

			// Longest proper suffix that is also a prefix.
			failNode := current.failLink
			for failNode != nil && failNode.children[char] == nil {
				failNode = failNode.failLink
			}

			if failNode == nil {
				child.failLink = ac.root
			} else {
				child.failLink = failNode.children[char]
				child.output = append(child.output, child.failLink.output...)
			}
		}
	}
}

// Search returns all term matches in the given text.
func (ac *AhoCorasick) Search(text string) []TermMatch {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	matches := make([]TermMatch, 0)
	normalized := NormalizeText(text)
	node := ac.root
	position := 0

	for _, char := range normalized {
		for node != nil && node.children[char] == nil {
			node = node.failLink
		}

		if node == nil {
			node = ac.root
		} else {
			node = node.children[char]
		}

		for _, pattern := range node.output {
			matches = append(matches, TermMatch{
				Term:     pattern.Term,
				Position: position - len([]rune(pattern.Term)) + 1,
				Kind:     pattern.Kind,
				Weight:   pattern.Weight,
			})
		}
		position++
	}

	return matches
}

// HasMatch reports whether any pattern matches the text (faster than Search).
func (ac *AhoCorasick) HasMatch(text string) bool {
	ac.mu.RLock()
	defer ac.mu.RUnlock()

	normalized := NormalizeText(text)
	node := ac.root

	for _, char := range normalized {
		for node != nil && node.children[char] == nil {
			node = node.failLink
		}

		if node == nil {
			node = ac.root
		} else {
			node = node.children[char]
		}

		if len(node.output) > 0 {
			return true
		}
	}

	return false
}

// NormalizeText normalizes text for matching.
// - Converts to lowercase
// - Removes diacritics
// - Normalizes unicode
// - Handles leetspeak
func NormalizeText(text string) string {
	t := transform.Chain(
		norm.NFD,
		runes.Remove(runes.In(unicode.Mn)), // Remove diacritics
		norm.NFC,
	)
	result, _, _ := transform.String(t, text)

	lowered := make([]rune, 0, len(result))
	for _, r := range result {
		lowered = append(lowered, unicode.ToLower(r))
	}

	leetMap := map[rune]rune{
		'0': 'o',
		'1': 'i',
		'3': 'e',
		'4': 'a',
		'5': 's',
		'7': 't',
		'8': 'b',
		'@': 'a',
		'$': 's',
	}

	normalized := make([]rune, 0, len(lowered))
	for _, r := range lowered {
		if replacement, ok := leetMap[r]; ok {
			normalized = append(normalized, replacement)
		} else {
			normalized = append(normalized, r)
		}
	}

	return string(normalized)
}

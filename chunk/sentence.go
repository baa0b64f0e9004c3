package chunk

import (
	"strings"
	"unicode"
)

// Common abbreviations whose trailing period does not end a sentence.
var abbreviations = newSet(
	"mr", "mrs", "ms", "dr", "prof", "sr", "jr", "st", "vs",
	"etc", "fig", "dept", "inc", "ltd", "e.g", "i.e",
)

func newSet(words ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// segmentSentences splits text into trimmed sentence units.
// A sentence ends at '.', '!' or '?' (plus any trailing quotes or closing
// brackets) when the next non-space rune starts a new sentence. Periods
// inside decimals and after known abbreviations do not end a sentence.
func segmentSentences(text string) []string {
	runes := []rune(text)
	var sentences []string
	start := 0

	for i := 0; i < len(runes); i++ {
		r := runes[i]
		if r != '.' && r != '!' && r != '?' {
			continue
		}

		if r == '.' && !isBoundaryPeriod(runes, i) {
			continue
		}

		// Absorb closing quotes and brackets after the terminator.
		end := i + 1
		for end < len(runes) && isClosing(runes[end]) {
			end++
		}

		if !startsNewSentence(runes, end) {
			continue
		}

		if s := strings.TrimSpace(string(runes[start:end])); s != "" {
			sentences = append(sentences, s)
		}
		start = end
		i = end - 1
	}

	if s := strings.TrimSpace(string(runes[start:])); s != "" {
		sentences = append(sentences, s)
	}

	return sentences
}

// isBoundaryPeriod reports whether the period at index i can end a sentence.
func isBoundaryPeriod(runes []rune, i int) bool {
	// Decimal number: digit on both sides.
	if i > 0 && i+1 < len(runes) && unicode.IsDigit(runes[i-1]) && unicode.IsDigit(runes[i+1]) {
		return false
	}

	// Trailing word before the period, lowercased, without leading punctuation.
	wordStart := i
	for wordStart > 0 && (unicode.IsLetter(runes[wordStart-1]) || runes[wordStart-1] == '.') {
		wordStart--
	}
	word := strings.ToLower(strings.TrimSuffix(string(runes[wordStart:i]), "."))
	word = strings.TrimPrefix(word, ".")
	if _, ok := abbreviations[word]; ok {
		return false
	}

	return true
}

// startsNewSentence reports whether the text at index i opens a sentence.
// End of input counts as a boundary.
func startsNewSentence(runes []rune, i int) bool {
	for i < len(runes) && unicode.IsSpace(runes[i]) {
		i++
	}
	if i >= len(runes) {
		return true
	}
	r := runes[i]
	return unicode.IsUpper(r) || unicode.IsDigit(r) || isOpening(r)
}

func isClosing(r rune) bool {
	switch r {
	case '"', '\'', ')', ']', '}', '»', '”', '’':
		return true
	}
	return false
}

func isOpening(r rune) bool {
	switch r {
	case '"', '\'', '(', '[', '{', '«', '“', '‘':
		return true
	}
	return false
}

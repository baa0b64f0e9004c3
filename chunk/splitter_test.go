package chunk

import (
	"strings"
	"testing"

	"github.com/poiesic/recall/token"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSplitter(t *testing.T, maxTokens, overlap int) *Splitter {
	t.Helper()
	s, err := NewSplitter(token.HeuristicCounter{},
		WithMaxTokens(maxTokens),
		WithOverlapSentences(overlap))
	require.NoError(t, err)
	return s
}

func TestSplitEmptyText(t *testing.T) {
	s := newTestSplitter(t, 100, 2)
	assert.Empty(t, s.Split(""))
	assert.Empty(t, s.Split("   \n\t  "))
}

func TestSplitSingleShortSentence(t *testing.T) {
	s := newTestSplitter(t, 100, 2)
	chunks := s.Split("The mitochondria is the powerhouse of the cell.")
	require.Len(t, chunks, 1)
	assert.Equal(t, 0, chunks[0].Index)
	assert.Equal(t, "The mitochondria is the powerhouse of the cell.", chunks[0].Text)
}

func TestSplitOverlapExample(t *testing.T) {
	// Three one-token sentences with max 2 and overlap 1 produce two
	// chunks sharing the middle sentence.
	s := newTestSplitter(t, 2, 1)
	chunks := s.Split("A. B. C.")
	require.Len(t, chunks, 2)
	assert.Equal(t, "A. B.", chunks[0].Text)
	assert.Equal(t, "B. C.", chunks[1].Text)
}

func TestSplitChunksRespectTokenBound(t *testing.T) {
	s := newTestSplitter(t, 12, 2)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("Sentence number one has exactly seven words. ")
	}
	chunks := s.Split(b.String())
	require.NotEmpty(t, chunks)

	for _, c := range chunks {
		assert.LessOrEqual(t, c.Tokens, 12, "chunk %d over budget", c.Index)
	}
}

func TestSplitOverlapCarriesTrailingSentences(t *testing.T) {
	s := newTestSplitter(t, 9, 2)
	text := "Alpha one two. Beta one two. Gamma one two. Delta one two. Epsilon one two."
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)

	for i := 1; i < len(chunks); i++ {
		prev := segmentSentences(chunks[i-1].Text)
		require.GreaterOrEqual(t, len(prev), 2)
		carried := strings.Join(prev[len(prev)-2:], " ")
		assert.True(t, strings.HasPrefix(chunks[i].Text, carried),
			"chunk %d should start with the last 2 sentences of chunk %d", i, i-1)
	}
}

func TestSplitZeroOverlap(t *testing.T) {
	s := newTestSplitter(t, 3, 0)
	chunks := s.Split("One two three. Four five six. Seven eight nine.")
	require.Len(t, chunks, 3)
	assert.Equal(t, "One two three.", chunks[0].Text)
	assert.Equal(t, "Four five six.", chunks[1].Text)
	assert.Equal(t, "Seven eight nine.", chunks[2].Text)
}

func TestSplitOversizedSentenceFallsBackToCommas(t *testing.T) {
	s := newTestSplitter(t, 4, 1)
	// One sentence, twelve words, no terminator until the end.
	text := "alpha beta gamma delta, epsilon zeta eta theta, iota kappa lambda mu."
	chunks := s.Split(text)
	require.Greater(t, len(chunks), 1)
	for _, c := range chunks {
		assert.LessOrEqual(t, c.Tokens, 4)
	}
}

func TestSplitOversizedCommaFragmentEmittedAsIs(t *testing.T) {
	s := newTestSplitter(t, 3, 0)
	// A single comma-free sentence over the bound cannot be split further.
	text := "one two three four five six seven eight."
	chunks := s.Split(text)
	require.Len(t, chunks, 1)
	assert.Greater(t, chunks[0].Tokens, 3)
}

func TestSplitDeterministic(t *testing.T) {
	s := newTestSplitter(t, 10, 2)
	text := "First sentence here. Second sentence follows. Third sentence closes. Fourth one extends the text further. Fifth wraps it up."
	a := s.Split(text)
	b := s.Split(text)
	assert.Equal(t, a, b)
}

func TestSegmentSentencesAbbreviations(t *testing.T) {
	sents := segmentSentences("Dr. Smith arrived at 3.5 p.m. sharp. He left soon after.")
	require.Len(t, sents, 2)
	assert.Equal(t, "Dr. Smith arrived at 3.5 p.m. sharp.", sents[0])
	assert.Equal(t, "He left soon after.", sents[1])
}

func TestSegmentSentencesTerminators(t *testing.T) {
	sents := segmentSentences("Really? Yes! Good.")
	require.Len(t, sents, 3)
}

func TestNewSplitterValidation(t *testing.T) {
	_, err := NewSplitter(nil)
	assert.ErrorIs(t, err, ErrCounterRequired)

	_, err = NewSplitter(token.HeuristicCounter{}, WithMaxTokens(0))
	assert.Error(t, err)

	_, err = NewSplitter(token.HeuristicCounter{}, WithOverlapSentences(-1))
	assert.Error(t, err)
}

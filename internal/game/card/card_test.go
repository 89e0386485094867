package card

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewDeck(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	require.Len(t, deck, DeckSize)
	assert.False(t, HasDuplicates(deck))

	for _, c := range deck {
		assert.True(t, c.Valid(), c.String())
	}
	assert.Equal(t, NewDeck(), deck, "deck order is deterministic")
	assert.Equal(t, Card{Suit: Spade, Rank: Rank3}, deck[0])
	assert.Equal(t, Card{Suit: Joker, Rank: RankRedJoker}, deck[DeckSize-1])
}

func TestShuffled(t *testing.T) {
	t.Parallel()

	deck := NewDeck()
	shuffled := deck.Shuffled(rand.New(rand.NewPCG(1, 2)))

	assert.Equal(t, NewDeck(), deck, "input deck is not modified")
	assert.ElementsMatch(t, deck, shuffled)
	assert.NotEqual(t, deck, shuffled)

	again := Shuffled(deck, rand.New(rand.NewPCG(1, 2)))
	assert.Equal(t, shuffled, again, "same seed gives the same permutation")
}

func TestRankValueOrdering(t *testing.T) {
	t.Parallel()

	order := MustParseCards("3♠ 4♠ 5♠ 6♠ 7♠ 8♠ 9♠ 10♠ J♠ Q♠ K♠ A♠ 2♠ BJ RJ")
	for i := 1; i < len(order); i++ {
		assert.Less(t, RankValue(order[i-1]), RankValue(order[i]),
			"%s should rank below %s", order[i-1], order[i])
	}
	assert.Equal(t, RankValue(Card{Suit: Spade, Rank: RankK}), RankValue(Card{Suit: Diamond, Rank: RankK}))
}

func TestParseCard(t *testing.T) {
	t.Parallel()

	tests := []struct {
		input    string
		expected Card
		hasError bool
	}{
		{input: "3♠", expected: Card{Suit: Spade, Rank: Rank3}},
		{input: "10♥", expected: Card{Suit: Heart, Rank: Rank10}},
		{input: "TH", expected: Card{Suit: Heart, Rank: Rank10}},
		{input: "as", expected: Card{Suit: Spade, Rank: RankA}},
		{input: "2♦", expected: Card{Suit: Diamond, Rank: Rank2}},
		{input: "BJ", expected: Card{Suit: Joker, Rank: RankBlackJoker}},
		{input: "rj", expected: Card{Suit: Joker, Rank: RankRedJoker}},
		{input: "1♠", hasError: true},
		{input: "K", hasError: true},
		{input: "KX", hasError: true},
		{input: "B♠", hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			t.Parallel()
			c, err := ParseCard(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, c)
		})
	}
}

func TestCardTextForm(t *testing.T) {
	t.Parallel()

	for _, c := range NewDeck() {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var back Card
		require.NoError(t, back.UnmarshalText(text))
		assert.Equal(t, c, back)
	}

	_, err := Card{Suit: Joker, Rank: Rank3}.MarshalText()
	assert.Error(t, err)
}

func TestCardColor(t *testing.T) {
	t.Parallel()

	assert.Equal(t, Red, Card{Suit: Heart, Rank: Rank5}.Color())
	assert.Equal(t, Red, Card{Suit: Diamond, Rank: Rank5}.Color())
	assert.Equal(t, Black, Card{Suit: Club, Rank: Rank5}.Color())
	assert.Equal(t, Black, Card{Suit: Joker, Rank: RankBlackJoker}.Color())
	assert.Equal(t, Red, Card{Suit: Joker, Rank: RankRedJoker}.Color())
}

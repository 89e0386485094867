package rule

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		cards    string
		expected HandType
		keyRank  card.Rank
		length   int
	}{
		{name: "Single", cards: "5♠", expected: Single, keyRank: card.Rank5, length: 1},
		{name: "Single joker", cards: "RJ", expected: Single, keyRank: card.RankRedJoker, length: 1},
		{name: "Pair", cards: "5♠ 5♥", expected: Pair, keyRank: card.Rank5, length: 1},
		{name: "Trio", cards: "5♠ 5♥ 5♦", expected: Trio, keyRank: card.Rank5, length: 1},
		{name: "Trio with single", cards: "5♠ 9♣ 5♥ 5♦", expected: TrioWithSingle, keyRank: card.Rank5, length: 1},
		{name: "Trio with pair", cards: "9♦ 5♠ 5♥ 5♦ 9♣", expected: TrioWithPair, keyRank: card.Rank5, length: 1},
		{name: "Straight", cards: "3♠ 4♥ 5♦ 6♣ 7♠", expected: Straight, keyRank: card.Rank7, length: 5},
		{name: "Straight to ace", cards: "10♠ J♠ Q♠ K♠ A♠", expected: Straight, keyRank: card.RankA, length: 5},
		{name: "Longest straight", cards: "3♠ 4♠ 5♠ 6♠ 7♠ 8♠ 9♠ 10♠ J♠ Q♠ K♠ A♠", expected: Straight, keyRank: card.RankA, length: 12},
		{name: "Pair straight", cards: "3♠ 3♥ 4♠ 4♥ 5♠ 5♥", expected: PairStraight, keyRank: card.Rank5, length: 3},
		{name: "Plane", cards: "3♠ 3♥ 3♦ 4♠ 4♥ 4♦", expected: Plane, keyRank: card.Rank4, length: 2},
		{name: "Plane with singles", cards: "3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 9♣ J♦", expected: PlaneWithSingles, keyRank: card.Rank4, length: 2},
		{name: "Plane with jokers as singles", cards: "7♠ 7♥ 7♦ 8♠ 8♥ 8♦ BJ RJ", expected: PlaneWithSingles, keyRank: card.Rank8, length: 2},
		{name: "Plane with pairs", cards: "3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 9♣ 9♦ J♣ J♦", expected: PlaneWithPairs, keyRank: card.Rank4, length: 2},
		{name: "Bomb", cards: "8♠ 8♥ 8♦ 8♣", expected: Bomb, keyRank: card.Rank8, length: 1},
		{name: "Four with two", cards: "8♠ 8♥ 8♦ 8♣ 3♠ 5♦", expected: FourWithTwo, keyRank: card.Rank8, length: 1},
		{name: "Four with two pairs", cards: "8♠ 8♥ 8♦ 8♣ 3♠ 3♦ 5♦ 5♠", expected: FourWithTwoPairs, keyRank: card.Rank8, length: 1},
		{name: "Rocket", cards: "RJ BJ", expected: Rocket, keyRank: card.RankRedJoker, length: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hand := Classify(card.MustParseCards(tt.cards))
			require.Equal(t, tt.expected, hand.Type, "got %s", hand.Type)
			assert.Equal(t, tt.keyRank, hand.KeyRank)
			assert.Equal(t, tt.length, hand.Length)
			assert.Len(t, hand.Cards, len(card.MustParseCards(tt.cards)))
		})
	}
}

func TestClassifyInvalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cards []card.Card
	}{
		{name: "Empty", cards: nil},
		{name: "Two singles", cards: card.MustParseCards("3♠ 4♥")},
		{name: "Single joker with a two", cards: card.MustParseCards("BJ 2♠")},
		{name: "Trio with two different singles", cards: card.MustParseCards("5♠ 5♥ 5♦ 9♣ 10♦")},
		{name: "Straight through two", cards: card.MustParseCards("J♠ Q♠ K♠ A♠ 2♠")},
		{name: "Straight too short", cards: card.MustParseCards("3♠ 4♥ 5♦ 6♣")},
		{name: "Straight with gap", cards: card.MustParseCards("3♠ 4♥ 5♦ 6♣ 8♠")},
		{name: "Two pairs are not a chain", cards: card.MustParseCards("3♠ 3♥ 4♠ 4♥")},
		{name: "Pair chain with a two", cards: card.MustParseCards("K♠ K♥ A♠ A♥ 2♠ 2♥")},
		{name: "Plane with a two", cards: card.MustParseCards("A♠ A♥ A♦ 2♠ 2♥ 2♦")},
		{name: "Plane singles must be distinct", cards: card.MustParseCards("3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 9♣ 9♦")},
		{name: "Plane kickers not uniform", cards: card.MustParseCards("3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 9♣ J♦ J♣ Q♠")},
		{name: "Four with one pair", cards: card.MustParseCards("8♠ 8♥ 8♦ 8♣ 3♠ 3♦")},
		{name: "Two bombs", cards: card.MustParseCards("3♠ 3♥ 3♦ 3♣ 4♠ 4♥ 4♦ 4♣")},
		{name: "Duplicate card", cards: card.MustParseCards("5♠ 5♠")},
		{name: "Out of domain card", cards: []card.Card{{Suit: card.Joker, Rank: card.Rank5}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			hand := Classify(tt.cards)
			assert.True(t, hand.IsEmpty(), "got %s", hand.Type)

			_, err := ParseHand(tt.cards)
			assert.ErrorIs(t, err, ErrInvalidHand)
		})
	}
}

func TestClassifyIgnoresOrder(t *testing.T) {
	t.Parallel()

	hands := []string{
		"3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 9♣ 9♦ J♣ J♦",
		"8♠ 8♥ 8♦ 8♣ 3♠ 5♦",
		"3♠ 4♥ 5♦ 6♣ 7♠ 8♦",
		"5♠ 9♣ 5♥ 5♦",
	}
	r := rand.New(rand.NewPCG(7, 11))

	for _, h := range hands {
		cards := card.MustParseCards(h)
		want := Classify(cards)
		require.False(t, want.IsEmpty(), h)

		for range 10 {
			shuffled := card.Shuffled(cards, r)
			got := Classify(shuffled)
			assert.Equal(t, want.Type, got.Type, h)
			assert.Equal(t, want.KeyRank, got.KeyRank, h)
			assert.Equal(t, want.Length, got.Length, h)
			assert.Equal(t, want.Cards, got.Cards, h)
		}
	}
}

func TestCanBeat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		newHand  string
		lastHand string
		expected bool
	}{
		{name: "Higher single", newHand: "4♠", lastHand: "3♦", expected: true},
		{name: "Equal single", newHand: "3♠", lastHand: "3♦", expected: false},
		{name: "Two beats ace", newHand: "2♠", lastHand: "A♦", expected: true},
		{name: "Red joker beats black joker", newHand: "RJ", lastHand: "BJ", expected: true},
		{name: "Higher pair", newHand: "4♠ 4♥", lastHand: "3♠ 3♥", expected: true},
		{name: "Pair cannot beat single", newHand: "4♠ 4♥", lastHand: "3♠", expected: false},
		{name: "Higher straight same length", newHand: "4♠ 5♥ 6♦ 7♣ 8♠", lastHand: "3♠ 4♥ 5♦ 6♣ 7♠", expected: true},
		{name: "Straight length must match", newHand: "4♠ 5♥ 6♦ 7♣ 8♠ 9♠", lastHand: "3♠ 4♥ 5♦ 6♣ 7♠", expected: false},
		{name: "Trio with single compares trio", newHand: "6♠ 6♥ 6♦ 3♣", lastHand: "5♠ 5♥ 5♦ A♣", expected: true},
		{name: "Plane with singles", newHand: "5♠ 5♥ 5♦ 6♠ 6♥ 6♦ 3♣ 4♦", lastHand: "3♠ 3♥ 3♦ 4♠ 4♥ 4♣ 9♣ J♦", expected: true},
		{name: "Bomb beats single", newHand: "7♠ 7♥ 7♦ 7♣", lastHand: "K♠", expected: true},
		{name: "Bomb beats four with two", newHand: "3♠ 3♥ 3♦ 3♣", lastHand: "8♠ 8♥ 8♦ 8♣ 4♠ 5♦", expected: true},
		{name: "Lower bomb loses", newHand: "7♠ 7♥ 7♦ 7♣", lastHand: "9♠ 9♥ 9♦ 9♣", expected: false},
		{name: "Higher bomb wins", newHand: "10♠ 10♥ 10♦ 10♣", lastHand: "9♠ 9♥ 9♦ 9♣", expected: true},
		{name: "Rocket beats bomb", newHand: "BJ RJ", lastHand: "2♠ 2♥ 2♦ 2♣", expected: true},
		{name: "Bomb cannot beat rocket", newHand: "2♠ 2♥ 2♦ 2♣", lastHand: "BJ RJ", expected: false},
		{name: "Four with two cannot beat bomb", newHand: "9♠ 9♥ 9♦ 9♣ 3♠ 4♦", lastHand: "8♠ 8♥ 8♦ 8♣", expected: false},
		{name: "Anything beats nothing", newHand: "3♠", lastHand: "", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			newHand := Classify(card.MustParseCards(tt.newHand))
			lastHand := Classify(card.MustParseCards(tt.lastHand))
			assert.Equal(t, tt.expected, CanBeat(newHand, lastHand))
		})
	}
}

func TestCanBeatIsTransitive(t *testing.T) {
	t.Parallel()

	chains := [][]string{
		{"3♠ 3♥", "7♠ 7♥", "Q♠ Q♥"},
		{"3♠ 4♥ 5♦ 6♣ 7♠", "5♠ 6♥ 7♦ 8♣ 9♠", "10♠ J♥ Q♦ K♣ A♠"},
		{"3♠ 3♥ 3♦ 4♠", "8♠ 8♥ 8♦ 2♠", "K♠ K♥ K♦ 3♣"},
	}

	for _, chain := range chains {
		a := Classify(card.MustParseCards(chain[2]))
		b := Classify(card.MustParseCards(chain[1]))
		c := Classify(card.MustParseCards(chain[0]))
		require.True(t, CanBeat(a, b))
		require.True(t, CanBeat(b, c))
		assert.True(t, CanBeat(a, c))
		assert.False(t, CanBeat(c, a))
	}
}

func TestCanBeatWithHand(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		hand     string
		opponent string
		expected bool
	}{
		{name: "New round", hand: "3♠", opponent: "", expected: true},
		{name: "Higher single", hand: "3♠ K♦", opponent: "Q♠", expected: true},
		{name: "No higher single", hand: "3♠ J♦", opponent: "Q♠", expected: false},
		{name: "Pair from a trio", hand: "9♠ 9♥ 9♦", opponent: "8♠ 8♥", expected: true},
		{name: "Trio with pair needs another pair", hand: "9♠ 9♥ 9♦ 4♣", opponent: "8♠ 8♥ 8♦ 3♠ 3♥", expected: false},
		{name: "Straight of same length", hand: "5♠ 6♥ 7♦ 8♣ 9♠ 10♦", opponent: "3♠ 4♥ 5♦ 6♣ 7♠", expected: true},
		{name: "Straight too short", hand: "5♠ 6♥ 7♦ 8♣", opponent: "3♠ 4♥ 5♦ 6♣ 7♠", expected: false},
		{name: "Pair straight", hand: "4♠ 4♥ 5♠ 5♥ 6♠ 6♥", opponent: "3♠ 3♥ 4♦ 4♣ 5♦ 5♣", expected: true},
		{name: "Plane with pairs", hand: "5♠ 5♥ 5♦ 6♠ 6♥ 6♦ 9♣ 9♦ J♣ J♦", opponent: "3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 7♣ 7♦ 8♣ 8♦", expected: true},
		{name: "Plane without enough wings", hand: "5♠ 5♥ 5♦ 6♠ 6♥ 6♦ 9♣", opponent: "3♠ 3♥ 3♦ 4♠ 4♥ 4♦ 7♣ 8♦", expected: false},
		{name: "Bomb against pair", hand: "3♠ 3♥ 3♦ 3♣", opponent: "2♠ 2♥", expected: true},
		{name: "Rocket against bomb", hand: "BJ RJ", opponent: "2♠ 2♥ 2♦ 2♣", expected: true},
		{name: "Nothing beats rocket", hand: "2♠ 2♥ 2♦ 2♣", opponent: "BJ RJ", expected: false},
		{name: "Four with two", hand: "9♠ 9♥ 9♦ 9♣ 3♠ 5♦", opponent: "8♠ 8♥ 8♦ 8♣ 4♠ 6♦", expected: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			opponent := Classify(card.MustParseCards(tt.opponent))
			assert.Equal(t, tt.expected, CanBeatWithHand(card.MustParseCards(tt.hand), opponent))
		})
	}
}

func TestHandTypeIsChain(t *testing.T) {
	t.Parallel()

	assert.True(t, Straight.IsChain())
	assert.True(t, PlaneWithPairs.IsChain())
	assert.False(t, Bomb.IsChain())
	assert.False(t, TrioWithPair.IsChain())
}

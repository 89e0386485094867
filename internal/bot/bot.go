// Package bot 简单的出牌机器人，用于自动对局。
package bot

import (
	"github.com/palemoky/landlord-engine/internal/game"
	"github.com/palemoky/landlord-engine/internal/game/card"
	"github.com/palemoky/landlord-engine/internal/game/rule"
)

// 对手剩余牌数不超过该值时不再保留炸弹
const dangerCards = 4

// Strength 手牌强度：王、2、炸弹加分
func Strength(hand []card.Card) int {
	s := 0
	for rank, n := range card.CountRanks(hand) {
		switch {
		case rank == card.RankRedJoker:
			s += 3
		case rank == card.RankBlackJoker:
			s += 2
		case rank == card.Rank2:
			s += n
		case n == 4:
			s += 3
		}
	}
	return s
}

// Bid 根据手牌强度叫分，叫不过 highest 时不叫（返回 0）
func Bid(hand []card.Card, highest int) int {
	var want int
	switch s := Strength(hand); {
	case s >= 8:
		want = 3
	case s >= 6:
		want = 2
	case s >= 4:
		want = 1
	}
	if want <= highest {
		return 0
	}
	return want
}

// Move 选择要出的牌，返回 nil 表示不出
func Move(self string, hand []card.Card, v game.View) []card.Card {
	if v.MustLead {
		return lead(hand)
	}

	// 不压队友
	if self != v.LandlordPlayerID && v.LastPlayerID != v.LandlordPlayerID {
		return nil
	}

	last := rule.Classify(v.LastPlayedCards)
	cards := rule.FindSmallestBeatingCards(hand, last)
	if cards == nil {
		return nil
	}

	played := rule.Classify(cards)
	if isBomb(played.Type) && !isBomb(last.Type) && !worthBombing(self, hand, played, v) {
		return nil
	}
	return cards
}

// lead 首出：打出点数最小的一组（单张、对子或三张）
func lead(hand []card.Card) []card.Card {
	smallest := rule.FindSmallestBeatingCards(hand, rule.ParsedHand{})
	if smallest == nil {
		return nil
	}
	rank := smallest[0].Rank
	var group []card.Card
	for _, c := range hand {
		if c.Rank == rank {
			group = append(group, c)
		}
	}
	if len(group) == 4 {
		return smallest
	}
	return group
}

func isBomb(t rule.HandType) bool {
	return t == rule.Bomb || t == rule.Rocket
}

// worthBombing 出完就赢、对手快走完，或者这个炸弹不会被压时才炸
func worthBombing(self string, hand []card.Card, bomb rule.ParsedHand, v game.View) bool {
	if len(hand) == len(bomb.Cards) {
		return true
	}
	for _, p := range v.Players {
		if p.ID != self && (p.IsLandlord || self == v.LandlordPlayerID) && p.CardsCount <= dangerCards {
			return true
		}
	}
	if bomb.Type == rule.Rocket {
		return false
	}

	cc := NewCardCounter()
	cc.DeductCards(hand)
	cc.DeductCards(v.DiscardedCards)
	return !cc.CanBeBombed(bomb.KeyRank)
}

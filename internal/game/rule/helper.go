package rule

import (
	"slices"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

// FindSmallestBeatingCards 找到能打过 opponentHand 的最小牌组
// 如果找不到，返回 nil
func FindSmallestBeatingCards(playerHand []card.Card, opponentHand ParsedHand) []card.Card {
	// 如果是新一轮，出最小的单牌
	if opponentHand.IsEmpty() {
		if len(playerHand) == 0 {
			return nil
		}
		smallest := slices.MinFunc(playerHand, func(a, b card.Card) int {
			return card.RankValue(a) - card.RankValue(b)
		})
		return []card.Card{smallest}
	}

	// 王炸最大，没有牌能打过
	if opponentHand.Type == Rocket {
		return nil
	}

	analysis := analyzeCards(playerHand)

	// 优先尝试找同类型的最小牌
	var result []card.Card

	switch opponentHand.Type {
	case Single:
		result = findSmallestBeatingGroup(playerHand, analysis, opponentHand, 1)
	case Pair:
		result = findSmallestBeatingGroup(playerHand, analysis, opponentHand, 2)
	case Trio:
		result = findSmallestBeatingTrio(playerHand, analysis, opponentHand, 0)
	case TrioWithSingle:
		result = findSmallestBeatingTrio(playerHand, analysis, opponentHand, 1)
	case TrioWithPair:
		result = findSmallestBeatingTrio(playerHand, analysis, opponentHand, 2)
	case Straight:
		result = findSmallestBeatingChain(playerHand, analysis, opponentHand, 1, 0)
	case PairStraight:
		result = findSmallestBeatingChain(playerHand, analysis, opponentHand, 2, 0)
	case Plane:
		result = findSmallestBeatingChain(playerHand, analysis, opponentHand, 3, 0)
	case PlaneWithSingles:
		result = findSmallestBeatingChain(playerHand, analysis, opponentHand, 3, 1)
	case PlaneWithPairs:
		result = findSmallestBeatingChain(playerHand, analysis, opponentHand, 3, 2)
	case FourWithTwo:
		result = findSmallestBeatingFour(playerHand, analysis, opponentHand, 1)
	case FourWithTwoPairs:
		result = findSmallestBeatingFour(playerHand, analysis, opponentHand, 2)
	}

	// 如果找到了同类型的牌，返回
	if result != nil {
		return result
	}

	// 否则尝试用最小的炸弹
	result = findSmallestBomb(playerHand, analysis, opponentHand)
	if result != nil {
		return result
	}

	// 最后尝试王炸
	if hasRocket(analysis) {
		return findRocket(playerHand)
	}

	return nil
}

// ranksBySize 返回张数不少于 minCount 的点数：先按张数从少到多，再按点数从小到大。
// 这样优先拆用零散的牌，尽量不拆大组。
func ranksBySize(analysis HandAnalysis, minCount int) []card.Rank {
	var ranks []card.Rank
	groups := [][]card.Rank{analysis.ones, analysis.pairs, analysis.trios, analysis.fours}
	for size, group := range groups {
		if size+1 >= minCount {
			ranks = append(ranks, group...)
		}
	}
	return ranks
}

// findSmallestBeatingGroup 找到能打过的最小单牌或对子
func findSmallestBeatingGroup(playerHand []card.Card, analysis HandAnalysis, opponentHand ParsedHand, size int) []card.Card {
	for _, r := range ranksBySize(analysis, size) {
		if r > opponentHand.KeyRank {
			return findCardsWithRank(playerHand, r, size)
		}
	}
	return nil
}

// findSmallestBeatingTrio 找到能打过的最小三张（带或不带）
func findSmallestBeatingTrio(playerHand []card.Card, analysis HandAnalysis, opponentHand ParsedHand, kickerType int) []card.Card {
	for _, r := range ranksBySize(analysis, 3) {
		if r <= opponentHand.KeyRank {
			continue
		}
		result := findCardsWithRank(playerHand, r, 3)
		if kickerType == 0 {
			return result
		}
		kickers := findSmallestKickers(playerHand, analysis, kickerType, 1, func(k card.Rank) bool { return k == r })
		if kickers != nil {
			return append(result, kickers...)
		}
	}
	return nil
}

// findSmallestBeatingChain 找到能打过的最小顺子、连对或飞机
// size: 每组张数；kickerType: 0=不带, 1=带单, 2=带对
func findSmallestBeatingChain(playerHand []card.Card, analysis HandAnalysis, opponentHand ParsedHand, size, kickerType int) []card.Card {
	length := opponentHand.Length
	for _, top := range chainTops(chainRanks(analysis, size), length) {
		if top <= opponentHand.KeyRank {
			continue
		}
		low := top - card.Rank(length-1)
		var result []card.Card
		for r := low; r <= top; r++ {
			result = append(result, findCardsWithRank(playerHand, r, size)...)
		}
		if kickerType == 0 {
			return result
		}
		inBody := func(r card.Rank) bool { return r >= low && r <= top }
		kickers := findSmallestKickers(playerHand, analysis, kickerType, length, inBody)
		if kickers != nil {
			return append(result, kickers...)
		}
	}
	return nil
}

// findSmallestBeatingFour 找到能打过的最小四带二或四带两对
func findSmallestBeatingFour(playerHand []card.Card, analysis HandAnalysis, opponentHand ParsedHand, kickerType int) []card.Card {
	for _, r := range analysis.fours {
		if r <= opponentHand.KeyRank {
			continue
		}
		kickers := findSmallestKickers(playerHand, analysis, kickerType, 2, func(k card.Rank) bool { return k == r })
		if kickers != nil {
			return append(findCardsWithRank(playerHand, r, 4), kickers...)
		}
	}
	return nil
}

// findSmallestBomb 找到最小的炸弹，炸弹打不过王炸
func findSmallestBomb(playerHand []card.Card, analysis HandAnalysis, opponentHand ParsedHand) []card.Card {
	if opponentHand.Type == Rocket {
		return nil
	}
	for _, r := range analysis.fours {
		if opponentHand.Type != Bomb || r > opponentHand.KeyRank {
			return findCardsWithRank(playerHand, r, 4)
		}
	}
	return nil
}

// findSmallestKickers 找到 groups 组最小的带牌，每组点数不同
// kickerType: 1=带单张, 2=带对子
func findSmallestKickers(playerHand []card.Card, analysis HandAnalysis, kickerType, groups int, exclude func(card.Rank) bool) []card.Card {
	var kickers []card.Card
	found := 0
	for _, r := range ranksBySize(analysis, kickerType) {
		if exclude(r) {
			continue
		}
		kickers = append(kickers, findCardsWithRank(playerHand, r, kickerType)...)
		found++
		if found == groups {
			return kickers
		}
	}
	return nil
}

// findCardsWithRank 从手牌中找到指定点数的牌
func findCardsWithRank(playerHand []card.Card, rank card.Rank, count int) []card.Card {
	var result []card.Card
	for _, c := range playerHand {
		if c.Rank == rank {
			result = append(result, c)
			if len(result) >= count {
				return result
			}
		}
	}
	return result
}

// hasRocket 检查是否有王炸
func hasRocket(analysis HandAnalysis) bool {
	return analysis.counts[card.RankBlackJoker] > 0 && analysis.counts[card.RankRedJoker] > 0
}

// findRocket 找到王炸
func findRocket(playerHand []card.Card) []card.Card {
	var result []card.Card
	for _, c := range playerHand {
		if c.Rank.IsJoker() {
			result = append(result, c)
		}
	}
	return result
}

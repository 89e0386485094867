package rule

import (
	"github.com/palemoky/landlord-engine/internal/game/card"
)

// handChecker 判断整手牌中是否有同牌型且更大的组合
type handChecker func(HandAnalysis, ParsedHand) bool

var handCheckers = map[HandType]handChecker{
	Single:         findWinningSingle,
	Pair:           findWinningPair,
	Trio:           func(a HandAnalysis, o ParsedHand) bool { return findWinningTrio(a, o, 0) },
	TrioWithSingle: func(a HandAnalysis, o ParsedHand) bool { return findWinningTrio(a, o, 1) },
	TrioWithPair:   func(a HandAnalysis, o ParsedHand) bool { return findWinningTrio(a, o, 2) },
	Straight:       findWinningStraight,
	PairStraight:   findWinningPairStraight,
	Plane:          func(a HandAnalysis, o ParsedHand) bool { return findWinningPlane(a, o, 0) },
	PlaneWithSingles: func(a HandAnalysis, o ParsedHand) bool {
		return findWinningPlane(a, o, 1)
	},
	PlaneWithPairs: func(a HandAnalysis, o ParsedHand) bool {
		return findWinningPlane(a, o, 2)
	},
	FourWithTwo:      func(a HandAnalysis, o ParsedHand) bool { return findWinningFour(a, o, 1) },
	FourWithTwoPairs: func(a HandAnalysis, o ParsedHand) bool { return findWinningFour(a, o, 2) },
}

// hasWinningBombOrRocket 检查是否有能压过对方的炸弹或王炸
func hasWinningBombOrRocket(analysis HandAnalysis, opponentHand ParsedHand) bool {
	if opponentHand.Type == Rocket {
		return false
	}
	if analysis.counts[card.RankBlackJoker] >= 1 && analysis.counts[card.RankRedJoker] >= 1 {
		return true
	}

	for _, r := range analysis.fours {
		if opponentHand.Type != Bomb || r > opponentHand.KeyRank {
			return true
		}
	}
	return false
}

func findWinningSingle(analysis HandAnalysis, opponentHand ParsedHand) bool {
	for r := range analysis.counts {
		if r > opponentHand.KeyRank {
			return true
		}
	}
	return false
}

func findWinningPair(analysis HandAnalysis, opponentHand ParsedHand) bool {
	for r, count := range analysis.counts {
		if count >= 2 && r > opponentHand.KeyRank {
			return true
		}
	}
	return false
}

// kickerRanks 统计除 exclude 外，可以提供 kickerType 所需带牌的点数个数。
// kickerType: 1=单张, 2=对子
func kickerRanks(analysis HandAnalysis, kickerType int, exclude func(card.Rank) bool) int {
	n := 0
	for r, count := range analysis.counts {
		if exclude(r) {
			continue
		}
		if count >= kickerType {
			n++
		}
	}
	return n
}

// findWinningTrio 检查三张（带或不带）
// kickerType: 0=不带, 1=带单, 2=带对
func findWinningTrio(analysis HandAnalysis, opponentHand ParsedHand, kickerType int) bool {
	for r, count := range analysis.counts {
		if count < 3 || r <= opponentHand.KeyRank {
			continue
		}
		if kickerType == 0 {
			return true
		}
		if kickerRanks(analysis, kickerType, func(k card.Rank) bool { return k == r }) >= 1 {
			return true
		}
	}
	return false
}

// findWinningStraight 检查是否有同样长度且更大的顺子
func findWinningStraight(analysis HandAnalysis, opponentHand ParsedHand) bool {
	for _, top := range chainTops(chainRanks(analysis, 1), opponentHand.Length) {
		if top > opponentHand.KeyRank {
			return true
		}
	}
	return false
}

// findWinningPairStraight 检查是否有同样长度且更大的连对
func findWinningPairStraight(analysis HandAnalysis, opponentHand ParsedHand) bool {
	for _, top := range chainTops(chainRanks(analysis, 2), opponentHand.Length) {
		if top > opponentHand.KeyRank {
			return true
		}
	}
	return false
}

// findWinningPlane 检查飞机（带或不带翅膀）
// kickerType: 0=不带, 1=带单, 2=带对
func findWinningPlane(analysis HandAnalysis, opponentHand ParsedHand, kickerType int) bool {
	length := opponentHand.Length
	for _, top := range chainTops(chainRanks(analysis, 3), length) {
		if top <= opponentHand.KeyRank {
			continue
		}
		if checkKickers(analysis, top-card.Rank(length-1), top, length, kickerType) {
			return true
		}
	}
	return false
}

// checkKickers 检查飞机主体之外是否有足够的不同点数作为带牌
func checkKickers(analysis HandAnalysis, low, high card.Rank, length, kickerType int) bool {
	if kickerType == 0 {
		return true
	}
	inBody := func(r card.Rank) bool { return r >= low && r <= high }
	return kickerRanks(analysis, kickerType, inBody) >= length
}

// findWinningFour 检查四带二、四带两对
func findWinningFour(analysis HandAnalysis, opponentHand ParsedHand, kickerType int) bool {
	for _, r := range analysis.fours {
		if r <= opponentHand.KeyRank {
			continue
		}
		if kickerRanks(analysis, kickerType, func(k card.Rank) bool { return k == r }) >= 2 {
			return true
		}
	}
	return false
}

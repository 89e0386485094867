package rule

import (
	"slices"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

const (
	minStraightLength     = 5 // 顺子至少 5 张
	minPairStraightGroups = 3 // 连对至少 3 对
	minPlaneGroups        = 2 // 飞机至少 2 组三张
)

// isRocket 王炸：大小王各一张
func isRocket(a HandAnalysis) (HandType, card.Rank, int, bool) {
	if a.total == 2 && a.counts[card.RankBlackJoker] == 1 && a.counts[card.RankRedJoker] == 1 {
		return Rocket, card.RankRedJoker, 1, true
	}
	return Invalid, 0, 0, false
}

// isBomb 炸弹：四张相同
func isBomb(a HandAnalysis) (HandType, card.Rank, int, bool) {
	if a.total == 4 && len(a.fours) == 1 {
		return Bomb, a.fours[0], 1, true
	}
	return Invalid, 0, 0, false
}

// isSimpleType 单张、对子、三张
func isSimpleType(a HandAnalysis) (HandType, card.Rank, int, bool) {
	if a.groups() != 1 {
		return Invalid, 0, 0, false
	}
	switch {
	case a.total == 1:
		return Single, a.ones[0], 1, true
	case a.total == 2:
		return Pair, a.pairs[0], 1, true
	case a.total == 3:
		return Trio, a.trios[0], 1, true
	}
	return Invalid, 0, 0, false
}

// isTrioWithKicker 三带一、三带二，带牌必须是另一个点数的一张或一对
func isTrioWithKicker(a HandAnalysis) (HandType, card.Rank, int, bool) {
	if a.groups() != 2 || len(a.trios) != 1 {
		return Invalid, 0, 0, false
	}
	switch {
	case a.total == 4 && len(a.ones) == 1:
		return TrioWithSingle, a.trios[0], 1, true
	case a.total == 5 && len(a.pairs) == 1:
		return TrioWithPair, a.trios[0], 1, true
	}
	return Invalid, 0, 0, false
}

// isStraight 顺子：至少 5 个连续的不同点数，每个点数一张
func isStraight(a HandAnalysis) (HandType, card.Rank, int, bool) {
	if a.total < minStraightLength || len(a.ones) != a.total || !isContinuous(a.ones) {
		return Invalid, 0, 0, false
	}
	return Straight, a.ones[len(a.ones)-1], len(a.ones), true
}

// isPairStraight 连对：至少 3 个连续点数，每个点数恰好两张
func isPairStraight(a HandAnalysis) (HandType, card.Rank, int, bool) {
	n := len(a.pairs)
	if n < minPairStraightGroups || n*2 != a.total || !isContinuous(a.pairs) {
		return Invalid, 0, 0, false
	}
	return PairStraight, a.pairs[n-1], n, true
}

// isPlane 飞机及其带翅膀的形式。三张部分必须连续，
// 带牌数量与三张组数相同，且全部是不同点数的单张或全部是对子。
func isPlane(a HandAnalysis) (HandType, card.Rank, int, bool) {
	n := len(a.trios)
	if n < minPlaneGroups || !isContinuous(a.trios) {
		return Invalid, 0, 0, false
	}
	top := a.trios[n-1]
	kickerGroups := a.groups() - n

	switch a.total {
	case n * 3:
		return Plane, top, n, true
	case n * 4:
		// 带牌点数互不相同，且都不与三张重复
		if kickerGroups == n && len(a.ones) == n {
			return PlaneWithSingles, top, n, true
		}
	case n * 5:
		if kickerGroups == n && len(a.pairs) == n {
			return PlaneWithPairs, top, n, true
		}
	}
	return Invalid, 0, 0, false
}

// isFourWithKickers 四带二（两张不同点数的单牌）或四带两对
func isFourWithKickers(a HandAnalysis) (HandType, card.Rank, int, bool) {
	if len(a.fours) != 1 || a.groups() != 3 {
		return Invalid, 0, 0, false
	}
	switch {
	case a.total == 6 && len(a.ones) == 2:
		return FourWithTwo, a.fours[0], 1, true
	case a.total == 8 && len(a.pairs) == 2:
		return FourWithTwoPairs, a.fours[0], 1, true
	}
	return Invalid, 0, 0, false
}

// chainRanks 返回手牌中至少有 minCount 张、且可以组成连牌（不含 2 和王）的点数，升序
func chainRanks(a HandAnalysis, minCount int) []card.Rank {
	var ranks []card.Rank
	for r, count := range a.counts {
		if count >= minCount && r < card.Rank2 {
			ranks = append(ranks, r)
		}
	}
	slices.Sort(ranks)
	return ranks
}

// chainTops 返回所有长度为 length 的连续段的最大点数，升序
func chainTops(ranks []card.Rank, length int) []card.Rank {
	var tops []card.Rank
	for i := 0; i+length <= len(ranks); i++ {
		if isContinuous(ranks[i : i+length]) {
			tops = append(tops, ranks[i+length-1])
		}
	}
	return tops
}

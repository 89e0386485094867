package rule

import (
	"errors"
	"slices"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

// HandType 定义牌型
type HandType int

const (
	Invalid        HandType = iota
	Single                  // 单张
	Pair                    // 对子
	Trio                    // 三张不带
	TrioWithSingle          // 三带一
	TrioWithPair            // 三带二

	Straight         // 顺子（5张或以上连续单张）
	PairStraight     // 连对（3对或以上）
	Plane            // 飞机不带翅膀（2个或以上连续三张）
	PlaneWithSingles // 飞机带单
	PlaneWithPairs   // 飞机带对

	Bomb             // 炸弹（四张相同）
	FourWithTwo      // 四带二（带两张不同的单牌）
	FourWithTwoPairs // 四带两对（带两对）

	Rocket // 王炸（双王）
)

// ErrInvalidHand 不支持的牌型
var ErrInvalidHand = errors.New("不支持的牌型")

// handTypeNames 牌型名称映射表
var handTypeNames = map[HandType]string{
	Single:           "单张",
	Pair:             "对子",
	Trio:             "三张",
	TrioWithSingle:   "三带一",
	TrioWithPair:     "三带二",
	Straight:         "顺子",
	PairStraight:     "连对",
	Plane:            "飞机",
	PlaneWithSingles: "飞机带单",
	PlaneWithPairs:   "飞机带对",
	Bomb:             "炸弹",
	FourWithTwo:      "四带二",
	FourWithTwoPairs: "四带两对",
	Rocket:           "王炸",
}

// String 返回牌型的中文名称
func (h HandType) String() string {
	if name, ok := handTypeNames[h]; ok {
		return name
	}
	return "无效"
}

// IsChain 顺子、连对、飞机类牌型需要比较长度
func (h HandType) IsChain() bool {
	switch h {
	case Straight, PairStraight, Plane, PlaneWithSingles, PlaneWithPairs:
		return true
	}
	return false
}

// ParsedHand 解析后的手牌，用于比较
type ParsedHand struct {
	Type    HandType
	KeyRank card.Rank   // 决定大小的关键点数（连牌取最大的一组，例如 34567 中的 7）
	Length  int         // 牌型的长度：连牌为组数，其余为 1
	Cards   []card.Card // 这手牌包含的卡牌，按点数从大到小排列
}

func (p ParsedHand) IsEmpty() bool {
	return p.Type == Invalid
}

// HandAnalysis 对一手牌进行预分析，统计不同点数的牌出现了几次
type HandAnalysis struct {
	counts map[card.Rank]int // 每种点数牌的数量
	total  int
	// 为了方便，提前将不同数量的牌分组，均为升序
	fours []card.Rank
	trios []card.Rank
	pairs []card.Rank
	ones  []card.Rank
}

// analyzeCards 分析手牌，返回一个包含所有统计信息的结构
func analyzeCards(cards []card.Card) HandAnalysis {
	analysis := HandAnalysis{
		counts: card.CountRanks(cards),
		total:  len(cards),
	}

	for r, count := range analysis.counts {
		switch count {
		case 4:
			analysis.fours = append(analysis.fours, r)
		case 3:
			analysis.trios = append(analysis.trios, r)
		case 2:
			analysis.pairs = append(analysis.pairs, r)
		case 1:
			analysis.ones = append(analysis.ones, r)
		}
	}

	// 对结果进行排序，方便后续判断连续性
	slices.Sort(analysis.fours)
	slices.Sort(analysis.trios)
	slices.Sort(analysis.pairs)
	slices.Sort(analysis.ones)

	return analysis
}

// groups 返回不同点数的数量
func (a HandAnalysis) groups() int {
	return len(a.counts)
}

// isContinuous 检查给定的点数切片是否连续，并且不能包含 2 和大小王
func isContinuous(ranks []card.Rank) bool {
	if len(ranks) == 0 {
		return false
	}
	for i, r := range ranks {
		if r >= card.Rank2 { // 顺子、连对、飞机不能包含2和王
			return false
		}
		if i > 0 && ranks[i-1]+1 != r {
			return false
		}
	}
	return true
}

// handMatcher 牌型匹配函数，按优先级依次尝试
type handMatcher func(HandAnalysis) (HandType, card.Rank, int, bool)

// matchers 的顺序即牌型优先级
var matchers = []handMatcher{
	isRocket,
	isBomb,
	isSimpleType,
	isTrioWithKicker,
	isStraight,
	isPairStraight,
	isPlane,
	isFourWithKickers,
}

// Classify 识别牌型。对任意输入都有结果，无法识别时返回 Type 为 Invalid 的 ParsedHand。
// 结果只与牌的多重集合有关，与输入顺序无关。
func Classify(cards []card.Card) ParsedHand {
	if len(cards) == 0 || card.HasDuplicates(cards) {
		return ParsedHand{}
	}
	for _, c := range cards {
		if !c.Valid() {
			return ParsedHand{}
		}
	}

	analysis := analyzeCards(cards)
	for _, match := range matchers {
		if t, key, length, ok := match(analysis); ok {
			sorted := slices.Clone(cards)
			card.SortDesc(sorted)
			return ParsedHand{Type: t, KeyRank: key, Length: length, Cards: sorted}
		}
	}
	return ParsedHand{}
}

// ParseHand 解析牌型，无法识别时返回 ErrInvalidHand
func ParseHand(cards []card.Card) (ParsedHand, error) {
	hand := Classify(cards)
	if hand.IsEmpty() {
		return ParsedHand{}, ErrInvalidHand
	}
	return hand, nil
}

// CanBeat 判断 newHand 是否能大过 lastHand
func CanBeat(newHand, lastHand ParsedHand) bool {
	if newHand.IsEmpty() {
		return false
	}
	if lastHand.IsEmpty() {
		return true
	}

	// 王炸最大
	if newHand.Type == Rocket {
		return true
	}
	if lastHand.Type == Rocket {
		return false
	}

	// 炸弹可以大过任何非炸弹和非王炸的牌
	if newHand.Type == Bomb && lastHand.Type != Bomb {
		return true
	}

	// 如果牌型不同 (且我不是炸弹)，不能出
	if newHand.Type != lastHand.Type {
		return false
	}

	// 对于顺子、连对、飞机，长度必须一致
	if newHand.Length != lastHand.Length {
		return false
	}

	// 如果牌型相同或者是炸弹盖炸弹
	return newHand.KeyRank > lastHand.KeyRank
}

// CanBeatWithHand 检查一个玩家的整手牌中是否存在任何可以打过 opponentHand 的组合
func CanBeatWithHand(playerHand []card.Card, opponentHand ParsedHand) bool {
	// 1. 如果是新一轮，总是有牌可出
	if opponentHand.IsEmpty() {
		return len(playerHand) > 0
	}

	analysis := analyzeCards(playerHand)

	// 2. 检查是否有炸弹或王炸 (它们几乎可以打任何牌)
	if hasWinningBombOrRocket(analysis, opponentHand) {
		return true
	}

	if opponentHand.Type == Bomb || opponentHand.Type == Rocket {
		return false
	}

	// 3. 检查是否有同类型的、更大的牌
	if checker, ok := handCheckers[opponentHand.Type]; ok {
		return checker(analysis, opponentHand)
	}
	return false
}

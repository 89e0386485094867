package bot

import "github.com/palemoky/landlord-engine/internal/game/card"

// CardCounter 记牌器：统计自己看不到的牌（不在手上也没打出过）
type CardCounter struct {
	remaining map[card.Rank]int
}

// NewCardCounter 创建记牌器，初始为整副牌
func NewCardCounter() *CardCounter {
	cc := &CardCounter{
		remaining: make(map[card.Rank]int),
	}
	cc.reset()
	return cc
}

// reset 恢复为整副 54 张
func (cc *CardCounter) reset() {
	for rank := card.Rank3; rank <= card.Rank2; rank++ {
		cc.remaining[rank] = 4
	}
	cc.remaining[card.RankBlackJoker] = 1
	cc.remaining[card.RankRedJoker] = 1
}

// DeductCards 扣除已知的牌
func (cc *CardCounter) DeductCards(cards []card.Card) {
	for _, c := range cards {
		if cc.remaining[c.Rank] > 0 {
			cc.remaining[c.Rank]--
		}
	}
}

// counts 返回各点数剩余张数
func (cc *CardCounter) counts() map[card.Rank]int {
	return cc.remaining
}

// total 剩余总张数
func (cc *CardCounter) total() int {
	total := 0
	for _, n := range cc.remaining {
		total += n
	}
	return total
}

// CanBeBombed 对手是否还可能有比 rank 更大的炸弹或王炸
func (cc *CardCounter) CanBeBombed(rank card.Rank) bool {
	if cc.remaining[card.RankBlackJoker] == 1 && cc.remaining[card.RankRedJoker] == 1 {
		return true
	}
	for r := rank + 1; r <= card.Rank2; r++ {
		if cc.remaining[r] == 4 {
			return true
		}
	}
	return false
}

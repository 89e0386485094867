package game

import (
	"fmt"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

// checkConsistency 检查牌数守恒和地主标记：
// 手牌 + 未归属的底牌 + 牌堆 + 已出的牌 = 54 张且没有重复。
func (g *Game) checkConsistency() error {
	if g.state == StateWaiting {
		if err := g.checkWaiting(); err != nil {
			return err
		}
	}

	seen := make(map[card.Card]struct{}, card.DeckSize)
	add := func(where string, cards []card.Card) error {
		for _, c := range cards {
			if !c.Valid() {
				return fmt.Errorf("%s 中有无效的牌 %v", where, c)
			}
			if _, ok := seen[c]; ok {
				return fmt.Errorf("%s 中的 %s 重复出现", where, c)
			}
			seen[c] = struct{}{}
		}
		return nil
	}

	for _, p := range g.players {
		if err := add("玩家 "+p.ID()+" 的手牌", p.Hand()); err != nil {
			return err
		}
	}
	if g.landlordIdx < 0 {
		if err := add("底牌", g.landlordCards); err != nil {
			return err
		}
	}
	if err := add("牌堆", g.deck); err != nil {
		return err
	}
	if err := add("已出的牌", g.discarded); err != nil {
		return err
	}
	if len(seen) != card.DeckSize {
		return fmt.Errorf("牌数不守恒: 共 %d 张", len(seen))
	}

	if g.state != StateWaiting && len(g.players) != MaxPlayers {
		return fmt.Errorf("%s 阶段需要 %d 名玩家，实际 %d 名", g.state, MaxPlayers, len(g.players))
	}

	hasLandlord := g.state == StatePlaying || g.state == StateFinished
	if hasLandlord != (g.landlordIdx >= 0) {
		return fmt.Errorf("%s 阶段的地主状态不正确", g.state)
	}
	for i, p := range g.players {
		if p.IsLandlord() != (i == g.landlordIdx) {
			return fmt.Errorf("玩家 %s 的地主标记不正确", p.ID())
		}
	}
	return nil
}

// checkWaiting 等待阶段最多两名玩家，第三名玩家加入时立即发牌
func (g *Game) checkWaiting() error {
	if len(g.players) >= MaxPlayers {
		return fmt.Errorf("%s 阶段已有 %d 名玩家", g.state, len(g.players))
	}
	if len(g.bids) > 0 || g.highestBid > 0 {
		return fmt.Errorf("%s 阶段不应有叫分记录", g.state)
	}
	for _, p := range g.players {
		if p.CardsCount() > 0 {
			return fmt.Errorf("%s 阶段玩家 %s 不应有手牌", g.state, p.ID())
		}
	}
	if len(g.discarded) > 0 {
		return fmt.Errorf("%s 阶段不应有已出的牌", g.state)
	}
	return nil
}

// mustBeConsistent 状态不一致说明引擎自身有 bug，直接 panic
func (g *Game) mustBeConsistent() {
	if err := g.checkConsistency(); err != nil {
		panic(fmt.Sprintf("game %s: %v", g.id, err))
	}
}

package game

import (
	"fmt"

	"github.com/palemoky/landlord-engine/internal/apperrors"
	"github.com/palemoky/landlord-engine/internal/game/card"
	"github.com/palemoky/landlord-engine/internal/game/rule"
)

// PlayCards 出牌。非法操作返回错误且不修改任何状态。
func (g *Game) PlayCards(playerID string, cards []card.Card) error {
	seat, err := g.checkTurn(playerID, StatePlaying)
	if err != nil {
		return err
	}
	if len(cards) == 0 {
		return apperrors.ErrInvalidCards
	}

	p := g.players[seat]
	if !p.HasCards(cards) {
		return apperrors.ErrCardsNotInHand
	}

	hand := rule.Classify(cards)
	if hand.IsEmpty() {
		return apperrors.ErrInvalidCards
	}
	if !g.mustLead() && !rule.CanBeat(hand, g.lastPlayedHand) {
		return apperrors.ErrCannotBeat
	}

	if err := p.RemoveCards(cards); err != nil {
		panic(fmt.Sprintf("game %s: 校验通过后移除 %s 的手牌失败: %v", g.id, playerID, err))
	}

	g.discarded = append(g.discarded, hand.Cards...)
	g.lastPlayedHand = hand
	g.lastPlayerIdx = seat
	g.consecutivePasses = 0
	g.plays[seat]++
	if hand.Type == rule.Bomb || hand.Type == rule.Rocket {
		g.bombsPlayed++
	}

	if p.CardsCount() == 0 {
		g.state = StateFinished
		g.winnerIdx = seat
	} else {
		g.currentTurn = g.nextSeat(seat)
	}

	g.mustBeConsistent()
	return nil
}

// PassTurn 不出。需要领出的玩家不能 PASS。
// 轮回到最后出牌的玩家时，其余两家都已 PASS，由他重新领出。
func (g *Game) PassTurn(playerID string) error {
	seat, err := g.checkTurn(playerID, StatePlaying)
	if err != nil {
		return err
	}
	if g.mustLead() {
		return apperrors.ErrMustPlay
	}

	g.consecutivePasses++
	g.currentTurn = g.nextSeat(seat)
	if g.currentTurn == g.lastPlayerIdx {
		g.consecutivePasses = 0
	}

	g.mustBeConsistent()
	return nil
}

// CanCurrentPlayerPlay 当前玩家手里是否有能出的牌
func (g *Game) CanCurrentPlayerPlay() bool {
	if g.state != StatePlaying {
		return false
	}
	return rule.CanBeatWithHand(g.players[g.currentTurn].Hand(), g.LastPlayed())
}

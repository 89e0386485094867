package game

import (
	"slices"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

// PlayerView 对所有人可见的玩家信息，不包含手牌
type PlayerView struct {
	ID         string `json:"id"`
	CardsCount int    `json:"cardsCount"`
	IsLandlord bool   `json:"isLandlord"`
	Plays      int    `json:"plays"`
}

// View 公开的牌局信息
type View struct {
	ID                  string       `json:"id"`
	State               State        `json:"state"`
	Players             []PlayerView `json:"players"`
	CurrentTurnPlayerID string       `json:"currentTurnPlayerId"`
	LandlordPlayerID    string       `json:"landlordPlayerId"`
	LandlordCards       []card.Card  `json:"landlordCards"` // 确定地主后公开
	HighestBid          int          `json:"highestBid"`
	HighestBidderID     string       `json:"highestBidderId"`
	Bids                []Bid        `json:"bids"`
	LastPlayedCards     []card.Card  `json:"lastPlayedCards"`
	LastHandType        string       `json:"lastHandType"`
	LastPlayerID        string       `json:"lastPlayerId"`
	ConsecutivePasses   int          `json:"consecutivePasses"`
	DiscardedCards      []card.Card  `json:"discardedCards"` // 已出的牌是公开信息
	DiscardedCount      int          `json:"discardedCount"`
	BombsPlayed         int          `json:"bombsPlayed"`
	WinnerID            string       `json:"winnerId"`

	// 当前玩家的提示
	MustLead bool `json:"mustLead"`
	CanBeat  bool `json:"canBeat"`
}

// View 返回当前状态的只读视图
func (g *Game) View() View {
	v := View{
		ID:                  g.id,
		State:               g.state,
		CurrentTurnPlayerID: g.CurrentTurn(),
		LandlordPlayerID:    g.Landlord(),
		HighestBid:          g.highestBid,
		HighestBidderID:     g.idAt(g.highestBidder),
		Bids:                append([]Bid{}, g.bids...),
		LastPlayerID:        g.idAt(g.lastPlayerIdx),
		ConsecutivePasses:   g.consecutivePasses,
		DiscardedCards:      cloneCards(g.discarded),
		DiscardedCount:      len(g.discarded),
		BombsPlayed:         g.bombsPlayed,
		WinnerID:            g.idAt(g.winnerIdx),
		MustLead:            g.MustLead(),
		CanBeat:             g.CanCurrentPlayerPlay(),
	}
	for i, p := range g.players {
		v.Players = append(v.Players, PlayerView{
			ID:         p.ID(),
			CardsCount: p.CardsCount(),
			IsLandlord: p.IsLandlord(),
			Plays:      g.plays[i],
		})
	}
	if g.landlordIdx >= 0 {
		v.LandlordCards = g.LandlordCards()
	}
	if !g.lastPlayedHand.IsEmpty() {
		v.LastPlayedCards = slices.Clone(g.lastPlayedHand.Cards)
		v.LastHandType = g.lastPlayedHand.Type.String()
	}
	return v
}

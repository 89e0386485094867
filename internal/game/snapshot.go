package game

import (
	"errors"
	"fmt"

	"github.com/palemoky/landlord-engine/internal/game/card"
	"github.com/palemoky/landlord-engine/internal/game/player"
	"github.com/palemoky/landlord-engine/internal/game/rule"
)

// ErrInvalidSnapshot 快照无法还原为合法的牌局
var ErrInvalidSnapshot = errors.New("无效的快照")

// PlayerSnapshot 玩家的持久化数据
type PlayerSnapshot struct {
	ID         string      `json:"id"`
	Hand       []card.Card `json:"hand"`
	IsLandlord bool        `json:"isLandlord"`
	Plays      int         `json:"plays"`
}

// Snapshot 牌局的完整持久化数据，Restore 只依赖这些字段即可还原牌局
type Snapshot struct {
	ID                  string           `json:"id"`
	State               State            `json:"state"`
	LandlordPlayerID    string           `json:"landlordPlayerId"`
	CurrentTurnPlayerID string           `json:"currentTurnPlayerId"`
	LandlordCards       []card.Card      `json:"landlordCards"`
	HighestBid          int              `json:"highestBid"`
	HighestBidderID     string           `json:"highestBidderId"`
	BidsHistory         []Bid            `json:"bidsHistory"`
	LastPlayedCards     []card.Card      `json:"lastPlayedCards"`
	LastPlayerID        string           `json:"lastPlayerId"`
	ConsecutivePasses   int              `json:"consecutivePasses"`
	DiscardedCards      []card.Card      `json:"discardedCards"`
	BombsPlayed         int              `json:"bombsPlayed"`
	WinnerID            string           `json:"winnerId"`
	Players             []PlayerSnapshot `json:"players"` // 按座位顺序
}

// cloneCards 复制牌，空切片也返回非 nil，保证编码前后结构一致
func cloneCards(cards []card.Card) []card.Card {
	return append([]card.Card{}, cards...)
}

// Snapshot 导出当前状态
func (g *Game) Snapshot() *Snapshot {
	s := &Snapshot{
		ID:                  g.id,
		State:               g.state,
		LandlordPlayerID:    g.Landlord(),
		CurrentTurnPlayerID: g.CurrentTurn(),
		LandlordCards:       cloneCards(g.landlordCards),
		HighestBid:          g.highestBid,
		HighestBidderID:     g.idAt(g.highestBidder),
		BidsHistory:         append([]Bid{}, g.bids...),
		LastPlayedCards:     cloneCards(g.lastPlayedHand.Cards),
		LastPlayerID:        g.idAt(g.lastPlayerIdx),
		ConsecutivePasses:   g.consecutivePasses,
		DiscardedCards:      cloneCards(g.discarded),
		BombsPlayed:         g.bombsPlayed,
		WinnerID:            g.idAt(g.winnerIdx),
		Players:             make([]PlayerSnapshot, 0, len(g.players)),
	}
	for i, p := range g.players {
		s.Players = append(s.Players, PlayerSnapshot{
			ID:         p.ID(),
			Hand:       cloneCards(p.Hand()),
			IsLandlord: p.IsLandlord(),
			Plays:      g.plays[i],
		})
	}
	return s
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidSnapshot, fmt.Sprintf(format, args...))
}

// Restore 由快照一次性构建牌局，并校验快照是否合法
func Restore(s *Snapshot, opts ...Option) (*Game, error) {
	if s == nil {
		return nil, invalidf("快照为空")
	}
	if _, ok := stateNames[s.State]; !ok {
		return nil, invalidf("未知的状态 %d", int(s.State))
	}
	if len(s.Players) > MaxPlayers {
		return nil, invalidf("玩家数量 %d 超过 %d", len(s.Players), MaxPlayers)
	}

	g := New(s.ID, opts...)
	g.state = s.State

	for _, ps := range s.Players {
		if ps.ID == "" {
			return nil, invalidf("玩家 ID 为空")
		}
		if g.seatOf(ps.ID) >= 0 {
			return nil, invalidf("玩家 %s 重复", ps.ID)
		}
		if ps.Plays < 0 {
			return nil, invalidf("玩家 %s 的出牌次数为负数", ps.ID)
		}
		p := player.New(ps.ID)
		p.AddCards(ps.Hand)
		p.SetLandlord(ps.IsLandlord)
		g.players = append(g.players, p)
		g.plays = append(g.plays, ps.Plays)
	}
	if g.state != StateWaiting {
		g.deck = card.Deck{}
	}

	if err := g.restoreSeats(s); err != nil {
		return nil, err
	}
	if err := g.restoreBidding(s); err != nil {
		return nil, err
	}
	if err := g.restorePlay(s); err != nil {
		return nil, err
	}

	if err := g.checkConsistency(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	return g, nil
}

// seatByID 空 ID 返回 -1
func (g *Game) seatByID(field, id string) (int, error) {
	if id == "" {
		return -1, nil
	}
	seat := g.seatOf(id)
	if seat < 0 {
		return -1, invalidf("%s 指向不存在的玩家 %s", field, id)
	}
	return seat, nil
}

func (g *Game) restoreSeats(s *Snapshot) error {
	var err error
	if g.currentTurn, err = g.seatByID("currentTurnPlayerId", s.CurrentTurnPlayerID); err != nil {
		return err
	}
	if g.currentTurn < 0 {
		if len(g.players) > 0 {
			return invalidf("缺少 currentTurnPlayerId")
		}
		g.currentTurn = 0
	}
	if g.landlordIdx, err = g.seatByID("landlordPlayerId", s.LandlordPlayerID); err != nil {
		return err
	}
	if g.winnerIdx, err = g.seatByID("winnerId", s.WinnerID); err != nil {
		return err
	}
	if (g.state == StateFinished) != (g.winnerIdx >= 0) {
		return invalidf("%s 状态与 winnerId 不匹配", g.state)
	}
	if g.winnerIdx >= 0 && g.players[g.winnerIdx].CardsCount() != 0 {
		return invalidf("胜者 %s 仍有手牌", s.WinnerID)
	}
	return nil
}

func (g *Game) restoreBidding(s *Snapshot) error {
	var err error
	if s.HighestBid < 0 || s.HighestBid > MaxBid {
		return invalidf("最高叫分 %d 不合法", s.HighestBid)
	}
	g.highestBid = s.HighestBid
	if g.highestBidder, err = g.seatByID("highestBidderId", s.HighestBidderID); err != nil {
		return err
	}
	if (g.highestBid > 0) != (g.highestBidder >= 0) {
		return invalidf("最高叫分与叫分玩家不匹配")
	}

	for _, b := range s.BidsHistory {
		if g.seatOf(b.PlayerID) < 0 {
			return invalidf("叫分记录中的玩家 %s 不存在", b.PlayerID)
		}
		if b.Value < 0 || b.Value > MaxBid {
			return invalidf("叫分记录中的分数 %d 不合法", b.Value)
		}
	}
	g.bids = append([]Bid{}, s.BidsHistory...)

	wantLandlordCards := LandlordCardsCount
	if g.state == StateWaiting {
		wantLandlordCards = 0
	}
	if len(s.LandlordCards) != wantLandlordCards {
		return invalidf("%s 状态下底牌应为 %d 张，实际 %d 张", g.state, wantLandlordCards, len(s.LandlordCards))
	}
	g.landlordCards = cloneCards(s.LandlordCards)
	return nil
}

func (g *Game) restorePlay(s *Snapshot) error {
	var err error
	if g.lastPlayerIdx, err = g.seatByID("lastPlayerId", s.LastPlayerID); err != nil {
		return err
	}
	if s.ConsecutivePasses < 0 || s.ConsecutivePasses > MaxPlayers {
		return invalidf("连续 PASS 次数 %d 不合法", s.ConsecutivePasses)
	}
	g.consecutivePasses = s.ConsecutivePasses
	if s.BombsPlayed < 0 {
		return invalidf("炸弹数量为负数")
	}
	g.bombsPlayed = s.BombsPlayed
	g.discarded = cloneCards(s.DiscardedCards)

	if len(s.LastPlayedCards) == 0 {
		if g.lastPlayerIdx >= 0 {
			return invalidf("lastPlayerId 存在但没有出牌记录")
		}
		return nil
	}
	hand := rule.Classify(s.LastPlayedCards)
	if hand.IsEmpty() {
		return invalidf("桌面上的牌 %s 不是合法牌型", card.Format(s.LastPlayedCards))
	}
	if g.lastPlayerIdx < 0 {
		return invalidf("有出牌记录但缺少 lastPlayerId")
	}
	if !card.ContainsAll(g.discarded, hand.Cards) {
		return invalidf("桌面上的牌不在已出的牌中")
	}
	g.lastPlayedHand = hand
	return nil
}

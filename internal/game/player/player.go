package player

import (
	"errors"
	"slices"

	"github.com/palemoky/landlord-engine/internal/game/card"
)

// ErrCardNotHeld 要移除的牌不在手中。Game 在调用前已经校验过，出现此错误说明状态已不一致。
var ErrCardNotHeld = errors.New("手牌中没有这张牌")

// Player 一个座位上的玩家。手牌只由 Game 修改。
type Player struct {
	id         string
	hand       []card.Card
	isLandlord bool
}

// New 创建玩家
func New(id string) *Player {
	return &Player{id: id}
}

func (p *Player) ID() string {
	return p.id
}

// AddCards 将牌加入手牌并按点数从大到小排序
func (p *Player) AddCards(cards []card.Card) {
	p.hand = append(p.hand, cards...)
	card.SortDesc(p.hand)
}

// RemoveCards 每张牌移除一次。只要有一张不在手中就返回 ErrCardNotHeld，手牌保持不变。
func (p *Player) RemoveCards(cards []card.Card) error {
	rest, ok := card.RemoveCards(p.hand, cards)
	if !ok {
		return ErrCardNotHeld
	}
	p.hand = rest
	return nil
}

// HasCards 判断是否持有全部 cards
func (p *Player) HasCards(cards []card.Card) bool {
	return card.ContainsAll(p.hand, cards)
}

func (p *Player) SetLandlord(isLandlord bool) {
	p.isLandlord = isLandlord
}

func (p *Player) IsLandlord() bool {
	return p.isLandlord
}

// Hand 返回手牌的副本
func (p *Player) Hand() []card.Card {
	return slices.Clone(p.hand)
}

func (p *Player) CardsCount() int {
	return len(p.hand)
}

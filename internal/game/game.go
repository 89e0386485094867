package game

import (
	"math/rand/v2"
	"slices"

	"github.com/palemoky/landlord-engine/internal/apperrors"
	"github.com/palemoky/landlord-engine/internal/game/card"
	"github.com/palemoky/landlord-engine/internal/game/player"
	"github.com/palemoky/landlord-engine/internal/game/rule"
)

// Game 一局斗地主的完整状态。
// Game 本身不加锁，同一局的所有调用需要由调用方串行化。
type Game struct {
	id      string
	rng     *rand.Rand
	state   State
	players []*player.Player // 按座位顺序

	deck          card.Deck
	landlordCards []card.Card
	landlordIdx   int // -1 表示尚未确定

	// 叫分相关
	currentTurn   int // 当前行动玩家索引
	highestBid    int
	highestBidder int // -1 表示没人叫
	bids          []Bid

	// 出牌相关
	lastPlayedHand    rule.ParsedHand // 桌面上的牌
	lastPlayerIdx     int             // -1 表示本局还没人出过牌
	consecutivePasses int             // 连续 PASS 次数（叫分阶段为连续不叫次数）
	discarded         []card.Card     // 已打出的牌
	bombsPlayed       int             // 炸弹和王炸的数量
	plays             []int           // 每个玩家出牌的次数
	winnerIdx         int
}

// Option 创建游戏时的可选配置
type Option func(*Game)

// WithRand 指定随机源，用于复现洗牌和首个叫分玩家
func WithRand(r *rand.Rand) Option {
	return func(g *Game) {
		g.rng = r
	}
}

// New 创建一局等待玩家加入的游戏
func New(id string, opts ...Option) *Game {
	g := &Game{
		id:            id,
		state:         StateWaiting,
		deck:          card.NewDeck(),
		landlordIdx:   -1,
		highestBidder: -1,
		lastPlayerIdx: -1,
		winnerIdx:     -1,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// AddPlayer 玩家按加入顺序入座，第三位玩家加入后自动发牌并进入叫分阶段
func (g *Game) AddPlayer(p *player.Player) error {
	if g.state != StateWaiting || len(g.players) >= MaxPlayers {
		return apperrors.ErrGameStarted
	}
	if g.seatOf(p.ID()) >= 0 {
		return apperrors.ErrDuplicatePlayer
	}

	g.players = append(g.players, p)
	g.plays = append(g.plays, 0)

	if len(g.players) == MaxPlayers {
		g.deal()
	}
	g.mustBeConsistent()
	return nil
}

// deal 洗牌并轮流发牌，剩余三张作为底牌
func (g *Game) deal() {
	deck := g.deck.Shuffled(g.rng)

	hands := make([][]card.Card, MaxPlayers)
	for i := range HandSize * MaxPlayers {
		hands[i%MaxPlayers] = append(hands[i%MaxPlayers], deck[i])
	}
	for i, p := range g.players {
		p.AddCards(hands[i])
	}

	g.landlordCards = slices.Clone(deck[HandSize*MaxPlayers:])
	g.deck = card.Deck{}
	g.state = StateBidding
	g.currentTurn = g.intN(MaxPlayers)
}

func (g *Game) intN(n int) int {
	if g.rng == nil {
		return rand.IntN(n)
	}
	return g.rng.IntN(n)
}

// seatOf 返回玩家座位，-1 表示不在游戏中
func (g *Game) seatOf(playerID string) int {
	return slices.IndexFunc(g.players, func(p *player.Player) bool {
		return p.ID() == playerID
	})
}

func (g *Game) nextSeat(seat int) int {
	return (seat + 1) % MaxPlayers
}

// checkTurn 校验阶段和行动顺序，返回玩家座位
func (g *Game) checkTurn(playerID string, want State) (int, error) {
	if g.state != want {
		return -1, apperrors.ErrWrongPhase
	}
	seat := g.seatOf(playerID)
	if seat < 0 || seat != g.currentTurn {
		return -1, apperrors.ErrNotYourTurn
	}
	return seat, nil
}

func (g *Game) ID() string {
	return g.id
}

func (g *Game) State() State {
	return g.state
}

// CurrentTurn 当前行动玩家，没有玩家时为空
func (g *Game) CurrentTurn() string {
	return g.idAt(g.currentTurn)
}

// Landlord 地主 ID，尚未确定时为空
func (g *Game) Landlord() string {
	return g.idAt(g.landlordIdx)
}

func (g *Game) idAt(seat int) string {
	if seat < 0 || seat >= len(g.players) {
		return ""
	}
	return g.players[seat].ID()
}

// Players 按座位顺序返回玩家
func (g *Game) Players() []*player.Player {
	return slices.Clone(g.players)
}

// Player 按 ID 查找玩家
func (g *Game) Player(id string) (*player.Player, bool) {
	seat := g.seatOf(id)
	if seat < 0 {
		return nil, false
	}
	return g.players[seat], true
}

// LandlordCards 底牌
func (g *Game) LandlordCards() []card.Card {
	return slices.Clone(g.landlordCards)
}

// LastPlayed 桌面上需要压过的牌。轮到的玩家需要领出时返回空牌型。
func (g *Game) LastPlayed() rule.ParsedHand {
	if g.mustLead() {
		return rule.ParsedHand{}
	}
	return g.lastPlayedHand
}

// MustLead 当前玩家是否需要领出（本局还没人出牌，或其余两家都 PASS 了）
func (g *Game) MustLead() bool {
	return g.state == StatePlaying && g.mustLead()
}

func (g *Game) mustLead() bool {
	return g.lastPlayerIdx < 0 || g.lastPlayerIdx == g.currentTurn
}

// Result 结束后返回胜者和阵营
func (g *Game) Result() (Result, bool) {
	if g.state != StateFinished {
		return Result{}, false
	}
	side := SidePeasants
	if g.winnerIdx == g.landlordIdx {
		side = SideLandlord
	}
	return Result{
		WinnerID:   g.idAt(g.winnerIdx),
		WinnerSide: side,
		LandlordID: g.idAt(g.landlordIdx),
	}, true
}

package table

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"

	"github.com/palemoky/landlord-engine/internal/apperrors"
	"github.com/palemoky/landlord-engine/internal/game"
	"github.com/palemoky/landlord-engine/internal/game/card"
	"github.com/palemoky/landlord-engine/internal/game/player"
	"github.com/palemoky/landlord-engine/internal/game/score"
	"github.com/palemoky/landlord-engine/internal/logger"
	"github.com/palemoky/landlord-engine/internal/storage"
)

// Recorder 记录结算结果，*storage.Leaderboard 实现了该接口
type Recorder interface {
	RecordSettlement(ctx context.Context, st score.Settlement) error
}

// Update 一次操作之后的牌局信息
type Update struct {
	View       game.View
	Settlement *score.Settlement // 本次操作结束了牌局时才有值
}

// entry 单个牌局的缓存，mu 保证同一牌局的操作串行执行
type entry struct {
	mu       sync.Mutex
	game     *game.Game
	lastUsed time.Time
	evicted  bool // 已从 entries 移除，持有者需要重新获取
}

// Manager 托管多局游戏：加载、执行操作、保存
type Manager struct {
	store    storage.Store
	recorder Recorder
	log      *slog.Logger
	newRand  func() *rand.Rand
	now      func() time.Time

	mu      sync.Mutex
	entries map[string]*entry
}

// Option Manager 的可选项
type Option func(*Manager)

// WithRecorder 牌局结束时把结算写入 r
func WithRecorder(r Recorder) Option {
	return func(m *Manager) { m.recorder = r }
}

// WithLogger 指定日志，默认使用 slog.Default()
func WithLogger(l *slog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithSeed 使洗牌可复现，每局使用不同的流
func WithSeed(seed uint64) Option {
	return func(m *Manager) {
		var stream atomic.Uint64
		m.newRand = func() *rand.Rand {
			return rand.New(rand.NewPCG(seed, stream.Add(1)))
		}
	}
}

// NewManager 创建管理器
func NewManager(store storage.Store, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		log:     slog.Default(),
		entries: make(map[string]*entry),
		now:     time.Now,
		newRand: func() *rand.Rand {
			return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Manager) entry(id string) *entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.entries[id]
	if !ok {
		e = &entry{}
		m.entries[id] = e
	}
	return e
}

// lock 获取并锁定牌局的缓存项
func (m *Manager) lock(id string) *entry {
	for {
		e := m.entry(id)
		e.mu.Lock()
		if !e.evicted {
			e.lastUsed = m.now()
			return e
		}
		e.mu.Unlock()
	}
}

// unlock 释放牌局。没有缓存牌局（不存在、损坏或保存失败）时一并移除缓存项，
// 避免无效 ID 在 entries 中堆积。
func (m *Manager) unlock(id string, e *entry) {
	drop := e.game == nil && !e.evicted
	if drop {
		e.evicted = true
	}
	e.mu.Unlock()
	if !drop {
		return
	}

	m.mu.Lock()
	if m.entries[id] == e {
		delete(m.entries, id)
	}
	m.mu.Unlock()
}

// Create 创建新牌局并返回 ID
func (m *Manager) Create(ctx context.Context) (string, error) {
	id := uuid.NewString()
	g := game.New(id, game.WithRand(m.newRand()))
	if err := m.store.Save(ctx, g.Snapshot()); err != nil {
		return "", fmt.Errorf("保存新牌局失败: %w", err)
	}

	e := m.lock(id)
	e.game = g
	e.mu.Unlock()

	m.log.Info("🎲 创建牌局", "game", id)
	return id, nil
}

// Join 玩家入座，第三人入座后自动发牌
func (m *Manager) Join(ctx context.Context, gameID, playerID string) (*Update, error) {
	return m.mutate(ctx, gameID, func(g *game.Game) error {
		return g.AddPlayer(player.New(playerID))
	})
}

// Bid 叫分，0 表示不叫
func (m *Manager) Bid(ctx context.Context, gameID, playerID string, bid int) (*Update, error) {
	return m.mutate(ctx, gameID, func(g *game.Game) error {
		return g.ProcessBid(playerID, bid)
	})
}

// Play 出牌
func (m *Manager) Play(ctx context.Context, gameID, playerID string, cards []card.Card) (*Update, error) {
	return m.mutate(ctx, gameID, func(g *game.Game) error {
		return g.PlayCards(playerID, cards)
	})
}

// PlayText 按点数输入出牌，如 "334"、"10JQKA"、"JOKER"
func (m *Manager) PlayText(ctx context.Context, gameID, playerID, input string) (*Update, error) {
	return m.mutate(ctx, gameID, func(g *game.Game) error {
		if g.State() != game.StatePlaying {
			return apperrors.ErrWrongPhase
		}
		p, ok := g.Player(playerID)
		if !ok {
			return apperrors.ErrPlayerNotFound
		}
		if g.CurrentTurn() != playerID {
			return apperrors.ErrNotYourTurn
		}
		cards, err := card.FindCardsInHand(p.Hand(), input)
		if err != nil {
			return fmt.Errorf("%w: %v", apperrors.ErrCardsNotInHand, err)
		}
		return g.PlayCards(playerID, cards)
	})
}

// Pass 叫分阶段表示不叫，出牌阶段表示不出
func (m *Manager) Pass(ctx context.Context, gameID, playerID string) (*Update, error) {
	return m.mutate(ctx, gameID, func(g *game.Game) error {
		if g.State() == game.StateBidding {
			return g.ProcessBid(playerID, 0)
		}
		return g.PassTurn(playerID)
	})
}

// Redeal 流局后用相同的座位重新开一局
func (m *Manager) Redeal(ctx context.Context, gameID string) (*Update, error) {
	return m.replace(ctx, gameID, func(old *game.Game) (*game.Game, error) {
		if old.State() != game.StateMisdeal {
			return nil, apperrors.ErrWrongPhase
		}
		g := game.New(old.ID(), game.WithRand(m.newRand()))
		for _, p := range old.Players() {
			if err := g.AddPlayer(player.New(p.ID())); err != nil {
				return nil, err
			}
		}
		m.log.Info("🔁 流局重发", "game", old.ID())
		return g, nil
	})
}

// View 牌局的公开信息
func (m *Manager) View(ctx context.Context, gameID string) (game.View, error) {
	var v game.View
	err := m.read(ctx, gameID, func(g *game.Game) error {
		v = g.View()
		return nil
	})
	return v, err
}

// Hand 玩家的手牌
func (m *Manager) Hand(ctx context.Context, gameID, playerID string) ([]card.Card, error) {
	var hand []card.Card
	err := m.read(ctx, gameID, func(g *game.Game) error {
		p, ok := g.Player(playerID)
		if !ok {
			return apperrors.ErrPlayerNotFound
		}
		hand = p.Hand()
		return nil
	})
	return hand, err
}

// Evict 丢弃缓存，下次访问时从存储重新加载
func (m *Manager) Evict(gameID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if e, ok := m.entries[gameID]; ok {
		e.mu.Lock()
		e.evicted, e.game = true, nil
		e.mu.Unlock()
		delete(m.entries, gameID)
	}
}

// EvictIdle 丢弃超过 maxIdle 未访问的缓存，返回丢弃的数量。存储中的牌局不受影响。
func (m *Manager) EvictIdle(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()

	n := 0
	for id, e := range m.entries {
		// 正在使用的跳过
		if !e.mu.TryLock() {
			continue
		}
		if e.lastUsed.Before(cutoff) {
			e.evicted, e.game = true, nil
			delete(m.entries, id)
			n++
		}
		e.mu.Unlock()
	}
	return n
}

// StartCleanup 定期清理空闲缓存，ctx 取消后退出
func (m *Manager) StartCleanup(ctx context.Context, interval, maxIdle time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if n := m.EvictIdle(maxIdle); n > 0 {
					m.log.Debug("🧹 清理空闲牌局缓存", "count", n)
				}
			}
		}
	}()
}

// load 返回缓存的牌局，没有时从存储还原。调用方持有 e.mu。
func (m *Manager) load(ctx context.Context, gameID string, e *entry) (*game.Game, error) {
	if e.game != nil {
		return e.game, nil
	}

	s, err := m.store.Load(ctx, gameID)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return nil, apperrors.ErrGameNotFound
		}
		return nil, fmt.Errorf("加载牌局 %s 失败: %w", gameID, err)
	}

	g, err := game.Restore(s, game.WithRand(m.newRand()))
	if err != nil {
		m.log.Error("❌ 牌局数据损坏", "game", gameID, "error", err)
		return nil, fmt.Errorf("%w: %v", apperrors.ErrCorruptGame, err)
	}
	e.game = g
	return g, nil
}

// recoverCorrupt 把引擎的不变量 panic 转换为 ErrCorruptGame，并丢弃缓存
func (m *Manager) recoverCorrupt(gameID string, e *entry, err *error) {
	if r := recover(); r != nil {
		logger.LogPanic(r)
		m.log.Error("💥 牌局状态异常，已移除缓存", "game", gameID)
		e.game = nil
		*err = apperrors.ErrCorruptGame
	}
}

func (m *Manager) read(ctx context.Context, gameID string, fn func(g *game.Game) error) (err error) {
	e := m.lock(gameID)
	defer m.unlock(gameID, e)
	defer m.recoverCorrupt(gameID, e, &err)

	g, err := m.load(ctx, gameID, e)
	if err != nil {
		return err
	}
	return fn(g)
}

// mutate 加载、执行操作、保存。非法操作直接返回，不会保存。
func (m *Manager) mutate(ctx context.Context, gameID string, fn func(g *game.Game) error) (*Update, error) {
	return m.replace(ctx, gameID, func(g *game.Game) (*game.Game, error) {
		if err := fn(g); err != nil {
			return nil, err
		}
		return g, nil
	})
}

func (m *Manager) replace(ctx context.Context, gameID string, fn func(g *game.Game) (*game.Game, error)) (upd *Update, err error) {
	e := m.lock(gameID)
	defer m.unlock(gameID, e)
	defer m.recoverCorrupt(gameID, e, &err)

	g, err := m.load(ctx, gameID, e)
	if err != nil {
		return nil, err
	}
	before := g.State()

	next, err := fn(g)
	if err != nil {
		return nil, err
	}

	if err := m.store.Save(ctx, next.Snapshot()); err != nil {
		// 内存中的状态已经领先于存储，丢弃缓存以存储为准
		e.game = nil
		return nil, fmt.Errorf("保存牌局 %s 失败: %w", gameID, err)
	}
	e.game = next

	upd = &Update{View: next.View()}
	switch after := next.State(); {
	case after == game.StateFinished && before != game.StateFinished:
		st, err := score.Settle(next.Snapshot())
		if err != nil {
			return nil, err
		}
		upd.Settlement = &st
		m.log.Info("🏁 牌局结束", "game", gameID, "winner", upd.View.WinnerID, "side", st.WinnerSide, "multiplier", st.Multiplier)
		m.record(ctx, st)
	case after == game.StateMisdeal && before != game.StateMisdeal:
		m.log.Info("🤷 三家都不叫，流局", "game", gameID)
	case after == game.StatePlaying && before == game.StateBidding:
		m.log.Debug("👑 地主确定", "game", gameID, "landlord", upd.View.LandlordPlayerID, "bid", upd.View.HighestBid)
	}
	return upd, nil
}

// record 写入排行榜，失败只记日志，不影响牌局
func (m *Manager) record(ctx context.Context, st score.Settlement) {
	if m.recorder == nil {
		return
	}
	if err := m.recorder.RecordSettlement(ctx, st); err != nil {
		m.log.Error("❌ 记录结算失败", "game", st.GameID, "error", err)
	}
}

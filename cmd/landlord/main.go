package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/landlord-engine/internal/bot"
	"github.com/palemoky/landlord-engine/internal/config"
	"github.com/palemoky/landlord-engine/internal/game"
	"github.com/palemoky/landlord-engine/internal/game/rule"
	"github.com/palemoky/landlord-engine/internal/logger"
	"github.com/palemoky/landlord-engine/internal/storage"
	"github.com/palemoky/landlord-engine/internal/table"
)

func main() {
	configPath := flag.String("config", "configs/config.yaml", "配置文件路径")
	games := flag.Int("games", 1, "自动对局的局数")
	seed := flag.Uint64("seed", 0, "洗牌种子，0 表示随机")
	quiet := flag.Bool("quiet", false, "只输出结算")
	flag.Parse()

	// 加载配置
	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "加载配置文件失败，使用默认配置: %v\n", err)
		if cfg, err = config.Default(); err != nil {
			fmt.Fprintf(os.Stderr, "加载默认配置失败: %v\n", err)
			os.Exit(1)
		}
	}

	if err := logger.Init(cfg.Log); err != nil {
		fmt.Fprintf(os.Stderr, "初始化日志失败: %v\n", err)
		os.Exit(1)
	}
	defer logger.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *games, *seed, *quiet); err != nil {
		slog.Error("❌ 运行失败", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, games int, seed uint64, quiet bool) error {
	codec, err := storage.CodecByName(cfg.Storage.Codec)
	if err != nil {
		return err
	}

	var (
		store       storage.Store
		leaderboard *storage.Leaderboard
	)
	opts := []table.Option{}
	if seed != 0 {
		opts = append(opts, table.WithSeed(seed))
	}

	switch cfg.Storage.Driver {
	case config.DriverRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		defer func() { _ = rdb.Close() }()

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("连接 Redis 失败: %w", err)
		}
		slog.Info("✅ 已连接 Redis", "addr", cfg.Redis.Addr)

		store = storage.NewRedisStore(rdb, storage.RedisStoreOptions{
			KeyPrefix:  cfg.Storage.KeyPrefix,
			Expiration: cfg.Storage.ExpirationDuration(),
			Codec:      codec,
		})
		if cfg.Game.Leaderboard {
			leaderboard = storage.NewLeaderboard(rdb, cfg.Storage.KeyPrefix)
			opts = append(opts, table.WithRecorder(leaderboard))
		}
	default:
		store = storage.NewMemoryStore(codec)
	}

	m := table.NewManager(store, opts...)
	if idle := cfg.Game.CacheIdleDuration(); idle > 0 {
		m.StartCleanup(ctx, time.Minute, idle)
	}
	results := newTally()
	p := &printer{quiet: quiet}

	for i := range games {
		if err := ctx.Err(); err != nil {
			return err
		}
		p.title(fmt.Sprintf("第 %d 局", i+1))
		if err := playGame(ctx, m, cfg.Game.BotThinkDelayDuration(), p, results); err != nil {
			return err
		}
	}

	p.title("总成绩")
	p.tally(results)
	if lister, ok := store.(storage.Lister); ok && !quiet {
		ids, err := lister.ListGameIDs(ctx)
		if err != nil {
			return fmt.Errorf("列出牌局失败: %w", err)
		}
		p.stored(ids)
	}
	if leaderboard != nil {
		entries, err := leaderboard.Top(ctx, 10)
		if err != nil {
			return fmt.Errorf("读取排行榜失败: %w", err)
		}
		p.title("排行榜")
		p.leaderboard(entries)
	}
	return nil
}

var seats = []string{"东家", "南家", "西家"}

// playGame 三个机器人打完一局，流局时重发
func playGame(ctx context.Context, m *table.Manager, delay time.Duration, p *printer, t *tally) error {
	id, err := m.Create(ctx)
	if err != nil {
		return err
	}
	defer m.Evict(id)

	for _, seat := range seats {
		if _, err := m.Join(ctx, id, seat); err != nil {
			return err
		}
	}

	for {
		v, err := m.View(ctx, id)
		if err != nil {
			return err
		}

		switch v.State {
		case game.StateMisdeal:
			p.line("🤷 三家都不叫，重新发牌")
			if _, err := m.Redeal(ctx, id); err != nil {
				return err
			}
			continue
		case game.StateFinished:
			return nil
		}

		current := v.CurrentTurnPlayerID
		hand, err := m.Hand(ctx, id, current)
		if err != nil {
			return err
		}

		var upd *table.Update
		switch v.State {
		case game.StateBidding:
			bid := bot.Bid(hand, v.HighestBid)
			p.bid(current, bid)
			upd, err = m.Bid(ctx, id, current, bid)
		case game.StatePlaying:
			cards := bot.Move(current, hand, v)
			if cards == nil {
				p.pass(current)
				upd, err = m.Pass(ctx, id, current)
			} else {
				p.play(current, rule.Classify(cards), len(hand)-len(cards))
				upd, err = m.Play(ctx, id, current, cards)
			}
		}
		if err != nil {
			return fmt.Errorf("%s 操作失败: %w", current, err)
		}

		if upd.View.State == game.StatePlaying && v.State == game.StateBidding {
			p.landlord(upd.View)
		}
		if upd.Settlement != nil {
			p.settlement(*upd.Settlement)
			t.add(*upd.Settlement)
		}

		if delay > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(delay):
			}
		}
	}
}

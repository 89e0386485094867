package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/palemoky/landlord-engine/internal/game/score"
)

const (
	// Redis key（拼在全局前缀之后）
	playerStatsKey = "player:stats:"
	leaderboardKey = "leaderboard:score"
)

// PlayerStats 玩家统计数据，保存在 hash 中
type PlayerStats struct {
	PlayerID string `redis:"-"`
	Score    int    `redis:"-"` // 来自排行榜有序集合

	Games  int `redis:"games"`
	Wins   int `redis:"wins"`
	Losses int `redis:"losses"`

	// 地主/农民分开统计
	LandlordGames int `redis:"landlord_games"`
	LandlordWins  int `redis:"landlord_wins"`
	PeasantGames  int `redis:"peasant_games"`
	PeasantWins   int `redis:"peasant_wins"`

	// 正数为连胜，负数为连败
	Streak       int `redis:"streak"`
	MaxWinStreak int `redis:"max_win_streak"`

	LastPlayedAt int64 `redis:"last_played_at"`
}

// WinRate 胜率（百分比）
func (ps *PlayerStats) WinRate() float64 {
	if ps.Games == 0 {
		return 0
	}
	return float64(ps.Wins) / float64(ps.Games) * 100
}

// LeaderboardEntry 排行榜条目
type LeaderboardEntry struct {
	Rank  int
	Stats PlayerStats
}

// streakScript 原子地更新连胜/连败
var streakScript = redis.NewScript(`
local s = tonumber(redis.call('HGET', KEYS[1], 'streak') or '0')
if ARGV[1] == '1' then
  if s < 0 then s = 0 end
  s = s + 1
else
  if s > 0 then s = 0 end
  s = s - 1
end
redis.call('HSET', KEYS[1], 'streak', tostring(s))
local m = tonumber(redis.call('HGET', KEYS[1], 'max_win_streak') or '0')
if s > m then
  redis.call('HSET', KEYS[1], 'max_win_streak', tostring(s))
end
return s
`)

// Leaderboard 基于 Redis 有序集合的积分榜
type Leaderboard struct {
	client *redis.Client
	prefix string
	now    func() time.Time
}

// NewLeaderboard 创建排行榜，prefix 为全局 key 前缀
func NewLeaderboard(client *redis.Client, prefix string) *Leaderboard {
	return &Leaderboard{client: client, prefix: prefix, now: time.Now}
}

func (lb *Leaderboard) statsKey(playerID string) string {
	return lb.prefix + playerStatsKey + playerID
}

func (lb *Leaderboard) scoreKey() string {
	return lb.prefix + leaderboardKey
}

// RecordSettlement 记录一局的结算：积分累加到排行榜，胜负计入玩家统计
func (lb *Leaderboard) RecordSettlement(ctx context.Context, st score.Settlement) error {
	now := lb.now().Unix()

	_, err := lb.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, ps := range st.Scores {
			key := lb.statsKey(ps.PlayerID)
			pipe.HIncrBy(ctx, key, "games", 1)

			role := "peasant"
			if ps.IsLandlord {
				role = "landlord"
			}
			pipe.HIncrBy(ctx, key, role+"_games", 1)

			if ps.Won {
				pipe.HIncrBy(ctx, key, "wins", 1)
				pipe.HIncrBy(ctx, key, role+"_wins", 1)
			} else {
				pipe.HIncrBy(ctx, key, "losses", 1)
			}
			pipe.HSet(ctx, key, "last_played_at", now)
			pipe.ZIncrBy(ctx, lb.scoreKey(), float64(ps.Delta), ps.PlayerID)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("记录结算 %s 失败: %w", st.GameID, err)
	}

	for _, ps := range st.Scores {
		won := "0"
		if ps.Won {
			won = "1"
		}
		if err := streakScript.Run(ctx, lb.client, []string{lb.statsKey(ps.PlayerID)}, won).Err(); err != nil {
			return fmt.Errorf("更新连胜失败: %w", err)
		}
	}
	return nil
}

// Stats 获取玩家统计，没有记录时返回 ErrNotFound
func (lb *Leaderboard) Stats(ctx context.Context, playerID string) (*PlayerStats, error) {
	pipe := lb.client.Pipeline()
	statsCmd := pipe.HGetAll(ctx, lb.statsKey(playerID))
	scoreCmd := pipe.ZScore(ctx, lb.scoreKey(), playerID)
	if _, err := pipe.Exec(ctx); err != nil && !errors.Is(err, redis.Nil) {
		return nil, err
	}
	return buildStats(playerID, statsCmd, scoreCmd)
}

func buildStats(playerID string, statsCmd *redis.MapStringStringCmd, scoreCmd *redis.FloatCmd) (*PlayerStats, error) {
	if len(statsCmd.Val()) == 0 {
		return nil, ErrNotFound
	}

	stats := &PlayerStats{PlayerID: playerID}
	if err := statsCmd.Scan(stats); err != nil {
		return nil, fmt.Errorf("解析玩家统计失败: %w", err)
	}
	stats.Score = int(scoreCmd.Val())
	return stats, nil
}

// Top 获取积分最高的 n 名玩家
func (lb *Leaderboard) Top(ctx context.Context, n int) ([]LeaderboardEntry, error) {
	if n <= 0 {
		return nil, nil
	}

	// 获取排行榜（从高到低）
	results, err := lb.client.ZRevRangeWithScores(ctx, lb.scoreKey(), 0, int64(n-1)).Result()
	if err != nil {
		return nil, err
	}

	pipe := lb.client.Pipeline()
	cmds := make([]*redis.MapStringStringCmd, len(results))
	for i, z := range results {
		cmds[i] = pipe.HGetAll(ctx, lb.statsKey(z.Member.(string)))
	}
	if len(results) > 0 {
		if _, err := pipe.Exec(ctx); err != nil {
			return nil, err
		}
	}

	entries := make([]LeaderboardEntry, 0, len(results))
	for i, z := range results {
		stats := PlayerStats{PlayerID: z.Member.(string), Score: int(z.Score)}
		if err := cmds[i].Scan(&stats); err != nil {
			continue
		}
		entries = append(entries, LeaderboardEntry{Rank: i + 1, Stats: stats})
	}
	return entries, nil
}

// Rank 获取玩家排名（从 1 开始），未上榜返回 -1
func (lb *Leaderboard) Rank(ctx context.Context, playerID string) (int64, error) {
	rank, err := lb.client.ZRevRank(ctx, lb.scoreKey(), playerID).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return -1, nil // 未上榜
		}
		return -1, err
	}
	return rank + 1, nil // Redis 排名从 0 开始
}

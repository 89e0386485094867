package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joeshaw/envdecode"
	"gopkg.in/yaml.v3"
)

// Config 引擎宿主的配置
type Config struct {
	Redis   RedisConfig   `yaml:"redis"`
	Storage StorageConfig `yaml:"storage"`
	Log     LogConfig     `yaml:"log"`
	Game    GameConfig    `yaml:"game"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Addr     string `yaml:"addr" env:"LANDLORD_REDIS_ADDR"`
	Password string `yaml:"password" env:"LANDLORD_REDIS_PASSWORD"`
	DB       int    `yaml:"db" env:"LANDLORD_REDIS_DB"`
}

// StorageConfig 牌局存储配置
type StorageConfig struct {
	Driver     string `yaml:"driver" env:"LANDLORD_STORAGE_DRIVER"` // memory 或 redis
	Codec      string `yaml:"codec" env:"LANDLORD_STORAGE_CODEC"`   // json 或 proto
	KeyPrefix  string `yaml:"key_prefix" env:"LANDLORD_STORAGE_KEY_PREFIX"`
	Expiration int    `yaml:"expiration" env:"LANDLORD_STORAGE_EXPIRATION"` // 牌局过期时间（分钟）
}

// ExpirationDuration 返回牌局过期时长
func (c *StorageConfig) ExpirationDuration() time.Duration {
	return time.Duration(c.Expiration) * time.Minute
}

// LogConfig 日志配置
type LogConfig struct {
	Level string `yaml:"level" env:"LANDLORD_LOG_LEVEL"` // debug, info, warn, error
	File  string `yaml:"file" env:"LANDLORD_LOG_FILE"`   // 为空时只输出到终端
}

// GameConfig 对局配置
type GameConfig struct {
	BotThinkDelay int  `yaml:"bot_think_delay" env:"LANDLORD_BOT_THINK_DELAY"` // 机器人每步的延迟（毫秒）
	Leaderboard   bool `yaml:"leaderboard" env:"LANDLORD_LEADERBOARD"`         // 是否记录排行榜
	CacheIdle     int  `yaml:"cache_idle" env:"LANDLORD_CACHE_IDLE"`           // 内存中的牌局空闲多久后丢弃（分钟），0 表示不清理
}

// CacheIdleDuration 返回牌局缓存的空闲时长
func (c *GameConfig) CacheIdleDuration() time.Duration {
	return time.Duration(c.CacheIdle) * time.Minute
}

// BotThinkDelayDuration 返回机器人每步的延迟
func (c *GameConfig) BotThinkDelayDuration() time.Duration {
	return time.Duration(c.BotThinkDelay) * time.Millisecond
}

const (
	DriverMemory = "memory"
	DriverRedis  = "redis"
)

// Load 加载配置文件，再用环境变量覆盖
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if err := applyEnv(&cfg); err != nil {
		return nil, err
	}

	// 设置默认值
	if cfg.Redis.Addr == "" {
		cfg.Redis.Addr = "localhost:6379"
	}
	if cfg.Storage.Driver == "" {
		cfg.Storage.Driver = DriverMemory
	}
	if cfg.Storage.Codec == "" {
		cfg.Storage.Codec = "json"
	}
	if cfg.Storage.KeyPrefix == "" {
		cfg.Storage.KeyPrefix = "landlord:"
	}
	if cfg.Storage.Expiration == 0 {
		cfg.Storage.Expiration = 120
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default 返回默认配置，同样会应用环境变量
func Default() (*Config, error) {
	cfg := &Config{
		Redis: RedisConfig{
			Addr: "localhost:6379",
		},
		Storage: StorageConfig{
			Driver:     DriverMemory,
			Codec:      "json",
			KeyPrefix:  "landlord:",
			Expiration: 120,
		},
		Log: LogConfig{
			Level: "info",
		},
		Game: GameConfig{
			Leaderboard: true,
			CacheIdle:   30,
		},
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnv 用 LANDLORD_* 环境变量覆盖配置，未设置的字段保持不变
func applyEnv(cfg *Config) error {
	err := envdecode.Decode(cfg)
	if err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return fmt.Errorf("解析环境变量失败: %w", err)
	}
	return nil
}

// Validate 检查取值范围
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case DriverMemory, DriverRedis:
	default:
		return fmt.Errorf("不支持的存储类型: %q", c.Storage.Driver)
	}
	switch c.Storage.Codec {
	case "json", "proto":
	default:
		return fmt.Errorf("不支持的编码: %q", c.Storage.Codec)
	}
	if c.Storage.Expiration < 0 {
		return fmt.Errorf("过期时间不能为负数: %d", c.Storage.Expiration)
	}
	return nil
}

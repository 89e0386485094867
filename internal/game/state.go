package game

import "fmt"

// State 游戏状态
type State int

const (
	StateWaiting  State = iota // 等待玩家加入
	StateBidding               // 叫分
	StatePlaying               // 出牌
	StateFinished              // 已结束
	StateMisdeal               // 无人叫分，本局作废
)

const (
	MaxPlayers         = 3
	HandSize           = 17 // 每人发 17 张
	LandlordCardsCount = 3  // 底牌张数
	MaxBid             = 3
)

var stateNames = map[State]string{
	StateWaiting:  "waiting",
	StateBidding:  "bidding",
	StatePlaying:  "playing",
	StateFinished: "finished",
	StateMisdeal:  "misdeal",
}

func (s State) String() string {
	if name, ok := stateNames[s]; ok {
		return name
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// IsTerminal 结束或流局
func (s State) IsTerminal() bool {
	return s == StateFinished || s == StateMisdeal
}

// ParseState 由名称解析状态
func ParseState(name string) (State, error) {
	for s, n := range stateNames {
		if n == name {
			return s, nil
		}
	}
	return 0, fmt.Errorf("未知的游戏状态: %q", name)
}

// MarshalText 持久化时使用状态名称
func (s State) MarshalText() ([]byte, error) {
	if _, ok := stateNames[s]; !ok {
		return nil, fmt.Errorf("未知的游戏状态: %d", int(s))
	}
	return []byte(s.String()), nil
}

func (s *State) UnmarshalText(text []byte) error {
	parsed, err := ParseState(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// Bid 一次叫分记录，0 表示不叫
type Bid struct {
	PlayerID string `json:"playerId"`
	Value    int    `json:"value"`
}

// Side 阵营
type Side string

const (
	SideLandlord Side = "landlord"
	SidePeasants Side = "peasants"
)

// Result 结束后的胜负信息
type Result struct {
	WinnerID   string `json:"winnerId"`
	WinnerSide Side   `json:"winnerSide"`
	LandlordID string `json:"landlordId"`
}

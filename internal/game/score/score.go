package score

import (
	"errors"

	"github.com/palemoky/landlord-engine/internal/game"
)

// ErrNotFinished 只有结束的牌局可以结算
var ErrNotFinished = errors.New("牌局尚未结束")

// PlayerScore 单个玩家的得分变化
type PlayerScore struct {
	PlayerID   string `json:"playerId"`
	IsLandlord bool   `json:"isLandlord"`
	Won        bool   `json:"won"`
	Delta      int    `json:"delta"`
}

// Settlement 一局的结算结果，所有玩家的 Delta 之和为 0
type Settlement struct {
	GameID     string        `json:"gameId"`
	LandlordID string        `json:"landlordId"`
	WinnerSide game.Side     `json:"winnerSide"`
	BaseScore  int           `json:"baseScore"`  // 叫分
	Multiplier int           `json:"multiplier"` // 炸弹、王炸、春天翻倍
	Spring     bool          `json:"spring"`     // 地主赢且农民一张没出
	AntiSpring bool          `json:"antiSpring"` // 农民赢且地主只出过一手
	Scores     []PlayerScore `json:"scores"`     // 按座位顺序
}

// Settle 结算。底分为叫分，每个炸弹或王炸翻一倍，春天或反春再翻一倍。
// 地主输赢两份，每个农民输赢一份。
func Settle(s *game.Snapshot) (Settlement, error) {
	if s == nil || s.State != game.StateFinished {
		return Settlement{}, ErrNotFinished
	}

	landlordWon := s.WinnerID == s.LandlordPlayerID
	side := game.SidePeasants
	if landlordWon {
		side = game.SideLandlord
	}

	var landlordPlays, peasantPlays int
	for _, p := range s.Players {
		if p.IsLandlord {
			landlordPlays += p.Plays
		} else {
			peasantPlays += p.Plays
		}
	}

	st := Settlement{
		GameID:     s.ID,
		LandlordID: s.LandlordPlayerID,
		WinnerSide: side,
		BaseScore:  s.HighestBid,
		Multiplier: 1 << s.BombsPlayed,
		Spring:     landlordWon && peasantPlays == 0,
		AntiSpring: !landlordWon && landlordPlays == 1,
	}
	if st.Spring || st.AntiSpring {
		st.Multiplier *= 2
	}

	unit := st.BaseScore * st.Multiplier
	for _, p := range s.Players {
		ps := PlayerScore{PlayerID: p.ID, IsLandlord: p.IsLandlord}
		if p.IsLandlord {
			ps.Won = landlordWon
			ps.Delta = 2 * unit
		} else {
			ps.Won = !landlordWon
			ps.Delta = unit
		}
		if !ps.Won {
			ps.Delta = -ps.Delta
		}
		st.Scores = append(st.Scores, ps)
	}
	return st, nil
}

// Delta 返回指定玩家的得分变化
func (s Settlement) Delta(playerID string) int {
	for _, ps := range s.Scores {
		if ps.PlayerID == playerID {
			return ps.Delta
		}
	}
	return 0
}

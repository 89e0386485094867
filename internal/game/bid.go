package game

import (
	"github.com/palemoky/landlord-engine/internal/apperrors"
)

// ProcessBid 处理叫分，bid 为 0 表示不叫。
// 叫 3 分直接成为地主；有人叫分后连续两家不叫，最高分者成为地主；三家都不叫则流局。
func (g *Game) ProcessBid(playerID string, bid int) error {
	seat, err := g.checkTurn(playerID, StateBidding)
	if err != nil {
		return err
	}
	if bid < 0 || bid > MaxBid {
		return apperrors.ErrInvalidBid
	}
	if bid > 0 && bid <= g.highestBid {
		return apperrors.ErrBidTooLow
	}

	g.bids = append(g.bids, Bid{PlayerID: playerID, Value: bid})

	switch {
	case bid == MaxBid:
		g.highestBid, g.highestBidder = bid, seat
		g.setLandlord(seat)
	case bid > 0:
		g.highestBid, g.highestBidder = bid, seat
		g.consecutivePasses = 0
		g.currentTurn = g.nextSeat(seat)
	default:
		g.consecutivePasses++
		switch {
		case g.highestBid == 0 && g.consecutivePasses >= MaxPlayers:
			g.state = StateMisdeal
		case g.highestBid > 0 && g.consecutivePasses >= MaxPlayers-1:
			g.setLandlord(g.highestBidder)
		default:
			g.currentTurn = g.nextSeat(seat)
		}
	}

	g.mustBeConsistent()
	return nil
}

// setLandlord 确定地主：底牌并入地主手牌，进入出牌阶段，地主先出
func (g *Game) setLandlord(seat int) {
	landlord := g.players[seat]
	landlord.SetLandlord(true)
	landlord.AddCards(g.landlordCards)

	g.landlordIdx = seat
	g.state = StatePlaying
	g.currentTurn = seat
	g.lastPlayerIdx = -1
	g.consecutivePasses = 0
}

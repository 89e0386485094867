package apperrors

import "errors"

// 错误码
const (
	ErrCodeUnknown        = 1000
	ErrCodeGameNotFound   = 2001
	ErrCodePlayerNotFound = 2002
	ErrCodeGameStarted    = 2004 // 游戏已开始
	ErrCodeDuplicate      = 2005 // 玩家已在游戏中
	ErrCodeWrongPhase     = 3001
	ErrCodeNotYourTurn    = 3002
	ErrCodeInvalidCards   = 3003
	ErrCodeCannotBeat     = 3004
	ErrCodeMustPlay       = 3005
	ErrCodeCardsNotInHand = 3006
	ErrCodeInvalidBid     = 3101
	ErrCodeBidTooLow      = 3102
	ErrCodeCorruptGame    = 5001 // 状态不一致
)

// GameError 非法操作。调用方可以修正后重试，返回这些错误时游戏状态不会改变。
type GameError struct {
	Code    int
	Message string
}

func (e *GameError) Error() string {
	return e.Message
}

// 预定义错误
var (
	ErrGameNotFound    = &GameError{Code: ErrCodeGameNotFound, Message: "游戏不存在"}
	ErrPlayerNotFound  = &GameError{Code: ErrCodePlayerNotFound, Message: "玩家不在游戏中"}
	ErrGameStarted     = &GameError{Code: ErrCodeGameStarted, Message: "游戏已开始"}
	ErrDuplicatePlayer = &GameError{Code: ErrCodeDuplicate, Message: "您已在游戏中"}
	ErrWrongPhase      = &GameError{Code: ErrCodeWrongPhase, Message: "当前阶段不能进行该操作"}
	ErrNotYourTurn     = &GameError{Code: ErrCodeNotYourTurn, Message: "还没轮到您"}
	ErrInvalidCards    = &GameError{Code: ErrCodeInvalidCards, Message: "无效的牌型"}
	ErrCardsNotInHand  = &GameError{Code: ErrCodeCardsNotInHand, Message: "您没有这些牌"}
	ErrCannotBeat      = &GameError{Code: ErrCodeCannotBeat, Message: "您的牌大不过上家"}
	ErrMustPlay        = &GameError{Code: ErrCodeMustPlay, Message: "您必须出牌"}
	ErrInvalidBid      = &GameError{Code: ErrCodeInvalidBid, Message: "叫分只能是 0 到 3"}
	ErrBidTooLow       = &GameError{Code: ErrCodeBidTooLow, Message: "叫分必须高于当前最高分"}
	ErrCorruptGame     = &GameError{Code: ErrCodeCorruptGame, Message: "游戏状态异常，已被移除"}
)

// Code 返回错误码，非 GameError 返回 ErrCodeUnknown
func Code(err error) int {
	var ge *GameError
	if errors.As(err, &ge) {
		return ge.Code
	}
	return ErrCodeUnknown
}

// IsIllegalAction 判断是否为玩家的非法操作（而不是存储等基础设施错误）
func IsIllegalAction(err error) bool {
	var ge *GameError
	return errors.As(err, &ge) && ge != ErrCorruptGame
}

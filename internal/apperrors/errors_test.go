package apperrors

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCode(t *testing.T) {
	t.Parallel()

	assert.Equal(t, ErrCodeNotYourTurn, Code(ErrNotYourTurn))
	assert.Equal(t, ErrCodeCannotBeat, Code(fmt.Errorf("play: %w", ErrCannotBeat)))
	assert.Equal(t, ErrCodeUnknown, Code(errors.New("boom")))
	assert.Equal(t, ErrCodeUnknown, Code(nil))
}

func TestIsIllegalAction(t *testing.T) {
	t.Parallel()

	assert.True(t, IsIllegalAction(ErrMustPlay))
	assert.True(t, IsIllegalAction(fmt.Errorf("bid: %w", ErrBidTooLow)))
	assert.False(t, IsIllegalAction(ErrCorruptGame))
	assert.False(t, IsIllegalAction(errors.New("redis down")))
}

func TestGameErrorMessage(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "还没轮到您", ErrNotYourTurn.Error())
	assert.ErrorIs(t, fmt.Errorf("wrapped: %w", ErrInvalidCards), ErrInvalidCards)
	assert.NotErrorIs(t, ErrInvalidCards, ErrCannotBeat)
}

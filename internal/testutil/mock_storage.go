//go:build !production

package testutil

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/palemoky/landlord-engine/internal/game"
	"github.com/palemoky/landlord-engine/internal/game/score"
)

// MockStore 牌局存储 mock
type MockStore struct {
	mock.Mock
}

func (m *MockStore) Save(ctx context.Context, s *game.Snapshot) error {
	args := m.Called(ctx, s)
	return args.Error(0)
}

func (m *MockStore) Load(ctx context.Context, gameID string) (*game.Snapshot, error) {
	args := m.Called(ctx, gameID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*game.Snapshot), args.Error(1)
}

func (m *MockStore) Delete(ctx context.Context, gameID string) error {
	args := m.Called(ctx, gameID)
	return args.Error(0)
}

// MockRecorder 结算记录 mock
type MockRecorder struct {
	mock.Mock
}

func (m *MockRecorder) RecordSettlement(ctx context.Context, st score.Settlement) error {
	args := m.Called(ctx, st)
	return args.Error(0)
}

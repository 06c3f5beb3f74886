package jobs

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/yukikurage/farm-management-api/internal/config"
	"github.com/yukikurage/farm-management-api/internal/metrics"
	"go.uber.org/zap"
)

type MockInvitationSweeper struct {
	mock.Mock
}

func (m *MockInvitationSweeper) SweepStale(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func TestNewScheduler_RegistersSweep(t *testing.T) {
	sweeper := new(MockInvitationSweeper)
	js, err := NewScheduler(config.JobsConfig{Enabled: true, InvitationSweepInterval: time.Hour}, sweeper, nil, zap.NewNop())
	require.NoError(t, err)

	assert.Equal(t, []string{invitationSweepJob}, js.JobNames())

	js.Start()
	require.NoError(t, js.Stop())
	sweeper.AssertNotCalled(t, "SweepStale", mock.Anything)
}

func TestSweepInvitations(t *testing.T) {
	sweeper := new(MockInvitationSweeper)
	sweeper.On("SweepStale", mock.Anything).Return(int64(3), nil).Once()
	sweeper.On("SweepStale", mock.Anything).Return(int64(0), errors.New("db down")).Once()

	js, err := NewScheduler(config.JobsConfig{}, sweeper, metrics.New(config.MetricsConfig{Namespace: "test"}), zap.NewNop())
	require.NoError(t, err)

	js.sweepInvitations()
	js.sweepInvitations()

	sweeper.AssertNumberOfCalls(t, "SweepStale", 2)
	sweeper.AssertExpectations(t)
}

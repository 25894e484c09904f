package scheduler

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mamadbah2/farmacia/internal/service/alerts"
)

type countingRefresher struct{ calls int }

func (c *countingRefresher) Refresh(context.Context) (alerts.Dashboard, error) {
	c.calls++
	return alerts.Dashboard{}, nil
}

type fixedSession bool

func (f fixedSession) IsAuthenticated() bool { return bool(f) }

func TestRefreshAlertsOnlyWhenLoggedIn(t *testing.T) {
	r := &countingRefresher{}

	NewScheduler("", r, fixedSession(false), nil).RefreshAlerts()
	assert.Zero(t, r.calls)

	NewScheduler("", r, fixedSession(true), nil).RefreshAlerts()
	assert.Equal(t, 1, r.calls)
}

func TestStartRejectsBadSchedule(t *testing.T) {
	s := NewScheduler("every minute", &countingRefresher{}, fixedSession(true), nil)
	assert.Error(t, s.Start())
}

func TestStartAndStop(t *testing.T) {
	s := NewScheduler("*/15 * * * *", &countingRefresher{}, fixedSession(true), nil)
	require.NoError(t, s.Start())
	s.Stop()
}

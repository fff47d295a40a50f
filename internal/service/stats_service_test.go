package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campus-kit/helpdesk-service/internal/config"
	"github.com/campus-kit/helpdesk-service/internal/domain"
	apperrors "github.com/campus-kit/helpdesk-service/pkg/util/errorutil"
)

func TestStatusCountsZeroFilled(t *testing.T) {
	engine, store, _ := newTestEngine(t, config.LifecycleConfig{})
	stats := NewStatsService(store)
	ctx := context.Background()

	counts, err := stats.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), counts.Total)
	assert.Len(t, counts.Counts, len(domain.Statuses()))
	for _, status := range domain.Statuses() {
		assert.Contains(t, counts.Counts, status)
	}

	first := mustCreateTicket(t, engine, "student-1")
	mustCreateTicket(t, engine, "student-1")
	mustCreateTicket(t, engine, "student-2")
	_, err = engine.ChangeStatus(ctx, EmployeeActor("mgr-7"), first.ID, domain.StatusResolving, "")
	require.NoError(t, err)

	counts, err = stats.StatusCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), counts.Counts[domain.StatusPending])
	assert.Equal(t, int64(1), counts.Counts[domain.StatusResolving])
	assert.Equal(t, int64(0), counts.Counts[domain.StatusClosed])

	var sum int64
	for _, count := range counts.Counts {
		sum += count
	}
	assert.Equal(t, counts.Total, sum)
}

func TestEmployeeHistoryWorkload(t *testing.T) {
	engine, store, _ := newTestEngine(t, config.LifecycleConfig{})
	stats := NewStatsService(store)
	ctx := context.Background()

	_, err := stats.EmployeeHistory(ctx, "ghost")
	assert.True(t, apperrors.IsCode(err, apperrors.CodeNotFound))

	plain := mustCreateTicket(t, engine, "student-1")
	done := mustCreateTicket(t, engine, "student-1")
	critical, err := engine.CreateTicket(ctx, "student-2", TicketCreateInput{
		CategoryID:  "cat-crit",
		Title:       "Gas smell in hallway",
		Description: "Third floor, east wing",
	})
	require.NoError(t, err)

	for _, id := range []string{plain.ID, done.ID, critical.ID} {
		_, err = engine.Assign(ctx, EmployeeActor("mgr-7"), id, []string{"wrk-1"}, "")
		require.NoError(t, err)
	}
	_, err = engine.ChangeStatus(ctx, EmployeeActor("wrk-1"), plain.ID, domain.StatusResolving, "")
	require.NoError(t, err)
	_, err = engine.ChangeStatus(ctx, EmployeeActor("wrk-1"), done.ID, domain.StatusCompleted, "")
	require.NoError(t, err)

	history, err := stats.EmployeeHistory(ctx, "wrk-1")
	require.NoError(t, err)
	assert.Equal(t, "wrk-1", history.Employee.ID)
	assert.Equal(t, int64(3), history.TotalAssigned)
	assert.Equal(t, int64(1), history.Completed)
	assert.Equal(t, int64(1), history.InProgress)
	assert.Equal(t, int64(1), history.CriticalPending)

	// wrk-1 changed two statuses; both land in the recent feed, newest first
	require.Len(t, history.RecentEvents, 2)
	assert.Greater(t, history.RecentEvents[0].Seq, history.RecentEvents[1].Seq)
}

func TestEmployeeHistoryCountsSupersededAssignments(t *testing.T) {
	engine, store, _ := newTestEngine(t, config.LifecycleConfig{})
	stats := NewStatsService(store)
	ctx := context.Background()
	ticket := mustCreateTicket(t, engine, "student-1")

	_, err := engine.Assign(ctx, EmployeeActor("mgr-7"), ticket.ID, []string{"wrk-1"}, "")
	require.NoError(t, err)
	_, err = engine.Assign(ctx, EmployeeActor("mgr-7"), ticket.ID, []string{"wrk-2"}, "handover")
	require.NoError(t, err)

	// the ticket still counts for wrk-1: total assigned is ever-assigned
	history, err := stats.EmployeeHistory(ctx, "wrk-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.TotalAssigned)

	_, err = engine.ChangeStatus(ctx, EmployeeActor("wrk-2"), ticket.ID, domain.StatusCompleted, "")
	require.NoError(t, err)

	history, err = stats.EmployeeHistory(ctx, "wrk-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), history.TotalAssigned)
	assert.Equal(t, int64(1), history.Completed)
}

func TestEmployeeHistoryRecentFeedCapped(t *testing.T) {
	engine, store, _ := newTestEngine(t, config.LifecycleConfig{})
	stats := NewStatsService(store)
	ctx := context.Background()
	ticket := mustCreateTicket(t, engine, "student-1")

	for i := 0; i < recentEventLimit+10; i++ {
		_, err := engine.AddComment(ctx, EmployeeActor("wrk-2"), ticket.ID, fmt.Sprintf("note %d", i), true)
		require.NoError(t, err)
	}

	history, err := stats.EmployeeHistory(ctx, "wrk-2")
	require.NoError(t, err)
	assert.Len(t, history.RecentEvents, recentEventLimit)
}

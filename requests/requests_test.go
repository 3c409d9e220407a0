package requests_test

import (
	"context"
	"testing"
	"time"

	apperrors "github.com/jrsteele09/go-hostel-server/internal/errors"
	"github.com/jrsteele09/go-hostel-server/requests"
	"github.com/jrsteele09/go-hostel-server/store"
	"github.com/stretchr/testify/require"
)

func newService(now *time.Time) *requests.Service {
	return requests.NewService(store.NewMemory(), requests.WithNowFunc(func() time.Time { return *now }))
}

func TestLatePass_CreateAndDecide(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 18, 0, 0, 0, time.UTC)
	s := newService(&now)

	_, err := s.CreateLatePass(ctx, "A-1", "Family dinner", now.Add(-time.Hour))
	require.ErrorIs(t, err, requests.ErrReturnByInPast)

	req, err := s.CreateLatePass(ctx, "A-1", "Family dinner", now.Add(4*time.Hour))
	require.NoError(t, err)
	require.Equal(t, requests.StatusPending, req.Status)
	require.Equal(t, requests.KindLatePass, req.Kind)

	now = now.Add(time.Minute)
	decided, err := s.Decide(ctx, requests.KindLatePass, req.ID, requests.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, requests.StatusApproved, decided.Status)
	require.Equal(t, now, *decided.DecidedAt)

	_, err = s.Decide(ctx, requests.KindLatePass, req.ID, requests.StatusRejected)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)

	_, err = s.Decide(ctx, requests.KindLatePass, "missing", requests.StatusApproved)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	// An id of one kind cannot be decided as the other kind.
	_, err = s.Decide(ctx, requests.KindMaintenance, req.ID, requests.StatusApproved)
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestMaintenance_Lifecycle(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s := newService(&now)

	req, err := s.CreateMaintenance(ctx, "A-1", "plumbing", "Leaking tap in room 204")
	require.NoError(t, err)

	_, err = s.Decide(ctx, requests.KindMaintenance, req.ID, requests.StatusResolved)
	require.ErrorIs(t, err, apperrors.ErrInvalidState, "pending requests cannot skip approval")

	_, err = s.Decide(ctx, requests.KindMaintenance, req.ID, requests.StatusApproved)
	require.NoError(t, err)
	resolved, err := s.Decide(ctx, requests.KindMaintenance, req.ID, requests.StatusResolved)
	require.NoError(t, err)
	require.Equal(t, requests.StatusResolved, resolved.Status)

	_, err = s.Decide(ctx, requests.KindMaintenance, req.ID, requests.StatusApproved)
	require.ErrorIs(t, err, apperrors.ErrInvalidState)
}

func TestListing(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	s := newService(&now)

	first, err := s.CreateMaintenance(ctx, "A-1", "electrical", "Broken light")
	require.NoError(t, err)
	now = now.Add(time.Minute)
	second, err := s.CreateMaintenance(ctx, "A-1", "internet", "No wifi")
	require.NoError(t, err)
	now = now.Add(time.Minute)
	_, err = s.CreateMaintenance(ctx, "B-2", "other", "Noisy fan")
	require.NoError(t, err)
	_, err = s.CreateLatePass(ctx, "A-1", "Concert", now.Add(time.Hour))
	require.NoError(t, err)

	mine, err := s.ListForStudent(ctx, requests.KindMaintenance, "A-1")
	require.NoError(t, err)
	require.Len(t, mine, 2)
	require.Equal(t, second.ID, mine[0].ID)
	require.Equal(t, first.ID, mine[1].ID)

	_, err = s.Decide(ctx, requests.KindMaintenance, first.ID, requests.StatusRejected)
	require.NoError(t, err)

	all, err := s.ListAll(ctx, requests.KindMaintenance, "")
	require.NoError(t, err)
	require.Len(t, all, 3)

	pending, err := s.ListAll(ctx, requests.KindMaintenance, requests.StatusPending)
	require.NoError(t, err)
	require.Len(t, pending, 2)

	passes, err := s.ListAll(ctx, requests.KindLatePass, "")
	require.NoError(t, err)
	require.Len(t, passes, 1)

	_, err = s.ListAll(ctx, requests.Kind("laundry"), "")
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}

package workspace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjaros/listkeeper/internal/domain"
)

func TestAddCombinationDedupesAndValidates(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")

	_, err := svc.AddCombination(ctx, "Solo", []string{l1.ID, l1.ID})
	assert.ErrorIs(t, err, domain.ErrCombinationTooSmall)

	_, err = svc.AddCombination(ctx, "", []string{l1.ID, l2.ID})
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	combo, err := svc.AddCombination(ctx, "Pair", []string{l1.ID, l2.ID, l1.ID})
	require.NoError(t, err)
	assert.Equal(t, []string{l1.ID, l2.ID}, combo.ListIDs)
	assert.False(t, combo.CreatedAt.IsZero())
	assert.Nil(t, combo.UpdatedAt)
}

func TestUpdateCombinationAlwaysStampsUpdatedAt(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")

	combo, err := svc.AddCombination(ctx, "Pair", []string{l1.ID, l2.ID})
	require.NoError(t, err)
	awaitCombination(t, svc, combo.ID, func(domain.Combination) bool { return true })

	newName := "Renamed"
	require.NoError(t, svc.UpdateCombination(ctx, combo.ID, CombinationUpdate{Name: &newName}))

	updated := awaitCombination(t, svc, combo.ID, func(c domain.Combination) bool {
		return c.Name == "Renamed"
	})
	require.NotNil(t, updated.UpdatedAt)
	assert.Equal(t, []string{l1.ID, l2.ID}, updated.ListIDs)
}

func TestUpdateCombinationRejectsTooFewLists(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")

	combo, err := svc.AddCombination(ctx, "Pair", []string{l1.ID, l2.ID})
	require.NoError(t, err)

	err = svc.UpdateCombination(ctx, combo.ID, CombinationUpdate{ListIDs: []string{l1.ID}})
	assert.ErrorIs(t, err, domain.ErrCombinationTooSmall)
}

func TestDeleteCombination(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")

	combo, err := svc.AddCombination(ctx, "Pair", []string{l1.ID, l2.ID})
	require.NoError(t, err)
	awaitCombination(t, svc, combo.ID, func(domain.Combination) bool { return true })

	require.NoError(t, svc.DeleteCombination(ctx, combo.ID))
	require.Eventually(t, func() bool { return len(svc.Combinations()) == 0 }, waitTimeout, waitInterval)
}

func TestAddSessionRequiresLists(t *testing.T) {
	svc, _ := newTestWorkspace(t)

	_, err := svc.AddSession(context.Background(), "Morning", nil, "")
	assert.Error(t, err)
}

func TestCompleteSessionResetsReferencedLists(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")

	for _, list := range []domain.List{l1, l2} {
		item, err := svc.AddItem(ctx, list.ID, "task", "")
		require.NoError(t, err)
		awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Items) == 1 })
		_, err = svc.ToggleItem(ctx, list.ID, item.ID)
		require.NoError(t, err)
		awaitList(t, svc, list.ID, func(l domain.List) bool { return l.Items[0].Completed })
	}

	session, err := svc.AddSession(ctx, "Evening", []string{l1.ID, l2.ID}, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(svc.Sessions()) == 1 }, waitTimeout, waitInterval)

	require.NoError(t, svc.CompleteSession(ctx, session.ID))

	for _, list := range []domain.List{l1, l2} {
		awaitList(t, svc, list.ID, func(l domain.List) bool { return !l.Items[0].Completed })
	}
	require.Eventually(t, func() bool {
		sessions := svc.Sessions()
		return len(sessions) == 1 && sessions[0].CompletedAt != nil
	}, waitTimeout, waitInterval, "session should remain with a completion stamp")
}

func TestCompleteSessionSkipsMissingLists(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	session, err := svc.AddSession(ctx, "Evening", []string{l1.ID, "ghost"}, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(svc.Sessions()) == 1 }, waitTimeout, waitInterval)

	require.NoError(t, svc.CompleteSession(ctx, session.ID))
}

func TestCompleteMissingSessionFails(t *testing.T) {
	svc, _ := newTestWorkspace(t)

	err := svc.CompleteSession(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestDeleteSession(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	session, err := svc.AddSession(ctx, "Evening", []string{l1.ID}, "")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(svc.Sessions()) == 1 }, waitTimeout, waitInterval)

	require.NoError(t, svc.DeleteSession(ctx, session.ID))
	require.Eventually(t, func() bool { return len(svc.Sessions()) == 0 }, waitTimeout, waitInterval)
}

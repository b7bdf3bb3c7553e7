package workspace

import (
	"context"
	gosync "sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mjaros/listkeeper/internal/docstore/memory"
	"github.com/mjaros/listkeeper/internal/domain"
)

const (
	waitTimeout  = 2 * time.Second
	waitInterval = 5 * time.Millisecond
)

// capturingNotifier records notifications for assertions.
type capturingNotifier struct {
	mu            gosync.Mutex
	notifications []Notification
}

func (n *capturingNotifier) Notify(ctx context.Context, notification Notification) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notifications = append(n.notifications, notification)
}

func (n *capturingNotifier) last(t *testing.T) Notification {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.notifications)
	return n.notifications[len(n.notifications)-1]
}

func newTestWorkspace(t *testing.T) (*Service, *capturingNotifier) {
	t.Helper()
	notifier := &capturingNotifier{}
	svc := NewService(context.Background(), memory.NewStore(), "u1", notifier)
	t.Cleanup(svc.Close)
	require.Eventually(t, func() bool { return !svc.Loading() }, waitTimeout, waitInterval)
	return svc, notifier
}

// awaitList waits for the mirror to reflect a list satisfying cond.
func awaitList(t *testing.T, svc *Service, id string, cond func(domain.List) bool) domain.List {
	t.Helper()
	var got domain.List
	require.Eventually(t, func() bool {
		for _, l := range svc.Lists() {
			if l.ID == id && cond(l) {
				got = l
				return true
			}
		}
		return false
	}, waitTimeout, waitInterval, "list %s did not reach the expected state", id)
	return got
}

func anyList(domain.List) bool { return true }

func mustAddList(t *testing.T, svc *Service, name string) domain.List {
	t.Helper()
	list, err := svc.AddList(context.Background(), name, "cat-1")
	require.NoError(t, err)
	return awaitList(t, svc, list.ID, anyList)
}

func awaitCombination(t *testing.T, svc *Service, id string, cond func(domain.Combination) bool) domain.Combination {
	t.Helper()
	var got domain.Combination
	require.Eventually(t, func() bool {
		for _, c := range svc.Combinations() {
			if c.ID == id && cond(c) {
				got = c
				return true
			}
		}
		return false
	}, waitTimeout, waitInterval)
	return got
}

func TestUnauthenticatedWorkspaceRejectsMutations(t *testing.T) {
	svc := NewService(context.Background(), memory.NewStore(), "", NopNotifier{})
	t.Cleanup(svc.Close)

	_, err := svc.AddCategory(context.Background(), "Home")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.AddList(context.Background(), "Groceries", "c1")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = svc.AddNote(context.Background(), "note", "", "low")
	assert.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestCopyListDerivesNextCopyName(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	source := mustAddList(t, svc, "Groceries")
	mustAddList(t, svc, "Groceries kopia 1")
	mustAddList(t, svc, "Groceries kopia 2")

	copied, err := svc.CopyList(ctx, source.ID)
	require.NoError(t, err)
	assert.Equal(t, "Groceries kopia 3", copied.Name)

	awaitList(t, svc, copied.ID, anyList)
}

func TestCopyListCopiesItemsWithFreshIDs(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	source := mustAddList(t, svc, "Groceries")
	_, err := svc.AddItem(ctx, source.ID, "milk", "")
	require.NoError(t, err)
	awaitList(t, svc, source.ID, func(l domain.List) bool { return len(l.Items) == 1 })
	_, err = svc.AddItem(ctx, source.ID, "bread", "")
	require.NoError(t, err)
	source = awaitList(t, svc, source.ID, func(l domain.List) bool { return len(l.Items) == 2 })

	copied, err := svc.CopyList(ctx, source.ID)
	require.NoError(t, err)

	require.Len(t, copied.Items, 2)
	assert.Equal(t, source.CategoryID, copied.CategoryID)
	assert.NotEqual(t, source.ID, copied.ID)

	sourceIDs := make(map[string]bool)
	for _, item := range source.Items {
		sourceIDs[item.ID] = true
	}
	for i, item := range copied.Items {
		assert.Equal(t, source.Items[i].Text, item.Text)
		assert.False(t, sourceIDs[item.ID], "copied item reuses a source item id")
	}
}

func TestCopyMissingListFails(t *testing.T) {
	svc, _ := newTestWorkspace(t)

	_, err := svc.CopyList(context.Background(), "ghost")
	assert.ErrorIs(t, err, domain.ErrListNotFound)
}

func TestDeleteListRemovesPairCombination(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")

	combo, err := svc.AddCombination(ctx, "Pair", []string{l1.ID, l2.ID})
	require.NoError(t, err)
	awaitCombination(t, svc, combo.ID, func(domain.Combination) bool { return true })

	require.NoError(t, svc.DeleteList(ctx, l1.ID))

	require.Eventually(t, func() bool {
		return len(svc.Combinations()) == 0
	}, waitTimeout, waitInterval)
	require.Eventually(t, func() bool {
		return len(svc.Lists()) == 1
	}, waitTimeout, waitInterval)
}

func TestDeleteListTrimsLargerCombination(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "One")
	l2 := mustAddList(t, svc, "Two")
	l3 := mustAddList(t, svc, "Three")

	combo, err := svc.AddCombination(ctx, "Trio", []string{l1.ID, l2.ID, l3.ID})
	require.NoError(t, err)
	awaitCombination(t, svc, combo.ID, func(domain.Combination) bool { return true })

	require.NoError(t, svc.DeleteList(ctx, l1.ID))

	trimmed := awaitCombination(t, svc, combo.ID, func(c domain.Combination) bool {
		return len(c.ListIDs) == 2
	})
	assert.Equal(t, []string{l2.ID, l3.ID}, trimmed.ListIDs)
	require.NotNil(t, trimmed.UpdatedAt)
	assert.False(t, trimmed.UpdatedAt.IsZero())
}

func TestDeleteMissingListIsNoop(t *testing.T) {
	svc, notifier := newTestWorkspace(t)

	require.NoError(t, svc.DeleteList(context.Background(), "ghost"))

	notifier.mu.Lock()
	defer notifier.mu.Unlock()
	assert.Empty(t, notifier.notifications)
}

func TestDeleteListNotificationAndUndo(t *testing.T) {
	svc, notifier := newTestWorkspace(t)
	ctx := context.Background()

	l1 := mustAddList(t, svc, "Groceries")
	l2 := mustAddList(t, svc, "Hardware")

	combo, err := svc.AddCombination(ctx, "Pair", []string{l1.ID, l2.ID})
	require.NoError(t, err)
	awaitCombination(t, svc, combo.ID, func(domain.Combination) bool { return true })

	require.NoError(t, svc.DeleteList(ctx, l1.ID))

	n := notifier.last(t)
	assert.Contains(t, n.Message, "Groceries")
	assert.Contains(t, n.Message, "removed 1 combination(s)")
	require.NotNil(t, n.Undo)

	require.Eventually(t, func() bool { return len(svc.Lists()) == 1 }, waitTimeout, waitInterval)

	// Undo restores the list verbatim but not the combination.
	require.NoError(t, n.Undo(ctx))
	restored := awaitList(t, svc, l1.ID, anyList)
	assert.Equal(t, l1.Name, restored.Name)
	assert.Empty(t, svc.Combinations())
}

func TestReorderListsIsDenseAndZeroBased(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	a := mustAddList(t, svc, "A")
	b := mustAddList(t, svc, "B")
	c := mustAddList(t, svc, "C")

	require.NoError(t, svc.ReorderLists(ctx, []domain.List{c, a, b}))

	expected := map[string]int{c.ID: 0, a.ID: 1, b.ID: 2}
	for id, want := range expected {
		list := awaitList(t, svc, id, func(l domain.List) bool {
			return l.Order != nil && *l.Order == want
		})
		assert.Equal(t, want, *list.Order)
	}
}

func TestReorderCategories(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	c1, err := svc.AddCategory(ctx, "Home")
	require.NoError(t, err)
	c2, err := svc.AddCategory(ctx, "Work")
	require.NoError(t, err)
	require.Eventually(t, func() bool { return len(svc.Categories()) == 2 }, waitTimeout, waitInterval)

	require.NoError(t, svc.ReorderCategories(ctx, []domain.Category{*c2, *c1}))

	require.Eventually(t, func() bool {
		orders := make(map[string]int)
		for _, c := range svc.Categories() {
			if c.Order == nil {
				return false
			}
			orders[c.ID] = *c.Order
		}
		return orders[c2.ID] == 0 && orders[c1.ID] == 1
	}, waitTimeout, waitInterval)
}

func TestDeleteCategoryCascadesToLists(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	category, err := svc.AddCategory(ctx, "Home")
	require.NoError(t, err)

	inside, err := svc.AddList(ctx, "Inside", category.ID)
	require.NoError(t, err)
	awaitList(t, svc, inside.ID, anyList)
	outside, err := svc.AddList(ctx, "Outside", "other-category")
	require.NoError(t, err)
	awaitList(t, svc, outside.ID, anyList)

	require.NoError(t, svc.DeleteCategory(ctx, category.ID))

	require.Eventually(t, func() bool {
		lists := svc.Lists()
		return len(lists) == 1 && lists[0].ID == outside.ID
	}, waitTimeout, waitInterval)
	require.Eventually(t, func() bool { return len(svc.Categories()) == 0 }, waitTimeout, waitInterval)
}

func TestToggleItemThreeStageCycle(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	list := mustAddList(t, svc, "Chores")
	require.NoError(t, svc.UpdateListSettings(ctx, list.ID, domain.ListSettings{ThreeStageMode: true}))
	awaitList(t, svc, list.ID, func(l domain.List) bool { return l.ThreeStage() })

	item, err := svc.AddItem(ctx, list.ID, "vacuum", "")
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Items) == 1 })

	steps := []struct {
		completed bool
		state     domain.ItemState
	}{
		{completed: false, state: domain.ItemStateOngoing},
		{completed: true, state: domain.ItemStateCompleted},
		{completed: false, state: domain.ItemStateUnresolved},
	}

	for _, step := range steps {
		_, err := svc.ToggleItem(ctx, list.ID, item.ID)
		require.NoError(t, err)
		awaitList(t, svc, list.ID, func(l domain.List) bool {
			return l.Items[0].Completed == step.completed && l.Items[0].State == step.state
		})
	}
}

func TestToggleItemSignalsAllCompleted(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	list := mustAddList(t, svc, "Chores")
	first, err := svc.AddItem(ctx, list.ID, "vacuum", "")
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Items) == 1 })
	second, err := svc.AddItem(ctx, list.ID, "dust", "")
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Items) == 2 })

	all, err := svc.ToggleItem(ctx, list.ID, first.ID)
	require.NoError(t, err)
	assert.False(t, all)

	awaitList(t, svc, list.ID, func(l domain.List) bool { return l.Items[0].Completed })

	all, err = svc.ToggleItem(ctx, list.ID, second.ID)
	require.NoError(t, err)
	assert.True(t, all)
}

func TestResetAllItems(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	list := mustAddList(t, svc, "Chores")
	item, err := svc.AddItem(ctx, list.ID, "vacuum", "")
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Items) == 1 })

	_, err = svc.ToggleItem(ctx, list.ID, item.ID)
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return l.Items[0].Completed })

	require.NoError(t, svc.ResetAllItems(ctx, list.ID))
	awaitList(t, svc, list.ID, func(l domain.List) bool {
		return !l.Items[0].Completed && l.Items[0].State == domain.ItemStateUnresolved
	})
}

func TestAddSectionPrependsAndReindexes(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	list := mustAddList(t, svc, "Groceries")

	first, err := svc.AddSection(ctx, list.ID, "Dairy")
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Sections) == 1 })

	second, err := svc.AddSection(ctx, list.ID, "Produce")
	require.NoError(t, err)

	updated := awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Sections) == 2 })
	assert.Equal(t, second.ID, updated.Sections[0].ID)
	assert.Equal(t, 0, updated.Sections[0].Order)
	assert.Equal(t, first.ID, updated.Sections[1].ID)
	assert.Equal(t, 1, updated.Sections[1].Order)
}

func TestDeleteSectionDetachesItems(t *testing.T) {
	svc, _ := newTestWorkspace(t)
	ctx := context.Background()

	list := mustAddList(t, svc, "Groceries")
	section, err := svc.AddSection(ctx, list.ID, "Dairy")
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Sections) == 1 })

	item, err := svc.AddItem(ctx, list.ID, "milk", section.ID)
	require.NoError(t, err)
	awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Items) == 1 })

	require.NoError(t, svc.DeleteSection(ctx, list.ID, section.ID))

	updated := awaitList(t, svc, list.ID, func(l domain.List) bool { return len(l.Sections) == 0 })
	require.Len(t, updated.Items, 1)
	assert.Equal(t, item.ID, updated.Items[0].ID)
	assert.Empty(t, updated.Items[0].SectionID)
}

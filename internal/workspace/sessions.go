package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/mjaros/listkeeper/internal/domain"
)

// === Combinations ===

// AddCombination creates a reusable set of at least two distinct lists.
func (s *Service) AddCombination(ctx context.Context, nameStr string, listIDs []string) (*domain.Combination, error) {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}

	distinct := make([]string, 0, len(listIDs))
	seen := make(map[string]struct{}, len(listIDs))
	for _, id := range listIDs {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		distinct = append(distinct, id)
	}
	if len(distinct) < 2 {
		return nil, domain.ErrCombinationTooSmall
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	combo := domain.Combination{
		ID:        id,
		Name:      name.String(),
		ListIDs:   distinct,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.combinations.Add(ctx, id, combo); err != nil {
		return nil, fmt.Errorf("failed to add combination: %w", err)
	}
	return &combo, nil
}

// CombinationUpdate carries the optional fields of UpdateCombination; nil
// fields are left untouched.
type CombinationUpdate struct {
	Name    *string
	ListIDs []string
}

// UpdateCombination applies the given fields. UpdatedAt is stamped on every
// update regardless of which fields changed.
func (s *Service) UpdateCombination(ctx context.Context, id string, update CombinationUpdate) error {
	fields := map[string]any{
		"updatedAt": time.Now().UTC(),
	}

	if update.Name != nil {
		name, err := domain.NewName(*update.Name)
		if err != nil {
			return err
		}
		fields["name"] = name.String()
	}
	if update.ListIDs != nil {
		if len(update.ListIDs) < 2 {
			return domain.ErrCombinationTooSmall
		}
		fields["listIds"] = update.ListIDs
	}

	return s.combinations.Update(ctx, id, fields)
}

// DeleteCombination removes the combination. Pure pass-through.
func (s *Service) DeleteCombination(ctx context.Context, id string) error {
	return s.combinations.Delete(ctx, id)
}

// === Sessions ===

// AddSession creates an execution session over one or more lists.
func (s *Service) AddSession(ctx context.Context, nameStr string, listIDs []string, categoryID string) (*domain.Session, error) {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}
	if len(listIDs) == 0 {
		return nil, domain.ErrListNotFound
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	session := domain.Session{
		ID:         id,
		Name:       name.String(),
		ListIDs:    append([]string(nil), listIDs...),
		CategoryID: categoryID,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.sessions.Add(ctx, id, session); err != nil {
		return nil, fmt.Errorf("failed to add session: %w", err)
	}
	return &session, nil
}

// CompleteSession resets the completed flag on every item across every list
// the session references, then stamps CompletedAt. The session is not
// deleted here; discarding it is a separate caller-issued step.
func (s *Service) CompleteSession(ctx context.Context, id string) error {
	session, ok := s.findSession(id)
	if !ok {
		return domain.ErrSessionNotFound
	}

	for _, listID := range session.ListIDs {
		list, ok := s.findList(listID)
		if !ok {
			continue
		}
		if err := s.writeItems(ctx, listID, domain.ResetCompleted(list.Items)); err != nil {
			return fmt.Errorf("failed to reset list %s: %w", listID, err)
		}
	}

	return s.sessions.Update(ctx, id, map[string]any{
		"completedAt": time.Now().UTC(),
	})
}

// DeleteSession removes the session.
func (s *Service) DeleteSession(ctx context.Context, id string) error {
	return s.sessions.Delete(ctx, id)
}

func (s *Service) findSession(id string) (domain.Session, bool) {
	for _, session := range s.sessions.Items() {
		if session.ID == id {
			return session, true
		}
	}
	return domain.Session{}, false
}

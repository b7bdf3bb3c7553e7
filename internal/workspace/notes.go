package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/mjaros/listkeeper/internal/domain"
)

// AddNote creates a standalone prioritized to-do note.
func (s *Service) AddNote(ctx context.Context, titleStr, content, priorityStr string) (*domain.Note, error) {
	title, err := domain.NewName(titleStr)
	if err != nil {
		return nil, err
	}
	priority, err := domain.NewPriority(priorityStr)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	note := domain.Note{
		ID:        id,
		Title:     title.String(),
		Content:   content,
		Priority:  priority,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.notes.Add(ctx, id, note); err != nil {
		return nil, fmt.Errorf("failed to add note: %w", err)
	}
	return &note, nil
}

// NoteUpdate carries the optional fields of UpdateNote; nil fields are left
// untouched.
type NoteUpdate struct {
	Title    *string
	Content  *string
	Priority *string
}

// UpdateNote applies the given fields to the note.
func (s *Service) UpdateNote(ctx context.Context, id string, update NoteUpdate) error {
	if _, ok := s.findNote(id); !ok {
		return domain.ErrNoteNotFound
	}

	fields := make(map[string]any)
	if update.Title != nil {
		title, err := domain.NewName(*update.Title)
		if err != nil {
			return err
		}
		fields["title"] = title.String()
	}
	if update.Content != nil {
		fields["content"] = *update.Content
	}
	if update.Priority != nil {
		priority, err := domain.NewPriority(*update.Priority)
		if err != nil {
			return err
		}
		fields["priority"] = priority
	}
	if len(fields) == 0 {
		return nil
	}

	return s.notes.Update(ctx, id, fields)
}

// ToggleNote flips the note's completed flag.
func (s *Service) ToggleNote(ctx context.Context, id string) error {
	note, ok := s.findNote(id)
	if !ok {
		return domain.ErrNoteNotFound
	}
	return s.notes.Update(ctx, id, map[string]any{"completed": !note.Completed})
}

// DeleteNote removes the note.
func (s *Service) DeleteNote(ctx context.Context, id string) error {
	return s.notes.Delete(ctx, id)
}

func (s *Service) findNote(id string) (domain.Note, bool) {
	for _, note := range s.notes.Items() {
		if note.ID == id {
			return note, true
		}
	}
	return domain.Note{}, false
}

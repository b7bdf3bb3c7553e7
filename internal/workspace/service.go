// Package workspace implements the per-owner application state service: one
// realtime collection adapter per entity type plus every cross-entity rule
// (cascading deletes, copy naming, item state cycling, session completion).
//
// All mutations write through the adapters; visible state only changes when
// the store pushes the next snapshot. Cascades are issued as independent
// writes without transactional atomicity.
package workspace

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mjaros/listkeeper/internal/docstore"
	"github.com/mjaros/listkeeper/internal/domain"
	"github.com/mjaros/listkeeper/internal/sync"
)

// Collection path templates, resolved per owner by the sync adapters.
const (
	pathCategories   = "users/{owner}/categories"
	pathLists        = "users/{owner}/lists"
	pathNotes        = "users/{owner}/notes"
	pathSessions     = "users/{owner}/sessions"
	pathCombinations = "users/{owner}/combinations"
)

// Service owns the five collection adapters for one owner and implements
// every cross-entity rule. Construct once per session; pass by handle.
type Service struct {
	categories   *sync.Collection[domain.Category]
	lists        *sync.Collection[domain.List]
	notes        *sync.Collection[domain.Note]
	sessions     *sync.Collection[domain.Session]
	combinations *sync.Collection[domain.Combination]

	notifier Notifier
}

// NewService creates a workspace for the given owner. An empty owner yields
// a workspace whose mutations all fail with domain.ErrUnauthenticated.
func NewService(ctx context.Context, store docstore.Store, owner string, notifier Notifier) *Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &Service{
		categories:   sync.New[domain.Category](ctx, store, pathCategories, owner),
		lists:        sync.New[domain.List](ctx, store, pathLists, owner),
		notes:        sync.New[domain.Note](ctx, store, pathNotes, owner),
		sessions:     sync.New[domain.Session](ctx, store, pathSessions, owner),
		combinations: sync.New[domain.Combination](ctx, store, pathCombinations, owner),
		notifier:     notifier,
	}
}

// Close tears down all five subscriptions.
func (s *Service) Close() {
	s.categories.Close()
	s.lists.Close()
	s.notes.Close()
	s.sessions.Close()
	s.combinations.Close()
}

// Loading reports whether any collection is still waiting for its first
// snapshot.
func (s *Service) Loading() bool {
	return s.categories.Loading() || s.lists.Loading() || s.notes.Loading() ||
		s.sessions.Loading() || s.combinations.Loading()
}

// Categories returns the current category mirror.
func (s *Service) Categories() []domain.Category { return s.categories.Items() }

// Lists returns the current list mirror.
func (s *Service) Lists() []domain.List { return s.lists.Items() }

// Notes returns the current note mirror.
func (s *Service) Notes() []domain.Note { return s.notes.Items() }

// Sessions returns the current session mirror.
func (s *Service) Sessions() []domain.Session { return s.sessions.Items() }

// Combinations returns the current combination mirror.
func (s *Service) Combinations() []domain.Combination { return s.combinations.Items() }

func newID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("failed to generate id: %w", err)
	}
	return id.String(), nil
}

func (s *Service) findList(id string) (domain.List, bool) {
	for _, l := range s.lists.Items() {
		if l.ID == id {
			return l, true
		}
	}
	return domain.List{}, false
}

func (s *Service) findCategory(id string) (domain.Category, bool) {
	for _, c := range s.categories.Items() {
		if c.ID == id {
			return c, true
		}
	}
	return domain.Category{}, false
}

// === Categories ===

// AddCategory creates a new category.
func (s *Service) AddCategory(ctx context.Context, nameStr string) (*domain.Category, error) {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	category := domain.Category{ID: id, Name: name.String()}
	if err := s.categories.Add(ctx, id, category); err != nil {
		return nil, fmt.Errorf("failed to add category: %w", err)
	}
	return &category, nil
}

// RenameCategory updates the category name.
func (s *Service) RenameCategory(ctx context.Context, id, nameStr string) error {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return err
	}
	if _, ok := s.findCategory(id); !ok {
		return domain.ErrCategoryNotFound
	}
	return s.categories.Update(ctx, id, map[string]any{"name": name.String()})
}

// DeleteCategory deletes the category and cascades to every list belonging
// to it. Combinations and sessions referencing those lists are left alone.
func (s *Service) DeleteCategory(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete category: %w", err)
	}

	for _, list := range s.lists.Items() {
		if list.CategoryID != id {
			continue
		}
		if err := s.lists.Delete(ctx, list.ID); err != nil {
			return fmt.Errorf("failed to delete list %s: %w", list.ID, err)
		}
	}
	return nil
}

// ReorderCategories writes back a dense zero-based order field equal to each
// category's position in the given sequence, one update per category.
func (s *Service) ReorderCategories(ctx context.Context, ordered []domain.Category) error {
	for i, category := range ordered {
		if err := s.categories.Update(ctx, category.ID, map[string]any{"order": i}); err != nil {
			return fmt.Errorf("failed to reorder category %s: %w", category.ID, err)
		}
	}
	return nil
}

// === Lists ===

// AddList creates a new empty list in a category.
func (s *Service) AddList(ctx context.Context, nameStr, categoryID string) (*domain.List, error) {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	list := domain.List{
		ID:         id,
		Name:       name.String(),
		CategoryID: categoryID,
		Items:      []domain.Item{},
	}
	if err := s.lists.Add(ctx, id, list); err != nil {
		return nil, fmt.Errorf("failed to add list: %w", err)
	}
	return &list, nil
}

// RenameList updates the list name.
func (s *Service) RenameList(ctx context.Context, id, nameStr string) error {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return err
	}
	if _, ok := s.findList(id); !ok {
		return domain.ErrListNotFound
	}
	return s.lists.Update(ctx, id, map[string]any{"name": name.String()})
}

// UpdateListSettings replaces the per-list settings.
func (s *Service) UpdateListSettings(ctx context.Context, id string, settings domain.ListSettings) error {
	if _, ok := s.findList(id); !ok {
		return domain.ErrListNotFound
	}
	return s.lists.Update(ctx, id, map[string]any{"settings": settings})
}

// SetListArchived flags or unflags the list as archived.
func (s *Service) SetListArchived(ctx context.Context, id string, archived bool) error {
	if _, ok := s.findList(id); !ok {
		return domain.ErrListNotFound
	}
	return s.lists.Update(ctx, id, map[string]any{"archived": archived})
}

// TouchList stamps the list's last access time.
func (s *Service) TouchList(ctx context.Context, id string) error {
	if _, ok := s.findList(id); !ok {
		return domain.ErrListNotFound
	}
	return s.lists.Update(ctx, id, map[string]any{"lastAccessedAt": time.Now().UTC()})
}

// DeleteList deletes the list and cascades over combinations referencing it:
// a combination that would drop below two lists is deleted outright, larger
// ones are trimmed and stamped. One notification describes the whole
// cascade; its undo re-adds the deleted list verbatim but does not restore
// combinations.
func (s *Service) DeleteList(ctx context.Context, id string) error {
	list, ok := s.findList(id)
	if !ok {
		return nil
	}

	var toDelete, toTrim []domain.Combination
	for _, combo := range s.combinations.Items() {
		if !combo.References(id) {
			continue
		}
		if len(combo.ListIDs) <= 2 {
			toDelete = append(toDelete, combo)
		} else {
			toTrim = append(toTrim, combo)
		}
	}

	if err := s.lists.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	for _, combo := range toDelete {
		if err := s.combinations.Delete(ctx, combo.ID); err != nil {
			return fmt.Errorf("failed to delete combination %s: %w", combo.ID, err)
		}
	}

	now := time.Now().UTC()
	for _, combo := range toTrim {
		trimmed := make([]string, 0, len(combo.ListIDs)-1)
		for _, listID := range combo.ListIDs {
			if listID != id {
				trimmed = append(trimmed, listID)
			}
		}
		err := s.combinations.Update(ctx, combo.ID, map[string]any{
			"listIds":   trimmed,
			"updatedAt": now,
		})
		if err != nil {
			return fmt.Errorf("failed to update combination %s: %w", combo.ID, err)
		}
	}

	message := fmt.Sprintf("Deleted list %q", list.Name)
	if len(toDelete) > 0 {
		message += fmt.Sprintf(", removed %d combination(s)", len(toDelete))
	}
	if len(toTrim) > 0 {
		message += fmt.Sprintf(", updated %d combination(s)", len(toTrim))
	}

	s.notifier.Notify(ctx, Notification{
		Message: message,
		Undo: func(ctx context.Context) error {
			return s.lists.Add(ctx, list.ID, list)
		},
	})
	return nil
}

// CopyList duplicates a list under a derived "<base> kopia <N>" name with
// fresh list and item ids. Category, settings and sections carry over.
func (s *Service) CopyList(ctx context.Context, id string) (*domain.List, error) {
	source, ok := s.findList(id)
	if !ok {
		return nil, domain.ErrListNotFound
	}

	all := s.lists.Items()
	names := make([]string, len(all))
	for i, l := range all {
		names[i] = l.Name
	}

	newListID, err := newID()
	if err != nil {
		return nil, err
	}

	items := make([]domain.Item, len(source.Items))
	for i, item := range source.Items {
		itemID, err := newID()
		if err != nil {
			return nil, err
		}
		item.ID = itemID
		items[i] = item
	}

	copied := source
	copied.ID = newListID
	copied.Name = domain.NextCopyName(source.Name, names)
	copied.Items = items
	copied.Sections = append([]domain.Section(nil), source.Sections...)

	if err := s.lists.Add(ctx, newListID, copied); err != nil {
		return nil, fmt.Errorf("failed to add copied list: %w", err)
	}
	return &copied, nil
}

// ReorderLists writes back a dense zero-based order field equal to each
// list's position in the given sequence, one update per list.
func (s *Service) ReorderLists(ctx context.Context, ordered []domain.List) error {
	for i, list := range ordered {
		if err := s.lists.Update(ctx, list.ID, map[string]any{"order": i}); err != nil {
			return fmt.Errorf("failed to reorder list %s: %w", list.ID, err)
		}
	}
	return nil
}

// === Items ===

func (s *Service) writeItems(ctx context.Context, listID string, items []domain.Item) error {
	return s.lists.Update(ctx, listID, map[string]any{"items": items})
}

// AddItem appends a new unresolved item to the list.
func (s *Service) AddItem(ctx context.Context, listID, text, sectionID string) (*domain.Item, error) {
	name, err := domain.NewName(text)
	if err != nil {
		return nil, err
	}

	list, ok := s.findList(listID)
	if !ok {
		return nil, domain.ErrListNotFound
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	item := domain.Item{
		ID:        id,
		Text:      name.String(),
		State:     domain.ItemStateUnresolved,
		SectionID: sectionID,
	}
	items := append(append([]domain.Item(nil), list.Items...), item)

	if err := s.writeItems(ctx, listID, items); err != nil {
		return nil, fmt.Errorf("failed to add item: %w", err)
	}
	return &item, nil
}

// UpdateItemText changes the item text.
func (s *Service) UpdateItemText(ctx context.Context, listID, itemID, text string) error {
	name, err := domain.NewName(text)
	if err != nil {
		return err
	}

	list, ok := s.findList(listID)
	if !ok {
		return domain.ErrListNotFound
	}

	items := append([]domain.Item(nil), list.Items...)
	for i, item := range items {
		if item.ID == itemID {
			items[i].Text = name.String()
			return s.writeItems(ctx, listID, items)
		}
	}
	return domain.ErrItemNotFound
}

// DeleteItem removes one item from the list.
func (s *Service) DeleteItem(ctx context.Context, listID, itemID string) error {
	list, ok := s.findList(listID)
	if !ok {
		return domain.ErrListNotFound
	}

	items := make([]domain.Item, 0, len(list.Items))
	found := false
	for _, item := range list.Items {
		if item.ID == itemID {
			found = true
			continue
		}
		items = append(items, item)
	}
	if !found {
		return domain.ErrItemNotFound
	}
	return s.writeItems(ctx, listID, items)
}

// ToggleItem advances one item through its completion cycle (two- or
// three-stage per the list settings) and reports whether every item in the
// list is now completed, signalling the caller to offer a bulk reset.
func (s *Service) ToggleItem(ctx context.Context, listID, itemID string) (allCompleted bool, err error) {
	list, ok := s.findList(listID)
	if !ok {
		return false, domain.ErrListNotFound
	}

	items := append([]domain.Item(nil), list.Items...)
	found := false
	for i, item := range items {
		if item.ID == itemID {
			items[i] = item.Toggle(list.ThreeStage())
			found = true
			break
		}
	}
	if !found {
		return false, domain.ErrItemNotFound
	}

	if err := s.writeItems(ctx, listID, items); err != nil {
		return false, fmt.Errorf("failed to toggle item: %w", err)
	}
	return domain.AllCompleted(items), nil
}

// ResetAllItems clears completion state on every item of the list.
func (s *Service) ResetAllItems(ctx context.Context, listID string) error {
	list, ok := s.findList(listID)
	if !ok {
		return domain.ErrListNotFound
	}
	return s.writeItems(ctx, listID, domain.ResetStates(list.Items))
}

// === Sections ===

func (s *Service) writeSections(ctx context.Context, listID string, sections []domain.Section) error {
	return s.lists.Update(ctx, listID, map[string]any{"sections": sections})
}

// reindexSections keeps section order dense and zero-based.
func reindexSections(sections []domain.Section) []domain.Section {
	for i := range sections {
		sections[i].Order = i
	}
	return sections
}

// AddSection prepends a new section at order 0 and re-indexes the rest.
func (s *Service) AddSection(ctx context.Context, listID, nameStr string) (*domain.Section, error) {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return nil, err
	}

	list, ok := s.findList(listID)
	if !ok {
		return nil, domain.ErrListNotFound
	}

	id, err := newID()
	if err != nil {
		return nil, err
	}

	section := domain.Section{ID: id, Name: name.String()}
	sections := append([]domain.Section{section}, list.Sections...)
	sections = reindexSections(sections)

	if err := s.writeSections(ctx, listID, sections); err != nil {
		return nil, fmt.Errorf("failed to add section: %w", err)
	}
	return &sections[0], nil
}

// RenameSection updates a section name.
func (s *Service) RenameSection(ctx context.Context, listID, sectionID, nameStr string) error {
	name, err := domain.NewName(nameStr)
	if err != nil {
		return err
	}

	list, ok := s.findList(listID)
	if !ok {
		return domain.ErrListNotFound
	}

	sections := append([]domain.Section(nil), list.Sections...)
	for i, section := range sections {
		if section.ID == sectionID {
			sections[i].Name = name.String()
			return s.writeSections(ctx, listID, sections)
		}
	}
	return domain.ErrSectionNotFound
}

// DeleteSection removes the section, re-indexes the remainder, and detaches
// items that referenced it so no item points at a missing section.
func (s *Service) DeleteSection(ctx context.Context, listID, sectionID string) error {
	list, ok := s.findList(listID)
	if !ok {
		return domain.ErrListNotFound
	}

	sections := make([]domain.Section, 0, len(list.Sections))
	found := false
	for _, section := range list.Sections {
		if section.ID == sectionID {
			found = true
			continue
		}
		sections = append(sections, section)
	}
	if !found {
		return domain.ErrSectionNotFound
	}
	sections = reindexSections(sections)

	items := append([]domain.Item(nil), list.Items...)
	for i, item := range items {
		if item.SectionID == sectionID {
			items[i].SectionID = ""
		}
	}

	return s.lists.Update(ctx, listID, map[string]any{
		"sections": sections,
		"items":    items,
	})
}

package domain

import "time"

// Category is a top-level grouping for lists.
// Order is a dense zero-based rank among sibling categories once reordering
// has happened; a nil Order means arbitrary position.
type Category struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order *int   `json:"order,omitempty"`
}

// ItemState is the three-stage completion state of an item.
type ItemState string

const (
	ItemStateUnresolved ItemState = "unresolved"
	ItemStateOngoing    ItemState = "ongoing"
	ItemStateCompleted  ItemState = "completed"
)

// Item is a single checklist entry embedded in exactly one list.
// In three-stage mode Completed and State stay consistent
// (Completed == true iff State == completed); in two-stage mode State
// mirrors Completed but is not authoritative.
type Item struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Completed bool      `json:"completed"`
	State     ItemState `json:"state,omitempty"`
	SectionID string    `json:"sectionId,omitempty"`
}

// Section is an ordered sub-list embedded per list. Order is dense and
// zero-based.
type Section struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Order int    `json:"order"`
}

// ListSettings holds per-list behavior switches.
type ListSettings struct {
	// ThreeStageMode enables the unresolved -> ongoing -> completed item
	// cycle instead of a plain boolean toggle.
	ThreeStageMode bool `json:"threeStageMode,omitempty"`
	// DefaultSort overrides manual item ordering when set.
	DefaultSort string `json:"defaultSort,omitempty"`
}

// List is a named ordered collection of items belonging to one category,
// optionally divided into sections.
type List struct {
	ID             string        `json:"id"`
	Name           string        `json:"name"`
	CategoryID     string        `json:"categoryId"`
	Items          []Item        `json:"items"`
	Order          *int          `json:"order,omitempty"`
	Settings       *ListSettings `json:"settings,omitempty"`
	Sections       []Section     `json:"sections,omitempty"`
	Archived       bool          `json:"archived,omitempty"`
	LastAccessedAt *time.Time    `json:"lastAccessedAt,omitempty"`
}

// ThreeStage reports whether the list cycles items through three states.
func (l *List) ThreeStage() bool {
	return l.Settings != nil && l.Settings.ThreeStageMode
}

// Combination is a named, reusable set of list references used as a session
// template. A combination must reference at least two distinct lists to
// remain valid; cascading list deletion removes combinations that would
// drop below that.
type Combination struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	ListIDs   []string   `json:"listIds"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty"`
}

// References reports whether the combination references the given list.
func (c *Combination) References(listID string) bool {
	for _, id := range c.ListIDs {
		if id == listID {
			return true
		}
	}
	return false
}

// Session is an ad-hoc execution grouping of lists with shared progress.
// CompletedAt is set once; a completed session is logically terminal and
// deleted by the caller afterwards.
type Session struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	ListIDs     []string   `json:"listIds"`
	CategoryID  string     `json:"categoryId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// Priority is the urgency level of a note.
type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Note is a standalone prioritized to-do note.
type Note struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Priority  Priority  `json:"priority"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"createdAt"`
}

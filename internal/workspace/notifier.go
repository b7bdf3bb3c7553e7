package workspace

import (
	"context"
	"log/slog"
)

// Notification is a transient user-facing message emitted after a
// destructive operation. Undo, when set, is a compensating write that
// reverses the primary mutation; it is not a transactional rollback.
type Notification struct {
	Message string
	Undo    func(ctx context.Context) error
}

// Notifier receives notifications emitted by the workspace. Implementations
// forward them to whatever surface the caller has (toast UI, log, test
// capture); the workspace never depends on how they are shown.
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// NopNotifier discards all notifications.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, Notification) {}

// LogNotifier writes notifications to slog.
type LogNotifier struct{}

func (LogNotifier) Notify(ctx context.Context, n Notification) {
	slog.InfoContext(ctx, "workspace notification", "message", n.Message, "undoable", n.Undo != nil)
}

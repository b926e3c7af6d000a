package client

import (
	"github.com/vietddude/codementor/internal/resilience/orchestrator"
)

// Status is the lifecycle state of a view model.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusLoading Status = "loading"
	StatusLoaded  Status = "loaded"
	StatusDemo    Status = "demo"
	StatusFailed  Status = "failed"
)

// NoticeKind is the severity of a notice shown to the user.
type NoticeKind string

const (
	NoticeInfo    NoticeKind = "info"
	NoticeSuccess NoticeKind = "success"
	NoticeWarning NoticeKind = "warning"
	NoticeError   NoticeKind = "error"
)

// Notice is a one-line message attached to a view.
type Notice struct {
	Kind    NoticeKind
	Message string
}

// DemoModeMessage prefixes notices for fallback data.
const DemoModeMessage = "Demo Mode"

// View is the presentation state of one operation.
type View[T any] struct {
	Status      Status
	Data        T
	Notice      *Notice
	FieldErrors map[string]string
}

// Begin moves a view to Loading. Previous data stays visible.
func Begin[T any](v View[T]) View[T] {
	return View[T]{Status: StatusLoading, Data: v.Data}
}

// Resolve applies a terminal result. A failed call keeps the data the view
// already had.
func Resolve[T any](v View[T], r orchestrator.Result[T]) View[T] {
	switch {
	case r.Err == nil:
		return View[T]{Status: StatusLoaded, Data: r.Data}
	case r.IsFallback():
		return View[T]{
			Status: StatusDemo,
			Data:   r.Data,
			Notice: &Notice{Kind: NoticeWarning, Message: DemoModeMessage + ": " + r.Err.UserMessage},
		}
	default:
		return View[T]{
			Status:      StatusFailed,
			Data:        v.Data,
			Notice:      &Notice{Kind: NoticeError, Message: r.Err.UserMessage},
			FieldErrors: r.Err.FieldErrors,
		}
	}
}

// WithNotice attaches an informational notice, for example after a save.
func WithNotice[T any](v View[T], kind NoticeKind, msg string) View[T] {
	v.Notice = &Notice{Kind: kind, Message: msg}
	return v
}

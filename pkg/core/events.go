package core

import (
	"fmt"
	"strings"
)

// EventType represents the kind of change behind a notification.
type EventType string

const (
	EventCreate EventType = "CREATE"
	EventModify EventType = "MODIFY"
	EventDelete EventType = "DELETE"
	// EventReload signals that the view was rebuilt from external state
	// (another process wrote the cache, or a refresh was requested).
	EventReload EventType = "RELOAD"
)

// Event represents one change to a content type's merged view.
type Event struct {
	Type        EventType
	ContentType string
	ID          int64
	Timestamp   int64 // Unix timestamp
}

// Topic is the slash-separated subject events are matched against,
// e.g. "blog/create". Subscription patterns use doublestar syntax
// ("blog/*", "**").
func (e Event) Topic() string {
	return fmt.Sprintf("%s/%s", e.ContentType, strings.ToLower(string(e.Type)))
}

// String implements lifecycle.Event.
func (e Event) String() string {
	return fmt.Sprintf("%s %s #%d", e.ContentType, e.Type, e.ID)
}

package model

import (
	"fmt"
	"strings"
)

// Status is a view-only partition of todos.
type Status int

const (
	All Status = iota
	Active
	Completed
)

var statusLabels = [...]string{"All", "Active", "Completed"}

// Statuses lists every status in display order.
func Statuses() []Status { return []Status{All, Active, Completed} }

func (s Status) String() string {
	if s < All || s > Completed {
		return fmt.Sprintf("Status(%d)", int(s))
	}
	return statusLabels[s]
}

// Next cycles through the statuses in display order.
func (s Status) Next() Status { return (s + 1) % Status(len(statusLabels)) }

// ParseStatus accepts a display label, case-insensitively.
func ParseStatus(s string) (Status, error) {
	for i, l := range statusLabels {
		if strings.EqualFold(strings.TrimSpace(s), l) {
			return Status(i), nil
		}
	}
	return All, fmt.Errorf("unknown status %q (want all, active or completed)", s)
}

// Filter projects todos by status, keeping their order.
// All returns the input as is; the other statuses return a fresh slice.
func Filter(todos []Todo, s Status) []Todo {
	switch s {
	case Active:
		return keep(todos, func(t Todo) bool { return !t.Completed })
	case Completed:
		return keep(todos, func(t Todo) bool { return t.Completed })
	default:
		return todos
	}
}

func keep(todos []Todo, pred func(Todo) bool) []Todo {
	out := make([]Todo, 0, len(todos))
	for _, t := range todos {
		if pred(t) {
			out = append(out, t)
		}
	}
	return out
}

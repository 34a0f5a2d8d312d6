// Package editor is the inline rename state machine for a single todo.
//
//	Viewing --Begin--> Editing --Cancel/Submit--> Viewing
//
// A submit whose request fails keeps the editor in Editing and asks the
// view to put focus back on the field.
package editor

import (
	"context"
	"strings"

	"github.com/Makepad-fr/tada/internal/model"
)

// State of an editor.
type State int

const (
	Viewing State = iota
	Editing
)

func (s State) String() string {
	if s == Editing {
		return "editing"
	}
	return "viewing"
}

// Action is the request a submit resolves to.
type Action int

const (
	ActionNone Action = iota
	ActionRename
	ActionDelete
)

// Plan is what a submit will do. Only Todo's ID and, for ActionRename,
// its new Title are used; the rest of the record is read fresh when the
// plan runs.
type Plan struct {
	Action Action
	Todo   model.Todo
}

// Outcome of a finished submit.
type Outcome int

const (
	NoChange Outcome = iota
	Renamed
	Deleted
	Failed
)

// Ops are the store operations a submit may call. Rename must apply the
// title to the current record so a toggle that landed while editing
// survives.
type Ops interface {
	Rename(ctx context.Context, id int, title string) (model.Todo, error)
	DeleteOne(ctx context.Context, id int) error
}

// Editor holds the edit state of one item. The zero value is Viewing.
type Editor struct {
	state   State
	todo    model.Todo
	text    string
	plan    Plan
	refocus bool
}

// State returns the current state.
func (e *Editor) State() State { return e.state }

// Editing reports whether the editor is open.
func (e *Editor) Editing() bool { return e.state == Editing }

// Todo is the item being edited.
func (e *Editor) Todo() model.Todo { return e.todo }

// Text is the current field content.
func (e *Editor) Text() string { return e.text }

// SetText replaces the field content.
func (e *Editor) SetText(s string) { e.text = s }

// Begin opens the editor on t, seeded with its title.
func (e *Editor) Begin(t model.Todo) {
	*e = Editor{state: Editing, todo: t, text: t.Title}
}

// Cancel discards the edit without a request.
func (e *Editor) Cancel() {
	*e = Editor{}
}

// Refocus reports, once, that a failed submit wants focus back.
func (e *Editor) Refocus() bool {
	r := e.refocus
	e.refocus = false
	return r
}

// Plan decides what submitting the current text does. A changed,
// non-blank title renames; a blank one deletes; the same title does
// nothing.
func (e *Editor) Plan() Plan {
	if e.state != Editing {
		return Plan{}
	}
	title := strings.TrimSpace(e.text)
	p := Plan{Todo: e.todo}
	switch {
	case title == "":
		p.Action = ActionDelete
	case title != e.todo.Title:
		p.Action = ActionRename
		p.Todo.Title = title
	}
	e.plan = p
	return p
}

// Resolve applies the result of executing the last plan.
func (e *Editor) Resolve(err error) Outcome {
	if err != nil {
		e.refocus = true
		return Failed
	}
	var out Outcome
	switch e.plan.Action {
	case ActionRename:
		out = Renamed
	case ActionDelete:
		out = Deleted
	}
	*e = Editor{}
	return out
}

// Execute runs p against ops. ActionNone makes no call.
func Execute(ctx context.Context, ops Ops, p Plan) error {
	switch p.Action {
	case ActionRename:
		_, err := ops.Rename(ctx, p.Todo.ID, p.Todo.Title)
		return err
	case ActionDelete:
		return ops.DeleteOne(ctx, p.Todo.ID)
	}
	return nil
}

// Submit plans, executes and resolves in one call.
func (e *Editor) Submit(ctx context.Context, ops Ops) Outcome {
	p := e.Plan()
	return e.Resolve(Execute(ctx, ops, p))
}

// Package api talks to the remote todo service.
//
// The service exposes four operations over a todo resource scoped to a
// user id. Any failure, whatever its cause, surfaces as ErrRemote.
package api

import (
	"context"
	"errors"

	"github.com/Makepad-fr/tada/internal/model"
)

// ErrRemote is the single error kind the client reports.
var ErrRemote = errors.New("remote operation failed")

// Service is the remote todo service contract.
type Service interface {
	List(ctx context.Context, userID int) ([]model.Todo, error)
	Create(ctx context.Context, t model.NewTodo) (model.Todo, error)
	Update(ctx context.Context, t model.Todo) (model.Todo, error)
	Delete(ctx context.Context, id int) error
}

package api

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-kit/kit/endpoint"

	"github.com/Makepad-fr/tada/internal/model"
)

// Set collects the client endpoints. It implements Service.
type Set struct {
	ListEndpoint   endpoint.Endpoint
	CreateEndpoint endpoint.Endpoint
	UpdateEndpoint endpoint.Endpoint
	DeleteEndpoint endpoint.Endpoint
}

var _ Service = Set{}

type listRequest struct {
	UserID int
}

type listResponse struct {
	Todos []model.Todo
}

type createRequest struct {
	Todo model.NewTodo
}

type updateRequest struct {
	Todo model.Todo
}

type todoResponse struct {
	Todo model.Todo
}

type deleteRequest struct {
	ID int
}

type deleteResponse struct{}

func (s Set) List(ctx context.Context, userID int) ([]model.Todo, error) {
	resp, err := s.ListEndpoint(ctx, listRequest{UserID: userID})
	if err != nil {
		return nil, err
	}
	return resp.(listResponse).Todos, nil
}

func (s Set) Create(ctx context.Context, t model.NewTodo) (model.Todo, error) {
	resp, err := s.CreateEndpoint(ctx, createRequest{Todo: t})
	if err != nil {
		return model.Todo{}, err
	}
	return resp.(todoResponse).Todo, nil
}

func (s Set) Update(ctx context.Context, t model.Todo) (model.Todo, error) {
	resp, err := s.UpdateEndpoint(ctx, updateRequest{Todo: t})
	if err != nil {
		return model.Todo{}, err
	}
	return resp.(todoResponse).Todo, nil
}

func (s Set) Delete(ctx context.Context, id int) error {
	_, err := s.DeleteEndpoint(ctx, deleteRequest{ID: id})
	return err
}

// chain wraps e with the middlewares every operation shares. Outermost first.
func chain(e endpoint.Endpoint, method string, timeout time.Duration, logger *log.Logger) endpoint.Endpoint {
	return endpoint.Chain(
		LoggingMiddleware(logger.With("method", method)),
		RemoteErrorMiddleware(method),
		TimeoutMiddleware(timeout),
	)(e)
}

// LoggingMiddleware logs each call with its duration and outcome.
func LoggingMiddleware(logger *log.Logger) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (response interface{}, err error) {
			defer func(begin time.Time) {
				if err != nil {
					logger.Warn("remote call failed", "took", time.Since(begin), "err", err)
					return
				}
				logger.Debug("remote call", "took", time.Since(begin))
			}(time.Now())
			return next(ctx, request)
		}
	}
}

// RemoteErrorMiddleware folds every failure into ErrRemote.
func RemoteErrorMiddleware(method string) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			resp, err := next(ctx, request)
			if err != nil && !errors.Is(err, ErrRemote) {
				err = fmt.Errorf("%w: %s: %v", ErrRemote, method, err)
			}
			return resp, err
		}
	}
}

// TimeoutMiddleware bounds each call. A non-positive timeout disables it.
func TimeoutMiddleware(timeout time.Duration) endpoint.Middleware {
	return func(next endpoint.Endpoint) endpoint.Endpoint {
		if timeout <= 0 {
			return next
		}
		return func(ctx context.Context, request interface{}) (interface{}, error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, request)
		}
	}
}

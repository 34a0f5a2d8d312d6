package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	httptransport "github.com/go-kit/kit/transport/http"
	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// ClientOptions tune the HTTP client.
type ClientOptions struct {
	Token      string        // bearer token; empty sends no Authorization header
	Timeout    time.Duration // per request; 0 disables
	Logger     *log.Logger   // nil discards
	HTTPClient *http.Client  // nil uses http.DefaultClient
}

// NewHTTPClient returns a Service backed by the REST API rooted at baseURL.
//
//	GET    /todos?userId=N
//	POST   /todos
//	PATCH  /todos/{id}
//	DELETE /todos/{id}
func NewHTTPClient(baseURL string, opt ClientOptions) (Set, error) {
	if !strings.HasPrefix(baseURL, "http") {
		baseURL = "http://" + baseURL
	}
	u, err := url.Parse(baseURL)
	if err != nil {
		return Set{}, fmt.Errorf("parse base url: %w", err)
	}
	tgt := u.JoinPath("todos")

	logger := opt.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}

	options := []httptransport.ClientOption{
		httptransport.ClientBefore(requestID, bearer(opt.Token)),
	}
	if opt.HTTPClient != nil {
		options = append(options, httptransport.SetClient(opt.HTTPClient))
	}

	list := httptransport.NewClient(http.MethodGet, tgt, encodeListRequest, decodeListResponse, options...).Endpoint()
	create := httptransport.NewClient(http.MethodPost, tgt, encodeCreateRequest, decodeTodoResponse, options...).Endpoint()
	update := httptransport.NewClient(http.MethodPatch, tgt, encodeUpdateRequest, decodeTodoResponse, options...).Endpoint()
	del := httptransport.NewClient(http.MethodDelete, tgt, encodeDeleteRequest, decodeDeleteResponse, options...).Endpoint()

	return Set{
		ListEndpoint:   chain(list, "List", opt.Timeout, logger),
		CreateEndpoint: chain(create, "Create", opt.Timeout, logger),
		UpdateEndpoint: chain(update, "Update", opt.Timeout, logger),
		DeleteEndpoint: chain(del, "Delete", opt.Timeout, logger),
	}, nil
}

func requestID(ctx context.Context, r *http.Request) context.Context {
	r.Header.Set("X-Request-Id", uuid.NewString())
	return ctx
}

func bearer(token string) httptransport.RequestFunc {
	return func(ctx context.Context, r *http.Request) context.Context {
		if token != "" {
			r.Header.Set("Authorization", "Bearer "+token)
		}
		return ctx
	}
}

func encodeListRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(listRequest)
	q := r.URL.Query()
	q.Set("userId", strconv.Itoa(req.UserID))
	r.URL.RawQuery = q.Encode()
	return nil
}

func encodeCreateRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(createRequest)
	return httptransport.EncodeJSONRequest(ctx, r, req.Todo)
}

func encodeUpdateRequest(ctx context.Context, r *http.Request, request interface{}) error {
	req := request.(updateRequest)
	r.URL = r.URL.JoinPath(strconv.Itoa(req.Todo.ID))
	return httptransport.EncodeJSONRequest(ctx, r, req.Todo)
}

func encodeDeleteRequest(_ context.Context, r *http.Request, request interface{}) error {
	req := request.(deleteRequest)
	r.URL = r.URL.JoinPath(strconv.Itoa(req.ID))
	return nil
}

func decodeListResponse(_ context.Context, resp *http.Response) (interface{}, error) {
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var todos []model.Todo
	if err := json.NewDecoder(resp.Body).Decode(&todos); err != nil {
		return nil, fmt.Errorf("%w: decode todos: %v", ErrRemote, err)
	}
	return listResponse{Todos: todos}, nil
}

func decodeTodoResponse(_ context.Context, resp *http.Response) (interface{}, error) {
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	var t model.Todo
	if err := json.NewDecoder(resp.Body).Decode(&t); err != nil {
		return nil, fmt.Errorf("%w: decode todo: %v", ErrRemote, err)
	}
	return todoResponse{Todo: t}, nil
}

func decodeDeleteResponse(_ context.Context, resp *http.Response) (interface{}, error) {
	if err := checkStatus(resp); err != nil {
		return nil, err
	}
	return deleteResponse{}, nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
	msg := strings.TrimSpace(string(body))
	if msg == "" {
		return fmt.Errorf("%w: %s", ErrRemote, resp.Status)
	}
	return fmt.Errorf("%w: %s: %s", ErrRemote, resp.Status, msg)
}

// Package apitest runs an in-memory todo service over HTTP for tests.
package apitest

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/Makepad-fr/tada/internal/model"
)

// Op names an operation that can be made to fail.
type Op string

const (
	OpList   Op = "list"
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// Server is a fake todo service. Safe for concurrent use.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	todos    []model.Todo
	nextID   int
	failOps  map[Op]bool
	failIDs  map[int]bool
	requests []Request
}

// Request records one call the server received.
type Request struct {
	Method        string
	Path          string
	Authorization string
	RequestID     string
}

// NewServer starts a server seeded with todos. Close it when done.
func NewServer(seed ...model.Todo) *Server {
	s := &Server{
		failOps: map[Op]bool{},
		failIDs: map[int]bool{},
		nextID:  1,
	}
	for _, t := range seed {
		s.todos = append(s.todos, t)
		if t.ID >= s.nextID {
			s.nextID = t.ID + 1
		}
	}

	r := chi.NewRouter()
	r.Use(s.record)
	r.Get("/todos", s.list)
	r.Post("/todos", s.create)
	r.Patch("/todos/{id}", s.update)
	r.Delete("/todos/{id}", s.delete)
	s.Server = httptest.NewServer(r)
	return s
}

// Fail makes every call of op answer 500.
func (s *Server) Fail(op Op) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failOps[op] = true
}

// FailID makes update and delete calls on id answer 500.
func (s *Server) FailID(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failIDs[id] = true
}

// Todos returns the server-side list.
func (s *Server) Todos() []model.Todo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]model.Todo(nil), s.todos...)
}

// Requests returns the calls received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Request(nil), s.requests...)
}

func (s *Server) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.requests = append(s.requests, Request{
			Method:        r.Method,
			Path:          r.URL.Path,
			Authorization: r.Header.Get("Authorization"),
			RequestID:     r.Header.Get("X-Request-Id"),
		})
		s.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (s *Server) failing(op Op, id int) bool {
	return s.failOps[op] || (id != 0 && s.failIDs[id])
}

func (s *Server) list(w http.ResponseWriter, r *http.Request) {
	userID, err := strconv.Atoi(r.URL.Query().Get("userId"))
	if err != nil {
		http.Error(w, "bad userId", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(OpList, 0) {
		http.Error(w, "list failed", http.StatusInternalServerError)
		return
	}
	out := []model.Todo{}
	for _, t := range s.todos {
		if t.UserID == userID {
			out = append(out, t)
		}
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) create(w http.ResponseWriter, r *http.Request) {
	var in model.NewTodo
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(OpCreate, 0) {
		http.Error(w, "create failed", http.StatusInternalServerError)
		return
	}
	t := model.Todo{ID: s.nextID, UserID: in.UserID, Title: in.Title, Completed: in.Completed}
	s.nextID++
	s.todos = append(s.todos, t)
	writeJSON(w, http.StatusCreated, t)
}

func (s *Server) update(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	var in model.Todo
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		http.Error(w, "bad body", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(OpUpdate, id) {
		http.Error(w, "update failed", http.StatusInternalServerError)
		return
	}
	for i, t := range s.todos {
		if t.ID == id {
			in.ID = id
			s.todos[i] = in
			writeJSON(w, http.StatusOK, in)
			return
		}
	}
	http.NotFound(w, r)
}

func (s *Server) delete(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, "bad id", http.StatusBadRequest)
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing(OpDelete, id) {
		http.Error(w, "delete failed", http.StatusInternalServerError)
		return
	}
	for i, t := range s.todos {
		if t.ID == id {
			s.todos = append(s.todos[:i:i], s.todos[i+1:]...)
			writeJSON(w, http.StatusOK, 1)
			return
		}
	}
	http.NotFound(w, r)
}

func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

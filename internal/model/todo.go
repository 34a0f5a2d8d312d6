package model

// Todo is a single task record owned by one user on the remote service.
// An ID of zero means the record has not been persisted yet.
type Todo struct {
	ID        int    `json:"id"`
	UserID    int    `json:"userId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

// NewTodo is the create payload; the service assigns the id.
type NewTodo struct {
	Title     string `json:"title"`
	UserID    int    `json:"userId"`
	Completed bool   `json:"completed"`
}

// Persisted reports whether the server has assigned an id.
func (t Todo) Persisted() bool { return t.ID != 0 }

// Remaining counts incomplete todos.
func Remaining(todos []Todo) int {
	n := 0
	for _, t := range todos {
		if !t.Completed {
			n++
		}
	}
	return n
}

// AllCompleted is true when no todo is left to do, including for an empty list.
func AllCompleted(todos []Todo) bool {
	for _, t := range todos {
		if !t.Completed {
			return false
		}
	}
	return true
}

// AnyCompleted reports whether at least one todo is completed.
func AnyCompleted(todos []Todo) bool {
	for _, t := range todos {
		if t.Completed {
			return true
		}
	}
	return false
}

// CompletedIDs returns the ids of completed todos in list order.
func CompletedIDs(todos []Todo) []int {
	var ids []int
	for _, t := range todos {
		if t.Completed {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

// Find returns the todo with the given id.
func Find(todos []Todo, id int) (Todo, bool) {
	for _, t := range todos {
		if t.ID == id {
			return t, true
		}
	}
	return Todo{}, false
}

// Pending holds the optimistic preview of a todo being created.
// The zero value is an empty slot.
type Pending struct {
	todo  Todo
	valid bool
}

// PendingOf fills the slot with an unpersisted preview for title.
func PendingOf(title string, userID int) Pending {
	return Pending{todo: Todo{UserID: userID, Title: title}, valid: true}
}

// Get returns the preview and whether the slot is filled.
func (p Pending) Get() (Todo, bool) { return p.todo, p.valid }

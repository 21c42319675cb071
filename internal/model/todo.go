package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// TodoResource is the name of the collection todo records live in.
const TodoResource = "todo"

// Todo is the wire representation handed to clients.
type Todo struct {
	ID        *string `json:"id,omitempty"`
	Title     string  `json:"title"`
	Completed bool    `json:"completed"`
}

// IDString returns the wire identifier, or "" when the todo has none yet.
func (t Todo) IDString() string {
	if t.ID == nil {
		return ""
	}
	return *t.ID
}

// TodoRecord is the storage representation. ID is nil until the store assigns one.
type TodoRecord struct {
	ID        *primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	Title     string              `bson:"title" json:"title"`
	Completed bool                `bson:"completed" json:"completed"`
}

// Thing addresses a single record inside a resource.
type Thing struct {
	Resource string
	ID       primitive.ObjectID
}

func (t Thing) String() string {
	return t.Resource + ":" + t.ID.Hex()
}

// NewTodoRecord builds a record for a todo that has not been stored yet.
func NewTodoRecord(title string) TodoRecord {
	return TodoRecord{Title: title, Completed: false}
}

// ToTodo maps a stored record to its wire form.
func ToTodo(r TodoRecord) Todo {
	t := Todo{Title: r.Title, Completed: r.Completed}
	if r.ID != nil {
		id := r.ID.Hex()
		t.ID = &id
	}
	return t
}

// ToTodos maps records in order. The result is never nil.
func ToTodos(records []TodoRecord) []Todo {
	todos := make([]Todo, 0, len(records))
	for _, r := range records {
		todos = append(todos, ToTodo(r))
	}
	return todos
}

// ParseThing converts a wire identifier back to the record address it names.
// ok is false when id cannot name any stored record.
func ParseThing(resource, id string) (Thing, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return Thing{}, false
	}
	return Thing{Resource: resource, ID: oid}, true
}

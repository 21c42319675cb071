package repository

import (
	"context"
	"sort"

	"github.com/jaekwang-park/todo-app/internal/model"
)

// Gateway is the persistence façade the remote operations talk to.
// Records are addressed by resource name; identifiers are assigned by the gateway on Create.
type Gateway interface {
	Select(ctx context.Context, resource string) ([]model.TodoRecord, error)
	Create(ctx context.Context, resource string, record model.TodoRecord) (model.TodoRecord, error)
	// Delete removes the addressed record. A missing record is not an error.
	Delete(ctx context.Context, thing model.Thing) error
}

// sortByID orders records by identifier, which for ObjectIDs is creation order.
func sortByID(records []model.TodoRecord) {
	sort.Slice(records, func(i, j int) bool {
		a, b := records[i].ID, records[j].ID
		if a == nil || b == nil {
			return b != nil
		}
		return a.Hex() < b.Hex()
	})
}

// document is the record body as stored by backends that keep the identifier out of band.
type document struct {
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func toDocument(r model.TodoRecord) document {
	return document{Title: r.Title, Completed: r.Completed}
}

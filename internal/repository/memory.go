package repository

import (
	"context"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jaekwang-park/todo-app/internal/model"
)

// MemoryGateway is a process-local store for local runs and tests.
type MemoryGateway struct {
	mu        sync.RWMutex
	resources map[string]map[primitive.ObjectID]model.TodoRecord
}

func NewMemory() *MemoryGateway {
	return &MemoryGateway{resources: make(map[string]map[primitive.ObjectID]model.TodoRecord)}
}

func (g *MemoryGateway) Select(ctx context.Context, resource string) ([]model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g.mu.RLock()
	defer g.mu.RUnlock()

	records := make([]model.TodoRecord, 0, len(g.resources[resource]))
	for _, r := range g.resources[resource] {
		records = append(records, r)
	}
	sortByID(records)
	return records, nil
}

func (g *MemoryGateway) Create(ctx context.Context, resource string, record model.TodoRecord) (model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TodoRecord{}, err
	}

	oid := primitive.NewObjectID()
	record.ID = &oid

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.resources[resource] == nil {
		g.resources[resource] = make(map[primitive.ObjectID]model.TodoRecord)
	}
	g.resources[resource][oid] = record
	return record, nil
}

func (g *MemoryGateway) Delete(ctx context.Context, thing model.Thing) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	delete(g.resources[thing.Resource], thing.ID)
	return nil
}

var _ Gateway = (*MemoryGateway)(nil)

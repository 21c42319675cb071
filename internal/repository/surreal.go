package repository

import (
	"context"
	"errors"
	"fmt"

	surrealdb "github.com/surrealdb/surrealdb.go"
	"github.com/surrealdb/surrealdb.go/pkg/models"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jaekwang-park/todo-app/internal/model"
)

// ConnectSurreal opens the rpc connection, signs in and selects namespace and database.
func ConnectSurreal(url, user, password, namespace, database string) (*surrealdb.DB, error) {
	db, err := surrealdb.New(url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to surrealdb: %w", err)
	}
	if _, err := db.SignIn(&surrealdb.Auth{Username: user, Password: password}); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to sign in to surrealdb: %w", err)
	}
	if err := db.Use(namespace, database); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to use %s/%s: %w", namespace, database, err)
	}
	return db, nil
}

// surrealRecord is a row as the database returns it; the id is a table:key record id.
type surrealRecord struct {
	ID        *models.RecordID `json:"id,omitempty"`
	Title     string           `json:"title"`
	Completed bool             `json:"completed"`
}

// SurrealGateway maps each resource to a table. Record keys are ObjectID hex strings.
// The client calls take no context, so ctx is only checked before each call.
type SurrealGateway struct {
	db *surrealdb.DB
}

func NewSurreal(db *surrealdb.DB) *SurrealGateway {
	return &SurrealGateway{db: db}
}

// Ping runs a trivial query, for readiness checks.
func (g *SurrealGateway) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := surrealdb.Query[any](g.db, "RETURN true", nil); err != nil {
		return fmt.Errorf("failed to ping surrealdb: %w", err)
	}
	return nil
}

func (g *SurrealGateway) Select(ctx context.Context, resource string) ([]model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	rows, err := surrealdb.Select[[]surrealRecord](g.db, models.Table(resource))
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", resource, err)
	}

	records := []model.TodoRecord{}
	if rows == nil {
		return records, nil
	}
	for _, row := range *rows {
		record, err := fromSurreal(row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sortByID(records)
	return records, nil
}

func (g *SurrealGateway) Create(ctx context.Context, resource string, record model.TodoRecord) (model.TodoRecord, error) {
	if err := ctx.Err(); err != nil {
		return model.TodoRecord{}, err
	}

	oid := primitive.NewObjectID()
	if _, err := surrealdb.Create[surrealRecord](g.db, models.NewRecordID(resource, oid.Hex()), toDocument(record)); err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to create %s: %w", resource, err)
	}

	record.ID = &oid
	return record, nil
}

func (g *SurrealGateway) Delete(ctx context.Context, thing model.Thing) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if _, err := surrealdb.Delete[surrealRecord](g.db, toSurrealID(thing)); err != nil {
		return fmt.Errorf("failed to delete %s: %w", thing, err)
	}
	return nil
}

func toSurrealID(thing model.Thing) models.RecordID {
	return models.NewRecordID(thing.Resource, thing.ID.Hex())
}

func fromSurreal(row surrealRecord) (model.TodoRecord, error) {
	if row.ID == nil {
		return model.TodoRecord{}, errors.New("record without id")
	}
	key, ok := row.ID.ID.(string)
	if !ok {
		return model.TodoRecord{}, fmt.Errorf("invalid record id %v", row.ID.ID)
	}
	oid, err := primitive.ObjectIDFromHex(key)
	if err != nil {
		return model.TodoRecord{}, fmt.Errorf("invalid record id %q: %w", key, err)
	}
	return model.TodoRecord{ID: &oid, Title: row.Title, Completed: row.Completed}, nil
}

var _ Gateway = (*SurrealGateway)(nil)

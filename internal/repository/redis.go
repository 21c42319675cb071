package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/jaekwang-park/todo-app/internal/model"
)

// RedisGateway keeps one hash per resource: field = record id, value = JSON body.
type RedisGateway struct {
	rc     *redis.Client
	prefix string
}

func NewRedis(rc *redis.Client, prefix string) *RedisGateway {
	return &RedisGateway{rc: rc, prefix: prefix}
}

func (g *RedisGateway) key(resource string) string {
	return g.prefix + ":" + resource
}

func (g *RedisGateway) Select(ctx context.Context, resource string) ([]model.TodoRecord, error) {
	fields, err := g.rc.HGetAll(ctx, g.key(resource)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", resource, err)
	}

	records := make([]model.TodoRecord, 0, len(fields))
	for id, body := range fields {
		record, err := decodeRecord(id, []byte(body))
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	sortByID(records)
	return records, nil
}

func (g *RedisGateway) Create(ctx context.Context, resource string, record model.TodoRecord) (model.TodoRecord, error) {
	body, err := json.Marshal(toDocument(record))
	if err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to encode record: %w", err)
	}

	oid := primitive.NewObjectID()
	if err := g.rc.HSet(ctx, g.key(resource), oid.Hex(), body).Err(); err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to create %s: %w", resource, err)
	}

	record.ID = &oid
	return record, nil
}

func (g *RedisGateway) Delete(ctx context.Context, thing model.Thing) error {
	if err := g.rc.HDel(ctx, g.key(thing.Resource), thing.ID.Hex()).Err(); err != nil {
		return fmt.Errorf("failed to delete %s: %w", thing, err)
	}
	return nil
}

var _ Gateway = (*RedisGateway)(nil)

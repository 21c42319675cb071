package repository

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/jaekwang-park/todo-app/internal/model"
)

// ConnectMongo connects, authenticates and verifies the server is reachable.
func ConnectMongo(ctx context.Context, uri string) (*mongo.Client, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}
	return client, nil
}

// MongoGateway maps each resource to a collection of the selected database.
type MongoGateway struct {
	db *mongo.Database
}

func NewMongo(db *mongo.Database) *MongoGateway {
	return &MongoGateway{db: db}
}

func (g *MongoGateway) Select(ctx context.Context, resource string) ([]model.TodoRecord, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: 1}})

	cur, err := g.db.Collection(resource).Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to select %s: %w", resource, err)
	}

	records := []model.TodoRecord{}
	if err := cur.All(ctx, &records); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", resource, err)
	}
	return records, nil
}

func (g *MongoGateway) Create(ctx context.Context, resource string, record model.TodoRecord) (model.TodoRecord, error) {
	record.ID = nil

	res, err := g.db.Collection(resource).InsertOne(ctx, record)
	if err != nil {
		return model.TodoRecord{}, fmt.Errorf("failed to create %s: %w", resource, err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return model.TodoRecord{}, fmt.Errorf("unexpected inserted id type %T", res.InsertedID)
	}
	record.ID = &oid
	return record, nil
}

func (g *MongoGateway) Delete(ctx context.Context, thing model.Thing) error {
	if _, err := g.db.Collection(thing.Resource).DeleteOne(ctx, bson.M{"_id": thing.ID}); err != nil {
		return fmt.Errorf("failed to delete %s: %w", thing, err)
	}
	return nil
}

var _ Gateway = (*MongoGateway)(nil)

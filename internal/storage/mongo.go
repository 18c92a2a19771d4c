package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/serhatcanunal1/btk-urun-analiz/internal/config"
	"github.com/serhatcanunal1/btk-urun-analiz/internal/types"
)

// MongoStore keeps analyses in two collections, products and
// comparisons, keyed by _id. Saves are upserts so re-analyzing a
// product replaces the previous document.
type MongoStore struct {
	client      *mongo.Client
	products    *mongo.Collection
	comparisons *mongo.Collection
	timeout     time.Duration
	logger      *slog.Logger
}

// NewMongoStore connects and pings the server.
func NewMongoStore(cfg config.Storage, logger *slog.Logger) (*MongoStore, error) {
	timeout := cfg.MongoTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, fmt.Errorf("mongodb connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongodb ping: %w", err)
	}

	db := client.Database(cfg.MongoDB)
	return &MongoStore{
		client:      client,
		products:    db.Collection("products"),
		comparisons: db.Collection("comparisons"),
		timeout:     timeout,
		logger:      logger.With("component", "mongo_store"),
	}, nil
}

func (s *MongoStore) Name() string { return "mongodb" }

func (s *MongoStore) SaveProduct(id string, analysis *types.ProductAnalysis) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	doc := bson.M{"_id": id, "analysis": analysis}
	_, err := s.products.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	s.logger.Debug("product saved", "id", id)
	return nil
}

func (s *MongoStore) SaveComparison(id string, cmp *types.ComparisonResult) error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	doc := bson.M{"_id": id, "comparison": cmp}
	_, err := s.comparisons.ReplaceOne(ctx, bson.M{"_id": id}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	return nil
}

func (s *MongoStore) GetProduct(id string) (*types.ProductAnalysis, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	var doc struct {
		Analysis types.ProductAnalysis `bson:"analysis"`
	}
	err := s.products.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, &types.StorageError{Backend: s.Name(), Key: id, Err: types.ErrNotFound}
	}
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Key: id, Err: err}
	}
	return &doc.Analysis, nil
}

func (s *MongoStore) ListProductIDs() ([]string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()

	cursor, err := s.products.Find(ctx, bson.M{}, options.Find().SetProjection(bson.M{"_id": 1}))
	if err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Key: "", Err: err}
	}
	defer cursor.Close(ctx)

	var ids []string
	for cursor.Next(ctx) {
		var doc struct {
			ID string `bson:"_id"`
		}
		if err := cursor.Decode(&doc); err != nil {
			return nil, &types.StorageError{Backend: s.Name(), Key: "", Err: err}
		}
		ids = append(ids, doc.ID)
	}
	if err := cursor.Err(); err != nil {
		return nil, &types.StorageError{Backend: s.Name(), Key: "", Err: err}
	}
	return ids, nil
}

func (s *MongoStore) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	return s.client.Disconnect(ctx)
}

package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/edoctorat/backend/config"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"
)

// DB holds the collection handles. Connected once at startup and passed
// to the repositories; nothing here reconnects per request.
type DB struct {
	client      *mongo.Client
	Users       *mongo.Collection
	Groups      *mongo.Collection
	Professeurs *mongo.Collection
	Candidats   *mongo.Collection
}

func Connect(ctx context.Context, cfg config.Config) (*DB, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1)
	opts := options.Client().ApplyURI(cfg.MongoURI).SetServerAPIOptions(serverAPI)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	db := client.Database(cfg.DatabaseName)
	return &DB{
		client:      client,
		Users:       db.Collection("users"),
		Groups:      db.Collection("groups"),
		Professeurs: db.Collection("professeurs"),
		Candidats:   db.Collection("candidats"),
	}, nil
}

func (db *DB) Disconnect(ctx context.Context) error {
	return db.client.Disconnect(ctx)
}

// EnsureIndexes creates the uniqueness constraints the registration flow
// relies on: concurrent registrations for one email are resolved here,
// the loser surfaces as a duplicate-key error.
func (db *DB) EnsureIndexes(ctx context.Context) error {
	unique := options.Index().SetUnique(true)

	_, err := db.Users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: unique},
		{Keys: bson.D{{Key: "username", Value: 1}}, Options: unique},
	})
	if err != nil {
		return fmt.Errorf("users indexes: %w", err)
	}

	_, err = db.Groups.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "name", Value: 1}}, Options: unique,
	})
	if err != nil {
		return fmt.Errorf("groups index: %w", err)
	}

	for _, col := range []*mongo.Collection{db.Professeurs, db.Candidats} {
		_, err = col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "username", Value: 1}}, Options: unique,
		})
		if err != nil {
			return fmt.Errorf("%s index: %w", col.Name(), err)
		}
	}
	return nil
}

func IsDuplicateKey(err error) bool {
	var we mongo.WriteException
	if errors.As(err, &we) {
		for _, e := range we.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	var bwe mongo.BulkWriteException
	if errors.As(err, &bwe) {
		for _, e := range bwe.WriteErrors {
			if e.Code == 11000 || e.Code == 11001 {
				return true
			}
		}
	}

	// Fallback
	return strings.Contains(err.Error(), "E11000 duplicate key error")
}

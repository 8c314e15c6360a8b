package mongo

import (
	"context"
	"log"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/env"
)

const (
	duplicateError = 11000
)

// Provider implements db.Provider against a MongoDB database
type Provider struct {
	connectionURI string
	databaseName  string
	client        *mongo.Client
}

// NewProvider creates a new provider and loads values in from the environment
func NewProvider() (*Provider, error) {
	connectionURI, err := env.GetEnv("database connection URI", "MONGO_DB_URI")
	if err != nil {
		return nil, err
	}

	dbName, err := env.GetEnv("database name", "MONGO_DB_NAME")
	if err != nil {
		return nil, err
	}

	return &Provider{
		connectionURI: connectionURI,
		databaseName:  dbName,
		client:        nil,
	}, nil
}

// Connect connects to the database and pings the primary
// to make sure the connection is usable
func (p *Provider) Connect(ctx context.Context) error {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(p.connectionURI))
	if err != nil {
		return err
	}

	// Ping the primary
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		return err
	}

	p.client = client

	// Initialize any collections/indices
	err = p.initialize(ctx)
	if err != nil {
		return err
	}

	return nil
}

// Disconnect tears down the connection to the database
func (p *Provider) Disconnect(ctx context.Context) error {
	err := p.client.Disconnect(ctx)
	if err != nil {
		return err
	}

	return nil
}

// Create anything needed for the database,
// like indices
func (p *Provider) initialize(ctx context.Context) error {
	log.Println("initializing the MongoDB database")

	// Account emails are unique
	_, err := p.users().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return err
	}

	// The dashboard sorts and the analytics group on these dates
	_, err = p.submissions().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.M{"submissionDate": -1},
	})
	if err != nil {
		return err
	}

	return nil
}

func (p *Provider) submissions() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("foodSubmissions")
}

func (p *Provider) foods() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("foods")
}

func (p *Provider) recipes() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("recipes")
}

func (p *Provider) elderDonations() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("elderDonations")
}

func (p *Provider) schoolDonations() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("schoolDonations")
}

func (p *Provider) users() *mongo.Collection {
	return p.client.Database(p.databaseName).Collection("users")
}

// objectID parses a caller-supplied hex ID.
// An unparseable ID can never resolve to a document,
// so it surfaces as a not-found.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, db.NewNotFoundError(id)
	}

	return oid, nil
}

// isDuplicate detects if the given write exception is caused (in part)
// by a duplicate key error
func isDuplicate(writeException mongo.WriteException) bool {
	for _, writeError := range writeException.WriteErrors {
		if writeError.Code == duplicateError {
			return true
		}
	}

	return false
}

package mongo

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
)

// GetFood looks up a single food document by its hex ID
func (p *Provider) GetFood(ctx context.Context, id string) (*types.Food, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	result := p.foods().FindOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if result.Err() == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}

	var food types.Food
	err = result.Decode(&food)
	if err != nil {
		return nil, errors.Wrap(err, "decoding food")
	}

	return &food, nil
}

// GetAllFoods fetches every food document, sorted by name
func (p *Provider) GetAllFoods(ctx context.Context) ([]types.Food, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "name", Value: 1}})

	cursor, err := p.foods().Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "finding foods")
	}

	var foods []types.Food
	err = cursor.All(ctx, &foods)
	if err != nil {
		return nil, errors.Wrap(err, "decoding foods")
	}

	// Return non-nil slice so JSON serialization is nice
	if foods == nil {
		return []types.Food{}, nil
	}

	return foods, nil
}

// CreateFood persists a new food document and returns it with its assigned ID
func (p *Provider) CreateFood(ctx context.Context, food types.Food) (*types.Food, error) {
	result, err := p.foods().InsertOne(ctx, food)
	if err != nil {
		return nil, errors.Wrap(err, "inserting food")
	}

	food.ID = result.InsertedID.(primitive.ObjectID)
	return &food, nil
}

// UpdateFood applies a partial update to an existing food document
func (p *Provider) UpdateFood(ctx context.Context, id string,
	update map[string]interface{}) (*types.Food, error) {

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	// Construct the patch query from the map
	updateDocument := bson.D{}
	for key, value := range update {
		updateDocument = append(updateDocument, bson.E{Key: key, Value: value})
	}
	updateDocument = append(updateDocument, bson.E{Key: "updatedAt", Value: time.Now()})

	filter := bson.D{{Key: "_id", Value: oid}}
	updateQuery := bson.D{{Key: "$set", Value: updateDocument}}
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updatedFood types.Food
	err = p.foods().FindOneAndUpdate(ctx, filter, updateQuery, updateOptions).
		Decode(&updatedFood)
	if err == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating food")
	}

	return &updatedFood, nil
}

// DeleteFood removes a food document by its hex ID
func (p *Provider) DeleteFood(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := p.foods().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrap(err, "deleting food")
	}

	if result.DeletedCount == 0 {
		return db.NewNotFoundError(id)
	}

	return nil
}

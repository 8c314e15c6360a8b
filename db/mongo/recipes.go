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

// GetRecipe looks up a single recipe document by its hex ID
func (p *Provider) GetRecipe(ctx context.Context, id string) (*types.Recipe, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	result := p.recipes().FindOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if result.Err() == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}

	var recipe types.Recipe
	err = result.Decode(&recipe)
	if err != nil {
		return nil, errors.Wrap(err, "decoding recipe")
	}

	return &recipe, nil
}

// GetAllRecipes fetches every recipe document, sorted by title
func (p *Provider) GetAllRecipes(ctx context.Context) ([]types.Recipe, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "title", Value: 1}})

	cursor, err := p.recipes().Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "finding recipes")
	}

	var recipes []types.Recipe
	err = cursor.All(ctx, &recipes)
	if err != nil {
		return nil, errors.Wrap(err, "decoding recipes")
	}

	// Return non-nil slice so JSON serialization is nice
	if recipes == nil {
		return []types.Recipe{}, nil
	}

	return recipes, nil
}

// CreateRecipe persists a new recipe document and returns it with its assigned ID
func (p *Provider) CreateRecipe(ctx context.Context, recipe types.Recipe) (*types.Recipe, error) {
	result, err := p.recipes().InsertOne(ctx, recipe)
	if err != nil {
		return nil, errors.Wrap(err, "inserting recipe")
	}

	recipe.ID = result.InsertedID.(primitive.ObjectID)
	return &recipe, nil
}

// UpdateRecipe applies a partial update to an existing recipe document
func (p *Provider) UpdateRecipe(ctx context.Context, id string,
	update map[string]interface{}) (*types.Recipe, error) {

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

	var updatedRecipe types.Recipe
	err = p.recipes().FindOneAndUpdate(ctx, filter, updateQuery, updateOptions).
		Decode(&updatedRecipe)
	if err == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating recipe")
	}

	return &updatedRecipe, nil
}

// DeleteRecipe removes a recipe document by its hex ID
func (p *Provider) DeleteRecipe(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := p.recipes().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrap(err, "deleting recipe")
	}

	if result.DeletedCount == 0 {
		return db.NewNotFoundError(id)
	}

	return nil
}

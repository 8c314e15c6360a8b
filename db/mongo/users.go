package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
)

// GetUserByEmail looks up a single account by its (unique) email
func (p *Provider) GetUserByEmail(ctx context.Context, email string) (*types.User, error) {
	result := p.users().FindOne(ctx, bson.D{{Key: "email", Value: email}})
	if result.Err() == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(email)
	}

	var user types.User
	err := result.Decode(&user)
	if err != nil {
		return nil, errors.Wrap(err, "decoding user")
	}

	return &user, nil
}

// CreateUser persists a new account,
// surfacing an email collision as a db.DuplicateEmailError
func (p *Provider) CreateUser(ctx context.Context, user types.User) (*types.User, error) {
	result, err := p.users().InsertOne(ctx, user)
	if err != nil {
		// Handle known cases (such as when the email was duplicate)
		if writeException, ok := err.(mongo.WriteException); ok && isDuplicate(writeException) {
			return nil, db.NewDuplicateEmailError(user.Email)
		}

		return nil, errors.Wrap(err, "inserting user")
	}

	user.ID = result.InsertedID.(primitive.ObjectID)
	return &user, nil
}

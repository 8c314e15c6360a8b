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

// GetAllElderDonations fetches every elder donation request, newest first
func (p *Provider) GetAllElderDonations(ctx context.Context) ([]types.ElderDonation, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := p.elderDonations().Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "finding elder donations")
	}

	var donations []types.ElderDonation
	err = cursor.All(ctx, &donations)
	if err != nil {
		return nil, errors.Wrap(err, "decoding elder donations")
	}

	// Return non-nil slice so JSON serialization is nice
	if donations == nil {
		return []types.ElderDonation{}, nil
	}

	return donations, nil
}

// CreateElderDonation persists a new elder donation request
func (p *Provider) CreateElderDonation(ctx context.Context,
	donation types.ElderDonation) (*types.ElderDonation, error) {

	result, err := p.elderDonations().InsertOne(ctx, donation)
	if err != nil {
		return nil, errors.Wrap(err, "inserting elder donation")
	}

	donation.ID = result.InsertedID.(primitive.ObjectID)
	return &donation, nil
}

// SetElderDonationApproval flips the approved flag on an elder donation request
func (p *Provider) SetElderDonationApproval(ctx context.Context, id string,
	approved bool) (*types.ElderDonation, error) {

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.D{{Key: "_id", Value: oid}}
	updateQuery := bson.D{{Key: "$set", Value: bson.D{{Key: "approved", Value: approved}}}}
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated types.ElderDonation
	err = p.elderDonations().FindOneAndUpdate(ctx, filter, updateQuery, updateOptions).
		Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating elder donation")
	}

	return &updated, nil
}

// DeleteElderDonation removes an elder donation request by its hex ID
func (p *Provider) DeleteElderDonation(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := p.elderDonations().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrap(err, "deleting elder donation")
	}

	if result.DeletedCount == 0 {
		return db.NewNotFoundError(id)
	}

	return nil
}

// GetAllSchoolDonations fetches every school donation request, newest first
func (p *Provider) GetAllSchoolDonations(ctx context.Context) ([]types.SchoolDonation, error) {
	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "createdAt", Value: -1}})

	cursor, err := p.schoolDonations().Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "finding school donations")
	}

	var donations []types.SchoolDonation
	err = cursor.All(ctx, &donations)
	if err != nil {
		return nil, errors.Wrap(err, "decoding school donations")
	}

	// Return non-nil slice so JSON serialization is nice
	if donations == nil {
		return []types.SchoolDonation{}, nil
	}

	return donations, nil
}

// CreateSchoolDonation persists a new school donation request
func (p *Provider) CreateSchoolDonation(ctx context.Context,
	donation types.SchoolDonation) (*types.SchoolDonation, error) {

	result, err := p.schoolDonations().InsertOne(ctx, donation)
	if err != nil {
		return nil, errors.Wrap(err, "inserting school donation")
	}

	donation.ID = result.InsertedID.(primitive.ObjectID)
	return &donation, nil
}

// SetSchoolDonationApproval flips the approved flag on a school donation request
func (p *Provider) SetSchoolDonationApproval(ctx context.Context, id string,
	approved bool) (*types.SchoolDonation, error) {

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.D{{Key: "_id", Value: oid}}
	updateQuery := bson.D{{Key: "$set", Value: bson.D{
		{Key: "approved", Value: approved},
		{Key: "updatedAt", Value: time.Now()},
	}}}
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated types.SchoolDonation
	err = p.schoolDonations().FindOneAndUpdate(ctx, filter, updateQuery, updateOptions).
		Decode(&updated)
	if err == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating school donation")
	}

	return &updated, nil
}

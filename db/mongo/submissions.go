package mongo

import (
	"context"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
)

// GetSubmission looks up a single submission document by its hex ID
func (p *Provider) GetSubmission(ctx context.Context, id string) (*types.Submission, error) {
	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	result := p.submissions().FindOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if result.Err() == mongo.ErrNoDocuments {
		return nil, db.NewNotFoundError(id)
	}

	var submission types.Submission
	err = result.Decode(&submission)
	if err != nil {
		return nil, errors.Wrap(err, "decoding submission")
	}

	return &submission, nil
}

// CreateSubmission persists a new submission document
func (p *Provider) CreateSubmission(ctx context.Context, submission types.Submission) error {
	_, err := p.submissions().InsertOne(ctx, submission)
	if err != nil {
		return errors.Wrap(err, "inserting submission")
	}

	return nil
}

// UpdateSubmission replaces the mutable fields of an existing submission.
// The status change is checked against the transition table and the write
// is a compare-and-swap on the stored version counter;
// a stale version surfaces as a db.ConflictError.
func (p *Provider) UpdateSubmission(ctx context.Context, id string,
	update types.SubmissionCreate) (*types.Submission, error) {

	current, err := p.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(update.Status) {
		return nil, types.NewInvalidTransitionError(current.Status, update.Status)
	}

	description := update.Description
	if description == "" {
		description = types.DefaultDescription
	}

	set := bson.D{
		{Key: "title", Value: update.Title},
		{Key: "description", Value: description},
		{Key: "status", Value: update.Status},
		{Key: "location", Value: *update.Location},
		{Key: "images", Value: update.Images},
	}
	if update.DeliveryDate != nil {
		set = append(set, bson.E{Key: "deliveryDate", Value: *update.DeliveryDate})
	}
	if update.FoodLifeTime != nil {
		set = append(set, bson.E{Key: "foodLifeTime", Value: *update.FoodLifeTime})
	}

	return p.casSubmission(ctx, id, current.Version, set)
}

// SubmitSubmission applies the restricted submit transition,
// touching only the status and shelf life fields
func (p *Provider) SubmitSubmission(ctx context.Context, id string,
	status types.Status, foodLifeTime float64) (*types.Submission, error) {

	current, err := p.GetSubmission(ctx, id)
	if err != nil {
		return nil, err
	}

	if !current.Status.CanTransitionTo(status) {
		return nil, types.NewInvalidTransitionError(current.Status, status)
	}

	set := bson.D{
		{Key: "status", Value: status},
		{Key: "foodLifeTime", Value: foodLifeTime},
	}

	return p.casSubmission(ctx, id, current.Version, set)
}

// casSubmission performs a conditional $set against the document's version,
// bumping the version on success
func (p *Provider) casSubmission(ctx context.Context, id string,
	version int64, set bson.D) (*types.Submission, error) {

	oid, err := objectID(id)
	if err != nil {
		return nil, err
	}

	filter := bson.D{{Key: "_id", Value: oid}, {Key: "version", Value: version}}
	updateQuery := bson.D{
		{Key: "$set", Value: set},
		{Key: "$inc", Value: bson.D{{Key: "version", Value: 1}}},
	}
	updateOptions := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var updated types.Submission
	err = p.submissions().FindOneAndUpdate(ctx, filter, updateQuery, updateOptions).
		Decode(&updated)
	if err == mongo.ErrNoDocuments {
		// Either the document vanished or another writer got there first
		count, countErr := p.submissions().CountDocuments(ctx, bson.D{{Key: "_id", Value: oid}})
		if countErr == nil && count > 0 {
			return nil, db.NewConflictError(id)
		}
		return nil, db.NewNotFoundError(id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "updating submission")
	}

	return &updated, nil
}

// DeleteSubmission removes a submission document by its hex ID
func (p *Provider) DeleteSubmission(ctx context.Context, id string) error {
	oid, err := objectID(id)
	if err != nil {
		return err
	}

	result, err := p.submissions().DeleteOne(ctx, bson.D{{Key: "_id", Value: oid}})
	if err != nil {
		return errors.Wrap(err, "deleting submission")
	}

	if result.DeletedCount == 0 {
		return db.NewNotFoundError(id)
	}

	return nil
}

// CountSubmissions counts every submission document
func (p *Provider) CountSubmissions(ctx context.Context) (int64, error) {
	return p.submissions().CountDocuments(ctx, bson.D{})
}

// CountSubmissionsByStatus counts the submission documents in one status
func (p *Provider) CountSubmissionsByStatus(ctx context.Context,
	status types.Status) (int64, error) {

	return p.submissions().CountDocuments(ctx, bson.D{{Key: "status", Value: status}})
}

// GetRecentSubmissions fetches the most recently submitted documents,
// newest first, projected down to the dashboard table fields
func (p *Provider) GetRecentSubmissions(ctx context.Context,
	limit int64) ([]types.Submission, error) {

	findOptions := options.Find()
	findOptions.SetSort(bson.D{{Key: "submissionDate", Value: -1}})
	findOptions.SetLimit(limit)
	findOptions.SetProjection(bson.D{
		{Key: "submissionDate", Value: 1},
		{Key: "status", Value: 1},
		{Key: "deliveryDate", Value: 1},
	})

	cursor, err := p.submissions().Find(ctx, bson.D{}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "finding recent submissions")
	}

	var submissions []types.Submission
	err = cursor.All(ctx, &submissions)
	if err != nil {
		return nil, errors.Wrap(err, "decoding recent submissions")
	}

	// Return non-nil slice so JSON serialization is nice
	if submissions == nil {
		return []types.Submission{}, nil
	}

	return submissions, nil
}

// GetSubmissionsByStatus fetches every submission in one status,
// projected down to the triage card fields
func (p *Provider) GetSubmissionsByStatus(ctx context.Context,
	status types.Status) ([]types.Submission, error) {

	findOptions := options.Find()
	findOptions.SetProjection(bson.D{
		{Key: "_id", Value: 1},
		{Key: "images", Value: 1},
		{Key: "description", Value: 1},
	})

	cursor, err := p.submissions().Find(ctx, bson.D{{Key: "status", Value: status}}, findOptions)
	if err != nil {
		return nil, errors.Wrap(err, "finding submissions by status")
	}

	var submissions []types.Submission
	err = cursor.All(ctx, &submissions)
	if err != nil {
		return nil, errors.Wrap(err, "decoding submissions by status")
	}

	// Return non-nil slice so JSON serialization is nice
	if submissions == nil {
		return []types.Submission{}, nil
	}

	return submissions, nil
}

// MonthlySubmissionCounts groups the submissions in one status
// by the calendar month of their submission date
func (p *Provider) MonthlySubmissionCounts(ctx context.Context,
	status types.Status) ([]types.MonthlyCount, error) {

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "status", Value: status}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$month", Value: "$submissionDate"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	return p.aggregateMonthly(ctx, pipeline)
}

// MonthlyDeliveryCounts groups the submissions carrying a delivery date
// by the calendar month of that date
func (p *Provider) MonthlyDeliveryCounts(ctx context.Context) ([]types.MonthlyCount, error) {
	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "deliveryDate", Value: bson.D{{Key: "$exists", Value: true}}}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{{Key: "$month", Value: "$deliveryDate"}}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id", Value: 1}}}},
	}

	return p.aggregateMonthly(ctx, pipeline)
}

func (p *Provider) aggregateMonthly(ctx context.Context,
	pipeline mongo.Pipeline) ([]types.MonthlyCount, error) {

	cursor, err := p.submissions().Aggregate(ctx, pipeline)
	if err != nil {
		return nil, errors.Wrap(err, "aggregating monthly counts")
	}

	var counts []types.MonthlyCount
	err = cursor.All(ctx, &counts)
	if err != nil {
		return nil, errors.Wrap(err, "decoding monthly counts")
	}

	// Return non-nil slice so JSON serialization is nice
	if counts == nil {
		return []types.MonthlyCount{}, nil
	}

	return counts, nil
}

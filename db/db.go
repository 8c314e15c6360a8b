package db

import (
	"context"

	"github.com/hunger-busters/hunger-busters-api/types"
)

// Provider represents a database provider implementation
type Provider interface {
	Connect(ctx context.Context) error
	Disconnect(ctx context.Context) error

	SubmissionProvider
	FoodProvider
	RecipeProvider
	ElderDonationProvider
	SchoolDonationProvider
	UserProvider
}

// SubmissionProvider provides lifecycle and aggregation operations
// for types.Submission documents
type SubmissionProvider interface {
	GetSubmission(ctx context.Context, id string) (*types.Submission, error)
	CreateSubmission(ctx context.Context, submission types.Submission) error
	UpdateSubmission(ctx context.Context, id string, update types.SubmissionCreate) (*types.Submission, error)
	SubmitSubmission(ctx context.Context, id string, status types.Status, foodLifeTime float64) (*types.Submission, error)
	DeleteSubmission(ctx context.Context, id string) error

	CountSubmissions(ctx context.Context) (int64, error)
	CountSubmissionsByStatus(ctx context.Context, status types.Status) (int64, error)
	GetRecentSubmissions(ctx context.Context, limit int64) ([]types.Submission, error)
	GetSubmissionsByStatus(ctx context.Context, status types.Status) ([]types.Submission, error)
	MonthlySubmissionCounts(ctx context.Context, status types.Status) ([]types.MonthlyCount, error)
	MonthlyDeliveryCounts(ctx context.Context) ([]types.MonthlyCount, error)
}

// FoodProvider provides CRUD operations for types.Food documents
type FoodProvider interface {
	GetFood(ctx context.Context, id string) (*types.Food, error)
	GetAllFoods(ctx context.Context) ([]types.Food, error)
	CreateFood(ctx context.Context, food types.Food) (*types.Food, error)
	UpdateFood(ctx context.Context, id string, update map[string]interface{}) (*types.Food, error)
	DeleteFood(ctx context.Context, id string) error
}

// RecipeProvider provides CRUD operations for types.Recipe documents
type RecipeProvider interface {
	GetRecipe(ctx context.Context, id string) (*types.Recipe, error)
	GetAllRecipes(ctx context.Context) ([]types.Recipe, error)
	CreateRecipe(ctx context.Context, recipe types.Recipe) (*types.Recipe, error)
	UpdateRecipe(ctx context.Context, id string, update map[string]interface{}) (*types.Recipe, error)
	DeleteRecipe(ctx context.Context, id string) error
}

// ElderDonationProvider provides operations for types.ElderDonation documents
type ElderDonationProvider interface {
	GetAllElderDonations(ctx context.Context) ([]types.ElderDonation, error)
	CreateElderDonation(ctx context.Context, donation types.ElderDonation) (*types.ElderDonation, error)
	SetElderDonationApproval(ctx context.Context, id string, approved bool) (*types.ElderDonation, error)
	DeleteElderDonation(ctx context.Context, id string) error
}

// SchoolDonationProvider provides operations for types.SchoolDonation documents
type SchoolDonationProvider interface {
	GetAllSchoolDonations(ctx context.Context) ([]types.SchoolDonation, error)
	CreateSchoolDonation(ctx context.Context, donation types.SchoolDonation) (*types.SchoolDonation, error)
	SetSchoolDonationApproval(ctx context.Context, id string, approved bool) (*types.SchoolDonation, error)
}

// UserProvider provides operations for types.User documents
type UserProvider interface {
	GetUserByEmail(ctx context.Context, email string) (*types.User, error)
	CreateUser(ctx context.Context, user types.User) (*types.User, error)
}

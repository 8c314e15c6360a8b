package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RecipeNutrition is the per-serving nutrition summary of a recipe
type RecipeNutrition struct {
	Kcal      float64 `json:"kcal" bson:"kcal"`
	Fat       float64 `json:"fat" bson:"fat"`
	Saturates float64 `json:"saturates" bson:"saturates"`
	Carbs     float64 `json:"carbs" bson:"carbs"`
	Sugars    float64 `json:"sugars" bson:"sugars"`
	Fibre     float64 `json:"fibre" bson:"fibre"`
	Protein   float64 `json:"protein" bson:"protein"`
	Salt      float64 `json:"salt" bson:"salt"`
}

// Recipe is the document stored in MongoDB for a single recipe
type Recipe struct {
	ID          primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title       string             `json:"title" bson:"title"`
	PrepTime    string             `json:"prepTime" bson:"prepTime"`
	CookTime    string             `json:"cookTime" bson:"cookTime"`
	Difficulty  string             `json:"difficulty" bson:"difficulty"`
	Servings    int                `json:"servings" bson:"servings"`
	Description string             `json:"description" bson:"description"`
	Nutrition   RecipeNutrition    `json:"nutrition" bson:"nutrition"`
	Ingredients []string           `json:"ingredients" bson:"ingredients"`
	Method      []string           `json:"method" bson:"method"`
	VideoLink   string             `json:"videoLink,omitempty" bson:"videoLink,omitempty"`
	Image       string             `json:"image" bson:"image"`
	CreatedAt   time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// RecipeCreate is the request payload for adding a recipe
type RecipeCreate struct {
	Title       string          `json:"title"`
	PrepTime    string          `json:"prepTime"`
	CookTime    string          `json:"cookTime"`
	Difficulty  string          `json:"difficulty"`
	Servings    *int            `json:"servings"`
	Description string          `json:"description"`
	Nutrition   RecipeNutrition `json:"nutrition"`
	Ingredients []string        `json:"ingredients"`
	Method      []string        `json:"method"`
	VideoLink   string          `json:"videoLink"`
	Image       string          `json:"image"`
}

// Validate checks that every required recipe field is present
func (c *RecipeCreate) Validate() error {
	if c.Title == "" {
		return NewValidationError("Title is required.")
	}
	if c.PrepTime == "" {
		return NewValidationError("Prep time is required.")
	}
	if c.CookTime == "" {
		return NewValidationError("Cook time is required.")
	}
	if c.Difficulty == "" {
		return NewValidationError("Difficulty is required.")
	}
	if c.Servings == nil {
		return NewValidationError("Servings is required and must be a number.")
	}
	if c.Description == "" {
		return NewValidationError("Description is required.")
	}
	if len(c.Ingredients) == 0 {
		return NewValidationError("At least one ingredient is required.")
	}
	if len(c.Method) == 0 {
		return NewValidationError("At least one method step is required.")
	}
	if c.Image == "" {
		return NewValidationError("Image is required.")
	}

	return nil
}

// Recipe converts a validated payload into a storable document
func (c *RecipeCreate) Recipe() Recipe {
	now := time.Now()
	return Recipe{
		Title:       c.Title,
		PrepTime:    c.PrepTime,
		CookTime:    c.CookTime,
		Difficulty:  c.Difficulty,
		Servings:    *c.Servings,
		Description: c.Description,
		Nutrition:   c.Nutrition,
		Ingredients: c.Ingredients,
		Method:      c.Method,
		VideoLink:   c.VideoLink,
		Image:       c.Image,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vitamins are the optional vitamin micronutrients of a food
type Vitamins struct {
	VitaminC  float64 `json:"vitaminC" bson:"vitaminC"`
	VitaminD  float64 `json:"vitaminD" bson:"vitaminD"`
	VitaminB6 float64 `json:"vitaminB6" bson:"vitaminB6"`
	Cobalamin float64 `json:"cobalamin" bson:"cobalamin"`
}

// Minerals are the optional mineral micronutrients of a food
type Minerals struct {
	Calcium   float64 `json:"calcium" bson:"calcium"`
	Iron      float64 `json:"iron" bson:"iron"`
	Magnesium float64 `json:"magnesium" bson:"magnesium"`
}

// Food is the nutrition-facts document stored in MongoDB
type Food struct {
	ID           primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Name         string             `json:"name" bson:"name"`
	Calories     float64            `json:"calories" bson:"calories"`
	Fat          float64            `json:"fat" bson:"fat"`
	SaturatedFat float64            `json:"saturatedFat" bson:"saturatedFat"`
	Cholesterol  float64            `json:"cholesterol" bson:"cholesterol"`
	Sodium       float64            `json:"sodium" bson:"sodium"`
	Potassium    float64            `json:"potassium" bson:"potassium"`
	TotalCarbs   float64            `json:"totalCarbs" bson:"totalCarbs"`
	DietaryFiber float64            `json:"dietaryFiber" bson:"dietaryFiber"`
	Sugar        float64            `json:"sugar" bson:"sugar"`
	Protein      float64            `json:"protein" bson:"protein"`
	Vitamins     Vitamins           `json:"vitamins" bson:"vitamins"`
	Minerals     Minerals           `json:"minerals" bson:"minerals"`
	Image        string             `json:"image" bson:"image"`
	CreatedAt    time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt    time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// FoodCreate is the request payload for adding a food.
// Pointers distinguish omitted nutrition fields, all of which are required.
type FoodCreate struct {
	Name         string   `json:"name"`
	Calories     *float64 `json:"calories"`
	Fat          *float64 `json:"fat"`
	SaturatedFat *float64 `json:"saturatedFat"`
	Cholesterol  *float64 `json:"cholesterol"`
	Sodium       *float64 `json:"sodium"`
	Potassium    *float64 `json:"potassium"`
	TotalCarbs   *float64 `json:"totalCarbs"`
	DietaryFiber *float64 `json:"dietaryFiber"`
	Sugar        *float64 `json:"sugar"`
	Protein      *float64 `json:"protein"`
	Vitamins     Vitamins `json:"vitamins"`
	Minerals     Minerals `json:"minerals"`
}

// Validate checks that the name and every top-level nutrition field is present
func (c *FoodCreate) Validate() error {
	if c.Name == "" {
		return NewValidationError("Name is required.")
	}

	required := map[string]*float64{
		"calories":     c.Calories,
		"fat":          c.Fat,
		"saturatedFat": c.SaturatedFat,
		"cholesterol":  c.Cholesterol,
		"sodium":       c.Sodium,
		"potassium":    c.Potassium,
		"totalCarbs":   c.TotalCarbs,
		"dietaryFiber": c.DietaryFiber,
		"sugar":        c.Sugar,
		"protein":      c.Protein,
	}
	for _, field := range []string{
		"calories", "fat", "saturatedFat", "cholesterol", "sodium",
		"potassium", "totalCarbs", "dietaryFiber", "sugar", "protein",
	} {
		if required[field] == nil {
			return NewValidationError("Field '" + field + "' is required and must be a number.")
		}
	}

	return nil
}

// Food converts a validated payload into a storable document
// with the given stored image path
func (c *FoodCreate) Food(imagePath string) Food {
	now := time.Now()
	return Food{
		Name:         c.Name,
		Calories:     *c.Calories,
		Fat:          *c.Fat,
		SaturatedFat: *c.SaturatedFat,
		Cholesterol:  *c.Cholesterol,
		Sodium:       *c.Sodium,
		Potassium:    *c.Potassium,
		TotalCarbs:   *c.TotalCarbs,
		DietaryFiber: *c.DietaryFiber,
		Sugar:        *c.Sugar,
		Protein:      *c.Protein,
		Vitamins:     c.Vitamins,
		Minerals:     c.Minerals,
		Image:        imagePath,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

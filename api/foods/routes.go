package foods

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"

	"github.com/hunger-busters/hunger-busters-api/auth"
	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/upload"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// multipartMaxMemory bounds how much of a form is buffered in memory
const multipartMaxMemory = 32 << 20

// Routes creates a new Chi router with all of the routes for the food
// resource, at the root level
func Routes(database db.Provider, uploadProvider upload.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(database))
	router.Get("/{id}", GetSingle(database))

	// Admin-only routes
	router.Group(func(r chi.Router) {
		// Ensure the user has access
		r.Use(auth.AdminAuthenticated)

		r.Post("/add", Create(database, uploadProvider))
		r.Put("/update/{id}", Update(database, uploadProvider))
		r.Delete("/delete/{id}", Delete(database))
	})
	return router
}

// GetAll gets all foods from the database,
// with an optional fuzzy search querystring param on the name
func GetAll(foodProvider db.FoodProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.ToLower(r.URL.Query().Get("search"))

		foods, err := foodProvider.GetAllFoods(r.Context())
		if err != nil {
			util.Error(w, err)
			return
		}

		if search != "" {
			matched := []types.Food{}
			for _, food := range foods {
				if fuzzy.MatchNormalized(search, strings.ToLower(food.Name)) {
					matched = append(matched, food)
				}
			}
			foods = matched
		}

		// Return the list in a JSON object
		util.JSON(w, map[string]interface{}{
			"foods": foods,
		}, http.StatusOK)
	}
}

// GetSingle gets a single food from the database by its ID
func GetSingle(foodProvider db.FoodProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		food, err := foodProvider.GetFood(r.Context(), id)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, food, http.StatusOK)
	}
}

// Create creates a new food in the database,
// storing the attached image through the upload provider
func Create(foodProvider db.FoodProvider, uploadProvider upload.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		// Limit the read size to the configured size
		r.Body = http.MaxBytesReader(w, r.Body, uploadProvider.MaxBytes())

		err := r.ParseMultipartForm(multipartMaxMemory)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		payload, err := foodCreateFromForm(r)
		if err != nil {
			util.Error(w, err)
			return
		}

		err = payload.Validate()
		if err != nil {
			util.Error(w, err)
			return
		}

		file, header, err := r.FormFile("image")
		if err != nil {
			util.Error(w, types.NewValidationError("Image file is required."))
			return
		}
		defer file.Close()

		imagePath, err := uploadProvider.Upload(r.Context(), file, header.Filename)
		if err != nil {
			util.Error(w, err)
			return
		}

		food, err := foodProvider.CreateFood(r.Context(), payload.Food(imagePath))
		if err != nil {
			log.Error().Err(err).Msg("could not persist food")
			util.ErrorWithCode(w, errors.New("Error adding food"), http.StatusBadRequest)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message": "Food added successfully",
			"food":    food,
		}, http.StatusCreated)
	}
}

// Update updates a food in the database from the provided form fields,
// replacing the image only when a new file is attached
func Update(foodProvider db.FoodProvider, uploadProvider upload.Provider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		// Limit the read size to the configured size
		r.Body = http.MaxBytesReader(w, r.Body, uploadProvider.MaxBytes())

		err := r.ParseMultipartForm(multipartMaxMemory)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		partial, err := foodPartialFromForm(r)
		if err != nil {
			util.Error(w, err)
			return
		}

		// Update the image only if a new one was provided
		if file, header, fileErr := r.FormFile("image"); fileErr == nil {
			defer file.Close()

			imagePath, uploadErr := uploadProvider.Upload(r.Context(), file, header.Filename)
			if uploadErr != nil {
				util.Error(w, uploadErr)
				return
			}
			partial["image"] = imagePath
		}

		if len(partial) == 0 {
			util.Error(w, types.NewValidationError("No fields to update."))
			return
		}

		updated, err := foodProvider.UpdateFood(r.Context(), id, partial)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message": "Food updated successfully",
			"food":    updated,
		}, http.StatusOK)
	}
}

// Delete deletes a food in the database
func Delete(foodProvider db.FoodProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		err := foodProvider.DeleteFood(r.Context(), id)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Message(w, "Food deleted successfully", http.StatusOK)
	}
}

// nutritionFields are the required top-level numeric form fields
var nutritionFields = []string{
	"calories", "fat", "saturatedFat", "cholesterol", "sodium",
	"potassium", "totalCarbs", "dietaryFiber", "sugar", "protein",
}

// foodCreateFromForm parses the multipart form fields into a create payload
func foodCreateFromForm(r *http.Request) (*types.FoodCreate, error) {
	payload := types.FoodCreate{
		Name: strings.TrimSpace(r.FormValue("name")),
	}

	values := map[string]**float64{
		"calories":     &payload.Calories,
		"fat":          &payload.Fat,
		"saturatedFat": &payload.SaturatedFat,
		"cholesterol":  &payload.Cholesterol,
		"sodium":       &payload.Sodium,
		"potassium":    &payload.Potassium,
		"totalCarbs":   &payload.TotalCarbs,
		"dietaryFiber": &payload.DietaryFiber,
		"sugar":        &payload.Sugar,
		"protein":      &payload.Protein,
	}
	for _, field := range nutritionFields {
		value, err := parseFormFloat(r, field)
		if err != nil {
			return nil, err
		}
		*values[field] = value
	}

	// Micronutrients are optional and default to 0
	payload.Vitamins = types.Vitamins{
		VitaminC:  optionalFormFloat(r, "vitaminC"),
		VitaminD:  optionalFormFloat(r, "vitaminD"),
		VitaminB6: optionalFormFloat(r, "vitaminB6"),
		Cobalamin: optionalFormFloat(r, "cobalamin"),
	}
	payload.Minerals = types.Minerals{
		Calcium:   optionalFormFloat(r, "calcium"),
		Iron:      optionalFormFloat(r, "iron"),
		Magnesium: optionalFormFloat(r, "magnesium"),
	}

	return &payload, nil
}

// foodPartialFromForm collects only the form fields that were provided
func foodPartialFromForm(r *http.Request) (map[string]interface{}, error) {
	partial := make(map[string]interface{})

	if name := strings.TrimSpace(r.FormValue("name")); name != "" {
		partial["name"] = name
	}

	for _, field := range nutritionFields {
		value, err := parseFormFloat(r, field)
		if err != nil {
			return nil, err
		}
		if value != nil {
			partial[field] = *value
		}
	}

	return partial, nil
}

// parseFormFloat parses one numeric form field,
// returning nil when the field was omitted
func parseFormFloat(r *http.Request, field string) (*float64, error) {
	raw := strings.TrimSpace(r.FormValue(field))
	if raw == "" {
		return nil, nil
	}

	value, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, types.NewValidationError(
			fmt.Sprintf("Field '%s' must be a number.", field))
	}

	return &value, nil
}

func optionalFormFloat(r *http.Request, field string) float64 {
	value, err := parseFormFloat(r, field)
	if err != nil || value == nil {
		return 0
	}

	return *value
}

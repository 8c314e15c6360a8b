package recipes

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi"
	"github.com/lithammer/fuzzysearch/fuzzy"
	"github.com/rs/zerolog/log"

	"github.com/hunger-busters/hunger-busters-api/auth"
	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// Routes creates a new Chi router with all of the routes for the recipe
// resource, at the root level
func Routes(database db.Provider) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(database))
	router.Get("/{id}", GetSingle(database))

	// Admin-only routes
	router.Group(func(r chi.Router) {
		// Ensure the user has access
		r.Use(auth.AdminAuthenticated)

		r.Post("/add", Create(database))
		r.Put("/update/{id}", Update(database))
		r.Delete("/delete/{id}", Delete(database))
	})
	return router
}

// GetAll gets all recipes from the database,
// with an optional fuzzy search querystring param on the title
func GetAll(recipeProvider db.RecipeProvider) http.HandlerFunc {
	// Use a closure to inject the database provider
	return func(w http.ResponseWriter, r *http.Request) {
		search := strings.ToLower(r.URL.Query().Get("search"))

		recipes, err := recipeProvider.GetAllRecipes(r.Context())
		if err != nil {
			util.Error(w, err)
			return
		}

		if search != "" {
			matched := []types.Recipe{}
			for _, recipe := range recipes {
				if fuzzy.MatchNormalized(search, strings.ToLower(recipe.Title)) {
					matched = append(matched, recipe)
				}
			}
			recipes = matched
		}

		// Return the list in a JSON object
		util.JSON(w, map[string]interface{}{
			"recipes": recipes,
		}, http.StatusOK)
	}
}

// GetSingle gets a single recipe from the database by its ID
func GetSingle(recipeProvider db.RecipeProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		recipe, err := recipeProvider.GetRecipe(r.Context(), id)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, recipe, http.StatusOK)
	}
}

// Create creates a new recipe in the database
func Create(recipeProvider db.RecipeProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload types.RecipeCreate
		err := json.NewDecoder(r.Body).Decode(&payload)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		err = payload.Validate()
		if err != nil {
			util.Error(w, err)
			return
		}

		recipe, err := recipeProvider.CreateRecipe(r.Context(), payload.Recipe())
		if err != nil {
			log.Error().Err(err).Msg("could not persist recipe")
			util.ErrorWithCode(w, errors.New("Error adding recipe"), http.StatusBadRequest)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message": "Recipe added successfully",
			"recipe":  recipe,
		}, http.StatusCreated)
	}
}

// Update updates a recipe in the database,
// applying only the fields present in the request body
func Update(recipeProvider db.RecipeProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		partial := make(map[string]interface{})
		err := json.NewDecoder(r.Body).Decode(&partial)
		if err != nil {
			util.ErrorWithCode(w, err, http.StatusBadRequest)
			return
		}

		// The document ID cannot be patched
		delete(partial, "_id")
		if len(partial) == 0 {
			util.Error(w, types.NewValidationError("No fields to update."))
			return
		}

		updated, err := recipeProvider.UpdateRecipe(r.Context(), id, partial)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.JSON(w, map[string]interface{}{
			"message": "Recipe updated successfully",
			"recipe":  updated,
		}, http.StatusOK)
	}
}

// Delete deletes a recipe in the database
func Delete(recipeProvider db.RecipeProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id := chi.URLParam(r, "id")
		if id == "" {
			util.ErrorWithCode(w, errors.New("the URL parameter is empty"),
				http.StatusBadRequest)
			return
		}

		err := recipeProvider.DeleteRecipe(r.Context(), id)
		if err != nil {
			util.Error(w, err)
			return
		}

		util.Message(w, "Recipe deleted successfully", http.StatusOK)
	}
}

package recipes

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
)

// fakeRecipes implements db.RecipeProvider over an in-memory map
type fakeRecipes struct {
	recipes map[string]*types.Recipe
}

func newFakeRecipes() *fakeRecipes {
	return &fakeRecipes{recipes: make(map[string]*types.Recipe)}
}

func (f *fakeRecipes) GetRecipe(ctx context.Context, id string) (*types.Recipe, error) {
	if recipe, ok := f.recipes[id]; ok {
		return recipe, nil
	}
	return nil, db.NewNotFoundError(id)
}

func (f *fakeRecipes) GetAllRecipes(ctx context.Context) ([]types.Recipe, error) {
	all := []types.Recipe{}
	for _, recipe := range f.recipes {
		all = append(all, *recipe)
	}
	return all, nil
}

func (f *fakeRecipes) CreateRecipe(ctx context.Context,
	recipe types.Recipe) (*types.Recipe, error) {
	recipe.ID = primitive.NewObjectID()
	f.recipes[recipe.ID.Hex()] = &recipe
	return &recipe, nil
}

func (f *fakeRecipes) UpdateRecipe(ctx context.Context, id string,
	update map[string]interface{}) (*types.Recipe, error) {
	recipe, ok := f.recipes[id]
	if !ok {
		return nil, db.NewNotFoundError(id)
	}
	if title, ok := update["title"].(string); ok {
		recipe.Title = title
	}
	return recipe, nil
}

func (f *fakeRecipes) DeleteRecipe(ctx context.Context, id string) error {
	if _, ok := f.recipes[id]; !ok {
		return db.NewNotFoundError(id)
	}
	delete(f.recipes, id)
	return nil
}

// testRouter mounts the handlers without the authorization middleware
func testRouter(provider *fakeRecipes) *chi.Mux {
	router := chi.NewRouter()
	router.Get("/", GetAll(provider))
	router.Get("/{id}", GetSingle(provider))
	router.Post("/add", Create(provider))
	router.Put("/update/{id}", Update(provider))
	router.Delete("/delete/{id}", Delete(provider))
	return router
}

func doRequest(router *chi.Mux, method string, path string,
	body string) *httptest.ResponseRecorder {
	request := httptest.NewRequest(method, path, strings.NewReader(body))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	return recorder
}

func errorMessage(t *testing.T, recorder *httptest.ResponseRecorder) string {
	t.Helper()

	var response types.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatalf("could not decode error body %q: %v", recorder.Body.String(), err)
	}
	return response.Message
}

const validRecipeBody = `{
	"title": "Lentil Soup",
	"prepTime": "10 mins",
	"cookTime": "25 mins",
	"difficulty": "Easy",
	"servings": 4,
	"description": "A warming red lentil soup.",
	"ingredients": ["red lentils", "onion", "stock"],
	"method": ["Soften the onion.", "Simmer the lentils in stock."],
	"image": "https://example.com/soup.jpg"
}`

func TestCreateRecipe(t *testing.T) {
	provider := newFakeRecipes()
	router := testRouter(provider)

	recorder := doRequest(router, http.MethodPost, "/add", validRecipeBody)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}
	if len(provider.recipes) != 1 {
		t.Fatalf("expected one stored recipe, got %d", len(provider.recipes))
	}
}

func TestCreateRecipeValidation(t *testing.T) {
	cases := []struct {
		name    string
		omit    string
		message string
	}{
		{
			name:    "missing image",
			omit:    "image",
			message: "Image is required.",
		},
		{
			name:    "missing ingredients",
			omit:    "ingredients",
			message: "At least one ingredient is required.",
		},
		{
			name:    "missing method",
			omit:    "method",
			message: "At least one method step is required.",
		},
		{
			name:    "missing servings",
			omit:    "servings",
			message: "Servings is required and must be a number.",
		},
		{
			name:    "missing title",
			omit:    "title",
			message: "Title is required.",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			provider := newFakeRecipes()
			router := testRouter(provider)

			var payload map[string]interface{}
			if err := json.Unmarshal([]byte(validRecipeBody), &payload); err != nil {
				t.Fatal(err)
			}
			delete(payload, tc.omit)
			body, err := json.Marshal(payload)
			if err != nil {
				t.Fatal(err)
			}

			recorder := doRequest(router, http.MethodPost, "/add", string(body))
			if recorder.Code != http.StatusBadRequest {
				t.Fatalf("got status %d, want 400: %s", recorder.Code, recorder.Body.String())
			}
			if message := errorMessage(t, recorder); message != tc.message {
				t.Errorf("got message %q, want %q", message, tc.message)
			}
			if len(provider.recipes) != 0 {
				t.Error("invalid payload must not be stored")
			}
		})
	}
}

func TestGetAllRecipesFuzzySearch(t *testing.T) {
	provider := newFakeRecipes()
	for _, title := range []string{"Lentil Soup", "Vegetable Stir Fry", "Fruit Salad"} {
		if _, err := provider.CreateRecipe(context.Background(),
			types.Recipe{Title: title}); err != nil {
			t.Fatal(err)
		}
	}
	router := testRouter(provider)

	recorder := doRequest(router, http.MethodGet, "/?search=soup", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}

	var response struct {
		Recipes []types.Recipe `json:"recipes"`
	}
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if len(response.Recipes) != 1 || response.Recipes[0].Title != "Lentil Soup" {
		t.Errorf("unexpected matches: %+v", response.Recipes)
	}

	// No match yields an empty array, not null
	recorder = doRequest(router, http.MethodGet, "/?search=zzz", "")
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Recipes == nil || len(response.Recipes) != 0 {
		t.Errorf("unexpected matches: %+v", response.Recipes)
	}
}

func TestUpdateRecipe(t *testing.T) {
	provider := newFakeRecipes()
	created, err := provider.CreateRecipe(context.Background(),
		types.Recipe{Title: "Lentil Soup"})
	if err != nil {
		t.Fatal(err)
	}
	router := testRouter(provider)

	recorder := doRequest(router, http.MethodPut, "/update/"+created.ID.Hex(),
		`{"title": "Spiced Lentil Soup"}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}
	if provider.recipes[created.ID.Hex()].Title != "Spiced Lentil Soup" {
		t.Errorf("got title %q", provider.recipes[created.ID.Hex()].Title)
	}

	// An empty patch is rejected before reaching the database
	recorder = doRequest(router, http.MethodPut, "/update/"+created.ID.Hex(), `{}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
}

func TestDeleteRecipeNotFound(t *testing.T) {
	router := testRouter(newFakeRecipes())

	recorder := doRequest(router, http.MethodDelete,
		"/delete/"+primitive.NewObjectID().Hex(), "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", recorder.Code)
	}
}

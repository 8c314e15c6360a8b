package submissions

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
)

// fakeProvider implements db.SubmissionProvider against an in-memory map
type fakeProvider struct {
	submissions map[string]*types.Submission
	failWrites  bool

	approvals  []types.MonthlyCount
	rejects    []types.MonthlyCount
	deliveries []types.MonthlyCount
}

func newFakeProvider() *fakeProvider {
	return &fakeProvider{
		submissions: make(map[string]*types.Submission),
	}
}

func (f *fakeProvider) add(submission types.Submission) string {
	id := primitive.NewObjectID()
	submission.ID = id
	f.submissions[id.Hex()] = &submission
	return id.Hex()
}

var errStorage = &fakeStorageError{}

type fakeStorageError struct{}

func (e *fakeStorageError) Error() string { return "storage unavailable" }

func (f *fakeProvider) GetSubmission(ctx context.Context, id string) (*types.Submission, error) {
	if submission, ok := f.submissions[id]; ok {
		return submission, nil
	}
	return nil, db.NewNotFoundError(id)
}

func (f *fakeProvider) CreateSubmission(ctx context.Context, submission types.Submission) error {
	if f.failWrites {
		return errStorage
	}
	f.add(submission)
	return nil
}

func (f *fakeProvider) UpdateSubmission(ctx context.Context, id string,
	update types.SubmissionCreate) (*types.Submission, error) {
	current, ok := f.submissions[id]
	if !ok {
		return nil, db.NewNotFoundError(id)
	}
	if !current.Status.CanTransitionTo(update.Status) {
		return nil, types.NewInvalidTransitionError(current.Status, update.Status)
	}

	current.Title = update.Title
	current.Status = update.Status
	current.Version++
	return current, nil
}

func (f *fakeProvider) SubmitSubmission(ctx context.Context, id string,
	status types.Status, foodLifeTime float64) (*types.Submission, error) {
	current, ok := f.submissions[id]
	if !ok {
		return nil, db.NewNotFoundError(id)
	}
	if !current.Status.CanTransitionTo(status) {
		return nil, types.NewInvalidTransitionError(current.Status, status)
	}

	current.Status = status
	current.FoodLifeTime = foodLifeTime
	current.Version++
	return current, nil
}

func (f *fakeProvider) DeleteSubmission(ctx context.Context, id string) error {
	if _, ok := f.submissions[id]; !ok {
		return db.NewNotFoundError(id)
	}
	delete(f.submissions, id)
	return nil
}

func (f *fakeProvider) CountSubmissions(ctx context.Context) (int64, error) {
	return int64(len(f.submissions)), nil
}

func (f *fakeProvider) CountSubmissionsByStatus(ctx context.Context,
	status types.Status) (int64, error) {
	var count int64
	for _, submission := range f.submissions {
		if submission.Status == status {
			count++
		}
	}
	return count, nil
}

func (f *fakeProvider) GetRecentSubmissions(ctx context.Context,
	limit int64) ([]types.Submission, error) {
	recent := []types.Submission{}
	for _, submission := range f.submissions {
		recent = append(recent, *submission)
	}

	// Most recent first
	for i := 0; i < len(recent); i++ {
		for j := i + 1; j < len(recent); j++ {
			if recent[j].SubmissionDate.After(recent[i].SubmissionDate) {
				recent[i], recent[j] = recent[j], recent[i]
			}
		}
	}

	if int64(len(recent)) > limit {
		recent = recent[:limit]
	}
	return recent, nil
}

func (f *fakeProvider) GetSubmissionsByStatus(ctx context.Context,
	status types.Status) ([]types.Submission, error) {
	matched := []types.Submission{}
	for _, submission := range f.submissions {
		if submission.Status == status {
			matched = append(matched, *submission)
		}
	}
	return matched, nil
}

func (f *fakeProvider) MonthlySubmissionCounts(ctx context.Context,
	status types.Status) ([]types.MonthlyCount, error) {
	switch status {
	case types.StatusApproved:
		return f.approvals, nil
	case types.StatusRejected:
		return f.rejects, nil
	}
	return []types.MonthlyCount{}, nil
}

func (f *fakeProvider) MonthlyDeliveryCounts(ctx context.Context) ([]types.MonthlyCount, error) {
	return f.deliveries, nil
}

// testRouter mounts the handlers without the authorization middleware
// so route behavior can be exercised directly
func testRouter(provider *fakeProvider) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/post", Create(provider))
	router.Get("/get/{id}", GetSingle(provider))
	router.Put("/put/{id}", Update(provider))
	router.Put("/put/submit/{id}", Submit(provider))
	router.Delete("/delete/{id}", Delete(provider))
	router.Get("/get/dashboard-data", Dashboard(provider))
	router.Get("/get/analytics", Analytics(provider))
	router.Get("/get/food-data", FoodData(provider))
	return router
}

func doRequest(t *testing.T, router *chi.Mux, method string, path string,
	body string) *httptest.ResponseRecorder {
	t.Helper()

	var reader *strings.Reader
	if body == "" {
		reader = strings.NewReader("{}")
	} else {
		reader = strings.NewReader(body)
	}

	request := httptest.NewRequest(method, path, reader)
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

const validCreateBody = `{
	"title": "Rice and curry",
	"location": {"latitude": 6.9271, "longitude": 79.8612},
	"images": [{"id": 1, "source": "https://example.com/1.jpg"}]
}`

func TestCreateSubmission(t *testing.T) {
	provider := newFakeProvider()
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPost, "/post", validCreateBody)
	if recorder.Code != http.StatusCreated {
		t.Fatalf("got status %d, want 201: %s", recorder.Code, recorder.Body.String())
	}
	if strings.TrimSpace(recorder.Body.String()) != `"saved successfully !"` {
		t.Errorf("got body %q", recorder.Body.String())
	}
	if len(provider.submissions) != 1 {
		t.Fatalf("expected one stored submission, got %d", len(provider.submissions))
	}

	for _, submission := range provider.submissions {
		if submission.Status != types.StatusSubmitted {
			t.Errorf("got status %q, want the default", submission.Status)
		}
	}
}

func TestCreateSubmissionValidationFailure(t *testing.T) {
	provider := newFakeProvider()
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPost, "/post",
		`{"location": {"latitude": 1, "longitude": 2}, "images": [{"id": 1, "source": "a"}]}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
	if message := errorMessage(t, recorder); message != "Title is required and must be a string." {
		t.Errorf("got message %q", message)
	}
}

func TestCreateSubmissionNonNumericShelfLife(t *testing.T) {
	provider := newFakeProvider()
	router := testRouter(provider)

	body := strings.Replace(validCreateBody, `"title": "Rice and curry",`,
		`"title": "Rice and curry", "foodLifeTime": "twelve",`, 1)
	recorder := doRequest(t, router, http.MethodPost, "/post", body)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
	// A type mismatch on this field reports the validation message,
	// not the raw decode error
	if message := errorMessage(t, recorder); message != "Food life time must be a number." {
		t.Errorf("got message %q", message)
	}
	if len(provider.submissions) != 0 {
		t.Error("invalid payload must not be stored")
	}
}

func TestSubmitSubmissionNonNumericShelfLife(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusSubmitted})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPut, "/put/submit/"+id,
		`{"status": "Pending", "foodLifeTime": "twelve"}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
	if message := errorMessage(t, recorder); message != "Food life time must be a number." {
		t.Errorf("got message %q", message)
	}
}

func TestCreateSubmissionPersistenceFailure(t *testing.T) {
	provider := newFakeProvider()
	provider.failWrites = true
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPost, "/post", validCreateBody)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
	want := "Error saving data, Please Submit a Support request if issue persists"
	if message := errorMessage(t, recorder); message != want {
		t.Errorf("got message %q, want %q", message, want)
	}
}

func TestGetSingleSubmission(t *testing.T) {
	provider := newFakeProvider()
	lat, lng := 6.9271, 79.8612
	id := provider.add(types.Submission{
		Title:          "Bread",
		SubmissionDate: time.Now(),
		Description:    "half a loaf",
		Status:         types.StatusPending,
		Location:       types.GeoCoordinates{Latitude: &lat, Longitude: &lng},
		FoodLifeTime:   8,
		Images:         []types.Image{{ID: 1, Source: "a.jpg"}},
		Version:        2,
	})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodGet, "/get/"+id, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var detail map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &detail); err != nil {
		t.Fatal(err)
	}
	if detail["title"] != "Bread" {
		t.Errorf("got title %v", detail["title"])
	}
	// Internal fields are projected out of the detail payload
	for _, hidden := range []string{"location", "version", "_id"} {
		if _, ok := detail[hidden]; ok {
			t.Errorf("field %q should not be exposed", hidden)
		}
	}
}

func TestGetSingleSubmissionNotFound(t *testing.T) {
	router := testRouter(newFakeProvider())

	recorder := doRequest(t, router, http.MethodGet,
		"/get/"+primitive.NewObjectID().Hex(), "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", recorder.Code)
	}
}

func TestUpdateSubmissionRequiresExplicitStatus(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusPending})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPut, "/put/"+id, validCreateBody)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
	if message := errorMessage(t, recorder); message != "Status is invalid. Choose a valid status." {
		t.Errorf("got message %q", message)
	}
}

func TestUpdateSubmissionInvalidTransition(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusCompleted})
	router := testRouter(provider)

	body := strings.Replace(validCreateBody, `"title": "Rice and curry",`,
		`"title": "Rice and curry", "status": "Pending",`, 1)
	recorder := doRequest(t, router, http.MethodPut, "/put/"+id, body)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400: %s", recorder.Code, recorder.Body.String())
	}
}

func TestSubmitSubmission(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusSubmitted})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPut, "/put/submit/"+id,
		`{"status": "Pending", "foodLifeTime": 12}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200: %s", recorder.Code, recorder.Body.String())
	}

	var response types.MessageResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Message != "Successfully submitted the item" {
		t.Errorf("got message %q", response.Message)
	}
	if provider.submissions[id].Status != types.StatusPending {
		t.Errorf("got stored status %q", provider.submissions[id].Status)
	}
}

func TestSubmitSubmissionZeroShelfLife(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusSubmitted})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPut, "/put/submit/"+id,
		`{"status": "Expired", "foodLifeTime": 0}`)
	if recorder.Code != http.StatusOK {
		t.Fatalf("an explicit zero shelf life is valid; got status %d: %s",
			recorder.Code, recorder.Body.String())
	}
	if provider.submissions[id].FoodLifeTime != 0 {
		t.Errorf("got stored shelf life %v", provider.submissions[id].FoodLifeTime)
	}
}

func TestSubmitSubmissionRejectsCompletedTarget(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusApproved})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPut, "/put/submit/"+id,
		`{"status": "Completed", "foodLifeTime": 12}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}
	if message := errorMessage(t, recorder); message != "Status is invalid. Choose a valid status." {
		t.Errorf("got message %q", message)
	}
}

func TestSubmitSubmissionInvalidTransition(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusCompleted})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodPut, "/put/submit/"+id,
		`{"status": "Pending", "foodLifeTime": 12}`)
	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400: %s", recorder.Code, recorder.Body.String())
	}
}

func TestDeleteSubmission(t *testing.T) {
	provider := newFakeProvider()
	id := provider.add(types.Submission{Title: "Bread", Status: types.StatusPending})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodDelete, "/delete/"+id, "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d, want 200", recorder.Code)
	}

	// A repeated delete reports not-found rather than succeeding silently
	recorder = doRequest(t, router, http.MethodDelete, "/delete/"+id, "")
	if recorder.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", recorder.Code)
	}
}

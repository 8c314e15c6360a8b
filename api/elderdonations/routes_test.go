package elderdonations

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

// fakeDonations implements db.ElderDonationProvider over an in-memory map
type fakeDonations struct {
	donations map[string]*types.ElderDonation
}

func (f *fakeDonations) GetAllElderDonations(ctx context.Context) ([]types.ElderDonation, error) {
	all := []types.ElderDonation{}
	for _, donation := range f.donations {
		all = append(all, *donation)
	}
	return all, nil
}

func (f *fakeDonations) CreateElderDonation(ctx context.Context,
	donation types.ElderDonation) (*types.ElderDonation, error) {
	donation.ID = primitive.NewObjectID()
	f.donations[donation.ID.Hex()] = &donation
	return &donation, nil
}

func (f *fakeDonations) SetElderDonationApproval(ctx context.Context,
	id string, approved bool) (*types.ElderDonation, error) {
	donation, ok := f.donations[id]
	if !ok {
		return nil, db.NewNotFoundError(id)
	}
	donation.Approved = approved
	return donation, nil
}

func (f *fakeDonations) DeleteElderDonation(ctx context.Context, id string) error {
	if _, ok := f.donations[id]; !ok {
		return db.NewNotFoundError(id)
	}
	delete(f.donations, id)
	return nil
}

// testRouter mounts the handlers without the authorization middleware
func testRouter(provider *fakeDonations) *chi.Mux {
	router := chi.NewRouter()
	router.Post("/", Create(provider))
	router.Get("/", GetAll(provider))
	router.Put("/{id}/approve", SetApproval(provider, true))
	router.Put("/{id}/unapprove", SetApproval(provider, false))
	router.Delete("/{id}", Delete(provider))
	return router
}

const validBody = `{
	"elderHomeName": "Sunset Home",
	"eldersCount": 24,
	"elderHomeAddress": "12 Lake Road",
	"contactNumber": "0771234567",
	"contactPerson": "Nimal",
	"donationTypes": ["food", "money"]
}`

func TestCreateElderDonation(t *testing.T) {
	provider := &fakeDonations{donations: map[string]*types.ElderDonation{}}
	router := testRouter(provider)

	request := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(validBody))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}
	if len(provider.donations) != 1 {
		t.Fatalf("expected one stored donation, got %d", len(provider.donations))
	}
	for _, donation := range provider.donations {
		// New requests always start unapproved
		if donation.Approved {
			t.Error("new donations must start unapproved")
		}
	}
}

func TestCreateElderDonationValidation(t *testing.T) {
	provider := &fakeDonations{donations: map[string]*types.ElderDonation{}}
	router := testRouter(provider)

	request := httptest.NewRequest(http.MethodPost, "/",
		strings.NewReader(`{"elderHomeName": "Sunset Home"}`))
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Fatalf("got status %d, want 400", recorder.Code)
	}

	var response types.ErrorResponse
	if err := json.Unmarshal(recorder.Body.Bytes(), &response); err != nil {
		t.Fatal(err)
	}
	if response.Message != "Elders count is required and must be a number." {
		t.Errorf("got message %q", response.Message)
	}
}

func TestApproveAndUnapprove(t *testing.T) {
	provider := &fakeDonations{donations: map[string]*types.ElderDonation{}}
	created, err := provider.CreateElderDonation(context.Background(),
		types.ElderDonation{ElderHomeName: "Sunset Home"})
	if err != nil {
		t.Fatal(err)
	}
	router := testRouter(provider)
	id := created.ID.Hex()

	request := httptest.NewRequest(http.MethodPut, "/"+id+"/approve", nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}
	if !provider.donations[id].Approved {
		t.Error("donation should be approved")
	}

	request = httptest.NewRequest(http.MethodPut, "/"+id+"/unapprove", nil)
	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, request)
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}
	if provider.donations[id].Approved {
		t.Error("donation should be unapproved again")
	}
}

func TestDeleteElderDonationNotFound(t *testing.T) {
	provider := &fakeDonations{donations: map[string]*types.ElderDonation{}}
	router := testRouter(provider)

	request := httptest.NewRequest(http.MethodDelete,
		"/"+primitive.NewObjectID().Hex(), nil)
	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, request)

	if recorder.Code != http.StatusNotFound {
		t.Fatalf("got status %d, want 404", recorder.Code)
	}
}

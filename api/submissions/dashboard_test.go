package submissions

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/hunger-busters/hunger-busters-api/types"
)

func day(offset int) time.Time {
	return time.Date(2025, time.June, 1+offset, 10, 0, 0, 0, time.UTC)
}

func TestDashboard(t *testing.T) {
	provider := newFakeProvider()
	delivered := day(3)
	provider.add(types.Submission{
		Title: "a", Status: types.StatusCompleted,
		SubmissionDate: day(0), DeliveryDate: &delivered,
	})
	provider.add(types.Submission{
		Title: "b", Status: types.StatusCompleted, SubmissionDate: day(1),
	})
	provider.add(types.Submission{
		Title: "c", Status: types.StatusApproved, SubmissionDate: day(2),
	})
	provider.add(types.Submission{
		Title: "d", Status: types.StatusExpired, SubmissionDate: day(3),
	})
	provider.add(types.Submission{
		Title: "e", Status: types.StatusPending,
		SubmissionDate: day(4), Description: "",
	})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodGet, "/get/dashboard-data", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}

	var data types.DashboardData
	if err := json.Unmarshal(recorder.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}

	if data.Total != 5 {
		t.Errorf("got total %d, want 5", data.Total)
	}
	// The approved figure counts completed deliveries
	if data.Approved != 2 {
		t.Errorf("got approved %d, want 2", data.Approved)
	}
	if data.Expired != 1 {
		t.Errorf("got expired %d, want 1", data.Expired)
	}
	if data.Pending != 1 {
		t.Errorf("got pending %d, want 1", data.Pending)
	}

	if len(data.TableData) != 5 {
		t.Fatalf("got %d table rows, want 5", len(data.TableData))
	}
	// Rows are ordered most recent first
	first := data.TableData[0]
	if first[0] != "2025-06-05" {
		t.Errorf("got first row date %q", first[0])
	}
	if first[1] != "Pending" || first[3] != "Pending" {
		t.Errorf("unexpected first row: %v", first)
	}

	// The oldest row carries its delivery date; the progress column
	// collapses every non-pending state to Completed
	last := data.TableData[4]
	if last[1] != "Completed" || last[2] != "2025-06-04" || last[3] != "Completed" {
		t.Errorf("unexpected last row: %v", last)
	}
	// A missing delivery date renders as N/A
	if data.TableData[3][2] != "N/A" {
		t.Errorf("got delivery date %q, want N/A", data.TableData[3][2])
	}

	if len(data.PendingApprovals) != 1 {
		t.Fatalf("got %d pending approvals, want 1", len(data.PendingApprovals))
	}
	if data.PendingApprovals[0].Description != "No description" {
		t.Errorf("got description %q", data.PendingApprovals[0].Description)
	}
	if data.PendingApprovals[0].Images == nil {
		t.Error("images should serialize as an empty array, not null")
	}
}

func TestDashboardCapsTableRows(t *testing.T) {
	provider := newFakeProvider()
	for i := 0; i < 8; i++ {
		provider.add(types.Submission{
			Title: "x", Status: types.StatusPending, SubmissionDate: day(i),
		})
	}
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodGet, "/get/dashboard-data", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}

	var data types.DashboardData
	if err := json.Unmarshal(recorder.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if len(data.TableData) != recentTableRows {
		t.Errorf("got %d table rows, want %d", len(data.TableData), recentTableRows)
	}
}

func TestAnalytics(t *testing.T) {
	provider := newFakeProvider()
	provider.add(types.Submission{Title: "a", Status: types.StatusApproved, SubmissionDate: day(0)})
	provider.add(types.Submission{Title: "b", Status: types.StatusPending, SubmissionDate: day(1)})
	provider.approvals = []types.MonthlyCount{{Month: 5, Count: 2}, {Month: 6, Count: 1}}
	provider.rejects = []types.MonthlyCount{{Month: 6, Count: 3}}
	provider.deliveries = []types.MonthlyCount{{Month: 4, Count: 7}}
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodGet, "/get/analytics", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}

	var data types.AnalyticsData
	if err := json.Unmarshal(recorder.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}

	// Unlike the dashboard, the analytics approved figure counts
	// submissions that are actually in the Approved state
	if data.ApprovedCount != 1 {
		t.Errorf("got approved count %d, want 1", data.ApprovedCount)
	}
	if data.TotalCount != 2 {
		t.Errorf("got total count %d, want 2", data.TotalCount)
	}

	if len(data.ApprovalsOverTime) != 2 {
		t.Fatalf("got %d approval buckets", len(data.ApprovalsOverTime))
	}
	// Buckets are labeled objects, not a bare array of counts
	if data.ApprovalsOverTime[0].Month != 5 || data.ApprovalsOverTime[0].Count != 2 {
		t.Errorf("unexpected first bucket: %+v", data.ApprovalsOverTime[0])
	}
	if data.DeliveriesOverTime[0].Month != 4 || data.DeliveriesOverTime[0].Count != 7 {
		t.Errorf("unexpected delivery bucket: %+v", data.DeliveriesOverTime[0])
	}

	// The raw JSON keys carry the labels
	var raw map[string]interface{}
	if err := json.Unmarshal(recorder.Body.Bytes(), &raw); err != nil {
		t.Fatal(err)
	}
	buckets, ok := raw["approvalsOverTime"].([]interface{})
	if !ok || len(buckets) == 0 {
		t.Fatal("approvalsOverTime should be an array of objects")
	}
	bucket, ok := buckets[0].(map[string]interface{})
	if !ok {
		t.Fatal("each bucket should be an object")
	}
	if _, ok := bucket["month"]; !ok {
		t.Error("bucket is missing its month label")
	}
	if _, ok := bucket["count"]; !ok {
		t.Error("bucket is missing its count")
	}
}

func TestFoodData(t *testing.T) {
	provider := newFakeProvider()
	provider.add(types.Submission{
		Title: "a", Status: types.StatusPending, SubmissionDate: day(0),
	})
	provider.add(types.Submission{
		Title: "b", Status: types.StatusOnRefrigerator,
		SubmissionDate: day(1), Description: "still cold",
	})
	provider.add(types.Submission{
		Title: "c", Status: types.StatusApproved, SubmissionDate: day(2),
	})
	router := testRouter(provider)

	recorder := doRequest(t, router, http.MethodGet, "/get/food-data", "")
	if recorder.Code != http.StatusOK {
		t.Fatalf("got status %d: %s", recorder.Code, recorder.Body.String())
	}

	var data types.FoodData
	if err := json.Unmarshal(recorder.Body.Bytes(), &data); err != nil {
		t.Fatal(err)
	}

	if len(data.PendingApprovals) != 1 || len(data.OnRefrigerator) != 1 || len(data.Approved) != 1 {
		t.Fatalf("unexpected grouping: %+v", data)
	}
	if data.PendingApprovals[0].Description != "No description provided" {
		t.Errorf("got description %q", data.PendingApprovals[0].Description)
	}
	if data.OnRefrigerator[0].Description != "still cold" {
		t.Errorf("got description %q", data.OnRefrigerator[0].Description)
	}
}

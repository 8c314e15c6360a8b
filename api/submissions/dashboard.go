package submissions

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/hunger-busters/hunger-busters-api/db"
	"github.com/hunger-busters/hunger-busters-api/types"
	"github.com/hunger-busters/hunger-busters-api/util"
)

// recentTableRows is how many submissions the dashboard table shows
const recentTableRows = 5

const dateLayout = "2006-01-02"

// Dashboard builds the summary payload for the expert dashboard:
// per-status counts, the most recent submissions,
// and the pending triage queue
func Dashboard(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverError := dashboardError(w, "An error occurred while fetching dashboard data")

		total, err := submissionProvider.CountSubmissions(r.Context())
		if err != nil {
			serverError(err)
			return
		}

		// The dashboard's "approved" figure has always counted completed
		// deliveries; clients depend on the existing field semantics
		approved, err := submissionProvider.CountSubmissionsByStatus(r.Context(), types.StatusCompleted)
		if err != nil {
			serverError(err)
			return
		}

		expired, err := submissionProvider.CountSubmissionsByStatus(r.Context(), types.StatusExpired)
		if err != nil {
			serverError(err)
			return
		}

		pending, err := submissionProvider.CountSubmissionsByStatus(r.Context(), types.StatusPending)
		if err != nil {
			serverError(err)
			return
		}

		recent, err := submissionProvider.GetRecentSubmissions(r.Context(), recentTableRows)
		if err != nil {
			serverError(err)
			return
		}

		tableData := make([][]string, 0, len(recent))
		for _, entry := range recent {
			deliveryDate := "N/A"
			if entry.DeliveryDate != nil {
				deliveryDate = entry.DeliveryDate.UTC().Format(dateLayout)
			}

			// The table collapses every non-pending state to "Completed"
			progress := "Completed"
			if entry.Status == types.StatusPending {
				progress = "Pending"
			}

			tableData = append(tableData, []string{
				entry.SubmissionDate.UTC().Format(dateLayout),
				string(entry.Status),
				deliveryDate,
				progress,
			})
		}

		pendingEntries, err := submissionProvider.GetSubmissionsByStatus(r.Context(), types.StatusPending)
		if err != nil {
			serverError(err)
			return
		}

		util.JSON(w, types.DashboardData{
			Approved:         approved,
			Total:            total,
			Expired:          expired,
			Pending:          pending,
			TableData:        tableData,
			PendingApprovals: triageCards(pendingEntries, "No description"),
		}, http.StatusOK)
	}
}

// Analytics builds the per-month time series and counts
// for the analysis dashboard
func Analytics(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverError := dashboardError(w, "An error occurred while fetching analytics data")

		totalCount, err := submissionProvider.CountSubmissions(r.Context())
		if err != nil {
			serverError(err)
			return
		}

		approvedCount, err := submissionProvider.CountSubmissionsByStatus(r.Context(), types.StatusApproved)
		if err != nil {
			serverError(err)
			return
		}

		expiredCount, err := submissionProvider.CountSubmissionsByStatus(r.Context(), types.StatusExpired)
		if err != nil {
			serverError(err)
			return
		}

		pendingCount, err := submissionProvider.CountSubmissionsByStatus(r.Context(), types.StatusPending)
		if err != nil {
			serverError(err)
			return
		}

		approvalsOverTime, err := submissionProvider.MonthlySubmissionCounts(r.Context(), types.StatusApproved)
		if err != nil {
			serverError(err)
			return
		}

		rejectsOverTime, err := submissionProvider.MonthlySubmissionCounts(r.Context(), types.StatusRejected)
		if err != nil {
			serverError(err)
			return
		}

		deliveriesOverTime, err := submissionProvider.MonthlyDeliveryCounts(r.Context())
		if err != nil {
			serverError(err)
			return
		}

		util.JSON(w, types.AnalyticsData{
			ApprovedCount:      approvedCount,
			TotalCount:         totalCount,
			ExpiredCount:       expiredCount,
			PendingCount:       pendingCount,
			ApprovalsOverTime:  approvalsOverTime,
			RejectsOverTime:    rejectsOverTime,
			DeliveriesOverTime: deliveriesOverTime,
		}, http.StatusOK)
	}
}

// FoodData groups the triage cards by the three holding states
// shown on the expert food overview
func FoodData(submissionProvider db.SubmissionProvider) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		serverError := dashboardError(w, "An error occurred while fetching food data")

		pendingEntries, err := submissionProvider.GetSubmissionsByStatus(r.Context(), types.StatusPending)
		if err != nil {
			serverError(err)
			return
		}

		refrigeratorEntries, err := submissionProvider.GetSubmissionsByStatus(r.Context(), types.StatusOnRefrigerator)
		if err != nil {
			serverError(err)
			return
		}

		approvedEntries, err := submissionProvider.GetSubmissionsByStatus(r.Context(), types.StatusApproved)
		if err != nil {
			serverError(err)
			return
		}

		const fallback = "No description provided"
		util.JSON(w, types.FoodData{
			PendingApprovals: triageCards(pendingEntries, fallback),
			OnRefrigerator:   triageCards(refrigeratorEntries, fallback),
			Approved:         triageCards(approvedEntries, fallback),
		}, http.StatusOK)
	}
}

// triageCards formats projected submissions as reviewer triage cards
func triageCards(entries []types.Submission, fallbackDescription string) []types.SubmissionCard {
	cards := make([]types.SubmissionCard, 0, len(entries))
	for _, entry := range entries {
		description := entry.Description
		if description == "" {
			description = fallbackDescription
		}

		images := entry.Images
		if images == nil {
			images = []types.Image{}
		}

		cards = append(cards, types.SubmissionCard{
			ID:          entry.ID,
			Images:      images,
			Description: description,
		})
	}

	return cards
}

// dashboardError logs the underlying failure and reports
// a whole-request generic message; no partial results are attempted
func dashboardError(w http.ResponseWriter, message string) func(error) {
	return func(err error) {
		log.Error().Err(err).Msg("aggregation query failed")
		util.ErrorWithCode(w, errors.New(message), http.StatusInternalServerError)
	}
}

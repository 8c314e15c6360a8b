package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Status is the review state of a food submission
type Status string

// All states a food submission can be in
const (
	StatusSubmitted      Status = "Submitted"
	StatusPending        Status = "Pending"
	StatusOnRefrigerator Status = "On Refrigerator"
	StatusApproved       Status = "Approved"
	StatusRejected       Status = "Rejected"
	StatusExpired        Status = "Expired"
	StatusCompleted      Status = "Completed"
)

// DefaultFoodLifeTime is the stored shelf life (in hours)
// given to submissions that don't supply one
const DefaultFoodLifeTime float64 = 24

// DefaultDescription is stored on submissions created without a description
const DefaultDescription = "no description provided"

var allStatuses = map[Status]struct{}{
	StatusSubmitted:      {},
	StatusPending:        {},
	StatusOnRefrigerator: {},
	StatusApproved:       {},
	StatusRejected:       {},
	StatusExpired:        {},
	StatusCompleted:      {},
}

// Valid determines whether the status is a member of the canonical enum
func (s Status) Valid() bool {
	_, ok := allStatuses[s]
	return ok
}

// transitions is the allowed next-state table for submission statuses.
// Self-transitions are always allowed and are not listed here.
var transitions = map[Status][]Status{
	StatusSubmitted:      {StatusPending, StatusOnRefrigerator, StatusApproved, StatusRejected, StatusExpired},
	StatusPending:        {StatusOnRefrigerator, StatusApproved, StatusRejected, StatusExpired},
	StatusOnRefrigerator: {StatusPending, StatusApproved, StatusRejected, StatusExpired},
	StatusApproved:       {StatusCompleted, StatusExpired},
	StatusRejected:       {StatusCompleted},
	StatusExpired:        {StatusCompleted},
	StatusCompleted:      {},
}

// CanTransitionTo determines whether the status is allowed to move
// to the given next status.
// Every mutation path consults this table before writing.
func (s Status) CanTransitionTo(next Status) bool {
	if s == next {
		return true
	}

	for _, allowed := range transitions[s] {
		if next == allowed {
			return true
		}
	}

	return false
}

// submittableStatuses is the narrower target set
// accepted by the restricted submit operation
var submittableStatuses = map[Status]struct{}{
	StatusPending:  {},
	StatusExpired:  {},
	StatusApproved: {},
	StatusRejected: {},
}

// Submittable determines whether the status can be the target
// of the restricted submit operation
func (s Status) Submittable() bool {
	_, ok := submittableStatuses[s]
	return ok
}

// GeoCoordinates is the representation of a pair of GPS coordinates.
// Pointers distinguish missing values from zero values at the boundary.
type GeoCoordinates struct {
	Latitude  *float64 `json:"latitude" bson:"latitude"`
	Longitude *float64 `json:"longitude" bson:"longitude"`
}

// Image is a single attached photo of the food being submitted
type Image struct {
	ID     int    `json:"id" bson:"id"`
	Source string `json:"source" bson:"source"`
}

// Submission is the document stored in MongoDB for a single food submission
type Submission struct {
	ID             primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	Title          string             `json:"title" bson:"title"`
	SubmissionDate time.Time          `json:"submissionDate" bson:"submissionDate"`
	Description    string             `json:"description" bson:"description"`
	Status         Status             `json:"status" bson:"status"`
	Location       GeoCoordinates     `json:"location" bson:"location"`
	DeliveryDate   *time.Time         `json:"deliveryDate,omitempty" bson:"deliveryDate,omitempty"`
	FoodLifeTime   float64            `json:"foodLifeTime" bson:"foodLifeTime"`
	Images         []Image            `json:"images" bson:"images"`
	Version        int64              `json:"-" bson:"version"`
}

// SubmissionDetail is the external representation of a single submission,
// with the internal id, location, and version fields projected out
type SubmissionDetail struct {
	Title          string     `json:"title"`
	SubmissionDate time.Time  `json:"submissionDate"`
	Description    string     `json:"description"`
	Status         Status     `json:"status"`
	DeliveryDate   *time.Time `json:"deliveryDate,omitempty"`
	FoodLifeTime   float64    `json:"foodLifeTime"`
	Images         []Image    `json:"images"`
}

// Detail converts the stored document into its external representation
func (s *Submission) Detail() *SubmissionDetail {
	return &SubmissionDetail{
		Title:          s.Title,
		SubmissionDate: s.SubmissionDate,
		Description:    s.Description,
		Status:         s.Status,
		DeliveryDate:   s.DeliveryDate,
		FoodLifeTime:   s.FoodLifeTime,
		Images:         s.Images,
	}
}

// SubmissionCreate is the request payload for creating a submission,
// also reused by the full update operation
type SubmissionCreate struct {
	Title          string          `json:"title"`
	SubmissionDate *time.Time      `json:"submissionDate"`
	Description    string          `json:"description"`
	Status         Status          `json:"status"`
	Location       *GeoCoordinates `json:"location"`
	DeliveryDate   *time.Time      `json:"deliveryDate"`
	FoodLifeTime   *float64        `json:"foodLifeTime"`
	Images         []Image         `json:"images"`
}

// Validate checks the payload field by field,
// stopping at the first failure
func (c *SubmissionCreate) Validate() error {
	if c.Title == "" {
		return NewValidationError("Title is required and must be a string.")
	}

	// An omitted status takes the Submitted default at creation time
	if c.Status != "" && !c.Status.Valid() {
		return NewValidationError("Status is invalid. Choose a valid status.")
	}

	if c.Location == nil || c.Location.Latitude == nil || c.Location.Longitude == nil {
		return NewValidationError("Location must include valid latitude and longitude values.")
	}

	if len(c.Images) > 5 {
		return NewValidationError("Only, Maximum 5 images are allowed.")
	}

	if len(c.Images) < 1 {
		return NewValidationError("At least one image is required.")
	}

	return nil
}

// Submission converts a validated payload into a storable document,
// filling in defaults for the omitted fields
func (c *SubmissionCreate) Submission() Submission {
	submission := Submission{
		Title:        c.Title,
		Description:  c.Description,
		Status:       c.Status,
		Location:     *c.Location,
		DeliveryDate: c.DeliveryDate,
		FoodLifeTime: DefaultFoodLifeTime,
		Images:       c.Images,
	}

	if c.SubmissionDate != nil {
		submission.SubmissionDate = *c.SubmissionDate
	} else {
		submission.SubmissionDate = time.Now()
	}
	if submission.Description == "" {
		submission.Description = DefaultDescription
	}
	if submission.Status == "" {
		submission.Status = StatusSubmitted
	}
	if c.FoodLifeTime != nil {
		submission.FoodLifeTime = *c.FoodLifeTime
	}

	return submission
}

// SubmissionSubmit is the request payload for the restricted submit
// transition, which only ever touches the status and shelf life
type SubmissionSubmit struct {
	Status       Status   `json:"status"`
	FoodLifeTime *float64 `json:"foodLifeTime"`
}

// Validate checks the restricted submit payload
func (s *SubmissionSubmit) Validate() error {
	if !s.Status.Submittable() {
		return NewValidationError("Status is invalid. Choose a valid status.")
	}

	if s.FoodLifeTime == nil {
		return NewValidationError("Food life time must be a number.")
	}

	if *s.FoodLifeTime < 0 {
		return NewValidationError("Food life time must be greater than or equal to 0.")
	}

	return nil
}

// SubmissionCard is a reviewer triage card
// shown on the expert dashboard for a single submission
type SubmissionCard struct {
	ID          primitive.ObjectID `json:"id"`
	Images      []Image            `json:"images"`
	Description string             `json:"description"`
}

// DashboardData is the summary payload backing the expert dashboard
type DashboardData struct {
	Approved         int64            `json:"approved"`
	Total            int64            `json:"total"`
	Expired          int64            `json:"expired"`
	Pending          int64            `json:"pending"`
	TableData        [][]string       `json:"tableData"`
	PendingApprovals []SubmissionCard `json:"pendingApprovals"`
}

// FoodData groups triage cards by the holding states
// shown on the expert food overview
type FoodData struct {
	PendingApprovals []SubmissionCard `json:"pendingApprovals"`
	OnRefrigerator   []SubmissionCard `json:"onRefrigerator"`
	Approved         []SubmissionCard `json:"approved"`
}

// MonthlyCount is one labeled bucket of a per-month time series
type MonthlyCount struct {
	Month int   `json:"month" bson:"_id"`
	Count int64 `json:"count" bson:"count"`
}

// AnalyticsData is the payload backing the analysis dashboard
type AnalyticsData struct {
	ApprovedCount      int64          `json:"approvedCount"`
	TotalCount         int64          `json:"totalCount"`
	ExpiredCount       int64          `json:"expiredCount"`
	PendingCount       int64          `json:"pendingCount"`
	ApprovalsOverTime  []MonthlyCount `json:"approvalsOverTime"`
	RejectsOverTime    []MonthlyCount `json:"rejectsOverTime"`
	DeliveriesOverTime []MonthlyCount `json:"deliveriesOverTime"`
}

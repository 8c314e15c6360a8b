package types

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ElderDonation is a donation request raised on behalf of an elder home
type ElderDonation struct {
	ID               primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	ElderHomeName    string             `json:"elderHomeName" bson:"elderHomeName"`
	EldersCount      int                `json:"eldersCount" bson:"eldersCount"`
	ElderHomeAddress string             `json:"elderHomeAddress" bson:"elderHomeAddress"`
	ContactNumber    string             `json:"contactNumber" bson:"contactNumber"`
	ContactPerson    string             `json:"contactPerson" bson:"contactPerson"`
	SpecialRequests  string             `json:"specialRequests" bson:"specialRequests"`
	DonationTypes    []string           `json:"donationTypes" bson:"donationTypes"`
	Approved         bool               `json:"approved" bson:"approved"`
	CreatedAt        time.Time          `json:"createdAt" bson:"createdAt"`
}

// ElderDonationCreate is the request payload for raising an elder donation
type ElderDonationCreate struct {
	ElderHomeName    string   `json:"elderHomeName"`
	EldersCount      *int     `json:"eldersCount"`
	ElderHomeAddress string   `json:"elderHomeAddress"`
	ContactNumber    string   `json:"contactNumber"`
	ContactPerson    string   `json:"contactPerson"`
	SpecialRequests  string   `json:"specialRequests"`
	DonationTypes    []string `json:"donationTypes"`
}

// Validate checks that every required contact field is present
func (c *ElderDonationCreate) Validate() error {
	if c.ElderHomeName == "" {
		return NewValidationError("Elder home name is required.")
	}
	if c.EldersCount == nil {
		return NewValidationError("Elders count is required and must be a number.")
	}
	if c.ElderHomeAddress == "" {
		return NewValidationError("Elder home address is required.")
	}
	if c.ContactNumber == "" {
		return NewValidationError("Contact number is required.")
	}
	if c.ContactPerson == "" {
		return NewValidationError("Contact person is required.")
	}
	if len(c.DonationTypes) == 0 {
		return NewValidationError("At least one donation type is required.")
	}

	return nil
}

// Donation converts a validated payload into a storable document.
// New requests always start unapproved.
func (c *ElderDonationCreate) Donation() ElderDonation {
	return ElderDonation{
		ElderHomeName:    c.ElderHomeName,
		EldersCount:      *c.EldersCount,
		ElderHomeAddress: c.ElderHomeAddress,
		ContactNumber:    c.ContactNumber,
		ContactPerson:    c.ContactPerson,
		SpecialRequests:  c.SpecialRequests,
		DonationTypes:    c.DonationTypes,
		Approved:         false,
		CreatedAt:        time.Now(),
	}
}

// SchoolDonation is a donation request raised on behalf of a school,
// carrying the path of the uploaded student-details document
type SchoolDonation struct {
	ID            primitive.ObjectID `json:"_id" bson:"_id,omitempty"`
	SchoolName    string             `json:"schoolName" bson:"schoolName"`
	ContactNumber string             `json:"contactNumber" bson:"contactNumber"`
	PrincipalName string             `json:"principalName" bson:"principalName"`
	Address       string             `json:"address" bson:"address"`
	Document      string             `json:"document" bson:"document"`
	Approved      bool               `json:"approved" bson:"approved"`
	CreatedAt     time.Time          `json:"createdAt" bson:"createdAt"`
	UpdatedAt     time.Time          `json:"updatedAt" bson:"updatedAt"`
}

// SchoolDonationCreate is the request payload for raising a school donation;
// the document arrives separately as a multipart file
type SchoolDonationCreate struct {
	SchoolName    string
	ContactNumber string
	PrincipalName string
	Address       string
}

// Validate checks that every required field, including the uploaded
// document path, is present
func (c *SchoolDonationCreate) Validate(documentPath string) error {
	if c.SchoolName == "" || c.ContactNumber == "" || c.PrincipalName == "" ||
		c.Address == "" || documentPath == "" {
		return NewValidationError("All fields are required, including the document.")
	}

	return nil
}

// Donation converts a validated payload into a storable document
func (c *SchoolDonationCreate) Donation(documentPath string) SchoolDonation {
	now := time.Now()
	return SchoolDonation{
		SchoolName:    c.SchoolName,
		ContactNumber: c.ContactNumber,
		PrincipalName: c.PrincipalName,
		Address:       c.Address,
		Document:      documentPath,
		Approved:      false,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

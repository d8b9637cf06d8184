package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type DonationRequest struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	RequesterName  string             `bson:"requesterName" json:"requesterName"`
	RequesterEmail string             `bson:"requesterEmail" json:"requesterEmail"`
	RecipientName  string             `bson:"recipientName" json:"recipientName"`
	District       string             `bson:"district" json:"district"`
	Upazila        string             `bson:"upazila" json:"upazila"`
	HospitalName   string             `bson:"hospitalName" json:"hospitalName"`
	FullAddress    string             `bson:"fullAddress" json:"fullAddress"`
	BloodGroup     string             `bson:"bloodGroup" json:"bloodGroup"`
	DonationDate   string             `bson:"donationDate" json:"donationDate"` // YYYY-MM-DD
	DonationTime   string             `bson:"donationTime" json:"donationTime"` // HH:MM
	Message        string             `bson:"message,omitempty" json:"message,omitempty"`
	Status         DonationStatus     `bson:"status" json:"status"`
	DonorName      string             `bson:"donorName,omitempty" json:"donorName,omitempty"`
	DonorEmail     string             `bson:"donorEmail,omitempty" json:"donorEmail,omitempty"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

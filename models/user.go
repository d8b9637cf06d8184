package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	RoleDonor     = "donor"
	RoleVolunteer = "volunteer"
	RoleAdmin     = "admin"
)

const (
	UserActive  = "active"
	UserBlocked = "blocked"
)

type User struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name       string             `bson:"name" json:"name"`
	Email      string             `bson:"email" json:"email"`
	Avatar     string             `bson:"avatar,omitempty" json:"avatar,omitempty"`
	BloodGroup string             `bson:"bloodGroup" json:"bloodGroup"`
	District   string             `bson:"district" json:"district"`
	Upazila    string             `bson:"upazila" json:"upazila"`
	Role       string             `bson:"role" json:"role"`     // donor, volunteer, admin
	Status     string             `bson:"status" json:"status"` // active, blocked
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsStaff reports whether the user may moderate requests and blog posts.
func (u *User) IsStaff() bool { return u.Role == RoleAdmin || u.Role == RoleVolunteer }

func (u *User) IsBlocked() bool { return u.Status == UserBlocked }

func ValidRole(role string) bool {
	switch role {
	case RoleDonor, RoleVolunteer, RoleAdmin:
		return true
	}
	return false
}

func ValidUserStatus(status string) bool {
	return status == UserActive || status == UserBlocked
}

var bloodGroups = map[string]bool{
	"A+": true, "A-": true,
	"B+": true, "B-": true,
	"AB+": true, "AB-": true,
	"O+": true, "O-": true,
}

func ValidBloodGroup(group string) bool {
	return bloodGroups[group]
}

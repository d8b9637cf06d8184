package models

import "go.mongodb.org/mongo-driver/bson/primitive"

// District and Upazila are seeded reference data; "id" is the code the
// upazila documents point at through district_id.
type District struct {
	ID     primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code   string             `bson:"id" json:"id"`
	Name   string             `bson:"name" json:"name"`
	BnName string             `bson:"bn_name,omitempty" json:"bn_name,omitempty"`
	URL    string             `bson:"url,omitempty" json:"url,omitempty"`
}

type Upazila struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code       string             `bson:"id" json:"id"`
	DistrictID string             `bson:"district_id" json:"district_id"`
	Name       string             `bson:"name" json:"name"`
	BnName     string             `bson:"bn_name,omitempty" json:"bn_name,omitempty"`
	URL        string             `bson:"url,omitempty" json:"url,omitempty"`
}

package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	MembershipBronze = "B"
	MembershipSilver = "S"
	MembershipGold   = "G"
)

type Customer struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	UserID     string             `bson:"user_id"`
	Phone      string             `bson:"phone,omitempty"`
	BirthDate  string             `bson:"birth_date,omitempty"`
	Membership string             `bson:"membership"`
}

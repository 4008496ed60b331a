package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Candidat is the applicant profile created at registration time.
type Candidat struct {
	ID        bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username  string        `bson:"username" json:"username"`
	Nom       string        `bson:"nom" json:"nom"`
	Prenom    string        `bson:"prenom" json:"prenom"`
	PathPhoto string        `bson:"pathPhoto,omitempty" json:"pathPhoto,omitempty"`
}

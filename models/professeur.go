package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Professeur is the academic profile attached to a professor account,
// keyed by the account's username.
type Professeur struct {
	ID             bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username       string        `bson:"username" json:"username"`
	PathPhoto      string        `bson:"pathPhoto,omitempty" json:"pathPhoto,omitempty"`
	Grade          string        `bson:"grade,omitempty" json:"grade,omitempty"`
	NombreProposer int           `bson:"nombreProposer" json:"nombreProposer"`
	NombreEncadrer int           `bson:"nombreEncadrer" json:"nombreEncadrer"`
}

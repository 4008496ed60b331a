package models

import "go.mongodb.org/mongo-driver/v2/bson"

// Group is created lazily the first time a membership references its name.
type Group struct {
	ID   bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string        `bson:"name" json:"name"`
}

package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
)

// Group names known to the platform. Groups live in their own collection
// and new ones can be created without a code change, so these are
// conveniences, not a closed set.
const (
	GroupCandidat      = "candidat"
	GroupProfesseur    = "professeur"
	GroupScolarite     = "scolarite"
	GroupDirecteurCed  = "directeur_ced"
	GroupDirecteurPole = "directeur_pole"
	GroupDirecteurLabo = "directeur_labo"
)

type User struct {
	ID           bson.ObjectID `bson:"_id,omitempty" json:"id"`
	Username     string        `bson:"username" json:"username"`
	Email        string        `bson:"email" json:"email"`
	PasswordHash string        `bson:"passwordHash" json:"-"` // never expose
	FirstName    string        `bson:"firstName" json:"firstName"`
	LastName     string        `bson:"lastName" json:"lastName"`
	IsActive     bool          `bson:"isActive" json:"isActive"`
	IsStaff      bool          `bson:"isStaff" json:"isStaff"`
	IsSuperuser  bool          `bson:"isSuperuser" json:"isSuperuser"`
	DateJoined   time.Time     `bson:"dateJoined" json:"dateJoined"`
	LastLogin    *time.Time    `bson:"lastLogin,omitempty" json:"lastLogin,omitempty"`

	// Groups is ordered: the first entry is the account's primary role.
	Groups []string `bson:"groups" json:"groups"`
}

// HasGroup reports membership by case-insensitive name match.
func (u *User) HasGroup(name string) bool {
	for _, g := range u.Groups {
		if strings.EqualFold(g, name) {
			return true
		}
	}
	return false
}

// PrimaryGroup returns the first membership, or "" for an account with none.
func (u *User) PrimaryGroup() string {
	if len(u.Groups) == 0 {
		return ""
	}
	return u.Groups[0]
}

// OnlyCandidat reports whether the account holds no group besides candidat.
// Such accounts are contractually password-login only.
func (u *User) OnlyCandidat() bool {
	if len(u.Groups) == 0 {
		return false
	}
	for _, g := range u.Groups {
		if !strings.EqualFold(g, GroupCandidat) {
			return false
		}
	}
	return true
}

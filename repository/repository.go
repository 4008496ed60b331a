// Package repository provides the data access layer over the Mongo store.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/edoctorat/backend/database"
	"github.com/edoctorat/backend/models"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

// UserRepository is the credential store contract.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByUsername(ctx context.Context, username string) (*models.User, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Insert(ctx context.Context, user *models.User) error
	SetActive(ctx context.Context, email string, active bool) error
	SetPassword(ctx context.Context, email string, passwordHash string) error
	SetLastLogin(ctx context.Context, username string, at time.Time) error
}

type GroupRepository interface {
	// Ensure creates the named group if it does not exist yet.
	Ensure(ctx context.Context, name string) error
}

type ProfesseurRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Professeur, error)
	Insert(ctx context.Context, prof *models.Professeur) error
	SetPhoto(ctx context.Context, username string, pathPhoto string) error
}

type CandidatRepository interface {
	FindByUsername(ctx context.Context, username string) (*models.Candidat, error)
	Insert(ctx context.Context, candidat *models.Candidat) error
}

type userRepository struct {
	col *mongo.Collection
}

func NewUserRepository(db *database.DB) UserRepository {
	return &userRepository{col: db.Users}
}

func (r *userRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) FindByUsername(ctx context.Context, username string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"username": username})
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	err := r.col.FindOne(ctx, filter).Decode(&user)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find user: %w", err)
	}
	return &user, nil
}

func (r *userRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	count, err := r.col.CountDocuments(ctx, bson.M{"email": email})
	if err != nil {
		return false, fmt.Errorf("count users: %w", err)
	}
	return count > 0, nil
}

func (r *userRepository) Insert(ctx context.Context, user *models.User) error {
	_, err := r.col.InsertOne(ctx, user)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

func (r *userRepository) SetActive(ctx context.Context, email string, active bool) error {
	return r.updateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"isActive": active}})
}

func (r *userRepository) SetPassword(ctx context.Context, email string, passwordHash string) error {
	return r.updateOne(ctx, bson.M{"email": email}, bson.M{"$set": bson.M{"passwordHash": passwordHash}})
}

func (r *userRepository) SetLastLogin(ctx context.Context, username string, at time.Time) error {
	return r.updateOne(ctx, bson.M{"username": username}, bson.M{"$set": bson.M{"lastLogin": at}})
}

func (r *userRepository) updateOne(ctx context.Context, filter, update bson.M) error {
	res, err := r.col.UpdateOne(ctx, filter, update)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type groupRepository struct {
	col *mongo.Collection
}

func NewGroupRepository(db *database.DB) GroupRepository {
	return &groupRepository{col: db.Groups}
}

func (r *groupRepository) Ensure(ctx context.Context, name string) error {
	opts := options.UpdateOne().SetUpsert(true)
	_, err := r.col.UpdateOne(ctx,
		bson.M{"name": name},
		bson.M{"$setOnInsert": bson.M{"name": name}},
		opts,
	)
	if err != nil {
		return fmt.Errorf("ensure group %s: %w", name, err)
	}
	return nil
}

type professeurRepository struct {
	col *mongo.Collection
}

func NewProfesseurRepository(db *database.DB) ProfesseurRepository {
	return &professeurRepository{col: db.Professeurs}
}

func (r *professeurRepository) FindByUsername(ctx context.Context, username string) (*models.Professeur, error) {
	var prof models.Professeur
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&prof)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find professeur: %w", err)
	}
	return &prof, nil
}

func (r *professeurRepository) Insert(ctx context.Context, prof *models.Professeur) error {
	_, err := r.col.InsertOne(ctx, prof)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert professeur: %w", err)
	}
	return nil
}

func (r *professeurRepository) SetPhoto(ctx context.Context, username string, pathPhoto string) error {
	res, err := r.col.UpdateOne(ctx,
		bson.M{"username": username},
		bson.M{"$set": bson.M{"pathPhoto": pathPhoto}},
	)
	if err != nil {
		return fmt.Errorf("update professeur photo: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

type candidatRepository struct {
	col *mongo.Collection
}

func NewCandidatRepository(db *database.DB) CandidatRepository {
	return &candidatRepository{col: db.Candidats}
}

func (r *candidatRepository) FindByUsername(ctx context.Context, username string) (*models.Candidat, error) {
	var candidat models.Candidat
	err := r.col.FindOne(ctx, bson.M{"username": username}).Decode(&candidat)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("find candidat: %w", err)
	}
	return &candidat, nil
}

func (r *candidatRepository) Insert(ctx context.Context, candidat *models.Candidat) error {
	_, err := r.col.InsertOne(ctx, candidat)
	if err != nil {
		if database.IsDuplicateKey(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("insert candidat: %w", err)
	}
	return nil
}

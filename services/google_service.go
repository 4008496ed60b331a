package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/edoctorat/backend/config"
	"github.com/edoctorat/backend/dto"
	"github.com/edoctorat/backend/models"
	"github.com/edoctorat/backend/repository"
	"github.com/edoctorat/backend/utils"
	"google.golang.org/api/idtoken"
)

// GoogleAuthService bridges Google-issued identity tokens to internal
// accounts. Candidate accounts are hard-excluded from this path: they are
// contractually required to use password login.
type GoogleAuthService struct {
	users         repository.UserRepository
	groups        repository.GroupRepository
	professeurs   repository.ProfesseurRepository
	tokens        *utils.TokenService
	audience      string
	autoProvision bool
	defaultGroup  string

	// validate is idtoken.Validate, injectable for tests.
	validate func(ctx context.Context, token, audience string) (*idtoken.Payload, error)
}

func NewGoogleAuthService(
	cfg config.Config,
	users repository.UserRepository,
	groups repository.GroupRepository,
	professeurs repository.ProfesseurRepository,
	tokens *utils.TokenService,
) *GoogleAuthService {
	return &GoogleAuthService{
		users:         users,
		groups:        groups,
		professeurs:   professeurs,
		tokens:        tokens,
		audience:      cfg.GoogleClientID,
		autoProvision: cfg.GoogleAutoProvision,
		defaultGroup:  cfg.GoogleDefaultGroup,
		validate:      idtoken.Validate,
	}
}

// VerifyProfessor verifies a Google ID token and establishes equivalence
// with an internal account.
func (s *GoogleAuthService) VerifyProfessor(ctx context.Context, rawIDToken string) (*dto.AuthProfResponse, error) {
	payload, err := s.validate(ctx, rawIDToken, s.audience)
	if err != nil {
		return nil, ErrInvalidExternalToken
	}

	email, _ := payload.Claims["email"].(string)
	if email == "" {
		return nil, ErrInvalidExternalToken
	}
	if !issuerVerified(payload.Claims["email_verified"]) {
		return nil, ErrEmailNotVerifiedByIssuer
	}

	user, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, repository.ErrNotFound) {
		if !s.autoProvision {
			return nil, ErrAccountNotFound
		}
		user, err = s.provision(ctx, email, payload.Claims)
	}
	if err != nil {
		return nil, err
	}

	if len(user.Groups) == 0 || user.OnlyCandidat() {
		return nil, ErrRoleNotEligible
	}

	access, err := s.tokens.GenerateAccessToken(user.Username, user.Groups)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	resp := &dto.AuthProfResponse{
		Email:   user.Email,
		Nom:     user.LastName,
		Prenom:  user.FirstName,
		Groups:  user.Groups,
		Access:  access,
		Refresh: refresh,
	}
	if prof, err := s.professeurs.FindByUsername(ctx, user.Username); err == nil {
		resp.PathPhoto = prof.PathPhoto
		resp.Grade = prof.Grade
		resp.NombreProposer = prof.NombreProposer
		resp.NombreEncadrer = prof.NombreEncadrer
	}
	return resp, nil
}

// provision creates an active account with an unusable local password and
// the configured default group.
func (s *GoogleAuthService) provision(ctx context.Context, email string, claims map[string]interface{}) (*models.User, error) {
	hash, err := utils.HashPassword(utils.RandomPassword())
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := s.groups.Ensure(ctx, s.defaultGroup); err != nil {
		return nil, err
	}

	firstName, _ := claims["given_name"].(string)
	lastName, _ := claims["family_name"].(string)

	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		DateJoined:   time.Now().UTC(),
		Groups:       []string{s.defaultGroup},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		// A concurrent first login already created the account; use it.
		if errors.Is(err, repository.ErrDuplicate) {
			return s.users.FindByEmail(ctx, email)
		}
		return nil, err
	}
	log.Printf("auto-provisioned %s account for %s", s.defaultGroup, email)
	return user, nil
}

func issuerVerified(claim interface{}) bool {
	switch v := claim.(type) {
	case bool:
		return v
	case string:
		return v == "true"
	}
	return false
}

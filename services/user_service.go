package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/edoctorat/backend/dto"
	"github.com/edoctorat/backend/models"
	"github.com/edoctorat/backend/repository"
	"github.com/edoctorat/backend/utils"
)

// Mailer is the notification sink. Delivery errors are the caller's call:
// registration reports them, activation ignores them.
type Mailer interface {
	SendVerification(email, name, token string) error
	SendWelcome(email, name string) error
	SendPasswordReset(email, token string) error
}

// UserService orchestrates credential checks, role membership and token
// issuance for every password-based flow.
type UserService struct {
	users       repository.UserRepository
	groups      repository.GroupRepository
	professeurs repository.ProfesseurRepository
	candidats   repository.CandidatRepository
	tokens      *utils.TokenService
	mailer      Mailer
}

func NewUserService(
	users repository.UserRepository,
	groups repository.GroupRepository,
	professeurs repository.ProfesseurRepository,
	candidats repository.CandidatRepository,
	tokens *utils.TokenService,
	mailer Mailer,
) *UserService {
	return &UserService{
		users:       users,
		groups:      groups,
		professeurs: professeurs,
		candidats:   candidats,
		tokens:      tokens,
		mailer:      mailer,
	}
}

// LoginWithGroup authenticates an email/password pair against one required
// group. Every failure is ErrInvalidCredentials.
func (s *UserService) LoginWithGroup(ctx context.Context, email, password, group string) (*dto.TokenResponse, error) {
	user, err := s.authenticate(ctx, email, password, false)
	if err != nil {
		return nil, err
	}
	if !user.HasGroup(group) {
		return nil, ErrInvalidCredentials
	}
	return s.mintTokenPair(ctx, user)
}

// LoginScolarite authenticates the registrar by username and returns the
// profile-bearing response its front-end expects.
func (s *UserService) LoginScolarite(ctx context.Context, username, password string) (*dto.LoginResponse, error) {
	user, err := s.authenticate(ctx, username, password, true)
	if err != nil {
		return nil, err
	}
	if !user.HasGroup(models.GroupScolarite) {
		return nil, ErrInvalidCredentials
	}

	pair, err := s.mintTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.LoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		Prenom:  user.FirstName,
		Nom:     user.LastName,
		Email:   user.Email,
		Groups:  user.Groups,
	}, nil
}

// UnifiedLogin accepts any role and reports which one authenticated. An
// inactive account surfaces the distinguishable not-verified condition,
// since activation only ever happens through email verification.
func (s *UserService) UnifiedLogin(ctx context.Context, email, password string) (*dto.UnifiedLoginResponse, error) {
	user, err := s.authenticate(ctx, email, password, false)
	if err != nil {
		return nil, err
	}
	if !user.IsActive {
		return nil, ErrEmailNotVerified
	}

	pair, err := s.mintTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}
	return &dto.UnifiedLoginResponse{
		Access:  pair.Access,
		Refresh: pair.Refresh,
		Role:    user.PrimaryGroup(),
	}, nil
}

// normalizeEmail is applied on both sides of every email-keyed access:
// accounts are stored lowercase, so lookups must lowercase too or a user
// who typed mixed case at registration can never match their own account.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// authenticate runs the shared prefix of every login: lookup, password
// check, non-empty membership. Terminal on first failure.
func (s *UserService) authenticate(ctx context.Context, identifier, password string, byUsername bool) (*models.User, error) {
	var user *models.User
	var err error
	if byUsername {
		user, err = s.users.FindByUsername(ctx, identifier)
	} else {
		user, err = s.users.FindByEmail(ctx, normalizeEmail(identifier))
	}
	if errors.Is(err, repository.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}

	if err := utils.CheckPassword(user.PasswordHash, password); err != nil {
		return nil, ErrInvalidCredentials
	}
	if len(user.Groups) == 0 {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *UserService) mintTokenPair(ctx context.Context, user *models.User) (*dto.TokenResponse, error) {
	access, err := s.tokens.GenerateAccessToken(user.Username, user.Groups)
	if err != nil {
		return nil, fmt.Errorf("generate access token: %w", err)
	}
	refresh, err := s.tokens.GenerateRefreshToken(user.Username)
	if err != nil {
		return nil, fmt.Errorf("generate refresh token: %w", err)
	}

	if err := s.users.SetLastLogin(ctx, user.Username, time.Now().UTC()); err != nil {
		log.Printf("last-login update failed for %s: %v", user.Username, err)
	}
	return &dto.TokenResponse{Access: access, Refresh: refresh}, nil
}

// RegisterCandidat creates an inactive candidate account and sends the
// verification mail. A delivery failure is reported but never rolls the
// account back: the identity must survive so verification can be resent.
func (s *UserService) RegisterCandidat(ctx context.Context, req dto.RegisterCandidatDTO) error {
	email := normalizeEmail(req.Email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return ErrEmailAlreadyRegistered
	}

	hash, err := utils.HashPassword(req.Password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if err := s.groups.Ensure(ctx, models.GroupCandidat); err != nil {
		return err
	}

	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		FirstName:    req.Prenom,
		LastName:     req.Nom,
		IsActive:     false,
		DateJoined:   time.Now().UTC(),
		Groups:       []string{models.GroupCandidat},
	}
	if err := s.users.Insert(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return ErrEmailAlreadyRegistered
		}
		return err
	}

	candidat := &models.Candidat{Username: email, Nom: req.Nom, Prenom: req.Prenom}
	if err := s.candidats.Insert(ctx, candidat); err != nil {
		log.Printf("candidat profile creation failed for %s: %v", email, err)
	}

	token, err := s.tokens.GenerateEmailVerificationToken(email)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if err := s.mailer.SendVerification(email, req.Prenom+" "+req.Nom, token); err != nil {
		log.Printf("verification mail failed for %s: %v", email, err)
		return ErrDeliveryFailure
	}
	return nil
}

// VerifyEmail redeems a verification token. Verifying twice is an error,
// not a repeated activation.
func (s *UserService) VerifyEmail(ctx context.Context, token string) error {
	claims, err := s.tokens.ParseOfType(token, utils.TokenTypeEmailVerification)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	user, err := s.users.FindByEmail(ctx, claims.Username)
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrAlreadyVerified
	}

	if err := s.users.SetActive(ctx, user.Email, true); err != nil {
		return err
	}

	// Best effort; activation stands regardless.
	if err := s.mailer.SendWelcome(user.Email, user.FirstName+" "+user.LastName); err != nil {
		log.Printf("welcome mail failed for %s: %v", user.Email, err)
	}
	return nil
}

func (s *UserService) ResendVerification(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return ErrAccountNotFound
	}
	if err != nil {
		return err
	}
	if user.IsActive {
		return ErrAlreadyVerified
	}

	token, err := s.tokens.GenerateEmailVerificationToken(user.Email)
	if err != nil {
		return fmt.Errorf("generate verification token: %w", err)
	}
	if err := s.mailer.SendVerification(user.Email, user.FirstName+" "+user.LastName, token); err != nil {
		return ErrDeliveryFailure
	}
	return nil
}

func (s *UserService) VerificationStatus(ctx context.Context, email string) (bool, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return false, ErrAccountNotFound
	}
	if err != nil {
		return false, err
	}
	return user.IsActive, nil
}

// RequestPasswordReset never reveals whether the email exists. A missing
// account is a silent no-op.
func (s *UserService) RequestPasswordReset(ctx context.Context, email string) error {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(email))
	if errors.Is(err, repository.ErrNotFound) {
		return nil
	}
	if err != nil {
		return err
	}

	token, err := s.tokens.GeneratePasswordResetToken(user.Email)
	if err != nil {
		return fmt.Errorf("generate reset token: %w", err)
	}
	if err := s.mailer.SendPasswordReset(user.Email, token); err != nil {
		return ErrDeliveryFailure
	}
	return nil
}

// PerformPasswordReset overwrites the hash for the token's subject. It
// never compares against the old password.
func (s *UserService) PerformPasswordReset(ctx context.Context, newPassword, token string) error {
	claims, err := s.tokens.ParseOfType(token, utils.TokenTypePasswordReset)
	if err != nil {
		return ErrInvalidOrExpiredToken
	}

	hash, err := utils.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.users.SetPassword(ctx, claims.Username, hash); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return err
	}
	return nil
}

// RefreshAccessToken redeems a refresh token for a fresh access token.
// Membership is re-read so the new token reflects current groups.
func (s *UserService) RefreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	claims, err := s.tokens.ParseOfType(refreshToken, utils.TokenTypeRefresh)
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}

	user, err := s.findByIdentifier(ctx, claims.Username)
	if err != nil {
		return "", ErrInvalidOrExpiredToken
	}
	// Membership revoked since login must not survive through refresh.
	if len(user.Groups) == 0 {
		return "", ErrInvalidOrExpiredToken
	}

	access, err := s.tokens.GenerateAccessToken(user.Username, user.Groups)
	if err != nil {
		return "", fmt.Errorf("generate access token: %w", err)
	}
	return access, nil
}

// GetUserInfo resolves the bearer token's account and shapes the response
// for the requested role. The photo comes from whichever profile document
// matches the role; unknown roles get the basic shape.
func (s *UserService) GetUserInfo(ctx context.Context, accessToken, role string) (*dto.UserInfoResponse, error) {
	claims, err := s.tokens.ParseOfType(accessToken, utils.TokenTypeAccess)
	if err != nil {
		return nil, ErrInvalidOrExpiredToken
	}

	user, err := s.findByIdentifier(ctx, claims.Username)
	if err != nil {
		return nil, ErrAccountNotFound
	}

	info := &dto.UserInfoResponse{
		Nom:    user.LastName,
		Prenom: user.FirstName,
		Email:  user.Email,
		Groups: user.Groups,
	}

	switch strings.ToLower(role) {
	case models.GroupCandidat:
		if candidat, err := s.candidats.FindByUsername(ctx, user.Username); err == nil {
			info.PathPhoto = candidat.PathPhoto
		}
	case models.GroupProfesseur, models.GroupDirecteurCed, models.GroupDirecteurPole, models.GroupDirecteurLabo, "ced":
		if prof, err := s.professeurs.FindByUsername(ctx, user.Username); err == nil {
			info.PathPhoto = prof.PathPhoto
		}
	}
	return info, nil
}

// findByIdentifier resolves a token subject by username first, then email.
func (s *UserService) findByIdentifier(ctx context.Context, identifier string) (*models.User, error) {
	user, err := s.users.FindByUsername(ctx, identifier)
	if errors.Is(err, repository.ErrNotFound) {
		user, err = s.users.FindByEmail(ctx, identifier)
	}
	return user, err
}

// CreateUserWithGroup provisions an active account with one group,
// skipping silently when the email is already taken. Used by startup
// seeding.
func (s *UserService) CreateUserWithGroup(ctx context.Context, email, password, firstName, lastName, group string, staff bool) error {
	email = normalizeEmail(email)

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		return nil
	}

	hash, err := utils.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	if err := s.groups.Ensure(ctx, group); err != nil {
		return err
	}

	user := &models.User{
		Username:     email,
		Email:        email,
		PasswordHash: hash,
		FirstName:    firstName,
		LastName:     lastName,
		IsActive:     true,
		IsStaff:      staff,
		DateJoined:   time.Now().UTC(),
		Groups:       []string{group},
	}
	if err := s.users.Insert(ctx, user); err != nil && !errors.Is(err, repository.ErrDuplicate) {
		return err
	}
	return nil
}

package service

import (
	"context"
	"errors"
	"strings"

	pp "pokemon_portal"
	"pokemon_portal/internal/logger"
	"pokemon_portal/internal/models"
	"pokemon_portal/internal/repository"
	"pokemon_portal/internal/security"
)

const (
	msgUserCreated       = "User registered successfully"
	msgPasswordsMismatch = "passwords do not match"

	dummyPassword = "pokemon-portal-placeholder"
)

// AuthService handles user auth logic
type AuthService struct {
	users  repository.Users
	hasher PasswordHasher
	tokens TokenIssuer
	log    *logger.Logger

	// dummyDigest is compared against when the username is unknown so both
	// failure paths pay for one bcrypt operation.
	dummyDigest string
}

func NewAuthService(users repository.Users, hasher PasswordHasher, tokens TokenIssuer, log *logger.Logger) *AuthService {
	if hasher == nil {
		hasher = security.NewHasher(security.DefaultCost)
	}
	if log == nil {
		log = logger.Nop()
	}
	s := &AuthService{users: users, hasher: hasher, tokens: tokens, log: log}
	digest, err := hasher.Hash(dummyPassword)
	if err != nil {
		log.Warnw("auth_dummy_digest_failed", "error", err)
	}
	s.dummyDigest = digest
	return s
}

// Register creates a new account. It does not log the user in.
func (s *AuthService) Register(ctx context.Context, username, password, confirmPassword string) (pp.RegisterResponse, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return pp.RegisterResponse{}, validationf("username is required")
	}
	if password != confirmPassword {
		return pp.RegisterResponse{}, validationf(msgPasswordsMismatch)
	}

	existing, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		s.log.Errorw("auth_register_lookup_failed", "username", username, "error", err)
		return pp.RegisterResponse{}, &InternalError{Op: "registration", Err: err}
	}
	if existing != nil {
		return pp.RegisterResponse{}, ErrDuplicateUsername
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, security.ErrEmptyPassword) {
			return pp.RegisterResponse{}, validationf("password is required")
		}
		return pp.RegisterResponse{}, &InternalError{Op: "registration", Err: err}
	}

	u, err := s.users.Create(ctx, username, hash)
	if err != nil {
		// a concurrent registration may win between lookup and insert
		if errors.Is(err, repository.ErrDuplicateUsername) {
			return pp.RegisterResponse{}, ErrDuplicateUsername
		}
		s.log.Errorw("auth_register_create_failed", "username", username, "error", err)
		return pp.RegisterResponse{}, &InternalError{Op: "registration", Err: err}
	}

	s.log.Infow("auth_registered", "user_id", u.ID, "username", u.Username)
	return pp.RegisterResponse{Message: msgUserCreated, Username: u.Username}, nil
}

// lookupCredentials returns the user when the password matches, (nil, nil)
// when it does not, and an error only for store failures.
func (s *AuthService) lookupCredentials(ctx context.Context, username, password string) (*models.User, error) {
	u, err := s.users.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		return nil, err
	}
	if u == nil {
		s.burnHash(password)
		return nil, nil
	}
	if !s.hasher.Verify(password, u.PasswordHash) {
		return nil, nil
	}
	return u, nil
}

// burnHash spends one bcrypt operation on an unknown username. Without a dummy
// digest it hashes instead, which costs the same.
func (s *AuthService) burnHash(password string) {
	if s.dummyDigest == "" {
		_, _ = s.hasher.Hash(password + dummyPassword)
		return
	}
	s.hasher.Verify(password, s.dummyDigest)
}

// ValidateCredentials returns the profile for a matching pair, nil otherwise.
// Store failures are logged and reported as nil.
func (s *AuthService) ValidateCredentials(ctx context.Context, username, password string) *pp.UserProfile {
	u, err := s.lookupCredentials(ctx, username, password)
	if err != nil {
		s.log.Errorw("auth_validate_failed", "username", username, "error", err)
		return nil
	}
	if u == nil {
		return nil
	}
	p := u.Profile()
	return &p
}

// Login checks credentials and issues an access token. Unknown user and wrong
// password yield the same ErrInvalidCredentials.
func (s *AuthService) Login(ctx context.Context, username, password string) (pp.LoginResponse, error) {
	u, err := s.lookupCredentials(ctx, username, password)
	if err != nil {
		s.log.Errorw("auth_login_lookup_failed", "username", username, "error", err)
		return pp.LoginResponse{}, &InternalError{Op: "login", Err: err}
	}
	if u == nil {
		s.log.Infow("auth_login_rejected", "username", username)
		return pp.LoginResponse{}, ErrInvalidCredentials
	}

	token, err := s.tokens.Issue(u.ID, u.Username)
	if err != nil {
		s.log.Errorw("auth_token_issue_failed", "user_id", u.ID, "error", err)
		return pp.LoginResponse{}, &InternalError{Op: "login", Err: err}
	}

	s.log.Infow("auth_logged_in", "user_id", u.ID)
	return pp.LoginResponse{AccessToken: token, User: u.Profile()}, nil
}

func (s *AuthService) VerifyToken(accessToken string) (security.Identity, error) {
	return s.tokens.Verify(accessToken)
}

// GetUserByID returns nil for unknown ids and for store failures.
func (s *AuthService) GetUserByID(ctx context.Context, id int) *pp.UserProfile {
	u, err := s.users.FindByID(ctx, id)
	if err != nil {
		s.log.Errorw("auth_user_lookup_failed", "user_id", id, "error", err)
		return nil
	}
	if u == nil {
		return nil
	}
	p := u.Profile()
	return &p
}

// GetProfile projects an authenticated user to its public fields.
func (s *AuthService) GetProfile(user pp.UserProfile) pp.UserProfile {
	return pp.UserProfile{ID: user.ID, Username: user.Username}
}

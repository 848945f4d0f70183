// Package service contains the business logic layer of the application.
//
// UserService sits between the HTTP handlers and the repository/auth
// utilities:
//
//	UserHandler (HTTP) → UserService (business rules) → UserRepository (DB)
//	                   ↘ TokenService (sessions), PasswordService (bcrypt)
//
// KEY RESPONSIBILITIES:
//   - Enforce field validation and defaults in one place, away from HTTP
//   - Orchestrate register/login: hash or verify the credential, issue tokens
//   - Propagate failures as taxonomy errors, never recovering them locally
//
// ERROR PROPAGATION POLICY:
// The service never retries and never swallows a failure. Repository and
// auth failures arrive pre-classified (apperror sentinels) or unclassified
// (unexpected); the service adds context with %w and passes them up. The
// one reclassification it performs itself is the login path, where both
// "no such email" and "wrong password" collapse into a single Unauthorized
// with one fixed message — distinguishable messages would let an attacker
// enumerate which emails have accounts.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/mail"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/rs/xid"

	"github.com/sakif/account-api/internal/apperror"
	"github.com/sakif/account-api/internal/auth"
	"github.com/sakif/account-api/internal/model"
	"github.com/sakif/account-api/internal/repository"
)

// Field bounds and defaults. Absent name/about/avatar fall back to the
// reference profile; email and password are always required.
const (
	MinNameLength  = 2
	MaxNameLength  = 30
	MinAboutLength = 2
	MaxAboutLength = 200

	DefaultName   = "Jacques Cousteau"
	DefaultAbout  = "Explorer"
	DefaultAvatar = "https://pictures.s3.yandex.net/resources/jacques-cousteau_1604399756.png"
)

// loginFailedMessage is the single message for every login failure mode.
// Unknown email and wrong password MUST be indistinguishable.
const loginFailedMessage = "incorrect email or password"

// UserService handles account business logic.
type UserService struct {
	users     repository.UserRepository
	tokens    *auth.TokenService
	passwords *auth.PasswordService
	logger    *slog.Logger
}

// NewUserService creates a UserService with all required dependencies.
func NewUserService(
	users repository.UserRepository,
	tokens *auth.TokenService,
	passwords *auth.PasswordService,
	logger *slog.Logger,
) *UserService {
	return &UserService{
		users:     users,
		tokens:    tokens,
		passwords: passwords,
		logger:    logger,
	}
}

// RegisterInput carries the signup fields. Name, About and Avatar are
// optional; Email and Password are not.
type RegisterInput struct {
	Name     string
	About    string
	Avatar   string
	Email    string
	Password string
}

// AuthResult is returned by Login. It bundles the user record with the
// issued token and its lifetime so the HTTP handler can set the cookie and
// respond in one step.
type AuthResult struct {
	User   *model.User
	Token  string
	MaxAge int // cookie lifetime in seconds, matches the token expiry
}

// Register creates a new account with a hashed credential.
//
// Fails with ErrValidation on bad field shape and ErrConflict when the
// email is already registered (enforced by the store's uniqueness
// constraint, not a racy pre-check here).
func (s *UserService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	in.Name = applyDefault(in.Name, DefaultName)
	in.About = applyDefault(in.About, DefaultAbout)
	in.Avatar = applyDefault(in.Avatar, DefaultAvatar)

	if err := validateName(in.Name); err != nil {
		return nil, err
	}
	if err := validateAbout(in.About); err != nil {
		return nil, err
	}
	if err := validateAvatar(in.Avatar); err != nil {
		return nil, err
	}
	if err := validateEmail(in.Email); err != nil {
		return nil, err
	}
	if in.Password == "" {
		return nil, apperror.ValidationFailed("password", "password is required")
	}
	if len(in.Password) > 72 {
		return nil, apperror.ValidationFailed("password", "password must be 72 characters or fewer")
	}

	// Any failure of the hashing primitive itself is unexpected, not a
	// domain error — it propagates unclassified and renders as a 500.
	digest, err := s.passwords.Hash(in.Password)
	if err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	user := &model.User{
		Name:         in.Name,
		About:        in.About,
		Avatar:       in.Avatar,
		Email:        in.Email,
		PasswordHash: digest,
	}

	if err := s.users.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("registering user: %w", err)
	}

	s.logger.Info("user registered",
		slog.String("userID", user.ID),
		slog.String("email", user.Email),
	)

	// The digest is write-only from here on
	user.PasswordHash = ""
	return user, nil
}

// Login authenticates by email and password and issues a session token.
//
// The credential read is the only code path that ever loads the stored
// hash. Both failure modes — unknown email and mismatched password —
// return the same ErrUnauthorized with the same message. Store failures
// other than "not found" pass through unclassified.
func (s *UserService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	user, err := s.users.GetByEmailWithHash(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, apperror.Unauthorized(loginFailedMessage)
		}
		return nil, fmt.Errorf("logging in: %w", err)
	}

	if !s.passwords.Verify(password, user.PasswordHash) {
		return nil, apperror.Unauthorized(loginFailedMessage)
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return nil, fmt.Errorf("logging in: issuing token for user %s: %w", user.ID, err)
	}

	s.logger.Info("user logged in", slog.String("userID", user.ID))

	user.PasswordHash = ""
	return &AuthResult{
		User:   user,
		Token:  token,
		MaxAge: s.tokens.MaxAge(),
	}, nil
}

// GetCurrentUser returns the profile of the authenticated user. Identical
// contract to GetUserByID; the id comes from the verified token rather
// than a request parameter.
func (s *UserService) GetCurrentUser(ctx context.Context, id string) (*model.User, error) {
	return s.GetUserByID(ctx, id)
}

// GetUserByID fetches a user in fail-if-absent mode.
//
// THE THREE-WAY SPLIT:
// A malformed id (one that cannot be an identifier at all) is
// ErrValidation, a well-formed id with no record is ErrNotFound, and
// everything else passes through unclassified. Conflating the first two
// would turn client typos into phantom 404s.
func (s *UserService) GetUserByID(ctx context.Context, id string) (*model.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}

	user, err := s.users.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("fetching user %s: %w", id, err)
	}

	return user, nil
}

// ListUsers returns all users. No pagination or filtering — out of scope.
func (s *UserService) ListUsers(ctx context.Context) ([]model.User, error) {
	users, err := s.users.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return users, nil
}

// UpdateProfile sets name/about on the user, running the same validation
// as registration, and returns the updated record. Both fields are
// required on every call — this is a full replacement of the pair, not a
// partial merge.
func (s *UserService) UpdateProfile(ctx context.Context, id, name, about string) (*model.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateName(name); err != nil {
		return nil, err
	}
	if err := validateAbout(about); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateProfile(ctx, id, repository.ProfileUpdate{
		Name:  name,
		About: about,
	})
	if err != nil {
		return nil, fmt.Errorf("updating profile for user %s: %w", id, err)
	}

	s.logger.Info("profile updated", slog.String("userID", id))
	return user, nil
}

// UpdateAvatar sets the avatar URL on the user and returns the updated
// record. Same contract shape as UpdateProfile, restricted to one field.
func (s *UserService) UpdateAvatar(ctx context.Context, id, avatar string) (*model.User, error) {
	if err := validateID(id); err != nil {
		return nil, err
	}
	if err := validateAvatar(avatar); err != nil {
		return nil, err
	}

	user, err := s.users.UpdateAvatar(ctx, id, avatar)
	if err != nil {
		return nil, fmt.Errorf("updating avatar for user %s: %w", id, err)
	}

	s.logger.Info("avatar updated", slog.String("userID", id))
	return user, nil
}

// === VALIDATION HELPERS ===

func applyDefault(value, def string) string {
	if strings.TrimSpace(value) == "" {
		return def
	}
	return value
}

// validateID rejects strings that cannot be a user identifier at all.
// IDs are xid strings; anything that doesn't parse is the "malformed
// identifier" case of the taxonomy and never reaches the store.
func validateID(id string) error {
	if _, err := xid.FromString(id); err != nil {
		return apperror.ValidationFailed("id", "invalid user id")
	}
	return nil
}

// The bounds are character counts, not byte counts — "Мария" is 5
// characters long, not 10. utf8.RuneCountInString, never len().
func validateName(name string) error {
	if n := utf8.RuneCountInString(name); n < MinNameLength || n > MaxNameLength {
		return apperror.ValidationFailed("name",
			fmt.Sprintf("name must be between %d and %d characters", MinNameLength, MaxNameLength))
	}
	return nil
}

func validateAbout(about string) error {
	if n := utf8.RuneCountInString(about); n < MinAboutLength || n > MaxAboutLength {
		return apperror.ValidationFailed("about",
			fmt.Sprintf("about must be between %d and %d characters", MinAboutLength, MaxAboutLength))
	}
	return nil
}

// validateAvatar checks that the value looks like an http(s) URL.
// url.ParseRequestURI alone accepts things like "foo:bar", so we also pin
// the scheme and require a host.
func validateAvatar(avatar string) error {
	u, err := url.ParseRequestURI(avatar)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return apperror.ValidationFailed("avatar", "avatar must be a valid URL")
	}
	return nil
}

// validateEmail checks syntax with net/mail. mail.ParseAddress accepts
// "Name <a@b>" display forms; requiring the parsed address to equal the
// input rules those out.
func validateEmail(email string) error {
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return apperror.ValidationFailed("email", "email must be a valid email address")
	}
	return nil
}

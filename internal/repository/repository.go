// Package repository defines the storage interfaces the service layer
// programs against. Concrete implementations live in subpackages (sqlite).
package repository

import (
	"context"

	"github.com/sakif/account-api/internal/model"
)

// ProfileUpdate carries the mutable profile fields for UpdateProfile.
// Email and the password hash are deliberately absent — they are immutable
// through this API surface.
type ProfileUpdate struct {
	Name  string
	About string
}

// UserRepository is the persistence contract for user records.
//
// HASH EXPOSURE IS A TYPE-LEVEL PROPERTY:
// Reads come in two flavours. GetByID and List never populate PasswordHash.
// GetByEmailWithHash is the single credential read, used only by the login
// path. Which function you called decides whether the hash is in memory at
// all — there is no runtime "include hash" flag to get wrong.
//
// Implementations translate their driver's failure signals into the
// apperror taxonomy at this boundary: "no rows" → ErrNotFound, a uniqueness
// violation → ErrConflict. Anything else passes through unclassified.
type UserRepository interface {
	// Create inserts a new user and assigns ID/CreatedAt/UpdatedAt in place.
	// Fails with apperror.ErrConflict if the email is already taken.
	Create(ctx context.Context, user *model.User) error

	// GetByID returns the user with the given ID, PasswordHash left empty.
	// Fails with apperror.ErrNotFound if no such user exists.
	GetByID(ctx context.Context, id string) (*model.User, error)

	// GetByEmailWithHash returns the user with the given email including the
	// stored credential digest. Only the login path may call this.
	// Fails with apperror.ErrNotFound if no such user exists.
	GetByEmailWithHash(ctx context.Context, email string) (*model.User, error)

	// List returns all users, hashes left empty.
	List(ctx context.Context) ([]model.User, error)

	// UpdateProfile sets name/about on the user and returns the updated
	// record. Fails with apperror.ErrNotFound if no such user exists.
	UpdateProfile(ctx context.Context, id string, upd ProfileUpdate) (*model.User, error)

	// UpdateAvatar sets the avatar URL on the user and returns the updated
	// record. Fails with apperror.ErrNotFound if no such user exists.
	UpdateAvatar(ctx context.Context, id string, avatar string) (*model.User, error)
}

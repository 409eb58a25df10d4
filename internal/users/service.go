package users

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db"
	"github.com/vkarpenko/shareit-go/pkg/db/models"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service exposes user management operations.
type Service interface {
	Create(ctx context.Context, input CreateUserInput) (UserDTO, error)
	Update(ctx context.Context, id int64, input UpdateUserInput) (UserDTO, error)
	GetByID(ctx context.Context, id int64) (UserDTO, error)
	List(ctx context.Context) ([]UserDTO, error)
	Delete(ctx context.Context, id int64) error
}

type service struct {
	repo Repository
	tx   txRunner
}

// NewService builds the users service.
func NewService(repo Repository, tx txRunner) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	if tx == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "transaction runner is required")
	}
	return &service{repo: repo, tx: tx}, nil
}

// Create registers a user, rejecting duplicate emails.
func (s *service) Create(ctx context.Context, input CreateUserInput) (UserDTO, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(input.Email)
	if name == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
	}
	if email == "" {
		return UserDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "email must not be blank")
	}

	if err := s.ensureEmailFree(ctx, s.repo, email, 0); err != nil {
		return UserDTO{}, err
	}

	user, err := s.repo.Create(ctx, &models.User{Name: name, Email: email})
	if err != nil {
		// Pre-check races with concurrent signups; the unique index has the
		// final word.
		if db.IsUniqueViolation(err, "idx_users_email") {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already exists")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
	}
	return toDTO(user), nil
}

// Update applies a partial patch: only non-nil fields overwrite.
func (s *service) Update(ctx context.Context, id int64, input UpdateUserInput) (UserDTO, error) {
	var dto UserDTO
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		user, err := repo.FindByID(ctx, id)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
		}

		if input.Email != nil {
			email := strings.TrimSpace(*input.Email)
			if email == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "email must not be blank")
			}
			if err := s.ensureEmailFree(ctx, repo, email, id); err != nil {
				return err
			}
			user.Email = email
		}
		if input.Name != nil {
			name := strings.TrimSpace(*input.Name)
			if name == "" {
				return pkgerrors.New(pkgerrors.CodeValidation, "name must not be blank")
			}
			user.Name = name
		}

		updated, err := repo.Save(ctx, user)
		if err != nil {
			if db.IsUniqueViolation(err, "idx_users_email") {
				return pkgerrors.Wrap(pkgerrors.CodeConflict, err, "email already exists")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "save user")
		}
		dto = toDTO(updated)
		return nil
	})
	if err != nil {
		return UserDTO{}, err
	}
	return dto, nil
}

// GetByID loads a single user.
func (s *service) GetByID(ctx context.Context, id int64) (UserDTO, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return UserDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return toDTO(user), nil
}

// List returns all users.
func (s *service) List(ctx context.Context) ([]UserDTO, error) {
	users, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list users")
	}
	return toDTOs(users), nil
}

// Delete removes the user. Deleting an absent id is a no-op.
func (s *service) Delete(ctx context.Context, id int64) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	return nil
}

func (s *service) ensureEmailFree(ctx context.Context, repo Repository, email string, selfID int64) error {
	existing, err := repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if existing.ID != selfID {
		return pkgerrors.New(pkgerrors.CodeConflict, "email already exists")
	}
	return nil
}

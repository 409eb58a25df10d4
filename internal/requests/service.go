package requests

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
)

type userFinder interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
}

// Service exposes item request operations. Requests never change after
// creation.
type Service interface {
	Create(ctx context.Context, requestorID int64, input CreateRequestInput) (RequestDTO, error)
	ListByRequestor(ctx context.Context, requestorID int64) ([]RequestDTO, error)
	GetByID(ctx context.Context, id int64) (RequestDTO, error)
}

type service struct {
	repo  Repository
	users userFinder
}

// NewService builds the requests service.
func NewService(repo Repository, users userFinder) (Service, error) {
	if repo == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "requests repo is required")
	}
	if users == nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "users repo is required")
	}
	return &service{repo: repo, users: users}, nil
}

// Create files a request on behalf of the requestor.
func (s *service) Create(ctx context.Context, requestorID int64, input CreateRequestInput) (RequestDTO, error) {
	if err := s.ensureUser(ctx, requestorID); err != nil {
		return RequestDTO{}, err
	}

	description := strings.TrimSpace(input.Description)
	if description == "" {
		return RequestDTO{}, pkgerrors.New(pkgerrors.CodeValidation, "description must not be blank")
	}

	request, err := s.repo.Create(ctx, &models.ItemRequest{
		Description: description,
		RequestorID: requestorID,
	})
	if err != nil {
		return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create request")
	}
	return toDTO(request), nil
}

// ListByRequestor returns the caller's requests, newest first.
func (s *service) ListByRequestor(ctx context.Context, requestorID int64) ([]RequestDTO, error) {
	if err := s.ensureUser(ctx, requestorID); err != nil {
		return nil, err
	}

	result, err := s.repo.ListByRequestor(ctx, requestorID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list requests")
	}
	return toDTOs(result), nil
}

// GetByID loads a single request.
func (s *service) GetByID(ctx context.Context, id int64) (RequestDTO, error) {
	request, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "request not found")
		}
		return RequestDTO{}, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load request")
	}
	return toDTO(request), nil
}

func (s *service) ensureUser(ctx context.Context, userID int64) error {
	if _, err := s.users.FindByID(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "user not found")
		}
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	return nil
}

package requests

import (
	"context"
	"sort"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
)

type stubUserFinder struct {
	users map[int64]*models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubRequestRepo struct {
	byID   map[int64]*models.ItemRequest
	nextID int64
	clock  time.Time
}

func (s *stubRequestRepo) Create(ctx context.Context, request *models.ItemRequest) (*models.ItemRequest, error) {
	s.nextID++
	request.ID = s.nextID
	s.clock = s.clock.Add(time.Minute)
	request.CreatedAt = s.clock
	if s.byID == nil {
		s.byID = map[int64]*models.ItemRequest{}
	}
	s.byID[request.ID] = request
	return request, nil
}

func (s *stubRequestRepo) FindByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	if r, ok := s.byID[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubRequestRepo) ListByRequestor(ctx context.Context, requestorID int64) ([]models.ItemRequest, error) {
	var result []models.ItemRequest
	for _, r := range s.byID {
		if r.RequestorID == requestorID {
			result = append(result, *r)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func newService(t *testing.T) (Service, *stubRequestRepo) {
	t.Helper()

	repo := &stubRequestRepo{clock: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)}
	users := &stubUserFinder{users: map[int64]*models.User{
		1: {ID: 1, Name: "asker", Email: "asker@example.com"},
	}}
	svc, err := NewService(repo, users)
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return svc, repo
}

func expectCode(t *testing.T, err error, code pkgerrors.Code) {
	t.Helper()
	typed := pkgerrors.As(err)
	if typed == nil {
		t.Fatalf("expected %s error, got %v", code, err)
	}
	if typed.Code() != code {
		t.Fatalf("expected code %s, got %s (%v)", code, typed.Code(), err)
	}
}

func TestCreateRequest(t *testing.T) {
	svc, _ := newService(t)

	dto, err := svc.Create(context.Background(), 1, CreateRequestInput{Description: "need a ladder"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.ID == 0 || dto.Description != "need a ladder" || dto.Created.IsZero() {
		t.Fatalf("unexpected request: %+v", dto)
	}
}

func TestCreateRequestValidation(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.Create(context.Background(), 1, CreateRequestInput{Description: "   "})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = svc.Create(context.Background(), 99, CreateRequestInput{Description: "need a ladder"})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListByRequestorNewestFirst(t *testing.T) {
	svc, _ := newService(t)

	for _, text := range []string{"first", "second", "third"} {
		if _, err := svc.Create(context.Background(), 1, CreateRequestInput{Description: text}); err != nil {
			t.Fatalf("seed %q: %v", text, err)
		}
	}

	result, err := svc.ListByRequestor(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(result) != 3 {
		t.Fatalf("expected 3 requests, got %d", len(result))
	}
	if result[0].Description != "third" || result[2].Description != "first" {
		t.Fatalf("expected newest first, got %+v", result)
	}
}

func TestListByUnknownRequestor(t *testing.T) {
	svc, _ := newService(t)

	_, err := svc.ListByRequestor(context.Background(), 99)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetByID(t *testing.T) {
	svc, _ := newService(t)

	created, err := svc.Create(context.Background(), 1, CreateRequestInput{Description: "need a ladder"})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	dto, err := svc.GetByID(context.Background(), created.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if dto.ID != created.ID {
		t.Fatalf("expected request %d, got %d", created.ID, dto.ID)
	}

	_, err = svc.GetByID(context.Background(), 404)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

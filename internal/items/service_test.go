package items

import (
	"context"
	"testing"
	"time"

	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
	pkgerrors "github.com/vkarpenko/shareit-go/pkg/errors"
)

var testNow = time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

type stubTxRunner struct{}

func (stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	return fn(nil)
}

type stubUserFinder struct {
	users map[int64]*models.User
}

func (s *stubUserFinder) FindByID(ctx context.Context, id int64) (*models.User, error) {
	if u, ok := s.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubRequestFinder struct {
	requests map[int64]*models.ItemRequest
}

func (s *stubRequestFinder) FindByID(ctx context.Context, id int64) (*models.ItemRequest, error) {
	if r, ok := s.requests[id]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

type stubItemRepo struct {
	byID   map[int64]*models.Item
	nextID int64

	searchCalls []string
}

func (s *stubItemRepo) WithTx(tx *gorm.DB) Repository { return s }

func (s *stubItemRepo) Create(ctx context.Context, item *models.Item) (*models.Item, error) {
	s.nextID++
	item.ID = s.nextID
	if s.byID == nil {
		s.byID = map[int64]*models.Item{}
	}
	s.byID[item.ID] = item
	return item, nil
}

func (s *stubItemRepo) FindByID(ctx context.Context, id int64) (*models.Item, error) {
	if it, ok := s.byID[id]; ok {
		return it, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (s *stubItemRepo) Save(ctx context.Context, item *models.Item) (*models.Item, error) {
	s.byID[item.ID] = item
	return item, nil
}

func (s *stubItemRepo) ListByOwner(ctx context.Context, ownerID int64) ([]models.Item, error) {
	var result []models.Item
	for id := int64(1); id <= s.nextID; id++ {
		if it, ok := s.byID[id]; ok && it.OwnerID == ownerID {
			result = append(result, *it)
		}
	}
	return result, nil
}

func (s *stubItemRepo) Search(ctx context.Context, text string) ([]models.Item, error) {
	s.searchCalls = append(s.searchCalls, text)
	return nil, nil
}

type stubCommentRepo struct {
	byItem map[int64][]models.Comment
	nextID int64
}

func (s *stubCommentRepo) Create(ctx context.Context, comment *models.Comment) (*models.Comment, error) {
	s.nextID++
	comment.ID = s.nextID
	comment.CreatedAt = testNow
	if s.byItem == nil {
		s.byItem = map[int64][]models.Comment{}
	}
	s.byItem[comment.ItemID] = append(s.byItem[comment.ItemID], *comment)
	return comment, nil
}

func (s *stubCommentRepo) FindByItemID(ctx context.Context, itemID int64) ([]models.Comment, error) {
	return s.byItem[itemID], nil
}

func (s *stubCommentRepo) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Comment, error) {
	var result []models.Comment
	for _, id := range itemIDs {
		result = append(result, s.byItem[id]...)
	}
	return result, nil
}

type stubBookingReader struct {
	byItem map[int64][]models.Booking
}

func (s *stubBookingReader) FindByItemID(ctx context.Context, itemID int64) ([]models.Booking, error) {
	return s.byItem[itemID], nil
}

func (s *stubBookingReader) FindByItemIDs(ctx context.Context, itemIDs []int64) ([]models.Booking, error) {
	var result []models.Booking
	for _, id := range itemIDs {
		result = append(result, s.byItem[id]...)
	}
	return result, nil
}

func (s *stubBookingReader) FindByItemAndBooker(ctx context.Context, itemID, bookerID int64) ([]models.Booking, error) {
	var result []models.Booking
	for _, b := range s.byItem[itemID] {
		if b.BookerID == bookerID {
			result = append(result, b)
		}
	}
	return result, nil
}

type fixture struct {
	svc      Service
	items    *stubItemRepo
	comments *stubCommentRepo
	users    *stubUserFinder
	requests *stubRequestFinder
	bookings *stubBookingReader
}

// newFixture wires an owner (id 1) and a renter (id 2); items are seeded per
// test. The clock is pinned to testNow.
func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		items:    &stubItemRepo{},
		comments: &stubCommentRepo{},
		users: &stubUserFinder{users: map[int64]*models.User{
			1: {ID: 1, Name: "owner", Email: "owner@example.com"},
			2: {ID: 2, Name: "renter", Email: "renter@example.com"},
		}},
		requests: &stubRequestFinder{requests: map[int64]*models.ItemRequest{}},
		bookings: &stubBookingReader{byItem: map[int64][]models.Booking{}},
	}

	svc, err := NewService(ServiceParams{
		Items:    f.items,
		Comments: f.comments,
		Users:    f.users,
		Requests: f.requests,
		Bookings: f.bookings,
		Tx:       stubTxRunner{},
		Now:      func() time.Time { return testNow },
	})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	f.svc = svc
	return f
}

func (f *fixture) seedItem(ownerID int64) *models.Item {
	item, _ := f.items.Create(context.Background(), &models.Item{
		Name:        "drill",
		Description: "cordless drill",
		Available:   true,
		OwnerID:     ownerID,
	})
	return item
}

func boolPtr(v bool) *bool    { return &v }
func strPtr(v string) *string { return &v }
func int64Ptr(v int64) *int64 { return &v }

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

func TestCreateItem(t *testing.T) {
	f := newFixture(t)

	dto, err := f.svc.Create(context.Background(), 1, CreateItemInput{
		Name:        "drill",
		Description: "cordless drill",
		Available:   boolPtr(true),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.ID == 0 || !dto.Available || dto.Name != "drill" {
		t.Fatalf("unexpected item: %+v", dto)
	}
}

func TestCreateItemValidation(t *testing.T) {
	f := newFixture(t)

	cases := []struct {
		name  string
		input CreateItemInput
	}{
		{"blank name", CreateItemInput{Name: " ", Description: "d", Available: boolPtr(true)}},
		{"blank description", CreateItemInput{Name: "n", Description: "", Available: boolPtr(true)}},
		{"missing available", CreateItemInput{Name: "n", Description: "d"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(context.Background(), 1, tc.input)
			expectCode(t, err, pkgerrors.CodeValidation)
		})
	}
}

func TestCreateItemUnknownOwner(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), 99, CreateItemInput{
		Name: "n", Description: "d", Available: boolPtr(true),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestCreateItemAgainstRequest(t *testing.T) {
	f := newFixture(t)
	f.requests.requests[7] = &models.ItemRequest{ID: 7, Description: "need a drill", RequestorID: 2}

	dto, err := f.svc.Create(context.Background(), 1, CreateItemInput{
		Name: "drill", Description: "cordless", Available: boolPtr(true), RequestID: int64Ptr(7),
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if dto.RequestID == nil || *dto.RequestID != 7 {
		t.Fatalf("expected request link, got %+v", dto)
	}

	_, err = f.svc.Create(context.Background(), 1, CreateItemInput{
		Name: "drill", Description: "cordless", Available: boolPtr(true), RequestID: int64Ptr(404),
	})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestUpdateItem(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(1)

	dto, err := f.svc.Update(context.Background(), 1, item.ID, UpdateItemInput{
		Name:      strPtr("hammer drill"),
		Available: boolPtr(false),
	})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if dto.Name != "hammer drill" || dto.Available {
		t.Fatalf("patch not applied: %+v", dto)
	}
	if dto.Description != "cordless drill" {
		t.Fatalf("untouched field overwritten: %+v", dto)
	}
}

func TestUpdateItemByNonOwner(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(1)

	_, err := f.svc.Update(context.Background(), 2, item.ID, UpdateItemInput{Name: strPtr("mine now")})
	expectCode(t, err, pkgerrors.CodeForbidden)
}

func TestUpdateUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Update(context.Background(), 1, 404, UpdateItemInput{Name: strPtr("x")})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestGetByIDSummariesForOwnerOnly(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(1)
	f.bookings.byItem[item.ID] = []models.Booking{
		{ID: 5, ItemID: item.ID, BookerID: 2, Start: testNow.Add(-48 * time.Hour), End: testNow.Add(-24 * time.Hour), Status: enums.BookingStatusApproved},
		{ID: 6, ItemID: item.ID, BookerID: 2, Start: testNow.Add(24 * time.Hour), End: testNow.Add(48 * time.Hour), Status: enums.BookingStatusApproved},
	}

	ownerView, err := f.svc.GetByID(context.Background(), 1, item.ID)
	if err != nil {
		t.Fatalf("get as owner: %v", err)
	}
	if ownerView.LastBooking == nil || ownerView.LastBooking.ID != 5 {
		t.Fatalf("owner expects last booking, got %+v", ownerView.LastBooking)
	}
	if ownerView.NextBooking == nil || ownerView.NextBooking.ID != 6 {
		t.Fatalf("owner expects next booking, got %+v", ownerView.NextBooking)
	}

	renterView, err := f.svc.GetByID(context.Background(), 2, item.ID)
	if err != nil {
		t.Fatalf("get as renter: %v", err)
	}
	if renterView.LastBooking != nil || renterView.NextBooking != nil {
		t.Fatalf("summaries leaked to non-owner: %+v", renterView)
	}
}

func TestGetByIDUnknownItem(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.GetByID(context.Background(), 1, 404)
	expectCode(t, err, pkgerrors.CodeNotFound)
}

func TestListByOwner(t *testing.T) {
	f := newFixture(t)
	first := f.seedItem(1)
	second := f.seedItem(1)
	f.seedItem(2) // someone else's item

	f.bookings.byItem[first.ID] = []models.Booking{
		{ID: 9, ItemID: first.ID, BookerID: 2, Start: testNow.Add(time.Hour), End: testNow.Add(2 * time.Hour), Status: enums.BookingStatusApproved},
	}
	f.comments.byItem = map[int64][]models.Comment{
		second.ID: {{ID: 1, ItemID: second.ID, Text: "works great", Author: &models.User{Name: "renter"}}},
	}

	details, err := f.svc.ListByOwner(context.Background(), 1)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(details) != 2 {
		t.Fatalf("expected 2 items, got %d", len(details))
	}
	if details[0].ID != first.ID || details[1].ID != second.ID {
		t.Fatalf("expected id ascending, got %+v", details)
	}
	if details[0].NextBooking == nil || details[0].NextBooking.ID != 9 {
		t.Fatalf("expected next booking on first item, got %+v", details[0].NextBooking)
	}
	if len(details[1].Comments) != 1 || details[1].Comments[0].AuthorName != "renter" {
		t.Fatalf("expected comment on second item, got %+v", details[1].Comments)
	}
}

func TestSearchBlankText(t *testing.T) {
	f := newFixture(t)

	for _, text := range []string{"", "   "} {
		found, err := f.svc.Search(context.Background(), text)
		if err != nil {
			t.Fatalf("search %q: %v", text, err)
		}
		if len(found) != 0 {
			t.Fatalf("blank search must be empty, got %+v", found)
		}
	}
	if len(f.items.searchCalls) != 0 {
		t.Fatalf("blank search must not hit the store: %v", f.items.searchCalls)
	}
}

func TestAddComment(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(1)
	f.bookings.byItem[item.ID] = []models.Booking{
		{ID: 3, ItemID: item.ID, BookerID: 2, Start: testNow.Add(-48 * time.Hour), End: testNow.Add(-24 * time.Hour), Status: enums.BookingStatusApproved},
	}

	dto, err := f.svc.AddComment(context.Background(), 2, item.ID, CreateCommentInput{Text: "solid tool"})
	if err != nil {
		t.Fatalf("add comment: %v", err)
	}
	if dto.ID == 0 || dto.Text != "solid tool" {
		t.Fatalf("unexpected comment: %+v", dto)
	}
}

func TestAddCommentWithoutCompletedRental(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(1)

	cases := []struct {
		name    string
		booking *models.Booking
	}{
		{"no bookings at all", nil},
		{"booking still running", &models.Booking{ID: 3, ItemID: item.ID, BookerID: 2,
			Start: testNow.Add(-time.Hour), End: testNow.Add(time.Hour), Status: enums.BookingStatusApproved}},
		{"finished but rejected", &models.Booking{ID: 4, ItemID: item.ID, BookerID: 2,
			Start: testNow.Add(-48 * time.Hour), End: testNow.Add(-24 * time.Hour), Status: enums.BookingStatusRejected}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f.bookings.byItem[item.ID] = nil
			if tc.booking != nil {
				f.bookings.byItem[item.ID] = []models.Booking{*tc.booking}
			}

			_, err := f.svc.AddComment(context.Background(), 2, item.ID, CreateCommentInput{Text: "nope"})
			expectCode(t, err, pkgerrors.CodeValidation)
			if typed := pkgerrors.As(err); typed.Message() != "cannot comment without a completed rental" {
				t.Fatalf("unexpected message: %q", typed.Message())
			}
		})
	}
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture(t)
	item := f.seedItem(1)

	_, err := f.svc.AddComment(context.Background(), 2, item.ID, CreateCommentInput{Text: "  "})
	expectCode(t, err, pkgerrors.CodeValidation)

	_, err = f.svc.AddComment(context.Background(), 99, item.ID, CreateCommentInput{Text: "hi"})
	expectCode(t, err, pkgerrors.CodeNotFound)

	_, err = f.svc.AddComment(context.Background(), 2, 404, CreateCommentInput{Text: "hi"})
	expectCode(t, err, pkgerrors.CodeNotFound)
}

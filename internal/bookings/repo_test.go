package bookings

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/vkarpenko/shareit-go/pkg/db/models"
	"github.com/vkarpenko/shareit-go/pkg/enums"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("SHAREIT_DB_DSN")
	if dsn == "" {
		t.Skip("SHAREIT_DB_DSN is not set")
	}

	conn, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	return conn
}

type seededBookings struct {
	owner, booker models.User
	item          models.Item
	past          models.Booking
	current       models.Booking
	future        models.Booking
	waiting       models.Booking
	rejected      models.Booking
}

func seedBookingFixtures(t *testing.T, conn *gorm.DB, now time.Time) seededBookings {
	t.Helper()

	suffix := uuid.NewString()[:8]
	s := seededBookings{
		owner:  models.User{Name: "owner", Email: fmt.Sprintf("owner-%s@example.com", suffix)},
		booker: models.User{Name: "booker", Email: fmt.Sprintf("booker-%s@example.com", suffix)},
	}
	require.NoError(t, conn.Create(&s.owner).Error)
	require.NoError(t, conn.Create(&s.booker).Error)

	s.item = models.Item{Name: "drill " + suffix, Description: "test drill", Available: true, OwnerID: s.owner.ID}
	require.NoError(t, conn.Create(&s.item).Error)

	mk := func(start, end time.Time, status enums.BookingStatus) models.Booking {
		b := models.Booking{Start: start, End: end, ItemID: s.item.ID, BookerID: s.booker.ID, Status: status}
		require.NoError(t, conn.Create(&b).Error)
		return b
	}
	s.past = mk(now.Add(-48*time.Hour), now.Add(-24*time.Hour), enums.BookingStatusApproved)
	s.current = mk(now.Add(-time.Hour), now.Add(time.Hour), enums.BookingStatusApproved)
	s.future = mk(now.Add(24*time.Hour), now.Add(48*time.Hour), enums.BookingStatusApproved)
	s.waiting = mk(now.Add(72*time.Hour), now.Add(96*time.Hour), enums.BookingStatusWaiting)
	s.rejected = mk(now.Add(120*time.Hour), now.Add(144*time.Hour), enums.BookingStatusRejected)

	t.Cleanup(func() {
		conn.Where("item_id = ?", s.item.ID).Delete(&models.Booking{})
		conn.Delete(&models.Item{}, s.item.ID)
		conn.Delete(&models.User{}, s.owner.ID)
		conn.Delete(&models.User{}, s.booker.ID)
	})
	return s
}

func bookingIDs(list []models.Booking) []int64 {
	ids := make([]int64, 0, len(list))
	for i := range list {
		ids = append(ids, list[i].ID)
	}
	return ids
}

func TestRepositoryStateBuckets(t *testing.T) {
	conn := openTestDB(t)
	now := time.Now().UTC()
	s := seedBookingFixtures(t, conn, now)

	repo := NewRepository(conn)
	ctx := context.Background()

	cases := []struct {
		state enums.BookingState
		want  []int64
	}{
		{enums.BookingStateAll, []int64{s.rejected.ID, s.waiting.ID, s.future.ID, s.current.ID, s.past.ID}},
		{enums.BookingStatePast, []int64{s.past.ID}},
		{enums.BookingStateFuture, []int64{s.rejected.ID, s.waiting.ID, s.future.ID}},
		{enums.BookingStateCurrent, []int64{s.current.ID}},
		{enums.BookingStateWaiting, []int64{s.waiting.ID}},
		{enums.BookingStateRejected, []int64{s.rejected.ID}},
	}
	for _, tc := range cases {
		t.Run("booker "+string(tc.state), func(t *testing.T) {
			got, err := repo.ListByBooker(ctx, s.booker.ID, tc.state, now)
			require.NoError(t, err)
			require.Equal(t, tc.want, bookingIDs(got))
		})
		t.Run("owner "+string(tc.state), func(t *testing.T) {
			got, err := repo.ListByOwner(ctx, s.owner.ID, tc.state, now)
			require.NoError(t, err)
			require.Equal(t, tc.want, bookingIDs(got))
		})
	}
}

// Booker CURRENT is the one bucket ordered ascending; clients depend on it.
func TestRepositoryCurrentOrdering(t *testing.T) {
	conn := openTestDB(t)
	now := time.Now().UTC()
	s := seedBookingFixtures(t, conn, now)

	second := models.Booking{
		Start: now.Add(-2 * time.Hour), End: now.Add(2 * time.Hour),
		ItemID: s.item.ID, BookerID: s.booker.ID, Status: enums.BookingStatusApproved,
	}
	require.NoError(t, conn.Create(&second).Error)
	t.Cleanup(func() { conn.Delete(&models.Booking{}, second.ID) })

	repo := NewRepository(conn)
	ctx := context.Background()

	byBooker, err := repo.ListByBooker(ctx, s.booker.ID, enums.BookingStateCurrent, now)
	require.NoError(t, err)
	require.Equal(t, []int64{s.current.ID, second.ID}, bookingIDs(byBooker))

	byOwner, err := repo.ListByOwner(ctx, s.owner.ID, enums.BookingStateCurrent, now)
	require.NoError(t, err)
	require.Equal(t, []int64{second.ID, s.current.ID}, bookingIDs(byOwner))
}

func TestRepositoryFindByIDPreloads(t *testing.T) {
	conn := openTestDB(t)
	now := time.Now().UTC()
	s := seedBookingFixtures(t, conn, now)

	repo := NewRepository(conn)

	got, err := repo.FindByID(context.Background(), s.current.ID)
	require.NoError(t, err)
	require.NotNil(t, got.Item)
	require.NotNil(t, got.Item.Owner)
	require.NotNil(t, got.Booker)
	require.Equal(t, s.owner.ID, got.Item.Owner.ID)
	require.Equal(t, s.booker.ID, got.Booker.ID)
}

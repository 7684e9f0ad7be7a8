package service

import (
	"context"
	"skydesk/internal/cache"
	"skydesk/internal/domain"
	"skydesk/internal/repository"
	"sync"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newListingCache(t *testing.T) *cache.BookingCache {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	return cache.New(rdb, cache.DefaultTTL)
}

func TestCachedListingsServeRepeatReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBookingService(f.bookings, f.users, f.mail, newListingCache(t))

	_, err := svc.BookSeat(ctx, 1, "D-1", "desk", 100)
	require.NoError(t, err)
	mine, err := svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	units, err := svc.OccupiedUnits(ctx)
	require.NoError(t, err)
	require.Equal(t, []string{"D-1"}, units)

	// Remove the row behind the service's back; reads keep coming from Redis
	require.NoError(t, f.db.Where("1 = 1").Delete(&domain.Booking{}).Error)

	mine, err = svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	assert.Equal(t, "D-1", mine[0].UnitID)
	units, err = svc.OccupiedUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"D-1"}, units)
}

func TestCachedListingsFollowBookAndCancel(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	svc := NewBookingService(f.bookings, f.users, f.mail, newListingCache(t))

	mine, err := svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	assert.NotNil(t, mine)
	assert.Empty(t, mine)
	units, err := svc.OccupiedUnits(ctx)
	require.NoError(t, err)
	assert.NotNil(t, units)
	assert.Empty(t, units)

	b, err := svc.BookSeat(ctx, 1, "D-14A", "desk", 500)
	require.NoError(t, err)

	mine, err = svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	require.Len(t, mine, 1)
	all, err := svc.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	units, err = svc.OccupiedUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"D-14A"}, units)

	require.NoError(t, svc.CancelBooking(ctx, Requester{UserID: 1}, b.ID))

	mine, err = svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, mine)
	all, err = svc.ListAllBookings(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
	units, err = svc.OccupiedUnits(ctx)
	require.NoError(t, err)
	assert.Empty(t, units)
}

// pausingBookings holds the first ListByUser after it has read its rows,
// until release is closed.
type pausingBookings struct {
	*repository.BookingRepository
	once    sync.Once
	loaded  chan struct{}
	release chan struct{}
}

func (p *pausingBookings) ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error) {
	rows, err := p.BookingRepository.ListByUser(ctx, userID)
	p.once.Do(func() {
		close(p.loaded)
		<-p.release
	})
	return rows, err
}

func TestCancelDuringListingFillIsNotResurrected(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	store := &pausingBookings{
		BookingRepository: f.bookings,
		loaded:            make(chan struct{}),
		release:           make(chan struct{}),
	}
	svc := NewBookingService(store, f.users, f.mail, newListingCache(t))

	b, err := svc.BookSeat(ctx, 1, "D-14A", "desk", 500)
	require.NoError(t, err)

	type listing struct {
		views []domain.BookingView
		err   error
	}
	done := make(chan listing, 1)
	go func() {
		views, err := svc.ListUserBookings(ctx, 1)
		done <- listing{views, err}
	}()

	<-store.loaded // Rows read, cache not yet filled
	require.NoError(t, svc.CancelBooking(ctx, Requester{UserID: 1}, b.ID))
	close(store.release)

	inFlight := <-done
	require.NoError(t, inFlight.err)
	assert.Len(t, inFlight.views, 1, "the in-flight read saw the row before the cancel")

	mine, err := svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	require.Empty(t, mine)
}

func TestListingsFallBackToDatabaseWhenRedisFails(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })
	svc := NewBookingService(f.bookings, f.users, f.mail, cache.New(rdb, cache.DefaultTTL))

	_, err := svc.BookSeat(ctx, 1, "D-1", "desk", 100)
	require.NoError(t, err)
	mr.SetError("ERR server unavailable")

	mine, err := svc.ListUserBookings(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, mine, 1)
	units, err := svc.OccupiedUnits(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"D-1"}, units)
}

package service

import (
	"context"                     // Request scoping
	"errors"                      // Error matching
	"fmt"                         // Error wrapping and formatting
	"html"                        // Escaping values placed in emails
	"skydesk/internal/cache"      // Listing cache
	"skydesk/internal/domain"     // Domain models
	"skydesk/internal/metrics"    // Booking counters
	"skydesk/internal/notify"     // Outbound email
	"skydesk/internal/repository" // Persistence gateway

	"github.com/sirupsen/logrus" // Structured logging
)

// BookingStore is the part of the persistence gateway the booking service needs
type BookingStore interface {
	Create(ctx context.Context, booking *domain.Booking) error
	FindByID(ctx context.Context, id uint) (*domain.Booking, error)
	ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error)
	ListAll(ctx context.Context) ([]domain.Booking, error)
	ListUnitIDs(ctx context.Context) ([]string, error)
	Delete(ctx context.Context, id uint) error
}

// UserFinder looks up booking owners for notifications
type UserFinder interface {
	FindByID(ctx context.Context, id uint) (*domain.User, error)
}

// Requester is the authenticated caller of an operation
type Requester struct {
	UserID  uint
	IsAdmin bool
}

// CanActFor reports whether r may act on resources owned by ownerID
func (r Requester) CanActFor(ownerID uint) bool {
	return r.IsAdmin || r.UserID == ownerID
}

// BookingService enforces the booking rules
type BookingService struct {
	bookings BookingStore
	users    UserFinder
	notifier notify.Notifier
	cache    *cache.BookingCache // nil disables caching
}

// NewBookingService creates the booking service. listings may be nil.
func NewBookingService(bookings BookingStore, users UserFinder, notifier notify.Notifier, listings *cache.BookingCache) *BookingService {
	return &BookingService{bookings: bookings, users: users, notifier: notifier, cache: listings}
}

// BookSeat reserves unitID for userID. An occupied unit yields ErrSeatTaken.
// The owner is not required to exist; if it does, a confirmation is emailed.
func (s *BookingService) BookSeat(ctx context.Context, userID uint, unitID, unitType string, price float64) (*domain.Booking, error) {
	booking := &domain.Booking{UserID: userID, UnitID: unitID, UnitType: unitType, Price: price}
	// The unique index on unit_id decides who wins a race for the same unit
	if err := s.bookings.Create(ctx, booking); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			metrics.BookingEvents.WithLabelValues("conflict").Inc()
			return nil, ErrSeatTaken
		}
		return nil, fmt.Errorf("create booking: %w", err)
	}
	metrics.BookingEvents.WithLabelValues("booked").Inc()
	logrus.WithFields(logrus.Fields{
		"booking_id": booking.ID,
		"user_id":    userID,
		"unit_id":    unitID,
		"price":      price,
	}).Info("Seat booked")
	s.invalidate(ctx, userID)

	if owner := s.owner(ctx, userID); owner != nil {
		s.notifier.Send(
			"Booking Confirmed",
			owner.Email,
			fmt.Sprintf("<p>Seat <b>%s</b> booked successfully.</p>", html.EscapeString(unitID)),
		)
	}
	return booking, nil
}

// ListUserBookings returns the bookings owned by userID in insertion order
func (s *BookingService) ListUserBookings(ctx context.Context, userID uint) ([]domain.BookingView, error) {
	return readThrough(ctx, s.cache, cache.UserListing(userID), func() ([]domain.BookingView, error) {
		bookings, err := s.bookings.ListByUser(ctx, userID) // Owner's rows only
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		return domain.Views(bookings), nil
	})
}

// ListAllBookings returns every booking in insertion order
func (s *BookingService) ListAllBookings(ctx context.Context) ([]domain.BookingView, error) {
	return readThrough(ctx, s.cache, cache.AllListing(), func() ([]domain.BookingView, error) {
		bookings, err := s.bookings.ListAll(ctx)
		if err != nil {
			return nil, fmt.Errorf("list bookings: %w", err)
		}
		return domain.Views(bookings), nil
	})
}

// OccupiedUnits returns the ids of all booked units
func (s *BookingService) OccupiedUnits(ctx context.Context) ([]string, error) {
	return readThrough(ctx, s.cache, cache.OccupiedListing(), func() ([]string, error) {
		units, err := s.bookings.ListUnitIDs(ctx)
		if err != nil {
			return nil, fmt.Errorf("list units: %w", err)
		}
		if units == nil {
			units = []string{} // Serialize as [] rather than null
		}
		return units, nil
	})
}

// CancelBooking deletes a booking. Unknown ids yield ErrNotFound; requesters
// that neither own the booking nor are admins get ErrForbidden.
func (s *BookingService) CancelBooking(ctx context.Context, requester Requester, bookingID uint) error {
	booking, err := s.bookings.FindByID(ctx, bookingID) // Load to learn the owner
	if errors.Is(err, repository.ErrNotFound) {
		return ErrNotFound
	} else if err != nil {
		return fmt.Errorf("find booking: %w", err)
	}
	if !requester.CanActFor(booking.UserID) {
		logrus.WithFields(logrus.Fields{
			"booking_id":   bookingID,
			"requester_id": requester.UserID,
		}).Warn("Cancellation refused")
		return ErrForbidden
	}
	if err := s.bookings.Delete(ctx, bookingID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound // Cancelled concurrently
		}
		return fmt.Errorf("delete booking: %w", err)
	}
	metrics.BookingEvents.WithLabelValues("cancelled").Inc()
	logrus.WithFields(logrus.Fields{
		"booking_id":   bookingID,
		"unit_id":      booking.UnitID,
		"requester_id": requester.UserID,
	}).Info("Booking cancelled")
	s.invalidate(ctx, booking.UserID)

	if owner := s.owner(ctx, booking.UserID); owner != nil {
		s.notifier.Send(
			"Booking Cancelled",
			owner.Email,
			fmt.Sprintf("<p>Your booking for seat <b>%s</b> has been cancelled.</p>", html.EscapeString(booking.UnitID)),
		)
	}
	return nil
}

// readThrough serves listing from the cache, loading and storing it on a miss.
// The versioned key is resolved before load runs, so a concurrent invalidation
// strands the stored value instead of resurrecting deleted rows.
func readThrough[T any](ctx context.Context, c *cache.BookingCache, listing cache.Listing, load func() (T, error)) (T, error) {
	key, err := c.Key(ctx, listing)
	if err != nil {
		logCacheError("key", listing.Gen, err)
		return load() // Redis unavailable, go straight to the database
	}
	var cached T
	if found, err := c.Get(ctx, key, &cached); err == nil && found {
		return cached, nil // Cache hit
	} else if err != nil {
		logCacheError("get", key, err)
	}
	value, err := load()
	if err != nil {
		return value, err
	}
	if err := c.Set(ctx, key, value); err != nil {
		logCacheError("set", key, err)
	}
	return value, nil
}

// owner returns the user behind userID, or nil if it is missing or the lookup fails
func (s *BookingService) owner(ctx context.Context, userID uint) *domain.User {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			logrus.WithFields(logrus.Fields{
				"user_id": userID,
				"error":   err.Error(),
			}).Warn("Owner lookup failed, skipping email")
		}
		return nil
	}
	return user
}

func (s *BookingService) invalidate(ctx context.Context, userID uint) {
	if err := s.cache.Invalidate(ctx, userID); err != nil {
		logCacheError("invalidate", cache.UserListing(userID).Gen, err)
	}
}

func logCacheError(op, key string, err error) {
	logrus.WithFields(logrus.Fields{
		"op":    op,
		"key":   key,
		"error": err.Error(),
	}).Warn("Booking cache error")
}

package repository

import (
	"context"                 // Request scoping
	"skydesk/internal/domain" // Importing domain models

	"gorm.io/gorm" // GORM ORM library
)

// BookingRepository provides access to bookings
type BookingRepository struct {
	db *gorm.DB
}

// NewBookingRepository creates a booking repository
func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// FindByUnit returns the active booking for unitID, or ErrNotFound
func (r *BookingRepository) FindByUnit(ctx context.Context, unitID string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.db.WithContext(ctx).Where("unit_id = ?", unitID).First(&booking).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// FindByID returns the booking with the given id, or ErrNotFound
func (r *BookingRepository) FindByID(ctx context.Context, id uint) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.db.WithContext(ctx).First(&booking, id).Error; err != nil {
		return nil, translate(err)
	}
	return &booking, nil
}

// Create inserts booking, filling in ID and BookingDate. An occupied unit yields ErrDuplicate.
func (r *BookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return translate(r.db.WithContext(ctx).Create(booking).Error)
}

// ListByUser returns the bookings owned by userID in insertion order
func (r *BookingRepository) ListByUser(ctx context.Context, userID uint) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("id asc").Find(&bookings).Error
	return bookings, translate(err)
}

// ListAll returns every booking in insertion order
func (r *BookingRepository) ListAll(ctx context.Context) ([]domain.Booking, error) {
	var bookings []domain.Booking
	err := r.db.WithContext(ctx).Order("id asc").Find(&bookings).Error
	return bookings, translate(err)
}

// ListUnitIDs returns the ids of all occupied units
func (r *BookingRepository) ListUnitIDs(ctx context.Context) ([]string, error) {
	var units []string
	err := r.db.WithContext(ctx).Model(&domain.Booking{}).Order("id asc").Pluck("unit_id", &units).Error
	return units, translate(err)
}

// Delete removes the booking with the given id, or returns ErrNotFound
func (r *BookingRepository) Delete(ctx context.Context, id uint) error {
	res := r.db.WithContext(ctx).Delete(&domain.Booking{}, id)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

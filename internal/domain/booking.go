package domain

import "time"

// Booking Model. A row exists only while the unit is occupied.
type Booking struct {
	ID          uint      `gorm:"primaryKey"`                    // Primary key
	UserID      uint      `gorm:"index;not null"`                // Owning user, not checked before insert
	UnitID      string    `gorm:"size:191;uniqueIndex;not null"` // Desk or seat identifier
	UnitType    string    `gorm:"size:64"`                       // Free-form category label
	Price       float64   `gorm:"not null;default:0"`            // Price of the booking
	BookingDate time.Time `gorm:"autoCreateTime"`                // Set at insert time
}

// BookingView is the JSON shape of a booking returned by the API
type BookingView struct {
	ID          uint      `json:"id"`
	UnitID      string    `json:"unit_id"`
	UnitType    string    `json:"unit_type"`
	Price       float64   `json:"price"`
	BookingDate time.Time `json:"booking_date"`
	UserID      uint      `json:"user_id"`
}

// View converts a booking into its API representation with a UTC timestamp
func (b Booking) View() BookingView {
	return BookingView{
		ID:          b.ID,
		UnitID:      b.UnitID,
		UnitType:    b.UnitType,
		Price:       b.Price,
		BookingDate: b.BookingDate.UTC(),
		UserID:      b.UserID,
	}
}

// Views converts a slice of bookings, never returning nil so it encodes as []
func Views(bookings []Booking) []BookingView {
	out := make([]BookingView, 0, len(bookings))
	for _, b := range bookings {
		out = append(out, b.View())
	}
	return out
}

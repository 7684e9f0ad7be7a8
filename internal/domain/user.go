package domain

// User Model
type User struct {
	ID             uint   `gorm:"primaryKey"`                    // Primary key
	FullName       string `gorm:"size:255"`                      // Display name
	Email          string `gorm:"size:191;uniqueIndex;not null"` // Unique email, case-sensitive as stored
	HashedPassword string `gorm:"not null"`                      // bcrypt hash
	IsAdmin        bool   `gorm:"not null;default:false"`        // Admin flag
}

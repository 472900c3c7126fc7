package booking

import "time"

type Booking struct {
	ID             string    `gorm:"primaryKey;type:uuid"`
	SpaceID        string    `gorm:"column:space_id;type:uuid;not null;index:idx_bookings_space_date"`
	OwnerUserID    string    `gorm:"column:owner_user_id;type:uuid;not null;index:idx_bookings_owner_date"`
	BookedByUserID string    `gorm:"column:booked_by_user_id;type:uuid;not null"`
	BookingDate    time.Time `gorm:"column:booking_date;type:date;not null;index:idx_bookings_space_date;index:idx_bookings_owner_date"`
	SlotFrom       int       `gorm:"column:slot_from;not null"`
	SlotTo         int       `gorm:"column:slot_to;not null"`
	ExpiresAt      time.Time `gorm:"column:expires_at;not null;index"`
	Status         string    `gorm:"column:status;not null;default:active"`
	CreatedAt      time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt      time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (Booking) TableName() string {
	return "bookings"
}

package space

import "time"

// Coworking is a site grouping floors.
type Coworking struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	Name      string    `gorm:"column:name;not null"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Coworking) TableName() string {
	return "coworkings"
}

type Floor struct {
	ID          string    `gorm:"primaryKey;type:uuid"`
	CoworkingID *string   `gorm:"column:coworking_id;type:uuid;index"`
	Name        string    `gorm:"column:name;not null"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Floor) TableName() string {
	return "floors"
}

type Space struct {
	ID        string    `gorm:"primaryKey;type:uuid"`
	FloorID   string    `gorm:"column:floor_id;type:uuid;not null;index"`
	Label     string    `gorm:"column:label;not null"`
	Seats     int       `gorm:"column:seats;not null;default:1"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

func (Space) TableName() string {
	return "spaces"
}

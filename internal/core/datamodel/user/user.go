package user

import "time"

type User struct {
	ID           string    `gorm:"primaryKey;type:uuid"`
	Email        string    `gorm:"column:email;uniqueIndex;not null"`
	Name         string    `gorm:"column:name;not null"`
	PasswordHash string    `gorm:"column:password_hash;not null"`
	Department   string    `gorm:"column:department;index"`
	Role         string    `gorm:"column:role;not null;default:employee"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}

package auth

import (
	"time"

	"gorm.io/gorm"
)

const (
	RoleAdmin       = "admin"
	RoleOrganizer   = "organizer"
	RoleParticipant = "participant"
)

type UserRole struct {
	ID                  uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	RoleName            string    `gorm:"size:50;unique;not null" json:"role_name"`
	Description         string    `gorm:"size:255" json:"description"`
	CanRegisterPublicly bool      `gorm:"default:false" json:"can_register_publicly"`
	CreatedAt           time.Time `json:"created_at"`
	UpdatedAt           time.Time `json:"updated_at"`
}

type User struct {
	ID           uint     `gorm:"primaryKey;autoIncrement" json:"id"`
	FullName     string   `gorm:"size:255;not null" json:"full_name"`
	Email        string   `gorm:"size:255;unique;not null" json:"email"`
	PasswordHash string   `gorm:"size:255;not null" json:"-"`
	Mobile       string   `gorm:"size:20;not null" json:"mobile"`
	Gender       string   `gorm:"size:20" json:"gender"`
	ProfileImage string   `gorm:"size:512" json:"profile_image"`
	RoleID       uint     `gorm:"not null" json:"role_id"`
	Role         UserRole `gorm:"foreignKey:RoleID;references:ID" json:"role"`

	Status    string         `gorm:"size:20;default:active" json:"status"` // active, inactive
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

type PublicRoleResponse struct {
	ID          uint   `json:"id"`
	RoleName    string `json:"role_name"`
	Description string `json:"description"`
}

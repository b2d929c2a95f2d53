package models

import (
	"time"
)

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"         json:"id"`
	Name         string    `gorm:"size:255;not null"                json:"name"`
	Email        string    `gorm:"size:255;uniqueIndex;not null"    json:"email"`
	PasswordHash string    `gorm:"not null"                         json:"-"`
	Role         string    `gorm:"size:16;not null;default:user"    json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Token is an issued bearer credential. Only the digest of the secret is stored.
type Token struct {
	ID         uint       `gorm:"primaryKey;autoIncrement"      json:"id"`
	UserID     uint       `gorm:"index;not null"                json:"user_id"`
	User       User       `gorm:"constraint:OnDelete:CASCADE"   json:"-"`
	Name       string     `gorm:"size:64;not null"              json:"name"`
	JTI        string     `gorm:"size:36;uniqueIndex;not null"  json:"-"`
	TokenHash  string     `gorm:"size:64;uniqueIndex;not null"  json:"-"`
	LastUsedAt *time.Time `json:"last_used_at"`
	ExpiresAt  *time.Time `json:"expires_at"`
	CreatedAt  time.Time  `json:"created_at"`
}

func (Token) TableName() string { return "api_tokens" }

type Category struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name        string    `gorm:"size:255;not null"         json:"name"`
	Description *string   `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement"                          json:"id"`
	CategoryID  uint      `gorm:"index;not null"                                    json:"category_id"`
	Category    *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"     json:"category,omitempty"`
	Name        string    `gorm:"size:255;not null"                                 json:"name"`
	Description *string   `json:"description"`
	Price       float64   `gorm:"not null;default:0"                                json:"price"`
	Stock       int       `gorm:"not null;default:0"                                json:"stock"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func All() []any {
	return []any{&User{}, &Token{}, &Category{}, &Product{}}
}

package models

import (
	"time"

	"gorm.io/gorm"
)

// User roles
const (
	RoleUser    = "USER"
	RolePartner = "PARTNER"
	RoleAdmin   = "ADMIN"
)

// User is a local portal account. Partner identity attributes (company,
// country) ride along in the JWT so voucher submissions carry them without a
// lookup.
type User struct {
	gorm.Model
	Name                string `gorm:"default:''"`
	Email               string `gorm:"unique;not null"`
	Company             string `gorm:"default:''"`
	Country             string `gorm:"default:''"`
	Role                string `gorm:"default:'USER'"` // USER, PARTNER, ADMIN
	Password            string `gorm:"not null"`
	FailedLoginAttempts int    `gorm:"default:0"`
	LastFailedLogin     *time.Time
	LastLogin           time.Time `gorm:"default:NULL"`
	IsBlocked           bool      `gorm:"default:false"`
	IsDeleted           bool      `gorm:"default:false"`
}

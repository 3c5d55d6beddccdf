package models

import "gorm.io/gorm"

// Access request statuses
const (
	AccessStatusPending   = "pending"
	AccessStatusApproved  = "approved"
	AccessStatusRejected  = "rejected"
	AccessStatusCompleted = "completed"
)

// AccessRequest is a visitor's request for portal access, reviewed by an admin
type AccessRequest struct {
	gorm.Model
	Name    string `gorm:"not null"`
	Email   string `gorm:"not null"`
	Company string `gorm:"default:''"`
	Country string `gorm:"default:''"`
	Message string
	Status  string `gorm:"default:'pending'"`
}

package models

import "gorm.io/gorm"

// Checklist languages
const (
	LanguageEN = "en"
	LanguageID = "id"
)

// Checklist answer values
const (
	AnswerYes = "Yes"
	AnswerNo  = "No"
	AnswerNA  = "N/A"
)

// Question is one assessment checklist item, imported per language
type Question struct {
	gorm.Model
	Area          string `gorm:"not null"`
	Activity      string `gorm:"not null"`
	Criteria      string `gorm:"not null"`
	Language      string `gorm:"not null"`
	SequenceOrder int    `gorm:"default:0"`
}

// UserResponse is one completed checklist submission
type UserResponse struct {
	gorm.Model
	Email    string `gorm:"not null"`
	Language string `gorm:"not null"`
}

// Answer links a response to a question with the chosen value and remarks
type Answer struct {
	gorm.Model
	QuestionID uint `gorm:"index"`
	ResponseID uint `gorm:"index"`
	AnswerText string
	Remarks    string
}

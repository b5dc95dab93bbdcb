// Package domain contains referral messages: notes sent to the clinic by
// referring veterinarians, plus the reminders the scheduler files. The UI
// polls the unread count.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

type Referral struct {
	ID        snowflake.ID  `gorm:"primaryKey" json:"id"`
	ClinicID  snowflake.ID  `gorm:"not null;index" json:"clinic_id"`
	PatientID *snowflake.ID `gorm:"index" json:"patient_id,omitempty"`

	Sender  string     `gorm:"type:text;not null" json:"sender"`
	Subject string     `gorm:"type:text;not null" json:"subject"`
	Body    string     `gorm:"type:text" json:"body"`
	ReadAt  *time.Time `gorm:"index" json:"read_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;index" json:"created_at"`
}

// TableName sets the database table name.
func (Referral) TableName() string { return "referrals" }

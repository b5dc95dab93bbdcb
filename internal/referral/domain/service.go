package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type CreateReferralRequest struct {
	PatientID string `json:"patient_id"`
	Sender    string `json:"sender"`
	Subject   string `json:"subject"`
	Body      string `json:"body"`
}

type InboxRequest struct {
	UnreadOnly bool
	Limit      int
}

type MarkReadRequest struct {
	ID string
}

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, referral *Referral) error
	FindByID(ctx context.Context, db *gorm.DB, clinicID, id snowflake.ID) (*Referral, error)
	Inbox(ctx context.Context, db *gorm.DB, clinicID snowflake.ID, unreadOnly bool, limit int) ([]Referral, error)
	MarkRead(ctx context.Context, db *gorm.DB, referral *Referral) error
	UnreadCount(ctx context.Context, db *gorm.DB, clinicID snowflake.ID) (int64, error)
}

type Service interface {
	Create(context.Context, CreateReferralRequest) (Referral, error)
	Inbox(context.Context, InboxRequest) ([]Referral, error)
	MarkRead(context.Context, MarkReadRequest) (Referral, error)
	UnreadCount(context.Context) (int64, error)
}

var (
	ErrInvalidClinic  = errors.New("invalid_clinic")
	ErrInvalidSender  = errors.New("invalid_sender")
	ErrInvalidSubject = errors.New("invalid_subject")
	ErrInvalidID      = errors.New("invalid_id")
	ErrNotFound       = errors.New("not_found")
)

package model

import (
	"time"

	"campus/shared/model"
)

const (
	TableName  = "strikes"
	EntityName = "strike"

	FieldID        = "id"
	FieldUserID    = "user_id"
	FieldReason    = "reason"
	FieldExpiresAt = "expires_at"
)

// Strike is a penalty against a user. It counts toward a ban until ExpiresAt.
type Strike struct {
	ID        int64     `db:"id"         generated:"true"`
	UserID    string    `db:"user_id"`
	Reason    string    `db:"reason"`
	ExpiresAt time.Time `db:"expires_at"`
	model.Metadata
}

func (s Strike) ActiveAt(at time.Time) bool {
	return s.ExpiresAt.After(at)
}

package model

import "campus/shared/model"

const (
	TableName  = "users"
	EntityName = "user"

	FieldID          = "id"
	FieldUsername    = "username"
	FieldDisplayName = "display_name"
	FieldRole        = "role"
)

// User is the local projection of an identity issued elsewhere. Reservations only need to
// know that the user exists and how to display them.
type User struct {
	ID          string `db:"id"`
	Username    string `db:"username"`
	DisplayName string `db:"display_name"`
	Role        string `db:"role"`
	model.Metadata
}

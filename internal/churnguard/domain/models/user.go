package models

type User struct {
	ID           int    `json:"user_id"` //nolint:tagliatelle
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

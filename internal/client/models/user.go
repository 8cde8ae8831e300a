// Package models defines the wire types exchanged with the portal API.
package models

// User is the authenticated account profile as returned by the login
// endpoint. The password hash never leaves the server.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	IsAdmin   bool   `json:"isAdmin"`
	CreatedAt string `json:"createdAt,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
}

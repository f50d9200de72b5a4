// Package models defines the domain types exchanged with the dream
// interpretation API and kept in client session state.
package models

import "time"

// AuthProvider identifies how an account was created.
type AuthProvider string

const (
	ProviderEmail  AuthProvider = "email"
	ProviderGoogle AuthProvider = "google"
	ProviderApple  AuthProvider = "apple"
)

// User is the authenticated account profile. It is immutable on the client
// once fetched; a re-login or token validation replaces it wholesale.
type User struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Name         string       `json:"name,omitempty"`
	ProfileImage string       `json:"profileImage,omitempty"`
	Provider     AuthProvider `json:"provider"`
	IsPremium    bool         `json:"isPremium,omitempty"`
	CreatedAt    time.Time    `json:"createdAt"`
	UpdatedAt    time.Time    `json:"updatedAt"`
}

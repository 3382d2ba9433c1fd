package models

import pp "pokemon_portal"

type User struct {
	ID           int    `json:"id"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"` // don’t expose hash
}

// Profile strips the password hash.
func (u User) Profile() pp.UserProfile {
	return pp.UserProfile{ID: u.ID, Username: u.Username}
}

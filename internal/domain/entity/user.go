// Package entity contains the core business objects of the project,
// each representing a unique, identifiable concept within the domain.
package entity

import "time"

// User is the core entity of the system, representing a registered account.
// A user owns items and may carry the admin role; new accounts start in the
// pending status and become usable only after admin approval.
type User struct {
	ID           uint       // Immutable numeric identifier, assigned by the store.
	Username     string     // Unique login name.
	Email        string     // Unique contact email, also accepted at login.
	PasswordHash string     // bcrypt hash; never serialized to clients.
	Address      string     // Optional default pickup address for listed items.
	Phone        string     // Optional contact phone.
	Role         Role       // user or admin.
	Status       UserStatus // pending, approved or rejected.
	CreatedAt    time.Time  // Timestamp of registration.
}

// IsAdmin reports whether the user carries the admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// IsApproved reports whether the account has passed admin approval.
func (u *User) IsApproved() bool {
	return u.Status == StatusApproved
}

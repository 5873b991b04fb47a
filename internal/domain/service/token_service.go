package service

import "sharegarden/internal/domain/entity"

// Principal is the authenticated caller threaded through handlers once the
// access token has been verified. Role and username are a snapshot taken at
// token issuance and may be stale relative to the store; the refresh flow
// re-reads the store to mint an up-to-date snapshot.
type Principal struct {
	UserID   uint
	Role     entity.Role
	Username string
}

// IsAdmin reports whether the principal's token carried the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == entity.RoleAdmin
}

// TokenService defines the interface for issuing and verifying the two
// token flavors. Access tokens are short-lived and carry the role/username
// snapshot; refresh tokens are long-lived and carry only the subject.
type TokenService interface {
	// IssueAccessToken mints a short-lived access token for the user.
	IssueAccessToken(user *entity.User) (string, error)

	// IssueRefreshToken mints a long-lived refresh token for the user.
	IssueRefreshToken(user *entity.User) (string, error)

	// VerifyAccess validates an access token and returns the embedded
	// principal. Fails with the domain token errors on expiry, bad
	// signature or a refresh token presented in its place.
	VerifyAccess(token string) (*Principal, error)

	// VerifyRefresh validates a refresh token and returns the subject's
	// user id. Fails the same way for access tokens presented in its place.
	VerifyRefresh(token string) (uint, error)
}

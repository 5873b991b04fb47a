// Package handler contains the HTTP handlers for the application.
package handler

import (
	"time"

	"sharegarden/internal/domain/entity"
)

// The JSON shapes below are the public API surface consumed by the
// bundled front-end; field names are part of the contract.

type userJSON struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Address   string    `json:"address"`
	Phone     string    `json:"phone"`
	Role      string    `json:"role"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

func toUserJSON(u *entity.User) userJSON {
	return userJSON{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Address:   u.Address,
		Phone:     u.Phone,
		Role:      u.Role.String(),
		Status:    u.Status.String(),
		CreatedAt: u.CreatedAt,
	}
}

func toUserListJSON(users []*entity.User) []userJSON {
	out := make([]userJSON, 0, len(users))
	for _, u := range users {
		out = append(out, toUserJSON(u))
	}

	return out
}

type itemTypeJSON struct {
	ID         uint                    `json:"id"`
	Name       string                  `json:"name"`
	Attributes []entity.AttributeField `json:"attributes"`
}

func toItemTypeJSON(t *entity.ItemType) itemTypeJSON {
	attrs := t.Attributes
	if attrs == nil {
		attrs = []entity.AttributeField{}
	}

	return itemTypeJSON{ID: t.ID, Name: t.Name, Attributes: attrs}
}

func toItemTypeListJSON(types []*entity.ItemType) []itemTypeJSON {
	out := make([]itemTypeJSON, 0, len(types))
	for _, t := range types {
		out = append(out, toItemTypeJSON(t))
	}

	return out
}

type itemJSON struct {
	ID            uint           `json:"id"`
	TypeID        uint           `json:"type_id"`
	TypeName      string         `json:"type_name"`
	OwnerID       uint           `json:"owner_id"`
	OwnerUsername string         `json:"owner_username"`
	Name          string         `json:"name"`
	Description   string         `json:"description"`
	Address       string         `json:"address"`
	Phone         string         `json:"phone"`
	Email         string         `json:"email"`
	Image         string         `json:"image"`
	Attributes    map[string]any `json:"attributes"`
	Status        string         `json:"status"`
	CreatedAt     time.Time      `json:"created_at"`
}

func toItemJSON(i *entity.Item) itemJSON {
	attrs := i.Attributes
	if attrs == nil {
		attrs = map[string]any{}
	}

	return itemJSON{
		ID:            i.ID,
		TypeID:        i.TypeID,
		TypeName:      i.TypeName,
		OwnerID:       i.OwnerID,
		OwnerUsername: i.OwnerUsername,
		Name:          i.Name,
		Description:   i.Description,
		Address:       i.Address,
		Phone:         i.Phone,
		Email:         i.Email,
		Image:         i.Image,
		Attributes:    attrs,
		Status:        i.Status.String(),
		CreatedAt:     i.CreatedAt,
	}
}

func toItemListJSON(items []*entity.Item) []itemJSON {
	out := make([]itemJSON, 0, len(items))
	for _, i := range items {
		out = append(out, toItemJSON(i))
	}

	return out
}

type tokenJSON struct {
	AccessToken  string   `json:"access_token"`
	RefreshToken string   `json:"refresh_token"`
	User         userJSON `json:"user"`
}

package service

import "github.com/Skotchmaster/inventory/internal/models"

// Identity is the authenticated caller resolved from a bearer token.
type Identity struct {
	UserID  uint
	Name    string
	Email   string
	Role    string
	TokenID uint
}

func (i *Identity) IsAdmin() bool {
	return i != nil && i.Role == models.RoleAdmin
}

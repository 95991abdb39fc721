package types

import (
	"github.com/google/uuid"
	"github.com/shopkeeper-dev/storefront-backend/pkg/enums"
)

// Actor identifies the authenticated caller for service-layer checks.
type Actor struct {
	ID   uuid.UUID
	Role enums.UserRole
}

// IsAdmin reports whether the actor holds an administrative role.
func (a Actor) IsAdmin() bool {
	return a.Role.IsAdmin()
}

// IsZero reports whether the actor is unauthenticated.
func (a Actor) IsZero() bool {
	return a.ID == uuid.Nil
}

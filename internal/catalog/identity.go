package catalog

import "github.com/hritikarora28/AppstoreBackend/internal/models"

// Identity is the verified caller passed into every store operation.
// It is built by the auth middleware and threaded explicitly; the store
// never reads ambient request state.
type Identity struct {
	UserID   uint
	Username string
	Role     string
}

func (id Identity) IsAdmin() bool { return id.Role == models.RoleAdmin }

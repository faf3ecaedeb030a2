// Package permission answers capability questions for the lifecycle
// core. The core consumes these as plain booleans and never inspects
// roles itself.
package permission

import "github.com/roamark/roamark_api/internal/model"

type Gate struct{}

func NewGate() *Gate {
	return &Gate{}
}

// CanEditLocation governs location field mutation: the creator or an
// elevated role may edit a shared place.
func (g *Gate) CanEditLocation(user model.User, location model.Location) bool {
	return location.CreatedBy == user.ID || user.IsAdmin()
}

// CanDeleteUserSave is strict ownership. Admins cannot delete another
// user's save through this path.
func (g *Gate) CanDeleteUserSave(user model.User, save model.UserSave) bool {
	return save.UserID == user.ID
}

package permission

import (
	"testing"

	"github.com/google/uuid"
	"github.com/roamark/roamark_api/internal/model"
)

func TestCanEditLocation(t *testing.T) {
	creator := uuid.New()
	other := uuid.New()

	testCases := []struct {
		name     string
		user     model.User
		expected bool
	}{
		{"Creator", model.User{ID: creator, Role: model.RoleUser}, true},
		{"Admin", model.User{ID: other, Role: model.RoleAdmin}, true},
		{"OtherUser", model.User{ID: other, Role: model.RoleUser}, false},
	}

	gate := NewGate()
	location := model.Location{ID: 1, CreatedBy: creator}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := gate.CanEditLocation(tc.user, location); got != tc.expected {
				t.Errorf("CanEditLocation(%s) = %v; want %v", tc.name, got, tc.expected)
			}
		})
	}
}

func TestCanDeleteUserSaveIsRoleBlind(t *testing.T) {
	owner := uuid.New()
	admin := uuid.New()

	gate := NewGate()
	save := model.UserSave{ID: 7, UserID: owner}

	if !gate.CanDeleteUserSave(model.User{ID: owner, Role: model.RoleUser}, save) {
		t.Error("owner should be able to delete their own save")
	}
	if gate.CanDeleteUserSave(model.User{ID: admin, Role: model.RoleAdmin}, save) {
		t.Error("admin must not be able to delete another user's save")
	}
}

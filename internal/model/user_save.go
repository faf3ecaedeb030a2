package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	VisibilityPrivate = "PRIVATE"
	VisibilityFriends = "FRIENDS"
	VisibilityPublic  = "PUBLIC"
)

// UserSave is one user's reference to a shared Location, carrying their
// private annotation. Unique per (user_id, location_id).
type UserSave struct {
	ID             int64     `json:"id"`
	UserID         uuid.UUID `json:"user_id"`
	LocationID     int64     `json:"location_id"`
	IsFavorite     bool      `json:"is_favorite"`
	PersonalRating *int      `json:"personal_rating,omitempty"`
	Tags           []string  `json:"tags"`
	Color          *string   `json:"color,omitempty"`
	Caption        *string   `json:"caption,omitempty"`
	Visibility     string    `json:"visibility"`
	SavedAt        time.Time `json:"saved_at"`
}

// SavePatch merge-patches the fields a user owns on their save.
type SavePatch struct {
	IsFavorite     *bool     `json:"is_favorite,omitempty"`
	PersonalRating *int      `json:"personal_rating,omitempty" validate:"omitempty,min=1,max=5"`
	Tags           *[]string `json:"tags,omitempty"`
	Color          *string   `json:"color,omitempty"`
	Caption        *string   `json:"caption,omitempty"`
	Visibility     *string   `json:"visibility,omitempty" validate:"omitempty,oneof=PRIVATE FRIENDS PUBLIC"`
}

func (p SavePatch) HasFields() bool {
	return p.IsFavorite != nil || p.PersonalRating != nil || p.Tags != nil ||
		p.Color != nil || p.Caption != nil || p.Visibility != nil
}

type CreateSaveRequest struct {
	PlaceID      string   `json:"place_id" validate:"required"`
	Name         string   `json:"name" validate:"omitempty,min=1,max=120"`
	Address      string   `json:"address"`
	Latitude     *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude    *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Category     string   `json:"category"`
	IsFavorite   bool     `json:"is_favorite"`
	Tags         []string `json:"tags"`
	Color        *string  `json:"color,omitempty"`
	Caption      *string  `json:"caption,omitempty"`
	Visibility   string   `json:"visibility" validate:"omitempty,oneof=PRIVATE FRIENDS PUBLIC"`
}

// SaveContext is the composite read the lifecycle core works from: a
// save, its location, that location's full photo list, and every save
// referencing the same location (the one being read included).
type SaveContext struct {
	Save     UserSave   `json:"save"`
	Location Location   `json:"location"`
	Photos   []Photo    `json:"photos"`
	Siblings []UserSave `json:"siblings"`
}

// OtherSaves counts sibling saves excluding the one in context.
func (sc *SaveContext) OtherSaves() int {
	n := 0
	for _, s := range sc.Siblings {
		if s.ID != sc.Save.ID {
			n++
		}
	}
	return n
}

// SaveSummary is the flattened list item for "my saves" responses.
type SaveSummary struct {
	ID         int64     `json:"id"`
	LocationID int64     `json:"location_id"`
	PlaceID    string    `json:"place_id"`
	Name       string    `json:"name"`
	Address    string    `json:"address"`
	Latitude   float64   `json:"latitude"`
	Longitude  float64   `json:"longitude"`
	IsFavorite bool      `json:"is_favorite"`
	Tags       []string  `json:"tags"`
	SavedAt    time.Time `json:"saved_at"`
}

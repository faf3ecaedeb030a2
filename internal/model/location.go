package model

import (
	"time"

	"github.com/google/uuid"
)

// Location is a physical place shared across users. One row exists per
// place_id no matter how many users have saved it; per-user state lives
// on UserSave.
type Location struct {
	ID             int64      `json:"id"`
	PlaceID        string     `json:"place_id"`
	Name           string     `json:"name"`
	Address        string     `json:"address"`
	Street         string     `json:"street"`
	StreetNumber   string     `json:"street_number"`
	City           string     `json:"city"`
	State          string     `json:"state"`
	Zipcode        string     `json:"zipcode"`
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	Category       string     `json:"category"`
	Rating         *float64   `json:"rating,omitempty"`
	Notes          *string    `json:"notes,omitempty"`
	EntryPoint     *string    `json:"entry_point,omitempty"`
	Parking        *string    `json:"parking,omitempty"`
	Access         *string    `json:"access,omitempty"`
	Indoor         *bool      `json:"indoor,omitempty"`
	OperatingHours *string    `json:"operating_hours,omitempty"`
	PermitRequired *bool      `json:"permit_required,omitempty"`
	PermitInfo     *string    `json:"permit_info,omitempty"`
	ContactName    *string    `json:"contact_name,omitempty"`
	ContactPhone   *string    `json:"contact_phone,omitempty"`
	CreatedBy      uuid.UUID  `json:"created_by"`
	LastModifiedBy *uuid.UUID `json:"last_modified_by,omitempty"`
	LastModifiedAt *time.Time `json:"last_modified_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// LocationPatch carries a merge-patch over location fields. Nil means
// "leave untouched"; only non-nil fields are written.
type LocationPatch struct {
	Name           *string  `json:"name,omitempty" validate:"omitempty,min=1,max=120"`
	Address        *string  `json:"address,omitempty"`
	Street         *string  `json:"street,omitempty"`
	StreetNumber   *string  `json:"street_number,omitempty"`
	City           *string  `json:"city,omitempty"`
	State          *string  `json:"state,omitempty"`
	Zipcode        *string  `json:"zipcode,omitempty"`
	Latitude       *float64 `json:"latitude,omitempty" validate:"omitempty,latitude"`
	Longitude      *float64 `json:"longitude,omitempty" validate:"omitempty,longitude"`
	Category       *string  `json:"category,omitempty"`
	Rating         *float64 `json:"rating,omitempty" validate:"omitempty,min=0,max=5"`
	Notes          *string  `json:"notes,omitempty"`
	EntryPoint     *string  `json:"entry_point,omitempty"`
	Parking        *string  `json:"parking,omitempty"`
	Access         *string  `json:"access,omitempty"`
	Indoor         *bool    `json:"indoor,omitempty"`
	OperatingHours *string  `json:"operating_hours,omitempty"`
	PermitRequired *bool    `json:"permit_required,omitempty"`
	PermitInfo     *string  `json:"permit_info,omitempty"`
	ContactName    *string  `json:"contact_name,omitempty"`
	ContactPhone   *string  `json:"contact_phone,omitempty"`
}

func (p LocationPatch) HasFields() bool {
	return p.Name != nil || p.Address != nil || p.Street != nil ||
		p.StreetNumber != nil || p.City != nil || p.State != nil ||
		p.Zipcode != nil || p.Latitude != nil || p.Longitude != nil ||
		p.Category != nil || p.Rating != nil || p.Notes != nil ||
		p.EntryPoint != nil || p.Parking != nil || p.Access != nil ||
		p.Indoor != nil || p.OperatingHours != nil || p.PermitRequired != nil ||
		p.PermitInfo != nil || p.ContactName != nil || p.ContactPhone != nil
}

// PlaceDetails is what the external geocoder knows about a place,
// used to fill in location fields the caller did not supply.
type PlaceDetails struct {
	Name         string
	Address      string
	Street       string
	StreetNumber string
	City         string
	State        string
	Zipcode      string
	Latitude     float64
	Longitude    float64
	Category     string
	Rating       *float64
}

// LocationWithPhotos is the authoritative post-update view returned by
// the composite update.
type LocationWithPhotos struct {
	Location Location `json:"location"`
	Photos   []Photo  `json:"photos"`
}

package store

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/roamark/roamark_api/internal/model"
)

// buildLocationPatch turns a merge-patch into a SET clause covering
// only the fields the patch names, always stamping the audit pair.
// Placeholders are numbered from $1; the caller appends its own.
func buildLocationPatch(patch model.LocationPatch, modifier uuid.UUID) (string, []any) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.Name != nil {
		add("name", *patch.Name)
	}
	if patch.Address != nil {
		add("address", *patch.Address)
	}
	if patch.Street != nil {
		add("street", *patch.Street)
	}
	if patch.StreetNumber != nil {
		add("street_number", *patch.StreetNumber)
	}
	if patch.City != nil {
		add("city", *patch.City)
	}
	if patch.State != nil {
		add("state", *patch.State)
	}
	if patch.Zipcode != nil {
		add("zipcode", *patch.Zipcode)
	}
	if patch.Latitude != nil {
		add("latitude", *patch.Latitude)
	}
	if patch.Longitude != nil {
		add("longitude", *patch.Longitude)
	}
	if patch.Category != nil {
		add("category", *patch.Category)
	}
	if patch.Rating != nil {
		add("rating", *patch.Rating)
	}
	if patch.Notes != nil {
		add("notes", *patch.Notes)
	}
	if patch.EntryPoint != nil {
		add("entry_point", *patch.EntryPoint)
	}
	if patch.Parking != nil {
		add("parking", *patch.Parking)
	}
	if patch.Access != nil {
		add("access", *patch.Access)
	}
	if patch.Indoor != nil {
		add("indoor", *patch.Indoor)
	}
	if patch.OperatingHours != nil {
		add("operating_hours", *patch.OperatingHours)
	}
	if patch.PermitRequired != nil {
		add("permit_required", *patch.PermitRequired)
	}
	if patch.PermitInfo != nil {
		add("permit_info", *patch.PermitInfo)
	}
	if patch.ContactName != nil {
		add("contact_name", *patch.ContactName)
	}
	if patch.ContactPhone != nil {
		add("contact_phone", *patch.ContactPhone)
	}

	add("last_modified_by", modifier)
	sets = append(sets, "last_modified_at = NOW()", "updated_at = NOW()")

	return strings.Join(sets, ", "), args
}

// buildSavePatch covers only the fields a user owns on their save.
// Returns no args when the patch is empty.
func buildSavePatch(patch model.SavePatch) (string, []any) {
	var sets []string
	var args []any
	add := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf("%s = $%d", column, len(args)))
	}

	if patch.IsFavorite != nil {
		add("is_favorite", *patch.IsFavorite)
	}
	if patch.PersonalRating != nil {
		add("personal_rating", *patch.PersonalRating)
	}
	if patch.Tags != nil {
		add("tags", *patch.Tags)
	}
	if patch.Color != nil {
		add("color", *patch.Color)
	}
	if patch.Caption != nil {
		add("caption", *patch.Caption)
	}
	if patch.Visibility != nil {
		add("visibility", *patch.Visibility)
	}

	return strings.Join(sets, ", "), args
}

// Package lifecycle implements the sharing and cascading-delete core:
// the read, composite-update, and delete protocols over the
// Location / UserSave / Photo graph, and the detach-vs-cascade decision
// that keeps the relational store and the blob store consistent.
package lifecycle

import (
	"context"
	"errors"
	"log"

	"github.com/google/uuid"
	"github.com/roamark/roamark_api/internal/model"
)

// Store is the relational persistence layer. Implementations must make
// WithinTx atomic; every other method runs against whatever the Store
// is bound to (pool or open transaction).
type Store interface {
	WithinTx(ctx context.Context, fn func(Store) error) error

	GetUserSaveWithContext(ctx context.Context, saveID int64) (*model.SaveContext, error)
	GetLocation(ctx context.Context, locationID int64) (*model.Location, error)
	GetLocationForUpdate(ctx context.Context, locationID int64) (*model.Location, error)
	FindOrCreateLocation(ctx context.Context, loc *model.Location) (*model.Location, error)
	CreateUserSave(ctx context.Context, save *model.UserSave) (*model.UserSave, error)
	ListSavesForUser(ctx context.Context, userID uuid.UUID) ([]model.SaveSummary, error)
	GetSaveForUserLocation(ctx context.Context, userID uuid.UUID, locationID int64) (*model.UserSave, error)
	UpdateLocationFields(ctx context.Context, locationID int64, patch model.LocationPatch, modifier uuid.UUID) (*model.Location, error)
	UpdateUserSaveFields(ctx context.Context, saveID int64, patch model.SavePatch) (*model.UserSave, error)
	UpdatePhotoFields(ctx context.Context, photoID, locationID int64, caption *string, isPrimary *bool) error
	UpsertPhotos(ctx context.Context, locationID int64, placeID string, uploader uuid.UUID, descs []model.PhotoDescriptor) ([]model.Photo, error)
	GetPhoto(ctx context.Context, photoID int64) (*model.Photo, error)
	GetPhotosByPlaceID(ctx context.Context, placeID string) ([]model.Photo, error)
	DeletePhoto(ctx context.Context, photoID int64) error

	// DeleteSaveAtomic re-resolves the save graph under a location row
	// lock, applies ShouldCascade, and performs the matching relational
	// delete, all in one transaction. A save that is already gone is
	// reported through the outcome, not as an error.
	DeleteSaveAtomic(ctx context.Context, saveID int64, requester uuid.UUID) (*DeleteOutcome, error)
}

// BlobStore deletes photo binaries from the external object store.
// Calls are independent; one failure must not stop the rest.
type BlobStore interface {
	DeleteImage(ctx context.Context, fileID string) error
}

// Gate is the external capability decision, consumed as booleans.
type Gate interface {
	CanEditLocation(user model.User, location model.Location) bool
	CanDeleteUserSave(user model.User, save model.UserSave) bool
}

// Events receives notifications after shared state changes. May be nil.
type Events interface {
	LocationDeleted(locationID int64, placeID string)
	SaveRemoved(saveID, locationID int64)
}

// PlaceResolver looks up place details from the external geocoder.
// May be nil; resolution failures are never fatal.
type PlaceResolver interface {
	ResolvePlace(ctx context.Context, placeID string) (*model.PlaceDetails, error)
}

// DeleteOutcome reports what DeleteSaveAtomic actually did. Photos
// holds the location's photo list as read under the lock, so the
// caller can attempt blob cleanup for exactly the rows that existed.
type DeleteOutcome struct {
	SaveDeleted bool
	Cascaded    bool
	Orphaned    bool
	Location    model.Location
	Photos      []model.Photo
}

// DeleteSummary tells the caller what a delete actually removed, so
// "your reference was removed" and "the place was destroyed" are never
// conflated.
type DeleteSummary struct {
	UserSave   bool `json:"user_save"`
	Location   bool `json:"location"`
	PhotoCount int  `json:"photo_count"`
	BlobCount  int  `json:"blob_count"`

	// Blob identifiers that could not be deleted, kept for
	// out-of-band reconciliation.
	FailedBlobIDs []string `json:"-"`
}

// UpdateLocationRequest bundles a composite update: location fields,
// the requester's own save fields, and photo mutations, all optional.
type UpdateLocationRequest struct {
	Location *model.LocationPatch `json:"location,omitempty"`
	Save     *model.SavePatch     `json:"save,omitempty"`
	Photos   []model.PhotoUpdate  `json:"photos,omitempty"`
}

// ShouldCascade decides detach vs cascade: only the location's creator
// removing the last remaining save tears the shared place down.
// Creatorship, not "first to save", governs the cascade.
func ShouldCascade(requester, createdBy uuid.UUID, otherSaves int) bool {
	return requester == createdBy && otherSaves == 0
}

type Manager struct {
	store  Store
	blobs  BlobStore
	gate   Gate
	events Events
	places PlaceResolver
}

func NewManager(store Store, blobs BlobStore, gate Gate, events Events, places PlaceResolver) *Manager {
	return &Manager{
		store:  store,
		blobs:  blobs,
		gate:   gate,
		events: events,
		places: places,
	}
}

// GetSave resolves a save with its full context. Only the owner may
// read their save.
func (m *Manager) GetSave(ctx context.Context, requester model.User, saveID int64) (*model.SaveContext, error) {
	sc, err := m.store.GetUserSaveWithContext(ctx, saveID)
	if err != nil {
		return nil, err
	}
	if sc.Save.UserID != requester.ID {
		return nil, ErrNotPermitted
	}
	return sc, nil
}

// ListSaves returns all of the requester's saves with location summaries.
func (m *Manager) ListSaves(ctx context.Context, requester model.User) ([]model.SaveSummary, error) {
	return m.store.ListSavesForUser(ctx, requester.ID)
}

// CreateSave saves a place for a user: the location row is created on
// the first ever save of that place_id and reused afterwards, then the
// user's own save is inserted. Saving the same place twice surfaces
// ErrDuplicateSave.
func (m *Manager) CreateSave(ctx context.Context, requester model.User, req model.CreateSaveRequest) (*model.UserSave, *model.Location, error) {
	var details *model.PlaceDetails
	if m.places != nil && (req.Name == "" || req.Latitude == nil || req.Longitude == nil) {
		d, err := m.places.ResolvePlace(ctx, req.PlaceID)
		if err != nil {
			log.Printf("place details lookup failed for %s: %v", req.PlaceID, err)
		} else {
			details = d
		}
	}

	candidate := locationFromRequest(req, details, requester.ID)

	var location *model.Location
	var save *model.UserSave
	err := m.store.WithinTx(ctx, func(s Store) error {
		loc, err := s.FindOrCreateLocation(ctx, candidate)
		if err != nil {
			return err
		}
		location = loc

		visibility := req.Visibility
		if visibility == "" {
			visibility = model.VisibilityPrivate
		}
		tags := req.Tags
		if tags == nil {
			tags = []string{}
		}
		save, err = s.CreateUserSave(ctx, &model.UserSave{
			UserID:     requester.ID,
			LocationID: loc.ID,
			IsFavorite: req.IsFavorite,
			Tags:       tags,
			Color:      req.Color,
			Caption:    req.Caption,
			Visibility: visibility,
		})
		return err
	})
	if err != nil {
		return nil, nil, err
	}
	return save, location, nil
}

// DeleteSave removes a user's reference to a place, cascading to the
// shared location and its photos only when the requester is the
// creator removing the last remaining save. Deletion is idempotent: a
// save that is already gone yields an empty summary, not an error.
func (m *Manager) DeleteSave(ctx context.Context, requester model.User, saveID int64) (*DeleteSummary, error) {
	sc, err := m.store.GetUserSaveWithContext(ctx, saveID)
	if errors.Is(err, ErrSaveNotFound) {
		return &DeleteSummary{}, nil
	}
	if err != nil {
		return nil, err
	}
	if !m.gate.CanDeleteUserSave(requester, sc.Save) {
		return nil, ErrNotPermitted
	}

	outcome, err := m.store.DeleteSaveAtomic(ctx, saveID, requester.ID)
	if err != nil {
		return nil, err
	}
	if !outcome.SaveDeleted {
		// A concurrent delete got there first.
		return &DeleteSummary{}, nil
	}

	summary := &DeleteSummary{UserSave: true}
	if outcome.Cascaded {
		summary.Location = true
		summary.PhotoCount = len(outcome.Photos)
		for _, p := range outcome.Photos {
			if blobErr := m.blobs.DeleteImage(ctx, p.FileID); blobErr != nil {
				log.Printf("blob delete failed for photo %d (file %s): %v", p.ID, p.FileID, blobErr)
				summary.FailedBlobIDs = append(summary.FailedBlobIDs, p.FileID)
				continue
			}
			summary.BlobCount++
		}
		if m.events != nil {
			m.events.LocationDeleted(outcome.Location.ID, outcome.Location.PlaceID)
		}
	} else {
		if outcome.Orphaned {
			log.Printf("location %d orphaned: last save removed by non-creator %s", outcome.Location.ID, requester.ID)
		}
		if m.events != nil {
			m.events.SaveRemoved(saveID, outcome.Location.ID)
		}
	}
	return summary, nil
}

// UpdateLocation applies a composite merge-patch: location fields under
// the edit capability, the requester's own save fields if present, and
// photo mutations split into patches of existing rows and inserts of
// new ones. All relational writes happen in one transaction, and the
// returned photo list is re-read by place_id afterwards.
func (m *Manager) UpdateLocation(ctx context.Context, requester model.User, locationID int64, req UpdateLocationRequest) (*model.LocationWithPhotos, *model.UserSave, error) {
	var result model.LocationWithPhotos
	var updatedSave *model.UserSave

	err := m.store.WithinTx(ctx, func(s Store) error {
		loc, err := s.GetLocationForUpdate(ctx, locationID)
		if err != nil {
			return err
		}

		// The edit capability governs location field mutation only;
		// save fields below stay owner-scoped and photo mutations have
		// their own check.
		canEdit := m.gate.CanEditLocation(requester, *loc)
		if req.Location != nil && req.Location.HasFields() {
			if !canEdit {
				return ErrNotPermitted
			}
			loc, err = s.UpdateLocationFields(ctx, locationID, *req.Location, requester.ID)
			if err != nil {
				return err
			}
		}
		result.Location = *loc

		if req.Save != nil && req.Save.HasFields() {
			own, saveErr := s.GetSaveForUserLocation(ctx, requester.ID, locationID)
			switch {
			case errors.Is(saveErr, ErrSaveNotFound):
				// The requester has no save for this place; save
				// fields are silently dropped rather than creating one.
			case saveErr != nil:
				return saveErr
			default:
				updatedSave, err = s.UpdateUserSaveFields(ctx, own.ID, *req.Save)
				if err != nil {
					return err
				}
			}
		}

		if len(req.Photos) > 0 {
			if !canEdit {
				if _, saveErr := s.GetSaveForUserLocation(ctx, requester.ID, locationID); saveErr != nil {
					if errors.Is(saveErr, ErrSaveNotFound) {
						return ErrNotPermitted
					}
					return saveErr
				}
			}
			existing, fresh := partitionPhotoUpdates(req.Photos)
			for _, p := range existing {
				if err := s.UpdatePhotoFields(ctx, *p.ID, locationID, p.Caption, p.IsPrimary); err != nil {
					return err
				}
			}
			if len(fresh) > 0 {
				if _, err := s.UpsertPhotos(ctx, locationID, loc.PlaceID, requester.ID, fresh); err != nil {
					return err
				}
			}
		}

		photos, err := s.GetPhotosByPlaceID(ctx, loc.PlaceID)
		if err != nil {
			return err
		}
		result.Photos = photos
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return &result, updatedSave, nil
}

// AddPhotos attaches already-uploaded photos to a location. Allowed for
// anyone who can edit the location or holds their own save for it.
func (m *Manager) AddPhotos(ctx context.Context, requester model.User, locationID int64, descs []model.PhotoDescriptor) ([]model.Photo, error) {
	loc, err := m.store.GetLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	if !m.gate.CanEditLocation(requester, *loc) {
		if _, saveErr := m.store.GetSaveForUserLocation(ctx, requester.ID, locationID); saveErr != nil {
			if errors.Is(saveErr, ErrSaveNotFound) {
				return nil, ErrNotPermitted
			}
			return nil, saveErr
		}
	}
	return m.store.UpsertPhotos(ctx, locationID, loc.PlaceID, requester.ID, descs)
}

// DeletePhoto removes one photo: blob first, best effort, then the row.
// The uploader or anyone who may edit the location can delete it.
func (m *Manager) DeletePhoto(ctx context.Context, requester model.User, photoID int64) error {
	photo, err := m.store.GetPhoto(ctx, photoID)
	if err != nil {
		return err
	}
	loc, err := m.store.GetLocation(ctx, photo.LocationID)
	if err != nil {
		return err
	}
	if photo.UserID != requester.ID && !m.gate.CanEditLocation(requester, *loc) {
		return ErrNotPermitted
	}

	if blobErr := m.blobs.DeleteImage(ctx, photo.FileID); blobErr != nil {
		log.Printf("blob delete failed for photo %d (file %s): %v", photo.ID, photo.FileID, blobErr)
	}
	return m.store.DeletePhoto(ctx, photoID)
}

func partitionPhotoUpdates(updates []model.PhotoUpdate) ([]model.PhotoUpdate, []model.PhotoDescriptor) {
	var existing []model.PhotoUpdate
	var fresh []model.PhotoDescriptor
	for _, u := range updates {
		if u.ID != nil {
			existing = append(existing, u)
		} else {
			fresh = append(fresh, u.Descriptor())
		}
	}
	return existing, fresh
}

func locationFromRequest(req model.CreateSaveRequest, details *model.PlaceDetails, creator uuid.UUID) *model.Location {
	loc := &model.Location{
		PlaceID:   req.PlaceID,
		Name:      req.Name,
		Address:   req.Address,
		Category:  req.Category,
		CreatedBy: creator,
	}
	if req.Latitude != nil {
		loc.Latitude = *req.Latitude
	}
	if req.Longitude != nil {
		loc.Longitude = *req.Longitude
	}
	if details == nil {
		return loc
	}
	if loc.Name == "" {
		loc.Name = details.Name
	}
	if loc.Address == "" {
		loc.Address = details.Address
	}
	if loc.Category == "" {
		loc.Category = details.Category
	}
	if req.Latitude == nil && req.Longitude == nil {
		loc.Latitude = details.Latitude
		loc.Longitude = details.Longitude
	}
	loc.Street = details.Street
	loc.StreetNumber = details.StreetNumber
	loc.City = details.City
	loc.State = details.State
	loc.Zipcode = details.Zipcode
	loc.Rating = details.Rating
	return loc
}

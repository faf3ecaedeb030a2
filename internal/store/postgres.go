// Package store is the relational persistence layer for the lifecycle
// core, backed by PostgreSQL through pgx.
package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/roamark/roamark_api/internal/db"
	"github.com/roamark/roamark_api/internal/lifecycle"
	"github.com/roamark/roamark_api/internal/model"
)

const uniqueViolation = "23505"

type querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Postgres implements lifecycle.Store. Outside a transaction it runs
// against the pool; WithinTx rebinds it to an open pgx transaction.
type Postgres struct {
	db *db.DB
	q  querier
}

func NewPostgres(database *db.DB) *Postgres {
	return &Postgres{db: database, q: database.Pool()}
}

func (p *Postgres) WithinTx(ctx context.Context, fn func(lifecycle.Store) error) error {
	if _, inTx := p.q.(pgx.Tx); inTx {
		return fn(p)
	}
	return p.db.RunInTx(ctx, func(tx pgx.Tx) error {
		return fn(&Postgres{db: p.db, q: tx})
	})
}

const locationColumns = `id, place_id, name, address, street, street_number, city, state, zipcode,
	latitude, longitude, category, rating, notes, entry_point, parking, access, indoor,
	operating_hours, permit_required, permit_info, contact_name, contact_phone,
	created_by, last_modified_by, last_modified_at, created_at, updated_at`

const saveColumns = `id, user_id, location_id, is_favorite, personal_rating, tags, color, caption, visibility, saved_at`

const photoColumns = `id, location_id, place_id, user_id, file_id, url, file_name, file_size,
	mime_type, width, height, is_primary, caption, uploaded_at`

func scanLocation(row pgx.Row) (*model.Location, error) {
	var loc model.Location
	err := row.Scan(
		&loc.ID, &loc.PlaceID, &loc.Name, &loc.Address, &loc.Street, &loc.StreetNumber,
		&loc.City, &loc.State, &loc.Zipcode, &loc.Latitude, &loc.Longitude, &loc.Category,
		&loc.Rating, &loc.Notes, &loc.EntryPoint, &loc.Parking, &loc.Access, &loc.Indoor,
		&loc.OperatingHours, &loc.PermitRequired, &loc.PermitInfo, &loc.ContactName,
		&loc.ContactPhone, &loc.CreatedBy, &loc.LastModifiedBy, &loc.LastModifiedAt,
		&loc.CreatedAt, &loc.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &loc, nil
}

func scanSave(row pgx.Row) (*model.UserSave, error) {
	var save model.UserSave
	err := row.Scan(
		&save.ID, &save.UserID, &save.LocationID, &save.IsFavorite, &save.PersonalRating,
		&save.Tags, &save.Color, &save.Caption, &save.Visibility, &save.SavedAt,
	)
	if err != nil {
		return nil, err
	}
	return &save, nil
}

func scanPhoto(row pgx.Row) (*model.Photo, error) {
	var photo model.Photo
	err := row.Scan(
		&photo.ID, &photo.LocationID, &photo.PlaceID, &photo.UserID, &photo.FileID,
		&photo.URL, &photo.FileName, &photo.FileSize, &photo.MimeType, &photo.Width,
		&photo.Height, &photo.IsPrimary, &photo.Caption, &photo.UploadedAt,
	)
	if err != nil {
		return nil, err
	}
	return &photo, nil
}

func (p *Postgres) GetUserSaveWithContext(ctx context.Context, saveID int64) (*model.SaveContext, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM user_saves WHERE id = $1`, saveColumns)
	save, err := scanSave(p.q.QueryRow(ctx, stmt, saveID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting user save: %w", err)
	}

	stmt = fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1`, locationColumns)
	loc, err := scanLocation(p.q.QueryRow(ctx, stmt, save.LocationID))
	if errors.Is(err, pgx.ErrNoRows) {
		// FK guarantees this only happens when a concurrent cascade
		// removed everything between the two reads.
		return nil, lifecycle.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting save location: %w", err)
	}

	photos, err := p.photosByLocation(ctx, loc.ID)
	if err != nil {
		return nil, err
	}

	stmt = fmt.Sprintf(`SELECT %s FROM user_saves WHERE location_id = $1 ORDER BY saved_at`, saveColumns)
	rows, err := p.q.Query(ctx, stmt, loc.ID)
	if err != nil {
		return nil, fmt.Errorf("getting sibling saves: %w", err)
	}
	defer rows.Close()

	var siblings []model.UserSave
	for rows.Next() {
		sibling, err := scanSave(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning sibling save: %w", err)
		}
		siblings = append(siblings, *sibling)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	return &model.SaveContext{Save: *save, Location: *loc, Photos: photos, Siblings: siblings}, nil
}

func (p *Postgres) GetLocation(ctx context.Context, locationID int64) (*model.Location, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1`, locationColumns)
	loc, err := scanLocation(p.q.QueryRow(ctx, stmt, locationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting location: %w", err)
	}
	return loc, nil
}

func (p *Postgres) GetLocationForUpdate(ctx context.Context, locationID int64) (*model.Location, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM locations WHERE id = $1 FOR UPDATE`, locationColumns)
	loc, err := scanLocation(p.q.QueryRow(ctx, stmt, locationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("locking location: %w", err)
	}
	return loc, nil
}

func (p *Postgres) FindOrCreateLocation(ctx context.Context, loc *model.Location) (*model.Location, error) {
	stmt := fmt.Sprintf(`
        INSERT INTO locations (place_id, name, address, street, street_number, city, state,
            zipcode, latitude, longitude, category, rating, created_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
        ON CONFLICT (place_id) DO NOTHING
        RETURNING %s`, locationColumns)
	created, err := scanLocation(p.q.QueryRow(ctx, stmt,
		loc.PlaceID, loc.Name, loc.Address, loc.Street, loc.StreetNumber, loc.City,
		loc.State, loc.Zipcode, loc.Latitude, loc.Longitude, loc.Category, loc.Rating,
		loc.CreatedBy,
	))
	if err == nil {
		return created, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return nil, fmt.Errorf("creating location: %w", err)
	}

	// Conflict: the place already exists, possibly created by another
	// user. Their row wins.
	stmt = fmt.Sprintf(`SELECT %s FROM locations WHERE place_id = $1`, locationColumns)
	existing, err := scanLocation(p.q.QueryRow(ctx, stmt, loc.PlaceID))
	if err != nil {
		return nil, fmt.Errorf("fetching existing location: %w", err)
	}
	return existing, nil
}

func (p *Postgres) CreateUserSave(ctx context.Context, save *model.UserSave) (*model.UserSave, error) {
	stmt := fmt.Sprintf(`
        INSERT INTO user_saves (user_id, location_id, is_favorite, personal_rating, tags, color, caption, visibility)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
        RETURNING %s`, saveColumns)
	created, err := scanSave(p.q.QueryRow(ctx, stmt,
		save.UserID, save.LocationID, save.IsFavorite, save.PersonalRating,
		save.Tags, save.Color, save.Caption, save.Visibility,
	))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == uniqueViolation {
			return nil, lifecycle.ErrDuplicateSave
		}
		return nil, fmt.Errorf("creating user save: %w", err)
	}
	return created, nil
}

func (p *Postgres) ListSavesForUser(ctx context.Context, userID uuid.UUID) ([]model.SaveSummary, error) {
	stmt := `
        SELECT s.id, s.location_id, l.place_id, l.name, l.address, l.latitude, l.longitude,
               s.is_favorite, s.tags, s.saved_at
        FROM user_saves s
        JOIN locations l ON l.id = s.location_id
        WHERE s.user_id = $1
        ORDER BY s.saved_at DESC`
	rows, err := p.q.Query(ctx, stmt, userID)
	if err != nil {
		return nil, fmt.Errorf("listing saves: %w", err)
	}
	defer rows.Close()

	var saves []model.SaveSummary
	for rows.Next() {
		var s model.SaveSummary
		err := rows.Scan(&s.ID, &s.LocationID, &s.PlaceID, &s.Name, &s.Address,
			&s.Latitude, &s.Longitude, &s.IsFavorite, &s.Tags, &s.SavedAt)
		if err != nil {
			return nil, fmt.Errorf("scanning save summary: %w", err)
		}
		saves = append(saves, s)
	}
	return saves, rows.Err()
}

func (p *Postgres) GetSaveForUserLocation(ctx context.Context, userID uuid.UUID, locationID int64) (*model.UserSave, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM user_saves WHERE user_id = $1 AND location_id = $2`, saveColumns)
	save, err := scanSave(p.q.QueryRow(ctx, stmt, userID, locationID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting save for user/location: %w", err)
	}
	return save, nil
}

func (p *Postgres) UpdateLocationFields(ctx context.Context, locationID int64, patch model.LocationPatch, modifier uuid.UUID) (*model.Location, error) {
	set, args := buildLocationPatch(patch, modifier)
	args = append(args, locationID)
	stmt := fmt.Sprintf(`UPDATE locations SET %s WHERE id = $%d RETURNING %s`, set, len(args), locationColumns)
	loc, err := scanLocation(p.q.QueryRow(ctx, stmt, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrLocationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating location: %w", err)
	}
	return loc, nil
}

func (p *Postgres) UpdateUserSaveFields(ctx context.Context, saveID int64, patch model.SavePatch) (*model.UserSave, error) {
	set, args := buildSavePatch(patch)
	if len(args) == 0 {
		return p.getSaveByID(ctx, saveID)
	}
	args = append(args, saveID)
	stmt := fmt.Sprintf(`UPDATE user_saves SET %s WHERE id = $%d RETURNING %s`, set, len(args), saveColumns)
	save, err := scanSave(p.q.QueryRow(ctx, stmt, args...))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrSaveNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("updating user save: %w", err)
	}
	return save, nil
}

func (p *Postgres) getSaveByID(ctx context.Context, saveID int64) (*model.UserSave, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM user_saves WHERE id = $1`, saveColumns)
	save, err := scanSave(p.q.QueryRow(ctx, stmt, saveID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrSaveNotFound
	}
	return save, err
}

func (p *Postgres) UpdatePhotoFields(ctx context.Context, photoID, locationID int64, caption *string, isPrimary *bool) error {
	// Promoting a photo demotes its siblings so the location keeps a
	// single primary.
	if isPrimary != nil && *isPrimary {
		if _, err := p.q.Exec(ctx,
			`UPDATE photos SET is_primary = FALSE WHERE location_id = $1 AND id <> $2`,
			locationID, photoID); err != nil {
			return fmt.Errorf("demoting sibling photos: %w", err)
		}
	}

	sets := make([]string, 0, 2)
	args := make([]any, 0, 4)
	if caption != nil {
		args = append(args, *caption)
		sets = append(sets, fmt.Sprintf("caption = $%d", len(args)))
	}
	if isPrimary != nil {
		args = append(args, *isPrimary)
		sets = append(sets, fmt.Sprintf("is_primary = $%d", len(args)))
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, photoID, locationID)
	stmt := fmt.Sprintf(`UPDATE photos SET %s WHERE id = $%d AND location_id = $%d`,
		strings.Join(sets, ", "), len(args)-1, len(args))
	tag, err := p.q.Exec(ctx, stmt, args...)
	if err != nil {
		return fmt.Errorf("updating photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lifecycle.ErrPhotoNotFound
	}
	return nil
}

func (p *Postgres) UpsertPhotos(ctx context.Context, locationID int64, placeID string, uploader uuid.UUID, descs []model.PhotoDescriptor) ([]model.Photo, error) {
	var existing int
	if err := p.q.QueryRow(ctx, `SELECT COUNT(*) FROM photos WHERE location_id = $1`, locationID).Scan(&existing); err != nil {
		return nil, fmt.Errorf("counting photos: %w", err)
	}

	stmt := fmt.Sprintf(`
        INSERT INTO photos (location_id, place_id, user_id, file_id, url, file_name,
            file_size, mime_type, width, height, is_primary, caption)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
        RETURNING %s`, photoColumns)

	primarySeen := false
	var photos []model.Photo
	for i, d := range descs {
		// At most one primary per batch, and primacy is only
		// auto-assigned to the first entry of the location's very
		// first photo set.
		isPrimary := d.IsPrimary && !primarySeen
		if existing == 0 && i == 0 && !batchMarksPrimary(descs) {
			isPrimary = true
		}
		if isPrimary {
			primarySeen = true
		}

		photo, err := scanPhoto(p.q.QueryRow(ctx, stmt,
			locationID, placeID, uploader, d.FileID, d.URL, d.FileName,
			d.FileSize, d.MimeType, d.Width, d.Height, isPrimary, d.Caption,
		))
		if err != nil {
			return nil, fmt.Errorf("inserting photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	return photos, nil
}

func batchMarksPrimary(descs []model.PhotoDescriptor) bool {
	for _, d := range descs {
		if d.IsPrimary {
			return true
		}
	}
	return false
}

func (p *Postgres) GetPhoto(ctx context.Context, photoID int64) (*model.Photo, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM photos WHERE id = $1`, photoColumns)
	photo, err := scanPhoto(p.q.QueryRow(ctx, stmt, photoID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, lifecycle.ErrPhotoNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("getting photo: %w", err)
	}
	return photo, nil
}

func (p *Postgres) GetPhotosByPlaceID(ctx context.Context, placeID string) ([]model.Photo, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM photos WHERE place_id = $1 ORDER BY is_primary DESC, uploaded_at`, photoColumns)
	rows, err := p.q.Query(ctx, stmt, placeID)
	if err != nil {
		return nil, fmt.Errorf("getting photos by place: %w", err)
	}
	defer rows.Close()

	var photos []model.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	return photos, rows.Err()
}

func (p *Postgres) photosByLocation(ctx context.Context, locationID int64) ([]model.Photo, error) {
	stmt := fmt.Sprintf(`SELECT %s FROM photos WHERE location_id = $1 ORDER BY is_primary DESC, uploaded_at`, photoColumns)
	rows, err := p.q.Query(ctx, stmt, locationID)
	if err != nil {
		return nil, fmt.Errorf("getting location photos: %w", err)
	}
	defer rows.Close()

	var photos []model.Photo
	for rows.Next() {
		photo, err := scanPhoto(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning photo: %w", err)
		}
		photos = append(photos, *photo)
	}
	return photos, rows.Err()
}

func (p *Postgres) DeletePhoto(ctx context.Context, photoID int64) error {
	tag, err := p.q.Exec(ctx, `DELETE FROM photos WHERE id = $1`, photoID)
	if err != nil {
		return fmt.Errorf("deleting photo: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return lifecycle.ErrPhotoNotFound
	}
	return nil
}

// DeleteSaveAtomic performs the detach-vs-cascade decision and the
// matching relational deletes in one transaction. The location row is
// locked first so two concurrent "last save" deleters serialize: the
// loser re-reads and sees the save already gone.
func (p *Postgres) DeleteSaveAtomic(ctx context.Context, saveID int64, requester uuid.UUID) (*lifecycle.DeleteOutcome, error) {
	outcome := &lifecycle.DeleteOutcome{}
	err := p.WithinTx(ctx, func(s lifecycle.Store) error {
		ps := s.(*Postgres)

		stmt := fmt.Sprintf(`SELECT %s FROM user_saves WHERE id = $1 FOR UPDATE`, saveColumns)
		save, err := scanSave(ps.q.QueryRow(ctx, stmt, saveID))
		if errors.Is(err, pgx.ErrNoRows) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("locking user save: %w", err)
		}
		if save.UserID != requester {
			return lifecycle.ErrNotPermitted
		}

		loc, err := ps.GetLocationForUpdate(ctx, save.LocationID)
		if err != nil {
			return err
		}
		outcome.Location = *loc

		var others int
		err = ps.q.QueryRow(ctx,
			`SELECT COUNT(*) FROM user_saves WHERE location_id = $1 AND id <> $2`,
			loc.ID, saveID).Scan(&others)
		if err != nil {
			return fmt.Errorf("counting sibling saves: %w", err)
		}

		if lifecycle.ShouldCascade(requester, loc.CreatedBy, others) {
			photos, err := ps.photosByLocation(ctx, loc.ID)
			if err != nil {
				return err
			}
			if _, err := ps.q.Exec(ctx, `DELETE FROM locations WHERE id = $1`, loc.ID); err != nil {
				return fmt.Errorf("cascading location delete: %w", err)
			}
			outcome.SaveDeleted = true
			outcome.Cascaded = true
			outcome.Photos = photos
			return nil
		}

		if _, err := ps.q.Exec(ctx, `DELETE FROM user_saves WHERE id = $1`, saveID); err != nil {
			return fmt.Errorf("deleting user save: %w", err)
		}
		outcome.SaveDeleted = true
		outcome.Orphaned = others == 0
		return nil
	})
	if err != nil {
		return nil, err
	}
	return outcome, nil
}

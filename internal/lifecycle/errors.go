package lifecycle

import "errors"

var (
	ErrSaveNotFound     = errors.New("user save not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrPhotoNotFound    = errors.New("photo not found")
	ErrNotPermitted     = errors.New("permission denied")
	ErrDuplicateSave    = errors.New("location already saved by this user")
)

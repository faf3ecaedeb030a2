package websockets

import "time"

const (
	EventLocationDeleted = "location_deleted"
	EventSaveRemoved     = "save_removed"
)

// Event is pushed to every connected client when the lifecycle core
// mutates shared state other savers may be displaying.
type Event struct {
	Type       string    `json:"type"`
	LocationID int64     `json:"location_id,omitempty"`
	PlaceID    string    `json:"place_id,omitempty"`
	SaveID     int64     `json:"save_id,omitempty"`
	At         time.Time `json:"at"`
}

package deps

import (
	"log"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roamark/roamark_api/config"
	"github.com/roamark/roamark_api/internal/db"
	googlemaps "github.com/roamark/roamark_api/internal/http/google"
	"github.com/roamark/roamark_api/internal/lifecycle"
	"github.com/roamark/roamark_api/internal/permission"
	"github.com/roamark/roamark_api/internal/store"
	"github.com/roamark/roamark_api/util/storage"
	"github.com/roamark/roamark_api/util/websockets"
)

type Dependencies struct {
	DB         *db.DB
	Store      *store.Postgres
	Cloudinary *storage.Cloudinary
	Gate       *permission.Gate
	Places     *googlemaps.GoogleMapsClient
	WebSocket  *websockets.WebSocketManager
	Lifecycle  *lifecycle.Manager
}

func New(cfg *config.Config) *Dependencies {
	database, err := db.New(cfg.Dsn)
	if err != nil {
		log.Panicln("failed to connect to database", "error", err)
	}

	cloudinary := storage.NewCloudinary(cfg)
	websocket := websockets.NewWebSocketManager()
	gate := permission.NewGate()
	places := googlemaps.NewGoogleMapsClient(cfg.GoogleMapsAPIKey)
	pg := store.NewPostgres(database)
	manager := lifecycle.NewManager(pg, cloudinary, gate, websocket, places)

	deps := Dependencies{
		DB:         database,
		Store:      pg,
		Cloudinary: cloudinary,
		Gate:       gate,
		Places:     places,
		WebSocket:  websocket,
		Lifecycle:  manager,
	}
	return &deps
}

func (d *Dependencies) Pool() *pgxpool.Pool {
	return d.DB.Pool()
}

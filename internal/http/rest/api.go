package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/roamark/roamark_api/config"
	deps "github.com/roamark/roamark_api/internal/debs"
	"github.com/roamark/roamark_api/internal/lifecycle"
	"github.com/roamark/roamark_api/util/values"
)

const (
	defaultIdleTimeout    = time.Minute
	defaultReadTimeout    = 5 * time.Second
	defaultWriteTimeout   = 10 * time.Second
	defaultShutdownPeriod = 30 * time.Second
)

type Handler func(w http.ResponseWriter, r *http.Request) *ServerResponse

func (h Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	resp := h(w, r)
	respByte, err := json.Marshal(resp)
	if err != nil {
		writeErrorResponse(w, err, values.Error, "unable to marshal server response")
		return
	}
	writeJSONResponse(w, respByte, resp.StatusCode)
}

type API struct {
	Server    *http.Server
	Config    *config.Config
	Deps      *deps.Dependencies
	Lifecycle *lifecycle.Manager
	DB        *pgxpool.Pool
}

func (api *API) Init() {
	api.Lifecycle = api.Deps.Lifecycle
}

func (api *API) Serve() error {
	api.Server = &http.Server{
		Addr:         fmt.Sprintf(":%d", api.Config.Port),
		IdleTimeout:  defaultIdleTimeout,
		ReadTimeout:  defaultReadTimeout,
		WriteTimeout: defaultWriteTimeout,
		Handler:      api.setUpServerHandler(),
	}
	return api.Server.ListenAndServe()
}

func (api *API) setUpServerHandler() http.Handler {
	mux := chi.NewRouter()
	mux.Use(RequestTracing)

	mux.Get("/",
		func(w http.ResponseWriter, r *http.Request) {
			w.Write([]byte("Roamark API"))
		},
	)

	mux.Mount("/saves", api.SaveRoutes())
	mux.Mount("/locations", api.LocationRoutes())
	mux.Mount("/photos", api.PhotoRoutes())
	mux.Get("/ws", api.Deps.WebSocket.HandleConnections)

	return mux
}

func (a *API) Shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), defaultShutdownPeriod)
	defer cancel()

	err := a.Server.Shutdown(ctx)
	if err != nil {
		return err
	}
	return nil
}

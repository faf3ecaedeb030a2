package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roamark/roamark_api/util"
	"github.com/roamark/roamark_api/util/tracing"
	"github.com/roamark/roamark_api/util/values"
)

func (api *API) PhotoRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeletePhoto))
	})

	return mux
}

func (api *API) DeletePhoto(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	if err := api.Lifecycle.DeletePhoto(r.Context(), user, id); err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    "Photo deleted successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
	}
}

package rest

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roamark/roamark_api/internal/model"
	"github.com/roamark/roamark_api/util"
	"github.com/roamark/roamark_api/util/tracing"
	"github.com/roamark/roamark_api/util/values"
)

func (api *API) SaveRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodPost, "/", Handler(api.CreateSave))
		r.Method(http.MethodGet, "/", Handler(api.GetAllSaves))
		r.Method(http.MethodGet, "/{id}", Handler(api.GetSave))
		r.Method(http.MethodDelete, "/{id}", Handler(api.DeleteSave))
	})

	return mux
}

func (api *API) CreateSave(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	var req model.CreateSaveRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if err := util.ValidateStruct(req); err != nil {
		return respondWithError(err, "validation failed", values.BadRequestBody, &tc)
	}

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	save, location, err := api.Lifecycle.CreateSave(r.Context(), user, req)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    "Save created successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data: map[string]interface{}{
			"save":     save,
			"location": location,
		},
	}
}

func (api *API) GetAllSaves(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	saves, err := api.Lifecycle.ListSaves(r.Context(), user)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    "Saves retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       saves,
	}
}

func (api *API) GetSave(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	sc, err := api.Lifecycle.GetSave(r.Context(), user, id)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	// Sibling saves belong to other users and stay server-side.
	return &ServerResponse{
		Message:    "Save retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"save":     sc.Save,
			"location": sc.Location,
			"photos":   sc.Photos,
		},
	}
}

func (api *API) DeleteSave(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	summary, err := api.Lifecycle.DeleteSave(r.Context(), user, id)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	message := "Save already removed"
	switch {
	case summary.Location:
		message = "Save, location and photos deleted"
	case summary.UserSave:
		message = "Save removed"
	}

	return &ServerResponse{
		Message:    message,
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data:       summary,
	}
}

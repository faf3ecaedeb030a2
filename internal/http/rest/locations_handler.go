package rest

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/roamark/roamark_api/internal/lifecycle"
	"github.com/roamark/roamark_api/internal/model"
	"github.com/roamark/roamark_api/util"
	"github.com/roamark/roamark_api/util/tracing"
	"github.com/roamark/roamark_api/util/values"
)

const maxPhotoUploadBytes = 32 << 20

func (api *API) LocationRoutes() chi.Router {
	mux := chi.NewRouter()

	mux.Route("/", func(r chi.Router) {
		r.Use(api.RequireLogin)
		r.Method(http.MethodGet, "/{id}", Handler(api.GetLocation))
		r.Method(http.MethodPatch, "/{id}", Handler(api.UpdateLocation))
		r.Method(http.MethodPost, "/{id}/photos", Handler(api.UploadPhotos))
	})

	return mux
}

func (api *API) GetLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	location, err := api.Deps.Store.GetLocation(r.Context(), id)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	photos, err := api.Deps.Store.GetPhotosByPlaceID(r.Context(), location.PlaceID)
	if err != nil {
		return respondWithError(err, "failed to get location photos", values.Error, &tc)
	}

	return &ServerResponse{
		Message:    "Location retrieved successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: model.LocationWithPhotos{
			Location: *location,
			Photos:   photos,
		},
	}
}

func (api *API) UpdateLocation(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	var req lifecycle.UpdateLocationRequest
	if decodeErr := util.DecodeJSONBody(&tc, r.Body, &req); decodeErr != nil {
		return respondWithError(decodeErr, "unable to decode request", values.BadRequestBody, &tc)
	}

	if req.Location != nil {
		if err := util.ValidateStruct(req.Location); err != nil {
			return respondWithError(err, "location validation failed", values.BadRequestBody, &tc)
		}
	}
	if req.Save != nil {
		if err := util.ValidateStruct(req.Save); err != nil {
			return respondWithError(err, "save validation failed", values.BadRequestBody, &tc)
		}
	}
	for _, pu := range req.Photos {
		if pu.ID == nil && pu.FileID == "" {
			errM := errors.New("new photo entry missing file_id")
			return respondWithError(errM, errM.Error(), values.BadRequestBody, &tc)
		}
	}

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	location, save, err := api.Lifecycle.UpdateLocation(r.Context(), user, id, req)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    "Location updated successfully",
		Status:     values.Success,
		StatusCode: util.StatusCode(values.Success),
		Data: map[string]interface{}{
			"location": location,
			"save":     save,
		},
	}
}

func (api *API) UploadPhotos(_ http.ResponseWriter, r *http.Request) *ServerResponse {
	tc := r.Context().Value(values.ContextTracingKey).(tracing.Context)

	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		return respondWithError(err, "invalid ID format", values.BadRequestBody, &tc)
	}

	user, err := api.requestUser(r)
	if err != nil {
		return respondWithError(err, "not authorized", values.NotAuthorised, &tc)
	}

	if err := r.ParseMultipartForm(maxPhotoUploadBytes); err != nil {
		return respondWithError(err, "unable to parse multipart form", values.BadRequestBody, &tc)
	}

	files := r.MultipartForm.File["photos"]
	if len(files) == 0 {
		errM := errors.New("no photos in request")
		return respondWithError(errM, errM.Error(), values.BadRequestBody, &tc)
	}

	var descs []model.PhotoDescriptor
	for _, header := range files {
		file, openErr := header.Open()
		if openErr != nil {
			return respondWithError(openErr, "unable to read uploaded file", values.BadRequestBody, &tc)
		}

		uploaded, uploadErr := api.Deps.Cloudinary.UploadImage(r.Context(), file)
		file.Close()
		if uploadErr != nil {
			return respondWithError(uploadErr, "failed to upload photo", values.Error, &tc)
		}

		descs = append(descs, model.PhotoDescriptor{
			FileID:   uploaded.FileID,
			URL:      uploaded.URL,
			FileName: header.Filename,
			FileSize: header.Size,
			MimeType: header.Header.Get("Content-Type"),
			Width:    uploaded.Width,
			Height:   uploaded.Height,
		})
	}

	photos, err := api.Lifecycle.AddPhotos(r.Context(), user, id, descs)
	if err != nil {
		status, message := lifecycleErrorStatus(err)
		return respondWithError(err, message, status, &tc)
	}

	return &ServerResponse{
		Message:    "Photos uploaded successfully",
		Status:     values.Created,
		StatusCode: util.StatusCode(values.Created),
		Data:       photos,
	}
}

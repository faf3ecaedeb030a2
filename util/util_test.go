package util

import (
	"net/http"
	"testing"

	"github.com/roamark/roamark_api/util/values"
)

func TestStatusCode(t *testing.T) {
	testCases := []struct {
		name     string
		status   string
		expected int
	}{
		{"Success", values.Success, http.StatusOK},
		{"Created", values.Created, http.StatusCreated},
		{"Error", values.Error, http.StatusInternalServerError},
		{"SystemErr", values.SystemErr, http.StatusInternalServerError},
		{"BadRequestBody", values.BadRequestBody, http.StatusBadRequest},
		{"Unprocessable", values.Unprocessable, http.StatusUnprocessableEntity},
		{"NotAllowed", values.NotAllowed, http.StatusForbidden},
		{"Conflict", values.Conflict, http.StatusConflict},
		{"NotFound", values.NotFound, http.StatusNotFound},
		{"NotAuthorised", values.NotAuthorised, http.StatusUnauthorized},
		{"TokenExpired", values.TokenExpired, http.StatusUnauthorized},
		{"Unknown", "anything-else", http.StatusOK},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := StatusCode(tc.status); got != tc.expected {
				t.Errorf("StatusCode(%q) = %d; want %d", tc.status, got, tc.expected)
			}
		})
	}
}

func TestValidateCoordinates(t *testing.T) {
	type point struct {
		Latitude  float64 `validate:"latitude"`
		Longitude float64 `validate:"longitude"`
	}

	testCases := []struct {
		name    string
		p       point
		wantErr bool
	}{
		{"Valid", point{35.1856, 33.3823}, false},
		{"ZeroZero", point{0, 0}, false},
		{"LatTooHigh", point{90.1, 0}, true},
		{"LatTooLow", point{-90.1, 0}, true},
		{"LngTooHigh", point{0, 180.1}, true},
		{"LngTooLow", point{0, -180.1}, true},
		{"Extremes", point{-90, 180}, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateStruct(tc.p)
			if (err != nil) != tc.wantErr {
				t.Errorf("ValidateStruct(%+v) error = %v; wantErr %v", tc.p, err, tc.wantErr)
			}
		})
	}
}

package location

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ride-hail-backend/internal/models"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func performRequest(h echo.HandlerFunc, method, target, body string, setup func(echo.Context)) *httptest.ResponseRecorder {
	e := echo.New()
	var reqBody *strings.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	} else {
		reqBody = strings.NewReader("")
	}
	req := httptest.NewRequest(method, target, reqBody)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if setup != nil {
		setup(c)
	}
	_ = h(c)
	return rec
}

func TestHandlerUpdateLocation(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc)

	rec := performRequest(h.UpdateLocation, http.MethodPost, "/api/location/update",
		`{"driverId":7,"lat":30.05,"lng":31.23}`, nil)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp struct {
		Message  string                `json:"message"`
		Location models.DriverLocation `json:"location"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 7, resp.Location.DriverID)
	assert.Equal(t, "Amira Hassan", resp.Location.DriverName)
}

func TestHandlerUpdateLocationRejectsBadLat(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc)

	rec := performRequest(h.UpdateLocation, http.MethodPost, "/api/location/update",
		`{"driverId":7,"lat":91,"lng":0}`, nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	// The bad value must never show up in the online snapshot.
	assert.Empty(t, svc.ListOnline())
}

func TestHandlerGetDriverLocationNotFound(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc)

	rec := performRequest(h.GetDriverLocation, http.MethodGet, "/api/location/driver/42", "",
		func(c echo.Context) {
			c.SetParamNames("driverId")
			c.SetParamValues("42")
		})

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHandlerGetNearbyDefaultsRadius(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc)

	_, err := svc.Update(context.Background(), 7, 0, 0.05, time.Now())
	require.NoError(t, err)
	_, err = svc.Update(context.Background(), 9, 1, 1, time.Now())
	require.NoError(t, err)

	rec := performRequest(h.GetNearbyDrivers, http.MethodGet, "/api/location/nearby?lat=0&lng=0", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []models.DriverLocation
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, 7, got[0].DriverID)
}

func TestHandlerGetNearbyRejectsBadParams(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc)

	for _, target := range []string{
		"/api/location/nearby?lng=0",
		"/api/location/nearby?lat=0",
		"/api/location/nearby?lat=91&lng=0",
		"/api/location/nearby?lat=0&lng=0&radiusKm=-1",
	} {
		rec := performRequest(h.GetNearbyDrivers, http.MethodGet, target, "", nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
}

func TestHandlerRemoveDriverLocation(t *testing.T) {
	svc, _, _ := newTestService(t)
	h := NewHandler(svc)

	_, err := svc.Update(context.Background(), 7, 1, 1, time.Now())
	require.NoError(t, err)

	setup := func(c echo.Context) {
		c.SetParamNames("driverId")
		c.SetParamValues("7")
	}

	rec := performRequest(h.RemoveDriverLocation, http.MethodDelete, "/api/location/driver/7", "", setup)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = performRequest(h.RemoveDriverLocation, http.MethodDelete, "/api/location/driver/7", "", setup)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

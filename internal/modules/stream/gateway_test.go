package stream

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ride-hail-backend/internal/models"
	"ride-hail-backend/internal/modules/location"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeDirectory struct {
	drivers map[int]*models.Driver
}

func (f *fakeDirectory) FindByID(_ context.Context, driverID int) (*models.Driver, error) {
	d, ok := f.drivers[driverID]
	if !ok {
		return nil, models.ErrDriverNotFound
	}
	return d, nil
}

type testEnvelope struct {
	Action string          `json:"action"`
	Data   json.RawMessage `json:"data"`
}

type testStream struct {
	server *httptest.Server
	wsURL  string
	svc    *location.Service
	hub    *Hub
}

func startTestStream(t *testing.T) *testStream {
	t.Helper()

	e := echo.New()
	hub := NewHub(e.Logger)
	dir := &fakeDirectory{drivers: map[int]*models.Driver{
		7: {ID: 7, FullName: "Amira Hassan", Status: "approved"},
		9: {ID: 9, FullName: "Omar Said", Status: "approved"},
	}}
	svc := location.NewService(location.NewRegistry(), dir, 5*time.Minute)
	svc.SetBroadcaster(hub)
	gw := NewGateway(hub, svc, e.Logger)

	e.GET("/ws/location", gw.HandleWS)
	server := httptest.NewServer(e)
	t.Cleanup(server.Close)

	return &testStream{
		server: server,
		wsURL:  "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/location",
		svc:    svc,
		hub:    hub,
	}
}

func (ts *testStream) dial(t *testing.T) *websocket.Conn {
	t.Helper()
	ws, _, err := websocket.DefaultDialer.Dial(ts.wsURL, nil)
	require.NoError(t, err)
	t.Cleanup(func() { ws.Close() })
	return ws
}

func send(t *testing.T, ws *websocket.Conn, frame interface{}) {
	t.Helper()
	require.NoError(t, ws.WriteJSON(frame))
}

func readEnvelope(t *testing.T, ws *websocket.Conn) testEnvelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env testEnvelope
	require.NoError(t, ws.ReadJSON(&env))
	return env
}

func TestGatewayPing(t *testing.T) {
	ts := startTestStream(t)
	ws := ts.dial(t)

	send(t, ws, map[string]string{"action": "Ping"})
	env := readEnvelope(t, ws)
	assert.Equal(t, EventPong, env.Action)
}

func TestGatewayConnectClientGetsSnapshot(t *testing.T) {
	ts := startTestStream(t)

	_, err := ts.svc.Update(context.Background(), 7, 30.05, 31.23, time.Now())
	require.NoError(t, err)

	ws := ts.dial(t)
	send(t, ws, map[string]string{"action": "ConnectClient"})

	env := readEnvelope(t, ws)
	require.Equal(t, EventOnlineDrivers, env.Action)

	var drivers []models.DriverLocation
	require.NoError(t, json.Unmarshal(env.Data, &drivers))
	require.Len(t, drivers, 1)
	assert.Equal(t, 7, drivers[0].DriverID)
}

func TestGatewayMalformedFrameKeepsConnectionOpen(t *testing.T) {
	ts := startTestStream(t)
	ws := ts.dial(t)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte("{not json")))
	env := readEnvelope(t, ws)
	assert.Equal(t, EventError, env.Action)

	// The protocol error must not terminate the connection or touch state.
	send(t, ws, map[string]string{"action": "Ping"})
	env = readEnvelope(t, ws)
	assert.Equal(t, EventPong, env.Action)
	assert.Empty(t, ts.svc.ListOnline())
}

func TestGatewayUnknownActionGetsError(t *testing.T) {
	ts := startTestStream(t)
	ws := ts.dial(t)

	send(t, ws, map[string]string{"action": "SelfDestruct"})
	env := readEnvelope(t, ws)
	assert.Equal(t, EventError, env.Action)
}

func TestGatewayConnectDriver(t *testing.T) {
	ts := startTestStream(t)

	observer := ts.dial(t)
	send(t, observer, map[string]string{"action": "ConnectClient"})
	require.Equal(t, EventOnlineDrivers, readEnvelope(t, observer).Action)

	driver := ts.dial(t)
	send(t, driver, map[string]interface{}{"action": "ConnectDriver", "driverId": 7})

	// The driver gets a direct reply with its bound (0,0) entry.
	env := readEnvelope(t, driver)
	require.Equal(t, EventDriverConnected, env.Action)
	var loc models.DriverLocation
	require.NoError(t, json.Unmarshal(env.Data, &loc))
	assert.Equal(t, 7, loc.DriverID)
	assert.Equal(t, "Amira Hassan", loc.DriverName)
	assert.Zero(t, loc.Lat)
	assert.Zero(t, loc.Lng)

	// Everyone else hears about the new driver.
	env = readEnvelope(t, observer)
	assert.Equal(t, EventDriverConnected, env.Action)
}

func TestGatewayConnectDriverUnknown(t *testing.T) {
	ts := startTestStream(t)
	ws := ts.dial(t)

	send(t, ws, map[string]interface{}{"action": "ConnectDriver", "driverId": 404})
	env := readEnvelope(t, ws)
	assert.Equal(t, EventDriverNotFound, env.Action)
}

func TestGatewayUpdateLocationFansOut(t *testing.T) {
	ts := startTestStream(t)

	driver := ts.dial(t)
	send(t, driver, map[string]interface{}{"action": "ConnectDriver", "driverId": 7})
	require.Equal(t, EventDriverConnected, readEnvelope(t, driver).Action)

	observer := ts.dial(t)
	send(t, observer, map[string]string{"action": "ConnectClient"})
	require.Equal(t, EventOnlineDrivers, readEnvelope(t, observer).Action)

	send(t, driver, map[string]interface{}{
		"action": "UpdateLocation", "lat": 30.05, "lng": 31.23, "timestamp": time.Now(),
	})

	env := readEnvelope(t, observer)
	require.Equal(t, EventLocationUpdate, env.Action)
	var loc models.DriverLocation
	require.NoError(t, json.Unmarshal(env.Data, &loc))
	assert.Equal(t, 7, loc.DriverID)
	assert.Equal(t, 30.05, loc.Lat)

	got, err := ts.svc.Get(7)
	require.NoError(t, err)
	assert.Equal(t, 31.23, got.Lng)
}

func TestGatewayUpdateLocationUnboundIsIgnored(t *testing.T) {
	ts := startTestStream(t)
	ws := ts.dial(t)

	send(t, ws, map[string]interface{}{"action": "UpdateLocation", "lat": 1.0, "lng": 1.0})

	// No reply for the ignored frame: the next reply is the Pong.
	send(t, ws, map[string]string{"action": "Ping"})
	env := readEnvelope(t, ws)
	assert.Equal(t, EventPong, env.Action)
	assert.Empty(t, ts.svc.ListOnline())
}

func TestGatewayUpdateLocationRejectsBadCoordinates(t *testing.T) {
	ts := startTestStream(t)

	driver := ts.dial(t)
	send(t, driver, map[string]interface{}{"action": "ConnectDriver", "driverId": 7})
	require.Equal(t, EventDriverConnected, readEnvelope(t, driver).Action)

	send(t, driver, map[string]interface{}{"action": "UpdateLocation", "lat": 91.0, "lng": 0.0})
	env := readEnvelope(t, driver)
	assert.Equal(t, EventError, env.Action)

	// The registry keeps the seeded (0,0) entry, not the rejected value.
	got, err := ts.svc.Get(7)
	require.NoError(t, err)
	assert.Zero(t, got.Lat)
}

func TestGatewayGetDriverLocation(t *testing.T) {
	ts := startTestStream(t)

	_, err := ts.svc.Update(context.Background(), 7, 30.05, 31.23, time.Now())
	require.NoError(t, err)

	ws := ts.dial(t)
	send(t, ws, map[string]interface{}{"action": "GetDriverLocation", "driverId": 7})
	env := readEnvelope(t, ws)
	require.Equal(t, EventDriverLocation, env.Action)

	send(t, ws, map[string]interface{}{"action": "GetDriverLocation", "driverId": 404})
	env = readEnvelope(t, ws)
	assert.Equal(t, EventDriverNotFound, env.Action)
}

func TestGatewayDisconnectMarksDriverOffline(t *testing.T) {
	ts := startTestStream(t)

	driver := ts.dial(t)
	send(t, driver, map[string]interface{}{"action": "ConnectDriver", "driverId": 7})
	require.Equal(t, EventDriverConnected, readEnvelope(t, driver).Action)

	observer := ts.dial(t)
	send(t, observer, map[string]string{"action": "ConnectClient"})
	require.Equal(t, EventOnlineDrivers, readEnvelope(t, observer).Action)

	driver.Close()

	env := readEnvelope(t, observer)
	require.Equal(t, EventDriverDisconnected, env.Action)

	// Offline, but the entry survives the disconnect.
	got, err := ts.svc.Get(7)
	require.NoError(t, err)
	assert.False(t, got.Online)
}

func TestGatewayObserverDisconnectIsQuiet(t *testing.T) {
	ts := startTestStream(t)

	observer := ts.dial(t)
	send(t, observer, map[string]string{"action": "ConnectClient"})
	require.Equal(t, EventOnlineDrivers, readEnvelope(t, observer).Action)

	other := ts.dial(t)
	send(t, other, map[string]string{"action": "ConnectClient"})
	require.Equal(t, EventOnlineDrivers, readEnvelope(t, other).Action)

	observer.Close()

	// No DriverDisconnected for an unbound connection: the next message the
	// remaining observer sees is its own Pong.
	send(t, other, map[string]string{"action": "Ping"})
	env := readEnvelope(t, other)
	assert.Equal(t, EventPong, env.Action)
}

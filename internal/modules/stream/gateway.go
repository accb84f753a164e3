package stream

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"ride-hail-backend/internal/models"
	"ride-hail-backend/internal/modules/location"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Origins are filtered by the CORS middleware in front of this route.
		return true
	},
}

// Gateway owns the command protocol on top of the hub: it decodes inbound
// frames, mutates the shared location service, and emits replies and
// broadcasts. Connection lifetime is handled here too — a dropped connection
// bound to a driver marks that driver offline and announces the disconnect.
type Gateway struct {
	hub *Hub
	svc location.ServiceInterface
	log echo.Logger
}

// NewGateway creates the gateway over the given hub and location service.
func NewGateway(hub *Hub, svc location.ServiceInterface, log echo.Logger) *Gateway {
	return &Gateway{hub: hub, svc: svc, log: log}
}

// HandleWS upgrades GET /ws/location to a streaming connection and runs its
// receive loop until the peer goes away.
func (g *Gateway) HandleWS(c echo.Context) error {
	sock, err := upgrader.Upgrade(c.Response(), c.Request(), nil)
	if err != nil {
		g.log.Error("stream: upgrade failed: ", err)
		return err
	}

	conn := g.hub.register(sock)
	go conn.writePump()

	g.readLoop(c.Request().Context(), conn)

	g.disconnect(conn)
	return nil
}

// readLoop blocks on the socket until it closes or errors. Each text frame is
// dispatched; malformed frames get an Error reply and the connection lives on.
func (g *Gateway) readLoop(ctx context.Context, conn *Conn) {
	for {
		msgType, raw, err := conn.sock.ReadMessage()
		if err != nil {
			return
		}
		if msgType != websocket.TextMessage {
			continue
		}
		g.dispatch(ctx, conn, raw)
	}
}

func (g *Gateway) dispatch(ctx context.Context, conn *Conn, raw []byte) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		g.hub.reply(conn, EventError, map[string]string{"message": "malformed frame"})
		return
	}

	switch frame.Action {
	case ActionConnectDriver:
		g.handleConnectDriver(ctx, conn, frame)
	case ActionConnectClient:
		g.handleConnectClient(conn)
	case ActionUpdateLocation:
		g.handleUpdateLocation(ctx, conn, frame)
	case ActionGetOnlineDrivers:
		g.hub.reply(conn, EventOnlineDrivers, g.onlineSnapshot())
	case ActionGetDriverLoc:
		g.handleGetDriverLocation(conn, frame)
	case ActionPing:
		g.hub.reply(conn, EventPong, map[string]interface{}{"time": nowUTC()})
	default:
		g.hub.reply(conn, EventError, map[string]string{"message": "unknown action"})
	}
}

// handleConnectDriver binds the connection to a driver, seeds an initial
// (0,0) entry and announces the driver to everyone.
func (g *Gateway) handleConnectDriver(ctx context.Context, conn *Conn, frame Frame) {
	if frame.DriverID <= 0 {
		g.hub.reply(conn, EventError, map[string]string{"message": "driverId required"})
		return
	}

	loc, err := g.svc.Connect(ctx, frame.DriverID)
	if err != nil {
		if errors.Is(err, models.ErrDriverNotFound) {
			g.hub.reply(conn, EventDriverNotFound, map[string]int{"driverId": frame.DriverID})
			return
		}
		g.log.Error("stream: connect driver: ", err)
		g.hub.reply(conn, EventError, map[string]string{"message": "driver lookup failed"})
		return
	}

	conn.driverID = frame.DriverID
	g.hub.reply(conn, EventDriverConnected, loc)
	g.hub.BroadcastEvent(EventDriverConnected, loc)
}

// handleConnectClient marks the connection observer-only and hands it the
// current online snapshot.
func (g *Gateway) handleConnectClient(conn *Conn) {
	conn.driverID = 0
	g.hub.reply(conn, EventOnlineDrivers, g.onlineSnapshot())
}

// handleUpdateLocation applies a position update from a driver-bound
// connection. Frames from unbound connections are silently ignored.
func (g *Gateway) handleUpdateLocation(ctx context.Context, conn *Conn, frame Frame) {
	if conn.driverID == 0 {
		return
	}

	// The service broadcasts the LocationUpdate event itself, so both
	// ingress paths announce changes the same way.
	if _, err := g.svc.Update(ctx, conn.driverID, frame.Lat, frame.Lng, frame.Timestamp); err != nil {
		if errors.Is(err, models.ErrInvalidCoordinates) {
			g.hub.reply(conn, EventError, map[string]string{"message": err.Error()})
			return
		}
		g.log.Error("stream: update location: ", err)
		g.hub.reply(conn, EventError, map[string]string{"message": "location update failed"})
	}
}

func (g *Gateway) handleGetDriverLocation(conn *Conn, frame Frame) {
	loc, err := g.svc.Get(frame.DriverID)
	if err != nil {
		g.hub.reply(conn, EventDriverNotFound, map[string]int{"driverId": frame.DriverID})
		return
	}
	g.hub.reply(conn, EventDriverLocation, loc)
}

// disconnect runs once the receive loop ends, whatever the reason. A bound
// driver is marked offline — not removed, its last position stays queryable —
// and remaining connections hear about it.
func (g *Gateway) disconnect(conn *Conn) {
	g.hub.unregister(conn)

	if conn.driverID == 0 {
		return
	}
	if loc, ok := g.svc.MarkOffline(conn.driverID); ok {
		g.hub.BroadcastEvent(EventDriverDisconnected, loc)
	}
}

func (g *Gateway) onlineSnapshot() []models.DriverLocation {
	online := g.svc.ListOnline()
	if online == nil {
		online = []models.DriverLocation{}
	}
	return online
}

package stream

import (
	"encoding/json"
	"time"
)

// Inbound actions a client may send over the streaming connection.
const (
	ActionConnectDriver    = "ConnectDriver"
	ActionConnectClient    = "ConnectClient"
	ActionUpdateLocation   = "UpdateLocation"
	ActionGetOnlineDrivers = "GetOnlineDrivers"
	ActionGetDriverLoc     = "GetDriverLocation"
	ActionPing             = "Ping"
)

// Outbound actions, sent as replies to a single caller or broadcast to every
// open connection.
const (
	EventDriverConnected    = "DriverConnected"
	EventDriverDisconnected = "DriverDisconnected"
	EventDriverRemoved      = "DriverRemoved"
	EventLocationUpdate     = "LocationUpdate"
	EventOnlineDrivers      = "OnlineDrivers"
	EventDriverLocation     = "DriverLocation"
	EventDriverNotFound     = "DriverNotFound"
	EventPong               = "Pong"
	EventError              = "Error"
)

// Frame is an inbound protocol message. The action field discriminates; the
// remaining fields are populated per action.
type Frame struct {
	Action    string    `json:"action"`
	DriverID  int       `json:"driverId,omitempty"`
	Lat       float64   `json:"lat,omitempty"`
	Lng       float64   `json:"lng,omitempty"`
	Timestamp time.Time `json:"timestamp,omitzero"`
}

// Envelope is the shape of every outbound message.
type Envelope struct {
	Action string      `json:"action"`
	Data   interface{} `json:"data,omitempty"`
}

func marshalEnvelope(action string, data interface{}) ([]byte, error) {
	return json.Marshal(Envelope{Action: action, Data: data})
}

func nowUTC() time.Time { return time.Now().UTC() }

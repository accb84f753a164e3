package models

import (
	"database/sql"
	"time"
)

// Order status values. The inconsistent casing ("approve", "Arrived",
// "Complete") is what legacy producers write and what mobile clients match on,
// so it is preserved verbatim rather than normalized.
const (
	OrderStatusPending   = "pending"
	OrderStatusApproved  = "approve"
	OrderStatusCancelled = "cancelled"
	OrderStatusArrived   = "Arrived"
	OrderStatusComplete  = "Complete"
)

// Order represents a ride or delivery order.
type Order struct {
	ID            int            `json:"id"`
	UserID        string         `json:"user_id"`
	Date          time.Time      `json:"date"`
	From          string         `json:"from"`
	To            string         `json:"to"`
	FromLat       float64        `json:"from_lat"`
	FromLng       float64        `json:"from_lng"`
	ToLat         float64        `json:"to_lat"`
	ToLng         float64        `json:"to_lng"`
	ExpectedPrice float64        `json:"expected_price"`
	Type          string         `json:"type"` // ride | delivery
	Distance      float64        `json:"distance"`
	Notes         sql.NullString `json:"notes,omitempty"`
	NoPassengers  int            `json:"no_passengers"`
	UserName      sql.NullString `json:"user_name,omitempty"`
	UserPhone     sql.NullString `json:"user_phone,omitempty"`
	Status        string         `json:"status"`
	DriverID      sql.NullInt64  `json:"driver_id,omitempty"`
	PaymentWay    sql.NullString `json:"payment_way,omitempty"`
	CarType       string         `json:"car_type"`
	PinkMode      bool           `json:"pink_mode"`
}

// CreateOrderRequest is the body for creating a new order. New orders always
// start in the pending status.
type CreateOrderRequest struct {
	From          string  `json:"from" validate:"required"`
	To            string  `json:"to" validate:"required"`
	FromLat       float64 `json:"from_lat" validate:"min=-90,max=90"`
	FromLng       float64 `json:"from_lng" validate:"min=-180,max=180"`
	ToLat         float64 `json:"to_lat" validate:"min=-90,max=90"`
	ToLng         float64 `json:"to_lng" validate:"min=-180,max=180"`
	ExpectedPrice float64 `json:"expected_price" validate:"gte=0"`
	Type          string  `json:"type" validate:"required,oneof=ride delivery"`
	Distance      float64 `json:"distance" validate:"gte=0"`
	Notes         string  `json:"notes,omitempty"`
	NoPassengers  int     `json:"no_passengers" validate:"gte=0"`
	PaymentWay    string  `json:"payment_way,omitempty"`
	CarType       string  `json:"car_type" validate:"required"`
	PinkMode      bool    `json:"pink_mode"`
}

// AssignDriverRequest is the body for attaching a driver to an order.
type AssignDriverRequest struct {
	OrderID  int `json:"order_id" validate:"required,gt=0"`
	DriverID int `json:"driver_id" validate:"required,gt=0"`
}

// ExpiredOrder is what the cancel sweep gets back for each pending order it
// claimed: enough to notify the customer that the order timed out.
type ExpiredOrder struct {
	ID        int
	UserID    string
	UserEmail string
	UserName  string
}

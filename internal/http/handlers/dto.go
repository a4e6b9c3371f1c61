package handlers

import (
	"time"
)

type userResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Phone string `json:"phone,omitempty"`
}

type productResponse struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type orderResponse struct {
	ID              string            `json:"order_id"`
	Status          string            `json:"status"`
	ProofOfDelivery *string           `json:"proof_of_delivery,omitempty"`
	User            userResponse      `json:"user"`
	DeliveryAddress string            `json:"delivery_address"`
	Products        []productResponse `json:"order_products"`
	ShippingCharges float64           `json:"shipping_charges"`
	PaymentInfo     string            `json:"payment_info"`
	TotalPrice      float64           `json:"total_price"`
}

type sessionResponse struct {
	ID        string          `json:"session_id"`
	RiderID   string          `json:"rider_id"`
	TruckID   string          `json:"truck_id"`
	Status    string          `json:"status"`
	Orders    []orderResponse `json:"orders"`
	StartTime *time.Time      `json:"start_time,omitempty"`
	EndTime   *time.Time      `json:"end_time,omitempty"`
}

type sessionListResponse struct {
	Sessions []sessionResponse `json:"sessions"`
}

type stopResponse struct {
	User    userResponse    `json:"user"`
	Address string          `json:"delivery_address"`
	Done    bool            `json:"done"`
	Orders  []orderResponse `json:"orders"`
}

type stopListResponse struct {
	Stops []stopResponse `json:"stops"`
}

type submitProofRequest struct {
	OrderIDs []string `json:"order_ids"`
	ProofURL string   `json:"proof_url"`
}

type uploadProofResponse struct {
	ProofURL string `json:"proof_url"`
}

type positionRequest struct {
	Lat       float64    `json:"lat"`
	Lng       float64    `json:"lng"`
	AccuracyM float64    `json:"accuracy_m"`
	SampledAt *time.Time `json:"sampled_at"`
}

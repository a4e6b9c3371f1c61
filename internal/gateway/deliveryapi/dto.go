package deliveryapi

import (
	"time"

	"rider-delivery-agent/internal/domain"
)

type sessionDoc struct {
	ID        string     `json:"session_id"`
	RiderID   string     `json:"rider_id"`
	TruckID   string     `json:"truck_id"`
	Status    string     `json:"status"`
	Orders    []orderDoc `json:"orders"`
	StartTime *time.Time `json:"start_time,omitempty"`
	EndTime   *time.Time `json:"end_time,omitempty"`
}

type orderDoc struct {
	ID              string       `json:"order_id"`
	Status          string       `json:"status"`
	ProofOfDelivery *string      `json:"proof_of_delivery,omitempty"`
	User            userDoc      `json:"user"`
	DeliveryAddress string       `json:"delivery_address"`
	Products        []productDoc `json:"order_products"`
	ShippingCharges float64      `json:"shipping_charges"`
	PaymentInfo     string       `json:"payment_info"`
	TotalPrice      float64      `json:"total_price"`
}

type userDoc struct {
	ID    string `json:"user_id"`
	Name  string `json:"name"`
	Phone string `json:"phone"`
}

type productDoc struct {
	Name     string  `json:"name"`
	Quantity int     `json:"quantity"`
	Price    float64 `json:"price"`
}

type sessionsResponse struct {
	Sessions []sessionDoc `json:"sessions"`
}

type sessionResponse struct {
	Session sessionDoc `json:"session"`
}

type orderResponse struct {
	Order orderDoc `json:"order"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type declineRequest struct {
	RiderID string `json:"rider_id"`
	TruckID string `json:"truck_id"`
}

type proofRequest struct {
	OrderIDs        []string `json:"order_ids"`
	ProofOfDelivery string   `json:"proof_of_delivery"`
}

func mapSession(d sessionDoc) domain.Session {
	s := domain.Session{
		ID:        d.ID,
		RiderID:   d.RiderID,
		TruckID:   d.TruckID,
		Status:    domain.SessionStatus(d.Status),
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
	}
	if len(d.Orders) > 0 {
		s.Orders = make([]domain.Order, 0, len(d.Orders))
		for _, o := range d.Orders {
			s.Orders = append(s.Orders, mapOrder(o))
		}
	}
	return s
}

func mapOrder(d orderDoc) domain.Order {
	o := domain.Order{
		ID:              d.ID,
		Status:          d.Status,
		ProofOfDelivery: d.ProofOfDelivery,
		User:            domain.UserInfo{ID: d.User.ID, Name: d.User.Name, Phone: d.User.Phone},
		DeliveryAddress: d.DeliveryAddress,
		ShippingCharges: d.ShippingCharges,
		PaymentInfo:     d.PaymentInfo,
		TotalPrice:      d.TotalPrice,
	}
	if len(d.Products) > 0 {
		o.Products = make([]domain.OrderProduct, 0, len(d.Products))
		for _, p := range d.Products {
			o.Products = append(o.Products, domain.OrderProduct{Name: p.Name, Quantity: p.Quantity, Price: p.Price})
		}
	}
	return o
}

func mapSessions(docs []sessionDoc) []domain.Session {
	sessions := make([]domain.Session, 0, len(docs))
	for _, d := range docs {
		sessions = append(sessions, mapSession(d))
	}
	return sessions
}

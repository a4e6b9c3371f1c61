package domain

// OrderCancelled is the one order status literal the client acts on.
// Everything else in Order.Status is free-form server text.
const OrderCancelled = "Cancelled"

// Order is a single order embedded in a delivery session. The display and
// billing fields are opaque to the state machine.
type Order struct {
	ID              string
	Status          string
	ProofOfDelivery *string
	User            UserInfo
	DeliveryAddress string
	Products        []OrderProduct
	ShippingCharges float64
	PaymentInfo     string
	TotalPrice      float64
}

// UserInfo is the recipient as embedded in an order.
type UserInfo struct {
	ID    string
	Name  string
	Phone string
}

// OrderProduct is one line item of an order.
type OrderProduct struct {
	Name     string
	Quantity int
	Price    float64
}

// Delivered reports whether proof of delivery has been recorded.
func (o Order) Delivered() bool { return o.ProofOfDelivery != nil }

// Cancelled reports whether the server marked the order cancelled.
func (o Order) Cancelled() bool { return o.Status == OrderCancelled }

// Terminal reports whether the order reached either terminal state.
// Delivered and cancelled are mutually exclusive; once either is set the
// order accepts no further commands.
func (o Order) Terminal() bool { return o.Delivered() || o.Cancelled() }

// Consistent reports that the terminal-state invariant holds: an order is
// never both delivered and cancelled.
func (o Order) Consistent() bool { return !(o.Delivered() && o.Cancelled()) }

// Clone returns a deep copy of the order.
func (o Order) Clone() Order {
	out := o
	if o.ProofOfDelivery != nil {
		url := *o.ProofOfDelivery
		out.ProofOfDelivery = &url
	}
	if o.Products != nil {
		out.Products = append([]OrderProduct(nil), o.Products...)
	}
	return out
}

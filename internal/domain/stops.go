package domain

// Stop groups the orders of a session that go to the same recipient at the
// same address: one doorbell ring, possibly several orders.
type Stop struct {
	User    UserInfo
	Address string
	Orders  []Order
}

// Done reports whether every order of the stop reached a terminal state.
func (s Stop) Done() bool {
	for _, o := range s.Orders {
		if !o.Terminal() {
			return false
		}
	}
	return true
}

// GroupStops partitions a session's orders by recipient and delivery
// address, preserving first-seen order.
func GroupStops(s Session) []Stop {
	type key struct {
		user    string
		address string
	}
	idx := make(map[key]int)
	var stops []Stop
	for _, o := range s.Orders {
		k := key{user: o.User.ID, address: o.DeliveryAddress}
		i, ok := idx[k]
		if !ok {
			i = len(stops)
			idx[k] = i
			stops = append(stops, Stop{User: o.User, Address: o.DeliveryAddress})
		}
		stops[i].Orders = append(stops[i].Orders, o.Clone())
	}
	return stops
}

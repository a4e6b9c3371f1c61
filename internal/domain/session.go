package domain

import "time"

// Session represents one rider's assignment to deliver a batch of orders
// using a single truck. Every field is owned by the delivery server; the
// client mirrors returned documents verbatim and never synthesizes them.
type Session struct {
	ID        string
	RiderID   string
	TruckID   string
	Status    SessionStatus
	Orders    []Order
	StartTime *time.Time
	EndTime   *time.Time
}

// Order returns a pointer to the order with the given id, or nil.
func (s *Session) Order(id string) *Order {
	for i := range s.Orders {
		if s.Orders[i].ID == id {
			return &s.Orders[i]
		}
	}
	return nil
}

// Clone returns a deep copy of the session.
func (s Session) Clone() Session {
	out := s
	out.StartTime = cloneTime(s.StartTime)
	out.EndTime = cloneTime(s.EndTime)
	if s.Orders != nil {
		out.Orders = make([]Order, len(s.Orders))
		for i, o := range s.Orders {
			out.Orders[i] = o.Clone()
		}
	}
	return out
}

// CloneSessions deep-copies a session list.
func CloneSessions(in []Session) []Session {
	if in == nil {
		return nil
	}
	out := make([]Session, len(in))
	for i, s := range in {
		out[i] = s.Clone()
	}
	return out
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	cp := *t
	return &cp
}

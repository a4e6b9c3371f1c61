package handlers

import "rider-delivery-agent/internal/domain"

func orderToResponse(o domain.Order) orderResponse {
	products := make([]productResponse, len(o.Products))
	for i, p := range o.Products {
		products[i] = productResponse{Name: p.Name, Quantity: p.Quantity, Price: p.Price}
	}
	return orderResponse{
		ID:              o.ID,
		Status:          o.Status,
		ProofOfDelivery: o.ProofOfDelivery,
		User: userResponse{
			ID:    o.User.ID,
			Name:  o.User.Name,
			Phone: o.User.Phone,
		},
		DeliveryAddress: o.DeliveryAddress,
		Products:        products,
		ShippingCharges: o.ShippingCharges,
		PaymentInfo:     o.PaymentInfo,
		TotalPrice:      o.TotalPrice,
	}
}

func sessionToResponse(s domain.Session) sessionResponse {
	orders := make([]orderResponse, len(s.Orders))
	for i, o := range s.Orders {
		orders[i] = orderToResponse(o)
	}
	return sessionResponse{
		ID:        s.ID,
		RiderID:   s.RiderID,
		TruckID:   s.TruckID,
		Status:    string(s.Status),
		Orders:    orders,
		StartTime: s.StartTime,
		EndTime:   s.EndTime,
	}
}

func sessionsToResponse(list []domain.Session) sessionListResponse {
	out := sessionListResponse{Sessions: make([]sessionResponse, len(list))}
	for i, s := range list {
		out.Sessions[i] = sessionToResponse(s)
	}
	return out
}

func stopsToResponse(list []domain.Stop) stopListResponse {
	out := stopListResponse{Stops: make([]stopResponse, len(list))}
	for i, st := range list {
		orders := make([]orderResponse, len(st.Orders))
		for j, o := range st.Orders {
			orders[j] = orderToResponse(o)
		}
		out.Stops[i] = stopResponse{
			User: userResponse{
				ID:    st.User.ID,
				Name:  st.User.Name,
				Phone: st.User.Phone,
			},
			Address: st.Address,
			Done:    st.Done(),
			Orders:  orders,
		}
	}
	return out
}

package dto

import "courier-route-service/internal/domain"

type DeliveryPointRequest struct {
	PickupNodeID     string `json:"pickup_node_id"`
	DeliveryNodeID   string `json:"delivery_node_id"`
	PickupDuration   int    `json:"pickup_duration"`
	DeliveryDuration int    `json:"delivery_duration"`
}

type TSPRequest struct {
	WarehouseNodeID string                 `json:"warehouse_node_id"`
	CouriersNumber  int                    `json:"couriers_number"`
	Points          []DeliveryPointRequest `json:"points"`
	PlanFile        string                 `json:"plan_file"`
	DepartureTime   string                 `json:"departure_time,omitempty"` // H:M:S, sets stop arrival times
}

func (r TSPRequest) ToDomain() domain.DeliveryRequest {
	out := domain.DeliveryRequest{
		WarehouseNodeID: r.WarehouseNodeID,
		CouriersNumber:  r.CouriersNumber,
		PlanFile:        r.PlanFile,
		DepartureTime:   r.DepartureTime,
		Points:          make([]domain.DeliveryPoint, 0, len(r.Points)),
	}
	for _, p := range r.Points {
		out.Points = append(out.Points, domain.DeliveryPoint{
			PickupNodeID:     p.PickupNodeID,
			DeliveryNodeID:   p.DeliveryNodeID,
			PickupDuration:   p.PickupDuration,
			DeliveryDuration: p.DeliveryDuration,
		})
	}
	return out
}

type RouteSegmentResponse struct {
	OriginID      string  `json:"origin_id"`
	DestinationID string  `json:"destination_id"`
	Length        float64 `json:"length"`
	StreetName    string  `json:"street_name"`
}

type RouteStopResponse struct {
	NodeID            string  `json:"node_id"`
	Kind              string  `json:"kind"`
	PointIndex        int     `json:"point_index"`
	LegLength         float64 `json:"leg_length"`
	CumulativeLength  float64 `json:"cumulative_length"`
	TravelSeconds     float64 `json:"travel_s"`
	ServiceSeconds    int     `json:"service_s"`
	ArrivalSeconds    float64 `json:"arrival_s"`
	CumulativeSeconds float64 `json:"cumulative_s"`
	ArrivalTime       string  `json:"arrival_time,omitempty"`
}

type CourierRouteResponse struct {
	CourierID   int                    `json:"courier_id"`
	Route       []RouteSegmentResponse `json:"route"`
	Stops       []RouteStopResponse    `json:"stops"`
	TotalLength float64                `json:"total_length"`
}

func FromCourierRoutes(routes []domain.CourierRoute) []CourierRouteResponse {
	res := make([]CourierRouteResponse, 0, len(routes))
	for _, cr := range routes {
		segs := make([]RouteSegmentResponse, 0, len(cr.Route))
		for _, s := range cr.Route {
			segs = append(segs, RouteSegmentResponse{
				OriginID:      s.OriginID,
				DestinationID: s.DestinationID,
				Length:        s.Length,
				StreetName:    s.StreetName,
			})
		}
		stops := make([]RouteStopResponse, 0, len(cr.Stops))
		for _, st := range cr.Stops {
			stops = append(stops, RouteStopResponse{
				NodeID:            st.NodeID,
				Kind:              string(st.Kind),
				PointIndex:        st.PointIndex,
				LegLength:         st.LegLength,
				CumulativeLength:  st.CumulativeLength,
				TravelSeconds:     st.TravelSeconds,
				ServiceSeconds:    st.ServiceSeconds,
				ArrivalSeconds:    st.ArrivalSeconds,
				CumulativeSeconds: st.CumulativeSeconds,
				ArrivalTime:       st.ArrivalTime,
			})
		}
		res = append(res, CourierRouteResponse{
			CourierID:   cr.CourierID,
			Route:       segs,
			Stops:       stops,
			TotalLength: cr.TotalLength,
		})
	}
	return res
}

// FromDeliveryRequest renders a parsed request XML file as a /get_tsp body.
func FromDeliveryRequest(req domain.DeliveryRequest) TSPRequest {
	points := make([]DeliveryPointRequest, 0, len(req.Points))
	for _, p := range req.Points {
		points = append(points, DeliveryPointRequest{
			PickupNodeID:     p.PickupNodeID,
			DeliveryNodeID:   p.DeliveryNodeID,
			PickupDuration:   p.PickupDuration,
			DeliveryDuration: p.DeliveryDuration,
		})
	}
	return TSPRequest{
		WarehouseNodeID: req.WarehouseNodeID,
		CouriersNumber:  req.CouriersNumber,
		Points:          points,
		PlanFile:        req.PlanFile,
		DepartureTime:   req.DepartureTime,
	}
}

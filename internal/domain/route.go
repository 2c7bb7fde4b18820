package domain

// One traversed street segment of a courier itinerary.
type RouteSegment struct {
	OriginID      string
	DestinationID string
	Length        float64
	StreetName    string
}

// Role of a visited node in a courier itinerary.
type StopKind string

const (
	StopWarehouse StopKind = "warehouse"
	StopPickup    StopKind = "pickup"
	StopDelivery  StopKind = "delivery"
)

// RouteStop is one visited warehouse, pickup or delivery node.
//
// Lengths come from the shortest path since the previous stop. Times are in
// seconds from the warehouse departure: ArrivalSeconds when the courier
// reaches the node and CumulativeSeconds once its service is done.
// ArrivalTime is the wall-clock arrival, set only when the request carries a
// departure time.
type RouteStop struct {
	NodeID            string
	Kind              StopKind
	PointIndex        int // index of the served request point, -1 for the warehouse
	LegLength         float64
	CumulativeLength  float64
	TravelSeconds     float64
	ServiceSeconds    int
	ArrivalSeconds    float64
	CumulativeSeconds float64
	ArrivalTime       string
}

// Represents the planned itinerary of a single courier.
// Route lists every traversed edge in order, from the warehouse back to the warehouse.
// TotalLength is the in-order sum of the segment lengths.
// Stops is the timeline of the key nodes visited along Route.
// Couriers without assignments have an empty Route, no Stops and a zero TotalLength.
type CourierRoute struct {
	CourierID   int
	Route       []RouteSegment
	Stops       []RouteStop
	TotalLength float64
}

package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
)

// DefaultPlanFile is the road network used when a request does not name one.
const DefaultPlanFile = "grandPlan.xml"

// A pickup-and-delivery pair served by a single courier.
// Durations are service times in seconds. They feed the stop timeline and are
// never consulted by the cost model.
type DeliveryPoint struct {
	PickupNodeID     string
	DeliveryNodeID   string
	PickupDuration   int
	DeliveryDuration int
}

// Input of a routing run: the warehouse every courier starts from and returns to,
// the fleet size and the ordered pickup-and-delivery pairs to assign.
type DeliveryRequest struct {
	WarehouseNodeID string
	CouriersNumber  int
	Points          []DeliveryPoint
	PlanFile        string
	DepartureTime   string
}

// KeyNodes returns the warehouse followed by every pickup and delivery node,
// deduplicated in first-seen order.
func (r DeliveryRequest) KeyNodes() []string {
	seen := make(map[string]struct{}, 1+2*len(r.Points))
	out := make([]string, 0, 1+2*len(r.Points))

	add := func(id string) {
		if _, ok := seen[id]; ok {
			return
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}

	add(r.WarehouseNodeID)
	for _, p := range r.Points {
		add(p.PickupNodeID)
		add(p.DeliveryNodeID)
	}

	return out
}

// XMLFileName appends the .xml extension plan and request names may omit.
func XMLFileName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || strings.HasSuffix(name, ".xml") {
		return name
	}
	return name + ".xml"
}

// Fingerprint identifies a normalized request: plan, warehouse, fleet size,
// departure time and the ordered pickup/delivery pairs with their durations.
// At a given courier speed, equal fingerprints yield equal routes and timelines.
func (r DeliveryRequest) Fingerprint() string {
	type pair struct {
		P  string `json:"p"`
		D  string `json:"d"`
		PS int    `json:"ps"`
		DS int    `json:"ds"`
	}
	fp := struct {
		Plan      string `json:"plan"`
		Warehouse string `json:"w"`
		Couriers  int    `json:"n"`
		Departure string `json:"dep"`
		Points    []pair `json:"pts"`
	}{
		Plan:      r.PlanFile,
		Warehouse: r.WarehouseNodeID,
		Couriers:  r.CouriersNumber,
		Departure: r.DepartureTime,
		Points:    make([]pair, len(r.Points)),
	}
	for i, p := range r.Points {
		fp.Points[i] = pair{P: p.PickupNodeID, D: p.DeliveryNodeID, PS: p.PickupDuration, DS: p.DeliveryDuration}
	}

	data, _ := json.Marshal(fp)
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeyNodesDedupFirstSeen(t *testing.T) {
	req := DeliveryRequest{
		WarehouseNodeID: "W",
		Points: []DeliveryPoint{
			{PickupNodeID: "A", DeliveryNodeID: "B"},
			{PickupNodeID: "B", DeliveryNodeID: "W"},
			{PickupNodeID: "C", DeliveryNodeID: "A"},
		},
	}
	assert.Equal(t, []string{"W", "A", "B", "C"}, req.KeyNodes())
}

func TestXMLFileName(t *testing.T) {
	assert.Equal(t, "grandPlan.xml", XMLFileName("grandPlan"))
	assert.Equal(t, "grandPlan.xml", XMLFileName(" grandPlan.xml "))
	assert.Equal(t, "", XMLFileName("  "))
}

func TestFingerprint(t *testing.T) {
	req := DeliveryRequest{
		WarehouseNodeID: "W",
		CouriersNumber:  2,
		PlanFile:        "smallPlan.xml",
		Points:          []DeliveryPoint{{PickupNodeID: "A", DeliveryNodeID: "B", PickupDuration: 60}},
	}
	assert.Len(t, req.Fingerprint(), 64)

	assert.Equal(t, req.Fingerprint(), req.Fingerprint())

	durations := req
	durations.Points = []DeliveryPoint{{PickupNodeID: "A", DeliveryNodeID: "B", PickupDuration: 300}}
	assert.NotEqual(t, req.Fingerprint(), durations.Fingerprint())

	departure := req
	departure.DepartureTime = "8:0:0"
	assert.NotEqual(t, req.Fingerprint(), departure.Fingerprint())

	fleet := req
	fleet.CouriersNumber = 3
	assert.NotEqual(t, req.Fingerprint(), fleet.Fingerprint())

	swapped := req
	swapped.Points = []DeliveryPoint{{PickupNodeID: "B", DeliveryNodeID: "A"}}
	assert.NotEqual(t, req.Fingerprint(), swapped.Fingerprint())

	plan := req
	plan.PlanFile = "grandPlan.xml"
	assert.NotEqual(t, req.Fingerprint(), plan.Fingerprint())
}

func TestParseErrorMessage(t *testing.T) {
	err := &ParseError{Element: "troncon", Index: 12, Attr: "longueur", Value: "-3", Err: errors.New("must be >= 0")}
	assert.Equal(t, `troncon[12]: attribute "longueur" = "-3": must be >= 0`, err.Error())

	doc := &ParseError{Element: "document", Index: -1, Err: errors.New("unexpected EOF")}
	assert.Equal(t, "document: unexpected EOF", doc.Error())
}

func TestStatusOf(t *testing.T) {
	wrap := func(err error) error { return fmt.Errorf("plan courier routes: %w", err) }

	assert.Equal(t, RunStatusOK, StatusOf(nil))
	assert.Equal(t, RunStatusInvalid, StatusOf(wrap(&ValidationError{Field: "x", Reason: "y"})))
	assert.Equal(t, RunStatusGraphError, StatusOf(wrap(&GraphLoadError{Name: "p.xml", Err: ErrGraphNotFound})))
	assert.Equal(t, RunStatusInfeasible, StatusOf(wrap(&AssignmentInfeasibleError{})))
	assert.Equal(t, RunStatusFault, StatusOf(wrap(&InternalConsistencyError{From: "a", To: "b"})))
	assert.Equal(t, RunStatusFault, StatusOf(errors.New("boom")))
}

func TestGraphLoadErrorUnwraps(t *testing.T) {
	pe := &ParseError{Element: "noeud", Index: 0, Attr: "id", Err: errors.New("missing required attribute")}
	err := fmt.Errorf("outer: %w", &GraphLoadError{Name: "bad.xml", Err: pe})

	var got *ParseError
	assert.True(t, errors.As(err, &got))
	assert.NotErrorIs(t, err, ErrGraphNotFound)
}

// Package planxml parses the XML documents exchanged with the routing service:
// road network plans (noeud / troncon elements) and delivery requests
// (entrepot / livraison elements).
package planxml

import (
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

const (
	elemNode     = "noeud"
	elemSegment  = "troncon"
	elemDepot    = "entrepot"
	elemDelivery = "livraison"
)

var errMissingAttr = errors.New("missing required attribute")

// ParsePlan reads a plan document into a Graph named name.
//
// Nodes and segments may appear in any order: segments are added once every
// node is known. Elements other than noeud and troncon are ignored, whatever
// their nesting.
func ParsePlan(name string, r io.Reader) (*graph.Graph, error) {
	g := graph.New(name)
	nodeIdx, segIdx := 0, 0

	type pendingSegment struct {
		idx int
		seg graph.Segment
	}
	var segments []pendingSegment

	err := walk(r, func(se xml.StartElement) error {
		switch se.Name.Local {
		case elemNode:
			a := attrs{elem: elemNode, idx: nodeIdx, se: se}
			nodeIdx++

			id, err := a.str("id")
			if err != nil {
				return err
			}
			lat, err := a.float("latitude")
			if err != nil {
				return err
			}
			lon, err := a.float("longitude")
			if err != nil {
				return err
			}
			g.AddNode(graph.Node{ID: id, Position: domain.Coordinates{Lat: lat, Lon: lon}})

		case elemSegment:
			a := attrs{elem: elemSegment, idx: segIdx, se: se}
			segIdx++

			origin, err := a.str("origine")
			if err != nil {
				return err
			}
			dest, err := a.str("destination")
			if err != nil {
				return err
			}
			length, err := a.float("longueur")
			if err != nil {
				return err
			}
			street, _ := a.optional("nomRue")

			segments = append(segments, pendingSegment{
				idx: a.idx,
				seg: graph.Segment{Origin: origin, Destination: dest, Length: length, StreetName: street},
			})
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, ps := range segments {
		if err := g.AddSegment(ps.seg); err != nil {
			return nil, &domain.ParseError{Element: elemSegment, Index: ps.idx, Err: err}
		}
	}

	return g, nil
}

// ParseRequest reads a delivery request document. The document carries neither
// a courier count nor a plan name, so the result uses one courier and the
// default plan.
func ParseRequest(r io.Reader) (domain.DeliveryRequest, error) {
	req := domain.DeliveryRequest{CouriersNumber: 1, PlanFile: domain.DefaultPlanFile}
	depots, deliveries := 0, 0

	err := walk(r, func(se xml.StartElement) error {
		switch se.Name.Local {
		case elemDepot:
			a := attrs{elem: elemDepot, idx: depots, se: se}
			depots++
			if depots > 1 {
				return &domain.ParseError{Element: elemDepot, Index: a.idx, Err: errors.New("duplicate warehouse")}
			}

			addr, err := a.str("adresse")
			if err != nil {
				return err
			}
			req.WarehouseNodeID = addr
			req.DepartureTime, _ = a.optional("heureDepart")

		case elemDelivery:
			a := attrs{elem: elemDelivery, idx: deliveries, se: se}
			deliveries++

			pickup, err := a.str("adresseEnlevement")
			if err != nil {
				return err
			}
			delivery, err := a.str("adresseLivraison")
			if err != nil {
				return err
			}
			pd, err := a.duration("dureeEnlevement")
			if err != nil {
				return err
			}
			dd, err := a.duration("dureeLivraison")
			if err != nil {
				return err
			}
			req.Points = append(req.Points, domain.DeliveryPoint{
				PickupNodeID:     pickup,
				DeliveryNodeID:   delivery,
				PickupDuration:   pd,
				DeliveryDuration: dd,
			})
		}
		return nil
	})
	if err != nil {
		return domain.DeliveryRequest{}, err
	}

	if depots == 0 {
		return domain.DeliveryRequest{}, &domain.ParseError{Element: elemDepot, Index: -1, Err: errors.New("missing warehouse element")}
	}

	return req, nil
}

func walk(r io.Reader, visit func(xml.StartElement) error) error {
	dec := xml.NewDecoder(r)
	for {
		tok, err := dec.Token()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return &domain.ParseError{Element: "document", Index: -1, Err: err}
		}

		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if err := visit(se); err != nil {
			return err
		}
	}
}

type attrs struct {
	elem string
	idx  int
	se   xml.StartElement
}

func (a attrs) optional(name string) (string, bool) {
	for _, at := range a.se.Attr {
		if at.Name.Local == name {
			return at.Value, true
		}
	}
	return "", false
}

func (a attrs) str(name string) (string, error) {
	v, ok := a.optional(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return "", a.fail(name, v, errMissingAttr)
	}
	return v, nil
}

func (a attrs) float(name string) (float64, error) {
	v, err := a.str(name)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, a.fail(name, v, fmt.Errorf("not a number: %w", err))
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, a.fail(name, v, errors.New("not a finite number"))
	}
	return f, nil
}

// duration reads a non-negative integer attribute; absent means 0.
func (a attrs) duration(name string) (int, error) {
	v, ok := a.optional(name)
	v = strings.TrimSpace(v)
	if !ok || v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, a.fail(name, v, fmt.Errorf("not an integer: %w", err))
	}
	if n < 0 {
		return 0, a.fail(name, v, errors.New("must be >= 0"))
	}
	return n, nil
}

func (a attrs) fail(name, value string, err error) error {
	return &domain.ParseError{Element: a.elem, Index: a.idx, Attr: name, Value: value, Err: err}
}

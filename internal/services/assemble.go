package services

import (
	"courier-route-service/internal/domain"
	"courier-route-service/internal/graph"
)

// PathOracle answers shortest node paths between route nodes.
type PathOracle interface {
	Path(from, to string) ([]string, bool)
}

// AssembleRoute expands a courier's node sequence into the street segments it
// traverses. Every consecutive pair is replaced by its shortest node path and
// every edge of that path by the graph segment, so TotalLength is the exact
// in-order sum of the segment lengths.
//
// A pair without a path, or a path edge missing from the graph, means the
// index and the insertion disagree and yields *domain.InternalConsistencyError.
func AssembleRoute(g *graph.Graph, paths PathOracle, courierID int, nodes []string) (domain.CourierRoute, error) {
	out := domain.CourierRoute{
		CourierID: courierID,
		Route:     []domain.RouteSegment{},
	}

	for i := 0; i+1 < len(nodes); i++ {
		u, v := nodes[i], nodes[i+1]
		if u == v {
			continue
		}

		path, ok := paths.Path(u, v)
		if !ok || len(path) < 2 {
			return domain.CourierRoute{}, &domain.InternalConsistencyError{From: u, To: v, Reason: "no cached path"}
		}

		for k := 0; k+1 < len(path); k++ {
			s, ok := g.Segment(path[k], path[k+1])
			if !ok {
				return domain.CourierRoute{}, &domain.InternalConsistencyError{
					From:   u,
					To:     v,
					Reason: "path uses unknown segment " + path[k] + " -> " + path[k+1],
				}
			}

			out.Route = append(out.Route, domain.RouteSegment{
				OriginID:      s.Origin,
				DestinationID: s.Destination,
				Length:        s.Length,
				StreetName:    s.StreetName,
			})
			out.TotalLength += s.Length
		}
	}

	return out, nil
}

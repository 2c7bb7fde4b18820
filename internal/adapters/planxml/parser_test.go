package planxml

import (
	"courier-route-service/internal/domain"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallPlan = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<reseau>
  <noeud id="25175791" latitude="45.75406" longitude="4.857418"/>
  <noeud id="2129259178" latitude="45.750404" longitude="4.8744674"/>
  <noeud id="26086130" latitude="45.75871" longitude="4.8704023"/>
  <troncon destination="2129259178" longueur="78.72686" nomRue="Rue Danton" origine="25175791"/>
  <troncon destination="26086130" longueur="97.13" nomRue="" origine="2129259178"/>
  <troncon destination="25175791" longueur="120.5" origine="26086130"/>
  <troncon destination="2129259178" longueur="80.0" nomRue="Rue Danton" origine="25175791"/>
</reseau>`

func TestParsePlan(t *testing.T) {
	g, err := ParsePlan("petitPlan.xml", strings.NewReader(smallPlan))
	require.NoError(t, err)

	assert.Equal(t, "petitPlan.xml", g.Name)
	assert.Equal(t, 3, g.NodeCount())
	assert.Equal(t, 3, g.SegmentCount())

	n, ok := g.Node("2129259178")
	require.True(t, ok)
	assert.Equal(t, 45.750404, n.Position.Lat)
	assert.Equal(t, 4.8744674, n.Position.Lon)

	// duplicate troncon: last write wins
	s, ok := g.Segment("25175791", "2129259178")
	require.True(t, ok)
	assert.Equal(t, 80.0, s.Length)
	assert.Equal(t, "Rue Danton", s.StreetName)

	s, ok = g.Segment("26086130", "25175791")
	require.True(t, ok)
	assert.Equal(t, "", s.StreetName)
}

func TestParsePlanSegmentsBeforeNodes(t *testing.T) {
	doc := `<reseau>
  <troncon origine="A" destination="B" longueur="5" nomRue="Main St"/>
  <troncon origine="B" destination="A" longueur="7"/>
  <noeud id="A" latitude="45.75" longitude="4.85"/>
  <noeud id="B" latitude="45.76" longitude="4.86"/>
</reseau>`

	g, err := ParsePlan("reordered.xml", strings.NewReader(doc))
	require.NoError(t, err)
	assert.Equal(t, 2, g.NodeCount())
	assert.Equal(t, 2, g.SegmentCount())

	s, ok := g.Segment("A", "B")
	require.True(t, ok)
	assert.Equal(t, 5.0, s.Length)
	assert.Equal(t, "Main St", s.StreetName)
}

func TestParsePlanUnknownNodeKeepsSegmentIndex(t *testing.T) {
	doc := `<reseau>
  <troncon origine="A" destination="B" longueur="5"/>
  <troncon origine="B" destination="Z" longueur="7"/>
  <noeud id="A" latitude="45.75" longitude="4.85"/>
  <noeud id="B" latitude="45.76" longitude="4.86"/>
</reseau>`

	_, err := ParsePlan("bad.xml", strings.NewReader(doc))

	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
	assert.Equal(t, "troncon", pe.Element)
	assert.Equal(t, 1, pe.Index)
	assert.Contains(t, err.Error(), `troncon[1]`)
	assert.Contains(t, err.Error(), `"Z"`)
}

func TestParsePlanErrorsNameTheElement(t *testing.T) {
	cases := []struct {
		name    string
		doc     string
		element string
		index   int
		attr    string
	}{
		{
			name:    "missing latitude",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="2"/><noeud id="2" longitude="2"/></reseau>`,
			element: "noeud", index: 1, attr: "latitude",
		},
		{
			name:    "non numeric longitude",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="east"/></reseau>`,
			element: "noeud", index: 0, attr: "longitude",
		},
		{
			name:    "non numeric length",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="2"/><troncon origine="1" destination="1" longueur="long"/></reseau>`,
			element: "troncon", index: 0, attr: "longueur",
		},
		{
			name:    "missing origin",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="2"/><troncon destination="1" longueur="3"/></reseau>`,
			element: "troncon", index: 0, attr: "origine",
		},
		{
			name:    "unknown node",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="2"/><troncon origine="1" destination="9" longueur="3"/></reseau>`,
			element: "troncon", index: 0,
		},
		{
			name:    "negative length",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="2"/><troncon origine="1" destination="1" longueur="-3"/></reseau>`,
			element: "troncon", index: 0,
		},
		{
			name:    "broken xml",
			doc:     `<reseau><noeud id="1" latitude="1" longitude="2">`,
			element: "document", index: -1,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := ParsePlan("bad.xml", strings.NewReader(tc.doc))
			require.Error(t, err)

			var pe *domain.ParseError
			require.True(t, errors.As(err, &pe), "got %T: %v", err, err)
			assert.Equal(t, tc.element, pe.Element)
			assert.Equal(t, tc.index, pe.Index)
			assert.Equal(t, tc.attr, pe.Attr)
			assert.Contains(t, err.Error(), tc.element)
		})
	}
}

const smallRequest = `<?xml version="1.0" encoding="UTF-8" standalone="no"?>
<demandeDeLivraisons>
  <entrepot adresse="342873658" heureDepart="8:0:0"/>
  <livraison adresseEnlevement="208769039" adresseLivraison="25173820" dureeEnlevement="180" dureeLivraison="240"/>
  <livraison adresseEnlevement="26079654" adresseLivraison="55444215" dureeEnlevement="0" dureeLivraison="60"/>
</demandeDeLivraisons>`

func TestParseRequest(t *testing.T) {
	req, err := ParseRequest(strings.NewReader(smallRequest))
	require.NoError(t, err)

	assert.Equal(t, "342873658", req.WarehouseNodeID)
	assert.Equal(t, "8:0:0", req.DepartureTime)
	assert.Equal(t, 1, req.CouriersNumber)
	assert.Equal(t, domain.DefaultPlanFile, req.PlanFile)
	require.Len(t, req.Points, 2)
	assert.Equal(t, domain.DeliveryPoint{
		PickupNodeID:     "208769039",
		DeliveryNodeID:   "25173820",
		PickupDuration:   180,
		DeliveryDuration: 240,
	}, req.Points[0])
}

func TestParseRequestErrors(t *testing.T) {
	_, err := ParseRequest(strings.NewReader(`<demande><livraison adresseEnlevement="1" adresseLivraison="2" dureeEnlevement="0" dureeLivraison="0"/></demande>`))
	var pe *domain.ParseError
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "entrepot", pe.Element)

	_, err = ParseRequest(strings.NewReader(`<demande><entrepot adresse="1"/><livraison adresseEnlevement="1" adresseLivraison="2" dureeEnlevement="-5" dureeLivraison="0"/></demande>`))
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, "livraison", pe.Element)
	assert.Equal(t, "dureeEnlevement", pe.Attr)
}

func TestParseRequestDurationsDefaultToZero(t *testing.T) {
	req, err := ParseRequest(strings.NewReader(`<demande><entrepot adresse="W"/><livraison adresseEnlevement="1" adresseLivraison="2"/></demande>`))
	require.NoError(t, err)
	require.Len(t, req.Points, 1)
	assert.Zero(t, req.Points[0].PickupDuration)
	assert.Zero(t, req.Points[0].DeliveryDuration)
	assert.Empty(t, req.DepartureTime)
}

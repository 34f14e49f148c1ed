package client

import (
	"context"
	"net/http"

	"github.com/lingomap/lingomap/internal/geo"
	"github.com/lingomap/lingomap/internal/logging"
	"github.com/lingomap/lingomap/internal/services"
)

// MapView is the map component: it loads the country boundaries once,
// turns a country pick into a selection event, and keeps an add-only
// marker list of submissions.
type MapView struct {
	log         logging.Logger
	countries   []geo.Country
	submissions []*services.Submission

	// OnCountrySelected opens the submission form for the picked country.
	OnCountrySelected func(c geo.Country)
	// OnMarkerAdded renders one marker per appended submission.
	OnMarkerAdded func(s *services.Submission)
}

func NewMapView(log logging.Logger) *MapView {
	return &MapView{log: log}
}

// Load fetches the boundary data once. On failure the map stays empty:
// the error is logged and nothing retries.
func (m *MapView) Load(ctx context.Context, httpClient *http.Client, url string) {
	countries, err := geo.Fetch(ctx, httpClient, url, m.log)
	if err != nil {
		return
	}
	m.countries = countries
}

// LoadFromServer uses the server's prefetched country index instead of
// the remote GeoJSON source.
func (m *MapView) LoadFromServer(ctx context.Context, api *Client) {
	countries, err := api.Countries(ctx)
	if err != nil {
		m.log.Error(ctx, "load country index", "err", err)
		return
	}
	m.countries = countries
}

func (m *MapView) Countries() []geo.Country {
	return m.countries
}

// Select is the click handler: picking the i-th country emits a
// selection event carrying its name, code, and bounding-box center.
func (m *MapView) Select(i int) (geo.Country, bool) {
	if i < 0 || i >= len(m.countries) {
		return geo.Country{}, false
	}
	c := m.countries[i]
	if m.OnCountrySelected != nil {
		m.OnCountrySelected(c)
	}
	return c, true
}

// SelectByName picks a country by its display name.
func (m *MapView) SelectByName(name string) (geo.Country, bool) {
	for i, c := range m.countries {
		if c.Name == name {
			return m.Select(i)
		}
	}
	return geo.Country{}, false
}

// AddSubmission appends to the marker list and emits one marker event.
// There is no removal or update path.
func (m *MapView) AddSubmission(s *services.Submission) {
	m.submissions = append(m.submissions, s)
	if m.OnMarkerAdded != nil {
		m.OnMarkerAdded(s)
	}
}

func (m *MapView) Submissions() []*services.Submission {
	return m.submissions
}

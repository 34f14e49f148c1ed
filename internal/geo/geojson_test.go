package geo

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/lingomap/lingomap/internal/logging"
)

// Square polygon whose bounding-box center is (48.85, 2.35).
const franceish = `{
  "type": "FeatureCollection",
  "features": [
    {
      "type": "Feature",
      "properties": {"name": "France", "iso_a2": "FR"},
      "geometry": {
        "type": "Polygon",
        "coordinates": [[[2.0, 48.5], [2.7, 48.5], [2.7, 49.2], [2.0, 49.2], [2.0, 48.5]]]
      }
    },
    {
      "type": "Feature",
      "properties": {},
      "geometry": {
        "type": "MultiPolygon",
        "coordinates": [[[[10, -1], [12, -1], [12, 1], [10, 1], [10, -1]]]]
      }
    },
    {
      "type": "Feature",
      "properties": {"name": "Nowhere"},
      "geometry": null
    }
  ]
}`

func TestParseCollectionCountries(t *testing.T) {
	fc, err := ParseCollection([]byte(franceish))
	if err != nil {
		t.Fatalf("ParseCollection returned error: %v", err)
	}
	countries := fc.Countries()
	if len(countries) != 2 {
		t.Fatalf("expected 2 countries (feature without geometry skipped), got %d", len(countries))
	}

	fr := countries[0]
	if fr.Name != "France" || fr.Code != "FR" {
		t.Fatalf("unexpected country %+v", fr)
	}
	if fr.Lat != 48.85 || fr.Lng != 2.35 {
		t.Fatalf("expected bbox center (48.85, 2.35), got (%v, %v)", fr.Lat, fr.Lng)
	}

	anon := countries[1]
	if anon.Name != UnknownCountryName || anon.Code != UnknownCountryCode {
		t.Fatalf("expected fallbacks for feature without properties, got %+v", anon)
	}
	if anon.Lat != 0 || anon.Lng != 11 {
		t.Fatalf("unexpected multipolygon center (%v, %v)", anon.Lat, anon.Lng)
	}
}

func TestParseCollectionRejectsMissingFeatures(t *testing.T) {
	if _, err := ParseCollection([]byte(`{"type":"FeatureCollection"}`)); err == nil {
		t.Fatal("expected error for payload without feature list")
	}
	if _, err := ParseCollection([]byte(`not json`)); err == nil {
		t.Fatal("expected error for malformed payload")
	}
}

func TestFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(franceish))
	}))
	defer srv.Close()

	countries, err := Fetch(context.Background(), srv.Client(), srv.URL, logging.NewDefault())
	if err != nil {
		t.Fatalf("Fetch returned error: %v", err)
	}
	if len(countries) != 2 {
		t.Fatalf("expected 2 countries, got %d", len(countries))
	}
}

func TestFetchNonSuccessStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	if _, err := Fetch(context.Background(), srv.Client(), srv.URL, logging.NewDefault()); err == nil {
		t.Fatal("expected error for non-2xx status")
	}
}

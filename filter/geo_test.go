package filter

import (
	"math"
	"slices"
	"testing"

	"github.com/rushteam/bagrec/core"
)

func TestDistance(t *testing.T) {
	a := core.Coordinate{Lat: 6.5244, Lng: 3.3792}
	if d := Distance(a, a); d != 0 {
		t.Errorf("Distance(a, a) = %v, want 0", d)
	}
	b := core.Coordinate{Lat: 7.5244, Lng: 3.3792}
	if d := Distance(a, b); math.Abs(d-KmPerDegree) > 1e-9 {
		t.Errorf("Distance one degree = %v, want %v", d, KmPerDegree)
	}
	if Distance(a, b) != Distance(b, a) {
		t.Error("Distance should be symmetric")
	}
}

func TestFilterByRadius(t *testing.T) {
	lagos := core.Coordinate{Lat: 6.5244, Lng: 3.3792}

	tests := []struct {
		name      string
		point     core.Coordinate
		radius    float64
		wantIDs   []string
		wantDists []float64
	}{
		{name: "one km around bag1", point: lagos, radius: 1.0, wantIDs: []string{"bag1", "bag5"}, wantDists: []float64{0, 0.8}},
		{name: "wide radius returns all nearest first", point: lagos, radius: 5.0, wantIDs: []string{"bag1", "bag5", "bag3", "bag4", "bag2"}, wantDists: []float64{0, 0.8, 1.5, 1.6, 1.6}},
		{name: "zero radius", point: lagos, radius: 0, wantIDs: []string{}},
		{name: "negative radius", point: lagos, radius: -1, wantIDs: []string{}},
		{name: "nan radius", point: lagos, radius: math.NaN(), wantIDs: []string{}},
		{name: "latitude out of range", point: core.Coordinate{Lat: 91, Lng: 3.3792}, radius: 5, wantIDs: []string{}},
		{name: "far away", point: core.Coordinate{Lat: 51.5, Lng: -0.12}, radius: 5, wantIDs: []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FilterByRadius(tt.point, bags(), tt.radius)
			gotIDs := make([]string, len(got))
			for i, n := range got {
				gotIDs[i] = n.Item.ID
			}
			if !slices.Equal(gotIDs, tt.wantIDs) {
				t.Fatalf("FilterByRadius() ids = %v, want %v", gotIDs, tt.wantIDs)
			}
			for i := range got {
				if i > 0 && got[i].DistanceKm < got[i-1].DistanceKm {
					t.Errorf("distances not ascending at %d", i)
				}
				if got[i].DistanceKm > tt.radius+0.05 {
					t.Errorf("%s distance %v exceeds radius %v", got[i].Item.ID, got[i].DistanceKm, tt.radius)
				}
			}
			if tt.wantDists != nil {
				for i, want := range tt.wantDists {
					if got[i].DistanceKm != want {
						t.Errorf("%s distance = %v, want %v", got[i].Item.ID, got[i].DistanceKm, want)
					}
				}
			}
		})
	}
}

func TestFilterByRadiusTiesByID(t *testing.T) {
	p := core.Coordinate{Lat: 0, Lng: 0}
	items := []core.Item{
		{ID: "b", Location: core.Coordinate{Lat: 0.001, Lng: 0}},
		{ID: "a", Location: core.Coordinate{Lat: -0.001, Lng: 0}},
	}
	got := FilterByRadius(p, items, 1)
	if len(got) != 2 || got[0].Item.ID != "a" || got[1].Item.ID != "b" {
		t.Fatalf("FilterByRadius() = %+v, want a before b", got)
	}
}

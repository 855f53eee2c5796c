package fare

import (
	"testing"

	"github.com/langchou/fleetbook/internal/models"
)

func lines(q Quote) []string {
	out := make([]string, 0, len(q.Items))
	for _, li := range q.Items {
		out = append(out, li.Text(q.Currency))
	}
	return out
}

func TestEstimateOneWay(t *testing.T) {
	tariffs := models.DefaultSettings().Tariffs
	q := Estimate(TripOneWay, Input{Km: 100, ExtraCharges: 50}, tariffs, "₹")

	if q.Total != 3650 {
		t.Fatalf("total = %v, want 3650", q.Total)
	}
	want := []string{"Base Fare (100 km × ₹36): ₹3600", "Extra Charges: ₹50"}
	got := lines(q)
	if len(got) != len(want) {
		t.Fatalf("items = %q, want %q", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestEstimateRoundTrip(t *testing.T) {
	tariffs := models.DefaultSettings().Tariffs
	q := Estimate(TripRoundTrip, Input{Km: 250}, tariffs, "₹")
	if q.Total != 5000 {
		t.Errorf("total = %v, want 5000", q.Total)
	}
	if len(q.Items) != 1 || q.Items[0].Label != "Fare (250 km × ₹20)" {
		t.Errorf("items = %+v", q.Items)
	}
}

func TestEstimateCity(t *testing.T) {
	tariffs := models.DefaultSettings().Tariffs

	tests := []struct {
		name      string
		in        Input
		wantTotal float64
		wantItems int
	}{
		{
			name:      "exactly at both allowances",
			in:        Input{Km: 10, FromTime: "10:00", ToTime: "11:00"},
			wantTotal: 400,
			wantItems: 3,
		},
		{
			// 90 分钟：额外 30 分钟 × 5，允许 10 + 18 = 28km，超出 2km × 18
			name:      "time and distance overage",
			in:        Input{Km: 30, FromTime: "10:00", ToTime: "11:30"},
			wantTotal: 400 + 150 + 36,
			wantItems: 5,
		},
		{
			// 23:00 到 01:00 共 120 分钟
			name:      "midnight rollover",
			in:        Input{Km: 5, FromTime: "23:00", ToTime: "01:00"},
			wantTotal: 400 + 300,
			wantItems: 4,
		},
		{
			name:      "extra charges appended",
			in:        Input{Km: 10, FromTime: "10:00", ToTime: "11:00", ExtraCharges: 75},
			wantTotal: 475,
			wantItems: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := Estimate(TripCity, tt.in, tariffs, "₹")
			if q.Total != tt.wantTotal {
				t.Errorf("total = %v, want %v", q.Total, tt.wantTotal)
			}
			if len(q.Items) != tt.wantItems {
				t.Errorf("items = %q, want %d lines", lines(q), tt.wantItems)
			}
		})
	}
}

func TestEstimateCityLabels(t *testing.T) {
	tariffs := models.DefaultSettings().Tariffs
	q := Estimate(TripCity, Input{Km: 30, FromTime: "10:00", ToTime: "11:30"}, tariffs, "₹")
	want := []string{
		"Base Charge (60m / 10km): ₹400",
		"Duration: 90 mins",
		"Allowed Dist (Base + Time): 28 km",
		"Extra Time (30m × ₹5): ₹150",
		"Extra Dist (2.0km × ₹18): ₹36",
	}
	got := lines(q)
	for i := range want {
		if i >= len(got) || got[i] != want[i] {
			t.Errorf("item %d = %q, want %q", i, got, want[i])
		}
	}
}

func TestEstimateMultiDay(t *testing.T) {
	tariffs := models.DefaultSettings().Tariffs

	t.Run("single day has no bata", func(t *testing.T) {
		tr := tariffs
		tr.MultiDay.NightBataAmount = 9999
		q := Estimate(TripMultiDay, Input{Km: 100, Days: 1}, tr, "₹")
		if q.Total != 2800 {
			t.Errorf("total = %v, want 2800", q.Total)
		}
		for _, li := range q.Items {
			if li.Value == 9999 {
				t.Errorf("unexpected bata line %q", li.Label)
			}
		}
	})

	t.Run("three days with extra km", func(t *testing.T) {
		q := Estimate(TripMultiDay, Input{Km: 400, Days: 3}, tariffs, "₹")
		// 3×2800 + (400-360)×18 + 2×400
		if want := 8400.0 + 720 + 800; q.Total != want {
			t.Errorf("total = %v, want %v", q.Total, want)
		}
		got := lines(q)
		want := []string{
			"Rent (3 days × ₹2800): ₹8400",
			"Included Dist: 360 km",
			"Extra KM (40km × ₹18): ₹720",
			"Night Bata (2 × ₹400): ₹800",
		}
		for i := range want {
			if i >= len(got) || got[i] != want[i] {
				t.Errorf("item %d = %q, want %q", i, got, want[i])
			}
		}
	})
}

func TestEstimateTotalCoversExtraCharges(t *testing.T) {
	tariffs := models.DefaultSettings().Tariffs
	inputs := []Input{
		{},
		{Km: 0.5, Days: 0, ExtraCharges: 10},
		{Km: 1000, Days: 5, FromTime: "08:15", ToTime: "07:45", ExtraCharges: 200},
		{Km: 3, Days: 2, FromTime: "bogus", ToTime: "", ExtraCharges: 1},
	}
	for _, tt := range TripTypes() {
		for _, in := range inputs {
			q := Estimate(tt, in, tariffs, "₹")
			if q.Total < in.ExtraCharges {
				t.Errorf("%s %+v: total %v < extra %v", tt, in, q.Total, in.ExtraCharges)
			}
		}
	}
}

func TestEstimateUnknownType(t *testing.T) {
	q := Estimate(TripType("helicopter"), Input{Km: 10, ExtraCharges: 5}, models.DefaultSettings().Tariffs, "₹")
	if q.Total != 0 || len(q.Items) != 0 {
		t.Errorf("unknown type quote = %+v", q)
	}
}

func TestDurationMinutes(t *testing.T) {
	tests := []struct {
		from, to string
		want     float64
	}{
		{"10:00", "11:00", 60},
		{"23:30", "00:15", 45},
		{"09:00", "09:00", 0},
		{"", "01:30", 90},
		{"xx:yy", "02:00", 120},
	}
	for _, tt := range tests {
		if got := DurationMinutes(tt.from, tt.to); got != tt.want {
			t.Errorf("DurationMinutes(%q, %q) = %v, want %v", tt.from, tt.to, got, tt.want)
		}
	}
}

func TestParseTripType(t *testing.T) {
	if tt, ok := ParseTripType(" City "); !ok || tt != TripCity {
		t.Errorf("ParseTripType = %v, %v", tt, ok)
	}
	if _, ok := ParseTripType("airport"); ok {
		t.Error("expected airport to be rejected")
	}
}

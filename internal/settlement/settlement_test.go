package settlement

import (
	"reflect"
	"testing"

	"github.com/langchou/fleetbook/internal/models"
	"github.com/langchou/fleetbook/internal/money"
)

func TestSettleUberFine(t *testing.T) {
	logic := models.DefaultSettings().Logic
	res := Settle(Input{
		TotalKm:  60,
		Segments: []models.TripSegment{{ID: "s1", Category: models.CategoryUber, Revenue: 1000}},
	}, logic)

	seg := res.Segments[0]
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"targetDistance", money.Round(seg.TargetDistance), 52.63},
		{"efficiencyGap", money.Round(seg.EfficiencyGap), 7.37},
		{"fine", money.Round(seg.Fine), 14.74},
		{"incentive", seg.Incentive, 0},
		{"driverShare", money.Round(seg.DriverShare), 585.26},
		{"ownerShare", money.Round(seg.OwnerShare), 414.74},
		{"fuelAllowance", seg.FuelAllowance, 0},
	}
	for _, c := range checks {
		if c.got != c.want {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
	if seg.Km != 60 {
		t.Errorf("single segment km = %v, want trip total 60", seg.Km)
	}
}

func TestSettleUberIncentive(t *testing.T) {
	logic := models.DefaultSettings().Logic
	// 目标距离 100km，只跑了 80km
	res := Settle(Input{
		TotalKm:  80,
		Segments: []models.TripSegment{{Category: models.CategoryUber, Revenue: 1900}},
	}, logic)

	seg := res.Segments[0]
	if seg.Fine != 0 || seg.Incentive != 40 {
		t.Errorf("incentive = %v fine = %v, want 40 / 0", seg.Incentive, seg.Fine)
	}
	if seg.DriverShare != 1140+40 {
		t.Errorf("driverShare = %v", seg.DriverShare)
	}
}

func TestSettleUberExactYield(t *testing.T) {
	logic := models.DefaultSettings().Logic
	res := Settle(Input{
		TotalKm:  10,
		Segments: []models.TripSegment{{Category: models.CategoryUber, Revenue: 190}},
	}, logic)

	seg := res.Segments[0]
	if seg.Incentive != 0 || seg.Fine != 0 {
		t.Errorf("incentive = %v fine = %v, want 0 / 0", seg.Incentive, seg.Fine)
	}
}

func TestSettleZeroTargetYield(t *testing.T) {
	logic := models.DefaultSettings().Logic
	logic.TargetYield = 0
	res := Settle(Input{
		TotalKm:  50,
		Segments: []models.TripSegment{{Category: models.CategoryUber, Revenue: 500}},
	}, logic)

	seg := res.Segments[0]
	if seg.TargetDistance != 0 {
		t.Errorf("targetDistance = %v, want 0", seg.TargetDistance)
	}
	if seg.Fine != 100 {
		t.Errorf("fine = %v, want 50km × 2", seg.Fine)
	}
}

func TestSettleOwnerBookedBalances(t *testing.T) {
	logic := models.DefaultSettings().Logic
	tests := []struct {
		name     string
		category models.Category
		share    float64
	}{
		{"personal", models.CategoryPersonal, 25},
		{"other", models.CategoryOther, 30},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Settle(Input{
				TotalKm:  120,
				Segments: []models.TripSegment{{Category: tt.category, Revenue: 4000}},
			}, logic)

			seg := res.Segments[0]
			if seg.DriverShare != 4000*tt.share/100 {
				t.Errorf("driverShare = %v", seg.DriverShare)
			}
			if seg.FuelAllowance != 480 {
				t.Errorf("fuelAllowance = %v, want 480", seg.FuelAllowance)
			}
			if sum := seg.OwnerShare + seg.DriverShare + seg.FuelAllowance; sum != seg.Revenue {
				t.Errorf("owner + driver + allowance = %v, want %v", sum, seg.Revenue)
			}
			if seg.Incentive != 0 || seg.Fine != 0 {
				t.Errorf("owner-booked segment got incentive/fine")
			}
		})
	}
}

func TestSettleMultiSegmentTotals(t *testing.T) {
	logic := models.DefaultSettings().Logic
	in := Input{
		TotalKm: 500, // 多段时不覆盖分段里程
		Segments: []models.TripSegment{
			{ID: "a", Category: models.CategoryUber, Km: 100, Revenue: 1900},
			{ID: "b", Category: models.CategoryPersonal, Km: 40, Revenue: 2000},
		},
		FuelEntries: []models.FuelEntry{
			{Type: models.FuelCNG, Quantity: 10, Amount: 800},
			{Type: models.FuelPetrol, Quantity: 5, Amount: 500},
		},
		TollOther: 150,
	}
	res := Settle(in, logic)

	if res.Segments[0].Km != 100 || res.Segments[1].Km != 40 {
		t.Errorf("segment km overwritten: %+v", res.Segments)
	}
	if res.TotalRevenue != 3900 {
		t.Errorf("totalRevenue = %v", res.TotalRevenue)
	}
	if res.TotalFuelBill != 1300 {
		t.Errorf("totalFuelBill = %v", res.TotalFuelBill)
	}
	// uber: 1140 ; personal: 500
	if res.TotalDriverPayout != 1640 {
		t.Errorf("totalDriverPayout = %v", res.TotalDriverPayout)
	}
	// uber owner 760 + personal owner 2000-500-160 = 1340, 扣除杂费 150
	if res.TotalOwnerShare != 760+1340-150 {
		t.Errorf("totalOwnerShare = %v", res.TotalOwnerShare)
	}
}

func TestSettleDoesNotMutateInput(t *testing.T) {
	segs := []models.TripSegment{{ID: "only", Category: models.CategoryOther, Km: 3, Revenue: 100}}
	Settle(Input{TotalKm: 42, Segments: segs}, models.DefaultSettings().Logic)
	if segs[0].Km != 3 {
		t.Errorf("input segment km mutated to %v", segs[0].Km)
	}
}

func TestSettleIdempotent(t *testing.T) {
	logic := models.DefaultSettings().Logic
	in := Input{
		TotalKm: 77,
		Segments: []models.TripSegment{
			{ID: "a", Category: models.CategoryUber, Km: 50, Revenue: 1234.5},
			{ID: "b", Category: models.CategoryOther, Km: 27, Revenue: 800},
		},
		FuelEntries: []models.FuelEntry{{Amount: 321}},
		TollOther:   40,
	}
	first := Settle(in, logic)
	second := Settle(in, logic)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("settle not idempotent:\n%+v\n%+v", first, second)
	}
	if got := first.TripSegments(); len(got) != 2 || got[0].ID != "a" {
		t.Errorf("TripSegments = %+v", got)
	}
}

func TestSettleEmpty(t *testing.T) {
	res := Settle(Input{TotalKm: 10, TollOther: 25}, models.DefaultSettings().Logic)
	if len(res.Segments) != 0 || res.TotalRevenue != 0 {
		t.Errorf("empty settle = %+v", res)
	}
	if res.TotalOwnerShare != -25 {
		t.Errorf("totalOwnerShare = %v, want -25", res.TotalOwnerShare)
	}
}

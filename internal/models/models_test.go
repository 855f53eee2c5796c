package models

import (
	"encoding/json"
	"testing"
)

func TestCategoryJSON(t *testing.T) {
	seg := TripSegment{ID: "1", Category: CategoryPersonal, Km: 12, Revenue: 300}
	data, err := json.Marshal(seg)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if got := string(data); got != `{"id":"1","category":"personal","km":12,"revenue":300}` {
		t.Errorf("marshal = %s", got)
	}

	var back TripSegment
	if err := json.Unmarshal([]byte(`{"id":"2","category":"UBER","km":1,"revenue":2}`), &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if back.Category != CategoryUber {
		t.Errorf("category = %v, want uber", back.Category)
	}

	if err := json.Unmarshal([]byte(`{"category":"taxi"}`), &back); err == nil {
		t.Error("expected error for unknown category")
	}
}

func TestLegacyCategory(t *testing.T) {
	cases := map[string]Category{
		"uber":       CategoryUber,
		"personal":   CategoryPersonal,
		"other":      CategoryOther,
		"outstation": CategoryOther,
		"":           CategoryOther,
	}
	for in, want := range cases {
		if got := LegacyCategory(in); got != want {
			t.Errorf("LegacyCategory(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestParseDutyTime(t *testing.T) {
	for _, s := range []string{"2024-03-01T09:30", "2024-03-01T09:30:00", "2024-03-01"} {
		ts, ok := ParseDutyTime(s)
		if !ok {
			t.Errorf("ParseDutyTime(%q) failed", s)
			continue
		}
		if ts.Year() != 2024 || ts.Month() != 3 || ts.Day() != 1 {
			t.Errorf("ParseDutyTime(%q) = %v", s, ts)
		}
	}
	if _, ok := ParseDutyTime("yesterday"); ok {
		t.Error("expected garbage to fail")
	}
	if got := DateOf("2024-03-01T09:30"); got != "2024-03-01" {
		t.Errorf("DateOf = %q", got)
	}
}

func TestDefaultSettingsIsCopy(t *testing.T) {
	a := DefaultSettings()
	a.Logic.TargetYield = 99
	if b := DefaultSettings(); b.Logic.TargetYield != 19 {
		t.Errorf("defaults mutated: %v", b.Logic.TargetYield)
	}
}

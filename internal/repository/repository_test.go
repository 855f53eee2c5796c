package repository

import (
	"context"
	"errors"
	"os"
	"strconv"
	"testing"

	"go.uber.org/zap"

	"github.com/langchou/fleetbook/internal/models"
)

func newMemoryStore(t *testing.T) (*Store, *MemoryKV) {
	t.Helper()
	kv := NewMemory()
	return NewStore(kv, DefaultKeyPrefix, zap.NewNop()), kv
}

type brokenKV struct{ *MemoryKV }

var errBackend = errors.New("backend down")

func (b *brokenKV) Get(context.Context, string) ([]byte, error) { return nil, errBackend }

func TestLoadDefaults(t *testing.T) {
	ctx := context.Background()
	store, kv := newMemoryStore(t)
	vehicles := NewVehicleRepository(store)

	got, err := vehicles.List(ctx)
	if err != nil || got == nil || len(got) != 0 {
		t.Fatalf("absent key: got %v, %v", got, err)
	}

	_ = kv.Set(ctx, "hypro_vehicles", []byte("{not json"))
	got, err = vehicles.List(ctx)
	if err != nil || len(got) != 0 {
		t.Fatalf("corrupt key: got %v, %v", got, err)
	}

	_ = kv.Set(ctx, "hypro_vehicles", []byte("null"))
	if got, _ = vehicles.List(ctx); got == nil {
		t.Error("null value should load as empty list")
	}
}

func TestLoadBackendError(t *testing.T) {
	store := NewStore(&brokenKV{MemoryKV: NewMemory()}, DefaultKeyPrefix, zap.NewNop())
	if _, err := NewTripRepository(store).List(context.Background()); !errors.Is(err, errBackend) {
		t.Errorf("err = %v, want backend error", err)
	}
	s, err := NewSettingsRepository(store).Get(context.Background())
	if err == nil {
		t.Error("expected settings error")
	}
	if s.Logic.TargetYield != 19 {
		t.Errorf("settings fallback = %+v", s.Logic)
	}
}

func TestSaveAndList(t *testing.T) {
	ctx := context.Background()
	store, _ := newMemoryStore(t)
	drivers := NewDriverRepository(store)

	in := []models.Driver{{ID: "d1", Name: "Ravi"}, {ID: "d2", Name: "Anil"}}
	if err := drivers.SaveAll(ctx, in); err != nil {
		t.Fatalf("save: %v", err)
	}
	out, err := drivers.List(ctx)
	if err != nil || len(out) != 2 || out[1].Name != "Anil" {
		t.Fatalf("list = %+v, %v", out, err)
	}
}

func TestSaveBatch(t *testing.T) {
	ctx := context.Background()
	store, kv := newMemoryStore(t)
	vehicles := NewVehicleRepository(store)
	trips := NewTripRepository(store)

	ve, err := vehicles.Entry([]models.Vehicle{{ID: "v1", CurrentOdo: 1200}})
	if err != nil {
		t.Fatal(err)
	}
	te, err := trips.Entry([]models.Trip{{ID: "t1", VehicleID: "v1", EndKm: 1200}})
	if err != nil {
		t.Fatal(err)
	}
	if err := store.SaveBatch(ctx, ve, te); err != nil {
		t.Fatalf("save batch: %v", err)
	}

	for _, key := range []string{"hypro_vehicles", "hypro_trips"} {
		if _, err := kv.Get(ctx, key); err != nil {
			t.Errorf("%s missing: %v", key, err)
		}
	}
}

func TestLegacyTripNormalization(t *testing.T) {
	ctx := context.Background()
	store, kv := newMemoryStore(t)

	legacy := `[
		{"id":"old","vehicleId":"v1","driverId":"d1","date":"2023-11-02",
		 "startKm":1000,"endKm":1080,"totalKm":80,"revenue":1500,"fuelCost":400,"tollOther":60,
		 "driverPayout":500,"tripType":"outstation"},
		{"id":"old2","vehicleId":"v1","date":"2023-11-03","startKm":1080,"endKm":1100,
		 "revenue":300,"fuelCost":0,"tollOther":0,"tripType":"personal"},
		{"id":"new","vehicleId":"v1","dutyStart":"2024-01-05T08:00","dutyEnd":"2024-01-05T20:00","date":"2024-01-05",
		 "startKm":1100,"endKm":1160,"totalKm":60,
		 "segments":[{"id":"s1","category":"uber","km":60,"revenue":1000}],
		 "fuelEntries":[{"id":"f1","type":"petrol","quantity":5,"amount":520}],
		 "revenue":1000,"fuelCost":520,"tollOther":0,"driverPayout":585.26,"profit":414.74,"tripType":"uber"}
	]`
	_ = kv.Set(ctx, "hypro_trips", []byte(legacy))

	trips, err := NewTripRepository(store).List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(trips) != 3 {
		t.Fatalf("len = %d", len(trips))
	}

	old := trips[0]
	if old.DutyStart != "2023-11-02T09:00" || old.DutyEnd != "2023-11-02T21:00" {
		t.Errorf("duty fallback = %q / %q", old.DutyStart, old.DutyEnd)
	}
	if len(old.Segments) != 1 || old.Segments[0].ID != "legacy" ||
		old.Segments[0].Category != models.CategoryOther || old.Segments[0].Km != 80 || old.Segments[0].Revenue != 1500 {
		t.Errorf("legacy segment = %+v", old.Segments)
	}
	if len(old.FuelEntries) != 1 || old.FuelEntries[0].Type != models.FuelCNG || old.FuelEntries[0].Amount != 400 {
		t.Errorf("legacy fuel = %+v", old.FuelEntries)
	}
	if old.Profit != 1040 {
		t.Errorf("legacy profit = %v, want 1500-400-60", old.Profit)
	}

	old2 := trips[1]
	if old2.TotalKm != 20 || old2.Segments[0].Category != models.CategoryPersonal || old2.Segments[0].Km != 20 {
		t.Errorf("old2 = %+v", old2)
	}
	if old2.FuelEntries == nil || len(old2.FuelEntries) != 0 {
		t.Errorf("zero fuel cost should give empty entries, got %+v", old2.FuelEntries)
	}

	cur := trips[2]
	if cur.Profit != 414.74 || cur.Segments[0].ID != "s1" || cur.FuelEntries[0].ID != "f1" {
		t.Errorf("current trip altered: %+v", cur)
	}
}

func TestSettingsMerge(t *testing.T) {
	ctx := context.Background()
	store, kv := newMemoryStore(t)
	repo := NewSettingsRepository(store)

	// 旧版设置缺少 city 和 logic.fuelAllowanceRate
	stored := `{"currencySymbol":"Rs","tariffs":{"oneWay":{"ratePerKm":40}},"logic":{"uberDriverShare":55}}`
	_ = kv.Set(ctx, "hypro_settings", []byte(stored))

	s, err := repo.Get(ctx)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if s.CurrencySymbol != "Rs" || s.Tariffs.OneWay.RatePerKm != 40 || s.Logic.UberDriverShare != 55 {
		t.Errorf("stored values lost: %+v", s)
	}
	def := models.DefaultSettings()
	if s.Tariffs.City != def.Tariffs.City || s.Tariffs.RoundTrip != def.Tariffs.RoundTrip {
		t.Errorf("missing tariffs not defaulted: %+v", s.Tariffs)
	}
	if s.Logic.FuelAllowanceRate != 4 || s.Logic.TargetYield != 19 {
		t.Errorf("missing logic not defaulted: %+v", s.Logic)
	}

	_ = kv.Set(ctx, "hypro_settings", []byte(`{"logic":"oops"}`))
	if s, _ = repo.Get(ctx); s != def {
		t.Errorf("corrupt settings = %+v, want defaults", s)
	}
}

func TestPostgresKV(t *testing.T) {
	dsn := os.Getenv("FLEETBOOK_TEST_DSN")
	if dsn == "" {
		t.Skip("FLEETBOOK_TEST_DSN not set")
	}
	ctx := context.Background()
	db, err := New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	exerciseKV(t, db)
}

func TestRedisKV(t *testing.T) {
	addr := os.Getenv("FLEETBOOK_TEST_REDIS")
	if addr == "" {
		t.Skip("FLEETBOOK_TEST_REDIS not set")
	}
	r, err := NewRedis(context.Background(), addr, "", 0)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	defer r.Close()
	exerciseKV(t, r)
}

func TestMemoryKV(t *testing.T) {
	exerciseKV(t, NewMemory())
}

func exerciseKV(t *testing.T, kv KV) {
	t.Helper()
	ctx := context.Background()
	prefix := "fleetbook_test_" + strconv.FormatInt(int64(os.Getpid()), 10) + "_"

	if _, err := kv.Get(ctx, prefix+"missing"); !errors.Is(err, ErrKeyNotFound) {
		t.Errorf("missing key err = %v", err)
	}
	if err := kv.Set(ctx, prefix+"a", []byte(`[1]`)); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := kv.SetMany(ctx, []Entry{
		{Key: prefix + "a", Value: []byte(`[2]`)},
		{Key: prefix + "b", Value: []byte(`{"x":1}`)},
	}); err != nil {
		t.Fatalf("set many: %v", err)
	}
	a, err := kv.Get(ctx, prefix+"a")
	if err != nil || string(a) != `[2]` {
		t.Errorf("a = %s, %v", a, err)
	}
	b, err := kv.Get(ctx, prefix+"b")
	if err != nil || string(b) != `{"x":1}` {
		t.Errorf("b = %s, %v", b, err)
	}
}

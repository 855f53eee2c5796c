package models

// TariffOneWay 单程计价
type TariffOneWay struct {
	RatePerKm float64 `json:"ratePerKm"`
}

// TariffRoundTrip 往返计价
type TariffRoundTrip struct {
	RatePerKm float64 `json:"ratePerKm"`
}

// TariffCity 市内计价（时间 + 里程）
type TariffCity struct {
	MinimumBaseCharge           float64 `json:"minimumBaseCharge"`
	IncludedBaseTimeMinutes     float64 `json:"includedBaseTimeMinutes"`
	IncludedBaseDistanceKM      float64 `json:"includedBaseDistanceKM"`
	RatePerExtraMinute          float64 `json:"ratePerExtraMinute"`
	FreeDistancePerMinuteFactor float64 `json:"freeDistancePerMinuteFactor"`
	ExtraKMRate                 float64 `json:"extraKMRate"`
}

// TariffMultiDay 多日包车计价
type TariffMultiDay struct {
	DailyRentAmount        float64 `json:"dailyRentAmount"`
	IncludedDistancePerDay float64 `json:"includedDistancePerDay"`
	ExtraKMRate            float64 `json:"extraKMRate"`
	NightBataAmount        float64 `json:"nightBataAmount"`
}

// TariffSettings 四种计价方案
type TariffSettings struct {
	OneWay    TariffOneWay    `json:"oneWay"`
	RoundTrip TariffRoundTrip `json:"roundTrip"`
	City      TariffCity      `json:"city"`
	MultiDay  TariffMultiDay  `json:"multiDay"`
}

// LogicSettings 分成与收益率规则
type LogicSettings struct {
	UberDriverShare     float64 `json:"uberDriverShare"`     // 百分比
	PersonalDriverShare float64 `json:"personalDriverShare"` // 百分比
	OtherDriverShare    float64 `json:"otherDriverShare"`    // 百分比
	TargetYield         float64 `json:"targetYield"`         // 每公里目标收入
	IncentiveRate       float64 `json:"incentiveRate"`       // 每公里奖励
	FineRate            float64 `json:"fineRate"`            // 每公里罚款
	FuelAllowanceRate   float64 `json:"fuelAllowanceRate"`   // 每公里油费补贴
}

// Settings 应用设置
type Settings struct {
	CurrencySymbol string         `json:"currencySymbol"`
	Tariffs        TariffSettings `json:"tariffs"`
	Logic          LogicSettings  `json:"logic"`
}

// DefaultSettings 默认设置，每次调用返回新副本
func DefaultSettings() Settings {
	return Settings{
		CurrencySymbol: "₹",
		Tariffs: TariffSettings{
			OneWay:    TariffOneWay{RatePerKm: 36},
			RoundTrip: TariffRoundTrip{RatePerKm: 20},
			City: TariffCity{
				MinimumBaseCharge:           400,
				IncludedBaseTimeMinutes:     60,
				IncludedBaseDistanceKM:      10,
				RatePerExtraMinute:          5,
				FreeDistancePerMinuteFactor: 0.2,
				ExtraKMRate:                 18,
			},
			MultiDay: TariffMultiDay{
				DailyRentAmount:        2800,
				IncludedDistancePerDay: 120,
				ExtraKMRate:            18,
				NightBataAmount:        400,
			},
		},
		Logic: LogicSettings{
			UberDriverShare:     60,
			PersonalDriverShare: 25,
			OtherDriverShare:    30,
			TargetYield:         19,
			IncentiveRate:       2,
			FineRate:            2,
			FuelAllowanceRate:   4,
		},
	}
}

// Package fare 车费估算引擎：单程、往返、市内（时间+里程）、多日包车四种计价方案。
// 估算是纯函数，不持久化，不返回错误；非法输入按零值或截断处理。
package fare

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/langchou/fleetbook/internal/models"
	"github.com/langchou/fleetbook/internal/money"
)

// TripType 计价方案
type TripType string

const (
	TripOneWay    TripType = "one-way"
	TripRoundTrip TripType = "round-trip"
	TripCity      TripType = "city"
	TripMultiDay  TripType = "multi-day"
)

// TripTypes 全部计价方案，按界面顺序
func TripTypes() []TripType {
	return []TripType{TripOneWay, TripRoundTrip, TripCity, TripMultiDay}
}

// ParseTripType 解析计价方案名称
func ParseTripType(s string) (TripType, bool) {
	t := TripType(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range TripTypes() {
		if t == known {
			return t, true
		}
	}
	return "", false
}

// Unit 明细数值单位
type Unit string

const (
	UnitCurrency Unit = "currency"
	UnitMinutes  Unit = "minutes"
	UnitKm       Unit = "km"
)

// LineItem 报价明细行
type LineItem struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// Amount 明细数值文本
func (li LineItem) Amount(currency string) string {
	switch li.Unit {
	case UnitMinutes:
		return money.Format(li.Value) + " mins"
	case UnitKm:
		return money.Format(li.Value) + " km"
	default:
		return money.Amount(currency, li.Value)
	}
}

// Text "标签: 数值"
func (li LineItem) Text(currency string) string {
	return li.Label + ": " + li.Amount(currency)
}

// Input 估算输入，各方案只读取自己需要的字段
type Input struct {
	Km           float64 `json:"km"`
	Days         float64 `json:"days"`
	FromTime     string  `json:"fromTime"` // HH:MM，仅市内
	ToTime       string  `json:"toTime"`   // HH:MM，仅市内
	ExtraCharges float64 `json:"extraCharges"`
}

// Quote 报价结果
type Quote struct {
	Type     TripType   `json:"type"`
	Km       float64    `json:"km"`
	Currency string     `json:"currency"`
	Total    float64    `json:"total"`
	Items    []LineItem `json:"items"`
}

// Estimate 按计价方案估算车费
func Estimate(tripType TripType, in Input, tariffs models.TariffSettings, currency string) Quote {
	q := Quote{Type: tripType, Km: in.Km, Currency: currency}
	var base float64

	switch tripType {
	case TripOneWay:
		base, q.Items = perKm("Base Fare", in.Km, tariffs.OneWay.RatePerKm, currency)
	case TripRoundTrip:
		base, q.Items = perKm("Fare", in.Km, tariffs.RoundTrip.RatePerKm, currency)
	case TripCity:
		base, q.Items = city(in, tariffs.City, currency)
	case TripMultiDay:
		base, q.Items = multiDay(in, tariffs.MultiDay, currency)
	default:
		return q
	}

	q.Total = base + in.ExtraCharges
	if in.ExtraCharges > 0 {
		q.Items = append(q.Items, LineItem{Label: "Extra Charges", Value: in.ExtraCharges, Unit: UnitCurrency})
	}
	return q
}

func perKm(label string, km, rate float64, currency string) (float64, []LineItem) {
	base := km * rate
	return base, []LineItem{{
		Label: fmt.Sprintf("%s (%s km × %s)", label, money.Format(km), money.Amount(currency, rate)),
		Value: base,
		Unit:  UnitCurrency,
	}}
}

func city(in Input, conf models.TariffCity, currency string) (float64, []LineItem) {
	duration := DurationMinutes(in.FromTime, in.ToTime)

	allowedExtraKm := duration * conf.FreeDistancePerMinuteFactor
	totalAllowedKm := conf.IncludedBaseDistanceKM + allowedExtraKm

	extraDist := math.Max(0, in.Km-totalAllowedKm)
	extraDistCharge := extraDist * conf.ExtraKMRate

	extraTime := math.Max(0, duration-conf.IncludedBaseTimeMinutes)
	timeCharge := extraTime * conf.RatePerExtraMinute

	items := []LineItem{
		{
			Label: fmt.Sprintf("Base Charge (%sm / %skm)", money.Format(conf.IncludedBaseTimeMinutes), money.Format(conf.IncludedBaseDistanceKM)),
			Value: conf.MinimumBaseCharge,
			Unit:  UnitCurrency,
		},
		{Label: "Duration", Value: duration, Unit: UnitMinutes},
		{Label: "Allowed Dist (Base + Time)", Value: totalAllowedKm, Unit: UnitKm},
	}
	if extraTime > 0 {
		items = append(items, LineItem{
			Label: fmt.Sprintf("Extra Time (%sm × %s)", money.Format(extraTime), money.Amount(currency, conf.RatePerExtraMinute)),
			Value: timeCharge,
			Unit:  UnitCurrency,
		})
	}
	if extraDist > 0 {
		items = append(items, LineItem{
			Label: fmt.Sprintf("Extra Dist (%skm × %s)", money.Fixed(extraDist, 1), money.Amount(currency, conf.ExtraKMRate)),
			Value: extraDistCharge,
			Unit:  UnitCurrency,
		})
	}

	return conf.MinimumBaseCharge + extraDistCharge + timeCharge, items
}

func multiDay(in Input, conf models.TariffMultiDay, currency string) (float64, []LineItem) {
	rent := in.Days * conf.DailyRentAmount
	includedKm := in.Days * conf.IncludedDistancePerDay

	extraDist := math.Max(0, in.Km-includedKm)
	extraDistCharge := extraDist * conf.ExtraKMRate

	// 首日不计夜间补贴
	nights := math.Max(0, in.Days-1)
	bata := nights * conf.NightBataAmount

	items := []LineItem{
		{
			Label: fmt.Sprintf("Rent (%s days × %s)", money.Format(in.Days), money.Amount(currency, conf.DailyRentAmount)),
			Value: rent,
			Unit:  UnitCurrency,
		},
		{Label: "Included Dist", Value: includedKm, Unit: UnitKm},
	}
	if extraDist > 0 {
		items = append(items, LineItem{
			Label: fmt.Sprintf("Extra KM (%skm × %s)", money.Format(extraDist), money.Amount(currency, conf.ExtraKMRate)),
			Value: extraDistCharge,
			Unit:  UnitCurrency,
		})
	}
	if nights > 0 {
		items = append(items, LineItem{
			Label: fmt.Sprintf("Night Bata (%s × %s)", money.Format(nights), money.Amount(currency, conf.NightBataAmount)),
			Value: bata,
			Unit:  UnitCurrency,
		})
	}

	return rent + extraDistCharge + bata, items
}

// DurationMinutes 计算 from 到 to 的分钟数，结束早于开始视为跨零点。
// 不校验超过 24 小时的行程。
func DurationMinutes(from, to string) float64 {
	d := clockMinutes(to) - clockMinutes(from)
	if d < 0 {
		d += 24 * 60
	}
	return float64(d)
}

// clockMinutes 解析 HH:MM，无法解析的部分按 0 处理
func clockMinutes(s string) int {
	h, m, _ := strings.Cut(strings.TrimSpace(s), ":")
	hours, _ := strconv.Atoi(h)
	minutes, _ := strconv.Atoi(m)
	return hours*60 + minutes
}

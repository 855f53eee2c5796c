// Package settlement 行程结算：按收入类别拆分司机与车主收入，计算奖励、罚款与油费补贴。
package settlement

import (
	"math"

	"github.com/langchou/fleetbook/internal/models"
)

// Input 结算输入
type Input struct {
	TotalKm     float64              `json:"totalKm"`
	Segments    []models.TripSegment `json:"segments"`
	FuelEntries []models.FuelEntry   `json:"fuelEntries"`
	TollOther   float64              `json:"tollOther"`
}

// SegmentResult 单段结算明细
type SegmentResult struct {
	models.TripSegment

	BaseShare      float64 `json:"baseShare"`
	TargetDistance float64 `json:"targetDistance"`
	EfficiencyGap  float64 `json:"efficiencyGap"`
	Incentive      float64 `json:"incentive"`
	Fine           float64 `json:"fine"`
	FuelAllowance  float64 `json:"fuelAllowance"`
	DriverShare    float64 `json:"driverShare"`
	OwnerShare     float64 `json:"ownerShare"`
}

// Result 结算结果
type Result struct {
	Segments          []SegmentResult `json:"segments"`
	TotalRevenue      float64         `json:"totalRevenue"`
	TotalFuelBill     float64         `json:"totalFuelBill"`
	TotalDriverPayout float64         `json:"totalDriverPayout"`
	TotalOwnerShare   float64         `json:"totalOwnerShare"`
}

// TripSegments 结算后的分段（写回行程记录）
func (r Result) TripSegments() []models.TripSegment {
	out := make([]models.TripSegment, len(r.Segments))
	for i, s := range r.Segments {
		out[i] = s.TripSegment
	}
	return out
}

// rule 单个收入类别的分成规则
type rule interface {
	apply(seg *SegmentResult, logic models.LogicSettings)
}

// appRule 平台单：司机承担油费，按目标收益率奖惩
type appRule struct{}

func (appRule) apply(seg *SegmentResult, logic models.LogicSettings) {
	seg.BaseShare = seg.Revenue * logic.UberDriverShare / 100
	if logic.TargetYield > 0 {
		seg.TargetDistance = seg.Revenue / logic.TargetYield
	}
	seg.EfficiencyGap = seg.Km - seg.TargetDistance

	if seg.EfficiencyGap > 0 {
		seg.Fine = seg.EfficiencyGap * logic.FineRate
	} else {
		seg.Incentive = math.Abs(seg.EfficiencyGap) * logic.IncentiveRate
	}

	seg.DriverShare = seg.BaseShare + seg.Incentive - seg.Fine
	seg.OwnerShare = seg.Revenue - seg.DriverShare
}

// ownerBookedRule 车主自接单：固定分成，车主按公里承担油费补贴
type ownerBookedRule struct {
	share func(models.LogicSettings) float64
}

func (r ownerBookedRule) apply(seg *SegmentResult, logic models.LogicSettings) {
	seg.BaseShare = seg.Revenue * r.share(logic) / 100
	seg.DriverShare = seg.BaseShare
	seg.FuelAllowance = seg.Km * logic.FuelAllowanceRate
	seg.OwnerShare = seg.Revenue - seg.DriverShare - seg.FuelAllowance
}

var (
	personalRule = ownerBookedRule{share: func(l models.LogicSettings) float64 { return l.PersonalDriverShare }}
	otherRule    = ownerBookedRule{share: func(l models.LogicSettings) float64 { return l.OtherDriverShare }}
)

func ruleFor(c models.Category) rule {
	switch c {
	case models.CategoryUber:
		return appRule{}
	case models.CategoryPersonal:
		return personalRule
	default:
		return otherRule
	}
}

// Settle 结算一次出车。不修改输入切片。
// 仅有一个分段时，该分段里程以整趟里程表距离为准。
func Settle(in Input, logic models.LogicSettings) Result {
	res := Result{Segments: make([]SegmentResult, len(in.Segments))}

	var ownerSum float64
	for i, seg := range in.Segments {
		if len(in.Segments) == 1 {
			seg.Km = in.TotalKm
		}
		sr := SegmentResult{TripSegment: seg}
		ruleFor(seg.Category).apply(&sr, logic)
		res.Segments[i] = sr

		res.TotalRevenue += sr.Revenue
		res.TotalDriverPayout += sr.DriverShare
		ownerSum += sr.OwnerShare
	}

	for _, f := range in.FuelEntries {
		res.TotalFuelBill += f.Amount
	}
	res.TotalOwnerShare = ownerSum - in.TollOther
	return res
}

package models

// Vehicle 车辆信息
// 证件到期日均为 YYYY-MM-DD，可为空
type Vehicle struct {
	ID              string  `json:"id"`
	Name            string  `json:"name"`
	Model           string  `json:"model"`
	PlateNumber     string  `json:"plateNumber"`
	CurrentOdo      float64 `json:"currentOdo"` // 当前里程表读数 (km)
	InsuranceExpiry string  `json:"insuranceExpiry"`
	TaxExpiry       string  `json:"taxExpiry"`
	PermitExpiry    string  `json:"permitExpiry"`
	PollutionExpiry string  `json:"pollutionExpiry"`
	FitnessExpiry   string  `json:"fitnessExpiry"`
}

// Driver 司机信息
type Driver struct {
	ID            string `json:"id"`
	Name          string `json:"name"`
	Mobile        string `json:"mobile"`
	LicenseNumber string `json:"licenseNumber"`
	LicenseExpiry string `json:"licenseExpiry"`
}

// MaintenanceType 保养类型
type MaintenanceType string

const (
	MaintenanceService   MaintenanceType = "Vehicle Service"
	MaintenanceWash      MaintenanceType = "Water Wash"
	MaintenanceAlignment MaintenanceType = "Wheel Alignment"
	MaintenanceRepair    MaintenanceType = "Additional Vehicle Repair"
	MaintenanceOthers    MaintenanceType = "Others"
)

// MaintenanceTypes 全部保养类型
func MaintenanceTypes() []MaintenanceType {
	return []MaintenanceType{
		MaintenanceService,
		MaintenanceWash,
		MaintenanceAlignment,
		MaintenanceRepair,
		MaintenanceOthers,
	}
}

// Valid 是否为已知保养类型
func (t MaintenanceType) Valid() bool {
	for _, known := range MaintenanceTypes() {
		if t == known {
			return true
		}
	}
	return false
}

// MaintenanceRecord 保养记录
type MaintenanceRecord struct {
	ID          string          `json:"id"`
	VehicleID   string          `json:"vehicleId"`
	Date        string          `json:"date"`
	Type        MaintenanceType `json:"type"`
	Description string          `json:"description"`
	Cost        float64         `json:"cost"`
}

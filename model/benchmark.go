package model

import "time"

// DeletedBenchmarkEndDate marks a history snapshot written on physical
// delete: the benchmark was removed, never superseded.
var DeletedBenchmarkEndDate = time.Date(2199, 1, 1, 0, 0, 0, 0, time.UTC)

type DistributionType string

const (
	DistributionLinear      DistributionType = "Linear"
	DistributionFrontLoaded DistributionType = "FrontLoaded"
	DistributionBackLoaded  DistributionType = "BackLoaded"
	DistributionCustom      DistributionType = "Custom"
)

func (d DistributionType) Valid() bool {
	switch d {
	case DistributionLinear, DistributionFrontLoaded, DistributionBackLoaded, DistributionCustom:
		return true
	}
	return false
}

// Benchmark is the current target-hours agreement for a client/consultant/
// role pairing. The live table holds current state only; every mutation
// forks the pre-change row into benchmark_history first.
type Benchmark struct {
	ID           string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	ClientID     string `gorm:"column:client_id;type:char(36);not null;index" json:"clientId"`
	ConsultantID string `gorm:"column:consultant_id;type:char(36);not null;index" json:"consultantId"`
	Role         string `gorm:"column:role" json:"role"`

	LowHours    float64 `gorm:"column:low_hours;type:decimal(6,1);default:0" json:"lowHours"`
	TargetHours float64 `gorm:"column:target_hours;type:decimal(6,1);default:0" json:"targetHours"`
	HighHours   float64 `gorm:"column:high_hours;type:decimal(6,1);default:0" json:"highHours"`
	BillRate    float64 `gorm:"column:bill_rate;type:decimal(10,2);default:0" json:"billRate"`

	EffectiveDate    string           `gorm:"column:effective_date;type:char(10)" json:"effectiveDate"`
	DistributionType DistributionType `gorm:"column:distribution_type;type:varchar(20);default:Linear" json:"distributionType"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (Benchmark) TableName() string {
	return "benchmarks"
}

// BenchmarkHistory is the append-only audit log. Rows here are owned by no
// live entity.
type BenchmarkHistory struct {
	ID          string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	BenchmarkID string `gorm:"column:benchmark_id;type:char(36);not null;index" json:"benchmarkId"`

	ClientID     string `gorm:"column:client_id;type:char(36);not null" json:"clientId"`
	ConsultantID string `gorm:"column:consultant_id;type:char(36);not null" json:"consultantId"`
	Role         string `gorm:"column:role" json:"role"`

	LowHours    float64 `gorm:"column:low_hours;type:decimal(6,1)" json:"lowHours"`
	TargetHours float64 `gorm:"column:target_hours;type:decimal(6,1)" json:"targetHours"`
	HighHours   float64 `gorm:"column:high_hours;type:decimal(6,1)" json:"highHours"`
	BillRate    float64 `gorm:"column:bill_rate;type:decimal(10,2)" json:"billRate"`

	EffectiveDate    string           `gorm:"column:effective_date;type:char(10)" json:"effectiveDate"`
	DistributionType DistributionType `gorm:"column:distribution_type;type:varchar(20)" json:"distributionType"`

	// EndDate is the boundary at which this snapshot stopped being current.
	EndDate   time.Time `gorm:"column:end_date;type:timestamp;not null" json:"endDate"`
	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
}

func (BenchmarkHistory) TableName() string {
	return "benchmark_history"
}

package model

import (
	"time"

	"gorm.io/datatypes"
)

type Consultant struct {
	ID        string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	FirstName string  `gorm:"column:first_name" json:"firstName"`
	Surname   string  `gorm:"column:surname" json:"surname"`
	Email     *string `gorm:"column:email;index" json:"email"`
	Role      string  `gorm:"column:role" json:"role"`
	Status    string  `gorm:"column:status;default:Active" json:"status"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (Consultant) TableName() string {
	return "consultants"
}

func (c Consultant) DisplayName() string {
	return c.FirstName + " " + c.Surname
}

type Client struct {
	ID          string  `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	Name        string  `gorm:"column:name;not null" json:"name"`
	Industry    *string `gorm:"column:industry" json:"industry"`
	ContactName *string `gorm:"column:contact_name" json:"contactName"`
	Status      string  `gorm:"column:status;default:Active" json:"status"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (Client) TableName() string {
	return "clients"
}

// Contract assigns named staff to a client engagement. The four fixed role
// columns cover the standard staffing shape; anything beyond that goes into
// AdditionalStaff as JSON ([{"name","role","monthlyFee"}]).
type Contract struct {
	ID       string `gorm:"primaryKey;column:id;type:char(36)" json:"id"`
	ClientID string `gorm:"column:client_id;type:char(36);not null;index" json:"clientId"`

	StartDate string  `gorm:"column:start_date;type:char(10)" json:"startDate"`
	EndDate   *string `gorm:"column:end_date;type:char(10)" json:"endDate"`
	EndReason *string `gorm:"column:end_reason" json:"endReason"`

	CFOName              *string `gorm:"column:cfo_name" json:"cfoName"`
	CFOMonthlyFee        float64 `gorm:"column:cfo_monthly_fee;type:decimal(13,2);default:0" json:"cfoMonthlyFee"`
	ControllerName       *string `gorm:"column:controller_name" json:"controllerName"`
	ControllerMonthlyFee float64 `gorm:"column:controller_monthly_fee;type:decimal(13,2);default:0" json:"controllerMonthlyFee"`
	SeniorAccountantName *string `gorm:"column:senior_accountant_name" json:"seniorAccountantName"`
	SeniorAccountantFee  float64 `gorm:"column:senior_accountant_fee;type:decimal(13,2);default:0" json:"seniorAccountantFee"`
	SoftwareName         *string `gorm:"column:software_name" json:"softwareName"`
	SoftwareMonthlyFee   float64 `gorm:"column:software_monthly_fee;type:decimal(13,2);default:0" json:"softwareMonthlyFee"`

	AdditionalStaff datatypes.JSON `gorm:"column:additional_staff" json:"additionalStaff"`

	CreatedAt time.Time `gorm:"type:timestamp;not null;<-:create" json:"createdAt"`
	UpdatedAt time.Time `gorm:"type:timestamp;not null" json:"updatedAt"`
}

func (Contract) TableName() string {
	return "contracts"
}

// AdditionalStaffEntry is the element shape of Contract.AdditionalStaff.
type AdditionalStaffEntry struct {
	Name       string  `json:"name"`
	Role       string  `json:"role"`
	MonthlyFee float64 `json:"monthlyFee"`
}

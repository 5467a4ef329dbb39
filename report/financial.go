package report

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

type FinancialParams struct {
	StartDate     string
	EndDate       string
	ClientIDs     []string
	ConsultantIDs []string
}

// FinancialLineItem is one priced staff assignment on a contract. A
// contract fans out into one item per assigned role.
type FinancialLineItem struct {
	ContractID      string  `json:"contractId"`
	ClientID        string  `json:"clientId"`
	ClientName      string  `json:"clientName"`
	Role            string  `json:"role"`
	ConsultantName  string  `json:"consultantName"`
	MonthlyFee      float64 `json:"monthlyFee"`
	ActualHours     float64 `json:"actualHours"`
	MonthsRemaining int     `json:"monthsRemaining"`
}

type contractRow struct {
	model.Contract
	ClientName string `gorm:"column:client_name"`
}

// GetFinancialData expands each contract valid for the range into per-role
// line items and joins each item to the approved hours its consultant logged
// for that client, matched by normalized name.
func GetFinancialData(db *gorm.DB, params FinancialParams) ([]FinancialLineItem, error) {
	if params.StartDate == "" || params.EndDate == "" {
		return nil, core.NewValidation("startDate and endDate are required")
	}
	rangeStart, err := utils.ParseDate(params.StartDate)
	if err != nil {
		return nil, core.NewValidation("startDate must be yyyy-MM-dd")
	}
	rangeEnd, err := utils.ParseDate(params.EndDate)
	if err != nil {
		return nil, core.NewValidation("endDate must be yyyy-MM-dd")
	}

	contracts, err := fetchContracts(db, params)
	if err != nil {
		return nil, err
	}

	hoursByKey, err := fetchApprovedHours(db, params)
	if err != nil {
		return nil, err
	}

	nameFilter, err := consultantNameFilter(db, params.ConsultantIDs)
	if err != nil {
		return nil, err
	}

	items := make([]FinancialLineItem, 0, len(contracts)*4)
	for _, contract := range contracts {
		if !contractValidForRange(contract.Contract, rangeStart, rangeEnd) {
			continue
		}
		for _, staff := range expandStaff(contract.Contract) {
			if nameFilter != nil && !nameFilter[utils.NormalizeName(staff.Name)] {
				continue
			}
			item := FinancialLineItem{
				ContractID:      contract.ID,
				ClientID:        contract.ClientID,
				ClientName:      contract.ClientName,
				Role:            staff.Role,
				ConsultantName:  staff.Name,
				MonthlyFee:      staff.MonthlyFee,
				ActualHours:     Round2(hoursByKey[hoursKey(staff.Name, contract.ClientID)]),
				MonthsRemaining: monthsRemaining(contract.Contract, rangeEnd),
			}
			items = append(items, item)
		}
	}
	return items, nil
}

func fetchContracts(db *gorm.DB, params FinancialParams) ([]contractRow, error) {
	query := db.Table("contracts ct").
		Select("ct.*, COALESCE(cl.name, '') AS client_name").
		Joins("LEFT JOIN clients cl ON cl.id = ct.client_id")
	if len(params.ClientIDs) > 0 {
		query = query.Where("ct.client_id IN ?", params.ClientIDs)
	}

	var contracts []contractRow
	if err := query.Find(&contracts).Error; err != nil {
		return nil, core.WrapStorage("failed to fetch contracts", err)
	}
	return contracts, nil
}

// contractValidForRange: a contract qualifies when it starts on or before
// the range end and, if it has both an end date and an end reason, ends on
// or after the range start.
func contractValidForRange(contract model.Contract, rangeStart, rangeEnd time.Time) bool {
	start, err := utils.ParseDate(contract.StartDate)
	if err != nil || start.After(rangeEnd) {
		return false
	}
	if contract.EndDate != nil && contract.EndReason != nil {
		end, err := utils.ParseDate(*contract.EndDate)
		if err == nil && end.Before(rangeStart) {
			return false
		}
	}
	return true
}

type staffAssignment struct {
	Name       string
	Role       string
	MonthlyFee float64
}

func expandStaff(contract model.Contract) []staffAssignment {
	var staff []staffAssignment
	add := func(name *string, role string, fee float64) {
		if name == nil || *name == "" {
			return
		}
		staff = append(staff, staffAssignment{Name: *name, Role: role, MonthlyFee: fee})
	}

	add(contract.CFOName, "CFO", contract.CFOMonthlyFee)
	add(contract.ControllerName, "Controller", contract.ControllerMonthlyFee)
	add(contract.SeniorAccountantName, "Senior Accountant", contract.SeniorAccountantFee)
	add(contract.SoftwareName, "Software", contract.SoftwareMonthlyFee)

	if len(contract.AdditionalStaff) > 0 {
		var extra []model.AdditionalStaffEntry
		if err := json.Unmarshal(contract.AdditionalStaff, &extra); err == nil {
			for _, e := range extra {
				if e.Name == "" {
					continue
				}
				staff = append(staff, staffAssignment{
					Name:       e.Name,
					Role:       e.Role,
					MonthlyFee: e.MonthlyFee,
				})
			}
		}
	}
	return staff
}

func monthsRemaining(contract model.Contract, rangeEnd time.Time) int {
	if contract.EndDate == nil {
		return 0
	}
	end, err := utils.ParseDate(*contract.EndDate)
	if err != nil {
		return 0
	}
	return utils.MonthsBetween(rangeEnd, end)
}

type approvedHoursRow struct {
	ClientID  string  `gorm:"column:client_id"`
	FirstName string  `gorm:"column:first_name"`
	Surname   string  `gorm:"column:surname"`
	Hours     float64 `gorm:"column:hours"`
}

func fetchApprovedHours(db *gorm.DB, params FinancialParams) (map[string]float64, error) {
	query := db.Table("timecard_lines t").
		Select(`t.client_id, COALESCE(c.first_name, '') AS first_name,
			COALESCE(c.surname, '') AS surname, SUM(t.total_hours) AS hours`).
		Joins("LEFT JOIN consultants c ON c.id = t.consultant_id").
		Where("t.status = ?", model.LineStatusApproved).
		Where("t.timecard_date BETWEEN ? AND ?", params.StartDate, params.EndDate).
		Group("t.client_id, c.first_name, c.surname")
	if len(params.ClientIDs) > 0 {
		query = query.Where("t.client_id IN ?", params.ClientIDs)
	}

	var rows []approvedHoursRow
	if err := query.Find(&rows).Error; err != nil {
		return nil, core.WrapStorage("failed to fetch approved hours", err)
	}

	hours := make(map[string]float64, len(rows))
	for _, row := range rows {
		hours[hoursKey(row.FirstName+" "+row.Surname, row.ClientID)] += row.Hours
	}
	return hours, nil
}

// consultantNameFilter resolves consultant ids into a normalized-name set;
// nil means no filtering.
func consultantNameFilter(db *gorm.DB, consultantIDs []string) (map[string]bool, error) {
	if len(consultantIDs) == 0 {
		return nil, nil
	}
	var consultants []model.Consultant
	if err := db.Where("id IN ?", consultantIDs).Find(&consultants).Error; err != nil {
		return nil, core.WrapStorage("failed to fetch consultants", err)
	}
	names := make(map[string]bool, len(consultants))
	for _, c := range consultants {
		names[utils.NormalizeName(c.DisplayName())] = true
	}
	return names, nil
}

func hoursKey(consultantName, clientID string) string {
	return utils.NormalizeName(consultantName) + "|" + clientID
}

// Package report builds the read-only client-activity and financial views:
// timecard lines joined with consultant and client data, reduced in memory
// into weekly/monthly/per-person/per-category summaries.
package report

import (
	"math"
	"sort"

	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

type ClientActivityParams struct {
	ClientID        string
	StartDate       string
	EndDate         string
	IncludeWeekends bool
	ApprovedOnly    bool
	IncludeNotes    bool
}

type DetailRow struct {
	Date                 string  `json:"date"`
	ConsultantName       string  `json:"consultantName"`
	ProjectID            string  `json:"projectId"`
	ProjectTask          string  `json:"projectTask"`
	ClientFacingHours    float64 `json:"clientFacingHours"`
	NonClientFacingHours float64 `json:"nonClientFacingHours"`
	OtherTaskHours       float64 `json:"otherTaskHours"`
	TotalHours           float64 `json:"totalHours"`
	Status               string  `json:"status"`
	Notes                string  `json:"notes,omitempty"`
}

type WeekSummary struct {
	ISOWeek string  `json:"isoWeek"`
	Hours   float64 `json:"hours"`
}

type MonthSummary struct {
	Month string  `json:"month"`
	Hours float64 `json:"hours"`
}

type PersonSummary struct {
	ConsultantName string  `json:"consultantName"`
	Hours          float64 `json:"hours"`
}

type CategorySummary struct {
	Category string  `json:"category"`
	Hours    float64 `json:"hours"`
}

type ClientActivitySummary struct {
	ByWeek     []WeekSummary     `json:"byWeek"`
	ByMonth    []MonthSummary    `json:"byMonth"`
	ByPerson   []PersonSummary   `json:"byPerson"`
	ByCategory []CategorySummary `json:"byCategory"`
}

type ClientActivityReport struct {
	Summary ClientActivitySummary `json:"summary"`
	Detail  []DetailRow           `json:"detail"`
}

const (
	CategoryClientFacing    = "Client Facing"
	CategoryNonClientFacing = "Non-Client Facing"
	CategoryOther           = "Other"
)

func sumTotalHours(lines []activityLine) float64 {
	total := 0.0
	for _, l := range lines {
		total += l.TotalHours
	}
	return total
}

// activityLine is the joined row shape pulled from the store.
type activityLine struct {
	TimecardDate         string  `gorm:"column:timecard_date"`
	ConsultantFirstName  string  `gorm:"column:consultant_first_name"`
	ConsultantSurname    string  `gorm:"column:consultant_surname"`
	ProjectID            string  `gorm:"column:project_id"`
	ProjectTask          string  `gorm:"column:project_task"`
	ClientFacingHours    float64 `gorm:"column:client_facing_hours"`
	NonClientFacingHours float64 `gorm:"column:non_client_facing_hours"`
	OtherTaskHours       float64 `gorm:"column:other_task_hours"`
	TotalHours           float64 `gorm:"column:total_hours"`
	Status               string  `gorm:"column:status"`
	Notes                *string `gorm:"column:notes"`
}

// BuildClientActivityReport validates the required filters, fetches the
// client's lines in range, and reduces them into the four summary views plus
// the detail list.
func BuildClientActivityReport(db *gorm.DB, params ClientActivityParams) (*ClientActivityReport, error) {
	if params.ClientID == "" {
		return nil, core.NewValidation("clientId is required")
	}
	if params.StartDate == "" || params.EndDate == "" {
		return nil, core.NewValidation("startDate and endDate are required")
	}
	if _, err := utils.ParseDate(params.StartDate); err != nil {
		return nil, core.NewValidation("startDate must be yyyy-MM-dd")
	}
	if _, err := utils.ParseDate(params.EndDate); err != nil {
		return nil, core.NewValidation("endDate must be yyyy-MM-dd")
	}

	lines, err := fetchActivityLines(db, params)
	if err != nil {
		return nil, err
	}

	report := &ClientActivityReport{Detail: make([]DetailRow, 0, len(lines))}

	kept := make([]activityLine, 0, len(lines))
	byCategory := map[string]float64{}

	for _, line := range lines {
		date, err := utils.ParseDate(line.TimecardDate)
		if err != nil {
			return nil, core.WrapStorage("timecard line has a malformed date", err)
		}
		if !params.IncludeWeekends && utils.IsWeekend(date) {
			continue
		}
		kept = append(kept, line)

		byCategory[CategoryClientFacing] += line.ClientFacingHours
		byCategory[CategoryNonClientFacing] += line.NonClientFacingHours
		byCategory[CategoryOther] += line.OtherTaskHours

		row := DetailRow{
			Date:                 line.TimecardDate,
			ConsultantName:       line.ConsultantFirstName + " " + line.ConsultantSurname,
			ProjectID:            line.ProjectID,
			ProjectTask:          line.ProjectTask,
			ClientFacingHours:    line.ClientFacingHours,
			NonClientFacingHours: line.NonClientFacingHours,
			OtherTaskHours:       line.OtherTaskHours,
			TotalHours:           line.TotalHours,
			Status:               line.Status,
		}
		if params.IncludeNotes && line.Notes != nil {
			row.Notes = *line.Notes
		}
		report.Detail = append(report.Detail, row)
	}

	// Dates in kept are already validated, so MustParseDate is safe here.
	for week, group := range utils.GroupBy(kept, func(l activityLine) string {
		return utils.FormatISOWeek(utils.MustParseDate(l.TimecardDate))
	}) {
		report.Summary.ByWeek = append(report.Summary.ByWeek, WeekSummary{ISOWeek: week, Hours: Round2(sumTotalHours(group))})
	}
	for month, group := range utils.GroupBy(kept, func(l activityLine) string {
		return utils.FormatMonth(utils.MustParseDate(l.TimecardDate))
	}) {
		report.Summary.ByMonth = append(report.Summary.ByMonth, MonthSummary{Month: month, Hours: Round2(sumTotalHours(group))})
	}
	for person, group := range utils.GroupBy(kept, func(l activityLine) string {
		return l.ConsultantFirstName + " " + l.ConsultantSurname
	}) {
		report.Summary.ByPerson = append(report.Summary.ByPerson, PersonSummary{ConsultantName: person, Hours: Round2(sumTotalHours(group))})
	}
	for category, hours := range byCategory {
		report.Summary.ByCategory = append(report.Summary.ByCategory, CategorySummary{Category: category, Hours: Round2(hours)})
	}

	sort.Slice(report.Summary.ByWeek, func(i, j int) bool {
		return report.Summary.ByWeek[i].ISOWeek < report.Summary.ByWeek[j].ISOWeek
	})
	sort.Slice(report.Summary.ByMonth, func(i, j int) bool {
		return report.Summary.ByMonth[i].Month < report.Summary.ByMonth[j].Month
	})
	sort.Slice(report.Summary.ByPerson, func(i, j int) bool {
		return report.Summary.ByPerson[i].ConsultantName < report.Summary.ByPerson[j].ConsultantName
	})
	sort.Slice(report.Summary.ByCategory, func(i, j int) bool {
		return report.Summary.ByCategory[i].Category < report.Summary.ByCategory[j].Category
	})

	return report, nil
}

func fetchActivityLines(db *gorm.DB, params ClientActivityParams) ([]activityLine, error) {
	query := db.Table("timecard_lines t").
		Select(`t.timecard_date, t.project_id, t.project_task,
			t.client_facing_hours, t.non_client_facing_hours, t.other_task_hours,
			t.total_hours, t.status, t.notes,
			COALESCE(c.first_name, '') AS consultant_first_name,
			COALESCE(c.surname, '') AS consultant_surname`).
		Joins("LEFT JOIN consultants c ON c.id = t.consultant_id").
		Where("t.client_id = ?", params.ClientID).
		Where("t.timecard_date BETWEEN ? AND ?", params.StartDate, params.EndDate)

	if params.ApprovedOnly {
		query = query.Where("t.status = ?", model.LineStatusApproved)
	}

	var lines []activityLine
	if err := query.Order("t.timecard_date ASC, consultant_surname ASC").Find(&lines).Error; err != nil {
		return nil, core.WrapStorage("failed to fetch timecard lines", err)
	}
	return lines, nil
}

// Round2 rounds report output to two decimal places.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}

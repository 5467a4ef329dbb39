// Package benchmark owns target-hours agreements and their temporal history.
// Every mutation of a live row forks the pre-change state into the
// benchmark_history table first; the pair of writes runs inside one
// transaction so a crash can never leave a snapshot without its change or
// vice versa.
package benchmark

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

// BenchmarkWithConsultant is a live row joined with the consultant's display
// name, the shape handed back to the SPA.
type BenchmarkWithConsultant struct {
	model.Benchmark
	ConsultantFirstName string `gorm:"column:consultant_first_name" json:"-"`
	ConsultantSurname   string `gorm:"column:consultant_surname" json:"-"`
	ConsultantName      string `gorm:"-" json:"consultantName"`
}

func (b *BenchmarkWithConsultant) fillName() {
	b.ConsultantName = strings.TrimSpace(b.ConsultantFirstName + " " + b.ConsultantSurname)
}

type CreateInput struct {
	ClientID         string
	ConsultantID     string
	Role             string
	LowHours         float64
	TargetHours      float64
	HighHours        float64
	BillRate         float64
	EffectiveDate    string
	DistributionType model.DistributionType
}

func Create(db *gorm.DB, in CreateInput) (string, error) {
	if in.ClientID == "" || in.ConsultantID == "" {
		return "", core.NewValidation("ClientID and ConsultantID are required")
	}
	dist := in.DistributionType
	if dist == "" {
		dist = model.DistributionLinear
	}
	if !dist.Valid() {
		return "", core.NewValidation("unknown distribution type %q", dist)
	}
	if in.EffectiveDate != "" {
		if _, err := utils.ParseDate(in.EffectiveDate); err != nil {
			return "", core.NewValidation("EffectiveDate must be yyyy-MM-dd")
		}
	}

	b := model.Benchmark{
		ID:               uuid.NewString(),
		ClientID:         in.ClientID,
		ConsultantID:     in.ConsultantID,
		Role:             in.Role,
		LowHours:         in.LowHours,
		TargetHours:      in.TargetHours,
		HighHours:        in.HighHours,
		BillRate:         in.BillRate,
		EffectiveDate:    in.EffectiveDate,
		DistributionType: dist,
	}
	if err := db.Create(&b).Error; err != nil {
		return "", core.WrapStorage("failed to create benchmark", err)
	}
	return b.ID, nil
}

type Patch struct {
	Role             *string
	LowHours         *float64
	TargetHours      *float64
	HighHours        *float64
	BillRate         *float64
	EffectiveDate    *string
	DistributionType *model.DistributionType
}

// Update snapshots the live row into history with EndDate = periodStart (or
// now when absent), then applies the patch, all in one transaction. Returns
// the refreshed row joined with the consultant's name.
func Update(db *gorm.DB, id string, patch Patch, periodStart *time.Time) (*BenchmarkWithConsultant, error) {
	if patch.DistributionType != nil && !patch.DistributionType.Valid() {
		return nil, core.NewValidation("unknown distribution type %q", *patch.DistributionType)
	}
	if patch.EffectiveDate != nil {
		if _, err := utils.ParseDate(*patch.EffectiveDate); err != nil {
			return nil, core.NewValidation("EffectiveDate must be yyyy-MM-dd")
		}
	}

	endDate := time.Now().UTC()
	if periodStart != nil {
		endDate = periodStart.UTC()
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		var live model.Benchmark
		if err := tx.First(&live, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.NewNotFound("benchmark %s not found", id)
			}
			return core.WrapStorage("failed to load benchmark", err)
		}

		history := snapshot(live, endDate)
		if err := tx.Create(&history).Error; err != nil {
			return core.WrapStorage("failed to write benchmark history", err)
		}

		applyPatch(&live, patch)
		live.UpdatedAt = time.Now().UTC()
		if err := tx.Save(&live).Error; err != nil {
			return core.WrapStorage("failed to update benchmark", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return Get(db, id)
}

// Delete snapshots the live row with the far-future sentinel end date
// ("deleted, never superseded"), then physically removes it.
func Delete(db *gorm.DB, id string) (bool, error) {
	err := db.Transaction(func(tx *gorm.DB) error {
		var live model.Benchmark
		if err := tx.First(&live, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return core.NewNotFound("benchmark %s not found", id)
			}
			return core.WrapStorage("failed to load benchmark", err)
		}

		history := snapshot(live, model.DeletedBenchmarkEndDate)
		if err := tx.Create(&history).Error; err != nil {
			return core.WrapStorage("failed to write benchmark history", err)
		}

		if err := tx.Delete(&model.Benchmark{}, "id = ?", id).Error; err != nil {
			return core.WrapStorage("failed to delete benchmark", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return true, nil
}

// BulkUpdateDistributionType applies snapshot-then-update per id, skipping
// ids that don't exist, and returns the ids actually updated. The loop is
// deliberately not atomic across the list: a failure partway leaves earlier
// ids updated. Each single id is still transactional.
func BulkUpdateDistributionType(db *gorm.DB, ids []string, distributionType model.DistributionType) ([]string, error) {
	if !distributionType.Valid() {
		return nil, core.NewValidation("unknown distribution type %q", distributionType)
	}

	updated := make([]string, 0, len(ids))
	for _, id := range ids {
		_, err := Update(db, id, Patch{DistributionType: &distributionType}, nil)
		if err != nil {
			if core.KindOf(err) == core.KindNotFound {
				continue
			}
			return updated, err
		}
		updated = append(updated, id)
	}
	return updated, nil
}

// Get loads a live row joined with the consultant's name.
func Get(db *gorm.DB, id string) (*BenchmarkWithConsultant, error) {
	var row BenchmarkWithConsultant
	err := db.Table("benchmarks b").
		Select("b.*, COALESCE(c.first_name, '') AS consultant_first_name, COALESCE(c.surname, '') AS consultant_surname").
		Joins("LEFT JOIN consultants c ON c.id = b.consultant_id").
		Where("b.id = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NewNotFound("benchmark %s not found", id)
		}
		return nil, core.WrapStorage("failed to load benchmark", err)
	}
	row.fillName()
	return &row, nil
}

// ListByClient returns the live benchmarks for a client with consultant
// names, newest effective date first.
func ListByClient(db *gorm.DB, clientID string) ([]BenchmarkWithConsultant, error) {
	var rows []BenchmarkWithConsultant
	err := db.Table("benchmarks b").
		Select("b.*, COALESCE(c.first_name, '') AS consultant_first_name, COALESCE(c.surname, '') AS consultant_surname").
		Joins("LEFT JOIN consultants c ON c.id = b.consultant_id").
		Where("b.client_id = ?", clientID).
		Order("b.effective_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list benchmarks", err)
	}
	for i := range rows {
		rows[i].fillName()
	}
	return rows, nil
}

// History returns the audit trail for a benchmark, most recent boundary
// first.
func History(db *gorm.DB, benchmarkID string) ([]model.BenchmarkHistory, error) {
	var rows []model.BenchmarkHistory
	err := db.Where("benchmark_id = ?", benchmarkID).
		Order("end_date DESC").
		Find(&rows).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list benchmark history", err)
	}
	return rows, nil
}

func snapshot(live model.Benchmark, endDate time.Time) model.BenchmarkHistory {
	return model.BenchmarkHistory{
		ID:               uuid.NewString(),
		BenchmarkID:      live.ID,
		ClientID:         live.ClientID,
		ConsultantID:     live.ConsultantID,
		Role:             live.Role,
		LowHours:         live.LowHours,
		TargetHours:      live.TargetHours,
		HighHours:        live.HighHours,
		BillRate:         live.BillRate,
		EffectiveDate:    live.EffectiveDate,
		DistributionType: live.DistributionType,
		EndDate:          endDate,
	}
}

func applyPatch(live *model.Benchmark, patch Patch) {
	if patch.Role != nil {
		live.Role = *patch.Role
	}
	if patch.LowHours != nil {
		live.LowHours = *patch.LowHours
	}
	if patch.TargetHours != nil {
		live.TargetHours = *patch.TargetHours
	}
	if patch.HighHours != nil {
		live.HighHours = *patch.HighHours
	}
	if patch.BillRate != nil {
		live.BillRate = *patch.BillRate
	}
	if patch.EffectiveDate != nil {
		live.EffectiveDate = *patch.EffectiveDate
	}
	if patch.DistributionType != nil {
		live.DistributionType = *patch.DistributionType
	}
}

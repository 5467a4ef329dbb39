package report

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

func seedFinancialFixture(t *testing.T, db *gorm.DB) model.Contract {
	t.Helper()
	require.NoError(t, db.Create(&model.Client{ID: "cl-1", Name: "Acme Corp"}).Error)
	require.NoError(t, db.Create(&model.Consultant{
		ID: "con-1", FirstName: "Jane", Surname: "Doe",
	}).Error)

	contract := model.Contract{
		ID:                   uuid.NewString(),
		ClientID:             "cl-1",
		StartDate:            "2023-06-01",
		EndDate:              utils.Ptr("2024-12-31"),
		CFOName:              utils.Ptr("Jane Doe"),
		CFOMonthlyFee:        9000,
		ControllerName:       utils.Ptr("Bob Lee"),
		ControllerMonthlyFee: 4500,
		AdditionalStaff:      datatypes.JSON(`[{"name":"Ada King","role":"Analyst","monthlyFee":2000}]`),
	}
	require.NoError(t, db.Create(&contract).Error)

	// Approved hours logged by Jane for the client inside the range.
	seedLine(t, db, lineSeed{
		consultantID: "con-1", clientID: "cl-1", date: "2024-01-03",
		clientFacing: 3.5, status: model.LineStatusApproved,
	})
	// Open hours must not count.
	seedLine(t, db, lineSeed{
		consultantID: "con-1", clientID: "cl-1", date: "2024-01-04",
		clientFacing: 8, status: model.LineStatusOpen,
	})
	return contract
}

func TestGetFinancialData(t *testing.T) {
	db := newTestDB(t)
	contract := seedFinancialFixture(t, db)

	t.Run("fans out roles and joins approved hours", func(t *testing.T) {
		items, err := GetFinancialData(db, FinancialParams{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
		})
		require.NoError(t, err)
		require.Len(t, items, 3)

		byRole := map[string]FinancialLineItem{}
		for _, item := range items {
			byRole[item.Role] = item
		}

		cfo := byRole["CFO"]
		assert.Equal(t, contract.ID, cfo.ContractID)
		assert.Equal(t, "Acme Corp", cfo.ClientName)
		assert.Equal(t, "Jane Doe", cfo.ConsultantName)
		assert.Equal(t, 9000.0, cfo.MonthlyFee)
		assert.Equal(t, 3.5, cfo.ActualHours)
		assert.Equal(t, 11, cfo.MonthsRemaining)

		assert.Equal(t, 0.0, byRole["Controller"].ActualHours)
		assert.Equal(t, "Ada King", byRole["Analyst"].ConsultantName)
		assert.Equal(t, 2000.0, byRole["Analyst"].MonthlyFee)
	})

	t.Run("consultant filter narrows the fan-out", func(t *testing.T) {
		items, err := GetFinancialData(db, FinancialParams{
			StartDate:     "2024-01-01",
			EndDate:       "2024-01-31",
			ConsultantIDs: []string{"con-1"},
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		assert.Equal(t, "CFO", items[0].Role)
	})

	t.Run("ended contract excluded from a later range", func(t *testing.T) {
		ended := model.Contract{
			ID:            uuid.NewString(),
			ClientID:      "cl-1",
			StartDate:     "2022-01-01",
			EndDate:       utils.Ptr("2022-06-30"),
			EndReason:     utils.Ptr("engagement complete"),
			CFOName:       utils.Ptr("Sam Hill"),
			CFOMonthlyFee: 7000,
		}
		require.NoError(t, db.Create(&ended).Error)
		t.Cleanup(func() { db.Delete(&model.Contract{}, "id = ?", ended.ID) })

		items, err := GetFinancialData(db, FinancialParams{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
		})
		require.NoError(t, err)
		for _, item := range items {
			assert.NotEqual(t, ended.ID, item.ContractID)
		}
	})

	t.Run("end date without reason keeps the contract", func(t *testing.T) {
		open := model.Contract{
			ID:            uuid.NewString(),
			ClientID:      "cl-1",
			StartDate:     "2022-01-01",
			EndDate:       utils.Ptr("2022-06-30"),
			CFOName:       utils.Ptr("Sam Hill"),
			CFOMonthlyFee: 7000,
		}
		require.NoError(t, db.Create(&open).Error)
		t.Cleanup(func() { db.Delete(&model.Contract{}, "id = ?", open.ID) })

		items, err := GetFinancialData(db, FinancialParams{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
		})
		require.NoError(t, err)
		found := false
		for _, item := range items {
			if item.ContractID == open.ID {
				found = true
			}
		}
		assert.True(t, found)
	})

	t.Run("client filter", func(t *testing.T) {
		items, err := GetFinancialData(db, FinancialParams{
			StartDate: "2024-01-01",
			EndDate:   "2024-01-31",
			ClientIDs: []string{"no-such-client"},
		})
		require.NoError(t, err)
		assert.Empty(t, items)
	})

	t.Run("missing dates fail fast", func(t *testing.T) {
		_, err := GetFinancialData(db, FinancialParams{StartDate: "2024-01-01"})
		assert.Equal(t, core.KindValidation, core.KindOf(err))
	})
}

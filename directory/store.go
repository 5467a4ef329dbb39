// Package directory manages the reference entities the rest of the system
// joins against: consultants, clients and their contracts.
package directory

import (
	"encoding/json"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/utils"
)

func GetConsultants(db *gorm.DB) ([]model.Consultant, error) {
	var consultants []model.Consultant
	err := db.Order("surname ASC, first_name ASC").Find(&consultants).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list consultants", err)
	}
	return consultants, nil
}

// FindConsultantByName resolves a free-form name the way the financial
// report joins hours: case-insensitive, whitespace-normalized.
func FindConsultantByName(db *gorm.DB, name string) (*model.Consultant, error) {
	var consultants []model.Consultant
	if err := db.Find(&consultants).Error; err != nil {
		return nil, core.WrapStorage("failed to list consultants", err)
	}

	target := utils.NormalizeName(name)
	match := utils.Find(consultants, func(c *model.Consultant) bool {
		return utils.NormalizeName(c.DisplayName()) == target
	})
	if match == nil {
		return nil, nil
	}
	return match, nil
}

type ConsultantInput struct {
	FirstName string  `json:"firstName"`
	Surname   string  `json:"surname"`
	Email     *string `json:"email"`
	Role      string  `json:"role"`
}

func CreateConsultant(db *gorm.DB, in ConsultantInput) (string, error) {
	if strings.TrimSpace(in.FirstName) == "" || strings.TrimSpace(in.Surname) == "" {
		return "", core.NewValidation("firstName and surname are required")
	}

	consultant := model.Consultant{
		ID:        uuid.NewString(),
		FirstName: strings.TrimSpace(in.FirstName),
		Surname:   strings.TrimSpace(in.Surname),
		Email:     in.Email,
		Role:      in.Role,
		Status:    "Active",
	}
	if err := db.Create(&consultant).Error; err != nil {
		return "", core.WrapStorage("failed to create consultant", err)
	}
	return consultant.ID, nil
}

func GetClients(db *gorm.DB) ([]model.Client, error) {
	var clients []model.Client
	err := db.Order("name ASC").Find(&clients).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list clients", err)
	}
	return clients, nil
}

type ClientInput struct {
	Name        string  `json:"name"`
	Industry    *string `json:"industry"`
	ContactName *string `json:"contactName"`
}

func CreateClient(db *gorm.DB, in ClientInput) (string, error) {
	if strings.TrimSpace(in.Name) == "" {
		return "", core.NewValidation("name is required")
	}

	client := model.Client{
		ID:          uuid.NewString(),
		Name:        strings.TrimSpace(in.Name),
		Industry:    in.Industry,
		ContactName: in.ContactName,
		Status:      "Active",
	}
	if err := db.Create(&client).Error; err != nil {
		return "", core.WrapStorage("failed to create client", err)
	}
	return client.ID, nil
}

type ContractInput struct {
	ClientID  string  `json:"clientId"`
	StartDate string  `json:"startDate"`
	EndDate   *string `json:"endDate"`
	EndReason *string `json:"endReason"`

	// Fee figures arrive as free-form strings from spreadsheet imports;
	// anything unparseable ingests as 0.
	CFOName              *string `json:"cfoName"`
	CFOMonthlyFee        string  `json:"cfoMonthlyFee"`
	ControllerName       *string `json:"controllerName"`
	ControllerMonthlyFee string  `json:"controllerMonthlyFee"`
	SeniorAccountantName *string `json:"seniorAccountantName"`
	SeniorAccountantFee  string  `json:"seniorAccountantFee"`
	SoftwareName         *string `json:"softwareName"`
	SoftwareMonthlyFee   string  `json:"softwareMonthlyFee"`

	AdditionalStaff []model.AdditionalStaffEntry `json:"additionalStaff"`
}

func CreateContract(db *gorm.DB, in ContractInput) (string, error) {
	if in.ClientID == "" {
		return "", core.NewValidation("clientId is required")
	}
	if _, err := utils.ParseDate(in.StartDate); err != nil {
		return "", core.NewValidation("startDate must be yyyy-MM-dd")
	}
	if in.EndDate != nil {
		if _, err := utils.ParseDate(*in.EndDate); err != nil {
			return "", core.NewValidation("endDate must be yyyy-MM-dd")
		}
	}

	var count int64
	if err := db.Model(&model.Client{}).Where("id = ?", in.ClientID).Count(&count).Error; err != nil {
		return "", core.WrapStorage("failed to fetch client", err)
	}
	if count == 0 {
		return "", core.NewNotFound("client %s not found", in.ClientID)
	}

	contract := model.Contract{
		ID:        uuid.NewString(),
		ClientID:  in.ClientID,
		StartDate: in.StartDate,
		EndDate:   in.EndDate,
		EndReason: in.EndReason,

		CFOName:              in.CFOName,
		CFOMonthlyFee:        utils.ParseAmount(in.CFOMonthlyFee),
		ControllerName:       in.ControllerName,
		ControllerMonthlyFee: utils.ParseAmount(in.ControllerMonthlyFee),
		SeniorAccountantName: in.SeniorAccountantName,
		SeniorAccountantFee:  utils.ParseAmount(in.SeniorAccountantFee),
		SoftwareName:         in.SoftwareName,
		SoftwareMonthlyFee:   utils.ParseAmount(in.SoftwareMonthlyFee),
	}
	if len(in.AdditionalStaff) > 0 {
		raw, err := json.Marshal(in.AdditionalStaff)
		if err != nil {
			return "", core.NewValidation("additionalStaff is not valid JSON")
		}
		contract.AdditionalStaff = datatypes.JSON(raw)
	}

	if err := db.Create(&contract).Error; err != nil {
		return "", core.WrapStorage("failed to create contract", err)
	}
	return contract.ID, nil
}

func GetContractsByClient(db *gorm.DB, clientID string) ([]model.Contract, error) {
	var contracts []model.Contract
	err := db.Where("client_id = ?", clientID).
		Order("start_date DESC").Find(&contracts).Error
	if err != nil {
		return nil, core.WrapStorage("failed to list contracts", err)
	}
	return contracts, nil
}

// EndContract stamps the end date and reason that take a contract out of
// financial reporting ranges past that date.
func EndContract(db *gorm.DB, id, endDate, endReason string) (*model.Contract, error) {
	if _, err := utils.ParseDate(endDate); err != nil {
		return nil, core.NewValidation("endDate must be yyyy-MM-dd")
	}
	if strings.TrimSpace(endReason) == "" {
		return nil, core.NewValidation("endReason is required")
	}

	var contract model.Contract
	if err := db.First(&contract, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, core.NewNotFound("contract %s not found", id)
		}
		return nil, core.WrapStorage("failed to fetch contract", err)
	}

	contract.EndDate = &endDate
	contract.EndReason = &endReason
	if err := db.Save(&contract).Error; err != nil {
		return nil, core.WrapStorage("failed to end contract", err)
	}
	return &contract, nil
}

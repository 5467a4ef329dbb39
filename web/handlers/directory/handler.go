package directory

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"meridianadvisory.com/backoffice/core"
	"meridianadvisory.com/backoffice/directory"
	"meridianadvisory.com/backoffice/model"
	"meridianadvisory.com/backoffice/web/common"
)

type Endpoint struct {
	base common.Handler
}

func Register(r *gin.RouterGroup, dm *core.DatabaseManager) {
	endpoint := &Endpoint{base: common.Handler{Dm: dm}}

	r.GET("/consultants", endpoint.ListConsultants)
	r.POST("/consultants", endpoint.CreateConsultant)
	r.GET("/clients", endpoint.ListClients)
	r.POST("/clients", endpoint.CreateClient)
	r.GET("/clients/:id/contracts", endpoint.ListContracts)
	r.POST("/contracts", endpoint.CreateContract)
	r.POST("/contracts/:id/end", endpoint.EndContract)
}

func (ep *Endpoint) ListConsultants(c *gin.Context) {
	var consultants []model.Consultant
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		consultants, err = directory.GetConsultants(db)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(consultants, int64(len(consultants))))
}

func (ep *Endpoint) CreateConsultant(c *gin.Context) {
	var input directory.ConsultantInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = directory.CreateConsultant(db, input)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

func (ep *Endpoint) ListClients(c *gin.Context) {
	var clients []model.Client
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		clients, err = directory.GetClients(db)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(clients, int64(len(clients))))
}

func (ep *Endpoint) CreateClient(c *gin.Context) {
	var input directory.ClientInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = directory.CreateClient(db, input)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

func (ep *Endpoint) ListContracts(c *gin.Context) {
	var contracts []model.Contract
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		contracts, err = directory.GetContractsByClient(db, c.Param("id"))
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSearchResponse(contracts, int64(len(contracts))))
}

func (ep *Endpoint) CreateContract(c *gin.Context) {
	var input directory.ContractInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var id string
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		id, err = directory.CreateContract(db, input)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, common.NewSuccessResponse(gin.H{"id": id}))
}

type EndContractDTO struct {
	EndDate   string `json:"endDate" binding:"required,datetime=2006-01-02"`
	EndReason string `json:"endReason" binding:"required"`
}

func (ep *Endpoint) EndContract(c *gin.Context) {
	var dto EndContractDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		c.JSON(http.StatusBadRequest, common.NewErrorResponse(common.FormatBindingError(err)))
		return
	}

	var contract *model.Contract
	err := ep.base.Dm.Exec(c.Request.Context(), func(db *gorm.DB) error {
		var err error
		contract, err = directory.EndContract(db, c.Param("id"), dto.EndDate, dto.EndReason)
		return err
	})
	if err != nil {
		common.RespondError(c, err)
		return
	}

	c.JSON(http.StatusOK, common.NewSuccessResponse(contract))
}

package handler

import (
	"errors"
	"net/http"
	"strconv"

	"vehicletax/internal/ledger"
	"vehicletax/internal/middleware"
	"vehicletax/internal/model"
	"vehicletax/internal/service"
	"vehicletax/pkg/response"

	"github.com/gin-gonic/gin"
)

type TaxRecordHandler struct {
	taxService service.TaxRecordService
}

func NewTaxRecordHandler(taxService service.TaxRecordService) *TaxRecordHandler {
	return &TaxRecordHandler{taxService: taxService}
}

func (h *TaxRecordHandler) RegisterRoutes(router *gin.RouterGroup) {
	records := router.Group("/api/tax-records")
	{
		records.POST("", middleware.RequireRole("admin", "staff"), h.Generate)
		records.POST("/pay", middleware.RequireRole("admin", "staff"), h.Pay)
		records.POST("/validate", middleware.RequireRole("admin"), h.Validate)
		records.GET("/:plate/:year", middleware.RequireRole("admin", "staff", "auditor"), h.GetRecord)
	}
}

// Generate creates the annual tax record for a vehicle in state GENERATED
func (h *TaxRecordHandler) Generate(c *gin.Context) {
	var req service.GenerateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rec, err := h.taxService.Generate(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusCreated, response.Success(http.StatusCreated, rec))
}

// Pay marks a generated tax record as paid through the given bank
func (h *TaxRecordHandler) Pay(c *gin.Context) {
	var req service.PayTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rec, err := h.taxService.Pay(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// Validate confirms a paid tax record on the authority side
func (h *TaxRecordHandler) Validate(c *gin.Context) {
	var req service.ValidateTaxRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid request payload: "+err.Error()))
		return
	}

	rec, err := h.taxService.Validate(c.Request.Context(), req, c.GetString("userID"))
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// GetRecord fetches one tax record by plate and payable year
func (h *TaxRecordHandler) GetRecord(c *gin.Context) {
	year, err := strconv.Atoi(c.Param("year"))
	if err != nil {
		c.JSON(http.StatusBadRequest, response.Error(http.StatusBadRequest, "Invalid year: "+c.Param("year")))
		return
	}

	rec, err := h.taxService.GetRecord(c.Request.Context(), c.Param("plate"), year)
	if err != nil {
		status := statusForError(err)
		c.JSON(status, response.Error(status, err.Error()))
		return
	}

	c.JSON(http.StatusOK, response.Success(http.StatusOK, rec))
}

// statusForError maps the domain error taxonomy onto HTTP statuses:
// bad input 400, missing record 404, illegal transition or write conflict
// 409, anything else (store failures) 500.
func statusForError(err error) int {
	var transitionErr *model.InvalidStateTransitionError
	switch {
	case errors.Is(err, model.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrRecordNotFound):
		return http.StatusNotFound
	case errors.Is(err, ledger.ErrVersionConflict):
		return http.StatusConflict
	case errors.As(err, &transitionErr):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

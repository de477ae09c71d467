package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fintrack/internal/service"
)

// IncomeHandler handles the caller's income records.
type IncomeHandler struct {
	incomeService service.IncomeService
}

// NewIncomeHandler creates a new income handler.
func NewIncomeHandler(incomeService service.IncomeService) *IncomeHandler {
	return &IncomeHandler{incomeService: incomeService}
}

// IncomeRequest represents a new income.
type IncomeRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Description string     `json:"description" validate:"required,max=500"`
	Source      string     `json:"source,omitempty" example:"Salary"`
}

// IncomeUpdateRequest represents a partial income update. Omitted fields are unchanged.
type IncomeUpdateRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Source      *string    `json:"source,omitempty" example:"Freelance"`
}

// List godoc
// @Summary List or search incomes
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive search over description and source"
// @Success 200 {array} model.Income
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /incomes [get]
func (h *IncomeHandler) List(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	incomes, err := h.incomeService.List(c.Request().Context(), identity, searchQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, incomes)
}

// Get godoc
// @Summary Get an income
// @Tags incomes
// @Produce json
// @Security BearerAuth
// @Param id path int true "Income ID"
// @Success 200 {object} model.Income
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /incomes/{id} [get]
func (h *IncomeHandler) Get(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	income, err := h.incomeService.Get(c.Request().Context(), identity, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, income)
}

// Create godoc
// @Summary Record an income
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body IncomeRequest true "Income"
// @Success 201 {object} model.Income
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /incomes [post]
func (h *IncomeHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req IncomeRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.IncomeInput{
		Amount:      req.Amount,
		Description: req.Description,
		Source:      req.Source,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	income, err := h.incomeService.Create(c.Request().Context(), identity, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, income)
}

// Update godoc
// @Summary Edit an income
// @Tags incomes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Income ID"
// @Param request body IncomeUpdateRequest true "Fields to change"
// @Success 200 {object} model.Income
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /incomes/{id} [patch]
func (h *IncomeHandler) Update(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req IncomeUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	income, err := h.incomeService.Update(c.Request().Context(), identity, id, service.IncomePatch{
		Date:        req.Date,
		Amount:      req.Amount,
		Description: req.Description,
		Source:      req.Source,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, income)
}

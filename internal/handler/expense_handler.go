package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"fintrack/internal/service"
)

// ExpenseHandler handles the caller's expense records.
type ExpenseHandler struct {
	expenseService service.ExpenseService
}

// NewExpenseHandler creates a new expense handler.
func NewExpenseHandler(expenseService service.ExpenseService) *ExpenseHandler {
	return &ExpenseHandler{expenseService: expenseService}
}

// ExpenseRequest represents a new expense.
type ExpenseRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Amount      float64    `json:"amount" validate:"required,gt=0"`
	Description string     `json:"description" validate:"required,max=500"`
	Category    string     `json:"category,omitempty" example:"Groceries"`
}

// ExpenseUpdateRequest represents a partial expense update. Omitted fields are unchanged.
type ExpenseUpdateRequest struct {
	Date        *time.Time `json:"date,omitempty"`
	Amount      *float64   `json:"amount,omitempty" validate:"omitempty,gt=0"`
	Description *string    `json:"description,omitempty" validate:"omitempty,max=500"`
	Category    *string    `json:"category,omitempty" example:"Transport"`
}

// List godoc
// @Summary List or search expenses
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param q query string false "Case-insensitive search over description and category"
// @Success 200 {array} model.Expense
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /expenses [get]
func (h *ExpenseHandler) List(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}

	expenses, err := h.expenseService.List(c.Request().Context(), identity, searchQuery(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, expenses)
}

// Get godoc
// @Summary Get an expense
// @Tags expenses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/{id} [get]
func (h *ExpenseHandler) Get(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}

	expense, err := h.expenseService.Get(c.Request().Context(), identity, id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

// Create godoc
// @Summary Record an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ExpenseRequest true "Expense"
// @Success 201 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /expenses [post]
func (h *ExpenseHandler) Create(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	var req ExpenseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	in := service.ExpenseInput{
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	}
	if req.Date != nil {
		in.Date = *req.Date
	}

	expense, err := h.expenseService.Create(c.Request().Context(), identity, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, expense)
}

// Update godoc
// @Summary Edit an expense
// @Tags expenses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Expense ID"
// @Param request body ExpenseUpdateRequest true "Fields to change"
// @Success 200 {object} model.Expense
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /expenses/{id} [patch]
func (h *ExpenseHandler) Update(c echo.Context) error {
	identity, err := currentIdentity(c)
	if err != nil {
		return err
	}
	id, err := parseID(c)
	if err != nil {
		return err
	}
	var req ExpenseUpdateRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	expense, err := h.expenseService.Update(c.Request().Context(), identity, id, service.ExpensePatch{
		Date:        req.Date,
		Amount:      req.Amount,
		Description: req.Description,
		Category:    req.Category,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, expense)
}

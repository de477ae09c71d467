package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"

	"fintrack/internal/handler"
	"fintrack/internal/middleware"
)

// Handlers groups the HTTP handlers served by the API.
type Handlers struct {
	Users    *handler.UserHandler
	Expenses *handler.ExpenseHandler
	Incomes  *handler.IncomeHandler
	Summary  *handler.SummaryHandler
}

// Register wires routes and middleware.
func Register(e *echo.Echo, log *zap.Logger, resolver middleware.Resolver, h Handlers) {
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.RequestID())
	e.Use(middleware.RequestLogger(log))
	e.Use(echomw.Recover())

	e.Validator = NewValidator()

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})
	e.GET("/swagger/*", echoSwagger.WrapHandler)
	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusTemporaryRedirect, "/swagger/index.html")
	})

	requireIdentity := middleware.RequireIdentity(resolver)

	// Public routes
	users := e.Group("/users")
	users.POST("/register", h.Users.Register)
	users.POST("/token", h.Users.Token)

	// Secured routes
	users.GET("/me", h.Users.Me, requireIdentity)
	users.GET("/all", h.Users.ListAll, requireIdentity)
	users.DELETE("/:username", h.Users.Deactivate, requireIdentity)

	expenses := e.Group("/expenses", requireIdentity)
	expenses.GET("", h.Expenses.List)
	expenses.POST("", h.Expenses.Create)
	expenses.GET("/:id", h.Expenses.Get)
	expenses.PATCH("/:id", h.Expenses.Update)

	incomes := e.Group("/incomes", requireIdentity)
	incomes.GET("", h.Incomes.List)
	incomes.POST("", h.Incomes.Create)
	incomes.GET("/:id", h.Incomes.Get)
	incomes.PATCH("/:id", h.Incomes.Update)

	e.GET("/summary", h.Summary.Get, requireIdentity)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// NewValidator returns the validator installed on the echo instance.
func NewValidator() *CustomValidator {
	return &CustomValidator{validator: validator.New()}
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

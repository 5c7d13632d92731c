package handler

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/Astemirdum/library-lending/lending/internal/errs"
	"github.com/Astemirdum/library-lending/lending/internal/model"
	_ "github.com/Astemirdum/library-lending/lending/swagger"
	"github.com/Astemirdum/library-lending/pkg/auth"
	md "github.com/Astemirdum/library-lending/pkg/middleware"
	"github.com/Astemirdum/library-lending/pkg/validate"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"
	echoSwagger "github.com/swaggo/echo-swagger"
	"go.uber.org/zap"
)

type Handler struct {
	lendingSvc LendingService
	metrics    http.Handler
	log        *zap.Logger
}

// New builds the HTTP transport. metrics may be nil, in which case /metrics
// is not served.
func New(lendingSvc LendingService, log *zap.Logger, metrics http.Handler) *Handler {
	return &Handler{
		lendingSvc: lendingSvc,
		metrics:    metrics,
		log:        log.Named("handler"),
	}
}

func (h *Handler) NewRouter() *echo.Echo {
	e := echo.New()
	const (
		baseRPS = 10
		apiRPS  = 100
	)
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		StackSize: 4 << 10, // 4 KB
	}))
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{http.MethodGet, http.MethodOptions, http.MethodHead, http.MethodPost},
		AllowCredentials: true,
	}))

	base := e.Group("", md.NewRateLimiter(baseRPS))
	base.GET("/manage/health", h.Health)
	base.GET("/swagger/*", echoSwagger.WrapHandler)
	if h.metrics != nil {
		base.GET("/metrics", echo.WrapHandler(h.metrics))
	}

	e.Validator = validate.NewCustomValidator()
	api := e.Group("/api/v1",
		middleware.RequestLoggerWithConfig(md.RequestLoggerConfig(h.log)),
		middleware.RequestID(),
		md.NewRateLimiter(apiRPS),
		md.AuthContext,
	)

	txn := api.Group("/transactions")
	txn.POST("/issue-book", h.IssueBook)
	txn.POST("/return-book", h.ReturnBook)
	txn.POST("/pay-fine", h.PayFine)
	txn.GET("/book-available", h.BookAvailable)
	txn.GET("/active-issues", h.ActiveIssues)
	txn.GET("/overdue-returns", h.OverdueReturns)

	reports := api.Group("/reports")
	reports.GET("/issued-books", h.IssuedBooks)
	reports.GET("/returned-books", h.ReturnedBooks)
	reports.GET("/fine-report", h.FineReport)
	reports.GET("/user-transactions/:userId", h.UserTransactions)
	reports.GET("/overdue-returns", h.OverdueReturns)
	reports.GET("/active-issues", h.ActiveIssues)

	return e
}

func (h *Handler) Health(c echo.Context) error {
	return c.String(http.StatusOK, "OK")
}

// IssueBook godoc
// @Summary Issue a book to a user
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body model.IssueBookRequest true "issue request"
// @Success 200 {object} model.IssueResponse
// @Failure 400,404,409,422 {object} errs.ErrorResponse
// @Router /api/v1/transactions/issue-book [post]
func (h *Handler) IssueBook(c echo.Context) error {
	var req model.IssueBookRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	if req.IssueDate.IsZero() {
		return h.fail(c, errs.InvalidInput(errs.ReasonMissingField, "issue_date is required"))
	}
	resp, err := h.lendingSvc.Issue(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

// ReturnBook godoc
// @Summary Quote the fine for returning a book
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body model.ReturnBookRequest true "return request"
// @Success 200 {object} model.FineQuote
// @Failure 400,404 {object} errs.ErrorResponse
// @Router /api/v1/transactions/return-book [post]
func (h *Handler) ReturnBook(c echo.Context) error {
	var req model.ReturnBookRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	if req.ReturnDate.IsZero() {
		return h.fail(c, errs.InvalidInput(errs.ReasonMissingField, "return_date is required"))
	}
	quote, err := h.lendingSvc.InitiateReturn(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, quote)
}

// PayFine godoc
// @Summary Settle the fine and complete the return
// @Tags transactions
// @Accept json
// @Produce json
// @Param request body model.PayFineRequest true "settlement"
// @Success 200 {object} model.Confirmation
// @Failure 400,404,422 {object} errs.ErrorResponse
// @Router /api/v1/transactions/pay-fine [post]
func (h *Handler) PayFine(c echo.Context) error {
	var req model.PayFineRequest
	if err := h.bind(c, &req); err != nil {
		return h.fail(c, err)
	}
	resp, err := h.lendingSvc.SettleFine(c.Request().Context(), req)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, resp)
}

func (h *Handler) BookAvailable(c echo.Context) error {
	var filter model.BookFilter
	if err := h.bind(c, &filter); err != nil {
		return h.fail(c, err)
	}
	books, err := h.lendingSvc.AvailableBooks(c.Request().Context(), filter)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, books)
}

func (h *Handler) ActiveIssues(c echo.Context) error {
	rows, err := h.lendingSvc.ActiveIssues(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) OverdueReturns(c echo.Context) error {
	rows, err := h.lendingSvc.OverdueReport(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) IssuedBooks(c echo.Context) error {
	rows, err := h.lendingSvc.IssuedReport(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) ReturnedBooks(c echo.Context) error {
	rows, err := h.lendingSvc.ReturnedReport(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) FineReport(c echo.Context) error {
	rows, err := h.lendingSvc.FineReport(c.Request().Context())
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) UserTransactions(c echo.Context) error {
	userID, err := strconv.ParseInt(c.Param("userId"), 10, 64)
	if err != nil || userID <= 0 {
		return h.fail(c, errs.InvalidInput(errs.ReasonBadRequest, "userId is invalid"))
	}
	rows, err := h.lendingSvc.UserReport(c.Request().Context(), userID)
	if err != nil {
		return h.fail(c, err)
	}
	return c.JSON(http.StatusOK, rows)
}

func (h *Handler) bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		var he *echo.HTTPError
		if errors.As(err, &he) {
			return errs.InvalidInput(errs.ReasonBadRequest, fmt.Sprint(he.Message))
		}
		return errs.InvalidInput(errs.ReasonBadRequest, err.Error())
	}
	if err := c.Validate(req); err != nil {
		return errs.InvalidInput(errs.ReasonBadRequest, err.Error())
	}
	return nil
}

func statusOf(kind errs.Kind) int {
	switch kind {
	case errs.KindNotFound:
		return http.StatusNotFound
	case errs.KindConflict:
		return http.StatusConflict
	case errs.KindInvalidInput:
		return http.StatusBadRequest
	case errs.KindPolicyViolation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func (h *Handler) fail(c echo.Context, err error) error {
	var e *errs.Error
	if errors.As(err, &e) {
		return c.JSON(statusOf(e.Kind), errs.ErrorResponse{
			Kind:    e.Kind,
			Reason:  e.Reason,
			Message: e.Message,
		})
	}
	fields := []zap.Field{zap.String("path", c.Path()), zap.Error(err)}
	if p, perr := auth.GetPrincipal(c.Request().Context()); perr == nil {
		fields = append(fields, zap.Int64("principal_id", p.UserID), zap.String("principal_role", string(p.Role)))
	}
	h.log.Error("request failed", fields...)
	return echo.NewHTTPError(http.StatusInternalServerError, err.Error())
}

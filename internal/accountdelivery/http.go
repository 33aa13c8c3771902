// Package accountdelivery manages delivery layer of accounts.
package accountdelivery

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/go-petr/pet-ledger/internal/domain"
	"github.com/go-petr/pet-ledger/pkg/errorspkg"
	"github.com/go-petr/pet-ledger/pkg/web"
)

// Service provides service layer interface needed by account delivery layer.
//
//go:generate mockgen -source http.go -destination http_mock.go -package accountdelivery
type Service interface {
	Create(ctx context.Context, owner, initialBalance string) (domain.AccountSnapshot, error)
	Get(ctx context.Context, id string) (domain.AccountSnapshot, error)
	List(ctx context.Context, owner string, pageSize, pageID int) ([]domain.AccountSnapshot, error)
	Deposit(ctx context.Context, id, amount string) (domain.OperationResult, error)
	Withdraw(ctx context.Context, id, amount string) (domain.OperationResult, error)
	Deactivate(ctx context.Context, id string) (domain.AccountSnapshot, error)
	Transactions(ctx context.Context, id string, pageSize, pageID int) ([]domain.Transaction, error)
}

// Handler facilitates account delivery layer logic.
type Handler struct {
	service Service
}

// NewHandler returns account handler.
func NewHandler(as Service) *Handler {
	return &Handler{service: as}
}

type data struct {
	Account domain.AccountSnapshot `json:"account"`
}

type response struct {
	Data data `json:"data,omitempty"`
}

// StatusFor maps a service error to the HTTP status code returned to clients.
func StatusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound
	case errorspkg.IsCanceled(err):
		return http.StatusRequestTimeout
	case
		errors.Is(err, domain.ErrMalformedAmount),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, domain.ErrAmountOutOfBounds),
		errors.Is(err, domain.ErrInvalidTarget),
		errors.Is(err, domain.ErrNegativeInitialBalance),
		errors.Is(err, domain.ErrSameAccount):
		return http.StatusBadRequest
	case
		errors.Is(err, domain.ErrInactiveAccount),
		errors.Is(err, domain.ErrInsufficientBalance):
		return http.StatusConflict
	}

	return http.StatusInternalServerError
}

// WriteError responds with the status matching err. Unexpected errors are
// logged and hidden behind errorspkg.ErrInternal.
func WriteError(gctx *gin.Context, err error) {
	code := StatusFor(err)

	switch code {
	case http.StatusInternalServerError:
		zerolog.Ctx(gctx.Request.Context()).Error().Stack().Err(err).Send()
		gctx.JSON(code, web.Error(errorspkg.ErrInternal))
	case http.StatusRequestTimeout:
		zerolog.Ctx(gctx.Request.Context()).Info().Err(err).Send()
		gctx.JSON(code, web.Error(errorspkg.ErrRequestCanceled))
	default:
		gctx.JSON(code, web.Error(err))
	}
}

type createRequest struct {
	Owner          string `json:"owner" binding:"required"`
	InitialBalance string `json:"initial_balance" binding:"omitempty,decimal"`
}

// Create handles http request to open an account.
func (h *Handler) Create(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req createRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	if req.InitialBalance == "" {
		req.InitialBalance = "0"
	}

	createdAccount, err := h.service.Create(ctx, req.Owner, req.InitialBalance)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusCreated, response{Data: data{createdAccount}})
}

type idRequest struct {
	ID string `uri:"id" binding:"required"`
}

// Get handles http request to get account.
func (h *Handler) Get(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	acc, err := h.service.Get(ctx, req.ID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{acc}})
}

type listRequest struct {
	Owner    string `form:"owner"`
	PageID   int    `form:"page_id" binding:"required,min=1,max=1000000"`
	PageSize int    `form:"page_size" binding:"required,min=1,max=100"`
}

type dataAccounts struct {
	Accounts []domain.AccountSnapshot `json:"accounts"`
}

type responseAccounts struct {
	Data dataAccounts `json:"data,omitempty"`
}

// List handles http request to list accounts.
func (h *Handler) List(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req listRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	accounts, err := h.service.List(ctx, req.Owner, req.PageSize, req.PageID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseAccounts{Data: dataAccounts{accounts}})
}

type amountRequest struct {
	Amount string `json:"amount" binding:"required,decimal"`
}

type dataOperation struct {
	Result domain.OperationResult `json:"result"`
}

type responseOperation struct {
	Data dataOperation `json:"data,omitempty"`
}

// Deposit handles http request to deposit money into an account.
func (h *Handler) Deposit(gctx *gin.Context) {
	h.move(gctx, h.service.Deposit)
}

// Withdraw handles http request to withdraw money from an account.
func (h *Handler) Withdraw(gctx *gin.Context) {
	h.move(gctx, h.service.Withdraw)
}

func (h *Handler) move(gctx *gin.Context, op func(ctx context.Context, id, amount string) (domain.OperationResult, error)) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req amountRequest
	if err := gctx.ShouldBindJSON(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	result, err := op(ctx, uri.ID, req.Amount)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseOperation{Data: dataOperation{result}})
}

// Deactivate handles http request to permanently deactivate an account.
func (h *Handler) Deactivate(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var req idRequest
	if err := gctx.ShouldBindUri(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	acc, err := h.service.Deactivate(ctx, req.ID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, response{Data: data{acc}})
}

type pageRequest struct {
	PageID   int `form:"page_id" binding:"required,min=1,max=1000000"`
	PageSize int `form:"page_size" binding:"required,min=1,max=100"`
}

type dataTransactions struct {
	Transactions []domain.Transaction `json:"transactions"`
}

type responseTransactions struct {
	Data dataTransactions `json:"data,omitempty"`
}

// Transactions handles http request to read a page of the account ledger.
func (h *Handler) Transactions(gctx *gin.Context) {
	ctx := gctx.Request.Context()
	l := zerolog.Ctx(ctx)

	var uri idRequest
	if err := gctx.ShouldBindUri(&uri); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	var req pageRequest
	if err := gctx.ShouldBindQuery(&req); err != nil {
		l.Info().Err(err).Send()
		gctx.JSON(http.StatusBadRequest, web.BindError(err))

		return
	}

	txs, err := h.service.Transactions(ctx, uri.ID, req.PageSize, req.PageID)
	if err != nil {
		WriteError(gctx, err)
		return
	}

	gctx.JSON(http.StatusOK, responseTransactions{Data: dataTransactions{txs}})
}

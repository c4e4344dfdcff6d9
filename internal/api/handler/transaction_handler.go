package handler

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/senbank/backoffice/internal/api/metrics"
	"github.com/senbank/backoffice/internal/core/domain"
	"github.com/senbank/backoffice/internal/core/ports"
)

// dateLayouts are tried in order when reading dateTransaction.
var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02",
}

// TransactionHandler handles HTTP requests for the ledger.
type TransactionHandler struct {
	service ports.TransactionService
}

func NewTransactionHandler(service ports.TransactionService) *TransactionHandler {
	return &TransactionHandler{service: service}
}

// Create handles POST /transactions.
//
// @Summary      Record a transaction
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createTransactionRequest  true  "Transaction"
// @Success      201   {object}  createTransactionResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /transactions [post]
func (h *TransactionHandler) Create(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	var req createTransactionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	date, err := parseDate(req.DateTransaction)
	if err != nil {
		return err
	}

	tx, err := h.service.Create(c.Request().Context(), actor, ports.CreateTransactionInput{
		IDTransaction:         req.IDTransaction,
		Type:                  req.Type,
		Montant:               req.Montant,
		NumCompteSource:       req.NumCompteSource,
		NumCompteDestinataire: req.NumCompteDestinataire,
		DateTransaction:       date,
		Etat:                  req.Etat,
	})
	if err != nil {
		return err
	}
	metrics.TransactionsCreatedTotal.WithLabelValues(string(tx.Type)).Inc()

	return c.JSON(http.StatusCreated, createTransactionResponse{
		Message:       "transaction created",
		TransactionID: tx.ID,
		IDTransaction: tx.IDTransaction,
	})
}

// List handles GET /transactions.
//
// @Summary      List transactions, newest first
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  transactionsResponse
// @Failure      401  {object}  errorResponse
// @Failure      500  {object}  errorResponse
// @Router       /transactions [get]
func (h *TransactionHandler) List(c echo.Context) error {
	txs, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	if txs == nil {
		txs = []*domain.Transaction{}
	}
	return c.JSON(http.StatusOK, transactionsResponse{Transactions: txs})
}

// Cancel handles PATCH /transactions/:id/cancel.
//
// @Summary      Cancel a transaction
// @Tags         transactions
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "idTransaction or document id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /transactions/{id}/cancel [patch]
func (h *TransactionHandler) Cancel(c echo.Context) error {
	actor, err := identityFrom(c)
	if err != nil {
		return err
	}

	if err := h.service.Cancel(c.Request().Context(), actor, c.Param("id")); err != nil {
		return err
	}
	metrics.TransactionsCancelledTotal.Inc()

	return c.JSON(http.StatusOK, messageResponse{Message: "transaction cancelled"})
}

// parseDate returns the zero time for an empty value so that the service
// reports the missing field.
func parseDate(raw string) (time.Time, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return time.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: dateTransaction must be an ISO 8601 date", domain.ErrValidation)
}

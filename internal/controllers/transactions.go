package controllers

import (
	"net/http"
	"time"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/GreekTheDev/mybudget/internal/store"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"github.com/shopspring/decimal"
)

func (api *API) registerTransactionRoutes(r *gin.RouterGroup) {
	r.GET("", api.listTransactions)
	r.POST("", api.createTransaction)
	r.PATCH("/:id", api.updateTransaction)
	r.DELETE("/:id", api.deleteTransaction)
}

// TransactionEditable are the transaction fields a client can set.
type TransactionEditable struct {
	Description string                 `json:"description"`
	Amount      decimal.Decimal        `json:"amount" binding:"required"`
	Type        models.TransactionType `json:"type" binding:"required"`
	Date        time.Time              `json:"date"`
	AccountID   string                 `json:"accountId" binding:"required"`
	GroupID     string                 `json:"groupId"`
	CategoryID  string                 `json:"categoryId"`
}

// TransactionPatchBody mirrors store.TransactionPatch for JSON binding.
type TransactionPatchBody struct {
	Description *string                 `json:"description"`
	Amount      *decimal.Decimal        `json:"amount"`
	Type        *models.TransactionType `json:"type"`
	Date        *time.Time              `json:"date"`
	AccountID   *string                 `json:"accountId"`
	GroupID     *string                 `json:"groupId"`
	CategoryID  *string                 `json:"categoryId"`
}

// transactionResponse wraps a mutated transaction. Warning is set when the
// mutation committed but a dependent refresh failed, so the client knows
// the aggregates may be stale.
type transactionResponse struct {
	Data    models.Transaction `json:"data"`
	Warning string             `json:"warning,omitempty"`
}

// listTransactions returns the snapshot, optionally filtered by account,
// month and a glob pattern on the description.
func (api *API) listTransactions(c *gin.Context) {
	transactions := api.Transactions.Snapshot()

	accountID := c.Query("account")
	pattern := c.Query("description")

	var month types.Month
	if raw := c.Query("month"); raw != "" {
		parsed, err := types.ParseMonth(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		month = parsed
	}

	filtered := make([]models.Transaction, 0, len(transactions))
	for _, transaction := range transactions {
		if accountID != "" && transaction.AccountID != accountID {
			continue
		}
		if !month.IsZero() && !month.Contains(transaction.Date) {
			continue
		}
		if pattern != "" && !glob.Glob(pattern, transaction.Description) {
			continue
		}
		filtered = append(filtered, transaction)
	}

	c.JSON(http.StatusOK, filtered)
}

func (api *API) createTransaction(c *gin.Context) {
	var editable TransactionEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	transaction, err := api.Transactions.Add(c.Request.Context(), store.TransactionData{
		Description: editable.Description,
		Amount:      editable.Amount,
		Type:        editable.Type,
		Date:        editable.Date,
		AccountID:   editable.AccountID,
		GroupID:     editable.GroupID,
		CategoryID:  editable.CategoryID,
	})

	switch {
	case err == nil:
		c.JSON(http.StatusCreated, transactionResponse{Data: transaction})
	case status(err) == http.StatusMultiStatus:
		// The transaction itself is committed.
		c.JSON(http.StatusMultiStatus, transactionResponse{Data: transaction, Warning: err.Error()})
	default:
		abortWithError(c, err)
	}
}

func (api *API) updateTransaction(c *gin.Context) {
	var body TransactionPatchBody
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Transactions.Edit(c.Request.Context(), c.Param("id"), store.TransactionPatch{
		Description: body.Description,
		Amount:      body.Amount,
		Type:        body.Type,
		Date:        body.Date,
		AccountID:   body.AccountID,
		GroupID:     body.GroupID,
		CategoryID:  body.CategoryID,
	})

	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case status(err) == http.StatusMultiStatus:
		c.JSON(http.StatusMultiStatus, httpError{Error: err.Error()})
	default:
		abortWithError(c, err)
	}
}

func (api *API) deleteTransaction(c *gin.Context) {
	err := api.Transactions.Delete(c.Request.Context(), c.Param("id"))

	switch {
	case err == nil:
		c.Status(http.StatusNoContent)
	case status(err) == http.StatusMultiStatus:
		c.JSON(http.StatusMultiStatus, httpError{Error: err.Error()})
	default:
		abortWithError(c, err)
	}
}

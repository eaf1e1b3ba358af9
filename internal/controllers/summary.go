package controllers

import (
	"net/http"

	"github.com/GreekTheDev/mybudget/internal/aggregate"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// SummaryResponse carries the derived aggregates. They are recomputed from
// the current snapshots on every request.
type SummaryResponse struct {
	TotalBalance      decimal.Decimal        `json:"totalBalance"`
	TotalIncome       decimal.Decimal        `json:"totalIncome"`
	TotalExpenses     decimal.Decimal        `json:"totalExpenses"`
	TotalAssigned     decimal.Decimal        `json:"totalAssigned"`
	AvailableToAssign decimal.Decimal        `json:"availableToAssign"`
	AssignStatus      aggregate.AssignStatus `json:"assignStatus"`
}

func (api *API) getSummary(c *gin.Context) {
	filter := aggregate.Filter{AccountID: c.Query("account")}

	if raw := c.Query("month"); raw != "" {
		month, err := types.ParseMonth(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
			return
		}
		filter.Month = month
	}

	accounts := api.Accounts.Snapshot()
	groups := api.Budgets.Snapshot()
	transactions := api.Transactions.Snapshot()

	available, assignStatus := aggregate.AvailableToAssign(groups, transactions, filter)

	c.JSON(http.StatusOK, SummaryResponse{
		TotalBalance:      aggregate.TotalBalance(accounts),
		TotalIncome:       aggregate.TotalIncome(transactions, filter),
		TotalExpenses:     aggregate.TotalExpenses(transactions, filter),
		TotalAssigned:     aggregate.TotalAssigned(groups),
		AvailableToAssign: available,
		AssignStatus:      assignStatus,
	})
}

package controllers

import (
	"net/http"

	"github.com/GreekTheDev/mybudget/internal/models"
	"github.com/GreekTheDev/mybudget/internal/types"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (api *API) registerGoalRoutes(r *gin.RouterGroup) {
	r.GET("", api.listGoals)
	r.POST("", api.createGoal)
	r.PATCH("/:id", api.updateGoal)
	r.DELETE("/:id", api.deleteGoal)
}

// GoalEditable are the goal fields a client can set.
type GoalEditable struct {
	Name     string          `json:"name" binding:"required"`
	Target   decimal.Decimal `json:"target" binding:"required"`
	Saved    decimal.Decimal `json:"saved"`
	Deadline types.Month     `json:"deadline"`
}

func (api *API) listGoals(c *gin.Context) {
	c.JSON(http.StatusOK, api.Goals.Snapshot())
}

func (api *API) createGoal(c *gin.Context) {
	var editable GoalEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	goal, err := api.Goals.Add(c.Request.Context(), editable.Name, editable.Target, editable.Deadline)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, goal)
}

func (api *API) updateGoal(c *gin.Context) {
	var editable GoalEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Goals.Edit(c.Request.Context(), c.Param("id"), models.Goal{
		Name:     editable.Name,
		Target:   editable.Target,
		Saved:    editable.Saved,
		Deadline: editable.Deadline,
	})
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) deleteGoal(c *gin.Context) {
	if err := api.Goals.Delete(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

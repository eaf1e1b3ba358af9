package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func (api *API) registerBudgetRoutes(r *gin.RouterGroup) {
	r.GET("/groups", api.listBudgetGroups)
	r.POST("/groups", api.createBudgetGroup)
	r.PATCH("/groups/:id", api.updateBudgetGroup)
	r.DELETE("/groups/:id", api.deleteBudgetGroup)
	r.POST("/groups/:id/categories", api.createBudgetCategory)
	r.PATCH("/groups/:id/categories/:categoryId", api.updateBudgetCategory)
	r.DELETE("/groups/:id/categories/:categoryId", api.deleteBudgetCategory)
}

// GroupEditable are the group fields a client can set.
type GroupEditable struct {
	Name string `json:"name" binding:"required"`
}

// CategoryEditable are the category fields a client can set.
type CategoryEditable struct {
	Name  string          `json:"name" binding:"required"`
	Limit decimal.Decimal `json:"limit"`
}

func (api *API) listBudgetGroups(c *gin.Context) {
	c.JSON(http.StatusOK, api.Budgets.Snapshot())
}

func (api *API) createBudgetGroup(c *gin.Context) {
	var editable GroupEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	group, err := api.Budgets.AddGroup(c.Request.Context(), editable.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, group)
}

func (api *API) updateBudgetGroup(c *gin.Context) {
	var editable GroupEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Budgets.EditGroup(c.Request.Context(), c.Param("id"), editable.Name)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) deleteBudgetGroup(c *gin.Context) {
	if err := api.Budgets.DeleteGroup(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) createBudgetCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	category, err := api.Budgets.AddCategory(c.Request.Context(), c.Param("id"), editable.Name, editable.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, category)
}

func (api *API) updateBudgetCategory(c *gin.Context) {
	var editable CategoryEditable
	if err := c.ShouldBindJSON(&editable); err != nil {
		c.JSON(http.StatusBadRequest, httpError{Error: err.Error()})
		return
	}

	err := api.Budgets.EditCategory(c.Request.Context(), c.Param("id"), c.Param("categoryId"), editable.Name, editable.Limit)
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (api *API) deleteBudgetCategory(c *gin.Context) {
	err := api.Budgets.DeleteCategory(c.Request.Context(), c.Param("id"), c.Param("categoryId"))
	if err != nil {
		abortWithError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

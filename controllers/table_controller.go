package controllers

import (
	"github.com/Vishnukant2275/easyorderin/pkg/resp"
	"github.com/Vishnukant2275/easyorderin/services"

	"github.com/gin-gonic/gin"
)

type BulkCreateTablesRequest struct {
	Count int `json:"count" binding:"required"`
}

type TableController struct {
	Tables *services.TableRegistry
}

func NewTableController(tables *services.TableRegistry) *TableController {
	return &TableController{Tables: tables}
}

// GET /restaurants/:rid/tables
func (tc *TableController) List(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	tables, err := tc.Tables.List(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, tables)
}

// POST /restaurants/:rid/tables/bulk
func (tc *TableController) BulkCreate(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	var req BulkCreateTablesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	tables, err := tc.Tables.BulkCreate(c.Request.Context(), rid, req.Count)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, tables)
}

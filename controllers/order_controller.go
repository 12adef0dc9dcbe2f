package controllers

import (
	"github.com/Vishnukant2275/easyorderin/entity"
	"github.com/Vishnukant2275/easyorderin/pkg/resp"
	"github.com/Vishnukant2275/easyorderin/services"
	"github.com/Vishnukant2275/easyorderin/utils"

	"github.com/gin-gonic/gin"
)

type OrderController struct {
	Orders *services.OrderService
	Views  *services.OrderReadModel
}

func NewOrderController(orders *services.OrderService, views *services.OrderReadModel) *OrderController {
	return &OrderController{Orders: orders, Views: views}
}

// ===== DTO =====

type CreateOrderReq struct {
	TableNumber int                      `json:"tableNumber" binding:"required"`
	Items       []services.LineItemInput `json:"items" binding:"required,min=1"`
}

type SetPaymentReq struct {
	IsPaid *bool `json:"isPaid" binding:"required"`
}

type UpdateStatusReq struct {
	Status entity.OrderStatus `json:"status" binding:"required"`
	Note   string             `json:"note"`
}

// ===== Customer =====

// POST /restaurants/:rid/orders
func (oc *OrderController) Create(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	var req CreateOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Orders.CreateOrder(c.Request.Context(), services.CreateOrderInput{
		RestaurantID: rid,
		TableNumber:  req.TableNumber,
		CustomerID:   utils.CurrentUserID(c),
		Items:        req.Items,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp.Created(c, order)
}

// GET /me/orders
func (oc *OrderController) ListForMe(c *gin.Context) {
	page, err := oc.Views.ListOrders(c.Request.Context(), services.OrderFilter{
		CustomerID: utils.CurrentUserID(c),
		Status:     entity.OrderStatus(c.Query("status")),
		Page:       queryInt(c, "page", 1),
		Limit:      queryInt(c, "limit", 20),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, page)
}

// ===== Staff =====

// GET /restaurants/:rid/orders?status=&q=&page=&limit=
func (oc *OrderController) List(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	page, err := oc.Views.ListOrders(c.Request.Context(), services.OrderFilter{
		RestaurantID: rid,
		Status:       entity.OrderStatus(c.Query("status")),
		Search:       c.Query("q"),
		Page:         queryInt(c, "page", 1),
		Limit:        queryInt(c, "limit", 20),
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, page)
}

// GET /restaurants/:rid/orders/:id
// Customers may only read their own orders.
func (oc *OrderController) Detail(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	view, err := oc.Views.GetOrder(c.Request.Context(), rid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	if utils.CurrentRole(c) == utils.RoleCustomer && view.CustomerID != utils.CurrentUserID(c) {
		respondError(c, services.ErrOrderNotFound)
		return
	}
	resp.OK(c, view)
}

// GET /restaurants/:rid/orders/:id/history
func (oc *OrderController) History(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	rows, err := oc.Views.History(c.Request.Context(), rid, c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, rows)
}

// PATCH /restaurants/:rid/orders/:id/payment
func (oc *OrderController) SetPayment(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	var req SetPaymentReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Orders.SetPaymentStatus(c.Request.Context(), rid, c.Param("id"), *req.IsPaid, utils.Actor(c))
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, order)
}

// PATCH /restaurants/:rid/orders/:id/status
func (oc *OrderController) UpdateStatus(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	var req UpdateStatusReq
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	order, err := oc.Orders.UpdateStatus(c.Request.Context(), services.UpdateStatusInput{
		RestaurantID: rid,
		OrderID:      c.Param("id"),
		Status:       req.Status,
		Actor:        utils.Actor(c),
		Note:         req.Note,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, order)
}

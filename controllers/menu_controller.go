package controllers

import (
	"github.com/Vishnukant2275/easyorderin/pkg/resp"
	"github.com/Vishnukant2275/easyorderin/services"

	"github.com/gin-gonic/gin"
)

type MenuController struct {
	Menu *services.MenuService
}

func NewMenuController(menu *services.MenuService) *MenuController {
	return &MenuController{Menu: menu}
}

// GET /restaurants/:rid/menu
func (mc *MenuController) List(c *gin.Context) {
	rid, ok := restaurantParam(c)
	if !ok {
		return
	}
	items, err := mc.Menu.ListByRestaurant(c.Request.Context(), rid)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, items)
}

package routes

import (
	"net/http"

	"github.com/Vishnukant2275/easyorderin/controllers"
	"github.com/Vishnukant2275/easyorderin/middlewares"
	"github.com/Vishnukant2275/easyorderin/services"
	"github.com/Vishnukant2275/easyorderin/utils"
	"github.com/Vishnukant2275/easyorderin/ws"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Deps are the wired services the HTTP layer needs.
type Deps struct {
	JWTSecret   string
	CORSOrigins []string

	OTP     *services.OTPStore
	Auth    *services.AuthService
	Orders  *services.OrderService
	Views   *services.OrderReadModel
	Tables  *services.TableRegistry
	Menu    *services.MenuService
	Hub     *ws.OrderHub
	Limiter *middlewares.IPRateLimiter
}

func RegisterRoutes(r *gin.Engine, d Deps) {
	r.Use(middlewares.CORSMiddleware(d.CORSOrigins))
	r.GET("/health", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"ok": true}) })
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// Controllers
	authCtrl := controllers.NewAuthController(d.OTP, d.Auth)
	orderCtrl := controllers.NewOrderController(d.Orders, d.Views)
	tableCtrl := controllers.NewTableController(d.Tables)
	menuCtrl := controllers.NewMenuController(d.Menu)

	staffRoles := []string{utils.RoleStaff, utils.RoleOwner}

	// Auth (public)
	a := r.Group("/auth")
	{
		otp := a.Group("/otp")
		if d.Limiter != nil {
			otp.Use(d.Limiter.Middleware())
		}
		otp.POST("/request", authCtrl.RequestOTP)
		otp.POST("/verify", authCtrl.VerifyOTP)
		a.POST("/staff/login", authCtrl.StaffLogin)
	}

	// QR landing
	r.GET("/restaurants/:rid/menu", menuCtrl.List)

	// Customer
	cust := r.Group("/", middlewares.AuthMiddleware(d.JWTSecret, utils.RoleCustomer))
	{
		cust.POST("/restaurants/:rid/orders", orderCtrl.Create)
		cust.GET("/me/orders", orderCtrl.ListForMe)
	}

	// Detail is shared: staff of the restaurant, or the customer who placed it
	r.GET("/restaurants/:rid/orders/:id",
		middlewares.AuthMiddleware(d.JWTSecret, append(staffRoles, utils.RoleCustomer)...),
		middlewares.RestaurantScope(),
		orderCtrl.Detail)

	// Staff
	staff := r.Group("/restaurants/:rid",
		middlewares.AuthMiddleware(d.JWTSecret, staffRoles...),
		middlewares.RestaurantScope())
	{
		staff.GET("/orders", orderCtrl.List)
		staff.GET("/orders/:id/history", orderCtrl.History)
		staff.PATCH("/orders/:id/payment", orderCtrl.SetPayment)
		staff.PATCH("/orders/:id/status", orderCtrl.UpdateStatus)
		staff.GET("/tables", tableCtrl.List)
		staff.POST("/tables/bulk", tableCtrl.BulkCreate)
	}

	// Live dashboard
	r.GET("/ws/restaurants/:rid/orders",
		middlewares.AuthMiddleware(d.JWTSecret, staffRoles...),
		middlewares.RestaurantScope(),
		d.Hub.HandleWebSocket)
}

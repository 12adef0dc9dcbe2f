package controllers

import (
	"github.com/Vishnukant2275/easyorderin/pkg/resp"
	"github.com/Vishnukant2275/easyorderin/services"

	"github.com/gin-gonic/gin"
)

type OTPRequest struct {
	Phone string `json:"phone" binding:"required"`
}
type OTPVerifyRequest struct {
	Phone string `json:"phone" binding:"required"`
	Code  string `json:"code" binding:"required"`
	Name  string `json:"name"`
}
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	OTP   *services.OTPStore
	Staff *services.AuthService
}

func NewAuthController(otp *services.OTPStore, staff *services.AuthService) *AuthController {
	return &AuthController{OTP: otp, Staff: staff}
}

// POST /auth/otp/request
func (a *AuthController) RequestOTP(c *gin.Context) {
	var req OTPRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	out, err := a.OTP.RequestCode(c.Request.Context(), req.Phone)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, out)
}

// POST /auth/otp/verify
func (a *AuthController) VerifyOTP(c *gin.Context) {
	var req OTPVerifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	sess, err := a.OTP.VerifyCode(c.Request.Context(), req.Phone, req.Code, req.Name)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, sess)
}

// POST /auth/staff/login
func (a *AuthController) StaffLogin(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	sess, err := a.Staff.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	resp.OK(c, sess)
}

// controllers/auth_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"healthlink-backend/auth"
	"healthlink-backend/services"
	"healthlink-backend/utils"

	"github.com/gin-gonic/gin"
)

type registerPayload struct {
	FullName string `json:"full_name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type loginPayload struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type AuthController struct {
	UserSvc *services.UserService
}

func NewAuthController(svc *services.UserService) *AuthController {
	return &AuthController{UserSvc: svc}
}

func (ctrl *AuthController) Register(c *gin.Context) {
	var payload registerPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	user, err := ctrl.UserSvc.Register(
		payload.FullName, payload.Email, payload.Password,
		payload.Role, payload.Phone, payload.Location,
	)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrEmailTaken):
			utils.JSONError(c, http.StatusConflict, "email already registered")
		case errors.Is(err, services.ErrInvalidRole):
			utils.JSONError(c, http.StatusBadRequest, "role cannot be self-assigned")
		default:
			log.Printf("Register error: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "failed to register")
		}
		return
	}

	utils.JSONSuccess(c, http.StatusCreated, user)
}

func (ctrl *AuthController) Login(c *gin.Context) {
	var payload loginPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "email and password required")
		return
	}

	user, err := ctrl.UserSvc.Authenticate(payload.Email, payload.Password)
	if err != nil {
		if errors.Is(err, services.ErrInvalidCredentials) {
			utils.JSONError(c, http.StatusUnauthorized, "invalid credentials")
			return
		}
		log.Printf("Login error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to log in")
		return
	}

	token, err := auth.GenerateToken(user.ID, user.Role, auth.DefaultTokenTTL)
	if err != nil {
		log.Printf("Login token error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to issue token")
		return
	}

	utils.JSONSuccess(c, http.StatusOK, gin.H{"token": token, "user": user})
}

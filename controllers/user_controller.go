// controllers/user_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"

	"healthlink-backend/middleware"
	"healthlink-backend/services"
	"healthlink-backend/utils"

	"github.com/gin-gonic/gin"
)

type updateProfilePayload struct {
	FullName string `json:"full_name"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
}

type UserController struct {
	UserSvc *services.UserService
}

func NewUserController(svc *services.UserService) *UserController {
	return &UserController{UserSvc: svc}
}

func (ctrl *UserController) Me(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	user, err := ctrl.UserSvc.GetByID(viewer.ID)
	if err != nil {
		if errors.Is(err, services.ErrUserNotFound) {
			utils.JSONError(c, http.StatusNotFound, "user not found")
			return
		}
		log.Printf("Me error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to load profile")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

func (ctrl *UserController) UpdateMe(c *gin.Context) {
	var payload updateProfilePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload")
		return
	}

	viewer := middleware.ViewerFrom(c)
	user, err := ctrl.UserSvc.UpdateProfile(viewer.ID, payload.FullName, payload.Phone, payload.Location)
	if err != nil {
		log.Printf("UpdateMe error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to update profile")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, user)
}

// GetUsers lists all users. Admin only (route is capability-gated).
func (ctrl *UserController) GetUsers(c *gin.Context) {
	users, err := ctrl.UserSvc.GetAll()
	if err != nil {
		log.Printf("GetUsers error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list users")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, users)
}

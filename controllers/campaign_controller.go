// controllers/campaign_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"time"

	"healthlink-backend/middleware"
	"healthlink-backend/services"
	"healthlink-backend/utils"

	"github.com/gin-gonic/gin"
)

type campaignPayload struct {
	Title                string     `json:"title" binding:"required"`
	Description          string     `json:"description"`
	Location             string     `json:"location"`
	StartsAt             *time.Time `json:"starts_at"`
	EndsAt               *time.Time `json:"ends_at"`
	RegistrationDeadline *time.Time `json:"registration_deadline"`
}

type registerCampaignPayload struct {
	Notes         string     `json:"notes"`
	PreferredTime *time.Time `json:"preferred_time"`
}

type CampaignController struct {
	CampaignSvc *services.CampaignService
}

func NewCampaignController(svc *services.CampaignService) *CampaignController {
	return &CampaignController{CampaignSvc: svc}
}

func (ctrl *CampaignController) CreateCampaign(c *gin.Context) {
	var payload campaignPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	campaign, err := ctrl.CampaignSvc.Create(middleware.ViewerFrom(c), services.CampaignInput{
		Title:                payload.Title,
		Description:          payload.Description,
		Location:             payload.Location,
		StartsAt:             payload.StartsAt,
		EndsAt:               payload.EndsAt,
		RegistrationDeadline: payload.RegistrationDeadline,
	})
	if err != nil {
		if errors.Is(err, services.ErrCampaignForbidden) {
			utils.JSONError(c, http.StatusForbidden, "not allowed to create campaigns")
			return
		}
		log.Printf("CreateCampaign error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to create campaign")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, campaign)
}

// GetCampaigns lists campaigns with the derived phase, the viewer's action
// and the countdown payload. Works for anonymous viewers too.
func (ctrl *CampaignController) GetCampaigns(c *gin.Context) {
	campaigns, err := ctrl.CampaignSvc.GetAllWithRelations()
	if err != nil {
		log.Printf("GetCampaigns error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list campaigns")
		return
	}

	viewer := middleware.ViewerFrom(c)
	views := make([]services.CampaignView, 0, len(campaigns))
	for _, campaign := range campaigns {
		views = append(views, ctrl.CampaignSvc.ViewFor(campaign, viewer))
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

func (ctrl *CampaignController) GetCampaign(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	campaign, err := ctrl.CampaignSvc.GetByID(id)
	if err != nil {
		respondCampaignError(c, err, "GetCampaign")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ctrl.CampaignSvc.ViewFor(*campaign, middleware.ViewerFrom(c)))
}

// GetCampaignAction returns just the resolver output for the viewer, the
// payload the frontend polls to decide which single control to render.
func (ctrl *CampaignController) GetCampaignAction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	campaign, err := ctrl.CampaignSvc.GetByID(id)
	if err != nil {
		respondCampaignError(c, err, "GetCampaignAction")
		return
	}
	view := ctrl.CampaignSvc.ViewFor(*campaign, middleware.ViewerFrom(c))
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"phase":      view.Phase,
		"resolution": view.Resolution,
		"remaining":  view.Remaining,
	})
}

func (ctrl *CampaignController) RegisterForCampaign(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	// notes/preferred time are optional; an empty body is fine
	var payload registerCampaignPayload
	_ = c.ShouldBindJSON(&payload)

	viewer := middleware.ViewerFrom(c)
	reg, err := ctrl.CampaignSvc.Register(id, viewer.ID, payload.Notes, payload.PreferredTime)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrAlreadyRegistered):
			utils.JSONError(c, http.StatusConflict, "already registered")
		case errors.Is(err, services.ErrRegistrationClosed):
			utils.JSONError(c, http.StatusConflict, "registration closed")
		case errors.Is(err, services.ErrCampaignCancelled):
			utils.JSONError(c, http.StatusConflict, "campaign cancelled")
		case errors.Is(err, services.ErrRegistrationUnavailable):
			utils.JSONError(c, http.StatusConflict, "registration not open")
		default:
			respondCampaignError(c, err, "RegisterForCampaign")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, reg)
}

func (ctrl *CampaignController) CancelCampaign(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	campaign, err := ctrl.CampaignSvc.Cancel(id, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrCampaignCancelled) {
			utils.JSONError(c, http.StatusConflict, "campaign already cancelled")
			return
		}
		respondCampaignError(c, err, "CancelCampaign")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, campaign)
}

func (ctrl *CampaignController) DeleteCampaign(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.CampaignSvc.Delete(id, middleware.ViewerFrom(c)); err != nil {
		respondCampaignError(c, err, "DeleteCampaign")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

func respondCampaignError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrCampaignNotFound):
		utils.JSONError(c, http.StatusNotFound, "campaign not found")
	case errors.Is(err, services.ErrCampaignForbidden):
		utils.JSONError(c, http.StatusForbidden, "not allowed")
	default:
		log.Printf("%s error: %v", op, err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

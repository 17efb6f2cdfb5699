// controllers/consultation_controller.go
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

type requestConsultationPayload struct {
	ProviderID *uint  `json:"provider_id"`
	Type       string `json:"type"`
	Reason     string `json:"reason" binding:"required"`
}

type respondConsultationPayload struct {
	Verdict      string     `json:"verdict" binding:"required"` // accept | deny | completed
	ScheduledAt  *time.Time `json:"scheduled_at"`
	ScheduledEnd *time.Time `json:"scheduled_end"`
}

type ConsultationController struct {
	ConsultSvc *services.ConsultationService
}

func NewConsultationController(svc *services.ConsultationService) *ConsultationController {
	return &ConsultationController{ConsultSvc: svc}
}

func (ctrl *ConsultationController) RequestConsultation(c *gin.Context) {
	var payload requestConsultationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	viewer := middleware.ViewerFrom(c)
	cons, err := ctrl.ConsultSvc.Request(viewer.ID, payload.ProviderID, payload.Type, payload.Reason)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidConsultType):
			utils.JSONError(c, http.StatusBadRequest, "invalid consultation type")
		case errors.Is(err, services.ErrUserNotFound):
			utils.JSONError(c, http.StatusBadRequest, "provider not found")
		case errors.Is(err, services.ErrInvalidRole):
			utils.JSONError(c, http.StatusBadRequest, "selected user is not a provider")
		default:
			log.Printf("RequestConsultation error: %v", err)
			utils.JSONError(c, http.StatusInternalServerError, "failed to create consultation")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, cons)
}

// GetConsultations lists the viewer's consultations with derived phase,
// resolution and countdown data per entry.
func (ctrl *ConsultationController) GetConsultations(c *gin.Context) {
	viewer := middleware.ViewerFrom(c)
	list, err := ctrl.ConsultSvc.ListForViewer(viewer)
	if err != nil {
		log.Printf("GetConsultations error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list consultations")
		return
	}

	views := make([]services.ConsultationView, 0, len(list))
	for _, cons := range list {
		views = append(views, ctrl.ConsultSvc.ViewFor(cons, viewer))
	}
	utils.JSONSuccess(c, http.StatusOK, views)
}

func (ctrl *ConsultationController) GetConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	cons, err := ctrl.ConsultSvc.GetForViewer(id, viewer)
	if err != nil {
		respondConsultationError(c, err, "GetConsultation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, ctrl.ConsultSvc.ViewFor(*cons, viewer))
}

// GetConsultationAction returns the resolver output the frontend polls.
func (ctrl *ConsultationController) GetConsultationAction(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	cons, err := ctrl.ConsultSvc.GetForViewer(id, viewer)
	if err != nil {
		respondConsultationError(c, err, "GetConsultationAction")
		return
	}
	view := ctrl.ConsultSvc.ViewFor(*cons, viewer)
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"phase":      view.Phase,
		"resolution": view.Resolution,
		"remaining":  view.Remaining,
	})
}

// GetConsultationCountdown serves the tick payload for one consultation.
func (ctrl *ConsultationController) GetConsultationCountdown(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	viewer := middleware.ViewerFrom(c)
	cons, err := ctrl.ConsultSvc.GetForViewer(id, viewer)
	if err != nil {
		respondConsultationError(c, err, "GetConsultationCountdown")
		return
	}
	view := ctrl.ConsultSvc.ViewFor(*cons, viewer)
	if view.Remaining == nil {
		utils.JSONError(c, http.StatusConflict, "no countdown for this consultation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{
		"remaining": view.Remaining,
		"display":   view.Remaining.String(),
	})
}

func (ctrl *ConsultationController) RespondToConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload respondConsultationPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "verdict required")
		return
	}

	cons, err := ctrl.ConsultSvc.Respond(id, middleware.ViewerFrom(c), payload.Verdict, payload.ScheduledAt, payload.ScheduledEnd)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidVerdict):
			utils.JSONError(c, http.StatusBadRequest, "verdict must be accept, deny or completed")
		case errors.Is(err, services.ErrScheduleRequired):
			utils.JSONError(c, http.StatusBadRequest, "scheduled_at required to accept")
		case errors.Is(err, services.ErrNotRespondable):
			utils.JSONError(c, http.StatusConflict, "consultation cannot be responded to")
		default:
			respondConsultationError(c, err, "RespondToConsultation")
		}
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cons)
}

func (ctrl *ConsultationController) CancelConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	cons, err := ctrl.ConsultSvc.Cancel(id, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrConsultationTerminal) {
			utils.JSONError(c, http.StatusConflict, "consultation already finished")
			return
		}
		respondConsultationError(c, err, "CancelConsultation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, cons)
}

// JoinConsultation hands out the meeting link while Join is resolvable.
func (ctrl *ConsultationController) JoinConsultation(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	link, err := ctrl.ConsultSvc.JoinInfo(id, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrNotJoinable) {
			utils.JSONError(c, http.StatusConflict, "consultation is not joinable right now")
			return
		}
		respondConsultationError(c, err, "JoinConsultation")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"meeting_link": link})
}

func respondConsultationError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrConsultationNotFound):
		utils.JSONError(c, http.StatusNotFound, "consultation not found")
	case errors.Is(err, services.ErrConsultationForbidden):
		utils.JSONError(c, http.StatusForbidden, "not allowed")
	default:
		log.Printf("%s error: %v", op, err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

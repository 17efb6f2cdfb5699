// controllers/report_controller.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"
	"time"

	"healthlink-backend/middleware"
	"healthlink-backend/services"
	"healthlink-backend/utils"

	"github.com/gin-gonic/gin"
)

// createReportPayload carries the flattened output of the report wizard:
// the category/symptoms steps, the severity step, and the location step.
type createReportPayload struct {
	Category    string   `json:"category" binding:"required"`
	Symptoms    []string `json:"symptoms"`
	Severity    string   `json:"severity"`
	Description string   `json:"description" binding:"required"`
	Location    string   `json:"location"`
}

type updateReportStatusPayload struct {
	Status string `json:"status" binding:"required"`
}

type followUpPayload struct {
	Note        string     `json:"note" binding:"required"`
	NextVisitAt *time.Time `json:"next_visit_at"`
}

type ReportController struct {
	ReportSvc *services.ReportService
}

func NewReportController(svc *services.ReportService) *ReportController {
	return &ReportController{ReportSvc: svc}
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		utils.JSONError(c, http.StatusBadRequest, "invalid id")
		return 0, false
	}
	return uint(id), true
}

func (ctrl *ReportController) CreateReport(c *gin.Context) {
	var payload createReportPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "invalid payload: "+err.Error())
		return
	}

	viewer := middleware.ViewerFrom(c)
	report, err := ctrl.ReportSvc.Create(
		viewer.ID, payload.Category, payload.Symptoms,
		payload.Severity, payload.Description, payload.Location,
	)
	if err != nil {
		if errors.Is(err, services.ErrInvalidSeverity) {
			utils.JSONError(c, http.StatusBadRequest, "invalid severity")
			return
		}
		log.Printf("CreateReport error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to create report")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, report)
}

func (ctrl *ReportController) GetReports(c *gin.Context) {
	reports, err := ctrl.ReportSvc.ListForViewer(middleware.ViewerFrom(c))
	if err != nil {
		log.Printf("GetReports error: %v", err)
		utils.JSONError(c, http.StatusInternalServerError, "failed to list reports")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, reports)
}

func (ctrl *ReportController) GetReport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	report, err := ctrl.ReportSvc.GetForViewer(id, middleware.ViewerFrom(c))
	if err != nil {
		respondReportError(c, err, "GetReport")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *ReportController) UpdateReportStatus(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload updateReportStatusPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "status required")
		return
	}

	report, err := ctrl.ReportSvc.UpdateStatus(id, payload.Status, middleware.ViewerFrom(c))
	if err != nil {
		if errors.Is(err, services.ErrInvalidReportStatus) {
			utils.JSONError(c, http.StatusBadRequest, "invalid status")
			return
		}
		respondReportError(c, err, "UpdateReportStatus")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, report)
}

func (ctrl *ReportController) AddFollowUp(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	var payload followUpPayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		utils.JSONError(c, http.StatusBadRequest, "note required")
		return
	}

	followUp, err := ctrl.ReportSvc.AddFollowUp(id, middleware.ViewerFrom(c), payload.Note, payload.NextVisitAt)
	if err != nil {
		respondReportError(c, err, "AddFollowUp")
		return
	}
	utils.JSONSuccess(c, http.StatusCreated, followUp)
}

func (ctrl *ReportController) DeleteReport(c *gin.Context) {
	id, ok := parseIDParam(c)
	if !ok {
		return
	}
	if err := ctrl.ReportSvc.Delete(id, middleware.ViewerFrom(c)); err != nil {
		respondReportError(c, err, "DeleteReport")
		return
	}
	utils.JSONSuccess(c, http.StatusOK, gin.H{"deleted": id})
}

func respondReportError(c *gin.Context, err error, op string) {
	switch {
	case errors.Is(err, services.ErrReportNotFound):
		utils.JSONError(c, http.StatusNotFound, "report not found")
	case errors.Is(err, services.ErrReportForbidden):
		utils.JSONError(c, http.StatusForbidden, "not allowed")
	default:
		log.Printf("%s error: %v", op, err)
		utils.JSONError(c, http.StatusInternalServerError, "internal error")
	}
}

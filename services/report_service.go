// services/report_service.go
package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"healthlink-backend/lifecycle"
	"healthlink-backend/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

var (
	ErrReportNotFound      = errors.New("report_not_found")
	ErrReportForbidden     = errors.New("report_forbidden")
	ErrInvalidSeverity     = errors.New("invalid_severity")
	ErrInvalidReportStatus = errors.New("invalid_report_status")
)

var validSeverities = map[string]bool{
	models.SeverityLow:      true,
	models.SeverityMedium:   true,
	models.SeverityHigh:     true,
	models.SeverityCritical: true,
}

var validReportStatuses = map[string]bool{
	models.ReportSubmitted:   true,
	models.ReportUnderReview: true,
	models.ReportResolved:    true,
}

type ReportService struct {
	DB *gorm.DB
}

func NewReportService(db *gorm.DB) *ReportService {
	return &ReportService{DB: db}
}

// Create stores a report submitted through the report wizard. Symptoms
// arrive as a free list from the symptom picker step and are kept as JSON.
func (s *ReportService) Create(reporterID uint, category string, symptoms []string, severity, description, location string) (*models.HealthReport, error) {
	if severity == "" {
		severity = models.SeverityLow
	}
	if !validSeverities[severity] {
		return nil, ErrInvalidSeverity
	}

	cleaned := make([]string, 0, len(symptoms))
	for _, sym := range symptoms {
		if v := strings.TrimSpace(sym); v != "" {
			cleaned = append(cleaned, v)
		}
	}
	symptomsJSON, err := json.Marshal(cleaned)
	if err != nil {
		return nil, fmt.Errorf("failed to encode symptoms: %w", err)
	}

	report := &models.HealthReport{
		ReporterID:  reporterID,
		Category:    strings.TrimSpace(category),
		Symptoms:    datatypes.JSON(symptomsJSON),
		Severity:    severity,
		Description: strings.TrimSpace(description),
		Location:    strings.TrimSpace(location),
		Status:      models.ReportSubmitted,
	}
	if err := s.DB.Create(report).Error; err != nil {
		return nil, fmt.Errorf("failed to create report: %w", err)
	}
	return report, nil
}

// ListForViewer returns all reports for reviewers, own reports otherwise.
func (s *ReportService) ListForViewer(viewer lifecycle.Viewer) ([]models.HealthReport, error) {
	q := s.DB.
		Preload("Reporter").
		Preload("FollowUps").
		Preload("FollowUps.Author").
		Order("created_at DESC")

	if !lifecycle.Can(viewer, lifecycle.CapReviewReports) {
		q = q.Where("reporter_id = ?", viewer.ID)
	}

	var list []models.HealthReport
	if err := q.Find(&list).Error; err != nil {
		return nil, fmt.Errorf("failed to retrieve reports: %w", err)
	}
	for i := range list {
		if list[i].FollowUps == nil {
			list[i].FollowUps = []models.FollowUp{}
		}
	}
	return list, nil
}

func (s *ReportService) GetForViewer(id uint, viewer lifecycle.Viewer) (*models.HealthReport, error) {
	var report models.HealthReport
	err := s.DB.
		Preload("Reporter").
		Preload("FollowUps").
		Preload("FollowUps.Author").
		First(&report, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to retrieve report: %w", err)
	}
	if report.ReporterID != viewer.ID && !lifecycle.Can(viewer, lifecycle.CapReviewReports) {
		return nil, ErrReportForbidden
	}
	return &report, nil
}

// UpdateStatus moves a report along submitted -> under_review -> resolved.
// Reviewer roles only.
func (s *ReportService) UpdateStatus(id uint, status string, viewer lifecycle.Viewer) (*models.HealthReport, error) {
	if !validReportStatuses[status] {
		return nil, ErrInvalidReportStatus
	}
	if !lifecycle.Can(viewer, lifecycle.CapReviewReports) {
		return nil, ErrReportForbidden
	}

	var report models.HealthReport
	if err := s.DB.First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, fmt.Errorf("failed to retrieve report: %w", err)
	}
	if err := s.DB.Model(&report).Updates(map[string]interface{}{"status": status}).Error; err != nil {
		return nil, fmt.Errorf("failed to update report status: %w", err)
	}
	return &report, nil
}

// AddFollowUp records a staff note on a report. A submitted report moves to
// under_review on its first follow-up.
func (s *ReportService) AddFollowUp(reportID uint, viewer lifecycle.Viewer, note string, nextVisitAt *time.Time) (*models.FollowUp, error) {
	if !lifecycle.Can(viewer, lifecycle.CapReviewReports) {
		return nil, ErrReportForbidden
	}

	var followUp *models.FollowUp
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var report models.HealthReport
		if err := tx.First(&report, reportID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrReportNotFound
			}
			return err
		}

		followUp = &models.FollowUp{
			ReportID:    reportID,
			AuthorID:    viewer.ID,
			Note:        strings.TrimSpace(note),
			NextVisitAt: nextVisitAt,
		}
		if err := tx.Create(followUp).Error; err != nil {
			return fmt.Errorf("failed to create follow-up: %w", err)
		}

		if report.Status == models.ReportSubmitted {
			if err := tx.Model(&report).Updates(map[string]interface{}{"status": models.ReportUnderReview}).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return followUp, nil
}

// Delete removes a report. Admin action, independent of report state.
func (s *ReportService) Delete(id uint, viewer lifecycle.Viewer) error {
	if !lifecycle.Can(viewer, lifecycle.CapManageUsers) {
		return ErrReportForbidden
	}
	res := s.DB.Delete(&models.HealthReport{}, id)
	if res.Error != nil {
		return fmt.Errorf("failed to delete report: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrReportNotFound
	}
	return nil
}

package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Jatin546/routebuddy-mobile-app/internal/models"
)

type reportStore interface {
	Create(ctx context.Context, report *models.Report) error
}

// ReportService records abuse reports. Append-only.
type ReportService struct {
	reports reportStore
}

// NewReportService creates a new report service
func NewReportService(reports reportStore) *ReportService {
	return &ReportService{reports: reports}
}

// Create files a report against another user
func (s *ReportService) Create(ctx context.Context, reporterID, reportedUserID, reason string, details *string) (*models.Report, error) {
	if reportedUserID == "" || reason == "" {
		return nil, fmt.Errorf("%w: reported_user_id and reason are required", ErrValidation)
	}

	report := &models.Report{
		ReportID:       models.NewID("report"),
		ReporterID:     reporterID,
		ReportedUserID: reportedUserID,
		Reason:         reason,
		Details:        details,
		Timestamp:      time.Now().UTC(),
	}
	if err := s.reports.Create(ctx, report); err != nil {
		return nil, err
	}
	return report, nil
}

package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/platefeed/backend/internal/model"
	"github.com/platefeed/backend/internal/models"
)

// ErrUnknownReportTarget is returned for an unrecognized target type.
var ErrUnknownReportTarget = errors.New("unknown report target type")

type ReportService struct {
	db    *gorm.DB
	email IEmailService
}

func NewReportService(db *gorm.DB, email IEmailService) *ReportService {
	return &ReportService{db: db, email: email}
}

// CreateReport files an abuse report after checking the target exists,
// then emails the admins. The email is best-effort.
func (s *ReportService) CreateReport(ctx context.Context, reporterID uuid.UUID, targetType string, targetID uuid.UUID, reason string) (*model.Report, error) {
	if err := s.targetExists(ctx, targetType, targetID); err != nil {
		return nil, err
	}

	report := model.Report{
		ID:         uuid.New(),
		ReporterID: reporterID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     model.ReportStatusOpen,
	}
	if err := s.db.WithContext(ctx).Create(&report).Error; err != nil {
		return nil, err
	}

	if s.email != nil {
		if err := s.email.SendReportNotification(&report); err != nil {
			log.Printf("[ReportService] failed to send report notification: %v", err)
		}
	}

	return &report, nil
}

// ListReports returns the reports a user has filed.
func (s *ReportService) ListReports(ctx context.Context, reporterID uuid.UUID) ([]model.Report, error) {
	var reports []model.Report
	err := s.db.WithContext(ctx).
		Where("reporter_id = ?", reporterID).
		Order("created_at DESC").
		Find(&reports).Error
	if err != nil {
		return nil, err
	}
	return reports, nil
}

func (s *ReportService) targetExists(ctx context.Context, targetType string, targetID uuid.UUID) error {
	switch targetType {
	case model.ReportTargetRecipe:
		var recipe model.Recipe
		return s.db.WithContext(ctx).First(&recipe, "id = ?", targetID).Error
	case model.ReportTargetComment:
		var comment model.Comment
		return s.db.WithContext(ctx).First(&comment, "id = ?", targetID).Error
	case model.ReportTargetUser:
		var user models.User
		return s.db.WithContext(ctx).First(&user, "id = ?", targetID).Error
	default:
		return fmt.Errorf("%w: %s", ErrUnknownReportTarget, targetType)
	}
}

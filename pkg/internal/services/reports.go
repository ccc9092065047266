package services

import (
	"fmt"

	aurakitm "git.solsynth.dev/hypernet/auraheart/pkg/aurakit/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/database"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/models"
	"git.solsynth.dev/hypernet/auraheart/pkg/internal/realtime"
)

const (
	ReportTargetPin     = "pins"
	ReportTargetPulse   = "pulses"
	ReportTargetProfile = "profiles"
)

// NewReport flags a pin, pulse or profile for the administrators. Each
// member reports a target at most once.
func NewReport(actor *Actor, targetType, targetID, reason string) (models.Report, error) {
	if err := EnsureMember(actor); err != nil {
		return models.Report{}, err
	}

	var target any
	switch targetType {
	case ReportTargetPin:
		target = &models.Pin{}
	case ReportTargetPulse:
		target = &models.Pulse{}
	case ReportTargetProfile:
		target = &models.Profile{}
	default:
		return models.Report{}, fmt.Errorf("unable to report %s", targetType)
	}
	if err := database.C.Where("id = ?", targetID).First(target).Error; err != nil {
		return models.Report{}, err
	}

	var count int64
	if err := database.C.Model(&models.Report{}).
		Where("account_id = ? AND target_type = ? AND target_id = ?", actor.Account.ID, targetType, targetID).
		Count(&count).Error; err != nil {
		return models.Report{}, err
	} else if count > 0 {
		return models.Report{}, ErrAlreadyReported
	}

	report := models.Report{
		AccountID:  actor.Account.ID,
		TargetType: targetType,
		TargetID:   targetID,
		Reason:     reason,
		Status:     models.ReportStatusPending,
	}
	if err := database.C.Create(&report).Error; err != nil {
		return report, fmt.Errorf("unable to create report: %v", err)
	}
	realtime.Notify(aurakitm.TopicReports)

	return report, nil
}

func ListReports(actor *Actor) ([]models.Report, error) {
	if err := EnsureAdmin(actor); err != nil {
		return nil, err
	}
	var reports []models.Report
	err := database.C.Order("created_at ASC").Find(&reports).Error
	return reports, err
}

func ReportDocument(v models.Report) aurakitm.Report {
	return aurakitm.Report{
		ID:         v.ID,
		AccountID:  v.AccountID,
		TargetType: v.TargetType,
		TargetID:   v.TargetID,
		Reason:     v.Reason,
		Status:     v.Status,
		CreatedAt:  v.CreatedAt,
	}
}

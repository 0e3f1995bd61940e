package schedule

import (
	"time"

	"github.com/imobflow/imob-crm-api/internal/models"
)

// ===============================
// Domain Actions
// ===============================

func CancelAppointment(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCancelled)
	ap.CancelledAt = &now
	return nil
}

func CompleteAppointment(ap *models.Appointment, now time.Time) error {
	if err := CanComplete(Status(ap.Status)); err != nil {
		return err
	}

	ap.Status = string(StatusCompleted)
	ap.CompletedAt = &now
	return nil
}

func CompleteVisit(v *models.Visit, now time.Time, feedback, interesseNivel string) error {
	if err := CanCompleteVisit(VisitStatus(v.Status)); err != nil {
		return err
	}

	v.Status = string(VisitCompleted)
	v.CompletedAt = &now
	v.Feedback = feedback
	v.InteresseNivel = interesseNivel
	return nil
}

func CancelVisit(v *models.Visit, now time.Time) error {
	if err := CanCancelVisit(VisitStatus(v.Status)); err != nil {
		return err
	}

	v.Status = string(VisitCancelled)
	v.CancelledAt = &now
	return nil
}

func MarkVisitNoShow(v *models.Visit, now time.Time) error {
	if err := CanMarkNoShow(VisitStatus(v.Status)); err != nil {
		return err
	}

	v.Status = string(VisitNoShow)
	v.CancelledAt = &now
	return nil
}

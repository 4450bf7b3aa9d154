package service

import (
	"github.com/go-playground/validator/v10"

	"github.com/solar-dashboard/solar-dashboard-backend/internal/domain"
)

var validate = validator.New()

// ValidPredictionDate reports whether date is in the layout prediction kinds
// are stored with.
func ValidPredictionDate(date string) bool {
	return validate.Var(date, "required,datetime="+domain.PredictionDateLayout) == nil
}

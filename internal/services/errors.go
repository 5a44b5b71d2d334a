package services

import (
	"errors"
	"fmt"

	"github.com/sjperalta/antecipa-api/internal/adjustment"
	"gorm.io/gorm"
)

// Common service errors
var (
	ErrNotFound              = errors.New("registro não encontrado")
	ErrInvalidState          = errors.New("transição de estado inválida")
	ErrValidation            = errors.New("dados inválidos")
	ErrCrossProjectViolation = errors.New("recebível pertence a outro projeto")
	ErrCrossPlanViolation    = errors.New("parcela não pertence ao plano informado")
	ErrRecalculationFailed   = errors.New("falha ao recalcular o plano")
	ErrMissingPricingInput   = errors.New("parcela sem pmt definido")
	ErrPlanLocked            = errors.New("plano em processamento, tente novamente")
	ErrInvalidIndexDateRange = adjustment.ErrInvalidDateRange
)

// notFound translates gorm's missing-record error into ErrNotFound
func notFound(err error, format string, args ...interface{}) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), ErrNotFound)
	}
	return err
}

func validationError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

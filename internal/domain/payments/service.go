package payments

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"pet-boarding-backend/internal/apperrors"
	"pet-boarding-backend/internal/domain/contracts"
	"pet-boarding-backend/internal/platform/logger"
)

// ContractDirectory es lo único que payments necesita saber de contratos:
// si el contrato existe y en qué estado está. Solo los contratos activos
// reciben pagos.
type ContractDirectory interface {
	StatusOf(ctx context.Context, id string) (contracts.Status, error)
}

type Service struct {
	repo      Repository
	contracts ContractDirectory
	log       logger.Logger
	now       func() time.Time
}

func NewService(repo Repository, cd ContractDirectory, log logger.Logger) *Service {
	return &Service{repo: repo, contracts: cd, log: log, now: time.Now}
}

type CreateInput struct {
	ContractID   string
	Amount       float64
	Method       Method
	PaymentMonth int
	PaymentDate  time.Time
	Notes        string
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Payment, error) {
	if strings.TrimSpace(in.ContractID) == "" {
		return Payment{}, apperrors.BadRequest("el contrato del pago es obligatorio")
	}
	if in.Amount <= 0 {
		return Payment{}, apperrors.BadRequest("el monto del pago debe ser mayor a cero")
	}
	if !in.Method.Valid() {
		return Payment{}, apperrors.BadRequest("método de pago inválido: use efectivo o transferencia")
	}
	if in.PaymentMonth < 1 || in.PaymentMonth > 12 {
		return Payment{}, apperrors.BadRequest("el mes de pago debe estar entre 1 y 12")
	}

	status, err := s.contracts.StatusOf(ctx, in.ContractID)
	if err != nil {
		return Payment{}, err
	}
	if status != contracts.StatusActive {
		return Payment{}, apperrors.Conflict("solo los contratos activos reciben pagos")
	}

	now := s.now()
	date := in.PaymentDate
	if date.IsZero() {
		date = now
	}

	p := Payment{
		ID:           uuid.NewString(),
		ContractID:   in.ContractID,
		Amount:       in.Amount,
		Method:       in.Method,
		PaymentMonth: in.PaymentMonth,
		PaymentDate:  date,
		Notes:        strings.TrimSpace(in.Notes),
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return Payment{}, err
	}

	s.log.Info("pago registrado", map[string]any{
		"payment_id":  p.ID,
		"contract_id": p.ContractID,
		"month":       p.PaymentMonth,
	})
	return p, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Payment, error) {
	if strings.TrimSpace(id) == "" {
		return Payment{}, apperrors.BadRequest("id de pago requerido")
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context) ([]Payment, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListByContract(ctx context.Context, contractID string) ([]Payment, error) {
	if strings.TrimSpace(contractID) == "" {
		return nil, apperrors.BadRequest("id de contrato requerido")
	}
	if _, err := s.contracts.StatusOf(ctx, contractID); err != nil {
		return nil, err
	}
	return s.repo.ListByContract(ctx, contractID)
}

type UpdateInput struct {
	Amount       *float64
	Method       *Method
	PaymentMonth *int
	PaymentDate  *time.Time
	Notes        *string
}

// Update corrige un pago ya registrado. El contrato no se puede cambiar.
// Si se mueve el mes, la restricción única del almacén vuelve a aplicar.
func (s *Service) Update(ctx context.Context, id string, in UpdateInput) (Payment, error) {
	p, err := s.GetByID(ctx, id)
	if err != nil {
		return Payment{}, err
	}

	if in.Amount != nil {
		if *in.Amount <= 0 {
			return Payment{}, apperrors.BadRequest("el monto del pago debe ser mayor a cero")
		}
		p.Amount = *in.Amount
	}
	if in.Method != nil {
		if !in.Method.Valid() {
			return Payment{}, apperrors.BadRequest("método de pago inválido: use efectivo o transferencia")
		}
		p.Method = *in.Method
	}
	if in.PaymentMonth != nil {
		if *in.PaymentMonth < 1 || *in.PaymentMonth > 12 {
			return Payment{}, apperrors.BadRequest("el mes de pago debe estar entre 1 y 12")
		}
		p.PaymentMonth = *in.PaymentMonth
	}
	if in.PaymentDate != nil {
		p.PaymentDate = *in.PaymentDate
	}
	if in.Notes != nil {
		p.Notes = strings.TrimSpace(*in.Notes)
	}
	p.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, p); err != nil {
		return Payment{}, err
	}
	return p, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	s.log.Info("pago eliminado", map[string]any{"payment_id": id})
	return nil
}

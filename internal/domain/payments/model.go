package payments

import "time"

// Method es la forma de pago aceptada por caja.
type Method string

const (
	MethodCash     Method = "efectivo"
	MethodTransfer Method = "transferencia"
)

func (m Method) Valid() bool {
	return m == MethodCash || m == MethodTransfer
}

// Payment registra un abono mensual de un contrato. La pareja
// (ContractID, PaymentMonth) es única: un contrato no admite dos pagos
// para el mismo mes.
type Payment struct {
	ID           string
	ContractID   string
	Amount       float64
	Method       Method
	PaymentMonth int // 1..12
	PaymentDate  time.Time
	Notes        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

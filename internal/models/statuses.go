package models

// ApplicationStatus describes where a vendor application sits in its lifecycle
type ApplicationStatus string

const (
	ApplicationStatusApplied   ApplicationStatus = "applied"
	ApplicationStatusAccepted  ApplicationStatus = "accepted"
	ApplicationStatusDeclined  ApplicationStatus = "declined"
	ApplicationStatusConfirmed ApplicationStatus = "confirmed"
)

func (s ApplicationStatus) Valid() bool {
	switch s {
	case ApplicationStatusApplied, ApplicationStatusAccepted, ApplicationStatusDeclined, ApplicationStatusConfirmed:
		return true
	}
	return false
}

// PaymentMethod is how a vendor pays the participation fee
type PaymentMethod string

const (
	PaymentMethodBankTransfer PaymentMethod = "bank_transfer"
	PaymentMethodCreditCard   PaymentMethod = "credit_card"
	PaymentMethodPayPal       PaymentMethod = "paypal"
	PaymentMethodCheck        PaymentMethod = "check"
	PaymentMethodCash         PaymentMethod = "cash"
	PaymentMethodOther        PaymentMethod = "other"
)

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentMethodBankTransfer, PaymentMethodCreditCard, PaymentMethodPayPal,
		PaymentMethodCheck, PaymentMethodCash, PaymentMethodOther:
		return true
	}
	return false
}

// PaymentStatus tracks the participation fee
type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed, PaymentStatusRefunded:
		return true
	}
	return false
}

// TargetType is what a review points at
type TargetType string

const (
	TargetTypeMarket   TargetType = "market"
	TargetTypeBusiness TargetType = "business"
)

func (t TargetType) Valid() bool {
	return t == TargetTypeMarket || t == TargetTypeBusiness
}

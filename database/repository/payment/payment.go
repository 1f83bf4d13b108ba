package paymentRepo

import "roamstay/models"

// PaymentRepository defines the interface for payment data access.
// Payments are created at initialization and mutated only by the
// verification step; they are never deleted.
type PaymentRepository interface {
	Create(payment *models.Payment) error
	GetByReference(reference string) (*models.Payment, error)
	Update(payment *models.Payment) error

	// History returns payments belonging to the user, matched either by
	// the payment email or through the linked booking's guest.
	History(email, guestID string) ([]models.Payment, error)
}

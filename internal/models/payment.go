package models

import "time"

const (
	PaymentPending   = "pending"
	PaymentCompleted = "completed"
	PaymentFailed    = "failed"
	PaymentRefunded  = "refunded"

	PaymentMethodCash     = "cash"
	PaymentMethodCard     = "card"
	PaymentMethodTransfer = "transfer"
	PaymentMethodOnline   = "online"
)

type Payment struct {
	ID uint `gorm:"primaryKey" json:"id"`

	MemberPackageID uint          `gorm:"index;not null" json:"member_package_id"`
	MemberPackage   MemberPackage `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"member_package"`

	Amount      float64   `json:"amount"`
	Method      string    `gorm:"size:20;default:'cash'" json:"method"`
	PaymentDate time.Time `gorm:"index" json:"payment_date"`
	Status      string    `gorm:"size:20;default:'pending';index" json:"status"`

	TransactionRef string `gorm:"size:100" json:"transaction_ref"`
	CheckoutURL    string `gorm:"size:255" json:"checkout_url"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

package payments

import (
	"context"
	"fmt"
	"net/http"

	mpconfig "github.com/mercadopago/sdk-go/pkg/config"
	"github.com/mercadopago/sdk-go/pkg/preference"

	"github.com/BruksfildServices01/gym-manager/internal/config"
	"github.com/BruksfildServices01/gym-manager/internal/httperr"
)

var ErrCheckoutUnavailable = httperr.BusinessError{
	Code:    "checkout_unavailable",
	Message: "Online checkout is not configured.",
	Status:  http.StatusServiceUnavailable,
}

type CheckoutRequest struct {
	PaymentID uint
	Title     string
	Amount    float64
}

type Checkout struct {
	Reference string
	URL       string
}

// Gateway creates hosted checkout pages for pending payments.
type Gateway interface {
	CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error)
}

// New returns a Mercado Pago gateway when an access token is configured.
func New(cfg *config.Config) (Gateway, error) {
	if cfg.MercadoPagoToken == "" {
		return Disabled{}, nil
	}
	return NewMercadoPago(cfg.MercadoPagoToken, cfg.PaymentNotifyURL, cfg.PaymentCurrency)
}

// ======================================================
// MERCADO PAGO
// ======================================================

type MercadoPago struct {
	client    preference.Client
	notifyURL string
	currency  string
}

func NewMercadoPago(token, notifyURL, currency string) (*MercadoPago, error) {
	mpCfg, err := mpconfig.New(token)
	if err != nil {
		return nil, fmt.Errorf("mercadopago config: %w", err)
	}

	return &MercadoPago{
		client:    preference.NewClient(mpCfg),
		notifyURL: notifyURL,
		currency:  currency,
	}, nil
}

func (g *MercadoPago) CreateCheckout(ctx context.Context, req CheckoutRequest) (*Checkout, error) {
	res, err := g.client.Create(ctx, preference.Request{
		Items: []preference.ItemRequest{{
			ID:         fmt.Sprintf("payment-%d", req.PaymentID),
			Title:      req.Title,
			Quantity:   1,
			UnitPrice:  req.Amount,
			CurrencyID: g.currency,
		}},
		ExternalReference: fmt.Sprintf("%d", req.PaymentID),
		NotificationURL:   g.notifyURL,
	})
	if err != nil {
		return nil, fmt.Errorf("mercadopago preference: %w", err)
	}

	return &Checkout{Reference: res.ID, URL: res.InitPoint}, nil
}

// ======================================================
// DISABLED
// ======================================================

type Disabled struct{}

func (Disabled) CreateCheckout(context.Context, CheckoutRequest) (*Checkout, error) {
	return nil, ErrCheckoutUnavailable
}

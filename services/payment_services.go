package services

import (
	"errors"
	"fmt"

	"github.com/Echtwork/echtwork-website/config"
	"github.com/Echtwork/echtwork-website/metrics"
	"github.com/Echtwork/echtwork-website/models"
	"github.com/stripe/stripe-go/v78"
	"github.com/stripe/stripe-go/v78/checkout/session"
)

var ErrInvalidProduct = errors.New("invalid product")

// Prices in euro cents.
const (
	standardplanPrice       int64 = 6000
	standardplanBundlePrice int64 = 7000
	ernaehrungsplanPrice    int64 = 2500
	premiumPrice            int64 = 9900
)

// SessionCreator mints a hosted checkout session with the payment provider.
// Tests inject a stub that records the params without hitting the network.
type SessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// stripeSessions adapts the package-level stripe client. The API key is set
// globally in NewPaymentService.
type stripeSessions struct{}

func (stripeSessions) New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error) {
	return session.New(params)
}

type PaymentService struct {
	Domain   string
	Sessions SessionCreator
}

func NewPaymentService(cfg config.Config) *PaymentService {
	stripe.Key = cfg.Stripe.SecretKey
	return &PaymentService{
		Domain:   cfg.Domain,
		Sessions: stripeSessions{},
	}
}

// BuildIntent computes price, description and provider metadata for a
// product selection. Premium is rejected here: premium intents carry a
// submission id and are only built by the intake flow via
// BuildPremiumIntent.
func (s *PaymentService) BuildIntent(product models.Product, training string, bundle bool) (*models.CheckoutIntent, error) {
	switch product {
	case models.ProductStandardplan:
		amount := standardplanPrice
		description := fmt.Sprintf("Standardplan - %s", training)
		bundleToken := "no"
		if bundle {
			amount = standardplanBundlePrice
			description += " + Ernährungsplan"
			bundleToken = "yes"
		}
		return &models.CheckoutIntent{
			Product:     product,
			UnitAmount:  amount,
			Description: description,
			Metadata: map[string]string{
				models.MetaProduct:  string(product),
				models.MetaTraining: training,
				models.MetaBundle:   bundleToken,
			},
		}, nil
	case models.ProductErnaehrungsplan:
		return &models.CheckoutIntent{
			Product:     product,
			UnitAmount:  ernaehrungsplanPrice,
			Description: "Ernährungsplan",
			Metadata: map[string]string{
				models.MetaProduct: string(product),
			},
		}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrInvalidProduct, product)
	}
}

// BuildPremiumIntent is called by the intake flow after the submission has
// been persisted. The submission id in the metadata is the only link between
// the payment and the stored form.
func (s *PaymentService) BuildPremiumIntent(sub *models.Submission) *models.CheckoutIntent {
	return &models.CheckoutIntent{
		Product:     models.ProductPremium,
		UnitAmount:  premiumPrice,
		Description: fmt.Sprintf("Premium Individuell – %s", sub.Name),
		Metadata: map[string]string{
			models.MetaProduct:      string(models.ProductPremium),
			models.MetaSubmissionID: sub.ID,
		},
		CustomerEmail: sub.Email,
	}
}

// CreateSession asks the provider for a redirectable hosted checkout
// session and returns its reference.
func (s *PaymentService) CreateSession(intent *models.CheckoutIntent) (string, error) {
	params := &stripe.CheckoutSessionParams{
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency: stripe.String(string(stripe.CurrencyEUR)),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String(intent.Description),
					},
					UnitAmount: stripe.Int64(intent.UnitAmount),
				},
				Quantity: stripe.Int64(1),
			},
		},
		Mode:       stripe.String(string(stripe.CheckoutSessionModePayment)),
		SuccessURL: stripe.String(s.Domain + "/success.html"),
		CancelURL:  stripe.String(s.Domain + "/cancel.html"),
	}
	for k, v := range intent.Metadata {
		params.AddMetadata(k, v)
	}
	if intent.CustomerEmail != "" {
		params.CustomerEmail = stripe.String(intent.CustomerEmail)
	}

	sess, err := s.Sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}

	metrics.CheckoutSessionsCreated.Inc()
	return sess.ID, nil
}

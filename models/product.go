package models

// Product identifies one of the sellable plan types.
type Product string

const (
	ProductStandardplan    Product = "standardplan"
	ProductErnaehrungsplan Product = "ernaehrungsplan"
	ProductPremium         Product = "premium"
)

// Metadata keys stored with the provider session and echoed back on the
// completion event.
const (
	MetaProduct      = "product"
	MetaTraining     = "training"
	MetaBundle       = "bundle"
	MetaSubmissionID = "submission_id"
)

// CheckoutIntent carries the parameters for one hosted checkout session
// request. It is never persisted; the metadata map is the only state that
// survives until the completion webhook arrives.
type CheckoutIntent struct {
	Product       Product
	UnitAmount    int64 // euro cents
	Description   string
	Metadata      map[string]string
	CustomerEmail string // pre-filled for premium, empty otherwise
}

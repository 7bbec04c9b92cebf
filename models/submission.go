package models

// Submission is a premium-plan intake form awaiting payment. Written once
// when the checkout is requested, read at most once when the completion
// webhook arrives, never mutated.
type Submission struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Ziele      string `json:"ziele"`
	Gesundheit string `json:"gesundheit,omitempty"`
	Wuensche   string `json:"wuensche,omitempty"`
	CreatedAt  string `json:"createdAt"`
}

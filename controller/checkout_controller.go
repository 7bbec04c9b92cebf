package controller

import (
	"errors"
	"net/http"

	"github.com/Echtwork/echtwork-website/apierror"
	"github.com/Echtwork/echtwork-website/models"
	"github.com/Echtwork/echtwork-website/services"
	"github.com/gin-gonic/gin"
)

type CheckoutController struct {
	PaymentService *services.PaymentService
	PremiumService *services.PremiumService
}

type checkoutRequest struct {
	Product  string `json:"product"`
	Training string `json:"training"`
	Bundle   bool   `json:"bundle"`
}

type premiumRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Ziele      string `json:"ziele"`
	Gesundheit string `json:"gesundheit"`
	Wuensche   string `json:"wuensche"`
}

// CreateCheckoutSession starts a hosted checkout for the standard and
// nutrition plans.
func (ctrl *CheckoutController) CreateCheckoutSession(c *gin.Context) {
	var req checkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusBadRequest).
			WithMessage("Invalid request body").
			Build())
		return
	}

	intent, err := ctrl.PaymentService.BuildIntent(models.Product(req.Product), req.Training, req.Bundle)
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusBadRequest).
			WithMessage("Ungültiges Produkt").
			Build())
		return
	}

	id, err := ctrl.PaymentService.CreateSession(intent)
	if err != nil {
		c.JSON(http.StatusInternalServerError, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusInternalServerError).
			WithMessage("Serverfehler").
			Build())
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

// CreatePremiumCheckout accepts the premium intake form and starts the
// corresponding checkout.
func (ctrl *CheckoutController) CreatePremiumCheckout(c *gin.Context) {
	var req premiumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusBadRequest).
			WithMessage("Invalid request body").
			Build())
		return
	}

	id, err := ctrl.PremiumService.CreatePremiumCheckout(services.PremiumRequest{
		Name:       req.Name,
		Email:      req.Email,
		Ziele:      req.Ziele,
		Gesundheit: req.Gesundheit,
		Wuensche:   req.Wuensche,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			c.JSON(http.StatusBadRequest, apierror.NewApiErrorBuilder().
				WithStatus(http.StatusBadRequest).
				WithMessage("Name, E-Mail und Ziele sind erforderlich.").
				Build())
			return
		}
		c.JSON(http.StatusInternalServerError, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusInternalServerError).
			WithMessage("Serverfehler").
			Build())
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": id})
}

package controller

import (
	"net/http"

	"github.com/Echtwork/echtwork-website/apierror"
	"github.com/Echtwork/echtwork-website/services"
	"github.com/gin-gonic/gin"
)

type WebhookController struct {
	WebhookService *services.WebhookService
}

// HandleWebhook processes asynchronous payment notifications. Signature
// verification needs the raw body, so this route must never run through any
// body-consuming middleware.
func (ctrl *WebhookController) HandleWebhook(c *gin.Context) {
	payload, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusBadRequest).
			WithMessage("Unable to read request body").
			Build())
		return
	}

	if err := ctrl.WebhookService.HandleEvent(payload, c.GetHeader("Stripe-Signature")); err != nil {
		c.JSON(http.StatusBadRequest, apierror.NewApiErrorBuilder().
			WithStatus(http.StatusBadRequest).
			WithMessage("Webhook signature verification failed").
			Build())
		return
	}

	c.JSON(http.StatusOK, gin.H{"received": true})
}

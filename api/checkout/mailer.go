package checkout

import (
	"fmt"
	"os"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/models"
	templates "github.com/openroadmotors/dealership-api/templates/html"
)

// SendGridMailer sends order receipts through SendGrid.
type SendGridMailer struct{}

// SendOrderReceipt emails the customer their payment receipt.
func (SendGridMailer) SendOrderReceipt(order models.Order, session models.CheckoutSession, vehicle *models.Vehicle) error {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	if apiKey == "" {
		zap.S().Errorw("SENDGRID_API_KEY not set, cannot send receipt", "orderID", order.ID.Hex())
		return fmt.Errorf("sendgrid api key not set")
	}

	vehicleDescription := "your vehicle"
	if vehicle != nil {
		vehicleDescription = fmt.Sprintf("%d %s %s", vehicle.Year, vehicle.Make, vehicle.Model)
	}

	from := mail.NewEmail("Open Road Motors", "no-reply@openroadmotors.com")
	to := mail.NewEmail(order.CustomerName, order.CustomerEmail)
	subject := "Payment received for your order"
	plainText := fmt.Sprintf("Hi %s, we've received your payment of $%.2f for order %s. Our team will be in touch shortly.",
		order.CustomerName, float64(session.Amount)/100, order.ID.Hex())
	htmlContent := templates.RenderOrderReceipt(order.CustomerName, order.ID.Hex(), vehicleDescription, session.Amount)
	message := mail.NewSingleEmail(from, subject, to, plainText, htmlContent)

	client := sendgrid.NewSendClient(apiKey)
	response, err := client.Send(message)
	if err != nil {
		zap.S().Errorw("failed to send receipt email", "to", order.CustomerEmail, "error", err)
		return err
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status", "status", response.StatusCode, "body", response.Body, "to", order.CustomerEmail)
		return fmt.Errorf("sendgrid error: status %d", response.StatusCode)
	}
	zap.S().Infow("receipt email sent", "to", order.CustomerEmail, "orderID", order.ID.Hex())
	return nil
}

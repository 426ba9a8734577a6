package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
)

// Contact exported for testing purposes
type Contact struct {
	DB databases.ContactMessageDatabase
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

// SubmitContactMessageHandler stores a message from the public contact form
// and notifies the sales inbox when one is configured.
func (c Contact) SubmitContactMessageHandler(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "failed to decode request body", err)
		return
	}
	if req.Name == "" || req.Email == "" || req.Subject == "" || req.Message == "" {
		config.WriteError(w, http.StatusBadRequest, config.CodeValidation, "name, email, subject and message are required", nil)
		return
	}

	msg := models.ContactMessage{
		ID:        primitive.NewObjectID(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Subject:   req.Subject,
		Message:   req.Message,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	}

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	if _, err := c.DB.InsertOne(ctx, msg); err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to save contact message", err)
		return
	}

	zap.S().Infow("contact message received", "messageID", msg.ID.Hex(), "email", msg.Email)
	notifyContactInbox(msg)

	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(msg)
}

// ContactMessagesHandler returns submitted messages for the admin view,
// newest first.
func (c Contact) ContactMessagesHandler(w http.ResponseWriter, r *http.Request) {
	limit, skip := pagination(r)

	ctx, cancel := api.WithQueryTimeout(r.Context())
	defer cancel()

	dbResp, err := c.DB.Find(ctx, bson.M{},
		options.Find().SetSort(bson.M{"createdAt": -1}).SetLimit(limit).SetSkip(skip))
	if err != nil {
		config.WriteError(w, http.StatusInternalServerError, config.CodeDatabaseError, "failed to get contact messages", err)
		return
	}
	if len(dbResp) == 0 {
		dbResp = []models.ContactMessage{}
	}

	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(dbResp)
}

// notifyContactInbox forwards the message to the configured sales inbox.
// Best effort: a mail failure never fails the submission.
func notifyContactInbox(msg models.ContactMessage) {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	inbox := os.Getenv("CONTACT_INBOX_EMAIL")
	if apiKey == "" || inbox == "" {
		return
	}

	from := mail.NewEmail("Open Road Motors", "no-reply@openroadmotors.com")
	to := mail.NewEmail("Sales", inbox)
	subject := "New contact message: " + msg.Subject
	plainText := fmt.Sprintf("From: %s <%s>\nPhone: %s\n\n%s", msg.Name, msg.Email, msg.Phone, msg.Message)
	m := mail.NewSingleEmailPlainText(from, subject, to, plainText)

	response, err := sendgrid.NewSendClient(apiKey).Send(m)
	if err != nil {
		zap.S().Errorw("failed to forward contact message", "messageID", msg.ID.Hex(), "error", err)
		return
	}
	if response.StatusCode >= 400 {
		zap.S().Errorw("sendgrid returned error status forwarding contact message",
			"status", response.StatusCode, "messageID", msg.ID.Hex())
	}
}

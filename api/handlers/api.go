package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/gorilla/mux"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/openroadmotors/dealership-api/api"
	"github.com/openroadmotors/dealership-api/api/checkout"
	"github.com/openroadmotors/dealership-api/api/handlers/search"
	"github.com/openroadmotors/dealership-api/api/scheduler"
	"github.com/openroadmotors/dealership-api/config"
	"github.com/openroadmotors/dealership-api/databases"
	"github.com/openroadmotors/dealership-api/models"
	"github.com/openroadmotors/dealership-api/payments"
)

// App stores the router and db connection, so it can be reused
type App struct {
	Router    *mux.Router
	Config    config.Config
	Scheduler *scheduler.Scheduler
	dbHelper  databases.DatabaseHelper
}

// New creates a new mux router and all the routes
func (a *App) New() *mux.Router {
	auth := api.Auth{Secret: a.Config.JWTSecret}
	hub := NewHub()

	coordinator := &checkout.Coordinator{
		Orders:   databases.NewOrderDatabase(a.dbHelper),
		Sessions: databases.NewCheckoutSessionDatabase(a.dbHelper),
		Vehicles: databases.NewVehicleDatabase(a.dbHelper),
		Provider: payments.NewStripeProvider(os.Getenv("STRIPE_SECRET_KEY")),
		Mailer:   checkout.SendGridMailer{},
		Notifier: hub,
		BaseURL:  a.Config.BaseURL,
	}
	a.Scheduler = scheduler.NewScheduler(coordinator, databases.NewSchedulerLockDatabase(a.dbHelper))

	authHandler := Auth{DB: databases.NewUserDatabase(a.dbHelper), Auth: auth}
	v := Vehicle{DB: databases.NewVehicleDatabase(a.dbHelper)}
	o := Order{DB: databases.NewOrderDatabase(a.dbHelper), VDB: databases.NewVehicleDatabase(a.dbHelper), Notifier: hub}
	p := Payment{Coordinator: coordinator}
	content := Content{DB: databases.NewContentDatabase(a.dbHelper)}
	contact := Contact{DB: databases.NewContactMessageDatabase(a.dbHelper)}
	admin := Admin{
		UserDB:    databases.NewUserDatabase(a.dbHelper),
		OrderDB:   databases.NewOrderDatabase(a.dbHelper),
		VehicleDB: databases.NewVehicleDatabase(a.dbHelper),
	}
	vinSearch := search.Vin{DB: databases.NewVehicleDatabase(a.dbHelper)}
	customerSearch := search.Customer{DB: databases.NewOrderDatabase(a.dbHelper)}

	r := mux.NewRouter()

	// healthchex
	r.HandleFunc("/health", healthCheckHandler)

	apiCreate := r.PathPrefix("/api/v1").Subrouter()

	apiCreate.Handle("/auth/register", http.HandlerFunc(authHandler.RegisterHandler)).Methods("POST")
	apiCreate.Handle("/auth/login", http.HandlerFunc(authHandler.LoginHandler)).Methods("POST")
	apiCreate.Handle("/auth/me", auth.Middleware(http.HandlerFunc(authHandler.MeHandler))).Methods("GET")

	apiCreate.Handle("/vehicles", http.HandlerFunc(v.VehicleHandler)).Methods("GET")
	apiCreate.Handle("/vehicles", auth.AdminOnly(http.HandlerFunc(v.CreateVehicleHandler))).Methods("POST")
	apiCreate.Handle("/vehicles/{vehicle_id}", http.HandlerFunc(v.VehicleByIDHandler)).Methods("GET")
	apiCreate.Handle("/vehicles/{vehicle_id}", auth.AdminOnly(http.HandlerFunc(v.UpdateVehicleHandler))).Methods("PUT")
	apiCreate.Handle("/vehicles/{vehicle_id}", auth.AdminOnly(http.HandlerFunc(v.DeleteVehicleHandler))).Methods("DELETE")
	apiCreate.Handle("/vehicles/{vehicle_id}/images", auth.AdminOnly(http.HandlerFunc(v.UploadVehicleImageHandler))).Methods("POST")

	apiCreate.Handle("/orders", auth.Middleware(http.HandlerFunc(o.CreateOrderHandler))).Methods("POST")
	apiCreate.Handle("/orders/mine", auth.Middleware(http.HandlerFunc(o.MyOrdersHandler))).Methods("GET")
	apiCreate.Handle("/orders/{order_id}", auth.Middleware(http.HandlerFunc(o.OrderByIDHandler))).Methods("GET")
	apiCreate.Handle("/orders/{order_id}/cancel", auth.Middleware(http.HandlerFunc(o.CancelOrderHandler))).Methods("POST")
	apiCreate.Handle("/orders/{order_id}/checkout", auth.Middleware(http.HandlerFunc(p.CreateCheckoutSessionHandler))).Methods("POST")

	apiCreate.Handle("/payments/status/{session_id}", auth.Middleware(http.HandlerFunc(p.PaymentStatusHandler))).Methods("GET")
	apiCreate.Handle("/webhook/stripe", http.HandlerFunc(p.StripeWebhookHandler)).Methods("POST")

	apiCreate.Handle("/contact", http.HandlerFunc(contact.SubmitContactMessageHandler)).Methods("POST")

	apiCreate.Handle("/content", http.HandlerFunc(content.ContentHandler)).Methods("GET")
	apiCreate.Handle("/content", auth.AdminOnly(http.HandlerFunc(content.UpdateContentHandler))).Methods("PUT")

	apiCreate.Handle("/admin/dashboard", auth.AdminOnly(http.HandlerFunc(admin.DashboardHandler))).Methods("GET")
	apiCreate.Handle("/admin/users", auth.AdminOnly(http.HandlerFunc(admin.UsersHandler))).Methods("GET")
	apiCreate.Handle("/admin/users/{user_id}/role", auth.AdminOnly(http.HandlerFunc(admin.UpdateUserRoleHandler))).Methods("PUT")
	apiCreate.Handle("/admin/users/{user_id}", auth.AdminOnly(http.HandlerFunc(admin.DeleteUserHandler))).Methods("DELETE")
	apiCreate.Handle("/admin/orders", auth.AdminOnly(http.HandlerFunc(o.OrdersHandler))).Methods("GET")
	apiCreate.Handle("/admin/contact-messages", auth.AdminOnly(http.HandlerFunc(contact.ContactMessagesHandler))).Methods("GET")
	apiCreate.Handle("/admin/orders/events", auth.AdminOnly(http.HandlerFunc(hub.OrderEventsHandler))).Methods("GET")
	apiCreate.Handle("/admin/search/vehicles", auth.AdminOnly(http.HandlerFunc(vinSearch.VinSearchHandler))).Methods("GET")
	apiCreate.Handle("/admin/search/orders", auth.AdminOnly(http.HandlerFunc(customerSearch.CustomerSearchHandler))).Methods("GET")

	return r
}

// Initialize is invoked by main to connect with the database and create a router
func (a *App) Initialize() error {

	client, err := databases.NewClient(&a.Config)
	if err != nil {
		// if we fail to create a new database client, then kill the pod
		zap.S().With(err).Error("failed to create new client")
		return err
	}

	a.dbHelper = databases.NewDatabase(&a.Config, client)
	err = client.Connect()
	if err != nil {
		// if we fail to connect to the database, then kill the pod
		zap.S().With(err).Error("failed to connect to database")
		return err
	}
	zap.S().Info("dealership-api has connected to the database")

	if err := a.ensureAdminUser(); err != nil {
		zap.S().With(err).Error("failed to ensure admin user")
		return err
	}

	// initialize api router
	a.initializeRoutes()
	return nil

}

func (a *App) initializeRoutes() {
	a.Router = a.New()
}

// ensureAdminUser seeds the first admin account from the environment so a
// fresh deployment is manageable. Does nothing if the account exists.
func (a *App) ensureAdminUser() error {
	email := os.Getenv("ADMIN_EMAIL")
	password := os.Getenv("ADMIN_PASSWORD")
	if email == "" || password == "" {
		zap.S().Warn("ADMIN_EMAIL/ADMIN_PASSWORD not set, skipping admin seed")
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), api.QueryTimeout)
	defer cancel()

	userDB := databases.NewUserDatabase(a.dbHelper)
	_, err := userDB.FindOne(ctx, bson.M{"email": email})
	if err == nil {
		return nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = userDB.InsertOne(ctx, models.User{
		ID:        primitive.NewObjectID(),
		Email:     email,
		Password:  string(hash),
		FirstName: "Admin",
		Role:      models.RoleAdmin,
		CreatedAt: primitive.NewDateTimeFromTime(time.Now()),
	})
	if err != nil {
		return err
	}

	zap.S().Infow("seeded admin account", "email", email)
	return nil
}

func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	b, _ := json.Marshal(models.HealthCheckResponse{
		Alive: true,
	})
	_, _ = io.WriteString(w, string(b))
}

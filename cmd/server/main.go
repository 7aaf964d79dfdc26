package main

import (
	"log"
	"net/http"
	"os"

	"fleetdesk-backend/internal/database"
	"fleetdesk-backend/internal/handlers"
	"fleetdesk-backend/internal/lifecycle"
	"fleetdesk-backend/internal/middleware"
	"fleetdesk-backend/internal/services"
	"fleetdesk-backend/internal/websocket"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("🚀 FLEETDESK BACKEND SERVER STARTING")
	log.Println("═══════════════════════════════════════════════════════════════════")

	// Load .env file
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  Warning: .env file not found, using environment variables from system")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	if os.Getenv("APP_JWT_SECRET") == "" {
		log.Fatal("APP_JWT_SECRET environment variable is required")
	}

	// Connect to database
	db, err := database.Connect(dbURL)
	if err != nil {
		log.Println("❌ FATAL ERROR: Database connection failed")
		log.Fatal(err)
	}
	defer db.Close()
	log.Println("✅ Database connection established")

	// Run migrations
	if err := database.Migrate(db); err != nil {
		log.Println("❌ FATAL ERROR: Database migrations failed")
		log.Fatal(err)
	}

	// Seed database
	if err := database.SeedUsers(db); err != nil {
		log.Println("❌ FATAL ERROR: User seeding failed")
		log.Fatal(err)
	}
	if err := database.SeedFleet(db); err != nil {
		log.Println("❌ FATAL ERROR: Fleet seeding failed")
		log.Fatal(err)
	}
	log.Println("✅ Database seeded")

	// Initialize Firebase Cloud Messaging
	// Supports both file path and base64-encoded credentials (for Railway/cloud deployments)
	var fcmService *services.FCMService
	if fcmCredsBase64 := os.Getenv("FIREBASE_CREDENTIALS_BASE64"); fcmCredsBase64 != "" {
		fcmService, err = services.NewFCMServiceFromBase64(fcmCredsBase64)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from base64: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from base64 credentials")
		}
	} else {
		fcmCredentialsFile := os.Getenv("FIREBASE_CREDENTIALS_FILE")
		if fcmCredentialsFile == "" {
			fcmCredentialsFile = "./firebase-service-account.json"
		}

		fcmService, err = services.NewFCMService(fcmCredentialsFile)
		if err != nil {
			log.Printf("⚠️  Failed to initialize FCM from file: %v (push notifications disabled)", err)
			fcmService = nil
		} else {
			log.Println("✅ Firebase Cloud Messaging initialized from file")
		}
	}

	// Initialize WebSocket hub
	wsHub := websocket.NewHub()
	go wsHub.Run()
	log.Println("✅ WebSocket hub started")

	// Lifecycle engine owns all request status transitions
	engine := lifecycle.NewEngine(db)

	// Create router
	r := chi.NewRouter()

	// Middleware
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)

	// CORS
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK"))
	})

	// Authentication routes (no auth required)
	r.Post("/api/auth/login", handlers.Login(db))
	r.Post("/api/auth/register", handlers.Register(db))

	// WebSocket endpoint (authentication handled in handler via query param)
	r.Get("/ws", websocket.HandleWebSocket(wsHub))

	// API routes (require authentication)
	r.Route("/api", func(r chi.Router) {
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)

			// Own profile
			r.Get("/me", handlers.GetMe(db))
			r.Put("/me", handlers.UpdateMe(db))

			// Fleet record
			r.Get("/vehicles", handlers.GetVehicles(db))
			r.Get("/vehicles/{id}", handlers.GetVehicle(db))
			r.Post("/vehicles", handlers.CreateVehicle(db))
			r.Put("/vehicles/{id}", handlers.UpdateVehicle(db))
			r.Delete("/vehicles/{id}", handlers.DeleteVehicle(db))

			r.Get("/drivers", handlers.GetDrivers(db))
			r.Get("/drivers/{id}", handlers.GetDriver(db))
			r.Post("/drivers", handlers.CreateDriver(db))
			r.Put("/drivers/{id}", handlers.UpdateDriver(db))
			r.Delete("/drivers/{id}", handlers.DeleteDriver(db))

			r.Get("/trips", handlers.GetTrips(db))
			r.Get("/trips/{id}", handlers.GetTrip(db))
			r.Post("/trips", handlers.CreateTrip(db))
			r.Put("/trips/{id}", handlers.UpdateTrip(db))
			r.Delete("/trips/{id}", handlers.DeleteTrip(db))

			// Transport requests (status changes go through the lifecycle engine)
			r.Get("/requests", handlers.GetRequests(db))
			r.Get("/requests/{id}", handlers.GetRequest(db))
			r.Post("/requests", handlers.CreateRequest(db, wsHub))
			r.Put("/requests/{id}", handlers.UpdateRequest(engine, db, wsHub, fcmService))
			r.Delete("/requests/{id}", handlers.DeleteRequest(db, wsHub))

			// User management (per-field authorization inside the handlers)
			r.Get("/users", handlers.ListUsers(db))
			r.Get("/users/{id}", handlers.GetUser(db))
			r.Post("/users", handlers.CreateUser(db))
			r.Put("/users/{id}", handlers.UpdateUser(db))
			r.Delete("/users/{id}", handlers.DeleteUser(db))

			// Push notification targets
			r.Post("/devices/token", handlers.RegisterDeviceToken(db))
		})

		// Registration review (require authentication + admin or superadmin role)
		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth)
			r.Use(middleware.RequireRole("admin", "superadmin"))

			r.Get("/registrations", handlers.ListRegistrations(db))
			r.Post("/registrations/{id}/approve", handlers.ApproveUser(db))
			r.Post("/registrations/{id}/reject", handlers.RejectUser(db))
		})
	})

	// Get port
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Println("═══════════════════════════════════════════════════════════════════")
	log.Println("✅ ALL INITIALIZATION COMPLETE")
	log.Printf("🚀 Server starting on http://localhost:%s", port)
	log.Println("═══════════════════════════════════════════════════════════════════")

	if err := http.ListenAndServe(":"+port, r); err != nil {
		log.Fatal(err)
	}
}

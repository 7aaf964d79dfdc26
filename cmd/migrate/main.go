package main

import (
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"

	"fleetdesk-backend/internal/database"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	db, err := database.Connect(dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	log.Println("Connected to database successfully")

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Migration failed: %v", err)
	}
	if err := database.SeedUsers(db); err != nil {
		log.Fatalf("User seeding failed: %v", err)
	}
	if err := database.SeedFleet(db); err != nil {
		log.Fatalf("Fleet seeding failed: %v", err)
	}

	log.Println("Migration completed successfully!")

	// Query and display summary
	var result struct {
		Users         int `db:"users"`
		PendingUsers  int `db:"pending_users"`
		Vehicles      int `db:"vehicles"`
		Drivers       int `db:"drivers"`
		Trips         int `db:"trips"`
		OpenRequests  int `db:"open_requests"`
		TotalKm       int `db:"total_km"`
	}

	query := `
		SELECT
			(SELECT COUNT(*) FROM users) AS users,
			(SELECT COUNT(*) FROM users WHERE status = 'pending') AS pending_users,
			(SELECT COUNT(*) FROM vehicles) AS vehicles,
			(SELECT COUNT(*) FROM drivers) AS drivers,
			(SELECT COUNT(*) FROM trips) AS trips,
			(SELECT COUNT(*) FROM requests WHERE status IN ('planned', 'in-progress')) AS open_requests,
			(SELECT COALESCE(SUM(mileage), 0) FROM vehicles) AS total_km
	`

	if err := db.Get(&result, query); err != nil {
		log.Fatalf("Failed to query summary: %v", err)
	}

	fmt.Println("\n============================================================")
	fmt.Println("MIGRATION SUMMARY")
	fmt.Println("============================================================")
	fmt.Printf("Users:                   %d (%d pending approval)\n", result.Users, result.PendingUsers)
	fmt.Printf("Vehicles:                %d\n", result.Vehicles)
	fmt.Printf("Drivers:                 %d\n", result.Drivers)
	fmt.Printf("Trips recorded:          %d\n", result.Trips)
	fmt.Printf("Open requests:           %d\n", result.OpenRequests)
	fmt.Printf("Fleet mileage total:     %d km\n", result.TotalKm)
	fmt.Println("============================================================")
}

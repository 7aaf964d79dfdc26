package database

import (
	"log"
	"os"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"golang.org/x/crypto/bcrypt"

	"fleetdesk-backend/internal/models"
)

// SeedUsers creates the initial superadmin account if no users exist yet.
// Every other account is created through registration or by the superadmin.
func SeedUsers(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM users"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Users already seeded, skipping...")
		return nil
	}

	email := os.Getenv("SEED_SUPERADMIN_EMAIL")
	if email == "" {
		email = "superadmin@fleetdesk.local"
	}
	password := os.Getenv("SEED_SUPERADMIN_PASSWORD")
	if password == "" {
		password = "changeme"
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	_, err = db.Exec(`
		INSERT INTO users (id, email, password_hash, name, position, role, status)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, uuid.New().String(), email, string(hash), "Super Admin", "administrator",
		models.RoleSuperadmin, models.UserStatusActive)
	if err != nil {
		return err
	}

	log.Printf("🌱 Seeded superadmin account: %s", email)
	return nil
}

// SeedFleet loads a small starter fleet so a fresh install is usable
// immediately.
func SeedFleet(db *sqlx.DB) error {
	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM vehicles"); err != nil {
		return err
	}

	if count > 0 {
		log.Println("✓ Fleet already seeded, skipping...")
		return nil
	}

	log.Println("🌱 Seeding starter fleet...")

	vehicles := []map[string]interface{}{
		{"make": "Toyota", "model": "Hilux", "type": "pickup", "registration_number": "AA 1234 BB", "assigned_unit": "HQ", "mileage": 84210},
		{"make": "Ford", "model": "Transit", "type": "van", "registration_number": "AA 5678 CC", "assigned_unit": "HQ", "mileage": 121035},
		{"make": "Volkswagen", "model": "Crafter", "type": "van", "registration_number": "AB 9012 DD", "assigned_unit": "North depot", "mileage": 56700},
		{"make": "Renault", "model": "Duster", "type": "suv", "registration_number": "AB 3456 EE", "assigned_unit": "North depot", "mileage": 23980},
	}
	for _, v := range vehicles {
		_, err := db.Exec(`
			INSERT INTO vehicles (id, make, model, type, registration_number, assigned_unit, status, mileage)
			VALUES ($1, $2, $3, $4, $5, $6, 'active', $7)
		`, uuid.New().String(), v["make"], v["model"], v["type"], v["registration_number"], v["assigned_unit"], v["mileage"])
		if err != nil {
			return err
		}
	}

	drivers := []map[string]interface{}{
		{"name": "Petro Shevchenko", "phone": "+380501112233", "license_number": "KVA123456", "position": "driver"},
		{"name": "Ivan Kovalenko", "phone": "+380671234567", "license_number": "KVA654321", "position": "senior driver"},
	}
	for _, d := range drivers {
		_, err := db.Exec(`
			INSERT INTO drivers (id, name, phone, license_number, position)
			VALUES ($1, $2, $3, $4, $5)
		`, uuid.New().String(), d["name"], d["phone"], d["license_number"], d["position"])
		if err != nil {
			return err
		}
	}

	log.Println("✅ Starter fleet seeded")
	return nil
}

package database

import (
	"fmt"
	"log"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

func Connect(dbURL string) (*sqlx.DB, error) {
	log.Println("🔌 Connecting to Postgres...")

	db, err := sqlx.Connect("postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ Database connection established")
	return db, nil
}

func Migrate(db *sqlx.DB) error {
	migrations := []string{
		// Create users table
		`CREATE TABLE IF NOT EXISTS users (
			id TEXT PRIMARY KEY,
			email TEXT NOT NULL UNIQUE,
			password_hash TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			role TEXT NOT NULL CHECK(role IN ('user', 'admin', 'superadmin')),
			status TEXT NOT NULL CHECK(status IN ('pending', 'active', 'rejected')),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create vehicles table
		`CREATE TABLE IF NOT EXISTS vehicles (
			id TEXT PRIMARY KEY,
			make TEXT NOT NULL DEFAULT '',
			model TEXT NOT NULL DEFAULT '',
			type TEXT NOT NULL DEFAULT '',
			registration_number TEXT NOT NULL DEFAULT '',
			assigned_unit TEXT NOT NULL DEFAULT '',
			status TEXT NOT NULL DEFAULT 'active',
			mileage INT NOT NULL DEFAULT 0 CHECK(mileage >= 0),
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create drivers table
		`CREATE TABLE IF NOT EXISTS drivers (
			id TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			phone TEXT NOT NULL DEFAULT '',
			license_number TEXT NOT NULL DEFAULT '',
			position TEXT NOT NULL DEFAULT '',
			photo_url TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create trips table.
		// driver_id/vehicle_id are loose references by design: the lifecycle
		// engine, not the store, owns referential integrity for fleet entities.
		`CREATE TABLE IF NOT EXISTS trips (
			id TEXT PRIMARY KEY,
			driver_id TEXT NOT NULL,
			vehicle_id TEXT NOT NULL,
			date BIGINT NOT NULL,
			distance_km INT NOT NULL CHECK(distance_km >= 0),
			notes TEXT NOT NULL DEFAULT '',
			request_id TEXT,
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create requests table
		`CREATE TABLE IF NOT EXISTS requests (
			id TEXT PRIMARY KEY,
			vehicle_id TEXT NOT NULL,
			driver_id TEXT NOT NULL,
			from_location TEXT NOT NULL DEFAULT '',
			to_location TEXT NOT NULL DEFAULT '',
			depart_at BIGINT NOT NULL DEFAULT 0,
			arrive_at BIGINT,
			kilometers INT,
			status TEXT NOT NULL DEFAULT 'planned' CHECK(status IN ('planned', 'in-progress', 'done', 'canceled')),
			notes TEXT,
			created_by TEXT NOT NULL DEFAULT '',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT
		)`,

		// Create device_tokens table (push notification targets)
		`CREATE TABLE IF NOT EXISTS device_tokens (
			id SERIAL PRIMARY KEY,
			user_id TEXT NOT NULL,
			token TEXT NOT NULL UNIQUE,
			platform TEXT NOT NULL DEFAULT 'web',
			created_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			updated_at BIGINT NOT NULL DEFAULT EXTRACT(EPOCH FROM NOW())::BIGINT,
			FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		)`,

		// Create indexes
		`CREATE INDEX IF NOT EXISTS idx_users_email ON users(email)`,
		`CREATE INDEX IF NOT EXISTS idx_users_status ON users(status)`,
		`CREATE INDEX IF NOT EXISTS idx_vehicles_registration_number ON vehicles(registration_number)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_driver_id ON trips(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_vehicle_id ON trips(vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_trips_request_id ON trips(request_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_status ON requests(status)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_vehicle_id ON requests(vehicle_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_driver_id ON requests(driver_id)`,
		`CREATE INDEX IF NOT EXISTS idx_requests_created_by ON requests(created_by)`,
		`CREATE INDEX IF NOT EXISTS idx_device_tokens_user_id ON device_tokens(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	log.Println("✓ Database migrations completed")
	return nil
}

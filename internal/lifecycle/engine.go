package lifecycle

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"fleetdesk-backend/internal/models"
)

// Engine applies request updates under the state machine and persists their
// side effects. It is constructed once at process start and injected into the
// request handlers; it holds no state beyond the store handle.
type Engine struct {
	db *sqlx.DB
}

func NewEngine(db *sqlx.DB) *Engine {
	return &Engine{db: db}
}

// UpdateRequest applies patch to the request with the given id.
//
// The whole update runs in one transaction with the request row locked
// (SELECT ... FOR UPDATE), so the edge-trigger check always observes a
// consistent prior status: of two concurrent completions, the second
// serializes behind the first, reads done, and fails with
// ErrInvalidTransition instead of double-accruing. The mileage accrual is an
// atomic in-place increment, never a blind overwrite of a separately read
// value. Trip insert, vehicle update and request update commit together or
// not at all.
// The recorded trip, if the update produced one, is returned alongside the
// updated request so callers can notify interested parties.
func (e *Engine) UpdateRequest(ctx context.Context, id string, patch models.RequestPatch) (*models.Request, *models.Trip, error) {
	tx, err := e.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var current models.Request
	err = tx.GetContext(ctx, &current, `SELECT * FROM requests WHERE id = $1 FOR UPDATE`, id)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil, ErrRequestNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch request: %w", err)
	}

	plan, err := PlanUpdate(current, patch, time.Now())
	if err != nil {
		return nil, nil, err
	}

	if plan.Trip != nil {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO trips (id, driver_id, vehicle_id, date, distance_km, notes, request_id, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, plan.Trip.ID, plan.Trip.DriverID, plan.Trip.VehicleID, plan.Trip.Date,
			plan.Trip.DistanceKm, plan.Trip.Notes, plan.Trip.RequestID, plan.Trip.CreatedAt)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to record trip: %w", err)
		}
	}

	if plan.AccrualKm > 0 {
		res, err := tx.ExecContext(ctx, `
			UPDATE vehicles
			SET mileage = mileage + $1, updated_at = $2
			WHERE id = $3
		`, plan.AccrualKm, plan.Request.UpdatedAt, plan.Request.VehicleID)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to accrue vehicle mileage: %w", err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return nil, nil, fmt.Errorf("failed to accrue vehicle mileage: %w", err)
		}
		if rows == 0 {
			// Completion references a vehicle that does not exist: fail the
			// whole transition rather than record a trip with no accrual.
			return nil, nil, fmt.Errorf("%w: %s", ErrVehicleNotFound, plan.Request.VehicleID)
		}
	}

	r := plan.Request
	_, err = tx.ExecContext(ctx, `
		UPDATE requests
		SET vehicle_id = $1, driver_id = $2, from_location = $3, to_location = $4,
		    depart_at = $5, arrive_at = $6, kilometers = $7, status = $8,
		    notes = $9, updated_at = $10
		WHERE id = $11
	`, r.VehicleID, r.DriverID, r.From, r.To, r.DepartAt, r.ArriveAt,
		r.Kilometers, r.Status, r.Notes, r.UpdatedAt, r.ID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update request: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return &r, plan.Trip, nil
}

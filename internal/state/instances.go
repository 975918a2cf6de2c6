package state

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"
)

// InstanceStatus tracks what sqlbox last did with an instance.
type InstanceStatus string

const (
	StatusCreated InstanceStatus = "created"
	StatusRunning InstanceStatus = "running"
	StatusStopped InstanceStatus = "stopped"
	StatusRemoved InstanceStatus = "removed"
)

// ErrNotFound is returned when no live instance matches.
var ErrNotFound = errors.New("instance not found")

// Instance is one ledger entry: a container sqlbox created.
type Instance struct {
	ID          string
	Name        string
	Engine      string
	Image       string
	HostPort    int
	ContainerID string
	Status      InstanceStatus
	CreatedAt   time.Time
	RemovedAt   *time.Time
}

// CreateInstance inserts a new ledger entry. The ID is assigned here.
// Returns an error if a live instance already uses the name.
func (db *DB) CreateInstance(inst *Instance) error {
	if inst.ID == "" {
		inst.ID = ulid.Make().String()
	}
	if inst.CreatedAt.IsZero() {
		inst.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO instances (
			id, name, engine, image, host_port, container_id,
			status, created_at, removed_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.conn.Exec(
		query,
		inst.ID,
		inst.Name,
		inst.Engine,
		inst.Image,
		inst.HostPort,
		inst.ContainerID,
		inst.Status,
		inst.CreatedAt,
		inst.RemovedAt,
	)

	if err != nil {
		if strings.Contains(err.Error(), "UNIQUE constraint failed") {
			return fmt.Errorf("instance %q already exists (remove it first with 'sqlbox down %s')", inst.Name, inst.Name)
		}
		return fmt.Errorf("failed to create instance: %w", err)
	}

	return nil
}

// GetActiveByName retrieves the live (not removed) instance with the name.
// Returns ErrNotFound if none exists.
func (db *DB) GetActiveByName(name string) (*Instance, error) {
	query := `
		SELECT id, name, engine, image, host_port, container_id,
		       status, created_at, removed_at
		FROM instances
		WHERE name = ? AND removed_at IS NULL
	`

	inst, err := scanInstance(db.conn.QueryRow(query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get instance: %w", err)
	}
	return inst, nil
}

// ListActive returns all live instances, oldest first.
func (db *DB) ListActive() ([]*Instance, error) {
	query := `
		SELECT id, name, engine, image, host_port, container_id,
		       status, created_at, removed_at
		FROM instances
		WHERE removed_at IS NULL
		ORDER BY created_at
	`

	rows, err := db.conn.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list instances: %w", err)
	}
	defer rows.Close()

	var instances []*Instance
	for rows.Next() {
		inst, err := scanInstance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan instance: %w", err)
		}
		instances = append(instances, inst)
	}
	return instances, rows.Err()
}

// UpdateStatus records the instance's new lifecycle status.
func (db *DB) UpdateStatus(id string, status InstanceStatus) error {
	result, err := db.conn.Exec(`UPDATE instances SET status = ? WHERE id = ?`, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// MarkRemoved records that the instance's container has been deleted.
// The row stays for history; the name becomes reusable.
func (db *DB) MarkRemoved(id string) error {
	now := time.Now()
	result, err := db.conn.Exec(
		`UPDATE instances SET status = ?, removed_at = ? WHERE id = ? AND removed_at IS NULL`,
		StatusRemoved, now, id,
	)
	if err != nil {
		return fmt.Errorf("failed to mark instance removed: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

// scanner abstracts *sql.Row and *sql.Rows for scanInstance.
type scanner interface {
	Scan(dest ...any) error
}

func scanInstance(s scanner) (*Instance, error) {
	var inst Instance
	var removedAt sql.NullTime
	err := s.Scan(
		&inst.ID,
		&inst.Name,
		&inst.Engine,
		&inst.Image,
		&inst.HostPort,
		&inst.ContainerID,
		&inst.Status,
		&inst.CreatedAt,
		&removedAt,
	)
	if err != nil {
		return nil, err
	}
	if removedAt.Valid {
		inst.RemovedAt = &removedAt.Time
	}
	return &inst, nil
}

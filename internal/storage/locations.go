package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/model"
	"github.com/google/uuid"
)

const locationColumns = `id, name, address, city, postal_code, notes, created_at, updated_at`

// GetOrCreateLocation returns the location at the given address, inserting
// it when absent. Locations without an address are always created.
func (s *Store) GetOrCreateLocation(ctx context.Context, loc model.Location) (*model.Location, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	loc.Name = strings.TrimSpace(loc.Name)
	loc.Address = strings.TrimSpace(loc.Address)
	if err := s.validateRecord(loc); err != nil {
		return nil, err
	}

	if loc.Address != "" {
		var existing model.Location
		err := s.db.GetContext(ctx, &existing,
			s.rebind(`SELECT `+locationColumns+` FROM locations WHERE address = ? ORDER BY created_at LIMIT 1`), loc.Address)
		if err == nil {
			return &existing, nil
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("failed to look up location: %w", err)
		}
	}

	now := time.Now().UTC()
	loc.ID = uuid.NewString()
	loc.CreatedAt = now
	loc.UpdatedAt = now

	_, err := s.db.NamedExecContext(ctx, `
		INSERT INTO locations (`+locationColumns+`)
		VALUES (:id, :name, :address, :city, :postal_code, :notes, :created_at, :updated_at)
	`, loc)
	if err != nil {
		return nil, fmt.Errorf("failed to create location: %w", err)
	}
	return &loc, nil
}

// ListLocations returns every location ordered by name.
func (s *Store) ListLocations(ctx context.Context) ([]model.Location, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	locations := []model.Location{}
	if err := s.db.SelectContext(ctx, &locations, `SELECT `+locationColumns+` FROM locations ORDER BY name, created_at`); err != nil {
		return nil, fmt.Errorf("failed to query locations: %w", err)
	}
	return locations, nil
}

package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Veraticus/squeegee/internal/common"
	"github.com/Veraticus/squeegee/internal/model"
	"github.com/google/uuid"
)

const serviceColumns = `id, name, description, price, duration_minutes, created_at, updated_at`

// GetOrCreateService returns the service with the given name, inserting it
// when absent. An existing service keeps its stored price.
func (s *Store) GetOrCreateService(ctx context.Context, svc model.Service) (*model.Service, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	svc.Name = strings.TrimSpace(svc.Name)
	if err := s.validateRecord(svc); err != nil {
		return nil, err
	}

	var existing model.Service
	err := s.db.GetContext(ctx, &existing,
		s.rebind(`SELECT `+serviceColumns+` FROM services WHERE name = ?`), svc.Name)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up service: %w", err)
	}

	now := time.Now().UTC()
	svc.ID = uuid.NewString()
	svc.CreatedAt = now
	svc.UpdatedAt = now

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO services (`+serviceColumns+`)
		VALUES (:id, :name, :description, :price, :duration_minutes, :created_at, :updated_at)
	`, svc)
	if err != nil {
		return nil, fmt.Errorf("failed to create service: %w", err)
	}
	return &svc, nil
}

// GetService retrieves a service by ID.
func (s *Store) GetService(ctx context.Context, id string) (*model.Service, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var svc model.Service
	err := s.db.GetContext(ctx, &svc, s.rebind(`SELECT `+serviceColumns+` FROM services WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("service %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get service: %w", err)
	}
	return &svc, nil
}

// ListServices returns every service ordered by name.
func (s *Store) ListServices(ctx context.Context) ([]model.Service, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	services := []model.Service{}
	if err := s.db.SelectContext(ctx, &services, `SELECT `+serviceColumns+` FROM services ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to query services: %w", err)
	}
	return services, nil
}

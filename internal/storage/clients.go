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

const clientColumns = `id, name, email, phone, address, city, postal_code, notes, created_at, updated_at`

// GetOrCreateClient returns the client matching email, or name when no email
// is given, inserting it when absent.
func (s *Store) GetOrCreateClient(ctx context.Context, client model.Client) (*model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	client.Name = strings.TrimSpace(client.Name)
	client.Email = strings.TrimSpace(client.Email)
	if err := s.validateRecord(client); err != nil {
		return nil, err
	}

	query := `SELECT ` + clientColumns + ` FROM clients WHERE name = ? ORDER BY created_at LIMIT 1`
	arg := client.Name
	if client.Email != "" {
		query = `SELECT ` + clientColumns + ` FROM clients WHERE email = ? ORDER BY created_at LIMIT 1`
		arg = client.Email
	}

	var existing model.Client
	err := s.db.GetContext(ctx, &existing, s.rebind(query), arg)
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("failed to look up client: %w", err)
	}

	now := time.Now().UTC()
	client.ID = uuid.NewString()
	client.CreatedAt = now
	client.UpdatedAt = now

	_, err = s.db.NamedExecContext(ctx, `
		INSERT INTO clients (`+clientColumns+`)
		VALUES (:id, :name, :email, :phone, :address, :city, :postal_code, :notes, :created_at, :updated_at)
	`, client)
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}
	return &client, nil
}

// GetClient retrieves a client by ID.
func (s *Store) GetClient(ctx context.Context, id string) (*model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	var client model.Client
	err := s.db.GetContext(ctx, &client, s.rebind(`SELECT `+clientColumns+` FROM clients WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("client %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get client: %w", err)
	}
	return &client, nil
}

// SearchClients finds clients whose name contains the given text, ignoring case.
func (s *Store) SearchClients(ctx context.Context, name string) ([]model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(name, "name"); err != nil {
		return nil, err
	}

	pattern := "%" + strings.ToLower(strings.TrimSpace(name)) + "%"
	clients := []model.Client{}
	err := s.db.SelectContext(ctx, &clients,
		s.rebind(`SELECT `+clientColumns+` FROM clients WHERE LOWER(name) LIKE ? ORDER BY name`), pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to search clients: %w", err)
	}
	return clients, nil
}

// ListClients returns every client ordered by name.
func (s *Store) ListClients(ctx context.Context) ([]model.Client, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	clients := []model.Client{}
	if err := s.db.SelectContext(ctx, &clients, `SELECT `+clientColumns+` FROM clients ORDER BY name`); err != nil {
		return nil, fmt.Errorf("failed to query clients: %w", err)
	}
	return clients, nil
}

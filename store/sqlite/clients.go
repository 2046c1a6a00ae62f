package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/warp/backoffice/office"
)

// =============================================================================
// CLIENT STORE
// =============================================================================

type clientRow struct {
	ID           string         `db:"id"`
	ContractorID string         `db:"contractor_id"`
	Name         string         `db:"name"`
	Email        sql.NullString `db:"email"`
	Phone        sql.NullString `db:"phone"`
	Address      sql.NullString `db:"address"`
	CreatedAt    string         `db:"created_at"`
	UpdatedAt    string         `db:"updated_at"`
}

const clientColumns = "id, contractor_id, name, email, phone, address, created_at, updated_at"

func (r clientRow) toClient() office.Client {
	return office.Client{
		ID:           office.ClientID(r.ID),
		ContractorID: office.ContractorID(r.ContractorID),
		Name:         r.Name,
		Email:        r.Email.String,
		Phone:        r.Phone.String,
		Address:      r.Address.String,
		CreatedAt:    parseTimestamp(r.CreatedAt),
		UpdatedAt:    parseTimestamp(r.UpdatedAt),
	}
}

// ListClients returns the contractor's clients, newest first. A non-empty
// search matches name, email or phone case-insensitively.
func (s *Store) ListClients(ctx context.Context, contractorID office.ContractorID, search string) ([]office.Client, error) {
	query := "SELECT " + clientColumns + " FROM clients WHERE contractor_id = ?"
	args := []any{contractorID}

	if pattern := likePattern(search); pattern != "%%" {
		query += " AND (LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR LOWER(phone) LIKE ?)"
		args = append(args, pattern, pattern, pattern)
	}
	query += " ORDER BY created_at DESC, id DESC"

	var rows []clientRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}

	clients := make([]office.Client, len(rows))
	for i, r := range rows {
		clients[i] = r.toClient()
	}
	return clients, nil
}

// GetClient returns ErrClientNotFound for missing or foreign clients.
func (s *Store) GetClient(ctx context.Context, contractorID office.ContractorID, id office.ClientID) (office.Client, error) {
	return getClient(ctx, s.db, contractorID, id)
}

func (s *Store) CreateClient(ctx context.Context, c office.Client) (office.Client, error) {
	now := s.timestamp()
	c.ID = office.ClientID(uuid.NewString())
	c.CreatedAt = parseTimestamp(now)
	c.UpdatedAt = c.CreatedAt

	query := `
		INSERT INTO clients (id, contractor_id, name, email, phone, address, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, s.db.Rebind(query),
		c.ID, c.ContractorID, c.Name,
		nullString(c.Email), nullString(c.Phone), nullString(c.Address), now, now,
	)
	if err != nil {
		return office.Client{}, fmt.Errorf("failed to insert client: %w", err)
	}
	return c, nil
}

// UpdateClient applies a partial update to an owned client.
func (s *Store) UpdateClient(ctx context.Context, contractorID office.ContractorID, id office.ClientID, upd office.ClientUpdate) (office.Client, error) {
	var updated office.Client

	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		c, err := getClient(ctx, tx, contractorID, id)
		if err != nil {
			return err
		}

		if upd.Name != nil {
			c.Name = *upd.Name
		}
		if upd.Email != nil {
			c.Email = *upd.Email
		}
		if upd.Phone != nil {
			c.Phone = *upd.Phone
		}
		if upd.Address != nil {
			c.Address = *upd.Address
		}
		now := s.timestamp()
		c.UpdatedAt = parseTimestamp(now)

		_, err = tx.ExecContext(ctx,
			tx.Rebind("UPDATE clients SET name = ?, email = ?, phone = ?, address = ?, updated_at = ? WHERE id = ? AND contractor_id = ?"),
			c.Name, nullString(c.Email), nullString(c.Phone), nullString(c.Address), now, id, contractorID,
		)
		if err != nil {
			return fmt.Errorf("failed to update client: %w", err)
		}

		updated = c
		return nil
	})

	return updated, err
}

// DeleteClient removes an owned client. Clients referenced by quotations
// cannot be deleted.
func (s *Store) DeleteClient(ctx context.Context, contractorID office.ContractorID, id office.ClientID) error {
	return s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getClient(ctx, tx, contractorID, id); err != nil {
			return err
		}

		var count int
		err := tx.GetContext(ctx, &count,
			tx.Rebind("SELECT COUNT(*) FROM quotations WHERE client_id = ?"), id)
		if err != nil {
			return fmt.Errorf("failed to count quotations: %w", err)
		}
		if count > 0 {
			return office.ErrClientInUse
		}

		_, err = tx.ExecContext(ctx,
			tx.Rebind("DELETE FROM clients WHERE id = ? AND contractor_id = ?"), id, contractorID)
		if err != nil {
			return fmt.Errorf("failed to delete client: %w", err)
		}
		return nil
	})
}

func getClient(ctx context.Context, q sqlx.ExtContext, contractorID office.ContractorID, id office.ClientID) (office.Client, error) {
	var row clientRow
	err := sqlx.GetContext(ctx, q, &row,
		q.Rebind("SELECT "+clientColumns+" FROM clients WHERE id = ? AND contractor_id = ?"),
		id, contractorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return office.Client{}, office.ErrClientNotFound
	}
	if err != nil {
		return office.Client{}, fmt.Errorf("failed to get client: %w", err)
	}
	return row.toClient(), nil
}

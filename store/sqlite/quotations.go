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
// QUOTATION STORE
// =============================================================================

// History actions recorded for every quotation write.
const (
	ActionQuotationCreated = "quotation created"
	ActionQuotationUpdated = "quotation updated"
	actionStatusChanged    = "status changed to %s"
)

type quotationRow struct {
	ID                 string         `db:"id"`
	ContractorID       string         `db:"contractor_id"`
	ClientID           string         `db:"client_id"`
	QuotationNumber    string         `db:"quotation_number"`
	IssueDate          string         `db:"issue_date"`
	ValidityDays       sql.NullInt64  `db:"validity_days"`
	TermsAndConditions sql.NullString `db:"terms_and_conditions"`
	InternalNotes      sql.NullString `db:"internal_notes"`
	Status             string         `db:"status"`
	Subtotal           string         `db:"subtotal"`
	Total              string         `db:"total"`
	CreatedAt          string         `db:"created_at"`
	UpdatedAt          string         `db:"updated_at"`
}

const quotationColumns = `id, contractor_id, client_id, quotation_number, issue_date, validity_days,
	terms_and_conditions, internal_notes, status, subtotal, total, created_at, updated_at`

func (r quotationRow) toQuotation() office.Quotation {
	issued, _ := office.ParseDate(r.IssueDate)
	q := office.Quotation{
		ID:                 office.QuotationID(r.ID),
		ContractorID:       office.ContractorID(r.ContractorID),
		ClientID:           office.ClientID(r.ClientID),
		QuotationNumber:    r.QuotationNumber,
		IssueDate:          issued,
		TermsAndConditions: r.TermsAndConditions.String,
		InternalNotes:      r.InternalNotes.String,
		Status:             office.QuotationStatus(r.Status),
		Subtotal:           office.MustParseDecimal(r.Subtotal),
		Total:              office.MustParseDecimal(r.Total),
		CreatedAt:          parseTimestamp(r.CreatedAt),
		UpdatedAt:          parseTimestamp(r.UpdatedAt),
	}
	if r.ValidityDays.Valid {
		days := int(r.ValidityDays.Int64)
		q.ValidityDays = &days
	}
	return q
}

type quotationItemRow struct {
	ID          string `db:"id"`
	QuotationID string `db:"quotation_id"`
	Description string `db:"description"`
	Quantity    string `db:"quantity"`
	UnitPrice   string `db:"unit_price"`
	LineTotal   string `db:"line_total"`
}

type quotationHistoryRow struct {
	ID          string `db:"id"`
	QuotationID string `db:"quotation_id"`
	Action      string `db:"action"`
	CreatedAt   string `db:"created_at"`
}

// ListQuotations returns the contractor's quotations, newest first, each
// with its client. Items and history are not loaded.
func (s *Store) ListQuotations(ctx context.Context, contractorID office.ContractorID, filter office.QuotationFilter) ([]office.QuotationDetail, error) {
	query := "SELECT " + quotationColumns + " FROM quotations WHERE contractor_id = ?"
	args := []any{contractorID}

	if filter.Status != "" {
		query += " AND status = ?"
		args = append(args, filter.Status)
	}
	if filter.ClientID != "" {
		query += " AND client_id = ?"
		args = append(args, filter.ClientID)
	}
	if pattern := likePattern(filter.Search); pattern != "%%" {
		query += " AND (LOWER(quotation_number) LIKE ? OR LOWER(internal_notes) LIKE ?)"
		args = append(args, pattern, pattern)
	}
	query += " ORDER BY created_at DESC, id DESC"

	var rows []quotationRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to list quotations: %w", err)
	}

	clients, err := s.ListClients(ctx, contractorID, "")
	if err != nil {
		return nil, err
	}
	byID := make(map[office.ClientID]office.Client, len(clients))
	for _, c := range clients {
		byID[c.ID] = c
	}

	result := make([]office.QuotationDetail, len(rows))
	for i, r := range rows {
		detail := office.QuotationDetail{Quotation: r.toQuotation()}
		if c, ok := byID[detail.ClientID]; ok {
			detail.Client = &c
		}
		result[i] = detail
	}
	return result, nil
}

// NextQuotationNumber proposes the number following the contractor's most
// recently created quotation.
func (s *Store) NextQuotationNumber(ctx context.Context, contractorID office.ContractorID) (string, error) {
	var last string
	err := s.db.GetContext(ctx, &last,
		s.db.Rebind("SELECT quotation_number FROM quotations WHERE contractor_id = ? ORDER BY created_at DESC LIMIT 1"),
		contractorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return "1", nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get last quotation number: %w", err)
	}
	return office.NextQuotationNumber(last), nil
}

// GetQuotation returns a quotation with its client, items and history
// (newest entry first).
func (s *Store) GetQuotation(ctx context.Context, contractorID office.ContractorID, id office.QuotationID) (*office.QuotationDetail, error) {
	return getQuotationDetail(ctx, s.db, contractorID, id)
}

// CreateQuotation stores a quotation for an owned client. Line totals,
// subtotal and total are computed here; caller-supplied totals are ignored.
func (s *Store) CreateQuotation(ctx context.Context, q office.Quotation, items []office.QuotationItem) (*office.QuotationDetail, error) {
	if len(items) == 0 {
		return nil, &office.ValidationError{Fields: []office.FieldError{{Field: "items", Rule: "min"}}}
	}

	var detail *office.QuotationDetail
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := getClient(ctx, tx, q.ContractorID, q.ClientID); err != nil {
			return err
		}

		priced, subtotal := office.PriceItems(items)
		now := s.timestamp()
		q.ID = office.QuotationID(uuid.NewString())
		if q.Status == "" {
			q.Status = office.QuotationDraft
		}
		q.Subtotal = subtotal
		q.Total = subtotal

		query := `
			INSERT INTO quotations (id, contractor_id, client_id, quotation_number, issue_date,
				validity_days, terms_and_conditions, internal_notes, status, subtotal, total,
				created_at, updated_at)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, tx.Rebind(query),
			q.ID, q.ContractorID, q.ClientID, q.QuotationNumber, q.IssueDate.String(),
			nullInt(q.ValidityDays), nullString(q.TermsAndConditions), nullString(q.InternalNotes),
			q.Status, office.FormatMoney(q.Subtotal), office.FormatMoney(q.Total), now, now,
		)
		if err != nil {
			return fmt.Errorf("failed to insert quotation: %w", err)
		}

		if err := insertQuotationItems(ctx, tx, q.ID, priced); err != nil {
			return err
		}
		if err := s.addQuotationHistory(ctx, tx, q.ID, ActionQuotationCreated); err != nil {
			return err
		}

		detail, err = getQuotationDetail(ctx, tx, q.ContractorID, q.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// UpdateQuotation applies a partial update. Non-empty Items replace every
// line item and recompute the totals.
func (s *Store) UpdateQuotation(ctx context.Context, contractorID office.ContractorID, id office.QuotationID, upd office.QuotationUpdate) (*office.QuotationDetail, error) {
	var detail *office.QuotationDetail
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		current, err := getQuotationDetail(ctx, tx, contractorID, id)
		if err != nil {
			return err
		}
		q := current.Quotation

		if upd.ClientID != nil {
			if _, err := getClient(ctx, tx, contractorID, *upd.ClientID); err != nil {
				return err
			}
			q.ClientID = *upd.ClientID
		}
		if upd.QuotationNumber != nil {
			q.QuotationNumber = *upd.QuotationNumber
		}
		if upd.IssueDate != nil {
			q.IssueDate = *upd.IssueDate
		}
		if upd.ValidityDays != nil {
			q.ValidityDays = upd.ValidityDays
		}
		if upd.TermsAndConditions != nil {
			q.TermsAndConditions = *upd.TermsAndConditions
		}
		if upd.InternalNotes != nil {
			q.InternalNotes = *upd.InternalNotes
		}

		if len(upd.Items) > 0 {
			priced, subtotal := office.PriceItems(upd.Items)
			q.Subtotal = subtotal
			q.Total = subtotal

			if _, err := tx.ExecContext(ctx, tx.Rebind("DELETE FROM quotation_items WHERE quotation_id = ?"), id); err != nil {
				return fmt.Errorf("failed to delete quotation items: %w", err)
			}
			if err := insertQuotationItems(ctx, tx, id, priced); err != nil {
				return err
			}
		}

		query := `
			UPDATE quotations SET client_id = ?, quotation_number = ?, issue_date = ?,
				validity_days = ?, terms_and_conditions = ?, internal_notes = ?,
				subtotal = ?, total = ?, updated_at = ?
			WHERE id = ? AND contractor_id = ?
		`
		_, err = tx.ExecContext(ctx, tx.Rebind(query),
			q.ClientID, q.QuotationNumber, q.IssueDate.String(), nullInt(q.ValidityDays),
			nullString(q.TermsAndConditions), nullString(q.InternalNotes),
			office.FormatMoney(q.Subtotal), office.FormatMoney(q.Total), s.timestamp(),
			id, contractorID,
		)
		if err != nil {
			return fmt.Errorf("failed to update quotation: %w", err)
		}

		if err := s.addQuotationHistory(ctx, tx, id, ActionQuotationUpdated); err != nil {
			return err
		}

		detail, err = getQuotationDetail(ctx, tx, contractorID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// SetQuotationStatus changes the status and records it in the history.
func (s *Store) SetQuotationStatus(ctx context.Context, contractorID office.ContractorID, id office.QuotationID, status office.QuotationStatus) (*office.QuotationDetail, error) {
	var detail *office.QuotationDetail
	err := s.withTx(ctx, func(tx *sqlx.Tx) error {
		res, err := tx.ExecContext(ctx,
			tx.Rebind("UPDATE quotations SET status = ?, updated_at = ? WHERE id = ? AND contractor_id = ?"),
			status, s.timestamp(), id, contractorID,
		)
		if err != nil {
			return fmt.Errorf("failed to update quotation status: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return office.ErrQuotationNotFound
		}

		if err := s.addQuotationHistory(ctx, tx, id, fmt.Sprintf(actionStatusChanged, status)); err != nil {
			return err
		}

		detail, err = getQuotationDetail(ctx, tx, contractorID, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return detail, nil
}

// DeleteQuotation removes an owned quotation with its items and history.
func (s *Store) DeleteQuotation(ctx context.Context, contractorID office.ContractorID, id office.QuotationID) error {
	res, err := s.db.ExecContext(ctx,
		s.db.Rebind("DELETE FROM quotations WHERE id = ? AND contractor_id = ?"), id, contractorID)
	if err != nil {
		return fmt.Errorf("failed to delete quotation: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return office.ErrQuotationNotFound
	}
	return nil
}

// Helper functions

func getQuotationDetail(ctx context.Context, q sqlx.ExtContext, contractorID office.ContractorID, id office.QuotationID) (*office.QuotationDetail, error) {
	var row quotationRow
	err := sqlx.GetContext(ctx, q, &row,
		q.Rebind("SELECT "+quotationColumns+" FROM quotations WHERE id = ? AND contractor_id = ?"),
		id, contractorID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, office.ErrQuotationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get quotation: %w", err)
	}

	detail := &office.QuotationDetail{Quotation: row.toQuotation()}

	client, err := getClient(ctx, q, contractorID, detail.ClientID)
	switch {
	case errors.Is(err, office.ErrClientNotFound):
	case err != nil:
		return nil, err
	default:
		detail.Client = &client
	}

	var items []quotationItemRow
	err = sqlx.SelectContext(ctx, q, &items,
		q.Rebind(`SELECT id, quotation_id, description, quantity, unit_price, line_total
			FROM quotation_items WHERE quotation_id = ? ORDER BY position`),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotation items: %w", err)
	}
	detail.Items = make([]office.QuotationItem, len(items))
	for i, it := range items {
		detail.Items[i] = office.QuotationItem{
			ID:          it.ID,
			QuotationID: office.QuotationID(it.QuotationID),
			Description: it.Description,
			Quantity:    office.MustParseDecimal(it.Quantity),
			UnitPrice:   office.MustParseDecimal(it.UnitPrice),
			LineTotal:   office.MustParseDecimal(it.LineTotal),
		}
	}

	var history []quotationHistoryRow
	err = sqlx.SelectContext(ctx, q, &history,
		q.Rebind(`SELECT id, quotation_id, action, created_at
			FROM quotation_history WHERE quotation_id = ? ORDER BY seq DESC`),
		id,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load quotation history: %w", err)
	}
	detail.History = make([]office.QuotationHistoryEntry, len(history))
	for i, h := range history {
		detail.History[i] = office.QuotationHistoryEntry{
			ID:          h.ID,
			QuotationID: office.QuotationID(h.QuotationID),
			Action:      h.Action,
			CreatedAt:   parseTimestamp(h.CreatedAt),
		}
	}

	return detail, nil
}

func insertQuotationItems(ctx context.Context, tx *sqlx.Tx, id office.QuotationID, items []office.QuotationItem) error {
	query := tx.Rebind(`
		INSERT INTO quotation_items (id, quotation_id, position, description, quantity, unit_price, line_total)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`)
	for i, item := range items {
		_, err := tx.ExecContext(ctx, query,
			uuid.NewString(), id, i, item.Description,
			item.Quantity.String(), office.FormatMoney(item.UnitPrice), office.FormatMoney(item.LineTotal),
		)
		if err != nil {
			return fmt.Errorf("failed to insert quotation item: %w", err)
		}
	}
	return nil
}

// addQuotationHistory appends an entry. seq numbers a quotation's entries
// in insertion order, so entries sharing a timestamp still sort.
func (s *Store) addQuotationHistory(ctx context.Context, tx *sqlx.Tx, id office.QuotationID, action string) error {
	var seq int64
	err := tx.GetContext(ctx, &seq,
		tx.Rebind("SELECT COALESCE(MAX(seq), 0) + 1 FROM quotation_history WHERE quotation_id = ?"),
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to number quotation history: %w", err)
	}

	_, err = tx.ExecContext(ctx,
		tx.Rebind("INSERT INTO quotation_history (id, quotation_id, seq, action, created_at) VALUES (?, ?, ?, ?, ?)"),
		uuid.NewString(), id, seq, action, s.timestamp(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert quotation history: %w", err)
	}
	return nil
}

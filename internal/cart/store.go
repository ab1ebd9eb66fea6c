// Package cart keeps each buyer session's list of quote records in SQLite.
// Records are stored as snapshots and read back without repricing.
package cart

import (
	"context"
	"database/sql"
	"errors"
	"time"

	json "github.com/goccy/go-json"

	apperrors "github.com/Simplici0/quoteworks/internal/errors"
	"github.com/Simplici0/quoteworks/internal/pricing"
)

// Store persists quote records per cart session.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore returns a Store over an open, migrated database.
func NewStore(db *sql.DB) *Store {
	return &Store{db: db, now: time.Now}
}

// Submission records that a cart quote was handed to the sales endpoint.
type Submission struct {
	QuoteID     string    `json:"quoteId"`
	Reference   string    `json:"reference"`
	SubmittedAt time.Time `json:"submittedAt"`
}

// AppendToCart stores a quote record at the end of the session's cart.
// Appending the same record id twice is a no-op.
func (s *Store) AppendToCart(ctx context.Context, sessionID string, record pricing.QuoteRecord) error {
	cfgJSON, err := json.Marshal(record.Configuration)
	if err != nil {
		return apperrors.Storage("encode configuration", err)
	}
	breakdownJSON, err := json.Marshal(record.CostBreakdown)
	if err != nil {
		return apperrors.Storage("encode cost breakdown", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO cart_items (
			session_id, quote_id, product_family, tier, rule_version,
			requires_custom_quote, total, created_at, configuration_json, breakdown_json
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (session_id, quote_id) DO NOTHING
	`,
		sessionID,
		record.ID,
		record.Configuration.ProductFamily,
		record.Configuration.Tier,
		record.CostBreakdown.RuleVersion,
		record.CostBreakdown.RequiresCustomQuote,
		record.CostBreakdown.Total.StringFixed(2),
		record.CreatedAt.UTC().Format(time.RFC3339Nano),
		string(cfgJSON),
		string(breakdownJSON),
	)
	if err != nil {
		return apperrors.Storage("append quote to cart", err).WithContext("quoteId", record.ID)
	}
	return nil
}

// ReadCart returns the session's quote records in insertion order.
func (s *Store) ReadCart(ctx context.Context, sessionID string) ([]pricing.QuoteRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT quote_id, created_at, configuration_json, breakdown_json
		FROM cart_items
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, apperrors.Storage("query cart", err)
	}
	defer rows.Close()

	records := make([]pricing.QuoteRecord, 0)
	for rows.Next() {
		record, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate cart", err)
	}
	return records, nil
}

// GetQuote returns one record from the session's cart.
func (s *Store) GetQuote(ctx context.Context, sessionID, quoteID string) (pricing.QuoteRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT quote_id, created_at, configuration_json, breakdown_json
		FROM cart_items
		WHERE session_id = ? AND quote_id = ?
	`, sessionID, quoteID)

	record, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return pricing.QuoteRecord{}, apperrors.NotFound("quote", quoteID)
	}
	if err != nil {
		return pricing.QuoteRecord{}, err
	}
	return record, nil
}

// RemoveFromCart deletes one record from the session's cart.
func (s *Store) RemoveFromCart(ctx context.Context, sessionID, quoteID string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM cart_items
		WHERE session_id = ? AND quote_id = ?
	`, sessionID, quoteID)
	if err != nil {
		return apperrors.Storage("remove quote from cart", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperrors.Storage("remove quote from cart", err)
	}
	if affected == 0 {
		return apperrors.NotFound("quote", quoteID)
	}
	return nil
}

// ClearCart deletes every record in the session's cart.
func (s *Store) ClearCart(ctx context.Context, sessionID string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM cart_items WHERE session_id = ?`, sessionID); err != nil {
		return apperrors.Storage("clear cart", err)
	}
	return nil
}

// RecordSubmission stores the reference returned for a submitted quote.
func (s *Store) RecordSubmission(ctx context.Context, sessionID, quoteID, reference string) (Submission, error) {
	submittedAt := s.now().UTC()
	if _, err := s.db.ExecContext(ctx, `
		INSERT INTO quote_submissions (session_id, quote_id, reference, submitted_at)
		VALUES (?, ?, ?, ?)
	`, sessionID, quoteID, reference, submittedAt.Format(time.RFC3339Nano)); err != nil {
		return Submission{}, apperrors.Storage("record submission", err).WithContext("quoteId", quoteID)
	}
	return Submission{QuoteID: quoteID, Reference: reference, SubmittedAt: submittedAt}, nil
}

// Submissions lists the recorded submissions for a session, oldest first.
func (s *Store) Submissions(ctx context.Context, sessionID string) ([]Submission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT quote_id, reference, submitted_at
		FROM quote_submissions
		WHERE session_id = ?
		ORDER BY id ASC
	`, sessionID)
	if err != nil {
		return nil, apperrors.Storage("query submissions", err)
	}
	defer rows.Close()

	var out []Submission
	for rows.Next() {
		var sub Submission
		var submittedAt string
		if err := rows.Scan(&sub.QuoteID, &sub.Reference, &submittedAt); err != nil {
			return nil, apperrors.Storage("scan submission", err)
		}
		sub.SubmittedAt, err = time.Parse(time.RFC3339Nano, submittedAt)
		if err != nil {
			return nil, apperrors.Storage("parse submission time", err)
		}
		out = append(out, sub)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.Storage("iterate submissions", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner) (pricing.QuoteRecord, error) {
	var (
		record        pricing.QuoteRecord
		createdAt     string
		cfgJSON       string
		breakdownJSON string
	)
	if err := row.Scan(&record.ID, &createdAt, &cfgJSON, &breakdownJSON); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return pricing.QuoteRecord{}, err
		}
		return pricing.QuoteRecord{}, apperrors.Storage("scan cart item", err)
	}

	var err error
	record.CreatedAt, err = time.Parse(time.RFC3339Nano, createdAt)
	if err != nil {
		return pricing.QuoteRecord{}, apperrors.Storage("parse cart item time", err)
	}
	if err := json.Unmarshal([]byte(cfgJSON), &record.Configuration); err != nil {
		return pricing.QuoteRecord{}, apperrors.Storage("decode configuration", err)
	}
	if err := json.Unmarshal([]byte(breakdownJSON), &record.CostBreakdown); err != nil {
		return pricing.QuoteRecord{}, apperrors.Storage("decode cost breakdown", err)
	}
	return record, nil
}

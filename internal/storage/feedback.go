package storage

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Veraticus/kassenbuch/internal/model"
)

// SaveFeedback appends a feedback record.
func (s *SQLiteStorage) SaveFeedback(ctx context.Context, feedback *model.Feedback) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateFeedback(feedback); err != nil {
		return err
	}

	rejected := feedback.RejectedCategories
	if rejected == nil {
		rejected = []string{}
	}
	rejectedJSON, err := json.Marshal(rejected)
	if err != nil {
		return fmt.Errorf("failed to encode rejected categories: %w", err)
	}

	return s.withWriteRetry(ctx, func() error {
		_, err := s.db.ExecContext(ctx, `
			INSERT INTO suggestion_feedback (
				id, transaction_hash, fingerprint, recipient, amount, date,
				selected_category, rejected_categories, created_at
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`,
			feedback.ID,
			feedback.TransactionHash,
			feedback.Fingerprint,
			feedback.Recipient,
			feedback.Amount,
			feedback.Date,
			feedback.SelectedCategory,
			string(rejectedJSON),
			feedback.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("failed to save feedback: %w", err)
		}
		return nil
	})
}

// GetFeedback returns the most recent feedback records, newest first.
func (s *SQLiteStorage) GetFeedback(ctx context.Context, limit int) ([]model.Feedback, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, transaction_hash, fingerprint, recipient, amount, date,
		       selected_category, rejected_categories, created_at
		FROM suggestion_feedback
		ORDER BY created_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query feedback: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var records []model.Feedback
	for rows.Next() {
		var (
			fb           model.Feedback
			rejectedJSON string
		)
		if err := rows.Scan(
			&fb.ID,
			&fb.TransactionHash,
			&fb.Fingerprint,
			&fb.Recipient,
			&fb.Amount,
			&fb.Date,
			&fb.SelectedCategory,
			&rejectedJSON,
			&fb.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan feedback: %w", err)
		}
		if err := json.Unmarshal([]byte(rejectedJSON), &fb.RejectedCategories); err != nil {
			return nil, fmt.Errorf("failed to decode rejected categories: %w", err)
		}
		records = append(records, fb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating feedback: %w", err)
	}
	return records, nil
}

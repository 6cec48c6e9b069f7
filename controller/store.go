package controller

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/tsingjyujing/glossa/detector"
	"github.com/tsingjyujing/glossa/utils"
)

// DetectionRecord is one stored detection request with its outcome.
type DetectionRecord struct {
	ID            string              `json:"id"`
	CreatedAt     time.Time           `json:"created_at"`
	Text          string              `json:"text"`
	Language      string              `json:"lang"`
	Probabilities []detector.Language `json:"probabilities"`
}

func newDetectionRecord(text, lang string, probabilities []detector.Language) *DetectionRecord {
	return &DetectionRecord{
		ID:            uuid.NewString(),
		CreatedAt:     time.Now().UTC(),
		Text:          text,
		Language:      lang,
		Probabilities: probabilities,
	}
}

func (c *Controller) insertDetection(ctx context.Context, record *DetectionRecord) error {
	probJSON, err := json.Marshal(record.Probabilities)
	if err != nil {
		return err
	}
	_, err = utils.WithTx(ctx, c.db, nil, func(tx *sql.Tx) (int64, error) {
		result, err := tx.ExecContext(
			ctx,
			`INSERT INTO detections (id, created_at, text, lang, probabilities) VALUES (?, ?, ?, ?, ?)`,
			record.ID, record.CreatedAt, record.Text, record.Language, string(probJSON),
		)
		if err != nil {
			return 0, err
		}
		return result.RowsAffected()
	})
	return err
}

func (c *Controller) getDetection(ctx context.Context, id string) (*DetectionRecord, error) {
	row := c.db.QueryRowContext(
		ctx,
		`SELECT id, created_at, text, lang, probabilities FROM detections WHERE id = ?`,
		id,
	)
	return scanDetection(row.Scan)
}

func (c *Controller) listDetections(ctx context.Context, limit int) ([]*DetectionRecord, error) {
	rows, err := c.db.QueryContext(
		ctx,
		`SELECT id, created_at, text, lang, probabilities FROM detections ORDER BY created_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	records := make([]*DetectionRecord, 0, limit)
	for rows.Next() {
		record, err := scanDetection(rows.Scan)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

func scanDetection(scan func(dest ...any) error) (*DetectionRecord, error) {
	record := &DetectionRecord{}
	var probJSON string
	if err := scan(&record.ID, &record.CreatedAt, &record.Text, &record.Language, &probJSON); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(probJSON), &record.Probabilities); err != nil {
		return nil, err
	}
	return record, nil
}

package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"ytcorpus/internal/shared"
)

// Journal actions recorded by the review workflow.
const (
	ActionApprove    = "approve"
	ActionReject     = "reject"
	ActionEdit       = "edit"
	ActionInitialize = "initialize"
	ActionTranscribe = "transcribe"
	ActionDelete     = "delete"
)

// JournalEntry is one recorded review action.
type JournalEntry struct {
	ID        string
	Sequence  int
	At        time.Time
	Username  string
	Action    string
	DatasetID int
	SampleID  int
	Detail    string
}

// JournalRepository appends and lists review journal entries.
type JournalRepository struct {
	db *sql.DB
}

// NewJournalRepository creates a new JournalRepository with the given database connection
func NewJournalRepository(db *sql.DB) *JournalRepository {
	return &JournalRepository{db: db}
}

// Record appends an entry, assigning its ID, sequence and timestamp.
func (r *JournalRepository) Record(entry *JournalEntry) error {
	if entry.Action == "" {
		return fmt.Errorf("journal entry requires an action: %w", shared.ErrInvalidInput)
	}

	sequence, err := NextSequence(r.db, "journal")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	entry.ID = shared.GenerateID()
	entry.Sequence = sequence
	if entry.At.IsZero() {
		entry.At = time.Now().UTC()
	}

	query := `
		INSERT INTO journal (id, sequence, at, username, action, dataset_id, sample_id, detail)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		entry.ID,
		entry.Sequence,
		entry.At,
		entry.Username,
		entry.Action,
		entry.DatasetID,
		entry.SampleID,
		entry.Detail,
	)
	if err != nil {
		return fmt.Errorf("failed to insert journal entry: %w", err)
	}

	return nil
}

// List retrieves journal entries matching the given criteria in recording order.
//
// Supported criteria: "dataset_id" (int), "action" (string), "limit" (int).
func (r *JournalRepository) List(criteria map[string]any) ([]*JournalEntry, error) {
	query := `
		SELECT id, sequence, at, username, action, dataset_id, sample_id, detail
		FROM journal
		WHERE 1 = 1
	`

	args := []any{}

	if datasetID, ok := criteria["dataset_id"].(int); ok && datasetID > 0 {
		query += " AND dataset_id = ?"
		args = append(args, datasetID)
	}

	if action, ok := criteria["action"].(string); ok && action != "" {
		query += " AND action = ?"
		args = append(args, action)
	}

	query += " ORDER BY sequence ASC"

	if limit, ok := criteria["limit"].(int); ok && limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query journal: %w", err)
	}
	defer rows.Close()

	var entries []*JournalEntry
	for rows.Next() {
		var entry JournalEntry
		err := rows.Scan(
			&entry.ID,
			&entry.Sequence,
			&entry.At,
			&entry.Username,
			&entry.Action,
			&entry.DatasetID,
			&entry.SampleID,
			&entry.Detail,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan journal entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return entries, nil
}

// CountByAction returns the number of recorded entries per action for one
// dataset, or for all datasets when datasetID is zero.
func (r *JournalRepository) CountByAction(datasetID int) (map[string]int, error) {
	query := "SELECT action, COUNT(*) FROM journal"
	args := []any{}

	if datasetID > 0 {
		query += " WHERE dataset_id = ?"
		args = append(args, datasetID)
	}

	query += " GROUP BY action"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to count journal entries: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var action string
		var count int
		if err := rows.Scan(&action, &count); err != nil {
			return nil, fmt.Errorf("failed to scan journal count: %w", err)
		}
		counts[action] = count
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return counts, nil
}

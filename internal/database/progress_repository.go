package database

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/example/wanokuni/pkg/models"
)

// ProgressRepository is the durable store for progress records and
// account state. It satisfies the engine's ProgressStore interface.
type ProgressRepository struct{}

// NewProgressRepository creates a new repository instance
func NewProgressRepository() *ProgressRepository {
	return &ProgressRepository{}
}

type progressRow struct {
	ItemType        string        `db:"item_type"`
	ItemID          int           `db:"item_id"`
	QuestionType    string        `db:"question_type"`
	SRSStage        int           `db:"srs_stage"`
	NextReviewAt    sql.NullInt64 `db:"next_review_at"`
	IncorrectCount  int           `db:"incorrect_count"`
	CorrectStreak   int           `db:"correct_streak"`
	LessonCompleted bool          `db:"lesson_completed"`
}

func (row *progressRow) toRecord() *models.ProgressRecord {
	rec := &models.ProgressRecord{
		Key: models.ProgressKey{
			Type:     models.ItemType(row.ItemType),
			ID:       row.ItemID,
			Question: models.QuestionType(row.QuestionType),
		},
		SRSStage:        row.SRSStage,
		IncorrectCount:  row.IncorrectCount,
		CorrectStreak:   row.CorrectStreak,
		LessonCompleted: row.LessonCompleted,
	}
	if row.NextReviewAt.Valid {
		at := time.UnixMilli(row.NextReviewAt.Int64)
		rec.NextReviewAt = &at
	}
	return rec
}

// Get returns the record for a key, or nil when none exists.
func (r *ProgressRepository) Get(key models.ProgressKey) (*models.ProgressRecord, error) {
	var row progressRow
	query := DB.Rebind(`
		SELECT * FROM progress
		WHERE item_type = ? AND item_id = ? AND question_type = ?
	`)
	err := DB.Get(&row, query, string(key.Type), key.ID, string(key.Question))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get progress %s: %w", key, err)
	}
	return row.toRecord(), nil
}

// Set inserts or replaces the record.
func (r *ProgressRepository) Set(record *models.ProgressRecord) error {
	var nextReview sql.NullInt64
	if record.NextReviewAt != nil {
		nextReview = sql.NullInt64{Int64: record.NextReviewAt.UnixMilli(), Valid: true}
	}

	query := DB.Rebind(`
		INSERT INTO progress (
			item_type, item_id, question_type, srs_stage, next_review_at,
			incorrect_count, correct_streak, lesson_completed
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (item_type, item_id, question_type) DO UPDATE SET
			srs_stage = EXCLUDED.srs_stage,
			next_review_at = EXCLUDED.next_review_at,
			incorrect_count = EXCLUDED.incorrect_count,
			correct_streak = EXCLUDED.correct_streak,
			lesson_completed = EXCLUDED.lesson_completed
	`)
	_, err := DB.Exec(query,
		string(record.Key.Type), record.Key.ID, string(record.Key.Question),
		record.SRSStage, nextReview,
		record.IncorrectCount, record.CorrectStreak, record.LessonCompleted,
	)
	if err != nil {
		return fmt.Errorf("failed to set progress %s: %w", record.Key, err)
	}
	return nil
}

// GetAll returns every stored record keyed by its composite identity.
func (r *ProgressRepository) GetAll() (map[models.ProgressKey]*models.ProgressRecord, error) {
	var rows []progressRow
	if err := DB.Select(&rows, "SELECT * FROM progress"); err != nil {
		return nil, fmt.Errorf("failed to get progress records: %w", err)
	}
	out := make(map[models.ProgressKey]*models.ProgressRecord, len(rows))
	for i := range rows {
		rec := rows[i].toRecord()
		out[rec.Key] = rec
	}
	return out, nil
}

// CurrentLevel returns the stored curriculum level, or 0 when no
// account state exists yet.
func (r *ProgressRepository) CurrentLevel() (int, error) {
	var level int
	err := DB.Get(&level, "SELECT current_level FROM account_state WHERE id = 1")
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get current level: %w", err)
	}
	return level, nil
}

// SetCurrentLevel persists the curriculum level.
func (r *ProgressRepository) SetCurrentLevel(level int) error {
	query := DB.Rebind(`
		INSERT INTO account_state (id, current_level)
		VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET current_level = EXCLUDED.current_level
	`)
	if _, err := DB.Exec(query, level); err != nil {
		return fmt.Errorf("failed to set current level: %w", err)
	}
	return nil
}

// ChatID returns the Telegram chat bound for reminders, 0 when unbound.
func (r *ProgressRepository) ChatID() (int64, error) {
	var chatID int64
	err := DB.Get(&chatID, "SELECT chat_id FROM account_state WHERE id = 1")
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get chat id: %w", err)
	}
	return chatID, nil
}

// BindChat stores the Telegram chat to send reminders to.
func (r *ProgressRepository) BindChat(chatID int64) error {
	query := DB.Rebind(`
		INSERT INTO account_state (id, chat_id)
		VALUES (1, ?)
		ON CONFLICT (id) DO UPDATE SET chat_id = EXCLUDED.chat_id
	`)
	if _, err := DB.Exec(query, chatID); err != nil {
		return fmt.Errorf("failed to bind chat: %w", err)
	}
	return nil
}

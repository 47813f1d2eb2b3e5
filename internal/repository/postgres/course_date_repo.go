package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"coursedates/internal/domain"
)

// Schema creates the tables backing the course dates offline cache. The meta
// row holds the payload fields outside the blocks and marks an entry as present.
const Schema = `
CREATE TABLE IF NOT EXISTS course_date_meta (
	course_id              TEXT        NOT NULL,
	username               TEXT        NOT NULL,
	missed_deadlines       BOOLEAN     NOT NULL DEFAULT FALSE,
	missed_gated_content   BOOLEAN     NOT NULL DEFAULT FALSE,
	verified_upgrade_link  TEXT        NOT NULL DEFAULT '',
	learner_is_full_access BOOLEAN     NOT NULL DEFAULT FALSE,
	user_timezone          TEXT        NOT NULL DEFAULT '',
	fetched_at             TIMESTAMPTZ NOT NULL,
	PRIMARY KEY (course_id, username)
);
CREATE TABLE IF NOT EXISTS course_date_blocks (
	course_id          TEXT        NOT NULL,
	username           TEXT        NOT NULL,
	position           INTEGER     NOT NULL,
	date               TIMESTAMPTZ NOT NULL,
	date_type          TEXT        NOT NULL,
	complete           BOOLEAN     NOT NULL DEFAULT FALSE,
	learner_has_access BOOLEAN     NOT NULL DEFAULT FALSE,
	link               TEXT        NOT NULL DEFAULT '',
	title              TEXT        NOT NULL DEFAULT '',
	description        TEXT        NOT NULL DEFAULT '',
	assignment_type    TEXT        NOT NULL DEFAULT '',
	PRIMARY KEY (course_id, username, position)
)`

// Migrate applies Schema.
func Migrate(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, Schema); err != nil {
		return fmt.Errorf("create course date tables: %w", err)
	}
	return nil
}

type courseDateRepository struct {
	DB *sql.DB
}

func NewCourseDateRepository(db *sql.DB) domain.CourseDateRepository {
	return &courseDateRepository{
		DB: db,
	}
}

// SaveDates replaces the cached payload for a course and user in one transaction.
// Block order is kept through the position column.
func (r *courseDateRepository) SaveDates(ctx context.Context, courseID, username string, dates domain.CourseDates, fetchedAt time.Time) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck

	metaQuery := `
		INSERT INTO course_date_meta (course_id, username, missed_deadlines, missed_gated_content, verified_upgrade_link, learner_is_full_access, user_timezone, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (course_id, username) DO UPDATE SET
			missed_deadlines = EXCLUDED.missed_deadlines,
			missed_gated_content = EXCLUDED.missed_gated_content,
			verified_upgrade_link = EXCLUDED.verified_upgrade_link,
			learner_is_full_access = EXCLUDED.learner_is_full_access,
			user_timezone = EXCLUDED.user_timezone,
			fetched_at = EXCLUDED.fetched_at
	`
	if _, err := tx.ExecContext(ctx, metaQuery, courseID, username, dates.MissedDeadlines, dates.MissedGatedContent,
		dates.VerifiedUpgradeLink, dates.LearnerIsFullAccess, dates.UserTimezone, fetchedAt); err != nil {
		return fmt.Errorf("upsert meta: %w", err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM course_date_blocks WHERE course_id = $1 AND username = $2`, courseID, username); err != nil {
		return err
	}
	blockQuery := `
		INSERT INTO course_date_blocks (course_id, username, position, date, date_type, complete, learner_has_access, link, title, description, assignment_type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`
	for i, b := range dates.CourseDateBlocks {
		if _, err := tx.ExecContext(ctx, blockQuery, courseID, username, i, b.Date, string(b.DateType), b.Complete, b.LearnerHasAccess, b.Link, b.Title, b.Description, b.AssignmentType); err != nil {
			return fmt.Errorf("insert block %d: %w", i, err)
		}
	}
	return tx.Commit()
}

// LoadDates returns the cached payload, blocks in their stored order, and when it was fetched.
// It returns domain.ErrNotFound when nothing is cached.
func (r *courseDateRepository) LoadDates(ctx context.Context, courseID, username string) (domain.CourseDates, time.Time, error) {
	var dates domain.CourseDates
	var fetchedAt time.Time
	metaQuery := `
		SELECT missed_deadlines, missed_gated_content, verified_upgrade_link, learner_is_full_access, user_timezone, fetched_at
		FROM course_date_meta
		WHERE course_id = $1 AND username = $2
	`
	err := r.DB.QueryRowContext(ctx, metaQuery, courseID, username).Scan(&dates.MissedDeadlines, &dates.MissedGatedContent,
		&dates.VerifiedUpgradeLink, &dates.LearnerIsFullAccess, &dates.UserTimezone, &fetchedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.CourseDates{}, time.Time{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.CourseDates{}, time.Time{}, err
	}

	blockQuery := `
		SELECT date, date_type, complete, learner_has_access, link, title, description, assignment_type
		FROM course_date_blocks
		WHERE course_id = $1 AND username = $2
		ORDER BY position
	`
	rows, err := r.DB.QueryContext(ctx, blockQuery, courseID, username)
	if err != nil {
		return domain.CourseDates{}, time.Time{}, err
	}
	defer rows.Close()

	for rows.Next() {
		var b domain.DateEvent
		var dateType string
		if err := rows.Scan(&b.Date, &dateType, &b.Complete, &b.LearnerHasAccess, &b.Link, &b.Title, &b.Description, &b.AssignmentType); err != nil {
			return domain.CourseDates{}, time.Time{}, err
		}
		b.DateType = domain.DateType(dateType)
		dates.CourseDateBlocks = append(dates.CourseDateBlocks, b)
	}
	if err := rows.Err(); err != nil {
		return domain.CourseDates{}, time.Time{}, err
	}
	return dates, fetchedAt, nil
}

package sqlxrepos

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"

	"github.com/pepschool/obshub/core/observation"
)

type observationRow struct {
	ID            string         `db:"id"`
	StudentID     string         `db:"student_id"`
	ClassroomID   string         `db:"classroom_id"`
	TeacherID     string         `db:"teacher_id"`
	TeacherName   string         `db:"teacher_name"`
	TeacherEmail  string         `db:"teacher_email"`
	Timestamp     time.Time      `db:"timestamp"`
	Text          string         `db:"text"`
	Type          string         `db:"type"`
	IsStarred     bool           `db:"is_starred"`
	IsPrivate     bool           `db:"is_private"`
	IsDraft       bool           `db:"is_draft"`
	EditCount     int            `db:"edit_count"`
	DurationSec   int            `db:"duration_sec"`
	AudioURL      string         `db:"audio_url"`
	STTConfidence float64        `db:"stt_confidence"`
	Tags          pq.StringArray `db:"tags"`
	UpdatedAt     time.Time      `db:"updated_at"`
	LastEditedBy  string         `db:"last_edited_by"`
	LastEditedAt  sql.NullTime   `db:"last_edited_at"`
}

func (r observationRow) toObservation() observation.Observation {
	obs := observation.Observation{
		ID:            r.ID,
		StudentID:     r.StudentID,
		ClassroomID:   r.ClassroomID,
		TeacherID:     r.TeacherID,
		TeacherName:   r.TeacherName,
		TeacherEmail:  r.TeacherEmail,
		Timestamp:     r.Timestamp.UTC(),
		Text:          r.Text,
		Type:          r.Type,
		IsStarred:     r.IsStarred,
		IsPrivate:     r.IsPrivate,
		IsDraft:       r.IsDraft,
		EditCount:     r.EditCount,
		DurationSec:   r.DurationSec,
		AudioURL:      r.AudioURL,
		STTConfidence: r.STTConfidence,
		Tags:          r.Tags,
		UpdatedAt:     r.UpdatedAt.UTC(),
		LastEditedBy:  r.LastEditedBy,
	}
	if r.LastEditedAt.Valid {
		obs.LastEditedAt = r.LastEditedAt.Time.UTC()
	}
	return obs
}

func rowFromObservation(obs observation.Observation) observationRow {
	row := observationRow{
		ID:            obs.ID,
		StudentID:     obs.StudentID,
		ClassroomID:   obs.ClassroomID,
		TeacherID:     obs.TeacherID,
		TeacherName:   obs.TeacherName,
		TeacherEmail:  obs.TeacherEmail,
		Timestamp:     obs.Timestamp,
		Text:          obs.Text,
		Type:          obs.Type,
		IsStarred:     obs.IsStarred,
		IsPrivate:     obs.IsPrivate,
		IsDraft:       obs.IsDraft,
		EditCount:     obs.EditCount,
		DurationSec:   obs.DurationSec,
		AudioURL:      obs.AudioURL,
		STTConfidence: obs.STTConfidence,
		Tags:          obs.Tags,
		UpdatedAt:     obs.UpdatedAt,
		LastEditedBy:  obs.LastEditedBy,
	}
	if row.Tags == nil {
		row.Tags = pq.StringArray{}
	}
	if !obs.LastEditedAt.IsZero() {
		row.LastEditedAt = sql.NullTime{Time: obs.LastEditedAt, Valid: true}
	}
	return row
}

type observationRepository struct {
	db *sqlx.DB
}

var _ observation.Repository = (*observationRepository)(nil) // interface compliance check

func NewObservationRepository(db *sqlx.DB) observation.Repository {
	return &observationRepository{db: db}
}

func (repo *observationRepository) CreateObservation(ctx context.Context, obs observation.Observation) (observation.Observation, error) {
	_, err := repo.db.NamedExecContext(ctx,
		`INSERT INTO observation (
			id, student_id, classroom_id, teacher_id, teacher_name, teacher_email,
			timestamp, text, type, is_starred, is_private, is_draft, edit_count,
			duration_sec, audio_url, stt_confidence, tags, updated_at, last_edited_by, last_edited_at
		) VALUES (
			:id, :student_id, :classroom_id, :teacher_id, :teacher_name, :teacher_email,
			:timestamp, :text, :type, :is_starred, :is_private, :is_draft, :edit_count,
			:duration_sec, :audio_url, :stt_confidence, :tags, :updated_at, :last_edited_by, :last_edited_at
		)`,
		rowFromObservation(obs),
	)
	if err != nil {
		return observation.Observation{}, errors.Wrap(err, "creating observation")
	}
	return obs, nil
}

func (repo *observationRepository) GetObservationByID(ctx context.Context, id string) (observation.Observation, error) {
	var row observationRow
	err := repo.db.GetContext(ctx, &row, `SELECT * FROM observation WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return observation.Observation{}, observation.ErrNotFound
	}
	if err != nil {
		return observation.Observation{}, errors.Wrap(err, "getting observation")
	}
	return row.toObservation(), nil
}

func (repo *observationRepository) QueryAllObservations(ctx context.Context) ([]observation.Observation, error) {
	var rows []observationRow
	err := repo.db.SelectContext(ctx, &rows, `SELECT * FROM observation ORDER BY timestamp DESC`)
	if err != nil {
		return nil, errors.Wrap(err, "querying observations")
	}
	return rowsToObservations(rows), nil
}

func (repo *observationRepository) QueryObservationsByStudent(ctx context.Context, studentID string) ([]observation.Observation, error) {
	var rows []observationRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM observation WHERE student_id = $1 ORDER BY timestamp DESC`, studentID)
	if err != nil {
		return nil, errors.Wrap(err, "querying observations by student")
	}
	return rowsToObservations(rows), nil
}

func (repo *observationRepository) QueryPendingVoiceObservations(ctx context.Context) ([]observation.Observation, error) {
	var rows []observationRow
	err := repo.db.SelectContext(ctx, &rows,
		`SELECT * FROM observation WHERE type = $1 AND text = $2 ORDER BY timestamp`,
		observation.TypeVoice, observation.TranscribingText)
	if err != nil {
		return nil, errors.Wrap(err, "querying pending voice observations")
	}
	return rowsToObservations(rows), nil
}

func (repo *observationRepository) UpdateObservation(ctx context.Context, obs observation.Observation) (observation.Observation, error) {
	res, err := repo.db.NamedExecContext(ctx,
		`UPDATE observation SET
			student_id = :student_id, classroom_id = :classroom_id,
			text = :text, is_starred = :is_starred, is_private = :is_private, is_draft = :is_draft,
			edit_count = :edit_count, stt_confidence = :stt_confidence, tags = :tags,
			updated_at = :updated_at, last_edited_by = :last_edited_by, last_edited_at = :last_edited_at
		WHERE id = :id`,
		rowFromObservation(obs),
	)
	if err != nil {
		return observation.Observation{}, errors.Wrap(err, "updating observation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return observation.Observation{}, observation.ErrNotFound
	}
	return obs, nil
}

func (repo *observationRepository) DeleteObservation(ctx context.Context, id string) error {
	res, err := repo.db.ExecContext(ctx, `DELETE FROM observation WHERE id = $1`, id)
	if err != nil {
		return errors.Wrap(err, "deleting observation")
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return observation.ErrNotFound
	}
	return nil
}

func rowsToObservations(rows []observationRow) []observation.Observation {
	obs := make([]observation.Observation, 0, len(rows))
	for _, row := range rows {
		obs = append(obs, row.toObservation())
	}
	return obs
}

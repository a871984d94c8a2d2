package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/dimitrije/fitlog/internal/database"
	"github.com/dimitrije/fitlog/internal/metrics"
	"github.com/dimitrije/fitlog/internal/models"
	"github.com/dimitrije/fitlog/internal/notify"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	log "github.com/sirupsen/logrus"
)

const shareColumns = `id, workout_id, shared_by, shared_with, can_edit, is_accepted, accepted_at, created_at`

type Mailer interface {
	SendWorkoutShared(to, workoutName, sharerName string, canEdit bool) error
}

// ShareService runs the share handshake. A share is pending until the
// recipient accepts it; declining or revoking deletes it.
type ShareService struct {
	db       *database.DB
	mailer   Mailer
	notifier Notifier
	metrics  *metrics.Manager
}

func NewShareService(db *database.DB, mailer Mailer, notifier Notifier, m *metrics.Manager) *ShareService {
	return &ShareService{db: db, mailer: mailer, notifier: notifier, metrics: m}
}

// Share grants the user with the given email access to the workout. An
// existing share for the same recipient is returned with created=false.
func (s *ShareService) Share(ctx context.Context, ownerID, workoutID uuid.UUID, email string, canEdit bool) (*models.SharedWorkout, bool, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return nil, false, ErrEmailRequired
	}

	facts, err := workoutFacts(ctx, s.db.Pool, ownerID, workoutID)
	if err != nil {
		return nil, false, err
	}
	if err := Decide(ResourceWorkout, ActionShare, facts); err != nil {
		return nil, false, err
	}

	var recipient models.User
	err = s.db.Pool.QueryRow(ctx, `
		SELECT id, email, name FROM users WHERE LOWER(email) = LOWER($1)
	`, email).Scan(&recipient.ID, &recipient.Email, &recipient.Name)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrRecipientNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to find recipient: %w", err)
	}
	if recipient.ID == ownerID {
		return nil, false, ErrCannotShareWithSelf
	}

	created := true
	share, err := scanShare(s.db.Pool.QueryRow(ctx, `
		INSERT INTO shared_workouts (workout_id, shared_by, shared_with, can_edit)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (workout_id, shared_with) DO NOTHING
		RETURNING `+shareColumns,
		workoutID, ownerID, recipient.ID, canEdit))
	if errors.Is(err, pgx.ErrNoRows) {
		created = false
		share, err = scanShare(s.db.Pool.QueryRow(ctx,
			`SELECT `+shareColumns+` FROM shared_workouts WHERE workout_id = $1 AND shared_with = $2`,
			workoutID, recipient.ID))
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to share workout: %w", err)
	}

	share.Workout = &models.Workout{ID: workoutID, UserID: facts.OwnerID, Name: facts.Name}
	share.Recipient = &recipient

	if !created {
		return share, false, nil
	}

	s.metrics.ShareEvent("created")
	s.notify(recipient.ID, notify.Event{
		Type:    notify.EventShareReceived,
		Message: fmt.Sprintf("%s shared the workout %q with you", facts.OwnerName, facts.Name),
		Level:   notify.LevelInfo,
		Data:    map[string]string{"share_id": share.ID.String(), "workout_id": workoutID.String()},
	})
	if s.mailer != nil {
		if err := s.mailer.SendWorkoutShared(recipient.Email, facts.Name, facts.OwnerName, canEdit); err != nil {
			log.WithError(err).WithField("share_id", share.ID).Warn("failed to send share email")
		}
	}
	return share, true, nil
}

// Accept makes a pending share effective. Accepting twice keeps the first
// accepted_at and reports changed=false.
func (s *ShareService) Accept(ctx context.Context, userID, shareID uuid.UUID) (*models.SharedWorkout, bool, error) {
	tx, err := s.db.Pool.Begin(ctx)
	if err != nil {
		return nil, false, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	var (
		share         models.SharedWorkout
		workoutName   string
		recipientName string
	)
	err = tx.QueryRow(ctx, `
		SELECT sw.id, sw.workout_id, sw.shared_by, sw.shared_with, sw.can_edit, sw.is_accepted, sw.accepted_at, sw.created_at,
		       w.name, u.name
		FROM shared_workouts sw
		JOIN workouts w ON w.id = sw.workout_id
		JOIN users u ON u.id = sw.shared_with
		WHERE sw.id = $1
		FOR UPDATE OF sw
	`, shareID).Scan(
		&share.ID, &share.WorkoutID, &share.SharedBy, &share.SharedWith, &share.CanEdit,
		&share.IsAccepted, &share.AcceptedAt, &share.CreatedAt, &workoutName, &recipientName,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, false, ErrShareNotFound
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to get share: %w", err)
	}
	if share.SharedWith != userID {
		return nil, false, ErrShareNotFound
	}

	share.Workout = &models.Workout{ID: share.WorkoutID, UserID: share.SharedBy, Name: workoutName}
	if share.IsAccepted {
		return &share, false, nil
	}

	err = tx.QueryRow(ctx, `
		UPDATE shared_workouts SET is_accepted = TRUE, accepted_at = NOW()
		WHERE id = $1
		RETURNING is_accepted, accepted_at
	`, shareID).Scan(&share.IsAccepted, &share.AcceptedAt)
	if err != nil {
		return nil, false, fmt.Errorf("failed to accept share: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, false, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.metrics.ShareEvent("accepted")
	s.notify(share.SharedBy, notify.Event{
		Type:    notify.EventShareAccepted,
		Message: fmt.Sprintf("%s accepted your workout %q", recipientName, workoutName),
		Level:   notify.LevelSuccess,
		Data:    map[string]string{"share_id": share.ID.String(), "workout_id": share.WorkoutID.String()},
	})
	return &share, true, nil
}

// Decline removes the share whether it was pending or accepted.
func (s *ShareService) Decline(ctx context.Context, userID, shareID uuid.UUID) error {
	var (
		ownerID       uuid.UUID
		workoutID     uuid.UUID
		workoutName   string
		recipientName string
	)
	err := s.db.Pool.QueryRow(ctx, `
		DELETE FROM shared_workouts sw
		USING workouts w, users u
		WHERE sw.id = $1 AND sw.shared_with = $2
		  AND w.id = sw.workout_id AND u.id = sw.shared_with
		RETURNING sw.shared_by, sw.workout_id, w.name, u.name
	`, shareID, userID).Scan(&ownerID, &workoutID, &workoutName, &recipientName)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrShareNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to decline share: %w", err)
	}

	s.metrics.ShareEvent("declined")
	s.notify(ownerID, notify.Event{
		Type:    notify.EventShareDeclined,
		Message: fmt.Sprintf("%s declined your workout %q", recipientName, workoutName),
		Level:   notify.LevelWarning,
		Data:    map[string]string{"share_id": shareID.String(), "workout_id": workoutID.String()},
	})
	return nil
}

// Revoke lets the workout owner withdraw a share.
func (s *ShareService) Revoke(ctx context.Context, ownerID, workoutID, shareID uuid.UUID) error {
	facts, err := workoutFacts(ctx, s.db.Pool, ownerID, workoutID)
	if err != nil {
		return err
	}
	if err := Decide(ResourceWorkout, ActionShare, facts); err != nil {
		return err
	}

	var recipientID uuid.UUID
	err = s.db.Pool.QueryRow(ctx, `
		DELETE FROM shared_workouts WHERE id = $1 AND workout_id = $2
		RETURNING shared_with
	`, shareID, workoutID).Scan(&recipientID)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrShareNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to revoke share: %w", err)
	}

	s.metrics.ShareEvent("revoked")
	s.notify(recipientID, notify.Event{
		Type:    notify.EventShareRevoked,
		Message: fmt.Sprintf("You no longer have access to %q", facts.Name),
		Level:   notify.LevelWarning,
		Data:    map[string]string{"workout_id": workoutID.String()},
	})
	return nil
}

// ListIncoming returns shares addressed to the user, pending and accepted.
func (s *ShareService) ListIncoming(ctx context.Context, userID uuid.UUID) ([]models.SharedWorkout, error) {
	rows, err := s.db.Pool.Query(ctx, `
		SELECT sw.id, sw.workout_id, sw.shared_by, sw.shared_with, sw.can_edit, sw.is_accepted, sw.accepted_at, sw.created_at,
		       w.name, w.description, u.id, u.email, u.name, u.avatar_url
		FROM shared_workouts sw
		JOIN workouts w ON w.id = sw.workout_id
		JOIN users u ON u.id = sw.shared_by
		WHERE sw.shared_with = $1
		ORDER BY sw.created_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	shares := []models.SharedWorkout{}
	for rows.Next() {
		var (
			share  models.SharedWorkout
			w      models.Workout
			sharer models.User
		)
		if err := rows.Scan(
			&share.ID, &share.WorkoutID, &share.SharedBy, &share.SharedWith, &share.CanEdit,
			&share.IsAccepted, &share.AcceptedAt, &share.CreatedAt,
			&w.Name, &w.Description, &sharer.ID, &sharer.Email, &sharer.Name, &sharer.AvatarURL,
		); err != nil {
			return nil, err
		}
		w.ID = share.WorkoutID
		w.UserID = share.SharedBy
		share.Workout = &w
		share.Sharer = &sharer
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

// ListForWorkout returns the workout's shares. Owner only.
func (s *ShareService) ListForWorkout(ctx context.Context, ownerID, workoutID uuid.UUID) ([]models.SharedWorkout, error) {
	facts, err := workoutFacts(ctx, s.db.Pool, ownerID, workoutID)
	if err != nil {
		return nil, err
	}
	if err := Decide(ResourceWorkout, ActionShare, facts); err != nil {
		return nil, err
	}

	rows, err := s.db.Pool.Query(ctx, `
		SELECT sw.id, sw.workout_id, sw.shared_by, sw.shared_with, sw.can_edit, sw.is_accepted, sw.accepted_at, sw.created_at,
		       u.id, u.email, u.name, u.avatar_url
		FROM shared_workouts sw
		JOIN users u ON u.id = sw.shared_with
		WHERE sw.workout_id = $1
		ORDER BY sw.created_at
	`, workoutID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer rows.Close()

	shares := []models.SharedWorkout{}
	for rows.Next() {
		var (
			share     models.SharedWorkout
			recipient models.User
		)
		if err := rows.Scan(
			&share.ID, &share.WorkoutID, &share.SharedBy, &share.SharedWith, &share.CanEdit,
			&share.IsAccepted, &share.AcceptedAt, &share.CreatedAt,
			&recipient.ID, &recipient.Email, &recipient.Name, &recipient.AvatarURL,
		); err != nil {
			return nil, err
		}
		share.Recipient = &recipient
		shares = append(shares, share)
	}
	return shares, rows.Err()
}

func (s *ShareService) notify(userID uuid.UUID, event notify.Event) {
	if s.notifier != nil {
		s.notifier.Notify(userID, event)
	}
}

func scanShare(row pgx.Row) (*models.SharedWorkout, error) {
	var sw models.SharedWorkout
	if err := row.Scan(&sw.ID, &sw.WorkoutID, &sw.SharedBy, &sw.SharedWith, &sw.CanEdit, &sw.IsAccepted, &sw.AcceptedAt, &sw.CreatedAt); err != nil {
		return nil, err
	}
	return &sw, nil
}

package services

import (
	"sort"

	"github.com/dimitrije/fitlog/internal/models"
	"github.com/google/uuid"
)

const (
	DefaultSuggestedSets = 3
	DefaultSuggestedReps = 10
)

// RowIntent is one submitted template row. ID is nil for new rows.
// Order is whatever the client sent and is not persisted.
type RowIntent struct {
	ID            *uuid.UUID
	ExerciseID    uuid.UUID
	SuggestedSets int
	SuggestedReps int
	Notes         string
	Order         int
	Delete        bool
}

// AssignOrder drops deleted rows and numbers the rest 1..N in submission order.
// An existing row may appear only once per submission.
func AssignOrder(rows []RowIntent) ([]models.WorkoutExercise, error) {
	kept := make([]models.WorkoutExercise, 0, len(rows))
	seen := make(map[uuid.UUID]struct{}, len(rows))
	for _, row := range rows {
		if row.ID != nil {
			if _, dup := seen[*row.ID]; dup {
				return nil, ErrDuplicateRow
			}
			seen[*row.ID] = struct{}{}
		}
		if row.Delete {
			continue
		}
		if row.SuggestedSets < 1 || row.SuggestedReps < 1 {
			return nil, ErrInvalidSuggestion
		}

		we := models.WorkoutExercise{
			ExerciseID:    row.ExerciseID,
			SuggestedSets: row.SuggestedSets,
			SuggestedReps: row.SuggestedReps,
			Notes:         row.Notes,
			Order:         len(kept) + 1,
		}
		if row.ID != nil {
			we.ID = *row.ID
		}
		kept = append(kept, we)
	}

	if len(kept) == 0 {
		return nil, ErrNoExercises
	}
	return kept, nil
}

// SuggestNextOrder is the order a new blank row would get.
func SuggestNextOrder(existing []models.WorkoutExercise) int {
	highest := 0
	for _, we := range existing {
		if we.Order > highest {
			highest = we.Order
		}
	}
	return highest + 1
}

type EditorChoices struct {
	Exercises  []models.Exercise      `json:"exercises"`
	DefaultRow models.WorkoutExercise `json:"default_row"`
}

// BuildEditorChoices lists the exercises an editor may put on a template: their
// own, plus whatever the template already references.
func BuildEditorChoices(own []models.Exercise, template *models.Workout) *EditorChoices {
	seen := make(map[uuid.UUID]struct{}, len(own))
	exercises := make([]models.Exercise, 0, len(own))
	for _, e := range own {
		seen[e.ID] = struct{}{}
		exercises = append(exercises, e)
	}

	next := 1
	if template != nil {
		for _, we := range template.Exercises {
			if _, ok := seen[we.ExerciseID]; ok {
				continue
			}
			seen[we.ExerciseID] = struct{}{}
			exercises = append(exercises, models.Exercise{
				ID:     we.ExerciseID,
				UserID: template.UserID,
				Name:   we.ExerciseName,
			})
		}
		next = SuggestNextOrder(template.Exercises)
	}

	sort.SliceStable(exercises, func(i, j int) bool {
		return exercises[i].Name < exercises[j].Name
	})

	return &EditorChoices{
		Exercises: exercises,
		DefaultRow: models.WorkoutExercise{
			SuggestedSets: DefaultSuggestedSets,
			SuggestedReps: DefaultSuggestedReps,
			Order:         next,
		},
	}
}

func (c *EditorChoices) Allows(exerciseID uuid.UUID) bool {
	for _, e := range c.Exercises {
		if e.ID == exerciseID {
			return true
		}
	}
	return false
}

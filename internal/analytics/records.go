// Package analytics turns finished workout sessions and their logged sets
// into progression series, records and per-workout statistics.
//
// Everything here is a pure function of its input; loading the records is
// the caller's job.
package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

// EmptyMessage is reported when the scope has no finished sessions.
const EmptyMessage = "No completed workout sessions found. Complete some workouts to see your progress!"

type Session struct {
	ID         uuid.UUID
	UserID     uuid.UUID
	WorkoutID  uuid.UUID
	StartedAt  time.Time
	FinishedAt *time.Time
}

func (s Session) Finished() bool {
	return s.FinishedAt != nil
}

type Set struct {
	SessionID    uuid.UUID
	ExerciseID   uuid.UUID
	ExerciseName string
	SetNumber    int
	Reps         int
	Weight       float64
	PerformedAt  time.Time
}

func (s Set) Volume() float64 {
	return s.Weight * float64(s.Reps)
}

// TemplateExercise is one exercise row of a workout template.
type TemplateExercise struct {
	WorkoutID    uuid.UUID
	ExerciseID   uuid.UUID
	ExerciseName string
	Order        int
}

type exerciseKey struct {
	id   uuid.UUID
	name string
}

// finishedOnly drops open sessions and every set that does not belong to a
// finished session.
func finishedOnly(sessions []Session, sets []Set) ([]Session, []Set) {
	finished := make([]Session, 0, len(sessions))
	ids := make(map[uuid.UUID]struct{}, len(sessions))
	for _, s := range sessions {
		if s.Finished() {
			finished = append(finished, s)
			ids[s.ID] = struct{}{}
		}
	}

	kept := make([]Set, 0, len(sets))
	for _, st := range sets {
		if _, ok := ids[st.SessionID]; ok {
			kept = append(kept, st)
		}
	}
	return finished, kept
}

// groupByExercise returns the sets of each exercise sorted by performed_at,
// with exercises ordered by name and then id.
func groupByExercise(sets []Set) ([]exerciseKey, map[uuid.UUID][]Set) {
	groups := make(map[uuid.UUID][]Set)
	var keys []exerciseKey
	for _, st := range sets {
		if _, ok := groups[st.ExerciseID]; !ok {
			keys = append(keys, exerciseKey{id: st.ExerciseID, name: st.ExerciseName})
		}
		groups[st.ExerciseID] = append(groups[st.ExerciseID], st)
	}

	for id := range groups {
		g := groups[id]
		sort.SliceStable(g, func(i, j int) bool {
			return g[i].PerformedAt.Before(g[j].PerformedAt)
		})
	}

	sort.Slice(keys, func(i, j int) bool {
		if keys[i].name != keys[j].name {
			return keys[i].name < keys[j].name
		}
		return keys[i].id.String() < keys[j].id.String()
	})
	return keys, groups
}

func day(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}

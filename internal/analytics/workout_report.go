package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
)

type ExerciseStats struct {
	ExerciseID     uuid.UUID `json:"exercise_id"`
	ExerciseName   string    `json:"exercise_name"`
	AvgWeight      float64   `json:"avg_weight"`
	MaxWeight      float64   `json:"max_weight"`
	AvgReps        float64   `json:"avg_reps"`
	MaxReps        int       `json:"max_reps"`
	TotalSets      int       `json:"total_sets"`
	P25Weight      float64   `json:"p25_weight"`
	P50Weight      float64   `json:"p50_weight"`
	P75Weight      float64   `json:"p75_weight"`
	CompletionRate *float64  `json:"completion_rate,omitempty"`
}

type WorkoutReport struct {
	WorkoutID          uuid.UUID       `json:"workout_id"`
	Empty              bool            `json:"empty"`
	Message            string          `json:"message,omitempty"`
	TotalSessions      int             `json:"total_sessions"`
	DistinctPerformers int             `json:"distinct_performers"`
	CompletionRate     *float64        `json:"completion_rate,omitempty"`
	AvgDurationSeconds float64         `json:"avg_duration_seconds"`
	AvgDuration        string          `json:"avg_duration"`
	Exercises          []ExerciseStats `json:"exercises"`
}

// WorkoutInput holds every session ever started on one template (by any
// user), the sets logged in them and the template's exercise rows.
type WorkoutInput struct {
	WorkoutID uuid.UUID
	Template  []TemplateExercise
	Sessions  []Session
	Sets      []Set
}

// BuildWorkoutReport aggregates finished sessions of a single template.
// The overall completion rate compares finished sessions with every session
// started on the template.
func BuildWorkoutReport(in WorkoutInput) *WorkoutReport {
	started := len(in.Sessions)
	sessions, sets := finishedOnly(in.Sessions, in.Sets)

	report := &WorkoutReport{
		WorkoutID: in.WorkoutID,
		Exercises: []ExerciseStats{},
	}
	if len(sessions) == 0 {
		report.Empty = true
		report.Message = EmptyMessage
		return report
	}

	report.TotalSessions = len(sessions)

	performers := make(map[uuid.UUID]struct{})
	var total time.Duration
	for _, s := range sessions {
		performers[s.UserID] = struct{}{}
		total += s.FinishedAt.Sub(s.StartedAt)
	}
	report.DistinctPerformers = len(performers)

	if started > 0 {
		rate := float64(len(sessions)) * 100 / float64(started)
		report.CompletionRate = &rate
	}

	avg := total / time.Duration(len(sessions))
	report.AvgDurationSeconds = avg.Seconds()
	report.AvgDuration = FormatDuration(avg)

	bySession := make(map[uuid.UUID]map[uuid.UUID]struct{})
	byExercise := make(map[uuid.UUID][]Set)
	for _, st := range sets {
		byExercise[st.ExerciseID] = append(byExercise[st.ExerciseID], st)
		if bySession[st.SessionID] == nil {
			bySession[st.SessionID] = make(map[uuid.UUID]struct{})
		}
		bySession[st.SessionID][st.ExerciseID] = struct{}{}
	}

	rows := append([]TemplateExercise(nil), in.Template...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].Order < rows[j].Order })

	seen := make(map[uuid.UUID]struct{})
	for _, te := range rows {
		if _, dup := seen[te.ExerciseID]; dup {
			continue
		}
		seen[te.ExerciseID] = struct{}{}

		stats := exerciseStats(te, byExercise[te.ExerciseID])

		completed := 0
		for _, s := range sessions {
			if _, ok := bySession[s.ID][te.ExerciseID]; ok {
				completed++
			}
		}
		rate := float64(completed) * 100 / float64(len(sessions))
		stats.CompletionRate = &rate

		report.Exercises = append(report.Exercises, stats)
	}

	return report
}

func exerciseStats(te TemplateExercise, sets []Set) ExerciseStats {
	stats := ExerciseStats{
		ExerciseID:   te.ExerciseID,
		ExerciseName: te.ExerciseName,
		TotalSets:    len(sets),
	}
	if len(sets) == 0 {
		return stats
	}

	weights := make([]float64, 0, len(sets))
	var weightSum float64
	var repsSum int
	for i, st := range sets {
		weights = append(weights, st.Weight)
		weightSum += st.Weight
		repsSum += st.Reps
		if i == 0 || st.Weight > stats.MaxWeight {
			stats.MaxWeight = st.Weight
		}
		if i == 0 || st.Reps > stats.MaxReps {
			stats.MaxReps = st.Reps
		}
	}
	stats.AvgWeight = weightSum / float64(len(sets))
	stats.AvgReps = float64(repsSum) / float64(len(sets))
	stats.P25Weight, stats.P50Weight, stats.P75Weight = Quartiles(weights)
	return stats
}

// FormatDuration renders d as "Xh Ym".
func FormatDuration(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	minutes := int(d / time.Minute)
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
)

type Point struct {
	At    time.Time `json:"at"`
	Value float64   `json:"value"`
}

type ExerciseSeries struct {
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Points       []Point   `json:"points"`
}

type WeekCount struct {
	Year  int `json:"year"`
	Week  int `json:"week"`
	Count int `json:"count"`
}

type PersonalRecord struct {
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	MaxWeight    float64   `json:"max_weight"`
	MaxVolume    float64   `json:"max_volume"`
	MaxReps      int       `json:"max_reps"`
	TotalVolume  float64   `json:"total_volume"`
}

type CompletionRate struct {
	WorkoutID    uuid.UUID `json:"workout_id"`
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Sessions     int       `json:"sessions"`
	Completed    int       `json:"completed"`
	Rate         float64   `json:"rate"`
}

type RestTime struct {
	ExerciseID   uuid.UUID `json:"exercise_id"`
	ExerciseName string    `json:"exercise_name"`
	Sets         int       `json:"sets"`
	AvgMinutes   float64   `json:"avg_minutes"`
}

type UserReport struct {
	Empty           bool             `json:"empty"`
	Message         string           `json:"message,omitempty"`
	WeightProgress  []ExerciseSeries `json:"weight_progress"`
	VolumeProgress  []ExerciseSeries `json:"volume_progress"`
	Frequency       []WeekCount      `json:"frequency"`
	PersonalRecords []PersonalRecord `json:"personal_records"`
	Completion      []CompletionRate `json:"completion"`
	RestTimes       []RestTime       `json:"rest_times"`
}

// UserInput holds one user's sessions, the sets logged in them and the
// exercise rows of the workouts the user owns.
type UserInput struct {
	Sessions  []Session
	Sets      []Set
	Templates []TemplateExercise
}

func emptyUserReport() *UserReport {
	return &UserReport{
		Empty:           true,
		Message:         EmptyMessage,
		WeightProgress:  []ExerciseSeries{},
		VolumeProgress:  []ExerciseSeries{},
		Frequency:       []WeekCount{},
		PersonalRecords: []PersonalRecord{},
		Completion:      []CompletionRate{},
		RestTimes:       []RestTime{},
	}
}

// BuildUserReport computes the six per-user outputs. Only finished sessions
// and their sets count.
func BuildUserReport(in UserInput) *UserReport {
	sessions, sets := finishedOnly(in.Sessions, in.Sets)
	if len(sessions) == 0 {
		return emptyUserReport()
	}

	keys, groups := groupByExercise(sets)

	report := emptyUserReport()
	report.Empty = false
	report.Message = ""
	report.WeightProgress = weightProgress(keys, groups)
	report.VolumeProgress = volumeProgress(keys, groups)
	report.Frequency = Frequency(sessions)
	report.PersonalRecords = personalRecords(keys, groups)
	report.Completion = Completion(in.Templates, sessions, sets)
	report.RestTimes = restTimes(keys, groups)
	return report
}

func weightProgress(keys []exerciseKey, groups map[uuid.UUID][]Set) []ExerciseSeries {
	out := make([]ExerciseSeries, 0, len(keys))
	for _, k := range keys {
		g := groups[k.id]
		points := make([]Point, 0, len(g))
		for _, st := range g {
			points = append(points, Point{At: st.PerformedAt, Value: st.Weight})
		}
		out = append(out, ExerciseSeries{ExerciseID: k.id, ExerciseName: k.name, Points: points})
	}
	return out
}

// volumeProgress sums weight*reps per UTC calendar day.
func volumeProgress(keys []exerciseKey, groups map[uuid.UUID][]Set) []ExerciseSeries {
	out := make([]ExerciseSeries, 0, len(keys))
	for _, k := range keys {
		var points []Point
		for _, st := range groups[k.id] {
			d := day(st.PerformedAt)
			if n := len(points); n > 0 && points[n-1].At.Equal(d) {
				points[n-1].Value += st.Volume()
				continue
			}
			points = append(points, Point{At: d, Value: st.Volume()})
		}
		if points == nil {
			points = []Point{}
		}
		out = append(out, ExerciseSeries{ExerciseID: k.id, ExerciseName: k.name, Points: points})
	}
	return out
}

// Frequency counts finished sessions per ISO week of their start time.
func Frequency(sessions []Session) []WeekCount {
	counts := make(map[[2]int]int)
	for _, s := range sessions {
		if !s.Finished() {
			continue
		}
		y, w := s.StartedAt.UTC().ISOWeek()
		counts[[2]int{y, w}]++
	}

	out := make([]WeekCount, 0, len(counts))
	for k, c := range counts {
		out = append(out, WeekCount{Year: k[0], Week: k[1], Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Year != out[j].Year {
			return out[i].Year < out[j].Year
		}
		return out[i].Week < out[j].Week
	})
	return out
}

func personalRecords(keys []exerciseKey, groups map[uuid.UUID][]Set) []PersonalRecord {
	out := make([]PersonalRecord, 0, len(keys))
	for _, k := range keys {
		pr := PersonalRecord{ExerciseID: k.id, ExerciseName: k.name}
		for i, st := range groups[k.id] {
			v := st.Volume()
			if i == 0 || st.Weight > pr.MaxWeight {
				pr.MaxWeight = st.Weight
			}
			if i == 0 || v > pr.MaxVolume {
				pr.MaxVolume = v
			}
			if i == 0 || st.Reps > pr.MaxReps {
				pr.MaxReps = st.Reps
			}
			pr.TotalVolume += v
		}
		out = append(out, pr)
	}
	return out
}

// Completion reports, for every exercise of every template, the share of the
// template's finished sessions that logged at least one set of it. Templates
// without sessions are left out.
func Completion(templates []TemplateExercise, sessions []Session, sets []Set) []CompletionRate {
	perWorkout := make(map[uuid.UUID][]uuid.UUID)
	for _, s := range sessions {
		if s.Finished() {
			perWorkout[s.WorkoutID] = append(perWorkout[s.WorkoutID], s.ID)
		}
	}

	performed := make(map[uuid.UUID]map[uuid.UUID]struct{})
	for _, st := range sets {
		if performed[st.SessionID] == nil {
			performed[st.SessionID] = make(map[uuid.UUID]struct{})
		}
		performed[st.SessionID][st.ExerciseID] = struct{}{}
	}

	rows := append([]TemplateExercise(nil), templates...)
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].WorkoutID != rows[j].WorkoutID {
			return rows[i].WorkoutID.String() < rows[j].WorkoutID.String()
		}
		return rows[i].Order < rows[j].Order
	})

	out := []CompletionRate{}
	seen := make(map[[2]uuid.UUID]struct{})
	for _, te := range rows {
		key := [2]uuid.UUID{te.WorkoutID, te.ExerciseID}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}

		ids := perWorkout[te.WorkoutID]
		if len(ids) == 0 {
			continue
		}
		completed := 0
		for _, sid := range ids {
			if _, ok := performed[sid][te.ExerciseID]; ok {
				completed++
			}
		}
		out = append(out, CompletionRate{
			WorkoutID:    te.WorkoutID,
			ExerciseID:   te.ExerciseID,
			ExerciseName: te.ExerciseName,
			Sessions:     len(ids),
			Completed:    completed,
			Rate:         float64(completed) * 100 / float64(len(ids)),
		})
	}
	return out
}

// restTimes averages the gaps between consecutive sets of an exercise. All of
// the user's sessions are merged into one series, so gaps between sessions
// count too.
func restTimes(keys []exerciseKey, groups map[uuid.UUID][]Set) []RestTime {
	out := []RestTime{}
	for _, k := range keys {
		g := groups[k.id]
		if len(g) < 2 {
			continue
		}
		var total time.Duration
		for i := 1; i < len(g); i++ {
			total += g[i].PerformedAt.Sub(g[i-1].PerformedAt)
		}
		avg := total / time.Duration(len(g)-1)
		out = append(out, RestTime{
			ExerciseID:   k.id,
			ExerciseName: k.name,
			Sets:         len(g),
			AvgMinutes:   avg.Minutes(),
		})
	}
	return out
}

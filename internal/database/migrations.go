package database

import (
	"context"
	"fmt"
)

var migrations = []string{
	`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`,

	`CREATE TABLE IF NOT EXISTS users (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		email VARCHAR(255) UNIQUE NOT NULL,
		name VARCHAR(255) NOT NULL,
		avatar_url VARCHAR(500),
		provider VARCHAR(50) NOT NULL,
		provider_id VARCHAR(255) NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(provider, provider_id)
	)`,

	`ALTER TABLE users ADD COLUMN IF NOT EXISTS global_role VARCHAR(50) NOT NULL DEFAULT 'user'`,

	// Password accounts use provider 'password' and provider_id = email
	`ALTER TABLE users ADD COLUMN IF NOT EXISTS password_hash VARCHAR(255)`,

	`CREATE TABLE IF NOT EXISTS refresh_tokens (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		token_hash VARCHAR(255) UNIQUE NOT NULL,
		expires_at TIMESTAMP WITH TIME ZONE NOT NULL,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_refresh_tokens_user_id ON refresh_tokens(user_id)`,

	`CREATE TABLE IF NOT EXISTS exercises (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL CHECK (name <> ''),
		description TEXT NOT NULL DEFAULT '',
		target_muscle VARCHAR(50) NOT NULL DEFAULT '',
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_exercises_user_id ON exercises(user_id)`,

	`CREATE TABLE IF NOT EXISTS workouts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		name VARCHAR(100) NOT NULL CHECK (name <> ''),
		description TEXT NOT NULL DEFAULT '',
		is_public BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		updated_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workouts_user_id ON workouts(user_id)`,

	`CREATE TABLE IF NOT EXISTS workout_exercises (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		workout_id UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		exercise_id UUID NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		suggested_sets INTEGER NOT NULL DEFAULT 3 CHECK (suggested_sets >= 1),
		suggested_reps INTEGER NOT NULL DEFAULT 10 CHECK (suggested_reps >= 1),
		notes TEXT NOT NULL DEFAULT '',
		"order" INTEGER NOT NULL DEFAULT 0,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW()
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workout_exercises_workout_id ON workout_exercises(workout_id, "order")`,

	`CREATE TABLE IF NOT EXISTS workout_sessions (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		user_id UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		workout_id UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		started_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		finished_at TIMESTAMP WITH TIME ZONE,
		notes TEXT NOT NULL DEFAULT ''
	)`,

	`CREATE INDEX IF NOT EXISTS idx_workout_sessions_user_id ON workout_sessions(user_id, started_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_workout_sessions_workout_id ON workout_sessions(workout_id)`,

	`CREATE TABLE IF NOT EXISTS exercise_performances (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		session_id UUID NOT NULL REFERENCES workout_sessions(id) ON DELETE CASCADE,
		exercise_id UUID NOT NULL REFERENCES exercises(id) ON DELETE CASCADE,
		set_number INTEGER NOT NULL CHECK (set_number >= 1),
		reps INTEGER NOT NULL CHECK (reps >= 1),
		weight NUMERIC(7, 2) NOT NULL CHECK (weight >= 0),
		notes TEXT NOT NULL DEFAULT '',
		performed_at TIMESTAMP WITH TIME ZONE NOT NULL DEFAULT NOW(),
		UNIQUE(session_id, exercise_id, set_number)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_exercise_performances_exercise_id ON exercise_performances(exercise_id, performed_at)`,

	`CREATE TABLE IF NOT EXISTS shared_workouts (
		id UUID PRIMARY KEY DEFAULT uuid_generate_v4(),
		workout_id UUID NOT NULL REFERENCES workouts(id) ON DELETE CASCADE,
		shared_by UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		shared_with UUID NOT NULL REFERENCES users(id) ON DELETE CASCADE,
		can_edit BOOLEAN NOT NULL DEFAULT FALSE,
		is_accepted BOOLEAN NOT NULL DEFAULT FALSE,
		accepted_at TIMESTAMP WITH TIME ZONE,
		created_at TIMESTAMP WITH TIME ZONE DEFAULT NOW(),
		UNIQUE(workout_id, shared_with)
	)`,

	`CREATE INDEX IF NOT EXISTS idx_shared_workouts_shared_with ON shared_workouts(shared_with)`,
}

func (db *DB) Migrate(ctx context.Context) error {
	for i, migration := range migrations {
		if _, err := db.Pool.Exec(ctx, migration); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}

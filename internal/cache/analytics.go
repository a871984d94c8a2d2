package cache

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/coocood/freecache"
	"github.com/dimitrije/fitlog/internal/analytics"
	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const megabyte = 1024 * 1024

// AnalyticsCache keeps rendered analytics reports keyed by user or workout.
// Every key carries a version that invalidation bumps; a report built
// against an older version is not stored.
type AnalyticsCache struct {
	cache    *freecache.Cache
	ttl      int
	mu       sync.Mutex
	epoch    uint64
	versions map[string]uint64
}

func NewAnalyticsCache(sizeMB int, ttl time.Duration) *AnalyticsCache {
	if sizeMB <= 0 {
		sizeMB = 1
	}
	seconds := int(ttl.Seconds())
	if seconds <= 0 {
		seconds = 60
	}
	return &AnalyticsCache{
		cache:    freecache.NewCache(sizeMB * megabyte),
		ttl:      seconds,
		versions: make(map[string]uint64),
	}
}

func userKey(userID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("user::%s", userID))
}

func workoutKey(workoutID uuid.UUID) []byte {
	return []byte(fmt.Sprintf("workout::%s", workoutID))
}

func (c *AnalyticsCache) GetUserReport(userID uuid.UUID) (*analytics.UserReport, bool) {
	report := &analytics.UserReport{}
	if !c.get(userKey(userID), report) {
		return nil, false
	}
	return report, true
}

func (c *AnalyticsCache) UserVersion(userID uuid.UUID) uint64 {
	return c.version(userKey(userID))
}

// SetUserReport stores the report unless the user was invalidated after
// version was read.
func (c *AnalyticsCache) SetUserReport(userID uuid.UUID, version uint64, report *analytics.UserReport) {
	c.set(userKey(userID), version, report)
}

func (c *AnalyticsCache) GetWorkoutReport(workoutID uuid.UUID) (*analytics.WorkoutReport, bool) {
	report := &analytics.WorkoutReport{}
	if !c.get(workoutKey(workoutID), report) {
		return nil, false
	}
	return report, true
}

func (c *AnalyticsCache) WorkoutVersion(workoutID uuid.UUID) uint64 {
	return c.version(workoutKey(workoutID))
}

func (c *AnalyticsCache) SetWorkoutReport(workoutID uuid.UUID, version uint64, report *analytics.WorkoutReport) {
	c.set(workoutKey(workoutID), version, report)
}

func (c *AnalyticsCache) InvalidateUser(userID uuid.UUID) {
	c.invalidate(userKey(userID))
}

func (c *AnalyticsCache) InvalidateWorkout(workoutID uuid.UUID) {
	c.invalidate(workoutKey(workoutID))
}

func (c *AnalyticsCache) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.epoch++
	c.cache.Clear()
}

func (c *AnalyticsCache) version(key []byte) uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.epoch + c.versions[string(key)]
}

func (c *AnalyticsCache) invalidate(key []byte) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.versions[string(key)]++
	c.cache.Del(key)
}

func (c *AnalyticsCache) get(key []byte, v any) bool {
	data, err := c.cache.Get(key)
	if err != nil {
		return false
	}
	if err := json.Unmarshal(data, v); err != nil {
		log.Errorf("failed to unmarshal cached analytics %s: %s", key, err)
		c.cache.Del(key)
		return false
	}
	return true
}

func (c *AnalyticsCache) set(key []byte, version uint64, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		log.Errorf("failed to marshal analytics for cache %s: %s", key, err)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch+c.versions[string(key)] != version {
		log.Debugf("dropping stale analytics for %s", key)
		return
	}
	if err := c.cache.Set(key, data, c.ttl); err != nil {
		log.Warnf("failed to cache analytics %s: %s", key, err)
	}
}

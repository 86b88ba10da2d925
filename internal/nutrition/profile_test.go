package nutrition

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCache struct {
	profile *Profile
	sets    int
}

func (f *fakeCache) Get(ctx context.Context) (*Profile, bool) {
	return f.profile, f.profile != nil
}

func (f *fakeCache) Set(ctx context.Context, p *Profile) {
	copied := *p
	f.profile = &copied
	f.sets++
}

func (f *fakeCache) Clear(ctx context.Context) { f.profile = nil }

type fakeStore struct {
	profile *Profile
	err     error
}

func (f *fakeStore) Fetch(ctx context.Context) (*Profile, error) {
	return f.profile, f.err
}

func TestResolveDefaultsWhenEverythingMissing(t *testing.T) {
	r := NewResolver(nil, nil)
	p := r.Resolve(context.Background(), nil)

	assert.Equal(t, defaultAge, p.Age)
	assert.Equal(t, defaultGender, p.Gender)
	assert.Equal(t, float64(defaultWeightKg), p.WeightKg)
	assert.Equal(t, float64(defaultHeightCm), p.HeightCm)
	assert.Equal(t, defaultActivityLevel, p.ActivityLevel)
	assert.Equal(t, defaultGoal, p.Goal)
	assert.Greater(t, p.BMR, 0)
	assert.Greater(t, p.TDEE, p.BMR)
}

func TestResolvePrecedenceRemoteWins(t *testing.T) {
	cache := &fakeCache{profile: &Profile{Age: 50, Goal: "cached goal"}}
	store := &fakeStore{profile: &Profile{Age: 28, ActivityLevel: "active"}}
	r := NewResolver(store, cache)

	p := r.Resolve(context.Background(), &Profile{Age: 40, Goal: "passed goal"})

	// Remote age beats the explicit partial, which beats the cache.
	assert.Equal(t, 28, p.Age)
	assert.Equal(t, "active", p.ActivityLevel)
	// Fields the remote profile lacks fall through to the partial.
	assert.Equal(t, "passed goal", p.Goal)
}

func TestResolveStoreFailureDegradesSilently(t *testing.T) {
	cache := &fakeCache{profile: &Profile{Age: 33, Weight: 70, WeightUnit: UnitKg}}
	store := &fakeStore{err: errors.New("connection refused")}
	r := NewResolver(store, cache)

	p := r.Resolve(context.Background(), nil)

	assert.Equal(t, 33, p.Age)
	assert.Equal(t, 70.0, p.WeightKg)
}

func TestResolveWritesBackToCache(t *testing.T) {
	cache := &fakeCache{}
	store := &fakeStore{profile: &Profile{Age: 28, Weight: 82, WeightUnit: UnitKg}}
	r := NewResolver(store, cache)

	_ = r.Resolve(context.Background(), nil)

	require.NotNil(t, cache.profile)
	assert.Equal(t, 1, cache.sets)
	assert.Equal(t, 28, cache.profile.Age)
}

func TestCompleteResolvesUnitsBeforeMath(t *testing.T) {
	// 225lb / 76in profile declared without units: magnitude inference
	// must land on pounds and inches before any calorie math runs.
	p := Complete(Profile{Age: 25, Gender: GenderMale, Weight: 225, Height: 76, ActivityLevel: "very active"})

	assert.InDelta(t, 102.06, p.WeightKg, 0.1)
	assert.InDelta(t, 193.04, p.HeightCm, 0.1)
	assert.Greater(t, p.BMR, 2000)
}

func TestMissingFields(t *testing.T) {
	assert.Len(t, MissingFields(nil), 6)

	p := &Profile{Age: 30, Gender: "female", Weight: 65, Height: 165}
	assert.ElementsMatch(t, []string{"activity_level", "goal"}, MissingFields(p))
	assert.False(t, IsComplete(p))

	p.ActivityLevel = "moderate"
	p.Goal = "longevity"
	assert.True(t, IsComplete(p))
}

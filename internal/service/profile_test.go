package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/platewise/backend/internal/nutrition"
)

func TestUpdateProfileCreatesRowOnFirstWrite(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	userID := uuid.New()

	profile, err := svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{
		Age: 28, Gender: "male", Weight: 82, WeightUnit: "kg",
		Height: 180, HeightUnit: "cm", ActivityLevel: "active", Goal: "weight loss",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, profile.UserID)
	assert.Equal(t, 28, profile.Age)
	assert.Equal(t, 82.0, profile.Weight)

	stored, err := svc.GetProfile(context.Background(), userID)
	require.NoError(t, err)
	assert.Equal(t, "weight loss", stored.Goal)
}

func TestUpdateProfilePartialOverlay(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	userID := uuid.New()

	_, err := svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{
		Age: 28, Gender: "male", Weight: 82, WeightUnit: "kg",
	})
	require.NoError(t, err)

	// Updating just the weight leaves the other fields alone.
	updated, err := svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{Weight: 80, WeightUnit: "kg"})
	require.NoError(t, err)

	assert.Equal(t, 80.0, updated.Weight)
	assert.Equal(t, 28, updated.Age)
	assert.Equal(t, "male", updated.Gender)
}

func TestUpdateProfileInfersUnitsFromMagnitude(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	userID := uuid.New()

	// 190 without a declared unit reads as pounds; 70 as inches.
	profile, err := svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{
		Weight: 190, Height: 70,
	})
	require.NoError(t, err)

	assert.Equal(t, "lb", profile.WeightUnit)
	assert.Equal(t, "in", profile.HeightUnit)
}

func TestUpdateProfileRecordsHistory(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	userID := uuid.New()

	_, err := svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{Weight: 82, WeightUnit: "kg"})
	require.NoError(t, err)
	_, err = svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{Weight: 80, WeightUnit: "kg"})
	require.NoError(t, err)

	history, err := svc.GetProfileHistory(context.Background(), userID)
	require.NoError(t, err)
	require.Len(t, history, 2)

	for _, h := range history {
		assert.Equal(t, "weight", h.Field)
		assert.Equal(t, userID.String(), h.UserID)
	}
}

func TestGetProfileNotFound(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)

	_, err := svc.GetProfile(context.Background(), uuid.New())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestStoreAdapterFeedsResolver(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	userID := uuid.New()

	_, err := svc.UpdateProfile(context.Background(), userID, &nutrition.Profile{
		Age: 40, Gender: "female", Weight: 60, WeightUnit: "kg",
		Height: 160, HeightUnit: "cm", ActivityLevel: "light", Goal: "longevity",
	})
	require.NoError(t, err)

	resolver := nutrition.NewResolver(svc.StoreFor(&userID), nil)
	resolved := resolver.Resolve(context.Background(), nil)

	assert.Equal(t, 40, resolved.Age)
	assert.Equal(t, "longevity", resolved.Goal)
	assert.Equal(t, 60.0, resolved.WeightKg)
}

func TestStoreAdapterMissingProfileDegrades(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	userID := uuid.New()

	resolver := nutrition.NewResolver(svc.StoreFor(&userID), nil)
	resolved := resolver.Resolve(context.Background(), nil)

	// No stored profile falls through to defaults, never an error.
	assert.Equal(t, 30, resolved.Age)
	assert.Greater(t, resolved.TargetCalories, 0)
}

func TestStoreForAnonymousIsNil(t *testing.T) {
	db := setupMealTestDB(t)
	svc := NewProfileService(db, nil)
	assert.Nil(t, svc.StoreFor(nil))
}

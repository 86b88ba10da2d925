package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

const profileCacheTTL = time.Hour

// ProfileService handles user biometric profile operations. Reads go
// through a Redis cache; writes go to Postgres first and refresh the
// cache afterwards.
type ProfileService struct {
	db    *gorm.DB
	redis *redis.Client
}

// Ensure ProfileService implements IProfileService
var _ IProfileService = (*ProfileService)(nil)

// NewProfileService creates a new ProfileService instance
func NewProfileService(db *gorm.DB, redisClient *redis.Client) *ProfileService {
	return &ProfileService{
		db:    db,
		redis: redisClient,
	}
}

func profileCacheKey(userID uuid.UUID) string {
	return fmt.Sprintf("profile:%s", userID)
}

// GetProfile retrieves a user's biometric profile, preferring the cache.
func (s *ProfileService) GetProfile(ctx context.Context, userID uuid.UUID) (*models.UserProfile, error) {
	if s.redis != nil {
		if data, err := s.redis.Get(ctx, profileCacheKey(userID)).Bytes(); err == nil {
			var cached models.UserProfile
			if json.Unmarshal(data, &cached) == nil {
				return &cached, nil
			}
		}
	}

	var profile models.UserProfile
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, &PersistenceError{Op: "profile load", Err: err}
	}

	s.cacheProfile(ctx, &profile)
	return &profile, nil
}

// UpdateProfile applies the non-zero fields of req to the stored
// profile, creating the row on first write. Every changed biometric
// field is recorded in profile history.
func (s *ProfileService) UpdateProfile(ctx context.Context, userID uuid.UUID, req *nutrition.Profile) (*models.UserProfile, error) {
	var profile models.UserProfile
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).First(&profile).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		profile = models.UserProfile{UserID: userID}
	} else if err != nil {
		return nil, &PersistenceError{Op: "profile load", Err: err}
	}

	changes := applyProfileUpdate(&profile, req)

	if err := s.db.WithContext(ctx).Save(&profile).Error; err != nil {
		return nil, &PersistenceError{Op: "profile save", Err: err}
	}

	for field, change := range changes {
		if err := s.recordProfileChange(ctx, userID.String(), field, change[0], change[1]); err != nil {
			log.Printf("[ProfileService] failed to record history for %s: %v", field, err)
		}
	}

	s.cacheProfile(ctx, &profile)
	return &profile, nil
}

// applyProfileUpdate overlays provided fields and returns the
// old/new value pair per changed field.
func applyProfileUpdate(profile *models.UserProfile, req *nutrition.Profile) map[string][2]string {
	changes := make(map[string][2]string)
	record := func(field, oldVal, newVal string) {
		if oldVal != newVal {
			changes[field] = [2]string{oldVal, newVal}
		}
	}

	if req.Age > 0 {
		record("age", strconv.Itoa(profile.Age), strconv.Itoa(req.Age))
		profile.Age = req.Age
	}
	if req.Gender != "" {
		record("gender", profile.Gender, req.Gender)
		profile.Gender = req.Gender
	}
	if req.Weight > 0 {
		record("weight", formatFloat(profile.Weight), formatFloat(req.Weight))
		profile.Weight = req.Weight
		if req.WeightUnit != "" {
			profile.WeightUnit = req.WeightUnit
		} else {
			profile.WeightUnit = nutrition.InferWeightUnit(req.Weight)
		}
	}
	if req.Height > 0 {
		record("height", formatFloat(profile.Height), formatFloat(req.Height))
		profile.Height = req.Height
		if req.HeightUnit != "" {
			profile.HeightUnit = req.HeightUnit
		} else {
			profile.HeightUnit = nutrition.InferHeightUnit(req.Height)
		}
	}
	if req.ActivityLevel != "" {
		record("activity_level", profile.ActivityLevel, req.ActivityLevel)
		profile.ActivityLevel = req.ActivityLevel
	}
	if req.Goal != "" {
		record("goal", profile.Goal, req.Goal)
		profile.Goal = req.Goal
	}

	return changes
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// GetProfileHistory retrieves the change history for a user's profile
func (s *ProfileService) GetProfileHistory(ctx context.Context, userID uuid.UUID) ([]models.ProfileHistory, error) {
	var history []models.ProfileHistory
	if err := s.db.WithContext(ctx).Where("user_id = ?", userID.String()).
		Order("changed_at DESC").Find(&history).Error; err != nil {
		return nil, &PersistenceError{Op: "profile history load", Err: err}
	}
	return history, nil
}

// recordProfileChange records a change to a user's profile
func (s *ProfileService) recordProfileChange(ctx context.Context, userID, field, oldValue, newValue string) error {
	history := &models.ProfileHistory{
		UserID:    userID,
		Field:     field,
		OldValue:  oldValue,
		NewValue:  newValue,
		ChangedAt: time.Now(),
	}

	return s.db.WithContext(ctx).Create(history).Error
}

func (s *ProfileService) cacheProfile(ctx context.Context, profile *models.UserProfile) {
	if s.redis == nil {
		return
	}
	data, err := json.Marshal(profile)
	if err != nil {
		return
	}
	if err := s.redis.Set(ctx, profileCacheKey(profile.UserID), data, profileCacheTTL).Err(); err != nil {
		log.Printf("[ProfileService] cache write failed: %v", err)
	}
}

// InvalidateCache drops the cached profile for a user.
func (s *ProfileService) InvalidateCache(ctx context.Context, userID uuid.UUID) {
	if s.redis == nil {
		return
	}
	if err := s.redis.Del(ctx, profileCacheKey(userID)).Err(); err != nil {
		log.Printf("[ProfileService] cache invalidation failed: %v", err)
	}
}

// storeAdapter exposes a user's stored profile through the resolver's
// Store interface.
type storeAdapter struct {
	svc    *ProfileService
	userID uuid.UUID
}

// StoreFor returns a nutrition.Store bound to one user, or nil for
// anonymous sessions.
func (s *ProfileService) StoreFor(userID *uuid.UUID) nutrition.Store {
	if userID == nil {
		return nil
	}
	return &storeAdapter{svc: s, userID: *userID}
}

func (a *storeAdapter) Fetch(ctx context.Context) (*nutrition.Profile, error) {
	profile, err := a.svc.GetProfile(ctx, a.userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return profile.ToPartial(), nil
}

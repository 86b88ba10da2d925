package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/platewise/backend/internal/models"
	"github.com/platewise/backend/internal/nutrition"
)

const (
	insightJobTimeout = 90 * time.Second
	insightFlagTTL    = 24 * time.Hour
)

// InsightGenerator produces the personalized narrative for a stored
// analysis. The vision service satisfies it in production; tests swap
// in a local implementation.
type InsightGenerator interface {
	GenerateInsights(ctx context.Context, analysis *nutrition.Analysis, profile *nutrition.ResolvedProfile) (string, error)
}

// InsightService runs the asynchronous personalized-insight job for a
// stored meal analysis. Each analysis gets at most one job: the job ID
// is claimed in Redis before the goroutine starts, and the result is
// written back in a single patch.
type InsightService struct {
	db        *gorm.DB
	redis     *redis.Client
	generator InsightGenerator
}

// NewInsightService creates a new InsightService instance
func NewInsightService(db *gorm.DB, redisClient *redis.Client, generator InsightGenerator) *InsightService {
	return &InsightService{
		db:        db,
		redis:     redisClient,
		generator: generator,
	}
}

func insightClaimKey(analysisID uuid.UUID) string {
	return fmt.Sprintf("insight:claim:%s", analysisID)
}

// Dispatch starts the insight job for an analysis unless one already
// ran. It returns the job ID, or uuid.Nil when the claim was already
// taken. The caller does not wait for the result.
func (s *InsightService) Dispatch(ctx context.Context, analysis *models.MealAnalysis, profile *nutrition.ResolvedProfile) uuid.UUID {
	if s.generator == nil {
		return uuid.Nil
	}

	jobID := uuid.New()

	if s.redis != nil {
		claimed, err := s.redis.SetNX(ctx, insightClaimKey(analysis.ID), jobID.String(), insightFlagTTL).Result()
		if err != nil {
			log.Printf("[InsightService] claim check failed, skipping job for %s: %v", analysis.ID, err)
			return uuid.Nil
		}
		if !claimed {
			log.Printf("[InsightService] insight job already claimed for %s", analysis.ID)
			return uuid.Nil
		}
	}

	if err := s.db.WithContext(ctx).Model(&models.MealAnalysis{}).
		Where("id = ?", analysis.ID).
		Updates(map[string]interface{}{
			"insight_job_id":    jobID.String(),
			"insight_requested": true,
		}).Error; err != nil {
		log.Printf("[InsightService] failed to mark job %s requested: %v", jobID, err)
		return uuid.Nil
	}

	toAnalyze := analysisSnapshot(analysis)
	go s.run(jobID, analysis.ID, toAnalyze, profile)

	return jobID
}

// run executes one insight job in its own context; the request that
// dispatched it may be long gone.
func (s *InsightService) run(jobID, analysisID uuid.UUID, analysis *nutrition.Analysis, profile *nutrition.ResolvedProfile) {
	ctx, cancel := context.WithTimeout(context.Background(), insightJobTimeout)
	defer cancel()

	insights, err := s.generator.GenerateInsights(ctx, analysis, profile)
	if err != nil {
		log.Printf("[InsightService] job %s failed for analysis %s: %v", jobID, analysisID, err)
		return
	}

	// A single patch: the personalized text plus the completion flag.
	result := s.db.WithContext(ctx).Model(&models.MealAnalysis{}).
		Where("id = ? AND insight_job_id = ?", analysisID, jobID.String()).
		Updates(map[string]interface{}{
			"personalized_insights": insights,
			"insight_completed":     true,
		})
	if result.Error != nil {
		log.Printf("[InsightService] job %s failed to persist insights: %v", jobID, result.Error)
		return
	}
	if result.RowsAffected == 0 {
		log.Printf("[InsightService] job %s found no matching row for analysis %s, result dropped", jobID, analysisID)
		return
	}

	log.Printf("[InsightService] job %s completed for analysis %s", jobID, analysisID)
}

// analysisSnapshot copies the fields the generator needs so the job
// never shares memory with the request that dispatched it.
func analysisSnapshot(m *models.MealAnalysis) *nutrition.Analysis {
	return &nutrition.Analysis{
		MealName:       m.MealName,
		Calories:       m.Calories,
		Macronutrients: append([]nutrition.Nutrient(nil), m.Macronutrients...),
		Micronutrients: append([]nutrition.Nutrient(nil), m.Micronutrients...),
		Benefits:       append([]string(nil), m.Benefits...),
		Concerns:       append([]string(nil), m.Concerns...),
		Suggestions:    append([]string(nil), m.Suggestions...),
		Goal:           m.Goal,
	}
}

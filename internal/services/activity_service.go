package services

import (
	"fmt"
	"time"

	"github.com/yukikurage/streamline-api/internal/models"
	"github.com/yukikurage/streamline-api/internal/repository"
	"github.com/yukikurage/streamline-api/internal/utils"
	"go.uber.org/zap"
)

// ActivityService appends to and reads the per-user activity log.
type ActivityService struct {
	activityRepo repository.ActivityRepository
	log          *zap.Logger
}

// NewActivityService creates a new ActivityService
func NewActivityService(activityRepo repository.ActivityRepository, log *zap.Logger) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		log:          log,
	}
}

// Record appends an activity entry. Failures are logged and swallowed so a
// broken log never fails the mutation that triggered it.
func (s *ActivityService) Record(userID string, activityType models.ActivityType, description string, taskID *string) {
	activity := &models.Activity{
		UserID:      userID,
		Type:        activityType,
		Description: description,
		TaskID:      taskID,
	}
	if err := s.activityRepo.Create(activity); err != nil {
		s.log.Warn("failed to record activity",
			zap.String("user_id", userID),
			zap.String("type", string(activityType)),
			zap.Error(err),
		)
	}
}

// List returns the newest activities of a user
func (s *ActivityService) List(userID string, params utils.ListParams) ([]models.Activity, error) {
	activities, err := s.activityRepo.ListForOwner(userID, params)
	if err != nil {
		return nil, fmt.Errorf("failed to list activities: %w", err)
	}
	return activities, nil
}

// CountSince counts the activities of a user since the given time
func (s *ActivityService) CountSince(userID string, since time.Time) (int64, error) {
	count, err := s.activityRepo.CountSince(userID, since)
	if err != nil {
		return 0, fmt.Errorf("failed to count activities: %w", err)
	}
	return count, nil
}

package service

import (
	"errors"
	"fmt"
	"time"

	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

var ErrActivityNotFound = errors.New("activity not found")

// NewActivity carries the validated fields for creating an activity
type NewActivity struct {
	Title       string
	Description string
	Category    string
	StartDate   time.Time
	EndDate     *time.Time
	FamilyID    int64
	AssignedTo  int64
	IsAllDay    bool
}

// ActivityService handles activity business logic
type ActivityService struct {
	activityRepo *repository.ActivityRepository
	familyRepo   *repository.FamilyRepository
}

// NewActivityService creates a new activity service
func NewActivityService(activityRepo *repository.ActivityRepository, familyRepo *repository.FamilyRepository) *ActivityService {
	return &ActivityService{
		activityRepo: activityRepo,
		familyRepo:   familyRepo,
	}
}

// CreateActivity creates an activity in a family the creator belongs to
func (s *ActivityService) CreateActivity(in NewActivity, creatorID int64) (*models.Activity, error) {
	if err := validation.ValidateRequired("title", in.Title); err != nil {
		return nil, err
	}
	if err := validation.ValidateRequired("category", in.Category); err != nil {
		return nil, err
	}
	if in.StartDate.IsZero() {
		return nil, validation.ValidationError{Field: "startDate", Message: "startDate is required"}
	}
	if in.AssignedTo == 0 {
		return nil, validation.ValidationError{Field: "assignedTo", Message: "assignedTo is required"}
	}

	if err := s.verifyMembership(creatorID, in.FamilyID); err != nil {
		return nil, err
	}

	activity, err := s.activityRepo.CreateActivity(&models.Activity{
		Title:       in.Title,
		Description: in.Description,
		Category:    in.Category,
		StartDate:   in.StartDate,
		EndDate:     in.EndDate,
		FamilyID:    in.FamilyID,
		CreatedBy:   creatorID,
		AssignedTo:  in.AssignedTo,
		Completed:   false,
		IsAllDay:    in.IsAllDay,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return activity, nil
}

// GetFamilyActivities returns the family's activities. The caller must be a
// member of the family.
func (s *ActivityService) GetFamilyActivities(familyID, callerID int64) ([]models.Activity, error) {
	if err := s.verifyMembership(callerID, familyID); err != nil {
		return nil, err
	}

	activities, err := s.activityRepo.GetFamilyActivities(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get activities: %w", err)
	}
	return activities, nil
}

// CompleteActivity marks an activity completed. The caller must be a member
// of the activity's family. Completing an already-completed activity is a
// no-op.
func (s *ActivityService) CompleteActivity(id, callerID int64) (*models.Activity, error) {
	activity, err := s.activityRepo.GetActivityByID(id)
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}
	if activity == nil {
		return nil, ErrActivityNotFound
	}

	if err := s.verifyMembership(callerID, activity.FamilyID); err != nil {
		return nil, err
	}

	if activity.Completed {
		return activity, nil
	}

	updated, err := s.activityRepo.CompleteActivity(id)
	if err != nil {
		return nil, fmt.Errorf("failed to complete activity: %w", err)
	}
	if updated == nil {
		return nil, ErrActivityNotFound
	}
	return updated, nil
}

func (s *ActivityService) verifyMembership(userID, familyID int64) error {
	isMember, err := s.familyRepo.IsFamilyMember(userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to verify family access: %w", err)
	}
	if !isMember {
		return ErrNotFamilyMember
	}
	return nil
}

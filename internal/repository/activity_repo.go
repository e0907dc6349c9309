package repository

import (
	"database/sql"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// maxActivitiesPerFamily bounds list queries; the UI never pages beyond this.
const maxActivitiesPerFamily = 100

// ActivityRepository handles database operations for activities
type ActivityRepository struct {
	db *database.DB
}

// NewActivityRepository creates a new activity repository
func NewActivityRepository(db *database.DB) *ActivityRepository {
	return &ActivityRepository{db: db}
}

const activityColumns = `
	id, title, COALESCE(description, ''), category, start_date, end_date,
	family_id, created_by, assigned_to, completed, is_all_day, created_at
`

func scanActivity(row *sql.Row) (*models.Activity, error) {
	activity := &models.Activity{}
	var endDate sql.NullTime
	err := row.Scan(
		&activity.ID,
		&activity.Title,
		&activity.Description,
		&activity.Category,
		&activity.StartDate,
		&endDate,
		&activity.FamilyID,
		&activity.CreatedBy,
		&activity.AssignedTo,
		&activity.Completed,
		&activity.IsAllDay,
		&activity.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get activity: %w", err)
	}

	if endDate.Valid {
		activity.EndDate = &endDate.Time
	}
	return activity, nil
}

// CreateActivity inserts a new activity and returns the stored row
func (r *ActivityRepository) CreateActivity(a *models.Activity) (*models.Activity, error) {
	query := `
		INSERT INTO activities (title, description, category, start_date, end_date,
			family_id, created_by, assigned_to, completed, is_all_day)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	var description interface{}
	if a.Description != "" {
		description = a.Description
	}
	var endDate interface{}
	if a.EndDate != nil {
		endDate = *a.EndDate
	}

	id, err := r.db.ExecReturningID(query,
		a.Title, description, a.Category, a.StartDate, endDate,
		a.FamilyID, a.CreatedBy, a.AssignedTo, a.Completed, a.IsAllDay,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create activity: %w", err)
	}

	return r.GetActivityByID(id)
}

// GetActivityByID retrieves an activity by ID
func (r *ActivityRepository) GetActivityByID(id int64) (*models.Activity, error) {
	query := "SELECT " + activityColumns + " FROM activities WHERE id = ?"
	return scanActivity(r.db.QueryRow(query, id))
}

// GetFamilyActivities retrieves activities for a family, newest first,
// bounded to the first 100 rows
func (r *ActivityRepository) GetFamilyActivities(familyID int64) ([]models.Activity, error) {
	query := "SELECT " + activityColumns + ` FROM activities
		WHERE family_id = ?
		ORDER BY id DESC
		LIMIT ` + fmt.Sprint(maxActivitiesPerFamily)
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query activities: %w", err)
	}
	defer rows.Close()

	var activities []models.Activity
	for rows.Next() {
		var activity models.Activity
		var endDate sql.NullTime
		if err := rows.Scan(
			&activity.ID,
			&activity.Title,
			&activity.Description,
			&activity.Category,
			&activity.StartDate,
			&endDate,
			&activity.FamilyID,
			&activity.CreatedBy,
			&activity.AssignedTo,
			&activity.Completed,
			&activity.IsAllDay,
			&activity.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan activity: %w", err)
		}
		if endDate.Valid {
			activity.EndDate = &endDate.Time
		}
		activities = append(activities, activity)
	}

	return activities, rows.Err()
}

// CompleteActivity marks an activity completed and returns the updated row.
// Returns (nil, nil) when no activity with that id exists.
func (r *ActivityRepository) CompleteActivity(id int64) (*models.Activity, error) {
	query := "UPDATE activities SET completed = ? WHERE id = ?"
	if _, err := r.db.Exec(query, true, id); err != nil {
		return nil, fmt.Errorf("failed to complete activity: %w", err)
	}
	return r.GetActivityByID(id)
}

package models

import "time"

// Activity is a schedulable, assignable, completable item owned by a family.
// Completion is one-way: once completed an activity stays completed.
type Activity struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Description string     `json:"description,omitempty"`
	Category    string     `json:"category"`
	StartDate   time.Time  `json:"startDate"`
	EndDate     *time.Time `json:"endDate"`
	FamilyID    int64      `json:"familyId"`
	CreatedBy   int64      `json:"createdBy"`
	AssignedTo  int64      `json:"assignedTo"`
	Completed   bool       `json:"completed"`
	IsAllDay    bool       `json:"isAllDay"`
	CreatedAt   time.Time  `json:"createdAt"`
}

package repository

import (
	"database/sql"
	"fmt"
	"time"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// FamilyRepository handles database operations for families
type FamilyRepository struct {
	db *database.DB
}

// NewFamilyRepository creates a new family repository
func NewFamilyRepository(db *database.DB) *FamilyRepository {
	return &FamilyRepository{db: db}
}

// CreateFamily creates a new family and adds the creator as an active admin
// member in the same transaction, so a family is never left without an owner.
func (r *FamilyRepository) CreateFamily(name string, creator *models.User) (*models.Family, error) {
	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := "INSERT INTO families (name, created_by) VALUES (?, ?)"
	familyID, err := tx.ExecReturningID(query, name, creator.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	query = `
		INSERT INTO family_members (family_id, user_id, role, status, invite_email)
		VALUES (?, ?, ?, ?, ?)
	`
	_, err = tx.Exec(query, familyID, creator.ID, models.RoleAdmin, models.StatusActive, creator.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to add family member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	now := time.Now()
	return &models.Family{
		ID:        familyID,
		Name:      name,
		CreatedBy: creator.ID,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// GetFamilyByID retrieves a family by ID
func (r *FamilyRepository) GetFamilyByID(familyID int64) (*models.Family, error) {
	query := "SELECT id, name, created_by, created_at, updated_at FROM families WHERE id = ?"
	family := &models.Family{}
	err := r.db.QueryRow(query, familyID).Scan(
		&family.ID,
		&family.Name,
		&family.CreatedBy,
		&family.CreatedAt,
		&family.UpdatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family: %w", err)
	}

	return family, nil
}

// GetUserFamilies retrieves all families where the user has a membership
// row of any status, in a single JOIN.
func (r *FamilyRepository) GetUserFamilies(userID int64) ([]models.Family, error) {
	query := `
		SELECT f.id, f.name, f.created_by, f.created_at, f.updated_at
		FROM families f
		INNER JOIN family_members fm ON f.id = fm.family_id
		WHERE fm.user_id = ?
		ORDER BY f.created_at DESC
	`
	rows, err := r.db.Query(query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query families: %w", err)
	}
	defer rows.Close()

	var families []models.Family
	for rows.Next() {
		var family models.Family
		if err := rows.Scan(&family.ID, &family.Name, &family.CreatedBy, &family.CreatedAt, &family.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan family: %w", err)
		}
		families = append(families, family)
	}

	return families, rows.Err()
}

// IsFamilyMember checks if a user has a membership row in a family
func (r *FamilyRepository) IsFamilyMember(userID, familyID int64) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE user_id = ? AND family_id = ?"
	var count int
	err := r.db.QueryRow(query, userID, familyID).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check family membership: %w", err)
	}
	return count > 0, nil
}

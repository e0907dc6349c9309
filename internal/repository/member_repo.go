package repository

import (
	"database/sql"
	"fmt"

	"familyhub/internal/database"
	"familyhub/internal/models"
)

// MemberRepository handles database operations for family members and the
// invite lifecycle
type MemberRepository struct {
	db *database.DB
}

// NewMemberRepository creates a new member repository
func NewMemberRepository(db *database.DB) *MemberRepository {
	return &MemberRepository{db: db}
}

const memberColumns = `
	id, family_id, user_id, role, status, invite_email,
	COALESCE(invite_token, ''), created_at
`

func scanMember(row *sql.Row) (*models.FamilyMember, error) {
	member := &models.FamilyMember{}
	var userID sql.NullInt64
	err := row.Scan(
		&member.ID,
		&member.FamilyID,
		&userID,
		&member.Role,
		&member.Status,
		&member.InviteEmail,
		&member.InviteToken,
		&member.CreatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get family member: %w", err)
	}

	if userID.Valid {
		member.UserID = &userID.Int64
	}
	return member, nil
}

// CreateMember inserts a new family member row. The (family_id, invite_email)
// unique constraint is the authoritative guard against duplicate invites;
// callers should check the returned error with database.IsUniqueViolation.
func (r *MemberRepository) CreateMember(familyID int64, userID *int64, role, status, inviteEmail, inviteToken string) (*models.FamilyMember, error) {
	query := `
		INSERT INTO family_members (family_id, user_id, role, status, invite_email, invite_token)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	var uid interface{}
	if userID != nil {
		uid = *userID
	}
	var token interface{}
	if inviteToken != "" {
		token = inviteToken
	}

	id, err := r.db.ExecReturningID(query, familyID, uid, role, status, inviteEmail, token)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create family member: %w", err)
	}

	return r.GetMemberByID(id)
}

// GetMemberByID retrieves a family member by ID
func (r *MemberRepository) GetMemberByID(id int64) (*models.FamilyMember, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE id = ?"
	return scanMember(r.db.QueryRow(query, id))
}

// GetMemberByToken retrieves a family member by invite token
func (r *MemberRepository) GetMemberByToken(token string) (*models.FamilyMember, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE invite_token = ?"
	return scanMember(r.db.QueryRow(query, token))
}

// HasMemberWithEmail reports whether a membership row of any status exists
// for the (family, email) pair
func (r *MemberRepository) HasMemberWithEmail(familyID int64, email string) (bool, error) {
	query := "SELECT COUNT(*) FROM family_members WHERE family_id = ? AND invite_email = ?"
	var count int
	err := r.db.QueryRow(query, familyID, email).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("failed to check existing invite: %w", err)
	}
	return count > 0, nil
}

// GetFamilyMembers retrieves all members of a family, oldest first
func (r *MemberRepository) GetFamilyMembers(familyID int64) ([]models.FamilyMember, error) {
	query := "SELECT " + memberColumns + " FROM family_members WHERE family_id = ? ORDER BY id ASC"
	rows, err := r.db.Query(query, familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to query family members: %w", err)
	}
	defer rows.Close()

	var members []models.FamilyMember
	for rows.Next() {
		var member models.FamilyMember
		var userID sql.NullInt64
		if err := rows.Scan(
			&member.ID,
			&member.FamilyID,
			&userID,
			&member.Role,
			&member.Status,
			&member.InviteEmail,
			&member.InviteToken,
			&member.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan family member: %w", err)
		}
		if userID.Valid {
			member.UserID = &userID.Int64
		}
		members = append(members, member)
	}

	return members, rows.Err()
}

// ActivateMember links a user to a membership row and marks it active.
// This is the pending -> active transition of the invite lifecycle.
func (r *MemberRepository) ActivateMember(id, userID int64) (*models.FamilyMember, error) {
	query := "UPDATE family_members SET user_id = ?, status = ? WHERE id = ?"
	if _, err := r.db.Exec(query, userID, models.StatusActive, id); err != nil {
		return nil, fmt.Errorf("failed to activate family member: %w", err)
	}
	return r.GetMemberByID(id)
}

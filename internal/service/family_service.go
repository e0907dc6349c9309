package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/security"
	"familyhub/internal/validation"
)

var (
	ErrFamilyNotFound  = errors.New("family not found")
	ErrNotFamilyMember = errors.New("user is not a member of this family")
	ErrAlreadyInvited  = errors.New("this email has already been invited to the family")
	ErrInvalidRole     = errors.New("role must be admin or member")
	ErrInviteNotFound  = errors.New("invite not found")
	ErrInviteUsed      = errors.New("invite has already been used")
)

// FamilyService handles family and invite business logic
type FamilyService struct {
	familyRepo   *repository.FamilyRepository
	memberRepo   *repository.MemberRepository
	userRepo     *repository.UserRepository
	emailService *EmailService
	appBaseURL   string
}

// NewFamilyService creates a new family service
func NewFamilyService(familyRepo *repository.FamilyRepository, memberRepo *repository.MemberRepository, userRepo *repository.UserRepository, emailService *EmailService, appBaseURL string) *FamilyService {
	return &FamilyService{
		familyRepo:   familyRepo,
		memberRepo:   memberRepo,
		userRepo:     userRepo,
		emailService: emailService,
		appBaseURL:   appBaseURL,
	}
}

// CreateFamily creates a new family with the creator as an active admin member
func (s *FamilyService) CreateFamily(name string, creator *models.User) (*models.Family, error) {
	if err := validation.ValidateRequired("name", name); err != nil {
		return nil, err
	}

	family, err := s.familyRepo.CreateFamily(name, creator)
	if err != nil {
		return nil, fmt.Errorf("failed to create family: %w", err)
	}

	return family, nil
}

// GetUserFamilies retrieves all families a user belongs to
func (s *FamilyService) GetUserFamilies(userID int64) ([]models.Family, error) {
	families, err := s.familyRepo.GetUserFamilies(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user families: %w", err)
	}
	return families, nil
}

// VerifyFamilyAccess checks if a user has access to a family
func (s *FamilyService) VerifyFamilyAccess(userID, familyID int64) error {
	isMember, err := s.familyRepo.IsFamilyMember(userID, familyID)
	if err != nil {
		return fmt.Errorf("failed to verify family access: %w", err)
	}
	if !isMember {
		return ErrNotFamilyMember
	}
	return nil
}

// GetFamilyMembers retrieves all members of a family. The caller must be a
// member themselves.
func (s *FamilyService) GetFamilyMembers(familyID, callerID int64) ([]models.FamilyMember, error) {
	if err := s.VerifyFamilyAccess(callerID, familyID); err != nil {
		return nil, err
	}

	members, err := s.memberRepo.GetFamilyMembers(familyID)
	if err != nil {
		return nil, fmt.Errorf("failed to get family members: %w", err)
	}
	return members, nil
}

// InviteMember invites an email address to a family. The actor must be a
// member of the family. If an account already exists for the email the
// membership is activated immediately; otherwise it stays pending until the
// invitee registers and accepts via the invite link.
//
// Returns the created member and the invite URL for display and link sharing.
// The invite email itself is sent best-effort: a delivery failure never fails
// the invite.
func (s *FamilyService) InviteMember(ctx context.Context, familyID, actorID int64, inviteEmail, role string) (*models.FamilyMember, string, error) {
	if err := s.VerifyFamilyAccess(actorID, familyID); err != nil {
		return nil, "", err
	}

	if err := validation.ValidateEmail(inviteEmail); err != nil {
		return nil, "", err
	}
	if role == "" {
		role = models.RoleMember
	}
	if !models.ValidRole(role) {
		return nil, "", ErrInvalidRole
	}

	family, err := s.familyRepo.GetFamilyByID(familyID)
	if err != nil {
		return nil, "", fmt.Errorf("failed to get family: %w", err)
	}
	if family == nil {
		return nil, "", ErrFamilyNotFound
	}

	// Friendly pre-check; the unique constraint below is the real guard.
	exists, err := s.memberRepo.HasMemberWithEmail(familyID, inviteEmail)
	if err != nil {
		return nil, "", fmt.Errorf("failed to check existing invite: %w", err)
	}
	if exists {
		return nil, "", ErrAlreadyInvited
	}

	token, err := security.GenerateInviteToken()
	if err != nil {
		return nil, "", fmt.Errorf("failed to generate invite token: %w", err)
	}

	// An existing account with this email joins immediately; the token is
	// still issued so the invite link can be shared either way.
	status := models.StatusPending
	var userID *int64
	invitee, err := s.userRepo.GetUserByEmail(inviteEmail)
	if err != nil {
		return nil, "", fmt.Errorf("failed to look up invitee: %w", err)
	}
	if invitee != nil {
		status = models.StatusActive
		userID = &invitee.ID
	}

	member, err := s.memberRepo.CreateMember(familyID, userID, role, status, inviteEmail, token)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return nil, "", ErrAlreadyInvited
		}
		return nil, "", fmt.Errorf("failed to create family member: %w", err)
	}

	inviteURL := fmt.Sprintf("%s/auth?invite=%s", s.appBaseURL, token)

	if s.emailService != nil {
		if err := s.emailService.SendInviteEmail(ctx, inviteEmail, family.Name, inviteURL); err != nil {
			log.Printf("Warning: failed to send invite email to %s: %v", inviteEmail, err)
		}
	}

	return member, inviteURL, nil
}

// VerifyInvite looks up an invite by token so the client can show which
// family the invite belongs to before the user authenticates.
func (s *FamilyService) VerifyInvite(token string) (*models.FamilyMember, error) {
	member, err := s.memberRepo.GetMemberByToken(token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up invite: %w", err)
	}
	if member == nil {
		return nil, ErrInviteNotFound
	}
	if member.IsActive() {
		return nil, ErrInviteUsed
	}
	return member, nil
}

// AcceptInvite transitions a pending invite to active, binding it to the
// accepting user. This is the only pending -> active path for invitees who
// had no account at invite time.
func (s *FamilyService) AcceptInvite(token string, userID int64) (*models.FamilyMember, error) {
	member, err := s.VerifyInvite(token)
	if err != nil {
		return nil, err
	}

	updated, err := s.memberRepo.ActivateMember(member.ID, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to accept invite: %w", err)
	}
	return updated, nil
}

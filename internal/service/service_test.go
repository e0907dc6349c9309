package service

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"familyhub/internal/config"
	"familyhub/internal/database"
	"familyhub/internal/models"
	"familyhub/internal/repository"
	"familyhub/internal/validation"
)

type testEnv struct {
	auth     *AuthService
	family   *FamilyService
	activity *ActivityService
	userRepo *repository.UserRepository
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	cfg := &config.Config{
		DatabaseType: "sqlite",
		DatabasePath: filepath.Join(t.TempDir(), "test.db"),
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.RunMigrations("../../migrations"); err != nil {
		t.Fatalf("RunMigrations: %v", err)
	}

	userRepo := repository.NewUserRepository(db)
	familyRepo := repository.NewFamilyRepository(db)
	memberRepo := repository.NewMemberRepository(db)
	activityRepo := repository.NewActivityRepository(db)

	return &testEnv{
		auth:     NewAuthService(userRepo, nil, time.Hour),
		family:   NewFamilyService(familyRepo, memberRepo, userRepo, nil, "http://localhost:8080"),
		activity: NewActivityService(activityRepo, familyRepo),
		userRepo: userRepo,
	}
}

func (e *testEnv) register(t *testing.T, username string) *models.User {
	t.Helper()
	user, err := e.auth.Register(context.Background(), username, "password123", "Test "+username, username+"@example.com")
	if err != nil {
		t.Fatalf("Register(%s): %v", username, err)
	}
	return user
}

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	user := env.register(t, "alice")
	if user.Username != "alice" {
		t.Errorf("username = %q", user.Username)
	}

	session, loggedIn, err := env.auth.Login("alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if loggedIn.ID != user.ID {
		t.Errorf("login user id = %d, want %d", loggedIn.ID, user.ID)
	}
	if session.ID == "" {
		t.Error("session id empty")
	}

	validated, err := env.auth.ValidateSession(session.ID)
	if err != nil {
		t.Fatalf("ValidateSession: %v", err)
	}
	if validated.ID != user.ID {
		t.Errorf("validated user id = %d, want %d", validated.ID, user.ID)
	}
}

func TestLoginWrongCredentialsAreIndistinguishable(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, _, errWrongPassword := env.auth.Login("alice", "not-the-password")
	_, _, errNoSuchUser := env.auth.Login("nobody", "password123")

	if !errors.Is(errWrongPassword, ErrInvalidCredentials) {
		t.Errorf("wrong password error = %v", errWrongPassword)
	}
	if !errors.Is(errNoSuchUser, ErrInvalidCredentials) {
		t.Errorf("unknown user error = %v", errNoSuchUser)
	}
	if errWrongPassword.Error() != errNoSuchUser.Error() {
		t.Error("credential errors should be identical for both failure modes")
	}
}

func TestRegisterRejectsDuplicates(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	_, err := env.auth.Register(context.Background(), "alice", "password123", "Other", "other@example.com")
	if !errors.Is(err, ErrUsernameTaken) {
		t.Errorf("duplicate username error = %v", err)
	}

	_, err = env.auth.Register(context.Background(), "alice2", "password123", "Other", "alice@example.com")
	if !errors.Is(err, ErrEmailTaken) {
		t.Errorf("duplicate email error = %v", err)
	}
}

func TestRegisterValidation(t *testing.T) {
	env := newTestEnv(t)

	var vErr validation.ValidationError

	_, err := env.auth.Register(context.Background(), "al", "password123", "Alice", "alice@example.com")
	if !errors.As(err, &vErr) {
		t.Errorf("short username error = %v", err)
	}

	_, err = env.auth.Register(context.Background(), "alice", "short", "Alice", "alice@example.com")
	if !errors.As(err, &vErr) {
		t.Errorf("short password error = %v", err)
	}

	_, err = env.auth.Register(context.Background(), "alice", "password123", "Alice", "not-an-email")
	if !errors.As(err, &vErr) {
		t.Errorf("bad email error = %v", err)
	}
}

func TestLogoutInvalidatesSession(t *testing.T) {
	env := newTestEnv(t)
	env.register(t, "alice")

	session, _, err := env.auth.Login("alice", "password123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}

	if err := env.auth.Logout(session.ID); err != nil {
		t.Fatalf("Logout: %v", err)
	}

	_, err = env.auth.ValidateSession(session.ID)
	if !errors.Is(err, ErrSessionNotFound) {
		t.Errorf("validate after logout = %v", err)
	}
}

func TestInviteWorkflowForNewUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	family, err := env.family.CreateFamily("Smith Family", alice)
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}

	member, inviteURL, err := env.family.InviteMember(ctx, family.ID, alice.ID, "bob@example.com", "")
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	if !member.IsPending() {
		t.Errorf("invite status = %q, want pending", member.Status)
	}
	if member.Role != models.RoleMember {
		t.Errorf("default role = %q, want member", member.Role)
	}
	if member.UserID != nil {
		t.Errorf("invite user id = %v, want nil", member.UserID)
	}

	// The invite link carries a 64 character hex token.
	idx := strings.Index(inviteURL, "invite=")
	if idx < 0 {
		t.Fatalf("invite URL missing token: %q", inviteURL)
	}
	token := inviteURL[idx+len("invite="):]
	if len(token) != 64 {
		t.Errorf("token length = %d, want 64", len(token))
	}

	verified, err := env.family.VerifyInvite(token)
	if err != nil {
		t.Fatalf("VerifyInvite: %v", err)
	}
	if verified.FamilyID != family.ID {
		t.Errorf("verified family id = %d, want %d", verified.FamilyID, family.ID)
	}

	bob := env.register(t, "bob")
	accepted, err := env.family.AcceptInvite(token, bob.ID)
	if err != nil {
		t.Fatalf("AcceptInvite: %v", err)
	}
	if !accepted.IsActive() {
		t.Errorf("accepted status = %q, want active", accepted.Status)
	}
	if accepted.UserID == nil || *accepted.UserID != bob.ID {
		t.Errorf("accepted user id = %v, want %d", accepted.UserID, bob.ID)
	}

	// A used invite cannot be verified or accepted again.
	if _, err := env.family.VerifyInvite(token); !errors.Is(err, ErrInviteUsed) {
		t.Errorf("verify used invite = %v", err)
	}
	if _, err := env.family.AcceptInvite(token, bob.ID); !errors.Is(err, ErrInviteUsed) {
		t.Errorf("accept used invite = %v", err)
	}

	families, err := env.family.GetUserFamilies(bob.ID)
	if err != nil {
		t.Fatalf("GetUserFamilies: %v", err)
	}
	if len(families) != 1 || families[0].ID != family.ID {
		t.Errorf("bob families = %+v", families)
	}
}

func TestInviteExistingUserJoinsImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	bob := env.register(t, "bob")

	family, err := env.family.CreateFamily("Smith Family", alice)
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}

	member, _, err := env.family.InviteMember(ctx, family.ID, alice.ID, "bob@example.com", models.RoleAdmin)
	if err != nil {
		t.Fatalf("InviteMember: %v", err)
	}
	if !member.IsActive() {
		t.Errorf("existing user invite status = %q, want active", member.Status)
	}
	if member.UserID == nil || *member.UserID != bob.ID {
		t.Errorf("member user id = %v, want %d", member.UserID, bob.ID)
	}
	if member.Role != models.RoleAdmin {
		t.Errorf("role = %q, want admin", member.Role)
	}
}

func TestInviteErrors(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")

	family, err := env.family.CreateFamily("Smith Family", alice)
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}

	// Non-members cannot invite.
	if _, _, err := env.family.InviteMember(ctx, family.ID, mallory.ID, "x@example.com", ""); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider invite = %v", err)
	}

	// Duplicate invites are rejected.
	if _, _, err := env.family.InviteMember(ctx, family.ID, alice.ID, "bob@example.com", ""); err != nil {
		t.Fatalf("first invite: %v", err)
	}
	if _, _, err := env.family.InviteMember(ctx, family.ID, alice.ID, "bob@example.com", ""); !errors.Is(err, ErrAlreadyInvited) {
		t.Errorf("duplicate invite = %v", err)
	}

	// Unknown roles are rejected.
	if _, _, err := env.family.InviteMember(ctx, family.ID, alice.ID, "c@example.com", "owner"); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("bad role = %v", err)
	}

	// Unknown tokens are not found.
	if _, err := env.family.VerifyInvite("deadbeef"); !errors.Is(err, ErrInviteNotFound) {
		t.Errorf("unknown token = %v", err)
	}
}

func TestMemberListRequiresMembership(t *testing.T) {
	env := newTestEnv(t)

	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")

	family, err := env.family.CreateFamily("Smith Family", alice)
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}

	if _, err := env.family.GetFamilyMembers(family.ID, mallory.ID); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider member list = %v", err)
	}

	members, err := env.family.GetFamilyMembers(family.ID, alice.ID)
	if err != nil {
		t.Fatalf("GetFamilyMembers: %v", err)
	}
	if len(members) != 1 {
		t.Errorf("member count = %d, want 1", len(members))
	}
}

func TestActivityLifecycle(t *testing.T) {
	env := newTestEnv(t)

	alice := env.register(t, "alice")
	mallory := env.register(t, "mallory")

	family, err := env.family.CreateFamily("Smith Family", alice)
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}

	activity, err := env.activity.CreateActivity(NewActivity{
		Title:      "Soccer practice",
		Category:   "sports",
		StartDate:  time.Now(),
		FamilyID:   family.ID,
		AssignedTo: alice.ID,
	}, alice.ID)
	if err != nil {
		t.Fatalf("CreateActivity: %v", err)
	}
	if activity.Completed {
		t.Error("new activity should not be completed")
	}
	if activity.CreatedBy != alice.ID {
		t.Errorf("created by = %d, want %d", activity.CreatedBy, alice.ID)
	}

	// Outsiders cannot create, list or complete.
	_, err = env.activity.CreateActivity(NewActivity{
		Title:      "Sneaky",
		Category:   "other",
		StartDate:  time.Now(),
		FamilyID:   family.ID,
		AssignedTo: mallory.ID,
	}, mallory.ID)
	if !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider create = %v", err)
	}
	if _, err := env.activity.GetFamilyActivities(family.ID, mallory.ID); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider list = %v", err)
	}
	if _, err := env.activity.CompleteActivity(activity.ID, mallory.ID); !errors.Is(err, ErrNotFamilyMember) {
		t.Errorf("outsider complete = %v", err)
	}

	completed, err := env.activity.CompleteActivity(activity.ID, alice.ID)
	if err != nil {
		t.Fatalf("CompleteActivity: %v", err)
	}
	if !completed.Completed {
		t.Error("activity should be completed")
	}

	// Completing again is a no-op, not an error.
	again, err := env.activity.CompleteActivity(activity.ID, alice.ID)
	if err != nil {
		t.Fatalf("CompleteActivity twice: %v", err)
	}
	if !again.Completed {
		t.Error("activity should stay completed")
	}

	if _, err := env.activity.CompleteActivity(99999, alice.ID); !errors.Is(err, ErrActivityNotFound) {
		t.Errorf("missing activity = %v", err)
	}
}

func TestCreateActivityValidation(t *testing.T) {
	env := newTestEnv(t)

	alice := env.register(t, "alice")
	family, err := env.family.CreateFamily("Smith Family", alice)
	if err != nil {
		t.Fatalf("CreateFamily: %v", err)
	}

	var vErr validation.ValidationError

	_, err = env.activity.CreateActivity(NewActivity{
		Category:   "sports",
		StartDate:  time.Now(),
		FamilyID:   family.ID,
		AssignedTo: alice.ID,
	}, alice.ID)
	if !errors.As(err, &vErr) || vErr.Field != "title" {
		t.Errorf("missing title = %v", err)
	}

	_, err = env.activity.CreateActivity(NewActivity{
		Title:      "No start",
		Category:   "sports",
		FamilyID:   family.ID,
		AssignedTo: alice.ID,
	}, alice.ID)
	if !errors.As(err, &vErr) || vErr.Field != "startDate" {
		t.Errorf("missing start date = %v", err)
	}
}

func TestPasswordResetFlow(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	alice := env.register(t, "alice")

	// Unknown emails succeed silently so accounts cannot be enumerated.
	if err := env.auth.RequestPasswordReset(ctx, "nobody@example.com"); err != nil {
		t.Fatalf("RequestPasswordReset(unknown): %v", err)
	}

	// The token normally arrives by email; store one directly here.
	token := "a-reset-token"
	if err := env.userRepo.CreatePasswordResetToken(token, alice.ID, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("CreatePasswordResetToken: %v", err)
	}

	if err := env.auth.ResetPassword(token, "newpassword123"); err != nil {
		t.Fatalf("ResetPassword: %v", err)
	}

	if _, _, err := env.auth.Login("alice", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Errorf("old password should no longer work, got %v", err)
	}
	if _, _, err := env.auth.Login("alice", "newpassword123"); err != nil {
		t.Errorf("new password should work, got %v", err)
	}

	// Tokens are single use.
	if err := env.auth.ResetPassword(token, "anotherpassword1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("reused token = %v", err)
	}

	// Expired tokens are rejected.
	expired := "an-expired-token"
	if err := env.userRepo.CreatePasswordResetToken(expired, alice.ID, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("CreatePasswordResetToken: %v", err)
	}
	if err := env.auth.ResetPassword(expired, "anotherpassword1"); !errors.Is(err, ErrInvalidResetToken) {
		t.Errorf("expired token = %v", err)
	}
}

package service

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/acme/accounts-api/internal/core/domain"
	"github.com/acme/accounts-api/internal/core/ports"
)

func seedFixture(repo *stubUserRepo) (admin, alice, bob, friend *domain.User) {
	admin = repo.seed(&domain.User{Username: "root", Role: domain.RoleAdmin, IsActive: true, IsSuperuser: true})
	alice = repo.seed(&domain.User{Username: "alice", Role: domain.RoleUser, IsActive: true,
		Capabilities: domain.DefaultCapabilities(domain.RoleUser)})
	bob = repo.seed(&domain.User{Username: "bob", Role: domain.RoleUser, IsActive: true,
		Capabilities: domain.DefaultCapabilities(domain.RoleUser)})
	friend = repo.seed(&domain.User{Username: "buddy", Role: domain.RoleFriend, IsActive: true, CreatedBy: alice.ID})
	return admin, alice, bob, friend
}

func TestUserService_List_Visibility(t *testing.T) {
	repo := newStubUserRepo()
	admin, alice, _, friend := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	adminList, err := svc.List(context.Background(), admin, ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("admin list: %v", err)
	}
	if adminList.Total != 4 {
		t.Fatalf("admin should see all 4 rows, saw %d", adminList.Total)
	}

	aliceList, err := svc.List(context.Background(), alice, ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("user list: %v", err)
	}
	for _, row := range aliceList.Items {
		if row.ID != alice.ID && row.CreatedBy != alice.ID {
			t.Fatalf("user listing leaked row %s", row.Username)
		}
	}
	if aliceList.Total != 2 {
		t.Fatalf("user should see own row plus created rows, saw %d", aliceList.Total)
	}

	friendList, err := svc.List(context.Background(), friend, ports.ListUsersInput{})
	if err != nil {
		t.Fatalf("friend list: %v", err)
	}
	if friendList.Total != 1 || friendList.Items[0].ID != friend.ID {
		t.Fatalf("friend should see only own row, saw %+v", friendList.Items)
	}
}

func TestUserService_List_Search(t *testing.T) {
	repo := newStubUserRepo()
	admin, _, _, _ := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	result, err := svc.List(context.Background(), admin, ports.ListUsersInput{Search: "ali"})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if result.Total != 1 || result.Items[0].Username != "alice" {
		t.Fatalf("search should match alice only, got %+v", result.Items)
	}
}

func TestUserService_Get_DirectRetrievalIsBroad(t *testing.T) {
	repo := newStubUserRepo()
	_, alice, bob, _ := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	// Direct retrieve-by-id is allowed even though the listing filter would
	// hide the row.
	got, err := svc.Get(context.Background(), alice, bob.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.ID != bob.ID {
		t.Fatalf("unexpected record: %+v", got)
	}

	if _, err := svc.Get(context.Background(), alice, "missing"); !errors.Is(err, domain.ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
}

func TestUserService_Create_AdminSetsCreatorOnFriends(t *testing.T) {
	repo := newStubUserRepo()
	admin, _, _, _ := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), admin, ports.CreateUserInput{
		Username: "pal",
		Password: "pw123456",
		Role:     domain.RoleFriend,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.CreatedBy != admin.ID {
		t.Fatalf("friend should record creator, got %q", created.CreatedBy)
	}

	// Non-friend roles never record a creator.
	regular, err := svc.Create(context.Background(), admin, ports.CreateUserInput{
		Username: "worker",
		Password: "pw123456",
		Role:     domain.RoleUser,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if regular.CreatedBy != "" {
		t.Fatalf("non-friend should have empty CreatedBy, got %q", regular.CreatedBy)
	}
}

func TestUserService_Create_CapabilityGate(t *testing.T) {
	repo := newStubUserRepo()
	_, alice, _, friend := seedFixture(repo)
	nograntUser := repo.seed(&domain.User{Username: "plain", Role: domain.RoleUser, IsActive: true})
	svc := NewUserService(repo, zerolog.Nop())

	created, err := svc.Create(context.Background(), alice, ports.CreateUserInput{
		Username: "pal2",
		Password: "pw123456",
		Role:     domain.RoleFriend,
	})
	if err != nil {
		t.Fatalf("grant holder should create friends: %v", err)
	}
	if created.CreatedBy != alice.ID {
		t.Fatalf("friend creator should be alice, got %q", created.CreatedBy)
	}

	if _, err := svc.Create(context.Background(), nograntUser, ports.CreateUserInput{
		Username: "pal3", Password: "pw123456", Role: domain.RoleFriend,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("user without grant: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Create(context.Background(), alice, ports.CreateUserInput{
		Username: "peer", Password: "pw123456", Role: domain.RoleUser,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-admin creating user role: expected ErrForbidden, got %v", err)
	}

	if _, err := svc.Create(context.Background(), friend, ports.CreateUserInput{
		Username: "pal4", Password: "pw123456", Role: domain.RoleFriend,
	}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("friend creating account: expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Update_ObjectChecks(t *testing.T) {
	repo := newStubUserRepo()
	_, alice, bob, friend := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	email := "new@example.com"
	updated, err := svc.Update(context.Background(), alice, alice.ID, ports.UpdateUserInput{Email: &email})
	if err != nil {
		t.Fatalf("self update: %v", err)
	}
	if updated.Email != email {
		t.Fatalf("email not applied: %+v", updated)
	}

	if _, err := svc.Update(context.Background(), alice, bob.ID, ports.UpdateUserInput{Email: &email}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("unrelated update: expected ErrForbidden, got %v", err)
	}

	// Creator with the manage grant may update their friend.
	if _, err := svc.Update(context.Background(), alice, friend.ID, ports.UpdateUserInput{Email: &email}); err != nil {
		t.Fatalf("creator update of friend: %v", err)
	}
}

func TestUserService_Update_PasswordRehash(t *testing.T) {
	repo := newStubUserRepo()
	_, alice, _, _ := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	pw := "brandnew1"
	updated, err := svc.Update(context.Background(), alice, alice.ID, ports.UpdateUserInput{Password: &pw})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if err := bcrypt.CompareHashAndPassword([]byte(updated.PasswordHash), []byte(pw)); err != nil {
		t.Fatalf("new password does not verify: %v", err)
	}
}

func TestUserService_SuperuserRoleForcedOnSave(t *testing.T) {
	repo := newStubUserRepo()
	admin, _, _, _ := seedFixture(repo)
	// A superuser whose role was somehow downgraded in the store.
	rogue := repo.seed(&domain.User{Username: "super", Role: domain.RoleUser, IsSuperuser: true, IsActive: true})
	svc := NewUserService(repo, zerolog.Nop())

	email := "super@example.com"
	updated, err := svc.Update(context.Background(), admin, rogue.ID, ports.UpdateUserInput{Email: &email})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if updated.Role != domain.RoleAdmin {
		t.Fatalf("superuser save must force admin role, got %s", updated.Role)
	}
	if !updated.IsStaff {
		t.Fatal("superuser save must force staff status")
	}
}

func TestUserService_SetActive_AdminOnly(t *testing.T) {
	repo := newStubUserRepo()
	admin, alice, _, friend := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	updated, err := svc.SetActive(context.Background(), admin, friend.ID, false)
	if err != nil {
		t.Fatalf("admin deactivate: %v", err)
	}
	if updated.IsActive {
		t.Fatal("account should be inactive")
	}

	// Ownership does not matter: alice created the friend but cannot toggle.
	if _, err := svc.SetActive(context.Background(), alice, friend.ID, true); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestUserService_Analytics(t *testing.T) {
	repo := newStubUserRepo()
	admin, alice, _, _ := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	result, err := svc.Analytics(context.Background(), admin)
	if err != nil {
		t.Fatalf("analytics: %v", err)
	}
	if result.TotalUsers != 4 || result.TotalFriends != 1 {
		t.Fatalf("unexpected counts: %+v", result)
	}

	if _, err := svc.Analytics(context.Background(), alice); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("expected ErrForbidden for non-admin, got %v", err)
	}
}

func TestUserService_MyFriends(t *testing.T) {
	repo := newStubUserRepo()
	_, alice, bob, friend := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	friends, err := svc.MyFriends(context.Background(), alice)
	if err != nil {
		t.Fatalf("my friends: %v", err)
	}
	if len(friends) != 1 || friends[0].ID != friend.ID {
		t.Fatalf("unexpected friends: %+v", friends)
	}

	none, err := svc.MyFriends(context.Background(), bob)
	if err != nil {
		t.Fatalf("my friends: %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("bob created no friends, got %+v", none)
	}

	if _, err := svc.MyFriends(context.Background(), friend); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("friend role: expected ErrForbidden, got %v", err)
	}
}

func TestUserService_ManageFriend(t *testing.T) {
	repo := newStubUserRepo()
	admin, alice, bob, friend := seedFixture(repo)
	svc := NewUserService(repo, zerolog.Nop())

	name := "Buddy"
	updated, err := svc.ManageFriend(context.Background(), alice, friend.ID, ports.UpdateUserInput{FirstName: &name})
	if err != nil {
		t.Fatalf("manage friend: %v", err)
	}
	if updated.FirstName != name {
		t.Fatalf("first name not applied: %+v", updated)
	}

	if _, err := svc.ManageFriend(context.Background(), bob, friend.ID, ports.UpdateUserInput{FirstName: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("non-creator: expected ErrForbidden, got %v", err)
	}

	// The action is restricted to the user role; admins use the normal
	// update path instead.
	if _, err := svc.ManageFriend(context.Background(), admin, friend.ID, ports.UpdateUserInput{FirstName: &name}); !errors.Is(err, domain.ErrForbidden) {
		t.Fatalf("admin: expected ErrForbidden, got %v", err)
	}

	pw := "newpw12345"
	var ve *domain.ValidationError
	if _, err := svc.ManageFriend(context.Background(), alice, friend.ID, ports.UpdateUserInput{Password: &pw}); !errors.As(err, &ve) {
		t.Fatalf("password via manage_friend: expected ValidationError, got %v", err)
	}
}

package auth

import (
	"testing"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kiran026/sports-portal-backend/config"
)

type fakeRepo struct {
	roles   map[string]*UserRole
	users   map[string]*User
	created []*User
	admins  int64
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		roles: map[string]*UserRole{
			RoleAdmin:       {ID: 1, RoleName: RoleAdmin},
			RoleOrganizer:   {ID: 2, RoleName: RoleOrganizer, CanRegisterPublicly: true},
			RoleParticipant: {ID: 3, RoleName: RoleParticipant, CanRegisterPublicly: true},
		},
		users: map[string]*User{},
	}
}

func (f *fakeRepo) Create(user *User) error {
	user.ID = uint(len(f.created) + 1)
	f.created = append(f.created, user)
	f.users[user.Email] = user
	return nil
}

func (f *fakeRepo) FindByEmail(email string) (*User, error) {
	if u, ok := f.users[email]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindByID(userID uint) (User, error) {
	for _, u := range f.users {
		if u.ID == userID {
			return *u, nil
		}
	}
	return User{}, gorm.ErrRecordNotFound
}

func (f *fakeRepo) FindRoleByName(name string) (*UserRole, error) {
	if r, ok := f.roles[name]; ok {
		return r, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeRepo) Update(user *User) error { return nil }

func (f *fakeRepo) UpdateProfile(userID uint, updates map[string]interface{}) error { return nil }

func (f *fakeRepo) GetPublicRoles() ([]UserRole, error) {
	var out []UserRole
	for _, r := range f.roles {
		if r.CanRegisterPublicly {
			out = append(out, *r)
		}
	}
	return out, nil
}

func (f *fakeRepo) SeedRoles(roles []UserRole) error { return nil }

func (f *fakeRepo) CountAdmins() (int64, error) { return f.admins, nil }

func testConfig() *config.Config {
	return &config.Config{
		JWTAccessSecret:    "access-secret",
		JWTRefreshSecret:   "refresh-secret",
		JWTAccessTTLHours:  1,
		JWTRefreshTTLHours: 24,
		AdminEmail:         "admin@sportsportal.local",
		AdminPassword:      "changeme123",
	}
}

func TestRegisterBlocksNonPublicRoles(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())

	err := svc.Register(RegisterInput{
		FullName: "Sneaky",
		Email:    "sneaky@example.com",
		Password: "secret123",
		Role:     RoleAdmin,
		Mobile:   "9876543210",
	})
	if err == nil {
		t.Fatal("registering as admin should fail")
	}
	if len(repo.created) != 0 {
		t.Error("no user should be created for a blocked role")
	}
}

func TestRegisterNormalizesInput(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())

	err := svc.Register(RegisterInput{
		FullName: "Asha Rao",
		Email:    "Asha.Rao@Example.COM",
		Password: "secret123",
		Role:     "Participant",
		Mobile:   "+91 98765-43210",
		Gender:   "Female",
	})
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected 1 user, got %d", len(repo.created))
	}

	u := repo.created[0]
	if u.Email != "asha.rao@example.com" {
		t.Errorf("email not lowercased: %q", u.Email)
	}
	if u.Mobile != "9876543210" {
		t.Errorf("mobile not normalized: %q", u.Mobile)
	}
	if u.Gender != "female" {
		t.Errorf("gender not lowercased: %q", u.Gender)
	}
	if u.PasswordHash == "secret123" || u.PasswordHash == "" {
		t.Error("password must be stored hashed")
	}
}

func TestLoginAndRefresh(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.users["asha@example.com"] = &User{
		ID:           7,
		Email:        "asha@example.com",
		PasswordHash: string(hash),
		RoleID:       3,
		Role:         UserRole{ID: 3, RoleName: RoleParticipant},
		Status:       "active",
	}

	pair, user, err := svc.Login(LoginInput{Email: "Asha@Example.com", Password: "secret123"})
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatal("login should return both tokens")
	}
	if user.ID != 7 {
		t.Errorf("login returned wrong user: %d", user.ID)
	}

	if _, _, err := svc.Login(LoginInput{Email: "asha@example.com", Password: "wrong"}); err == nil {
		t.Error("wrong password should fail")
	}
	if _, _, err := svc.Login(LoginInput{Email: "nobody@example.com", Password: "x"}); err == nil {
		t.Error("unknown account should fail")
	}

	access, err := svc.Refresh(pair.RefreshToken)
	if err != nil {
		t.Fatalf("Refresh: %v", err)
	}
	if access == "" {
		t.Error("refresh should mint a new access token")
	}

	if _, err := svc.Refresh(pair.AccessToken); err == nil {
		t.Error("an access token must not pass as a refresh token")
	}
}

func TestLoginRejectsInactiveAccount(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())

	hash, _ := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	repo.users["asha@example.com"] = &User{
		ID:           7,
		Email:        "asha@example.com",
		PasswordHash: string(hash),
		Status:       "inactive",
	}

	if _, _, err := svc.Login(LoginInput{Email: "asha@example.com", Password: "secret123"}); err == nil {
		t.Error("inactive account should not log in")
	}
}

func TestCleanMobile(t *testing.T) {
	cases := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"9876543210", "9876543210", false},
		{"+91 98765 43210", "9876543210", false},
		{"919876543210", "9876543210", false},
		{"98765-43210", "9876543210", false},
		{"12345", "", true},
		{"123456789012345", "", true},
		{"", "", true},
	}
	for _, tc := range cases {
		got, err := cleanMobile(tc.in)
		if tc.wantErr {
			if err == nil {
				t.Errorf("cleanMobile(%q): expected error", tc.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("cleanMobile(%q): %v", tc.in, err)
			continue
		}
		if got != tc.want {
			t.Errorf("cleanMobile(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestSeedCreatesBootstrapAdminOnce(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())

	if err := svc.Seed(testConfig()); err != nil {
		t.Fatalf("Seed: %v", err)
	}
	if len(repo.created) != 1 {
		t.Fatalf("expected bootstrap admin, got %d users", len(repo.created))
	}
	admin := repo.created[0]
	if admin.Email != "admin@sportsportal.local" {
		t.Errorf("admin email = %q", admin.Email)
	}
	if admin.RoleID != 1 {
		t.Errorf("admin role id = %d, want 1", admin.RoleID)
	}

	// a second run with an admin present must not create another
	repo.admins = 1
	if err := svc.Seed(testConfig()); err != nil {
		t.Fatalf("Seed (second run): %v", err)
	}
	if len(repo.created) != 1 {
		t.Errorf("seed must be idempotent, got %d users", len(repo.created))
	}
}

func TestUpdateProfileValidatesGender(t *testing.T) {
	repo := newFakeRepo()
	svc := NewService(repo, testConfig())

	bad := "alien"
	if _, err := svc.UpdateProfile(1, ProfileInput{Gender: &bad}); err == nil {
		t.Error("invalid gender should be rejected")
	}

	badMobile := "123"
	if _, err := svc.UpdateProfile(1, ProfileInput{Mobile: &badMobile}); err == nil {
		t.Error("invalid mobile should be rejected")
	}
}

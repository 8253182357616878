package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"golang.org/x/crypto/bcrypt"

	"github.com/skycover/skycover/internal/common"
	"github.com/skycover/skycover/internal/dbx"
	"github.com/skycover/skycover/internal/server/auth"
	"github.com/skycover/skycover/internal/server/blockchain"
	"github.com/skycover/skycover/internal/server/models"
	policiesrepo "github.com/skycover/skycover/internal/server/repositories/policies"
	templatesrepo "github.com/skycover/skycover/internal/server/repositories/templates"
	usersrepo "github.com/skycover/skycover/internal/server/repositories/users"
)

// --- helpers ---

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New error: %v", err)
	}
	return db, mock
}

func newTokenService(t *testing.T) *auth.TokenService {
	t.Helper()
	svc, err := auth.NewTokenService("k", time.Hour)
	if err != nil {
		t.Fatalf("NewTokenService error: %v", err)
	}
	return svc
}

type fakeUsersRepo struct {
	createOut *models.User
	createErr error

	getOut *models.User
	getErr error

	updateOut *models.User
	updateErr error
}

func (f *fakeUsersRepo) Create(ctx context.Context, u *models.User) (*models.User, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	u.ID = "u-1"
	return u, nil
}

func (f *fakeUsersRepo) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) GetByID(ctx context.Context, id string) (*models.User, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	return f.getOut, nil
}

func (f *fakeUsersRepo) UpdateWalletAddress(ctx context.Context, id string, addr string) (*models.User, error) {
	if f.updateErr != nil {
		return nil, f.updateErr
	}
	return f.updateOut, nil
}

type fakePoliciesRepo struct {
	createOut *models.InsurancePolicy
	createErr error

	listOut []models.InsurancePolicy
	listErr error

	used    bool
	usedErr error

	createCalls int
}

func (f *fakePoliciesRepo) CreateWithVerification(ctx context.Context, p *models.InsurancePolicy, v *blockchain.VerificationResult) (*models.InsurancePolicy, error) {
	f.createCalls++
	if f.createErr != nil {
		return nil, f.createErr
	}
	if f.createOut != nil {
		return f.createOut, nil
	}
	out := *p
	out.ID = "p-1"
	out.BlockchainVerified = v.Verified
	if v.BlockNumber != nil {
		n := int64(*v.BlockNumber)
		out.BlockchainBlockNumber = &n
	}
	if v.ErrorMessage != "" {
		out.VerificationErrorMessage = &v.ErrorMessage
	}
	return &out, nil
}

func (f *fakePoliciesRepo) ListByUser(ctx context.Context, userID string) ([]models.InsurancePolicy, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakePoliciesRepo) TransactionUsed(ctx context.Context, txHash string) (bool, error) {
	if f.usedErr != nil {
		return false, f.usedErr
	}
	return f.used, nil
}

type fakeTemplatesRepo struct {
	listOut []models.PolicyTemplate
	listErr error
}

func (f *fakeTemplatesRepo) ListActive(ctx context.Context) ([]models.PolicyTemplate, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.listOut, nil
}

func (f *fakeTemplatesRepo) GetByID(ctx context.Context, id string) (*models.PolicyTemplate, error) {
	return nil, common.ErrorNotFound
}

type fakeRepoManager struct {
	u *fakeUsersRepo
	p *fakePoliciesRepo
	t *fakeTemplatesRepo
}

func (m *fakeRepoManager) RunMigrations(context.Context, *sql.DB) error     { return nil }
func (m *fakeRepoManager) Users(db dbx.DBTX) usersrepo.Repository           { return m.u }
func (m *fakeRepoManager) Policies(db dbx.DBTX) policiesrepo.Repository     { return m.p }
func (m *fakeRepoManager) Templates(db dbx.DBTX) templatesrepo.Repository   { return m.t }

func mustHash(t *testing.T, password string) string {
	t.Helper()
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt error: %v", err)
	}
	return string(h)
}

// --- Register ---

func TestRegister_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := NewUserService(db, rm, newTokenService(t))

	u, err := s.Register(context.Background(), " A ", " A@X.com ", "pw")
	if err != nil {
		t.Fatalf("Register error: %v", err)
	}
	if u.Name != "A" || u.Email != "a@x.com" {
		t.Fatalf("unexpected user: %+v", u)
	}
	if u.PasswordHash == "" || u.PasswordHash == "pw" {
		t.Fatalf("password must be stored hashed")
	}
}

func TestRegister_EmptyFields(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := NewUserService(db, rm, newTokenService(t))

	cases := [][3]string{
		{"", "a@x.com", "pw"},
		{"A", "", "pw"},
		{"A", "a@x.com", "  "},
	}
	for _, c := range cases {
		_, err := s.Register(context.Background(), c[0], c[1], c[2])
		if !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("case %v: expected validation error, got %v", c, err)
		}
	}
}

func TestRegister_DuplicateEmail(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{createErr: common.ErrorAlreadyExists}}
	s := NewUserService(db, rm, newTokenService(t))

	_, err := s.Register(context.Background(), "A", "a@x.com", "pw")
	if !errors.Is(err, common.ErrorAlreadyExists) {
		t.Fatalf("expected already-exists, got %v", err)
	}
}

// --- Login ---

func TestLogin_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{
		getOut: &models.User{ID: "u-1", Email: "a@x.com", PasswordHash: mustHash(t, "pw")},
	}}
	tokens := newTokenService(t)
	s := NewUserService(db, rm, tokens)

	tok, err := s.Login(context.Background(), "a@x.com", "pw")
	if err != nil {
		t.Fatalf("Login error: %v", err)
	}

	claims, err := tokens.Validate(tok)
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	if claims.Email != "a@x.com" {
		t.Fatalf("claims email mismatch: %q", claims.Email)
	}
}

func TestLogin_UnknownUserAndBadPassword_SameError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	tokens := newTokenService(t)

	missing := NewUserService(db, &fakeRepoManager{u: &fakeUsersRepo{getErr: common.ErrorNotFound}}, tokens)
	_, errMissing := missing.Login(context.Background(), "ghost@x.com", "pw")

	wrongPw := NewUserService(db, &fakeRepoManager{u: &fakeUsersRepo{
		getOut: &models.User{Email: "a@x.com", PasswordHash: mustHash(t, "other")},
	}}, tokens)
	_, errWrong := wrongPw.Login(context.Background(), "a@x.com", "pw")

	if !errors.Is(errMissing, common.ErrorUnauthorized) || !errors.Is(errWrong, common.ErrorUnauthorized) {
		t.Fatalf("both cases must yield unauthorized, got %v / %v", errMissing, errWrong)
	}
}

func TestLogin_StoreError(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{getErr: errors.New("db down")}}
	s := NewUserService(db, rm, newTokenService(t))

	_, err := s.Login(context.Background(), "a@x.com", "pw")
	if !errors.Is(err, common.ErrorInternal) {
		t.Fatalf("expected internal error, got %v", err)
	}
}

// --- BindWallet ---

func TestBindWallet_InvalidAddress(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	rm := &fakeRepoManager{u: &fakeUsersRepo{}}
	s := NewUserService(db, rm, newTokenService(t))

	for _, addr := range []string{"", "0x123", "1234567890123456789012345678901234567890", "0x12345678901234567890123456789012345678zz"} {
		_, err := s.BindWallet(context.Background(), "u-1", addr)
		if !errors.Is(err, common.ErrorValidation) {
			t.Fatalf("address %q: expected validation error, got %v", addr, err)
		}
	}
}

func TestBindWallet_Success(t *testing.T) {
	db, _ := newSQLMockDB(t)
	defer db.Close()

	addr := "0x1234567890123456789012345678901234567890"
	rm := &fakeRepoManager{u: &fakeUsersRepo{
		updateOut: &models.User{ID: "u-1", Email: "a@x.com", WalletAddress: &addr},
	}}
	s := NewUserService(db, rm, newTokenService(t))

	u, err := s.BindWallet(context.Background(), "u-1", addr)
	if err != nil {
		t.Fatalf("BindWallet error: %v", err)
	}
	if u.WalletAddress == nil || *u.WalletAddress != addr {
		t.Fatalf("wallet not bound: %+v", u)
	}
}

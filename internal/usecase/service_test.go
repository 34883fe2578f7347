package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/inventory"
)

type mockRepo struct {
	accounts   []domain.Account
	failUpsert bool
}

func newMockRepo() *mockRepo {
	return &mockRepo{}
}

func (m *mockRepo) LoadAll(ctx context.Context) ([]domain.Account, error) {
	out := make([]domain.Account, len(m.accounts))
	copy(out, m.accounts)
	return out, nil
}

func (m *mockRepo) SaveAll(ctx context.Context, accounts []domain.Account) error {
	m.accounts = make([]domain.Account, len(accounts))
	copy(m.accounts, accounts)
	return nil
}

func (m *mockRepo) FindByUsernameOrEmail(ctx context.Context, input string) (*domain.Account, error) {
	for i := range m.accounts {
		if strings.EqualFold(m.accounts[i].Username, input) || strings.EqualFold(m.accounts[i].Email, input) {
			acc := m.accounts[i]
			return &acc, nil
		}
	}
	return nil, nil
}

func (m *mockRepo) UpsertByUsername(ctx context.Context, account domain.Account) error {
	if m.failUpsert {
		return errors.New("ledger unavailable")
	}
	for i := range m.accounts {
		if strings.EqualFold(m.accounts[i].Username, account.Username) {
			m.accounts[i] = account
			return nil
		}
	}
	return errors.New("account not found")
}

func (m *mockRepo) DeleteByUsername(ctx context.Context, username string) error {
	kept := m.accounts[:0]
	for _, acc := range m.accounts {
		if !strings.EqualFold(acc.Username, username) {
			kept = append(kept, acc)
		}
	}
	m.accounts = kept
	return nil
}

func (m *mockRepo) balanceOf(username string) decimal.Decimal {
	for _, acc := range m.accounts {
		if strings.EqualFold(acc.Username, username) {
			return acc.Balance
		}
	}
	return decimal.NewFromInt(-1)
}

func testCatalog() *inventory.Catalog {
	c := inventory.New()
	c.Put("Apple Watch Series 8", decimal.NewFromInt(400000), 10)
	c.Put("Apple iPhone 14", decimal.NewFromInt(1000000), 10)
	c.Put("Samsung Galaxy S23", decimal.NewFromInt(800000), 3)
	return c
}

const strongPassword = "Strong@Pass123456"

func TestService_SignUp(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	acc, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)
	require.NotNil(t, acc)
	assert.Equal(t, "Ziyo", acc.Username)
	assert.True(t, acc.Balance.IsZero())
	assert.NotEqual(t, strongPassword, acc.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(acc.PasswordHash), []byte(strongPassword)))
	require.Len(t, mock.accounts, 1)

	_, err = svc.SignUp(ctx, "ZIYO", "other@example.com", strongPassword)
	assert.ErrorIs(t, err, ErrUsernameTaken)

	_, err = svc.SignUp(ctx, "Ali", "ZIYO@example.COM", strongPassword)
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = svc.SignUp(ctx, "Ali", "not-an-email", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidEmail)

	_, err = svc.SignUp(ctx, "Ali", "ali@example.com", "weak")
	assert.ErrorIs(t, err, ErrWeakPassword)

	assert.Len(t, mock.accounts, 1, "failed sign-ups must not persist anything")
}

func TestService_SignIn(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	_, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)

	byName, err := svc.SignIn(ctx, "ziyo", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "Ziyo", byName.Username)

	byEmail, err := svc.SignIn(ctx, "ZIYO@EXAMPLE.COM", strongPassword)
	require.NoError(t, err)
	assert.Equal(t, "Ziyo", byEmail.Username)

	_, err = svc.SignIn(ctx, "Ziyo", "Wrong@Pass1234567")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = svc.SignIn(ctx, "nobody", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_Reauthenticate(t *testing.T) {
	ctx := context.Background()
	svc := NewService(newMockRepo(), testCatalog())

	acc, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)

	assert.True(t, svc.Reauthenticate(acc, strongPassword))
	assert.False(t, svc.Reauthenticate(acc, "Wrong@Pass1234567"))
}

func TestService_FundWallet(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	acc, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)

	require.NoError(t, svc.FundWallet(ctx, acc, decimal.NewFromInt(50000)))
	assert.Equal(t, "50000.00", acc.Balance.StringFixed(2))
	assert.Equal(t, "50000.00", mock.balanceOf("Ziyo").StringFixed(2), "funding must persist")

	err = svc.FundWallet(ctx, acc, decimal.Zero)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	err = svc.FundWallet(ctx, acc, decimal.NewFromInt(-10))
	assert.ErrorIs(t, err, ErrInvalidAmount)
	assert.Equal(t, "50000.00", acc.Balance.StringFixed(2))
}

func TestService_FundWallet_PersistFailureRollsBack(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	acc, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)

	mock.failUpsert = true
	err = svc.FundWallet(ctx, acc, decimal.NewFromInt(100))
	assert.Error(t, err)
	assert.True(t, acc.Balance.IsZero(), "failed persist must not leave a phantom balance")
}

func TestService_ChangeUsername(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	ziyo, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "Ali", "ali@example.com", strongPassword)
	require.NoError(t, err)

	err = svc.ChangeUsername(ctx, ziyo, "ALI")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	require.NoError(t, svc.ChangeUsername(ctx, ziyo, "Ziyodulla"))
	assert.Equal(t, "Ziyodulla", ziyo.Username)

	found, err := mock.FindByUsernameOrEmail(ctx, "Ziyodulla")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "ziyo@example.com", found.Email)

	// Renaming to the same name with different case is allowed.
	require.NoError(t, svc.ChangeUsername(ctx, ziyo, "ziyodulla"))
}

func TestService_ChangeEmail(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	ziyo, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)
	_, err = svc.SignUp(ctx, "Ali", "ali@example.com", strongPassword)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangeEmail(ctx, ziyo, "bad-email"), ErrInvalidEmail)
	assert.ErrorIs(t, svc.ChangeEmail(ctx, ziyo, "ALI@example.com"), ErrEmailTaken)

	require.NoError(t, svc.ChangeEmail(ctx, ziyo, "new@example.com"))
	found, err := mock.FindByUsernameOrEmail(ctx, "Ziyo")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, "new@example.com", found.Email)
}

func TestService_ChangePassword(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	ziyo, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)

	assert.ErrorIs(t, svc.ChangePassword(ctx, ziyo, "short"), ErrWeakPassword)

	const newPassword = "Another@Pass98765"
	require.NoError(t, svc.ChangePassword(ctx, ziyo, newPassword))

	_, err = svc.SignIn(ctx, "Ziyo", newPassword)
	assert.NoError(t, err)
	_, err = svc.SignIn(ctx, "Ziyo", strongPassword)
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestService_ResetBalanceAndDelete(t *testing.T) {
	ctx := context.Background()
	mock := newMockRepo()
	svc := NewService(mock, testCatalog())

	ziyo, err := svc.SignUp(ctx, "Ziyo", "ziyo@example.com", strongPassword)
	require.NoError(t, err)
	require.NoError(t, svc.FundWallet(ctx, ziyo, decimal.NewFromInt(1000)))

	require.NoError(t, svc.ResetBalance(ctx, ziyo))
	assert.True(t, ziyo.Balance.IsZero())
	assert.True(t, mock.balanceOf("Ziyo").IsZero())

	require.NoError(t, svc.DeleteAccount(ctx, ziyo))
	assert.Empty(t, mock.accounts)
}

func TestValidatePassword(t *testing.T) {
	cases := []struct {
		name     string
		password string
		ok       bool
	}{
		{"valid", "Strong@Pass123456", true},
		{"too short", "Sh@rt1aa", false},
		{"no lowercase", "STRONG@PASS123456", false},
		{"no uppercase", "strong@pass123456", false},
		{"no digit", "Strong@Password!!", false},
		{"no special", "StrongPass1234567", false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePassword(tc.password)
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrWeakPassword)
			}
		})
	}
}

func TestService_GeneratePassword(t *testing.T) {
	svc := NewService(newMockRepo(), testCatalog())

	seen := map[string]bool{}
	for i := 0; i < 5; i++ {
		password, err := svc.GeneratePassword()
		require.NoError(t, err)
		assert.NoError(t, ValidatePassword(password))
		seen[password] = true
	}
	assert.Greater(t, len(seen), 1, "generated passwords should not repeat")
}

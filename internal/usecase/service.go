package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"

	"storefront/internal/domain"
	"storefront/internal/inventory"
)

var (
	ErrInvalidCredentials = errors.New("invalid username/email or password")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidAmount      = errors.New("amount must be greater than zero")
	ErrWeakPassword       = errors.New("password does not meet security " +
		"requirements: minimum 16 characters, at least one uppercase letter, one " +
		"lowercase letter, one digit, and one special character")
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

type Repository interface {
	LoadAll(ctx context.Context) ([]domain.Account, error)
	SaveAll(ctx context.Context, accounts []domain.Account) error
	FindByUsernameOrEmail(ctx context.Context, input string) (*domain.Account, error)
	UpsertByUsername(ctx context.Context, account domain.Account) error
	DeleteByUsername(ctx context.Context, username string) error
}

type Service struct {
	repo    Repository
	catalog *inventory.Catalog
}

func NewService(r Repository, c *inventory.Catalog) *Service {
	return &Service{repo: r, catalog: c}
}

func (s *Service) Catalog() *inventory.Catalog {
	return s.catalog
}

const minPasswordLen = 16

// ValidatePassword enforces the account password policy.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLen {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString("[a-z]", password); !ok {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString("[A-Z]", password); !ok {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString(`\d`, password); !ok {
		return ErrWeakPassword
	}
	if ok, _ := regexp.MatchString(`[[:punct:]]`, password); !ok {
		return ErrWeakPassword
	}

	return nil
}

const passwordCharset = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()-_=+[]{}<>?"

// GeneratePassword produces a random password satisfying the policy.
func (s *Service) GeneratePassword() (string, error) {
	for {
		buf := make([]byte, minPasswordLen)
		for i := range buf {
			n, err := rand.Int(rand.Reader, big.NewInt(int64(len(passwordCharset))))
			if err != nil {
				return "", fmt.Errorf("failed to generate password: %w", err)
			}
			buf[i] = passwordCharset[n.Int64()]
		}
		if ValidatePassword(string(buf)) == nil {
			return string(buf), nil
		}
	}
}

// SignUp registers a new account with a zero balance and persists it.
// Username and email uniqueness is checked here, case-insensitively; the
// ledger itself never enforces it.
func (s *Service) SignUp(ctx context.Context, username, email, password string) (*domain.Account, error) {
	accounts, err := s.repo.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Username, username) {
			return nil, ErrUsernameTaken
		}
	}
	if !emailPattern.MatchString(email) {
		return nil, ErrInvalidEmail
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Email, email) {
			return nil, ErrEmailTaken
		}
	}
	if err := ValidatePassword(password); err != nil {
		return nil, err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	account := domain.Account{
		Username:     username,
		Email:        email,
		PasswordHash: string(hashed),
		Balance:      decimal.Zero,
	}
	accounts = append(accounts, account)
	if err := s.repo.SaveAll(ctx, accounts); err != nil {
		return nil, err
	}
	return &account, nil
}

// SignIn looks the account up by username or email and verifies the
// password. One call is one attempt; the surface decides how many attempts
// a user gets.
func (s *Service) SignIn(ctx context.Context, usernameOrEmail, password string) (*domain.Account, error) {
	account, err := s.repo.FindByUsernameOrEmail(ctx, usernameOrEmail)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return account, nil
}

// Reauthenticate confirms the signed-in user's password before a sensitive
// account operation.
func (s *Service) Reauthenticate(account *domain.Account, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(account.PasswordHash), []byte(password)) == nil
}

// UsernameTaken reports whether any account already uses the name,
// ignoring case.
func (s *Service) UsernameTaken(ctx context.Context, username string) (bool, error) {
	accounts, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Username, username) {
			return true, nil
		}
	}
	return false, nil
}

// EmailTaken reports whether any account already uses the email, ignoring
// case.
func (s *Service) EmailTaken(ctx context.Context, email string) (bool, error) {
	accounts, err := s.repo.LoadAll(ctx)
	if err != nil {
		return false, err
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ValidEmail reports whether the address looks like an email.
func ValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// FundWallet adds amount to the account balance and persists it.
func (s *Service) FundWallet(ctx context.Context, account *domain.Account, amount decimal.Decimal) error {
	if amount.Sign() <= 0 {
		return ErrInvalidAmount
	}
	account.Balance = account.Balance.Add(amount)
	if err := s.repo.UpsertByUsername(ctx, *account); err != nil {
		account.Balance = account.Balance.Sub(amount)
		return err
	}
	return nil
}

// ChangeUsername renames the account. The ledger record is located by
// email because the username is the field being replaced.
func (s *Service) ChangeUsername(ctx context.Context, account *domain.Account, newUsername string) error {
	accounts, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Username, newUsername) && !strings.EqualFold(acc.Username, account.Username) {
			return ErrUsernameTaken
		}
	}
	old := account.Username
	account.Username = newUsername
	for i := range accounts {
		if strings.EqualFold(accounts[i].Email, account.Email) {
			accounts[i] = *account
			break
		}
	}
	if err := s.repo.SaveAll(ctx, accounts); err != nil {
		account.Username = old
		return err
	}
	return nil
}

// ChangeEmail replaces the account email; the record is located by
// username.
func (s *Service) ChangeEmail(ctx context.Context, account *domain.Account, newEmail string) error {
	if !emailPattern.MatchString(newEmail) {
		return ErrInvalidEmail
	}
	accounts, err := s.repo.LoadAll(ctx)
	if err != nil {
		return err
	}
	for _, acc := range accounts {
		if strings.EqualFold(acc.Email, newEmail) && !strings.EqualFold(acc.Email, account.Email) {
			return ErrEmailTaken
		}
	}
	old := account.Email
	account.Email = newEmail
	if err := s.updateByUsername(ctx, accounts, account); err != nil {
		account.Email = old
		return err
	}
	return nil
}

// ChangePassword validates and hashes the new password, then persists it.
func (s *Service) ChangePassword(ctx context.Context, account *domain.Account, newPassword string) error {
	if err := ValidatePassword(newPassword); err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	old := account.PasswordHash
	account.PasswordHash = string(hashed)
	if err := s.repo.UpsertByUsername(ctx, *account); err != nil {
		account.PasswordHash = old
		return err
	}
	return nil
}

// ResetBalance zeroes the wallet.
func (s *Service) ResetBalance(ctx context.Context, account *domain.Account) error {
	old := account.Balance
	account.Balance = decimal.Zero
	if err := s.repo.UpsertByUsername(ctx, *account); err != nil {
		account.Balance = old
		return err
	}
	return nil
}

// DeleteAccount removes the account from the ledger.
func (s *Service) DeleteAccount(ctx context.Context, account *domain.Account) error {
	return s.repo.DeleteByUsername(ctx, account.Username)
}

func (s *Service) updateByUsername(ctx context.Context, accounts []domain.Account, account *domain.Account) error {
	for i := range accounts {
		if strings.EqualFold(accounts[i].Username, account.Username) {
			accounts[i] = *account
			break
		}
	}
	return s.repo.SaveAll(ctx, accounts)
}

package repository

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

const ledgerFields = 4

// LedgerFile is the flat account store: one comma-separated record per
// line, username,email,password_hash,balance. Every mutation reads the
// whole file and rewrites it; the last writer wins.
type LedgerFile struct {
	path string
	log  *slog.Logger
}

func NewLedgerFile(path string, log *slog.Logger) (*LedgerFile, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, errors.Wrap(err, "ledger: create data dir")
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, errors.Wrap(err, "ledger: open store")
	}
	if err := f.Close(); err != nil {
		return nil, errors.Wrap(err, "ledger: open store")
	}
	return &LedgerFile{path: path, log: log}, nil
}

// LoadAll parses every record in the store. Lines without exactly four
// comma-separated fields, or with an unparseable balance, are dropped.
func (l *LedgerFile) LoadAll(ctx context.Context) ([]domain.Account, error) {
	f, err := os.Open(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, errors.Wrap(err, "ledger: LoadAll")
	}
	defer f.Close()

	var accounts []domain.Account
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) != ledgerFields {
			l.log.Debug("dropping malformed ledger line", "fields", len(parts))
			continue
		}
		balance, err := decimal.NewFromString(strings.TrimSpace(parts[3]))
		if err != nil {
			l.log.Debug("dropping ledger line with bad balance", "username", parts[0])
			continue
		}
		accounts = append(accounts, domain.Account{
			Username:     strings.TrimSpace(parts[0]),
			Email:        strings.TrimSpace(parts[1]),
			PasswordHash: strings.TrimSpace(parts[2]),
			Balance:      balance,
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "ledger: LoadAll")
	}
	return accounts, nil
}

// SaveAll rewrites the whole store. The new content is written to a
// temporary file first and renamed over the old one so readers never see a
// half-written ledger.
func (l *LedgerFile) SaveAll(ctx context.Context, accounts []domain.Account) error {
	tmp, err := os.CreateTemp(filepath.Dir(l.path), "accounts-*.tmp")
	if err != nil {
		return errors.Wrap(err, "ledger: SaveAll")
	}
	defer os.Remove(tmp.Name())

	w := bufio.NewWriter(tmp)
	for _, acc := range accounts {
		record := strings.Join([]string{
			acc.Username, acc.Email, acc.PasswordHash, acc.Balance.StringFixed(2),
		}, ",")
		if _, err := w.WriteString(record + "\n"); err != nil {
			tmp.Close()
			return errors.Wrap(err, "ledger: SaveAll")
		}
	}
	if err := w.Flush(); err != nil {
		tmp.Close()
		return errors.Wrap(err, "ledger: SaveAll")
	}
	if err := tmp.Close(); err != nil {
		return errors.Wrap(err, "ledger: SaveAll")
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		return errors.Wrap(err, "ledger: SaveAll")
	}
	return nil
}

// FindByUsernameOrEmail matches input against either field,
// case-insensitively. A miss returns (nil, nil).
func (l *LedgerFile) FindByUsernameOrEmail(ctx context.Context, input string) (*domain.Account, error) {
	accounts, err := l.LoadAll(ctx)
	if err != nil {
		return nil, err
	}
	for i := range accounts {
		if strings.EqualFold(accounts[i].Username, input) || strings.EqualFold(accounts[i].Email, input) {
			return &accounts[i], nil
		}
	}
	return nil, nil
}

// UpsertByUsername replaces the first record whose username matches
// case-insensitively. Appending brand new records is the caller's job.
func (l *LedgerFile) UpsertByUsername(ctx context.Context, account domain.Account) error {
	accounts, err := l.LoadAll(ctx)
	if err != nil {
		return err
	}
	for i := range accounts {
		if strings.EqualFold(accounts[i].Username, account.Username) {
			accounts[i] = account
			return l.SaveAll(ctx, accounts)
		}
	}
	return errors.Errorf("ledger: UpsertByUsername: account %q not found", account.Username)
}

// DeleteByUsername removes the matching record. Deleting an absent account
// is not an error; the rewrite simply keeps everything.
func (l *LedgerFile) DeleteByUsername(ctx context.Context, username string) error {
	accounts, err := l.LoadAll(ctx)
	if err != nil {
		return err
	}
	kept := accounts[:0]
	for _, acc := range accounts {
		if !strings.EqualFold(acc.Username, username) {
			kept = append(kept, acc)
		}
	}
	return l.SaveAll(ctx, kept)
}

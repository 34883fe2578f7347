package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"storefront/internal/domain"
)

var (
	ErrEmptyCart         = errors.New("cart is empty, nothing to checkout")
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrCheckoutFinished  = errors.New("checkout already finished")
)

type CheckoutState int

const (
	CheckoutIdle CheckoutState = iota
	CheckoutPriced
	CheckoutAwaitingConfirmation
	CheckoutSettled
	CheckoutAborted
)

// Checkout is a single purchase attempt over the session's cart. It prices
// the cart, waits for confirmation, and then either settles or aborts.
//
// A decline leaves the reservations in the cart for a later attempt. An
// insufficient balance voids the cart instead: every reservation goes back
// to the catalog. That asymmetry is intentional.
type Checkout struct {
	svc     *Service
	session *Session
	state   CheckoutState
	total   decimal.Decimal
}

// BeginCheckout prices the session's cart and returns a priced attempt. An
// empty cart aborts immediately with no side effects.
func (s *Service) BeginCheckout(session *Session) (*Checkout, error) {
	co := &Checkout{svc: s, session: session, state: CheckoutIdle}
	if session.Cart.Empty() {
		co.state = CheckoutAborted
		return nil, ErrEmptyCart
	}
	co.total = session.Cart.Total()
	co.state = CheckoutPriced
	return co, nil
}

// AwaitConfirmation hands the total to the caller for presentation and
// moves the attempt into the confirmation step.
func (co *Checkout) AwaitConfirmation() decimal.Decimal {
	if co.state == CheckoutPriced {
		co.state = CheckoutAwaitingConfirmation
	}
	return co.total
}

func (co *Checkout) Total() decimal.Decimal {
	return co.total
}

func (co *Checkout) State() CheckoutState {
	return co.state
}

// Decline abandons the attempt. Balance, catalog, and cart are untouched;
// the reservations stay in place.
func (co *Checkout) Decline() {
	if co.state == CheckoutAwaitingConfirmation {
		co.state = CheckoutAborted
	}
}

// Confirm settles the purchase: the balance is debited, the account is
// persisted through the ledger, and the cart is consumed. If the balance
// cannot cover the total the attempt aborts, the reservations are released
// back to the catalog, and the cart is emptied.
func (co *Checkout) Confirm(ctx context.Context) (*domain.Receipt, error) {
	if co.state != CheckoutAwaitingConfirmation {
		return nil, ErrCheckoutFinished
	}
	account := co.session.Account
	if account.Balance.LessThan(co.total) {
		co.session.Cart.Clear()
		co.state = CheckoutAborted
		return nil, ErrInsufficientFunds
	}

	account.Balance = account.Balance.Sub(co.total)
	if err := co.svc.repo.UpsertByUsername(ctx, *account); err != nil {
		// Persist failed: undo the debit and keep the attempt open so the
		// caller can retry or decline.
		account.Balance = account.Balance.Add(co.total)
		return nil, err
	}
	co.session.Cart.consume()
	co.state = CheckoutSettled

	return &domain.Receipt{
		ID:        uuid.New(),
		Total:     co.total,
		Balance:   account.Balance,
		CreatedAt: time.Now(),
	}, nil
}

package usecase

import "storefront/internal/domain"

// Session is the signed-in account plus its cart. Exactly one session is
// active at a time; the cart reserves against the service's shared catalog
// and is discarded on logout.
type Session struct {
	Account *domain.Account
	Cart    *Cart
}

func (s *Service) NewSession(account *domain.Account) *Session {
	return &Session{Account: account, Cart: NewCart(s.catalog)}
}

// End closes the session. Reservations are never allowed to outlive the
// cart that holds them, so anything still in it goes back to the catalog.
func (s *Session) End() {
	s.Cart.Clear()
}

package cli

import (
	"context"
	"errors"
	"strconv"

	"github.com/shopspring/decimal"

	"storefront/internal/inventory"
	"storefront/internal/usecase"
)

func (a *App) purchaseMenu(ctx context.Context, session *usecase.Session) error {
	for {
		a.clearScreen()
		a.println("--------------------------------------------------")
		a.println("--- PURCHASE MENU ---")
		a.println("1. Search Items")
		a.println("2. Manage Cart")
		a.println("3. Checkout")
		a.println("4. Exit Purchase Menu")

		choice, err := a.readLine("Enter your option: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := a.searchMenu(ctx, session); err != nil {
				return err
			}
		case "2":
			if err := a.cartMenu(session); err != nil {
				return err
			}
		case "3":
			settled, err := a.checkout(ctx, session)
			if err != nil {
				return err
			}
			if settled {
				return nil
			}
		case "4":
			a.println("You're leaving the Purchase Menu.")
			return nil
		default:
			a.println("Invalid choice. Please try again.")
		}
	}
}

func (a *App) searchMenu(ctx context.Context, session *usecase.Session) error {
	catalog := a.svc.Catalog()
	var hits []inventory.Match

	for {
		a.clearScreen()
		query, err := a.readLine("Enter item name or brand to search (e.g., 'Apple Watch'): ")
		if err != nil {
			return err
		}

		// Out-of-stock items are filtered here, not by the catalog.
		hits = hits[:0]
		for _, m := range catalog.Search(query) {
			if catalog.Available(m.Name) > 0 {
				hits = append(hits, m)
			}
		}

		if len(hits) == 0 {
			a.println("No items matched your query or all matches are out of stock.")
		} else {
			a.println("\n--- Matched Items ---")
			for i, m := range hits {
				a.printf("%d. %s - %s (Stock: %d)\n", i+1, m.Name, ngn(m.Price), catalog.Available(m.Name))
			}
		}

		a.println("\n--- Search Options ---")
		a.println("1. Search Again")
		a.println("2. Add Item(s) to Cart")
		a.println("3. Exit Search Menu")

		choice, err := a.readLine("Enter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			continue
		case "2":
			if len(hits) == 0 {
				a.println("No items to add. Please search again.")
				continue
			}
			if err := a.addHitsToCart(session, hits); err != nil {
				return err
			}
			if err := a.pause(); err != nil {
				return err
			}
		case "3":
			return nil
		default:
			a.println("Invalid choice. Please try again.")
		}
	}
}

// addHitsToCart loops over "which item, how many" prompts until the user
// enters 0.
func (a *App) addHitsToCart(session *usecase.Session, hits []inventory.Match) error {
	catalog := a.svc.Catalog()
	for {
		num, err := a.readInt("Enter the number of the item to add to cart (or 0 to finish adding): ")
		if err != nil {
			return err
		}
		if num == 0 {
			return nil
		}
		if num < 1 || num > len(hits) {
			a.println("Invalid item number.")
			continue
		}
		name := hits[num-1].Name
		if err := a.addToCart(session, name, catalog.Available(name)); err != nil {
			return err
		}
	}
}

func (a *App) addToCart(session *usecase.Session, name string, available int) error {
	for {
		qty, err := a.readInt("How many '" + name + "' do you want to add (max " +
			strconv.Itoa(available) + ")? ")
		if err != nil {
			return err
		}
		if qty <= 0 {
			a.println("Quantity must be positive.")
			continue
		}
		switch err := session.Cart.Add(name, qty); {
		case errors.Is(err, inventory.ErrInsufficientStock):
			a.printf("Only %d available. Please enter a lower quantity.\n", available)
		case errors.Is(err, inventory.ErrUnknownItem):
			a.printf("Error: '%s' not found in inventory.\n", name)
			return nil
		case err != nil:
			a.printf("An error occurred: %v\n", err)
			return nil
		default:
			a.printf("'%s' (x%d) added to cart.\n", name, qty)
			return nil
		}
	}
}

func (a *App) cartMenu(session *usecase.Session) error {
	for {
		a.clearScreen()
		a.displayCart(session)

		a.println("\n--- Manage Cart Menu ---")
		a.println("1. View Items in Cart (already displayed)")
		a.println("2. Add More Items to Cart (from inventory)")
		a.println("3. Remove Item(s) from Cart")
		a.println("4. Clear Cart")
		a.println("5. Exit Manage Cart Menu")

		choice, err := a.readLine("Enter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := a.pause(); err != nil {
				return err
			}
		case "2":
			if err := a.addFromInventory(session); err != nil {
				return err
			}
		case "3":
			if err := a.removeFromCart(session); err != nil {
				return err
			}
		case "4":
			if err := a.clearCart(session); err != nil {
				return err
			}
		case "5":
			a.println("Exiting Manage Cart Menu.")
			return nil
		default:
			a.println("Invalid choice. Please try again.")
		}
	}
}

func (a *App) displayCart(session *usecase.Session) {
	a.println("\n--- Your Shopping Cart ---")
	lines := session.Cart.Lines()
	if len(lines) == 0 {
		a.println("Your cart is empty.")
		return
	}

	catalog := a.svc.Catalog()
	a.printf("%-30s %-10s %-15s %-15s\n", "Item Name", "Quantity", "Price (each)", "Subtotal")
	a.println("----------------------------------------------------------------------")
	for _, line := range lines {
		item, ok := catalog.Item(line.ItemName)
		if !ok {
			continue
		}
		subtotal := item.Price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		a.printf("%-30s %-10d %s   %s\n", line.ItemName, line.Quantity, ngn(item.Price), ngn(subtotal))
	}
	a.println("----------------------------------------------------------------------")
	a.printf("%-55s %s\n", "Total:", ngn(session.Cart.Total()))
}

func (a *App) addFromInventory(session *usecase.Session) error {
	a.println("\n--- Add More Items to Cart ---")
	catalog := a.svc.Catalog()

	var available []string
	for _, name := range catalog.Names() {
		if catalog.Available(name) > 0 {
			available = append(available, name)
		}
	}
	if len(available) == 0 {
		a.println("No items currently available to add.")
		return nil
	}

	a.println("Available Items:")
	for i, name := range available {
		item, _ := catalog.Item(name)
		a.printf("%d. %s - %s (Stock: %d)\n", i+1, name, ngn(item.Price), item.Quantity)
	}

	for {
		num, err := a.readInt("Enter the number of the item to add (0 to cancel): ")
		if err != nil {
			return err
		}
		if num == 0 {
			return nil
		}
		if num < 1 || num > len(available) {
			a.println("Invalid item number.")
			continue
		}
		name := available[num-1]
		return a.addToCart(session, name, catalog.Available(name))
	}
}

func (a *App) removeFromCart(session *usecase.Session) error {
	a.println("\n--- Remove Items ---")
	lines := session.Cart.Lines()
	if len(lines) == 0 {
		a.println("Your cart is empty. Nothing to remove.")
		return nil
	}

	a.printf("%-5s %-30s %-10s\n", "No.", "Item Name", "Quantity")
	a.println("---------------------------------------------")
	for i, line := range lines {
		a.printf("%-5d %-30s %-10d\n", i+1, line.ItemName, line.Quantity)
	}

	for {
		num, err := a.readInt("Enter the number of the item to remove (0 to cancel): ")
		if err != nil {
			return err
		}
		if num == 0 {
			return nil
		}
		if num < 1 || num > len(lines) {
			a.println("Invalid item number.")
			continue
		}
		line := lines[num-1]
		for {
			qty, err := a.readInt("How many '" + line.ItemName + "' do you want to remove (current in cart: " +
				strconv.Itoa(line.Quantity) + ")? ")
			if err != nil {
				return err
			}
			if qty <= 0 {
				a.println("Quantity must be positive.")
				continue
			}
			if qty > line.Quantity {
				a.printf("You only have %d of this item in your cart.\n", line.Quantity)
				continue
			}
			if err := session.Cart.Remove(line.ItemName, qty); err != nil {
				a.printf("Error: %v\n", err)
				return nil
			}
			if remaining := session.Cart.Quantity(line.ItemName); remaining > 0 {
				a.printf("Removed %d of '%s' from cart. Remaining: %d\n", qty, line.ItemName, remaining)
			} else {
				a.printf("'%s' removed from cart.\n", line.ItemName)
			}
			return nil
		}
	}
}

func (a *App) clearCart(session *usecase.Session) error {
	if session.Cart.Empty() {
		a.println("Your cart is already empty.")
		return nil
	}
	ok, err := a.confirm("Are you sure you want to clear your entire cart? (Y/N): ")
	if err != nil {
		return err
	}
	if !ok {
		a.println("Cart clear operation cancelled.")
		return nil
	}
	session.Cart.Clear()
	a.println("Your cart has been cleared.")
	return nil
}

// checkout runs one attempt of the checkout state machine and reports
// whether it settled.
func (a *App) checkout(ctx context.Context, session *usecase.Session) (bool, error) {
	co, err := a.svc.BeginCheckout(session)
	if errors.Is(err, usecase.ErrEmptyCart) {
		a.println("Your cart is empty. Nothing to checkout.")
		return false, nil
	}
	if err != nil {
		a.printf("An error occurred: %v\n", err)
		return false, nil
	}

	a.displayCart(session)
	total := co.AwaitConfirmation()
	a.printf("\nTotal checkout price: %s\n", ngn(total))

	ok, err := a.confirm("Proceed to payment? (Y/N): ")
	if err != nil {
		return false, err
	}
	if !ok {
		co.Decline()
		a.println("Checkout cancelled. Returning to Purchase menu.")
		return false, nil
	}

	receipt, err := co.Confirm(ctx)
	switch {
	case errors.Is(err, usecase.ErrInsufficientFunds):
		a.printf("Insufficient funds! Your current balance is %s.\n", ngn(session.Account.Balance))
		a.println("Please fund your wallet before attempting to checkout.")
		return false, nil
	case err != nil:
		a.printf("Payment failed: %v\n", err)
		return false, nil
	}

	a.println("\n--- Transaction Successful! ---")
	a.printf("Order ID: %s\n", receipt.ID)
	a.printf("Amount paid: %s\n", ngn(receipt.Total))
	a.printf("Your new balance: %s\n", ngn(receipt.Balance))
	a.println("Thank you for your purchase!")
	return true, nil
}

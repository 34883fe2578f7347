package cli

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"storefront/internal/usecase"
)

var fundingOptions = []int64{10000, 20000, 50000, 100000}

func (a *App) fundWallet(ctx context.Context, session *usecase.Session) error {
	a.println("\n--- Fund Wallet ---")
	for {
		for i, amount := range fundingOptions {
			a.printf("%d. %s\n", i+1, ngn(decimal.NewFromInt(amount)))
		}
		a.println("5. Custom Amount")
		a.println("6. Back to Run Menu")

		choice, err := a.readLine("Select an option to fund your wallet: ")
		if err != nil {
			return err
		}

		var amount decimal.Decimal
		switch choice {
		case "1", "2", "3", "4":
			idx := int(choice[0] - '1')
			amount = decimal.NewFromInt(fundingOptions[idx])
		case "5":
			for {
				amount, err = a.readAmount("Enter custom amount to deposit (NGN): ")
				if err != nil {
					return err
				}
				if amount.Sign() > 0 {
					break
				}
				a.println("Amount must be positive.")
			}
		case "6":
			return nil
		default:
			a.println("Invalid option. Please try again.")
			continue
		}

		if err := a.svc.FundWallet(ctx, session.Account, amount); err != nil {
			a.printf("An error occurred: %v\n", err)
			continue
		}
		a.printf("Wallet funded successfully! Your new balance is %s\n", ngn(session.Account.Balance))

		again, err := a.confirm("Continue funding (Y/N)? ")
		if err != nil {
			return err
		}
		if !again {
			return nil
		}
	}
}

// manageAccountMenu returns false when the user is no longer signed in
// (logout or account deletion).
func (a *App) manageAccountMenu(ctx context.Context, session *usecase.Session) (bool, error) {
	for {
		a.clearScreen()
		a.println("========================================")
		a.println("--- MANAGE ACCOUNT MENU ---")
		a.println("========================================")
		a.println("1. Change Username")
		a.println("2. Change Email")
		a.println("3. Change Password")
		a.println("4. View Account Balance/Details")
		a.println("5. Reset Balance")
		a.println("6. Delete Account")
		a.println("7. Logout")
		a.println("8. Exit Manage Account Menu")

		choice, err := a.readLine("Enter your choice: ")
		if err != nil {
			return false, err
		}
		switch choice {
		case "1":
			if err := a.changeUsername(ctx, session); err != nil {
				return false, err
			}
		case "2":
			if err := a.changeEmail(ctx, session); err != nil {
				return false, err
			}
		case "3":
			if err := a.changePassword(ctx, session); err != nil {
				return false, err
			}
		case "4":
			if err := a.viewDetails(session); err != nil {
				return false, err
			}
		case "5":
			if err := a.resetBalance(ctx, session); err != nil {
				return false, err
			}
		case "6":
			deleted, err := a.deleteAccount(ctx, session)
			if err != nil {
				return false, err
			}
			if deleted {
				a.println("You have been logged out.")
				return false, nil
			}
		case "7":
			a.println("\nLogging out...")
			a.println("You have been securely logged out.")
			return false, nil
		case "8":
			a.println("Exiting Manage Account Menu.")
			return true, nil
		default:
			a.println("Wrong option. Please try again.")
		}
	}
}

// reauthenticate asks for the current password before any sensitive
// operation.
func (a *App) reauthenticate(session *usecase.Session) (bool, error) {
	password, err := a.readLine("Please enter your password to confirm: ")
	if err != nil {
		return false, err
	}
	if !a.svc.Reauthenticate(session.Account, password) {
		a.println("Incorrect password. Operation cancelled.")
		return false, nil
	}
	return true, nil
}

func (a *App) changeUsername(ctx context.Context, session *usecase.Session) error {
	a.println("\n--- Change Username ---")
	ok, err := a.reauthenticate(session)
	if err != nil || !ok {
		return err
	}
	for {
		newUsername, err := a.readLine("Enter new username: ")
		if err != nil {
			return err
		}
		if newUsername == "" {
			a.println("Username cannot be empty.")
			continue
		}
		switch err := a.svc.ChangeUsername(ctx, session.Account, newUsername); {
		case errors.Is(err, usecase.ErrUsernameTaken):
			a.println("Username already taken. Please choose another.")
		case err != nil:
			a.printf("An error occurred: %v\n", err)
			return nil
		default:
			a.printf("Username changed successfully to: %s\n", newUsername)
			return a.pause()
		}
	}
}

func (a *App) changeEmail(ctx context.Context, session *usecase.Session) error {
	a.println("\n--- Change Email ---")
	ok, err := a.reauthenticate(session)
	if err != nil || !ok {
		return err
	}
	for {
		newEmail, err := a.readLine("Enter new email: ")
		if err != nil {
			return err
		}
		switch err := a.svc.ChangeEmail(ctx, session.Account, newEmail); {
		case errors.Is(err, usecase.ErrInvalidEmail):
			a.println("Invalid email format. Please try again.")
		case errors.Is(err, usecase.ErrEmailTaken):
			a.println("Email already registered. Please choose another.")
		case err != nil:
			a.printf("An error occurred: %v\n", err)
			return nil
		default:
			a.printf("Email changed successfully to: %s\n", newEmail)
			return a.pause()
		}
	}
}

func (a *App) changePassword(ctx context.Context, session *usecase.Session) error {
	a.println("\n--- Change Password ---")
	ok, err := a.reauthenticate(session)
	if err != nil || !ok {
		return err
	}
	password, err := a.choosePassword()
	if err != nil {
		return err
	}
	if err := a.svc.ChangePassword(ctx, session.Account, password); err != nil {
		a.printf("An error occurred: %v\n", err)
		return nil
	}
	a.println("Password changed successfully!")
	return a.pause()
}

func (a *App) viewDetails(session *usecase.Session) error {
	a.println("\n--- Account Details ---")
	ok, err := a.reauthenticate(session)
	if err != nil || !ok {
		return err
	}
	a.printf("Username: %s\n", session.Account.Username)
	a.printf("Email: %s\n", session.Account.Email)
	a.printf("Balance: %s\n", ngn(session.Account.Balance))
	return a.pause()
}

func (a *App) resetBalance(ctx context.Context, session *usecase.Session) error {
	a.println("\n--- Reset Balance ---")
	ok, err := a.reauthenticate(session)
	if err != nil || !ok {
		return err
	}
	confirmed, err := a.confirm("Are you sure you want to reset your balance to NGN 0.00? (Y/N): ")
	if err != nil {
		return err
	}
	if !confirmed {
		a.println("Balance reset cancelled.")
		return nil
	}
	if err := a.svc.ResetBalance(ctx, session.Account); err != nil {
		a.printf("An error occurred: %v\n", err)
		return nil
	}
	a.println("Your balance has been reset to NGN 0.00.")
	return nil
}

// deleteAccount reports whether the account was actually removed.
func (a *App) deleteAccount(ctx context.Context, session *usecase.Session) (bool, error) {
	a.println("\n--- Delete Account ---")
	ok, err := a.reauthenticate(session)
	if err != nil || !ok {
		return false, err
	}
	confirmed, err := a.confirm("Are you absolutely sure you want to delete your account? This action cannot be undone. (Y/N): ")
	if err != nil {
		return false, err
	}
	if !confirmed {
		a.println("Account deletion cancelled.")
		return false, nil
	}
	if err := a.svc.DeleteAccount(ctx, session.Account); err != nil {
		a.printf("An error occurred: %v\n", err)
		return false, nil
	}
	a.println("Your account has been successfully deleted.")
	return true, nil
}

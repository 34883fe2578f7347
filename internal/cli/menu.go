package cli

import (
	"context"
	"errors"
	"strings"

	"storefront/internal/usecase"
)

// Run drives the top-level menu until the user exits or input runs out.
// Exhausted input is a clean shutdown, not an error.
func (a *App) Run(ctx context.Context) error {
	err := a.mainMenu(ctx)
	if errors.Is(err, errInputClosed) {
		return nil
	}
	return err
}

func (a *App) mainMenu(ctx context.Context) error {
	for {
		a.clearScreen()
		a.println("========================================")
		a.println("--- WELCOME TO THE MOCK E-COMMERCE APP ---")
		a.println("========================================")
		a.println("")
		a.println(" 1. Sign In")
		a.println(" 2. Sign Up")
		a.println(" 3. Exit Program")

		choice, err := a.readLine("\nEnter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			session, err := a.signIn(ctx)
			if err != nil {
				return err
			}
			if session != nil {
				err := a.runMenu(ctx, session)
				// Whatever way the session ended, its cart must not keep
				// stock out of the catalog.
				session.End()
				if err != nil {
					return err
				}
			}
		case "2":
			if err := a.signUp(ctx); err != nil {
				return err
			}
		case "3":
			a.println("Exiting the program. Goodbye!")
			return nil
		default:
			a.println("Wrong option. Please try again.")
		}
	}
}

// signIn gives the user a fixed number of attempts; exhausting them falls
// back to the main menu.
func (a *App) signIn(ctx context.Context) (*usecase.Session, error) {
	a.println("\n--- SIGN IN ---")
	for attempts := 0; attempts < a.signInAttempts; attempts++ {
		input, err := a.readLine("Enter username or email: ")
		if err != nil {
			return nil, err
		}
		password, err := a.readLine("Enter password: ")
		if err != nil {
			return nil, err
		}

		account, err := a.svc.SignIn(ctx, input, password)
		if err == nil {
			a.println("Login successful!")
			return a.svc.NewSession(account), nil
		}
		if !errors.Is(err, usecase.ErrInvalidCredentials) {
			a.printf("An error occurred: %v\n", err)
			return nil, nil
		}
		a.printf("Invalid username/email or password. %d attempts remaining.\n", a.signInAttempts-attempts-1)
	}
	a.println("Too many failed attempts. Returning to main menu.")
	return nil, nil
}

func (a *App) signUp(ctx context.Context) error {
	a.println("\n--- Sign Up ---")

	var username string
	for {
		var err error
		username, err = a.readLine("Enter desired username: ")
		if err != nil {
			return err
		}
		if username == "" {
			a.println("Username cannot be empty.")
			continue
		}
		taken, err := a.svc.UsernameTaken(ctx, username)
		if err != nil {
			a.printf("An error occurred: %v\n", err)
			return nil
		}
		if taken {
			a.println("Username already taken. Please choose another.")
			continue
		}
		break
	}

	var email string
	for {
		var err error
		email, err = a.readLine("Enter email address: ")
		if err != nil {
			return err
		}
		if !usecase.ValidEmail(email) {
			a.println("Invalid email format. Please try again.")
			continue
		}
		taken, err := a.svc.EmailTaken(ctx, email)
		if err != nil {
			a.printf("An error occurred: %v\n", err)
			return nil
		}
		if taken {
			a.println("Email already registered. Please choose another or sign in.")
			continue
		}
		break
	}

	password, err := a.choosePassword()
	if err != nil {
		return err
	}

	if _, err := a.svc.SignUp(ctx, username, email, password); err != nil {
		a.printf("Could not create account: %v\n", err)
		return nil
	}
	a.println("Account created successfully! You can now sign in.")
	return a.pause()
}

// choosePassword lets the user type a password that meets the policy or
// have one generated for them.
func (a *App) choosePassword() (string, error) {
	for {
		choice, err := a.readLine("Create password manually (M) or generate automatically (A)? ")
		if err != nil {
			return "", err
		}
		switch strings.ToUpper(choice) {
		case "M":
			for {
				password, err := a.readLine("Enter password (min 16 chars, 1 lower, 1 upper, 1 num, 1 special): ")
				if err != nil {
					return "", err
				}
				if usecase.ValidatePassword(password) == nil {
					return password, nil
				}
				a.println("Password does not meet strength requirements. Please try again.")
			}
		case "A":
			password, err := a.svc.GeneratePassword()
			if err != nil {
				return "", err
			}
			a.printf("Generated password: %s\n", password)
			if err := a.pause(); err != nil {
				return "", err
			}
			return password, nil
		default:
			a.println("Invalid choice. Please enter 'M' or 'A'.")
		}
	}
}

func (a *App) runMenu(ctx context.Context, session *usecase.Session) error {
	for {
		a.clearScreen()
		a.printf("--- Welcome, %s! ---\n", session.Account.Username)
		a.printf("Current Balance: %s\n", ngn(session.Account.Balance))
		a.println("========================================")
		a.println("1. Fund Wallet")
		a.println("2. Make Purchases")
		a.println("3. Manage Account")
		a.println("4. Logout")

		choice, err := a.readLine("Enter your choice: ")
		if err != nil {
			return err
		}
		switch choice {
		case "1":
			if err := a.fundWallet(ctx, session); err != nil {
				return err
			}
		case "2":
			if err := a.purchaseMenu(ctx, session); err != nil {
				return err
			}
		case "3":
			stillSignedIn, err := a.manageAccountMenu(ctx, session)
			if err != nil {
				return err
			}
			if !stillSignedIn {
				return nil
			}
		case "4":
			a.println("\nLogging you out securely...")
			a.println("Thank you for shopping with us. See you again soon!")
			return nil
		default:
			a.println("Wrong option. Please try again.")
		}
	}
}

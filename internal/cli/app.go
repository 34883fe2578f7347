// Package cli is the terminal surface: menu loops that translate user
// input into service calls and service errors into messages. No error
// escapes a menu loop; the process always exits cleanly.
package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"storefront/internal/usecase"
)

var errInputClosed = errors.New("input closed")

type App struct {
	svc            *usecase.Service
	signInAttempts int
	in             *bufio.Scanner
	out            io.Writer
}

func New(svc *usecase.Service, signInAttempts int, in io.Reader, out io.Writer) *App {
	return &App{
		svc:            svc,
		signInAttempts: signInAttempts,
		in:             bufio.NewScanner(in),
		out:            out,
	}
}

func (a *App) printf(format string, args ...any) {
	fmt.Fprintf(a.out, format, args...)
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

func (a *App) clearScreen() {
	fmt.Fprint(a.out, "\033[H\033[2J")
}

func (a *App) pause() error {
	_, err := a.readLine("Press Enter to continue...")
	return err
}

func (a *App) readLine(prompt string) (string, error) {
	fmt.Fprint(a.out, prompt)
	if !a.in.Scan() {
		if err := a.in.Err(); err != nil {
			return "", err
		}
		return "", errInputClosed
	}
	return strings.TrimSpace(a.in.Text()), nil
}

// readInt re-prompts until the input parses as an integer.
func (a *App) readInt(prompt string) (int, error) {
	for {
		line, err := a.readLine(prompt)
		if err != nil {
			return 0, err
		}
		n, err := strconv.Atoi(line)
		if err != nil {
			a.println("Invalid input. Please enter a number.")
			continue
		}
		return n, nil
	}
}

// readAmount re-prompts until the input parses as a decimal amount.
func (a *App) readAmount(prompt string) (decimal.Decimal, error) {
	for {
		line, err := a.readLine(prompt)
		if err != nil {
			return decimal.Zero, err
		}
		amount, err := decimal.NewFromString(line)
		if err != nil {
			a.println("Invalid amount. Please enter a number.")
			continue
		}
		return amount, nil
	}
}

// confirm treats anything other than Y as a no, like every Y/N prompt in
// the app.
func (a *App) confirm(prompt string) (bool, error) {
	line, err := a.readLine(prompt)
	if err != nil {
		return false, err
	}
	return strings.EqualFold(line, "Y"), nil
}

func ngn(d decimal.Decimal) string {
	return "NGN " + d.StringFixed(2)
}

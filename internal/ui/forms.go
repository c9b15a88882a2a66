package ui

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// Credentials is the result of the login form.
type Credentials struct {
	Email    string
	Password string
}

// LoginForm prompts for email and password. Requires an interactive terminal.
func LoginForm() (Credentials, error) {
	var creds Credentials
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Email").
				Value(&creds.Email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&creds.Password).
				Validate(notEmpty("password")),
		),
	)
	if err := form.Run(); err != nil {
		return Credentials{}, err
	}
	return creds, nil
}

// Registration is the result of the registration form.
type Registration struct {
	Name     string
	Email    string
	Password string
}

// RegisterForm prompts for the new account details.
func RegisterForm() (Registration, error) {
	var reg Registration
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Value(&reg.Name).
				Validate(notEmpty("name")),
			huh.NewInput().
				Title("Email").
				Value(&reg.Email).
				Validate(validateEmail),
			huh.NewInput().
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&reg.Password).
				Validate(notEmpty("password")),
		),
	)
	if err := form.Run(); err != nil {
		return Registration{}, err
	}
	return reg, nil
}

// BoardForm prompts for board fields, pre-filled with the given values.
func BoardForm(title, description, color *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(title).Validate(notEmpty("title")),
			huh.NewInput().Title("Description").Value(description),
			huh.NewInput().Title("Color").Description("Hex color, e.g. #3b82f6").Value(color),
		),
	).Run()
}

// TaskForm prompts for task fields, pre-filled with the given values.
func TaskForm(title, description, status, priority *string) error {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().Title("Title").Value(title).Validate(notEmpty("title")),
			huh.NewInput().Title("Description").Value(description),
			huh.NewSelect[string]().
				Title("Status").
				Options(
					huh.NewOption("To do", "todo"),
					huh.NewOption("In progress", "in-progress"),
					huh.NewOption("Done", "done"),
				).
				Value(status),
			huh.NewSelect[string]().
				Title("Priority").
				Options(
					huh.NewOption("Low", "low"),
					huh.NewOption("Medium", "medium"),
					huh.NewOption("High", "high"),
				).
				Value(priority),
		),
	).Run()
}

// Confirm asks a yes/no question. Defaults to no.
func Confirm(prompt string) (bool, error) {
	var ok bool
	err := huh.NewForm(
		huh.NewGroup(huh.NewConfirm().Title(prompt).Value(&ok)),
	).Run()
	return ok, err
}

// ReadPassword reads a password without echo when stdin is a terminal, or a
// plain line otherwise, for non-interactive use.
func ReadPassword(prompt string) (string, error) {
	fmt.Fprint(os.Stderr, prompt)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		data, err := term.ReadPassword(fd)
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	var line string
	if _, err := fmt.Fscanln(os.Stdin, &line); err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return line, nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return fmt.Errorf("%s cannot be empty", field)
		}
		return nil
	}
}

func validateEmail(s string) error {
	if !strings.Contains(s, "@") {
		return fmt.Errorf("invalid email address")
	}
	return nil
}

// Package setup provides the terminal wizard that configures sessions,
// credentials and investments.
package setup

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/vadiminshakov/walletrack/config"
	"github.com/vadiminshakov/walletrack/internal/domain"
	"github.com/vadiminshakov/walletrack/internal/storage/credentials"
)

var (
	highlight = lipgloss.AdaptiveColor{Light: "#874BFD", Dark: "#7D56F4"}
	special   = lipgloss.AdaptiveColor{Light: "#43BF6D", Dark: "#73F59F"}

	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Background(highlight).
			Padding(1, 2).
			Bold(true).
			MarginBottom(1)

	stepStyle = lipgloss.NewStyle().
			Foreground(special).
			Bold(true).
			MarginTop(1)
)

// RunTUI launches the configuration wizard: it ensures the config file has a
// session, optionally wipes existing credentials, and collects credential
// sets until the user is done.
func RunTUI(configPath string) error {
	cfg, fresh, err := loadOrInit(configPath)
	if err != nil {
		return err
	}

	store, err := credentials.NewFileStore(cfg.CredentialsFile)
	if err != nil {
		return err
	}

	fmt.Print("\033[H\033[2J")
	fmt.Println(headerStyle.Render("WALLETRACK SETUP"))
	fmt.Println(lipgloss.NewStyle().Faint(true).Render(fmt.Sprintf("session: %s\n", cfg.Session)))

	if !fresh {
		var reset bool
		err := huh.NewForm(huh.NewGroup(
			huh.NewConfirm().
				Title("Remove previously configured API keys for this session?").
				Value(&reset),
		)).Run()
		if err != nil {
			return err
		}
		if reset {
			if err := store.Clear(cfg.Session); err != nil {
				return err
			}
		}
	}

	for {
		var (
			label         string
			apiKey        string
			apiSecret     string
			investmentStr string
			addAnother    bool
		)

		fmt.Println(stepStyle.Render("ADD EXCHANGE ACCOUNT"))
		err := huh.NewForm(huh.NewGroup(
			huh.NewInput().
				Title("Account label").
				Validate(notEmpty("label")).
				Value(&label),
			huh.NewInput().
				Title("API key").
				Validate(notEmpty("API key")).
				Value(&apiKey),
			huh.NewInput().
				Title("API secret").
				EchoMode(huh.EchoModePassword).
				Validate(notEmpty("API secret")).
				Value(&apiSecret),
			huh.NewInput().
				Title("Initial investment (quote currency)").
				Placeholder("0").
				Validate(validInvestment).
				Value(&investmentStr),
		)).Run()
		if err != nil {
			return err
		}

		if investmentStr == "" {
			investmentStr = "0"
		}
		investment, err := decimal.NewFromString(investmentStr)
		if err != nil {
			return fmt.Errorf("invalid investment %q: %w", investmentStr, err)
		}

		cred := domain.Credential{Label: label, APIKey: apiKey, APISecret: apiSecret}
		if err := store.Save(cfg.Session, cred, investment); err != nil {
			return err
		}
		fmt.Println(lipgloss.NewStyle().Foreground(special).Render(fmt.Sprintf("saved %q", label)))

		err = huh.NewForm(huh.NewGroup(
			huh.NewConfirm().Title("Add another account?").Value(&addAnother),
		)).Run()
		if err != nil {
			return err
		}
		if !addAnother {
			break
		}
	}

	fmt.Println(stepStyle.Render("DONE"))
	fmt.Printf("start tracking with: walletrack --config %s\n", configPath)
	return nil
}

// loadOrInit loads the config, creating one with a fresh session when the
// file does not exist yet.
func loadOrInit(path string) (config.Config, bool, error) {
	cfg, err := config.Load(path)
	if err == nil {
		return cfg, false, nil
	}
	if !os.IsNotExist(err) {
		return config.Config{}, false, err
	}

	cfg = config.Config{
		Session:         uuid.NewString(),
		QuoteCurrency:   "USDT",
		PollInterval:    15 * time.Minute,
		RequestTimeout:  30 * time.Second,
		ListenAddr:      ":8080",
		CredentialsFile: "credentials.yaml",
		Storage:         config.StorageConfig{Backend: config.StorageBackendWAL},
	}
	if err := config.Save(path, cfg); err != nil {
		return config.Config{}, false, err
	}
	return cfg, true, nil
}

func notEmpty(field string) func(string) error {
	return func(s string) error {
		if s == "" {
			return fmt.Errorf("%s must not be empty", field)
		}
		return nil
	}
}

func validInvestment(s string) error {
	if s == "" {
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return fmt.Errorf("must be a decimal number")
	}
	if d.IsNegative() {
		return fmt.Errorf("must not be negative")
	}
	return nil
}

package components

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/rgehrsitz/nestcast/internal/domain"
	"github.com/rgehrsitz/nestcast/internal/output"
	"github.com/rgehrsitz/nestcast/internal/tui/tuistyles"
)

// AccountCard summarizes one account in the account list.
type AccountCard struct {
	Account    domain.Account
	Color      lipgloss.Color
	IsSelected bool
	Width      int
}

// NewAccountCard creates a card for acct drawn in color.
func NewAccountCard(acct domain.Account, color lipgloss.Color) *AccountCard {
	return &AccountCard{Account: acct, Color: color, Width: 36}
}

// SetSelected sets the selection state
func (c *AccountCard) SetSelected(selected bool) *AccountCard {
	c.IsSelected = selected
	return c
}

// Render returns the styled card
func (c *AccountCard) Render() string {
	cfg := c.Account.Config
	swatch := lipgloss.NewStyle().Foreground(c.Color).Render("■")
	name := output.AccountLabel(c.Account.Key, cfg.Label)

	role := "no withdrawals"
	if domain.IsWithdrawalAccount(c.Account.Key) {
		role = "funds retirement"
	}

	content := fmt.Sprintf("%s %s\n%s\n%s",
		swatch, tuistyles.MetricValueStyle.Render(name),
		output.FormatCurrencyFloat(cfg.Balance),
		tuistyles.SubtitleStyle.Render(fmt.Sprintf("%.1f%% ± %.1f%% · %s", cfg.ExpectedReturn, cfg.StdDev, role)))

	style := tuistyles.BorderStyle
	if c.IsSelected {
		style = tuistyles.ActiveBorderStyle
	}
	return style.Width(c.Width).Render(content)
}

// Package cli provides styled terminal output using lipgloss.
package cli

import (
	"fmt"
	"strings"

	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/charmbracelet/lipgloss"
)

var (
	// PrimaryColor is the main theme color.
	PrimaryColor = lipgloss.Color("#3F51B5")
	// SuccessColor indicates successful operations.
	SuccessColor = lipgloss.Color("#4CAF50")
	// WarningColor indicates warnings or caution messages.
	WarningColor = lipgloss.Color("#FFC107")
	// ErrorColor indicates errors or failure messages.
	ErrorColor = lipgloss.Color("#F44336")
	// InfoColor indicates informational messages.
	InfoColor = lipgloss.Color("#03A9F4")
	// SubtleColor indicates less prominent UI elements.
	SubtleColor = lipgloss.Color("#666666")

	// TitleStyle is used for section titles.
	TitleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor).
			MarginBottom(1)

	// SuccessStyle formats success messages.
	SuccessStyle = lipgloss.NewStyle().
			Foreground(SuccessColor)

	// WarningStyle formats warning messages.
	WarningStyle = lipgloss.NewStyle().
			Foreground(WarningColor)

	// ErrorStyle formats error messages.
	ErrorStyle = lipgloss.NewStyle().
			Foreground(ErrorColor)

	// InfoStyle formats informational messages.
	InfoStyle = lipgloss.NewStyle().
			Foreground(InfoColor)

	// SubtleStyle formats less prominent text.
	SubtleStyle = lipgloss.NewStyle().
			Foreground(SubtleColor)

	// BoldStyle makes text bold.
	BoldStyle = lipgloss.NewStyle().
			Bold(true)

	// BoxStyle is used for bordered content boxes.
	BoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#333")).
			Padding(1, 2)

	// PromptStyle is used for user prompts.
	PromptStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(PrimaryColor)
)

// Icons.
const (
	SuccessIcon = "✓"
	ErrorIcon   = "✗"
	WarningIcon = "⚠️"
	InfoIcon    = "ℹ️"
	LedgerIcon  = "💶"
	ChartIcon   = "📊"
)

// FormatSuccess formats a success message with icon.
func FormatSuccess(message string) string {
	return SuccessStyle.Render(SuccessIcon + " " + message)
}

// FormatError formats an error message with icon.
func FormatError(message string) string {
	return ErrorStyle.Render(ErrorIcon + " " + message)
}

// FormatWarning formats a warning message with icon.
func FormatWarning(message string) string {
	return WarningStyle.Render(WarningIcon + " " + message)
}

// FormatInfo formats an info message with icon.
func FormatInfo(message string) string {
	return InfoStyle.Render(InfoIcon + " " + message)
}

// FormatTitle formats a title with the ledger icon.
func FormatTitle(title string) string {
	return TitleStyle.Render(LedgerIcon + " " + title)
}

// FormatPrompt formats a prompt message.
func FormatPrompt(prompt string) string {
	return PromptStyle.Render(prompt + " → ")
}

// RenderBox renders content in a styled box.
func RenderBox(title, content string) string {
	boxTitle := TitleStyle.
		UnsetMargins().
		Render(title)

	return BoxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, boxTitle, content))
}

// LevelStyle colors a confidence tier.
func LevelStyle(level model.ConfidenceLevel) lipgloss.Style {
	switch level {
	case model.ConfidenceHigh:
		return SuccessStyle.Bold(true)
	case model.ConfidenceMedium:
		return InfoStyle
	case model.ConfidenceLow:
		return WarningStyle
	default:
		return SubtleStyle
	}
}

// FormatTransaction renders the header block shown above a suggestion list.
func FormatTransaction(txn model.Transaction) string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render(displayName(txn)))
	b.WriteString("\n")
	fmt.Fprintf(&b, "  Datum:        %s\n", txn.Date.Format("02.01.2006"))
	fmt.Fprintf(&b, "  Betrag:       %s\n", FormatAmount(txn.Amount))
	if txn.Description != "" {
		fmt.Fprintf(&b, "  Beschreibung: %s\n", txn.Description)
	}
	return strings.TrimRight(b.String(), "\n")
}

// FormatAmount renders an amount the German way with a trailing euro sign.
func FormatAmount(amount float64) string {
	s := fmt.Sprintf("%.2f €", amount)
	return strings.Replace(s, ".", ",", 1)
}

// FormatSuggestion renders one numbered suggestion line plus its reasoning.
func FormatSuggestion(index int, s model.Suggestion) string {
	icon := s.Icon
	if icon == "" {
		icon = "📁"
	}
	category := lipgloss.NewStyle().Bold(true)
	if s.Color != "" {
		category = category.Foreground(lipgloss.Color(s.Color))
	}

	line := fmt.Sprintf("  [%d] %s %s %s %s",
		index,
		icon,
		category.Render(s.Category),
		LevelStyle(s.ConfidenceLevel).Render(fmt.Sprintf("%.0f%%", s.Confidence*100)),
		SubtleStyle.Render(string(s.ConfidenceLevel)))

	if s.Reasoning != "" {
		line += "\n      " + SubtleStyle.Render(s.Reasoning)
	}
	if s.UsageCount > 0 {
		line += "\n      " + SubtleStyle.Render(fmt.Sprintf("%d× verwendet", s.UsageCount))
	}
	return line
}

// RenderSuggestions renders a transaction and its ranked suggestions in a box.
func RenderSuggestions(txn model.Transaction, suggestions []model.Suggestion) string {
	lines := []string{FormatTransaction(txn), ""}
	if len(suggestions) == 0 {
		lines = append(lines, SubtleStyle.Render("Keine Vorschläge gefunden"))
	}
	for i := range suggestions {
		lines = append(lines, FormatSuggestion(i+1, suggestions[i]))
	}
	return RenderBox("Kategorie-Vorschläge", strings.Join(lines, "\n"))
}

func displayName(txn model.Transaction) string {
	switch {
	case txn.Recipient != "":
		return txn.Recipient
	case txn.Description != "":
		return txn.Description
	default:
		return "Unbekannte Buchung"
	}
}

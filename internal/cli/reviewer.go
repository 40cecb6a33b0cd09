package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/Veraticus/kassenbuch/internal/model"
	"github.com/schollz/progressbar/v3"
)

// maxRecentCategories bounds the list offered when entering a custom category.
const maxRecentCategories = 10

// ErrInputTerminated is returned when input ends before a valid answer.
var ErrInputTerminated = errors.New("input terminated")

// Decision is the user's answer for one reviewed transaction.
type Decision struct {
	Selected string
	Rejected []string
	Skipped  bool
}

// ReviewStats summarizes a review session.
type ReviewStats struct {
	Duration time.Duration
	Total    int
	Accepted int // Picked one of the suggestions
	Custom   int
	Skipped  int
}

// Reviewer walks the user through suggestion lists one transaction at a time.
type Reviewer struct {
	startTime        time.Time
	writer           io.Writer
	reader           *LineReader
	progressBar      *progressbar.ProgressBar
	recentCategories []string
	stats            ReviewStats
	mu               sync.Mutex
}

// NewReviewer creates a reviewer reading answers from reader.
func NewReviewer(reader io.Reader, writer io.Writer) *Reviewer {
	if reader == nil {
		reader = os.Stdin
	}
	if writer == nil {
		writer = os.Stdout
	}
	return &Reviewer{
		reader:    NewLineReader(reader),
		writer:    writer,
		startTime: time.Now(),
	}
}

// SetTotal enables the progress bar for a session of total transactions.
func (r *Reviewer) SetTotal(total int) {
	r.progressBar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.writer),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]Buchungen prüfen...[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
	)
}

// Review shows the suggestions for txn and asks for a choice. Picking a
// suggestion rejects every other one shown; a custom category rejects them all.
func (r *Reviewer) Review(ctx context.Context, txn model.Transaction, suggestions []model.Suggestion) (Decision, error) {
	if err := ctx.Err(); err != nil {
		return Decision{}, err
	}

	r.updateProgress()

	if _, err := fmt.Fprintln(r.writer, "\n"+RenderSuggestions(txn, suggestions)); err != nil {
		return Decision{}, fmt.Errorf("failed to write suggestions: %w", err)
	}
	if _, err := fmt.Fprintln(r.writer, "  [C] Eigene Kategorie eingeben\n  [S] Überspringen"); err != nil {
		return Decision{}, fmt.Errorf("failed to write options: %w", err)
	}

	shown := make([]string, len(suggestions))
	for i := range suggestions {
		shown[i] = suggestions[i].Category
	}

	choice, err := r.promptChoice(ctx, len(suggestions))
	if err != nil {
		return Decision{}, err
	}

	var decision Decision
	switch choice {
	case "s":
		decision.Skipped = true
		r.record(func(s *ReviewStats) { s.Skipped++ })
	case "c":
		category, err := r.promptCustomCategory(ctx)
		if err != nil {
			return Decision{}, err
		}
		decision.Selected = category
		decision.Rejected = without(shown, category)
		r.record(func(s *ReviewStats) { s.Custom++ })
	default:
		index, _ := strconv.Atoi(choice)
		decision.Selected = shown[index-1]
		decision.Rejected = without(shown, decision.Selected)
		r.record(func(s *ReviewStats) { s.Accepted++ })
	}

	if !decision.Skipped {
		r.trackCategory(decision.Selected)
		if _, err := fmt.Fprintln(r.writer, FormatSuccess("Kategorie gesetzt: "+decision.Selected)); err != nil {
			slog.Warn("Failed to write confirmation", "error", err)
		}
	}
	return decision, nil
}

// Stats returns the session statistics so far.
func (r *Reviewer) Stats() ReviewStats {
	r.mu.Lock()
	defer r.mu.Unlock()
	stats := r.stats
	stats.Duration = time.Since(r.startTime)
	return stats
}

// ShowCompletion prints the session summary.
func (r *Reviewer) ShowCompletion() {
	if r.progressBar != nil {
		if err := r.progressBar.Finish(); err != nil {
			slog.Warn("Failed to finish progress bar", "error", err)
		}
	}

	stats := r.Stats()
	summary := fmt.Sprintf("%s Statistik:\n", ChartIcon) +
		fmt.Sprintf("  • Geprüft: %d\n", stats.Total) +
		fmt.Sprintf("  • Vorschlag übernommen: %d\n", stats.Accepted) +
		fmt.Sprintf("  • Eigene Kategorie: %d\n", stats.Custom) +
		fmt.Sprintf("  • Übersprungen: %d\n", stats.Skipped) +
		fmt.Sprintf("  • Dauer: %s", stats.Duration.Round(time.Second))

	if _, err := fmt.Fprintln(r.writer, RenderBox("Review abgeschlossen", summary)); err != nil {
		slog.Warn("Failed to write completion box", "error", err)
	}
}

func (r *Reviewer) updateProgress() {
	r.record(func(s *ReviewStats) { s.Total++ })
	if r.progressBar != nil {
		if err := r.progressBar.Add(1); err != nil {
			slog.Warn("Failed to update progress bar", "error", err)
		}
	}
}

func (r *Reviewer) record(update func(*ReviewStats)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	update(&r.stats)
}

func (r *Reviewer) trackCategory(category string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.recentCategories = append([]string{category}, without(r.recentCategories, category)...)
	if len(r.recentCategories) > maxRecentCategories {
		r.recentCategories = r.recentCategories[:maxRecentCategories]
	}
}

// promptChoice loops until the answer is a suggestion number, "c" or "s".
func (r *Reviewer) promptChoice(ctx context.Context, options int) (string, error) {
	prompt := "Auswahl [C/S]"
	if options > 0 {
		prompt = fmt.Sprintf("Auswahl [1-%d/C/S]", options)
	}

	for {
		if _, err := fmt.Fprint(r.writer, FormatPrompt(prompt)); err != nil {
			return "", fmt.Errorf("failed to write prompt: %w", err)
		}

		input, err := r.readLine(ctx)
		if err != nil {
			return "", err
		}

		choice := strings.ToLower(input)
		if choice == "c" || choice == "s" {
			return choice, nil
		}
		if n, err := strconv.Atoi(choice); err == nil && n >= 1 && n <= options {
			return choice, nil
		}

		if _, err := fmt.Fprintln(r.writer, FormatError("Ungültige Auswahl, bitte erneut versuchen.")); err != nil {
			slog.Warn("Failed to write error message", "error", err)
		}
	}
}

func (r *Reviewer) promptCustomCategory(ctx context.Context) (string, error) {
	r.mu.Lock()
	recent := append([]string(nil), r.recentCategories...)
	r.mu.Unlock()

	if len(recent) > 0 {
		if _, err := fmt.Fprintln(r.writer, FormatInfo("Zuletzt verwendet:")); err != nil {
			return "", fmt.Errorf("failed to write recent categories header: %w", err)
		}
		for _, cat := range recent {
			if _, err := fmt.Fprintf(r.writer, "  • %s\n", cat); err != nil {
				slog.Warn("Failed to write recent category", "error", err)
			}
		}
	}

	for {
		if _, err := fmt.Fprint(r.writer, FormatPrompt("Kategorie")); err != nil {
			return "", fmt.Errorf("failed to write category prompt: %w", err)
		}

		category, err := r.readLine(ctx)
		if err != nil {
			return "", err
		}
		if category != "" {
			return category, nil
		}

		if _, err := fmt.Fprintln(r.writer, FormatError("Kategorie darf nicht leer sein.")); err != nil {
			slog.Warn("Failed to write empty category error", "error", err)
		}
	}
}

func (r *Reviewer) readLine(ctx context.Context) (string, error) {
	line, err := r.reader.ReadLine(ctx)
	if errors.Is(err, io.EOF) {
		return "", ErrInputTerminated
	}
	return line, err
}

func without(list []string, drop string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != drop {
			out = append(out, v)
		}
	}
	return out
}

package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/HassanMahra/HealthAppProject/internal/client/models"
	"github.com/HassanMahra/HealthAppProject/internal/common"
)

const defaultStatsDays = 7

// LogMood records a check-in from "<1-5> [note...]".
func (a *App) LogMood(ctx context.Context, args []string) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: usage: log <1-5> [note]", common.ErrValidation)
	}

	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("%w: %q is not a number between 1 and 5", common.ErrInvalidMood, args[0])
	}

	e, err := a.moods.Record(ctx, models.Mood(n), strings.Join(args[1:], " "))
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged %s %s\n", e.Emoji, e.Mood)
	return nil
}

// History prints the newest check-ins; limit 0 uses the service default.
func (a *App) History(ctx context.Context, limit int) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}

	entries, err := a.moods.History(ctx, limit)
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Fprintln(a.out, "No check-ins yet")
		return nil
	}
	for _, e := range entries {
		fmt.Fprintln(a.out, formatEntry(e))
	}
	return nil
}

func formatEntry(e models.MoodEntry) string {
	line := fmt.Sprintf("%s  %s %-8s", e.Time().Local().Format("2006-01-02 15:04"), e.Emoji, e.Mood.Label())
	if e.Note != "" {
		line += "  " + e.Note
	}
	return strings.TrimRight(line, " ")
}

// Stats prints a summary of the last days; days 0 means a week.
func (a *App) Stats(ctx context.Context, days int) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}
	if days < 0 {
		return fmt.Errorf("%w: days must be positive", common.ErrValidation)
	}
	if days == 0 {
		days = defaultStatsDays
	}

	since := time.Now().AddDate(0, 0, -days)
	s := a.moods.Summary(ctx, since)
	if s.Count == 0 {
		fmt.Fprintf(a.out, "No check-ins in the last %d days\n", days)
		return nil
	}

	fmt.Fprintf(a.out, "Last %d days: %d check-ins, average %.1f\n", days, s.Count, s.Average)
	for m := models.MaxMood; m >= models.MinMood; m-- {
		n := s.ByMood[m]
		fmt.Fprintf(a.out, "  %s %-8s %s %d\n", m.Emoji(), m.Label(), strings.Repeat("#", n), n)
	}
	return nil
}

// Clear deletes every check-in, asking first unless force is set.
func (a *App) Clear(ctx context.Context, force bool) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}
	if !force {
		ok, err := GetConfirmation(a.reader, "Delete all check-ins?", a.out)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(a.out, "Cancelled")
			return nil
		}
	}
	if err := a.moods.Clear(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "All check-ins deleted")
	return nil
}

func (a *App) Backup(ctx context.Context) error {
	if !a.isLoggedIn(ctx) {
		return errNotSignedIn
	}
	key, err := a.moods.Backup(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Backup stored as %s\n", key)
	return nil
}

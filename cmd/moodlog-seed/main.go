// Command moodlog-seed fills an account's journal with plausible mock entries
// for local development and demos.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"

	"moodlog/internal/config"
	"moodlog/internal/core"
	applog "moodlog/internal/log"
	"moodlog/internal/services"
	"moodlog/internal/storage"
)

const cycleLength = 28

var (
	sleepWeightsWeekday = []int{5, 12, 20, 25, 22, 16}
	sleepWeightsWeekend = []int{3, 8, 15, 25, 28, 21}
	moodWeights         = []int{8, 18, 34, 26, 14}
)

func main() {
	_ = godotenv.Load()

	username := flag.String("username", "", "username to seed entries for (required)")
	days := flag.Int("days", 90, "how many days back to seed")
	overwrite := flag.Bool("overwrite", false, "delete existing entries in range first")
	flag.Parse()

	logger := applog.New(applog.Config{Component: applog.ComponentSeed})
	applog.SetDefault(logger)

	if *username == "" {
		fmt.Fprintln(os.Stderr, "usage: moodlog-seed -username <name> [-days 90] [-overwrite]")
		os.Exit(2)
	}
	if *days < 1 {
		logger.Error("Days must be positive", "days", *days)
		os.Exit(2)
	}

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", applog.FieldError, err)
		os.Exit(1)
	}

	repo, err := storage.NewSQLiteRepository(cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Failed to initialize SQLite repository", applog.FieldError, err, "path", cfg.SQLiteDBPath)
		os.Exit(1)
	}
	defer repo.Close()

	journal := services.NewJournalService(repo)
	ctx := context.Background()

	user, err := repo.GetUserByUsername(ctx, *username)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			logger.Error("User not found, create the account first", "username", *username)
		} else {
			logger.Error("User lookup failed", applog.FieldError, err)
		}
		os.Exit(1)
	}

	habit, err := journal.EnsureHabit(ctx, user.ID)
	if err != nil {
		logger.Error("Failed to ensure habit", applog.FieldError, err)
		os.Exit(1)
	}

	endDate := core.Today()
	startDate := endDate.AddDays(-(*days - 1))

	if *overwrite {
		existing, err := repo.ListEntries(ctx, habit.ID, storage.ListOptions{From: startDate, To: endDate})
		if err != nil {
			logger.Error("Failed to list entries for overwrite", applog.FieldError, err)
			os.Exit(1)
		}
		for _, e := range existing {
			if err := repo.DeleteEntry(ctx, e.ID); err != nil {
				logger.Error("Failed to delete entry", applog.FieldEntryID, e.ID, applog.FieldError, err)
				os.Exit(1)
			}
		}
		logger.Warn("Deleted existing entries in range", "count", len(existing))
	}

	rng := rand.New(rand.NewSource(time.Now().UnixNano()))
	created, skipped := 0, 0

	for i := 0; i < *days; i++ {
		day := startDate.AddDays(i)

		if _, err := repo.GetEntryByDate(ctx, habit.ID, day); err == nil {
			skipped++
			continue
		} else if !errors.Is(err, core.ErrNotFound) {
			logger.Error("Entry lookup failed", applog.FieldDate, day.String(), applog.FieldError, err)
			os.Exit(1)
		}

		in := generateEntry(rng, day, i)
		if _, err := journal.SubmitEntry(ctx, user.ID, in); err != nil {
			logger.Error("Failed to create entry", applog.FieldDate, day.String(), applog.FieldError, err)
			os.Exit(1)
		}
		created++
	}

	logger.Info("Seeding complete",
		"username", *username,
		"created", created,
		"skipped", skipped,
		"from", startDate.String(),
		"to", endDate.String())
}

// generateEntry produces a weighted-random entry for the given day. Sleep runs
// longer on weekends, yoga is more likely on weekends, and mood correlates
// with both plus a Monday dip and a 28-day cycle dip.
func generateEntry(rng *rand.Rand, day core.Date, dayIndex int) services.EntryInput {
	weekday := day.Weekday()
	isWeekend := weekday == time.Saturday || weekday == time.Sunday

	yogaProb := 0.25
	if isWeekend {
		yogaProb = 0.45
	}
	yoga := rng.Float64() < yogaProb

	sleepWeights := sleepWeightsWeekday
	if isWeekend {
		sleepWeights = sleepWeightsWeekend
	}
	sleep := weightedChoice(rng, sleepWeights) + core.SleepMin
	mood := weightedChoice(rng, moodWeights) + core.MoodMin

	if sleep >= 5 {
		mood++
	} else if sleep <= 2 {
		mood--
	}
	if yoga {
		mood++
	}
	if weekday == time.Monday {
		mood--
	}
	if dayIndex%cycleLength < 3 {
		mood--
	}

	if mood < core.MoodMin {
		mood = core.MoodMin
	}
	if mood > core.MoodMax {
		mood = core.MoodMax
	}

	note := ""
	switch {
	case yoga && mood >= 4:
		note = "Good energy today. Yoga helped."
	case mood <= 2 && sleep <= 2:
		note = "Low energy day. Sleep was short."
	case mood >= 4 && sleep >= 4:
		note = "Felt productive and calm."
	case weekday == time.Monday && mood <= 3:
		note = "Monday reset. Taking it step by step."
	}

	return services.EntryInput{
		Date:  day,
		Mood:  mood,
		Sleep: sleep,
		Yoga:  yoga,
		Note:  note,
	}
}

// weightedChoice returns an index into weights, picked proportionally.
func weightedChoice(rng *rand.Rand, weights []int) int {
	total := 0
	for _, w := range weights {
		total += w
	}
	n := rng.Intn(total)
	for i, w := range weights {
		if n < w {
			return i
		}
		n -= w
	}
	return len(weights) - 1
}

package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cantolab/cantomatch/internal/config"
	"github.com/cantolab/cantomatch/internal/database"
	"github.com/cantolab/cantomatch/internal/matcher"
	"github.com/cantolab/cantomatch/internal/scoring"
)

type MatchCommand struct {
	DatabasePath string
	MinScore     float64
	Limit        int
	Readings     []string
}

func NewMatchCommand() *MatchCommand {
	return &MatchCommand{}
}

func (cmd *MatchCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("match", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.Float64Var(&cmd.MinScore, "min-score", 0.15, "Minimum score a song needs to be listed")
	fs.IntVar(&cmd.Limit, "limit", matcher.DefaultLimit, "Songs listed per reading")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s match [options] <reading> [<reading>...]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Rank catalog songs against one or more scripture readings.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s match \"Is 30,15-16\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s match -min-score 0.3 -limit 5 \"Gv 8,31-36\" \"Sal 65\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	for _, arg := range fs.Args() {
		if trimmed := strings.TrimSpace(arg); trimmed != "" {
			cmd.Readings = append(cmd.Readings, trimmed)
		}
	}
	if len(cmd.Readings) == 0 {
		fs.Usage()
		return fmt.Errorf("at least one reading is required")
	}
	if cmd.MinScore < 0 || cmd.MinScore > scoring.MaxScore {
		return fmt.Errorf("min-score must be between 0.0 and %.1f", scoring.MaxScore)
	}

	return nil
}

func (cmd *MatchCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	songs, err := db.GetCatalog()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}
	if len(songs) == 0 {
		return fmt.Errorf("catalog is empty; run '%s refresh' first", os.Args[0])
	}

	for _, reading := range cmd.Readings {
		fmt.Printf("%s\n", reading)

		refs := matcher.ParseReading(reading)
		if len(refs) == 0 {
			fmt.Println("  (not interpretable; try a form like \"Is 30,15-16\")")
			continue
		}

		ranked := matcher.Rank(refs, songs, cmd.MinScore, cmd.Limit)
		if len(ranked) == 0 {
			fmt.Println("  (no songs above the score threshold)")
			continue
		}
		for i, scored := range ranked {
			fmt.Printf("  %d. %-40s %.2f  %s\n", i+1, scored.Song.Title, scored.Score, scored.Song.URL)
		}
	}

	return nil
}

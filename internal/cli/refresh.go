package cli

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/cantolab/cantomatch/internal/catalog"
	"github.com/cantolab/cantomatch/internal/config"
	"github.com/cantolab/cantomatch/internal/database"
	"github.com/cantolab/cantomatch/internal/scraper"
)

type RefreshCommand struct {
	DatabasePath string
	BaseURL      string
	StartPath    string
	MaxPages     int
	Timeout      time.Duration
	Verbose      bool
}

func NewRefreshCommand() *RefreshCommand {
	return &RefreshCommand{}
}

func (cmd *RefreshCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("refresh", flag.ExitOnError)

	fs.StringVar(&cmd.DatabasePath, "db", config.DefaultDatabasePath, "Path to the catalog database file")
	fs.StringVar(&cmd.BaseURL, "base-url", config.DefaultBaseURL, "Root URL of the song catalog site")
	fs.StringVar(&cmd.StartPath, "start-path", config.DefaultStartPath, "Path of the first list page")
	fs.IntVar(&cmd.MaxPages, "max-pages", 80, "Maximum number of list pages to walk")
	fs.DurationVar(&cmd.Timeout, "timeout", 10*time.Minute, "Overall timeout for the scrape")
	fs.BoolVar(&cmd.Verbose, "verbose", false, "List every scraped song")

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s refresh [options]\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Scrape the song catalog site and rebuild the local database.\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fs.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  %s refresh\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s refresh -db ./canti.db -max-pages 10 -verbose\n", os.Args[0])
	}

	return fs.Parse(args)
}

func (cmd *RefreshCommand) Run() error {
	db, err := database.NewDatabase(cmd.DatabasePath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	fetcher := scraper.New(scraper.Config{
		BaseURL:   cmd.BaseURL,
		StartPath: cmd.StartPath,
		MaxPages:  cmd.MaxPages,
	})

	service := catalog.NewService(fetcher, db, 0)

	ctx, cancel := context.WithTimeout(context.Background(), cmd.Timeout)
	defer cancel()

	fmt.Printf("Scraping %s%s ...\n", cmd.BaseURL, cmd.StartPath)
	if err := service.Refresh(ctx); err != nil {
		return fmt.Errorf("refresh failed: %w", err)
	}

	songs := service.Songs(context.Background())
	withRefs := 0
	for _, song := range songs {
		if len(song.Refs) > 0 {
			withRefs++
		}
		if cmd.Verbose {
			fmt.Printf("  %s (%d refs)\n", song.Title, len(song.Refs))
		}
	}

	fmt.Printf("Catalog rebuilt: %d songs, %d with parsed references\n", len(songs), withRefs)
	return nil
}

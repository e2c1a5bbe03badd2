package cli

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/cantolab/cantomatch/internal/reference"
)

type ParseCommand struct {
	Text string
}

func NewParseCommand() *ParseCommand {
	return &ParseCommand{}
}

func (cmd *ParseCommand) ParseFlags(args []string) error {
	fs := flag.NewFlagSet("parse", flag.ExitOnError)

	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s parse <citation text>\n\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "Parse an Italian Bible citation and print the recognized references.\n\n")
		fmt.Fprintf(os.Stderr, "Examples:\n")
		fmt.Fprintf(os.Stderr, "  %s parse \"Cfr. Is 12,4-6; Rm 8,15-17\"\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "  %s parse \"Isaia dal capitolo 30 vv 15 e 16\"\n", os.Args[0])
	}

	if err := fs.Parse(args); err != nil {
		return err
	}

	cmd.Text = strings.TrimSpace(strings.Join(fs.Args(), " "))
	if cmd.Text == "" {
		fs.Usage()
		return fmt.Errorf("citation text is required")
	}

	return nil
}

func (cmd *ParseCommand) Run() error {
	refs := reference.Parse(cmd.Text)
	if len(refs) == 0 {
		fmt.Println("No references recognized.")
		return nil
	}

	for _, ref := range refs {
		fmt.Printf("  %-20s (from %q)\n", ref.String(), ref.Raw)
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/InkOS/backend/internal/domain/desktop"
	"github.com/GriffinCanCode/InkOS/backend/internal/domain/seed"
)

func newCheckSeedCommand() *cobra.Command {
	var dump string

	cmd := &cobra.Command{
		Use:   "check-seed [file]",
		Short: "Validate a seed file and print its desktop tree",
		Example: `
server check-seed desktop.yaml
server check-seed --dump toml
`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			s, err := seed.Load(path)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if dump != "" {
				data, err := s.Encode(seed.Format(dump))
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			printSeed(out, s)
			return nil
		},
	}

	cmd.Flags().StringVar(&dump, "dump", "", "Re-encode the seed as yaml or toml instead of printing the tree")
	return cmd
}

func printSeed(w io.Writer, s *seed.Seed) {
	fmt.Fprintf(w, "desktop (%d entities)\n", desktop.Count(s.Desktop))
	desktop.Walk(s.Desktop, func(e *desktop.Entity, depth int) bool {
		marker := "-"
		if e.IsFolder() {
			marker = "+"
		}
		fmt.Fprintf(w, "%s%s %s [%s]\n", strings.Repeat("  ", depth+1), marker, e.Name, e.ID)
		return true
	})

	fmt.Fprintf(w, "inbox (%d emails)\n", len(s.Emails))
	for _, e := range s.Emails {
		fmt.Fprintf(w, "  %d %s: %s\n", e.ID, e.From, e.Subject)
	}
}

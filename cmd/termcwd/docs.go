package main

import (
	"embed"
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/arthur-debert/termcwd/pkg/cobrax/topics"
)

//go:embed docs/*.md
var docsFS embed.FS

// setupDocs installs the topic help system over the embedded docs and
// adds a docs command that renders them through glamour.
func setupDocs(rootCmd *cobra.Command) error {
	tm, err := topics.InitializeWithOptions(rootCmd, docsFS, "docs", topics.Options{
		Renderer: topics.NewGlamourRenderer(),
	})
	if err != nil {
		return err
	}

	rootCmd.AddCommand(&cobra.Command{
		Use:   "docs [topic]",
		Short: MsgDocsShort,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				names := tm.ListTopics()
				sort.Strings(names)
				fmt.Fprintln(cmd.OutOrStdout(), "Available topics:")
				for _, n := range names {
					fmt.Fprintf(cmd.OutOrStdout(), "  %s\n", n)
				}
				return nil
			}

			topic, ok := tm.GetTopic(args[0])
			if !ok {
				return fmt.Errorf("unknown topic %q", args[0])
			}
			fmt.Fprint(cmd.OutOrStdout(), tm.Render(topic))
			return nil
		},
	})
	return nil
}

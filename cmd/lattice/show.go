package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/lattice/internal/config"
	"github.com/aretw0/lattice/internal/presentation/outline"
	"github.com/aretw0/lattice/internal/presentation/tui"
)

// showCmd renders a stored document as a markdown outline.
var showCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Render a stored document's block tree",
	Long:  `Loads a document from the configured store and prints its block structure as a rendered markdown outline.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		configPath, _ := cmd.Flags().GetString("config")
		docID := args[0]

		cfg, err := config.Load(configPath)
		if err != nil {
			fmt.Printf("Error loading config: %v\n", err)
			os.Exit(1)
		}

		store, _, err := buildStore(cfg)
		if err != nil {
			fmt.Printf("Error building store: %v\n", err)
			os.Exit(1)
		}

		doc, err := store.Load(context.Background(), docID)
		if err != nil {
			fmt.Printf("Error loading document: %v\n", err)
			os.Exit(1)
		}

		markdown := outline.GenerateMarkdown(docID, doc)
		render := tui.NewRenderer()
		out, err := render(markdown)
		if err != nil {
			// Fall back to the raw outline.
			out = markdown
		}
		fmt.Print(out)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}

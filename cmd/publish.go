package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/grovetools/voice2doc/internal/notion"
)

func newPublishCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "publish <markdown-file>",
		Short: "Publish a rendered markdown document to Notion",
		Long: `Publish a markdown file as a new Notion page under a parent page.

The integration token is read from NOTION_TOKEN. The parent page comes
from --parent or the notion.parent_page_id config setting.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}

			parent, _ := cmd.Flags().GetString("parent")
			if parent == "" {
				parent = cfg.Notion.ParentPageID
			}
			if parent == "" {
				return fmt.Errorf("no parent page: pass --parent or set notion.parent_page_id in the config")
			}

			token := os.Getenv("NOTION_TOKEN")
			if token == "" {
				return fmt.Errorf("NOTION_TOKEN is not set")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading markdown: %w", err)
			}
			md := string(data)

			title, _ := cmd.Flags().GetString("title")
			if title == "" {
				fallback := strings.TrimSuffix(args[0], ".md")
				title = notion.ExtractTitle(md, fallback)
			}
			emoji, _ := cmd.Flags().GetString("emoji")
			if emoji == "" {
				emoji = cfg.Notion.Icon
			}

			client := notion.NewClient(token)
			pageID, err := client.CreatePage(cmd.Context(), notion.CreatePageRequest{
				ParentPageID: parent,
				Title:        title,
				EmojiIcon:    emoji,
				Children:     notion.BlocksFromMarkdown(md),
			})
			if err != nil {
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created Notion page: %s\n", pageID)
			return nil
		},
	}

	cmd.Flags().String("parent", "", "Parent page ID (defaults to notion.parent_page_id in config)")
	cmd.Flags().String("title", "", "Override page title")
	cmd.Flags().String("emoji", "", "Emoji icon for the page")

	return cmd
}

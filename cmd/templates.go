package cmd

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/grovetools/voice2doc/internal/display"
)

func newTemplatesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "templates",
		Short: "List registered document templates",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			registry, err := loadRegistry(cfg)
			if err != nil {
				return err
			}

			titleStyle := lipgloss.NewStyle().Bold(true).Foreground(display.DefaultColors.Blue)
			requiredStyle := lipgloss.NewStyle().Foreground(display.DefaultColors.Yellow)
			mutedStyle := lipgloss.NewStyle().Foreground(display.DefaultColors.MutedText)

			out := cmd.OutOrStdout()
			for _, typeID := range registry.Types() {
				tmpl, _ := registry.Lookup(typeID)
				fmt.Fprintf(out, "%s %s\n", titleStyle.Render(typeID), mutedStyle.Render("("+tmpl.Title+")"))
				for _, section := range tmpl.Sections {
					marker := " "
					if section.Required {
						marker = requiredStyle.Render("*")
					}
					limit := ""
					if section.MaxItems > 0 {
						limit = mutedStyle.Render(fmt.Sprintf(" (max %d)", section.MaxItems))
					}
					fmt.Fprintf(out, "  %s %s%s\n", marker, section.Name, limit)
				}
				fmt.Fprintln(out)
			}
			fmt.Fprintf(out, "%s\n", mutedStyle.Render("* required section"))
			return nil
		},
	}

	return cmd
}

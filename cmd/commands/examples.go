package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pluqqy/memberdesk/internal/cli"
	"github.com/pluqqy/memberdesk/pkg/examples"
)

// NewExamplesCommand creates the examples command
func NewExamplesCommand() *cobra.Command {
	var listOnly bool
	var force bool

	cmd := &cobra.Command{
		Use:   "examples [category]",
		Short: "Add sample members to your project",
		Long: `Add sample member profiles to try the browser and editor with.

Categories:
  team         - A small product team (default)
  community    - Garden club volunteers with longer bios
  all          - Every example set

Members whose email already exists are skipped unless --force is given.`,
		Example: `  # Add the team examples
  memberdesk examples

  # List available examples without installing
  memberdesk examples --list

  # Reset all example members to their sample values
  memberdesk examples all --force`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			category := "team"
			if listOnly {
				category = "all"
			}
			if len(args) > 0 {
				category = args[0]
			}
			if !cli.Contains(examples.Categories, category) {
				return fmt.Errorf("invalid category '%s'. Valid categories: %s",
					category, strings.Join(examples.Categories, ", "))
			}

			if listOnly {
				listExamples(cmd, category)
				return nil
			}
			return installExamples(cmd, category, force)
		},
	}

	cmd.Flags().BoolVarP(&listOnly, "list", "l", false, "List available examples without installing")
	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite members that already exist")

	return cmd
}

func listExamples(cmd *cobra.Command, category string) {
	out := cmd.OutOrStdout()
	for _, set := range examples.GetExamples(category) {
		fmt.Fprintf(out, "[%s] %s\n", set.Category, set.Name)
		fmt.Fprintf(out, "   %s\n", set.Description)
		for _, m := range set.Members {
			fmt.Fprintf(out, "   • %s %s <%s>\n", m.FirstName, m.LastName, m.Email)
		}
		fmt.Fprintln(out)
	}
	fmt.Fprintf(out, "To install, run: memberdesk examples <category>\n")
}

func installExamples(cmd *cobra.Command, category string, force bool) error {
	ctx, s, err := openProject(cmd)
	if err != nil {
		return err
	}
	defer ctx.Close()

	var total examples.InstallResult
	for _, set := range examples.GetExamples(category) {
		res, err := examples.Install(cmd.Context(), s, set, force, time.Now().UTC())
		if err != nil {
			return fmt.Errorf("failed to install %s: %w", set.Name, err)
		}
		total.Added += res.Added
		total.Updated += res.Updated
		total.Skipped += res.Skipped
	}

	cli.PrintSuccess("Added %d, updated %d, skipped %d example member(s)", total.Added, total.Updated, total.Skipped)
	if total.Skipped > 0 {
		cli.PrintInfo("Use --force to overwrite existing members")
	}
	return nil
}

package cli

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/frherrer/GoE2E-CaseDoc/internal/casedoc"
	"github.com/frherrer/GoE2E-CaseDoc/internal/source"
)

var extractID string

var extractCmd = &cobra.Command{
	Use:   "extract FILE.go",
	Short: "Print the test-case documents embedded in a Go source file",
	Long: `Collects the @casedoc comments of a Go source file, assembles one document
per id and prints its reStructuredText. Issues are written to stderr.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", args[0], err)
		}

		groups, err := source.ExtractDocFragments(string(content))
		if err != nil {
			return err
		}

		ids := make([]string, 0, len(groups))
		for id := range groups {
			if extractID == "" || id == extractID {
				ids = append(ids, id)
			}
		}
		if len(ids) == 0 {
			if extractID != "" {
				return fmt.Errorf("no @casedoc fragments with id %q in %s", extractID, args[0])
			}
			return fmt.Errorf("no @casedoc fragments in %s", args[0])
		}
		sort.Strings(ids)

		out := cmd.OutOrStdout()
		for i, id := range ids {
			doc := groups[id].BuildDoc()
			if i > 0 {
				fmt.Fprintln(out)
			}
			if len(ids) > 1 {
				fmt.Fprintf(out, ".. %s\n\n", id)
			}
			fmt.Fprint(out, doc.BuildRST())
			reportIssues(cmd, args[0], id, doc)
		}
		return nil
	},
}

func reportIssues(cmd *cobra.Command, file, id string, doc *casedoc.Document) {
	for _, issue := range doc.Issues() {
		fmt.Fprintf(cmd.ErrOrStderr(), "%s [%s]: %s\n", file, id, issue)
	}
}

func init() {
	extractCmd.Flags().StringVar(&extractID, "id", "", "only print the document with this id")
	rootCmd.AddCommand(extractCmd)
}

// Package runs implements read-only inspection of past pipeline runs stored
// in the local database.
package runs

import (
	"fmt"
	"strings"

	"github.com/urfave/cli/v2"

	dbpkg "github.com/avolkov/minutedigest/pkg/db"
)

func ListAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	var runs []dbpkg.Run
	if c.Bool("today") || c.Bool("failed") || c.String("stage") != "" {
		runs, err = database.QueryRuns(c.Bool("today"), c.Bool("failed"), c.String("stage"))
	} else {
		runs, err = database.ListRuns(c.Int("limit"))
	}
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Println("No runs found")
		return nil
	}

	fmt.Printf("%-6s %-20s %-10s %-10s %-8s %-8s %-10s\n",
		"ID", "Created", "Stage", "Docs", "OK", "Failed", "Duration")
	fmt.Println(strings.Repeat("-", 80))

	for _, r := range runs {
		fmt.Printf("%-6d %-20s %-10s %-10d %-8d %-8d %-10s\n",
			r.RunID,
			r.CreatedAt.Format("2006-01-02 15:04:05"),
			r.Stage,
			r.DocumentCount,
			r.SuccessCount,
			r.FailedCount,
			r.Duration,
		)
	}

	fmt.Printf("\nTotal: %d runs\n", len(runs))
	fmt.Printf("\nTip: Use 'minutedigest runs show <id>' to see details\n")
	return nil
}

// ShowAction prints the full record of one run: categories, documents, and
// summaries.
func ShowAction(c *cli.Context) error {
	database, err := dbpkg.Open()
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer database.Close()

	runID, err := runIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	fmt.Printf("Run %d\n", run.RunID)
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Created:    %s\n", run.CreatedAt.Format("2006-01-02 15:04:05"))
	fmt.Printf("Stage:      %s\n", run.Stage)
	if run.PortalURL != "" {
		fmt.Printf("Portal:     %s\n", run.PortalURL)
	}
	fmt.Printf("Documents:  %d total (%d success, %d failed)\n",
		run.DocumentCount, run.SuccessCount, run.FailedCount)
	fmt.Printf("Duration:   %s\n", run.Duration)

	categories, err := database.GetRunCategories(runID)
	if err != nil {
		return fmt.Errorf("failed to get run categories: %w", err)
	}
	if len(categories) > 0 {
		fmt.Printf("\nCategories (%d):\n", len(categories))
		fmt.Println(strings.Repeat("-", 60))
		for _, cat := range categories {
			fmt.Printf("  %-40s %d documents\n", cat.Name, cat.DocCount)
		}
	}

	docs, err := database.GetRunDocuments(runID)
	if err != nil {
		return fmt.Errorf("failed to get run documents: %w", err)
	}
	if len(docs) > 0 {
		fmt.Printf("\nDocuments (%d):\n", len(docs))
		fmt.Println(strings.Repeat("-", 60))
		for i, d := range docs {
			fmt.Printf("%3d. [%s] %s\n", i+1, d.Status, d.URL)
			if d.Status == dbpkg.StatusFailed && d.ErrorMessage != "" {
				fmt.Printf("     Error: %s\n", d.ErrorMessage)
			}
			if d.FilePath != "" {
				fmt.Printf("     File: %s\n", d.FilePath)
			}
		}
	}

	summaries, err := database.GetRunSummaries(runID)
	if err != nil {
		return fmt.Errorf("failed to get run summaries: %w", err)
	}
	if len(summaries) > 0 {
		fmt.Printf("\nSummaries (%d):\n", len(summaries))
		fmt.Println(strings.Repeat("-", 60))
		for i, s := range summaries {
			status := "ok"
			if s.Failed {
				status = "failed"
			}
			fmt.Printf("%3d. [%s] %s -> %s\n", i+1, status, s.SourceFile, s.SummaryPath)
			if s.Language != "" && s.Language != "English" {
				fmt.Printf("     Language: %s\n", s.Language)
			}
		}
	}

	return nil
}

// runIDOrLatest resolves the run ID argument, defaulting to the most recent
// run when none is given.
func runIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.Args().Len() > 0 {
		var runID int64
		if _, err := fmt.Sscanf(c.Args().First(), "%d", &runID); err != nil {
			return 0, fmt.Errorf("invalid run ID %q", c.Args().First())
		}
		return runID, nil
	}

	runs, err := database.ListRuns(1)
	if err != nil {
		return 0, fmt.Errorf("failed to find latest run: %w", err)
	}
	if len(runs) == 0 {
		return 0, fmt.Errorf("no runs recorded yet")
	}
	return runs[0].RunID, nil
}

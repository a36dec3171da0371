package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"bench-match-go/internal/model"
	"bench-match-go/internal/service"

	"github.com/spf13/cobra"
)

var (
	searchRole          string
	searchSkills        []string
	searchCerts         []string
	searchMinExperience float64
	searchTopN          int
	searchAllowPartial  bool
	searchJSON          bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Rank bench employees against an ad-hoc requirement",
	Long:  "Runs the full match pipeline for a requirement built from the flags, using the query as the requirement summary. Nothing is persisted.",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchRole, "role", "", "Role title")
	searchCmd.Flags().StringSliceVar(&searchSkills, "skills", nil, "Required skills, comma separated")
	searchCmd.Flags().StringSliceVar(&searchCerts, "certs", nil, "Required certifications, comma separated")
	searchCmd.Flags().Float64Var(&searchMinExperience, "min-experience", 0, "Minimum years of experience")
	searchCmd.Flags().IntVarP(&searchTopN, "top-n", "n", 0, "Number of candidates to return (0 uses the configured default)")
	searchCmd.Flags().BoolVar(&searchAllowPartial, "allow-partial", false, "Also admit partially available employees")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "Print the full match outcome as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	req := model.Requirement{
		RoleTitle:              searchRole,
		RequiredSkills:         searchSkills,
		RequiredCertifications: searchCerts,
		MinExperience:          searchMinExperience,
	}
	if len(args) == 1 {
		req.Summary = args[0]
	}
	if err := service.ValidateRequirement(req); err != nil {
		return err
	}

	ctx := cmd.Context()
	app, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	outcome, err := app.Matcher.Match(ctx, req, service.MatchOptions{TopN: searchTopN, AllowPartial: searchAllowPartial})
	if err != nil {
		return err
	}

	if searchJSON {
		out, err := json.MarshalIndent(outcome, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal match outcome: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	}
	return printShortlist(cmd.OutOrStdout(), outcome)
}

// printShortlist renders the ranked candidates as an aligned table followed by each rationale.
func printShortlist(w io.Writer, outcome *model.MatchOutcome) error {
	if len(outcome.Candidates) == 0 {
		_, err := fmt.Fprintf(w, "No eligible candidates (retrieved %d, dropped %d missing, %d not eligible)\n",
			outcome.Stats.Retrieved, outcome.Stats.DroppedMissing, outcome.Stats.DroppedNotEligible)
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "RANK\tEMPLOYEE\tNAME\tROLE\tFIT\tSKILLS\tEXP\tCERTS\tFINAL")
	for _, c := range outcome.Candidates {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%d%%\t%.0f%%\t%.0f%%\t%.0f%%\t%.3f\n",
			c.Rank, c.EmployeeID, c.Name, c.Role, c.Scores.OverallFit,
			c.Scores.SkillMatchPct, c.Scores.ExperienceMatchPct, c.Scores.CertMatchPct, c.FinalScore)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(w)
	for _, c := range outcome.Candidates {
		fmt.Fprintf(w, "#%d %s [%s]\n  %s\n", c.Rank, c.Name, c.Rationale.Source, strings.TrimSpace(c.Rationale.Text))
	}
	return nil
}

package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/pws-advisor-service/internal/compose"
	"github.com/couchcryptid/pws-advisor-service/internal/domain"
	"github.com/couchcryptid/pws-advisor-service/internal/plan"
)

var rankCmd = &cobra.Command{
	Use:   "rank",
	Short: "Rank capital assets by risk and estimate years to fund",
	Long:  `Reads one asset per line, e.g. "Well 1 (1985) | condition: Fair | est. cost: 120000", and prints them by descending risk and cost.`,
	Args:  cobra.NoArgs,
	RunE:  runRank,
}

var (
	rankFile    string
	rankBudget  float64
	rankHorizon int
)

func init() {
	defaults := plan.Default().Capital
	rankCmd.Flags().StringVarP(&rankFile, "file", "f", "", "Path to the asset list, or - for stdin (required)")
	rankCmd.Flags().Float64Var(&rankBudget, "budget", defaults.AnnualBudget, "Annual capital budget ($)")
	rankCmd.Flags().IntVar(&rankHorizon, "horizon", defaults.HorizonYears, "Planning horizon (years)")

	if err := rankCmd.MarkFlagRequired("file"); err != nil {
		panic(fmt.Sprintf("failed to mark file flag as required: %v", err))
	}

	rootCmd.AddCommand(rankCmd)
}

func runRank(cmd *cobra.Command, _ []string) error {
	if rankHorizon < 1 {
		return fmt.Errorf("horizon must be at least 1, got %d", rankHorizon)
	}

	var (
		data []byte
		err  error
	)
	if rankFile == "-" {
		data, err = io.ReadAll(cmd.InOrStdin())
	} else {
		data, err = os.ReadFile(rankFile)
	}
	if err != nil {
		return fmt.Errorf("failed to read asset list: %w", err)
	}

	funding := domain.PlanFunding(domain.RankAssets(domain.SplitAssetLines(string(data))), rankBudget, rankHorizon)
	writeFunding(cmd.OutOrStdout(), funding)
	return nil
}

func writeFunding(w io.Writer, p domain.FundingPlan) {
	for i, a := range p.Assets {
		cost := "n/a"
		if a.EstimatedCost != nil {
			cost = compose.Dollars(*a.EstimatedCost)
		}
		fmt.Fprintf(w, "%d. %s | condition: %s | age: %d | risk: %d | cost: %s | target: Year %d\n",
			i+1, a.Name, a.Condition, a.Age, a.RiskScore, cost, domain.ScheduleYear(i, p.HorizonYears))
	}
	fmt.Fprintf(w, "Total: %s\n", compose.Dollars(p.TotalEstimatedCost))
	fmt.Fprintf(w, "Years to fund at %s/yr: %d\n", compose.Dollars(int64(p.AnnualBudget)), p.YearsToFund)
}

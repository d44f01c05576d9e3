package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/couchcryptid/pws-advisor-service/internal/domain"
)

var adviseCmd = &cobra.Command{
	Use:   "advise",
	Short: "Evaluate a SCADA reading against operating thresholds",
	Long:  "Prints one recommendation per line for the given reading. Flags that are not set are treated as not entered and skipped.",
	Args:  cobra.NoArgs,
	RunE:  runAdvise,
}

var adviseFlags struct {
	tank      float64
	pressure  float64
	flow      float64
	chlorine  float64
	turbidity float64
	calls     float64
}

func init() {
	f := adviseCmd.Flags()
	f.Float64Var(&adviseFlags.tank, "tank", 0, "Tank level (%)")
	f.Float64Var(&adviseFlags.pressure, "pressure", 0, "Distribution pressure (psi)")
	f.Float64Var(&adviseFlags.flow, "flow", 0, "Flow (gpm)")
	f.Float64Var(&adviseFlags.chlorine, "chlorine", 0, "Free chlorine (mg/L)")
	f.Float64Var(&adviseFlags.turbidity, "turbidity", 0, "Turbidity (NTU)")
	f.Float64Var(&adviseFlags.calls, "calls", 0, "Customer calls in the last hour")

	rootCmd.AddCommand(adviseCmd)
}

func runAdvise(cmd *cobra.Command, _ []string) error {
	reading := readingFromFlags(cmd)
	for _, rec := range domain.DeriveRecommendations(reading) {
		fmt.Fprintln(cmd.OutOrStdout(), rec)
	}
	return nil
}

// readingFromFlags keeps only the flags the operator actually passed, so an
// unset flag is "not entered" rather than zero.
func readingFromFlags(cmd *cobra.Command) domain.AdvisoryReading {
	set := func(name string, v float64) *float64 {
		if !cmd.Flags().Changed(name) {
			return nil
		}
		return domain.Float(v)
	}
	return domain.AdvisoryReading{
		TankLevelPct:    set("tank", adviseFlags.tank),
		PressurePsi:     set("pressure", adviseFlags.pressure),
		FlowGpm:         set("flow", adviseFlags.flow),
		FreeChlorineMgL: set("chlorine", adviseFlags.chlorine),
		TurbidityNTU:    set("turbidity", adviseFlags.turbidity),
		CallsLastHour:   set("calls", adviseFlags.calls),
	}
}

package commands

import (
	"fmt"

	"github.com/de-tools/churn-scope/pkg/runtime/terminal/export"
	"github.com/de-tools/churn-scope/pkg/services/compare"
	"github.com/spf13/cobra"
)

type CompareCmd struct {
	store         storeFlags
	minSampleSize int
	reporter      *export.Reporter
}

func NewCompareCmd(reporter *export.Reporter) *cobra.Command {
	cc := &CompareCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "compare <baseline-id> <target-id>",
		Short: "Compute the delta between two snapshots (target minus baseline)",
		Args:  cobra.ExactArgs(2),
		RunE:  cc.run,
	}

	cc.store.register(cmd)
	cmd.Flags().IntVar(&cc.minSampleSize, "min-sample-size", compare.DefaultSettings().MinSampleSize,
		"Customer count below which the comparison is flagged low-confidence")

	return cmd
}

func (cc *CompareCmd) run(cmd *cobra.Command, args []string) error {
	historyService, closeDB, err := cc.store.openHistory()
	if err != nil {
		return err
	}
	defer func() {
		_ = closeDB()
	}()

	engine := compare.NewEngine(historyService, compare.Settings{MinSampleSize: cc.minSampleSize})
	report, err := engine.Compare(cmd.Context(), args[0], args[1])
	if err != nil {
		return fmt.Errorf("compare %s and %s: %w", args[0], args[1], err)
	}
	return cc.reporter.HandleComparison(report)
}

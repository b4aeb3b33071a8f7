package commands

import (
	"github.com/de-tools/churn-scope/pkg/runtime/terminal/export"
	"github.com/spf13/cobra"
)

type HistoryCmd struct {
	store    storeFlags
	owner    string
	reporter *export.Reporter
}

func NewHistoryCmd(reporter *export.Reporter) *cobra.Command {
	hc := &HistoryCmd{reporter: reporter}
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List stored snapshots for an owner, most recent first",
		RunE:  hc.run,
	}

	hc.store.register(cmd)
	cmd.Flags().StringVar(&hc.owner, "owner", "", "Owner whose snapshots to list")
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func (hc *HistoryCmd) run(cmd *cobra.Command, _ []string) error {
	historyService, closeDB, err := hc.store.openHistory()
	if err != nil {
		return err
	}
	defer func() {
		_ = closeDB()
	}()

	snapshots, err := historyService.ListByOwner(cmd.Context(), hc.owner)
	if err != nil {
		return err
	}
	return hc.reporter.HandleHistory(hc.owner, snapshots)
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/crmkit-dev/crmkit/internal/report"
)

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Show pipeline metrics and recent records",
	RunE:  runDashboard,
}

func runDashboard(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	overview, err := report.BuildOverview(ctx, report.Stores{
		Contacts:   stores.Contacts,
		Deals:      stores.Deals,
		Activities: stores.Activities,
	})
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(overview)
	}

	m := overview.Metrics
	fmt.Printf("Contacts:        %d\n", m.TotalContacts)
	fmt.Printf("Active deals:    %d\n", m.ActiveDeals)
	fmt.Printf("Pipeline value:  %s\n", overview.PipelineFormatted)
	fmt.Printf("Won deals:       %d\n", m.WonDeals)

	if len(overview.RecentDeals) > 0 {
		fmt.Println("\nRecent deals:")
		for _, d := range overview.RecentDeals {
			fmt.Printf("  #%-4d %-30s %-12s %s\n", d.ID, d.Title, d.Stage, report.FormatUSD(d.Value))
		}
	}
	if len(overview.RecentActivities) > 0 {
		fmt.Println("\nRecent activity:")
		for _, a := range overview.RecentActivities {
			who := a.ContactName
			if who == "" {
				who = fmt.Sprintf("contact %d", a.ContactID)
			}
			fmt.Printf("  %s  %-8s %-20s %s\n", a.Date.Format("2006-01-02"), a.Type, who, a.Description)
		}
	}
	return nil
}

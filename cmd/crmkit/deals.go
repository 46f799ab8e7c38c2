package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crmkit-dev/crmkit/internal/report"
	"github.com/crmkit-dev/crmkit/pkg/crm"
)

var dealsCmd = &cobra.Command{
	Use:   "deals",
	Short: "List and manage deals",
	RunE:  runDealsList,
}

var dealsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all deals, newest first",
	RunE:  runDealsList,
}

var dealsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one deal",
	Args:  cobra.ExactArgs(1),
	RunE:  runDealsGet,
}

var dealCreateFlags struct {
	title       string
	contactID   int
	value       float64
	stage       string
	probability int
	closeDate   string
	notes       string
}

var dealsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a deal",
	RunE:  runDealsCreate,
}

var dealsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a deal",
	Args:  cobra.ExactArgs(1),
	RunE:  runDealsDelete,
}

func init() {
	f := dealsCreateCmd.Flags()
	f.StringVar(&dealCreateFlags.title, "title", "", "deal title (required)")
	f.IntVar(&dealCreateFlags.contactID, "contact", 0, "contact id (required)")
	f.Float64Var(&dealCreateFlags.value, "value", 0, "deal value in USD (required)")
	f.StringVar(&dealCreateFlags.stage, "stage", "", "stage: Lead, Qualified, Proposal, Negotiation or Closed")
	f.IntVar(&dealCreateFlags.probability, "probability", 0, "win probability, 0-100")
	f.StringVar(&dealCreateFlags.closeDate, "close-date", "", "expected close date, YYYY-MM-DD (required)")
	f.StringVar(&dealCreateFlags.notes, "notes", "", "free-form notes")

	dealsCmd.AddCommand(dealsListCmd, dealsGetCmd, dealsCreateCmd, dealsDeleteCmd)
}

func runDealsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	deals, err := stores.Deals.GetAll(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(deals)
	}

	tw := newTable("ID", "TITLE", "CONTACT", "VALUE", "STAGE", "PROB", "CLOSE DATE")
	for _, d := range deals {
		tw.row(d.ID, d.Title, d.ContactID, report.FormatUSD(d.Value), string(d.Stage),
			fmt.Sprintf("%d%%", d.Probability), d.ExpectedCloseDate.Format("2006-01-02"))
	}
	return tw.flush()
}

func runDealsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	deal, err := stores.Deals.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if deal == nil {
		return fmt.Errorf("deal %d not found", id)
	}
	return printJSON(deal)
}

func runDealsCreate(cmd *cobra.Command, args []string) error {
	draft := crm.Deal{
		Title:       dealCreateFlags.title,
		ContactID:   dealCreateFlags.contactID,
		Value:       dealCreateFlags.value,
		Stage:       crm.DealStage(dealCreateFlags.stage),
		Probability: dealCreateFlags.probability,
		Notes:       dealCreateFlags.notes,
	}
	if dealCreateFlags.closeDate != "" {
		t, err := time.Parse("2006-01-02", dealCreateFlags.closeDate)
		if err != nil {
			return fmt.Errorf("parsing --close-date: %w", err)
		}
		draft.ExpectedCloseDate = t
	}
	if err := crm.ValidateDeal(draft); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	created, err := stores.Deals.Create(ctx, draft)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(created)
	}
	fmt.Printf("Created deal %d: %s (%s)\n", created.ID, created.Title, report.FormatUSD(created.Value))
	return nil
}

func runDealsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := stores.Deals.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted deal %d\n", id)
	return nil
}

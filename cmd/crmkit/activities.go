package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

var activitiesCmd = &cobra.Command{
	Use:   "activities",
	Short: "List and manage logged activities",
	RunE:  runActivitiesList,
}

var activitiesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all activities, newest first",
	RunE:  runActivitiesList,
}

var activityCreateFlags struct {
	contactID   int
	dealID      int
	kind        string
	description string
	date        string
	userID      string
}

var activitiesCreateCmd = &cobra.Command{
	Use:   "log",
	Short: "Log an activity against a contact",
	RunE:  runActivitiesCreate,
}

var activitiesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runActivitiesDelete,
}

func init() {
	f := activitiesCreateCmd.Flags()
	f.IntVar(&activityCreateFlags.contactID, "contact", 0, "contact id (required)")
	f.IntVar(&activityCreateFlags.dealID, "deal", 0, "deal id (optional)")
	f.StringVar(&activityCreateFlags.kind, "type", "", "type: Call, Email, Meeting or Note")
	f.StringVar(&activityCreateFlags.description, "description", "", "what happened (required)")
	f.StringVar(&activityCreateFlags.date, "date", "", "activity time, RFC 3339 (default now)")
	f.StringVar(&activityCreateFlags.userID, "user", "", "acting user id")

	activitiesCmd.AddCommand(activitiesListCmd, activitiesCreateCmd, activitiesDeleteCmd)
}

func runActivitiesList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	activities, err := stores.Activities.GetAll(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(activities)
	}

	tw := newTable("ID", "CONTACT", "DEAL", "TYPE", "DATE", "DESCRIPTION")
	for _, a := range activities {
		deal := "-"
		if a.DealID != 0 {
			deal = fmt.Sprint(a.DealID)
		}
		tw.row(a.ID, a.ContactID, deal, string(a.Type), a.Date.Format("2006-01-02 15:04"), a.Description)
	}
	return tw.flush()
}

func runActivitiesCreate(cmd *cobra.Command, args []string) error {
	draft := crm.Activity{
		ContactID:   activityCreateFlags.contactID,
		DealID:      activityCreateFlags.dealID,
		Type:        crm.ActivityType(activityCreateFlags.kind),
		Description: activityCreateFlags.description,
		UserID:      activityCreateFlags.userID,
	}
	if activityCreateFlags.date != "" {
		t, err := time.Parse(time.RFC3339, activityCreateFlags.date)
		if err != nil {
			return fmt.Errorf("parsing --date: %w", err)
		}
		draft.Date = t
	}
	if err := crm.ValidateActivity(draft); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	created, err := stores.Activities.Create(ctx, draft)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(created)
	}
	fmt.Printf("Logged %s activity %d on contact %d\n", created.Type, created.ID, created.ContactID)
	return nil
}

func runActivitiesDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := stores.Activities.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted activity %d\n", id)
	return nil
}

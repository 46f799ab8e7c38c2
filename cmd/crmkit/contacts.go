package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/crmkit-dev/crmkit/pkg/crm"
)

var contactsCmd = &cobra.Command{
	Use:   "contacts",
	Short: "List and manage contacts",
	RunE:  runContactsList,
}

var contactsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all contacts, newest first",
	RunE:  runContactsList,
}

var contactsGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsGet,
}

var contactCreateFlags struct {
	firstName string
	lastName  string
	email     string
	phone     string
	company   string
	status    string
	tags      []string
}

var contactsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a contact",
	RunE:  runContactsCreate,
}

var contactsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a contact",
	Args:  cobra.ExactArgs(1),
	RunE:  runContactsDelete,
}

func init() {
	f := contactsCreateCmd.Flags()
	f.StringVar(&contactCreateFlags.firstName, "first-name", "", "first name (required)")
	f.StringVar(&contactCreateFlags.lastName, "last-name", "", "last name (required)")
	f.StringVar(&contactCreateFlags.email, "email", "", "email address (required)")
	f.StringVar(&contactCreateFlags.phone, "phone", "", "phone number")
	f.StringVar(&contactCreateFlags.company, "company", "", "company name")
	f.StringVar(&contactCreateFlags.status, "status", "", "status: Lead, Qualified, Active or Inactive")
	f.StringSliceVar(&contactCreateFlags.tags, "tag", nil, "tag (repeatable)")

	contactsCmd.AddCommand(contactsListCmd, contactsGetCmd, contactsCreateCmd, contactsDeleteCmd)
}

func runContactsList(cmd *cobra.Command, args []string) error {
	ctx, cancel := commandContext()
	defer cancel()

	contacts, err := stores.Contacts.GetAll(ctx)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(contacts)
	}

	tw := newTable("ID", "NAME", "EMAIL", "COMPANY", "STATUS", "TAGS")
	for _, c := range contacts {
		tw.row(c.ID, c.DisplayName(), c.Email, c.Company, string(c.Status), strings.Join(c.Tags, ","))
	}
	return tw.flush()
}

func runContactsGet(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	contact, err := stores.Contacts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if contact == nil {
		return fmt.Errorf("contact %d not found", id)
	}
	return printJSON(contact)
}

func runContactsCreate(cmd *cobra.Command, args []string) error {
	draft := crm.Contact{
		FirstName: contactCreateFlags.firstName,
		LastName:  contactCreateFlags.lastName,
		Email:     contactCreateFlags.email,
		Phone:     contactCreateFlags.phone,
		Company:   contactCreateFlags.company,
		Status:    crm.ContactStatus(contactCreateFlags.status),
		Tags:      contactCreateFlags.tags,
	}
	if err := crm.ValidateContact(draft); err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	created, err := stores.Contacts.Create(ctx, draft)
	if err != nil {
		return err
	}
	if asJSON {
		return printJSON(created)
	}
	fmt.Printf("Created contact %d: %s\n", created.ID, created.DisplayName())
	return nil
}

func runContactsDelete(cmd *cobra.Command, args []string) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := stores.Contacts.Delete(ctx, id); err != nil {
		return err
	}
	fmt.Printf("Deleted contact %d\n", id)
	return nil
}

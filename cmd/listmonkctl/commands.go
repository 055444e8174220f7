package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	listmonk "github.com/listmonk-client/client-go"
)

type clientFunc func() (*listmonk.Client, error)

func newHealthCommand(newClient clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "health",
		Short: "Check connectivity and credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			if err := client.VerifyLogin(context.Background()); err != nil {
				return err
			}
			fmt.Printf("%s is healthy\n", client.BaseURL())
			return nil
		},
	}
}

func newListsCommand(newClient clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "lists",
		Short: "Show all mailing lists",
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			lists, err := client.Lists(context.Background())
			if err != nil {
				return err
			}
			for _, l := range lists {
				fmt.Printf("%4d  %-10s %-8s %6d subscribers  %s\n",
					l.ID, l.Type, l.Optin, l.SubscriberCount, l.Name)
			}
			return nil
		},
	}
}

func newSubscriberCommand(newClient clientFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "subscriber <email>",
		Short: "Show a subscriber as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}
			sub, err := client.SubscriberByEmail(context.Background(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(sub)
		},
	}
}

func newSendCommand(newClient clientFunc) *cobra.Command {
	var (
		templateID  int
		fromEmail   string
		contentType string
		attachments []string
	)

	cmd := &cobra.Command{
		Use:   "send <subscriber-email>",
		Short: "Send a transactional email",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := newClient()
			if err != nil {
				return err
			}

			opts := []listmonk.TxOption{
				listmonk.WithTxContentType(contentType),
			}
			if fromEmail != "" {
				opts = append(opts, listmonk.WithTxFromEmail(fromEmail))
			}
			if len(attachments) > 0 {
				opts = append(opts, listmonk.WithAttachments(attachments...))
			}

			if err := client.SendTransactional(context.Background(), args[0], templateID, opts...); err != nil {
				return err
			}
			fmt.Println("sent")
			return nil
		},
	}

	cmd.Flags().IntVarP(&templateID, "template-id", "t", 0, "transactional template id")
	cmd.Flags().StringVar(&fromEmail, "from", "", "from address (defaults to the server's)")
	cmd.Flags().StringVar(&contentType, "content-type", listmonk.ContentTypeMarkdown, "content type (html, markdown, plain)")
	cmd.Flags().StringArrayVar(&attachments, "attach", nil, "attachment file path (repeatable)")
	cmd.MarkFlagRequired("template-id")

	return cmd
}

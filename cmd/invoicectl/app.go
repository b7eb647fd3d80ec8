package main

import (
	"errors"
	"fmt"
	"io"
	"log"
	"strings"
	"text/tabwriter"

	"github.com/urfave/cli/v2"

	"invoice-dashboard/pkg/config"
	"invoice-dashboard/pkg/invoicestatus"
	"invoice-dashboard/pkg/models"
	"invoice-dashboard/pkg/utils"
)

const defaultBaseURL = "http://localhost:3000"

func newApp(stdout, stderr io.Writer) *cli.App {
	return &cli.App{
		Name:      "invoicectl",
		Usage:     "list invoices and change their status",
		Writer:    stdout,
		ErrWriter: stderr,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "base-url",
				Value:   defaultBaseURL,
				Usage:   "dashboard base URL",
				EnvVars: []string{"INVOICECTL_BASE_URL"},
			},
			&cli.StringFlag{
				Name:    "token",
				Usage:   "bearer token when AUTH_REQUIRED is on",
				EnvVars: []string{"INVOICECTL_TOKEN"},
			},
		},
		Commands: []*cli.Command{
			setStatusCommand(),
			listCommand(),
			tokenCommand(),
		},
	}
}

func clientFrom(c *cli.Context) *invoicestatus.HTTPClient {
	return invoicestatus.NewHTTPClient(c.String("base-url"), c.String("token"))
}

func setStatusCommand() *cli.Command {
	return &cli.Command{
		Name:  "set-status",
		Usage: "move an invoice to pending, paid or overdue",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "id", Required: true, Usage: "invoice id"},
			&cli.StringFlag{Name: "status", Required: true, Usage: "pending | paid | overdue"},
			&cli.StringFlag{Name: "from", Usage: "current status (fetched when omitted)"},
		},
		Action: func(c *cli.Context) error {
			target, err := models.ParseInvoiceStatus(c.String("status"))
			if err != nil {
				return err
			}
			client := clientFrom(c)
			id := c.String("id")

			var current models.InvoiceStatus
			if from := c.String("from"); from != "" {
				if current, err = models.ParseInvoiceStatus(from); err != nil {
					return fmt.Errorf("--from: %w", err)
				}
			} else {
				invoice, err := client.GetInvoice(c.Context, id)
				if err != nil {
					return fmt.Errorf("fetch invoice %s: %w", id, err)
				}
				current = invoice.Status
			}

			if current == target {
				fmt.Fprintf(c.App.Writer, "invoice %s is already %s\n", id, target)
				return nil
			}

			alerted := false
			coord := invoicestatus.NewCoordinator(id, current, client, invoicestatus.NotifierFunc(func(message string) {
				alerted = true
				fmt.Fprintf(c.App.ErrWriter, "⚠️  %s\n", message)
			}))
			coord.SetLogger(log.New(c.App.ErrWriter, "", 0))

			if !coord.RequestStatusChange(c.Context, target) {
				if alerted {
					return errors.New(invoicestatus.FailureMessage)
				}
				return fmt.Errorf("invoice %s was not updated", id)
			}
			fmt.Fprintf(c.App.Writer, "✅ invoice %s: %s -> %s\n", coord.InvoiceID(), current, coord.State().Status)
			return nil
		},
	}
}

func listCommand() *cli.Command {
	return &cli.Command{
		Name:  "list",
		Usage: "show one page of invoices",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "query", Usage: "search customer, email, amount, date or status"},
			&cli.StringFlag{Name: "tab", Value: string(models.TabAll), Usage: "all | paid | pending | overdue | closed"},
			&cli.IntFlag{Name: "page", Value: 1, Usage: "page number"},
		},
		Action: func(c *cli.Context) error {
			tab, ok := models.ParseFilterTab(c.String("tab"))
			if !ok {
				return fmt.Errorf("unknown tab %q", c.String("tab"))
			}
			page := c.Int("page")
			if page < 1 {
				page = 1
			}

			rows, totalPages, err := clientFrom(c).ListInvoices(c.Context, c.String("query"), tab, page)
			if err != nil {
				return err
			}
			return printInvoices(c.App.Writer, rows, page, totalPages)
		},
	}
}

func printInvoices(w io.Writer, rows []models.InvoiceRow, page, totalPages int) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No invoices found for the selected status.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tCUSTOMER\tEMAIL\tAMOUNT\tDATE\tSTATUS")
	for _, row := range rows {
		label := invoicestatus.StatusDetails(row.Status).Label
		if label == "" {
			label = string(row.Status)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			row.ID, row.Name, row.Email,
			utils.FormatCurrency(row.Amount),
			utils.FormatDateToLocal(row.Date),
			strings.ToLower(label),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	_, err := fmt.Fprintf(w, "page %d of %d\n", page, totalPages)
	return err
}

func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "mint an admin access token",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "user-id", Required: true},
			&cli.StringFlag{Name: "email"},
			&cli.DurationFlag{Name: "ttl", Value: utils.DefaultTokenTTL},
			&cli.StringFlag{Name: "secret", Usage: "signing secret (defaults to JWT_SECRET)"},
		},
		Action: func(c *cli.Context) error {
			secret := c.String("secret")
			if secret == "" {
				cfg, err := config.LoadConfig()
				if err != nil {
					return err
				}
				secret = cfg.JWTSecret
			}
			token, expiresAt, err := utils.NewJWTService(secret).GenerateAccessToken(c.String("user-id"), c.String("email"), c.Duration("ttl"))
			if err != nil {
				return err
			}
			fmt.Fprintln(c.App.Writer, token)
			fmt.Fprintf(c.App.ErrWriter, "expires at %d\n", expiresAt)
			return nil
		},
	}
}

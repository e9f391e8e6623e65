package commands

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"invoicer/internal/cli/api"
	"invoicer/internal/config"
	"net/http"
	"net/url"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/shopspring/decimal"
)

// invoiceRow is the subset of invoice fields the CLI prints.
type invoiceRow struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoice_number"`
	InvoiceDate   time.Time       `json:"invoice_date"`
	ClientName    string          `json:"client_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
}

type invoicesCmd struct{}

func (invoicesCmd) Name() string        { return "invoices" }
func (invoicesCmd) Description() string { return "List your invoices, newest first" }
func (invoicesCmd) Usage() string       { return "invoices" }

func (invoicesCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 0 {
		return ErrUsage
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.Get(ctx, endpoint(cfg, "/api/invoices"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp, body)
	}
	var rows []invoiceRow
	if err := api.DecodeData(body, &rows); err != nil {
		return err
	}
	if len(rows) == 0 {
		fmt.Fprintln(Out, "No invoices")
		return nil
	}
	tw := tabwriter.NewWriter(Out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNUMBER\tDATE\tCLIENT\tTOTAL")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", r.ID, r.InvoiceNumber, r.InvoiceDate.Format("2006-01-02"), r.ClientName, r.TotalAmount.String())
	}
	return tw.Flush()
}

type invoiceCmd struct{}

func (invoiceCmd) Name() string        { return "invoice" }
func (invoiceCmd) Description() string { return "Show one invoice as JSON" }
func (invoiceCmd) Usage() string       { return "invoice <id>" }

func (invoiceCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.Get(ctx, endpoint(cfg, "/api/invoices/"+id), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp, body)
	}
	var data json.RawMessage
	if err := api.DecodeData(body, &data); err != nil {
		return err
	}
	return printJSON(data)
}

type createCmd struct{}

func (createCmd) Name() string        { return "create" }
func (createCmd) Description() string { return "Create an invoice from a JSON file" }
func (createCmd) Usage() string       { return "create <json-file>" }

func (createCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read %s: %w", args[0], err)
	}
	var payload json.RawMessage
	if err := json.Unmarshal(raw, &payload); err != nil {
		return fmt.Errorf("%s is not valid JSON: %w", args[0], err)
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.PostJSON(ctx, endpoint(cfg, "/api/invoices"), payload, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusCreated {
		return responseError(resp, body)
	}
	var row invoiceRow
	if err := api.DecodeData(body, &row); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Created invoice %s (id %s)\n", row.InvoiceNumber, row.ID)
	return nil
}

type deleteCmd struct{}

func (deleteCmd) Name() string        { return "delete" }
func (deleteCmd) Description() string { return "Delete an invoice" }
func (deleteCmd) Usage() string       { return "delete <id>" }

func (deleteCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	token, err := requireToken(cfg)
	if err != nil {
		return err
	}
	resp, body, err := api.Do(ctx, http.MethodDelete, endpoint(cfg, "/api/invoices/"+id), nil, token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp, body)
	}
	fmt.Fprintf(Out, "Deleted invoice %s\n", id)
	return nil
}

// parseID rejects blank ids and returns the id path-escaped.
func parseID(s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("invoice id is empty")
	}
	return url.PathEscape(s), nil
}

func printJSON(data json.RawMessage) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(Out, string(b))
	return nil
}

func init() {
	RegisterCmd(invoicesCmd{})
	RegisterCmd(invoiceCmd{})
	RegisterCmd(createCmd{})
	RegisterCmd(deleteCmd{})
}

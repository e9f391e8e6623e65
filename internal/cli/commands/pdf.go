package commands

import (
	"context"
	"fmt"
	"invoicer/internal/cli/api"
	"invoicer/internal/config"
	"mime"
	"net/http"
	"os"
)

type pdfCmd struct{}

func (pdfCmd) Name() string        { return "pdf" }
func (pdfCmd) Description() string { return "Download an invoice as PDF" }
func (pdfCmd) Usage() string       { return "pdf <id> [output-file]" }

func (pdfCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
	if len(args) < 1 || len(args) > 2 {
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
	resp, body, err := api.Get(ctx, endpoint(cfg, "/api/invoices/"+id+"/pdf"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp, body)
	}

	out := attachmentName(resp.Header.Get("Content-Disposition"), "invoice-"+id+".pdf")
	if len(args) == 2 {
		out = args[1]
	}
	if err := os.WriteFile(out, body, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}
	fmt.Fprintf(Out, "Saved %s (%d bytes)\n", out, len(body))
	return nil
}

type pdfSaveCmd struct{}

func (pdfSaveCmd) Name() string { return "pdf-save" }
func (pdfSaveCmd) Description() string {
	return "Store an invoice PDF in the server's output directory"
}
func (pdfSaveCmd) Usage() string { return "pdf-save <id>" }

func (pdfSaveCmd) Run(ctx context.Context, cfg *config.Config, args []string) error {
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
	resp, body, err := api.Get(ctx, endpoint(cfg, "/api/invoices/"+id+"/pdf?save=true"), token)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return responseError(resp, body)
	}
	var saved struct {
		Path     string `json:"path"`
		Filename string `json:"filename"`
	}
	if err := api.DecodeData(body, &saved); err != nil {
		return err
	}
	fmt.Fprintf(Out, "Server saved %s at %s\n", saved.Filename, saved.Path)
	return nil
}

// attachmentName returns the filename from a Content-Disposition header,
// or fallback if there is none.
func attachmentName(header, fallback string) string {
	_, params, err := mime.ParseMediaType(header)
	if err != nil || params["filename"] == "" {
		return fallback
	}
	return params["filename"]
}

func init() {
	RegisterCmd(pdfCmd{})
	RegisterCmd(pdfSaveCmd{})
}

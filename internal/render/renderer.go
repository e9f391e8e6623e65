// Package render merges an invoice into its HTML document and formats
// amounts and dates for display.
package render

import (
	"bytes"
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"invoicer/internal/apperr"
	"invoicer/internal/items"
	"invoicer/internal/model"
	"io/fs"
	"os"

	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

const (
	// TemplateName is the template file looked up in the renderer's filesystem.
	TemplateName = "invoice.html"
	// LogoName is the optional branding image next to the template.
	LogoName = "logo.png"
)

//go:embed templates/invoice.html
var embedded embed.FS

// Display field candidates. They differ from the normalizer's on purpose:
// stored rows may predate normalization.
var (
	displayTitleFields  = []string{"feature_title", "title", "description"}
	displayDescFields   = []string{"feature_desc", "desc", "subtitle"}
	displayDetailFields = items.DetailFields
)

// BankInfo is printed in the payment section of the document.
type BankInfo struct {
	Name        string
	Account     string
	AccountName string
}

// Input is everything the document needs.
type Input struct {
	Invoice *model.Invoice
	Bank    BankInfo
}

// ItemView is one decorated line of the items table.
type ItemView struct {
	No           int
	FeatureTitle string
	FeatureDesc  string
	Detail       string
	Price        string
	IsFree       bool
}

// View is the data handed to the template. Total comes from the stored
// total_amount, CalculatedTotal from the item prices; they are not reconciled.
type View struct {
	InvoiceNumber   string
	InvoiceDate     string
	ClientName      string
	Subtitle        string
	Items           []ItemView
	Total           string
	TotalAmount     decimal.Decimal
	CalculatedTotal string
	CalculatedSum   decimal.Decimal
	FooterText      string
	BankName        string
	BankAccount     string
	BankAccountName string
	Logo            template.URL
}

// Renderer loads its template on every call so edits to a template
// directory are picked up without a restart.
type Renderer struct {
	fsys fs.FS
}

// NewRenderer renders from fsys, which must contain TemplateName.
func NewRenderer(fsys fs.FS) *Renderer {
	return &Renderer{fsys: fsys}
}

// NewDirRenderer uses dir, or the built-in template when dir is empty.
func NewDirRenderer(dir string) *Renderer {
	if dir == "" {
		sub, _ := fs.Sub(embedded, "templates")
		return NewRenderer(sub)
	}
	return NewRenderer(os.DirFS(dir))
}

// Render produces the HTML document for in.
func (r *Renderer) Render(in Input) (string, error) {
	tpl, err := template.ParseFS(r.fsys, TemplateName)
	if err != nil {
		return "", &apperr.TemplateError{Name: TemplateName, Err: err}
	}

	view, err := r.view(in)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tpl.Execute(&buf, view); err != nil {
		return "", &apperr.RenderError{Op: "execute template", Err: err}
	}
	return buf.String(), nil
}

func (r *Renderer) view(in Input) (View, error) {
	inv := in.Invoice
	if inv == nil {
		return View{}, &apperr.RenderError{Op: "view", Err: fmt.Errorf("nil invoice")}
	}
	raw, err := inv.RawItems()
	if err != nil {
		return View{}, &apperr.RenderError{Op: "decode items", Err: err}
	}

	sum := decimal.Zero
	views := lo.Map(raw, func(it items.Raw, i int) ItemView {
		price := items.ParsePrice(it["price"])
		sum = sum.Add(price)
		return decorate(it, i, price)
	})

	footer := inv.FooterText
	if footer == "" {
		footer = model.DefaultFooterText
	}

	return View{
		InvoiceNumber:   inv.InvoiceNumber,
		InvoiceDate:     FormatLongDate(inv.InvoiceDate),
		ClientName:      inv.ClientName,
		Subtitle:        inv.Subtitle,
		Items:           views,
		Total:           FormatCurrency(inv.TotalAmount),
		TotalAmount:     inv.TotalAmount,
		CalculatedTotal: FormatCurrency(sum),
		CalculatedSum:   sum,
		FooterText:      footer,
		BankName:        in.Bank.Name,
		BankAccount:     in.Bank.Account,
		BankAccountName: in.Bank.AccountName,
		Logo:            r.logo(),
	}, nil
}

func decorate(it items.Raw, i int, price decimal.Decimal) ItemView {
	// is_free пересчитывается, если его нет в записи: нулевая цена = бесплатно
	free := price.IsZero()
	if v, ok := it["is_free"]; ok && v != nil {
		free = items.Truthy(v)
	}
	title := items.String(it, displayTitleFields...)
	if title == "" {
		title = fmt.Sprintf("Item %d", i+1)
	}
	return ItemView{
		No:           i + 1,
		FeatureTitle: title,
		FeatureDesc:  items.String(it, displayDescFields...),
		Detail:       items.String(it, displayDetailFields...),
		Price:        FormatCurrency(price),
		IsFree:       free,
	}
}

// logo returns a data URI, or "" when the asset is missing or unreadable.
func (r *Renderer) logo() template.URL {
	b, err := fs.ReadFile(r.fsys, LogoName)
	if err != nil || len(b) == 0 {
		return ""
	}
	return template.URL("data:image/png;base64," + base64.StdEncoding.EncodeToString(b))
}

package render

import (
	"invoicer/internal/apperr"
	"invoicer/internal/model"
	"strings"
	"testing"
	"testing/fstest"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func testInvoice(itemsJSON string) *model.Invoice {
	return &model.Invoice{
		ID:            "id-1",
		InvoiceNumber: "INV-2026-10-0001",
		InvoiceDate:   time.Date(2026, 10, 17, 9, 0, 0, 0, time.UTC),
		ClientName:    "PT Maju <Jaya>",
		Subtitle:      "Website",
		Items:         datatypes.JSON(itemsJSON),
		TotalAmount:   decimal.NewFromInt(150000),
	}
}

// минимальный шаблон, который выводит всё, что интересно проверять
const fieldsTemplate = `{{.InvoiceNumber}}|{{.InvoiceDate}}|{{.ClientName}}|{{.Total}}|{{.CalculatedTotal}}|{{.FooterText}}|{{.BankName}}|{{.Logo}}
{{range .Items}}{{.No}};{{.FeatureTitle}};{{.FeatureDesc}};{{.Detail}};{{.Price}};{{.IsFree}}
{{end}}`

func TestRenderer_View(t *testing.T) {
	fsys := fstest.MapFS{TemplateName: {Data: []byte(fieldsTemplate)}}
	r := NewRenderer(fsys)

	inv := testInvoice(`[
		{"feature_title":"Design","feature_desc":"UI","detail":"3 pages","price":100000,"is_free":false},
		{"title":"Logo","desc":"vector","work_detail":"svg","price":50000,"is_free":true},
		{"description":"Hosting","subtitle":"1 year","price":"0"},
		{"price":25000}
	]`)

	out, err := r.Render(Input{Invoice: inv, Bank: BankInfo{Name: "BCA", Account: "123", AccountName: "Ani"}})
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 5)

	header := strings.Split(lines[0], "|")
	assert.Equal(t, "INV-2026-10-0001", header[0])
	assert.Equal(t, "17 Oktober 2026", header[1])
	assert.Equal(t, "PT Maju &lt;Jaya&gt;", header[2]) // html/template экранирует
	assert.Equal(t, "Rp\u00a0150.000", header[3])
	// сумма по позициям считается независимо и не сверяется с total_amount
	assert.Equal(t, "Rp\u00a0175.000", header[4])
	assert.Equal(t, model.DefaultFooterText, header[5])
	assert.Equal(t, "BCA", header[6])
	assert.Equal(t, "", header[7], "missing logo must degrade to empty")

	assert.Equal(t, "1;Design;UI;3 pages;Rp\u00a0100.000;false", lines[1])
	assert.Equal(t, "2;Logo;vector;svg;Rp\u00a050.000;true", lines[2])
	// description используется и как заголовок, и как detail; is_free выводится из нулевой цены
	assert.Equal(t, "3;Hosting;1 year;Hosting;Rp\u00a00;true", lines[3])
	// без заголовка - «Item N»; без is_free и с ценой - не бесплатно
	assert.Equal(t, "4;Item 4;;;Rp\u00a025.000;false", lines[4])
}

func TestRenderer_FooterAndLogo(t *testing.T) {
	fsys := fstest.MapFS{
		TemplateName: {Data: []byte(`{{.FooterText}}|{{.Logo}}`)},
		LogoName:     {Data: []byte{0x89, 'P', 'N', 'G'}},
	}
	inv := testInvoice(`[]`)
	inv.FooterText = "Terima kasih"

	out, err := NewRenderer(fsys).Render(Input{Invoice: inv})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "Terima kasih|data:image/png;base64,"), out)
}

func TestRenderer_MissingTemplateIsTemplateError(t *testing.T) {
	r := NewRenderer(fstest.MapFS{})
	_, err := r.Render(Input{Invoice: testInvoice(`[]`)})

	var te *apperr.TemplateError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, TemplateName, te.Name)
	assert.ErrorIs(t, err, apperr.ErrRender)
}

func TestRenderer_DirMissingIsTemplateError(t *testing.T) {
	_, err := NewDirRenderer(t.TempDir()).Render(Input{Invoice: testInvoice(`[]`)})
	assert.ErrorIs(t, err, apperr.ErrRender)
}

func TestRenderer_CorruptItems(t *testing.T) {
	fsys := fstest.MapFS{TemplateName: {Data: []byte(`ok`)}}
	_, err := NewRenderer(fsys).Render(Input{Invoice: testInvoice(`{not json`)})
	assert.ErrorIs(t, err, apperr.ErrRender)
}

func TestRenderer_EmbeddedTemplate(t *testing.T) {
	inv := testInvoice(`[{"feature_title":"Design","price":100000},{"feature_title":"Logo","is_free":true,"price":0}]`)
	inv.TotalAmount = decimal.NewFromInt(100000)

	out, err := NewDirRenderer("").Render(Input{Invoice: inv, Bank: BankInfo{Name: "Bank Name", Account: "1234567890", AccountName: "Your Name"}})
	require.NoError(t, err)

	assert.Contains(t, out, "<!doctype html>")
	assert.Contains(t, out, "INV-2026-10-0001")
	assert.Contains(t, out, "17 Oktober 2026")
	assert.Contains(t, out, "Rp\u00a0100.000")
	assert.Contains(t, out, "GRATIS")
	assert.Contains(t, out, "1234567890")
	assert.Contains(t, out, model.DefaultFooterText)
	assert.NotContains(t, out, "<img")
}

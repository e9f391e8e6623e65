package model

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

func init() {
	// суммы в API отдаются числами, а не строками
	decimal.MarshalJSONWithoutQuotes = true
}

// DefaultFooterText подставляется в документ, если у счёта нет собственного текста.
const DefaultFooterText = "Invoice ini sah dan dapat digunakan sebagai bukti transaksi"

// Invoice - серверная модель счёта. Все операции фильтруются по (id, owner_id).
type Invoice struct {
	ID            string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	InvoiceNumber string    `gorm:"size:50;not null;uniqueIndex" json:"invoice_number"`
	InvoiceDate   time.Time `gorm:"not null" json:"invoice_date"`
	ClientName    string    `gorm:"size:255;not null" json:"client_name"`
	Subtitle      string    `gorm:"type:text" json:"subtitle"`

	// Items хранится сериализованным: всегда канонические позиции после нормализации,
	// но в старых строках может встретиться и «сырая» форма.
	Items       datatypes.JSON  `gorm:"not null" json:"items"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(15,2);not null" json:"total_amount"`
	FooterText  string          `gorm:"type:text" json:"footer_text"`

	OwnerID int64 `gorm:"column:owner_id;not null;index" json:"owner_id"`
	Owner   *User `gorm:"foreignKey:OwnerID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// Item - каноническая позиция счёта.
type Item struct {
	FeatureTitle string          `json:"feature_title"`
	FeatureDesc  string          `json:"feature_desc"`
	Detail       string          `json:"detail"`
	Price        decimal.Decimal `json:"price"`
	IsFree       bool            `json:"is_free"`
}

// EncodeItems сериализует позиции для колонки items.
func EncodeItems(items []Item) (datatypes.JSON, error) {
	b, err := json.Marshal(items)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(b), nil
}

// DecodeItems разбирает колонку items в канонические позиции.
func (inv *Invoice) DecodeItems() ([]Item, error) {
	var items []Item
	if len(inv.Items) == 0 {
		return items, nil
	}
	if err := json.Unmarshal(inv.Items, &items); err != nil {
		return nil, err
	}
	return items, nil
}

// RawItems разбирает колонку items без приведения к канонической форме.
func (inv *Invoice) RawItems() ([]map[string]any, error) {
	var raw []map[string]any
	if len(inv.Items) == 0 {
		return raw, nil
	}
	if err := json.Unmarshal(inv.Items, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

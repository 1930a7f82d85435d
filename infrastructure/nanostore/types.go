package nanostore

import (
	"bytes"
	"encoding/json"
)

// Tray statuses reported by the order service.
const (
	StatusInProgress = "inprogress"
	StatusReadyToUse = "tray_ready_to_use"
	StatusFailure    = "failure"
)

// Transaction types.
const (
	TypeInbound  = "inbound"
	TypeOutbound = "outbound"
)

// FlexString decodes JSON strings or numbers into a string. The order service
// is loose about id fields.
type FlexString string

func (f *FlexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = FlexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = FlexString(n.String())
	return nil
}

func (f FlexString) String() string { return string(f) }

// Order is one active use of a tray by a user, owned by the order service.
type Order struct {
	ID                  FlexString `json:"id"`
	TrayID              FlexString `json:"tray_id"`
	UserID              FlexString `json:"user_id"`
	TrayStatus          string     `json:"tray_status"`
	StationFriendlyName string     `json:"station_friendly_name"`
	UpdatedAt           string     `json:"updated_at"`
}

// Transaction is one item scan or removal recorded against an order.
type Transaction struct {
	ID              FlexString `json:"id"`
	OrderID         FlexString `json:"order_id"`
	ItemID          string     `json:"item_id"`
	TransactionType string     `json:"transaction_type"`
	Quantity        FlexString `json:"transaction_item_quantity"`
	TransactionDate string     `json:"transaction_date"`
	UpdatedAt       string     `json:"updated_at"`
}

// Tray is a physical storage bin known to the order service.
type Tray struct {
	ID         FlexString `json:"id"`
	TrayID     FlexString `json:"tray_id"`
	TrayStatus string     `json:"tray_status"`
	ItemCount  FlexString `json:"item_count"`
	UpdatedAt  string     `json:"updated_at"`
}

// TrayItem is one item stored in a tray, as returned by trays_for_order.
type TrayItem struct {
	ItemID          string     `json:"item_id"`
	ItemDescription string     `json:"item_description"`
	Quantity        FlexString `json:"item_quantity"`
}

// OrderQuery filters the order listing endpoint.
type OrderQuery struct {
	TrayID       string
	TrayStatus   string
	UserID       string
	OrderByField string
	OrderByType  string
	NumRecords   int
}

// TransactionQuery filters the transaction listing endpoint.
type TransactionQuery struct {
	OrderID         string
	TransactionType string
	OrderByField    string
	OrderByType     string
	NumRecords      int
	Offset          int
}

// TransactionInput creates one scan transaction.
type TransactionInput struct {
	OrderID  string
	ItemID   string
	Quantity int
	Type     string
	Date     string
}

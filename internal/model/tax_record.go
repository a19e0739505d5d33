package model

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// TaxState enum constants — lifecycle of a vehicle tax record
const (
	StateGenerated TaxState = "GENERATED"
	StatePaid      TaxState = "PAID"
	StateValidated TaxState = "VALIDATED"
)

type TaxState string

// TaxRecord is one annual tax obligation for one vehicle. The record is
// keyed by (plate, year_payable) in the ledger and moves through
// GENERATED -> PAID -> VALIDATED, one direction only.
type TaxRecord struct {
	Plate            string          `json:"plate"`
	OwnerDocType     string          `json:"owner_doc_type"`
	OwnerDocNumber   string          `json:"owner_doc_number"`
	YearPayable      int             `json:"year_payable"`
	GenerationDate   string          `json:"generation_date"`          // YYYYMMDD
	PaymentDate      string          `json:"payment_date,omitempty"`   // YYYYMMDD, set on payment
	ValueDue         decimal.Decimal `json:"value_due"`                // fixed at generation
	PaymentReference int             `json:"payment_reference"`        // [1000, 5000), fixed at generation
	Bank             string          `json:"bank,omitempty"`           // set on payment
	State            TaxState        `json:"state"`
}

// MarkPaid moves the record from GENERATED to PAID, setting the bank and
// payment date. Bank and payment date are written exactly once.
func (r *TaxRecord) MarkPaid(bank, paymentDate string) error {
	if r.State != StateGenerated {
		return &InvalidStateTransitionError{Action: "pay", Current: r.State}
	}
	r.State = StatePaid
	r.Bank = bank
	r.PaymentDate = paymentDate
	return nil
}

// MarkValidated moves the record from PAID to VALIDATED. A record that was
// never paid, or was already validated, cannot be validated.
func (r *TaxRecord) MarkValidated() error {
	if r.State != StatePaid {
		return &InvalidStateTransitionError{Action: "validate", Current: r.State}
	}
	r.State = StateValidated
	return nil
}

// Marshal encodes the record as the ledger value payload.
func (r *TaxRecord) Marshal() ([]byte, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("failed to serialize tax record: %w", err)
	}
	return data, nil
}

// UnmarshalTaxRecord decodes a ledger value payload back into a record.
func UnmarshalTaxRecord(data []byte) (*TaxRecord, error) {
	var rec TaxRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("failed to deserialize tax record: %w", err)
	}
	return &rec, nil
}

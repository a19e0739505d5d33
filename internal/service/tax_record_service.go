package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"strconv"
	"strings"
	"time"

	"vehicletax/internal/ledger"
	"vehicletax/internal/model"
	"vehicletax/internal/tax"
	ws "vehicletax/internal/websocket"
	"vehicletax/pkg/datefmt"

	"github.com/shopspring/decimal"
)

// --- DTOs ---

// Numeric fields arrive as strings over the transport and are parsed and
// range-checked before any ledger write.
type GenerateTaxRequest struct {
	Plate           string `json:"plate" binding:"required"`
	OwnerDocType    string `json:"owner_doc_type" binding:"required"`
	OwnerDocNumber  string `json:"owner_doc_number" binding:"required"`
	YearPayable     string `json:"year_payable" binding:"required"`
	TaxableBase     string `json:"taxable_base" binding:"required"`
	VehicleCategory string `json:"vehicle_category" binding:"required"`
	AssessedValue   string `json:"assessed_value" binding:"required"`
}

type PayTaxRequest struct {
	Plate       string `json:"plate" binding:"required"`
	YearPayable string `json:"year_payable" binding:"required"`
	Bank        string `json:"bank" binding:"required"`
}

type ValidateTaxRequest struct {
	Plate       string `json:"plate" binding:"required"`
	YearPayable string `json:"year_payable" binding:"required"`
}

// --- Interface ---

// TaxRecordService enforces the tax record lifecycle against the ledger:
// GENERATED -> PAID -> VALIDATED, one transition per call, no skips, no
// repeats, no reversals. Every handler is a single read-validate-write
// against the store; a failure anywhere aborts before the write.
type TaxRecordService interface {
	Generate(ctx context.Context, req GenerateTaxRequest, userID string) (*model.TaxRecord, error)
	Pay(ctx context.Context, req PayTaxRequest, userID string) (*model.TaxRecord, error)
	Validate(ctx context.Context, req ValidateTaxRequest, userID string) (*model.TaxRecord, error)
	GetRecord(ctx context.Context, plate string, yearPayable int) (*model.TaxRecord, error)
}

type taxRecordService struct {
	store ledger.Store
	audit AuditRecorder
	hub   *ws.Hub // optional, nil disables notifications
	now   func() time.Time
}

func NewTaxRecordService(store ledger.Store, audit AuditRecorder, hub *ws.Hub) TaxRecordService {
	return &taxRecordService{
		store: store,
		audit: audit,
		hub:   hub,
		now:   time.Now,
	}
}

// --- Implementation ---

func (s *taxRecordService) Generate(ctx context.Context, req GenerateTaxRequest, userID string) (*model.TaxRecord, error) {
	year, err := parseYear(req.YearPayable)
	if err != nil {
		return nil, err
	}
	taxableBase, err := parseAmount("taxable_base", req.TaxableBase)
	if err != nil {
		return nil, err
	}
	assessedValue, err := parseAmount("assessed_value", req.AssessedValue)
	if err != nil {
		return nil, err
	}

	valueDue, err := tax.ValueDue(req.VehicleCategory, assessedValue, taxableBase)
	if err != nil {
		return nil, err
	}

	rec := &model.TaxRecord{
		Plate:            strings.ToUpper(strings.TrimSpace(req.Plate)),
		OwnerDocType:     req.OwnerDocType,
		OwnerDocNumber:   req.OwnerDocNumber,
		YearPayable:      year,
		GenerationDate:   datefmt.Format(s.now()),
		ValueDue:         valueDue,
		PaymentReference: 1000 + rand.Intn(4000),
		State:            model.StateGenerated,
	}

	key := ledger.Key(rec.Plate, rec.YearPayable)
	data, err := rec.Marshal()
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Put(ctx, key, data, 0); err != nil {
		if errors.Is(err, ledger.ErrVersionConflict) {
			return nil, fmt.Errorf("tax record already generated for %s: %w", key, err)
		}
		return nil, err
	}

	s.recordAudit(ctx, userID, model.ActionGenerateTaxRecord, key, rec)
	s.notify("TAX_GENERATED", key, rec.State)

	return rec, nil
}

func (s *taxRecordService) Pay(ctx context.Context, req PayTaxRequest, userID string) (*model.TaxRecord, error) {
	year, err := parseYear(req.YearPayable)
	if err != nil {
		return nil, err
	}
	bank := strings.TrimSpace(req.Bank)
	if bank == "" {
		return nil, fmt.Errorf("%w: bank must not be empty", model.ErrInvalidInput)
	}

	key := ledger.Key(strings.ToUpper(strings.TrimSpace(req.Plate)), year)
	entry, rec, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	if err := rec.MarkPaid(bank, datefmt.Format(s.now())); err != nil {
		return nil, err
	}

	data, err := rec.Marshal()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, key, data, entry.Version); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, userID, model.ActionPayTaxRecord, key, rec)
	s.notify("TAX_PAID", key, rec.State)

	return rec, nil
}

func (s *taxRecordService) Validate(ctx context.Context, req ValidateTaxRequest, userID string) (*model.TaxRecord, error) {
	year, err := parseYear(req.YearPayable)
	if err != nil {
		return nil, err
	}

	key := ledger.Key(strings.ToUpper(strings.TrimSpace(req.Plate)), year)
	entry, rec, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}

	// Tax-authority bank verification is out of scope; the transition is
	// applied on the ledger state alone.
	if err := rec.MarkValidated(); err != nil {
		return nil, err
	}

	data, err := rec.Marshal()
	if err != nil {
		return nil, err
	}
	if _, err := s.store.Put(ctx, key, data, entry.Version); err != nil {
		return nil, err
	}

	s.recordAudit(ctx, userID, model.ActionValidateTaxRecord, key, rec)
	s.notify("TAX_VALIDATED", key, rec.State)

	return rec, nil
}

func (s *taxRecordService) GetRecord(ctx context.Context, plate string, yearPayable int) (*model.TaxRecord, error) {
	key := ledger.Key(strings.ToUpper(strings.TrimSpace(plate)), yearPayable)
	_, rec, err := s.fetch(ctx, key)
	if err != nil {
		return nil, err
	}
	return rec, nil
}

// --- Helpers ---

func (s *taxRecordService) fetch(ctx context.Context, key string) (*ledger.Entry, *model.TaxRecord, error) {
	entry, err := s.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, nil, fmt.Errorf("%w: %s", model.ErrRecordNotFound, key)
		}
		return nil, nil, err
	}
	rec, err := model.UnmarshalTaxRecord(entry.Value)
	if err != nil {
		return nil, nil, err
	}
	return entry, rec, nil
}

func parseYear(s string) (int, error) {
	year, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: year_payable %q is not a number", model.ErrInvalidInput, s)
	}
	if year < 1900 || year > 9999 {
		return 0, fmt.Errorf("%w: year_payable %d out of range", model.ErrInvalidInput, year)
	}
	return year, nil
}

func parseAmount(field, s string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(s))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", model.ErrInvalidInput, field, s)
	}
	if amount.Sign() <= 0 {
		return decimal.Zero, fmt.Errorf("%w: %s must be positive", model.ErrInvalidInput, field)
	}
	return amount, nil
}

// recordAudit is best-effort: a failed audit write never fails the
// transaction that already committed.
func (s *taxRecordService) recordAudit(ctx context.Context, userID, action, key string, rec *model.TaxRecord) {
	if s.audit == nil {
		return
	}
	s.audit.Record(ctx, userID, action, key, rec.Plate, map[string]interface{}{
		"plate":        rec.Plate,
		"year_payable": rec.YearPayable,
		"state":        rec.State,
		"value_due":    rec.ValueDue.String(),
	})
}

func (s *taxRecordService) notify(eventType, key string, state model.TaxState) {
	if s.hub == nil {
		return
	}
	s.hub.Publish(ws.Event{Type: eventType, Key: key, State: string(state)})
}

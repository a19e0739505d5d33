package model_test

import (
	"testing"

	"vehicletax/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *model.TaxRecord {
	return &model.TaxRecord{
		Plate:            "ABC123",
		OwnerDocType:     "CC",
		OwnerDocNumber:   "1001",
		YearPayable:      2024,
		GenerationDate:   "20240115",
		ValueDue:         decimal.NewFromInt(15000),
		PaymentReference: 2345,
		State:            model.StateGenerated,
	}
}

func TestTaxRecordTransitions(t *testing.T) {
	t.Run("generated pays once", func(t *testing.T) {
		rec := sampleRecord()
		require.NoError(t, rec.MarkPaid("BankX", "20240201"))
		assert.Equal(t, model.StatePaid, rec.State)
		assert.Equal(t, "BankX", rec.Bank)
		assert.Equal(t, "20240201", rec.PaymentDate)
	})

	t.Run("paying twice fails and names the state", func(t *testing.T) {
		rec := sampleRecord()
		require.NoError(t, rec.MarkPaid("BankX", "20240201"))

		err := rec.MarkPaid("BankY", "20240202")
		require.Error(t, err)
		var transitionErr *model.InvalidStateTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, model.StatePaid, transitionErr.Current)
		assert.Equal(t, "cannot pay tax; current state PAID is inconsistent", err.Error())

		// First payment details are untouched
		assert.Equal(t, "BankX", rec.Bank)
		assert.Equal(t, "20240201", rec.PaymentDate)
	})

	t.Run("validate requires paid", func(t *testing.T) {
		rec := sampleRecord()
		err := rec.MarkValidated()
		var transitionErr *model.InvalidStateTransitionError
		require.ErrorAs(t, err, &transitionErr)
		assert.Equal(t, model.StateGenerated, transitionErr.Current)
		assert.Equal(t, model.StateGenerated, rec.State)
	})

	t.Run("validate is terminal", func(t *testing.T) {
		rec := sampleRecord()
		require.NoError(t, rec.MarkPaid("BankX", "20240201"))
		require.NoError(t, rec.MarkValidated())
		assert.Equal(t, model.StateValidated, rec.State)

		assert.Error(t, rec.MarkValidated())
		assert.Error(t, rec.MarkPaid("BankY", "20240202"))
		assert.Equal(t, model.StateValidated, rec.State)
	})
}

func TestTaxRecordRoundTrip(t *testing.T) {
	rec := sampleRecord()
	require.NoError(t, rec.MarkPaid("BankX", "20240201"))

	data, err := rec.Marshal()
	require.NoError(t, err)

	decoded, err := model.UnmarshalTaxRecord(data)
	require.NoError(t, err)

	assert.Equal(t, rec.Plate, decoded.Plate)
	assert.Equal(t, rec.OwnerDocType, decoded.OwnerDocType)
	assert.Equal(t, rec.OwnerDocNumber, decoded.OwnerDocNumber)
	assert.Equal(t, rec.YearPayable, decoded.YearPayable)
	assert.Equal(t, rec.GenerationDate, decoded.GenerationDate)
	assert.Equal(t, rec.PaymentDate, decoded.PaymentDate)
	assert.True(t, rec.ValueDue.Equal(decoded.ValueDue))
	assert.Equal(t, rec.PaymentReference, decoded.PaymentReference)
	assert.Equal(t, rec.Bank, decoded.Bank)
	assert.Equal(t, rec.State, decoded.State)
}

func TestUnmarshalTaxRecordRejectsGarbage(t *testing.T) {
	_, err := model.UnmarshalTaxRecord([]byte("not json"))
	assert.Error(t, err)
}

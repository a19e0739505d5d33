package tax_test

import (
	"testing"

	"vehicletax/internal/model"
	"vehicletax/internal/tax"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRate(t *testing.T) {
	tests := []struct {
		name          string
		category      string
		assessedValue string
		wantRate      string
		wantErr       bool
	}{
		{name: "particular low bracket", category: tax.CategoryParticular, assessedValue: "40000000", wantRate: "0.015"},
		{name: "particular first boundary stays low", category: tax.CategoryParticular, assessedValue: "46630000", wantRate: "0.015"},
		{name: "particular mid bracket", category: tax.CategoryParticular, assessedValue: "46630001", wantRate: "0.025"},
		{name: "particular second boundary stays mid", category: tax.CategoryParticular, assessedValue: "104916000", wantRate: "0.025"},
		{name: "particular high bracket", category: tax.CategoryParticular, assessedValue: "104916001", wantRate: "0.035"},
		{name: "motorcycle flat regardless of value", category: tax.CategoryMotorcycle, assessedValue: "999999999", wantRate: "0.015"},
		{name: "public flat regardless of value", category: tax.CategoryPublic, assessedValue: "999999999", wantRate: "0.005"},
		{name: "unknown category rejected", category: "TRACTOR", assessedValue: "1000", wantErr: true},
		{name: "empty category rejected", category: "", assessedValue: "1000", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rate, err := tax.Rate(tt.category, decimal.RequireFromString(tt.assessedValue))
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, model.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.True(t, rate.Equal(decimal.RequireFromString(tt.wantRate)),
				"rate = %s, want %s", rate, tt.wantRate)
		})
	}
}

func TestValueDue(t *testing.T) {
	t.Run("rate applies to taxable base, not assessed value", func(t *testing.T) {
		// Assessed 50,000,000 selects the 2.5% bracket even though the base
		// is a different figure.
		due, err := tax.ValueDue(tax.CategoryParticular,
			decimal.NewFromInt(50_000_000), decimal.NewFromInt(1_000_000))
		require.NoError(t, err)
		assert.Equal(t, "25000", due.String())
	})

	t.Run("low bracket particular", func(t *testing.T) {
		due, err := tax.ValueDue(tax.CategoryParticular,
			decimal.NewFromInt(40_000_000), decimal.NewFromInt(1_000_000))
		require.NoError(t, err)
		assert.Equal(t, "15000", due.String())
	})

	t.Run("unknown category yields no value", func(t *testing.T) {
		_, err := tax.ValueDue("BICYCLE", decimal.NewFromInt(1), decimal.NewFromInt(1))
		assert.ErrorIs(t, err, model.ErrInvalidInput)
	})
}

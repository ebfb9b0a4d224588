package services_test

import (
	"errors"
	"testing"

	"fulfillment/internal/core/domain/model/kernel"
	"fulfillment/internal/core/domain/model/serviceability"
	"fulfillment/internal/core/domain/model/zone"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/pkg/errs"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	delhi     = kernel.MustPincode("110001")
	bengaluru = kernel.MustPincode("560001")
	remote    = kernel.MustPincode("793001")
)

func TestServiceabilityResolver_ResolvePincode(t *testing.T) {
	catalog := (&catalogStub{}).add("560001", true)

	t.Run("known pincode", func(t *testing.T) {
		res, err := newResolver(t, catalog).ResolvePincode(t.Context(), bengaluru)

		require.NoError(t, err)
		assert.True(t, res.IsServiceable)
		require.NotNil(t, res.CODAvailable)
		assert.True(t, *res.CODAvailable)
		require.NotNil(t, res.HubID)
		assert.Equal(t, "HUB-560", *res.HubID)
		assert.Nil(t, res.Zone)
	})

	t.Run("missing record is a negative answer", func(t *testing.T) {
		res, err := newResolver(t, catalog).ResolvePincode(t.Context(), remote)

		require.NoError(t, err)
		assert.False(t, res.IsServiceable)
		assert.Nil(t, res.CODAvailable)
		assert.Nil(t, res.PrepaidAvailable)
		assert.Nil(t, res.HubID)
		assert.Nil(t, res.Zone)
	})

	t.Run("zone relative to home origin", func(t *testing.T) {
		home := kernel.MustPincode("560100")
		r := services.NewServiceabilityResolver(catalog, newClassifier(t), serviceability.DefaultLimits(), &home)

		res, err := r.ResolvePincode(t.Context(), bengaluru)

		require.NoError(t, err)
		require.NotNil(t, res.Zone)
		assert.Equal(t, zone.Local, *res.Zone)
	})

	t.Run("catalog failure is an error", func(t *testing.T) {
		broken := &catalogStub{err: errors.New("catalog down")}

		_, err := newResolver(t, broken).ResolvePincode(t.Context(), bengaluru)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "catalog down")
	})
}

func TestServiceabilityResolver_ResolveRoute(t *testing.T) {
	catalog := (&catalogStub{}).
		add("110001", true, "BLUEDART", "DELHIVERY", "XPRESSBEES").
		add("560001", false, "DELHIVERY", "XPRESSBEES", "ECOM")

	t.Run("prepaid route with partner intersection", func(t *testing.T) {
		res, err := newResolver(t, catalog).ResolveRoute(t.Context(), delhi, bengaluru, serviceability.Prepaid)

		require.NoError(t, err)
		assert.True(t, res.IsServiceable)
		assert.Equal(t, zone.Metro, res.Zone)
		assert.Equal(t, []string{"DELHIVERY", "XPRESSBEES"}, res.ServiceablePartners)
	})

	t.Run("COD needs destination COD", func(t *testing.T) {
		res, err := newResolver(t, catalog).ResolveRoute(t.Context(), delhi, bengaluru, serviceability.COD)

		require.NoError(t, err)
		assert.False(t, res.IsServiceable)
		assert.Contains(t, res.Reason, "COD")
		assert.Empty(t, res.ServiceablePartners)
	})

	t.Run("unknown destination", func(t *testing.T) {
		res, err := newResolver(t, catalog).ResolveRoute(t.Context(), delhi, remote, serviceability.Prepaid)

		require.NoError(t, err)
		assert.False(t, res.IsServiceable)
		assert.Contains(t, res.Reason, "destination 793001")
	})

	t.Run("unknown payment mode", func(t *testing.T) {
		_, err := newResolver(t, catalog).ResolveRoute(t.Context(), delhi, bengaluru, serviceability.UnknownPaymentMode)
		require.ErrorIs(t, err, errs.ErrInvalidArgument)
	})
}

func TestServiceabilityResolver_ValidateOrder(t *testing.T) {
	catalog := (&catalogStub{}).add("110001", true).add("560001", true).add("400001", false)
	resolver := newResolver(t, catalog)
	mumbai := kernel.MustPincode("400001")

	t.Run("35 kg is over the 30 kg limit", func(t *testing.T) {
		res, err := resolver.ValidateOrder(t.Context(), delhi, bengaluru, serviceability.Prepaid, 35, decimal.NewFromInt(1000))

		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Equal(t, serviceability.RuleMaxWeight, res.FailedRule)
		assert.Contains(t, res.Reason, "30 kg")
	})

	t.Run("COD above the ceiling downgrades to PREPAID", func(t *testing.T) {
		res, err := resolver.ValidateOrder(t.Context(), delhi, bengaluru, serviceability.COD, 2, decimal.NewFromInt(60000))

		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.False(t, res.CODAvailable)
		require.NotNil(t, res.SuggestedPaymentMode)
		assert.Equal(t, serviceability.Prepaid, *res.SuggestedPaymentMode)
		assert.Equal(t, serviceability.RuleMaxCODValue, res.FailedRule)
	})

	t.Run("COD at the ceiling is fine", func(t *testing.T) {
		res, err := resolver.ValidateOrder(t.Context(), delhi, bengaluru, serviceability.COD, 2, decimal.NewFromInt(50000))

		require.NoError(t, err)
		assert.True(t, res.IsValid)
		assert.True(t, res.CODAvailable)
		assert.Nil(t, res.SuggestedPaymentMode)
	})

	t.Run("origin is checked first", func(t *testing.T) {
		res, err := resolver.ValidateOrder(t.Context(), remote, remote, serviceability.COD, 99, decimal.NewFromInt(99999))

		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Equal(t, serviceability.RuleOriginServiceable, res.FailedRule)
	})

	t.Run("destination before weight", func(t *testing.T) {
		res, err := resolver.ValidateOrder(t.Context(), delhi, remote, serviceability.Prepaid, 99, decimal.Zero)

		require.NoError(t, err)
		assert.Equal(t, serviceability.RuleDestinationServiceable, res.FailedRule)
	})

	t.Run("COD eligibility before weight", func(t *testing.T) {
		res, err := resolver.ValidateOrder(t.Context(), delhi, mumbai, serviceability.COD, 99, decimal.NewFromInt(100))

		require.NoError(t, err)
		assert.False(t, res.IsValid)
		assert.Equal(t, serviceability.RuleCODEligibility, res.FailedRule)
		require.NotNil(t, res.SuggestedPaymentMode)
	})

	t.Run("malformed input is an error", func(t *testing.T) {
		_, err := resolver.ValidateOrder(t.Context(), delhi, bengaluru, serviceability.Prepaid, -1, decimal.NewFromInt(-5))

		require.ErrorIs(t, err, errs.ErrInvalidArgument)
		assert.Contains(t, err.Error(), "weightKg")
		assert.Contains(t, err.Error(), "declaredValue")
	})
}

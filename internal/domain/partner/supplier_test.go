package partner

import (
	"errors"
	"testing"

	"github.com/forgeledger/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSupplier(t *testing.T) {
	scope := testScope()

	t.Run("creates supplier", func(t *testing.T) {
		s, err := NewSupplier(scope, SupplierProfile{
			Name:          " Steel Mills ",
			SupplierType:  SupplierTypeManufacturer,
			ContactPerson: "R. Iyer",
		})

		require.NoError(t, err)
		assert.Equal(t, "Steel Mills", s.Name)
		assert.Equal(t, PaymentTermsNet30, s.PaymentTerms)
		assert.True(t, s.IsActive)
		assert.Equal(t, scope.TenantID(), s.TenantID)
	})

	t.Run("rejects unknown supplier type", func(t *testing.T) {
		_, err := NewSupplier(scope, SupplierProfile{Name: "X", SupplierType: "BROKER"})

		assert.Equal(t, []string{"supplier_type"}, fieldNames(t, err))
	})

	t.Run("rejects bad phone", func(t *testing.T) {
		_, err := NewSupplier(scope, SupplierProfile{
			Name:         "X",
			SupplierType: SupplierTypeImporter,
			Phone:        "call me",
		})

		assert.Equal(t, []string{"phone"}, fieldNames(t, err))
	})
}

func TestSupplier_Lifecycle(t *testing.T) {
	s, err := NewSupplier(testScope(), SupplierProfile{Name: "Local Parts", SupplierType: SupplierTypeLocalVendor})
	require.NoError(t, err)

	require.NoError(t, s.AssignCode("SUP-001"))
	assert.True(t, errors.Is(s.AssignCode("SUP-002"), shared.ErrConflict))

	require.NoError(t, s.Deactivate())
	assert.True(t, errors.Is(s.Update(s.SupplierProfile), shared.ErrConflict))
	require.NoError(t, s.Activate())
	assert.Equal(t, "local parts", s.NameKey())
}

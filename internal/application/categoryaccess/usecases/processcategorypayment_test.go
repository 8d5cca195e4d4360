package usecases

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"genesiscode/internal/application/categoryaccess/dto"
	"genesiscode/internal/application/testutil"
	"genesiscode/internal/domain/categoryaccess"
	"genesiscode/internal/shared/errors"
)

type paymentFixture struct {
	records     *testutil.MockCategoryAccessRepository
	catalog     *testutil.MockCatalogRepository
	users       *testutil.MockUserRepository
	invalidator *testutil.MockInvalidator
	notifier    *testutil.MockNotifier
	logger      *testutil.MockLogger
	uc          *ProcessCategoryPaymentUseCase
}

func newPaymentFixture() *paymentFixture {
	f := &paymentFixture{
		records:     testutil.NewMockCategoryAccessRepository(),
		catalog:     testutil.NewMockCatalogRepository(),
		users:       testutil.NewMockUserRepository(),
		invalidator: testutil.NewMockInvalidator(),
		notifier:    testutil.NewMockNotifier(),
		logger:      testutil.NewMockLogger(),
	}
	f.users.AddUser(5, "buyer@example.com")
	f.catalog.AddCategory(1, "Backend")
	f.catalog.AddPath(10, 1, "Go Basics", [2]uint{100, 1}, [2]uint{101, 2})
	f.catalog.AddPath(11, 1, "Empty Path")
	f.uc = NewProcessCategoryPaymentUseCase(f.records, f.catalog, f.users, f.invalidator, f.notifier, f.logger)
	return f
}

func TestProcessCategoryPayment_ActivatesPurchase(t *testing.T) {
	f := newPaymentFixture()

	resp, err := f.uc.Execute(context.Background(), dto.CategoryPaymentCommand{
		UserID:           5,
		CategoryID:       1,
		PaymentReference: "pi_123",
	})

	require.NoError(t, err)
	assert.Equal(t, "purchased", resp.AccessType)
	assert.Equal(t, "active", resp.Status)
	assert.Equal(t, "pi_123", resp.PaymentReference)
	assert.Equal(t, []dto.PathFirstLevel{{PathID: 10, LevelID: 100}}, resp.FirstLevels)
	assert.True(t, f.logger.HasLevel("WARN"), "path without levels should be reported")

	assert.Equal(t, []uint{5}, f.invalidator.Invalidated())
	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	assert.Equal(t, "buyer@example.com", sent[0].To)
	assert.Equal(t, "Backend", sent[0].CategoryName)
	assert.ElementsMatch(t, []string{"Go Basics", "Empty Path"}, sent[0].PathTitles)
}

func TestProcessCategoryPayment_RetryIsIdempotent(t *testing.T) {
	f := newPaymentFixture()
	ctx := context.Background()
	cmd := dto.CategoryPaymentCommand{UserID: 5, CategoryID: 1, PaymentReference: "pi_123"}

	first, err := f.uc.Execute(ctx, cmd)
	require.NoError(t, err)
	second, err := f.uc.Execute(ctx, cmd)
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, f.records.CreateCalls)
	assert.Zero(t, f.records.UpdateCalls)
	assert.Len(t, f.notifier.Sent(), 1)
	assert.Len(t, f.invalidator.Invalidated(), 1)
}

func TestProcessCategoryPayment_UpgradesFreeAccess(t *testing.T) {
	f := newPaymentFixture()
	free, err := categoryaccess.NewCategoryAccess(5, 1, categoryaccess.AccessTypeFree, nil, "")
	require.NoError(t, err)
	f.records.Put(free)

	resp, err := f.uc.Execute(context.Background(), dto.CategoryPaymentCommand{UserID: 5, CategoryID: 1, PaymentReference: "pi_9"})

	require.NoError(t, err)
	assert.Equal(t, free.ID(), resp.ID)
	assert.Equal(t, "purchased", resp.AccessType)
	assert.Equal(t, 1, f.records.UpdateCalls)
}

func TestProcessCategoryPayment_EmailFailureDoesNotFail(t *testing.T) {
	f := newPaymentFixture()
	f.notifier.Err = fmt.Errorf("smtp down")

	_, err := f.uc.Execute(context.Background(), dto.CategoryPaymentCommand{UserID: 5, CategoryID: 1, PaymentReference: "pi_1"})

	require.NoError(t, err)
	ca, _ := f.records.GetByUserAndCategory(context.Background(), 5, 1)
	require.NotNil(t, ca)
	assert.Equal(t, categoryaccess.AccessTypePurchased, ca.AccessType())
}

func TestProcessCategoryPayment_Rejections(t *testing.T) {
	tests := []struct {
		name  string
		cmd   dto.CategoryPaymentCommand
		check func(error) bool
	}{
		{"missing reference", dto.CategoryPaymentCommand{UserID: 5, CategoryID: 1}, errors.IsValidationError},
		{"unknown user", dto.CategoryPaymentCommand{UserID: 6, CategoryID: 1, PaymentReference: "pi"}, errors.IsNotFoundError},
		{"unknown category", dto.CategoryPaymentCommand{UserID: 5, CategoryID: 9, PaymentReference: "pi"}, errors.IsNotFoundError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newPaymentFixture()

			_, err := f.uc.Execute(context.Background(), tt.cmd)

			require.Error(t, err)
			assert.True(t, tt.check(err), "unexpected error: %v", err)
			assert.Empty(t, f.notifier.Sent())
		})
	}
}

func TestGrantFreeCategoryAccess(t *testing.T) {
	records := testutil.NewMockCategoryAccessRepository()
	catalog := testutil.NewMockCatalogRepository()
	invalidator := testutil.NewMockInvalidator()
	catalog.AddCategory(1, "Backend")
	catalog.AddPath(10, 1, "Go Basics", [2]uint{101, 2}, [2]uint{100, 1})
	uc := NewGrantFreeCategoryAccessUseCase(records, catalog, invalidator, testutil.NewMockLogger())
	ctx := context.Background()

	resp, err := uc.Execute(ctx, dto.GrantFreeCategoryAccessCommand{UserID: 5, CategoryID: 1})
	require.NoError(t, err)
	assert.Equal(t, "free", resp.AccessType)
	assert.Equal(t, []dto.PathFirstLevel{{PathID: 10, LevelID: 100}}, resp.FirstLevels)
	assert.Equal(t, []uint{5}, invalidator.Invalidated())

	t.Run("does not downgrade a purchase", func(t *testing.T) {
		ca, _ := records.GetByUserAndCategory(ctx, 5, 1)
		require.NoError(t, ca.Activate(categoryaccess.AccessTypePurchased, nil, "pi_1"))

		resp, err := uc.Execute(ctx, dto.GrantFreeCategoryAccessCommand{UserID: 5, CategoryID: 1})
		require.NoError(t, err)
		assert.Equal(t, "purchased", resp.AccessType)
	})

	t.Run("reactivates inactive access", func(t *testing.T) {
		ca, _ := records.GetByUserAndCategory(ctx, 5, 1)
		ca.Deactivate()

		resp, err := uc.Execute(ctx, dto.GrantFreeCategoryAccessCommand{UserID: 5, CategoryID: 1})
		require.NoError(t, err)
		assert.Equal(t, "active", resp.Status)
		assert.Equal(t, "free", resp.AccessType)
	})

	t.Run("unknown category", func(t *testing.T) {
		_, err := uc.Execute(ctx, dto.GrantFreeCategoryAccessCommand{UserID: 5, CategoryID: 42})
		assert.True(t, errors.IsNotFoundError(err))
	})
}

package categorizer

import (
	"context"
	"time"

	"cloud.google.com/go/civil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"fjacquet/spendtag/internal/models"
)

func newTx(id string, day int, merchant, description, amount string) models.Transaction {
	return models.Transaction{
		ID:          id,
		Date:        civil.Date{Year: 2024, Month: time.April, Day: day},
		Merchant:    merchant,
		Description: description,
		Amount:      decimal.RequireFromString(amount),
		Currency:    "AED",
	}
}

func manual(tx models.Transaction, tag models.Tag, category models.Category) models.Transaction {
	if err := tx.ConfirmTag(tag); err != nil {
		panic(err)
	}
	tx.Category = category
	return tx
}

// MockAIClient is a testify mock of AIClient.
type MockAIClient struct {
	mock.Mock
}

func (m *MockAIClient) SuggestTag(ctx context.Context, tx models.Transaction) (models.Tag, models.Category, error) {
	args := m.Called(ctx, tx)
	return args.Get(0).(models.Tag), args.Get(1).(models.Category), args.Error(2)
}

package handler

import (
	"context"

	"github.com/stretchr/testify/mock"

	"github.com/vzlrn/cardcasebot/internal/cases"
	"github.com/vzlrn/cardcasebot/internal/domain"
	"github.com/vzlrn/cardcasebot/internal/relay"
)

// MockCaseService is a mock implementation of the cases.Service interface
type MockCaseService struct {
	mock.Mock
}

func (m *MockCaseService) Open(ctx context.Context, user *domain.ChatUser, mode domain.OpenMode) (*cases.OpenResult, error) {
	args := m.Called(ctx, user, mode)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*cases.OpenResult), args.Error(1)
}

func (m *MockCaseService) Remaining(ctx context.Context, user *domain.ChatUser) (int, error) {
	args := m.Called(ctx, user)
	return args.Int(0), args.Error(1)
}

func (m *MockCaseService) Inventory(ctx context.Context, user *domain.ChatUser, filter string) ([]domain.InventoryItem, error) {
	args := m.Called(ctx, user, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.InventoryItem), args.Error(1)
}

// MockExchangeService is a mock implementation of the cases.ExchangeService interface
type MockExchangeService struct {
	mock.Mock
}

func (m *MockExchangeService) CreateOffer(ctx context.Context, user *domain.ChatUser, cardID string) (domain.Offer, error) {
	args := m.Called(ctx, user, cardID)
	return args.Get(0).(domain.Offer), args.Error(1)
}

func (m *MockExchangeService) AcceptOffer(ctx context.Context, user *domain.ChatUser, offerID string) (domain.InventoryItem, error) {
	args := m.Called(ctx, user, offerID)
	return args.Get(0).(domain.InventoryItem), args.Error(1)
}

func (m *MockExchangeService) ListOffers(ctx context.Context) ([]domain.Offer, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Offer), args.Error(1)
}

// captureChannel records relayed payloads for assertions.
type captureChannel struct {
	sent []relay.Payload
	err  error
}

func (c *captureChannel) Send(_ context.Context, payload relay.Payload) error {
	if c.err != nil {
		return c.err
	}
	c.sent = append(c.sent, payload)
	return nil
}

package order

import "context"

type MockOrderService struct {
	CreateFunc     func(ctx context.Context, req CreateOrderRequest) (Order, error)
	GetFunc        func(ctx context.Context, id uint64) (Order, error)
	GetAllFunc     func(ctx context.Context, limit, offset int) ([]Order, error)
	TransitionFunc func(ctx context.Context, orderID uint64, newStatus Status, actorID uint64) error
}

func NewMockOrderService() MockOrderService {
	return MockOrderService{
		CreateFunc: func(ctx context.Context, req CreateOrderRequest) (Order, error) { return Order{}, nil },
		GetFunc:    func(ctx context.Context, id uint64) (Order, error) { return Order{}, nil },
		GetAllFunc: func(ctx context.Context, limit, offset int) ([]Order, error) { return []Order{}, nil },
		TransitionFunc: func(ctx context.Context, orderID uint64, newStatus Status, actorID uint64) error {
			return nil
		},
	}
}

func (m *MockOrderService) Create(ctx context.Context, req CreateOrderRequest) (Order, error) {
	return m.CreateFunc(ctx, req)
}

func (m *MockOrderService) Get(ctx context.Context, id uint64) (Order, error) {
	return m.GetFunc(ctx, id)
}

func (m *MockOrderService) GetAll(ctx context.Context, limit, offset int) ([]Order, error) {
	return m.GetAllFunc(ctx, limit, offset)
}

func (m *MockOrderService) Transition(ctx context.Context, orderID uint64, newStatus Status, actorID uint64) error {
	return m.TransitionFunc(ctx, orderID, newStatus, actorID)
}

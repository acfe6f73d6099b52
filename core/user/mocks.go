package user

import "context"

type MockUserService struct {
	CreateFunc func(ctx context.Context, user CreateUserRequest) (User, error)
	GetFunc    func(ctx context.Context, username string) (User, error)
	DeleteFunc func(ctx context.Context, username string) error
	LoginFunc  func(ctx context.Context, username, password string) (User, error)
}

func NewMockUserService() MockUserService {
	return MockUserService{
		CreateFunc: func(ctx context.Context, user CreateUserRequest) (User, error) { return User{}, nil },
		GetFunc:    func(ctx context.Context, username string) (User, error) { return User{}, nil },
		DeleteFunc: func(ctx context.Context, username string) error { return nil },
		LoginFunc:  func(ctx context.Context, username, password string) (User, error) { return User{}, nil },
	}
}

func (m *MockUserService) Create(ctx context.Context, user CreateUserRequest) (User, error) {
	return m.CreateFunc(ctx, user)
}

func (m *MockUserService) Get(ctx context.Context, username string) (User, error) {
	return m.GetFunc(ctx, username)
}

func (m *MockUserService) Delete(ctx context.Context, username string) error {
	return m.DeleteFunc(ctx, username)
}

func (m *MockUserService) Login(ctx context.Context, username, password string) (User, error) {
	return m.LoginFunc(ctx, username, password)
}

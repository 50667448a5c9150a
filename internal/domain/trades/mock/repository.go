package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	gomock "go.uber.org/mock/gomock"
)

// MockRepository is a mock of Repository interface.
type MockRepository struct {
	ctrl     *gomock.Controller
	recorder *MockRepositoryMockRecorder
	isgomock struct{}
}

// MockRepositoryMockRecorder is the mock recorder for MockRepository.
type MockRepositoryMockRecorder struct {
	mock *MockRepository
}

// NewMockRepository creates a new mock instance.
func NewMockRepository(ctrl *gomock.Controller) *MockRepository {
	mock := &MockRepository{ctrl: ctrl}
	mock.recorder = &MockRepositoryMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockRepository) EXPECT() *MockRepositoryMockRecorder {
	return m.recorder
}

// Accept mocks base method.
func (m *MockRepository) Accept(ctx context.Context, id int64) (int64, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Accept", ctx, id)
	ret0, _ := ret[0].(int64)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// Accept indicates an expected call of Accept.
func (mr *MockRepositoryMockRecorder) Accept(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Accept", reflect.TypeOf((*MockRepository)(nil).Accept), ctx, id)
}

// Create mocks base method.
func (m *MockRepository) Create(ctx context.Context, trade *models.TradeRequest) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, trade)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx, trade any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, trade)
}

// GetByID mocks base method.
func (m *MockRepository) GetByID(ctx context.Context, id int64) (*models.TradeRequest, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.TradeRequest)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRepository)(nil).GetByID), ctx, id)
}

// GetDetailed mocks base method.
func (m *MockRepository) GetDetailed(ctx context.Context, id int64) (*models.TradeRequest, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetDetailed", ctx, id)
	ret0, _ := ret[0].(*models.TradeRequest)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetDetailed indicates an expected call of GetDetailed.
func (mr *MockRepositoryMockRecorder) GetDetailed(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetDetailed", reflect.TypeOf((*MockRepository)(nil).GetDetailed), ctx, id)
}

// HasPending mocks base method.
func (m *MockRepository) HasPending(ctx context.Context, requesterID int64, bookID int64) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "HasPending", ctx, requesterID, bookID)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// HasPending indicates an expected call of HasPending.
func (mr *MockRepositoryMockRecorder) HasPending(ctx, requesterID, bookID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "HasPending", reflect.TypeOf((*MockRepository)(nil).HasPending), ctx, requesterID, bookID)
}

// ListForUser mocks base method.
func (m *MockRepository) ListForUser(ctx context.Context, userID int64, status models.TradeStatus) ([]*models.TradeRequest, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListForUser", ctx, userID, status)
	ret0, _ := ret[0].([]*models.TradeRequest)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListForUser indicates an expected call of ListForUser.
func (mr *MockRepositoryMockRecorder) ListForUser(ctx, userID, status any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListForUser", reflect.TypeOf((*MockRepository)(nil).ListForUser), ctx, userID, status)
}

// Transition mocks base method.
func (m *MockRepository) Transition(ctx context.Context, id int64, to models.TradeStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Transition", ctx, id, to)
	ret0, _ := ret[0].(error)
	return ret0
}

// Transition indicates an expected call of Transition.
func (mr *MockRepositoryMockRecorder) Transition(ctx, id, to any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Transition", reflect.TypeOf((*MockRepository)(nil).Transition), ctx, id, to)
}

// MockBookStore is a mock of BookStore interface.
type MockBookStore struct {
	ctrl     *gomock.Controller
	recorder *MockBookStoreMockRecorder
	isgomock struct{}
}

// MockBookStoreMockRecorder is the mock recorder for MockBookStore.
type MockBookStoreMockRecorder struct {
	mock *MockBookStore
}

// NewMockBookStore creates a new mock instance.
func NewMockBookStore(ctrl *gomock.Controller) *MockBookStore {
	mock := &MockBookStore{ctrl: ctrl}
	mock.recorder = &MockBookStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockBookStore) EXPECT() *MockBookStoreMockRecorder {
	return m.recorder
}

// GetByID mocks base method.
func (m *MockBookStore) GetByID(ctx context.Context, id int64) (*models.Book, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.Book)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockBookStoreMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockBookStore)(nil).GetByID), ctx, id)
}

// MockCoverURLs is a mock of CoverURLs interface.
type MockCoverURLs struct {
	ctrl     *gomock.Controller
	recorder *MockCoverURLsMockRecorder
	isgomock struct{}
}

// MockCoverURLsMockRecorder is the mock recorder for MockCoverURLs.
type MockCoverURLsMockRecorder struct {
	mock *MockCoverURLs
}

// NewMockCoverURLs creates a new mock instance.
func NewMockCoverURLs(ctrl *gomock.Controller) *MockCoverURLs {
	mock := &MockCoverURLs{ctrl: ctrl}
	mock.recorder = &MockCoverURLsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockCoverURLs) EXPECT() *MockCoverURLsMockRecorder {
	return m.recorder
}

// CoverURL mocks base method.
func (m *MockCoverURLs) CoverURL(ctx context.Context, key string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "CoverURL", ctx, key)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// CoverURL indicates an expected call of CoverURL.
func (mr *MockCoverURLsMockRecorder) CoverURL(ctx, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "CoverURL", reflect.TypeOf((*MockCoverURLs)(nil).CoverURL), ctx, key)
}

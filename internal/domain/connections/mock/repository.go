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

// Create mocks base method.
func (m *MockRepository) Create(ctx context.Context, conn *models.Connection) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Create", ctx, conn)
	ret0, _ := ret[0].(error)
	return ret0
}

// Create indicates an expected call of Create.
func (mr *MockRepositoryMockRecorder) Create(ctx, conn any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Create", reflect.TypeOf((*MockRepository)(nil).Create), ctx, conn)
}

// Delete mocks base method.
func (m *MockRepository) Delete(ctx context.Context, id int64) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Delete", ctx, id)
	ret0, _ := ret[0].(error)
	return ret0
}

// Delete indicates an expected call of Delete.
func (mr *MockRepositoryMockRecorder) Delete(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Delete", reflect.TypeOf((*MockRepository)(nil).Delete), ctx, id)
}

// ExistsBetween mocks base method.
func (m *MockRepository) ExistsBetween(ctx context.Context, a int64, b int64) (bool, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ExistsBetween", ctx, a, b)
	ret0, _ := ret[0].(bool)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ExistsBetween indicates an expected call of ExistsBetween.
func (mr *MockRepositoryMockRecorder) ExistsBetween(ctx, a, b any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ExistsBetween", reflect.TypeOf((*MockRepository)(nil).ExistsBetween), ctx, a, b)
}

// GetByID mocks base method.
func (m *MockRepository) GetByID(ctx context.Context, id int64) (*models.Connection, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.Connection)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRepository)(nil).GetByID), ctx, id)
}

// ListAccepted mocks base method.
func (m *MockRepository) ListAccepted(ctx context.Context, userID int64) ([]*models.Connection, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListAccepted", ctx, userID)
	ret0, _ := ret[0].([]*models.Connection)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListAccepted indicates an expected call of ListAccepted.
func (mr *MockRepositoryMockRecorder) ListAccepted(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListAccepted", reflect.TypeOf((*MockRepository)(nil).ListAccepted), ctx, userID)
}

// ListPendingFor mocks base method.
func (m *MockRepository) ListPendingFor(ctx context.Context, userID int64) ([]*models.Connection, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListPendingFor", ctx, userID)
	ret0, _ := ret[0].([]*models.Connection)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListPendingFor indicates an expected call of ListPendingFor.
func (mr *MockRepositoryMockRecorder) ListPendingFor(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListPendingFor", reflect.TypeOf((*MockRepository)(nil).ListPendingFor), ctx, userID)
}

// UpdateStatus mocks base method.
func (m *MockRepository) UpdateStatus(ctx context.Context, conn *models.Connection, to models.ConnectionStatus) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateStatus", ctx, conn, to)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateStatus indicates an expected call of UpdateStatus.
func (mr *MockRepositoryMockRecorder) UpdateStatus(ctx, conn, to any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateStatus", reflect.TypeOf((*MockRepository)(nil).UpdateStatus), ctx, conn, to)
}

// MockUserStore is a mock of UserStore interface.
type MockUserStore struct {
	ctrl     *gomock.Controller
	recorder *MockUserStoreMockRecorder
	isgomock struct{}
}

// MockUserStoreMockRecorder is the mock recorder for MockUserStore.
type MockUserStoreMockRecorder struct {
	mock *MockUserStore
}

// NewMockUserStore creates a new mock instance.
func NewMockUserStore(ctrl *gomock.Controller) *MockUserStore {
	mock := &MockUserStore{ctrl: ctrl}
	mock.recorder = &MockUserStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockUserStore) EXPECT() *MockUserStoreMockRecorder {
	return m.recorder
}

// GetByID mocks base method.
func (m *MockUserStore) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockUserStoreMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockUserStore)(nil).GetByID), ctx, id)
}

// ListUnconnected mocks base method.
func (m *MockUserStore) ListUnconnected(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListUnconnected", ctx, userID, limit)
	ret0, _ := ret[0].([]*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListUnconnected indicates an expected call of ListUnconnected.
func (mr *MockUserStoreMockRecorder) ListUnconnected(ctx, userID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListUnconnected", reflect.TypeOf((*MockUserStore)(nil).ListUnconnected), ctx, userID, limit)
}

// MockHobbyStore is a mock of HobbyStore interface.
type MockHobbyStore struct {
	ctrl     *gomock.Controller
	recorder *MockHobbyStoreMockRecorder
	isgomock struct{}
}

// MockHobbyStoreMockRecorder is the mock recorder for MockHobbyStore.
type MockHobbyStoreMockRecorder struct {
	mock *MockHobbyStore
}

// NewMockHobbyStore creates a new mock instance.
func NewMockHobbyStore(ctrl *gomock.Controller) *MockHobbyStore {
	mock := &MockHobbyStore{ctrl: ctrl}
	mock.recorder = &MockHobbyStoreMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHobbyStore) EXPECT() *MockHobbyStoreMockRecorder {
	return m.recorder
}

// NamesForUser mocks base method.
func (m *MockHobbyStore) NamesForUser(ctx context.Context, userID int64) ([]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NamesForUser", ctx, userID)
	ret0, _ := ret[0].([]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// NamesForUser indicates an expected call of NamesForUser.
func (mr *MockHobbyStoreMockRecorder) NamesForUser(ctx, userID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NamesForUser", reflect.TypeOf((*MockHobbyStore)(nil).NamesForUser), ctx, userID)
}

// NamesForUsers mocks base method.
func (m *MockHobbyStore) NamesForUsers(ctx context.Context, userIDs []int64) (map[int64][]string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "NamesForUsers", ctx, userIDs)
	ret0, _ := ret[0].(map[int64][]string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// NamesForUsers indicates an expected call of NamesForUsers.
func (mr *MockHobbyStoreMockRecorder) NamesForUsers(ctx, userIDs any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "NamesForUsers", reflect.TypeOf((*MockHobbyStore)(nil).NamesForUsers), ctx, userIDs)
}

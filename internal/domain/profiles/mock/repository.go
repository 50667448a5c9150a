package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/hobbyreads/hobbyreads/hobbyreads/database/models"
	repositories "github.com/hobbyreads/hobbyreads/hobbyreads/database/repositories"
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

// GetByID mocks base method.
func (m *MockRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetByID", ctx, id)
	ret0, _ := ret[0].(*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetByID indicates an expected call of GetByID.
func (mr *MockRepositoryMockRecorder) GetByID(ctx, id any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetByID", reflect.TypeOf((*MockRepository)(nil).GetByID), ctx, id)
}

// ListSharingHobbies mocks base method.
func (m *MockRepository) ListSharingHobbies(ctx context.Context, userID int64, limit int) ([]*models.User, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ListSharingHobbies", ctx, userID, limit)
	ret0, _ := ret[0].([]*models.User)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ListSharingHobbies indicates an expected call of ListSharingHobbies.
func (mr *MockRepositoryMockRecorder) ListSharingHobbies(ctx, userID, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ListSharingHobbies", reflect.TypeOf((*MockRepository)(nil).ListSharingHobbies), ctx, userID, limit)
}

// UpdateProfile mocks base method.
func (m *MockRepository) UpdateProfile(ctx context.Context, userID int64, update repositories.ProfileUpdate) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateProfile", ctx, userID, update)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateProfile indicates an expected call of UpdateProfile.
func (mr *MockRepositoryMockRecorder) UpdateProfile(ctx, userID, update any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateProfile", reflect.TypeOf((*MockRepository)(nil).UpdateProfile), ctx, userID, update)
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

// GetAll mocks base method.
func (m *MockHobbyStore) GetAll(ctx context.Context) ([]*models.Hobby, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GetAll", ctx)
	ret0, _ := ret[0].([]*models.Hobby)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GetAll indicates an expected call of GetAll.
func (mr *MockHobbyStoreMockRecorder) GetAll(ctx any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GetAll", reflect.TypeOf((*MockHobbyStore)(nil).GetAll), ctx)
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

// MockProfileURLs is a mock of ProfileURLs interface.
type MockProfileURLs struct {
	ctrl     *gomock.Controller
	recorder *MockProfileURLsMockRecorder
	isgomock struct{}
}

// MockProfileURLsMockRecorder is the mock recorder for MockProfileURLs.
type MockProfileURLsMockRecorder struct {
	mock *MockProfileURLs
}

// NewMockProfileURLs creates a new mock instance.
func NewMockProfileURLs(ctrl *gomock.Controller) *MockProfileURLs {
	mock := &MockProfileURLs{ctrl: ctrl}
	mock.recorder = &MockProfileURLsMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockProfileURLs) EXPECT() *MockProfileURLsMockRecorder {
	return m.recorder
}

// ProfileURL mocks base method.
func (m *MockProfileURLs) ProfileURL(ctx context.Context, key string) (string, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ProfileURL", ctx, key)
	ret0, _ := ret[0].(string)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ProfileURL indicates an expected call of ProfileURL.
func (mr *MockProfileURLsMockRecorder) ProfileURL(ctx, key any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ProfileURL", reflect.TypeOf((*MockProfileURLs)(nil).ProfileURL), ctx, key)
}

// MockHobbyMatcher is a mock of HobbyMatcher interface.
type MockHobbyMatcher struct {
	ctrl     *gomock.Controller
	recorder *MockHobbyMatcherMockRecorder
	isgomock struct{}
}

// MockHobbyMatcherMockRecorder is the mock recorder for MockHobbyMatcher.
type MockHobbyMatcherMockRecorder struct {
	mock *MockHobbyMatcher
}

// NewMockHobbyMatcher creates a new mock instance.
func NewMockHobbyMatcher(ctrl *gomock.Controller) *MockHobbyMatcher {
	mock := &MockHobbyMatcher{ctrl: ctrl}
	mock.recorder = &MockHobbyMatcherMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockHobbyMatcher) EXPECT() *MockHobbyMatcherMockRecorder {
	return m.recorder
}

// Search mocks base method.
func (m *MockHobbyMatcher) Search(hobbies []*models.Hobby, query string) []*models.Hobby {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Search", hobbies, query)
	ret0, _ := ret[0].([]*models.Hobby)
	return ret0
}

// Search indicates an expected call of Search.
func (mr *MockHobbyMatcherMockRecorder) Search(hobbies, query any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Search", reflect.TypeOf((*MockHobbyMatcher)(nil).Search), hobbies, query)
}

package mock

import (
	context "context"
	reflect "reflect"

	models "github.com/disgoorg/auction-bot/auctionbot/database/models"
	auction "github.com/disgoorg/auction-bot/auctionbot/economy/auction"
	snowflake "github.com/disgoorg/snowflake/v2"
	gomock "go.uber.org/mock/gomock"
)

// MockPlatform is a mock of Platform interface.
type MockPlatform struct {
	ctrl     *gomock.Controller
	recorder *MockPlatformMockRecorder
	isgomock struct{}
}

// MockPlatformMockRecorder is the mock recorder for MockPlatform.
type MockPlatformMockRecorder struct {
	mock *MockPlatform
}

// NewMockPlatform creates a new mock instance.
func NewMockPlatform(ctrl *gomock.Controller) *MockPlatform {
	mock := &MockPlatform{ctrl: ctrl}
	mock.recorder = &MockPlatformMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockPlatform) EXPECT() *MockPlatformMockRecorder {
	return m.recorder
}

// OpenAuction mocks base method.
func (m *MockPlatform) OpenAuction(ctx context.Context, a *models.Auction) (auction.MessageHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "OpenAuction", ctx, a)
	ret0, _ := ret[0].(auction.MessageHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// OpenAuction indicates an expected call of OpenAuction.
func (mr *MockPlatformMockRecorder) OpenAuction(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "OpenAuction", reflect.TypeOf((*MockPlatform)(nil).OpenAuction), ctx, a)
}

// ResolveMessage mocks base method.
func (m *MockPlatform) ResolveMessage(ctx context.Context, a *models.Auction) (auction.MessageHandle, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ResolveMessage", ctx, a)
	ret0, _ := ret[0].(auction.MessageHandle)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// ResolveMessage indicates an expected call of ResolveMessage.
func (mr *MockPlatformMockRecorder) ResolveMessage(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ResolveMessage", reflect.TypeOf((*MockPlatform)(nil).ResolveMessage), ctx, a)
}

// UpdateDisplay mocks base method.
func (m *MockPlatform) UpdateDisplay(ctx context.Context, a *models.Auction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "UpdateDisplay", ctx, a)
	ret0, _ := ret[0].(error)
	return ret0
}

// UpdateDisplay indicates an expected call of UpdateDisplay.
func (mr *MockPlatformMockRecorder) UpdateDisplay(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "UpdateDisplay", reflect.TypeOf((*MockPlatform)(nil).UpdateDisplay), ctx, a)
}

// FinalizeDisplay mocks base method.
func (m *MockPlatform) FinalizeDisplay(ctx context.Context, a *models.Auction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "FinalizeDisplay", ctx, a)
	ret0, _ := ret[0].(error)
	return ret0
}

// FinalizeDisplay indicates an expected call of FinalizeDisplay.
func (mr *MockPlatformMockRecorder) FinalizeDisplay(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "FinalizeDisplay", reflect.TypeOf((*MockPlatform)(nil).FinalizeDisplay), ctx, a)
}

// MarkRemoved mocks base method.
func (m *MockPlatform) MarkRemoved(ctx context.Context, a *models.Auction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "MarkRemoved", ctx, a)
	ret0, _ := ret[0].(error)
	return ret0
}

// MarkRemoved indicates an expected call of MarkRemoved.
func (mr *MockPlatformMockRecorder) MarkRemoved(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "MarkRemoved", reflect.TypeOf((*MockPlatform)(nil).MarkRemoved), ctx, a)
}

// ArchiveThread mocks base method.
func (m *MockPlatform) ArchiveThread(ctx context.Context, a *models.Auction) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "ArchiveThread", ctx, a)
	ret0, _ := ret[0].(error)
	return ret0
}

// ArchiveThread indicates an expected call of ArchiveThread.
func (mr *MockPlatformMockRecorder) ArchiveThread(ctx, a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "ArchiveThread", reflect.TypeOf((*MockPlatform)(nil).ArchiveThread), ctx, a)
}

// Notify mocks base method.
func (m *MockPlatform) Notify(ctx context.Context, userID snowflake.ID, n auction.Notification) error {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "Notify", ctx, userID, n)
	ret0, _ := ret[0].(error)
	return ret0
}

// Notify indicates an expected call of Notify.
func (mr *MockPlatformMockRecorder) Notify(ctx, userID, n any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "Notify", reflect.TypeOf((*MockPlatform)(nil).Notify), ctx, userID, n)
}

// JumpURL mocks base method.
func (m *MockPlatform) JumpURL(a *models.Auction) string {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "JumpURL", a)
	ret0, _ := ret[0].(string)
	return ret0
}

// JumpURL indicates an expected call of JumpURL.
func (mr *MockPlatformMockRecorder) JumpURL(a any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "JumpURL", reflect.TypeOf((*MockPlatform)(nil).JumpURL), a)
}

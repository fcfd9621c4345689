//	mockgen -destination=internal/usecase/mocks/mock_interfaces.go -package=mocks github.com/iho/gosettle/internal/usecase ChainGateway,SettlementRecorder
//

// Package mocks is a generated GoMock package.
package mocks

import (
	context "context"
	reflect "reflect"

	domain "github.com/iho/gosettle/internal/domain"
	usecase "github.com/iho/gosettle/internal/usecase"
	gomock "go.uber.org/mock/gomock"
)

// MockChainGateway is a mock of ChainGateway interface.
type MockChainGateway struct {
	ctrl     *gomock.Controller
	recorder *MockChainGatewayMockRecorder
	isgomock struct{}
}

// MockChainGatewayMockRecorder is the mock recorder for MockChainGateway.
type MockChainGatewayMockRecorder struct {
	mock *MockChainGateway
}

// NewMockChainGateway creates a new mock instance.
func NewMockChainGateway(ctrl *gomock.Controller) *MockChainGateway {
	mock := &MockChainGateway{ctrl: ctrl}
	mock.recorder = &MockChainGatewayMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockChainGateway) EXPECT() *MockChainGatewayMockRecorder {
	return m.recorder
}

// GroupBalances mocks base method.
func (m *MockChainGateway) GroupBalances(ctx context.Context, groupID string) (map[domain.Address]domain.Money, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "GroupBalances", ctx, groupID)
	ret0, _ := ret[0].(map[domain.Address]domain.Money)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// GroupBalances indicates an expected call of GroupBalances.
func (mr *MockChainGatewayMockRecorder) GroupBalances(ctx, groupID any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "GroupBalances", reflect.TypeOf((*MockChainGateway)(nil).GroupBalances), ctx, groupID)
}

// SettlementEvents mocks base method.
func (m *MockChainGateway) SettlementEvents(ctx context.Context, groupID string, afterSeq uint64, limit int) ([]domain.MirrorSettlement, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "SettlementEvents", ctx, groupID, afterSeq, limit)
	ret0, _ := ret[0].([]domain.MirrorSettlement)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// SettlementEvents indicates an expected call of SettlementEvents.
func (mr *MockChainGatewayMockRecorder) SettlementEvents(ctx, groupID, afterSeq, limit any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "SettlementEvents", reflect.TypeOf((*MockChainGateway)(nil).SettlementEvents), ctx, groupID, afterSeq, limit)
}

// MockSettlementRecorder is a mock of SettlementRecorder interface.
type MockSettlementRecorder struct {
	ctrl     *gomock.Controller
	recorder *MockSettlementRecorderMockRecorder
	isgomock struct{}
}

// MockSettlementRecorderMockRecorder is the mock recorder for MockSettlementRecorder.
type MockSettlementRecorderMockRecorder struct {
	mock *MockSettlementRecorder
}

// NewMockSettlementRecorder creates a new mock instance.
func NewMockSettlementRecorder(ctrl *gomock.Controller) *MockSettlementRecorder {
	mock := &MockSettlementRecorder{ctrl: ctrl}
	mock.recorder = &MockSettlementRecorderMockRecorder{mock}
	return mock
}

// EXPECT returns an object that allows the caller to indicate expected use.
func (m *MockSettlementRecorder) EXPECT() *MockSettlementRecorderMockRecorder {
	return m.recorder
}

// RecordSettlement mocks base method.
func (m *MockSettlementRecorder) RecordSettlement(ctx context.Context, input usecase.RecordSettlementInput) (*domain.Settlement, error) {
	m.ctrl.T.Helper()
	ret := m.ctrl.Call(m, "RecordSettlement", ctx, input)
	ret0, _ := ret[0].(*domain.Settlement)
	ret1, _ := ret[1].(error)
	return ret0, ret1
}

// RecordSettlement indicates an expected call of RecordSettlement.
func (mr *MockSettlementRecorderMockRecorder) RecordSettlement(ctx, input any) *gomock.Call {
	mr.mock.ctrl.T.Helper()
	return mr.mock.ctrl.RecordCallWithMethodType(mr.mock, "RecordSettlement", reflect.TypeOf((*MockSettlementRecorder)(nil).RecordSettlement), ctx, input)
}

package endpoints

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/certmint/certmint/pkg/authenticator"
	"github.com/certmint/certmint/pkg/model"
	"github.com/certmint/certmint/pkg/server/store"
)

// MockAdminStore implements store.AdminStore for testing using testify/mock
type MockAdminStore struct {
	mock.Mock
}

func NewMockAdminStore() *MockAdminStore {
	return &MockAdminStore{}
}

func (m *MockAdminStore) Init() (*model.AdminCredential, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminCredential), args.Error(1)
}

func (m *MockAdminStore) Rotate() (*model.AdminCredential, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.AdminCredential), args.Error(1)
}

func (m *MockAdminStore) Check(plainToken string) (bool, error) {
	args := m.Called(plainToken)
	return args.Bool(0), args.Error(1)
}

// MockIssuersStore implements store.IssuersStore for testing using testify/mock
type MockIssuersStore struct {
	mock.Mock
}

func NewMockIssuersStore() *MockIssuersStore {
	return &MockIssuersStore{}
}

func (m *MockIssuersStore) Grant(name string, address string) (*model.IssuerCredential, error) {
	args := m.Called(name, address)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IssuerCredential), args.Error(1)
}

func (m *MockIssuersStore) FindByToken(plainToken string) (*model.IssuerCredential, error) {
	args := m.Called(plainToken)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IssuerCredential), args.Error(1)
}

func (m *MockIssuersStore) ByID(id string) (*model.IssuerCredential, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.IssuerCredential), args.Error(1)
}

func (m *MockIssuersStore) List() ([]model.IssuerCredential, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.IssuerCredential), args.Error(1)
}

// MockCertificatesStore implements store.CertificatesStore for testing using testify/mock
type MockCertificatesStore struct {
	mock.Mock
}

func NewMockCertificatesStore() *MockCertificatesStore {
	return &MockCertificatesStore{}
}

func (m *MockCertificatesStore) Issue(issuer string, req store.IssueRequest, issueDate time.Time) (*model.Certificate, error) {
	args := m.Called(issuer, req, issueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Certificate), args.Error(1)
}

func (m *MockCertificatesStore) IssueBatch(issuer string, reqs []store.IssueRequest, issueDate time.Time) ([]model.Certificate, error) {
	args := m.Called(issuer, reqs, issueDate)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Certificate), args.Error(1)
}

func (m *MockCertificatesStore) ByID(id string) (*model.Certificate, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Certificate), args.Error(1)
}

func (m *MockCertificatesStore) List(filter store.CertificateFilter) ([]model.Certificate, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Certificate), args.Error(1)
}

func (m *MockCertificatesStore) Destroy(id string, recipient string) error {
	args := m.Called(id, recipient)
	return args.Error(0)
}

// MockPrincipalsStore implements store.PrincipalsStore for testing using testify/mock
type MockPrincipalsStore struct {
	mock.Mock
}

func NewMockPrincipalsStore() *MockPrincipalsStore {
	return &MockPrincipalsStore{}
}

func (m *MockPrincipalsStore) Register() (*model.Principal, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Principal), args.Error(1)
}

// MockEventsStore implements store.EventsStore for testing using testify/mock
type MockEventsStore struct {
	mock.Mock
}

func NewMockEventsStore() *MockEventsStore {
	return &MockEventsStore{}
}

func (m *MockEventsStore) List(kind string, limit int) ([]model.Event, error) {
	args := m.Called(kind, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.Event), args.Error(1)
}

// MockHealthStore implements store.HealthStore for testing using testify/mock
type MockHealthStore struct {
	mock.Mock
}

func NewMockHealthStore() *MockHealthStore {
	return &MockHealthStore{}
}

func (m *MockHealthStore) CheckConnectivity() error {
	args := m.Called()
	return args.Error(0)
}

// MockAuthenticator implements authenticator.Authenticator for testing using testify/mock
type MockAuthenticator struct {
	mock.Mock
}

func NewMockAuthenticator() *MockAuthenticator {
	return &MockAuthenticator{}
}

func (m *MockAuthenticator) Name() string {
	args := m.Called()
	return args.String(0)
}

func (m *MockAuthenticator) Authenticate(ctx context.Context, input authenticator.AuthenticatorInput) (string, error) {
	args := m.Called(input)
	return args.String(0), args.Error(1)
}

func (m *MockAuthenticator) Status(ctx context.Context) error {
	args := m.Called()
	return args.Error(0)
}

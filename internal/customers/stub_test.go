package customers

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/rmjobsites/jobsites-api/internal/users"
	"github.com/rmjobsites/jobsites-api/pkg/db/models"
	pkgerrors "github.com/rmjobsites/jobsites-api/pkg/errors"
	"github.com/rmjobsites/jobsites-api/pkg/logger"
	"github.com/rmjobsites/jobsites-api/pkg/square"
)

type stubGateway struct {
	customers   map[string]square.Customer
	searchErr   error
	createErr   error
	updateErr   error
	getErr      error
	orders      []square.Order
	cards       []square.Card
	cardsByID   map[string][]square.Card
	searchCalls int
	createCalls int
	updates     []square.CustomerUpdateParams
	disabled    []string
}

func newStubGateway() *stubGateway {
	return &stubGateway{customers: map[string]square.Customer{}}
}

func (s *stubGateway) SearchCustomersByEmail(_ context.Context, email string) ([]square.Customer, error) {
	s.searchCalls++
	if s.searchErr != nil {
		return nil, s.searchErr
	}
	var out []square.Customer
	for _, c := range s.customers {
		if c.EmailAddress == email {
			out = append(out, c)
		}
	}
	return out, nil
}

func (s *stubGateway) CreateCustomer(_ context.Context, params square.CustomerCreateParams) (*square.Customer, error) {
	s.createCalls++
	if s.createErr != nil {
		return nil, s.createErr
	}
	c := square.Customer{
		ID:           "CUST-" + uuid.NewString()[:8],
		EmailAddress: params.Email,
		GivenName:    params.GivenName,
		FamilyName:   params.FamilyName,
	}
	s.customers[c.ID] = c
	return &c, nil
}

func (s *stubGateway) UpdateCustomer(_ context.Context, params square.CustomerUpdateParams) (*square.Customer, error) {
	s.updates = append(s.updates, params)
	if s.updateErr != nil {
		return nil, s.updateErr
	}
	c := s.customers[params.CustomerID]
	c.ID = params.CustomerID
	if params.GivenName != nil {
		c.GivenName = *params.GivenName
	}
	if params.Address != nil {
		c.Address = params.Address
	}
	s.customers[c.ID] = c
	return &c, nil
}

func (s *stubGateway) GetCustomer(_ context.Context, id string) (*square.Customer, error) {
	if s.getErr != nil {
		return nil, s.getErr
	}
	c, ok := s.customers[id]
	if !ok {
		return nil, pkgerrors.New(pkgerrors.CodeGateway, "not found")
	}
	return &c, nil
}

func (s *stubGateway) SearchCustomerOrders(context.Context, string) ([]square.Order, error) {
	return s.orders, nil
}

func (s *stubGateway) ListCustomerCards(_ context.Context, customerID string) ([]square.Card, error) {
	if s.cardsByID != nil {
		return s.cardsByID[customerID], nil
	}
	return s.cards, nil
}

func (s *stubGateway) DisableCard(_ context.Context, cardID string) (*square.Card, error) {
	s.disabled = append(s.disabled, cardID)
	return &square.Card{ID: cardID}, nil
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "test", Output: io.Discard})
}

func setupCustomersTestDB(t *testing.T) *users.Repository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file:"+uuid.NewString()+"?mode=memory&cache=shared"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))
	return users.NewRepository(db)
}

func createUser(t *testing.T, repo *users.Repository, email string, admin bool) *models.User {
	t.Helper()
	user, err := repo.Create(context.Background(), users.CreateUserDTO{Email: email, PasswordHash: "hash", Admin: admin})
	require.NoError(t, err)
	return user
}

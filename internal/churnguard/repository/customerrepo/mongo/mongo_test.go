package mongo

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/Leopold1975/churnguard/internal/churnguard/domain/models"
	"github.com/Leopold1975/churnguard/internal/churnguard/repository/customerrepo"
	"github.com/Leopold1975/churnguard/internal/pkg/config"
	"github.com/Leopold1975/churnguard/internal/pkg/mongotools"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestDecode(t *testing.T) {
	oid := primitive.NewObjectID()

	raw, err := bson.Marshal(bson.D{
		{Key: "_id", Value: oid},
		{Key: "CustomerID", Value: int32(15634602)},
		{Key: "Surname", Value: "Hargrave"},
		{Key: "Balance", Value: 0.0},
		{Key: "Churn", Value: nil},
		{Key: "Joined", Value: primitive.NewDateTimeFromTime(time.Date(2020, 1, 2, 0, 0, 0, 0, time.UTC))},
	})
	require.NoError(t, err)

	c, err := decode(raw)
	require.NoError(t, err)

	require.Equal(t, oid.Hex(), c.ID)
	require.Equal(t, models.Fields{
		"CustomerID": models.Int(15634602),
		"Surname":    models.String("Hargrave"),
		"Balance":    models.Number(0),
		"Churn":      models.Null(),
		"Joined":     models.String("2020-01-02T00:00:00Z"),
	}, c.Fields)
}

// Runs against a live server when CHURNGUARD_TEST_MONGO_URI is set.
type CustomersMongoSuite struct {
	suite.Suite
	client *mongo.Client
	repo   CustomersMongoRepo
}

func (s *CustomersMongoSuite) SetupSuite() {
	uri := os.Getenv("CHURNGUARD_TEST_MONGO_URI")
	if uri == "" {
		s.T().Skip("CHURNGUARD_TEST_MONGO_URI not set")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	client, err := mongotools.Connect(ctx, config.MongoDB{URI: uri})
	s.Require().NoError(err)

	s.client = client
	s.repo = New(client.Database("churnguard_test"), "customer_details")
}

func (s *CustomersMongoSuite) SetupTest() {
	s.Require().NoError(s.repo.Wipe(context.Background()))
}

func (s *CustomersMongoSuite) TearDownSuite() {
	if s.client != nil {
		s.Require().NoError(s.client.Disconnect(context.Background()))
	}
}

func (s *CustomersMongoSuite) TestCreateGetUpdateDelete() {
	ctx := context.Background()

	id, err := s.repo.Create(ctx, models.Fields{
		"CustomerID": models.Int(42),
		"Balance":    models.Number(1200.5),
	})
	s.Require().NoError(err)
	s.Require().NotEmpty(id)

	c, err := s.repo.GetByCustomerID(ctx, 42)
	s.Require().NoError(err)
	s.Require().Equal(id, c.ID)
	s.Require().Equal(models.Number(1200.5), c.Fields["Balance"])

	c, err = s.repo.Update(ctx, 42, models.Fields{"Balance": models.Int(0), "Tenure": models.Int(3)})
	s.Require().NoError(err)
	s.Require().Equal(id, c.ID)
	s.Require().Equal(models.Int(0), c.Fields["Balance"])
	s.Require().Equal(models.Int(42), c.Fields["CustomerID"])

	s.Require().NoError(s.repo.SetField(ctx, id, "Persona", models.Int(1)))

	c, err = s.repo.GetByCustomerID(ctx, 42)
	s.Require().NoError(err)
	s.Require().Equal(models.Int(1), c.Fields["Persona"])

	s.Require().NoError(s.repo.Delete(ctx, 42))
	s.Require().ErrorIs(s.repo.Delete(ctx, 42), customerrepo.ErrNotFound)

	_, err = s.repo.GetByCustomerID(ctx, 42)
	s.Require().ErrorIs(err, customerrepo.ErrNotFound)
}

func (s *CustomersMongoSuite) TestInsertManyAndWipe() {
	ctx := context.Background()

	n, err := s.repo.InsertMany(ctx, []models.Fields{
		{"CustomerID": models.Int(1)},
		{"CustomerID": models.Int(2)},
	})
	s.Require().NoError(err)
	s.Require().Equal(2, n)

	all, err := s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Len(all, 2)

	s.Require().NoError(s.repo.Wipe(ctx))

	all, err = s.repo.List(ctx)
	s.Require().NoError(err)
	s.Require().Empty(all)
}

func (s *CustomersMongoSuite) TestUpdateMissing() {
	_, err := s.repo.Update(context.Background(), 404, models.Fields{"Age": models.Int(1)})
	s.Require().ErrorIs(err, customerrepo.ErrNotFound)
}

func TestCustomersMongoSuite(t *testing.T) {
	suite.Run(t, new(CustomersMongoSuite))
}

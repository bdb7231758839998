package rejectionrepo_test

import (
	"context"
	"testing"
	"time"

	"orderdispatch/internal/adapters/out/postgres/pgtest"
	"orderdispatch/internal/adapters/out/postgres/rejectionrepo"
	"orderdispatch/internal/core/domain/model/kernel"
	"orderdispatch/internal/core/domain/model/rejection"

	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"gorm.io/gorm"
)

type RejectionLedgerIntegrationTestSuite struct {
	suite.Suite
	container *postgres.PostgresContainer
	db        *gorm.DB
	ledger    *rejectionrepo.GormRejectionLedger
}

func (suite *RejectionLedgerIntegrationTestSuite) SetupSuite() {
	container, db, err := pgtest.Start(context.Background())
	suite.Require().NoError(err)
	suite.container = container
	suite.db = db
}

func (suite *RejectionLedgerIntegrationTestSuite) SetupTest() {
	suite.Require().NoError(pgtest.Truncate(suite.db))
	suite.ledger = rejectionrepo.NewGormRejectionLedger(suite.db)
}

func (suite *RejectionLedgerIntegrationTestSuite) TearDownSuite() {
	if suite.container != nil {
		suite.Require().NoError(suite.container.Terminate(context.Background()))
	}
}

func (suite *RejectionLedgerIntegrationTestSuite) append(orderID, driverID kernel.UUID, reason rejection.Reason, at time.Time) {
	r, err := rejection.NewRecord(orderID, driverID, reason, at)
	suite.Require().NoError(err)
	suite.Require().NoError(suite.ledger.Append(context.Background(), r))
}

func (suite *RejectionLedgerIntegrationTestSuite) TestListDriversForOrder_Distinct() {
	ctx := context.Background()
	orderID, otherOrder := kernel.NewUUID(), kernel.NewUUID()
	d1, d2 := kernel.NewUUID(), kernel.NewUUID()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	suite.append(orderID, d1, rejection.Timeout, at)
	suite.append(orderID, d1, rejection.Declined, at.Add(time.Second))
	suite.append(orderID, d2, rejection.Declined, at.Add(2*time.Second))
	suite.append(otherOrder, kernel.NewUUID(), rejection.Timeout, at)

	drivers, err := suite.ledger.ListDriversForOrder(ctx, orderID)

	suite.Require().NoError(err)
	suite.ElementsMatch([]kernel.UUID{d1, d2}, drivers)
}

func (suite *RejectionLedgerIntegrationTestSuite) TestListDriversForOrder_NoRecords() {
	drivers, err := suite.ledger.ListDriversForOrder(context.Background(), kernel.NewUUID())

	suite.Require().NoError(err)
	suite.Empty(drivers)
}

func (suite *RejectionLedgerIntegrationTestSuite) TestListForOrder_KeepsAppendOrder() {
	ctx := context.Background()
	orderID, driverID := kernel.NewUUID(), kernel.NewUUID()
	at := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

	suite.append(orderID, driverID, rejection.Timeout, at)
	suite.append(orderID, driverID, rejection.Declined, at.Add(time.Minute))

	records, err := suite.ledger.ListForOrder(ctx, orderID)

	suite.Require().NoError(err)
	suite.Require().Len(records, 2)
	suite.Equal(rejection.Timeout, records[0].Reason())
	suite.Equal(rejection.Declined, records[1].Reason())
	suite.Equal(driverID, records[1].DriverID())
	suite.True(at.Add(time.Minute).Equal(records[1].CreatedAt()))
}

func (suite *RejectionLedgerIntegrationTestSuite) TestAppend_UnconstructedRecord() {
	err := suite.ledger.Append(context.Background(), rejection.Record{})

	suite.Require().ErrorIs(err, rejection.ErrRecordIsNotConstructed)
}

func TestRejectionLedgerIntegrationTestSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RejectionLedgerIntegrationTestSuite))
}

// Package commands contains the dispatch operations that modify system state.
// Implements the Command pattern for write operations in the CQRS architecture.
// Commands are built through constructors and validated by their handlers.
package commands

import (
	"context"

	"orderdispatch/internal/core/ports"
)

// Unit of Work interfaces provide transaction management for command handlers.
type (
	// TxManager handles database transaction lifecycle.
	TxManager interface {
		Begin(ctx context.Context) error
		Commit(ctx context.Context) error
		Rollback(ctx context.Context) error
	}

	// OrderRepoFactory provides access to the order repository within a transaction.
	OrderRepoFactory interface {
		OrderRepository() ports.OrderRepository
	}

	// LedgerFactory provides access to the rejection ledger within a transaction.
	LedgerFactory interface {
		RejectionLedger() ports.RejectionLedger
	}

	// UoW spans the order store and the rejection ledger, so a rejection
	// record and the driver clear it justifies commit together.
	//
	// Example:
	//   uow := factory.Create()
	//   err := uow.Begin(ctx)
	//   defer uow.Rollback(ctx)
	//
	//   _ = uow.RejectionLedger().Append(ctx, record)
	//   _ = uow.OrderRepository().TryClearDriver(ctx, orderID, driverID, now)
	//
	//   err = uow.Commit(ctx)
	UoW interface {
		TxManager
		OrderRepoFactory
		LedgerFactory
	}

	// UoWFactory creates new unit of work instances.
	UoWFactory interface {
		Create() UoW
	}
)

package commands_test

import (
	"testing"
	"time"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/escrow"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/pkg/locker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func expiredHeldEscrow(t *testing.T) *escrow.Transaction {
	t.Helper()
	heldAt := time.Now().UTC().Add(-73 * time.Hour)
	tr, err := escrow.OpenTransaction(
		kernel.NewUUID(), kernel.NewUUID(), mustMoney(t, 1800), heldAt, 72*time.Hour)
	require.NoError(t, err)
	return tr
}

func TestSweepEscrowCommandHandler_Handle_ReleasesDueTransactions(t *testing.T) {
	ctx := t.Context()
	due := expiredHeldEscrow(t)

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("EscrowRepository").Return(escrowRepo)

	escrowRepo.On("GetAllDueForRelease", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*escrow.Transaction{due}, nil).Once()
	escrowRepo.On("Get", mock.Anything, due.ID()).Return(due, nil).Once()
	escrowRepo.On("Update", mock.Anything, due).Return(nil).Once()

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewSweepEscrowCommandHandler(factory, locker.NewEntityLocker(), discardLogger())
	require.NoError(t, h.Handle(ctx, commands.NewSweepEscrowCommand()))

	assert.Equal(t, escrow.Released, due.Status())
	escrowRepo.AssertExpectations(t)
}

func TestSweepEscrowCommandHandler_Handle_DisputeWinsTheRace(t *testing.T) {
	ctx := t.Context()
	due := expiredHeldEscrow(t)

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil)
	uow.On("Commit", ctx).Return(nil)
	uow.On("Rollback", ctx).Return(nil)
	uow.On("EscrowRepository").Return(escrowRepo)

	escrowRepo.On("GetAllDueForRelease", mock.Anything, mock.AnythingOfType("time.Time")).
		Return([]*escrow.Transaction{due}, nil).Once()
	// a dispute commits between the collect pass and the per-transaction lock
	escrowRepo.On("Get", mock.Anything, due.ID()).
		Run(func(_ mock.Arguments) {
			_ = due.Dispute("buyer claims non-delivery", time.Now().UTC())
		}).Return(due, nil).Once()

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow)

	h := commands.NewSweepEscrowCommandHandler(factory, locker.NewEntityLocker(), discardLogger())
	require.NoError(t, h.Handle(ctx, commands.NewSweepEscrowCommand()))

	// the sweep observed the dispute and left the funds alone
	assert.Equal(t, escrow.Disputed, due.Status())
	escrowRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestSweepEscrowCommandHandler_Handle_NothingDue(t *testing.T) {
	ctx := t.Context()

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("GetAllDueForRelease", mock.Anything, mock.AnythingOfType("time.Time")).
			Return([]*escrow.Transaction{}, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewSweepEscrowCommandHandler(factory, locker.NewEntityLocker(), discardLogger())
	require.NoError(t, h.Handle(ctx, commands.NewSweepEscrowCommand()))
	uow.AssertExpectations(t)
}

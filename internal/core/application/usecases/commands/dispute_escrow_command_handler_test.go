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

func TestDisputeEscrowCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	hold := newHeldEscrow(t, kernel.NewUUID())
	cmd, err := commands.NewDisputeEscrowCommand(hold.ID(), "order arrived damaged")
	require.NoError(t, err)

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("Get", mock.Anything, hold.ID()).Return(hold, nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("Update", mock.Anything, hold).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDisputeEscrowCommandHandler(factory, locker.NewEntityLocker())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, escrow.Disputed, hold.Status())
	assert.Equal(t, "order arrived damaged", hold.DisputeReason())
	assert.Nil(t, hold.AutoReleaseAt())
	uow.AssertExpectations(t)
	escrowRepo.AssertExpectations(t)
}

func TestDisputeEscrowCommand_ReasonIsRequired(t *testing.T) {
	_, err := commands.NewDisputeEscrowCommand(kernel.NewUUID(), "")
	require.ErrorIs(t, err, commands.ErrDisputeReasonIsRequired)
}

func TestDisputeEscrowCommandHandler_Handle_AlreadySettled(t *testing.T) {
	ctx := t.Context()
	hold := newHeldEscrow(t, kernel.NewUUID())
	_, err := hold.Release(time.Now().UTC())
	require.NoError(t, err)

	cmd, err := commands.NewDisputeEscrowCommand(hold.ID(), "order arrived damaged")
	require.NoError(t, err)

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("Get", mock.Anything, hold.ID()).Return(hold, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewDisputeEscrowCommandHandler(factory, locker.NewEntityLocker())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, escrow.ErrInvalidTransition)
	uow.AssertExpectations(t)
}

func TestReleaseEscrowCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	hold := newHeldEscrow(t, kernel.NewUUID())
	cmd, err := commands.NewReleaseEscrowCommand(hold.ID())
	require.NoError(t, err)

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("Get", mock.Anything, hold.ID()).Return(hold, nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("Update", mock.Anything, hold).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewReleaseEscrowCommandHandler(factory, locker.NewEntityLocker())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.Equal(t, escrow.Released, hold.Status())
	escrowRepo.AssertExpectations(t)
}

func TestRefundEscrowCommandHandler_Handle_TerminalIsNoOp(t *testing.T) {
	ctx := t.Context()
	hold := newHeldEscrow(t, kernel.NewUUID())
	_, err := hold.Release(time.Now().UTC())
	require.NoError(t, err)

	cmd, err := commands.NewRefundEscrowCommand(hold.ID())
	require.NoError(t, err)

	escrowRepo := new(MockEscrowRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("EscrowRepository").Return(escrowRepo).Once(),
		escrowRepo.On("Get", mock.Anything, hold.ID()).Return(hold, nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockEscrowUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewRefundEscrowCommandHandler(factory, locker.NewEntityLocker())
	require.NoError(t, h.Handle(ctx, cmd))

	// a refund against released funds reports the existing state, no error
	assert.Equal(t, escrow.Released, hold.Status())
	escrowRepo.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
	uow.AssertExpectations(t)
}

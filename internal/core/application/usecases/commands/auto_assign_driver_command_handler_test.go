package commands_test

import (
	"testing"

	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/domain/model/driver"
	"marketplace/internal/core/domain/model/order"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/pkg/locker"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newDispatcher() services.DriverDispatcher {
	return services.NewDriverDispatcher(4.5, 30)
}

func TestAutoAssignDriverCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newPreparingOrder(t)
	candidate := newAvailableDriver(t, 4.8)
	cmd, err := commands.NewAutoAssignDriverCommand(f.order.ID(), nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetAllAvailable", mock.Anything).
			Return([]*driver.Driver{candidate}, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, f.order).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Update", mock.Anything, candidate).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAutoAssignDriverCommandHandler(factory, newDispatcher(), locker.NewEntityLocker())
	require.NoError(t, h.Handle(ctx, cmd))

	require.NotNil(t, f.order.Driver())
	assert.True(t, f.order.Driver().IsEqual(candidate.ID()))
	assert.Equal(t, driver.Busy, candidate.Status())
	assert.Equal(t, order.Preparing, f.order.Status())
	uow.AssertExpectations(t)
	orderRepo.AssertExpectations(t)
	driverRepo.AssertExpectations(t)
}

func TestAutoAssignDriverCommandHandler_Handle_NoDrivers(t *testing.T) {
	ctx := t.Context()
	f := newPreparingOrder(t)
	cmd, err := commands.NewAutoAssignDriverCommand(f.order.ID(), nil)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("GetAllAvailable", mock.Anything).Return([]*driver.Driver{}, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAutoAssignDriverCommandHandler(factory, newDispatcher(), locker.NewEntityLocker())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, services.ErrNoDriversAvailable)
	assert.Nil(t, f.order.Driver())
	assert.True(t, f.order.IsDispatchEligible())
	uow.AssertExpectations(t)
}

func TestAutoAssignDriverCommandHandler_Handle_ExclusionSkipsPreviousDriver(t *testing.T) {
	ctx := t.Context()
	f := newPreparingOrder(t)
	previous := newAvailableDriver(t, 4.9)
	fallback := newAvailableDriver(t, 4.6)
	previousID := previous.ID()
	cmd, err := commands.NewAutoAssignDriverCommand(f.order.ID(), &previousID)
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	uow.On("Begin", ctx).Return(nil).Once()
	uow.On("Rollback", ctx).Return(nil).Once()
	uow.On("Commit", ctx).Return(nil).Once()
	uow.On("OrderRepository").Return(orderRepo)
	uow.On("DriverRepository").Return(driverRepo)
	orderRepo.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once()
	driverRepo.On("GetAllAvailable", mock.Anything).
		Return([]*driver.Driver{previous, fallback}, nil).Once()
	orderRepo.On("Update", mock.Anything, f.order).Return(nil).Once()
	driverRepo.On("Update", mock.Anything, fallback).Return(nil).Once()

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewAutoAssignDriverCommandHandler(factory, newDispatcher(), locker.NewEntityLocker())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.True(t, f.order.Driver().IsEqual(fallback.ID()))
	assert.Equal(t, driver.Available, previous.Status())
}

func TestManualAssignDriverCommandHandler_Handle_DriverUnavailable(t *testing.T) {
	ctx := t.Context()
	f := newPreparingOrder(t)
	busy := newAvailableDriver(t, 4.8)
	require.NoError(t, busy.MarkBusy())
	cmd, err := commands.NewManualAssignDriverCommand(f.order.ID(), busy.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", mock.Anything, busy.ID()).Return(busy, nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewManualAssignDriverCommandHandler(factory, locker.NewEntityLocker())
	err = h.Handle(ctx, cmd)

	require.ErrorIs(t, err, driver.ErrDriverUnavailable)
	assert.Nil(t, f.order.Driver())
	uow.AssertExpectations(t)
}

func TestManualAssignDriverCommandHandler_Handle_Success(t *testing.T) {
	ctx := t.Context()
	f := newPreparingOrder(t)
	chosen := newAvailableDriver(t, 3.2) // manual assignment ignores the rating floor
	cmd, err := commands.NewManualAssignDriverCommand(f.order.ID(), chosen.ID())
	require.NoError(t, err)

	orderRepo := new(MockOrderRepository)
	driverRepo := new(MockDriverRepository)
	uow := new(MockUoW)
	mock.InOrder(
		uow.On("Begin", ctx).Return(nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Get", mock.Anything, f.order.ID()).Return(f.order, nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Get", mock.Anything, chosen.ID()).Return(chosen, nil).Once(),
		uow.On("OrderRepository").Return(orderRepo).Once(),
		orderRepo.On("Update", mock.Anything, f.order).Return(nil).Once(),
		uow.On("DriverRepository").Return(driverRepo).Once(),
		driverRepo.On("Update", mock.Anything, chosen).Return(nil).Once(),
		uow.On("Commit", ctx).Return(nil).Once(),
		uow.On("Rollback", ctx).Return(nil).Once(),
	)

	factory := new(MockDispatchUoWFactory)
	factory.On("Create").Return(uow).Once()

	h := commands.NewManualAssignDriverCommandHandler(factory, locker.NewEntityLocker())
	require.NoError(t, h.Handle(ctx, cmd))

	assert.True(t, f.order.Driver().IsEqual(chosen.ID()))
	assert.Equal(t, driver.Busy, chosen.Status())
	uow.AssertExpectations(t)
}

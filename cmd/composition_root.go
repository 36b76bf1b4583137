package cmd

import (
	"log/slog"

	httpin "marketplace/internal/adapters/in/http"
	"marketplace/internal/adapters/out/backendapi"
	"marketplace/internal/adapters/out/postgres"
	"marketplace/internal/core/application/cartstore"
	"marketplace/internal/core/application/usecases/commands"
	"marketplace/internal/core/application/usecases/queries"
	"marketplace/internal/core/domain/model/kernel"
	"marketplace/internal/core/domain/services"
	"marketplace/internal/core/ports"
	"marketplace/internal/jobs"
	"marketplace/internal/pkg/locker"
	"marketplace/internal/syncer"
	"marketplace/internal/tracking"

	"gorm.io/gorm"
)

// CompositionRoot wires adapters, domain services, and use case handlers.
// Shared state (entity locks, the location tracker, the cart working copies)
// is created once here and handed to everything that needs it.
type CompositionRoot struct {
	config Config

	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	locks      *locker.EntityLocker
	tracker    *tracking.LocationTracker
	dispatcher services.DriverDispatcher
	publisher  ports.OrderEventPublisher
	backend    *backendapi.Client
	cartStore  *cartstore.CartStore
	logger     *slog.Logger

	policy      commands.GroupingPolicy
	deliveryFee kernel.Money
	serviceFee  kernel.Money
}

// NewCompositionRoot builds the application graph. It fails fast on
// configuration that cannot produce valid domain values.
func NewCompositionRoot(
	config Config,
	gormDB *gorm.DB,
	publisher ports.OrderEventPublisher,
	logger *slog.Logger,
) (*CompositionRoot, error) {
	policy, err := commands.GroupingPolicyFromString(config.GroupingPolicy)
	if err != nil {
		return nil, err
	}

	deliveryFee, err := kernel.NewMoney(config.DeliveryFee)
	if err != nil {
		return nil, err
	}

	serviceFee, err := kernel.NewMoney(config.ServiceFee)
	if err != nil {
		return nil, err
	}

	root := &CompositionRoot{
		config:      config,
		gormDB:      gormDB,
		uowFactory:  postgres.NewGormUnitOfWorkFactory(gormDB),
		locks:       locker.NewEntityLocker(),
		tracker:     tracking.NewLocationTracker(config.AvgSpeedKmPerH),
		dispatcher:  services.NewDriverDispatcher(config.RatingFloor, config.AvgSpeedKmPerH),
		publisher:   publisher,
		backend:     backendapi.NewClient(config.BackendBaseURL, config.BackendAuthToken, config.BackendTimeout),
		logger:      logger,
		policy:      policy,
		deliveryFee: deliveryFee,
		serviceFee:  serviceFee,
	}

	root.cartStore = cartstore.NewCartStore(root.cartUoWFactory(), root.locks, logger)
	return root, nil
}

// Tracker exposes the shared location tracker.
func (c *CompositionRoot) Tracker() *tracking.LocationTracker {
	return c.tracker
}

func (c *CompositionRoot) CreateCheckoutCommandHandler() commands.CheckoutCommandHandler {
	var f commands.CheckoutUoWFactory = FuncCheckoutUoWFactory(func() commands.CheckoutUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCheckoutCommandHandler(
		f, c.policy, c.deliveryFee, c.serviceFee, c.config.EscrowReleaseWindow)
}

func (c *CompositionRoot) CreateAdvanceOrderCommandHandler() commands.AdvanceOrderCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewAdvanceOrderCommandHandler(f, c.publisher, c.locks, c.logger)
}

func (c *CompositionRoot) CreateCancelOrderCommandHandler() commands.CancelOrderCommandHandler {
	var f commands.OrderEscrowUoWFactory = FuncOrderEscrowUoWFactory(func() commands.OrderEscrowUoW {
		return c.uowFactory.Create()
	})
	return commands.NewCancelOrderCommandHandler(f, c.publisher, c.locks, c.logger)
}

func (c *CompositionRoot) CreateAutoAssignDriverCommandHandler() commands.AutoAssignDriverCommandHandler {
	return commands.NewAutoAssignDriverCommandHandler(c.dispatchUoWFactory(), c.dispatcher, c.locks)
}

func (c *CompositionRoot) CreateManualAssignDriverCommandHandler() commands.ManualAssignDriverCommandHandler {
	return commands.NewManualAssignDriverCommandHandler(c.dispatchUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateUnassignDriverCommandHandler() commands.UnassignDriverCommandHandler {
	return commands.NewUnassignDriverCommandHandler(c.dispatchUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateRecordHeartbeatCommandHandler() commands.RecordHeartbeatCommandHandler {
	var f commands.DriverUoWFactory = FuncDriverUoWFactory(func() commands.DriverUoW {
		return c.uowFactory.Create()
	})
	return commands.NewRecordHeartbeatCommandHandler(f, c.tracker)
}

func (c *CompositionRoot) CreateDisputeEscrowCommandHandler() commands.DisputeEscrowCommandHandler {
	return commands.NewDisputeEscrowCommandHandler(c.escrowUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateReleaseEscrowCommandHandler() commands.ReleaseEscrowCommandHandler {
	return commands.NewReleaseEscrowCommandHandler(c.escrowUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateRefundEscrowCommandHandler() commands.RefundEscrowCommandHandler {
	return commands.NewRefundEscrowCommandHandler(c.escrowUoWFactory(), c.locks)
}

func (c *CompositionRoot) CreateSweepEscrowCommandHandler() commands.SweepEscrowCommandHandler {
	return commands.NewSweepEscrowCommandHandler(c.escrowUoWFactory(), c.locks, c.logger)
}

func (c *CompositionRoot) CreateTrackOrderQueryHandler() queries.TrackOrderQueryHandler {
	return queries.NewTrackOrderQueryHandler(c.gormDB, c.tracker)
}

func (c *CompositionRoot) CreateGetOrderStepsQueryHandler() queries.GetOrderStepsQueryHandler {
	return queries.NewGetOrderStepsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateGetEscrowSummaryQueryHandler() queries.GetEscrowSummaryQueryHandler {
	return queries.NewGetEscrowSummaryQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateListAssignableDriversQueryHandler() queries.ListAssignableDriversQueryHandler {
	return queries.NewListAssignableDriversQueryHandler(c.gormDB, c.dispatcher)
}

// CreateReconciler builds the sync reconciler that replays queued mutations
// and applies authoritative backend snapshots.
func (c *CompositionRoot) CreateReconciler() *syncer.Reconciler {
	var f syncer.SyncUoWFactory = FuncSyncUoWFactory(func() syncer.SyncUoW {
		return c.uowFactory.Create()
	})
	return syncer.NewReconciler(
		f, c.backend, c.locks, c.tracker, c.config.SyncReplayLimit, c.logger)
}

// CreateJobManager wires all background jobs.
func (c *CompositionRoot) CreateJobManager(reconciler *syncer.Reconciler) *jobs.JobManager {
	return jobs.NewJobManager(
		c.dispatchUoWFactory(),
		c.CreateAutoAssignDriverCommandHandler(),
		c.CreateSweepEscrowCommandHandler(),
		reconciler,
		jobs.Intervals{
			Dispatch:     c.config.DispatchInterval,
			EscrowSweep:  c.config.EscrowSweepInterval,
			Sync:         c.config.SyncInterval,
			LocationPoll: c.config.LocationPollInterval,
		},
		c.logger,
	)
}

// CreateHTTPServer wires the REST API.
func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(httpin.Handlers{
		CartStore:         c.cartStore,
		Checkout:          c.CreateCheckoutCommandHandler(),
		AdvanceOrder:      c.CreateAdvanceOrderCommandHandler(),
		CancelOrder:       c.CreateCancelOrderCommandHandler(),
		AutoAssign:        c.CreateAutoAssignDriverCommandHandler(),
		ManualAssign:      c.CreateManualAssignDriverCommandHandler(),
		Unassign:          c.CreateUnassignDriverCommandHandler(),
		Heartbeat:         c.CreateRecordHeartbeatCommandHandler(),
		Dispute:           c.CreateDisputeEscrowCommandHandler(),
		Release:           c.CreateReleaseEscrowCommandHandler(),
		Refund:            c.CreateRefundEscrowCommandHandler(),
		TrackOrder:        c.CreateTrackOrderQueryHandler(),
		OrderSteps:        c.CreateGetOrderStepsQueryHandler(),
		EscrowSummary:     c.CreateGetEscrowSummaryQueryHandler(),
		AssignableDrivers: c.CreateListAssignableDriversQueryHandler(),
	})
}

func (c *CompositionRoot) dispatchUoWFactory() commands.DispatchUoWFactory {
	return FuncDispatchUoWFactory(func() commands.DispatchUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) escrowUoWFactory() commands.EscrowUoWFactory {
	return FuncEscrowUoWFactory(func() commands.EscrowUoW {
		return c.uowFactory.Create()
	})
}

func (c *CompositionRoot) cartUoWFactory() cartstore.CartUoWFactory {
	return FuncCartUoWFactory(func() cartstore.CartUoW {
		return c.uowFactory.Create()
	})
}

// Function adapters narrowing the full unit of work to what each consumer needs.

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncOrderEscrowUoWFactory func() commands.OrderEscrowUoW

func (f FuncOrderEscrowUoWFactory) Create() commands.OrderEscrowUoW {
	return f()
}

type FuncCheckoutUoWFactory func() commands.CheckoutUoW

func (f FuncCheckoutUoWFactory) Create() commands.CheckoutUoW {
	return f()
}

type FuncDispatchUoWFactory func() commands.DispatchUoW

func (f FuncDispatchUoWFactory) Create() commands.DispatchUoW {
	return f()
}

type FuncEscrowUoWFactory func() commands.EscrowUoW

func (f FuncEscrowUoWFactory) Create() commands.EscrowUoW {
	return f()
}

type FuncDriverUoWFactory func() commands.DriverUoW

func (f FuncDriverUoWFactory) Create() commands.DriverUoW {
	return f()
}

type FuncCartUoWFactory func() cartstore.CartUoW

func (f FuncCartUoWFactory) Create() cartstore.CartUoW {
	return f()
}

type FuncSyncUoWFactory func() syncer.SyncUoW

func (f FuncSyncUoWFactory) Create() syncer.SyncUoW {
	return f()
}

package cmd

import (
	"log/slog"

	httpin "fulfillment/internal/adapters/in/http"
	"fulfillment/internal/adapters/out/kafkabus"
	"fulfillment/internal/adapters/out/postgres"
	"fulfillment/internal/adapters/out/postgres/orderrepo"
	"fulfillment/internal/adapters/out/postgres/outboxrepo"
	"fulfillment/internal/adapters/out/postgres/slajobrepo"
	"fulfillment/internal/core/application/usecases/commands"
	"fulfillment/internal/core/application/usecases/queries"
	"fulfillment/internal/core/domain/services"
	"fulfillment/internal/jobs"

	"gorm.io/gorm"
)

type CompositionRoot struct {
	config     Config
	gormDB     *gorm.DB
	uowFactory *postgres.GormUnitOfWorkFactory
	eventBus   *kafkabus.EventBus
	clock      commands.Clock
	logger     *slog.Logger
}

func NewCompositionRoot(config Config, gormDB *gorm.DB, logger *slog.Logger) CompositionRoot {
	return CompositionRoot{
		config:     config,
		gormDB:     gormDB,
		uowFactory: postgres.NewGormUnitOfWorkFactory(gormDB),
		eventBus:   kafkabus.NewEventBus(kafkabus.NewWriter(config.KafkaBrokers, config.KafkaEventsTopic)),
		clock:      commands.SystemClock,
		logger:     logger,
	}
}

func (c *CompositionRoot) CreateCreateOrderCommandHandler() commands.CreateOrderCommandHandler {
	return commands.NewCreateOrderCommandHandler(c.uowFactoryFunc(), c.clock)
}

func (c *CompositionRoot) CreateTransitionOrderCommandHandler() commands.TransitionOrderCommandHandler {
	return commands.NewTransitionOrderCommandHandler(
		c.uowFactoryFunc(), services.NewOrderStateMachine(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateMonitorOrderSlaCommandHandler() commands.MonitorOrderSlaCommandHandler {
	var f commands.OrderUoWFactory = FuncOrderUoWFactory(func() commands.OrderUoW {
		return c.uowFactory.Create()
	})
	return commands.NewMonitorOrderSlaCommandHandler(f, services.NewSlaMonitor(), c.clock, c.logger)
}

func (c *CompositionRoot) CreateGetAvailableTransitionsQueryHandler() queries.GetAvailableTransitionsQueryHandler {
	return queries.NewGetAvailableTransitionsQueryHandler(c.gormDB)
}

func (c *CompositionRoot) CreateValidateTransitionQueryHandler() queries.ValidateTransitionQueryHandler {
	return queries.NewValidateTransitionQueryHandler(
		orderrepo.NewGormOrderRepository(c.gormDB, nil), services.NewOrderStateMachine())
}

func (c *CompositionRoot) CreateGetOrderSlaQueryHandler() queries.GetOrderSlaQueryHandler {
	return queries.NewGetOrderSlaQueryHandler(c.gormDB, c.clock)
}

func (c *CompositionRoot) CreateHTTPServer() *httpin.Server {
	return httpin.NewServer(
		c.CreateCreateOrderCommandHandler(),
		c.CreateTransitionOrderCommandHandler(),
		c.CreateGetAvailableTransitionsQueryHandler(),
		c.CreateValidateTransitionQueryHandler(),
		c.CreateGetOrderSlaQueryHandler(),
		c.logger,
	)
}

func (c *CompositionRoot) CreateJobManager() *jobs.JobManager {
	slaMonitorJob := jobs.NewSlaMonitorJob(
		slajobrepo.NewGormSlaJobRepository(c.gormDB),
		c.CreateMonitorOrderSlaCommandHandler(),
		c.clock,
		jobs.SlaMonitorConfig{
			Schedule:     c.config.SlaMonitorSchedule,
			BatchSize:    c.config.SlaMonitorBatchSize,
			Lease:        c.config.SlaJobLease,
			MaxAttempts:  c.config.SlaJobMaxAttempts,
			RetryBackoff: c.config.SlaJobRetryBackoff,
		},
		c.logger,
	)

	outboxRelayJob := jobs.NewOutboxRelayJob(
		outboxrepo.NewGormOutboxRepository(c.gormDB),
		c.eventBus,
		c.clock,
		jobs.OutboxRelayConfig{
			Schedule:  c.config.OutboxRelaySchedule,
			BatchSize: c.config.OutboxRelayBatchSize,
			Lease:     c.config.OutboxLease,
		},
		c.logger,
	)

	return jobs.NewJobManager(slaMonitorJob, outboxRelayJob)
}

// Close releases the Kafka writer. Call after the jobs are stopped.
func (c *CompositionRoot) Close() error {
	return c.eventBus.Close()
}

func (c *CompositionRoot) uowFactoryFunc() commands.UoWFactory {
	return FuncUoWFactory(func() commands.UoW {
		return c.uowFactory.Create()
	})
}

type FuncOrderUoWFactory func() commands.OrderUoW

func (f FuncOrderUoWFactory) Create() commands.OrderUoW {
	return f()
}

type FuncUoWFactory func() commands.UoW

func (f FuncUoWFactory) Create() commands.UoW {
	return f()
}

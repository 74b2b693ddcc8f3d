package components

import (
	"voltspot/internal/domain/booking"
	"voltspot/internal/pkg/clock"
	"voltspot/internal/pkg/config"
	"voltspot/internal/usecase/commands"
	"voltspot/internal/usecase/queries"
	"voltspot/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	func(cfg config.Config) config.BookingConfig {
		return cfg.Booking
	},
	func(cfg config.Config) *booking.PriceCalculator {
		return booking.NewPriceCalculator(cfg.Booking.CommissionRate, cfg.Booking.TaxRate)
	},
	func(cfg config.Config) booking.CancellationPolicy {
		return booking.NewCancellationPolicy(cfg.Booking.CancellationWindowHours)
	},
	func(cfg config.Config) *shared.AvailabilityChecker {
		return shared.NewAvailabilityChecker(cfg.Booking.BufferMinutes)
	},
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewBookingQueries,
	),
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewBookingUseCase,
	),
)

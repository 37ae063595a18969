package main

import (
	"context"
	"log/slog"
	"os"

	"opsdesk/config"
	"opsdesk/internal/delivery"
	"opsdesk/internal/delivery/http"
	httpmiddleware "opsdesk/internal/delivery/http/middleware"
	"opsdesk/internal/delivery/http/router/handler"
	deliverymiddleware "opsdesk/internal/delivery/middleware"
	"opsdesk/internal/infra/auth"
	"opsdesk/internal/infra/idgen"
	logs "opsdesk/internal/infra/log"
	"opsdesk/internal/infra/persistence/postgres"
	"opsdesk/internal/infra/qrcode"
	"opsdesk/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Provide(
		config.New,
		logs.New,
		context.Background,
		postgres.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewAccountRepository,
			postgres.NewOrderRepository,
			postgres.NewBillRepository,
			postgres.NewFeedbackRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewBcryptHasher,
			auth.NewJWTService,
			idgen.NewGenerator,
			qrcode.NewQRCodeService,
		),
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAccountService,
			impl.NewOrderService,
			impl.NewBillingService,
			impl.NewFeedbackService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			httpmiddleware.NewAuthMiddleware,
			httpmiddleware.NewErrorMiddleware,
			deliverymiddleware.NewRequestIDMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAccountHandler,
			handler.NewOrderHandler,
			handler.NewBillHandler,
			handler.NewFeedbackHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}

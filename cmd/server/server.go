package main

import (
	"log/slog"
	"os"

	trmgorm "github.com/avito-tech/go-transaction-manager/gorm"
	"github.com/avito-tech/go-transaction-manager/trm/manager"
	"github.com/joho/godotenv"

	"github.com/kpestov/candy-delivery/config"
	"github.com/kpestov/candy-delivery/internal/http"
	"github.com/kpestov/candy-delivery/internal/http/controller"
	"github.com/kpestov/candy-delivery/internal/jobs"
	"github.com/kpestov/candy-delivery/internal/metrics"
	"github.com/kpestov/candy-delivery/internal/repository/repositories"
	"github.com/kpestov/candy-delivery/internal/usecase/courier"
	"github.com/kpestov/candy-delivery/internal/usecase/order"
	"github.com/kpestov/candy-delivery/pkg/db/postgresql"
)

func main() {

	godotenv.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	dbConf := config.DatabaseConf()
	db := postgresql.GetInstance(postgresql.Config{
		Host:     dbConf.Pgsql.Host,
		Port:     dbConf.Pgsql.Port,
		Database: dbConf.Pgsql.Database,
		Username: dbConf.Pgsql.Username,
		Password: dbConf.Pgsql.Password,
	})

	appConf := config.NewAppConfig()

	if err := db.AutoMigrate(
		&repositories.Region{},
		&repositories.Courier{},
		&repositories.CourierWorkingHours{},
		&repositories.Order{},
		&repositories.OrderDeliveryHours{},
	); err != nil {
		logger.Error("migration failed", "error", err)
		os.Exit(1)
	}

	courierRepo := repositories.NewCourierRepo(db, trmgorm.DefaultCtxGetter)
	orderRepo := repositories.NewOrderRepo(db, trmgorm.DefaultCtxGetter)
	regionRepo := repositories.NewRegionRepo(db, trmgorm.DefaultCtxGetter)

	m, err := manager.New(trmgorm.NewDefaultFactory(db))
	if err != nil {
		panic(err)
	}

	prom := metrics.New()

	courierUseCase := courier.New(m, logger, courierRepo, orderRepo, regionRepo)
	orderUseCase := order.New(m, logger, prom, orderRepo, courierRepo, regionRepo)

	unassignJob := jobs.NewUnassignJob(courierUseCase, logger)
	if err := unassignJob.Start(); err != nil {
		logger.Error("unassign job failed to start", "error", err)
		os.Exit(1)
	}
	defer unassignJob.Stop()

	cs := http.Controllers{
		CourierController: controller.NewCourierController(courierUseCase),
		OrderController:   controller.NewOrderController(orderUseCase),
	}
	r := http.NewRouter(cs, prom)

	e := http.NewHttpServer(appConf)
	r.SetupRoutes(e)

	e.Logger.Fatal(e.Start(appConf.Addr))
}

package main

import (
	"context"
	"log"

	"github.com/affiliate_network/config"
	"github.com/affiliate_network/handler"
	"github.com/affiliate_network/logging"
	"github.com/affiliate_network/model"
	"github.com/affiliate_network/repository"
	"github.com/affiliate_network/router"
	"github.com/affiliate_network/scheduler"
	"github.com/affiliate_network/service"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	cfg := config.Load()

	logger, err := logging.New(cfg.IsProduction())
	if err != nil {
		log.Fatal(err)
	}
	defer logger.Sync()

	db, err := gorm.Open(postgres.Open(cfg.DSN()), &gorm.Config{})
	if err != nil {
		logger.Fatal("connect database", zap.Error(err))
	}
	if err := model.AutoMigrate(db); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	clock := clockwork.NewRealClock()

	memberRepo := repository.NewMemberRepository(db)
	txRepo := repository.NewTransactionRepository(db)
	payoutRepo := repository.NewPayoutRepository(db)
	jobRunRepo := repository.NewJobRunRepository(db)

	walletSvc := service.NewWalletService(db, memberRepo, txRepo, logger)
	networkSvc := service.NewNetworkService(memberRepo)
	referralRates := service.DefaultReferralRates
	if cfg.ReferralLevels > len(referralRates) {
		referralRates = service.ExtendedReferralRates
	}
	if cfg.ReferralLevels < 1 || cfg.ReferralLevels > len(referralRates) {
		cfg.ReferralLevels = len(referralRates)
	}
	referralSvc := service.NewReferralService(networkSvc, walletSvc, referralRates[:cfg.ReferralLevels], logger)
	commissionSvc := service.NewCommissionService(networkSvc, walletSvc, logger)
	roiSvc := service.NewRoiService(db, memberRepo, jobRunRepo, walletSvc, referralSvc, clock, logger)
	payoutSvc := service.NewPayoutService(db, memberRepo, payoutRepo, jobRunRepo, networkSvc, clock, logger)
	activationSvc := service.NewActivationService(db, memberRepo, walletSvc, commissionSvc, clock, logger,
		cfg.ActivationFee, service.DefaultActivationSchedule)

	walletHandler := handler.NewWalletHandler(walletSvc, txRepo, payoutRepo)
	engineHandler := handler.NewEngineHandler(roiSvc, payoutSvc, activationSvc, walletSvc)
	memberHandler := handler.NewMemberHandler(memberRepo, networkSvc)

	if !cfg.SchedulerDisabled {
		sched := scheduler.New(logger)
		if err := sched.Add(cfg.DailyReturnsCron, model.JobDailyReturns, func(ctx context.Context) error {
			_, err := roiSvc.Run(ctx)
			return err
		}); err != nil {
			logger.Fatal("schedule daily returns", zap.Error(err))
		}
		sched.Start()
		defer sched.Stop()
	}

	r := router.SetupRouter(walletHandler, engineHandler, memberHandler)
	logger.Info("compensation engine listening", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server", zap.Error(err))
	}
}

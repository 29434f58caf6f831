package cmd

import (
	"database/sql"
	"log"
	"sender/domain"
	"sender/domain/config"
	"sender/infrastructure/dbhandler"
	"sender/infrastructure/keystore"
	"sender/interface/exporter"
	"sender/interface/gateway"
	"sender/interface/repository"
	"sender/usecase"
	"time"

	_ "github.com/lib/pq"
)

func defaultDependencyInject() {
	var err error

	var recorder usecase.ReceiptRecorder
	if config.GetDbUri() != "" {
		dbPool, err = sql.Open("postgres", config.GetDbUri())
		if err != nil {
			log.Fatal(err)
		}
		dbPool.SetMaxOpenConns(20)
		dbPool.SetMaxIdleConns(5)
		dbPool.SetConnMaxIdleTime(1 * time.Minute)
		dbPool.SetConnMaxLifetime(4 * time.Hour)

		dbHandler := dbhandler.DBHandler{DB: dbPool}
		receiptRepository = repository.NewReceiptRepository(dbHandler)
		recorder = receiptRepository
	}

	chainClient = gateway.NewTonAPIClient(config.GetChainApiUrl())
	credentialStore := keystore.NewFileStore(config.GetKeystorePath())

	currentWallet = domain.Wallet{
		AccountID:   config.GetWalletAccountId(),
		PublicKey:   config.GetWalletPublicKey(),
		SubwalletID: config.GetSubwalletId(),
	}

	formatter = domain.NewFormatter(config.GetDecimalSeparator(), config.GetGroupSeparator())

	accountInteractor := usecase.NewAccountInteractor(chainClient)
	builderInteractor := usecase.NewBuilderInteractor(config.GetMessageLifetime())
	estimatorInteractor := usecase.NewEstimatorInteractor(chainClient, chainClient, config.GetClockSkewTolerance())
	guardInteractor := usecase.NewGuardInteractor()
	pipelineInteractor := usecase.NewPipelineInteractor(estimatorInteractor, accountInteractor,
		builderInteractor, guardInteractor, credentialStore, chainClient, recorder)

	transferInteractor = usecase.NewTransferInteractor(accountInteractor, builderInteractor,
		estimatorInteractor, guardInteractor, pipelineInteractor, chainClient,
		config.GetJettonGasBudget())
	accounts = accountInteractor

	exporter.Init()
	if address := config.GetMetricsAddress(); address != "" {
		go func() {
			if err := exporter.Serve(address); err != nil {
				log.Printf("🔴 metrics server stopped - %v\n", err.Error())
			}
		}()
	}
}

var dbPool *sql.DB
var chainClient *gateway.TonAPIClient
var receiptRepository *repository.ReceiptRepository
var transferInteractor *usecase.TransferInteractor
var accounts *usecase.AccountInteractor
var formatter *domain.Formatter
var currentWallet domain.Wallet

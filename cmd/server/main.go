package main

import (
	"context"
	"log"
	nethttp "net/http"
	"strings"

	httpdelivery "signals-backend/internal/delivery/http"
	"signals-backend/internal/delivery/websocket"
	"signals-backend/internal/domain"
	"signals-backend/internal/infrastructure/binance"
	"signals-backend/internal/infrastructure/config"
	"signals-backend/internal/infrastructure/db"
	"signals-backend/internal/infrastructure/fcm"
	"signals-backend/internal/repository"
	"signals-backend/internal/usecase"
)

const defaultUserID = "default"

func main() {
	cfg := config.Load()

	// 1. Market data provider
	provider := binance.NewClient()

	symbols := cfg.Symbols
	if len(symbols) == 1 && strings.EqualFold(symbols[0], "AUTO") {
		all, err := provider.GetActiveTradingSymbols()
		if err != nil {
			log.Fatalf("Failed to discover trading symbols: %v", err)
		}
		symbols = all
		log.Printf("Discovered %d active trading symbols", len(symbols))
	}

	// 2. Repositories: Postgres when DATABASE_URL is set, in-memory otherwise
	var intents domain.TradeIntentRepository
	var execStore domain.ExecutionStore

	if cfg.DatabaseURL != "" {
		pool, err := db.NewPool(context.Background(), cfg.DatabaseURL, db.PoolConfigFromEnv())
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		if err := db.Migrate(context.Background(), pool); err != nil {
			log.Fatalf("Failed to run migrations: %v", err)
		}
		log.Println("✅ Postgres persistence enabled")

		intents = repository.NewPostgresIntentRepository(pool)
		execStore = repository.NewPostgresExecutionRepository(pool, cfg.EncryptionKey)
	} else {
		log.Println("No DATABASE_URL set, using in-memory repositories")
		intents = repository.NewIntentRepository()
		execStore = repository.NewExecutionRepository(cfg.EncryptionKey)
	}

	snaps := repository.NewSnapshotRepository()
	tokenRepo := repository.NewTokenRepository()

	// 3. Engine
	engineCfg := usecase.DefaultEngineConfig()
	engineCfg.Timeframe = cfg.Timeframe
	engineCfg.LowerTimeframe = cfg.LowerTimeframe
	engineCfg.AnchorTimeframe = cfg.AnchorTimeframe
	engineCfg.AnchorDuration = cfg.AnchorDuration()
	engineCfg.ScanInterval = cfg.ScanInterval
	engineCfg.TolerancePct = cfg.TolerancePct
	engineCfg.MergeDistancePct = cfg.MergeDistancePct
	engineCfg.BaseZone.ImpulseFactor = cfg.ImpulseFactor
	engineCfg.MomentumCandles = cfg.MomentumCandles
	engineCfg.Confirmation.MaxCandles = cfg.ConfirmMaxCandles
	engineCfg.RequireConfluence = cfg.RequireConfluence
	engineCfg.RiskPercent = cfg.RiskPercent

	trend := usecase.NewEMABandFilter(provider, engineCfg.Timeframe)
	times := usecase.SessionFilter{StartHour: cfg.BlackoutStartHour, EndHour: cfg.BlackoutEndHour}

	engine := usecase.NewStructureEngine(engineCfg, symbols, provider, intents, snaps, trend, times)
	engine.SetExecutionSink(usecase.NewExecutionService(execStore, intents, defaultUserID))

	// 4. Notifications
	fcmClient, err := fcm.NewClient()
	if err != nil {
		log.Printf("FCM initialization failed: %v", err)
	} else if fcmClient.IsEnabled() {
		engine.SetNotifier(usecase.NewFCMNotifier(fcmClient, tokenRepo))
	}

	// 5. Background loops
	go engine.Run()
	go usecase.NewPositionMonitor(provider, intents).Run()

	// 6. Delivery
	wsHandler := websocket.NewHandler(snaps)
	structureHandler := httpdelivery.NewStructureHandler(snaps, engine)
	intentHandler := httpdelivery.NewIntentHandler(intents)
	executionHandler := httpdelivery.NewExecutionHandler(execStore)
	tokenHandler := httpdelivery.NewTokenHandler(tokenRepo)

	nethttp.HandleFunc("/ws", wsHandler.Handle)
	nethttp.HandleFunc("/api/structure", structureHandler.HandleGetStructure)
	nethttp.HandleFunc("/api/engine/config", structureHandler.HandleGetEngineConfig)
	nethttp.HandleFunc("/api/intents", intentHandler.HandleGetActive)
	nethttp.HandleFunc("/api/intents/history", intentHandler.HandleGetHistory)
	nethttp.HandleFunc("/api/intents/close", intentHandler.HandleCloseIntent)
	nethttp.HandleFunc("/api/execution/credentials", func(w nethttp.ResponseWriter, r *nethttp.Request) {
		switch r.Method {
		case nethttp.MethodPost:
			executionHandler.SaveCredentials(w, r)
		case nethttp.MethodGet:
			executionHandler.GetCredentials(w, r)
		case nethttp.MethodDelete:
			executionHandler.DeleteCredentials(w, r)
		default:
			nethttp.Error(w, "Method not allowed", nethttp.StatusMethodNotAllowed)
		}
	})
	nethttp.HandleFunc("/api/execution/settings", executionHandler.HandleSettings)
	nethttp.HandleFunc("/api/tokens/register", tokenHandler.HandleRegisterToken)
	nethttp.HandleFunc("/api/tokens/unregister", tokenHandler.HandleUnregisterToken)

	log.Printf("Server listening on %s (%d symbols, %s structure / %s confirmation)",
		cfg.ServerAddr, len(symbols), cfg.Timeframe, cfg.LowerTimeframe)
	if err := nethttp.ListenAndServe(cfg.ServerAddr, nil); err != nil {
		log.Fatal(err)
	}
}

package main

import (
	"context"
	"log"
	"os"

	"cloud.google.com/go/firestore"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"google.golang.org/api/option"

	fbapp "firebase.google.com/go/v4"

	"tradevault/internal/adapter/api"
	"tradevault/internal/adapter/api/handler"
	apimiddleware "tradevault/internal/adapter/api/middleware"
	"tradevault/internal/adapter/api/router"
	"tradevault/internal/adapter/repository"
	"tradevault/internal/domain/service"
	"tradevault/internal/infrastructure/firebase"
	"tradevault/internal/infrastructure/ratelimit"
	"tradevault/internal/infrastructure/realtime"
	"tradevault/internal/usecase"
	"tradevault/pkg/config"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	var opts []option.ClientOption
	if serviceAccountJSON := os.Getenv("FIREBASE_SERVICE_ACCOUNT_JSON"); serviceAccountJSON != "" {
		opts = append(opts, option.WithCredentialsJSON([]byte(serviceAccountJSON)))
	} else if serviceAccountPath := os.Getenv("FIREBASE_SERVICE_ACCOUNT_PATH"); serviceAccountPath != "" {
		opts = append(opts, option.WithCredentialsFile(serviceAccountPath))
	}

	firebaseApp, err := fbapp.NewApp(ctx, &fbapp.Config{ProjectID: cfg.FirebaseProject}, opts...)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	authClient, err := firebaseApp.Auth(ctx)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase Auth: %v", err)
	}

	firestoreClient, err := firestore.NewClient(ctx, cfg.FirebaseProject, opts...)
	if err != nil {
		log.Fatalf("Failed to create Firestore client: %v", err)
	}
	defer firestoreClient.Close()

	userRepo := repository.NewFirestoreUserRepository(firestoreClient)
	listingRepo := repository.NewFirestoreListingRepository(firestoreClient)
	tradeRepo := repository.NewFirestoreTradeRepository(firestoreClient)
	walletRepo := repository.NewFirestoreWalletRepository(firestoreClient)
	atomicStore := repository.NewFirestoreAtomicStore(firestoreClient)

	firebaseAuthClient := firebase.NewFirebaseAuthClient(authClient)

	rtManager := realtime.NewManager()
	rtManager.Start(ctx)

	payoutService := service.NewHTTPPayoutService(cfg.PayoutEndpoint, cfg.PayoutAPIKey)

	walletUseCase := usecase.NewWalletUseCase(atomicStore, walletRepo, payoutService, rtManager)
	authUseCase := usecase.NewAuthUseCase(firebaseAuthClient, userRepo, walletUseCase)
	userUseCase := usecase.NewUserUseCase(userRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo, atomicStore)
	tradeUseCase := usecase.NewTradeUseCase(atomicStore, tradeRepo, rtManager, cfg.ReleaseWindow)
	disputeUseCase := usecase.NewDisputeUseCase(atomicStore, tradeRepo, rtManager, cfg.DisputeWindow)
	releaseUseCase := usecase.NewEscrowReleaseUseCase(atomicStore, tradeRepo, rtManager, cfg.SweepInterval, cfg.SweepBatchSize)

	handler.Setup(authUseCase, userUseCase, listingUseCase, tradeUseCase, disputeUseCase, releaseUseCase, walletUseCase)

	e := echo.New()

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(authClient)
	adminMiddleware := apimiddleware.NewAdminMiddleware(userRepo)

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine()
	rateLimitMiddleware := apimiddleware.NewRateLimitMiddleware(limiter)

	wsHandler := handler.NewWebSocketHandler(rtManager)

	router.Setup(e, authMiddleware, adminMiddleware, rateLimitMiddleware)
	router.SetupWebSocketRouter(e, wsHandler, authMiddleware)

	// Release scheduler
	go releaseUseCase.StartSweep(ctx)

	log.Printf("Starting server on port %s...", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}

package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"surveylens/internal/app"
	"surveylens/internal/config"
	"surveylens/internal/llm"
	"surveylens/internal/model"
	"surveylens/internal/service"
	"surveylens/internal/transport/rest"
	"surveylens/internal/transport/ws"
)

// @title SurveyLens API
// @version 1.0
// @description Survey collection with clustered LLM summaries
// @host localhost:8080
// @BasePath /v1
func main() {
	log.Println("started")
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load config:", err)
	}

	// Log model settings
	log.Printf("AI Config:")
	log.Printf("  Summary:   %s", cfg.AI.Models.Summary)
	log.Printf("  Embedding: %s", cfg.AI.Models.Embedding)
	if cfg.AI.IsEnabled() {
		log.Println("  API Key:   configured ✓")
	} else {
		log.Println("  API Key:   NOT SET (using fake client)")
	}
	log.Printf("Analysis: %d answers per cluster, at most %d clusters", cfg.Analysis.AnswersPerCluster, cfg.Analysis.MaxClusters)

	storage, err := app.New(ctx, cfg)
	if err != nil {
		log.Fatal("Failed to initialize storage:", err)
	}
	defer storage.Close(context.Background())

	client, err := llm.New(ctx, cfg.AI)
	if err != nil {
		log.Fatal("Failed to initialize LLM client:", err)
	}

	// Initialize WebSocket hub
	wsHub := ws.NewHub()
	log.Println("WebSocket hub started")

	// Initialize services
	authSvc := service.NewAuthService(cfg.HostUsername, cfg.HostPassword, cfg.JWTSecret, model.HostRole(cfg.HostRole))
	surveySvc := service.NewSurveyService(storage.SurveyRepo)
	responseSvc := service.NewResponseService(storage.SurveyRepo, storage.ResponseRepo)
	analysisSvc := service.NewAnalysisService(storage.AnalysisStore(), client, client, cfg.Analysis)
	reportSvc := service.NewReportService(
		storage.SurveyRepo,
		storage.SummaryRepo,
		analysisSvc,
		storage.RunLock,
		storage.SummaryCache,
		storage.Archive,
	)

	// Inject broadcaster (wsHub implements service.Broadcaster)
	analysisSvc.SetBroadcaster(wsHub)
	reportSvc.SetBroadcaster(wsHub)

	// Create router with container
	container := &rest.Container{
		AuthService:     authSvc,
		SurveyService:   surveySvc,
		ResponseService: responseSvc,
		ReportService:   reportSvc,
		WSHub:           wsHub,
	}

	router := rest.NewRouter(container)

	// Start server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("Server starting on :%s", cfg.Port)
		log.Printf("Host auth: username=%s role=%s", cfg.HostUsername, cfg.HostRole)
		log.Println("Endpoints:")
		log.Println("  POST /v1/auth/login")
		log.Println("  POST/GET /v1/surveys")
		log.Println("  GET/PUT  /v1/surveys/{surveyId}")
		log.Println("  POST /v1/surveys/{surveyId}/responses")
		log.Println("  POST /v1/surveys/{surveyId}/analyze")
		log.Println("  GET  /v1/surveys/{surveyId}/summaries")
		log.Println("  WS  /v1/ws/surveys/{surveyId}/host")

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("ListenAndServe:", err)
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

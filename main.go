package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberSwagger "github.com/swaggo/fiber-swagger"

	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/config"
	_ "github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/docs"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/handlers"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/assessment"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/db"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/speech/azurestt"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/transcode"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/internal/worker"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/metrics"
	"github.com/itsJLCG/CVAPed-MobileVersion-Thesis-sub000/middleware"
)

// @title CVAPed Therapy Exercises API
// @version 1.0
// @description Fluency assessment and therapy exercise management for the CVAPed mobile app.
// @BasePath /
func main() {
	config.InitLogger()
	log := config.Log
	cfg := config.LoadConfig()

	recognizer, err := azurestt.New(azurestt.Config{
		SubscriptionKey: cfg.AzureSpeechKey,
		Region:          cfg.AzureSpeechRegion,
		DefaultLanguage: cfg.SpeechLanguage,
	})
	if err != nil {
		log.Fatalf("Failed to initialize speech client: %v", err)
	}

	timeout := time.Duration(cfg.AssessTimeoutSeconds) * time.Second
	normalizer := transcode.NewNormalizer(cfg.FFmpegPath, timeout)
	assessor := assessment.New(normalizer, recognizer, log, timeout, cfg.ASRMaxConcurrent)

	dispatcher := worker.NewDispatcher(cfg.WorkerCount, cfg.JobQueueSize, log)
	dispatcher.Run()

	h := handlers.NewApplicationHandler(assessor, nil, nil, dispatcher, log)

	// The API stays up without the database: assessments still run, only the
	// exercise and history endpoints report it as unavailable.
	if store, err := db.NewStore(cfg.SupabaseURL, cfg.SupabaseServiceKey); err != nil {
		log.Warnf("Database unavailable: %v", err)
	} else {
		h.Exercises = store
		h.Assessments = store
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 25 * 1024 * 1024, // patient recordings arrive as multipart uploads
	})

	app.Use(cors.New(cors.Config{
		AllowOrigins: "*", // Allow all origins for development
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))
	app.Use(middleware.RequestLogger())
	app.Use(metrics.Middleware())

	tokenRequired := middleware.TokenRequired(cfg.SecretKey)
	therapistRequired := middleware.TherapistRequired()

	// Service routes
	app.Get("/api/therapy/health", h.HealthCheck)
	app.Get("/api/therapy/info", h.ServiceInfo)
	app.Get("/metrics", metrics.Handler())
	app.Get("/swagger/*", fiberSwagger.WrapHandler)

	// Fluency assessment routes
	app.Post("/api/fluency/assess", tokenRequired, h.AssessFluency)
	app.Get("/api/fluency/assessments", tokenRequired, h.GetAssessmentHistory)

	// Exercise routes; writes are restricted to therapists
	app.Get("/api/fluency-exercises", tokenRequired, h.GetAllExercises)
	app.Post("/api/fluency-exercises", tokenRequired, therapistRequired, h.CreateExercise)
	app.Post("/api/fluency-exercises/seed", tokenRequired, therapistRequired, h.SeedExercises)
	app.Get("/api/fluency-exercises/validate", tokenRequired, therapistRequired, h.ValidateExercises)
	app.Put("/api/fluency-exercises/:id", tokenRequired, therapistRequired, h.UpdateExercise)
	app.Delete("/api/fluency-exercises/:id", tokenRequired, therapistRequired, h.DeleteExercise)
	app.Patch("/api/fluency-exercises/:id/toggle-active", tokenRequired, therapistRequired, h.ToggleExerciseActive)

	go func() {
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatalf("Server stopped: %v", err)
		}
	}()
	log.Infof("Therapy Exercises API listening on port %s", cfg.Port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	<-sigChan

	log.Info("Shutting down Therapy Exercises API...")
	if err := app.Shutdown(); err != nil {
		log.Errorf("Error during server shutdown: %v", err)
	}
	dispatcher.Stop()
	log.Info("Therapy Exercises API shut down gracefully.")
}

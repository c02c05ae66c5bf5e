package background

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"github.com/Stepheeeen/flairecosystem/internal/models"
	"github.com/Stepheeeen/flairecosystem/internal/repositories"
	"github.com/Stepheeeen/flairecosystem/internal/services"
)

// JobScheduler manages periodic maintenance work: the low-stock sweep
// across active stores and cleanup of expired auth tokens and old
// notifications.
type JobScheduler struct {
	scheduler     gocron.Scheduler
	companyRepo   repositories.CompanyRepository
	productRepo   repositories.ProductRepository
	userRepo      repositories.UserRepository
	notifications services.NotificationService
	notifRepo     repositories.NotificationRepository
	jobs          map[string]gocron.Job
	mu            sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(
	companyRepo repositories.CompanyRepository,
	productRepo repositories.ProductRepository,
	userRepo repositories.UserRepository,
	notifications services.NotificationService,
	notifRepo repositories.NotificationRepository,
) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler:     scheduler,
		companyRepo:   companyRepo,
		productRepo:   productRepo,
		userRepo:      userRepo,
		notifications: notifications,
		notifRepo:     notifRepo,
		jobs:          make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Low-stock sweep - every 30 minutes
	lowStockJob, err := js.scheduler.NewJob(
		gocron.DurationJob(30*time.Minute),
		gocron.NewTask(js.sweepLowStock, context.Background()),
		gocron.WithName("low-stock-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create low-stock job: %v", err)
	} else {
		js.jobs["low-stock-sweep"] = lowStockJob
	}

	// Expired token cleanup - every hour
	tokenJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.cleanupExpiredTokens, context.Background()),
		gocron.WithName("token-cleanup"),
	)
	if err != nil {
		log.Printf("Failed to create token cleanup job: %v", err)
	} else {
		js.jobs["token-cleanup"] = tokenJob
	}

	// Old notification pruning - daily
	pruneJob, err := js.scheduler.NewJob(
		gocron.DurationJob(24*time.Hour),
		gocron.NewTask(js.pruneNotifications, context.Background()),
		gocron.WithName("notification-prune"),
	)
	if err != nil {
		log.Printf("Failed to create notification prune job: %v", err)
	} else {
		js.jobs["notification-prune"] = pruneJob
	}

	log.Printf("Registered %d background jobs", len(js.jobs))
}

// sweepLowStock raises STOCK notifications for active stores whose
// products sit at or below the threshold. The per-checkout emit covers
// the common case; this sweep catches stock adjusted out of band.
func (js *JobScheduler) sweepLowStock(ctx context.Context) error {
	log.Printf("Starting low-stock sweep")

	companies, err := js.companyRepo.List(ctx, 1000, 0)
	if err != nil {
		log.Printf("Failed to list companies for low-stock sweep: %v", err)
		return err
	}

	// Process companies in parallel with concurrency control
	semaphore := make(chan struct{}, 5)
	var wg sync.WaitGroup

	for _, company := range companies {
		if company.Suspended() {
			continue
		}

		wg.Add(1)
		go func(companyID uuid.UUID) {
			defer wg.Done()
			semaphore <- struct{}{}
			defer func() { <-semaphore }()

			products, err := js.productRepo.ListLowStock(ctx, companyID, services.LowStockThreshold)
			if err != nil {
				log.Printf("Failed to check stock for company %s: %v", companyID.String(), err)
				return
			}

			for _, product := range products {
				js.notifications.Emit(ctx, companyID, models.NotificationTypeStock,
					"Low stock",
					fmt.Sprintf("%s is down to %d units", product.Name, product.StockCount),
					nil)
			}
		}(company.ID)
	}

	wg.Wait()
	log.Printf("Completed low-stock sweep for %d companies", len(companies))
	return nil
}

// cleanupExpiredTokens nulls out dead reset and verification tokens.
func (js *JobScheduler) cleanupExpiredTokens(ctx context.Context) error {
	cleared, err := js.userRepo.ClearExpiredTokens(ctx)
	if err != nil {
		log.Printf("Failed to clear expired tokens: %v", err)
		return err
	}
	if cleared > 0 {
		log.Printf("Cleared expired tokens on %d accounts", cleared)
	}
	return nil
}

// pruneNotifications drops feed entries older than 90 days.
func (js *JobScheduler) pruneNotifications(ctx context.Context) error {
	pruned, err := js.notifRepo.DeleteOlderThan(ctx, 90)
	if err != nil {
		log.Printf("Failed to prune notifications: %v", err)
		return err
	}
	if pruned > 0 {
		log.Printf("Pruned %d old notifications", pruned)
	}
	return nil
}

// GetJobStatus returns information about scheduled jobs, surfaced on
// the readiness probe.
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobs)
	jobs := make([]string, 0, len(js.jobs))

	for name := range js.jobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}

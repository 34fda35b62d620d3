package services

import (
	"context"
	"fmt"
	"log"
	"time"

	"careledger/internal/adapters/persistence/models"
	"careledger/internal/adapters/persistence/repositories"

	"github.com/robfig/cron/v3"
)

// RetentionAutoService runs a scheduled retention scan. The scan only
// reports: actual purging stays an explicit administrator action.
type RetentionAutoService struct {
	patientRepo   repositories.PatientRepository
	audit         *AuditService
	retentionDays int
	schedule      string
	cron          *cron.Cron
}

// NewRetentionAutoService creates a new retention auto service
func NewRetentionAutoService(
	patientRepo repositories.PatientRepository,
	audit *AuditService,
	retentionDays int,
	schedule string,
) *RetentionAutoService {
	return &RetentionAutoService{
		patientRepo:   patientRepo,
		audit:         audit,
		retentionDays: retentionDays,
		schedule:      schedule,
	}
}

// Start schedules the nightly retention scan
func (s *RetentionAutoService) Start() error {
	s.cron = cron.New()
	if _, err := s.cron.AddFunc(s.schedule, s.scan); err != nil {
		return err
	}
	s.cron.Start()
	log.Printf("✅ Retention scan scheduled [%s] (retention_days=%d)", s.schedule, s.retentionDays)
	return nil
}

// Stop stops the scheduler and waits for a running scan to finish
func (s *RetentionAutoService) Stop() {
	if s.cron != nil {
		<-s.cron.Stop().Done()
	}
	log.Println("🛑 Retention scan stopped")
}

func (s *RetentionAutoService) scan() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	cutoff := time.Now().UTC().AddDate(0, 0, -s.retentionDays)
	expired, err := s.patientRepo.FindCreatedBefore(ctx, cutoff)
	if err != nil {
		log.Printf("❌ Retention scan query error: %v", err)
		return
	}

	if len(expired) == 0 {
		return
	}

	log.Printf("⚠️ Retention scan: %d patient records past the %d-day window", len(expired), s.retentionDays)

	// System job, no actor identity.
	_ = s.audit.Append(ctx, nil, "", models.ActionRetentionScan,
		fmt.Sprintf("found %d patient records past retention_days=%d", len(expired), s.retentionDays))
}

package usecase

import (
	"context"
	"fmt"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"bloodconnect/internal/domain/entity"
	"bloodconnect/internal/repository"
	"bloodconnect/internal/service"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var testDBSeq int64

// openTestDB opens a fresh in-memory database with the full schema. The
// shared-cache DSN keeps the database alive across the pooled connections
// gorm opens for transactions.
func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:usecase_test_%d?mode=memory&cache=shared", atomic.AddInt64(&testDBSeq, 1))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&entity.Role{},
		&entity.User{},
		&entity.Donor{},
		&entity.Hospital{},
		&entity.BloodBank{},
		&entity.BloodBatch{},
		&entity.BloodInventory{},
		&entity.BloodRequest{},
		&entity.AuditLog{},
	))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			sqlDB.Close()
		}
	})

	return db
}

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type capturedEvent struct {
	Event   string
	Payload interface{}
}

// capturePublisher records published events in order. Safe for the detached
// alert goroutine.
type capturePublisher struct {
	mu     sync.Mutex
	events []capturedEvent
}

func (p *capturePublisher) Publish(_ context.Context, event string, payload interface{}) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, capturedEvent{Event: event, Payload: payload})
}

func (p *capturePublisher) Events() []capturedEvent {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]capturedEvent, len(p.events))
	copy(out, p.events)
	return out
}

func (p *capturePublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.Event)
	}
	return names
}

type captureNotifier struct {
	mu           sync.Mutex
	instructions []service.Instruction
}

func (n *captureNotifier) Enqueue(_ context.Context, instruction service.Instruction) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.instructions = append(n.instructions, instruction)
	return nil
}

func (n *captureNotifier) Instructions() []service.Instruction {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]service.Instruction, len(n.instructions))
	copy(out, n.instructions)
	return out
}

type requestFixture struct {
	db       *gorm.DB
	usecase  BloodRequestUsecase
	events   *capturePublisher
	notifier *captureNotifier
}

func newRequestFixture(t *testing.T) *requestFixture {
	t.Helper()

	db := openTestDB(t)
	log := testLogger()

	donorRepo := repository.NewDonorRepository()
	hospitalRepo := repository.NewHospitalRepository()
	bankRepo := repository.NewBloodBankRepository()
	requestRepo := repository.NewBloodRequestRepository()
	auditRepo := repository.NewAuditLogRepository()

	events := &capturePublisher{}
	notifier := &captureNotifier{}
	resolver := service.NewProfileResolver(db, donorRepo, hospitalRepo, bankRepo)
	dispatcher := service.NewAlertDispatcher(db, log, donorRepo, notifier)
	audit := service.NewAuditService(db, log, auditRepo)

	return &requestFixture{
		db:       db,
		usecase:  NewBloodRequestUsecase(db, log, requestRepo, resolver, events, dispatcher, audit),
		events:   events,
		notifier: notifier,
	}
}

type bankFixture struct {
	db      *gorm.DB
	usecase BloodBankUsecase
}

func newBankFixture(t *testing.T) *bankFixture {
	t.Helper()

	db := openTestDB(t)
	log := testLogger()

	bankRepo := repository.NewBloodBankRepository()
	batchRepo := repository.NewBloodBatchRepository()
	inventoryRepo := repository.NewBloodInventoryRepository()
	auditRepo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(db, log, auditRepo)

	return &bankFixture{
		db:      db,
		usecase: NewBloodBankUsecase(db, log, bankRepo, batchRepo, inventoryRepo, audit),
	}
}

type donorFixture struct {
	db      *gorm.DB
	usecase DonorUsecase
}

func newDonorFixture(t *testing.T) *donorFixture {
	t.Helper()

	db := openTestDB(t)
	log := testLogger()

	donorRepo := repository.NewDonorRepository()
	hospitalRepo := repository.NewHospitalRepository()
	requestRepo := repository.NewBloodRequestRepository()
	auditRepo := repository.NewAuditLogRepository()
	audit := service.NewAuditService(db, log, auditRepo)

	return &donorFixture{
		db:      db,
		usecase: NewDonorUsecase(db, log, donorRepo, requestRepo, hospitalRepo, audit),
	}
}

func strPtr(s string) *string { return &s }

func boolPtr(b bool) *bool { return &b }

func intPtr(i int) *int { return &i }

func floatPtr(f float64) *float64 { return &f }

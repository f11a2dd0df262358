package service

import (
	"sync"
	"testing"

	"vatrefunder/internal/config"
	"vatrefunder/internal/database"
	"vatrefunder/internal/database/dbtest"
	"vatrefunder/internal/repository"

	"gorm.io/gorm"
)

type publishedEvent struct {
	name    string
	payload any
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (p *recordingPublisher) Publish(event string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, publishedEvent{event, payload})
}

func (p *recordingPublisher) names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, 0, len(p.events))
	for _, e := range p.events {
		names = append(names, e.name)
	}
	return names
}

type testEnv struct {
	db          *gorm.DB
	fx          dbtest.Fixtures
	invoiceRepo repository.InvoiceRepository
	voucherRepo repository.VoucherRepository
	auditRepo   repository.AuditRepository
	refRepo     repository.ReferenceRepository
	reference   ReferenceService
	txManager   repository.TransactionManager
	events      *recordingPublisher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := dbtest.Open(t)
	env := &testEnv{
		db:          db,
		fx:          dbtest.Seed(t, db),
		invoiceRepo: repository.NewInvoiceRepository(db),
		voucherRepo: repository.NewVoucherRepository(db),
		auditRepo:   repository.NewAuditRepository(db),
		refRepo:     repository.NewReferenceRepository(db),
		txManager:   repository.NewTransactionManager(db, database.IsolationLevel(config.DriverSQLite)),
		events:      &recordingPublisher{},
	}
	env.reference = NewReferenceService(env.refRepo, env.auditRepo, env.events)
	return env
}

func (e *testEnv) recorder() InvoiceService {
	return NewInvoiceService(e.invoiceRepo, e.voucherRepo, e.auditRepo, e.reference, e.txManager, e.events)
}

func (e *testEnv) vouchers() VoucherService {
	return NewVoucherService(e.voucherRepo, e.auditRepo, e.reference, e.txManager, e.events)
}

func (e *testEnv) importer() ImportService {
	return NewImportService(e.invoiceRepo, e.auditRepo, e.reference, e.events)
}

func (e *testEnv) countRows(t *testing.T, table string) int64 {
	t.Helper()
	var n int64
	if err := e.db.Table(table).Count(&n).Error; err != nil {
		t.Fatalf("count %s: %v", table, err)
	}
	return n
}

// Package app wires repositories, services and HTTP handlers together.
package app

import (
	"fmt"

	"vatrefunder/internal/config"
	"vatrefunder/internal/database"
	"vatrefunder/internal/repository"
	"vatrefunder/internal/service"

	"gorm.io/gorm"
)

// Repositories groups every repository built on the shared connection.
type Repositories struct {
	Reference repository.ReferenceRepository
	Invoice   repository.InvoiceRepository
	Voucher   repository.VoucherRepository
	Export    repository.ExportRepository
	Audit     repository.AuditRepository
	Tx        repository.TransactionManager
}

// Services groups the application services.
type Services struct {
	Reference service.ReferenceService
	Invoice   service.InvoiceService
	Voucher   service.VoucherService
	Import    service.ImportService
	Export    service.ExportService
	Audit     service.AuditService
}

// Container owns the database handle and everything built on it.
type Container struct {
	Config       *config.Config
	DB           *gorm.DB
	Repositories Repositories
	Services     Services
}

// Open connects to the configured database and builds a container on it.
// events may be nil when nobody listens.
func Open(cfg *config.Config, events service.EventPublisher) (*Container, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		return nil, err
	}
	return New(cfg, db, events), nil
}

// New builds the container on an existing connection.
func New(cfg *config.Config, db *gorm.DB, events service.EventPublisher) *Container {
	repos := Repositories{
		Reference: repository.NewReferenceRepository(db),
		Invoice:   repository.NewInvoiceRepository(db),
		Voucher:   repository.NewVoucherRepository(db),
		Export:    repository.NewExportRepository(db),
		Audit:     repository.NewAuditRepository(db),
		Tx:        repository.NewTransactionManager(db, database.IsolationLevel(cfg.Database.Driver)),
	}

	reference := service.NewReferenceService(repos.Reference, repos.Audit, events)
	services := Services{
		Reference: reference,
		Invoice:   service.NewInvoiceService(repos.Invoice, repos.Voucher, repos.Audit, reference, repos.Tx, events),
		Voucher:   service.NewVoucherService(repos.Voucher, repos.Audit, reference, repos.Tx, events),
		Import:    service.NewImportService(repos.Invoice, repos.Audit, reference, events),
		Export:    service.NewExportService(repos.Export, repos.Audit, reference, cfg.OutputDirectory, events),
		Audit:     service.NewAuditService(repos.Audit),
	}

	return &Container{
		Config:       cfg,
		DB:           db,
		Repositories: repos,
		Services:     services,
	}
}

// Close releases the underlying connection pool.
func (c *Container) Close() error {
	sqlDB, err := c.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

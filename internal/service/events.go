package service

// Events pushed to connected UI clients.
const (
	EventInvoiceRecorded = "invoice.recorded"
	EventVoucherRecorded = "voucher.recorded"
	EventBatchImported   = "batch.imported"
	EventExportBuilt     = "export.built"
	EventSupplierCreated = "supplier.created"
)

// EventPublisher fans out notifications after a successful operation.
type EventPublisher interface {
	Publish(event string, payload any)
}

type noopPublisher struct{}

func (noopPublisher) Publish(string, any) {}

func publisherOrNoop(p EventPublisher) EventPublisher {
	if p == nil {
		return noopPublisher{}
	}
	return p
}

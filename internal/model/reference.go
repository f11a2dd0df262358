package model

// Supplier is a VAT-registered vendor identified by its NIF code.
type Supplier struct {
	ID      uint   `gorm:"column:supplier_id;primaryKey;autoIncrement" json:"id"`
	TaxCode string `gorm:"column:supplier_nif_code;type:varchar(20);not null;index" json:"tax_code"`
	Name    string `gorm:"column:supplier_name;type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (Supplier) TableName() string { return "nif_codes" }

// BudgetHead is the accounting line a voucher is charged against.
type BudgetHead struct {
	ID   uint   `gorm:"column:head_of_accounts_id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (BudgetHead) TableName() string { return "head_of_accounts" }

// Colleague is a staff member who may claim personal VAT refunds.
// Only ranks 1..5 are eligible.
type Colleague struct {
	ID            uint   `gorm:"column:colleague_id;primaryKey;autoIncrement" json:"id"`
	Name          string `gorm:"column:colleague_name;type:varchar(255);not null;uniqueIndex" json:"name"`
	NIE           string `gorm:"column:nie;type:varchar(20)" json:"nie"`
	ServiceOffice string `gorm:"column:service_office;type:varchar(255)" json:"service_office"`
	RankID        int    `gorm:"column:rank_id;not null;index" json:"rank_id"`
}

func (Colleague) TableName() string { return "colleagues" }

const (
	MinEligibleRank = 1
	MaxEligibleRank = 5
)

type Recipient struct {
	ID   uint   `gorm:"column:recipient_id;primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"column:name;type:varchar(255);not null;uniqueIndex" json:"name"`
}

func (Recipient) TableName() string { return "recipients" }

// RefundStatus tracks where a personal refund claim stands with the tax office.
type RefundStatus struct {
	ID   uint   `gorm:"column:refund_status_id;primaryKey;autoIncrement" json:"id"`
	Type string `gorm:"column:refund_status_type;type:varchar(100);not null;uniqueIndex" json:"type"`
}

func (RefundStatus) TableName() string { return "refund_status" }

package log

// Common field names for structured logging
const (
	FieldComponent    = "component"
	FieldError        = "error"
	FieldOperation    = "operation"
	FieldSuccess      = "success"
	FieldDuration     = "duration_ms"
	FieldUserID       = "user_id"
	FieldUserEmail    = "user_email"
	FieldMonth        = "month"
	FieldCategoryID   = "category_id"
	FieldCategorySlug = "category_slug"
	FieldAmountCents  = "amount_cents"
	FieldLimitCents   = "limit_cents"
	FieldTotalCents   = "total_cents"
	FieldCurrency     = "currency"
	FieldStrategy     = "strategy"
	FieldTransaction  = "transaction_id"
	FieldRuleID       = "rule_id"
	FieldFrequency    = "frequency"
	FieldRoutingKey   = "routing_key"
	FieldRows         = "rows"
	FieldBatchSize    = "batch_size"
	FieldSheetsRef    = "sheets_ref"
	FieldBackendKind  = "backend_kind"
)

// Components defines standard component names
const (
	ComponentApp         = "app"
	ComponentCLI         = "cli"
	ComponentBudget      = "budget"
	ComponentTransaction = "transaction"
	ComponentCategory    = "category"
	ComponentRecurring   = "recurring"
	ComponentStorage     = "storage"
	ComponentAMQP        = "amqp"
	ComponentWorker      = "worker"
	ComponentSheets      = "sheets"
	ComponentCache       = "cache"
	ComponentBackend     = "backend"
)

// Operations defines standard operation names
const (
	OpCreate    = "create"
	OpRead      = "read"
	OpUpdate    = "update"
	OpDelete    = "delete"
	OpList      = "list"
	OpAllocate  = "allocate"
	OpRebalance = "rebalance"
	OpGenerate  = "generate"
	OpExport    = "export"
	OpPublish   = "publish"
	OpConsume   = "consume"
	OpMigrate   = "migrate"
	OpValidate  = "validate"
	OpParse     = "parse"
	OpShutdown  = "shutdown"
	OpStartup   = "startup"
)

// ErrorTypes defines standard error type categories
const (
	ErrorTypeValidation    = "validation_error"
	ErrorTypeConfiguration = "configuration_error"
	ErrorTypeDatabase      = "database_error"
	ErrorTypeNetwork       = "network_error"
	ErrorTypeTimeout       = "timeout_error"
	ErrorTypeNotFound      = "not_found_error"
	ErrorTypeInternal      = "internal_error"
)

// LogFields provides a builder pattern for structured log fields
type LogFields map[string]any

// NewFields creates a new LogFields instance
func NewFields() LogFields {
	return make(LogFields)
}

// WithComponent adds component field
func (f LogFields) WithComponent(component string) LogFields {
	f[FieldComponent] = component
	return f
}

// WithError adds error field
func (f LogFields) WithError(err error) LogFields {
	if err != nil {
		f[FieldError] = err.Error()
	}
	return f
}

// WithOperation adds operation field
func (f LogFields) WithOperation(op string) LogFields {
	f[FieldOperation] = op
	return f
}

// WithMonth adds the month anchor field
func (f LogFields) WithMonth(month string) LogFields {
	f[FieldMonth] = month
	return f
}

// WithCategory adds category identity fields
func (f LogFields) WithCategory(id, slug string) LogFields {
	f[FieldCategoryID] = id
	f[FieldCategorySlug] = slug
	return f
}

// WithAmountCents adds the amount field
func (f LogFields) WithAmountCents(cents int64) LogFields {
	f[FieldAmountCents] = cents
	return f
}

// WithBudget adds budget envelope fields
func (f LogFields) WithBudget(totalCents int64, currency, strategy string) LogFields {
	f[FieldTotalCents] = totalCents
	f[FieldCurrency] = currency
	f[FieldStrategy] = strategy
	return f
}

// ToSlice converts LogFields to a slice for slog
func (f LogFields) ToSlice() []any {
	slice := make([]any, 0, len(f)*2)
	for k, v := range f {
		slice = append(slice, k, v)
	}
	return slice
}

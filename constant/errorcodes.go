package constant

// Domain service error codes
const (
	// Settings errors (1xx)
	ErrCodeSettingsLoad   = "SVC101"
	ErrCodeSettingsSave   = "SVC102"
	ErrCodeSettingsDecode = "SVC103"
	ErrCodeTokenGenerate  = "SVC104"

	// Rendering errors (2xx)
	ErrCodeEncoderUnavailable = "SVC201"
	ErrCodeRender             = "SVC202"
	ErrCodeStartupSave        = "SVC203"

	// Authorization errors (3xx)
	ErrCodeUnauthorized = "SVC301"
)

// Database error codes
const (
	// General DB errors (5xx)
	ErrCodeDBGeneral = "DB500"

	// Connection errors (0xx)
	ErrCodeDBOpen    = "DB001"
	ErrCodeDBMigrate = "DB002"

	// Settings row errors (1xx)
	ErrCodeDBLoad  = "DB101"
	ErrCodeDBStore = "DB102"

	// Close operation errors (4xx)
	ErrCodeDBClose = "DB401"
)

// File store error codes
const (
	ErrCodeFileRead  = "FS001"
	ErrCodeFileWrite = "FS002"
)

// Application error codes
const (
	ErrCodeAPIRender         = "API001"
	ErrCodeAPIServiceError   = "API002"
	ErrCodeAPIFormParse      = "API003"
	ErrCodeAppStoreInit      = "APP001"
	ErrCodeAppServerStart    = "APP002"
	ErrCodeAppServerShutdown = "APP003"
	ErrCodeAppSettings       = "APP004"
)

// Error types for categorization
const (
	// Domain error types
	ErrTypeValidation = "validation"
	ErrTypeStorage    = "storage"
	ErrTypeRender     = "render"
	ErrTypeAuth       = "auth"

	// Infrastructure error types
	ErrTypeDB   = "db"
	ErrTypeFile = "file"

	ErrTypeDomain = "domain"
	ErrTypeAPI    = "api"
	ErrTypeApp    = "application"
)

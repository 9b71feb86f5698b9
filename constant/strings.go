package constant

// Request context keys
const (
	RequestIDKey = "request_id"
)

// HTTP header names
const (
	HeaderRequestID      = "X-Request-ID"
	HeaderContentType    = "Content-Type"
	HeaderForwardedProto = "X-Forwarded-Proto"
	HeaderForwardedHost  = "X-Forwarded-Host"
	HeaderForwardedPfx   = "X-Forwarded-Prefix"
)

// Content types
const (
	ContentTypePNG   = "image/png"
	ContentTypeHTML  = "text/html; charset=utf-8"
	ContentTypePlain = "text/plain; charset=utf-8"
)

// Function/Context names
const (
	// Domain context names
	CtxDomain         = "domain"
	CtxLoadSettings   = "LoadSettings"
	CtxSaveSettings   = "SaveSettings"
	CtxUpdateSettings = "UpdateSettings"
	CtxBuildPayload   = "BuildPayload"
	CtxSaveOnce       = "SaveOnce"

	// Infrastructure context names
	CtxDB         = "db"
	CtxJSONStore  = "jsonstore"
	CtxQRCode     = "qrcode"
	CtxRenderPNG  = "RenderPNG"
	CtxSaveToFile = "SaveToFile"
	CtxClose      = "Close"
	CtxAPI        = "api"

	// General context names
	CtxRouter    = "Router"
	CtxMain      = "Main"
	CtxIndex     = "Index"
	CtxInfo      = "Info"
	CtxQRImage   = "QRImage"
	CtxAdminGet  = "AdminGet"
	CtxAdminPost = "AdminPost"
)

// Data field keys
const (
	// Service data fields
	DataService  = "service"
	DataRunID    = "run_id"
	DataPayload  = "payload"
	DataMode     = "qr_mode"
	DataTarget   = "target_url"
	DataSaved    = "saved_path"
	DataSaveErr  = "save_error"
	DataKeys     = "keys"
	DataFilename = "filename"
	DataDir      = "dir"
	DataBackend  = "backend"

	// Storage data fields
	DataPath    = "path"
	DataElapsed = "elapsed"
	DataRows    = "rows"
	DataSQL     = "sql"
	DataData    = "data"

	// API data fields
	DataMethod      = "method"
	DataStatus      = "status"
	DataLatency     = "latency"
	DataSize        = "size"
	DataRemoteAddr  = "remote_addr"
	DataUserAgent   = "user_agent"
	DataAddr        = "addr"
	DataEnvironment = "environment"
	DataHost        = "host"
	DataPort        = "port"
	DataConfigPath  = "config_path"
)

// Settings keys as stored on disk
const (
	KeyQRMode            = "qr_mode"
	KeyTargetURL         = "target_url"
	KeyAppendRunID       = "append_run_id_to_target_url"
	KeyPublicBaseURL     = "public_base_url"
	KeySaveToDesktop     = "qr_save_to_desktop"
	KeyOutputFilename    = "qr_output_filename"
	KeyInfoTitle         = "info_title"
	KeyInfoBody          = "info_body"
	KeyAdminToken        = "admin_token"
	ModeInfoPage         = "info_page"
	ModeTargetURL        = "target_url"
	DefaultTargetURL     = "https://example.com"
	DefaultOutputFile    = "qr.png"
	DefaultInfoTitle     = "Bilgiler"
	DefaultInfoBody      = "Buraya bilgilerinizi yazın."
	DefaultLocalBaseURL  = "http://127.0.0.1:8000"
	DefaultSettingsFile  = "config.json"
	RunIDQueryParam      = "rid"
	AdminTokenQueryParam = "token"
)

// Settings backends
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// User facing messages
const (
	MsgUnauthorizedAdminGet  = "Yetkisiz. /admin?token=... şeklinde admin_token ile girin. Token, config.json içinde: admin_token"
	MsgUnauthorizedAdminPost = "Yetkisiz."
	MsgEncoderUnavailable    = "QR üretimi için kodlayıcı kullanılamıyor.\nKurulum:\n  go get github.com/skip2/go-qrcode\n"
	MsgQRRenderFailed        = "QR kodu üretilemedi."
	MsgSettingsUnavailable   = "Ayarlar okunamadı."
	MsgSettingsSaveFailed    = "Ayarlar kaydedilemedi."
	MsgPageRenderFailed      = "Sayfa oluşturulamadı."
)

// Save status labels shown on the index page
const (
	SaveStatusPending  = "pending"
	SaveStatusSaved    = "saved"
	SaveStatusDisabled = "disabled"
	SaveStatusFailed   = "failed"
)

// API routes
const (
	RouteIndex       = "/"
	RouteInfo        = "/info"
	RouteQRImage     = "/qr.png"
	RouteAdmin       = "/admin"
	RouteHealthcheck = "/health"
)

// Log keys
const (
	LogTimeKey         = "time"
	LogLevelKey        = "level"
	LogNameKey         = "logger"
	LogCallerKey       = "caller"
	LogMessageKey      = "msg"
	LogStacktraceKey   = "stacktrace"
	LogRequestIDKey    = "request_id"
	LogFunctionKey     = "function"
	LogErrorCodeKey    = "error_code"
	LogErrorTypeKey    = "error_type"
	LogErrorMessageKey = "error_message"
	LogEncodingJSON    = "json"
	LogEncodingConsole = "console"
	LogOutputStdout    = "stdout"
	LogOutputStderr    = "stderr"
)

// Environment constants
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Message constants for application
const (
	MsgApplicationStarting   = "Application starting"
	MsgFailedToInitStore     = "Failed to initialize settings store"
	MsgFailedToLoadSettings  = "Failed to load settings"
	MsgFailedToSaveSettings  = "Failed to save settings"
	MsgServerStarting        = "Server starting"
	MsgServerFailedToStart   = "Server failed to start"
	MsgServerShuttingDown    = "Server shutting down"
	MsgServerShutdownError   = "Error during server shutdown"
	MsgServerStopped         = "Server stopped"
	MsgRequestReceived       = "Request received"
	MsgRequestCompleted      = "Request completed"
	MsgSettingUpRoutes       = "Setting up routes"
	MsgHealthcheckRequest    = "Handling healthcheck request"
	MsgHealthy               = "Healthy"
	MsgEncoderUnavailableLog = "QR encoder unavailable"
	MsgStartupSaveSkipped    = "Startup QR save disabled"
	MsgStartupSaveDone       = "Startup QR saved"
	MsgStartupSaveFailed     = "Startup QR save failed"
	MsgMalformedSettings     = "Settings file is not a JSON object, using defaults"
	MsgAdminTokenGenerated   = "Generated new admin token"
	MsgSettingsSaved         = "Settings saved"
	MsgAdminUnauthorized     = "Admin access denied"
	MsgAdminUpdated          = "Admin settings updated"
	MsgPayloadBuilt          = "QR payload built"
	MsgQRRendered            = "QR code rendered"
)

package api

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"sort"

	"github.com/prasetyowira/qrsite/constant"
	"github.com/prasetyowira/qrsite/domain/payload"
	"github.com/prasetyowira/qrsite/domain/qrsite"
	"github.com/prasetyowira/qrsite/domain/settings"
	appLogger "github.com/prasetyowira/qrsite/infrastructure/logger"
	"github.com/prasetyowira/qrsite/infrastructure/qrcode"
)

//go:embed templates/*.html
var templateFS embed.FS

var pages = template.Must(template.ParseFS(templateFS, "templates/*.html"))

// Handler contains service dependencies for HTTP handlers
type Handler struct {
	service *qrsite.Service
}

// IndexPage is the view model for the index page
type IndexPage struct {
	Payload string
	RunID   string
	Status  qrsite.SaveStatus
}

// InfoPage is the view model for the info page
type InfoPage struct {
	Title     string
	Body      string
	TargetURL string
}

// AdminEntry is one row of the settings table on the admin page
type AdminEntry struct {
	Key   string
	Value string
}

// AdminPage is the view model for the admin page
type AdminPage struct {
	Token       string
	Mode        string
	TargetURL   string
	AppendRunID bool
	InfoTitle   string
	InfoBody    string
	Entries     []AdminEntry
}

// NewHandler creates a new HTTP handler
func NewHandler(service *qrsite.Service) *Handler {
	return &Handler{
		service: service,
	}
}

// Index renders the landing page and triggers the once-only PNG save
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, ok := h.loadSettings(w, r, constant.CtxIndex)
	if !ok {
		return
	}

	status := h.service.SaveOnce(ctx, cfg)
	page := IndexPage{
		Payload: h.service.Payload(ctx, cfg, payload.RequestBaseURL(r)),
		RunID:   h.service.RunID(),
		Status:  status,
	}

	h.renderPage(w, r, constant.CtxIndex, "index.html", page)
}

// Info renders the info page from settings
func (h *Handler) Info(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.loadSettings(w, r, constant.CtxInfo)
	if !ok {
		return
	}

	h.renderPage(w, r, constant.CtxInfo, "info.html", InfoPage{
		Title:     cfg.InfoTitle(),
		Body:      cfg.InfoBody(),
		TargetURL: cfg.TargetURL(),
	})
}

// QRImage serves the QR code PNG for the current payload
func (h *Handler) QRImage(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	png, p, err := h.service.RenderQR(ctx, payload.RequestBaseURL(r))
	if err != nil {
		if errors.Is(err, qrcode.ErrEncoderUnavailable) {
			appLogger.CtxError(ctx, constant.MsgEncoderUnavailableLog, appLogger.LoggerInfo{
				ContextFunction: constant.CtxQRImage,
				Error:           appLogger.NewCustomError(constant.ErrCodeEncoderUnavailable, constant.ErrTypeRender, err),
			})
			WritePlain(w, constant.MsgEncoderUnavailable, http.StatusInternalServerError)
			return
		}

		appLogger.CtxError(ctx, "Error serving QR code", appLogger.LoggerInfo{
			ContextFunction: constant.CtxQRImage,
			Error:           appLogger.NewCustomError(constant.ErrCodeAPIServiceError, constant.ErrTypeAPI, err),
			Data: map[string]interface{}{
				constant.DataPayload: p,
			},
		})
		WritePlain(w, constant.MsgQRRenderFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set(constant.HeaderContentType, constant.ContentTypePNG)
	w.WriteHeader(http.StatusOK)
	w.Write(png)
}

// AdminGet renders the settings editor for a valid token
func (h *Handler) AdminGet(w http.ResponseWriter, r *http.Request) {
	cfg, ok := h.loadSettings(w, r, constant.CtxAdminGet)
	if !ok {
		return
	}

	if !h.authorize(w, r, cfg, constant.CtxAdminGet, constant.MsgUnauthorizedAdminGet) {
		return
	}

	h.renderPage(w, r, constant.CtxAdminGet, "admin.html", AdminPage{
		Token:       cfg.AdminToken(),
		Mode:        cfg.Mode(),
		TargetURL:   cfg.String(constant.KeyTargetURL),
		AppendRunID: cfg.AppendRunID(),
		InfoTitle:   cfg.String(constant.KeyInfoTitle),
		InfoBody:    cfg.InfoBody(),
		Entries:     adminEntries(cfg),
	})
}

// AdminPost applies the submitted whitelist of fields and redirects back
func (h *Handler) AdminPost(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cfg, ok := h.loadSettings(w, r, constant.CtxAdminPost)
	if !ok {
		return
	}

	if !h.authorize(w, r, cfg, constant.CtxAdminPost, constant.MsgUnauthorizedAdminPost) {
		return
	}

	if err := r.ParseForm(); err != nil {
		appLogger.CtxWarn(ctx, "Error parsing admin form", appLogger.LoggerInfo{
			ContextFunction: constant.CtxAdminPost,
			Error:           appLogger.NewCustomError(constant.ErrCodeAPIFormParse, constant.ErrTypeValidation, err),
		})
		WritePlain(w, err.Error(), http.StatusBadRequest)
		return
	}

	updated, err := h.service.UpdateFromAdmin(ctx, AdminFormFrom(r.PostForm))
	if err != nil {
		WritePlain(w, constant.MsgSettingsSaveFailed, http.StatusInternalServerError)
		return
	}

	target := payload.RequestBaseURL(r) + constant.RouteAdmin + "?" + url.Values{
		constant.AdminTokenQueryParam: []string{updated.AdminToken()},
	}.Encode()
	http.Redirect(w, r, target, http.StatusFound)
}

// AdminFormFrom extracts the editable fields from a submitted form
func AdminFormFrom(form url.Values) settings.AdminForm {
	field := func(key string) *string {
		if _, ok := form[key]; !ok {
			return nil
		}
		v := form.Get(key)
		return &v
	}

	return settings.AdminForm{
		QRMode:      field(constant.KeyQRMode),
		TargetURL:   field(constant.KeyTargetURL),
		AppendRunID: form.Get(constant.KeyAppendRunID) != "",
		InfoTitle:   field(constant.KeyInfoTitle),
		InfoBody:    field(constant.KeyInfoBody),
	}
}

func adminEntries(cfg settings.Settings) []AdminEntry {
	keys := make([]string, 0, len(cfg))
	for k := range cfg {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	entries := make([]AdminEntry, 0, len(keys))
	for _, k := range keys {
		entries = append(entries, AdminEntry{Key: k, Value: fmt.Sprint(cfg[k])})
	}
	return entries
}

func (h *Handler) loadSettings(w http.ResponseWriter, r *http.Request, fn string) (settings.Settings, bool) {
	cfg, err := h.service.Settings(r.Context())
	if err != nil {
		appLogger.CtxError(r.Context(), constant.MsgFailedToLoadSettings, appLogger.LoggerInfo{
			ContextFunction: fn,
			Error:           appLogger.NewCustomError(constant.ErrCodeAPIServiceError, constant.ErrTypeAPI, err),
		})
		WritePlain(w, constant.MsgSettingsUnavailable, http.StatusInternalServerError)
		return nil, false
	}
	return cfg, true
}

func (h *Handler) authorize(w http.ResponseWriter, r *http.Request, cfg settings.Settings, fn, msg string) bool {
	if cfg.Authorized(r.URL.Query().Get(constant.AdminTokenQueryParam)) {
		return true
	}

	appLogger.CtxWarn(r.Context(), constant.MsgAdminUnauthorized, appLogger.LoggerInfo{
		ContextFunction: fn,
		Error: &appLogger.CustomError{
			Code:    constant.ErrCodeUnauthorized,
			Message: constant.MsgAdminUnauthorized,
			Type:    constant.ErrTypeAuth,
		},
		Data: map[string]interface{}{
			constant.DataRemoteAddr: r.RemoteAddr,
		},
	})
	WritePlain(w, msg, http.StatusUnauthorized)
	return false
}

func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, fn, name string, data interface{}) {
	var buf bytes.Buffer
	if err := pages.ExecuteTemplate(&buf, name, data); err != nil {
		appLogger.CtxError(r.Context(), "Error rendering page", appLogger.LoggerInfo{
			ContextFunction: fn,
			Error:           appLogger.NewCustomError(constant.ErrCodeAPIRender, constant.ErrTypeAPI, err),
		})
		WritePlain(w, constant.MsgPageRenderFailed, http.StatusInternalServerError)
		return
	}

	w.Header().Set(constant.HeaderContentType, constant.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	buf.WriteTo(w)
}

// WritePlain writes a plain text response
func WritePlain(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set(constant.HeaderContentType, constant.ContentTypePlain)
	w.WriteHeader(statusCode)
	w.Write([]byte(message))
}

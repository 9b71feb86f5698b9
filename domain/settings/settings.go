package settings

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/prasetyowira/qrsite/constant"
)

// Settings is the flat, persisted configuration document. Keys the
// application does not know about are kept so they survive a save.
type Settings map[string]interface{}

// Defaults returns a fresh copy of the default settings. The admin token
// is left empty; the Store fills it in.
func Defaults() Settings {
	return Settings{
		constant.KeyQRMode:         constant.ModeInfoPage,
		constant.KeyTargetURL:      constant.DefaultTargetURL,
		constant.KeyAppendRunID:    false,
		constant.KeyPublicBaseURL:  "",
		constant.KeySaveToDesktop:  true,
		constant.KeyOutputFilename: constant.DefaultOutputFile,
		constant.KeyInfoTitle:      constant.DefaultInfoTitle,
		constant.KeyInfoBody:       constant.DefaultInfoBody,
		constant.KeyAdminToken:     "",
	}
}

// Merge overlays stored values on top of the defaults.
func Merge(stored map[string]interface{}) Settings {
	merged := Defaults()
	for k, v := range stored {
		merged[k] = v
	}
	return merged
}

// Clone returns a shallow copy.
func (s Settings) Clone() Settings {
	out := make(Settings, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// String returns the value under key as a string. Missing and null values
// read as "".
func (s Settings) String(key string) string {
	switch v := s[key].(type) {
	case nil:
		return ""
	case string:
		return v
	default:
		return fmt.Sprint(v)
	}
}

// Bool reports the truthiness of the value under key: false, null, "",
// zero and empty collections are false.
func (s Settings) Bool(key string) bool {
	return truthy(s[key])
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0
	case int:
		return t != 0
	case interface{ String() string }:
		// json.Number
		f, err := strconv.ParseFloat(t.String(), 64)
		return err != nil || f != 0
	case []interface{}:
		return len(t) > 0
	case map[string]interface{}:
		return len(t) > 0
	default:
		return true
	}
}

// Mode is the trimmed qr_mode, info_page when empty. Unknown values are
// returned as-is; callers treat them like info_page.
func (s Settings) Mode() string {
	mode := strings.TrimSpace(s.String(constant.KeyQRMode))
	if mode == "" {
		return constant.ModeInfoPage
	}
	return mode
}

func (s Settings) TargetURL() string {
	return strings.TrimSpace(s.String(constant.KeyTargetURL))
}

func (s Settings) AppendRunID() bool {
	return s.Bool(constant.KeyAppendRunID)
}

func (s Settings) PublicBaseURL() string {
	return strings.TrimSpace(s.String(constant.KeyPublicBaseURL))
}

// SaveToDesktop defaults to true when the key is absent.
func (s Settings) SaveToDesktop() bool {
	if _, ok := s[constant.KeySaveToDesktop]; !ok {
		return true
	}
	return s.Bool(constant.KeySaveToDesktop)
}

func (s Settings) OutputFilename() string {
	name := strings.TrimSpace(s.String(constant.KeyOutputFilename))
	if name == "" {
		return constant.DefaultOutputFile
	}
	return name
}

func (s Settings) InfoTitle() string {
	if title := s.String(constant.KeyInfoTitle); title != "" {
		return title
	}
	return constant.DefaultInfoTitle
}

func (s Settings) InfoBody() string {
	return s.String(constant.KeyInfoBody)
}

func (s Settings) AdminToken() string {
	return s.String(constant.KeyAdminToken)
}

// Authorized reports whether token is non-empty and matches the admin token.
func (s Settings) Authorized(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && token == s.AdminToken()
}

// AdminForm carries the editable fields submitted from the admin page.
// Nil pointers mean the field was not submitted. AppendRunID follows
// checkbox semantics: absent means unchecked.
type AdminForm struct {
	QRMode      *string
	TargetURL   *string
	AppendRunID bool
	InfoTitle   *string
	InfoBody    *string
}

// ApplyAdminForm writes the whitelisted admin fields into s.
func (s Settings) ApplyAdminForm(form AdminForm) {
	if form.QRMode != nil {
		s[constant.KeyQRMode] = *form.QRMode
	}
	if form.TargetURL != nil {
		s[constant.KeyTargetURL] = strings.TrimSpace(*form.TargetURL)
	} else {
		s[constant.KeyTargetURL] = strings.TrimSpace(s.String(constant.KeyTargetURL))
	}
	s[constant.KeyAppendRunID] = form.AppendRunID
	if form.InfoTitle != nil {
		s[constant.KeyInfoTitle] = *form.InfoTitle
	}
	if form.InfoBody != nil {
		s[constant.KeyInfoBody] = *form.InfoBody
	}
}

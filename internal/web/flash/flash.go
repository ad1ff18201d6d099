// Package flash carries one-time toast notices across a redirect.
package flash

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"strings"
)

// CookieName is the cookie holding the pending notice.
const CookieName = "doable_flash"

// Kind selects the toast variant.
type Kind string

const (
	KindSuccess     Kind = "success"
	KindDestructive Kind = "destructive"
)

// Notice is a toast shown on the next page render.
type Notice struct {
	Kind        Kind   `json:"kind"`
	Title       string `json:"title"`
	Description string `json:"description,omitempty"`
}

// Success builds a success notice.
func Success(title, description string) Notice {
	return Notice{Kind: KindSuccess, Title: title, Description: description}
}

// Failure builds a destructive notice.
func Failure(title, description string) Notice {
	return Notice{Kind: KindDestructive, Title: title, Description: description}
}

// Write stores notice for the next render.
func Write(w http.ResponseWriter, notice Notice) {
	normalized, ok := normalize(notice)
	if !ok {
		return
	}
	payload, err := json.Marshal(normalized)
	if err != nil {
		return
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    base64.RawURLEncoding.EncodeToString(payload),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// ReadAndClear returns the pending notice, if any, and expires the cookie.
func ReadAndClear(w http.ResponseWriter, r *http.Request) (Notice, bool) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return Notice{}, false
	}
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   -1,
	})
	return decode(cookie.Value)
}

func decode(raw string) (Notice, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return Notice{}, false
	}
	data, err := base64.RawURLEncoding.DecodeString(raw)
	if err != nil {
		return Notice{}, false
	}
	var n Notice
	if err := json.Unmarshal(data, &n); err != nil {
		return Notice{}, false
	}
	return normalize(n)
}

func normalize(n Notice) (Notice, bool) {
	n.Title = strings.TrimSpace(n.Title)
	n.Description = strings.TrimSpace(n.Description)
	if n.Title == "" {
		return Notice{}, false
	}
	switch n.Kind {
	case KindSuccess, KindDestructive:
		return n, true
	default:
		return Notice{}, false
	}
}

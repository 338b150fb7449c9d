package httpserver

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/sohubtech/homestore/internal/cart"
)

func secretKey() []byte {
	k := os.Getenv("SESSION_KEY")
	if k == "" {
		k = "dev-insecure"
	}
	return []byte(k)
}

func sign(payload []byte) string {
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	sig := base64.RawURLEncoding.EncodeToString(h.Sum(nil))
	return sig + "." + base64.RawURLEncoding.EncodeToString(payload)
}

func verify(value string) []byte {
	parts := strings.SplitN(value, ".", 2)
	if len(parts) != 2 {
		return nil
	}
	sig, _ := base64.RawURLEncoding.DecodeString(parts[0])
	payload, _ := base64.RawURLEncoding.DecodeString(parts[1])
	h := hmac.New(sha256.New, secretKey())
	h.Write(payload)
	if !hmac.Equal(sig, h.Sum(nil)) {
		return nil
	}
	return payload
}

type sessionEntry struct {
	mu       sync.Mutex
	cart     *cart.Cart
	lastSeen time.Time
}

// SessionStore keeps one server-side cart per signed session cookie. Access
// to a session's cart is serialized through its entry mutex; the cart engine
// itself does no locking.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*sessionEntry
	maxIdle  time.Duration
}

func NewSessionStore(maxIdle time.Duration) *SessionStore {
	if maxIdle <= 0 {
		maxIdle = 24 * time.Hour
	}
	return &SessionStore{sessions: make(map[string]*sessionEntry), maxIdle: maxIdle}
}

func (st *SessionStore) entry(id string) *sessionEntry {
	st.mu.Lock()
	defer st.mu.Unlock()
	e, ok := st.sessions[id]
	if !ok {
		e = &sessionEntry{cart: cart.New(nil)}
		st.sessions[id] = e
	}
	e.lastSeen = time.Now()
	return e
}

// With runs fn against the session's cart while holding the session lock.
func (st *SessionStore) With(id string, fn func(c *cart.Cart) error) error {
	e := st.entry(id)
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.cart)
}

func (st *SessionStore) Drop(id string) {
	st.mu.Lock()
	defer st.mu.Unlock()
	delete(st.sessions, id)
}

// StartSweeper prunes idle carts on a timer until ctx is done.
func (st *SessionStore) StartSweeper(ctx context.Context, every time.Duration) {
	if every <= 0 {
		every = time.Hour
	}
	go func() {
		t := time.NewTicker(every)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				st.Sweep()
			}
		}
	}()
}

// Sweep drops sessions idle past the store's deadline.
func (st *SessionStore) Sweep() {
	st.mu.Lock()
	defer st.mu.Unlock()
	cutoff := time.Now().Add(-st.maxIdle)
	for id, e := range st.sessions {
		if e.lastSeen.Before(cutoff) {
			delete(st.sessions, id)
		}
	}
}

const cartCookie = "cart_session"

// sessionID returns the verified session id from the cart cookie, minting
// and setting a fresh one when absent or tampered.
func sessionID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(cartCookie); err == nil && c.Value != "" {
		if payload := verify(c.Value); payload != nil {
			return string(payload)
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     cartCookie,
		Value:    sign([]byte(id)),
		Path:     "/",
		MaxAge:   60 * 60 * 24 * 7,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return id
}

type sessionUser struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

func writeUserSession(w http.ResponseWriter, u *sessionUser) {
	if u == nil {
		http.SetCookie(w, &http.Cookie{Name: "sess", Value: "", Path: "/", MaxAge: -1, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode})
		return
	}
	b, _ := json.Marshal(u)
	http.SetCookie(w, &http.Cookie{Name: "sess", Value: sign(b), Path: "/", MaxAge: 60 * 60 * 24 * 7, HttpOnly: true, Secure: true, SameSite: http.SameSiteStrictMode})
}

func readUserSession(r *http.Request) *sessionUser {
	if r == nil {
		return nil
	}
	c, err := r.Cookie("sess")
	if err != nil || c.Value == "" {
		return nil
	}
	payload := verify(c.Value)
	if payload == nil {
		return nil
	}
	var u sessionUser
	if err := json.Unmarshal(payload, &u); err != nil || u.Email == "" {
		return nil
	}
	return &u
}

func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	var v byte
	for i := 0; i < len(a); i++ {
		v |= a[i] ^ b[i]
	}
	return v == 0
}

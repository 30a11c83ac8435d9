// Package session owns the logged-in user's identity. The active session is
// mirrored to durable local storage under the userData key; a missing or
// corrupt record simply means the service starts unauthenticated.
package session

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	log "github.com/sirupsen/logrus"

	"github.com/shopkit/storefront/internal/metrics"
	"github.com/shopkit/storefront/internal/models"
)

const userDataKey = "userData"

var emailPattern = regexp.MustCompile(`\S+@\S+\.\S+`)

// ErrLoginUnavailable is returned in production, where the demo
// accept-any-credentials path is disabled and no auth backend exists.
var ErrLoginUnavailable = errors.New("login is not available outside development mode")

// Claims is the token payload for locally issued demo sessions.
type Claims struct {
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// Holder keeps the active session in memory and mirrored to the store.
type Holder struct {
	mutex      sync.RWMutex
	store      *Store
	session    *models.Session
	devMode    bool
	signingKey []byte
}

// NewHolder creates a holder over the given store. devMode enables the demo
// login path. The token signing key is generated per process; tokens are
// opaque bearer credentials for the backend, never verified locally.
func NewHolder(store *Store, devMode bool) (*Holder, error) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		return nil, fmt.Errorf("generate signing key: %w", err)
	}
	return &Holder{
		store:      store,
		devMode:    devMode,
		signingKey: key,
	}, nil
}

// Restore loads a persisted session at startup. A record that fails to parse
// is discarded and logged; the failure never propagates.
func (h *Holder) Restore() {
	raw, ok, err := h.store.Get(userDataKey)
	if err != nil {
		log.Warn("Failed to read persisted session: ", err)
		metrics.SessionRestores.WithLabelValues("empty").Inc()
		return
	}
	if !ok {
		metrics.SessionRestores.WithLabelValues("empty").Inc()
		return
	}

	var sess models.Session
	if err := json.Unmarshal([]byte(raw), &sess); err != nil {
		log.Warn("Discarding corrupt persisted session: ", err)
		if delErr := h.store.Delete(userDataKey); delErr != nil {
			log.Warn("Failed to remove corrupt session record: ", delErr)
		}
		metrics.SessionRestores.WithLabelValues("corrupt").Inc()
		return
	}

	h.mutex.Lock()
	h.session = &sess
	h.mutex.Unlock()

	metrics.SessionRestores.WithLabelValues("restored").Inc()
	log.WithField("email", sess.Email).Info("Session restored")
}

// Current returns the active session, if any.
func (h *Holder) Current() (models.Session, bool) {
	h.mutex.RLock()
	defer h.mutex.RUnlock()

	if h.session == nil {
		return models.Session{}, false
	}
	return *h.session, true
}

// Login creates and persists a session for syntactically valid credentials.
// Only the development build of the flow accepts credentials without a
// backend; callers validate field syntax first via ValidateCredentials.
func (h *Holder) Login(creds models.Credentials) (models.Session, error) {
	if errs := ValidateCredentials(creds); len(errs) > 0 {
		return models.Session{}, fmt.Errorf("invalid credentials")
	}
	if !h.devMode {
		return models.Session{}, ErrLoginUnavailable
	}

	token, err := h.issueToken(creds.Email)
	if err != nil {
		return models.Session{}, fmt.Errorf("issue token: %w", err)
	}

	sess := models.Session{Email: creds.Email, Token: token}
	if err := h.persist(sess); err != nil {
		return models.Session{}, err
	}

	h.mutex.Lock()
	h.session = &sess
	h.mutex.Unlock()

	log.WithField("email", sess.Email).Info("User logged in")
	return sess, nil
}

// Logout clears both the in-memory session and the persisted record.
func (h *Holder) Logout() error {
	h.mutex.Lock()
	h.session = nil
	h.mutex.Unlock()

	if err := h.store.Delete(userDataKey); err != nil {
		return fmt.Errorf("clear persisted session: %w", err)
	}
	log.Info("User logged out")
	return nil
}

func (h *Holder) persist(sess models.Session) error {
	raw, err := json.Marshal(sess)
	if err != nil {
		return fmt.Errorf("serialize session: %w", err)
	}
	if err := h.store.Put(userDataKey, string(raw)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	return nil
}

func (h *Holder) issueToken(email string) (string, error) {
	claims := Claims{
		Email: email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   email,
			IssuedAt:  jwt.NewNumericDate(time.Now()),
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(24 * time.Hour)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(h.signingKey)
}

// ValidateCredentials checks login form syntax, field by field.
func ValidateCredentials(creds models.Credentials) models.FieldErrors {
	errs := models.FieldErrors{}

	if creds.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(creds.Email) {
		errs["email"] = "Please enter a valid email"
	}
	if creds.Password == "" {
		errs["password"] = "Password is required"
	} else if len(creds.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}

	return errs
}

// ValidateRegistration checks the registration form, field by field.
func ValidateRegistration(req models.RegistrationRequest) models.FieldErrors {
	errs := models.FieldErrors{}

	if strings.TrimSpace(req.FirstName) == "" {
		errs["firstName"] = "First name is required"
	}
	if strings.TrimSpace(req.LastName) == "" {
		errs["lastName"] = "Last name is required"
	}
	if req.Email == "" {
		errs["email"] = "Email is required"
	} else if !emailPattern.MatchString(req.Email) {
		errs["email"] = "Please enter a valid email"
	}
	if req.Password == "" {
		errs["password"] = "Password is required"
	} else if len(req.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}

	return errs
}

// Package viewsession remembers a visitor's last directory view (list or
// map) in a signed cookie.
package viewsession

import (
	"errors"
	"net/http"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"
	"go.uber.org/zap"
)

const modeKey = "view"

// Store wraps a gorilla cookie store for the view preference.
type Store struct {
	cookies *sessions.CookieStore
	name    string
	log     *zap.Logger
}

// New builds the store. An empty key is replaced with a random one, which
// means preferences do not survive a restart; production config must
// provide a key.
func New(sessionKey, name string, secure bool, logger *zap.Logger) (*Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if name == "" {
		return nil, errors.New("session name is empty")
	}
	key := []byte(sessionKey)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("generate session key: no randomness available")
		}
		logger.Warn("no session key configured; using an ephemeral key")
	} else if len(key) < 32 {
		logger.Warn("session key is short; 32+ chars recommended", zap.Int("length", len(key)))
	}

	cs := sessions.NewCookieStore(key)
	cs.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 180,
		Secure:   secure,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	}
	logger.Info("view session store initialized", zap.Bool("secure", secure))
	return &Store{cookies: cs, name: name, log: logger}, nil
}

// Mode returns the remembered view, if any.
func (s *Store) Mode(r *http.Request) (directory.Mode, bool) {
	sess, err := s.cookies.Get(r, s.name)
	if err != nil {
		// A cookie signed with an old key decodes as an error; treat as unset.
		return directory.ModeList, false
	}
	v, _ := sess.Values[modeKey].(string)
	return directory.ParseMode(v)
}

// SaveMode remembers m for the visitor.
func (s *Store) SaveMode(w http.ResponseWriter, r *http.Request, m directory.Mode) error {
	sess, _ := s.cookies.Get(r, s.name)
	sess.Values[modeKey] = m.String()
	return sess.Save(r, w)
}

// Resolve picks the view for a request: an explicit ?view= wins and is
// remembered, then the remembered view, then list.
func (s *Store) Resolve(w http.ResponseWriter, r *http.Request) directory.Mode {
	if m, ok := directory.ParseMode(r.URL.Query().Get("view")); ok {
		if prev, had := s.Mode(r); !had || prev != m {
			if err := s.SaveMode(w, r, m); err != nil {
				s.log.Warn("save view preference failed", zap.Error(err))
			}
		}
		return m
	}
	if m, ok := s.Mode(r); ok {
		return m
	}
	return directory.ModeList
}

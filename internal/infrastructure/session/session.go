package session

import (
	"errors"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/sessions"
)

const (
	CookieName = "gharun_session"

	keySessionID = "sid"
	keyOpsEntry  = "ops_entry"
)

// Options configures the browser-session cookie.
type Options struct {
	Secret string
	Secure bool
}

// Store issues per-request handles onto a cookie-backed browser session.
// The cookie carries no Max-Age, so it ends with the browser session.
type Store struct {
	store sessions.Store
}

func NewStore(opts Options) *Store {
	cs := sessions.NewCookieStore([]byte(opts.Secret))
	cs.MaxAge(0)
	cs.Options.Path = "/"
	cs.Options.HttpOnly = true
	cs.Options.Secure = opts.Secure
	cs.Options.SameSite = http.SameSiteLaxMode
	return &Store{store: cs}
}

// Bind loads the session for r. Writes go to w as Set-Cookie headers, so
// they must happen before the response body is written.
func (s *Store) Bind(w http.ResponseWriter, r *http.Request) *Flags {
	sess, err := s.store.Get(r, CookieName)
	return &Flags{w: w, r: r, sess: sess, loadErr: err}
}

// Flags is the session state of one request. It implements
// ports.SessionFlags.
type Flags struct {
	w       http.ResponseWriter
	r       *http.Request
	sess    *sessions.Session
	loadErr error
}

var errNoSession = errors.New("session unavailable")

// ID returns the session id, minting and saving one on first use.
// An empty id means the session could not be persisted.
func (f *Flags) ID() string {
	if f.sess == nil {
		return ""
	}
	if sid, ok := f.sess.Values[keySessionID].(string); ok && sid != "" {
		return sid
	}
	sid := uuid.NewString()
	f.sess.Values[keySessionID] = sid
	if err := f.save(); err != nil {
		delete(f.sess.Values, keySessionID)
		return ""
	}
	return sid
}

func (f *Flags) OpsPending() (bool, error) {
	if f.sess == nil {
		return false, errNoSession
	}
	if f.loadErr != nil {
		return false, f.loadErr
	}
	pending, _ := f.sess.Values[keyOpsEntry].(bool)
	return pending, nil
}

func (f *Flags) SetOpsPending() error {
	if f.sess == nil {
		return errNoSession
	}
	f.sess.Values[keyOpsEntry] = true
	return f.save()
}

func (f *Flags) ClearOpsPending() error {
	if f.sess == nil {
		return errNoSession
	}
	if _, ok := f.sess.Values[keyOpsEntry]; !ok {
		return nil
	}
	delete(f.sess.Values, keyOpsEntry)
	return f.save()
}

func (f *Flags) save() error {
	if err := f.sess.Save(f.r, f.w); err != nil {
		return err
	}
	f.loadErr = nil
	return nil
}

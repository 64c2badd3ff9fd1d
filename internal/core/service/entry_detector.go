package service

import (
	"net/url"
	"strings"

	"github.com/rs/zerolog"

	"github.com/gharunnepal/marketplace/internal/api/metrics"
	"github.com/gharunnepal/marketplace/internal/core/ports"
)

// Query parameters inspected on load.
const (
	SetupParam = "setup"
	OpsParam   = "ops"
)

// EntryDetection is what the detector learned from one load.
type EntryDetection struct {
	ShowSetup   bool
	OpsDetected bool
	// CleanURL is the request URI without the ops secret. It is set only
	// when the secret was present and the client must replace its location.
	CleanURL string
}

// EntryDetector recognises the setup and ops entry links. The keys are
// plain values shipped to every client; they select a screen and never
// grant access on their own.
type EntryDetector struct {
	setupKey string
	opsKey   string
	log      zerolog.Logger
}

func NewEntryDetector(setupKey, opsKey string, log zerolog.Logger) *EntryDetector {
	return &EntryDetector{setupKey: setupKey, opsKey: opsKey, log: log}
}

// Detect inspects u and the session flags. It never fails: storage errors
// are logged and treated as "flag not set".
func (d *EntryDetector) Detect(u *url.URL, flags ports.SessionFlags) EntryDetection {
	q := url.Values{}
	if u != nil {
		q = u.Query()
	}

	if d.setupKey != "" && q.Get(SetupParam) == d.setupKey {
		metrics.EntryDetectionsTotal.WithLabelValues("setup").Inc()
		return EntryDetection{ShowSetup: true}
	}

	if d.opsKey != "" && q.Get(OpsParam) == d.opsKey {
		if flags != nil {
			if err := flags.SetOpsPending(); err != nil {
				metrics.SessionFlagErrorsTotal.Inc()
				d.log.Debug().Err(err).Msg("session flag write failed")
			}
		}
		metrics.EntryDetectionsTotal.WithLabelValues("ops").Inc()
		return EntryDetection{OpsDetected: true, CleanURL: stripParam(u, OpsParam)}
	}

	if flags == nil {
		return EntryDetection{}
	}
	pending, err := flags.OpsPending()
	if err != nil {
		metrics.SessionFlagErrorsTotal.Inc()
		d.log.Debug().Err(err).Msg("session flag read failed")
		return EntryDetection{}
	}
	if pending {
		metrics.EntryDetectionsTotal.WithLabelValues("ops_restored").Inc()
	}
	return EntryDetection{OpsDetected: pending}
}

// stripParam returns the request URI of u without param. The other query
// pairs keep their order and encoding.
func stripParam(u *url.URL, param string) string {
	clean := *u
	var kept []string
	for _, pair := range strings.Split(u.RawQuery, "&") {
		if pair == "" {
			continue
		}
		key, _, _ := strings.Cut(pair, "=")
		if name, err := url.QueryUnescape(key); err == nil && name == param {
			continue
		}
		kept = append(kept, pair)
	}
	clean.RawQuery = strings.Join(kept, "&")
	clean.ForceQuery = false
	clean.Scheme = ""
	clean.Host = ""
	clean.User = nil
	uri := clean.RequestURI()
	if uri == "" {
		return "/"
	}
	return uri
}

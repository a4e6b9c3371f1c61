// Package pprofserver exposes the Go runtime profiling endpoints on a
// dedicated listener, enabled only when the agent is configured with a
// debug address. Requests from the device itself pass freely; anything
// reaching the port over the network must present basic-auth credentials.
package pprofserver

import (
	"crypto/subtle"
	"net"
	"net/http"
	"net/http/pprof"
	"strings"
)

// Config holds the basic-auth credentials required for non-loopback
// callers. Leaving either field empty locks remote access out entirely.
type Config struct {
	User string
	Pass string
}

// Handler builds the /debug/pprof mux wrapped in the access guard.
func Handler(cfg Config) http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	for _, p := range []string{"heap", "goroutine", "allocs", "block", "mutex", "threadcreate"} {
		mux.Handle("/debug/pprof/"+p, pprof.Handler(p))
	}
	return guard(cfg, mux)
}

// guard admits loopback callers unconditionally and requires matching
// basic-auth credentials from everyone else.
func guard(cfg Config, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if isLoopback(r.RemoteAddr) {
			next.ServeHTTP(w, r)
			return
		}

		if cfg.User == "" || cfg.Pass == "" {
			unauthorized(w)
			return
		}

		user, pass, ok := r.BasicAuth()
		if !ok || !secureEq(user, cfg.User) || !secureEq(pass, cfg.Pass) {
			unauthorized(w)
			return
		}

		next.ServeHTTP(w, r)
	})
}

func unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", `Basic realm="pprof"`)
	http.Error(w, "unauthorized", http.StatusUnauthorized)
}

func isLoopback(remoteAddr string) bool {
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		host = remoteAddr
	}
	ip := net.ParseIP(strings.TrimSpace(host))
	return ip != nil && ip.IsLoopback()
}

// secureEq compares in constant time once lengths match.
func secureEq(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

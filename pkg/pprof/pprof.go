// Package pprof installs Go profiling endpoints on an HTTP mux.
package pprof

import (
	"net/http"
	"net/http/pprof"
)

// Install registers the standard pprof handlers under /debug/pprof/.
func Install(mux *http.ServeMux) {
	mux.HandleFunc("/debug/pprof/", pprof.Index)
	mux.HandleFunc("/debug/pprof/cmdline", pprof.Cmdline)
	mux.HandleFunc("/debug/pprof/profile", pprof.Profile)
	mux.HandleFunc("/debug/pprof/symbol", pprof.Symbol)
	mux.HandleFunc("/debug/pprof/trace", pprof.Trace)
}

package httpadmin

import (
	"log"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Server exposes the operational surface: liveness plus prometheus metrics.
type Server struct {
	addr string
}

func New(addr string) *Server { return &Server{addr: addr} }

func (s *Server) Start() {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	mux.Handle("/metrics", promhttp.Handler())

	log.Printf("[http] admin listening on %s", s.addr)
	if err := http.ListenAndServe(s.addr, mux); err != nil {
		log.Printf("[http] admin server: %v", err)
	}
}

package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	SignalsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "signals_total", Help: "Signal records generated, by transition"},
		[]string{"transition"},
	)
	FillsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "fills_total", Help: "Simulated fills"},
		[]string{"side"},
	)
	SimErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{Name: "sim_errors_total", Help: "Backtests aborted, by cause"},
		[]string{"kind"},
	)
	EquityLast = prometheus.NewGauge(
		prometheus.GaugeOpts{Name: "equity_last", Help: "Equity at the last processed bar of the latest backtest"},
	)
)

func init() {
	prometheus.MustRegister(SignalsTotal, FillsTotal, SimErrorsTotal, EquityLast)
}

func Serve(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux}
	go func() { _ = srv.ListenAndServe() }()
	return srv
}

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

// Результаты ставки для метки outcome
const (
	OutcomeWin               = "win"
	OutcomeLoss              = "loss"
	OutcomeInsufficientFunds = "insufficient_funds"
	OutcomeFailed            = "failed"
)

// Metrics - коллекторы сервиса. Методы безопасны для nil получателя,
// так что сервисы и тесты могут работать без метрик
type Metrics struct {
	wagers      *prometheus.CounterVec
	wagered     *prometheus.CounterVec
	won         *prometheus.CounterVec
	events      *prometheus.CounterVec
	connections prometheus.Gauge
	rtp         *prometheus.GaugeVec
}

// New создает коллекторы и регистрирует их в reg
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		wagers: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_wagers_total",
				Help: "Total wagers by game and outcome",
			},
			[]string{"game", "outcome"},
		),
		wagered: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_wagered_amount_total",
				Help: "Total amount wagered",
			},
			[]string{"game"},
		),
		won: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_won_amount_total",
				Help: "Total amount paid out",
			},
			[]string{"game"},
		),
		events: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "slot_gateway_events_total",
				Help: "Gateway events by name and result code",
			},
			[]string{"event", "result"},
		),
		connections: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "slot_gateway_connections",
				Help: "Open gateway connections",
			},
		),
		rtp: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "slot_game_rtp_percent",
				Help: "Observed return to player since process start",
			},
			[]string{"game"},
		),
	}

	reg.MustRegister(m.wagers, m.wagered, m.won, m.events, m.connections, m.rtp)
	return m
}

func (m *Metrics) Wager(game, outcome string, bet, win decimal.Decimal) {
	if m == nil {
		return
	}
	m.wagers.WithLabelValues(game, outcome).Inc()
	if outcome == OutcomeWin || outcome == OutcomeLoss {
		m.wagered.WithLabelValues(game).Add(bet.InexactFloat64())
		m.won.WithLabelValues(game).Add(win.InexactFloat64())
	}
}

func (m *Metrics) RTP(game string, percent float64) {
	if m == nil {
		return
	}
	m.rtp.WithLabelValues(game).Set(percent)
}

func (m *Metrics) Event(event, result string) {
	if m == nil {
		return
	}
	m.events.WithLabelValues(event, result).Inc()
}

func (m *Metrics) ConnectionOpened() {
	if m == nil {
		return
	}
	m.connections.Inc()
}

func (m *Metrics) ConnectionClosed() {
	if m == nil {
		return
	}
	m.connections.Dec()
}

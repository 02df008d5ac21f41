package obs

import (
	"fmt"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	domainOnce sync.Once

	// OrdersCommittedTotal counts orders settled with confirmation.
	OrdersCommittedTotal prometheus.Counter
	// OrdersCancelledTotal counts orders settled with cancellation.
	OrdersCancelledTotal prometheus.Counter
	// ChangeShortfallTotal counts confirmed settlements the till could not make change for.
	ChangeShortfallTotal prometheus.Counter
	// SelectionRejectedTotal counts item selections rejected by policy, per reason.
	SelectionRejectedTotal *prometheus.CounterVec
	// DepositsTotal counts deposited units per denomination (minor-unit label).
	DepositsTotal *prometheus.CounterVec
	// ChangeDispensedCentavos accumulates change paid out, in minor units.
	ChangeDispensedCentavos prometheus.Counter
)

// MustRegisterDomainMetrics initialises and registers domain-specific Prometheus collectors.
func MustRegisterDomainMetrics(namespace string, reg prometheus.Registerer) {
	domainOnce.Do(func() {
		if reg == nil {
			reg = prometheus.DefaultRegisterer
		}
		OrdersCommittedTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_committed_total",
			Help:      "Count of orders committed at settlement.",
		})
		OrdersCancelledTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_cancelled_total",
			Help:      "Count of orders cancelled at settlement.",
		})
		ChangeShortfallTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_shortfall_total",
			Help:      "Count of confirmed settlements rolled back because exact change was unavailable.",
		})
		SelectionRejectedTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "selection_rejected_total",
			Help:      "Count of item selections rejected before any state change.",
		}, []string{"reason"})
		DepositsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "deposits_total",
			Help:      "Count of deposited cash units per denomination.",
		}, []string{"denomination"})
		ChangeDispensedCentavos = prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "change_dispensed_centavos",
			Help:      "Total change dispensed to customers, in minor units.",
		})

		mustRegisterCollector(reg, OrdersCommittedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersCommittedTotal = v
			}
		})
		mustRegisterCollector(reg, OrdersCancelledTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				OrdersCancelledTotal = v
			}
		})
		mustRegisterCollector(reg, ChangeShortfallTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ChangeShortfallTotal = v
			}
		})
		mustRegisterCollector(reg, SelectionRejectedTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				SelectionRejectedTotal = v
			}
		})
		mustRegisterCollector(reg, DepositsTotal, func(existing prometheus.Collector) {
			if v, ok := existing.(*prometheus.CounterVec); ok {
				DepositsTotal = v
			}
		})
		mustRegisterCollector(reg, ChangeDispensedCentavos, func(existing prometheus.Collector) {
			if v, ok := existing.(prometheus.Counter); ok {
				ChangeDispensedCentavos = v
			}
		})
	})
}

func mustRegisterCollector(reg prometheus.Registerer, collector prometheus.Collector, reuse func(prometheus.Collector)) {
	if err := reg.Register(collector); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if reuse != nil {
				reuse(are.ExistingCollector)
			}
			return
		}
		panic(fmt.Errorf("register domain metric: %w", err))
	}
}

package services

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	otpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyorder_otp_requests_total",
			Help: "OTP code requests by result.",
		},
		[]string{"result"},
	)
	otpVerificationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyorder_otp_verifications_total",
			Help: "OTP verification attempts by result.",
		},
		[]string{"result"},
	)
	otpLiveEntries = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "easyorder_otp_live_entries",
			Help: "OTP entries currently held in memory.",
		},
	)
	ordersCreatedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "easyorder_orders_created_total",
			Help: "Orders accepted.",
		},
	)
	orderTransitionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyorder_order_transitions_total",
			Help: "Accepted order status transitions.",
		},
		[]string{"from", "to"},
	)
	orderRejectionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "easyorder_order_rejections_total",
			Help: "Order writes refused by a business rule or a lost race.",
		},
		[]string{"reason"},
	)
	ordersReapedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "easyorder_orders_reaped_total",
			Help: "Orders purged after their retention horizon.",
		},
	)
)

func rejectionReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrPaymentNotConfirmed):
		return "payment_not_confirmed"
	case errors.Is(err, ErrInvalidTransition):
		return "invalid_transition"
	case errors.Is(err, ErrTableOccupied), errors.Is(err, ErrAlreadyOccupied):
		return "table_occupied"
	case errors.Is(err, ErrConflict):
		return "conflict"
	}
	return ""
}

func observeRejection(err error) {
	if r := rejectionReason(err); r != "" {
		orderRejectionsTotal.WithLabelValues(r).Inc()
	}
}

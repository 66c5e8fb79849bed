package metrics

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
)

var (
	Sessions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhchat_sessions_total",
			Help: "Sessions that completed the key exchange.",
		}, []string{"role"})

	HandshakeFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dhchat_handshake_failures_total",
			Help: "Key exchanges that failed before a session started.",
		}, []string{"role"})

	MessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dhchat_messages_sent_total",
			Help: "Frames written to a peer.",
		})

	MessagesReceived = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dhchat_messages_received_total",
			Help: "Frames read from a peer and delivered.",
		})

	FrameErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "dhchat_frame_errors_total",
			Help: "Receive flows that ended on a malformed frame.",
		})
)

// Serve exposes /metrics on addr until ctx is cancelled. An empty addr is a
// no-op.
func Serve(ctx context.Context, addr string, log *logrus.Entry) error {
	if addr == "" {
		return nil
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return errors.Wrapf(err, "metrics listen %s", addr)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		log.WithField("addr", ln.Addr().String()).Info("serving metrics")
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server stopped")
		}
	}()
	return nil
}

package ecverify

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Verifier runs ECDSA verifications. It holds no per-call state and is safe
// for concurrent use; every call gets its own workarea.
type Verifier struct {
	logger     *zap.Logger
	registerer prometheus.Registerer
	curveLabel bool
	metrics    *verifierMetrics
}

// Option configures a Verifier
type Option func(*Verifier)

// WithLogger sets the logger. State transitions are logged at debug level
// and faults at warn level.
func WithLogger(l *zap.Logger) Option {
	return func(v *Verifier) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithRegisterer registers the verifier's metrics with reg
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(v *Verifier) { v.registerer = reg }
}

// WithCurveLabel controls whether metrics carry the curve name. With it
// disabled every curve reports under "any", which bounds label cardinality
// when callers bring their own curves.
func WithCurveLabel(enabled bool) Option {
	return func(v *Verifier) { v.curveLabel = enabled }
}

// NewVerifier returns a Verifier configured by opts. A metrics registration
// failure is logged and leaves the verifier with unexported metrics.
func NewVerifier(opts ...Option) *Verifier {
	v := &Verifier{logger: zap.NewNop(), curveLabel: true}
	for _, opt := range opts {
		opt(v)
	}
	v.logger = v.logger.Named("ecverify")
	m, err := newVerifierMetrics(v.registerer)
	if err != nil {
		v.logger.Warn("metrics disabled", zap.Error(err))
		m, _ = newVerifierMetrics(nil)
	}
	v.metrics = m
	return v
}

func (v *Verifier) label(params *DomainParams) string {
	switch {
	case !v.curveLabel:
		return "any"
	case params == nil || params.Name == "":
		return "unnamed"
	}
	return params.Name
}

// Verify checks signature (r || s) over hash against publicKey (Qx || Qy) on
// the curve described by params. The error is nil exactly when the status is
// StatusOK, and then Result.R holds the recovered r. A StatusFault result is
// final and must not be retried.
func (v *Verifier) Verify(ctx context.Context, params *DomainParams, publicKey, signature, hash []byte) (Result, error) {
	start := time.Now()
	curve := v.label(params)
	res, err := v.verify(ctx, curve, params, publicKey, signature, hash)
	v.metrics.observe(curve, res.Status, time.Since(start))
	return res, err
}

func (v *Verifier) verify(ctx context.Context, curve string, params *DomainParams, publicKey, signature, hash []byte) (Result, error) {
	vf, err := newVerification(params, publicKey, signature, hash)
	if err != nil {
		return Result{Status: StatusInvalidParams}, statusError(StatusInvalidParams, err.Error())
	}
	defer vf.release()

	status, state, ctxErr := vf.run(ctx, func(s verifyState) {
		v.logger.Debug("state transition", zap.String("curve", curve), zap.Stringer("state", s))
	})
	switch status {
	case StatusOK:
		return Result{Status: StatusOK, R: vf.r}, nil
	case StatusCanceled:
		return Result{Status: status}, fmt.Errorf("%w: stopped before %s: %w", ErrCanceled, state, ctxErr)
	case StatusFault:
		v.logger.Warn("fault detected",
			zap.String("curve", curve),
			zap.Stringer("state", state),
			zap.String("reason", vf.reason))
		v.metrics.fault(curve, state)
		return Result{Status: status}, statusError(status, vf.reason)
	}
	return Result{Status: status}, statusError(status, "")
}

var defaultVerifier = NewVerifier()

// Verify runs a verification with the default Verifier and no deadline
func Verify(params *DomainParams, publicKey, signature, hash []byte) (Result, error) {
	return defaultVerifier.Verify(context.Background(), params, publicKey, signature, hash)
}

// Package scanner runs the full AI visibility scan for one domain: the schema
// audit, the technical audit and the AI probe, in that order.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/net/publicsuffix"

	"github.com/amosWeiskopf/aivis/internal/models"
	"github.com/amosWeiskopf/aivis/pkg/logger"
	"github.com/amosWeiskopf/aivis/pkg/metrics"
	"github.com/amosWeiskopf/aivis/pkg/progress"
	"github.com/amosWeiskopf/aivis/pkg/prober"
	"github.com/amosWeiskopf/aivis/pkg/prompts"
	"github.com/amosWeiskopf/aivis/pkg/utils"
)

// ErrInvalidDomain is returned when the target domain is empty after
// normalisation.
var ErrInvalidDomain = errors.New("invalid domain")

// Request is the input of one scan. Only Domain is required.
type Request struct {
	Domain      string   `json:"domain"`
	Brand       string   `json:"brand,omitempty"`
	Industry    string   `json:"industry,omitempty"`
	Competitors []string `json:"competitors,omitempty"`
}

// AIProber is the AI probe phase.
type AIProber interface {
	Probe(ctx context.Context, req prober.Request) (models.AIProbeResult, error)
}

// Scanner orchestrates the scan phases. Each phase failure is replaced by a
// zero stub so the result is always complete.
type Scanner struct {
	auditor  prober.SiteAuditor
	prober   AIProber
	metrics  *metrics.Collector
	progress progress.Sink
	now      func() time.Time
	newID    func() string
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithMetrics records phase timings and scan counts.
func WithMetrics(c *metrics.Collector) Option {
	return func(s *Scanner) { s.metrics = c }
}

// WithProgress reports phase transitions to sink.
func WithProgress(sink progress.Sink) Option {
	return func(s *Scanner) { s.progress = progress.OrNop(sink) }
}

// WithClock overrides the scan timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *Scanner) { s.now = now }
}

// WithIDGenerator overrides scan id generation.
func WithIDGenerator(newID func() string) Option {
	return func(s *Scanner) { s.newID = newID }
}

// New creates a Scanner.
func New(auditor prober.SiteAuditor, p AIProber, opts ...Option) *Scanner {
	s := &Scanner{
		auditor:  auditor,
		prober:   p,
		progress: progress.Nop{},
		now:      time.Now,
		newID:    uuid.NewString,
	}
	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Scan runs all three phases. The only error is ErrInvalidDomain.
func (s *Scanner) Scan(ctx context.Context, req Request) (models.ScanResult, error) {
	return s.run(ctx, req, models.ModeFull)
}

// QuickScan runs the schema and technical phases only; the AI probe is the
// not-measured stub.
func (s *Scanner) QuickScan(ctx context.Context, req Request) (models.ScanResult, error) {
	return s.run(ctx, req, models.ModeQuick)
}

func (s *Scanner) run(ctx context.Context, req Request, mode string) (models.ScanResult, error) {
	req, err := Normalize(req)
	if err != nil {
		return models.ScanResult{}, err
	}

	meta := models.Meta{
		ScanID:      s.newID(),
		Domain:      req.Domain,
		Brand:       req.Brand,
		Industry:    req.Industry,
		Competitors: req.Competitors,
		ScanDate:    s.now().UTC(),
		Version:     models.Version,
		Mode:        mode,
	}
	ctx = logger.WithFields(ctx, zap.String("scan_id", meta.ScanID), zap.String("domain", req.Domain))
	logger.Info(ctx, "scan started", zap.String("mode", mode), zap.Strings("competitors", req.Competitors))

	result := models.ScanResult{
		Meta:      meta,
		Schema:    models.EmptySchemaAudit(req.Domain),
		Technical: models.EmptyTechnicalAudit(req.Domain),
		AIProbe:   models.EmptyAIProbe(req.Domain, req.Brand, req.Industry),
	}

	s.report(ctx, models.PhaseSchema, "Auditing structured data")
	s.runPhase(ctx, models.PhaseSchema, &result.Meta, func(ctx context.Context) error {
		schema, err := s.auditor.AuditSchema(ctx, req.Domain)
		if err != nil {
			return err
		}
		result.Schema = schema
		return nil
	})

	s.report(ctx, models.PhaseTechnical, "Checking technical readiness")
	s.runPhase(ctx, models.PhaseTechnical, &result.Meta, func(ctx context.Context) error {
		technical, err := s.auditor.AuditTechnical(ctx, req.Domain)
		if err != nil {
			return err
		}
		result.Technical = technical
		return nil
	})

	if mode == models.ModeFull {
		s.report(ctx, models.PhaseAIProbe, "Probing AI engines")
		s.runPhase(ctx, models.PhaseAIProbe, &result.Meta, func(ctx context.Context) error {
			if s.prober == nil {
				return errors.New("no ai prober configured")
			}
			probe, err := s.prober.Probe(ctx, prober.Request{
				Domain:         req.Domain,
				Brand:          req.Brand,
				Industry:       req.Industry,
				Competitors:    req.Competitors,
				SchemaScore:    result.Schema.SchemaScore,
				TechnicalScore: result.Technical.TechnicalScore,
			})
			if err != nil {
				return err
			}
			result.AIProbe = probe
			return nil
		})
	}

	result.OverallScore = models.OverallScore(
		result.Schema.SchemaScore,
		result.Technical.TechnicalScore,
		result.AIProbe.AIVisibilityScore,
	)
	s.metrics.IncScan(mode)

	logger.Info(ctx, "scan complete",
		zap.Int("overall", result.OverallScore),
		zap.Int("schema", result.Schema.SchemaScore),
		zap.Int("technical", result.Technical.TechnicalScore),
		zap.Int("ai", result.AIProbe.AIVisibilityScore),
		zap.Int("failed_phases", len(result.Meta.PhaseErrors)),
	)

	return result, nil
}

// runPhase runs fn, converting an error or panic into a phase error on meta.
func (s *Scanner) runPhase(ctx context.Context, phase string, meta *models.Meta, fn func(context.Context) error) {
	start := time.Now()
	err := safely(ctx, fn)
	s.metrics.ObservePhase(phase, time.Since(start), err != nil)

	if err == nil {
		logger.Debug(ctx, "scan phase complete", zap.String("phase", phase), zap.Duration("took", time.Since(start)))
		return
	}

	logger.Error(ctx, "scan phase failed, using empty result", zap.String("phase", phase), zap.Error(err))
	if meta.PhaseErrors == nil {
		meta.PhaseErrors = map[string]string{}
	}
	meta.PhaseErrors[phase] = err.Error()
}

func safely(ctx context.Context, fn func(context.Context) error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()

	return fn(ctx)
}

func (s *Scanner) report(ctx context.Context, phase, msg string) {
	s.progress.Report(ctx, progress.Event{Phase: phase, Message: msg})
}

// Normalize fills defaults and cleans the request: the domain is reduced to
// a bare host, the brand defaults to its first label and the industry to
// "generic". Competitors are lower-cased and deduplicated, and any that
// share the target's registrable domain are dropped.
func Normalize(req Request) (Request, error) {
	domain := utils.NormalizeDomain(req.Domain)
	if domain == "" {
		return Request{}, fmt.Errorf("%w: %q", ErrInvalidDomain, req.Domain)
	}

	out := Request{
		Domain:      domain,
		Brand:       strings.TrimSpace(req.Brand),
		Industry:    strings.TrimSpace(req.Industry),
		Competitors: []string{},
	}
	if out.Brand == "" {
		out.Brand = utils.BrandFromDomain(domain)
	}
	if out.Industry == "" {
		out.Industry = prompts.GenericIndustry
	}

	seen := map[string]bool{registrable(domain): true}
	for _, c := range req.Competitors {
		c = utils.NormalizeDomain(c)
		if c == "" {
			continue
		}
		key := registrable(c)
		if seen[key] {
			continue
		}
		seen[key] = true
		out.Competitors = append(out.Competitors, c)
	}

	return out, nil
}

// registrable returns the eTLD+1 of domain, or the domain itself for IP
// addresses and hosts without a public suffix match.
func registrable(domain string) string {
	host := utils.Hostname(domain)
	if net.ParseIP(strings.Trim(host, "[]")) != nil {
		return domain
	}
	if etld1, err := publicsuffix.EffectiveTLDPlusOne(host); err == nil {
		return etld1
	}

	return domain
}

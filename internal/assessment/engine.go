// Package assessment orchestrates a full run over a batch of extracted
// documents: per-document compliance scoring, metadata resolution and
// grouping into lakes, and per-lake trend analysis and trajectory
// classification. Compliance scoring never depends on grouping, so a
// document whose lake or year cannot be resolved still gets scored.
package assessment

import (
	"context"
	"errors"
	"fmt"
	"log"
	"runtime"
	"sort"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"

	"github.com/Brown-1023/document-parsing-backend/internal/compliance"
	"github.com/Brown-1023/document-parsing-backend/internal/document"
	"github.com/Brown-1023/document-parsing-backend/internal/grouping"
	"github.com/Brown-1023/document-parsing-backend/internal/metadata"
	"github.com/Brown-1023/document-parsing-backend/internal/params"
	"github.com/Brown-1023/document-parsing-backend/internal/rules"
	"github.com/Brown-1023/document-parsing-backend/internal/trajectory"
	"github.com/Brown-1023/document-parsing-backend/internal/trend"
)

// InsightProvider supplies optional narrative enrichment for one lake's
// assessment. Implementations may call external services; a failure is
// logged and skipped, never propagated, since enrichment must not be
// load-bearing for the deterministic core.
type InsightProvider interface {
	Enrich(ctx context.Context, a Assessment) (Insights, error)
}

// Engine runs assessments against a ruleset loaded once at startup. It is
// safe for concurrent use; each Run recomputes from scratch.
type Engine struct {
	rules    *rules.Ruleset
	insights InsightProvider
	parallel int
	tracer   trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithInsightProvider attaches optional narrative enrichment.
func WithInsightProvider(p InsightProvider) Option {
	return func(e *Engine) { e.insights = p }
}

// WithParallelism caps the number of documents or lakes processed at once.
func WithParallelism(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.parallel = n
		}
	}
}

// New builds an Engine over the given ruleset.
func New(rs *rules.Ruleset, opts ...Option) *Engine {
	e := &Engine{
		rules:    rs,
		parallel: runtime.NumCPU(),
		tracer:   otel.Tracer("assessment"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Run processes one batch of documents and returns a compliance result per
// valid document, an assessment per lake with enough multi-year data, and
// the issues raised along the way. Per-document and per-lake failures
// become Issues; Run itself fails only on cancellation.
func (e *Engine) Run(ctx context.Context, docs []document.Record) (RunResult, error) {
	ctx, span := e.tracer.Start(ctx, "assessment.Run",
		trace.WithAttributes(attribute.Int("documents", len(docs))))
	defer span.End()

	res := RunResult{
		RunID:       uuid.NewString(),
		GeneratedAt: time.Now().UTC(),
	}

	valid := make([]document.Record, 0, len(docs))
	for _, doc := range docs {
		if doc.Empty() {
			res.Issues = append(res.Issues, Issue{
				Code:       CodeInvalidDocument,
				DocumentID: doc.ID,
				Message:    fmt.Sprintf("document %s has no metrics and no text", doc.ID),
			})
			continue
		}
		valid = append(valid, doc)
	}

	sets, err := e.scoreDocuments(ctx, valid, &res)
	if err != nil {
		return res, err
	}

	entries := e.resolveAndGroup(valid, sets, &res)
	groups := grouping.GroupReports(entries)
	for _, warning := range grouping.DetectAmbiguities(groups) {
		res.Issues = append(res.Issues, Issue{Code: CodeAmbiguousGrouping, Message: warning})
	}

	if err := e.assessLakes(ctx, groups, &res); err != nil {
		return res, err
	}

	e.enrich(ctx, &res)

	sort.Slice(res.Compliance, func(i, j int) bool {
		return res.Compliance[i].DocumentID < res.Compliance[j].DocumentID
	})
	sort.Slice(res.Assessments, func(i, j int) bool {
		return res.Assessments[i].CanonicalName < res.Assessments[j].CanonicalName
	})
	span.SetAttributes(
		attribute.Int("assessments", len(res.Assessments)),
		attribute.Int("issues", len(res.Issues)),
	)
	return res, nil
}

// scoreDocuments normalizes and compliance-scores every document in
// parallel. The returned sets are indexed like docs.
func (e *Engine) scoreDocuments(ctx context.Context, docs []document.Record, res *RunResult) ([]params.Set, error) {
	ctx, span := e.tracer.Start(ctx, "assessment.scoreDocuments")
	defer span.End()

	sets := make([]params.Set, len(docs))
	scores := make([]compliance.Result, len(docs))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for i, doc := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			set := params.AddDerived(e.rules, params.Normalize(e.rules, doc.Metrics))
			sets[i] = set
			scores[i] = compliance.Score(doc.ID, doc.DocType, set, e.rules)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	res.Compliance = append(res.Compliance, scores...)
	return sets, nil
}

// resolveAndGroup extracts lake/year metadata per document and builds the
// grouping entries. Fully unresolved documents stay out of every group but
// keep their compliance result.
func (e *Engine) resolveAndGroup(docs []document.Record, sets []params.Set, res *RunResult) []grouping.Entry {
	entries := make([]grouping.Entry, 0, len(docs))
	for i, doc := range docs {
		meta, err := metadata.Resolve(doc)
		if errors.Is(err, metadata.ErrUnresolved) {
			res.Issues = append(res.Issues, Issue{
				Code:       CodeUnresolvedMetadata,
				DocumentID: doc.ID,
				Message:    fmt.Sprintf("no lake name or year found for %s; excluded from grouping", doc.Filename),
			})
			continue
		}
		entries = append(entries, grouping.Entry{Meta: meta, Params: sets[i]})
	}
	return entries
}

// assessLakes runs the trend and trajectory path for each group in
// parallel. Groups without three distinct years raise an issue instead of
// an assessment.
func (e *Engine) assessLakes(ctx context.Context, groups []grouping.Group, res *RunResult) error {
	ctx, span := e.tracer.Start(ctx, "assessment.assessLakes",
		trace.WithAttributes(attribute.Int("groups", len(groups))))
	defer span.End()

	assessments := make([]*Assessment, len(groups))
	issues := make([][]Issue, len(groups))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(e.parallel)
	for i, grp := range groups {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			a, iss := e.assessLake(grp)
			assessments[i] = a
			issues[i] = iss
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	for i := range groups {
		res.Issues = append(res.Issues, issues[i]...)
		if assessments[i] != nil {
			res.Assessments = append(res.Assessments, *assessments[i])
		}
	}
	return nil
}

func (e *Engine) assessLake(grp grouping.Group) (*Assessment, []Issue) {
	results, err := trend.Analyze(grp)
	if err != nil {
		if errors.Is(err, trend.ErrInsufficientData) {
			return nil, []Issue{{
				Code:     CodeInsufficientData,
				LakeName: grp.LakeName,
				Message:  fmt.Sprintf("lake group %q spans %d distinct years; 3 required for trends", grp.Key, len(grp.Years())),
			}}
		}
		return nil, []Issue{{Code: CodeInsufficientData, LakeName: grp.LakeName, Message: err.Error()}}
	}

	var issues []Issue
	for _, r := range results {
		if r.PValue == nil {
			issues = append(issues, Issue{
				Code:     CodeUndefinedStatistic,
				LakeName: grp.LakeName,
				Message:  fmt.Sprintf("p-value undefined for %s (%d observations)", r.Parameter, r.Observations),
			})
		}
		if r.PercentChange == nil {
			issues = append(issues, Issue{
				Code:     CodeUndefinedStatistic,
				LakeName: grp.LakeName,
				Message:  fmt.Sprintf("percent change undefined for %s (zero baseline)", r.Parameter),
			})
		}
	}

	c := trajectory.Classify(e.rules, results)
	return &Assessment{
		LakeName:          grp.LakeName,
		CanonicalName:     grp.Key,
		Years:             grp.Years(),
		ReportsAnalyzed:   len(grp.Entries),
		TrendResults:      results,
		OverallTrajectory: c.Trajectory,
		Composite:         c.Composite,
		KeyFindings:       c.KeyFindings,
		Recommendations:   c.Recommendations,
	}, issues
}

// enrich appends provider-supplied narrative to each assessment. A provider
// failure is logged and the assessment stands as computed.
func (e *Engine) enrich(ctx context.Context, res *RunResult) {
	if e.insights == nil {
		return
	}
	ctx, span := e.tracer.Start(ctx, "assessment.enrich")
	defer span.End()

	for i := range res.Assessments {
		ins, err := e.insights.Enrich(ctx, res.Assessments[i])
		if err != nil {
			log.Printf("assessment: enrichment failed for %s: %v", res.Assessments[i].CanonicalName, err)
			continue
		}
		res.Assessments[i].KeyFindings = append(res.Assessments[i].KeyFindings, ins.KeyFindings...)
		res.Assessments[i].Recommendations = append(res.Assessments[i].Recommendations, ins.Recommendations...)
	}
}

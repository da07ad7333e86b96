package detector

import (
	"time"

	"github.com/ninja0404/old-runners/internal/detector/condition"
	"github.com/ninja0404/old-runners/internal/model"
	"github.com/ninja0404/old-runners/pkg/logger"
)

// StageCount pairs still standing after a strict stage
type StageCount struct {
	Name   string `json:"name"`
	Passed int    `json:"passed"`
}

type FilterResult struct {
	Candidates []model.RankedCandidate
	// Relaxed true when the strict tier matched nothing and the fallback ran
	Relaxed bool
	Input   int
	Stages  []StageCount
}

type FilterOption func(*Filter)

func WithClock(now func() time.Time) FilterOption {
	return func(f *Filter) {
		f.now = now
	}
}

func WithRelaxPolicy(p RelaxPolicy) FilterOption {
	return func(f *Filter) {
		f.relax = p
	}
}

// Filter selects old runners with a strict tier and a relaxed fallback, then
// scores and ranks the survivors.
type Filter struct {
	relax RelaxPolicy
	now   func() time.Time
}

func NewFilter(opts ...FilterOption) *Filter {
	f := &Filter{
		relax: DefaultRelaxPolicy(),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func (f *Filter) Apply(pairs []model.EnrichedPair, cfg model.FilterConfig) *FilterResult {
	now := f.now()
	contexts := make([]condition.EvaluationContext, len(pairs))
	for i := range pairs {
		contexts[i] = condition.EvaluationContext{
			Pair:    &pairs[i],
			Metrics: model.ComputeMetrics(pairs[i], now),
		}
	}

	res := &FilterResult{Input: len(pairs)}

	stages := condition.Stages(StrictCondition(cfg))
	res.Stages = make([]StageCount, len(stages))
	for i, s := range stages {
		res.Stages[i].Name = s.GetName()
	}

	var survivors []*condition.EvaluationContext
	for i := range contexts {
		if passStages(stages, &contexts[i], res.Stages) {
			survivors = append(survivors, &contexts[i])
		}
	}

	if len(survivors) == 0 {
		relaxed := f.relax.Condition(cfg)
		for i := range contexts {
			if relaxed.Evaluate(&contexts[i]) {
				survivors = append(survivors, &contexts[i])
			}
		}
		res.Relaxed = true
	}

	res.Candidates = make([]model.RankedCandidate, 0, len(survivors))
	for _, c := range survivors {
		res.Candidates = append(res.Candidates, model.RankedCandidate{
			Pair:    *c.Pair,
			Metrics: c.Metrics,
			Score:   Score(c.Metrics),
		})
	}
	Rank(res.Candidates)
	return res
}

// passStages evaluates stages in order, counting how far the pair got.
func passStages(stages []condition.Condition, ctx *condition.EvaluationContext, counts []StageCount) bool {
	for i, s := range stages {
		if !s.Evaluate(ctx) {
			return false
		}
		counts[i].Passed++
	}
	return true
}

// LogFields diagnostic summary of a filter run
func (r *FilterResult) LogFields() []logger.Field {
	fields := make([]logger.Field, 0, len(r.Stages)+3)
	fields = append(fields,
		logger.Int("input", r.Input),
		logger.Bool("relaxed", r.Relaxed),
		logger.Int("output", len(r.Candidates)))
	for _, s := range r.Stages {
		fields = append(fields, logger.Int("after_"+s.Name, s.Passed))
	}
	return fields
}

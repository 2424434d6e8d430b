package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/haoyuan-z/trigate/internal/contracts"
	"github.com/haoyuan-z/trigate/internal/gates"
	"github.com/haoyuan-z/trigate/internal/integrator"
	"github.com/haoyuan-z/trigate/internal/strategyconfig"
	"github.com/haoyuan-z/trigate/internal/universe"
	"github.com/haoyuan-z/trigate/pkg/logger"
)

// ProgressEvent reports scan progress to observers (CLI spinner,
// websocket stream)
type ProgressEvent struct {
	Stage     string    `json:"stage"` // universe, gates, integrate, done
	Code      string    `json:"code,omitempty"`
	Processed int       `json:"processed"`
	Total     int       `json:"total"`
	Timestamp time.Time `json:"timestamp"`
}

// ProgressFunc receives progress events. May be nil.
type ProgressFunc func(ProgressEvent)

// Result is one completed scan
type Result struct {
	Date        time.Time                     `json:"date"`
	Universe    *contracts.Universe           `json:"universe"`
	Signals     []*contracts.IntegratedSignal `json:"signals"`
	Report      *integrator.Report            `json:"report"`
	Errors      int                           `json:"errors"`
	Prefiltered int                           `json:"prefiltered"`
	Duration    time.Duration                 `json:"duration"`
}

// Runner orchestrates one scan: universe, parallel gate fan-out,
// strict-AND integration.
// SSOT: scan orchestration happens only here.
type Runner struct {
	provider    contracts.DataProvider
	builder     *universe.Builder
	fundamental *gates.FundamentalGate
	growthValue *gates.GrowthValueGate
	timing      *gates.TimingGate
	integrator  *integrator.Integrator
	cfg         *strategyconfig.Config
	logger      *logger.Logger
}

// NewRunner wires the scan pipeline
func NewRunner(
	provider contracts.DataProvider,
	builder *universe.Builder,
	fundamental *gates.FundamentalGate,
	growthValue *gates.GrowthValueGate,
	timing *gates.TimingGate,
	integ *integrator.Integrator,
	cfg *strategyconfig.Config,
	log *logger.Logger,
) *Runner {
	return &Runner{
		provider:    provider,
		builder:     builder,
		fundamental: fundamental,
		growthValue: growthValue,
		timing:      timing,
		integrator:  integ,
		cfg:         cfg,
		logger:      log.WithComponent("pipeline"),
	}
}

// instrumentVerdicts is one worker's output for one instrument. A nil
// timing verdict means the instrument was pre-filtered before the
// price fetch.
type instrumentVerdicts struct {
	fundamental *contracts.FundamentalVerdict
	growthValue *contracts.GrowthValuationVerdict
	timing      *contracts.TimingVerdict
	prefiltered bool
	failed      bool
}

// Run executes one full scan. Per-instrument evaluation is stateless
// and fans out over a bounded worker pool; one instrument's failure is
// logged and isolated, never aborting the others. The join runs only
// after every verdict is materialized.
func (r *Runner) Run(ctx context.Context, progress ProgressFunc) (*Result, error) {
	start := time.Now()
	emit := func(ev ProgressEvent) {
		if progress != nil {
			ev.Timestamp = time.Now()
			progress(ev)
		}
	}

	emit(ProgressEvent{Stage: "universe"})
	uni, err := r.builder.Build(ctx)
	if err != nil {
		return nil, err
	}

	total := uni.Count()
	emit(ProgressEvent{Stage: "gates", Total: total})

	jobs := make(chan contracts.Instrument)
	results := make(chan instrumentVerdicts)

	workers := r.cfg.Pipeline.Workers
	if workers <= 0 {
		workers = 1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inst := range jobs {
				results <- r.evaluate(ctx, inst)
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, inst := range uni.Instruments {
			select {
			case jobs <- inst:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	var fundamentals []*contracts.FundamentalVerdict
	var growthValues []*contracts.GrowthValuationVerdict
	var timings []*contracts.TimingVerdict
	failed, prefiltered, processed := 0, 0, 0

	for v := range results {
		processed++
		switch {
		case v.failed:
			failed++
		case v.prefiltered:
			prefiltered++
		default:
			fundamentals = append(fundamentals, v.fundamental)
			growthValues = append(growthValues, v.growthValue)
			timings = append(timings, v.timing)
		}
		code := ""
		if v.fundamental != nil {
			code = v.fundamental.Code
		}
		emit(ProgressEvent{Stage: "gates", Code: code, Processed: processed, Total: total})
	}

	emit(ProgressEvent{Stage: "integrate", Processed: processed, Total: total})
	signals := r.integrator.Integrate(fundamentals, growthValues, timings)
	report := integrator.BuildReport(signals, r.cfg.Integration.ReportTopN)

	result := &Result{
		Date:        time.Now(),
		Universe:    uni,
		Signals:     signals,
		Report:      report,
		Errors:      failed,
		Prefiltered: prefiltered,
		Duration:    time.Since(start),
	}

	r.logger.WithFields(map[string]interface{}{
		"universe":    total,
		"prefiltered": prefiltered,
		"failed":      failed,
		"signals":     len(signals),
		"duration":    result.Duration,
	}).Info("Scan completed")

	emit(ProgressEvent{Stage: "done", Processed: processed, Total: total})
	return result, nil
}

// evaluate runs the three gates for one instrument. Provider failures
// degrade to insufficient-data inputs; a panic in one instrument is
// contained here.
func (r *Runner) evaluate(ctx context.Context, inst contracts.Instrument) (out instrumentVerdicts) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.WithFields(map[string]interface{}{
				"code":  inst.Code,
				"panic": rec,
			}).Error("Instrument evaluation panicked")
			out = instrumentVerdicts{failed: true}
		}
	}()

	snapshots, err := r.provider.FetchFundamentals(ctx, inst.Code)
	if err != nil {
		// Insufficient data, not an error path: the gates score it down
		r.logger.WithError(err).WithField("code", inst.Code).Warn("Fundamentals fetch failed")
		snapshots = nil
	}

	fundamental := r.fundamental.Evaluate(inst.Code, inst.Name, snapshots)
	growthValue := r.growthValue.Evaluate(inst.Code, inst.Name, snapshots, nil)
	out.fundamental = fundamental
	out.growthValue = growthValue

	// Cheap fundamental cutoffs run before the price fetch
	if fundamental.TotalScore < r.cfg.Pipeline.PrefilterMinScore ||
		growthValue.Priority < r.cfg.Pipeline.PrefilterMinPriority {
		out.prefiltered = true
		return out
	}

	bars, err := r.provider.FetchPriceHistory(ctx, inst.Code, r.cfg.Pipeline.HistoryDays)
	if err != nil {
		r.logger.WithError(err).WithField("code", inst.Code).Warn("Price history fetch failed")
		bars = nil
	}

	out.timing = r.timing.Evaluate(ctx, inst.Code, inst.Name, bars)
	return out
}

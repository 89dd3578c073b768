package sweep

import (
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/contactkeval/gridpricer/internal/logger"
	"github.com/contactkeval/gridpricer/internal/pde"
	"github.com/contactkeval/gridpricer/internal/pricing"
)

// Row is the outcome of one scenario.
type Row struct {
	Name      string   `json:"name"`
	Method    string   `json:"method"`
	Kind      string   `json:"kind"`
	Price     float64  `json:"price"`
	HalfWidth *float64 `json:"half_width,omitempty"` // monte-carlo 95% CI half-width
	Reference *float64 `json:"reference,omitempty"`  // closed-form reference when one exists
	AbsError  *float64 `json:"abs_error,omitempty"`
	ElapsedMs float64  `json:"elapsed_ms"`
	Error     string   `json:"error,omitempty"`
}

// Result collects all scenario rows in config order.
type Result struct {
	Rows []Row `json:"rows"`
}

// Engine executes a sweep config.
type Engine struct {
	cfg *Config
}

func NewEngine(cfg *Config) *Engine {
	return &Engine{cfg: cfg}
}

// Run executes every scenario on a bounded worker pool and returns rows in
// config order. Scenario failures are recorded per row rather than aborting
// the batch.
func (e *Engine) Run() (*Result, error) {
	cfg := e.cfg
	if len(cfg.Scenarios) == 0 {
		return nil, fmt.Errorf("no scenarios to run")
	}

	// fill defaults
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	if workers > len(cfg.Scenarios) {
		workers = len(cfg.Scenarios)
	}

	logger.Infof("running %d scenarios on %d workers", len(cfg.Scenarios), workers)

	rows := make([]Row, len(cfg.Scenarios))
	jobs := make(chan int)
	var wg sync.WaitGroup

	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for idx := range jobs {
				rows[idx] = runScenario(cfg.Scenarios[idx])
			}
		}()
	}
	for idx := range cfg.Scenarios {
		jobs <- idx
	}
	close(jobs)
	wg.Wait()

	for _, row := range rows {
		if row.Error != "" {
			logger.Warnf("scenario %s failed: %s", row.Name, row.Error)
		} else {
			logger.Debugf("scenario %s: price=%.6f (%.1fms)", row.Name, row.Price, row.ElapsedMs)
		}
	}

	return &Result{Rows: rows}, nil
}

func runScenario(sc Scenario) Row {
	method := strings.ToLower(sc.Method)
	if method == "" {
		method = "grid"
	}
	kind := strings.ToLower(sc.Kind)
	if kind == "" {
		kind = string(pde.Call)
	}

	row := Row{Name: sc.Name, Method: method, Kind: kind}
	start := time.Now()
	defer func() {
		row.ElapsedMs = float64(time.Since(start).Microseconds()) / 1000.0
	}()

	mkt := pde.Market{
		Spot:     sc.Spot,
		Strike:   sc.Strike,
		Rate:     sc.Rate,
		Vol:      sc.Vol,
		Maturity: sc.Maturity,
	}
	isCall := kind == string(pde.Call)

	var err error
	switch method {
	case "grid":
		row.Price, err = runGrid(sc, mkt, kind)
		if err == nil {
			attachReference(&row, sc, mkt, isCall)
		}
	case "closed-form":
		row.Price = pricing.BlackScholesPrice(isCall, sc.Spot, sc.Strike, sc.Rate, sc.Vol, sc.Maturity)
	case "binomial":
		steps := sc.TreeSteps
		if steps == 0 {
			steps = 500
		}
		row.Price, err = pricing.BinomialCRRPrice(isCall, sc.Spot, sc.Strike, sc.Rate, sc.Vol, sc.Maturity, steps)
		if err == nil {
			attachReference(&row, sc, mkt, isCall)
		}
	case "monte-carlo":
		row.Price, err = runMonteCarlo(&row, sc, isCall)
		if err == nil {
			attachReference(&row, sc, mkt, isCall)
		}
	case "analytic":
		if sc.Barrier == nil {
			err = fmt.Errorf("analytic method requires a barrier")
			break
		}
		row.Price, err = pde.DownAndOutCallAnalytic(sc.Spot, sc.Strike, sc.Barrier.Level, sc.Rate, sc.Maturity, sc.Vol)
	default:
		err = fmt.Errorf("unknown method %q", sc.Method)
	}

	if err != nil {
		row.Error = err.Error()
	}
	return row
}

func runGrid(sc Scenario, mkt pde.Market, kind string) (float64, error) {
	spec := pde.GridSpec{
		SMax:       sc.Grid.SMax,
		SpaceSteps: sc.Grid.SpaceSteps,
		TimeSteps:  sc.Grid.TimeSteps,
	}
	if spec.SpaceSteps == 0 {
		spec.SpaceSteps = pde.DefaultGridSpec.SpaceSteps
	}
	if spec.TimeSteps == 0 {
		spec.TimeSteps = pde.DefaultGridSpec.TimeSteps
	}

	if sc.Barrier == nil {
		return pde.PriceVanilla(mkt, pde.OptionKind(kind), spec)
	}
	bar := pde.Barrier{
		Level:  sc.Barrier.Level,
		Type:   pde.BarrierType(sc.Barrier.Type),
		Rebate: sc.Barrier.Rebate,
	}
	return pde.PriceBarrier(mkt, pde.OptionKind(kind), bar, spec)
}

func runMonteCarlo(row *Row, sc Scenario, isCall bool) (float64, error) {
	paths := sc.Paths
	if paths == 0 {
		paths = 10000
	}
	steps := sc.PathSteps
	if steps == 0 {
		steps = 100
	}
	seed := sc.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	mc, err := pricing.NewMonteCarloPricer(sc.Spot, sc.Strike, sc.Rate, sc.Vol, sc.Maturity, paths, steps, seed)
	if err != nil {
		return 0, err
	}
	price, half, err := mc.PriceWithConfidence(isCall)
	if err != nil {
		return 0, err
	}
	row.HalfWidth = &half
	return price, nil
}

// attachReference records the best available closed form for comparison:
// Black-Scholes for vanilla contracts, Reiner-Rubinstein for zero-rebate
// down-and-out calls. Other barrier shapes have no oracle here.
func attachReference(row *Row, sc Scenario, mkt pde.Market, isCall bool) {
	var ref float64
	if sc.Barrier == nil {
		ref = pricing.BlackScholesPrice(isCall, mkt.Spot, mkt.Strike, mkt.Rate, mkt.Vol, mkt.Maturity)
	} else {
		if !isCall || sc.Barrier.Type != string(pde.DownAndOut) || sc.Barrier.Rebate != 0 {
			return
		}
		var err error
		ref, err = pde.DownAndOutCallAnalytic(mkt.Spot, mkt.Strike, sc.Barrier.Level, mkt.Rate, mkt.Maturity, mkt.Vol)
		if err != nil {
			return
		}
	}
	absErr := math.Abs(row.Price - ref)
	row.Reference = &ref
	row.AbsError = &absErr
}

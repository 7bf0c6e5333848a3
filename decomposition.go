package benders

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync/atomic"
	"time"

	"github.com/optkit/benders/cutgen"
	"github.com/optkit/benders/internal/hooks"
	"github.com/optkit/benders/internal/logger"
	"github.com/optkit/benders/internal/metrics"
	"github.com/optkit/benders/types"
	"github.com/puzpuzpuz/xsync/v4"
)

// capabilities caches the optional interfaces a driver implements, detected
// once at construction so the protocol dispatches on flags instead of
// repeated type assertions.
type capabilities struct {
	initializer   types.Initializer
	presolveInit  types.PresolveInitializer
	solveInit     types.SolveInitializer
	preSolve      types.PreSolveHook
	postSolve     types.PostSolveHook
	relaxedSolver types.RelaxedSolver
	fullSolver    types.FullSolver
	releaser      types.SubproblemReleaser
}

func detectCapabilities(drv Driver) capabilities {
	var c capabilities
	c.initializer, _ = drv.(types.Initializer)
	c.presolveInit, _ = drv.(types.PresolveInitializer)
	c.solveInit, _ = drv.(types.SolveInitializer)
	c.preSolve, _ = drv.(types.PreSolveHook)
	c.postSolve, _ = drv.(types.PostSolveHook)
	c.relaxedSolver, _ = drv.(types.RelaxedSolver)
	c.fullSolver, _ = drv.(types.FullSolver)
	c.releaser, _ = drv.(types.SubproblemReleaser)

	return c
}

// generatorStats tracks the per-generator counters of one decomposition.
type generatorStats struct {
	calls     int64
	cutsFound int64
}

// Decomposition coordinates one Benders' decomposition: it owns the
// subproblem handles and the priority-ordered cut generators, and it
// implements the multi-pass execution protocol that turns infeasible or
// suboptimal subproblem outcomes into cuts on the master problem.
//
// Lifecycle:
//   - Create with New()
//   - Activate() once per run to create the subproblem handles
//   - Initialize() / InitPresolve() / InitSolve() as the host progresses
//   - Execute() once per candidate master solution
//   - ExitSolve() / ExitPresolve() / Deinitialize() / Deactivate() to unwind
//
// The protocol itself is sequential; the statistics accessors are safe to
// call from other goroutines while a solve is in progress.
type Decomposition struct {
	name string
	cfg  Config

	master MasterProblem
	driver Driver

	logger  Logger
	metrics MetricsCollector
	hooks   *Hooks

	registry *Registry
	caps     capabilities

	generators []CutGenerator
	genStats   map[string]*generatorStats
	cutStores  map[string]*types.CutStore

	// Lifecycle flags.
	active      bool
	initialized bool

	subproblems []*subproblem
	nConvex     int

	// Round-robin cursor over the subproblem array. lastChecked is the
	// index the next call starts from; it advances past every visited
	// subproblem and wraps.
	lastChecked int

	// Derived-copy linkage. source is a non-owning back-reference; varMap
	// maps this copy's variable names to source master variables and exists
	// only between Initialize and Deinitialize of a copy.
	source *Decomposition
	varMap map[string]*types.Variable

	// transferred holds fingerprints of cuts already adopted from derived
	// copies, so the same cut arriving from several copies is added once.
	transferred map[uint64]struct{}

	calls           *xsync.Counter
	cutsFound       *xsync.Counter
	cutsTransferred *xsync.Counter
	setupTime       atomic.Int64
	execTime        atomic.Int64
}

// Compile-time assertion that Decomposition implements the view consumed by
// cut generators.
var _ types.DecompositionView = (*Decomposition)(nil)

// New creates a Decomposition for the given master problem and driver.
//
// The three built-in cut generators (optimality, feasibility, integer
// optimality) are registered automatically; additional generators can be
// supplied with WithCutGenerators.
//
// Parameters:
//   - name: Decomposition name, used in auxiliary variable names and diagnostics
//   - cfg: Configuration (missing values are filled with defaults)
//   - master: Master problem collaborator
//   - drv: Driver supplying subproblem engines and variable correspondence
//   - opts: Optional configuration (logger, metrics, hooks, generators, registry)
//
// Returns:
//   - *Decomposition: Initialized decomposition instance
//   - error: Validation error if the configuration or driver is invalid
//
// Example:
//
//	cfg := benders.DefaultConfig()
//	dec, err := benders.New("mip", &cfg, master, drv, benders.WithLogger(log))
func New(name string, cfg *Config, master MasterProblem, drv Driver, opts ...Option) (*Decomposition, error) {
	if cfg == nil {
		return nil, ErrInvalidConfig
	}
	if master == nil {
		return nil, ErrMasterRequired
	}
	if drv == nil {
		return nil, ErrDriverRequired
	}

	SetDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	caps := detectCapabilities(drv)

	// A custom solving method without its paired release (or the reverse)
	// would leak or free unowned solve state.
	hasCustomSolve := caps.relaxedSolver != nil || caps.fullSolver != nil
	if hasCustomSolve != (caps.releaser != nil) {
		return nil, fmt.Errorf("%w: custom subproblem solving requires a paired SubproblemReleaser", ErrConfiguration)
	}

	options := &decompositionOptions{}
	for _, opt := range opts {
		opt(options)
	}

	metricsCollector := options.metrics
	if metricsCollector == nil {
		metricsCollector = metrics.NewNop()
	}

	loggerInstance := options.logger
	if loggerInstance == nil {
		loggerInstance = logger.NewNop()
	}

	hooksInstance := options.hooks
	if hooksInstance == nil {
		nopHooks := hooks.NewNop()
		hooksInstance = &nopHooks
	}

	d := &Decomposition{
		name:            name,
		cfg:             *cfg,
		master:          master,
		driver:          drv,
		logger:          loggerInstance,
		metrics:         metricsCollector,
		hooks:           hooksInstance,
		caps:            caps,
		genStats:        make(map[string]*generatorStats),
		cutStores:       make(map[string]*types.CutStore),
		transferred:     make(map[uint64]struct{}),
		calls:           xsync.NewCounter(),
		cutsFound:       xsync.NewCounter(),
		cutsTransferred: xsync.NewCounter(),
	}

	builtin := []CutGenerator{
		cutgen.NewOptimality(),
		cutgen.NewFeasibility(),
		cutgen.NewIntegerOptimality(),
	}
	for _, g := range append(builtin, options.generators...) {
		if err := d.registerGenerator(g); err != nil {
			return nil, err
		}
	}

	if options.registry != nil {
		d.registry = options.registry
		d.registry.add(d)
	}

	return d, nil
}

// registerGenerator adds a cut generator, keeping the array sorted by
// priority descending with name as a deterministic tie-break.
func (d *Decomposition) registerGenerator(g CutGenerator) error {
	if _, ok := d.genStats[g.Name()]; ok {
		return fmt.Errorf("%w: %q", ErrGeneratorExists, g.Name())
	}

	d.generators = append(d.generators, g)
	d.genStats[g.Name()] = &generatorStats{}
	d.cutStores[g.Name()] = &types.CutStore{}
	sort.SliceStable(d.generators, func(i, j int) bool {
		if d.generators[i].Priority() != d.generators[j].Priority() {
			return d.generators[i].Priority() > d.generators[j].Priority()
		}

		return d.generators[i].Name() < d.generators[j].Name()
	})

	return nil
}

// Activate creates the subproblem handles. The handle array length is fixed
// from here on, and Activate can run at most once per run.
//
// Parameters:
//   - ctx: Context for cancellation
//   - numSubproblems: Number of subproblems of the decomposition
//
// Returns:
//   - error: ErrAlreadyActive, or an engine creation error from the driver
func (d *Decomposition) Activate(ctx context.Context, numSubproblems int) error {
	if d.active {
		return ErrAlreadyActive
	}
	if numSubproblems <= 0 {
		return fmt.Errorf("%w: numSubproblems must be > 0, got %d", ErrInvalidConfig, numSubproblems)
	}

	d.subproblems = make([]*subproblem, numSubproblems)
	for i := range d.subproblems {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		engine, err := d.driver.CreateSubproblem(i)
		if err != nil {
			return fmt.Errorf("create subproblem %d: %w", i, err)
		}
		if engine == nil && d.caps.relaxedSolver == nil && d.caps.fullSolver == nil {
			return fmt.Errorf("%w: driver returned no engine for subproblem %d and no custom solving method", ErrConfiguration, i)
		}

		d.subproblems[i] = newSubproblem(i, engine)
		if d.subproblems[i].isConvex {
			d.nConvex++
		}
	}

	d.active = true
	d.lastChecked = 0
	d.logger.Info("decomposition activated",
		"decomposition", d.name, "subproblems", numSubproblems, "convex", d.nConvex)

	return nil
}

// Deactivate releases the subproblem handles and their engines.
//
// Returns:
//   - error: ErrNotActive, or a release error from the driver
func (d *Decomposition) Deactivate(ctx context.Context) error {
	if !d.active {
		return ErrNotActive
	}

	for _, sp := range d.subproblems {
		if sp.isSetUp {
			sp.isIndependent = false // independent state is released with the run
			if err := d.teardownSubproblem(sp); err != nil {
				d.logger.Warn("teardown during deactivate failed", "decomposition", d.name, "error", err)
			}
		}
		if d.caps.releaser != nil {
			if err := d.caps.releaser.ReleaseSubproblem(ctx, sp.index); err != nil {
				return fmt.Errorf("release subproblem %d: %w", sp.index, err)
			}
		}
	}

	d.subproblems = nil
	d.nConvex = 0
	d.active = false
	d.logger.Info("decomposition deactivated", "decomposition", d.name)

	return nil
}

// Initialize prepares the decomposition for a (re)started run. For a
// derived copy this builds the variable map into the source context and
// adopts the cloned auxiliary variables.
//
// Returns:
//   - error: ErrAlreadyInitialized, ErrNotActive, or a driver error
func (d *Decomposition) Initialize(ctx context.Context) error {
	if !d.active {
		return ErrNotActive
	}
	if d.initialized {
		return ErrAlreadyInitialized
	}

	if d.caps.initializer != nil {
		if err := d.caps.initializer.Init(ctx); err != nil {
			return fmt.Errorf("driver init: %w", err)
		}
	}

	if d.source != nil {
		d.buildVarMap()
		if err := d.adoptAuxVariables(); err != nil {
			return err
		}
	}

	d.initialized = true

	return nil
}

// Deinitialize unwinds Initialize. For a derived copy with cut transfer
// enabled on its source, the stored cuts of every generator are translated
// through the variable map and added to the source context first; the
// variable map is released afterwards.
//
// Returns:
//   - error: ErrNotInitialized, or a driver error
func (d *Decomposition) Deinitialize(ctx context.Context) error {
	if !d.initialized {
		return ErrNotInitialized
	}

	if d.source != nil && d.source.cfg.TransferCuts {
		d.transferCuts(ctx)
	}
	d.varMap = nil

	for _, store := range d.cutStores {
		store.Clear()
	}

	if d.caps.initializer != nil {
		if err := d.caps.initializer.Exit(ctx); err != nil {
			return fmt.Errorf("driver exit: %w", err)
		}
	}

	d.initialized = false

	return nil
}

// InitPresolve runs the once-per-run analysis at presolving start:
// independence detection, auxiliary variable lower bounds, and auxiliary
// variable creation. Derived copies and drivers with custom full solving
// skip the analysis, since their subproblem state is not owned here.
//
// Returns:
//   - error: Lifecycle or solve error
func (d *Decomposition) InitPresolve(ctx context.Context) error {
	if !d.active {
		return ErrNotActive
	}

	if d.source == nil && d.caps.fullSolver == nil {
		for _, sp := range d.subproblems {
			if sp.engine == nil {
				continue
			}

			sp.isIndependent = d.checkIndependence(sp.index)
			if err := d.computeLowerBound(ctx, sp); err != nil {
				return err
			}
			if sp.isIndependent {
				d.logger.Debug("independent subproblem",
					"decomposition", d.name, "subproblem", sp.index, "lowerBound", sp.lowerBound)
			}
		}
	}

	if err := d.addAuxVariables(); err != nil {
		return err
	}

	if d.caps.presolveInit != nil {
		if err := d.caps.presolveInit.InitPresolve(ctx); err != nil {
			return fmt.Errorf("driver init presolve: %w", err)
		}
	}

	return nil
}

// ExitPresolve is the counterpart of InitPresolve.
func (d *Decomposition) ExitPresolve(ctx context.Context) error {
	if d.caps.presolveInit != nil {
		if err := d.caps.presolveInit.ExitPresolve(ctx); err != nil {
			return fmt.Errorf("driver exit presolve: %w", err)
		}
	}

	return nil
}

// InitSolve is called when the host's branch-and-bound process starts.
func (d *Decomposition) InitSolve(ctx context.Context) error {
	if !d.active {
		return ErrNotActive
	}

	if d.caps.solveInit != nil {
		if err := d.caps.solveInit.InitSolve(ctx); err != nil {
			return fmt.Errorf("driver init solve: %w", err)
		}
	}

	return nil
}

// ExitSolve tears down any subproblem still holding solve state when the
// host's branch-and-bound process ends. Independent subproblems keep their
// state until Deactivate.
func (d *Decomposition) ExitSolve(ctx context.Context) error {
	for _, sp := range d.subproblems {
		if err := d.teardownSubproblem(sp); err != nil {
			return err
		}
	}

	if d.caps.solveInit != nil {
		if err := d.caps.solveInit.ExitSolve(ctx); err != nil {
			return fmt.Errorf("driver exit solve: %w", err)
		}
	}

	return nil
}

// SolveSubproblem sets up, solves and tears down a single subproblem
// against a candidate solution, outside the execution protocol. Intended
// for host-side queries such as checking one subproblem after a heuristic.
//
// Parameters:
//   - ctx: Context for cancellation
//   - sol: Candidate master solution
//   - index: Subproblem index
//   - full: Solve to discrete optimality instead of the relaxation
//
// Returns:
//   - float64: Subproblem objective, or Infinity() when infeasible
//   - bool: true when the subproblem is infeasible under the candidate
//   - error: Lifecycle or solve error
func (d *Decomposition) SolveSubproblem(ctx context.Context, sol Solution, index int, full bool) (float64, bool, error) {
	if !d.active {
		return 0, false, ErrNotActive
	}
	if index < 0 || index >= len(d.subproblems) {
		return 0, false, fmt.Errorf("%w: subproblem index %d out of range", ErrInvalidConfig, index)
	}

	sp := d.subproblems[index]
	if sp.isIndependent {
		return sp.objective, math.IsInf(sp.objective, 1), nil
	}

	loop := 0
	if full {
		loop = 1
	}
	pass := passForLoop(loop, d.caps.relaxedSolver != nil, d.caps.fullSolver != nil)

	var (
		result Result
		err    error
	)
	if pass.IsUser() {
		result, err = d.solveSubproblemUser(ctx, sol, sp, pass)
	} else {
		if err = d.setupSubproblem(sol, sp, pass.IsRelaxed()); err != nil {
			return 0, false, err
		}
		result, err = d.solveSubproblem(ctx, sol, sp, pass.IsRelaxed())
		if terr := d.teardownSubproblem(sp); terr != nil && err == nil {
			err = terr
		}
	}
	if err != nil {
		return 0, false, err
	}

	return sp.objective, result == ResultInfeasible, nil
}

// convexOnly reports whether this instance verifies candidates through
// relaxed solves alone. A derived LNS copy with checking enabled never
// solves the full subproblems: the relaxed solves are much cheaper and
// the candidates it screens are still better than unscreened ones.
func (d *Decomposition) convexOnly() bool {
	return d.source != nil && d.cfg.LNSCheck
}

// callHook invokes an optional hook and logs its error without failing the
// surrounding operation.
func (d *Decomposition) callHook(_ context.Context, name string, fn func() error) {
	if err := fn(); err != nil {
		d.logger.Warn("hook failed", "decomposition", d.name, "hook", name, "error", err)
	}
}

// Accessors

// Name returns the decomposition's name.
func (d *Decomposition) Name() string { return d.name }

// Priority returns the decomposition's registry priority.
func (d *Decomposition) Priority() int { return d.cfg.Priority }

// IsActive reports whether Activate has run.
func (d *Decomposition) IsActive() bool { return d.active }

// IsCopy reports whether this instance is a derived copy.
func (d *Decomposition) IsCopy() bool { return d.source != nil }

// Source returns the source decomposition of a derived copy, or nil.
func (d *Decomposition) Source() *Decomposition { return d.source }

// Master returns the master problem.
func (d *Decomposition) Master() MasterProblem { return d.master }

// NumSubproblems returns the number of subproblems.
func (d *Decomposition) NumSubproblems() int { return len(d.subproblems) }

// NumConvex returns the number of subproblems currently classified convex.
func (d *Decomposition) NumConvex() int { return d.nConvex }

// Subproblem returns the solve engine of subproblem index, or nil.
func (d *Decomposition) Subproblem(index int) SubproblemSolver {
	return d.subproblems[index].engine
}

// SubproblemObjective returns the objective cached by the most recent solve
// of subproblem index; Infinity() means unknown or infeasible.
func (d *Decomposition) SubproblemObjective(index int) float64 {
	return d.subproblems[index].objective
}

// SubproblemBestObjective returns the best objective ever recorded for
// subproblem index.
func (d *Decomposition) SubproblemBestObjective(index int) float64 {
	return d.subproblems[index].bestObjective
}

// SubproblemIsConvex reports whether subproblem index is classified convex.
func (d *Decomposition) SubproblemIsConvex(index int) bool {
	return d.subproblems[index].isConvex
}

// SubproblemIsIndependent reports whether subproblem index is independent.
func (d *Decomposition) SubproblemIsIndependent(index int) bool {
	return d.subproblems[index].isIndependent
}

// SubproblemIsSetUp reports whether subproblem index currently holds a
// candidate fixing.
func (d *Decomposition) SubproblemIsSetUp(index int) bool {
	return d.subproblems[index].isSetUp
}

// SubproblemIsEnabled reports whether subproblem index participates in the
// execution protocol.
func (d *Decomposition) SubproblemIsEnabled(index int) bool {
	return d.subproblems[index].isEnabled
}

// SetSubproblemEnabled includes or excludes subproblem index from the
// execution protocol.
func (d *Decomposition) SetSubproblemEnabled(index int, enabled bool) {
	d.subproblems[index].isEnabled = enabled
}

// SubproblemLowerBound returns the valid lower bound computed for
// subproblem index, or negative infinity if none was computed.
func (d *Decomposition) SubproblemLowerBound(index int) float64 {
	return d.subproblems[index].lowerBound
}

// AuxiliaryVariable returns the master auxiliary variable of subproblem
// index, or nil before InitPresolve.
func (d *Decomposition) AuxiliaryVariable(index int) *Variable {
	return d.subproblems[index].auxVar
}

// MasterVariable resolves the master variable coupled to a subproblem
// variable through the driver, or nil for subproblem-local variables.
func (d *Decomposition) MasterVariable(sub *Variable) *Variable {
	return d.driver.MasterVariable(sub)
}

// SolutionTolerance returns the relative optimality tolerance.
func (d *Decomposition) SolutionTolerance() float64 { return d.cfg.SolutionTolerance }

// Calls returns the number of completed Execute calls.
func (d *Decomposition) Calls() int64 { return d.calls.Value() }

// CutsFound returns the total number of cuts generated.
func (d *Decomposition) CutsFound() int64 { return d.cutsFound.Value() }

// CutsTransferred returns the number of cuts adopted from derived copies.
func (d *Decomposition) CutsTransferred() int64 { return d.cutsTransferred.Value() }

// SetupTime returns the cumulative time spent fixing candidate values into
// subproblems.
func (d *Decomposition) SetupTime() time.Duration { return time.Duration(d.setupTime.Load()) }

// ExecTime returns the cumulative time spent inside Execute.
func (d *Decomposition) ExecTime() time.Duration { return time.Duration(d.execTime.Load()) }

// GeneratorCalls returns the number of invocations of the named generator.
func (d *Decomposition) GeneratorCalls(name string) int64 {
	if s, ok := d.genStats[name]; ok {
		return s.calls
	}

	return 0
}

// GeneratorCutsFound returns the number of cuts the named generator
// produced.
func (d *Decomposition) GeneratorCutsFound(name string) int64 {
	if s, ok := d.genStats[name]; ok {
		return s.cutsFound
	}

	return 0
}

// AddCut adds a cut to the master on behalf of the named generator, as a
// constraint or row per the configuration, and records it in the
// generator's store for later transfer.
func (d *Decomposition) AddCut(generator string, cut *types.LinearCut) (Result, error) {
	store, ok := d.cutStores[generator]
	if !ok {
		return ResultDidNotRun, fmt.Errorf("%w: unknown generator %q", ErrInvalidResult, generator)
	}

	if d.cfg.CutsAsConstraints {
		if err := d.master.AddConstraint(cut); err != nil {
			return ResultDidNotRun, fmt.Errorf("add cut %q: %w", cut.Name, err)
		}
		store.StoreConstraint(cut)

		return ResultCutAdded, nil
	}

	if err := d.master.AddRow(cut); err != nil {
		return ResultDidNotRun, fmt.Errorf("add cut row %q: %w", cut.Name, err)
	}
	store.StoreRow(cut)

	return ResultSeparated, nil
}

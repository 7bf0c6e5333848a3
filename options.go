package benders

// Option configures a Decomposition with optional dependencies.
type Option func(*decompositionOptions)

// decompositionOptions holds optional Decomposition configuration.
type decompositionOptions struct {
	logger     Logger
	metrics    MetricsCollector
	hooks      *Hooks
	generators []CutGenerator
	registry   *Registry
}

// WithLogger sets a logger.
//
// Parameters:
//   - logger: Logger implementation (compatible with zap.SugaredLogger)
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	dec, err := benders.New("mip", &cfg, master, drv, benders.WithLogger(myLogger))
func WithLogger(logger Logger) Option {
	return func(o *decompositionOptions) {
		o.logger = logger
	}
}

// WithMetrics sets a metrics collector.
//
// Parameters:
//   - metrics: MetricsCollector implementation
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	collector := metrics.NewPrometheus(nil, "benders")
//	dec, err := benders.New("mip", &cfg, master, drv, benders.WithMetrics(collector))
func WithMetrics(metrics MetricsCollector) Option {
	return func(o *decompositionOptions) {
		o.metrics = metrics
	}
}

// WithHooks sets lifecycle event hooks.
//
// Parameters:
//   - hooks: Hooks structure with callback functions
//
// Returns:
//   - Option: Functional option for New
//
// Example:
//
//	hooks := &benders.Hooks{
//	    OnCutAdded: func(ctx context.Context, generator string, index int) error {
//	        return recordCut(generator, index)
//	    },
//	}
//	dec, err := benders.New("mip", &cfg, master, drv, benders.WithHooks(hooks))
func WithHooks(hooks *Hooks) Option {
	return func(o *decompositionOptions) {
		o.hooks = hooks
	}
}

// WithCutGenerators registers additional cut generators alongside the three
// built-in ones.
//
// Parameters:
//   - generators: CutGenerator implementations to register
//
// Returns:
//   - Option: Functional option for New
func WithCutGenerators(generators ...CutGenerator) Option {
	return func(o *decompositionOptions) {
		o.generators = append(o.generators, generators...)
	}
}

// WithRegistry attaches the decomposition to a Registry so auxiliary
// variables can be shared across decompositions of the same master problem.
//
// Parameters:
//   - registry: Registry to join
//
// Returns:
//   - Option: Functional option for New
func WithRegistry(registry *Registry) Option {
	return func(o *decompositionOptions) {
		o.registry = registry
	}
}

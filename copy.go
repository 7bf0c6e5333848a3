package benders

import (
	"context"
	"encoding/binary"
	"math"

	"github.com/optkit/benders/types"
	"github.com/zeebo/xxh3"
)

// Copy creates a derived decomposition operating inside a nested heuristic
// search context, such as a large-neighborhood search sub-model. The copy
// shares this decomposition's configuration and cut generators and keeps a
// non-owning back-reference here; cuts it generates are transferred back on
// its Deinitialize when TransferCuts is enabled.
//
// The caller drives the copy through the normal lifecycle (Activate,
// Initialize, Execute, Deinitialize, Deactivate) against the copied master
// problem and a driver for the copied context.
//
// Parameters:
//   - copyMaster: Master problem of the nested context, holding clones of
//     the source master's variables under their original names
//   - drv: Driver for the nested context
//   - opts: Optional configuration; logger and metrics default to the
//     source's instances
//
// Returns:
//   - *Decomposition: The derived copy
//   - error: Validation error
func (d *Decomposition) Copy(copyMaster MasterProblem, drv Driver, opts ...Option) (*Decomposition, error) {
	cfg := d.cfg
	defaults := []Option{WithLogger(d.logger), WithMetrics(d.metrics)}

	cp, err := New(d.name, &cfg, copyMaster, drv, append(defaults, opts...)...)
	if err != nil {
		return nil, err
	}
	cp.source = d

	// The built-in generators registered by New are the same set the
	// source carries; generators added to the source via options are
	// adopted so the copy produces the same cut families.
	for _, g := range d.generators {
		if _, ok := cp.genStats[g.Name()]; ok {
			continue
		}
		if err := cp.registerGenerator(g); err != nil {
			return nil, err
		}
	}

	return cp, nil
}

// buildVarMap builds the one-shot name-based mapping from this copy's
// variables to the source master's variables. Variables without a source
// counterpart are simply absent; cuts touching them are discarded at
// transfer time.
func (d *Decomposition) buildVarMap() {
	d.varMap = make(map[string]*types.Variable)
	for _, v := range d.master.Variables() {
		if sv := d.source.master.FindVariable(v.Name); sv != nil {
			d.varMap[v.Name] = sv
		}
	}
}

// transferCuts walks every generator's stored records, translates each cut
// through the variable map and adds the fully-mapped ones to the source
// context. A cut with any unmapped coefficient is discarded silently: cuts
// from a derived heuristic context are advisory, not required for
// correctness.
func (d *Decomposition) transferCuts(ctx context.Context) {
	transferred, discarded := 0, 0

	for _, g := range d.generators {
		store := d.cutStores[g.Name()]
		for _, cut := range store.Constraints() {
			if d.transferOne(ctx, cut, true) {
				transferred++
			} else {
				discarded++
			}
		}
		for _, cut := range store.Rows() {
			if d.transferOne(ctx, cut, false) {
				transferred++
			} else {
				discarded++
			}
		}
	}

	if transferred > 0 || discarded > 0 {
		d.metrics.RecordCutTransfer(transferred, discarded)
		d.logger.Debug("cut transfer finished",
			"decomposition", d.name, "transferred", transferred, "discarded", discarded)
	}
}

// transferOne maps one stored cut into the source context and adds it
// there, preserving its constraint-vs-row representation. Reports whether
// the cut reached the source.
func (d *Decomposition) transferOne(ctx context.Context, cut *types.LinearCut, asConstraint bool) bool {
	mapped := &types.LinearCut{
		Name:  cut.Name,
		Coefs: make([]types.Coefficient, 0, len(cut.Coefs)),
		Lhs:   cut.Lhs,
		Rhs:   cut.Rhs,
	}

	for _, c := range cut.Coefs {
		sv, ok := d.varMap[c.Var.Name]
		if !ok {
			return false
		}
		mapped.AddCoef(sv, c.Value)
	}

	src := d.source
	fp := cutFingerprint(mapped)
	if _, dup := src.transferred[fp]; dup {
		return false
	}

	var err error
	if asConstraint {
		err = src.master.AddConstraint(mapped)
	} else {
		err = src.master.AddRow(mapped)
	}
	if err != nil {
		d.logger.Warn("cut transfer rejected by source master",
			"decomposition", d.name, "cut", cut.Name, "error", err)

		return false
	}

	src.transferred[fp] = struct{}{}
	src.cutsTransferred.Inc()
	src.callHook(ctx, "OnCutTransferred", func() error {
		if src.hooks.OnCutTransferred == nil {
			return nil
		}

		return src.hooks.OnCutTransferred(ctx, mapped)
	})

	return true
}

// cutFingerprint hashes a cut's structure (variable names, coefficients and
// sides) so the same cut arriving from several derived copies is adopted
// once. The name is excluded: copies number their cuts independently.
func cutFingerprint(cut *types.LinearCut) uint64 {
	h := xxh3.New()
	var buf [8]byte

	writeFloat := func(f float64) {
		binary.LittleEndian.PutUint64(buf[:], math.Float64bits(f))
		_, _ = h.Write(buf[:])
	}

	writeFloat(cut.Lhs)
	writeFloat(cut.Rhs)
	for _, c := range cut.Coefs {
		_, _ = h.WriteString(c.Var.Name)
		writeFloat(c.Value)
	}

	return h.Sum64()
}

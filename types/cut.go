package types

// Coefficient is one nonzero entry of a linear cut.
type Coefficient struct {
	Var   *Variable
	Value float64
}

// LinearCut is a linear cutting plane of the form lhs <= sum(coefs) <= rhs.
//
// A one-sided cut uses -Infinity() or Infinity() for the free side. Cuts are
// the only records eligible for cross-context transfer: a generator that
// produces non-linear output cannot store it here and its output is never
// transferred.
type LinearCut struct {
	Name  string
	Coefs []Coefficient
	Lhs   float64
	Rhs   float64
}

// AddCoef appends a nonzero coefficient for the given variable.
func (c *LinearCut) AddCoef(v *Variable, value float64) {
	c.Coefs = append(c.Coefs, Coefficient{Var: v, Value: value})
}

// CutStore is the per-generator storage of the cuts a generator produced
// during the current solve.
//
// Records are appended while the generator executes and are only read
// afterwards, either by the host or by the cut-transfer logic of a derived
// decomposition copy. The store distinguishes cuts added to the master as
// constraints from cuts added as separating rows, since transfer represents
// them differently in the source context.
type CutStore struct {
	cons []*LinearCut
	rows []*LinearCut
}

// StoreConstraint records a cut that was added to the master as a
// constraint.
func (s *CutStore) StoreConstraint(c *LinearCut) {
	s.cons = append(s.cons, c)
}

// StoreRow records a cut that was added to the master as a separating row.
func (s *CutStore) StoreRow(c *LinearCut) {
	s.rows = append(s.rows, c)
}

// Constraints returns the stored constraint records.
func (s *CutStore) Constraints() []*LinearCut {
	return s.cons
}

// Rows returns the stored row records.
func (s *CutStore) Rows() []*LinearCut {
	return s.rows
}

// Len returns the total number of stored records.
func (s *CutStore) Len() int {
	return len(s.cons) + len(s.rows)
}

// Clear discards all stored records.
func (s *CutStore) Clear() {
	s.cons = nil
	s.rows = nil
}

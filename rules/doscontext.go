// Copyright (c) 2013-2017 The btcsuite developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rules

// DoSContext is the mutable "validation context" design note §9 calls
// for: rather than attach an interior-mutable DoS counter to Transaction
// or Block, checker functions take a *DoSContext out-parameter and the
// caller threads its accumulated score into the originating peer's
// misbehavior score once the check returns.
type DoSContext struct {
	score int
	errs  []RuleError
}

// Add records a rule violation and accumulates its DoS weight.
func (d *DoSContext) Add(err RuleError) {
	d.errs = append(d.errs, err)
	d.score += err.DoSScore
}

// Score returns the total accumulated DoS weight.
func (d *DoSContext) Score() int {
	return d.score
}

// Failed reports whether any violation was recorded.
func (d *DoSContext) Failed() bool {
	return len(d.errs) > 0
}

// FirstError returns the first recorded violation, or a zero RuleError
// with ok=false if none was recorded.
func (d *DoSContext) FirstError() (RuleError, bool) {
	if len(d.errs) == 0 {
		return RuleError{}, false
	}
	return d.errs[0], true
}

// Errors returns every violation recorded on the context, in order.
func (d *DoSContext) Errors() []RuleError {
	return d.errs
}

package capability

import (
	"fmt"
	"strings"
	"sync"

	"github.com/lixenwraith/folio/observe"
)

// Policy forces or defers the capability decision
type Policy uint8

const (
	PolicyAuto Policy = iota
	PolicyFine
	PolicyCoarse
)

func (p Policy) String() string {
	switch p {
	case PolicyFine:
		return "fine"
	case PolicyCoarse:
		return "coarse"
	default:
		return "auto"
	}
}

// ParsePolicy parses "auto", "fine" or "coarse"
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "auto":
		return PolicyAuto, nil
	case "fine", "on", "mouse":
		return PolicyFine, nil
	case "coarse", "off", "touch":
		return PolicyCoarse, nil
	}
	return PolicyAuto, fmt.Errorf("unknown pointer policy %q", s)
}

// Override wraps a Source with a runtime-switchable policy
// Inner reports pass through only under PolicyAuto
type Override struct {
	mu          sync.Mutex
	inner       Source
	policy      Policy
	cancelInner func()
	watchers    observe.List[bool]
}

// NewOverride creates an override over inner; inner may be nil
func NewOverride(inner Source, policy Policy) *Override {
	return &Override{inner: inner, policy: policy}
}

// Fine implements Source
func (o *Override) Fine() (bool, error) {
	o.mu.Lock()
	policy, inner := o.policy, o.inner
	o.mu.Unlock()

	switch policy {
	case PolicyFine:
		return true, nil
	case PolicyCoarse:
		return false, nil
	}
	if inner == nil {
		return false, ErrNoSource
	}
	return inner.Fine()
}

// Watch implements Source
func (o *Override) Watch(fn func(bool)) func() {
	cancel := o.watchers.Add(fn)

	o.mu.Lock()
	subscribe := o.cancelInner == nil && o.inner != nil
	inner := o.inner
	o.mu.Unlock()

	if subscribe {
		c := inner.Watch(o.forward)
		o.mu.Lock()
		o.cancelInner = c
		o.mu.Unlock()
	}

	return func() {
		cancel()
		if o.watchers.Len() > 0 {
			return
		}
		o.mu.Lock()
		c := o.cancelInner
		o.cancelInner = nil
		o.mu.Unlock()
		if c != nil {
			c()
		}
	}
}

func (o *Override) forward(fine bool) {
	o.mu.Lock()
	auto := o.policy == PolicyAuto
	o.mu.Unlock()
	if auto {
		o.watchers.Emit(fine)
	}
}

// Policy returns the current policy
func (o *Override) Policy() Policy {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.policy
}

// SetPolicy switches policy and reports the resulting capability
func (o *Override) SetPolicy(p Policy) {
	o.mu.Lock()
	if o.policy == p {
		o.mu.Unlock()
		return
	}
	o.policy = p
	o.mu.Unlock()

	fine, err := o.Fine()
	if err != nil {
		fine = false
	}
	o.watchers.Emit(fine)
}

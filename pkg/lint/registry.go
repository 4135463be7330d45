package lint

import (
	"maps"
	"slices"
	"sync"

	"github.com/yaklabco/phpsniff/pkg/token"
)

// Registry indexes rules by ID, name, sniff alias and token kind.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules map[string]Rule

	// names and aliases map a lookup key to a rule ID. Aliases may point at
	// IDs registered later, so they are checked at lookup time.
	names   map[string]string
	aliases map[string]string

	// kinds holds, per token kind, the IDs of interested rules in ID order.
	kinds map[token.Kind][]string
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		rules:   make(map[string]Rule),
		names:   make(map[string]string),
		aliases: make(map[string]string),
		kinds:   make(map[token.Kind][]string),
	}
}

// Register adds rule, replacing any rule with the same ID.
func (r *Registry) Register(rule Rule) {
	r.mu.Lock()
	defer r.mu.Unlock()

	id := rule.ID()
	if old, ok := r.rules[id]; ok {
		r.unindex(old)
	}
	r.rules[id] = rule
	r.names[rule.Name()] = id
	for _, kind := range rule.Kinds() {
		ids := r.kinds[kind]
		if i, found := slices.BinarySearch(ids, id); !found {
			r.kinds[kind] = slices.Insert(ids, i, id)
		}
	}
}

func (r *Registry) unindex(rule Rule) {
	id := rule.ID()
	if r.names[rule.Name()] == id {
		delete(r.names, rule.Name())
	}
	for _, kind := range rule.Kinds() {
		r.kinds[kind] = slices.DeleteFunc(r.kinds[kind], func(s string) bool { return s == id })
	}
}

// RegisterAlias maps a PHP_CodeSniffer sniff code such as
// "Generic.Arrays.DisallowLongArraySyntax" to ruleID.
func (r *Registry) RegisterAlias(alias, ruleID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.aliases[alias] = ruleID
}

// Get looks key up as an ID, then as a name.
func (r *Registry) Get(key string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.lookup(key, false)
	return rule, ok
}

// GetByID looks up a rule by ID only.
func (r *Registry) GetByID(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[id]
	return rule, ok
}

// GetByName looks up a rule by name only.
func (r *Registry) GetByName(name string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.rules[r.names[name]]
	return rule, ok
}

// Resolve accepts an ID, name or sniff alias and returns the canonical ID.
func (r *Registry) Resolve(key string) (string, Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	rule, ok := r.lookup(key, true)
	if !ok {
		return "", nil, false
	}
	return rule.ID(), rule, true
}

func (r *Registry) lookup(key string, withAliases bool) (Rule, bool) {
	if rule, ok := r.rules[key]; ok {
		return rule, true
	}
	if id, ok := r.names[key]; ok {
		return r.rules[id], true
	}
	if withAliases {
		if id, ok := r.aliases[key]; ok {
			rule, ok := r.rules[id]
			return rule, ok
		}
	}
	return nil, false
}

// Rules returns every rule in ID order.
func (r *Registry) Rules() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(slices.Sorted(maps.Keys(r.rules)))
}

// IDs returns every rule ID in order.
func (r *Registry) IDs() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Sorted(maps.Keys(r.rules))
}

// Aliases returns the sniff codes mapped to id, sorted.
func (r *Registry) Aliases(id string) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []string
	for alias, target := range r.aliases {
		if target == id {
			result = append(result, alias)
		}
	}
	slices.Sort(result)
	return result
}

// ForKind returns the rules that inspect tokens of kind, in ID order.
func (r *Registry) ForKind(kind token.Kind) []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.collect(r.kinds[kind])
}

func (r *Registry) collect(ids []string) []Rule {
	if len(ids) == 0 {
		return nil
	}
	out := make([]Rule, len(ids))
	for i, id := range ids {
		out[i] = r.rules[id]
	}
	return out
}

// DefaultRegistry holds the built-in rules; each rule file registers itself
// from init.
//
//nolint:gochecknoglobals // populated once at init
var DefaultRegistry = NewRegistry()

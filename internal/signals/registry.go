package signals

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SignalSource is a static lookup descriptor: a target sheet plus an ordered
// list of acceptable question-id variants. Defined once at load; never
// mutated.
type SignalSource struct {
	Sheet       string   `yaml:"sheet" validate:"required"`
	QuestionIDs []string `yaml:"question_ids" validate:"required,min=1,dive,required"`
}

// registryDocument is the on-disk shape of the signal registry.
//
// The DDQ workbook evolves (question IDs get renumbered, moved or renamed),
// so every signal-to-question lookup is centralised in one document. When the
// DDQ changes, update registry.yaml only: add renumbered IDs to aliases and
// adjust the signal sources. Inference code never hard-codes question IDs.
type registryDocument struct {
	Aliases map[string][]string       `yaml:"aliases"`
	Signals map[string][]SignalSource `yaml:"signals" validate:"required,min=1"`
}

//go:embed registry.yaml
var defaultRegistryYAML []byte

// Registry maps semantic signal names to their DDQ lookup descriptors.
// Immutable after load; safe for concurrent use.
type Registry struct {
	sources map[string][]SignalSource
}

// LoadRegistry parses and validates a registry document. Alias expansion
// happens here: each question id is replaced by its alias list (deduplicated,
// order preserving, first match wins). Alias-of-alias is not supported;
// expansion is a single pass.
func LoadRegistry(data []byte) (*Registry, error) {
	var doc registryDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse signal registry: %w", err)
	}
	if err := validator.New().Struct(doc); err != nil {
		return nil, fmt.Errorf("invalid signal registry: %w", err)
	}

	sources := make(map[string][]SignalSource, len(doc.Signals))
	for name, srcs := range doc.Signals {
		name = strings.TrimSpace(name)
		if name == "" {
			return nil, fmt.Errorf("signal registry contains a blank signal name")
		}
		expanded := make([]SignalSource, 0, len(srcs))
		for _, src := range srcs {
			expanded = append(expanded, SignalSource{
				Sheet:       src.Sheet,
				QuestionIDs: expandQuestionIDs(src.QuestionIDs, doc.Aliases),
			})
		}
		sources[name] = expanded
	}

	return &Registry{sources: sources}, nil
}

// NewDefaultRegistry loads the embedded registry document. A malformed
// embedded registry is a build defect; callers should fail fast at startup.
func NewDefaultRegistry() (*Registry, error) {
	return LoadRegistry(defaultRegistryYAML)
}

func expandQuestionIDs(qids []string, aliases map[string][]string) []string {
	seen := make(map[string]struct{})
	var out []string
	add := func(qid string) {
		qid = strings.TrimSpace(qid)
		if qid == "" {
			return
		}
		key := strings.ToUpper(qid)
		if _, ok := seen[key]; ok {
			return
		}
		seen[key] = struct{}{}
		out = append(out, qid)
	}

	for _, qid := range qids {
		qid = strings.TrimSpace(qid)
		if alts, ok := aliases[qid]; ok && len(alts) > 0 {
			for _, alt := range alts {
				add(alt)
			}
			continue
		}
		add(qid)
	}
	return out
}

// Sources returns the lookup descriptors for a signal name, in priority
// order. Unknown signals return nil.
func (r *Registry) Sources(signalName string) []SignalSource {
	return r.sources[signalName]
}

// SignalNames returns all registered signal names, sorted.
func (r *Registry) SignalNames() []string {
	names := make([]string, 0, len(r.sources))
	for name := range r.sources {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

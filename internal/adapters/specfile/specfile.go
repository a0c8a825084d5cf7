// Package specfile loads setup specifications from YAML documents.
//
// A document is either a bare sequence of specifications or a mapping with
// "module" and "function" sequences:
//
//	module:
//	  - User:
//	      - name: Bob
//	  - Account:
//	      name: Acme
//	      owner: Bob
//	function:
//	  - Project: {name: Launch, account: Acme}
//
// Each specification is a mapping from kind to a single parameter set or a
// sequence of them. Key order is preserved so entries run in document order.
package specfile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/jsamuelsen11/testdata-provisioner/internal/domain"
)

// ErrInvalid is returned, wrapped, for documents that do not have the
// expected shape.
var ErrInvalid = errors.New("invalid setup document")

const (
	sectionModule   = "module"
	sectionFunction = "function"
)

// Load reads and parses the file at path. Specifications of a bare sequence
// document are assigned to bare.
func Load(path string, bare domain.Scope) (domain.Plan, error) {
	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return domain.Plan{}, fmt.Errorf("reading setup file %q: %w", path, err)
	}

	plan, err := Parse(data, bare)
	if err != nil {
		return domain.Plan{}, fmt.Errorf("parsing setup file %q: %w", path, err)
	}
	return plan, nil
}

// Parse decodes one YAML document into a plan. An empty document yields an
// empty plan.
func Parse(data []byte, bare domain.Scope) (domain.Plan, error) {
	var doc yaml.Node
	dec := yaml.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return domain.Plan{}, nil
		}
		return domain.Plan{}, fmt.Errorf("%w: %w", ErrInvalid, err)
	}
	if len(doc.Content) == 0 {
		return domain.Plan{}, nil
	}

	root := doc.Content[0]
	switch root.Kind {
	case yaml.SequenceNode:
		specs, err := parseSpecs(root)
		if err != nil {
			return domain.Plan{}, err
		}
		return planFor(bare, specs)
	case yaml.MappingNode:
		return parseSections(root)
	default:
		return domain.Plan{}, invalidf(root, "document must be a sequence or a module/function mapping")
	}
}

func planFor(scope domain.Scope, specs []domain.Spec) (domain.Plan, error) {
	switch scope {
	case domain.ScopeModule:
		return domain.Plan{Module: specs}, nil
	case domain.ScopeFunction:
		return domain.Plan{Function: specs}, nil
	default:
		return domain.Plan{}, fmt.Errorf("%w: unknown scope %q for bare document", ErrInvalid, scope)
	}
}

func parseSections(root *yaml.Node) (domain.Plan, error) {
	var plan domain.Plan
	for i := 0; i < len(root.Content); i += 2 {
		key, value := root.Content[i], root.Content[i+1]

		specs, err := parseSpecs(value)
		if err != nil {
			return domain.Plan{}, err
		}

		switch key.Value {
		case sectionModule:
			plan.Module = specs
		case sectionFunction:
			plan.Function = specs
		default:
			return domain.Plan{}, invalidf(key, "unknown section %q, want %q or %q", key.Value, sectionModule, sectionFunction)
		}
	}
	return plan, nil
}

func parseSpecs(node *yaml.Node) ([]domain.Spec, error) {
	if isNull(node) {
		return nil, nil
	}
	if node.Kind != yaml.SequenceNode {
		return nil, invalidf(node, "expected a sequence of specifications")
	}

	specs := make([]domain.Spec, 0, len(node.Content))
	for _, item := range node.Content {
		spec, err := parseSpec(item)
		if err != nil {
			return nil, err
		}
		specs = append(specs, spec)
	}
	return specs, nil
}

func parseSpec(node *yaml.Node) (domain.Spec, error) {
	if node.Kind != yaml.MappingNode {
		return nil, invalidf(node, "specification must be a mapping of kind to parameters")
	}

	spec := make(domain.Spec, 0, len(node.Content)/2)
	for i := 0; i < len(node.Content); i += 2 {
		key, value := node.Content[i], node.Content[i+1]
		if key.Kind != yaml.ScalarNode || key.Value == "" {
			return nil, invalidf(key, "kind must be a non-empty string")
		}

		params, err := parseParamSets(value)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", key.Value, err)
		}
		spec = append(spec, domain.Many(key.Value, params...))
	}
	return spec, nil
}

// parseParamSets accepts a single mapping, a sequence of mappings, or null
// (one empty parameter set).
func parseParamSets(node *yaml.Node) ([]domain.ParamSet, error) {
	switch {
	case isNull(node):
		return []domain.ParamSet{{}}, nil
	case node.Kind == yaml.MappingNode:
		params, err := decodeParams(node)
		if err != nil {
			return nil, err
		}
		return []domain.ParamSet{params}, nil
	case node.Kind == yaml.SequenceNode:
		sets := make([]domain.ParamSet, 0, len(node.Content))
		for _, item := range node.Content {
			if item.Kind != yaml.MappingNode {
				return nil, invalidf(item, "parameter set must be a mapping")
			}
			params, err := decodeParams(item)
			if err != nil {
				return nil, err
			}
			sets = append(sets, params)
		}
		return sets, nil
	default:
		return nil, invalidf(node, "parameters must be a mapping or a sequence of mappings")
	}
}

func decodeParams(node *yaml.Node) (domain.ParamSet, error) {
	var params domain.ParamSet
	if err := node.Decode(&params); err != nil {
		return nil, invalidf(node, "decoding parameters: %v", err)
	}
	if params == nil {
		params = domain.ParamSet{}
	}
	return params, nil
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == "!!null"
}

func invalidf(node *yaml.Node, format string, args ...any) error {
	return fmt.Errorf("%w: line %d: %s", ErrInvalid, node.Line, fmt.Sprintf(format, args...))
}

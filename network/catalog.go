package network

import (
	"fmt"
	"math/rand/v2"

	"github.com/ranilmukesh/mlstudio/pkg/errors"

	coremodel "github.com/ranilmukesh/mlstudio/core/model"
)

// ModelType identifies one of the fixed catalog architectures.
type ModelType int

const (
	// ModelTypeSimple is one 32-unit hidden layer plus the sigmoid head.
	ModelTypeSimple ModelType = iota
	// ModelTypeDeep stacks the configured hidden layers (default 128/64/32).
	ModelTypeDeep
	// ModelTypeWide uses two fixed hidden layers of 256 and 128 units.
	ModelTypeWide
	// ModelTypeLinear is a single sigmoid unit on the raw input, i.e.
	// logistic regression.
	ModelTypeLinear
)

// ModelTypeFromTag maps a configuration tag to a ModelType.
// Unknown and empty tags resolve to ModelTypeSimple; the fallback is an
// explicit branch, matching the documented catalog behavior.
func ModelTypeFromTag(tag string) ModelType {
	switch tag {
	case "deep":
		return ModelTypeDeep
	case "wide":
		return ModelTypeWide
	case "linear":
		return ModelTypeLinear
	case "simple":
		return ModelTypeSimple
	default:
		return ModelTypeSimple
	}
}

// String returns the configuration tag for the model type.
func (t ModelType) String() string {
	switch t {
	case ModelTypeDeep:
		return "deep"
	case ModelTypeWide:
		return "wide"
	case ModelTypeLinear:
		return "linear"
	default:
		return "simple"
	}
}

// defaultDeepLayers is the hidden stack used by ModelTypeDeep when the
// configuration does not supply one.
var defaultDeepLayers = []int{128, 64, 32}

// defaultSeed keeps weight initialization deterministic when BuildSpec
// does not request a particular seed.
const defaultSeed uint64 = 42

// BuildSpec carries the architecture knobs the catalog understands.
type BuildSpec struct {
	// HiddenLayers lists hidden widths outer-to-inner. Only ModelTypeDeep
	// reads the full list; an empty list means the type's default.
	HiddenLayers []int

	// DropoutRate in [0, 1); 0 disables dropout entirely.
	DropoutRate float64

	// Activation used by hidden layers. The head is always sigmoid.
	Activation Activation

	// Seed for weight initialization; 0 selects the package default.
	Seed uint64
}

// Build constructs an untrained catalog model for the given type and
// input feature count. A non-positive inputFeatures is a caller error
// and fails fast rather than building an unusable graph.
func Build(modelType ModelType, inputFeatures int, spec BuildSpec) (*Model, error) {
	if inputFeatures <= 0 {
		return nil, errors.NewValueError("network.Build",
			fmt.Sprintf("inputFeatures must be positive, got %d", inputFeatures))
	}
	if spec.DropoutRate < 0 || spec.DropoutRate >= 1 {
		return nil, errors.NewValidationError("DropoutRate", "must be in [0, 1)", spec.DropoutRate)
	}
	for _, w := range spec.HiddenLayers {
		if w <= 0 {
			return nil, errors.NewValidationError("HiddenLayers", "layer widths must be positive", spec.HiddenLayers)
		}
	}

	seed := spec.Seed
	if seed == 0 {
		seed = defaultSeed
	}
	rng := rand.New(rand.NewPCG(seed, seed))

	m := &Model{
		state: coremodel.NewStateManager(),
		inDim: inputFeatures,
		rng:   rng,
		kind:  modelType,
	}

	var hidden []int
	switch modelType {
	case ModelTypeLinear:
		hidden = nil
	case ModelTypeWide:
		hidden = []int{256, 128}
	case ModelTypeDeep:
		hidden = spec.HiddenLayers
		if len(hidden) == 0 {
			hidden = defaultDeepLayers
		}
	default: // ModelTypeSimple
		hidden = []int{32}
	}

	in := inputFeatures
	for i, width := range hidden {
		name := fmt.Sprintf("dense%d", i)
		m.layers = append(m.layers, newDense(name, in, width, spec.Activation, rng))
		if spec.DropoutRate > 0 {
			m.layers = append(m.layers, newDropout(spec.DropoutRate, rng))
		}
		in = width
	}

	// Binary-classification head: one sigmoid unit.
	m.layers = append(m.layers, newDense("head", in, 1, ActivationSigmoid, rng))

	return m, nil
}

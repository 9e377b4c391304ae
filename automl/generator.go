package automl

// Search grids swept by GenerateConfigurations. The nesting order below
// is fixed: model type is the outermost loop, hidden-layer shape the
// innermost. Because enumeration truncates well before the full product,
// that order decides which region of the space is ever explored.
var (
	searchModelTypes    = []string{"simple", "deep", "wide", "linear"}
	searchLearningRates = []float64{0.001, 0.01, 0.1}
	searchBatchSizes    = []int{16, 32, 64}
	searchDropoutRates  = []float64{0, 0.1, 0.2, 0.3}
	searchOptimizers    = []string{"adam", "sgd", "rmsprop"}
	searchActivations   = []string{"relu", "tanh", "sigmoid"}
	searchHiddenLayers  = [][]int{{32}, {64, 32}, {128, 64, 32}, {256, 128, 64}}
)

const (
	// maxGeneratedConfigs truncates the Cartesian enumeration. The full
	// product is 5184 combinations; stopping at 50 keeps runs fast at
	// the cost of never reaching most of the space.
	maxGeneratedConfigs = 50

	// maxSweepEpochs caps per-trial epochs to bound trial cost.
	maxSweepEpochs = 20
)

// GenerateConfigurations enumerates trial configurations from a base
// config. It is a pure function: the same base yields the same
// configurations in the same order on every call. Each generated config
// copies the base's TargetVariable, overrides the swept hyperparameters,
// and caps epochs at min(base.Epochs, 20).
func GenerateConfigurations(base ModelConfig) []ModelConfig {
	epochs := base.Epochs
	if epochs > maxSweepEpochs {
		epochs = maxSweepEpochs
	}

	configs := make([]ModelConfig, 0, maxGeneratedConfigs)
	for _, modelType := range searchModelTypes {
		for _, lr := range searchLearningRates {
			for _, batchSize := range searchBatchSizes {
				for _, dropout := range searchDropoutRates {
					for _, optimizer := range searchOptimizers {
						for _, activation := range searchActivations {
							for _, hidden := range searchHiddenLayers {
								cfg := base
								cfg.Epochs = epochs
								cfg.BatchSize = batchSize
								cfg.LearningRate = lr
								cfg.ModelType = modelType
								cfg.DropoutRate = dropout
								cfg.Optimizer = optimizer
								cfg.Activation = activation
								cfg.HiddenLayers = append([]int(nil), hidden...)
								configs = append(configs, cfg)

								if len(configs) >= maxGeneratedConfigs {
									return configs
								}
							}
						}
					}
				}
			}
		}
	}
	return configs
}

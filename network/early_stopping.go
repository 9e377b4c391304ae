package network

import "math"

// EarlyStopping tracks validation loss across epochs and signals when
// training should stop after a configured number of epochs without
// improvement. A non-positive patience disables it.
type EarlyStopping struct {
	Patience        int     // Epochs without improvement before stopping
	BestScore       float64 // Best validation loss so far
	BestEpoch       int     // Epoch with the best score
	EpochsNoImprove int     // Current epochs without improvement
	Enabled         bool
}

// NewEarlyStopping creates an early stopping handler for validation loss.
func NewEarlyStopping(patience int) *EarlyStopping {
	if patience <= 0 {
		return &EarlyStopping{Enabled: false}
	}
	return &EarlyStopping{
		Patience:  patience,
		BestScore: math.Inf(1),
		Enabled:   true,
	}
}

// Update records the epoch's validation loss and returns true when
// training should stop.
func (es *EarlyStopping) Update(epoch int, valLoss float64) bool {
	if !es.Enabled {
		return false
	}

	if valLoss < es.BestScore {
		es.BestScore = valLoss
		es.BestEpoch = epoch
		es.EpochsNoImprove = 0
	} else {
		es.EpochsNoImprove++
	}

	return es.EpochsNoImprove >= es.Patience
}

// ShouldStop returns whether training should stop.
func (es *EarlyStopping) ShouldStop() bool {
	if !es.Enabled {
		return false
	}
	return es.EpochsNoImprove >= es.Patience
}

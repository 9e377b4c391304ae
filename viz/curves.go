// Package viz renders fit histories to image files for run inspection.
package viz

import (
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/ranilmukesh/mlstudio/network"
	"github.com/ranilmukesh/mlstudio/pkg/errors"
)

// LossCurve renders training and validation loss per epoch to path
// (format inferred from the extension, e.g. .png).
func LossCurve(h *network.History, path string) error {
	return curve(h, path, "Loss", func(l network.EpochLogs) (float64, float64) {
		return l.Loss, l.ValLoss
	})
}

// AccuracyCurve renders training and validation accuracy per epoch.
func AccuracyCurve(h *network.History, path string) error {
	return curve(h, path, "Accuracy", func(l network.EpochLogs) (float64, float64) {
		return l.Accuracy, l.ValAccuracy
	})
}

func curve(h *network.History, path, metric string, pick func(network.EpochLogs) (train, val float64)) error {
	if len(h.Epochs) == 0 {
		return errors.NewValueError("viz.curve", "history has no epochs")
	}

	train := make(plotter.XYs, len(h.Epochs))
	val := make(plotter.XYs, 0, len(h.Epochs))
	for i, logs := range h.Epochs {
		t, v := pick(logs)
		train[i].X = float64(i)
		train[i].Y = t
		if logs.HasValidation {
			val = append(val, plotter.XY{X: float64(i), Y: v})
		}
	}

	p := plot.New()
	p.Title.Text = metric + " per epoch"
	p.X.Label.Text = "Epoch"
	p.Y.Label.Text = metric

	series := []interface{}{"train", train}
	if len(val) > 0 {
		series = append(series, "validation", val)
	}
	if err := plotutil.AddLinePoints(p, series...); err != nil {
		return errors.Wrap(err, "build plot")
	}

	if err := p.Save(6*vg.Inch, 4*vg.Inch, path); err != nil {
		return errors.Wrap(err, "save plot")
	}
	return nil
}

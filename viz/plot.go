// Package viz renders EOF results with gonum/plot: a scree plot of the
// explained variance spectrum and line plots of EOF patterns or PC series.
package viz

import (
	"fmt"
	"image/color"
	"path/filepath"
	"strings"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"

	"github.com/YuminosukeSato/goeof/pkg/errors"
)

// Default output size.
const (
	DefaultWidth  = 8 * vg.Inch
	DefaultHeight = 5 * vg.Inch
)

// ScreePlot は説明分散比の棒グラフと累積比の折れ線を描いたプロットを作成する
//
// パラメータ:
//   - ratios: モードごとの説明分散比（ExplainedVarianceRatio の結果）
//
// 使用例:
//
//	ratios, _ := model.ExplainedVarianceRatio()
//	p, err := viz.ScreePlot(ratios)
//	err = viz.Save(p, "scree.png")
func ScreePlot(ratios []float64) (*plot.Plot, error) {
	if len(ratios) == 0 {
		return nil, errors.NewModelError("ScreePlot", "no modes to plot", errors.ErrEmptyData)
	}
	if err := errors.CheckVector("ScreePlot", ratios); err != nil {
		return nil, err
	}

	p := plot.New()
	p.Title.Text = "Explained variance"
	p.X.Label.Text = "Mode"
	p.Y.Label.Text = "Ratio"
	p.Y.Min = 0

	bars, err := plotter.NewBarChart(plotter.Values(ratios), vg.Points(18))
	if err != nil {
		return nil, errors.Wrap(err, "failed to create bar chart")
	}
	bars.Color = plotutil.Color(0)
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.Legend.Add("per mode", bars)

	cumulative := make(plotter.XYs, len(ratios))
	var sum float64
	for i, r := range ratios {
		sum += r
		cumulative[i].X = float64(i)
		cumulative[i].Y = sum
	}
	line, points, err := plotter.NewLinePoints(cumulative)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cumulative line")
	}
	line.Color = plotutil.Color(1)
	line.Width = vg.Points(1.5)
	points.GlyphStyle.Color = plotutil.Color(1)
	p.Add(line, points)
	p.Legend.Add("cumulative", line, points)
	p.Legend.Top = true

	names := make([]string, len(ratios))
	for i := range names {
		names[i] = fmt.Sprintf("%d", i+1)
	}
	p.NominalX(names...)
	p.Add(plotter.NewGrid())
	return p, nil
}

// PatternPlot は行列の各列を1本の折れ線として描く。EOFs (特徴量 × モード) にも
// PCs (サンプル × モード) にも使える。
//
// パラメータ:
//   - title: プロットのタイトル
//   - xLabel: 横軸のラベル（"Feature" や "Sample"）
//   - m: 描画する行列。行が横軸、列がモード
//   - maxModes: 描画する先頭モード数（0 以下なら全列）
func PatternPlot(title, xLabel string, m mat.Matrix, maxModes int) (*plot.Plot, error) {
	if m == nil {
		return nil, errors.NewValidationError("matrix", "must not be nil", nil)
	}
	r, c := m.Dims()
	if r == 0 || c == 0 {
		return nil, errors.NewModelError("PatternPlot", "empty matrix", errors.ErrEmptyData)
	}
	if err := errors.CheckMatrix("PatternPlot", m, r, c); err != nil {
		return nil, err
	}
	if maxModes > 0 && maxModes < c {
		c = maxModes
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = "Amplitude"

	zero, err := plotter.NewLine(plotter.XYs{{X: 0, Y: 0}, {X: float64(r - 1), Y: 0}})
	if err != nil {
		return nil, errors.Wrap(err, "failed to create zero line")
	}
	zero.Color = color.Gray{Y: 160}
	zero.Dashes = []vg.Length{vg.Points(2), vg.Points(2)}
	p.Add(zero)

	for j := 0; j < c; j++ {
		pts := make(plotter.XYs, r)
		for i := 0; i < r; i++ {
			pts[i].X = float64(i)
			pts[i].Y = m.At(i, j)
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to create line for mode %d", j+1)
		}
		line.Color = plotutil.Color(j)
		line.Dashes = plotutil.Dashes(j)
		line.Width = vg.Points(1.5)
		p.Add(line)
		p.Legend.Add(fmt.Sprintf("mode %d", j+1), line)
	}
	return p, nil
}

// supportedFormats are the extensions gonum/plot can encode.
var supportedFormats = map[string]bool{
	".png": true, ".svg": true, ".pdf": true, ".eps": true,
	".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
}

// Save writes p to path with the default size. The format follows the
// file extension.
func Save(p *plot.Plot, path string) error {
	return SaveWithSize(p, path, DefaultWidth, DefaultHeight)
}

// SaveWithSize writes p to path with the given size.
func SaveWithSize(p *plot.Plot, path string, width, height vg.Length) error {
	ext := strings.ToLower(filepath.Ext(path))
	if !supportedFormats[ext] {
		return errors.NewValidationError("path", "unsupported image format", ext)
	}
	if err := p.Save(width, height, path); err != nil {
		return errors.Wrapf(err, "failed to save plot to %s", path)
	}
	return nil
}

// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// すべての構造化エラーは対応するセンチネルエラーへUnwrapされるため、
// 呼び出し側は errors.Is(err, ErrInvalidInput) のように失敗を分類できます。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("goeof-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが設定されている場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConstantInputWarning は相関係数の計算対象の系列が定数だった場合の警告です。
// 相関は定義されないため 0、p値は 1 として扱われます。
// 特徴量が定数の場合 Mode は -1、PCが定数の場合 Feature は -1 になります。
type ConstantInputWarning struct {
	Op      string
	Feature int
	Mode    int
}

func (w *ConstantInputWarning) Error() string {
	var subject string
	switch {
	case w.Mode < 0:
		subject = fmt.Sprintf("feature %d", w.Feature)
	case w.Feature < 0:
		subject = fmt.Sprintf("mode %d", w.Mode)
	default:
		subject = fmt.Sprintf("feature %d / mode %d", w.Feature, w.Mode)
	}
	return fmt.Sprintf("%s: constant input for %s; correlation is undefined and set to 0 (p-value 1)", w.Op, subject)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConstantInputWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("operation", w.Op).
		Int("feature", w.Feature).
		Int("mode", w.Mode).
		Str("type", "ConstantInputWarning")
}

// NewConstantInputWarning は新しいConstantInputWarningを作成します。
func NewConstantInputWarning(op string, feature, mode int) *ConstantInputWarning {
	return &ConstantInputWarning{Op: op, Feature: feature, Mode: mode}
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrInvalidInput は非有限値、形状不一致、不正なパラメータを表します。
	ErrInvalidInput = New("invalid input")

	// ErrDegenerateFeature は正規化時に標準偏差が0の特徴量を表します。
	ErrDegenerateFeature = New("degenerate feature")

	// ErrNotSolved は Solve() 前にクエリが呼ばれたことを表します。
	ErrNotSolved = New("not solved")

	// ErrInvalidModeSelection は範囲外・重複したモード指定を表します。
	ErrInvalidModeSelection = New("invalid mode selection")

	// ErrAlreadySolved は解済みのエンジンに再度 Solve() が呼ばれたことを表します。
	ErrAlreadySolved = New("already solved")

	// ErrEmptyData は空のデータが渡された場合のエラーです。形状の誤りなので ErrInvalidInput にも該当します。
	ErrEmptyData error = &emptyDataError{}

	// ErrSVDFailed は特異値分解が収束しなかった場合のエラーです。
	ErrSVDFailed = New("svd failed to converge")
)

// emptyDataError は ErrEmptyData の実体で、ErrInvalidInput に unwrap されます。
type emptyDataError struct{}

func (*emptyDataError) Error() string { return "empty data" }

func (*emptyDataError) Unwrap() error { return ErrInvalidInput }

// ===========================================================================
//
//	構造化されたエラー型
//
// ===========================================================================

// NotSolvedError はモデルが未計算の状態でクエリを呼び出した場合のエラーです。
type NotSolvedError struct {
	ModelName string
	Method    string
	// Required は先に呼ぶべきメソッド名（"Solve" または "Fit"）
	Required string
}

func (e *NotSolvedError) Error() string {
	return fmt.Sprintf("goeof: %s: this model is not ready yet. Call %s() before using %s()",
		e.ModelName, e.Required, e.Method)
}

func (e *NotSolvedError) Unwrap() error {
	return ErrNotSolved
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotSolvedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("required", e.Required).
		Str("type", "NotSolvedError")
}

// NewNotSolvedError は Solve() 前の呼び出しを表すエラーをスタックトレース付きで作成します。
func NewNotSolvedError(modelName, method string) error {
	return errors.WithStack(&NotSolvedError{ModelName: modelName, Method: method, Required: "Solve"})
}

// NewNotFittedError は Fit() 前の呼び出しを表すエラーをスタックトレース付きで作成します。
func NewNotFittedError(modelName, method string) error {
	return errors.WithStack(&NotSolvedError{ModelName: modelName, Method: method, Required: "Fit"})
}

// DimensionError は入力データの次元が期待値と異なる場合のエラーです。
type DimensionError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for rows, 1 for columns/features
}

func (e *DimensionError) Error() string {
	return fmt.Sprintf("goeof: %s: dimension mismatch on axis %d (%s). Expected %d, got %d",
		e.Op, e.Axis, axisName(e.Axis), e.Expected, e.Got)
}

func (e *DimensionError) Unwrap() error {
	return ErrInvalidInput
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DimensionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("axis_name", axisName(e.Axis)).
		Str("type", "DimensionError")
}

// NewDimensionError は新しいDimensionErrorを作成し、スタックトレースを付与します。
func NewDimensionError(op string, expected, got, axis int) error {
	return errors.WithStack(&DimensionError{Op: op, Expected: expected, Got: got, Axis: axis})
}

func axisName(axis int) string {
	if axis == 0 {
		return "rows"
	}
	return "features"
}

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("goeof: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidInput
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// NonFiniteError は行列に NaN または Inf が含まれている場合のエラーです。
// Row, Col は最初に見つかった要素の位置です（ベクトルの場合 Row は -1）。
type NonFiniteError struct {
	Op    string
	Row   int
	Col   int
	Value float64
}

func (e *NonFiniteError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("goeof: %s: non-finite value %v at index %d", e.Op, e.Value, e.Col)
	}
	return fmt.Sprintf("goeof: %s: non-finite value %v at (%d, %d)", e.Op, e.Value, e.Row, e.Col)
}

func (e *NonFiniteError) Unwrap() error {
	return ErrInvalidInput
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NonFiniteError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("row", e.Row).
		Int("col", e.Col).
		Float64("value", e.Value).
		Str("type", "NonFiniteError")
}

// NewNonFiniteError は新しいNonFiniteErrorを作成し、スタックトレースを付与します。
func NewNonFiniteError(op string, row, col int, value float64) error {
	return errors.WithStack(&NonFiniteError{Op: op, Row: row, Col: col, Value: value})
}

// DegenerateFeatureError は正規化を要求されたが特徴量の標準偏差が0だった場合のエラーです。
type DegenerateFeatureError struct {
	Op      string
	Feature int
	Std     float64
}

func (e *DegenerateFeatureError) Error() string {
	return fmt.Sprintf("goeof: %s: feature %d has zero standard deviation (%g) and cannot be normalized",
		e.Op, e.Feature, e.Std)
}

func (e *DegenerateFeatureError) Unwrap() error {
	return ErrDegenerateFeature
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DegenerateFeatureError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("feature", e.Feature).
		Float64("std", e.Std).
		Str("type", "DegenerateFeatureError")
}

// NewDegenerateFeatureError は新しいDegenerateFeatureErrorを作成し、スタックトレースを付与します。
func NewDegenerateFeatureError(op string, feature int, std float64) error {
	return errors.WithStack(&DegenerateFeatureError{Op: op, Feature: feature, Std: std})
}

// ModeSelectionError はモード番号が [1, NModes] の範囲外、または重複している場合のエラーです。
type ModeSelectionError struct {
	Op     string
	Mode   int
	NModes int
	Reason string
}

func (e *ModeSelectionError) Error() string {
	return fmt.Sprintf("goeof: %s: invalid mode %d (valid range [1, %d]): %s", e.Op, e.Mode, e.NModes, e.Reason)
}

func (e *ModeSelectionError) Unwrap() error {
	return ErrInvalidModeSelection
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ModeSelectionError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("mode", e.Mode).
		Int("n_modes", e.NModes).
		Str("reason", e.Reason).
		Str("type", "ModeSelectionError")
}

// NewModeSelectionError は新しいModeSelectionErrorを作成し、スタックトレースを付与します。
func NewModeSelectionError(op string, mode, nModes int, reason string) error {
	return errors.WithStack(&ModeSelectionError{Op: op, Mode: mode, NModes: nModes, Reason: reason})
}

// ModelError はモデルに関する一般的なエラーです。Err にはセンチネルまたは原因を入れます。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("goeof: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("goeof: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

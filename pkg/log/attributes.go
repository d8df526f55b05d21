// This file contains predefined attribute keys so every log line written by
// the decomposition, the preprocessing step and the command line tool uses the
// same field names. Keys follow a dotted hierarchy ("data.samples",
// "eof.modes") for filtering.

package log

// Model and Operation Context
const (
	// ModelNameKey identifies the component type, e.g. "EOF", "Preprocessor".
	ModelNameKey = "model.name"

	// OperationKey specifies the operation being performed.
	// Standard values: see the Operation* constants below.
	OperationKey = "ml.operation"

	// ComponentKey identifies which package is performing the operation.
	ComponentKey = "ml.component"

	// PhaseKey indicates the lifecycle phase ("preprocessing", "factorization", "query").
	PhaseKey = "ml.phase"
)

// Data Shape and Characteristics
const (
	// SamplesKey indicates the number of samples (rows) in the matrix.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in the matrix.
	FeaturesKey = "data.features"

	// NormKey records whether features were normalized by their standard deviation.
	NormKey = "data.norm"

	// WeightedKey records whether per-feature weights were supplied.
	WeightedKey = "data.weighted"
)

// Decomposition
const (
	// ModesKey is the number of retained modes.
	ModesKey = "eof.modes"

	// RequestedModesKey is the number of modes the caller asked for (0 = all).
	RequestedModesKey = "eof.requested_modes"

	// ScalingKey records the scaling convention of an EOF/PC query.
	ScalingKey = "eof.scaling"

	// TotalVarianceKey records the trace of the covariance of the preprocessed matrix.
	TotalVarianceKey = "eof.total_variance"

	// LeadingRatioKey records the explained variance ratio of mode 1.
	LeadingRatioKey = "eof.leading_ratio"
)

// Performance
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"
)

// Error and Warning Context
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	ErrorTypeKey = "error.type"

	// StacktraceKey contains stack trace information for debugging.
	StacktraceKey = "error.stacktrace"
)

// Command line context
const (
	// InputPathKey is the path of the input matrix.
	InputPathKey = "io.input"

	// OutputPathKey is the path of a written artifact.
	OutputPathKey = "io.output"

	// ConfigPathKey is the path of the loaded configuration file.
	ConfigPathKey = "io.config"
)

// Standard attribute values.
const (
	OperationPreprocess  = "preprocess"
	OperationSolve       = "solve"
	OperationReconstruct = "reconstruct"
	OperationCorrelate   = "correlate"
	OperationProject     = "project"
	OperationPlot        = "plot"

	PhasePreprocessing = "preprocessing"
	PhaseFactorization = "factorization"
	PhaseQuery         = "query"

	ErrorNotSolved     = "NOT_SOLVED"
	ErrorAlreadySolved = "ALREADY_SOLVED"
	ErrorInvalidInput  = "INVALID_INPUT"
	ErrorDegenerate    = "DEGENERATE_FEATURE"
	ErrorModeSelection = "INVALID_MODE_SELECTION"
	ErrorSVDFailed     = "SVD_FAILED"
)

package commands

// CLI-specific constants
const (
	// DefaultEditorCommand is the default editor command
	DefaultEditorCommand = "vi"
	envKeyEditor         = "EDITOR"
)

// Error messages
const (
	ErrConfigLoaderUnavailable  = "config loader unavailable"
	ErrDoctorServiceUnavailable = "doctor service unavailable"
	ErrScanServiceUnavailable   = "scan service unavailable"
	ErrReviewServiceUnavailable = "review service unavailable"
	ErrKeyRequired              = "--key is required"
)

// Success messages
const (
	MsgConfigurationValid       = "Configuration valid"
	MsgNoDifferencesFromDefault = "No differences from default configuration."
	MsgHistoryCleared           = "History cleared."
	MsgClearCancelled           = "Clear cancelled."
	MsgResetCancelled           = "Reset cancelled."
	MsgNoReviews                = "No reviews yet."
	MsgReviewDeleted            = "Review deleted."
)

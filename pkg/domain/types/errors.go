package types

import "github.com/m-mizutani/goerr/v2"

// Error kinds reported by ErrorKind
const (
	KindConfig     = "config"
	KindDelivery   = "delivery"
	KindUnexpected = "unexpected"
)

var (
	// ErrTagConfig marks malformed configuration (e.g. an unusable webhook URL)
	ErrTagConfig = goerr.NewTag(KindConfig)

	// ErrTagDelivery marks a webhook call that returned a non-success status
	ErrTagDelivery = goerr.NewTag(KindDelivery)

	// ErrTagUnexpected marks any other fault during a run
	ErrTagUnexpected = goerr.NewTag(KindUnexpected)
)

// ErrorKind returns the kind of err. Errors without a known tag are
// reported as KindUnexpected.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case goerr.HasTag(err, ErrTagConfig):
		return KindConfig
	case goerr.HasTag(err, ErrTagDelivery):
		return KindDelivery
	default:
		return KindUnexpected
	}
}

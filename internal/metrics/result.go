package metrics

import "github.com/ayush/krishi-mitr/backend/internal/apperr"

// Outcome labels an operation result by error kind.
func Outcome(err error) string {
	if err == nil {
		return "ok"
	}
	switch apperr.KindOf(err) {
	case apperr.KindValidation:
		return "invalid"
	case apperr.KindAuthentication:
		return "unauthorized"
	case apperr.KindNotFound:
		return "not_found"
	}
	return "error"
}

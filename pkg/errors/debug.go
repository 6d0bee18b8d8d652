package errors

import stdErrors "errors"

// ErrorDump is a log-friendly flattening of a wrapped error chain.
type ErrorDump struct {
	TopMessage string
	Code       string
	Chain      []string
}

// Dump walks the error chain and collects every message for structured logging.
func Dump(err error) ErrorDump {
	dump := ErrorDump{}
	if err == nil {
		return dump
	}

	dump.TopMessage = err.Error()
	if typed := As(err); typed != nil {
		dump.Code = string(typed.Code())
	}

	for current := err; current != nil; current = stdErrors.Unwrap(current) {
		dump.Chain = append(dump.Chain, current.Error())
	}
	return dump
}

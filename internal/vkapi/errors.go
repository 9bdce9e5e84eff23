package vkapi

import (
	"errors"
	"fmt"
)

// ErrMalformed marks a response that decoded but lacks a field the caller relies on.
var ErrMalformed = errors.New("malformed vk response")

// APIError is the {"error": {...}} envelope VK returns with HTTP 200.
type APIError struct {
	Code    int    `json:"error_code"`
	Message string `json:"error_msg"`
	Method  string `json:"-"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vk api %s: error %d: %s", e.Method, e.Code, e.Message)
}

// Common VK error codes.
const (
	CodeTooManyRequests = 6
	CodeInvalidParam    = 100
)

// IsCode reports whether err is a VK API error with the given code.
func IsCode(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Code == code
}

package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Is matches AppErrors by code, so errors.Is works on WithError copies.
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrNotFound = &AppError{
		Code:       "NOT_FOUND",
		Message:    "Resource not found",
		StatusCode: 404,
	}

	ErrGalleryLoad = &AppError{
		Code:       "GALLERY_LOAD_FAILED",
		Message:    "Failed to load reference gallery",
		StatusCode: 500,
	}

	ErrEmptyGallery = &AppError{
		Code:       "EMPTY_GALLERY",
		Message:    "No reference identities loaded",
		StatusCode: 500,
	}

	ErrNoFaceDetected = &AppError{
		Code:       "NO_FACE_DETECTED",
		Message:    "No face detected in the image",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrLedgerPersistence = &AppError{
		Code:       "LEDGER_PERSISTENCE",
		Message:    "Attendance log is inaccessible",
		StatusCode: 500,
	}

	ErrRecordNotFound = &AppError{
		Code:       "RECORD_NOT_FOUND",
		Message:    "Attendance record not found",
		StatusCode: 404,
	}

	ErrCaptureUnavailable = &AppError{
		Code:       "CAPTURE_UNAVAILABLE",
		Message:    "Capture device is unavailable",
		StatusCode: 503,
	}

	ErrRecognitionRunning = &AppError{
		Code:       "RECOGNITION_RUNNING",
		Message:    "Recognition is already running",
		StatusCode: 409,
	}

	ErrRecognitionStopped = &AppError{
		Code:       "RECOGNITION_STOPPED",
		Message:    "Recognition is not running",
		StatusCode: 409,
	}

	ErrInvalidDate = &AppError{
		Code:       "INVALID_DATE",
		Message:    "Date must be in DD/MM/YYYY format",
		StatusCode: 422,
	}

	ErrInvalidWindow = &AppError{
		Code:       "INVALID_WINDOW",
		Message:    "Time window must be HH:MM:SS with start not after end",
		StatusCode: 500,
	}
)

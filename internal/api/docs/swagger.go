package docs

import (
	"github.com/go-swagno/swagno"
	"github.com/go-swagno/swagno/components/endpoint"
	"github.com/go-swagno/swagno/components/http/response"
	"github.com/go-swagno/swagno/components/mime"
	"github.com/go-swagno/swagno/components/parameter"
)

// ToggleResponse reports the recognition loop state after a control call
type ToggleResponse struct {
	Running bool `json:"running" example:"true"`
}

// StatusResponse is the recognition loop's visible state
type StatusResponse struct {
	Running bool     `json:"running" example:"true"`
	Current string   `json:"current" example:"ALICE"`
	History []string `json:"history" example:"ALICE,Entry,16:30:00,01/01/2024"`
}

// HistoryResponse lists recent attendance events, oldest first
type HistoryResponse struct {
	Events []string `json:"events" example:"ALICE,Entry,16:30:00,01/01/2024"`
}

// AttendanceRecord is one row of the attendance log
type AttendanceRecord struct {
	ID       string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Identity string `json:"identity" example:"ALICE"`
	Kind     string `json:"kind" example:"Entry"`
	Time     string `json:"time" example:"16:30:00"`
	Date     string `json:"date" example:"01/01/2024"`
	ExitTime string `json:"exit_time,omitempty" example:"18:15:00"`
	ExitDate string `json:"exit_date,omitempty" example:"01/01/2024"`
	Line     string `json:"line" example:"ALICE,Entry,16:30:00,01/01/2024,Exit,18:15:00,01/01/2024"`
}

// ListAttendanceResponse wraps one day's records
type ListAttendanceResponse struct {
	Date    string             `json:"date" example:"01/01/2024"`
	Records []AttendanceRecord `json:"records"`
}

// EnrollmentResponse represents one enrolled identity
type EnrollmentResponse struct {
	ID       string `json:"id" example:"550e8400-e29b-41d4-a716-446655440000"`
	Identity string `json:"identity" example:"alice"`
}

// ListEnrollmentsResponse wraps the enrollment list
type ListEnrollmentsResponse struct {
	Enrollments []EnrollmentResponse `json:"enrollments"`
}

// ErrorResponse represents a standard error response
type ErrorResponse struct {
	Code    string `json:"code" example:"INVALID_DATE"`
	Message string `json:"message" example:"Date must be in DD/MM/YYYY format"`
}

// EmptyResponse represents no content response (204)
type EmptyResponse struct{}

// NewSwagger creates and configures the Swagger documentation
func NewSwagger() *swagno.Swagger {
	sw := swagno.New(swagno.Config{
		Title:       "Ponto Attendance API",
		Version:     "v1.0.0",
		Description: "Face recognition attendance service: entry/exit logging driven by a camera feed",
		Host:        "localhost:3000",
		Path:        "/v1",
	})

	endpoints := []*endpoint.EndPoint{
		// POST /v1/recognition/start
		endpoint.New(
			endpoint.POST,
			"/recognition/start",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Start the recognition loop"),
			endpoint.WithDescription("Starts grabbing camera frames and logging attendance for recognized faces"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ToggleResponse{}, "202", "Recognition started"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RECOGNITION_RUNNING", Message: "Recognition is already running"}, "409", "Conflict"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/recognition/stop
		endpoint.New(
			endpoint.POST,
			"/recognition/stop",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Stop the recognition loop"),
			endpoint.WithDescription("Stops the camera loop and resets the current label to Unknown"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ToggleResponse{}, "200", "Recognition stopped"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RECOGNITION_STOPPED", Message: "Recognition is not running"}, "409", "Conflict"),
			}),
		),

		// POST /v1/recognition/toggle
		endpoint.New(
			endpoint.POST,
			"/recognition/toggle",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Toggle the recognition loop"),
			endpoint.WithDescription("Starts the loop when stopped, stops it when running"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ToggleResponse{}, "200", "State flipped"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/recognition/status
		endpoint.New(
			endpoint.GET,
			"/recognition/status",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Get recognition status"),
			endpoint.WithDescription("Returns whether the loop is running, the current label and recent events"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(StatusResponse{}, "200", "Status retrieved"),
			}),
		),

		// GET /v1/recognition/history
		endpoint.New(
			endpoint.GET,
			"/recognition/history",
			endpoint.WithTags("Recognition"),
			endpoint.WithSummary("Get recent recognition events"),
			endpoint.WithDescription("Returns the last recorded attendance events, oldest first"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(HistoryResponse{}, "200", "History retrieved"),
			}),
		),

		// GET /v1/attendance
		endpoint.New(
			endpoint.GET,
			"/attendance",
			endpoint.WithTags("Attendance"),
			endpoint.WithSummary("List one day's attendance records"),
			endpoint.WithDescription("Returns the attendance log for a date (DD/MM/YYYY, defaults to today)"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("date", parameter.Query, parameter.WithDescription("Log date in DD/MM/YYYY format (URL-encoded)")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListAttendanceResponse{}, "200", "Records retrieved"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "INVALID_DATE", Message: "Date must be in DD/MM/YYYY format"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "LEDGER_PERSISTENCE", Message: "Attendance log could not be read"}, "500", "Internal Server Error"),
			}),
		),

		// POST /v1/enrollments
		endpoint.New(
			endpoint.POST,
			"/enrollments",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("Enroll a face"),
			endpoint.WithDescription("Stores the embedding of a reference photo for an identity; re-enrolling replaces the embedding"),
			endpoint.WithConsume([]mime.MIME{mime.MIME("multipart/form-data")}),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EnrollmentResponse{}, "201", "Identity enrolled"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "BAD_REQUEST", Message: "identity and image are required"}, "400", "Bad Request"),
				response.New(ErrorResponse{Code: "NO_FACE_DETECTED", Message: "No face detected in image"}, "422", "Unprocessable Entity"),
				response.New(ErrorResponse{Code: "INTERNAL_ERROR", Message: "An unexpected error occurred"}, "500", "Internal Server Error"),
			}),
		),

		// GET /v1/enrollments
		endpoint.New(
			endpoint.GET,
			"/enrollments",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("List enrolled identities"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(ListEnrollmentsResponse{}, "200", "Enrollments retrieved"),
			}),
		),

		// DELETE /v1/enrollments/:identity
		endpoint.New(
			endpoint.DELETE,
			"/enrollments/{identity}",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("Delete an enrollment"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithParams(
				parameter.StrParam("identity", parameter.Path, parameter.WithDescription("Enrolled identity")),
			),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Enrollment deleted"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "RECORD_NOT_FOUND", Message: "Identity is not enrolled"}, "404", "Not Found"),
			}),
		),

		// POST /v1/gallery/reload
		endpoint.New(
			endpoint.POST,
			"/gallery/reload",
			endpoint.WithTags("Enrollments"),
			endpoint.WithSummary("Reload the recognition gallery"),
			endpoint.WithDescription("Rebuilds the in-memory gallery from the enrollment store"),
			endpoint.WithProduce([]mime.MIME{mime.JSON}),
			endpoint.WithSuccessfulReturns([]response.Response{
				response.New(EmptyResponse{}, "204", "Gallery reloaded"),
			}),
			endpoint.WithErrors([]response.Response{
				response.New(ErrorResponse{Code: "GALLERY_LOAD_FAILED", Message: "Gallery could not be loaded"}, "500", "Internal Server Error"),
			}),
		),
	}

	sw.AddEndpoints(endpoints)

	return sw
}

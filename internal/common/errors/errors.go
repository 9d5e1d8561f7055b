// Package errors provides standardized error handling shared by the HTTP API and the BPMN workers.
package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"
	"time"
)

// ==========================
// 1. Standard Error Types
// ==========================

// ErrorCode represents standardized internal error codes.
type ErrorCode string

const (
	ErrCodeLPNotFound             ErrorCode = "LP_NOT_FOUND"
	ErrCodeDealNotFound           ErrorCode = "DEAL_NOT_FOUND"
	ErrCodeSessionNotFound        ErrorCode = "SESSION_NOT_FOUND"
	ErrCodeAlertNotFound          ErrorCode = "ALERT_NOT_FOUND"
	ErrCodeMatchReferenceInvalid  ErrorCode = "MATCH_REFERENCE_INVALID"
	ErrCodeDuplicateFixtureID     ErrorCode = "DUPLICATE_FIXTURE_ID"
	ErrCodeFixtureLoadFailed      ErrorCode = "FIXTURE_LOAD_FAILED"
	ErrCodeFixtureValidation      ErrorCode = "FIXTURE_VALIDATION_FAILED"
	ErrCodeDatabaseConnection     ErrorCode = "DATABASE_CONNECTION_FAILED"
	ErrCodeQueryExecutionFailed   ErrorCode = "QUERY_EXECUTION_FAILED"
	ErrCodeSearchQueryFailed      ErrorCode = "SEARCH_QUERY_FAILED"
	ErrCodeIndexNotFound          ErrorCode = "INDEX_NOT_FOUND"
	ErrCodeInvalidSection         ErrorCode = "INVALID_SECTION"
	ErrCodeInvalidSimulationParam ErrorCode = "INVALID_SIMULATION_PARAM"
	ErrCodeInvalidInput           ErrorCode = "INVALID_INPUT"
	ErrCodeSimulationInactive     ErrorCode = "SIMULATION_INACTIVE"
	ErrCodeSimulationBusy         ErrorCode = "SIMULATION_BUSY"
	ErrCodeEvaluationUnavailable  ErrorCode = "EVALUATION_UNAVAILABLE"
	ErrCodeEvaluationTimeout      ErrorCode = "EVALUATION_TIMEOUT"
	ErrCodeMalformedResponse      ErrorCode = "MALFORMED_ENGINE_RESPONSE"
	ErrCodeNotificationSendFailed ErrorCode = "NOTIFICATION_SEND_FAILED"
	ErrCodeWorkflowEngine         ErrorCode = "WORKFLOW_ENGINE_FAILED"
	ErrCodeInternal               ErrorCode = "INTERNAL_ERROR"
)

// StandardError represents a structured application error.
type StandardError struct {
	Code      ErrorCode              `json:"code"`
	Message   string                 `json:"message"`
	Details   string                 `json:"details,omitempty"`
	Retryable bool                   `json:"retryable"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	Timestamp time.Time              `json:"timestamp"`
}

func (e *StandardError) Error() string {
	return fmt.Sprintf("StandardError[%s]: %s", e.Code, e.Message)
}

// Is matches any StandardError carrying the same code, so callers can write
// errors.Is(err, errors.ErrLPNotFound).
func (e *StandardError) Is(target error) bool {
	t, ok := target.(*StandardError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinels for errors.Is checks.
var (
	ErrLPNotFound            = &StandardError{Code: ErrCodeLPNotFound}
	ErrDealNotFound          = &StandardError{Code: ErrCodeDealNotFound}
	ErrSessionNotFound       = &StandardError{Code: ErrCodeSessionNotFound}
	ErrSimulationInactive    = &StandardError{Code: ErrCodeSimulationInactive}
	ErrSimulationBusy        = &StandardError{Code: ErrCodeSimulationBusy}
	ErrEvaluationUnavailable = &StandardError{Code: ErrCodeEvaluationUnavailable}
	ErrEvaluationTimeout     = &StandardError{Code: ErrCodeEvaluationTimeout}
)

// AsStandard extracts a StandardError from err, wrapping unknown errors as INTERNAL_ERROR.
func AsStandard(err error) *StandardError {
	if err == nil {
		return nil
	}
	var stdErr *StandardError
	if stderrors.As(err, &stdErr) {
		return stdErr
	}
	return &StandardError{
		Code:      ErrCodeInternal,
		Message:   "Unexpected error",
		Details:   err.Error(),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 2. BPMN Error Integration
// ==========================

// BPMNError represents an error that can be thrown to the Camunda workflow engine.
type BPMNError struct {
	Code           string                 `json:"code"`
	Message        string                 `json:"message"`
	Details        string                 `json:"details,omitempty"`
	Retryable      bool                   `json:"retryable"`
	Retries        int                    `json:"retries"`
	ErrorVariables map[string]interface{} `json:"errorVariables,omitempty"`
}

func (e *BPMNError) Error() string {
	return fmt.Sprintf("BPMNError[%s]: %s", e.Code, e.Message)
}

// ToErrorVariables returns a map suitable for setting Camunda job fail variables.
func (e *BPMNError) ToErrorVariables() map[string]interface{} {
	vars := map[string]interface{}{
		"errorCode":    e.Code,
		"errorMessage": e.Message,
		"errorDetails": e.Details,
		"retryable":    e.Retryable,
	}
	for k, v := range e.ErrorVariables {
		vars[k] = v
	}
	return vars
}

// ==========================
// 3. Error Constructors
// ==========================

func NewLPNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeLPNotFound,
		Message:   "LP not found",
		Details:   fmt.Sprintf("lpId: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"lpId": id},
		Timestamp: time.Now().UTC(),
	}
}

func NewDealNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDealNotFound,
		Message:   "Deal not found",
		Details:   fmt.Sprintf("dealId: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"dealId": id},
		Timestamp: time.Now().UTC(),
	}
}

func NewSessionNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeSessionNotFound,
		Message:   "View session not found or expired",
		Details:   fmt.Sprintf("sessionId: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

// NewMatchReferenceInvalidError reports a match pointing at an unknown LP or deal.
func NewAlertNotFoundError(id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeAlertNotFound,
		Message:   "Alert not found",
		Details:   fmt.Sprintf("alertId: %s", id),
		Retryable: false,
		Metadata:  map[string]interface{}{"alertId": id},
		Timestamp: time.Now().UTC(),
	}
}

func NewMatchReferenceInvalidError(matchID, details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeMatchReferenceInvalid,
		Message:   "Match references an unknown LP or deal",
		Details:   fmt.Sprintf("matchId: %s, %s", matchID, details),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDuplicateFixtureIDError(kind, id string) *StandardError {
	return &StandardError{
		Code:      ErrCodeDuplicateFixtureID,
		Message:   fmt.Sprintf("Duplicate %s identity", kind),
		Details:   fmt.Sprintf("id: %s", id),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewFixtureLoadFailedError(source string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeFixtureLoadFailed,
		Message:   fmt.Sprintf("Failed to load fixtures from %s", source),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewFixtureValidationError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeFixtureValidation,
		Message:   "Fixture document failed schema validation",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewDatabaseConnectionFailedError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeDatabaseConnection,
		Message:   "Failed to connect to database",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewQueryExecutionFailedError(query string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeQueryExecutionFailed,
		Message:   fmt.Sprintf("Query '%s' failed", query),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewSearchQueryFailedError(index string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeSearchQueryFailed,
		Message:   fmt.Sprintf("Search on index '%s' failed", index),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewIndexNotFoundError(index string) *StandardError {
	return &StandardError{
		Code:      ErrCodeIndexNotFound,
		Message:   "Search index not found",
		Details:   fmt.Sprintf("index: %s", index),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidSectionError(section string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSection,
		Message:   "Unknown dashboard section",
		Details:   fmt.Sprintf("section: %q", section),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidSimulationParamError(param string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidSimulationParam,
		Message:   "Unknown simulation parameter",
		Details:   fmt.Sprintf("param: %q", param),
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewInvalidInputError(details string) *StandardError {
	return &StandardError{
		Code:      ErrCodeInvalidInput,
		Message:   "Invalid input",
		Details:   details,
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSimulationInactiveError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSimulationInactive,
		Message:   "Simulation mode is not active",
		Retryable: false,
		Timestamp: time.Now().UTC(),
	}
}

func NewSimulationBusyError() *StandardError {
	return &StandardError{
		Code:      ErrCodeSimulationBusy,
		Message:   "Simulation result superseded by a newer run",
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewEvaluationUnavailableError(err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationUnavailable,
		Message:   "Match evaluation unavailable",
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewEvaluationTimeoutError(operation string) *StandardError {
	return &StandardError{
		Code:      ErrCodeEvaluationTimeout,
		Message:   fmt.Sprintf("Matching engine %s timed out", operation),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewMalformedResponseError(operation string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeMalformedResponse,
		Message:   fmt.Sprintf("Malformed %s response from matching engine", operation),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

func NewNotificationSendFailedError(notificationType string, err error) *StandardError {
	return &StandardError{
		Code:      ErrCodeNotificationSendFailed,
		Message:   fmt.Sprintf("Failed to send %s notification", notificationType),
		Details:   err.Error(),
		Retryable: true,
		Timestamp: time.Now().UTC(),
	}
}

// NewWorkflowEngineError wraps a failed Zeebe gateway call.
func NewWorkflowEngineError(operation string, err error, retryable bool) *StandardError {
	return &StandardError{
		Code:      ErrCodeWorkflowEngine,
		Message:   fmt.Sprintf("Zeebe operation '%s' failed", operation),
		Details:   err.Error(),
		Retryable: retryable,
		Timestamp: time.Now().UTC(),
	}
}

// ==========================
// 4. Error Conversion to BPMN
// ==========================

// BPMNErrorMapping maps internal error codes to the error codes caught by boundary events.
var BPMNErrorMapping = map[ErrorCode]string{
	ErrCodeLPNotFound:             "LP_NOT_FOUND",
	ErrCodeDealNotFound:           "DEAL_NOT_FOUND",
	ErrCodeAlertNotFound:          "ALERT_NOT_FOUND",
	ErrCodeInvalidInput:           "INVALID_INPUT",
	ErrCodeInvalidSimulationParam: "INVALID_INPUT",
	ErrCodeEvaluationUnavailable:  "MATCH_ENGINE_UNAVAILABLE",
	ErrCodeEvaluationTimeout:      "MATCH_ENGINE_TIMEOUT",
	ErrCodeMalformedResponse:      "MATCH_ENGINE_UNAVAILABLE",
	ErrCodeNotificationSendFailed: "NOTIFICATION_SEND_FAILED",
	ErrCodeFixtureLoadFailed:      "FIXTURE_LOAD_FAILED",
	ErrCodeQueryExecutionFailed:   "QUERY_EXECUTION_FAILED",
	ErrCodeSearchQueryFailed:      "SEARCH_QUERY_FAILED",
}

// GetRetryCount returns the recommended retry count for an error code.
func GetRetryCount(code ErrorCode) int {
	switch code {
	case ErrCodeEvaluationUnavailable,
		ErrCodeMalformedResponse,
		ErrCodeNotificationSendFailed,
		ErrCodeWorkflowEngine,
		ErrCodeFixtureLoadFailed,
		ErrCodeDatabaseConnection,
		ErrCodeQueryExecutionFailed,
		ErrCodeSearchQueryFailed:
		return 3

	case ErrCodeEvaluationTimeout:
		return 2

	case ErrCodeSimulationBusy:
		return 1

	default:
		return 0
	}
}

// ConvertToBPMNError converts a StandardError to a BPMNError for Camunda.
func ConvertToBPMNError(stdErr *StandardError) *BPMNError {
	bpmnCode, exists := BPMNErrorMapping[stdErr.Code]
	if !exists {
		bpmnCode = string(stdErr.Code)
	}

	retries := GetRetryCount(stdErr.Code)
	if !stdErr.Retryable {
		retries = 0
	}

	return &BPMNError{
		Code:      bpmnCode,
		Message:   stdErr.Message,
		Details:   stdErr.Details,
		Retryable: stdErr.Retryable,
		Retries:   retries,
		ErrorVariables: map[string]interface{}{
			"originalErrorCode": string(stdErr.Code),
			"timestamp":         stdErr.Timestamp.Format(time.RFC3339),
		},
	}
}

// ==========================
// 5. Utility Functions
// ==========================

func IsRetryableErrorCode(code ErrorCode) bool {
	return GetRetryCount(code) > 0
}

// GetErrorCategory returns the category of the error code.
func GetErrorCategory(code ErrorCode) string {
	codeStr := string(code)
	switch {
	case strings.HasSuffix(codeStr, "NOT_FOUND"):
		return "NOT_FOUND"
	case strings.Contains(codeStr, "WORKFLOW"):
		return "WORKFLOW"
	case strings.Contains(codeStr, "FIXTURE") || strings.Contains(codeStr, "MATCH_REFERENCE"):
		return "FIXTURE"
	case strings.Contains(codeStr, "DATABASE") || strings.Contains(codeStr, "QUERY"):
		return "DATABASE"
	case strings.Contains(codeStr, "SEARCH"):
		return "SEARCH"
	case strings.Contains(codeStr, "EVALUATION") || strings.Contains(codeStr, "ENGINE"):
		return "MATCHING"
	case strings.Contains(codeStr, "SIMULATION"):
		return "SIMULATION"
	case strings.Contains(codeStr, "NOTIFICATION"):
		return "NOTIFICATION"
	case strings.Contains(codeStr, "INVALID") || strings.Contains(codeStr, "VALIDATION"):
		return "VALIDATION"
	default:
		return "OTHER"
	}
}

// HTTPStatus maps an error code to the status the API responds with.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeLPNotFound, ErrCodeDealNotFound, ErrCodeSessionNotFound, ErrCodeAlertNotFound, ErrCodeIndexNotFound:
		return http.StatusNotFound
	case ErrCodeInvalidSection, ErrCodeInvalidSimulationParam, ErrCodeInvalidInput, ErrCodeSimulationInactive:
		return http.StatusBadRequest
	case ErrCodeSimulationBusy:
		return http.StatusConflict
	case ErrCodeEvaluationUnavailable, ErrCodeMalformedResponse, ErrCodeSearchQueryFailed:
		return http.StatusServiceUnavailable
	case ErrCodeEvaluationTimeout:
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

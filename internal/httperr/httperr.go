package httperr

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type HTTPError struct {
	Code       string `json:"error_code"`
	Message    string `json:"message"`
	MessageKey string `json:"message_key,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:       code,
		Message:    message,
		MessageKey: messageKeys[code],
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// messageKeys maps error codes to frontend i18n keys.
var messageKeys = map[string]string{
	"invalid_request":          "errors.invalidRequest",
	"invalid_credentials":      "errors.invalidCredentials",
	"invalid_token":            "errors.invalidToken",
	"tenant_suspended":         "errors.tenantSuspended",
	"customer_not_found":       "errors.customerNotFound",
	"appointment_not_found":    "errors.appointmentNotFound",
	"order_not_found":          "errors.orderNotFound",
	"payment_not_found":        "errors.paymentNotFound",
	"queue_entry_not_found":    "errors.queueEntryNotFound",
	"invalid_state":            "errors.invalidState",
	"past_time":                "errors.pastTime",
	"within_cancellation_window": "errors.withinCancellationWindow",
	"outside_working_hours":    "errors.outsideWorkingHours",
	"reschedule_limit_reached": "errors.rescheduleLimitReached",
	"time_conflict":            "errors.timeConflict",
	"phone_already_exists":     "errors.phoneAlreadyExists",
	"insufficient_points":      "errors.insufficientPoints",
	"split_total_mismatch":     "errors.splitTotalMismatch",
	"refund_exceeds_payment":   "errors.refundExceedsPayment",
	"priority_reason_required": "errors.priorityReasonRequired",
	"internal_error":           "errors.internal",
}

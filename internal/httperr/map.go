package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// userMessages holds the Norwegian user-facing text per business code.
var userMessages = map[string]string{
	"customer_not_found":         "Kunden ble ikke funnet.",
	"appointment_not_found":      "Avtalen ble ikke funnet.",
	"order_not_found":            "Ordren ble ikke funnet.",
	"payment_not_found":          "Betalingen ble ikke funnet.",
	"queue_entry_not_found":      "Køoppføringen ble ikke funnet.",
	"invalid_state":              "Avtalen kan ikke endres i nåværende status.",
	"past_time":                  "Nytt tidspunkt må være frem i tid.",
	"within_cancellation_window": "Kan ikke endres så tett på avtalen.",
	"outside_working_hours":      "Tidspunktet er utenfor arbeidstiden.",
	"reschedule_limit_reached":   "Maksimalt antall ombookinger er nådd.",
	"time_conflict":              "Tidspunktet er allerede opptatt.",
	"phone_already_exists":       "En kunde med dette telefonnummeret finnes allerede.",
	"insufficient_points":        "Ikke nok poeng.",
	"split_total_mismatch":       "Delbetalingene stemmer ikke med totalen.",
	"refund_exceeds_payment":     "Refusjonen overstiger betalingen.",
	"priority_reason_required":   "Prioritering krever en begrunnelse.",
}

var statusByCode = map[string]int{
	"customer_not_found":      http.StatusNotFound,
	"appointment_not_found":   http.StatusNotFound,
	"order_not_found":         http.StatusNotFound,
	"payment_not_found":       http.StatusNotFound,
	"queue_entry_not_found":   http.StatusNotFound,
	"time_conflict":           http.StatusConflict,
	"phone_already_exists":    http.StatusConflict,
}

// FromError translates usecase/domain errors into an HTTP response.
// Tenant-isolation misses come back as gorm.ErrRecordNotFound and are
// answered with 404, never 403.
func FromError(c *gin.Context, err error) {
	var be BusinessError
	if errors.As(err, &be) {
		status := statusByCode[be.Code]
		if status == 0 {
			status = http.StatusBadRequest
		}
		msg := userMessages[be.Code]
		if msg == "" {
			msg = "Forespørselen kunne ikke behandles."
		}
		Write(c, status, be.Code, msg)
		return
	}

	if errors.Is(err, gorm.ErrRecordNotFound) {
		NotFound(c, "not_found", "Ikke funnet.")
		return
	}

	Internal(c, "internal_error", "Noe gikk galt. Prøv igjen senere.")
}

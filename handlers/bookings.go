package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/models"
	"bookvault/utils"
)

// BookSlot escrows the slot price from the calling guest and books the slot.
func BookSlot(c *gin.Context) {
	slotID, ok := pathID(c)
	if !ok {
		return
	}
	bookingID, err := EscrowEngine.Book(middleware.CallerAddr(c), slotID)
	if err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"bookingId": bookingID, "slotId": slotID})
}

// CancelBookingAsGuest cancels before the session starts. Early enough is a
// full refund; past the cutoff the host keeps a penalty share.
func CancelBookingAsGuest(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.CancelBookingAsGuest(middleware.CallerAddr(c), bookingID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Cancelled"})
}

// CancelBookingAsHost cancels before the session starts with a full refund to
// the guest, whatever the clock says.
func CancelBookingAsHost(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.CancelBookingAsHost(middleware.CallerAddr(c), bookingID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Cancelled"})
}

// Attest records the oracle's session verdict on a booked session.
func Attest(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	var input struct {
		Outcome     models.SessionOutcome `json:"outcome" binding:"required"`
		MetricsHash string                `json:"metricsHash"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := EscrowEngine.Attest(middleware.CallerAddr(c), bookingID, input.Outcome, input.MetricsHash); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Attested"})
}

// ClaimIfUnattested lets either party recover a booking the oracle never
// attested, refunding the guest.
func ClaimIfUnattested(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.ClaimIfUnattested(middleware.CallerAddr(c), bookingID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Finalized"})
}

// Finalize settles an attested booking once its challenge window has passed.
func Finalize(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	if err := EscrowEngine.Finalize(bookingID); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"bookingId": bookingID, "status": "Finalized"})
}

// GetBooking returns one booking by id.
func GetBooking(c *gin.Context) {
	bookingID, ok := pathID(c)
	if !ok {
		return
	}
	booking, err := EscrowEngine.GetBooking(bookingID)
	if err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, booking)
}

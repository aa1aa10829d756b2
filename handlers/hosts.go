package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"bookvault/middleware"
	"bookvault/utils"
)

// SetBasePrice publishes the calling host's standing rate. Requests targeting
// this host book at this price; zero clears it.
func SetBasePrice(c *gin.Context) {
	var input struct {
		Price int64 `json:"price"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}
	if err := EscrowEngine.SetHostBasePrice(middleware.CallerAddr(c), input.Price); err != nil {
		utils.EngineError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "base price updated"})
}

// GetBasePrice returns a host's standing rate; zero means unset.
func GetBasePrice(c *gin.Context) {
	addr := c.Param("address")
	c.JSON(http.StatusOK, gin.H{"address": addr, "price": EscrowEngine.HostBasePrice(addr)})
}

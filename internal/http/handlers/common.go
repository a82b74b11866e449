package handlers

import (
    "net/http"
    "strconv"

    "github.com/gin-gonic/gin"
)

// paramID parses the :id path parameter; on failure it writes the 400
// response and returns ok=false.
func paramID(c *gin.Context) (int64, bool) {
    id, err := strconv.ParseInt(c.Param("id"), 10, 64)
    if err != nil || id <= 0 {
        c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
        return 0, false
    }
    return id, true
}

package session

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	domainsession "github.com/alanyang/stlc-manager/internal/domain/session"
	sessionsvc "github.com/alanyang/stlc-manager/internal/service/session"
)

func Register(rg *gin.RouterGroup, svc *sessionsvc.Service) {
	rg.GET("/:id", getSession(svc))
}

func getSession(svc *sessionsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		rec, err := svc.Get(c.Request.Context(), c.Param("id"))
		if errors.Is(err, domainsession.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, rec)
	}
}

package prompt

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainprompt "github.com/alanyang/stlc-manager/internal/domain/prompt"
	promptsvc "github.com/alanyang/stlc-manager/internal/service/prompt"
)

// Register mounts the prompt editor REST endpoints on the given router group.
func Register(rg *gin.RouterGroup, registry *process.Registry, svc *promptsvc.Service) {
	rg.POST("/init", initPrompts(svc))
	rg.GET("/:process", getPrompt(registry, svc))
	rg.POST("/:process", savePrompt(registry, svc))
}

func initPrompts(svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		n, err := svc.EnsureSeeded(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "inserted": n})
	}
}

func getPrompt(registry *process.Registry, svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := registry.Lookup(c.Param("process"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		view, err := svc.Describe(c.Request.Context(), cfg.Type)
		if errors.Is(err, domainprompt.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "no base prompt configured for " + cfg.Slug})
			return
		}
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, view)
	}
}

type savePromptReq struct {
	Prompt string `json:"prompt" binding:"required"`
}

func savePrompt(registry *process.Registry, svc *promptsvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		cfg, err := registry.Lookup(c.Param("process"))
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}

		var req savePromptReq
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		if !svc.SaveCustom(c.Request.Context(), cfg.Type, req.Prompt) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to save prompt"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "process_type": cfg.Type})
	}
}

package process

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/alanyang/stlc-manager/internal/domain/process"
	domainscenario "github.com/alanyang/stlc-manager/internal/domain/scenario"
	domainupload "github.com/alanyang/stlc-manager/internal/domain/upload"
	"github.com/alanyang/stlc-manager/internal/service/runner"
	scenariosvc "github.com/alanyang/stlc-manager/internal/service/scenario"
)

// Register mounts the process endpoints. The scenario routes are static and
// take precedence over the :process wildcard.
func Register(rg *gin.RouterGroup, registry *process.Registry, runSvc *runner.Service, scenarioSvc *scenariosvc.Service) {
	rg.GET("", listProcesses(registry))
	rg.POST("/test-scenario-generation/generate-prompt", generateScenarioPrompt(scenarioSvc))
	rg.POST("/test-scenario-generation/run", runScenarios(scenarioSvc))
	rg.POST("/:process/run", runProcess(runSvc))
}

type processInfo struct {
	Type          process.Type `json:"process_type"`
	Slug          string       `json:"slug"`
	Placeholders  []string     `json:"placeholders"`
	RequiresTypes bool         `json:"requires_types"`
	ResultField   string       `json:"result_field"`
	OutputField   string       `json:"output_field"`
}

func listProcesses(registry *process.Registry) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := registry.All()
		out := make([]processInfo, 0, len(all))
		for _, cfg := range all {
			out = append(out, processInfo{
				Type:          cfg.Type,
				Slug:          cfg.Slug,
				Placeholders:  cfg.Placeholders,
				RequiresTypes: cfg.RequiresTypes,
				ResultField:   cfg.ResultField,
				OutputField:   cfg.OutputField,
			})
		}
		c.JSON(http.StatusOK, gin.H{"processes": out, "type_tags": []string{process.TagRequirementDocument}})
	}
}

func runProcess(svc *runner.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		files, err := readFiles(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		req := runner.Request{
			Files:        files,
			Types:        formList(c, "types"),
			ModelKey:     c.PostForm("model"),
			CustomPrompt: c.PostForm("custom_prompt"),
			SessionID:    c.PostForm("session_id"),
		}
		for i := range req.Files {
			if i < len(req.Types) {
				req.Files[i].Type = req.Types[i]
			}
		}

		// A started run finishes and persists even if the caller disconnects.
		res, err := svc.Run(context.WithoutCancel(c.Request.Context()), c.Param("process"), req)
		if err != nil {
			writeError(c, err)
			return
		}

		c.JSON(http.StatusOK, gin.H{
			"status": "success",
			res.Config.ResultField: []gin.H{{
				"files":                res.Files,
				res.Config.OutputField: res.Output,
			}},
			"prompt_info": gin.H{"source": res.Source},
			"session_id":  res.SessionID,
			"record_id":   res.RecordID,
		})
	}
}

func generateScenarioPrompt(svc *scenariosvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req domainscenario.Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		prompt, err := svc.GeneratePrompt(req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "prompt": prompt})
	}
}

func runScenarios(svc *scenariosvc.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		req := scenariosvc.RunRequest{
			Request: domainscenario.Request{
				TestType:     c.PostForm("test_type"),
				TestCategory: c.PostForm("test_category"),
			},
			ModelKey:  c.PostForm("model"),
			SessionID: c.PostForm("session_id"),
		}
		for field, dst := range map[string]*map[string]bool{
			"scoring_elements":     &req.ScoringElements,
			"instruction_elements": &req.InstructionElements,
		} {
			raw := c.PostForm(field)
			if raw == "" {
				continue
			}
			if err := json.Unmarshal([]byte(raw), dst); err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("%s must be a JSON object of booleans", field)})
				return
			}
		}

		files, err := readFiles(c)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		req.Files = files

		res, err := svc.Run(context.WithoutCancel(c.Request.Context()), req)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "success", "scenarios": res.Scenarios, "model": res.Model, "session_id": req.SessionID})
	}
}

// readFiles loads every "files" part of the multipart form into memory. A
// request without files yields an empty slice so the runner can reject it.
func readFiles(c *gin.Context) ([]domainupload.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		if errors.Is(err, http.ErrNotMultipart) || errors.Is(err, http.ErrMissingBoundary) {
			return nil, nil
		}
		return nil, fmt.Errorf("parse multipart form: %w", err)
	}

	headers := form.File["files"]
	files := make([]domainupload.File, 0, len(headers))
	for _, fh := range headers {
		content, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, domainupload.File{Name: fh.Filename, Content: content})
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("open upload %s: %w", fh.Filename, err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("read upload %s: %w", fh.Filename, err)
	}
	return data, nil
}

// formList returns repeated form values for key. A single value holding a
// JSON array is expanded, which is what browser clients tend to send.
func formList(c *gin.Context, key string) []string {
	values := c.PostFormArray(key)
	if len(values) == 1 && strings.HasPrefix(strings.TrimSpace(values[0]), "[") {
		var decoded []string
		if err := json.Unmarshal([]byte(values[0]), &decoded); err == nil {
			return decoded
		}
	}
	return values
}

func writeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, runner.ErrInvalidInput), errors.Is(err, scenariosvc.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domainscenario.ErrInvalidOutput):
		// The reply failed the scenario contract; callers retry with adjusted elements.
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, process.ErrUnknownProcess):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

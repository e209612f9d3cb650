package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/darkron008/tipsplit/internal/hub"
	"github.com/darkron008/tipsplit/internal/ingest"
	"github.com/darkron008/tipsplit/internal/model"
	"github.com/darkron008/tipsplit/internal/output"
	"github.com/darkron008/tipsplit/internal/pipeline"
	"github.com/gin-gonic/gin"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Server exposes the tip distribution pipeline over HTTP: an upload
// endpoint for one-shot computations, health and stats probes, and a
// websocket that streams watch-mode runs.
type Server struct {
	engine *gin.Engine
	hub    *hub.Hub
	stats  *Stats
	opts   pipeline.Options
	port   string
}

// New creates the API server. Uploaded runs inherit opts (vocabulary,
// threshold, CLI-level overrides) unless the request supplies its own
// column names.
func New(h *hub.Hub, opts pipeline.Options, port string) *Server {
	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		engine: engine,
		hub:    h,
		stats:  NewStats(h.Dropped),
		opts:   opts,
		port:   port,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// One-shot distribution from uploaded spreadsheets.
	s.engine.POST("/api/distribute", s.handleDistribute)

	// Health check.
	s.engine.GET("/healthz", func(c *gin.Context) {
		snap := s.stats.Snapshot()
		c.JSON(http.StatusOK, gin.H{
			"status": "ok",
			"uptime": snap.Uptime,
			"runs":   snap.Runs,
		})
	})

	// Metrics API.
	s.engine.GET("/api/stats", func(c *gin.Context) {
		c.JSON(http.StatusOK, s.stats.Snapshot())
	})

	// WebSocket streaming watch-mode results.
	s.engine.GET("/ws", s.handleWebSocket)
}

// handleDistribute ingests the uploaded spreadsheets, runs the pipeline,
// and answers with JSON or an xlsx download.
func (s *Server) handleDistribute(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("bad multipart form: %v", err)})
		return
	}

	files := form.File["files"]
	if len(files) == 0 {
		files = form.File["file"]
	}
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "no spreadsheet uploaded (expected form field 'files')"})
		return
	}

	var (
		tables   []model.Table
		readErrs []string
	)
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			readErrs = append(readErrs, fmt.Sprintf("open %s: %v", fh.Filename, err))
			continue
		}
		table, err := ingest.ReadReader(fh.Filename, f)
		f.Close()
		if err != nil {
			readErrs = append(readErrs, err.Error())
			continue
		}
		tables = append(tables, table)
	}

	res := pipeline.RunTables(tables, s.requestOptions(c))
	res.Errors = append(readErrs, res.Errors...)

	s.stats.Record(res)
	s.hub.Publish(res)

	if strings.EqualFold(c.PostForm("format"), "xlsx") {
		raw, err := output.WorkbookBytes(res.Result)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("export failed: %v", err)})
			return
		}
		c.Header("Content-Disposition", `attachment; filename="Tip_Payroll_Summary_OUTPUT.xlsx"`)
		c.Data(http.StatusOK, xlsxContentType, raw)
		return
	}

	c.JSON(http.StatusOK, res)
}

// requestOptions merges per-request column overrides and the auto-detect
// flag into the server's base options.
func (s *Server) requestOptions(c *gin.Context) pipeline.Options {
	opts := s.opts
	opts.AutoDetect = parseFlag(c.PostForm("auto_detect"), opts.AutoDetect)

	overrides := make(model.FieldMapping, len(opts.Overrides))
	for f, h := range opts.Overrides {
		overrides[f] = h
	}
	for f, param := range map[model.Field]string{
		model.FieldShiftDate:     "date_col",
		model.FieldDailyTipTotal: "tips_col",
		model.FieldHoursWorked:   "hours_col",
		model.FieldEmployeeName:  "name_col",
	} {
		if v := strings.TrimSpace(c.PostForm(param)); v != "" {
			overrides[f] = v
		}
	}
	opts.Overrides = overrides
	return opts
}

// parseFlag interprets checkbox-style form values; an absent value keeps
// the fallback.
func parseFlag(v string, fallback bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "":
		return fallback
	case "on", "true", "1", "yes":
		return true
	default:
		return false
	}
}

// Start runs the server. Blocks until the server is stopped.
func (s *Server) Start() error {
	return s.engine.Run(":" + s.port)
}

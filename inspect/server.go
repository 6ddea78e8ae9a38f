// Package inspect serves a small HTTP API to read and drive the pointer
// subsystem from outside the terminal
package inspect

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lixenwraith/folio/scroll"
)

// ErrUnavailable is returned by a Backend whose UI loop has stopped
var ErrUnavailable = errors.New("inspect: backend unavailable")

// CursorState is the cursor store view
type CursorState struct {
	Mode  string `json:"mode"`
	Label string `json:"label,omitempty"`
}

// PointerState is the smoothed tracker view
type PointerState struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	RawX     float64 `json:"raw_x"`
	RawY     float64 `json:"raw_y"`
	HasRaw   bool    `json:"has_raw"`
	Attached bool    `json:"attached"`
	Settled  bool    `json:"settled"`
}

// GateState is the capability gate view
type GateState struct {
	Active bool   `json:"active"`
	Policy string `json:"policy"`
	Error  string `json:"error,omitempty"`
}

// ScrollState is the scroll controller view
type ScrollState struct {
	Offset   float64 `json:"offset"`
	Target   float64 `json:"target"`
	Limit    float64 `json:"limit"`
	Progress float64 `json:"progress"`
	Phase    string  `json:"phase"`
}

// Snapshot is the full subsystem state served by GET /state
type Snapshot struct {
	Cursor  CursorState  `json:"cursor"`
	Pointer PointerState `json:"pointer"`
	Gate    GateState    `json:"gate"`
	Scroll  ScrollState  `json:"scroll"`
	Muted   bool         `json:"muted"`
	Frames  uint64       `json:"frames"`
}

// ScrollRequest is the POST /scroll body
// Anchor wins over Offset when both are set
type ScrollRequest struct {
	Anchor     string   `json:"anchor"`
	Offset     *float64 `json:"offset"`
	DurationMS int      `json:"duration_ms"`
	Immediate  bool     `json:"immediate"`
}

// Backend is the subsystem as seen by the HTTP handlers
// Implementations marshal calls onto the UI goroutine
type Backend interface {
	Snapshot() (Snapshot, error)
	SetCursor(mode, label string) (CursorState, error)
	ScrollTo(req ScrollRequest) error
}

// NewRouter builds the gin engine for b
// Request logs go to the standard logger, never the terminal
func NewRouter(b Backend) *gin.Engine {
	r := gin.New()
	r.Use(gin.LoggerWithWriter(log.Writer()), gin.Recovery())

	r.GET("/state", func(c *gin.Context) {
		snap, err := b.Snapshot()
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, snap)
	})

	r.PUT("/cursor", func(c *gin.Context) {
		var body CursorState
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		st, err := b.SetCursor(body.Mode, body.Label)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, st)
	})

	r.POST("/scroll", func(c *gin.Context) {
		var req ScrollRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if req.Anchor == "" && req.Offset == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "anchor or offset required"})
			return
		}
		if err := b.ScrollTo(req); err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusAccepted)
	})

	return r
}

func fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, scroll.ErrUnknownTarget):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, ErrUnavailable), errors.Is(err, scroll.ErrDetached):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

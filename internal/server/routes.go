package server

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/danmuck/tekctl/internal/config"
	"github.com/danmuck/tekctl/internal/observability"
	"github.com/danmuck/tekctl/internal/protocol"
	"github.com/danmuck/tekctl/internal/protocol/schema"
	"github.com/danmuck/tekctl/internal/uplink"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

const version = "0.1.0"

type ParameterInfo struct {
	Name    string `json:"name"`
	ID      string `json:"id"`
	Label   string `json:"label"`
	Unit    string `json:"unit"`
	Default int    `json:"default"`
	Min     int    `json:"min"`
	Max     int    `json:"max"`
}

type DownlinkResponse struct {
	Device     string   `json:"device,omitempty"`
	Hex        string   `json:"hex"`
	Bytes      int      `json:"bytes"`
	FPort      int      `json:"fport"`
	Empty      bool     `json:"empty"`
	Parameters []string `json:"parameters"`
}

type UplinkRequest struct {
	FPort int    `json:"fport"`
	Hex   string `json:"hex"`
}

func (s *Server) RegisterRoutes() {
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"uptime":  time.Since(s.Appeared).String(),
			"service": s.Name,
			"version": version,
		})
	})

	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := s.router.Group("/v1")
	if s.validator != nil {
		v1.Use(s.requireToken())
	}
	v1.GET("/parameters", s.handleParameters)
	v1.POST("/downlink", s.handleDownlink)
	v1.POST("/uplink", s.handleUplink)
}

func (s *Server) handleParameters(c *gin.Context) {
	specs := schema.All()
	out := make([]ParameterInfo, 0, len(specs))
	for _, spec := range specs {
		out = append(out, ParameterInfo{
			Name:    spec.Name,
			ID:      idHex(spec.ID),
			Label:   spec.Label,
			Unit:    string(spec.Unit),
			Default: spec.Default,
			Min:     spec.Min,
			Max:     spec.Max,
		})
	}
	c.JSON(http.StatusOK, gin.H{"parameters": out})
}

func (s *Server) handleDownlink(c *gin.Context) {
	req, err := config.DecodeRequestJSON(c.Request.Body)
	if err != nil {
		s.reject(c, err)
		return
	}
	sels, err := req.Selections()
	if err != nil {
		s.reject(c, err)
		return
	}
	payload, err := protocol.Assemble(sels)
	if err != nil {
		s.reject(c, err)
		return
	}

	names := includedNames(sels)
	result := observability.ResultOK
	if payload.Empty() {
		result = observability.ResultEmpty
	}
	observability.RecordDownlink(result, names)
	log.Debug().
		Str("device", req.Device).
		Str("hex", payload.Hex()).
		Strs("parameters", names).
		Msg("downlink assembled")

	c.JSON(http.StatusOK, DownlinkResponse{
		Device:     req.Device,
		Hex:        payload.Hex(),
		Bytes:      payload.Len(),
		FPort:      protocol.FPort,
		Empty:      payload.Empty(),
		Parameters: names,
	})
}

func (s *Server) handleUplink(c *gin.Context) {
	var req UplinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	raw, err := protocol.DecodeHex(req.Hex)
	if err != nil {
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	up, err := uplink.Decode(req.FPort, raw)
	if err != nil {
		observability.RecordUplink("unknown", false)
		c.Error(err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	observability.RecordUplink(string(up.Kind), true)
	c.JSON(http.StatusOK, up)
}

func (s *Server) reject(c *gin.Context, err error) {
	observability.RecordDownlink(observability.ResultRejected, nil)
	c.Error(err)
	c.JSON(http.StatusBadRequest, gin.H{
		"error":        err.Error(),
		"out_of_range": errors.Is(err, protocol.ErrOutOfRange),
	})
}

func includedNames(sels []protocol.Selection) []string {
	names := make([]string, 0, len(sels))
	for _, spec := range schema.All() {
		for _, sel := range sels {
			if sel.Name == spec.Name && !sel.Skipped() {
				names = append(names, spec.Name)
			}
		}
	}
	return names
}

func idHex(id uint16) string {
	return fmt.Sprintf("0x%04x", id)
}

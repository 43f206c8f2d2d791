// Package server exposes the converter as Model Context Protocol tools.
package server

import (
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/mj1618/owl-recorder/internal/config"
	"github.com/mj1618/owl-recorder/internal/transcode"
	"github.com/mj1618/owl-recorder/internal/version"
)

const (
	TransportStdio = "stdio"
	TransportHTTP  = "streamable-http"
)

// Server wraps the MCP server with the converter settings and result cache.
type Server struct {
	cfg    config.Config
	keys   transcode.Keymap
	cache  *ResultCache
	logger *zap.Logger
	mcp    *mcpserver.MCPServer
}

// NewServer creates and configures an MCP server with all converter tools.
func NewServer(cfg config.Config, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Server{
		cfg:    cfg,
		keys:   transcode.NewKeymap(cfg.Convert.Keys),
		cache:  NewResultCache(cfg.Server.CacheTTL),
		logger: logger.Named("mcp"),
	}

	s.mcp = mcpserver.NewMCPServer(
		"owl-recorder",
		version.Version,
		mcpserver.WithToolCapabilities(false),
	)
	s.registerTools()
	return s
}

// Serve starts the MCP server with the configured transport.
func (s *Server) Serve() error {
	switch s.cfg.Server.Transport {
	case TransportStdio, "":
		s.logger.Info("serving MCP over stdio")
		return mcpserver.ServeStdio(s.mcp)
	case TransportHTTP:
		addr := fmt.Sprintf(":%d", s.cfg.Server.Port)
		s.logger.Info("serving MCP over streamable HTTP", zap.String("addr", addr))
		return mcpserver.NewStreamableHTTPServer(s.mcp).Start(addr)
	default:
		return fmt.Errorf("unsupported transport: %s (use stdio or streamable-http)", s.cfg.Server.Transport)
	}
}

func (s *Server) registerTools() {
	s.mcp.AddTool(
		mcp.NewTool("convert_recording",
			mcp.WithDescription("Convert a Chrome DevTools Recorder user flow (JSON) into an Owloops action list. Returns the action list JSON and any conversion warnings."),
			mcp.WithString("recording", mcp.Description("The recorder JSON export, as text"), mcp.Required()),
			mcp.WithString("selector_attribute", mcp.Description("Preferred selector attribute, overriding the flow's own")),
		),
		s.handleConvertRecording,
	)

	s.mcp.AddTool(
		mcp.NewTool("convert_step",
			mcp.WithDescription("Translate a single recorder step and return the raw emitted Owloops text (before repair)."),
			mcp.WithString("step", mcp.Description("One recorder step as JSON text"), mcp.Required()),
		),
		s.handleConvertStep,
	)

	s.mcp.AddTool(
		mcp.NewTool("supported_keys",
			mcp.WithDescription("List the recorder key names that translate to Owloops key actions"),
		),
		s.handleSupportedKeys,
	)
}

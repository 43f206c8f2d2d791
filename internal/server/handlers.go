package server

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/mj1618/owl-recorder/internal/convert"
	"github.com/mj1618/owl-recorder/internal/observability"
	"github.com/mj1618/owl-recorder/internal/recording"
	"github.com/mj1618/owl-recorder/internal/transcode"
)

// rawArgument returns a JSON argument as bytes. Clients may send it either
// as a string or as an already-decoded object.
func rawArgument(params map[string]interface{}, key string) ([]byte, error) {
	v, ok := params[key]
	if !ok || v == nil {
		return nil, fmt.Errorf("%s is required", key)
	}
	if s, ok := v.(string); ok {
		return []byte(s), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", key, err)
	}
	return b, nil
}

func warningsToText(warnings []observability.Warning) string {
	b, err := yaml.Marshal(map[string]interface{}{"warnings": warnings})
	if err != nil {
		return fmt.Sprintf("warnings: %d", len(warnings))
	}
	return string(b)
}

func (s *Server) handleConvertRecording(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	params := request.GetArguments()
	content, err := rawArgument(params, "recording")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	attr := StringParam(params, "selector_attribute", s.cfg.Convert.SelectorAttribute)

	res, cached, err := s.cache.Convert(content, attr, func() (*convert.Result, error) {
		return convert.Convert(content, convert.Options{
			SelectorAttribute: attr,
			Keys:              s.keys,
			Logger:            s.logger,
		})
	})
	if err != nil {
		s.logger.Warn("convert_recording failed", zap.Error(err))
		return mcp.NewToolResultError(err.Error()), nil
	}
	s.logger.Debug("convert_recording",
		zap.Bool("cached", cached),
		zap.Int("steps", res.Steps),
		zap.Int("actions", res.Actions),
		zap.Int("cache_entries", s.cache.Len()),
	)

	if res.Empty {
		return mcp.NewToolResultText(convert.NoRecordingsMessage), nil
	}
	result := mcp.NewToolResultText(res.Output)
	if len(res.Warnings) > 0 {
		result.Content = append(result.Content, mcp.NewTextContent(warningsToText(res.Warnings)))
	}
	return result, nil
}

func (s *Server) handleConvertStep(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	content, err := rawArgument(request.GetArguments(), "step")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	step, err := recording.ParseStep(content)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	diag := observability.NewCollector(s.logger)
	raw, err := transcode.StringifyStep(step, transcode.NewOwloops(s.keys, diag))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	result := mcp.NewToolResultText(raw)
	if warnings := diag.Warnings(); len(warnings) > 0 {
		result.Content = append(result.Content, mcp.NewTextContent(warningsToText(warnings)))
	}
	return result, nil
}

type keyEntry struct {
	Key    string `yaml:"key"`
	Action string `yaml:"action"`
}

func (s *Server) handleSupportedKeys(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	entries := make([]keyEntry, 0, len(s.keys))
	for k, v := range s.keys {
		entries = append(entries, keyEntry{Key: k, Action: v})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	b, err := yaml.Marshal(entries)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ironsheep/aigis-cutter/internal/batch"
	"github.com/ironsheep/aigis-cutter/internal/cutter"
	"github.com/ironsheep/aigis-cutter/internal/imaging"
	"github.com/ironsheep/aigis-cutter/internal/luma"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_autocrop").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		s.logger.Warn("tool failed", zap.String("tool", params.Name), zap.Error(err))
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	case "image_autocrop":
		return s.handleImageAutocrop(args)
	case "image_autocrop_preview":
		return s.handleImageAutocropPreview(args)
	case "image_autocrop_batch":
		return s.handleImageAutocropBatch(args)
	case "image_zoom_presets":
		return cutter.ZoomPresets(), nil

	case "image_crop":
		return s.handleImageCrop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// On marshal failure it returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Auto-crop Handlers ===

// cropArgs holds the crop parameters common to the autocrop tools. Delta and
// HomebarHeight are pointers so an explicit 0 is kept.
type cropArgs struct {
	Mode          string  `json:"mode"`
	Width         int     `json:"width"`
	Height        int     `json:"height"`
	Zoom          float64 `json:"zoom"`
	Delta         *int    `json:"delta"`
	HomebarHeight *int    `json:"homebar_height"`
}

func (a cropArgs) request() (cutter.Request, error) {
	mode := cutter.ModePCCount
	if a.Mode != "" {
		m, err := cutter.ParseMode(a.Mode)
		if err != nil {
			return cutter.Request{}, err
		}
		mode = m
	}

	req := cutter.Request{
		Mode:          mode,
		Width:         a.Width,
		Height:        a.Height,
		Delta:         cutter.DefaultDelta,
		HomebarHeight: cutter.DefaultHomebarHeight,
	}
	if a.Delta != nil {
		req.Delta = *a.Delta
	}
	if a.HomebarHeight != nil {
		req.HomebarHeight = *a.HomebarHeight
	}
	return req.WithZoom(a.Zoom), nil
}

type imageAutocropArgs struct {
	cropArgs
	Path         string `json:"path"`
	IncludeImage bool   `json:"include_image"`
}

// AutocropResult is the answer of image_autocrop.
type AutocropResult struct {
	Mode         string      `json:"mode"`
	Rect         cutter.Rect `json:"rect"`
	SourceWidth  int         `json:"source_width"`
	SourceHeight int         `json:"source_height"`
	ImageBase64  string      `json:"image_base64,omitempty"`
	MimeType     string      `json:"mime_type,omitempty"`
}

func (s *Server) locate(path string, ca cropArgs) (cutter.Request, cutter.Rect, error) {
	req, err := ca.request()
	if err != nil {
		return req, cutter.Rect{}, err
	}
	img, err := s.cache.Load(path)
	if err != nil {
		return req, cutter.Rect{}, err
	}
	rect, err := batch.Locate(img, req, luma.DefaultWeights())
	return req, rect, err
}

func (s *Server) handleImageAutocrop(args json.RawMessage) (interface{}, error) {
	var a imageAutocropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	req, rect, err := s.locate(a.Path, a.cropArgs)
	if err != nil {
		return nil, err
	}

	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	result := &AutocropResult{
		Mode:         req.Mode.String(),
		Rect:         rect,
		SourceWidth:  img.Bounds().Dx(),
		SourceHeight: img.Bounds().Dy(),
	}
	if a.IncludeImage {
		crop, err := imaging.EncodeCrop(img, rect)
		if err != nil {
			return nil, err
		}
		result.ImageBase64 = crop.ImageBase64
		result.MimeType = crop.MimeType
	}
	return result, nil
}

type imageAutocropPreviewArgs struct {
	cropArgs
	Path         string `json:"path"`
	OutlineColor string `json:"outline_color"`
}

func (s *Server) handleImageAutocropPreview(args json.RawMessage) (interface{}, error) {
	var a imageAutocropPreviewArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	_, rect, err := s.locate(a.Path, a.cropArgs)
	if err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.Preview(img, rect, a.OutlineColor)
}

type imageAutocropBatchArgs struct {
	cropArgs
	Paths   []string `json:"paths"`
	Workers int      `json:"workers"`
}

type batchItem struct {
	Input  string      `json:"input"`
	Output string      `json:"output,omitempty"`
	Rect   cutter.Rect `json:"rect"`
	Error  string      `json:"error,omitempty"`
}

// BatchResult is the answer of image_autocrop_batch.
type BatchResult struct {
	OutputDir string      `json:"output_dir"`
	Processed int         `json:"processed"`
	Failed    int         `json:"failed"`
	ErrorLog  string      `json:"error_log,omitempty"`
	Results   []batchItem `json:"results"`
}

func (s *Server) handleImageAutocropBatch(args json.RawMessage) (interface{}, error) {
	var a imageAutocropBatchArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	req, err := a.request()
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	inputs, err := batch.CollectInputs(a.Paths)
	if err != nil {
		return nil, err
	}
	outDir, err := batch.PrepareOutputDir(inputs[0], time.Now())
	if err != nil {
		return nil, err
	}

	summary, err := batch.Run(context.Background(), inputs, outDir, batch.Options{
		Request: req,
		Workers: a.Workers,
		Logger:  s.logger,
	})
	if err != nil {
		return nil, err
	}

	result := &BatchResult{
		OutputDir: summary.OutputDir,
		Processed: summary.Processed,
		Failed:    summary.Failed,
		ErrorLog:  summary.ErrorLog,
	}
	for _, r := range summary.Results {
		item := batchItem{Input: r.Input, Output: r.Output, Rect: r.Rect}
		if r.Err != nil {
			item.Error = r.Err.Error()
		}
		result.Results = append(result.Results, item)
	}
	return result, nil
}

// === Region Operation Handlers ===

type imageCropArgs struct {
	Path   string `json:"path"`
	X      int    `json:"x"`
	Y      int    `json:"y"`
	Width  int    `json:"width"`
	Height int    `json:"height"`
}

func (s *Server) handleImageCrop(args json.RawMessage) (interface{}, error) {
	var a imageCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	img, err := s.cache.Load(a.Path)
	if err != nil {
		return nil, err
	}
	return imaging.EncodeCrop(img, cutter.Rect{X: a.X, Y: a.Y, Width: a.Width, Height: a.Height})
}

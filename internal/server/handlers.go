package server

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/ironsheep/sketchdraw/internal/history"
	"github.com/ironsheep/sketchdraw/internal/imaging"
	"github.com/ironsheep/sketchdraw/internal/studio"
)

// errInvalidArguments marks tool calls whose arguments could not be decoded.
var errInvalidArguments = errors.New("invalid arguments")

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "load_image", "auto_draw").
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
// Unknown tools and undecodable arguments return code -32602. Failures of
// the tool itself return code -32000 with a studio.Notice as data.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		if errors.Is(err, errInvalidArguments) {
			return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
		}
		s.logger.Warn("Tool failed", "tool", params.Name, "err", err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", studio.NoticeFor(err))
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

// executeTool dispatches tool execution to the matching studio command.
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	switch name {
	// Image
	case "load_image":
		return s.handleLoadImage(args)
	case "convert_to_sketch":
		return s.studio.ConvertToSketch()
	case "auto_draw":
		return s.studio.AutoDraw()

	// Canvas
	case "clear_canvas":
		s.studio.Clear()
		return s.studio.State(), nil
	case "canvas_state":
		return s.studio.State(), nil
	case "render_canvas":
		return s.handleRenderCanvas()
	case "save_drawing":
		return s.handleSaveDrawing(args)

	// Brush
	case "choose_color":
		return s.handleChooseColor(args)
	case "set_brush_size":
		return s.handleSetBrushSize(args)

	// Freehand
	case "pointer_down":
		return s.handlePointerDown(args)
	case "pointer_move":
		return s.handlePointerMove(args)
	case "pointer_up":
		s.studio.PointerUp()
		return s.studio.State(), nil

	// History
	case "history_list":
		return s.handleHistoryList(args)
	case "history_load":
		return s.handleHistoryLoad(args)
	case "history_delete":
		return s.handleHistoryDelete(args)

	default:
		return nil, fmt.Errorf("%w: unknown tool: %s", errInvalidArguments, name)
	}
}

// decodeArgs unmarshals tool arguments into v. Missing arguments leave v at
// its zero value.
func decodeArgs(args json.RawMessage, v interface{}) error {
	if len(bytes.TrimSpace(args)) == 0 || string(args) == "null" {
		return nil
	}
	if err := json.Unmarshal(args, v); err != nil {
		return fmt.Errorf("%w: %v", errInvalidArguments, err)
	}
	return nil
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message string, data interface{}) *MCPResponse {
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
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// === Image Handlers ===

type loadImageArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleLoadImage(args json.RawMessage) (interface{}, error) {
	var a loadImageArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	if a.Path == "" {
		return nil, fmt.Errorf("%w: path is required", errInvalidArguments)
	}
	return s.studio.LoadImage(a.Path)
}

// === Canvas Handlers ===

// RenderResult carries a rendered canvas.
type RenderResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	Primitives  int    `json:"primitives"`
	ImageBase64 string `json:"image_base64"`
}

func (s *Server) handleRenderCanvas() (interface{}, error) {
	img := s.studio.Render()

	var buf bytes.Buffer
	if err := imaging.EncodePNG(&buf, img); err != nil {
		return nil, fmt.Errorf("encode canvas: %w", err)
	}

	b := img.Bounds()
	return RenderResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		Primitives:  s.studio.Canvas().Len(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
	}, nil
}

type saveDrawingArgs struct {
	Title string `json:"title"`
}

func (s *Server) handleSaveDrawing(args json.RawMessage) (interface{}, error) {
	var a saveDrawingArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.studio.Save(a.Title)
}

// === Brush Handlers ===

type chooseColorArgs struct {
	Color string `json:"color"`
}

func (s *Server) handleChooseColor(args json.RawMessage) (interface{}, error) {
	var a chooseColorArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return s.studio.ChooseColor(a.Color)
}

type setBrushSizeArgs struct {
	Size int `json:"size"`
}

func (s *Server) handleSetBrushSize(args json.RawMessage) (interface{}, error) {
	var a setBrushSizeArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return map[string]int{"size": s.studio.SetBrushSize(a.Size)}, nil
}

// === Freehand Handlers ===

type pointArgs struct {
	X int `json:"x"`
	Y int `json:"y"`
}

func (s *Server) handlePointerDown(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	s.studio.PointerDown(a.X, a.Y)
	return s.studio.State(), nil
}

func (s *Server) handlePointerMove(args json.RawMessage) (interface{}, error) {
	var a pointArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	return map[string]bool{"drawn": s.studio.PointerMove(a.X, a.Y)}, nil
}

// === History Handlers ===

// HistoryList is the result of history_list.
type HistoryList struct {
	Entries []history.Record `json:"entries"`
	Total   int              `json:"total"`
}

type historyListArgs struct {
	Limit int `json:"limit"`
}

func (s *Server) handleHistoryList(args json.RawMessage) (interface{}, error) {
	var a historyListArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	entries := s.studio.History(a.Limit)
	if entries == nil {
		entries = []history.Record{}
	}
	return HistoryList{Entries: entries, Total: s.studio.Ledger().Len()}, nil
}

type historyIndexArgs struct {
	Index *int `json:"index"`
}

func (a historyIndexArgs) index() (int, error) {
	if a.Index == nil {
		return 0, fmt.Errorf("%w: index is required", errInvalidArguments)
	}
	return *a.Index, nil
}

func (s *Server) handleHistoryLoad(args json.RawMessage) (interface{}, error) {
	var a historyIndexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	i, err := a.index()
	if err != nil {
		return nil, err
	}
	return s.studio.LoadFromHistory(i)
}

func (s *Server) handleHistoryDelete(args json.RawMessage) (interface{}, error) {
	var a historyIndexArgs
	if err := decodeArgs(args, &a); err != nil {
		return nil, err
	}
	i, err := a.index()
	if err != nil {
		return nil, err
	}
	return s.studio.DeleteFromHistory(i)
}

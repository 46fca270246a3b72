package lsp

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"

	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"
	"src.sigma.sh/pkg/compile"
	"src.sigma.sh/pkg/diag"
	"src.sigma.sh/pkg/eval"
	"src.sigma.sh/pkg/mods"
	"src.sigma.sh/pkg/node"
	"src.sigma.sh/pkg/optable"
)

var (
	errMethodNotFound = &jsonrpc2.Error{
		Code: jsonrpc2.CodeMethodNotFound, Message: "method not found"}
	errInvalidParams = &jsonrpc2.Error{
		Code: jsonrpc2.CodeInvalidParams, Message: "invalid params"}
)

type server struct {
	// Only read after creation; provides the registered operations.
	evaler *eval.Evaler

	mu      sync.Mutex
	content map[lsp.DocumentURI]string
}

func newServer() *server {
	return &server{
		evaler:  eval.NewEvaler(mods.All...),
		content: make(map[lsp.DocumentURI]string)}
}

func handler(s *server) jsonrpc2.Handler {
	return routingHandler(map[string]method{
		"initialize":              s.initialize,
		"textDocument/didOpen":    s.didOpen,
		"textDocument/didChange":  s.didChange,
		"textDocument/didClose":   s.didClose,
		"textDocument/hover":      s.hover,
		"textDocument/completion": s.completion,

		// Required by the protocol.
		"initialized": noop,
		"shutdown":    noop,
		// Called by clients even when server doesn't advertise support:
		// https://microsoft.github.io/language-server-protocol/specification#workspace_didChangeWatchedFiles
		"workspace/didChangeWatchedFiles": noop,
	})
}

type method func(context.Context, jsonrpc2.JSONRPC2, json.RawMessage) (any, error)

func noop(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return nil, nil
}

func routingHandler(methods map[string]method) jsonrpc2.Handler {
	return jsonrpc2.HandlerWithError(func(ctx context.Context, conn *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
		fn, ok := methods[req.Method]
		if !ok {
			return nil, errMethodNotFound
		}
		var params json.RawMessage
		if req.Params != nil {
			params = *req.Params
		}
		return fn(ctx, conn, params)
	})
}

// Handler implementations. These are all called synchronously.

func (s *server) initialize(_ context.Context, _ jsonrpc2.JSONRPC2, _ json.RawMessage) (any, error) {
	return &lsp.InitializeResult{
		Capabilities: lsp.ServerCapabilities{
			TextDocumentSync: &lsp.TextDocumentSyncOptionsOrKind{
				Options: &lsp.TextDocumentSyncOptions{
					OpenClose: true,
					Change:    lsp.TDSKFull,
				},
			},
			HoverProvider:      true,
			CompletionProvider: &lsp.CompletionOptions{},
		},
	}, nil
}

func (s *server) didOpen(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidOpenTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	uri, content := params.TextDocument.URI, params.TextDocument.Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didChange(ctx context.Context, conn jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidChangeTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil || len(params.ContentChanges) == 0 {
		return nil, errInvalidParams
	}

	// ContentChanges includes full text since the server is only advertised to
	// support that; see the initialize method.
	uri, content := params.TextDocument.URI, params.ContentChanges[0].Text
	s.setContent(uri, content)
	go publishDiagnostics(ctx, conn, uri, content)
	return nil, nil
}

func (s *server) didClose(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.DidCloseTextDocumentParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.content, params.TextDocument.URI)
	return nil, nil
}

func (s *server) setContent(uri lsp.DocumentURI, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.content[uri] = content
}

func (s *server) getContent(uri lsp.DocumentURI) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.content[uri]
}

func (s *server) hover(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.TextDocumentPositionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}
	content := s.getContent(params.TextDocument.URI)
	from, to := wordAround(content, lspPositionToIdx(content, params.Position))
	ops := s.evaler.Scope.Registry().Lookup(content[from:to])
	if len(ops) == 0 {
		return lsp.Hover{}, nil
	}
	sigs := make([]string, len(ops))
	for i, op := range ops {
		sigs[i] = op.Signature()
	}
	rg := lspRangeFromRange(content, diag.Ranging{From: from, To: to})
	return lsp.Hover{
		Contents: []lsp.MarkedString{{Language: "sigma", Value: strings.Join(sigs, "\n")}},
		Range:    &rg,
	}, nil
}

func (s *server) completion(_ context.Context, _ jsonrpc2.JSONRPC2, rawParams json.RawMessage) (any, error) {
	var params lsp.CompletionParams
	if json.Unmarshal(rawParams, &params) != nil {
		return nil, errInvalidParams
	}

	content := s.getContent(params.TextDocument.URI)
	dot := lspPositionToIdx(content, params.Position)
	from, _ := wordAround(content, dot)
	prefix := content[from:dot]
	lspRange := lspRangeFromRange(content, diag.Ranging{From: from, To: dot})

	items := []lsp.CompletionItem{}
	add := func(name string, kind lsp.CompletionItemKind) {
		if strings.HasPrefix(name, prefix) {
			items = append(items, lsp.CompletionItem{
				Label:    name,
				Kind:     kind,
				TextEdit: &lsp.TextEdit{Range: lspRange, NewText: name},
			})
		}
	}
	for _, name := range s.evaler.Scope.Registry().Names() {
		add(name, lsp.CIKFunction)
	}
	for _, name := range definedNames(content) {
		add(name, lsp.CIKVariable)
	}
	return items, nil
}

func publishDiagnostics(ctx context.Context, conn jsonrpc2.JSONRPC2, uri lsp.DocumentURI, content string) {
	err := conn.Notify(ctx, "textDocument/publishDiagnostics",
		lsp.PublishDiagnosticsParams{URI: uri, Diagnostics: diagnostics(uri, content)})
	if err != nil {
		logger.Println("cannot publish diagnostics:", err)
	}
}

// Compiles a document with a fresh operator table, since operator
// definitions in the document change the table.
func compileDocument(uri lsp.DocumentURI, content string) (*compile.Program, error) {
	return compile.New(optable.Default()).Document(context.Background(), string(uri), content)
}

func diagnostics(uri lsp.DocumentURI, content string) []lsp.Diagnostic {
	_, err := compileDocument(uri, content)
	if err == nil {
		return []lsp.Diagnostic{}
	}

	entries := diag.UnpackErrors[compile.ErrorTag](err)
	diags := make([]lsp.Diagnostic, len(entries))
	for i, err := range entries {
		diags[i] = lsp.Diagnostic{
			Range:    lspRangeInStatement(err.Context),
			Severity: lsp.Error,
			Source:   "compile",
			Message:  err.Message,
		}
	}
	return diags
}

// Returns the names of the variables and functions a document defines at
// the top level.
func definedNames(content string) []string {
	p, err := compileDocument("", content)
	if err != nil {
		return nil
	}
	seen := make(map[string]bool)
	for _, stmt := range p.Statements {
		def, ok := stmt.Node.(*node.Call)
		if !ok || def.Name != "define" || len(def.Args) != 2 {
			continue
		}
		switch target := def.Args[0].(type) {
		case node.Variable:
			seen[target.Name] = true
		case *node.Call:
			if target.Name != optable.NameGet {
				seen[target.Name] = true
			}
		}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func isWordByte(b byte) bool {
	return b == '_' || 'a' <= b && b <= 'z' || 'A' <= b && b <= 'Z' || '0' <= b && b <= '9'
}

// Returns the byte range of the identifier around idx.
func wordAround(s string, idx int) (from, to int) {
	from, to = idx, idx
	for from > 0 && isWordByte(s[from-1]) {
		from--
	}
	for to < len(s) && isWordByte(s[to]) {
		to++
	}
	return from, to
}

// Converts the range of a statement-relative context to a document range.
func lspRangeInStatement(ctx diag.Context) lsp.Range {
	rg := lspRangeFromRange(ctx.Source, ctx.Ranging)
	rg.Start.Line += ctx.LineOffset
	rg.End.Line += ctx.LineOffset
	return rg
}

func lspRangeFromRange(s string, r diag.Ranger) lsp.Range {
	rg := r.Range()
	return lsp.Range{
		Start: lspPositionFromIdx(s, rg.From),
		End:   lspPositionFromIdx(s, rg.To),
	}
}

func lspPositionToIdx(s string, pos lsp.Position) int {
	var idx int
	walkString(s, func(i int, p lsp.Position) bool {
		idx = i
		return p.Line < pos.Line || (p.Line == pos.Line && p.Character < pos.Character)
	})
	return idx
}

func lspPositionFromIdx(s string, idx int) lsp.Position {
	var pos lsp.Position
	walkString(s, func(i int, p lsp.Position) bool {
		pos = p
		return i < idx
	})
	return pos
}

// Generates (index, lspPosition) pairs in s, stopping if f returns false.
func walkString(s string, f func(i int, p lsp.Position) bool) {
	var p lsp.Position
	lastCR := false

	for i, r := range s {
		if !f(i, p) {
			return
		}
		switch {
		case r == '\r':
			p.Line++
			p.Character = 0
		case r == '\n':
			if lastCR {
				// Ignore \n if it's part of a \r\n sequence
			} else {
				p.Line++
				p.Character = 0
			}
		case r <= 0xFFFF:
			// Encoded in UTF-16 with one unit
			p.Character++
		default:
			// Encoded in UTF-16 with two units
			p.Character += 2
		}
		lastCR = r == '\r'
	}
	f(len(s), p)
}

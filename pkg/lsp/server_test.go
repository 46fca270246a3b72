package lsp

import (
	"context"
	"encoding/json"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	lsp "github.com/sourcegraph/go-lsp"
	"github.com/sourcegraph/jsonrpc2"

	"src.sigma.sh/pkg/tt"
)

func TestDiagnostics(t *testing.T) {
	tt.Test(t, diagnostics,
		tt.Args(lsp.DocumentURI("file:///a.sig"), "x := 1\nx + 2\n").Rets([]lsp.Diagnostic{}),
		tt.Args(lsp.DocumentURI("file:///a.sig"), "f(").Rets([]lsp.Diagnostic{{
			Range: lsp.Range{
				Start: lsp.Position{Line: 0, Character: 2},
				End:   lsp.Position{Line: 0, Character: 2}},
			Severity: lsp.Error,
			Source:   "compile",
			Message:  "unclosed bracket at end of document",
		}}),
	)
}

func TestDiagnostics_LaterStatement(t *testing.T) {
	diags := diagnostics("file:///a.sig", "x := 1\n\ny := (2 +\n)\n")
	if len(diags) != 1 {
		t.Fatalf("got %d diagnostics, want 1", len(diags))
	}
	if line := diags[0].Range.Start.Line; line != 3 {
		t.Errorf("diagnostic starts on line %d, want 3", line)
	}
}

func TestDefinedNames(t *testing.T) {
	tt.Test(t, definedNames,
		tt.Args("x := 1\nf(a) := a\nl := {1}\nl[0] := 2\nx := 3").
			Rets([]string{"f", "l", "x"}),
		tt.Args("1 +").Rets([]string(nil)),
	)
}

func TestWordAround(t *testing.T) {
	tt.Test(t, wordAround,
		tt.Args("1 + deriv(x)", 6).Rets(4, 9),
		tt.Args("1 + deriv(x)", 9).Rets(4, 9),
		tt.Args("1 + deriv(x)", 2).Rets(2, 2),
		tt.Args("abc", 0).Rets(0, 3),
	)
}

func TestPositions(t *testing.T) {
	tt.Test(t, lspPositionFromIdx,
		tt.Args("a\nb", 2).Rets(lsp.Position{Line: 1, Character: 0}),
		tt.Args("a\r\nb", 3).Rets(lsp.Position{Line: 1, Character: 0}),
		tt.Args("😀x", 4).Rets(lsp.Position{Line: 0, Character: 2}),
	)
	tt.Test(t, lspPositionToIdx,
		tt.Args("a\nb", lsp.Position{Line: 1, Character: 0}).Rets(2),
		tt.Args("😀x", lsp.Position{Line: 0, Character: 2}).Rets(4),
	)
}

type client struct {
	conn  *jsonrpc2.Conn
	diags chan lsp.PublishDiagnosticsParams
}

func setupServer(t *testing.T) *client {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	serverSide, clientSide := net.Pipe()
	jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(serverSide, jsonrpc2.VSCodeObjectCodec{}),
		handler(newServer()))
	c := &client{diags: make(chan lsp.PublishDiagnosticsParams, 10)}
	c.conn = jsonrpc2.NewConn(ctx,
		jsonrpc2.NewBufferedStream(clientSide, jsonrpc2.VSCodeObjectCodec{}),
		jsonrpc2.HandlerWithError(func(_ context.Context, _ *jsonrpc2.Conn, req *jsonrpc2.Request) (any, error) {
			if req.Method == "textDocument/publishDiagnostics" && req.Params != nil {
				var params lsp.PublishDiagnosticsParams
				if err := json.Unmarshal(*req.Params, &params); err == nil {
					c.diags <- params
				}
			}
			return nil, nil
		}))
	t.Cleanup(func() { c.conn.Close() })
	return c
}

func (c *client) call(t *testing.T, method string, params, result any) {
	t.Helper()
	if err := c.conn.Call(context.Background(), method, params, result); err != nil {
		t.Fatalf("%s: %v", method, err)
	}
}

func (c *client) open(t *testing.T, uri lsp.DocumentURI, text string) lsp.PublishDiagnosticsParams {
	t.Helper()
	c.call(t, "textDocument/didOpen", lsp.DidOpenTextDocumentParams{
		TextDocument: lsp.TextDocumentItem{URI: uri, Text: text}}, nil)
	select {
	case params := <-c.diags:
		return params
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
	}
	panic("unreachable")
}

func TestServer_Initialize(t *testing.T) {
	c := setupServer(t)
	var result lsp.InitializeResult
	c.call(t, "initialize", lsp.InitializeParams{}, &result)
	if !result.Capabilities.HoverProvider || result.Capabilities.CompletionProvider == nil {
		t.Errorf("got capabilities %+v", result.Capabilities)
	}
}

func TestServer_UnknownMethod(t *testing.T) {
	c := setupServer(t)
	err := c.conn.Call(context.Background(), "textDocument/rename", struct{}{}, nil)
	var rpcErr *jsonrpc2.Error
	if e, ok := err.(*jsonrpc2.Error); ok {
		rpcErr = e
	}
	if rpcErr == nil || rpcErr.Code != jsonrpc2.CodeMethodNotFound {
		t.Errorf("got error %v, want method not found", err)
	}
}

func TestServer_PublishesDiagnostics(t *testing.T) {
	c := setupServer(t)
	params := c.open(t, "file:///a.sig", "1 +")
	if params.URI != "file:///a.sig" || len(params.Diagnostics) != 1 {
		t.Fatalf("got %+v", params)
	}
	if msg := params.Diagnostics[0].Message; msg != "should be an operand" {
		t.Errorf("got message %q", msg)
	}

	c.call(t, "textDocument/didChange", lsp.DidChangeTextDocumentParams{
		TextDocument: lsp.VersionedTextDocumentIdentifier{
			TextDocumentIdentifier: lsp.TextDocumentIdentifier{URI: "file:///a.sig"}},
		ContentChanges: []lsp.TextDocumentContentChangeEvent{{Text: "1 + 2"}},
	}, nil)
	select {
	case params := <-c.diags:
		if diff := cmp.Diff([]lsp.Diagnostic{}, params.Diagnostics); diff != "" {
			t.Errorf("diagnostics after fix (-want +got):\n%s", diff)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for diagnostics")
	}
}

func TestServer_Hover(t *testing.T) {
	c := setupServer(t)
	c.open(t, "file:///a.sig", "deriv(x^2, x)")
	var hover lsp.Hover
	c.call(t, "textDocument/hover", lsp.TextDocumentPositionParams{
		TextDocument: lsp.TextDocumentIdentifier{URI: "file:///a.sig"},
		Position:     lsp.Position{Line: 0, Character: 2}}, &hover)
	if len(hover.Contents) != 1 || !strings.Contains(hover.Contents[0].Value, "deriv(") {
		t.Errorf("got hover %+v", hover)
	}
	if hover.Range == nil || hover.Range.End.Character != 5 {
		t.Errorf("got hover range %+v", hover.Range)
	}
}

func TestServer_Completion(t *testing.T) {
	c := setupServer(t)
	c.open(t, "file:///a.sig", "derived := 1\n1 + der")
	var items []lsp.CompletionItem
	c.call(t, "textDocument/completion", lsp.CompletionParams{
		TextDocumentPositionParams: lsp.TextDocumentPositionParams{
			TextDocument: lsp.TextDocumentIdentifier{URI: "file:///a.sig"},
			Position:     lsp.Position{Line: 1, Character: 7}}}, &items)
	labels := make(map[string]lsp.CompletionItemKind)
	for _, item := range items {
		labels[item.Label] = item.Kind
	}
	if labels["deriv"] != lsp.CIKFunction {
		t.Errorf("deriv missing or not a function in %v", labels)
	}
	if labels["derived"] != lsp.CIKVariable {
		t.Errorf("derived missing or not a variable in %v", labels)
	}
	for _, item := range items {
		want := lsp.Range{
			Start: lsp.Position{Line: 1, Character: 4},
			End:   lsp.Position{Line: 1, Character: 7}}
		if item.TextEdit == nil || item.TextEdit.Range != want {
			t.Errorf("item %q has text edit %+v", item.Label, item.TextEdit)
		}
	}
}

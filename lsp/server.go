// Package lsp is a language server for CSS. It parses open documents on
// every change, publishes their diagnostics, and completes keyword values.
package lsp

import (
	"net/url"
	"path/filepath"
	"strings"
	"sync"

	"github.com/dhamidi/csskit/css/ast"
	"github.com/dhamidi/csskit/css/parser"

	"github.com/tliron/commonlog"
	"github.com/tliron/glsp"
	protocol "github.com/tliron/glsp/protocol_3_16"
	"github.com/tliron/glsp/server"

	_ "github.com/tliron/commonlog/simple"
)

const lsName = "csskit"

var log = commonlog.GetLogger("csskit.lsp")

type document struct {
	uri     protocol.DocumentUri
	version protocol.Integer
	text    *text
	result  *ast.Result[ast.StyleSheet]
}

type Server struct {
	handler protocol.Handler
	server  *server.Server
	version string

	mu        sync.Mutex
	documents map[protocol.DocumentUri]*document
}

func NewServer(version string) *Server {
	ls := &Server{
		version:   version,
		documents: make(map[protocol.DocumentUri]*document),
	}

	ls.handler = protocol.Handler{
		Initialize:             ls.initialize,
		Initialized:            ls.initialized,
		Shutdown:               ls.shutdown,
		SetTrace:               ls.setTrace,
		TextDocumentDidOpen:    ls.textDocumentDidOpen,
		TextDocumentDidChange:  ls.textDocumentDidChange,
		TextDocumentDidClose:   ls.textDocumentDidClose,
		TextDocumentCompletion: ls.textDocumentCompletion,
	}

	ls.server = server.NewServer(&ls.handler, lsName, false)

	return ls
}

func (ls *Server) RunStdio() error {
	return ls.server.RunStdio()
}

func (ls *Server) initialize(ctx *glsp.Context, params *protocol.InitializeParams) (any, error) {
	capabilities := ls.handler.CreateServerCapabilities()

	capabilities.TextDocumentSync = &protocol.TextDocumentSyncOptions{
		OpenClose: boolPtr(true),
		Change:    syncKindPtr(protocol.TextDocumentSyncKindIncremental),
	}
	capabilities.CompletionProvider = &protocol.CompletionOptions{
		TriggerCharacters: []string{":", " "},
	}

	return protocol.InitializeResult{
		Capabilities: capabilities,
		ServerInfo: &protocol.InitializeResultServerInfo{
			Name:    lsName,
			Version: &ls.version,
		},
	}, nil
}

func (ls *Server) initialized(ctx *glsp.Context, params *protocol.InitializedParams) error {
	log.Info("client initialized")
	return nil
}

func (ls *Server) shutdown(ctx *glsp.Context) error {
	protocol.SetTraceValue(protocol.TraceValueOff)
	return nil
}

func (ls *Server) setTrace(ctx *glsp.Context, params *protocol.SetTraceParams) error {
	protocol.SetTraceValue(params.Value)
	return nil
}

func (ls *Server) textDocumentDidOpen(ctx *glsp.Context, params *protocol.DidOpenTextDocumentParams) error {
	doc := ls.update(params.TextDocument.URI, params.TextDocument.Version, []byte(params.TextDocument.Text))
	log.Debugf("opened %s (%d diagnostics)", doc.uri, len(doc.result.Diagnostics))
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidChange(ctx *glsp.Context, params *protocol.DidChangeTextDocumentParams) error {
	ls.mu.Lock()
	var src []byte
	if doc, ok := ls.documents[params.TextDocument.URI]; ok {
		src = doc.text.src
	}
	ls.mu.Unlock()

	src = applyChanges(src, params.ContentChanges)
	doc := ls.update(params.TextDocument.URI, params.TextDocument.Version, src)
	log.Debugf("changed %s (%d diagnostics)", doc.uri, len(doc.result.Diagnostics))
	ls.publish(ctx, doc)
	return nil
}

func (ls *Server) textDocumentDidClose(ctx *glsp.Context, params *protocol.DidCloseTextDocumentParams) error {
	ls.mu.Lock()
	delete(ls.documents, params.TextDocument.URI)
	ls.mu.Unlock()

	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
	return nil
}

func (ls *Server) textDocumentCompletion(ctx *glsp.Context, params *protocol.CompletionParams) (any, error) {
	ls.mu.Lock()
	doc, ok := ls.documents[params.TextDocument.URI]
	ls.mu.Unlock()
	if !ok {
		return nil, nil
	}

	items := completions(doc.text, doc.text.offset(params.Position))
	if len(items) == 0 {
		return nil, nil
	}
	return items, nil
}

// update parses src and stores it as the current state of uri.
func (ls *Server) update(uri protocol.DocumentUri, version protocol.Integer, src []byte) *document {
	doc := &document{
		uri:     uri,
		version: version,
		text:    newText(src),
		result:  ast.ParseStyleSheet(src, parser.WithFile(uriToPath(uri))),
	}
	ls.mu.Lock()
	ls.documents[uri] = doc
	ls.mu.Unlock()
	return doc
}

func (ls *Server) publish(ctx *glsp.Context, doc *document) {
	version := protocol.UInteger(doc.version)
	ctx.Notify(protocol.ServerTextDocumentPublishDiagnostics, protocol.PublishDiagnosticsParams{
		URI:         doc.uri,
		Version:     &version,
		Diagnostics: diagnostics(doc.text, doc.result.Diagnostics),
	})
}

func diagnostics(t *text, diags []*parser.Diagnostic) []protocol.Diagnostic {
	source := lsName
	out := make([]protocol.Diagnostic, 0, len(diags))
	for _, d := range diags {
		severity := protocol.DiagnosticSeverityError
		if d.Kind == parser.DiagUnknownAtRule {
			severity = protocol.DiagnosticSeverityWarning
		}
		out = append(out, protocol.Diagnostic{
			Range:    t.rangeOf(d.Span),
			Severity: &severity,
			Code:     &protocol.IntegerOrString{Value: d.Kind.String()},
			Source:   &source,
			Message:  d.Message(),
		})
	}
	return out
}

// applyChanges applies content changes in order. A change without a range
// replaces the whole document.
func applyChanges(src []byte, changes []any) []byte {
	for _, change := range changes {
		switch c := change.(type) {
		case protocol.TextDocumentContentChangeEventWhole:
			src = []byte(c.Text)
		case protocol.TextDocumentContentChangeEvent:
			if c.Range == nil {
				src = []byte(c.Text)
				continue
			}
			t := newText(src)
			start, end := t.offset(c.Range.Start), t.offset(c.Range.End)
			if end < start {
				start, end = end, start
			}
			next := make([]byte, 0, len(src)-(end-start)+len(c.Text))
			next = append(next, src[:start]...)
			next = append(next, c.Text...)
			next = append(next, src[end:]...)
			src = next
		}
	}
	return src
}

func uriToPath(uri string) string {
	if strings.HasPrefix(uri, "file://") {
		parsed, err := url.Parse(uri)
		if err != nil {
			return uri
		}
		return filepath.Clean(parsed.Path)
	}
	return uri
}

func boolPtr(b bool) *bool {
	return &b
}

func syncKindPtr(k protocol.TextDocumentSyncKind) *protocol.TextDocumentSyncKind {
	return &k
}

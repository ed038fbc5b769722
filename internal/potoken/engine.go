// package potoken generates the visitor-data and proof-of-origin tokens a
// YouTube Music session needs, either through a local script engine or a
// remote token server.
package potoken

import (
	"context"
	_ "embed"
	"fmt"
	"os"

	"github.com/desertthunder/ytmproxy/internal/shared"
	"github.com/dop251/goja"
)

//go:embed challenge.js
var defaultScript []byte

// Engine produces session artifacts locally. Implementations may fail; the
// generator wraps every failure as shared.ErrGeneration.
type Engine interface {
	// VisitorData returns a visitor-data string, optionally bound to the
	// given raw cookie header.
	VisitorData(ctx context.Context, cookies string) (string, error)

	// ProofOfOriginToken returns an attestation token bound to visitorData.
	ProofOfOriginToken(ctx context.Context, visitorData, cookies string) (string, error)
}

// GojaEngine runs a challenge script inside a goja VM. The script must define
// two globals: `generateVisitorData(cookies)` and
// `generatePoToken(visitorData, cookies)`, each returning a string.
//
// The embedded default script derives best-effort artifacts; deployments that
// need real BotGuard attestation point script_path at a full challenge bundle
// or configure a remote token server instead.
type GojaEngine struct {
	scriptPath string
}

// NewGojaEngine creates an engine running the embedded default script.
func NewGojaEngine() *GojaEngine {
	return &GojaEngine{}
}

// NewGojaEngineWithScript creates an engine running the script at path.
func NewGojaEngineWithScript(path string) *GojaEngine {
	return &GojaEngine{scriptPath: path}
}

func (e *GojaEngine) VisitorData(ctx context.Context, cookies string) (string, error) {
	return e.call(ctx, "generateVisitorData", cookies)
}

func (e *GojaEngine) ProofOfOriginToken(ctx context.Context, visitorData, cookies string) (string, error) {
	return e.call(ctx, "generatePoToken", visitorData, cookies)
}

// call loads the script into a fresh VM and invokes the named global. A new
// VM per call keeps script state from leaking between generations; the
// scripts are small so the cost is negligible.
func (e *GojaEngine) call(ctx context.Context, fnName string, args ...string) (string, error) {
	script := defaultScript
	name := "challenge.js"
	if e.scriptPath != "" {
		data, err := os.ReadFile(e.scriptPath)
		if err != nil {
			return "", fmt.Errorf("%w: read script: %v", shared.ErrEngineNotReady, err)
		}
		script = data
		name = e.scriptPath
	}

	vm := goja.New()
	_ = vm.Set("console", map[string]any{
		"log": func(...any) {},
	})

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			vm.Interrupt(ctx.Err())
		case <-done:
		}
	}()

	if _, err := vm.RunScript(name, string(script)); err != nil {
		return "", fmt.Errorf("%w: run script: %v", shared.ErrEngineNotReady, err)
	}

	fn, ok := goja.AssertFunction(vm.Get(fnName))
	if !ok {
		return "", fmt.Errorf("%w: %s function not found in script", shared.ErrEngineNotReady, fnName)
	}

	values := make([]goja.Value, len(args))
	for i, a := range args {
		values[i] = vm.ToValue(a)
	}

	res, err := fn(goja.Undefined(), values...)
	if err != nil {
		return "", fmt.Errorf("%w: %s: %v", shared.ErrEngineNotReady, fnName, err)
	}
	if goja.IsUndefined(res) || goja.IsNull(res) {
		return "", fmt.Errorf("%w: %s returned no value", shared.ErrEngineNotReady, fnName)
	}

	token, ok := res.Export().(string)
	if !ok {
		return "", fmt.Errorf("%w: %s returned a non-string value", shared.ErrEngineNotReady, fnName)
	}
	return token, nil
}

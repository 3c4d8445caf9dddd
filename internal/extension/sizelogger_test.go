package extension

import (
	"strings"
	"testing"

	"weslbuild/internal/compiler"
	"weslbuild/internal/diag"
	"weslbuild/internal/modpath"
)

func TestSizeLogger(t *testing.T) {
	bag := diag.NewBag(8)
	reporter := diag.BagReporter{Bag: bag}
	logger := NewSizeLogger()
	bctx := &BuildContext{Diags: reporter}
	if err := logger.BeforeBuild(bctx); err != nil {
		t.Fatalf("BeforeBuild: %v", err)
	}

	compiled := &ModuleContext{
		Build:    bctx,
		Module:   modpath.New("fx", "bloom"),
		Artifact: &compiler.Artifact{Data: make([]byte, 128)},
		Diags:    reporter,
	}
	if err := logger.AfterModule(compiled); err != nil {
		t.Fatalf("AfterModule: %v", err)
	}
	failed := &ModuleContext{
		Build:  bctx,
		Module: modpath.New("broken"),
		Diags:  reporter,
	}
	if err := logger.AfterModule(failed); err != nil {
		t.Fatalf("AfterModule for failed module: %v", err)
	}
	if err := logger.AfterBuild(bctx); err != nil {
		t.Fatalf("AfterBuild: %v", err)
	}

	items := bag.Items()
	if len(items) != 2 {
		t.Fatalf("got %d diagnostics, want 2: %+v", len(items), items)
	}
	if !strings.Contains(items[0].Message, "128 bytes") {
		t.Fatalf("per-module message = %q", items[0].Message)
	}
	if !strings.Contains(items[1].Message, "1 shaders compiled, 128 bytes total") {
		t.Fatalf("summary message = %q", items[1].Message)
	}
}

package scheduler

import (
	"go/build"
	"path/filepath"
	"strings"
	"testing"
)

const modulePath = "github.com/matzehuels/photogrid"

// The browser bundle must not link the server's storage or image decoding
// stack. Walk the module-local import graph of cmd/photogrid-wasm as a
// js/wasm build sees it.
func TestWasmBundleImports(t *testing.T) {
	forbidden := []string{
		"database/sql",
		"github.com/redis/go-redis",
		"github.com/mattn/go-sqlite3",
		"go.mongodb.org/mongo-driver",
		"golang.org/x/image",
		modulePath + "/pkg/cache",
		modulePath + "/pkg/prefs",
		modulePath + "/pkg/metrics",
	}

	bctx := build.Default
	bctx.GOOS = "js"
	bctx.GOARCH = "wasm"
	root := filepath.Join("..", "..")

	seen := map[string]bool{}
	queue := []string{modulePath + "/cmd/photogrid-wasm"}
	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]
		if seen[path] {
			continue
		}
		seen[path] = true

		dir := filepath.Join(root, filepath.FromSlash(strings.TrimPrefix(path, modulePath)))
		pkg, err := bctx.ImportDir(dir, 0)
		if err != nil {
			t.Fatalf("import %s: %v", path, err)
		}
		for _, imp := range pkg.Imports {
			for _, bad := range forbidden {
				if imp == bad || strings.HasPrefix(imp, bad+"/") {
					t.Errorf("%s imports %s", path, imp)
				}
			}
			if strings.HasPrefix(imp, modulePath+"/") {
				queue = append(queue, imp)
			}
		}
	}
	if !seen[modulePath+"/pkg/themes"] || !seen[modulePath+"/pkg/measure"] {
		t.Errorf("walk missed expected packages: %v", seen)
	}
}

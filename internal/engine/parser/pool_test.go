package parser

import (
	"sync"
	"testing"

	sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
)

func rustLanguage() *sitter.Language {
	return sitter.NewLanguage(tree_sitter_rust.Language())
}

func TestParserPool_GetPut(t *testing.T) {
	pool := NewParserPool(rustLanguage())

	sp, err := pool.Get()
	if err != nil {
		t.Fatalf("get parser: %v", err)
	}
	if sp == nil {
		t.Fatal("expected non-nil parser from pool")
	}
	pool.Put(sp)

	// Put(nil) is a no-op.
	pool.Put(nil)
}

func TestParserPool_ParsesValidRust(t *testing.T) {
	pool := NewParserPool(rustLanguage())

	sp, err := pool.Get()
	if err != nil {
		t.Fatalf("get parser: %v", err)
	}
	defer pool.Put(sp)

	tree := sp.Parse([]byte("mod src { pub mod a; }\n"), nil)
	if tree == nil {
		t.Fatal("expected non-nil parse tree")
	}
	defer tree.Close()

	if root := tree.RootNode(); root.HasError() {
		t.Fatalf("unexpected syntax error in %s", root.ToSexp())
	}
}

func TestParserPool_ConcurrentAccess(t *testing.T) {
	pool := NewParserPool(rustLanguage())

	const goroutines = 8
	const iters = 25

	var wg sync.WaitGroup
	errs := make(chan error, goroutines)
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < iters; j++ {
				sp, err := pool.Get()
				if err != nil {
					errs <- err
					return
				}
				if tree := sp.Parse([]byte("fn main() {}\n"), nil); tree != nil {
					tree.Close()
				}
				pool.Put(sp)
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Fatalf("concurrent get: %v", err)
	}
}

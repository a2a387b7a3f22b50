// Package translator owns the process-wide shader translator instance.
package translator

import (
	"context"
	"sync"

	gst "github.com/richinsley/goshadertranslator"
)

var (
	once   sync.Once
	shared *gst.ShaderTranslator
	err    error
)

// Get returns the shared translator, creating it on first use. Creation is
// expensive (it boots the translator runtime), so the instance lives for
// the life of the process.
func Get() (*gst.ShaderTranslator, error) {
	once.Do(func() {
		shared, err = gst.NewShaderTranslator(context.Background())
	})
	return shared, err
}

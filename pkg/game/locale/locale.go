// Package locale holds the player-facing message catalogue
package locale

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/leonelquinteros/gotext"
)

//go:embed en.po
var english []byte

// Catalog translates message keys. Unknown keys come back unchanged.
type Catalog struct {
	po *gotext.Po
}

// English returns the built-in English catalogue
func English() *Catalog {
	return parse(english)
}

// Load reads a .po file from disk
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading catalogue: %w", err)
	}
	return parse(data), nil
}

func parse(data []byte) *Catalog {
	po := gotext.NewPo()
	po.Parse(data)
	return &Catalog{po: po}
}

// Get translates key, formatting vars into the translation
func (c *Catalog) Get(key string, vars ...interface{}) string {
	return c.po.Get(key, vars...)
}

// Has reports whether key has a translation different from itself
func (c *Catalog) Has(key string) bool {
	return c.po.Get(key) != key
}

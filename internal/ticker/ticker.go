// Package ticker maps Vietnamese stock symbols and sector names to the
// search aliases that actually appear in news headlines.
//
// VIC expands to Vingroup, tập đoàn Vin and friends; sector keywords like
// "banking" or "ngân hàng" expand to the NGANHANG theme terms. The table
// covers HSX (HOSE), HNX, and UPCOM listed companies and is embedded as
// YAML so it can be edited without touching code.
package ticker

import (
	_ "embed"
	"fmt"
	"sort"
	"strings"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed aliases.yaml
var aliasData []byte

type table struct {
	Tickers map[string][]string `yaml:"tickers"`
	Sectors map[string]string   `yaml:"sectors"`
}

var (
	loadOnce sync.Once
	loaded   table
	loadErr  error
)

func load() (table, error) {
	loadOnce.Do(func() {
		loadErr = yaml.Unmarshal(aliasData, &loaded)
		if loadErr != nil {
			loadErr = fmt.Errorf("parse alias table: %w", loadErr)
		}
	})
	return loaded, loadErr
}

// Aliases returns search aliases for a ticker or sector keyword.
//
// Exchange suffixes (.VN, .HNX, .UPCOM) are stripped before lookup. Sector
// names, English or Vietnamese, resolve through the sector map. Unknown
// symbols fall back to the symbol itself so searches still work.
func Aliases(symbol string) []string {
	t, err := load()
	if err != nil {
		return []string{strings.ToUpper(strings.SplitN(symbol, ".", 2)[0])}
	}

	clean := strings.ToUpper(strings.TrimSpace(strings.SplitN(symbol, ".", 2)[0]))

	if key, ok := t.Sectors[strings.ToLower(clean)]; ok {
		clean = key
	} else if key, ok := t.Sectors[strings.ToLower(strings.TrimSpace(symbol))]; ok {
		clean = key
	}

	if aliases, ok := t.Tickers[clean]; ok {
		return aliases
	}
	return []string{clean}
}

// FTSQuery builds an FTS5 MATCH expression from comma-separated symbols.
//
// Each alias is quoted as a phrase so multi-word terms match exactly, and
// everything is joined with OR:
//
//	"VIC" -> `"Vingroup" OR "VIC" OR "tập đoàn Vin" ...`
//
// Returns the empty string when no valid symbols are given.
func FTSQuery(symbols string) string {
	var parts []string
	for _, sym := range strings.Split(symbols, ",") {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		for _, alias := range Aliases(sym) {
			safe := strings.ReplaceAll(alias, `"`, `""`)
			parts = append(parts, `"`+safe+`"`)
		}
	}
	return strings.Join(parts, " OR ")
}

// LikePatterns returns the aliases for comma-separated symbols, for the
// LIKE-based search fallback.
func LikePatterns(symbols string) []string {
	var patterns []string
	for _, sym := range strings.Split(symbols, ",") {
		sym = strings.TrimSpace(sym)
		if sym == "" {
			continue
		}
		patterns = append(patterns, Aliases(sym)...)
	}
	return patterns
}

// Supported returns the sorted list of known ticker and sector symbols.
func Supported() []string {
	t, err := load()
	if err != nil {
		return nil
	}
	symbols := make([]string, 0, len(t.Tickers))
	for k := range t.Tickers {
		symbols = append(symbols, k)
	}
	sort.Strings(symbols)
	return symbols
}

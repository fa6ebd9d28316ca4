package syntax

import "github.com/davecgh/go-spew/spew"

// Dump renders n as a deeply-expanded debug string, for tooling that
// wants to show a user exactly how their lambda source parsed (e.g. a
// CLI's --dump-ast flag) without requiring every caller to depend on
// go-spew directly.
func Dump(n Node) string {
	return spew.Sdump(n)
}

package config

// -----------------------------------------------------------------------------
// Embedded board revisions
//
// Key: revision name (placed in ctx under CtxRevisionKey)
// Val: KEY=VALUE override text applied on top of the compiled table
// -----------------------------------------------------------------------------

// The first production board matches the compiled constants.
const revBase = `
# Power_Display_EA_SURE, as wired in board/board.go
`

var embeddedRevisions = map[string]string{
	"base": revBase,
}

// Package ui holds ANSI colour codes for the DEV route/log output.
package ui

const (
	ResetColor = "\033[0m"
	Gray       = "\033[90m"
	Red        = "\033[31m"
	Green      = "\033[32m"
	Yellow     = "\033[33m"
	Blue       = "\033[34m"
	Magenta    = "\033[35m"
	Cyan       = "\033[36m"
)

// MethodColors maps HTTP methods to display colours.
var MethodColors = map[string]string{
	"GET":    Green,
	"POST":   Blue,
	"PUT":    Yellow,
	"DELETE": Red,
	"PATCH":  Magenta,
}

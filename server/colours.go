package server

import "github.com/fatih/color"

var methodColours = map[string]*color.Color{
	"GET":    color.New(color.FgGreen),
	"POST":   color.New(color.FgBlue),
	"PUT":    color.New(color.FgCyan),
	"DELETE": color.New(color.FgYellow),
	"PATCH":  color.New(color.FgMagenta),
}

var (
	defaultColour = color.New(color.FgHiBlack)
	errorColour   = color.New(color.FgRed)
)

func methodColour(method string) *color.Color {
	if c, ok := methodColours[method]; ok {
		return c
	}
	return defaultColour
}

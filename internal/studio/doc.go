// Package studio is the command boundary of sketchdraw.
//
// A Studio receives the same commands a drawing window would send (load an
// image, convert it to a sketch, auto-draw, clear, save, pick a color, set
// the brush size, pointer events, history browsing) and runs each one to
// completion before returning. Front-ends such as the MCP server and the CLI
// only translate their input into these calls.
//
// Every failure is returned as an error. NoticeFor turns it into the short
// message a person at the drawing surface should see; no command panics or
// leaves the canvas half-updated.
package studio

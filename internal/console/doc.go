// Package console is the process's single line-input broker and output
// surface.
//
// A Console reads lines lazily: nothing touches stdin until the first
// ReadLine. Lines are handed over one at a time through an unbuffered
// channel, so a line read from the terminal is never dropped when a waiting
// caller gives up; it is handed to the next caller instead. On a TTY input is
// read with readline, otherwise with a plain scanner.
package console

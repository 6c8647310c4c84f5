// Package process terminates the headless browser's process tree.
package process

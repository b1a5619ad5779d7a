// Package logger records every command line the shell runs as newline
// delimited JSON and summarizes those logs.
package logger

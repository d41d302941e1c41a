// Package logger provides adapters for popular logger libraries to work with grovedb's Logger interface.
//
// The adapters allow you to use your existing logger with grovedb without writing boilerplate.
// Note that the standard library's slog.Logger already implements grovedb.Logger directly.
//
// Example with zap:
//
//	import (
//	    "grovedb"
//	    "logger"
//	    "go.uber.org/zap"
//	)
//
//	func main() {
//	    zapLogger, _ := zap.NewProduction()
//
//	    tree, err := grovedb.New("index", headerID, pool, grovedb.Int64Comparator,
//	        64, 64, grovedb.WithLogger(logger.NewZap(zapLogger)))
//	    if err != nil {
//	        panic(err)
//	    }
//	    _ = tree
//	}
package logger

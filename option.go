package grovedb

// treeOptions configures tree behavior beyond the required constructor
// arguments.
type treeOptions struct {
	logger Logger
}

func defaultTreeOptions() treeOptions {
	return treeOptions{
		logger: DiscardLogger{},
	}
}

// TreeOption configures optional tree behavior using the functional options
// pattern.
type TreeOption func(*treeOptions)

// WithLogger sets the logger used for warnings and debug output.
// The standard library's slog.Logger satisfies the interface directly.
//
//goland:noinspection GoUnusedExportedFunction
func WithLogger(l Logger) TreeOption {
	return func(opts *treeOptions) {
		opts.logger = l
	}
}

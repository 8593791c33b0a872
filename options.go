package cardex

// Option configures the Client.
type Option func(*clientConfig)

type clientConfig struct {
	path          string
	readWrite     bool
	busyTimeoutMS int
	maxOpenConns  int

	defaultPageSize int
	maxPageSize     int
	featuredLimit   int
	similarLimit    int
	compareLimit    int
	suggestLimit    int
	contextCards    int

	completer Completer
}

// WithDatabase sets the SQLite catalog file path. Required.
func WithDatabase(path string) Option {
	return func(c *clientConfig) {
		c.path = path
	}
}

// WithReadWrite opens the database writable, creating the file and schema
// when missing. The default is read-only, which requires an existing file.
func WithReadWrite() Option {
	return func(c *clientConfig) {
		c.readWrite = true
	}
}

// WithBusyTimeout sets the SQLite busy timeout in milliseconds.
// Default: 5000.
func WithBusyTimeout(ms int) Option {
	return func(c *clientConfig) {
		c.busyTimeoutMS = ms
	}
}

// WithMaxOpenConns caps the connection pool size.
func WithMaxOpenConns(n int) Option {
	return func(c *clientConfig) {
		c.maxOpenConns = n
	}
}

// WithPagination overrides the default and maximum listing page sizes.
// Defaults: 12 and 100.
func WithPagination(defaultSize, maxSize int) Option {
	return func(c *clientConfig) {
		c.defaultPageSize = defaultSize
		c.maxPageSize = maxSize
	}
}

// WithSelectionLimits overrides the featured, similar, and compare caps.
// Defaults: 8, 4, 4.
func WithSelectionLimits(featured, similar, compare int) Option {
	return func(c *clientConfig) {
		c.featuredLimit = featured
		c.similarLimit = similar
		c.compareLimit = compare
	}
}

// WithSuggestLimit overrides the type-ahead suggestion cap. Default: 8.
func WithSuggestLimit(n int) Option {
	return func(c *clientConfig) {
		c.suggestLimit = n
	}
}

// WithCompleter sets the chat completion provider for Chat. Without one,
// Chat returns ErrChatNotConfigured.
func WithCompleter(c Completer) Option {
	return func(cfg *clientConfig) {
		cfg.completer = c
	}
}

// WithContextCards overrides how many retrieved cards ground a chat
// completion. Default: 5.
func WithContextCards(n int) Option {
	return func(c *clientConfig) {
		c.contextCards = n
	}
}

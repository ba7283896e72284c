package logcolors

// ANSI color codes for log prefixes
const (
	Reset  = "\033[0m"
	Green  = "\033[32m"
	Blue   = "\033[34m"
	Purple = "\033[35m"
	Cyan   = "\033[36m"

	// Bright variants for more color variety
	BrightGreen   = "\033[92m"
	BrightBlue    = "\033[94m"
	BrightMagenta = "\033[95m"
	BrightCyan    = "\033[96m"

	Red       = "\033[31m"
	BrightRed = "\033[91m"
)

// Cache-related log prefixes
const (
	LogCacheInit      = Blue + "[Cache:Init]" + Reset
	LogCache          = Blue + "[Cache]" + Reset
	LogCacheBackup    = Blue + "[Cache:Backup]" + Reset
	LogCacheClear     = Blue + "[Cache:Clear]" + Reset
	LogCacheBackups   = Blue + "[Cache:Backups]" + Reset
	LogCacheRestore   = Blue + "[Cache:Restore]" + Reset
	LogCacheDocuments = Green + "[Cache:Documents]" + Reset
	LogRedis          = BrightBlue + "[Redis]" + Reset
)

// Rate limiting log prefixes
const (
	LogRateLimit = Purple + "[RateLimit]" + Reset
	LogAPIKey    = Purple + "[APIKey]" + Reset
)

// CircuitBreakerPrefix returns a colored circuit breaker prefix with the given name
func CircuitBreakerPrefix(name string) string {
	return Purple + "[CircuitBreaker:" + name + "]" + Reset
}

// sessionColors are rotated across session IDs so concurrent sessions are
// easy to tell apart in interleaved logs
var sessionColors = []string{
	Green, Blue, Purple, Cyan, Red,
	BrightGreen, BrightBlue, BrightMagenta, BrightCyan, BrightRed,
}

// Session returns a colored session ID for log messages.
// Same ID always gets the same color.
func Session(id string) string {
	hash := 0
	for _, c := range id {
		hash += int(c)
	}
	color := sessionColors[hash%len(sessionColors)]
	return color + id + Reset
}

// Server/Init log prefixes
const (
	LogServer  = Green + "[Server]" + Reset
	LogConfig  = Cyan + "[Config]" + Reset
	LogStats   = Blue + "[Stats]" + Reset
	LogPreview = BrightCyan + "[Preview]" + Reset
)

// Library log prefixes
const (
	LogParser     = Blue + "[Parser]" + Reset
	LogTTMLParser = Cyan + "[TTML Parser]" + Reset
	LogLRCParser  = Cyan + "[LRC Parser]" + Reset
	LogEngine     = Green + "[Engine]" + Reset
	LogStyle      = BrightMagenta + "[Style]" + Reset
	LogSession    = Purple + "[Session]" + Reset
	LogStream     = BrightGreen + "[Stream]" + Reset
	LogRequest    = Purple + "[Request]" + Reset
	LogWarning    = Red + "[Warning]" + Reset
)

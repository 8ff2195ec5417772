package storage

// Config holds storage configuration
type Config struct {
	Type         string   // "local"
	Dir          string   // Directory holding pass images
	PublicPrefix string   // URL prefix images are served under, e.g. "/passes"
	MaxFileSize  int64    // Bytes; 0 disables the check
	AllowedTypes []string // File extensions without the dot
}

package extverify

const (
	// Version is the ext-verify version
	Version = "0.1.0"
)

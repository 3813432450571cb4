package version

// Version is the gateway release version.
const Version = "0.1.0"

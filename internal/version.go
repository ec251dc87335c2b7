package internal

// Version is the current wortkarten release version.
const Version = "0.3.0"

package arbor

// Version is the arbor release, reported by `arbor version`.
var Version = "0.3.0"

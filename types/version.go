package types

// Version is the SDK version. It is reported in the User-Agent header and
// by `pesto version`.
const Version = "1.2.0"

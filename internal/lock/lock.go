package lock

// FileName is the name of the advisory lock file LockDirectory places in a
// store root. It is a sentinel, not a store: callers scanning a root
// directory for store files must skip it.
const FileName = "LOCK"

package store

// keydir is the in-memory index mapping a key to the byte offset of its
// most recent record within the store file (the offset of the record's
// key_length field). It is rebuilt in full on every open by scanning the
// file from byte codec.HeaderSize.
type keydir map[string]int64

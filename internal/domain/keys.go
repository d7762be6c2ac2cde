package domain

// KeyPrefix namespaces every key reelfind writes to the cache store.
const KeyPrefix = "reelfind:"

// Package lists implements to-do lists: creating a list from its first
// item, adding items, sharing a list with other users and listing a
// user's own and shared lists.
//
// Item text is trimmed and NFC-normalized before it is stored. A list never
// holds the same text twice; the service pre-checks and the storage
// enforces it, so concurrent duplicates surface as ErrDuplicateItem.
package lists

package lists

import "context"

type Storage interface {
	// CreateList stores a list and its first item atomically. A non-empty
	// owner is registered as a user.
	CreateList(ctx context.Context, owner, firstItem string) (List, error)
	// GetList returns ErrListNotFound for unknown ids.
	GetList(ctx context.Context, id int64) (List, error)
	HasItem(ctx context.Context, listID int64, text string) (bool, error)
	// AddItem returns ErrDuplicateItem when the text is already present and
	// ErrListNotFound when the list does not exist.
	AddItem(ctx context.Context, listID int64, text string) (Item, error)
	Items(ctx context.Context, listID int64) ([]Item, error)
	// ShareList registers the sharee as a user and records the share. Sharing
	// twice is a no-op.
	ShareList(ctx context.Context, listID int64, email string) error
	ListsOwnedBy(ctx context.Context, email string) ([]List, error)
	ListsSharedWith(ctx context.Context, email string) ([]List, error)
}

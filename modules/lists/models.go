package lists

import (
	"strconv"
	"time"
)

type List struct {
	ID         int64
	OwnerEmail string // empty for anonymous lists
	CreatedAt  time.Time
	Items      []Item   // by ID ascending
	SharedWith []string // sorted
}

// Name is the text of the first item ever added.
func (l List) Name() string {
	if len(l.Items) == 0 {
		return ""
	}
	return l.Items[0].Text
}

func (l List) URL() string {
	return ListURL(l.ID)
}

func (l List) HasOwner() bool { return l.OwnerEmail != "" }

func ListURL(id int64) string {
	return "/lists/" + strconv.FormatInt(id, 10) + "/"
}

type Item struct {
	ID        int64
	ListID    int64
	Text      string
	CreatedAt time.Time
}

package accounts

import "time"

// Token is a login token. Its UID is what the e-mailed link carries.
type Token struct {
	UID       string
	Email     string
	CreatedAt time.Time
}

type User struct {
	Email     string
	CreatedAt time.Time
}

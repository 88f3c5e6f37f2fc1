package lists

import (
	"github.com/a-h/templ"

	"github.com/dmitrymomot/superlists/pkg/flash"
)

// Element ids targeted by DataStar patches.
const (
	ItemFormID  = "item-form"
	ShareFormID = "share-form"
)

// Page is the layout data every page shares.
type Page struct {
	Identity string
	Flashes  []flash.Message
}

type ItemFormParams struct {
	Action string
	Text   string
	Error  string
}

type ShareFormParams struct {
	Action string
	Sharee string
	Error  string
}

type HomePageParams struct {
	Page
	Form ItemFormParams
}

type ListPageParams struct {
	Page
	List  List
	Form  ItemFormParams
	Share ShareFormParams
}

type MyListsPageParams struct {
	Page
	Email  string
	Owned  []List
	Shared []List
}

// Views renders the module's pages. Forms are rendered separately so they
// can be patched in on validation errors.
type Views struct {
	HomePage    func(HomePageParams) templ.Component
	ListPage    func(ListPageParams) templ.Component
	MyListsPage func(MyListsPageParams) templ.Component
	ItemForm    func(ItemFormParams) templ.Component
	ShareForm   func(ShareFormParams) templ.Component
}

// Package view renders the HTML pages. Pages are html/template files
// embedded in the binary and exposed as templ components.
package view

import (
	"embed"
	"fmt"
	"html/template"
	"net/url"
	"time"

	"github.com/a-h/templ"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/msomdec/auction-house/internal/domain"
	"github.com/msomdec/auction-house/internal/service"
)

//go:embed templates/*.html
var templateFS embed.FS

var printer = message.NewPrinter(language.English)

var funcs = template.FuncMap{
	"money":      Money,
	"date":       func(t time.Time) string { return t.Local().Format("Jan 2, 2006, 3:04 PM") },
	"pathEscape": url.PathEscape,
}

// Money formats an amount for display, e.g. "$1,234.50".
func Money(m domain.Money) string {
	return fmt.Sprintf("$%s.%02d", printer.Sprintf("%d", m.Whole()), m.Cents())
}

var (
	layout = template.Must(template.New("layout").Funcs(funcs).ParseFS(templateFS,
		"templates/base.html", "templates/partials.html"))
	pages = map[string]*template.Template{}
)

func init() {
	for _, name := range []string{"listings", "categories", "listing", "create", "login", "register", "error"} {
		t := template.Must(layout.Clone())
		pages[name] = template.Must(t.ParseFS(templateFS, "templates/"+name+".html"))
	}
}

func page(name string, data any) templ.Component {
	return templ.FromGoHTML(pages[name].Lookup("base"), data)
}

// Flash is a one-shot message shown at the top of the next page.
type Flash struct {
	Kind    string // bootstrap alert kind: success, warning, info
	Message string
}

// Layout carries what every page needs.
type Layout struct {
	Title string
	User  *domain.User
	Flash *Flash
}

// ListingsData backs every paginated listing grid.
type ListingsData struct {
	Layout
	Heading string
	Page    domain.Page[domain.Listing]
	Empty   string
}

// ListingsPage renders a heading over a page of listing cards.
func ListingsPage(d ListingsData) templ.Component { return page("listings", d) }

// CategoriesData backs the category index.
type CategoriesData struct {
	Layout
	Categories []domain.Category
}

// CategoriesPage renders links to every category.
func CategoriesPage(d CategoriesData) templ.Component { return page("categories", d) }

// WatchState is the state shown by the watch toggle.
type WatchState struct {
	ListingID int64
	Watching  bool
}

// ListingData backs the listing detail page.
type ListingData struct {
	Layout
	Detail         *service.ListingDetail
	Watch          WatchState
	IsAuthor       bool
	ViewerWon      bool
	BidPrice       string
	BidErrors      map[string]string
	CommentContent string
	CommentErrors  map[string]string
}

// ListingPage renders one listing with its bid and comment forms.
func ListingPage(d ListingData) templ.Component { return page("listing", d) }

// CreateData backs the create-listing form.
type CreateData struct {
	Layout
	Categories []domain.Category
	Input      service.ListingInput
	Errors     map[string]string
}

// CreatePage renders the create-listing form.
func CreatePage(d CreateData) templ.Component { return page("create", d) }

// LoginData backs the login form.
type LoginData struct {
	Layout
	Username string
	Next     string
	Message  string
}

// LoginPage renders the login form.
func LoginPage(d LoginData) templ.Component { return page("login", d) }

// RegisterData backs the registration form.
type RegisterData struct {
	Layout
	Input   service.RegisterInput
	Message string
	Errors  map[string]string
}

// RegisterPage renders the registration form.
func RegisterPage(d RegisterData) templ.Component { return page("register", d) }

// ErrorData backs error pages.
type ErrorData struct {
	Layout
	Status  int
	Message string
}

// ErrorPage renders a status page.
func ErrorPage(d ErrorData) templ.Component { return page("error", d) }

// WatchButton renders the watch toggle on its own, for partial updates.
func WatchButton(s WatchState) templ.Component {
	return templ.FromGoHTML(layout.Lookup("watch_button"), s)
}

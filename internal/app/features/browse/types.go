package browse

import "github.com/dalemusser/ecomap/internal/app/system/mapsync"

type option struct {
	Value    string
	Label    string
	Selected bool
}

// cardView is one entry in the list presentation.
type cardView struct {
	ID          string
	Name        string
	Category    string
	Type        string
	Location    string
	Scope       string
	Description string
	DetailURL   string
	Selected    bool
}

type detailView struct {
	ID              string
	Name            string
	Category        string
	Type            string
	Location        string
	Scope           string
	Description     string
	Services        string
	Contact         string
	Website         string
	WebsiteURL      string
	Founded         string
	Tier            string
	ConfidenceLevel string
	HasCoordinates  bool
	Lat, Lng        float64
	CloseURL        string
}

type listView struct {
	Cards  []cardView
	Empty  bool
	Detail *detailView
}

type mapView struct {
	Container string
	LayerURL  string
	Layer     mapsync.Layer
}

// pageData is the view model for the directory page and its partial.
type pageData struct {
	Title string

	Query      string
	Categories []option
	Scopes     []option

	Mode       string
	ListURL    string
	MapURL     string
	ResultsURL string

	Loading  bool
	Degraded bool
	Total    int
	Shown    int

	List *listView
	Map  *mapView

	CurrentPath string
}

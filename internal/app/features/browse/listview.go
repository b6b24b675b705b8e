// internal/app/features/browse/listview.go
package browse

import (
	"net/url"

	"github.com/dalemusser/ecomap/internal/app/directory"
	"github.com/dalemusser/ecomap/internal/app/system/htmlsanitize"
	"github.com/dalemusser/ecomap/internal/domain/models"
)

// cardDescriptionLimit is how much of a description a list card shows.
const cardDescriptionLimit = 160

// pageURL returns "/" carrying criteria and view, plus extra params.
func pageURL(c directory.Criteria, view string, extra url.Values) string {
	v := c.Values()
	if view != "" {
		v.Set("view", view)
	}
	for k, vals := range extra {
		for _, x := range vals {
			v.Add(k, x)
		}
	}
	if len(v) == 0 {
		return "/"
	}
	return "/?" + v.Encode()
}

// resultsURL is the partial endpoint for the same criteria, view and
// selection, so a deferred reload renders what the form shows.
func resultsURL(c directory.Criteria, view, selected string) string {
	v := c.Values()
	v.Set("view", view)
	if selected != "" {
		v.Set("selected", selected)
	}
	return "/directory/results?" + v.Encode()
}

func buildCards(orgs []models.Organization, c directory.Criteria, selected string) []cardView {
	cards := make([]cardView, 0, len(orgs))
	for _, o := range orgs {
		cards = append(cards, cardView{
			ID:          o.ID,
			Name:        o.Organization,
			Category:    o.Category,
			Type:        o.Type,
			Location:    o.Location,
			Scope:       string(o.Scope),
			Description: htmlsanitize.Truncate(o.Description, cardDescriptionLimit),
			DetailURL:   pageURL(c, "list", url.Values{"selected": {o.ID}}),
			Selected:    o.ID == selected,
		})
	}
	return cards
}

func buildDetail(o models.Organization, c directory.Criteria) *detailView {
	d := &detailView{
		ID:              o.ID,
		Name:            o.Organization,
		Category:        o.Category,
		Type:            o.Type,
		Location:        o.Location,
		Scope:           string(o.Scope),
		Description:     o.Description,
		Services:        o.Services,
		Contact:         o.Contact,
		Website:         o.Website,
		WebsiteURL:      o.WebsiteURL(),
		Founded:         o.Founded,
		Tier:            o.Tier,
		ConfidenceLevel: o.ConfidenceLevel,
		HasCoordinates:  o.HasCoordinates(),
		CloseURL:        pageURL(c, "list", nil),
	}
	if d.HasCoordinates {
		p := o.Position()
		d.Lat, d.Lng = p.Lat, p.Lng
	}
	return d
}

// buildList is the list presentation of orgs. The detail panel is shown
// only when selected names a record that is still in the filtered set.
func buildList(orgs []models.Organization, c directory.Criteria, selected string) *listView {
	lv := &listView{
		Cards: buildCards(orgs, c, selected),
		Empty: len(orgs) == 0,
	}
	if selected == "" {
		return lv
	}
	for _, o := range orgs {
		if o.ID == selected {
			lv.Detail = buildDetail(o, c)
			break
		}
	}
	return lv
}

func categoryOptions(all []string, c directory.Criteria) []option {
	opts := make([]option, 0, len(all)+1)
	opts = append(opts, option{Value: directory.AllSentinel, Label: "All categories", Selected: len(c.Categories) == 0})
	for _, cat := range all {
		opts = append(opts, option{Value: cat, Label: cat, Selected: c.HasCategory(cat)})
	}
	return opts
}

func scopeOptions(c directory.Criteria) []option {
	opts := make([]option, 0, len(models.SelectableScopes)+1)
	opts = append(opts, option{Value: directory.AllSentinel, Label: "All scopes", Selected: len(c.Scopes) == 0})
	for _, sc := range models.SelectableScopes {
		opts = append(opts, option{Value: string(sc), Label: string(sc), Selected: c.HasScope(sc)})
	}
	return opts
}

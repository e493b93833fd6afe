package table

import (
	"github.com/HerbHall/roster/internal/query"
	"github.com/HerbHall/roster/pkg/models"
)

// View is the result of running the pipeline for one State.
type View struct {
	Page
	// State is the input state with its page clamped to the result.
	State query.State `json:"state"`
}

// Run filters records by the state's search criteria, orders them by its
// sort column and returns the requested page.
func Run(records []models.Character, s query.State) View {
	filtered := Filter(records, s.Field, s.Operator, s.Text)
	sorted := Sort(filtered, s.SortColumn, s.SortOrder)
	page := Paginate(sorted, s.Page, s.PageSize)
	s.Page = page.Page
	return View{Page: page, State: s}
}

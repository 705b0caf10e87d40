package nodes

import "github.com/goliatone/go-profiles/internal/ordering"

// rowItem adapts a raw entity row to the collation interface. Position writes
// mutate the row map so the corrected ordering is what callers see.
type rowItem struct {
	row map[string]any
}

func (r *rowItem) OrderingID() int64 { return asInt64(r.row["id"]) }
func (r *rowItem) Position() int     { return int(asInt64(r.row["ordering"])) }
func (r *rowItem) SetPosition(p int) { r.row["ordering"] = p }

// selectorItem carries a selector entity whose ordering lives on its
// section_selector join row. The shadowed position is what gets collated;
// repairs target the join row id.
type selectorItem struct {
	selector  map[string]any
	bindingID int64
	position  int
}

func (r *selectorItem) OrderingID() int64 { return asInt64(r.selector["id"]) }
func (r *selectorItem) Position() int     { return r.position }
func (r *selectorItem) SetPosition(p int) { r.position = p }
func (r *selectorItem) JoinID() int64     { return r.bindingID }

func collateRows(rows []map[string]any) ([]map[string]any, []ordering.Repair) {
	items := make([]*rowItem, len(rows))
	for i, row := range rows {
		items[i] = &rowItem{row: row}
	}
	sorted, repairs := ordering.Collate(items)

	out := make([]map[string]any, len(sorted))
	for i, item := range sorted {
		out[i] = item.row
	}
	return out, repairs
}

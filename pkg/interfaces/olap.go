package interfaces

import "context"

// Cube describes an OLAP cube with the dimension metadata the indexer needs.
type Cube struct {
	Name       string
	Dimensions []CubeDimension
}

// CubeDimension is a named dimension with its hierarchies.
type CubeDimension struct {
	Name        string
	Hierarchies []CubeHierarchy
}

// CubeHierarchy groups the drilldown levels of a dimension.
type CubeHierarchy struct {
	Name   string
	Levels []CubeLevel
}

// CubeLevel identifies one drilldown level inside a hierarchy.
type CubeLevel struct {
	Name      string
	Hierarchy string
	Dimension string
	Cube      string
}

// Member is one resolvable member of a cube level.
type Member struct {
	// Key is the stable member identifier as reported by the data source.
	Key     string
	Name    string
	Caption string
}

// MemberQuery scopes a member listing request.
type MemberQuery struct {
	Locale string
}

// AggregateQuery requests one measure drilled down by one level.
type AggregateQuery struct {
	Cube    string
	Level   CubeLevel
	Measure string
	Locale  string
}

// OLAPClient is the external analytics capability consumed by the search
// indexer. Implementations resolve cubes, list level members, and execute
// single-drilldown aggregations.
type OLAPClient interface {
	GetCube(ctx context.Context, name string) (*Cube, error)
	GetMembers(ctx context.Context, level CubeLevel, q MemberQuery) ([]Member, error)
	ExecQuery(ctx context.Context, q AggregateQuery) ([]map[string]any, error)
}

// Dimension returns the named dimension of the cube, or nil when absent.
func (c *Cube) Dimension(name string) *CubeDimension {
	if c == nil {
		return nil
	}
	for i := range c.Dimensions {
		if c.Dimensions[i].Name == name {
			return &c.Dimensions[i]
		}
	}
	return nil
}

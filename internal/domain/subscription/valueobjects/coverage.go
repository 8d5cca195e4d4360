package valueobjects

// CoverageScope names the plan rule that matched a path.
type CoverageScope string

const (
	ScopeGlobal   CoverageScope = "global"
	ScopeCategory CoverageScope = "category"
	ScopePath     CoverageScope = "path"
	ScopePathList CoverageScope = "path_list"
)

func (c CoverageScope) String() string {
	return string(c)
}

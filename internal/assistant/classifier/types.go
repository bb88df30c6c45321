package classifier

// Intent is the classified purpose of a user message. The set is
// closed: routing switches over it exhaustively.
type Intent string

const (
	IntentQueryData     Intent = "query_data"
	IntentListProjects  Intent = "list_projects"
	IntentSelectProject Intent = "select_project"
	IntentGeneral       Intent = "general"
)

// Valid reports whether i is one of the known intents.
func (i Intent) Valid() bool {
	switch i {
	case IntentQueryData, IntentListProjects, IntentSelectProject, IntentGeneral:
		return true
	}
	return false
}

// Output is the structured classification result.
type Output struct {
	Intent       Intent `json:"intent"`
	NeedsProject bool   `json:"needs_project"`
	ProjectCode  string `json:"project_code"`
}

package domain

// Settings is the project configuration served by the backend once it is reachable.
type Settings struct {
	ProjectName string `json:"projectName" db:"project_name" yaml:"project_name"`
}
